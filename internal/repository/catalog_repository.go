package repository

import (
	"context"
	"fmt"

	"github.com/gumaan88/seafood-by-gemini-sub000/internal/docstore"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/domain"
)

type CatalogRepository struct {
	store *docstore.Store
}

func NewCatalogRepository(store *docstore.Store) *CatalogRepository {
	return &CatalogRepository{store: store}
}

func (r *CatalogRepository) CreateItem(ctx context.Context, item *domain.CatalogItem) (string, error) {
	doc, err := encodeDoc(item)
	if err != nil {
		return "", err
	}
	delete(doc, "id")
	id, err := r.store.AddDoc(ctx, docstore.Collection(CatalogItemsCollection), doc)
	if err != nil {
		return "", err
	}
	item.ID = id
	return id, nil
}

func (r *CatalogRepository) GetItem(ctx context.Context, id string) (*domain.CatalogItem, error) {
	ref, err := docstore.Doc(CatalogItemsCollection, id)
	if err != nil {
		return nil, err
	}
	result, err := r.store.GetDoc(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !result.Exists {
		return nil, fmt.Errorf("catalog item %s: %w", id, docstore.ErrNotFound)
	}
	item := &domain.CatalogItem{}
	if err := decodeDoc(result.Data, item); err != nil {
		return nil, err
	}
	item.ID = id
	return item, nil
}

func (r *CatalogRepository) UpdateItem(ctx context.Context, id string, fields docstore.Document) error {
	ref, err := docstore.Doc(CatalogItemsCollection, id)
	if err != nil {
		return err
	}
	return r.store.UpdateDoc(ctx, ref, fields)
}

// ItemsByProvider lists a provider's catalog, optionally only active items.
func (r *CatalogRepository) ItemsByProvider(ctx context.Context, providerID string, activeOnly bool) ([]*domain.CatalogItem, error) {
	clauses := []any{docstore.Where("providerId", "==", providerID)}
	if activeOnly {
		clauses = append(clauses, docstore.Where("isActive", "==", true))
	}
	query := docstore.NewQuery(docstore.Collection(CatalogItemsCollection), clauses...)

	result, err := r.store.GetDocs(ctx, query)
	if err != nil {
		return nil, err
	}

	items := make([]*domain.CatalogItem, 0, result.Count)
	for _, snap := range result.Docs {
		item := &domain.CatalogItem{}
		if err := decodeDoc(snap.Data, item); err != nil {
			return nil, err
		}
		item.ID = snap.ID
		items = append(items, item)
	}
	return items, nil
}

// DeactivateItem soft-deletes: the item disappears from new-offering creation
// but keeps its historical linkage.
func (r *CatalogRepository) DeactivateItem(ctx context.Context, id string) error {
	ref, err := docstore.Doc(CatalogItemsCollection, id)
	if err != nil {
		return err
	}
	return r.store.UpdateDoc(ctx, ref, docstore.Document{"isActive": false})
}

// DeleteItem hard-deletes an item with no offering history.
func (r *CatalogRepository) DeleteItem(ctx context.Context, id string) error {
	ref, err := docstore.Doc(CatalogItemsCollection, id)
	if err != nil {
		return err
	}
	return r.store.DeleteDoc(ctx, ref)
}
