package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/gumaan88/seafood-by-gemini-sub000/internal/docstore"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/domain"
)

type OfferingRepository struct {
	store *docstore.Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewOfferingRepository(store *docstore.Store) *OfferingRepository {
	return &OfferingRepository{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock returns the mutex serializing quantity-sensitive work on one offering.
// Every caller that reads quantityRemaining and then commits a write derived
// from that read must hold this lock across both steps.
func (r *OfferingRepository) Lock(offeringID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[offeringID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[offeringID] = lock
	}
	return lock
}

func (r *OfferingRepository) CreateOffering(ctx context.Context, offering *domain.Offering) (string, error) {
	doc, err := encodeDoc(offering)
	if err != nil {
		return "", err
	}
	delete(doc, "id")
	id, err := r.store.AddDoc(ctx, docstore.Collection(OfferingsCollection), doc)
	if err != nil {
		return "", err
	}
	offering.ID = id
	return id, nil
}

func (r *OfferingRepository) GetOffering(ctx context.Context, id string) (*domain.Offering, error) {
	ref, err := docstore.Doc(OfferingsCollection, id)
	if err != nil {
		return nil, err
	}
	result, err := r.store.GetDoc(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !result.Exists {
		return nil, fmt.Errorf("offering %s: %w", id, docstore.ErrNotFound)
	}
	offering := &domain.Offering{}
	if err := decodeDoc(result.Data, offering); err != nil {
		return nil, err
	}
	offering.ID = id
	return offering, nil
}

func (r *OfferingRepository) UpdateOffering(ctx context.Context, id string, fields docstore.Document) error {
	ref, err := docstore.Doc(OfferingsCollection, id)
	if err != nil {
		return err
	}
	return r.store.UpdateDoc(ctx, ref, fields)
}

func (r *OfferingRepository) DeactivateOffering(ctx context.Context, id string) error {
	return r.UpdateOffering(ctx, id, docstore.Document{"isActive": false})
}

// AdjustQuantityInBatch appends a quantityRemaining increment to the batch so
// the adjustment commits together with the write it belongs to.
func (r *OfferingRepository) AdjustQuantityInBatch(batch *docstore.WriteBatch, id string, delta int64) error {
	ref, err := docstore.Doc(OfferingsCollection, id)
	if err != nil {
		return err
	}
	batch.Update(ref, docstore.Document{"quantityRemaining": docstore.Increment(delta)})
	return nil
}

// OfferingsByDate lists active offerings for a calendar date, cheapest first.
func (r *OfferingRepository) OfferingsByDate(ctx context.Context, date string) ([]*domain.Offering, error) {
	query := docstore.NewQuery(docstore.Collection(OfferingsCollection),
		docstore.Where("date", "==", date),
		docstore.Where("isActive", "==", true),
		docstore.OrderBy("price", docstore.Asc),
	)
	return r.listOfferings(ctx, query)
}

func (r *OfferingRepository) OfferingsByProvider(ctx context.Context, providerID string) ([]*domain.Offering, error) {
	query := docstore.NewQuery(docstore.Collection(OfferingsCollection),
		docstore.Where("providerId", "==", providerID),
		docstore.OrderBy("date", docstore.Desc),
	)
	return r.listOfferings(ctx, query)
}

// HasOfferingsForItem reports whether the catalog item has offering history,
// which decides soft versus hard delete.
func (r *OfferingRepository) HasOfferingsForItem(ctx context.Context, itemID string) (bool, error) {
	query := docstore.NewQuery(docstore.Collection(OfferingsCollection),
		docstore.Where("itemId", "==", itemID),
	)
	result, err := r.store.GetDocs(ctx, query)
	if err != nil {
		return false, err
	}
	return result.Count > 0, nil
}

func (r *OfferingRepository) listOfferings(ctx context.Context, query docstore.QueryRef) ([]*domain.Offering, error) {
	result, err := r.store.GetDocs(ctx, query)
	if err != nil {
		return nil, err
	}
	offerings := make([]*domain.Offering, 0, result.Count)
	for _, snap := range result.Docs {
		offering := &domain.Offering{}
		if err := decodeDoc(snap.Data, offering); err != nil {
			return nil, err
		}
		offering.ID = snap.ID
		offerings = append(offerings, offering)
	}
	return offerings, nil
}
