package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gumaan88/seafood-by-gemini-sub000/internal/docstore"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/domain"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/repository"
)

// CatalogService manages a provider's catalog items and the dated offerings
// created from them.
type CatalogService struct {
	catalogRepo  *repository.CatalogRepository
	offeringRepo *repository.OfferingRepository
	userRepo     *repository.UserRepository
}

func NewCatalogService(
	catalogRepo *repository.CatalogRepository,
	offeringRepo *repository.OfferingRepository,
	userRepo *repository.UserRepository,
) *CatalogService {
	return &CatalogService{
		catalogRepo:  catalogRepo,
		offeringRepo: offeringRepo,
		userRepo:     userRepo,
	}
}

func (s *CatalogService) CreateItem(ctx context.Context, item *domain.CatalogItem) (string, error) {
	if _, err := s.userRepo.GetProviderProfile(ctx, item.ProviderID); err != nil {
		return "", fmt.Errorf("provider lookup error: %w", err)
	}

	item.IsActive = true
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	id, err := s.catalogRepo.CreateItem(ctx, item)
	if err != nil {
		return "", err
	}

	log.Printf("Catalog item created: ItemID=%s, ProviderID=%s, Name=%s", id, item.ProviderID, item.Name)
	return id, nil
}

func (s *CatalogService) UpdateItem(ctx context.Context, id string, fields docstore.Document) error {
	return s.catalogRepo.UpdateItem(ctx, id, fields)
}

// DeleteItem soft-deletes when the item has offering history and
// hard-deletes otherwise, so historical linkage never breaks.
func (s *CatalogService) DeleteItem(ctx context.Context, id string) error {
	hasHistory, err := s.offeringRepo.HasOfferingsForItem(ctx, id)
	if err != nil {
		return err
	}
	if hasHistory {
		log.Printf("Catalog item deactivated (has offering history): ItemID=%s", id)
		return s.catalogRepo.DeactivateItem(ctx, id)
	}
	log.Printf("Catalog item deleted: ItemID=%s", id)
	return s.catalogRepo.DeleteItem(ctx, id)
}

func (s *CatalogService) ItemsByProvider(ctx context.Context, providerID string, activeOnly bool) ([]*domain.CatalogItem, error) {
	return s.catalogRepo.ItemsByProvider(ctx, providerID, activeOnly)
}

// CreateOffering publishes a dated, quantity-limited offering snapshotted
// from an active catalog item.
func (s *CatalogService) CreateOffering(ctx context.Context, itemID, date string, price float64, quantity int64) (*domain.Offering, error) {
	item, err := s.catalogRepo.GetItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("item lookup error: %w", err)
	}
	if !item.IsActive {
		return nil, fmt.Errorf("catalog item %s: %w", itemID, domain.ErrInactive)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("offering quantity must be positive, got %d", quantity)
	}

	offering := &domain.Offering{
		ItemID:            itemID,
		ProviderID:        item.ProviderID,
		ItemName:          item.Name,
		ItemImageURL:      item.ImageURL,
		Price:             price,
		QuantityTotal:     quantity,
		QuantityRemaining: quantity,
		Date:              date,
		IsActive:          true,
	}

	id, err := s.offeringRepo.CreateOffering(ctx, offering)
	if err != nil {
		return nil, err
	}

	log.Printf("Offering created: OfferingID=%s, ItemID=%s, Date=%s, Quantity=%d", id, itemID, date, quantity)
	return offering, nil
}

// EditOffering changes price and/or total quantity. Growing or shrinking the
// total adjusts the remaining quantity by the same delta, floored at 0. The
// read of the current quantities and the write commit under the same
// per-offering lock reservation creation uses, and the remaining quantity is
// written as an increment rather than an absolute value, so a concurrent
// restock is never overwritten.
func (s *CatalogService) EditOffering(ctx context.Context, id string, price *float64, quantityTotal *int64) error {
	lock := s.offeringRepo.Lock(id)
	lock.Lock()
	defer lock.Unlock()

	offering, err := s.offeringRepo.GetOffering(ctx, id)
	if err != nil {
		return err
	}

	fields := docstore.Document{}
	if price != nil {
		fields["price"] = *price
	}
	if quantityTotal != nil {
		if *quantityTotal < 0 {
			return fmt.Errorf("offering quantity must not be negative, got %d", *quantityTotal)
		}
		delta := *quantityTotal - offering.QuantityTotal
		if delta < -offering.QuantityRemaining {
			delta = -offering.QuantityRemaining
		}
		fields["quantityTotal"] = *quantityTotal
		if delta != 0 {
			fields["quantityRemaining"] = docstore.Increment(delta)
		}
	}
	if len(fields) == 0 {
		return nil
	}

	return s.offeringRepo.UpdateOffering(ctx, id, fields)
}

// DeactivateOffering soft-deactivates; offerings with history are never
// deleted.
func (s *CatalogService) DeactivateOffering(ctx context.Context, id string) error {
	return s.offeringRepo.DeactivateOffering(ctx, id)
}

func (s *CatalogService) OfferingsByDate(ctx context.Context, date string) ([]*domain.Offering, error) {
	return s.offeringRepo.OfferingsByDate(ctx, date)
}

func (s *CatalogService) OfferingsByProvider(ctx context.Context, providerID string) ([]*domain.Offering, error) {
	return s.offeringRepo.OfferingsByProvider(ctx, providerID)
}
