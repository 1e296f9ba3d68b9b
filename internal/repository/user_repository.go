package repository

import (
	"context"
	"fmt"

	"github.com/gumaan88/seafood-by-gemini-sub000/internal/docstore"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/domain"
)

type UserRepository struct {
	store *docstore.Store
}

func NewUserRepository(store *docstore.Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	ref, err := docstore.Doc(UsersCollection, user.UID)
	if err != nil {
		return err
	}
	doc, err := encodeDoc(user)
	if err != nil {
		return err
	}
	return r.store.SetDoc(ctx, ref, doc)
}

func (r *UserRepository) GetUser(ctx context.Context, uid string) (*domain.User, error) {
	ref, err := docstore.Doc(UsersCollection, uid)
	if err != nil {
		return nil, err
	}
	result, err := r.store.GetDoc(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !result.Exists {
		return nil, fmt.Errorf("user %s: %w", uid, docstore.ErrNotFound)
	}
	user := &domain.User{}
	if err := decodeDoc(result.Data, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) CreateProviderProfile(ctx context.Context, profile *domain.ProviderProfile) error {
	ref, err := docstore.Doc(ProviderProfilesCollection, profile.ProviderID)
	if err != nil {
		return err
	}
	doc, err := encodeDoc(profile)
	if err != nil {
		return err
	}
	return r.store.SetDoc(ctx, ref, doc)
}

func (r *UserRepository) GetProviderProfile(ctx context.Context, providerID string) (*domain.ProviderProfile, error) {
	ref, err := docstore.Doc(ProviderProfilesCollection, providerID)
	if err != nil {
		return nil, err
	}
	result, err := r.store.GetDoc(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !result.Exists {
		return nil, fmt.Errorf("provider profile %s: %w", providerID, docstore.ErrNotFound)
	}
	profile := &domain.ProviderProfile{}
	if err := decodeDoc(result.Data, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ReplaceSavedCategories overwrites the ordered category list on the profile.
func (r *UserRepository) ReplaceSavedCategories(ctx context.Context, providerID string, categories []string) error {
	ref, err := docstore.Doc(ProviderProfilesCollection, providerID)
	if err != nil {
		return err
	}
	return r.store.UpdateDoc(ctx, ref, docstore.Document{"savedCategories": categories})
}

// IncrementFollowers adjusts the aggregate follower counter via the store's
// increment sentinel, so no read-modify-write cycle is needed.
func (r *UserRepository) IncrementFollowers(ctx context.Context, providerID string, delta int64) error {
	ref, err := docstore.Doc(ProviderProfilesCollection, providerID)
	if err != nil {
		return err
	}
	return r.store.UpdateDoc(ctx, ref, docstore.Document{"followersCount": docstore.Increment(delta)})
}
