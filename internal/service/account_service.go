package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gumaan88/seafood-by-gemini-sub000/internal/domain"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/repository"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/session"
)

// AccountService registers users and manages the current session. The core
// never validates that a caller identity is authentic; authentication proper
// is an external collaborator.
type AccountService struct {
	userRepo *repository.UserRepository
	sessions *session.Provider
}

func NewAccountService(userRepo *repository.UserRepository, sessions *session.Provider) *AccountService {
	return &AccountService{
		userRepo: userRepo,
		sessions: sessions,
	}
}

// Register creates the user and, for providers, the one-to-one provider
// profile, then persists the session record.
func (s *AccountService) Register(ctx context.Context, role domain.Role, name, email, phone, category string) (*domain.User, error) {
	user := &domain.User{
		UID:       s.sessions.NewUID(),
		Role:      role,
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: time.Now(),
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("user create error: %v", err)
	}

	if role == domain.RoleProvider {
		profile := &domain.ProviderProfile{
			ProviderID: user.UID,
			Name:       name,
			Category:   category,
		}
		if err := s.userRepo.CreateProviderProfile(ctx, profile); err != nil {
			return nil, fmt.Errorf("provider profile create error: %v", err)
		}
	}

	if err := s.sessions.SignIn(session.Record{UID: user.UID, Email: email, DisplayName: name}); err != nil {
		log.Printf("Session persist failed: %v", err)
	}

	log.Printf("User registered: UID=%s, Role=%s", user.UID, role)
	return user, nil
}

// Login resolves an existing user and persists the session record.
func (s *AccountService) Login(ctx context.Context, uid string) (*domain.User, error) {
	user, err := s.userRepo.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.SignIn(session.Record{UID: user.UID, Email: user.Email, DisplayName: user.Name}); err != nil {
		log.Printf("Session persist failed: %v", err)
	}
	return user, nil
}

func (s *AccountService) Logout() error {
	return s.sessions.SignOut()
}

func (s *AccountService) CurrentSession() (session.Record, bool) {
	return s.sessions.Current()
}

// SaveCategories replaces the provider's ordered saved-category list.
func (s *AccountService) SaveCategories(ctx context.Context, providerID string, categories []string) error {
	return s.userRepo.ReplaceSavedCategories(ctx, providerID, categories)
}

// FollowProvider bumps the provider's follower counter.
func (s *AccountService) FollowProvider(ctx context.Context, providerID string) error {
	return s.userRepo.IncrementFollowers(ctx, providerID, 1)
}
