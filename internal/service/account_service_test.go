package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gumaan88/seafood-by-gemini-sub000/internal/docstore"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/domain"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/repository"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/session"
)

func newAccountService(t *testing.T) (*AccountService, *repository.UserRepository) {
	t.Helper()
	persistence := docstore.NewMemoryPersistence()
	store, err := docstore.NewStore(persistence)
	require.NoError(t, err)
	userRepo := repository.NewUserRepository(store)
	return NewAccountService(userRepo, session.NewProvider(persistence)), userRepo
}

func TestRegisterCustomer(t *testing.T) {
	service, userRepo := newAccountService(t)
	ctx := context.Background()

	user, err := service.Register(ctx, domain.RoleCustomer, "Alice", "alice@example.com", "", "")
	require.NoError(t, err)
	assert.NotEmpty(t, user.UID)
	assert.Equal(t, domain.RoleCustomer, user.Role)

	loaded, err := userRepo.GetUser(ctx, user.UID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", loaded.Name)

	// No provider profile for a customer.
	_, err = userRepo.GetProviderProfile(ctx, user.UID)
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	record, ok := service.CurrentSession()
	require.True(t, ok)
	assert.Equal(t, user.UID, record.UID)
}

func TestRegisterProviderCreatesProfile(t *testing.T) {
	service, userRepo := newAccountService(t)
	ctx := context.Background()

	user, err := service.Register(ctx, domain.RoleProvider, "Harbor Fish Co", "shop@example.com", "", "seafood")
	require.NoError(t, err)

	profile, err := userRepo.GetProviderProfile(ctx, user.UID)
	require.NoError(t, err)
	assert.Equal(t, "Harbor Fish Co", profile.Name)
	assert.Equal(t, "seafood", profile.Category)
	assert.Equal(t, int64(0), profile.FollowersCount)
}

func TestLoginLogout(t *testing.T) {
	service, _ := newAccountService(t)
	ctx := context.Background()

	user, err := service.Register(ctx, domain.RoleCustomer, "Alice", "alice@example.com", "", "")
	require.NoError(t, err)
	require.NoError(t, service.Logout())

	_, ok := service.CurrentSession()
	assert.False(t, ok)

	loggedIn, err := service.Login(ctx, user.UID)
	require.NoError(t, err)
	assert.Equal(t, user.UID, loggedIn.UID)

	record, ok := service.CurrentSession()
	require.True(t, ok)
	assert.Equal(t, user.UID, record.UID)

	_, err = service.Login(ctx, "ghost")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestFollowProvider(t *testing.T) {
	service, userRepo := newAccountService(t)
	ctx := context.Background()

	provider, err := service.Register(ctx, domain.RoleProvider, "Harbor Fish Co", "shop@example.com", "", "seafood")
	require.NoError(t, err)

	require.NoError(t, service.FollowProvider(ctx, provider.UID))
	require.NoError(t, service.SaveCategories(ctx, provider.UID, []string{"shellfish"}))

	profile, err := userRepo.GetProviderProfile(ctx, provider.UID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.FollowersCount)
	assert.Equal(t, []string{"shellfish"}, profile.SavedCategories)
}
