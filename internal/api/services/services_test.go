package services

import (
	"context"
	"net/url"
	"testing"

	"github.com/rohits-web03/referly/internal/auth"
	"github.com/rohits-web03/referly/internal/config"
	"github.com/rohits-web03/referly/internal/models"
	"github.com/rohits-web03/referly/internal/repositories"
	"github.com/rohits-web03/referly/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memAdminStore struct {
	users []*models.User
}

func (m *memAdminStore) FindAdmin(context.Context) (*models.User, error) {
	for _, u := range m.users {
		if u.IsAdmin {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memAdminStore) CreateUser(_ context.Context, u *models.User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email || existing.UserID == u.UserID {
			return repositories.ErrDuplicateUser
		}
	}
	m.users = append(m.users, u)
	return nil
}

func TestEnsureAdmin(t *testing.T) {
	store := &memAdminStore{}
	cfg := config.AdminConfig{Name: "Admin", Email: "admin@example.com", Password: "admin123"}

	admin, created, err := EnsureAdmin(context.Background(), store, cfg)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, admin.IsAdmin)
	assert.Nil(t, admin.ReferredBy)
	assert.Regexp(t, utils.UserIDPattern, admin.UserID)
	assert.True(t, auth.CheckPassword("admin123", admin.Password))

	again, created, err := EnsureAdmin(context.Background(), store, cfg)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, admin, again)
	assert.Len(t, store.users, 1)
}

func TestEnsureAdminFixedID(t *testing.T) {
	store := &memAdminStore{}
	admin, _, err := EnsureAdmin(context.Background(), store, config.AdminConfig{
		Name: "Admin", Email: "admin@example.com", Password: "admin123", UserID: "USERADMIN001",
	})
	require.NoError(t, err)
	assert.Equal(t, "USERADMIN001", admin.UserID)
}

func TestEnsureAdminEmailTakenByMember(t *testing.T) {
	store := &memAdminStore{users: []*models.User{
		{Email: "admin@example.com", UserID: "USERMEMBER001"},
	}}

	_, created, err := EnsureAdmin(context.Background(), store, config.AdminConfig{
		Name: "Admin", Email: "admin@example.com", Password: "admin123",
	})
	require.Error(t, err)
	assert.False(t, created)
	assert.ErrorIs(t, err, repositories.ErrDuplicateUser)
	assert.Contains(t, err.Error(), "admin@example.com")
	assert.Contains(t, err.Error(), "non-admin account")
}

func TestEnsureAdminNeedsPassword(t *testing.T) {
	_, _, err := EnsureAdmin(context.Background(), &memAdminStore{}, config.AdminConfig{Email: "admin@example.com"})
	assert.Error(t, err)
}

func TestGoogleAuthCodeURL(t *testing.T) {
	g := NewGoogleOAuth(config.GoogleConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/api/auth/google/callback",
	})

	u, err := url.Parse(g.AuthCodeURL("state-123"))
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", u.Host)
	assert.Equal(t, "client-id", u.Query().Get("client_id"))
	assert.Equal(t, "state-123", u.Query().Get("state"))
	assert.Equal(t, "http://localhost:8080/api/auth/google/callback", u.Query().Get("redirect_uri"))
}
