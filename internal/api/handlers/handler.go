package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rohits-web03/referly/internal/api/services"
	"github.com/rohits-web03/referly/internal/auth"
	"github.com/rohits-web03/referly/internal/models"
	"github.com/sirupsen/logrus"
)

// Store is the persistence the handlers need; *repositories.Store satisfies it.
type Store interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByUserID(ctx context.Context, userID string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)
	ListReferrals(ctx context.Context, userID string) ([]models.User, error)
	ReferralCounts(ctx context.Context) (map[string]int64, error)
	CountUsersSince(ctx context.Context, since time.Time) (int64, error)

	GetQRCode(ctx context.Context) (*models.QRCode, error)
	SaveQRCode(ctx context.Context, payload string) error
	DeleteQRCodes(ctx context.Context) (int64, error)
}

// ObjectStore holds QR images uploaded straight from the browser.
type ObjectStore interface {
	PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
	ObjectExists(ctx context.Context, key string) (bool, error)
	PublicURL(key string) string
}

// GoogleProvider runs the OAuth code flow against Google.
type GoogleProvider interface {
	AuthCodeURL(state string) string
	FetchProfile(ctx context.Context, code string) (*services.GoogleProfile, error)
}

type Options struct {
	Store  Store
	Tokens *auth.TokenManager
	Log    *logrus.Logger

	// Optional integrations; nil disables the matching endpoints.
	Objects ObjectStore
	Google  GoogleProvider

	FrontendURL   string
	SecureCookies bool
}

type Handler struct {
	store   Store
	tokens  *auth.TokenManager
	log     *logrus.Logger
	objects ObjectStore
	google  GoogleProvider

	frontendURL   string
	secureCookies bool
	now           func() time.Time
}

func New(opts Options) *Handler {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{
		store:         opts.Store,
		tokens:        opts.Tokens,
		log:           log,
		objects:       opts.Objects,
		google:        opts.Google,
		frontendURL:   opts.FrontendURL,
		secureCookies: opts.SecureCookies,
		now:           time.Now,
	}
}

const maxJSONBody = 1 << 20 // 1 MB

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return ValidationError("Invalid input")
	}
	return nil
}

type userProfile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	UserID  string `json:"userId"`
	IsAdmin bool   `json:"isAdmin"`
}

func profileOf(u *models.User) userProfile {
	return userProfile{
		Name:    u.Name,
		Email:   u.Email,
		UserID:  u.UserID,
		IsAdmin: u.IsAdmin,
	}
}
