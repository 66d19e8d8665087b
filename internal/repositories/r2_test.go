package repositories

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/rohits-web03/referly/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestR2StorePresignAndPublicURL(t *testing.T) {
	cfg := config.R2Config{
		AccountID:       "acct",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		BucketName:      "referly",
		Region:          "auto",
	}

	store := NewR2Store(cfg)
	assert.Equal(t, "https://acct.r2.cloudflarestorage.com/referly/qrcodes/a.png", store.PublicURL("qrcodes/a.png"))

	raw, err := store.PresignPut(context.Background(), "qrcodes/a.png", "image/png", 15*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "acct.r2.cloudflarestorage.com", u.Host)
	assert.Equal(t, "/referly/qrcodes/a.png", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))

	cfg.PublicBaseURL = "https://cdn.example"
	assert.Equal(t, "https://cdn.example/qrcodes/a.png", NewR2Store(cfg).PublicURL("qrcodes/a.png"))
}
