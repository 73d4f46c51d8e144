package push

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationBytes(t *testing.T) {
	payload, err := Notification{Title: "Hi", Message: "there"}.Bytes()
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Hi","message":"there"}`, string(payload))
}

func TestDeliveryError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &DeliveryError{Endpoint: "https://push.example/abc", Err: cause}

	assert.Contains(t, err.Error(), "https://push.example/abc")
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
}

func TestLoadConfig(t *testing.T) {
	t.Run("uses keys from environment", func(t *testing.T) {
		t.Setenv("VAPID_SUBJECT", "mailto:ops@example.com")
		t.Setenv("VAPID_PUBLIC_KEY", "pub")
		t.Setenv("VAPID_PRIVATE_KEY", "priv")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "mailto:ops@example.com", cfg.Subject)
		assert.Equal(t, "pub", cfg.PublicKey)
		assert.Equal(t, "priv", cfg.PrivateKey)
		assert.Equal(t, defaultTTL, cfg.TTL)
	})

	t.Run("generates keys when missing", func(t *testing.T) {
		t.Setenv("VAPID_SUBJECT", "")
		t.Setenv("VAPID_PUBLIC_KEY", "")
		t.Setenv("VAPID_PRIVATE_KEY", "")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.NotEmpty(t, cfg.PublicKey)
		assert.NotEmpty(t, cfg.PrivateKey)
		assert.Equal(t, "mailto:admin@example.com", cfg.Subject)
	})
}
