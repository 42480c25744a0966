// internal/pkg/auth/password_test.go
package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
)

func passwordConfig() *config.Config {
	return &config.Config{
		Security: config.SecurityConfig{BcryptCost: 4}, // min cost keeps tests fast
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	pm := NewPasswordManager(passwordConfig())

	hash, err := pm.HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.NoError(t, pm.VerifyPassword("correct horse battery", hash))
	assert.Error(t, pm.VerifyPassword("wrong password", hash))
}

func TestValidatePasswordBounds(t *testing.T) {
	pm := NewPasswordManager(passwordConfig())

	assert.Error(t, pm.ValidatePassword("short"))
	assert.Error(t, pm.ValidatePassword(strings.Repeat("x", 73)))
	assert.NoError(t, pm.ValidatePassword("just-long-enough"))
	assert.NoError(t, pm.ValidatePassword(strings.Repeat("x", 72)))
}

func TestHashPasswordRejectsInvalid(t *testing.T) {
	pm := NewPasswordManager(passwordConfig())

	_, err := pm.HashPassword("tiny")
	assert.Error(t, err)
}
