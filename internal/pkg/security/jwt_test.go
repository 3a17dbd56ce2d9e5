package security

import (
	"StartLinker/internal/api/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupJWTConfig(t *testing.T) {
	t.Helper()
	old := config.Cfg
	config.Cfg = &config.Config{
		JWT: config.JWTConfig{Secret: "unit-test-secret", ExpireHours: 1},
	}
	t.Cleanup(func() { config.Cfg = old })
}

func TestGenerateAndValidateToken(t *testing.T) {
	setupJWTConfig(t)

	token, err := GenerateToken(42, []string{"USER", "ADMIN"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, []string{"USER", "ADMIN"}, claims.Roles)
	assert.Equal(t, "StartLinker", claims.Issuer)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	setupJWTConfig(t)

	token, err := GenerateToken(42, nil)
	require.NoError(t, err)

	config.Cfg.JWT.Secret = "another-secret"
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	setupJWTConfig(t)

	_, err := ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestExtractSignature(t *testing.T) {
	setupJWTConfig(t)

	token, err := GenerateToken(42, nil)
	require.NoError(t, err)

	sig, err := ExtractSignature(token)
	require.NoError(t, err)
	assert.NotEmpty(t, sig)

	_, err = ExtractSignature("only.two")
	assert.Error(t, err)
}
