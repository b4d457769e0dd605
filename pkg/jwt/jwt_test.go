package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing-purposes"

func TestGenerate(t *testing.T) {
	manager := NewManager(testSecret, time.Hour, "flightsync")

	token, err := manager.Generate(42, "jane@example.com", "customer")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := manager.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.CustomerID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "customer", claims.Role)
	assert.Equal(t, "flightsync", claims.Issuer)
	assert.Equal(t, "42", claims.Subject)
}

func TestValidate(t *testing.T) {
	manager := NewManager(testSecret, time.Hour, "flightsync")

	t.Run("Admin Role Claim", func(t *testing.T) {
		token, err := manager.Generate(1, "admin@example.com", "admin")
		require.NoError(t, err)

		claims, err := manager.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		other := NewManager("a-completely-different-secret", time.Hour, "flightsync")
		token, err := other.Generate(1, "jane@example.com", "customer")
		require.NoError(t, err)

		_, err = manager.Validate(token)
		assert.Error(t, err)
	})

	t.Run("Expired Token", func(t *testing.T) {
		expired := NewManager(testSecret, -time.Minute, "flightsync")
		token, err := expired.Generate(1, "jane@example.com", "customer")
		require.NoError(t, err)

		_, err = manager.Validate(token)
		assert.Error(t, err)
	})

	t.Run("Malformed Token", func(t *testing.T) {
		_, err := manager.Validate("not.a.token")
		assert.Error(t, err)
	})

	t.Run("Wrong Signing Method", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Subject: "1",
		})
		unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = manager.Validate(unsigned)
		assert.Error(t, err)
	})
}
