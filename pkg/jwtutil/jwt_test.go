package jwtutil_test

import (
	"testing"

	"pharmacy-warehouse/pkg/config"
	"pharmacy-warehouse/pkg/jwtutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initConfig() {
	jwtutil.Initialize(&config.JWTConfig{
		SigningKey:      "unit-test-key",
		ExpirationHours: 1,
	})
}

func TestTokenRoundTrip(t *testing.T) {
	initConfig()

	token, err := jwtutil.GenerateToken("user@example.com", 42, "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwtutil.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	initConfig()

	token, err := jwtutil.GenerateToken("user@example.com", 42, "admin")
	require.NoError(t, err)

	_, err = jwtutil.ValidateToken(token + "x")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	initConfig()
	token, err := jwtutil.GenerateToken("user@example.com", 42, "admin")
	require.NoError(t, err)

	jwtutil.Initialize(&config.JWTConfig{SigningKey: "different-key", ExpirationHours: 1})
	defer initConfig()

	_, err = jwtutil.ValidateToken(token)
	assert.Error(t, err)
}
