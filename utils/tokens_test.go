package utils

import (
	"context"
	"testing"
	"time"

	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryTokens struct {
	allowed map[string]time.Duration
}

func (m *memoryTokens) Allow(_ context.Context, token string, ttl time.Duration) error {
	m.allowed[token] = ttl
	return nil
}

func (m *memoryTokens) Consume(_ context.Context, token string) (bool, error) {
	_, ok := m.allowed[token]
	delete(m.allowed, token)
	return ok, nil
}

func TestCreateTokenPair(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-secret")

	store := &memoryTokens{allowed: map[string]time.Duration{}}
	restore := Tokens
	Tokens = store
	t.Cleanup(func() { Tokens = restore })

	pair, err := CreateTokenPair(42, "owner")
	require.NoError(t, err)

	verified, err := jwt.NewVerifier(jwt.HS256, []byte("access-secret")).VerifyToken(pair.AccessToken)
	require.NoError(t, err)
	var claims AccessToken
	require.NoError(t, verified.Claims(&claims))
	assert.Equal(t, uint(42), claims.ID)
	assert.Equal(t, "owner", claims.Role)

	refresh, err := jwt.NewVerifier(jwt.HS256, []byte("refresh-secret")).VerifyToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "42", refresh.StandardClaims.Subject)

	ttl, ok := store.allowed[string(pair.RefreshToken)]
	require.True(t, ok)
	assert.Greater(t, ttl, refreshTokenTTL)

	used, err := store.Consume(context.Background(), string(pair.RefreshToken))
	require.NoError(t, err)
	assert.True(t, used)
	used, err = store.Consume(context.Background(), string(pair.RefreshToken))
	require.NoError(t, err)
	assert.False(t, used)
}

func TestCreateTokenPairWrongSecret(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-secret")
	restore := Tokens
	Tokens = nil
	t.Cleanup(func() { Tokens = restore })

	pair, err := CreateTokenPair(1, "tenant")
	require.NoError(t, err)

	_, err = jwt.NewVerifier(jwt.HS256, []byte("refresh-secret")).VerifyToken(pair.AccessToken)
	assert.Error(t, err)
}
