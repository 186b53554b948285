package services_test

import (
	"context"
	"testing"
	"time"

	"tasktracker/internal/models"
	"tasktracker/internal/services"
	"tasktracker/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func setupTokens(t *testing.T) (fixture, *services.TokenServiceImpl, *miniredis.Miniredis) {
	t.Helper()
	f := setup(t)

	mr := miniredis.RunT(t)
	cfg := session.DefaultStoreConfig()
	cfg.Addr = mr.Addr()
	store := session.NewRefreshStore(cfg)
	t.Cleanup(func() { _ = store.Close() })

	tokens := services.NewTokenService(services.TokenConfig{
		Secret:          testSecret,
		Issuer:          "tasktracker",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
	}, store, f.accounts)
	return f, tokens, mr
}

func TestTokenService_IssueAndParse(t *testing.T) {
	f, tokens, _ := setupTokens(t)
	user := register(t, f, "alice")

	pair, err := tokens.Issue(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(900), pair.ExpiresIn)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := tokens.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.Equal(t, "tasktracker", claims.Issuer)
}

func TestTokenService_ParseRejectsBadTokens(t *testing.T) {
	_, tokens, _ := setupTokens(t)

	sign := func(secret string, claims jwt.Claims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}
	valid := func() jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Subject:   "alice",
			Issuer:    "tasktracker",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		}
	}

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	wrongIssuer := valid()
	wrongIssuer.Issuer = "someone-else"
	noExpiry := valid()
	noExpiry.ExpiresAt = nil
	noSubject := valid()
	noSubject.Subject = ""

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"wrong secret", sign("other-secret", valid())},
		{"expired", sign(testSecret, expired)},
		{"wrong issuer", sign(testSecret, wrongIssuer)},
		{"no expiry", sign(testSecret, noExpiry)},
		{"no subject", sign(testSecret, noSubject)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.ParseAccessToken(tt.token)
			assert.ErrorIs(t, err, services.ErrInvalidToken)
		})
	}
}

func TestTokenService_RefreshRotates(t *testing.T) {
	f, tokens, _ := setupTokens(t)
	ctx := context.Background()
	user := register(t, f, "alice")

	pair, err := tokens.Issue(ctx, user)
	require.NoError(t, err)

	rotated, err := tokens.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	_, err = tokens.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, services.ErrInvalidRefreshToken)

	_, err = tokens.Refresh(ctx, rotated.RefreshToken)
	assert.NoError(t, err)
}

func TestTokenService_RefreshExpired(t *testing.T) {
	f, tokens, mr := setupTokens(t)
	ctx := context.Background()
	user := register(t, f, "alice")

	pair, err := tokens.Issue(ctx, user)
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = tokens.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, services.ErrInvalidRefreshToken)
}

func TestTokenService_RefreshForDeletedUser(t *testing.T) {
	f, tokens, _ := setupTokens(t)
	ctx := context.Background()
	user := register(t, f, "alice")

	pair, err := tokens.Issue(ctx, user)
	require.NoError(t, err)
	require.NoError(t, f.users.Delete(ctx, user))

	_, err = tokens.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, services.ErrInvalidRefreshToken)
}

func TestTokenService_Revoke(t *testing.T) {
	f, tokens, _ := setupTokens(t)
	ctx := context.Background()
	user := register(t, f, "alice")

	pair, err := tokens.Issue(ctx, user)
	require.NoError(t, err)

	require.NoError(t, tokens.Revoke(ctx, pair.RefreshToken))
	assert.ErrorIs(t, tokens.Revoke(ctx, pair.RefreshToken), services.ErrInvalidRefreshToken)

	_, err = tokens.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, services.ErrInvalidRefreshToken)
}
