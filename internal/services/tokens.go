package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tasktracker/internal/models"
	"tasktracker/internal/session"

	"github.com/golang-jwt/jwt/v5"
)

type RefreshTokenStore interface {
	Issue(ctx context.Context, username string, ttl time.Duration) (string, error)
	Consume(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

type TokenConfig struct {
	Secret          string
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type TokenService interface {
	Issue(ctx context.Context, user *models.User) (*TokenPair, error)
	ParseAccessToken(tokenStr string) (*Claims, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Revoke(ctx context.Context, refreshToken string) error
}

type TokenServiceImpl struct {
	config   TokenConfig
	refresh  RefreshTokenStore
	accounts AccountService
	now      func() time.Time
}

func NewTokenService(config TokenConfig, refresh RefreshTokenStore, accounts AccountService) *TokenServiceImpl {
	return &TokenServiceImpl{
		config:   config,
		refresh:  refresh,
		accounts: accounts,
		now:      time.Now,
	}
}

func (s *TokenServiceImpl) Issue(ctx context.Context, user *models.User) (*TokenPair, error) {
	now := s.now()
	claims := Claims{
		Role: user.Authority(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.AccessTokenTTL)),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := s.refresh.Issue(ctx, user.Username, s.config.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.config.AccessTokenTTL.Seconds()),
	}, nil
}

func (s *TokenServiceImpl) ParseAccessToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.config.Secret), nil
	},
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Refresh rotates a refresh token. The presented token is consumed even
// when the account it was issued to no longer exists.
func (s *TokenServiceImpl) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	username, err := s.refresh.Consume(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrTokenNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	user, err := s.accounts.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	return s.Issue(ctx, user)
}

func (s *TokenServiceImpl) Revoke(ctx context.Context, refreshToken string) error {
	if err := s.refresh.Revoke(ctx, refreshToken); err != nil {
		if errors.Is(err, session.ErrTokenNotFound) {
			return ErrInvalidRefreshToken
		}
		return err
	}
	return nil
}
