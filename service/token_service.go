package service

import (
	"errors"
	"fmt"
	"go-finance-api/config"
	"go-finance-api/logger"
	"go-finance-api/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// TokenVerifier is the part of TokenService the auth middleware needs.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*model.AppClaims, error)
}

// TokenService signs and verifies access and refresh tokens. The two kinds
// share a claim shape but use separate secrets, so neither verifies as the
// other.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}

func NewTokenService(cfg config.JWTConfig) (*TokenService, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("token secrets must not be empty")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}
	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessExpiry:  cfg.AccessExpiry,
		refreshExpiry: cfg.RefreshExpiry,
		now:           time.Now,
	}, nil
}

func (s *TokenService) IssueAccessToken(userID int, email string) (string, error) {
	return s.sign(userID, email, s.accessSecret, s.accessExpiry)
}

func (s *TokenService) IssueRefreshToken(userID int, email string) (string, error) {
	return s.sign(userID, email, s.refreshSecret, s.refreshExpiry)
}

func (s *TokenService) VerifyAccessToken(token string) (*model.AppClaims, error) {
	return s.verify(token, s.accessSecret)
}

func (s *TokenService) VerifyRefreshToken(token string) (*model.AppClaims, error) {
	return s.verify(token, s.refreshSecret)
}

func (s *TokenService) sign(userID int, email string, secret []byte, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &model.AppClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}
	return signed, nil
}

// verify returns ErrTokenExpired only when the signature is good and exp has
// passed. Every other failure is ErrInvalidToken.
func (s *TokenService) verify(tokenString string, secret []byte) (*model.AppClaims, error) {
	claims := &model.AppClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) && !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
