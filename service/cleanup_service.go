package service

import (
	"context"
	"go-finance-api/logger"
	"go-finance-api/repository"
)

// TokenCleanupService purges expired rows from the refresh token ledger.
// Expired rows are already ignored by lookups; purging only reclaims space.
type TokenCleanupService struct {
	tokens repository.ITokenRepository
}

func NewTokenCleanupService(tokens repository.ITokenRepository) *TokenCleanupService {
	return &TokenCleanupService{tokens: tokens}
}

func (s *TokenCleanupService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.tokens.DeleteExpired(ctx)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to purge expired refresh tokens")
		return 0, err
	}
	logger.Log.WithField("deleted", n).Info("Purged expired refresh tokens")
	return n, nil
}
