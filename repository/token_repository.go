// file: repository/token_repository.go

package repository

import (
	"context"
	"database/sql"
	"errors"
	"go-finance-api/logger"
	"go-finance-api/model"
	"time"

	"github.com/sirupsen/logrus"
)

// ITokenRepository defines the contract for the refresh token ledger. The
// ledger tracks revocation and expiry only; it never checks signatures.
type ITokenRepository interface {
	Store(ctx context.Context, userID int, token string) error
	Lookup(ctx context.Context, token string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID int) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// TokenRepository implements ITokenRepository on PostgreSQL.
type TokenRepository struct {
	DB  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewTokenRepository creates a ledger whose rows expire ttl after insertion.
func NewTokenRepository(db *sql.DB, ttl time.Duration) *TokenRepository {
	return &TokenRepository{DB: db, ttl: ttl, now: time.Now}
}

// Store inserts a ledger row. expires_at comes from the server clock, not
// from the token's exp claim.
func (r *TokenRepository) Store(ctx context.Context, userID int, token string) error {
	expiresAt := r.now().Add(r.ttl)
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    userID,
		"expires_at": expiresAt,
	})
	log.Info("Executing query to store a refresh token")

	query := `INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES ($1, $2, $3)`
	if _, err := r.DB.ExecContext(ctx, query, userID, token, expiresAt); err != nil {
		log.WithError(err).Error("Failed to execute store refresh token query")
		return err
	}
	return nil
}

// Lookup returns the row for token if it has not expired. Expired rows are
// reported as ErrNotFound.
func (r *TokenRepository) Lookup(ctx context.Context, token string) (*model.RefreshToken, error) {
	rt := &model.RefreshToken{}
	query := `SELECT id, user_id, token, expires_at, created_at FROM refresh_tokens WHERE token = $1 AND expires_at > NOW()`
	err := r.DB.QueryRowContext(ctx, query, token).Scan(&rt.ID, &rt.UserID, &rt.Token, &rt.ExpiresAt, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Log.WithError(err).Error("Failed to execute lookup refresh token query")
		return nil, err
	}
	return rt, nil
}

// Revoke deletes the row for token. Revoking an unknown token is not an error.
func (r *TokenRepository) Revoke(ctx context.Context, token string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, token); err != nil {
		logger.Log.WithError(err).Error("Failed to execute revoke refresh token query")
		return err
	}
	return nil
}

// RevokeAllForUser deletes every refresh token of a user.
func (r *TokenRepository) RevokeAllForUser(ctx context.Context, userID int) error {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to delete all refresh tokens for a user")

	if _, err := r.DB.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID); err != nil {
		log.WithError(err).Error("Failed to execute delete refresh tokens query")
		return err
	}
	return nil
}

// DeleteExpired purges rows whose expiry has passed and reports how many
// were removed.
func (r *TokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= NOW()`)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute delete expired refresh tokens query")
		return 0, err
	}
	return res.RowsAffected()
}
