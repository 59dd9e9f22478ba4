package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo is the persistent refresh-token revocation list, keyed by the
// token's jti claim. Rows survive process restarts and never transition
// back to valid.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Revoke blacklists a jti. INSERT IGNORE makes revocation idempotent:
// revoking an already-revoked token succeeds without touching the row.
func (r *TokenRepo) Revoke(ctx context.Context, jti string, userID uint64, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT IGNORE INTO revoked_tokens (jti, user_id, expires_at) VALUES (?,?,?)",
		jti, userID, expiresAt)
	return err
}

// IsRevoked reports whether a jti is on the blacklist.
func (r *TokenRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE jti=?)",
		jti).Scan(&revoked)
	return revoked, err
}

// PurgeExpired drops blacklist rows whose token would no longer validate
// anyway. Safe to run periodically; an expired token fails signature-level
// validation before the blacklist is ever consulted.
func (r *TokenRepo) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM revoked_tokens WHERE expires_at < UTC_TIMESTAMP()")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
