package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRepo_Revoke(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	exp := time.Now().Add(24 * time.Hour).UTC()
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT IGNORE INTO revoked_tokens (jti, user_id, expires_at) VALUES (?,?,?)")).
		WithArgs("jti-1", 7, exp).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewTokenRepo(db)
	require.NoError(t, repo.Revoke(context.Background(), "jti-1", 7, exp))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Revoking the same jti twice must succeed both times; INSERT IGNORE
// reports zero affected rows the second time and that is fine.
func TestTokenRepo_RevokeIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	exp := time.Now().Add(24 * time.Hour).UTC()
	mock.ExpectExec("INSERT IGNORE INTO revoked_tokens").
		WithArgs("jti-1", 7, exp).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT IGNORE INTO revoked_tokens").
		WithArgs("jti-1", 7, exp).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewTokenRepo(db)
	require.NoError(t, repo.Revoke(context.Background(), "jti-1", 7, exp))
	require.NoError(t, repo.Revoke(context.Background(), "jti-1", 7, exp))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepo_IsRevoked(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE jti=?)")).
		WithArgs("jti-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("jti-2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	repo := NewTokenRepo(db)

	revoked, err := repo.IsRevoked(context.Background(), "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = repo.IsRevoked(context.Background(), "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepo_PurgeExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM revoked_tokens WHERE expires_at").
		WillReturnResult(sqlmock.NewResult(0, 3))

	repo := NewTokenRepo(db)
	n, err := repo.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
