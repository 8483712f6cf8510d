package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluestock/ipo-api/internal/domain/entity"
	"github.com/bluestock/ipo-api/internal/domain/repository"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func TestUserCreate_Success(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)^\s*INSERT\s+INTO\s+users\s*\(name,\s*email,\s*password_hash\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,\s*created_at\s*$`).
		WithArgs("Alice", "a@x.com", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), created))

	u := &entity.User{Name: "Alice", Email: "a@x.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, created, u.CreatedAt)
}

func TestUserCreate_UniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WithArgs("Alice", "a@x.com", "hash").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := repo.Create(context.Background(), &entity.User{Name: "Alice", Email: "a@x.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserCreate_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	boom := errors.New("boom")

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).WillReturnError(boom)

	err := repo.Create(context.Background(), &entity.User{})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserGetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	expiry := created.Add(time.Hour)
	cols := []string{"id", "name", "email", "password_hash", "reset_token", "reset_token_expiry", "created_at"}

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*name,\s*email,\s*password_hash,\s*reset_token,\s*reset_token_expiry,\s*created_at\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1$`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(1), "Alice", "a@x.com", "hash", "tok", expiry, created))

	u, err := repo.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)
	require.NotNil(t, u.ResetToken)
	assert.Equal(t, "tok", *u.ResetToken)
	assert.Equal(t, expiry, *u.ResetTokenExpiry)

	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+email`).
		WithArgs("b@x.com").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(2), "Bob", "b@x.com", "hash", nil, nil, created))

	u, err = repo.GetByEmail(context.Background(), "b@x.com")
	require.NoError(t, err)
	assert.Nil(t, u.ResetToken)
	assert.Nil(t, u.ResetTokenExpiry)
}

func TestUserGetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserSetResetToken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	expiry := time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)
	q := `(?s)^\s*UPDATE\s+users\s+SET\s+reset_token\s*=\s*\$1,\s*reset_token_expiry\s*=\s*\$2\s+WHERE\s+email\s*=\s*\$3\s+RETURNING\s+id,\s*name,\s*email\s*$`

	mock.ExpectQuery(q).
		WithArgs("tok", expiry, "a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).AddRow(int64(1), "Alice", "a@x.com"))

	u, err := repo.SetResetToken(context.Background(), "a@x.com", "tok", expiry)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "tok", *u.ResetToken)
	assert.Equal(t, expiry, *u.ResetTokenExpiry)

	mock.ExpectQuery(q).
		WithArgs("tok", expiry, "ghost@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}))

	_, err = repo.SetResetToken(context.Background(), "ghost@x.com", "tok", expiry)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserResetPassword(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	now := time.Date(2024, 1, 1, 0, 30, 0, 0, time.UTC)
	q := `(?s)^\s*UPDATE\s+users\s+SET\s+password_hash\s*=\s*\$1,\s*reset_token\s*=\s*NULL,\s*reset_token_expiry\s*=\s*NULL\s+WHERE\s+reset_token\s*=\s*\$2\s+AND\s+reset_token_expiry\s*>\s*\$3\s*$`

	mock.ExpectExec(q).WithArgs("newhash", "tok", now).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.ResetPassword(context.Background(), "tok", "newhash", now))

	mock.ExpectExec(q).WithArgs("newhash", "stale", now).WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.ResetPassword(context.Background(), "stale", "newhash", now)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	boom := errors.New("boom")
	mock.ExpectExec(q).WithArgs("newhash", "tok", now).WillReturnError(boom)
	err = repo.ResetPassword(context.Background(), "tok", "newhash", now)
	assert.ErrorIs(t, err, boom)
}
