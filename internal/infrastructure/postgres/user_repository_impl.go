package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bluestock/ipo-api/internal/domain/entity"
	"github.com/bluestock/ipo-api/internal/domain/repository"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, password_hash, reset_token, reset_token_expiry, created_at`

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, u.Name, u.Email, u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return dbErr(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *UserRepository) SetResetToken(ctx context.Context, email, token string, expiry time.Time) (*entity.User, error) {
	u := &entity.User{}
	err := r.db.QueryRowContext(ctx, `
		UPDATE users
		SET reset_token = $1, reset_token_expiry = $2
		WHERE email = $3
		RETURNING id, name, email
	`, token, expiry, email).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, dbErr(err)
	}
	u.ResetToken, u.ResetTokenExpiry = &token, &expiry
	return u, nil
}

func (r *UserRepository) ResetPassword(ctx context.Context, token, passwordHash string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $1, reset_token = NULL, reset_token_expiry = NULL
		WHERE reset_token = $2 AND reset_token_expiry > $3
	`, passwordHash, token, now)
	if err != nil {
		return dbErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbErr(err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (*entity.User, error) {
	var (
		u      entity.User
		token  sql.NullString
		expiry sql.NullTime
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &token, &expiry, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, dbErr(err)
	}
	if token.Valid && expiry.Valid {
		u.ResetToken = &token.String
		u.ResetTokenExpiry = &expiry.Time
	}
	return &u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
