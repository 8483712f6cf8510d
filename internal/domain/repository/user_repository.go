package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bluestock/ipo-api/internal/domain/entity"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

// UserRepository defines the credential store. Every mutating method is a
// single statement so token pairs are never observed half-written.
type UserRepository interface {
	// Create inserts u and sets u.ID. Returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// SetResetToken overwrites the token pair of the user with this email and
	// returns that user. Returns ErrNotFound when no user matches.
	SetResetToken(ctx context.Context, email, token string, expiry time.Time) (*entity.User, error)
	// ResetPassword replaces the hash and clears the token pair of the user
	// holding token, provided its expiry is after now. Returns ErrNotFound otherwise.
	ResetPassword(ctx context.Context, token, passwordHash string, now time.Time) error
}
