package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bluestock/ipo-api/internal/domain/entity"
	repo "github.com/bluestock/ipo-api/internal/domain/repository"
)

// PasswordHasher is a salted one-way password hash. Verify must return false
// rather than fail on a malformed hash.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// ResetTokenGenerator issues a random reset token and its expiry.
type ResetTokenGenerator interface {
	Generate() (token string, expiry time.Time, err error)
}

// ResetNotice is what the out-of-band channel needs to deliver a reset link.
type ResetNotice struct {
	UserID    int64
	Name      string
	Email     string
	Token     string
	ExpiresAt time.Time
}

// ResetNotifier delivers reset tokens out of band, e.g. by email.
type ResetNotifier interface {
	NotifyPasswordReset(ctx context.Context, n ResetNotice) error
}

type SignupInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required"`
}

type ResetPasswordInput struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// ResetTicket is the token pair persisted by ForgotPassword.
type ResetTicket struct {
	Token     string
	ExpiresAt time.Time
}

// AuthService implements signup, login and the password reset lifecycle.
//
// A user is idle while it has no reset token. ForgotPassword moves it to a
// pending reset, overwriting any earlier token. ResetPassword with a matching,
// unexpired token replaces the hash and returns the user to idle. Expired
// tokens are rejected like unknown ones and left in place.
type AuthService struct {
	Users    repo.UserRepository
	Hasher   PasswordHasher
	Tokens   ResetTokenGenerator
	Notifier ResetNotifier
	Logger   *logrus.Logger
	Now      func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users repo.UserRepository, hasher PasswordHasher, tokens ResetTokenGenerator, notifier ResetNotifier, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Users:    users,
		Hasher:   hasher,
		Tokens:   tokens,
		Notifier: notifier,
		Logger:   logger,
		Now:      time.Now,
	}
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Signup stores a new user and returns its id.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (int64, error) {
	if err := validateInput(in); err != nil {
		return 0, err
	}
	if len(in.Password) > maxPasswordBytes {
		return 0, ErrPasswordTooLong
	}
	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{Name: in.Name, Email: in.Email, PasswordHash: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return 0, ErrConflict
		}
		return 0, storeErr("create user", err)
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("user signed up")
	}
	return u.ID, nil
}

// Login checks credentials. Unknown email and wrong password both return
// ErrInvalidCredentials after one bcrypt comparison.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (entity.UserSummary, error) {
	if err := validateInput(in); err != nil {
		return entity.UserSummary{}, err
	}
	u, err := s.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.Hasher.Verify(in.Password, s.fallbackHash())
			return entity.UserSummary{}, ErrInvalidCredentials
		}
		return entity.UserSummary{}, storeErr("get user by email", err)
	}
	if !s.Hasher.Verify(in.Password, u.PasswordHash) {
		return entity.UserSummary{}, ErrInvalidCredentials
	}
	return u.Summary(), nil
}

// fallbackHash is compared against when the email is unknown.
func (s *AuthService) fallbackHash() string {
	s.dummyOnce.Do(func() {
		h, err := s.Hasher.Hash("ipo-api:no-such-user")
		if err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("fallback hash unavailable")
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

// ForgotPassword issues a fresh reset token for email, replacing any pending
// one, and hands it to the notifier. The ticket is returned for debug echoing.
func (s *AuthService) ForgotPassword(ctx context.Context, in ForgotPasswordInput) (ResetTicket, error) {
	if err := validateInput(in); err != nil {
		return ResetTicket{}, err
	}
	token, expiry, err := s.Tokens.Generate()
	if err != nil {
		return ResetTicket{}, fmt.Errorf("generate reset token: %w", err)
	}
	u, err := s.Users.SetResetToken(ctx, in.Email, token, expiry)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ResetTicket{}, ErrNotFound
		}
		return ResetTicket{}, storeErr("set reset token", err)
	}

	if s.Notifier != nil {
		notice := ResetNotice{UserID: u.ID, Name: u.Name, Email: u.Email, Token: token, ExpiresAt: expiry}
		if err := s.Notifier.NotifyPasswordReset(ctx, notice); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("reset notification failed")
		}
	}
	return ResetTicket{Token: token, ExpiresAt: expiry}, nil
}

// ResetPassword consumes a valid token, replacing the password hash and
// clearing the token pair in one statement.
func (s *AuthService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	if err := validateInput(in); err != nil {
		return err
	}
	if len(in.NewPassword) > maxPasswordBytes {
		return ErrPasswordTooLong
	}
	hash, err := s.Hasher.Hash(in.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Users.ResetPassword(ctx, in.Token, hash, s.now()); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrInvalidToken
		}
		return storeErr("reset password", err)
	}
	return nil
}

// Profile returns the public view of user id.
func (s *AuthService) Profile(ctx context.Context, id int64) (entity.UserSummary, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return entity.UserSummary{}, ErrNotFound
		}
		return entity.UserSummary{}, storeErr("get user by id", err)
	}
	return u.Summary(), nil
}
