// Package repotest provides in-memory repositories that honour the same
// contracts as the postgres implementations. Each method holds the lock for
// its whole body, matching the single-statement atomicity of the SQL versions.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bluestock/ipo-api/internal/domain/entity"
	"github.com/bluestock/ipo-api/internal/domain/repository"
)

type Users struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]entity.User

	// Err, when set, is returned by every method.
	Err error
}

func NewUsers() *Users {
	return &Users{rows: map[int64]entity.User{}}
}

func (r *Users) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, row := range r.rows {
		if row.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	r.rows[u.ID] = *u
	return nil
}

func (r *Users) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	row, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (r *Users) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, row := range r.rows {
		if row.Email == email {
			return &row, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Users) SetResetToken(_ context.Context, email, token string, expiry time.Time) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for id, row := range r.rows {
		if row.Email != email {
			continue
		}
		tok, exp := token, expiry
		row.ResetToken, row.ResetTokenExpiry = &tok, &exp
		r.rows[id] = row
		return &row, nil
	}
	return nil, repository.ErrNotFound
}

func (r *Users) ResetPassword(_ context.Context, token, passwordHash string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for id, row := range r.rows {
		if row.ResetToken == nil || *row.ResetToken != token {
			continue
		}
		if !row.ResetTokenExpiry.After(now) {
			return repository.ErrNotFound
		}
		row.PasswordHash = passwordHash
		row.ResetToken, row.ResetTokenExpiry = nil, nil
		r.rows[id] = row
		return nil
	}
	return repository.ErrNotFound
}

// ExpireToken moves the reset expiry of the user with email to at.
func (r *Users) ExpireToken(email string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, row := range r.rows {
		if row.Email == email && row.ResetToken != nil {
			row.ResetTokenExpiry = &at
			r.rows[id] = row
		}
	}
}

type IPOs struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]entity.IPO

	Err error
}

func NewIPOs() *IPOs {
	return &IPOs{rows: map[int64]entity.IPO{}}
}

func (r *IPOs) Create(_ context.Context, ipo *entity.IPO) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.nextID++
	ipo.ID = r.nextID
	r.rows[ipo.ID] = *ipo
	return nil
}

func (r *IPOs) List(_ context.Context) ([]entity.IPO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]entity.IPO, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *IPOs) GetByID(_ context.Context, id int64) (*entity.IPO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	row, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (r *IPOs) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *IPOs) Stats(_ context.Context) (entity.IPOStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return entity.IPOStats{}, r.Err
	}
	var s entity.IPOStats
	for _, row := range r.rows {
		s.Total++
		if row.ListingGain == nil {
			continue
		}
		switch {
		case *row.ListingGain > 0:
			s.Gain++
		case *row.ListingGain < 0:
			s.Loss++
		}
	}
	return s, nil
}

func (r *IPOs) SetDocumentLink(_ context.Context, id int64, kind entity.DocumentKind, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	row, ok := r.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	link := url
	switch kind {
	case entity.DocumentRHP:
		row.RHPLink = &link
	case entity.DocumentDRHP:
		row.DRHPLink = &link
	}
	r.rows[id] = row
	return nil
}

var (
	_ repository.UserRepository = (*Users)(nil)
	_ repository.IPORepository  = (*IPOs)(nil)
)
