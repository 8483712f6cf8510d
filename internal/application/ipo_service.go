package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bluestock/ipo-api/internal/domain/entity"
	repo "github.com/bluestock/ipo-api/internal/domain/repository"
)

// IPOIndex is a secondary full-text index over IPO records.
type IPOIndex interface {
	Index(ctx context.Context, ipo entity.IPO) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query string, limit int) ([]entity.IPO, error)
}

// DocumentStore persists uploaded files and returns their public URL.
type DocumentStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// RegisterIPOInput carries the columns of a new ipo_info row.
type RegisterIPOInput struct {
	CompanyName        string        `json:"company_name" validate:"required"`
	PriceBand          string        `json:"price_band" validate:"required"`
	OpenDate           *entity.Date  `json:"open_date"`
	CloseDate          *entity.Date  `json:"close_date"`
	IssueSize          string        `json:"issue_size" validate:"required"`
	IssueType          string        `json:"issue_type" validate:"required"`
	ListingDate        *entity.Date  `json:"listing_date"`
	Status             string        `json:"status" validate:"required"`
	IPOPrice           entity.Number `json:"ipo_price"`
	ListingPrice       entity.Number `json:"listing_price"`
	ListingGain        entity.Number `json:"listing_gain"`
	ListedDate         *entity.Date  `json:"listed_date"`
	CurrentMarketPrice entity.Number `json:"current_market_price"`
	CurrentReturn      entity.Number `json:"current_return"`
	RHPLink            *string       `json:"rhp_link"`
	DRHPLink           *string       `json:"drhp_link"`
}

func (in RegisterIPOInput) toEntity() entity.IPO {
	return entity.IPO{
		CompanyName:        in.CompanyName,
		PriceBand:          in.PriceBand,
		OpenDate:           in.OpenDate,
		CloseDate:          in.CloseDate,
		IssueSize:          in.IssueSize,
		IssueType:          in.IssueType,
		ListingDate:        in.ListingDate,
		Status:             in.Status,
		IPOPrice:           in.IPOPrice.Ptr(),
		ListingPrice:       in.ListingPrice.Ptr(),
		ListingGain:        in.ListingGain.Ptr(),
		ListedDate:         in.ListedDate,
		CurrentMarketPrice: in.CurrentMarketPrice.Ptr(),
		CurrentReturn:      in.CurrentReturn.Ptr(),
		RHPLink:            in.RHPLink,
		DRHPLink:           in.DRHPLink,
	}
}

// IPOService is the IPO registry. Index and Documents are optional.
type IPOService struct {
	Repo      repo.IPORepository
	Index     IPOIndex
	Documents DocumentStore
	Logger    *logrus.Logger
}

func NewIPOService(r repo.IPORepository, index IPOIndex, docs DocumentStore, logger *logrus.Logger) *IPOService {
	return &IPOService{Repo: r, Index: index, Documents: docs, Logger: logger}
}

func (s *IPOService) Register(ctx context.Context, in RegisterIPOInput) (int64, error) {
	if err := validateInput(in); err != nil {
		return 0, err
	}
	ipo := in.toEntity()
	if err := s.Repo.Create(ctx, &ipo); err != nil {
		return 0, storeErr("create ipo", err)
	}
	s.reindex(ctx, ipo)
	return ipo.ID, nil
}

// List returns every record. An empty table is ErrEmptyResult, not an empty slice.
func (s *IPOService) List(ctx context.Context) ([]entity.IPO, error) {
	rows, err := s.Repo.List(ctx)
	if err != nil {
		return nil, storeErr("list ipos", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyResult
	}
	return rows, nil
}

func (s *IPOService) Get(ctx context.Context, id int64) (*entity.IPO, error) {
	ipo, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get ipo", err)
	}
	return ipo, nil
}

func (s *IPOService) Delete(ctx context.Context, id int64) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return storeErr("delete ipo", err)
	}
	if s.Index != nil {
		if err := s.Index.Delete(ctx, id); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("ipo_id", id).Warn("search index delete failed")
		}
	}
	return nil
}

func (s *IPOService) Stats(ctx context.Context) (entity.IPOStats, error) {
	st, err := s.Repo.Stats(ctx)
	if err != nil {
		return entity.IPOStats{}, storeErr("ipo stats", err)
	}
	return st, nil
}

// Search queries the secondary index by company name, status and issue type.
func (s *IPOService) Search(ctx context.Context, query string, limit int) ([]entity.IPO, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &ValidationError{Fields: []string{"q"}}
	}
	if s.Index == nil {
		return nil, ErrUnavailable
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.Index.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search ipos: %w", err)
	}
	return rows, nil
}

// AttachDocument uploads an RHP or DRHP file and records its URL on the IPO.
func (s *IPOService) AttachDocument(ctx context.Context, id int64, kind entity.DocumentKind, filename, contentType string, r io.Reader) (string, error) {
	if !kind.Valid() {
		return "", &ValidationError{Fields: []string{"kind"}}
	}
	if s.Documents == nil {
		return "", ErrUnavailable
	}
	ipo, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".pdf"
	}
	if contentType == "" {
		contentType = "application/pdf"
	}
	objectPath := fmt.Sprintf("ipo/%d/%s%s", id, kind, ext)
	url, err := s.Documents.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectPath, err)
	}

	if err := s.Repo.SetDocumentLink(ctx, id, kind, url); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", storeErr("set document link", err)
	}
	if kind == entity.DocumentRHP {
		ipo.RHPLink = &url
	} else {
		ipo.DRHPLink = &url
	}
	s.reindex(ctx, *ipo)
	return url, nil
}

func (s *IPOService) reindex(ctx context.Context, ipo entity.IPO) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, ipo); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("ipo_id", ipo.ID).Warn("search index update failed")
	}
}
