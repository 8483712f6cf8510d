package repository

import (
	"context"

	"github.com/bluestock/ipo-api/internal/domain/entity"
)

// IPORepository is the data-access layer over ipo_info.
type IPORepository interface {
	Create(ctx context.Context, ipo *entity.IPO) error
	List(ctx context.Context) ([]entity.IPO, error)
	GetByID(ctx context.Context, id int64) (*entity.IPO, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (entity.IPOStats, error)
	SetDocumentLink(ctx context.Context, id int64, kind entity.DocumentKind, url string) error
}
