package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bluestock/ipo-api/internal/domain/entity"
	"github.com/bluestock/ipo-api/internal/domain/repository"
)

type IPORepository struct {
	db DBTX
}

func NewIPORepository(db DBTX) *IPORepository {
	return &IPORepository{db: db}
}

const ipoColumns = `id, company_name, price_band, open_date, close_date, issue_size,
		issue_type, listing_date, status, ipo_price, listing_price,
		listing_gain, listed_date, current_market_price, current_return,
		rhp_link, drhp_link`

func (r *IPORepository) Create(ctx context.Context, ipo *entity.IPO) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO ipo_info (
			company_name, price_band, open_date, close_date, issue_size,
			issue_type, listing_date, status, ipo_price, listing_price,
			listing_gain, listed_date, current_market_price, current_return,
			rhp_link, drhp_link
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`,
		ipo.CompanyName, ipo.PriceBand, ipo.OpenDate, ipo.CloseDate, ipo.IssueSize,
		ipo.IssueType, ipo.ListingDate, ipo.Status, ipo.IPOPrice, ipo.ListingPrice,
		ipo.ListingGain, ipo.ListedDate, ipo.CurrentMarketPrice, ipo.CurrentReturn,
		ipo.RHPLink, ipo.DRHPLink,
	).Scan(&ipo.ID)
	if err != nil {
		return dbErr(err)
	}
	return nil
}

func (r *IPORepository) List(ctx context.Context) ([]entity.IPO, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+ipoColumns+` FROM ipo_info ORDER BY id`)
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	var out []entity.IPO
	for rows.Next() {
		ipo, err := scanIPO(rows)
		if err != nil {
			return nil, dbErr(err)
		}
		out = append(out, *ipo)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err)
	}
	return out, nil
}

func (r *IPORepository) GetByID(ctx context.Context, id int64) (*entity.IPO, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+ipoColumns+` FROM ipo_info WHERE id = $1`, id)
	ipo, err := scanIPO(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, dbErr(err)
	}
	return ipo, nil
}

func (r *IPORepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ipo_info WHERE id = $1`, id)
	if err != nil {
		return dbErr(err)
	}
	return requireRow(res)
}

func (r *IPORepository) Stats(ctx context.Context) (entity.IPOStats, error) {
	var s entity.IPOStats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE listing_gain > 0),
			COUNT(*) FILTER (WHERE listing_gain < 0)
		FROM ipo_info
	`).Scan(&s.Total, &s.Gain, &s.Loss)
	if err != nil {
		return entity.IPOStats{}, dbErr(err)
	}
	return s, nil
}

func (r *IPORepository) SetDocumentLink(ctx context.Context, id int64, kind entity.DocumentKind, url string) error {
	var query string
	switch kind {
	case entity.DocumentRHP:
		query = `UPDATE ipo_info SET rhp_link = $1 WHERE id = $2`
	case entity.DocumentDRHP:
		query = `UPDATE ipo_info SET drhp_link = $1 WHERE id = $2`
	default:
		return fmt.Errorf("unknown document kind %q", kind)
	}
	res, err := r.db.ExecContext(ctx, query, url, id)
	if err != nil {
		return dbErr(err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return dbErr(err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIPO(s rowScanner) (*entity.IPO, error) {
	var ipo entity.IPO
	err := s.Scan(
		&ipo.ID, &ipo.CompanyName, &ipo.PriceBand, &ipo.OpenDate, &ipo.CloseDate, &ipo.IssueSize,
		&ipo.IssueType, &ipo.ListingDate, &ipo.Status, &ipo.IPOPrice, &ipo.ListingPrice,
		&ipo.ListingGain, &ipo.ListedDate, &ipo.CurrentMarketPrice, &ipo.CurrentReturn,
		&ipo.RHPLink, &ipo.DRHPLink,
	)
	if err != nil {
		return nil, err
	}
	return &ipo, nil
}

var _ repository.IPORepository = (*IPORepository)(nil)
