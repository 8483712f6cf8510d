package entity

// IPO is one row of the ipo_info table. Optional columns are pointers so
// that SQL NULL round-trips as JSON null.
type IPO struct {
	ID                 int64    `json:"id"`
	CompanyName        string   `json:"company_name"`
	PriceBand          string   `json:"price_band"`
	OpenDate           *Date    `json:"open_date"`
	CloseDate          *Date    `json:"close_date"`
	IssueSize          string   `json:"issue_size"`
	IssueType          string   `json:"issue_type"`
	ListingDate        *Date    `json:"listing_date"`
	Status             string   `json:"status"`
	IPOPrice           *float64 `json:"ipo_price"`
	ListingPrice       *float64 `json:"listing_price"`
	ListingGain        *float64 `json:"listing_gain"`
	ListedDate         *Date    `json:"listed_date"`
	CurrentMarketPrice *float64 `json:"current_market_price"`
	CurrentReturn      *float64 `json:"current_return"`
	RHPLink            *string  `json:"rhp_link"`
	DRHPLink           *string  `json:"drhp_link"`
}

// IPOStats counts listings by the sign of their listing gain.
// Rows with a zero or NULL gain count only towards Total.
type IPOStats struct {
	Total int64
	Gain  int64
	Loss  int64
}

// DocumentKind names a downloadable IPO document.
type DocumentKind string

const (
	DocumentRHP  DocumentKind = "rhp"
	DocumentDRHP DocumentKind = "drhp"
)

func (k DocumentKind) Valid() bool {
	return k == DocumentRHP || k == DocumentDRHP
}
