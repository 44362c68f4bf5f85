package models

import "time"

// PackagingType is inferred from keyword matches in the catalog product name.
type PackagingType string

const (
	PackagingBag       PackagingType = "bag"
	PackagingBox       PackagingType = "box"
	PackagingPouch     PackagingType = "pouch"
	PackagingMiniPack  PackagingType = "mini-pack"
	PackagingSharePack PackagingType = "share-pack"
	PackagingOther     PackagingType = "other"
)

// Segment buckets customers by their new-product revenue share.
type Segment string

const (
	SegmentConservative Segment = "conservative"
	SegmentBalanced     Segment = "balanced"
	SegmentInnovative   Segment = "innovative"
)

// SalesRecord is one shipment row. Revenue is always recomputed from
// UnitPrice and Quantity at load time, never read from the input.
type SalesRecord struct {
	Customer    string        `json:"customer"`
	Region      string        `json:"region"`
	Applicant   string        `json:"applicant"`
	ProductCode string        `json:"product_code"`
	ProductName string        `json:"product_name"`
	DisplayName string        `json:"display_name"`
	Packaging   PackagingType `json:"packaging"`
	UnitPrice   float64       `json:"unit_price"`
	Quantity    int           `json:"quantity"`
	Revenue     float64       `json:"revenue"`

	// ShipMonth is valid only when ShipMonthValid is set; otherwise the
	// unparseable input is retained in ShipMonthRaw.
	ShipMonth      time.Time `json:"ship_month"`
	ShipMonthRaw   string    `json:"ship_month_raw,omitempty"`
	ShipMonthValid bool      `json:"ship_month_valid"`
}

// Month returns the calendar month key ("2006-01") for trend grouping.
func (r SalesRecord) Month() string {
	if !r.ShipMonthValid {
		return ""
	}
	return r.ShipMonth.Format("2006-01")
}

// Dataset is the in-memory record set plus the static new-product flagging.
// Read-only after load.
type Dataset struct {
	Records     []SalesRecord
	NewProducts map[string]bool
	Sample      bool // true when the built-in demo data replaced a failed load
	LoadedAt    time.Time
	SourcePath  string
}

// IsNew reports whether a product code is in the configured new-product set.
func (d *Dataset) IsNew(code string) bool {
	return d.NewProducts[code]
}

// NewProductRecords returns the subset of records for flagged products.
func (d *Dataset) NewProductRecords() []SalesRecord {
	out := make([]SalesRecord, 0)
	for _, r := range d.Records {
		if d.NewProducts[r.ProductCode] {
			out = append(out, r)
		}
	}
	return out
}

// FilterCriteria is a conjunction of optional set-membership predicates.
// An empty slice for a dimension means no restriction on that dimension.
type FilterCriteria struct {
	Regions    []string `json:"regions,omitempty"`
	Customers  []string `json:"customers,omitempty"`
	Products   []string `json:"products,omitempty"`
	Applicants []string `json:"applicants,omitempty"`
}

// IsEmpty reports whether no dimension carries a restriction.
func (c FilterCriteria) IsEmpty() bool {
	return len(c.Regions) == 0 && len(c.Customers) == 0 &&
		len(c.Products) == 0 && len(c.Applicants) == 0
}
