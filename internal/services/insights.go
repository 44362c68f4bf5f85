package services

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/CIRA18-HUB/sales-dashboard/internal/analytics"
	"github.com/CIRA18-HUB/sales-dashboard/internal/dataset"
	"github.com/CIRA18-HUB/sales-dashboard/internal/models"
	"github.com/CIRA18-HUB/sales-dashboard/internal/report"
)

const (
	cacheTTL       = 10 * time.Minute
	cacheSweep     = 30 * time.Minute
	topAcceptanceK = 10
	topPartnersK   = 5
)

// ComputedViews is one full recomputation pass over a filtered record set:
// everything the five dashboard tabs need, derived in a single call and
// memoized per (dataset, filter) pair.
type ComputedViews struct {
	Filter      models.FilterCriteria `json:"filter"`
	RecordCount int                   `json:"record_count"`

	// Overview tab.
	Overview   models.Overview          `json:"overview"`
	Regions    []models.RegionRollup    `json:"regions"`
	Packaging  []models.PackagingRollup `json:"packaging"`
	Applicants []models.ApplicantRollup `json:"applicants"`
	Products   []models.ProductRollup   `json:"products"`

	// New-product tab.
	Split            models.NewProductSplit      `json:"split"`
	NewProductSales  []models.ProductRollup      `json:"new_product_sales"`
	RegionNewShares  []models.RegionProductShare `json:"region_new_shares"`

	// Customer segmentation tab.
	Features      []models.CustomerFeature `json:"features"`
	Segments      []models.SegmentSummary  `json:"segments"`
	TopAcceptance []models.CustomerFeature `json:"top_acceptance"`

	// Product affinity tab.
	CoOccurrence *models.CoOccurrenceMatrix             `json:"co_occurrence"`
	NewPartners  map[string][]models.CoOccurrencePair   `json:"new_partners"`
	Baskets      models.BasketStats                     `json:"baskets"`

	// Penetration tab.
	Penetration       models.PenetrationBucket    `json:"penetration"`
	RegionPenetration []models.PenetrationBucket  `json:"region_penetration"`
	Trend             []models.MonthlyPenetration `json:"trend,omitempty"`
	TrendAvailable    bool                        `json:"trend_available"`

	ComputedAt time.Time `json:"computed_at"`
}

// Insights owns the loaded dataset and serves computed view snapshots.
// The dataset is read-only after load; the only mutable shared state is
// the memoization cache, which go-cache guards internally.
type Insights struct {
	mu         sync.RWMutex
	dataset    *models.Dataset
	generation atomic.Int64
	thresholds analytics.Thresholds
	cache      *gocache.Cache
	logger     *slog.Logger
}

func NewInsights(thresholds analytics.Thresholds, logger *slog.Logger) *Insights {
	if logger == nil {
		logger = slog.Default()
	}
	return &Insights{
		thresholds: thresholds,
		cache:      gocache.New(cacheTTL, cacheSweep),
		logger:     logger,
	}
}

// SetDataset swaps in a new dataset and invalidates all memoized views.
func (s *Insights) SetDataset(ds *models.Dataset) {
	s.mu.Lock()
	s.dataset = ds
	s.mu.Unlock()

	s.generation.Add(1)
	s.cache.Flush()
	s.logger.Info("dataset set",
		"records", len(ds.Records),
		"new_products", len(ds.NewProducts),
		"sample", ds.Sample,
	)
}

// UsingSampleData reports whether the demo dataset replaced a failed load.
func (s *Insights) UsingSampleData() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset != nil && s.dataset.Sample
}

// Views returns the computed snapshot for a filter selection, recomputing
// from scratch on a cache miss. All analytics functions are pure, so a
// cached snapshot is safe to share across requests.
func (s *Insights) Views(criteria models.FilterCriteria) (*ComputedViews, error) {
	s.mu.RLock()
	ds := s.dataset
	s.mu.RUnlock()

	if ds == nil {
		return nil, fmt.Errorf("no dataset loaded")
	}

	key := s.cacheKey(criteria)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*ComputedViews), nil
	}

	views := s.compute(ds, criteria)
	s.cache.Set(key, views, gocache.DefaultExpiration)
	return views, nil
}

func (s *Insights) compute(ds *models.Dataset, criteria models.FilterCriteria) *ComputedViews {
	start := time.Now()

	filtered := dataset.Filter(ds.Records, criteria)
	newFiltered := make([]models.SalesRecord, 0)
	for _, r := range filtered {
		if ds.NewProducts[r.ProductCode] {
			newFiltered = append(newFiltered, r)
		}
	}

	features := analytics.CustomerFeatures(filtered, ds.NewProducts, s.thresholds)
	matrix := analytics.CoOccurrence(filtered)

	names := displayNames(ds.Records)
	partners := make(map[string][]models.CoOccurrencePair)
	for code := range ds.NewProducts {
		if top := analytics.TopCoOccurring(matrix, code, topPartnersK, names); len(top) > 0 {
			partners[code] = top
		}
	}

	views := &ComputedViews{
		Filter:      criteria,
		RecordCount: len(filtered),

		Overview:   analytics.Overview(filtered),
		Regions:    analytics.RegionalRollup(filtered),
		Packaging:  analytics.PackagingRollup(filtered),
		Applicants: analytics.ApplicantRollup(filtered),
		Products:   analytics.ProductRollup(filtered),

		Split:           analytics.NewProductSplit(filtered, ds.NewProducts),
		NewProductSales: analytics.ProductRollup(newFiltered),
		RegionNewShares: analytics.RegionNewProductShare(newFiltered),

		Features:      features,
		Segments:      analytics.SegmentSummaries(features),
		TopAcceptance: analytics.TopAcceptance(features, topAcceptanceK),

		CoOccurrence: matrix,
		NewPartners:  partners,
		Baskets:      analytics.BasketStats(filtered, ds.NewProducts),

		Penetration:       analytics.OverallPenetration(filtered, newFiltered),
		RegionPenetration: analytics.PenetrationRate(filtered, newFiltered, analytics.DimensionRegion),

		ComputedAt: time.Now(),
	}

	trend, err := analytics.MonthlyTrend(filtered, newFiltered)
	if err != nil {
		// Non-temporal data: the trend view is omitted, everything
		// else stands.
		s.logger.Debug("trend unavailable", "error", err)
	} else {
		views.Trend = trend
		views.TrendAvailable = true
	}

	s.logger.Debug("views computed",
		"records", len(filtered),
		"duration", time.Since(start),
	)
	return views
}

// FilterOptions lists the selectable values per dimension, sorted, for
// building filter widgets.
type FilterOptions struct {
	Regions    []string             `json:"regions"`
	Customers  []string             `json:"customers"`
	Products   []ProductOption      `json:"products"`
	Applicants []string             `json:"applicants"`
}

type ProductOption struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
	IsNew       bool   `json:"is_new"`
}

func (s *Insights) FilterOptions() FilterOptions {
	s.mu.RLock()
	ds := s.dataset
	s.mu.RUnlock()

	opts := FilterOptions{}
	if ds == nil {
		return opts
	}

	regions := make(map[string]bool)
	customers := make(map[string]bool)
	applicants := make(map[string]bool)
	products := make(map[string]string)

	for _, r := range ds.Records {
		regions[r.Region] = true
		customers[r.Customer] = true
		applicants[r.Applicant] = true
		products[r.ProductCode] = r.DisplayName
	}

	opts.Regions = sortedKeys(regions)
	opts.Customers = sortedKeys(customers)
	opts.Applicants = sortedKeys(applicants)

	codes := make([]string, 0, len(products))
	for code := range products {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	for _, code := range codes {
		opts.Products = append(opts.Products, ProductOption{
			Code:        code,
			DisplayName: products[code],
			IsNew:       ds.NewProducts[code],
		})
	}
	return opts
}

// ExportReport builds the four-sheet workbook for a filter selection.
func (s *Insights) ExportReport(criteria models.FilterCriteria) ([]byte, error) {
	s.mu.RLock()
	ds := s.dataset
	s.mu.RUnlock()

	if ds == nil {
		return nil, fmt.Errorf("no dataset loaded")
	}

	filtered := dataset.Filter(ds.Records, criteria)
	newFiltered := make([]models.SalesRecord, 0)
	for _, r := range filtered {
		if ds.NewProducts[r.ProductCode] {
			newFiltered = append(newFiltered, r)
		}
	}
	return report.Build(filtered, newFiltered)
}

// Stats reports dataset shape for the admin endpoint.
func (s *Insights) Stats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dataset == nil {
		return map[string]any{"loaded": false}
	}

	overview := analytics.Overview(s.dataset.Records)
	return map[string]any{
		"loaded":        true,
		"records":       len(s.dataset.Records),
		"customers":     overview.CustomerCount,
		"products":      overview.ProductCount,
		"total_revenue": overview.TotalRevenue,
		"new_products":  len(s.dataset.NewProducts),
		"sample_data":   s.dataset.Sample,
		"loaded_at":     s.dataset.LoadedAt,
		"source":        s.dataset.SourcePath,
		"cached_views":  s.cache.ItemCount(),
	}
}

// cacheKey identifies a (dataset generation, canonical filter) pair.
// Criteria slices are sorted so selection order never splits the cache.
func (s *Insights) cacheKey(criteria models.FilterCriteria) string {
	var b strings.Builder
	fmt.Fprintf(&b, "g%d", s.generation.Load())
	for _, dim := range [][]string{criteria.Regions, criteria.Customers, criteria.Products, criteria.Applicants} {
		sorted := slices.Clone(dim)
		slices.Sort(sorted)
		b.WriteString("|")
		b.WriteString(strings.Join(sorted, ","))
	}
	return b.String()
}

func displayNames(records []models.SalesRecord) map[string]string {
	names := make(map[string]string)
	for _, r := range records {
		names[r.ProductCode] = r.DisplayName
	}
	return names
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
