package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/jszwec/csvutil"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/CIRA18-HUB/sales-dashboard/internal/config"
	"github.com/CIRA18-HUB/sales-dashboard/internal/models"
)

// Input columns after header canonicalization. Header aliases accept both
// the English names and the original Chinese report headers.
var headerAliases = map[string]string{
	"customer":     "customer",
	"客户简称":         "customer",
	"region":       "region",
	"所属区域":         "region",
	"ship_month":   "ship_month",
	"发运月份":         "ship_month",
	"applicant":    "applicant",
	"申请人":          "applicant",
	"product_code": "product_code",
	"产品代码":         "product_code",
	"product_name": "product_name",
	"产品名称":         "product_name",
	"unit_price":   "unit_price",
	"单价（箱）":        "unit_price",
	"单价":           "unit_price",
	"quantity":     "quantity",
	"数量（箱）":        "quantity",
	"数量":           "quantity",
}

var requiredColumns = []string{
	"customer", "region", "ship_month", "applicant",
	"product_code", "product_name", "unit_price", "quantity",
}

var shipMonthLayouts = []string{"2006-01", "2006-01-02", "2006/01", "2006/1/2", "2006-1"}

type rawRow struct {
	Customer    string `csv:"customer"`
	Region      string `csv:"region"`
	ShipMonth   string `csv:"ship_month"`
	Applicant   string `csv:"applicant"`
	ProductCode string `csv:"product_code"`
	ProductName string `csv:"product_name"`
	UnitPrice   string `csv:"unit_price"`
	Quantity    string `csv:"quantity"`
}

// Loader reads sales data from CSV or XLSX files into a Dataset. On load
// failure it substitutes the built-in demo dataset unless strict mode is
// enabled; callers can detect the substitution through Dataset.Sample.
type Loader struct {
	data     config.DataConfig
	analysis config.AnalysisConfig
	norm     *Normalizer
	logger   *slog.Logger
}

func NewLoader(data config.DataConfig, analysis config.AnalysisConfig, logger *slog.Logger) *Loader {
	return &Loader{
		data:     data,
		analysis: analysis,
		norm:     NewNormalizer(analysis),
		logger:   logger,
	}
}

func (l *Loader) Load(ctx context.Context) (*models.Dataset, error) {
	if l.data.File == "" {
		l.logger.Info("no data file configured, using demo dataset")
		return l.Sample(), nil
	}

	records, err := l.loadFile(ctx, l.data.File)
	if err != nil {
		if l.data.Strict {
			return nil, fmt.Errorf("load %s: %w", l.data.File, err)
		}
		l.logger.Warn("data file unreadable, falling back to demo dataset",
			"file", l.data.File,
			"error", err,
		)
		return l.Sample(), nil
	}

	ds := &models.Dataset{
		Records:     records,
		NewProducts: newProductSet(l.analysis.NewProductCodes),
		LoadedAt:    time.Now(),
		SourcePath:  l.data.File,
	}
	l.logger.Info("dataset loaded", "file", l.data.File, "records", len(records))
	return ds, nil
}

func (l *Loader) loadFile(ctx context.Context, path string) ([]models.SalesRecord, error) {
	var rows []rawRow
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		rows, err = l.readXLSX(path)
	case ".csv":
		rows, err = l.readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	return l.buildRecords(ctx, rows)
}

func (l *Loader) readCSV(path string) ([]rawRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return l.decodeCSV(file)
}

func (l *Loader) decodeCSV(r io.Reader) ([]rawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	canonical, err := canonicalizeHeader(header)
	if err != nil {
		return nil, err
	}

	decoder, err := csvutil.NewDecoder(reader, canonical...)
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}

	var rows []rawRow
	if err := decoder.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return rows, nil
}

func (l *Loader) readXLSX(path string) ([]rawRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	canonical, err := canonicalizeHeader(cells[0])
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(canonical))
	for i, name := range canonical {
		if name != "" {
			index[name] = i
		}
	}

	cell := func(row []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rows := make([]rawRow, 0, len(cells)-1)
	for _, row := range cells[1:] {
		rows = append(rows, rawRow{
			Customer:    cell(row, "customer"),
			Region:      cell(row, "region"),
			ShipMonth:   cell(row, "ship_month"),
			Applicant:   cell(row, "applicant"),
			ProductCode: cell(row, "product_code"),
			ProductName: cell(row, "product_name"),
			UnitPrice:   cell(row, "unit_price"),
			Quantity:    cell(row, "quantity"),
		})
	}
	return rows, nil
}

// canonicalizeHeader maps input headers to canonical column names and
// verifies all required columns are present. Unknown columns get unique
// placeholder names so their cells are skipped during decode.
func canonicalizeHeader(header []string) ([]string, error) {
	canonical := make([]string, len(header))
	seen := make(map[string]bool)
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name, ok := headerAliases[strings.ToLower(h)]; ok {
			canonical[i] = name
			seen[name] = true
		} else if name, ok := headerAliases[h]; ok {
			canonical[i] = name
			seen[name] = true
		} else {
			canonical[i] = fmt.Sprintf("column_%d", i)
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if !seen[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return canonical, nil
}

// buildRecords converts raw rows in parallel. Conversion is per-row
// independent so workers write to disjoint slice indices.
func (l *Loader) buildRecords(ctx context.Context, rows []rawRow) ([]models.SalesRecord, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data rows")
	}

	converted := make([]*models.SalesRecord, len(rows))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, row := range rows {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			rec, err := l.convertRow(row)
			if err != nil {
				l.logger.Debug("skipping row", "row", i+2, "error", err)
				return nil
			}
			converted[i] = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]models.SalesRecord, 0, len(rows))
	for _, rec := range converted {
		if rec != nil {
			records = append(records, *rec)
		}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no valid records found")
	}
	return records, nil
}

func (l *Loader) convertRow(row rawRow) (*models.SalesRecord, error) {
	if row.ProductCode == "" {
		return nil, fmt.Errorf("empty product code")
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(row.UnitPrice), 64)
	if err != nil {
		return nil, fmt.Errorf("unit price %q: %w", row.UnitPrice, err)
	}
	if price < 0 {
		return nil, fmt.Errorf("negative unit price %v", price)
	}

	qty, err := strconv.Atoi(strings.TrimSpace(row.Quantity))
	if err != nil {
		// Quantities exported from spreadsheets sometimes carry a
		// decimal point ("10.0").
		f, ferr := strconv.ParseFloat(strings.TrimSpace(row.Quantity), 64)
		if ferr != nil {
			return nil, fmt.Errorf("quantity %q: %w", row.Quantity, err)
		}
		qty = int(f)
	}
	if qty < 0 {
		return nil, fmt.Errorf("negative quantity %d", qty)
	}

	rec := &models.SalesRecord{
		Customer:    strings.TrimSpace(row.Customer),
		Region:      strings.TrimSpace(row.Region),
		Applicant:   strings.TrimSpace(row.Applicant),
		ProductCode: strings.TrimSpace(row.ProductCode),
		ProductName: strings.TrimSpace(row.ProductName),
		UnitPrice:   price,
		Quantity:    qty,
		Revenue:     price * float64(qty),
	}
	rec.DisplayName = l.norm.DisplayName(rec.ProductCode, rec.ProductName)
	rec.Packaging = l.norm.Packaging(rec.ProductName)
	setShipMonth(rec, strings.TrimSpace(row.ShipMonth))

	return rec, nil
}

// setShipMonth tries the known layouts and keeps the raw text on failure
// so non-temporal datasets still load; only trend analysis degrades.
func setShipMonth(rec *models.SalesRecord, raw string) {
	for _, layout := range shipMonthLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			rec.ShipMonth = t
			rec.ShipMonthValid = true
			return
		}
	}
	rec.ShipMonthRaw = raw
}

func newProductSet(codes []string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c != "" {
			set[c] = true
		}
	}
	return set
}
