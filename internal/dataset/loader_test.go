package dataset

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CIRA18-HUB/sales-dashboard/internal/config"
	"github.com/CIRA18-HUB/sales-dashboard/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestLoader(file string, strict bool) *Loader {
	return NewLoader(
		config.DataConfig{File: file, Strict: strict},
		testAnalysisConfig(),
		discardLogger(),
	)
}

const chineseCSV = `客户简称,所属区域,发运月份,申请人,产品代码,产品名称,单价（箱）,数量（箱）
广州佳成行,南,2025-03,梁洪泽,F3415D,口力酸小虫250G分享装袋装-中国,112.61,60
河南甜丰號,中,2025-03,胡斌,F0110C,口力汉堡108G袋装-中国,137.05,30
`

func TestLoad_ChineseHeaders(t *testing.T) {
	path := writeTempCSV(t, chineseCSV)
	loader := newTestLoader(path, true)

	ds, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, ds.Records, 2)
	require.False(t, ds.Sample)
	require.Equal(t, path, ds.SourcePath)

	first := ds.Records[0]
	require.Equal(t, "广州佳成行", first.Customer)
	require.Equal(t, "南", first.Region)
	require.Equal(t, "梁洪泽", first.Applicant)
	require.Equal(t, "F3415D", first.ProductCode)
	require.Equal(t, "酸小虫 (F3415D)", first.DisplayName)
	require.Equal(t, models.PackagingBag, first.Packaging)
	require.InDelta(t, 112.61*60, first.Revenue, 1e-9)
	require.True(t, first.ShipMonthValid)
	require.Equal(t, "2025-03", first.Month())

	require.True(t, ds.IsNew("F0110C"))
	require.False(t, ds.IsNew("F3415D"))
}

func TestLoad_EnglishHeaders(t *testing.T) {
	csv := `customer,region,ship_month,applicant,product_code,product_name,unit_price,quantity
ACME,南,2025/01,王五,F0101P,口力软糖950G-混合装,10.5,4
`
	path := writeTempCSV(t, csv)
	loader := newTestLoader(path, true)

	ds, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	require.Equal(t, "软糖 (F0101P)", ds.Records[0].DisplayName)
	require.Equal(t, 42.0, ds.Records[0].Revenue)
	require.True(t, ds.Records[0].ShipMonthValid)
}

func TestLoad_UnknownColumnsIgnored(t *testing.T) {
	csv := `客户简称,备注,所属区域,发运月份,申请人,产品代码,产品名称,单价（箱）,数量（箱）
广州佳成行,遗留字段,南,2025-03,梁洪泽,F3415D,口力酸小虫250G分享装袋装-中国,112.61,60
`
	path := writeTempCSV(t, csv)
	loader := newTestLoader(path, true)

	ds, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
}

func TestLoad_MissingRequiredColumn(t *testing.T) {
	csv := `客户简称,所属区域,发运月份,申请人,产品名称,单价（箱）,数量（箱）
广州佳成行,南,2025-03,梁洪泽,口力酸小虫250G分享装袋装-中国,112.61,60
`
	path := writeTempCSV(t, csv)
	loader := newTestLoader(path, true)

	_, err := loader.Load(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "product_code")
}

func TestLoad_SkipsInvalidRows(t *testing.T) {
	csv := `customer,region,ship_month,applicant,product_code,product_name,unit_price,quantity
ACME,南,2025-03,王五,F0101P,口力软糖950G-混合装,10.5,4
BAD,南,2025-03,王五,F0101P,口力软糖950G-混合装,not-a-price,4
NEG,南,2025-03,王五,F0101P,口力软糖950G-混合装,-5,4
NOCODE,南,2025-03,王五,,口力软糖950G-混合装,10,4
DECIMAL,南,2025-03,王五,F0101P,口力软糖950G-混合装,10,4.0
`
	path := writeTempCSV(t, csv)
	loader := newTestLoader(path, true)

	ds, err := loader.Load(context.Background())
	require.NoError(t, err)

	// Bad price, negative price and missing code rows dropped; the
	// decimal quantity row survives.
	require.Len(t, ds.Records, 2)
	require.Equal(t, 4, ds.Records[1].Quantity)
}

func TestLoad_NonTemporalShipMonths(t *testing.T) {
	csv := `customer,region,ship_month,applicant,product_code,product_name,unit_price,quantity
ACME,南,第一季度,王五,F0101P,口力软糖950G-混合装,10.5,4
`
	path := writeTempCSV(t, csv)
	loader := newTestLoader(path, true)

	ds, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.False(t, ds.Records[0].ShipMonthValid)
	require.Equal(t, "第一季度", ds.Records[0].ShipMonthRaw)
	require.Equal(t, "", ds.Records[0].Month())
}

func TestLoad_NoFileConfigured(t *testing.T) {
	loader := newTestLoader("", false)

	ds, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ds.Sample)
	require.NotEmpty(t, ds.Records)
}

func TestLoad_FallbackToSample(t *testing.T) {
	loader := newTestLoader("/does/not/exist.csv", false)

	ds, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ds.Sample)
}

func TestLoad_StrictFailure(t *testing.T) {
	loader := newTestLoader("/does/not/exist.csv", true)

	_, err := loader.Load(context.Background())
	require.Error(t, err)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	loader := newTestLoader(path, true)
	_, err := loader.Load(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported file type")
}

func TestSample(t *testing.T) {
	loader := newTestLoader("", false)

	ds := loader.Sample()
	require.True(t, ds.Sample)
	require.Len(t, ds.Records, 16)

	// Sample rows go through the same normalization as real data.
	for _, r := range ds.Records {
		require.NotEmpty(t, r.DisplayName)
		require.Greater(t, r.Revenue, 0.0)
		require.True(t, r.ShipMonthValid)
	}
}

func TestSetShipMonth_Layouts(t *testing.T) {
	tests := []struct {
		raw   string
		valid bool
		month string
	}{
		{"2025-03", true, "2025-03"},
		{"2025-03-15", true, "2025-03"},
		{"2025/03", true, "2025-03"},
		{"2025/3/5", true, "2025-03"},
		{"2025-3", true, "2025-03"},
		{"March 2025", false, ""},
		{"", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var rec models.SalesRecord
			setShipMonth(&rec, tt.raw)
			require.Equal(t, tt.valid, rec.ShipMonthValid)
			require.Equal(t, tt.month, rec.Month())
		})
	}
}
