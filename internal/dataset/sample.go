package dataset

import (
	"time"

	"github.com/CIRA18-HUB/sales-dashboard/internal/models"
)

// sampleRows is the built-in demo dataset used when no real data file is
// available. Two customers across two regions, eleven catalog products and
// five new products, all shipped in a single month.
var sampleRows = []struct {
	customer, region, month, applicant, code, name string
	price                                          float64
	qty                                            int
}{
	{"广州佳成行", "南", "2025-03", "梁洪泽", "F3415D", "口力酸小虫250G分享装袋装-中国", 121.44, 10},
	{"广州佳成行", "南", "2025-03", "梁洪泽", "F3421D", "口力可乐瓶250G分享装袋装-中国", 121.44, 10},
	{"广州佳成行", "南", "2025-03", "梁洪泽", "F0104J", "口力比萨XXL45G盒装-中国", 216.96, 20},
	{"广州佳成行", "南", "2025-03", "梁洪泽", "F0104L", "口力比萨68G袋装-中国", 126.72, 50},
	{"广州佳成行", "南", "2025-03", "梁洪泽", "F3411A", "口力午餐袋77G袋装-中国", 137.04, 252},
	{"广州佳成行", "南", "2025-03", "梁洪泽", "F01E4B", "口力汉堡108G袋装-中国", 137.04, 204},
	{"河南甜丰號", "中", "2025-03", "胡斌", "F01L4C", "口力扭扭虫2KG迷你包-中国", 127.2, 7},
	{"河南甜丰號", "中", "2025-03", "胡斌", "F01C2P", "口力字节软糖2KG迷你包-中国", 127.2, 2},
	{"河南甜丰號", "中", "2025-03", "胡斌", "F01E6D", "口力西瓜1.5KG随手包-中国", 180, 6},
	{"河南甜丰號", "中", "2025-03", "胡斌", "F3450B", "口力七彩熊1.5KG随手包-中国", 180, 6},
	{"河南甜丰號", "中", "2025-03", "胡斌", "F3415B", "口力酸小虫1.5KG随手包-中国", 180, 6},
	{"广州佳成行", "南", "2025-03", "梁洪泽", "F0110C", "口力软糖新品A-中国", 150, 30},
	{"河南甜丰號", "中", "2025-03", "胡斌", "F0183F", "口力软糖新品B-中国", 160, 20},
	{"广州佳成行", "南", "2025-03", "梁洪泽", "F01K8A", "口力软糖新品C-中国", 170, 15},
	{"河南甜丰號", "中", "2025-03", "胡斌", "F0183K", "口力软糖新品D-中国", 180, 10},
	{"广州佳成行", "南", "2025-03", "梁洪泽", "F0101P", "口力软糖新品E-中国", 190, 5},
}

// Sample builds the demo dataset with the loader's normalization applied,
// so derived fields behave exactly as they do for real data.
func (l *Loader) Sample() *models.Dataset {
	records := make([]models.SalesRecord, 0, len(sampleRows))
	for _, row := range sampleRows {
		rec := models.SalesRecord{
			Customer:    row.customer,
			Region:      row.region,
			Applicant:   row.applicant,
			ProductCode: row.code,
			ProductName: row.name,
			UnitPrice:   row.price,
			Quantity:    row.qty,
			Revenue:     row.price * float64(row.qty),
		}
		rec.DisplayName = l.norm.DisplayName(rec.ProductCode, rec.ProductName)
		rec.Packaging = l.norm.Packaging(rec.ProductName)
		setShipMonth(&rec, row.month)
		records = append(records, rec)
	}

	return &models.Dataset{
		Records:     records,
		NewProducts: newProductSet(l.analysis.NewProductCodes),
		Sample:      true,
		LoadedAt:    time.Now(),
	}
}
