package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HealthBuckets counts products by stock health
type HealthBuckets struct {
	Out     int64 `json:"out"`
	Low     int64 `json:"low"`
	Healthy int64 `json:"healthy"`
}

// Flow counts approved orders still waiting to move stock
type Flow struct {
	Inbound  int64 `json:"inbound"`
	Outbound int64 `json:"outbound"`
}

// Stats summarises a tenant's (or one warehouse's) inventory
type Stats struct {
	TotalSKU   int64           `json:"total_sku"`
	TotalValue decimal.Decimal `json:"total_value"`
	Health     HealthBuckets   `json:"stock_health"`
	Flow       Flow            `json:"flow"`
}

// ProductLevel is a product's total quantity across keys together with its safety level
type ProductLevel struct {
	ProductID        uuid.UUID
	Quantity         int64
	SafetyStockLevel int64
}

// ClassifyHealth sorts product levels into out / low / healthy buckets
func ClassifyHealth(levels []ProductLevel) HealthBuckets {
	var b HealthBuckets
	for _, l := range levels {
		switch {
		case l.Quantity <= 0:
			b.Out++
		case l.Quantity < l.SafetyStockLevel:
			b.Low++
		default:
			b.Healthy++
		}
	}
	return b
}
