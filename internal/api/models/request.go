package models

import "rmg-pricing/internal/pricing"

// PriceImpactRequest is the body of POST /api/pricing/calculate-impact.
type PriceImpactRequest struct {
	SKUName     string   `json:"sku_name" binding:"required"`
	PriceChange *float64 `json:"price_change" binding:"required"` // percent, signed; pointer so 0 binds
}

// MarketImpactRequest is the body of POST /api/pricing/analyze-market.
// An empty change list is valid and yields the unmodified market view.
type MarketImpactRequest struct {
	PriceChanges []pricing.PriceChange `json:"price_changes"`
}
