package pricing

import (
	"math"

	"rmg-pricing/internal/model"
)

// PriceChange is one requested what-if move: a SKU and a signed percentage
// (5.0 means +5%).
type PriceChange struct {
	SKUName     string  `json:"sku_name" yaml:"sku_name"`
	PriceChange float64 `json:"price_change" yaml:"price_change"`
}

// Impact is the projected effect of a single price change.
// NewGP is nil when the SKU carries no gross-profit percentage.
type Impact struct {
	NewPrice            float64  `json:"new_price"`
	NewVolume           float64  `json:"new_volume"`
	NewRevenue          float64  `json:"new_revenue"`
	NewGP               *float64 `json:"new_gp"`
	VolumeChangePercent float64  `json:"volume_change_percent"`
}

// Share is one SKU's slice of the market after a scenario is applied.
type Share struct {
	VolumeShare float64 `json:"volume_share"`
	ValueShare  float64 `json:"value_share"`
}

// MarketImpact aggregates a batch of simultaneous price changes across the
// whole snapshot.
type MarketImpact struct {
	MarketVolumeChange  float64          `json:"market_volume_change"`
	MarketRevenueChange float64          `json:"market_revenue_change"`
	NewMarketShares     map[string]Share `json:"new_market_shares"`
}

// Calculator projects price-change impacts over one snapshot. It never
// mutates the snapshot, so a fresh Calculator per request needs no locking.
type Calculator struct {
	snapshot *model.Snapshot
}

func NewCalculator(snapshot *model.Snapshot) *Calculator {
	return &Calculator{snapshot: snapshot}
}

// PriceImpact projects volume, revenue and gross profit for a single SKU
// under the given percentage price move.
//
// A SKU without elasticity data is treated as price-insensitive: its volume
// does not move. Monetary results are rounded to 2 decimals, the volume
// change percentage to 1, matching what catalog consumers display.
func (c *Calculator) PriceImpact(skuName string, priceChangePercent float64) (*Impact, error) {
	rec, ok := c.snapshot.Lookup(skuName)
	if !ok {
		return nil, &NotFoundError{Name: skuName}
	}
	if rec.CustomerPrice == nil {
		return nil, &MalformedRecordError{Name: skuName, Field: "customer_price"}
	}
	if rec.VolumeSold == nil {
		return nil, &MalformedRecordError{Name: skuName, Field: "volume_sold"}
	}

	price := *rec.CustomerPrice
	volume := *rec.VolumeSold

	newPrice := price * (1 + priceChangePercent/100)

	newVolume := volume
	if rec.PriceElasticity != nil {
		volumeChange := *rec.PriceElasticity * priceChangePercent
		newVolume = volume * (1 + volumeChange/100)
	}

	newRevenue := newPrice * newVolume

	var newGP *float64
	if rec.GP != nil {
		gp := round2(newRevenue * (*rec.GP / 100))
		newGP = &gp
	}

	var changePercent float64
	switch {
	case volume != 0:
		changePercent = ((newVolume - volume) / volume) * 100
	case newVolume == 0:
		changePercent = 0
	default:
		return nil, &ZeroBaselineError{Quantity: "volume sold"}
	}

	return &Impact{
		NewPrice:            round2(newPrice),
		NewVolume:           round2(newVolume),
		NewRevenue:          round2(newRevenue),
		NewGP:               newGP,
		VolumeChangePercent: round1(changePercent),
	}, nil
}

// MarketImpact applies a batch of price changes and reaggregates the market.
//
// Each change is an independent simulation against the original snapshot
// values; they never compound. Duplicate entries for the same SKU therefore
// resolve last-write-wins in list order when the projected price and volume
// are written into the working copy.
func (c *Calculator) MarketImpact(changes []PriceChange) (*MarketImpact, error) {
	baseVolume, baseRevenue := totals(c.snapshot)
	if baseVolume == 0 {
		return nil, &ZeroBaselineError{Quantity: "market volume"}
	}
	if baseRevenue == 0 {
		return nil, &ZeroBaselineError{Quantity: "market revenue"}
	}

	working := c.snapshot.Clone()
	for _, change := range changes {
		impact, err := c.PriceImpact(change.SKUName, change.PriceChange)
		if err != nil {
			return nil, err
		}
		rec, _ := working.Lookup(change.SKUName)
		newVolume := impact.NewVolume
		newPrice := impact.NewPrice
		rec.VolumeSold = &newVolume
		rec.CustomerPrice = &newPrice
	}

	newVolume, newRevenue := totals(working)

	shares, err := marketShares(working, newVolume, newRevenue)
	if err != nil {
		return nil, err
	}

	return &MarketImpact{
		MarketVolumeChange:  round1(((newVolume - baseVolume) / baseVolume) * 100),
		MarketRevenueChange: round1(((newRevenue - baseRevenue) / baseRevenue) * 100),
		NewMarketShares:     shares,
	}, nil
}

// totals sums market volume and revenue, skipping gaps: a row without volume
// contributes nothing, a row with volume but no price contributes volume only.
func totals(snapshot *model.Snapshot) (volume, revenue float64) {
	for _, rec := range snapshot.Records() {
		if rec.VolumeSold == nil {
			continue
		}
		volume += *rec.VolumeSold
		if rec.CustomerPrice != nil {
			revenue += *rec.CustomerPrice * *rec.VolumeSold
		}
	}
	return volume, revenue
}

// marketShares computes per-SKU volume and value shares against the given
// totals. Rows without volume data are left out of the map entirely.
func marketShares(snapshot *model.Snapshot, totalVolume, totalRevenue float64) (map[string]Share, error) {
	if totalVolume == 0 {
		return nil, &ZeroBaselineError{Quantity: "market volume"}
	}
	if totalRevenue == 0 {
		return nil, &ZeroBaselineError{Quantity: "market revenue"}
	}

	shares := make(map[string]Share, snapshot.Len())
	for _, rec := range snapshot.Records() {
		if rec.VolumeSold == nil {
			continue
		}
		var revenue float64
		if rec.CustomerPrice != nil {
			revenue = *rec.CustomerPrice * *rec.VolumeSold
		}
		shares[rec.Name] = Share{
			VolumeShare: round1(*rec.VolumeSold / totalVolume * 100),
			ValueShare:  round1(revenue / totalRevenue * 100),
		}
	}
	return shares, nil
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }
func round1(x float64) float64 { return math.Round(x*10) / 10 }
