package pricing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rmg-pricing/internal/model"
)

func fptr(v float64) *float64 { return &v }

func newSnapshot(t *testing.T, records []model.SKURecord) *model.Snapshot {
	t.Helper()
	snapshot, err := model.NewSnapshot(records)
	require.NoError(t, err)
	return snapshot
}

// Two-SKU market used by most market tests:
// baseline volume 300, baseline revenue 10*100 + 5*200 = 2000.
func twoSKUSnapshot(t *testing.T) *model.Snapshot {
	return newSnapshot(t, []model.SKURecord{
		{
			Name:            "A",
			CustomerPrice:   fptr(10),
			VolumeSold:      fptr(100),
			PriceElasticity: fptr(-2),
			GP:              fptr(20),
		},
		{
			Name:          "B",
			CustomerPrice: fptr(5),
			VolumeSold:    fptr(200),
		},
	})
}

func TestPriceImpactElastic(t *testing.T) {
	calc := NewCalculator(twoSKUSnapshot(t))

	impact, err := calc.PriceImpact("A", 10)
	require.NoError(t, err)

	assert.Equal(t, 11.0, impact.NewPrice)
	assert.Equal(t, 80.0, impact.NewVolume)
	assert.Equal(t, 880.0, impact.NewRevenue)
	require.NotNil(t, impact.NewGP)
	assert.Equal(t, 176.0, *impact.NewGP)
	assert.Equal(t, -20.0, impact.VolumeChangePercent)
}

func TestPriceImpactWithoutElasticity(t *testing.T) {
	calc := NewCalculator(twoSKUSnapshot(t))

	for _, change := range []float64{-50, -5, 0, 5, 50} {
		impact, err := calc.PriceImpact("B", change)
		require.NoError(t, err)
		assert.Equal(t, 200.0, impact.NewVolume, "change %v must not move volume", change)
		assert.Equal(t, 0.0, impact.VolumeChangePercent)
	}
}

func TestPriceImpactZeroChangeIsIdentity(t *testing.T) {
	calc := NewCalculator(twoSKUSnapshot(t))

	impact, err := calc.PriceImpact("A", 0)
	require.NoError(t, err)

	assert.Equal(t, 10.0, impact.NewPrice)
	assert.Equal(t, 100.0, impact.NewVolume)
	assert.Equal(t, 1000.0, impact.NewRevenue)
	assert.Equal(t, 0.0, impact.VolumeChangePercent)
}

func TestPriceImpactWithoutGP(t *testing.T) {
	calc := NewCalculator(twoSKUSnapshot(t))

	impact, err := calc.PriceImpact("B", 10)
	require.NoError(t, err)
	assert.Nil(t, impact.NewGP, "missing gp must stay absent, not become zero")
}

func TestPriceImpactUnknownSKU(t *testing.T) {
	calc := NewCalculator(twoSKUSnapshot(t))

	_, err := calc.PriceImpact("NOPE", 10)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "NOPE", notFound.Name)
}

func TestPriceImpactZeroVolumeBaseline(t *testing.T) {
	snapshot := newSnapshot(t, []model.SKURecord{
		{
			Name:            "GHOST",
			CustomerPrice:   fptr(4),
			VolumeSold:      fptr(0),
			PriceElasticity: fptr(-1.5),
		},
	})
	calc := NewCalculator(snapshot)

	// Projected volume is still zero, so the change is defined as zero.
	impact, err := calc.PriceImpact("GHOST", 10)
	require.NoError(t, err)
	assert.Equal(t, 0.0, impact.NewVolume)
	assert.Equal(t, 0.0, impact.VolumeChangePercent)
}

func TestPriceImpactMissingBaselines(t *testing.T) {
	snapshot := newSnapshot(t, []model.SKURecord{
		{Name: "NO_PRICE", VolumeSold: fptr(10)},
		{Name: "NO_VOLUME", CustomerPrice: fptr(3)},
	})
	calc := NewCalculator(snapshot)

	var malformed *MalformedRecordError

	_, err := calc.PriceImpact("NO_PRICE", 5)
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "customer_price", malformed.Field)

	_, err = calc.PriceImpact("NO_VOLUME", 5)
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "volume_sold", malformed.Field)
}

func TestMarketImpactSingleChange(t *testing.T) {
	calc := NewCalculator(twoSKUSnapshot(t))

	impact, err := calc.MarketImpact([]PriceChange{{SKUName: "A", PriceChange: 10}})
	require.NoError(t, err)

	// New totals: volume 80+200=280, revenue 11*80 + 5*200 = 1880.
	assert.Equal(t, -6.7, impact.MarketVolumeChange)
	assert.Equal(t, -6.0, impact.MarketRevenueChange)

	require.Len(t, impact.NewMarketShares, 2)
	assert.Equal(t, Share{VolumeShare: 28.6, ValueShare: 46.8}, impact.NewMarketShares["A"])
	assert.Equal(t, Share{VolumeShare: 71.4, ValueShare: 53.2}, impact.NewMarketShares["B"])
}

func TestMarketImpactEmptyChangeList(t *testing.T) {
	calc := NewCalculator(twoSKUSnapshot(t))

	impact, err := calc.MarketImpact(nil)
	require.NoError(t, err)

	assert.Equal(t, 0.0, impact.MarketVolumeChange)
	assert.Equal(t, 0.0, impact.MarketRevenueChange)
	assert.Equal(t, Share{VolumeShare: 33.3, ValueShare: 50.0}, impact.NewMarketShares["A"])
	assert.Equal(t, Share{VolumeShare: 66.7, ValueShare: 50.0}, impact.NewMarketShares["B"])
}

func TestMarketImpactSharesSumToHundred(t *testing.T) {
	snapshot := newSnapshot(t, []model.SKURecord{
		{Name: "A", CustomerPrice: fptr(10), VolumeSold: fptr(100), PriceElasticity: fptr(-2)},
		{Name: "B", CustomerPrice: fptr(5), VolumeSold: fptr(200)},
		{Name: "C", CustomerPrice: fptr(7.35), VolumeSold: fptr(333), PriceElasticity: fptr(-0.8)},
		{Name: "D", CustomerPrice: fptr(1.99), VolumeSold: fptr(4100)},
	})
	calc := NewCalculator(snapshot)

	for _, changes := range [][]PriceChange{
		nil,
		{{SKUName: "A", PriceChange: 10}},
		{{SKUName: "A", PriceChange: -15}, {SKUName: "C", PriceChange: 30}},
	} {
		impact, err := calc.MarketImpact(changes)
		require.NoError(t, err)

		var volumeSum, valueSum float64
		for _, share := range impact.NewMarketShares {
			volumeSum += share.VolumeShare
			valueSum += share.ValueShare
		}
		// Rounded shares can land exactly on the tolerance edge (99.9),
		// so pad the delta for float accumulation in the sum.
		assert.InDelta(t, 100.0, volumeSum, 0.1+1e-9)
		assert.InDelta(t, 100.0, valueSum, 0.1+1e-9)
	}
}

func TestMarketImpactDuplicateChangesLastWriteWins(t *testing.T) {
	calc := NewCalculator(twoSKUSnapshot(t))

	dup, err := calc.MarketImpact([]PriceChange{
		{SKUName: "A", PriceChange: 10},
		{SKUName: "A", PriceChange: 20},
	})
	require.NoError(t, err)

	// Each change simulates against the original row, so the second entry
	// fully replaces the first rather than compounding on it.
	only, err := calc.MarketImpact([]PriceChange{{SKUName: "A", PriceChange: 20}})
	require.NoError(t, err)

	assert.Equal(t, only, dup)
}

func TestMarketImpactUnknownSKU(t *testing.T) {
	calc := NewCalculator(twoSKUSnapshot(t))

	_, err := calc.MarketImpact([]PriceChange{{SKUName: "NOPE", PriceChange: 5}})
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestMarketImpactLeavesSnapshotUntouched(t *testing.T) {
	snapshot := twoSKUSnapshot(t)
	calc := NewCalculator(snapshot)

	_, err := calc.MarketImpact([]PriceChange{{SKUName: "A", PriceChange: 25}})
	require.NoError(t, err)

	recA, ok := snapshot.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, 10.0, *recA.CustomerPrice)
	assert.Equal(t, 100.0, *recA.VolumeSold)
}

func TestMarketImpactZeroBaselines(t *testing.T) {
	noVolume := newSnapshot(t, []model.SKURecord{
		{Name: "A", CustomerPrice: fptr(10), VolumeSold: fptr(0)},
	})
	_, err := NewCalculator(noVolume).MarketImpact(nil)
	var zero *ZeroBaselineError
	require.ErrorAs(t, err, &zero)

	noRevenue := newSnapshot(t, []model.SKURecord{
		{Name: "A", CustomerPrice: fptr(0), VolumeSold: fptr(50)},
	})
	_, err = NewCalculator(noRevenue).MarketImpact(nil)
	require.ErrorAs(t, err, &zero)
}

func TestMarketImpactSkipsRowsWithoutVolume(t *testing.T) {
	snapshot := newSnapshot(t, []model.SKURecord{
		{Name: "A", CustomerPrice: fptr(10), VolumeSold: fptr(100)},
		{Name: "DELISTED", CustomerPrice: fptr(3)},
	})
	impact, err := NewCalculator(snapshot).MarketImpact(nil)
	require.NoError(t, err)

	_, present := impact.NewMarketShares["DELISTED"]
	assert.False(t, present, "rows without volume are excluded, not zero-filled")
	assert.Len(t, impact.NewMarketShares, 1)
}

func TestMarketImpactIsRepeatable(t *testing.T) {
	calc := NewCalculator(twoSKUSnapshot(t))
	changes := []PriceChange{{SKUName: "A", PriceChange: 12.5}}

	first, err := calc.MarketImpact(changes)
	require.NoError(t, err)
	second, err := calc.MarketImpact(changes)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestErrorTypesAreDistinguishable(t *testing.T) {
	calc := NewCalculator(twoSKUSnapshot(t))

	_, err := calc.PriceImpact("NOPE", 1)
	var zero *ZeroBaselineError
	assert.False(t, errors.As(err, &zero))
	var notFound *NotFoundError
	assert.True(t, errors.As(err, &notFound))
}
