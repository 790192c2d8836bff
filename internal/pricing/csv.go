package pricing

import (
	"encoding/csv"
	"os"
	"sort"
	"strconv"
)

// WriteSharesCSV writes the post-scenario market share table to path,
// one row per SKU, sorted by name for stable output.
func WriteSharesCSV(path string, impact *MarketImpact) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"sku", "volume_share", "value_share"}
	if err := w.Write(header); err != nil {
		return err
	}

	names := make([]string, 0, len(impact.NewMarketShares))
	for name := range impact.NewMarketShares {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		share := impact.NewMarketShares[name]
		row := []string{
			name,
			fmtFloat(share.VolumeShare),
			fmtFloat(share.ValueShare),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 1, 64)
}
