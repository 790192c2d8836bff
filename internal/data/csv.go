package data

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"rmg-pricing/internal/model"
)

// columnRenames maps raw extract headers to their record field names.
// Renaming happens once here; nothing downstream knows the raw headers.
var columnRenames = map[string]string{
	"sku":     "name",
	"level_1": "category",
	"level_3": "segment",
}

// LoadSnapshot reads the SKU dataset CSV at path into a fresh snapshot.
//
// Callers invoke this once per request: the snapshot is the point-in-time
// view the impact engine computes against, and there is no cache between
// calls. Blank or non-numeric cells become nil, never zero; the engine
// relies on that distinction for elasticity and gross-profit handling.
func LoadSnapshot(path string) (*model.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open SKU dataset")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read SKU dataset header")
	}
	columns := make([]string, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if renamed, ok := columnRenames[name]; ok {
			name = renamed
		}
		columns[i] = name
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read SKU dataset rows")
	}

	records := make([]model.SKURecord, 0, len(rows))
	for _, row := range rows {
		var rec model.SKURecord
		for i, cell := range row {
			if i >= len(columns) {
				break
			}
			setField(&rec, columns[i], cell)
		}
		records = append(records, rec)
	}

	snapshot, err := model.NewSnapshot(records)
	if err != nil {
		return nil, errors.Wrap(err, "build SKU snapshot")
	}
	return snapshot, nil
}

func setField(rec *model.SKURecord, column, cell string) {
	switch column {
	case "name":
		rec.Name = strings.TrimSpace(cell)
	case "ownership":
		rec.Ownership = strings.TrimSpace(cell)
	case "category":
		rec.Category = strings.TrimSpace(cell)
	case "segment":
		rec.Segment = strings.TrimSpace(cell)
	case "customer_price":
		rec.CustomerPrice = parseOptionalFloat(cell)
	case "volume_sold":
		rec.VolumeSold = parseOptionalFloat(cell)
	case "price_elasticity":
		rec.PriceElasticity = parseOptionalFloat(cell)
	case "gp":
		rec.GP = parseOptionalFloat(cell)
	case "volume":
		rec.Volume = parseOptionalFloat(cell)
	case "price":
		rec.Price = parseOptionalFloat(cell)
	case "rsv":
		rec.RSV = parseOptionalFloat(cell)
	case "gp_mass":
		rec.GPMass = parseOptionalFloat(cell)
	case "unit_sold":
		rec.UnitSold = parseOptionalFloat(cell)
	case "volume_share":
		rec.VolumeShare = parseOptionalFloat(cell)
	case "value_share":
		rec.ValueShare = parseOptionalFloat(cell)
	}
	// Unknown columns are ignored.
}

// parseOptionalFloat coerces a cell to a float, treating blanks and
// non-numeric garbage as absent rather than failing the whole load.
func parseOptionalFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
