package data

import (
	"encoding/csv"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// AggregatedSKU is one output row of the offline extract aggregation:
// a (item, category, segment, pack, unit) group with summed sales.
type AggregatedSKU struct {
	Item            string
	Category        string
	Segment         string
	PackSize        float64
	UnitSize        float64
	AveragePrice    float64
	TotalSalesUnits float64
	VolumeSold      float64
	VoMS            float64
}

var numberToken = regexp.MustCompile(`\d+\.?\d*`)

// CleanPackSize extracts the pack count from a raw pack-size label
// such as "6 PACK" or "12X". Returns nil when no number is present.
func CleanPackSize(raw string) *float64 {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return nil
	}
	tok := numberToken.FindString(raw)
	if tok == "" {
		return nil
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return nil
	}
	return &v
}

// CleanUnitSize extracts a unit size in ml or g from labels such as
// "330ML", "1.5L" or "2KG". Litres and kilograms are scaled to the
// base unit. Returns nil when no number is present.
func CleanUnitSize(raw string) *float64 {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return nil
	}
	tok := numberToken.FindString(raw)
	if tok == "" {
		return nil
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return nil
	}
	switch {
	case strings.Contains(raw, "ML"):
		// already ml
	case strings.Contains(raw, "KG"):
		v *= 1000
	case strings.Contains(raw, "L"):
		v *= 1000
	}
	return &v
}

type extractColumns struct {
	item, category, segment  int
	packSize, unitSize, date int
	pricePerUnit, salesUnits int
}

// AggregateExtract reads the raw unit-sales extract CSV, keeps rows from
// the given year with cleanable pack and unit sizes, and aggregates them
// into one row per (item, category, segment, pack, unit) group with mean
// price, summed units, summed volume and the resulting volume market share.
// Group order follows first appearance in the extract.
func AggregateExtract(path string, year int) ([]AggregatedSKU, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open extract")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read extract header")
	}
	cols, err := mapExtractColumns(header)
	if err != nil {
		return nil, err
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read extract rows")
	}

	type groupAccum struct {
		out        AggregatedSKU
		priceSum   float64
		priceCount int
	}
	groups := map[string]*groupAccum{}
	var order []string
	var totalVolume float64

	for _, row := range rows {
		date, err := parseExtractDate(row[cols.date])
		if err != nil || date.Year() != year {
			continue
		}
		pack := CleanPackSize(row[cols.packSize])
		unit := CleanUnitSize(row[cols.unitSize])
		if pack == nil || unit == nil {
			continue
		}
		units := parseOptionalFloat(row[cols.salesUnits])
		price := parseOptionalFloat(row[cols.pricePerUnit])
		if units == nil {
			continue
		}

		volume := *pack * *unit * *units
		key := strings.Join([]string{
			row[cols.item], row[cols.category], row[cols.segment],
			strconv.FormatFloat(*pack, 'f', -1, 64),
			strconv.FormatFloat(*unit, 'f', -1, 64),
		}, "|")

		g, ok := groups[key]
		if !ok {
			g = &groupAccum{out: AggregatedSKU{
				Item:     strings.TrimSpace(row[cols.item]),
				Category: strings.TrimSpace(row[cols.category]),
				Segment:  strings.TrimSpace(row[cols.segment]),
				PackSize: *pack,
				UnitSize: *unit,
			}}
			groups[key] = g
			order = append(order, key)
		}
		g.out.TotalSalesUnits += *units
		g.out.VolumeSold += volume
		totalVolume += volume
		if price != nil {
			g.priceSum += *price
			g.priceCount++
		}
	}

	out := make([]AggregatedSKU, 0, len(order))
	for _, key := range order {
		g := groups[key]
		if g.priceCount > 0 {
			g.out.AveragePrice = g.priceSum / float64(g.priceCount)
		}
		if totalVolume > 0 {
			g.out.VoMS = g.out.VolumeSold / totalVolume
		}
		out = append(out, g.out)
	}
	return out, nil
}

// WriteAggregatedCSV writes the aggregation result to path.
func WriteAggregatedCSV(path string, rows []AggregatedSKU) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"ITEM", "Level_1", "Level_3",
		"PackSizeCleaned", "UnitSizeCleaned",
		"Average_Price_per_Unit", "Total_Sales_Units", "VolumeSold", "VoMS",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		rec := []string{
			row.Item,
			row.Category,
			row.Segment,
			strconv.FormatFloat(row.PackSize, 'f', -1, 64),
			strconv.FormatFloat(row.UnitSize, 'f', -1, 64),
			strconv.FormatFloat(row.AveragePrice, 'f', 6, 64),
			strconv.FormatFloat(row.TotalSalesUnits, 'f', -1, 64),
			strconv.FormatFloat(row.VolumeSold, 'f', 6, 64),
			strconv.FormatFloat(row.VoMS, 'f', 6, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Error()
}

func mapExtractColumns(header []string) (extractColumns, error) {
	cols := extractColumns{
		item: -1, category: -1, segment: -1,
		packSize: -1, unitSize: -1, date: -1,
		pricePerUnit: -1, salesUnits: -1,
	}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "item":
			cols.item = i
		case "level_1":
			cols.category = i
		case "level_3":
			cols.segment = i
		case "pack size":
			cols.packSize = i
		case "unit size":
			cols.unitSize = i
		case "date":
			cols.date = i
		case "sales price per unit":
			cols.pricePerUnit = i
		case "sales unit":
			cols.salesUnits = i
		}
	}
	missing := []string{}
	for name, idx := range map[string]int{
		"ITEM": cols.item, "Level_1": cols.category, "Level_3": cols.segment,
		"PACK SIZE": cols.packSize, "UNIT SIZE": cols.unitSize, "DATE": cols.date,
		"Sales Price per Unit": cols.pricePerUnit, "Sales Unit": cols.salesUnits,
	} {
		if idx < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return cols, errors.Errorf("extract is missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

var extractDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	time.RFC3339,
}

func parseExtractDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range extractDateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
