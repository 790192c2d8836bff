package model

import (
	"fmt"
	"strings"
)

// SKURecord is one row of the SKU dataset.
//
// Numeric fields are pointers because the backing CSV has gaps: a nil
// elasticity means "no elasticity data", which is a different business fact
// than an elasticity of zero. The loader never fills these with defaults.
type SKURecord struct {
	Name      string `json:"name"`
	Ownership string `json:"ownership"`
	Category  string `json:"category"`
	Segment   string `json:"segment"`

	CustomerPrice   *float64 `json:"customer_price"`
	VolumeSold      *float64 `json:"volume_sold"`
	PriceElasticity *float64 `json:"price_elasticity"`
	GP              *float64 `json:"gp"`

	// Descriptive metrics carried through to the catalog endpoints.
	// The impact engine never reads these.
	Volume      *float64 `json:"volume"`
	Price       *float64 `json:"price"`
	RSV         *float64 `json:"rsv"`
	GPMass      *float64 `json:"gp_mass"`
	UnitSold    *float64 `json:"unit_sold"`
	VolumeShare *float64 `json:"volume_share"`
	ValueShare  *float64 `json:"value_share"`
}

// Snapshot is an ordered, point-in-time collection of SKU records with
// unique names. It is built once per request and treated as immutable.
type Snapshot struct {
	records []SKURecord
}

// NewSnapshot validates name uniqueness and wraps the records.
func NewSnapshot(records []SKURecord) (*Snapshot, error) {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, dup := seen[r.Name]; dup {
			return nil, fmt.Errorf("duplicate SKU name %q in snapshot", r.Name)
		}
		seen[r.Name] = struct{}{}
	}
	return &Snapshot{records: records}, nil
}

func (s *Snapshot) Len() int { return len(s.records) }

// Records returns the rows in table order. Callers must not modify them.
func (s *Snapshot) Records() []SKURecord { return s.records }

// Lookup returns the record with the given name, first match in table order.
func (s *Snapshot) Lookup(name string) (*SKURecord, bool) {
	for i := range s.records {
		if s.records[i].Name == name {
			return &s.records[i], true
		}
	}
	return nil, false
}

// Filter returns the rows matching the given catalog filters. query is a
// case-insensitive substring match on the name; the remaining filters are
// exact matches and ignored when empty.
func (s *Snapshot) Filter(query, ownership, category, segment string) []SKURecord {
	out := make([]SKURecord, 0, len(s.records))
	q := strings.ToLower(query)
	for _, r := range s.records {
		if q != "" && !strings.Contains(strings.ToLower(r.Name), q) {
			continue
		}
		if ownership != "" && r.Ownership != ownership {
			continue
		}
		if category != "" && r.Category != category {
			continue
		}
		if segment != "" && r.Segment != segment {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Clone deep-copies the snapshot so a caller can apply hypothetical changes
// without touching the original rows.
func (s *Snapshot) Clone() *Snapshot {
	records := make([]SKURecord, len(s.records))
	for i, r := range s.records {
		records[i] = r.clone()
	}
	return &Snapshot{records: records}
}

func (r SKURecord) clone() SKURecord {
	out := r
	out.CustomerPrice = clonePtr(r.CustomerPrice)
	out.VolumeSold = clonePtr(r.VolumeSold)
	out.PriceElasticity = clonePtr(r.PriceElasticity)
	out.GP = clonePtr(r.GP)
	out.Volume = clonePtr(r.Volume)
	out.Price = clonePtr(r.Price)
	out.RSV = clonePtr(r.RSV)
	out.GPMass = clonePtr(r.GPMass)
	out.UnitSold = clonePtr(r.UnitSold)
	out.VolumeShare = clonePtr(r.VolumeShare)
	out.ValueShare = clonePtr(r.ValueShare)
	return out
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
