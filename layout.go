package tutorial

import (
	"strings"

	"github.com/pkg/errors"
)

// Layout describes the fixed column positions of a tutorial CSV file. Every
// layout ends with a (price type, date, price) triple, and any columns
// beyond the fixed prefix repeat that triple.
type Layout struct {
	Name string

	SeriesType int
	// Provider is -1 for layouts without a provider column.
	Provider  int
	IndexID   int
	Frequency int
	// PriceType is the first column of the first (price type, date, price)
	// triple.
	PriceType int
}

var (
	// LayoutV1 is the original tutorial layout:
	// series_type,index_id,frequency,price_type,date,price
	LayoutV1 = Layout{
		Name:       "v1",
		SeriesType: 0,
		Provider:   -1,
		IndexID:    1,
		Frequency:  2,
		PriceType:  3,
	}

	// LayoutV2 adds a provider column:
	// series_type,provider,index_id,frequency,price_type,date,price
	LayoutV2 = Layout{
		Name:       "v2",
		SeriesType: 0,
		Provider:   1,
		IndexID:    2,
		Frequency:  3,
		PriceType:  4,
	}
)

// Layouts lists the known layouts by name.
var Layouts = map[string]Layout{
	LayoutV1.Name: LayoutV1,
	LayoutV2.Name: LayoutV2,
}

// ParseLayout returns the Layout with the given name (case insensitive).
func ParseLayout(name string) (Layout, error) {
	l, ok := Layouts[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Layout{}, errors.Errorf("unknown CSV layout '%s'", name)
	}
	return l, nil
}

// HasProvider reports whether the layout carries a provider column.
func (l Layout) HasProvider() bool { return l.Provider >= 0 }

// MinFields is the number of fields in a row holding exactly one
// (price type, date, price) triple.
func (l Layout) MinFields() int { return l.PriceType + 3 }

// checkFields validates a field count against the layout. Rows may carry
// extra triples, but never a partial one.
func (l Layout) checkFields(n int) error {
	if n < l.MinFields() {
		return errors.Errorf("layout %s needs at least %d fields, got %d", l.Name, l.MinFields(), n)
	}
	if (n-l.PriceType)%3 != 0 {
		return errors.Errorf("layout %s: %d trailing fields don't form (price_type,date,price) triples", l.Name, n-l.PriceType)
	}
	return nil
}

// Header returns the canonical header row for the layout with the given
// number of triples.
func (l Layout) Header(triples int) []string {
	hdr := []string{SeriesTypeHeader}
	if l.HasProvider() {
		hdr = append(hdr, ProviderHeader)
	}
	hdr = append(hdr, IndexIDHeader, FrequencyHeader)
	for i := 0; i < triples; i++ {
		hdr = append(hdr, "price_type", "date", "price")
	}
	return hdr
}
