package tutorial

import (
	"iter"
	"strings"
)

// Point is a single price destined for a series.
type Point struct {
	Path  string
	Date  string
	Price float64
}

// SeriesPath builds the series path for indexID and priceType:
// seriesType/provider/indexID/frequency/priceType. The provider segment is
// left out only for layouts without a provider column. An empty provider
// value gives an empty segment.
func (d *Document) SeriesPath(indexID, priceType string) string {
	segs := make([]string, 0, 5)
	segs = append(segs, d.SeriesType)
	if d.HasProvider() {
		segs = append(segs, *d.Provider)
	}
	segs = append(segs, indexID, d.Frequency, priceType)
	return strings.Join(segs, "/")
}

// Points returns a sequence yielding one Point per price in the document's
// hierarchy, ordered by index id, price type, then date. Each range over the
// returned sequence is an independent traversal.
func Points(d *Document) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for _, id := range d.Index.Keys() {
			pts := d.Index[id]
			for _, pt := range pts.Keys() {
				path := d.SeriesPath(id, pt)
				prices := pts[pt]
				for _, date := range prices.Keys() {
					if !yield(Point{Path: path, Date: date, Price: prices[date]}) {
						return
					}
				}
			}
		}
	}
}
