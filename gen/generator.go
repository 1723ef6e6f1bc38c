// Package gen generates sample tutorial CSV files of random-walk prices.
package gen

import (
	"encoding/csv"
	"io"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	tutorial "github.com/jgrabenstein/RaptureTutorials"
	"github.com/pkg/errors"
)

// DateFormat is the format of generated dates.
const DateFormat = "2006-01-02"

// Generator holds state for generating prices. The same seed always yields
// the same file.
type Generator struct {
	r *rand.Rand

	// Volatility is the standard deviation of the daily relative price
	// change.
	Volatility float64
}

// NewGenerator gets a new Generator.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		r:          rand.New(rand.NewSource(seed)),
		Volatility: 0.01,
	}
}

// Walk returns n prices starting near start, each a random relative step
// from the last. Prices are rounded to 4 decimals and never drop below 0.0001.
func (g *Generator) Walk(start float64, n int) []float64 {
	prices := make([]float64, n)
	p := start
	for i := range prices {
		p *= 1 + g.r.NormFloat64()*g.Volatility
		p = math.Max(math.Round(p*1e4)/1e4, 0.0001)
		prices[i] = p
	}
	return prices
}

// BusinessDays returns n consecutive weekdays starting at from (or the first
// weekday after it).
func BusinessDays(from time.Time, n int) []time.Time {
	days := make([]time.Time, 0, n)
	for d := from; len(days) < n; d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		days = append(days, d)
	}
	return days
}

// Sample describes the file to generate.
type Sample struct {
	Layout     tutorial.Layout
	SeriesType string
	Provider   string
	Frequency  string
	IndexIDs   []string
	PriceTypes []string
	Start      time.Time
	Days       int
}

// Validate checks that every value can be written unquoted, since tutorial
// CSV files have no quoting.
func (s Sample) Validate() error {
	vals := []string{s.SeriesType, s.Provider, s.Frequency}
	vals = append(vals, s.IndexIDs...)
	vals = append(vals, s.PriceTypes...)
	for _, v := range vals {
		if strings.ContainsAny(v, ",\"\r\n") {
			return errors.Errorf("value '%s' contains a comma, quote or line break", v)
		}
	}
	return nil
}

// Write writes a header and one row per (index id, price type, day) to w.
// It fails before writing anything if the sample doesn't Validate.
func (g *Generator) Write(w io.Writer, s Sample) error {
	if err := s.Validate(); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(s.Layout.Header(1)); err != nil {
		return errors.Wrap(err, "writing header")
	}
	days := BusinessDays(s.Start, s.Days)
	row := make([]string, s.Layout.MinFields())
	row[s.Layout.SeriesType] = s.SeriesType
	if s.Layout.HasProvider() {
		row[s.Layout.Provider] = s.Provider
	}
	row[s.Layout.Frequency] = s.Frequency
	for _, id := range s.IndexIDs {
		row[s.Layout.IndexID] = id
		for _, pt := range s.PriceTypes {
			row[s.Layout.PriceType] = pt
			prices := g.Walk(1+g.r.Float64()*99, len(days))
			for i, day := range days {
				row[s.Layout.PriceType+1] = day.Format(DateFormat)
				row[s.Layout.PriceType+2] = strconv.FormatFloat(prices[i], 'f', -1, 64)
				if err := cw.Write(row); err != nil {
					return errors.Wrap(err, "writing row")
				}
			}
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}
