package gen

import (
	"io"
	"os"
	"time"

	tutorial "github.com/jgrabenstein/RaptureTutorials"
	"github.com/pkg/errors"
)

// Main holds the options for generating a sample tutorial CSV.
type Main struct {
	Seed       int64    `help:"Random seed for generating prices. -1 will use current nanosecond."`
	Output     string   `help:"File to write. - writes to stdout."`
	Layout     string   `help:"CSV layout: v1 or v2."`
	SeriesType string   `help:"Series type column value."`
	Provider   string   `help:"Provider column value (v2 only)."`
	Frequency  string   `help:"Frequency column value."`
	IndexIDs   []string `help:"Index ids to generate prices for."`
	PriceTypes []string `help:"Price types to generate for each index id."`
	Start      string   `help:"First date, as YYYY-MM-DD."`
	Days       int      `help:"Number of business days of prices per series."`

	Stdout io.Writer `flag:"-"`
}

// NewMain returns a new Main generating the tutorial's sample data.
func NewMain() *Main {
	return &Main{
		Seed:       0,
		Output:     "introData.csv",
		Layout:     "v2",
		SeriesType: "HIST",
		Provider:   "TutorialIntro_Go",
		Frequency:  "DAILY",
		IndexIDs:   []string{"AUDUSD_CURNCY_Dummy", "USGG2YR_Index_Dummy"},
		PriceTypes: []string{"PX_LAST"},
		Start:      "2016-01-04",
		Days:       100,
		Stdout:     os.Stdout,
	}
}

// Run writes the sample file.
func (m *Main) Run() (err error) {
	if m.Seed == -1 {
		m.Seed = time.Now().UnixNano()
	}
	layout, err := tutorial.ParseLayout(m.Layout)
	if err != nil {
		return err
	}
	start, err := time.Parse(DateFormat, m.Start)
	if err != nil {
		return errors.Wrap(err, "parsing start date")
	}
	if m.Days < 1 {
		return errors.New("days must be at least 1")
	}

	w := m.Stdout
	if m.Output != "-" {
		f, err := os.Create(m.Output)
		if err != nil {
			return errors.Wrap(err, "creating output file")
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = errors.Wrap(cerr, "closing output file")
			}
		}()
		w = f
	}
	return NewGenerator(m.Seed).Write(w, Sample{
		Layout:     layout,
		SeriesType: m.SeriesType,
		Provider:   m.Provider,
		Frequency:  m.Frequency,
		IndexIDs:   m.IndexIDs,
		PriceTypes: m.PriceTypes,
		Start:      start,
		Days:       m.Days,
	})
}
