package report

import (
	"context"
	"io"
	"os"

	tutorial "github.com/jgrabenstein/RaptureTutorials"
	"github.com/jgrabenstein/RaptureTutorials/backend"
	"github.com/pkg/errors"
)

// Main holds the options for building a report of the prices the intro
// tutorial stored.
type Main struct {
	IndexIDs   []string `help:"Index ids to report on, one column each."`
	SeriesType string   `help:"Series type segment of the series paths."`
	Layout     string   `help:"Layout the series were loaded from: v1 (no provider segment) or v2."`
	Provider   string   `help:"Provider segment of the series paths (v2 only)."`
	Frequency  string   `help:"Frequency segment of the series paths."`
	PriceType  string   `help:"Price type to report."`
	NumPoints  int      `help:"Number of most recent points to report per index."`
	Output     string   `help:"Blob URI the report is stored at."`
	LogFormat  string   `help:"Log format: text or json."`

	backend.Config `flag:"!embed"`

	Stderr io.Writer       `flag:"-"`
	Stores *backend.Stores `flag:"-"`
}

// NewMain returns a new Main reporting on the tutorial's sample series.
func NewMain() *Main {
	return &Main{
		IndexIDs:   []string{"AUDUSD_CURNCY_Dummy", "USGG2YR_Index_Dummy"},
		Layout:     "v2",
		SeriesType: "HIST",
		Provider:   "TutorialIntro_Go",
		Frequency:  "DAILY",
		PriceType:  "PX_LAST",
		NumPoints:  50,
		Output:     tutorial.NewURI(tutorial.SchemeBlob, tutorial.BlobAuthority, "report.xlsx").String(),
		LogFormat:  "text",
		Config:     backend.NewConfig(),
		Stderr:     os.Stderr,
	}
}

// Run builds the report and stores it at Output.
func (m *Main) Run() (err error) {
	ctx := context.Background()
	log, err := tutorial.NewLogger(m.LogFormat, false, m.Stderr)
	if err != nil {
		return err
	}
	layout, err := tutorial.ParseLayout(m.Layout)
	if err != nil {
		return err
	}
	if len(m.IndexIDs) == 0 {
		return errors.New("no index ids to report on")
	}

	stores := m.Stores
	if stores == nil {
		stores, err = m.Config.Open()
		if err != nil {
			return errors.Wrap(err, "opening stores")
		}
		defer func() {
			if cerr := stores.Close(); cerr != nil && err == nil {
				err = errors.Wrap(cerr, "closing stores")
			}
		}()
	}
	if stores.Reader == nil {
		return errors.Errorf("series store '%s' cannot be read back", m.SeriesStore)
	}

	doc := &tutorial.Document{SeriesType: m.SeriesType, Frequency: m.Frequency}
	if layout.HasProvider() {
		doc.SetProvider(m.Provider)
	}
	repo := tutorial.NewURI(tutorial.SchemeSeries, tutorial.SeriesAuthority, "")
	log.Printf("Reading the last %d %s points of %v", m.NumPoints, m.PriceType, m.IndexIDs)
	cols, err := Read(ctx, stores.Reader, repo, doc, m.PriceType, m.IndexIDs, m.NumPoints)
	if tutorial.IsNotFound(err) {
		return errors.Wrapf(err, "please run the intro tutorial step '%s' first", tutorial.StepDocToSeries)
	} else if err != nil {
		return err
	}

	f, err := Workbook(cols)
	if err != nil {
		return errors.Wrap(err, "building workbook")
	}
	defer f.Close()
	data, err := Encode(f)
	if err != nil {
		return err
	}
	if err := stores.Blobs.PutBlob(ctx, m.Output, data, XLSXContentType); err != nil {
		return errors.Wrapf(err, "putting report %s", m.Output)
	}
	log.Printf("Report stored at %s", m.Output)
	return nil
}
