// Package intro runs the steps of the Rapture intro tutorial from the
// command line.
package intro

import (
	"context"
	"io"
	"os"
	"time"

	tutorial "github.com/jgrabenstein/RaptureTutorials"
	"github.com/jgrabenstein/RaptureTutorials/backend"
	"github.com/jgrabenstein/RaptureTutorials/prom"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Main holds the options for running the intro tutorial.
type Main struct {
	File        string `help:"CSV file to upload."`
	Step        string `help:"Step to run: upload, blobToDoc, docToSeries, or all."`
	Layout      string `help:"CSV layout: v1 (no provider column) or v2."`
	Concurrency int    `help:"Number of series appended to at once."`
	Verbose     bool   `help:"Log each series as it is appended to."`
	LogFormat   string `help:"Log format: text or json."`
	MetricsAddr string `help:"Serve Prometheus metrics on this address while running. Blank disables."`

	backend.Config `flag:"!embed"`

	// Stderr receives text logs.
	Stderr io.Writer `flag:"-"`
	// Stores, if set, are used instead of opening the configured ones.
	Stores *backend.Stores `flag:"-"`
}

// NewMain returns a new Main.
func NewMain() *Main {
	return &Main{
		File:        "introData.csv",
		Step:        string(tutorial.StepAll),
		Layout:      "v2",
		Concurrency: 4,
		LogFormat:   "text",
		Config:      backend.NewConfig(),
		Stderr:      os.Stderr,
	}
}

// Run runs the configured step.
func (m *Main) Run() error {
	return m.RunContext(context.Background())
}

// RunContext runs the configured step, stopping early if ctx is done.
func (m *Main) RunContext(ctx context.Context) (err error) {
	start := time.Now()
	step, err := tutorial.ParseStep(m.Step)
	if err != nil {
		return err
	}
	layout, err := tutorial.ParseLayout(m.Layout)
	if err != nil {
		return err
	}
	log, err := tutorial.NewLogger(m.LogFormat, m.Verbose, m.Stderr)
	if err != nil {
		return err
	}

	var stats tutorial.Statter = tutorial.NopStatter{}
	if m.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		srv, err := prom.Serve(m.MetricsAddr, reg)
		if err != nil {
			return errors.Wrap(err, "serving metrics")
		}
		defer srv.Close()
		log.Printf("Serving metrics on %s", srv.Addr)
		stats = prom.NewStatter(reg, "rapture")
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

	t := tutorial.NewTutorial(stores.Blobs, stores.Docs, stores.Series,
		tutorial.OptLayout(layout),
		tutorial.OptConcurrency(m.Concurrency),
		tutorial.OptLogger(log),
		tutorial.OptStatter(stats),
	)
	if err := t.Run(ctx, step, m.File); err != nil {
		return err
	}
	log.Debugf("Step %s took %s", step, time.Since(start))
	return nil
}
