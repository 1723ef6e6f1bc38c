package tutorial

import (
	"context"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Step names one stage of the tutorial.
type Step string

const (
	StepUpload      Step = "upload"
	StepBlobToDoc   Step = "blobToDoc"
	StepDocToSeries Step = "docToSeries"
	StepAll         Step = "all"
)

// Steps lists the runnable steps in order.
var Steps = []Step{StepUpload, StepBlobToDoc, StepDocToSeries, StepAll}

// ParseStep resolves a step name, ignoring case.
func ParseStep(s string) (Step, error) {
	for _, step := range Steps {
		if strings.EqualFold(string(step), strings.TrimSpace(s)) {
			return step, nil
		}
	}
	return "", errors.Errorf("unknown tutorial step '%s'", s)
}

// CSVContentType is the content type the raw CSV blob is stored with.
const CSVContentType = "text/csv"

// Tutorial runs the steps of the intro tutorial against a set of stores:
// upload a CSV as a blob, translate the blob into a JSON document, and add
// the document's prices to series.
type Tutorial struct {
	blobs  BlobStore
	docs   DocStore
	series SeriesStore

	parser      *Parser
	rawCSV      URI
	document    URI
	seriesRepo  URI
	concurrency int

	log   Logger
	stats Statter
}

// TutorialOption is a functional option for NewTutorial.
type TutorialOption func(t *Tutorial)

// OptLayout sets the CSV layout used by the blobToDoc step.
func OptLayout(l Layout) TutorialOption {
	return func(t *Tutorial) {
		t.parser = NewParser(l)
	}
}

// OptRawCSVURI sets where the uploaded CSV blob is stored.
func OptRawCSVURI(u URI) TutorialOption {
	return func(t *Tutorial) {
		t.rawCSV = u
	}
}

// OptDocumentURI sets where the translated document is stored.
func OptDocumentURI(u URI) TutorialOption {
	return func(t *Tutorial) {
		t.document = u
	}
}

// OptSeriesRepo sets the repository under which series are created.
func OptSeriesRepo(u URI) TutorialOption {
	return func(t *Tutorial) {
		t.seriesRepo = u
	}
}

// OptConcurrency sets how many series are appended to at once by the
// docToSeries step. Points of a single series are always appended in order.
func OptConcurrency(c int) TutorialOption {
	return func(t *Tutorial) {
		if c > 0 {
			t.concurrency = c
		}
	}
}

// OptLogger sets the Logger.
func OptLogger(l Logger) TutorialOption {
	return func(t *Tutorial) {
		t.log = l
	}
}

// OptStatter sets the Statter.
func OptStatter(s Statter) TutorialOption {
	return func(t *Tutorial) {
		t.stats = s
	}
}

// NewTutorial returns a Tutorial using the given stores and the original
// tutorial locations unless overridden by options.
func NewTutorial(blobs BlobStore, docs DocStore, series SeriesStore, opts ...TutorialOption) *Tutorial {
	t := &Tutorial{
		blobs:       blobs,
		docs:        docs,
		series:      series,
		parser:      NewParser(LayoutV2),
		rawCSV:      NewURI(SchemeBlob, BlobAuthority, RawCSVPath),
		document:    NewURI(SchemeDocument, DocAuthority, JSONDocumentPath),
		seriesRepo:  NewURI(SchemeSeries, SeriesAuthority, ""),
		concurrency: 1,
		log:         NopLogger{},
		stats:       NopStatter{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run runs step. csvFile is only read by the upload step.
func (t *Tutorial) Run(ctx context.Context, step Step, csvFile string) error {
	if step == StepAll || step == StepUpload {
		if err := t.UploadFile(ctx, csvFile); err != nil {
			return errors.Wrap(err, "upload")
		}
	}
	if step == StepAll || step == StepBlobToDoc {
		if _, err := t.BlobToDoc(ctx); err != nil {
			return errors.Wrap(err, "blobToDoc")
		}
	}
	if step == StepAll || step == StepDocToSeries {
		if _, err := t.DocToSeries(ctx); err != nil {
			return errors.Wrap(err, "docToSeries")
		}
	}
	t.log.Printf("Done.")
	return nil
}

// UploadFile reads csvFile and stores its content as the raw CSV blob.
func (t *Tutorial) UploadFile(ctx context.Context, csvFile string) error {
	if csvFile == "" {
		return errors.New("no CSV file specified")
	}
	t.log.Printf("Reading CSV from file %s", csvFile)
	data, err := os.ReadFile(csvFile)
	if err != nil {
		return errors.Wrapf(err, "reading CSV %s", csvFile)
	}
	return t.Upload(ctx, data)
}

// Upload stores data as the raw CSV blob.
func (t *Tutorial) Upload(ctx context.Context, data []byte) error {
	start := time.Now()
	t.log.Printf("Uploading CSV")
	if err := t.blobs.PutBlob(ctx, t.rawCSV.String(), data, CSVContentType); err != nil {
		return errors.Wrapf(err, "putting blob %s", t.rawCSV)
	}
	t.stats.Count("blobs_put", 1, 1.0)
	t.stats.Timing("step.upload", time.Since(start), 1.0)
	t.log.Printf("CSV uploaded to %s", t.rawCSV)
	return nil
}

// BlobToDoc fetches the raw CSV blob, translates it into a Document and
// stores the document's JSON. Nothing is stored if the CSV is malformed.
func (t *Tutorial) BlobToDoc(ctx context.Context) (*Document, error) {
	start := time.Now()
	t.log.Printf("Retrieving raw CSV content from %s", t.rawCSV)
	raw, err := t.blobs.GetBlob(ctx, t.rawCSV.String())
	if IsNotFound(err) {
		return nil, errors.Wrapf(err, "please run step '%s' to add the CSV", StepUpload)
	} else if err != nil {
		return nil, errors.Wrapf(err, "getting blob %s", t.rawCSV)
	}

	t.log.Printf("Translating raw CSV content to a JSON document")
	doc, err := t.parser.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(err, "there was a problem with the format of the CSV")
	}
	t.stats.Count("prices_parsed", int64(doc.Index.Len()), 1.0)
	text, err := doc.Encode()
	if err != nil {
		return nil, err
	}

	t.log.Printf("Storing JSON document at %s", t.document)
	if err := t.docs.PutDoc(ctx, t.document.String(), text); err != nil {
		return nil, errors.Wrapf(err, "putting document %s", t.document)
	}
	t.stats.Count("docs_put", 1, 1.0)
	t.stats.Timing("step.blobToDoc", time.Since(start), 1.0)
	return doc, nil
}

// DocToSeries fetches the translated document and appends every price in it
// to its series, returning the number of points appended.
func (t *Tutorial) DocToSeries(ctx context.Context) (int64, error) {
	start := time.Now()
	t.log.Printf("Adding price data from %s to series repo %s", t.document, t.seriesRepo)
	text, err := t.docs.GetDoc(ctx, t.document.String())
	if IsNotFound(err) {
		return 0, errors.Wrapf(err, "please run step '%s' to transform the raw CSV into a document", StepBlobToDoc)
	} else if err != nil {
		return 0, errors.Wrapf(err, "getting document %s", t.document)
	}
	doc, err := DecodeDocument(text)
	if err != nil {
		return 0, err
	}

	var appended int64
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(t.concurrency)
	appendAll := func(pts []Point) {
		series := t.seriesRepo.Join(pts[0].Path).String()
		eg.Go(func() error {
			t.log.Debugf("Adding %d points to series %s", len(pts), series)
			for _, p := range pts {
				if err := t.series.AppendPoint(ctx, series, p.Date, p.Price); err != nil {
					return errors.Wrapf(err, "adding %s to %s", p.Date, series)
				}
				atomic.AddInt64(&appended, 1)
				t.stats.Count("points_appended", 1, 1.0)
			}
			return nil
		})
	}

	// Points come grouped by path, so each run of equal paths is one series.
	var batch []Point
	for p := range Points(doc) {
		if ctx.Err() != nil {
			break
		}
		if len(batch) > 0 && batch[0].Path != p.Path {
			appendAll(batch)
			batch = nil
		}
		batch = append(batch, p)
	}
	if len(batch) > 0 && ctx.Err() == nil {
		appendAll(batch)
	}
	if err := eg.Wait(); err != nil {
		return atomic.LoadInt64(&appended), err
	}
	t.stats.Timing("step.docToSeries", time.Since(start), 1.0)
	t.log.Printf("Added %d points", appended)
	return appended, nil
}
