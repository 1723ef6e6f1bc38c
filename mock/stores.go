// Package mock contains in-memory implementations of the tutorial's stores
// and statter, for tests.
package mock

import (
	"context"
	"sort"
	"sync"

	tutorial "github.com/jgrabenstein/RaptureTutorials"
)

var (
	_ tutorial.BlobStore    = &Blobs{}
	_ tutorial.DocStore     = &Docs{}
	_ tutorial.SeriesStore  = &Series{}
	_ tutorial.SeriesReader = &Series{}
)

// Blob is a stored blob.
type Blob struct {
	Data        []byte
	ContentType string
}

// Blobs is an in-memory BlobStore keyed by URI string.
type Blobs struct {
	mu    sync.RWMutex
	blobs map[string]Blob

	// PutErr, if set, is returned from every PutBlob.
	PutErr error
}

func (b *Blobs) BlobExists(ctx context.Context, uri string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.blobs[uri]
	return ok, nil
}

func (b *Blobs) GetBlob(ctx context.Context, uri string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	blob, ok := b.blobs[uri]
	if !ok {
		return nil, tutorial.NewNotFoundError(uri)
	}
	return append([]byte(nil), blob.Data...), nil
}

func (b *Blobs) PutBlob(ctx context.Context, uri string, data []byte, contentType string) error {
	if b.PutErr != nil {
		return b.PutErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.blobs == nil {
		b.blobs = make(map[string]Blob)
	}
	b.blobs[uri] = Blob{Data: append([]byte(nil), data...), ContentType: contentType}
	return nil
}

// Blob returns what's stored at uri.
func (b *Blobs) Blob(uri string) (Blob, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	blob, ok := b.blobs[uri]
	return blob, ok
}

// Docs is an in-memory DocStore keyed by URI string.
type Docs struct {
	mu   sync.RWMutex
	docs map[string]string
}

func (d *Docs) PutDoc(ctx context.Context, uri, doc string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.docs == nil {
		d.docs = make(map[string]string)
	}
	d.docs[uri] = doc
	return nil
}

func (d *Docs) GetDoc(ctx context.Context, uri string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	doc, ok := d.docs[uri]
	if !ok {
		return "", tutorial.NewNotFoundError(uri)
	}
	return doc, nil
}

// Len is the number of stored documents.
func (d *Docs) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.docs)
}

// Series is an in-memory SeriesStore and SeriesReader. It keeps every
// append in order as well as the latest value for each column.
type Series struct {
	mu      sync.Mutex
	appends map[string][]tutorial.SeriesPoint

	// FailOn, if set, makes AppendPoint fail for that series.
	FailOn string
	Err    error
}

func (s *Series) AppendPoint(ctx context.Context, series, date string, value float64) error {
	if s.FailOn != "" && series == s.FailOn {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appends == nil {
		s.appends = make(map[string][]tutorial.SeriesPoint)
	}
	s.appends[series] = append(s.appends[series], tutorial.SeriesPoint{Column: date, Value: value})
	return nil
}

func (s *Series) Points(ctx context.Context, series string) ([]tutorial.SeriesPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	apps := s.appends[series]
	if len(apps) == 0 {
		return nil, tutorial.NewNotFoundError(series)
	}
	latest := make(map[string]float64, len(apps))
	for _, p := range apps {
		latest[p.Column] = p.Value
	}
	pts := make([]tutorial.SeriesPoint, 0, len(latest))
	for col, val := range latest {
		pts = append(pts, tutorial.SeriesPoint{Column: col, Value: val})
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].Column < pts[j].Column })
	return pts, nil
}

// Appends returns the points appended to series, in append order.
func (s *Series) Appends(series string) []tutorial.SeriesPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]tutorial.SeriesPoint(nil), s.appends[series]...)
}

// Names returns the names of every series appended to, sorted.
func (s *Series) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.appends))
	for n := range s.appends {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
