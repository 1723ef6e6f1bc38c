package tutorial

import "context"

// BlobStore stores opaque byte payloads under a URI along with a content type.
type BlobStore interface {
	BlobExists(ctx context.Context, uri string) (bool, error)
	// GetBlob returns a *NotFoundError if nothing is stored at uri.
	GetBlob(ctx context.Context, uri string) ([]byte, error)
	PutBlob(ctx context.Context, uri string, data []byte, contentType string) error
}

// DocStore stores JSON documents under a URI.
type DocStore interface {
	PutDoc(ctx context.Context, uri, doc string) error
	// GetDoc returns a *NotFoundError if nothing is stored at uri.
	GetDoc(ctx context.Context, uri string) (string, error)
}

// SeriesStore appends points to named series.
type SeriesStore interface {
	AppendPoint(ctx context.Context, series, date string, value float64) error
}

// SeriesReader reads back the points of a series.
type SeriesReader interface {
	// Points returns every point of series ordered by column. It returns a
	// *NotFoundError if the series has no points.
	Points(ctx context.Context, series string) ([]SeriesPoint, error)
}

// SeriesPoint is a stored (column, value) pair. The column of tutorial series
// is a date string.
type SeriesPoint struct {
	Column string
	Value  float64
}

// JSONContentType is the content type documents are stored with by
// BlobDocStore.
const JSONContentType = "application/json"

// BlobDocStore is a DocStore keeping each document as a JSON blob, for
// BlobStores that have no document store of their own.
type BlobDocStore struct {
	Blobs BlobStore
}

func (b BlobDocStore) PutDoc(ctx context.Context, uri, doc string) error {
	return b.Blobs.PutBlob(ctx, uri, []byte(doc), JSONContentType)
}

func (b BlobDocStore) GetDoc(ctx context.Context, uri string) (string, error) {
	data, err := b.Blobs.GetBlob(ctx, uri)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
