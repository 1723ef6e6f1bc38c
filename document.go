package tutorial

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Header names used in the JSON document.
const (
	ProviderHeader   = "provider"
	SeriesTypeHeader = "series_type"
	FrequencyHeader  = "frequency"
	IndexIDHeader    = "index_id"
)

// Document is the translated form of one CSV file: the header values which
// are constant across every row, and the price hierarchy. It's stored in the
// document repo as JSON with keys in the order provider, series_type,
// frequency, index_id.
//
// Provider is nil for layouts without a provider column, and the provider key
// is then absent from the JSON. An empty provider value from a layout which
// has the column is kept as "".
type Document struct {
	Provider   *string   `json:"provider,omitempty"`
	SeriesType string    `json:"series_type"`
	Frequency  string    `json:"frequency"`
	Index      Hierarchy `json:"index_id"`
}

// NewDocument returns an empty Document ready to be filled by a parse.
func NewDocument() *Document {
	return &Document{Index: make(Hierarchy)}
}

// SetProvider records a provider column value, possibly empty.
func (d *Document) SetProvider(p string) {
	d.Provider = &p
}

// HasProvider reports whether the document came from a layout with a
// provider column.
func (d *Document) HasProvider() bool {
	return d.Provider != nil
}

// ProviderName is the provider value, "" if there is none.
func (d *Document) ProviderName() string {
	if d.Provider == nil {
		return ""
	}
	return *d.Provider
}

// Encode returns the JSON text of the document. Map keys at every level of
// the hierarchy come out sorted.
func (d *Document) Encode() (string, error) {
	bs, err := json.Marshal(d)
	if err != nil {
		return "", errors.Wrap(err, "marshaling document")
	}
	return string(bs), nil
}

// DecodeDocument parses JSON text produced by Document.Encode.
func DecodeDocument(text string) (*Document, error) {
	d := NewDocument()
	if err := json.Unmarshal([]byte(text), d); err != nil {
		return nil, errors.Wrap(err, "unmarshaling document")
	}
	if d.Index == nil {
		d.Index = make(Hierarchy)
	}
	return d, nil
}
