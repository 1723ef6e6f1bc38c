// Package tutorial is the Rapture intro tutorial. It moves a file of prices
// through three kinds of storage, one step at a time.
//
// 1. upload
//
//    The raw CSV is stored unchanged as a blob at
//    blob://tutorialBlob/introDataInbound with content type text/csv.
//
// 2. blobToDoc
//
//    The blob is parsed into a Document. The series type, provider and
//    frequency come from the first data row, and every (price type, date,
//    price) triple of every row lands in a Hierarchy keyed by index id, then
//    price type, then date. The document is stored as JSON at
//    document://tutorialDoc/introDataTranslated. A malformed CSV stores
//    nothing.
//
// 3. docToSeries
//
//    The document is flattened into Points, one per price, and each is
//    appended to the series
//    series://datacapture/<series type>/<provider>/<index id>/<frequency>/<price type>.
//    Distinct series may be appended to concurrently. Points of one series
//    are always appended in date order.
//
// The stores behind each step are interfaces (BlobStore, DocStore,
// SeriesStore) with implementations in the boltdb, leveldb, aws/s3 and kafka
// packages, and in-memory ones in mock.
package tutorial
