// Package backend opens the stores a tutorial command works against, as
// chosen by configuration.
package backend

import (
	"strings"

	tutorial "github.com/jgrabenstein/RaptureTutorials"
	"github.com/jgrabenstein/RaptureTutorials/aws/s3"
	"github.com/jgrabenstein/RaptureTutorials/boltdb"
	"github.com/jgrabenstein/RaptureTutorials/kafka"
	"github.com/jgrabenstein/RaptureTutorials/leveldb"
	"github.com/pkg/errors"
)

// Config selects and configures the stores. It is meant to be embedded in a
// command's Main.
type Config struct {
	Store       string   `help:"Blob and document store: bolt or s3."`
	SeriesStore string   `help:"Series store: bolt, leveldb, or kafka."`
	BoltPath    string   `help:"Bolt database file used by the bolt stores."`
	LevelPath   string   `help:"Directory of the leveldb series store."`
	Bucket      string   `help:"S3 bucket of the s3 store."`
	Region      string   `help:"AWS region of the s3 store."`
	Prefix      string   `help:"Object key prefix inside the S3 bucket."`
	KafkaHosts  []string `help:"Kafka brokers of the kafka series store."`
	Topic       string   `help:"Kafka topic points are sent to."`
	Encoding    string   `help:"Kafka message encoding: json or avro."`
}

// NewConfig returns a Config with every store kept in a local bolt file.
func NewConfig() Config {
	return Config{
		Store:       "bolt",
		SeriesStore: "bolt",
		BoltPath:    "rapture.db",
		LevelPath:   "rapture-series",
		Region:      "us-east-1",
		KafkaHosts:  []string{"localhost:9092"},
		Topic:       "datacapture",
		Encoding:    "json",
	}
}

// Stores are the opened stores.
type Stores struct {
	Blobs  tutorial.BlobStore
	Docs   tutorial.DocStore
	Series tutorial.SeriesStore
	// Reader is nil when the series store cannot be read back from.
	Reader tutorial.SeriesReader

	closers []func() error
}

// Close closes every opened store, returning the first error.
func (s *Stores) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}

// Open opens the configured stores. The bolt file is opened at most once and
// shared by every store using it.
func (c Config) Open() (_ *Stores, err error) {
	st := &Stores{}
	defer func() {
		if err != nil {
			st.Close()
		}
	}()

	var bolt *boltdb.Store
	openBolt := func() (*boltdb.Store, error) {
		if bolt != nil {
			return bolt, nil
		}
		b, err := boltdb.NewStore(c.BoltPath)
		if err != nil {
			return nil, errors.Wrap(err, "opening bolt store")
		}
		bolt = b
		st.closers = append(st.closers, b.Close)
		return b, nil
	}

	switch strings.ToLower(c.Store) {
	case "bolt", "":
		b, err := openBolt()
		if err != nil {
			return nil, err
		}
		st.Blobs, st.Docs = b, b
	case "s3":
		b, err := s3.NewBlobStore(
			s3.OptBlobBucket(c.Bucket),
			s3.OptBlobRegion(c.Region),
			s3.OptBlobPrefix(c.Prefix),
		)
		if err != nil {
			return nil, errors.Wrap(err, "opening s3 store")
		}
		st.Blobs, st.Docs = b, tutorial.BlobDocStore{Blobs: b}
	default:
		return nil, errors.Errorf("unknown store '%s'", c.Store)
	}

	switch strings.ToLower(c.SeriesStore) {
	case "bolt", "":
		b, err := openBolt()
		if err != nil {
			return nil, err
		}
		st.Series, st.Reader = b, b
	case "leveldb":
		l, err := leveldb.NewSeriesStore(c.LevelPath)
		if err != nil {
			return nil, errors.Wrap(err, "opening leveldb series store")
		}
		st.closers = append(st.closers, l.Close)
		st.Series, st.Reader = l, l
	case "kafka":
		k := kafka.NewSeriesSink()
		k.Hosts = c.KafkaHosts
		k.Topic = c.Topic
		k.Encoding = c.Encoding
		if err := k.Open(); err != nil {
			return nil, errors.Wrap(err, "opening kafka series sink")
		}
		st.closers = append(st.closers, k.Close)
		st.Series = k
	default:
		return nil, errors.Errorf("unknown series store '%s'", c.SeriesStore)
	}
	return st, nil
}
