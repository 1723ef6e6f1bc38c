// Copyright 2017 Pilosa Corp.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions
// are met:
//
// 1. Redistributions of source code must retain the above copyright
// notice, this list of conditions and the following disclaimer.
//
// 2. Redistributions in binary form must reproduce the above copyright
// notice, this list of conditions and the following disclaimer in the
// documentation and/or other materials provided with the distribution.
//
// 3. Neither the name of the copyright holder nor the names of its
// contributors may be used to endorse or promote products derived
// from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND
// CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES,
// INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF
// MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
// DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR
// CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
// SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING,
// BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
// SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY,
// WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING
// NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
// OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH
// DAMAGE.

// Package boltdb implements the tutorial's blob, document and series stores
// in a single bolt database file.
package boltdb

import (
	"context"
	"encoding/binary"
	"math"
	"time"

	"github.com/boltdb/bolt"
	tutorial "github.com/jgrabenstein/RaptureTutorials"
	"github.com/pkg/errors"
)

var (
	blobBucket     = []byte("blob")
	blobTypeBucket = []byte("blobtype")
	docBucket      = []byte("doc")
	seriesBucket   = []byte("series")
)

var (
	_ tutorial.BlobStore    = &Store{}
	_ tutorial.DocStore     = &Store{}
	_ tutorial.SeriesStore  = &Store{}
	_ tutorial.SeriesReader = &Store{}
)

// Store keeps blobs, documents and series in bolt buckets. Entries are keyed
// by the authority and path of their URI. Each series gets its own nested
// bucket keyed by column so that a cursor walk yields points in column
// order.
type Store struct {
	Db *bolt.DB
}

// NewStore opens (creating if necessary) the bolt file at filename.
func NewStore(filename string) (s *Store, err error) {
	s = &Store{}
	s.Db, err = bolt.Open(filename, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening db file '%v'", filename)
	}
	s.Db.MaxBatchDelay = 400 * time.Microsecond
	err = s.Db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{blobBucket, blobTypeBucket, docBucket, seriesBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return errors.Wrapf(err, "creating %s bucket", name)
			}
		}
		return nil
	})
	if err != nil {
		s.Db.Close()
		return nil, errors.Wrap(err, "ensuring bucket existence")
	}
	return s, nil
}

// Close syncs and closes the database.
func (s *Store) Close() error {
	err := s.Db.Sync()
	if err != nil {
		return errors.Wrap(err, "syncing db")
	}
	return s.Db.Close()
}

func key(uri string) ([]byte, error) {
	k, err := tutorial.Key(uri)
	if err != nil {
		return nil, errors.Wrap(err, "parsing uri")
	}
	return []byte(k), nil
}

// BlobExists implements tutorial.BlobStore.
func (s *Store) BlobExists(ctx context.Context, uri string) (exists bool, err error) {
	k, err := key(uri)
	if err != nil {
		return false, err
	}
	err = s.Db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket(blobBucket).Get(k) != nil
		return nil
	})
	return exists, err
}

// GetBlob implements tutorial.BlobStore.
func (s *Store) GetBlob(ctx context.Context, uri string) (val []byte, err error) {
	k, err := key(uri)
	if err != nil {
		return nil, err
	}
	err = s.Db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(blobBucket).Get(k)
		if v == nil {
			return tutorial.NewNotFoundError(uri)
		}
		// bolt values are only valid for the life of the transaction.
		val = append([]byte{}, v...)
		return nil
	})
	return val, err
}

// ContentType returns the content type a blob was stored with.
func (s *Store) ContentType(uri string) (ct string, err error) {
	k, err := key(uri)
	if err != nil {
		return "", err
	}
	err = s.Db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(blobTypeBucket).Get(k)
		if v == nil {
			return tutorial.NewNotFoundError(uri)
		}
		ct = string(v)
		return nil
	})
	return ct, err
}

// PutBlob implements tutorial.BlobStore.
func (s *Store) PutBlob(ctx context.Context, uri string, data []byte, contentType string) error {
	k, err := key(uri)
	if err != nil {
		return err
	}
	return s.Db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(blobBucket).Put(k, data); err != nil {
			return errors.Wrap(err, "putting into blob bucket")
		}
		if err := tx.Bucket(blobTypeBucket).Put(k, []byte(contentType)); err != nil {
			return errors.Wrap(err, "putting into blobtype bucket")
		}
		return nil
	})
}

// PutDoc implements tutorial.DocStore.
func (s *Store) PutDoc(ctx context.Context, uri, doc string) error {
	k, err := key(uri)
	if err != nil {
		return err
	}
	return s.Db.Update(func(tx *bolt.Tx) error {
		return errors.Wrap(tx.Bucket(docBucket).Put(k, []byte(doc)), "putting into doc bucket")
	})
}

// GetDoc implements tutorial.DocStore.
func (s *Store) GetDoc(ctx context.Context, uri string) (doc string, err error) {
	k, err := key(uri)
	if err != nil {
		return "", err
	}
	err = s.Db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(docBucket).Get(k)
		if v == nil {
			return tutorial.NewNotFoundError(uri)
		}
		doc = string(v)
		return nil
	})
	return doc, err
}

// AppendPoint implements tutorial.SeriesStore. Appending to a column which
// already has a value replaces it. Appends from concurrent goroutines are
// coalesced into shared transactions.
func (s *Store) AppendPoint(ctx context.Context, series, date string, value float64) error {
	k, err := key(series)
	if err != nil {
		return err
	}
	var val [8]byte
	binary.BigEndian.PutUint64(val[:], math.Float64bits(value))
	return s.Db.Batch(func(tx *bolt.Tx) error {
		sb, err := tx.Bucket(seriesBucket).CreateBucketIfNotExists(k)
		if err != nil {
			return errors.Wrapf(err, "creating bucket for series %s", series)
		}
		return errors.Wrap(sb.Put([]byte(date), val[:]), "putting point")
	})
}

// Points implements tutorial.SeriesReader.
func (s *Store) Points(ctx context.Context, series string) (pts []tutorial.SeriesPoint, err error) {
	k, err := key(series)
	if err != nil {
		return nil, err
	}
	err = s.Db.View(func(tx *bolt.Tx) error {
		sb := tx.Bucket(seriesBucket).Bucket(k)
		if sb == nil {
			return tutorial.NewNotFoundError(series)
		}
		return sb.ForEach(func(col, val []byte) error {
			if len(val) != 8 {
				return errors.Errorf("corrupt point %s in %s: %d bytes", col, series, len(val))
			}
			pts = append(pts, tutorial.SeriesPoint{
				Column: string(col),
				Value:  math.Float64frombits(binary.BigEndian.Uint64(val)),
			})
			return nil
		})
	})
	if err == nil && len(pts) == 0 {
		return nil, tutorial.NewNotFoundError(series)
	}
	return pts, err
}
