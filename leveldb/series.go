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

// Package leveldb implements the tutorial's series store on goleveldb.
package leveldb

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"os"

	tutorial "github.com/jgrabenstein/RaptureTutorials"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var (
	_ tutorial.SeriesStore  = &SeriesStore{}
	_ tutorial.SeriesReader = &SeriesStore{}
)

// sep separates the series key from the column in a leveldb key. Series keys
// and dates never contain it.
const sep = 0

// SeriesStore keeps every point in one leveldb keyed by series + sep + column
// so that a prefix walk returns a series' points in column order. Values are
// the big endian IEEE 754 bits of the point.
type SeriesStore struct {
	db *leveldb.DB
}

// NewSeriesStore opens (creating if necessary) a leveldb in dirname.
func NewSeriesStore(dirname string) (*SeriesStore, error) {
	err := os.MkdirAll(dirname, 0700)
	if err != nil {
		return nil, errors.Wrap(err, "making directory")
	}
	db, err := leveldb.OpenFile(dirname, &opt.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "opening leveldb at %v", dirname)
	}
	return &SeriesStore{db: db}, nil
}

// NewMemSeriesStore returns a SeriesStore held entirely in memory.
func NewMemSeriesStore() (*SeriesStore, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "opening in-memory leveldb")
	}
	return &SeriesStore{db: db}, nil
}

// Close closes the underlying leveldb.
func (s *SeriesStore) Close() error {
	return errors.Wrap(s.db.Close(), "closing leveldb")
}

func seriesPrefix(series string) ([]byte, error) {
	k, err := tutorial.Key(series)
	if err != nil {
		return nil, errors.Wrap(err, "parsing series uri")
	}
	if bytes.IndexByte([]byte(k), sep) >= 0 {
		return nil, errors.Errorf("series key %q contains a NUL byte", k)
	}
	return append([]byte(k), sep), nil
}

// AppendPoint implements tutorial.SeriesStore. Appending to a column which
// already has a value replaces it.
func (s *SeriesStore) AppendPoint(ctx context.Context, series, date string, value float64) error {
	prefix, err := seriesPrefix(series)
	if err != nil {
		return err
	}
	var val [8]byte
	binary.BigEndian.PutUint64(val[:], math.Float64bits(value))
	err = s.db.Put(append(prefix, date...), val[:], nil)
	return errors.Wrapf(err, "putting %s in %s", date, series)
}

// Points implements tutorial.SeriesReader.
func (s *SeriesStore) Points(ctx context.Context, series string) ([]tutorial.SeriesPoint, error) {
	prefix, err := seriesPrefix(series)
	if err != nil {
		return nil, err
	}
	iter := s.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()
	var pts []tutorial.SeriesPoint
	for iter.Next() {
		val := iter.Value()
		if len(val) != 8 {
			return nil, errors.Errorf("corrupt point %q: %d bytes", iter.Key(), len(val))
		}
		pts = append(pts, tutorial.SeriesPoint{
			Column: string(iter.Key()[len(prefix):]),
			Value:  math.Float64frombits(binary.BigEndian.Uint64(val)),
		})
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrapf(err, "iterating %s", series)
	}
	if len(pts) == 0 {
		return nil, tutorial.NewNotFoundError(series)
	}
	return pts, nil
}
