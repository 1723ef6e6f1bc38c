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

package boltdb

import (
	"context"
	"io/ioutil"
	"os"
	"testing"

	tutorial "github.com/jgrabenstein/RaptureTutorials"
	"github.com/jgrabenstein/RaptureTutorials/test"
)

func TestBoltBlobsAndDocs(t *testing.T) {
	ctx := context.Background()
	boltFile := tempFileName(t)
	defer os.Remove(boltFile)
	s, err := NewStore(boltFile)
	test.ErrNil(t, err, "opening store")

	uri := "blob://tutorialBlob/introDataInbound"
	exists, err := s.BlobExists(ctx, uri)
	test.ErrNil(t, err, "BlobExists")
	if exists {
		t.Fatalf("blob exists before put")
	}
	_, err = s.GetBlob(ctx, uri)
	if !tutorial.IsNotFound(err) {
		t.Fatalf("expected not found getting missing blob, got %v", err)
	}

	test.ErrNil(t, s.PutBlob(ctx, uri, []byte("a,b\n1,2\n"), "text/csv"), "PutBlob")
	exists, err = s.BlobExists(ctx, uri)
	test.ErrNil(t, err, "BlobExists")
	test.MustBe(t, true, exists, "exists after put")

	test.ErrNil(t, s.PutDoc(ctx, "document://tutorialDoc/introDataTranslated", `{"a":1}`), "PutDoc")
	_, err = s.GetDoc(ctx, "document://tutorialDoc/nope")
	if !tutorial.IsNotFound(err) {
		t.Fatalf("expected not found getting missing doc, got %v", err)
	}

	test.ErrNil(t, s.Close(), "closing store")

	s, err = NewStore(boltFile)
	test.ErrNil(t, err, "reopening store")
	defer s.Close()

	data, err := s.GetBlob(ctx, uri)
	test.ErrNil(t, err, "GetBlob after reopen")
	test.MustBe(t, "a,b\n1,2\n", string(data), "blob content")
	ct, err := s.ContentType(uri)
	test.ErrNil(t, err, "ContentType")
	test.MustBe(t, "text/csv", ct, "content type")

	// a Doc URI without a scheme addresses the same entry.
	doc, err := s.GetDoc(ctx, "//tutorialDoc/introDataTranslated")
	test.ErrNil(t, err, "GetDoc")
	test.MustBe(t, `{"a":1}`, doc, "doc content")
}

func TestBoltSeries(t *testing.T) {
	ctx := context.Background()
	boltFile := tempFileName(t)
	defer os.Remove(boltFile)
	s, err := NewStore(boltFile)
	test.ErrNil(t, err, "opening store")
	defer s.Close()

	series := "series://datacapture/CPI/ProviderX/IDX1/DAILY/PX_LAST"
	_, err = s.Points(ctx, series)
	if !tutorial.IsNotFound(err) {
		t.Fatalf("expected not found for empty series, got %v", err)
	}

	test.ErrNil(t, s.AppendPoint(ctx, series, "2020-01-02", 102.0), "append 2")
	test.ErrNil(t, s.AppendPoint(ctx, series, "2020-01-01", 101.5), "append 1")
	test.ErrNil(t, s.AppendPoint(ctx, series, "2020-01-03", 1e-3), "append 3")
	test.ErrNil(t, s.AppendPoint(ctx, series, "2020-01-03", 103.25), "append 3 again")
	test.ErrNil(t, s.AppendPoint(ctx, "series://datacapture/CPI/ProviderX/IDX2/DAILY/PX_LAST", "2020-01-01", 7), "append other")

	pts, err := s.Points(ctx, series)
	test.ErrNil(t, err, "Points")
	test.MustBe(t, []tutorial.SeriesPoint{
		{Column: "2020-01-01", Value: 101.5},
		{Column: "2020-01-02", Value: 102.0},
		{Column: "2020-01-03", Value: 103.25},
	}, pts, "points")
}

func tempFileName(t *testing.T) string {
	tf, err := ioutil.TempFile("", "")
	if err != nil {
		t.Fatalf("couldn't get temp file: %v", err)
	}
	err = tf.Close()
	if err != nil {
		t.Fatalf("couldn't close temp file: %v", err)
	}
	return tf.Name()
}
