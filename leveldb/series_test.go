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

package leveldb

import (
	"context"
	"io/ioutil"
	"os"
	"testing"

	tutorial "github.com/jgrabenstein/RaptureTutorials"
	"github.com/jgrabenstein/RaptureTutorials/test"
)

func TestSeriesStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemSeriesStore()
	test.ErrNil(t, err, "opening store")
	defer s.Close()

	a := "series://datacapture/HIST/TutorialIntro_Go/IDX/DAILY/PX_LAST"
	// shares a prefix with a, but must not show up in a's points.
	b := "series://datacapture/HIST/TutorialIntro_Go/IDX/DAILY/PX_LAST2"

	test.ErrNil(t, s.AppendPoint(ctx, a, "2020-01-02", 2), "append a2")
	test.ErrNil(t, s.AppendPoint(ctx, a, "2020-01-01", 1), "append a1")
	test.ErrNil(t, s.AppendPoint(ctx, b, "2020-01-01", -5.5), "append b1")

	pts, err := s.Points(ctx, a)
	test.ErrNil(t, err, "points a")
	test.MustBe(t, []tutorial.SeriesPoint{{Column: "2020-01-01", Value: 1}, {Column: "2020-01-02", Value: 2}}, pts, "points a")

	pts, err = s.Points(ctx, b)
	test.ErrNil(t, err, "points b")
	test.MustBe(t, []tutorial.SeriesPoint{{Column: "2020-01-01", Value: -5.5}}, pts, "points b")

	_, err = s.Points(ctx, "series://datacapture/nope")
	if !tutorial.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSeriesStoreReopen(t *testing.T) {
	ctx := context.Background()
	dir, err := ioutil.TempDir("", "leveldb-series")
	test.ErrNil(t, err, "making temp dir")
	defer os.RemoveAll(dir)

	s, err := NewSeriesStore(dir)
	test.ErrNil(t, err, "opening store")
	test.ErrNil(t, s.AppendPoint(ctx, "series://datacapture/x", "2020-01-01", 3.5), "append")
	test.ErrNil(t, s.Close(), "closing")

	s, err = NewSeriesStore(dir)
	test.ErrNil(t, err, "reopening store")
	defer s.Close()
	pts, err := s.Points(ctx, "series://datacapture/x")
	test.ErrNil(t, err, "points")
	test.MustBe(t, []tutorial.SeriesPoint{{Column: "2020-01-01", Value: 3.5}}, pts)
}
