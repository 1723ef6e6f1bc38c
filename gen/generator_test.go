package gen_test

import (
	"bytes"
	"testing"
	"time"

	tutorial "github.com/jgrabenstein/RaptureTutorials"
	"github.com/jgrabenstein/RaptureTutorials/gen"
	"github.com/jgrabenstein/RaptureTutorials/test"
)

func TestBusinessDays(t *testing.T) {
	// 2016-01-01 is a Friday.
	from := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	days := gen.BusinessDays(from, 3)
	got := make([]string, len(days))
	for i, d := range days {
		got[i] = d.Format(gen.DateFormat)
	}
	test.MustBe(t, []string{"2016-01-01", "2016-01-04", "2016-01-05"}, got)
}

func TestWalk(t *testing.T) {
	prices := gen.NewGenerator(0).Walk(10, 1000)
	for i, p := range prices {
		if p < 0.0001 {
			t.Fatalf("price %d is %v", i, p)
		}
	}
	test.MustBe(t, prices, gen.NewGenerator(0).Walk(10, 1000), "same seed")
}

func generate(t *testing.T, layout tutorial.Layout) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	err := gen.NewGenerator(7).Write(buf, gen.Sample{
		Layout:     layout,
		SeriesType: "HIST",
		Provider:   "TutorialIntro_Go",
		Frequency:  "DAILY",
		IndexIDs:   []string{"A", "B"},
		PriceTypes: []string{"PX_LAST", "PX_OPEN"},
		Start:      time.Date(2016, 1, 4, 0, 0, 0, 0, time.UTC),
		Days:       10,
	})
	test.ErrNil(t, err, "Write")
	return buf.Bytes()
}

func TestWriteParses(t *testing.T) {
	for _, layout := range []tutorial.Layout{tutorial.LayoutV1, tutorial.LayoutV2} {
		data := generate(t, layout)
		doc, err := tutorial.NewParser(layout).Parse(data)
		test.ErrNil(t, err, layout.Name)
		test.MustBe(t, []string{"A", "B"}, doc.Index.Keys(), layout.Name+" index ids")
		test.MustBe(t, 40, doc.Index.Len(), layout.Name+" prices")
		test.MustBe(t, layout.HasProvider(), doc.HasProvider(), layout.Name+" has provider")
		if layout.HasProvider() {
			test.MustBe(t, "TutorialIntro_Go", doc.ProviderName())
		}
	}
	if !bytes.Equal(generate(t, tutorial.LayoutV2), generate(t, tutorial.LayoutV2)) {
		t.Fatal("same seed generated different files")
	}
}

func TestWriteRejectsQuotedValues(t *testing.T) {
	for _, bad := range []string{"A,B", `A"B`, "A\nB"} {
		buf := &bytes.Buffer{}
		err := gen.NewGenerator(0).Write(buf, gen.Sample{
			Layout:     tutorial.LayoutV2,
			SeriesType: "HIST",
			Frequency:  "DAILY",
			IndexIDs:   []string{bad},
			PriceTypes: []string{"PX_LAST"},
			Start:      time.Date(2016, 1, 4, 0, 0, 0, 0, time.UTC),
			Days:       1,
		})
		test.MustErr(t, err, "contains a comma, quote or line break", bad)
		test.MustBe(t, 0, buf.Len(), "bytes written")
	}
}

func TestMainStdout(t *testing.T) {
	buf := &bytes.Buffer{}
	m := gen.NewMain()
	m.Output = "-"
	m.Days = 2
	m.Stdout = buf
	test.ErrNil(t, m.Run(), "Run")
	doc, err := tutorial.NewParser(tutorial.LayoutV2).Parse(buf.Bytes())
	test.ErrNil(t, err, "Parse")
	test.MustBe(t, 4, doc.Index.Len(), "prices")

	m.Start = "January"
	test.MustErr(t, m.Run(), "parsing start date", "bad start")
}
