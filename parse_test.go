package tutorial

import (
	"strings"
	"testing"

	"github.com/jgrabenstein/RaptureTutorials/test"
)

const v2Header = "series_type,provider,index_id,frequency,price_type,date,price\n"

func TestParse(t *testing.T) {
	content := v2Header +
		"CPI,ProviderX,IDX1,DAILY,PX_LAST,2020-01-01,101.5\n" +
		"CPI,ProviderX,IDX1,DAILY,PX_LAST,2020-01-02,102.0\n"
	doc, err := NewParser(LayoutV2).Parse([]byte(content))
	test.ErrNil(t, err, "Parse")
	test.MustBe(t, "CPI", doc.SeriesType, "series type")
	test.MustBe(t, "ProviderX", doc.ProviderName(), "provider")
	test.MustBe(t, "DAILY", doc.Frequency, "frequency")
	test.MustBe(t, Hierarchy{"IDX1": {"PX_LAST": {"2020-01-01": 101.5, "2020-01-02": 102.0}}}, doc.Index)
}

func TestParseTwoIndexIDs(t *testing.T) {
	content := v2Header +
		"CPI,P,IDX1,DAILY,PX_LAST,2020-01-01,1\n" +
		"CPI,P,IDX2,DAILY,PX_OPEN,2020-01-02,2\n" +
		"CPI,P,IDX1,DAILY,PX_LAST,2020-01-03,3\n"
	doc, err := NewParser(LayoutV2).Parse([]byte(content))
	test.ErrNil(t, err, "Parse")
	test.MustBe(t, Hierarchy{
		"IDX1": {"PX_LAST": {"2020-01-01": 1, "2020-01-03": 3}},
		"IDX2": {"PX_OPEN": {"2020-01-02": 2}},
	}, doc.Index)
}

func TestParseV1(t *testing.T) {
	content := "series_type,index_id,frequency,price_type,date,price\r\n" +
		"HIST,IDX1,DAILY,PX_LAST,2020-01-01,1e2\r\n" +
		"\r\n" +
		"HIST,IDX1,DAILY,PX_LAST,2020-01-02,-0.5\r\n"
	doc, err := NewParser(LayoutV1).Parse([]byte(content))
	test.ErrNil(t, err, "Parse")
	if doc.HasProvider() {
		t.Fatalf("v1 document has provider %q", *doc.Provider)
	}
	test.MustBe(t, Hierarchy{"IDX1": {"PX_LAST": {"2020-01-01": 100, "2020-01-02": -0.5}}}, doc.Index)
}

func TestParseEmptyProvider(t *testing.T) {
	content := v2Header + "CPI,,IDX1,DAILY,PX_LAST,2020-01-01,1\n"
	doc, err := NewParser(LayoutV2).Parse([]byte(content))
	test.ErrNil(t, err, "Parse")
	if !doc.HasProvider() {
		t.Fatal("v2 document lost its provider column")
	}
	test.MustBe(t, []Point{{Path: "CPI//IDX1/DAILY/PX_LAST", Date: "2020-01-01", Price: 1}}, collect(doc), "points")

	text, err := doc.Encode()
	test.ErrNil(t, err, "Encode")
	back, err := DecodeDocument(text)
	test.ErrNil(t, err, "DecodeDocument")
	test.MustBe(t, []Point{{Path: "CPI//IDX1/DAILY/PX_LAST", Date: "2020-01-01", Price: 1}}, collect(back), "points after decode")

	v1 := "series_type,index_id,frequency,price_type,date,price\nCPI,IDX1,DAILY,PX_LAST,2020-01-01,1\n"
	doc, err = NewParser(LayoutV1).Parse([]byte(v1))
	test.ErrNil(t, err, "Parse v1")
	test.MustBe(t, "CPI/IDX1/DAILY/PX_LAST", collect(doc)[0].Path, "v1 path")
}

func TestParseExtraTriples(t *testing.T) {
	content := "series_type,provider,index_id,frequency,price_type,date,price,price_type,date,price\n" +
		"CPI,P,IDX1,DAILY,PX_LAST,2020-01-01,1,PX_OPEN,2020-01-01,0.5\n"
	doc, err := NewParser(LayoutV2).Parse([]byte(content))
	test.ErrNil(t, err, "Parse")
	test.MustBe(t, Hierarchy{"IDX1": {
		"PX_LAST": {"2020-01-01": 1},
		"PX_OPEN": {"2020-01-01": 0.5},
	}}, doc.Index)
}

func TestParseDuplicateDate(t *testing.T) {
	content := v2Header +
		"CPI,P,IDX1,DAILY,PX_LAST,2020-01-01,1\n" +
		"CPI,P,IDX1,DAILY,PX_LAST,2020-01-01,2\n"
	doc, err := NewParser(LayoutV2).Parse([]byte(content))
	test.ErrNil(t, err, "Parse")
	test.MustBe(t, 2.0, doc.Index["IDX1"]["PX_LAST"]["2020-01-01"], "later value wins")
}

func TestParseHeaderOnly(t *testing.T) {
	doc, err := NewParser(LayoutV2).Parse([]byte(v2Header))
	test.ErrNil(t, err, "Parse")
	test.MustBe(t, 0, doc.Index.Len(), "prices")
	test.MustBe(t, "", doc.SeriesType, "series type")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		line    int
		msg     string
	}{
		{name: "empty", content: "", line: 0, msg: "missing header"},
		{name: "short header", content: "a,b,c\n", line: 1, msg: "at least 7 fields"},
		{name: "partial triple", content: "a,b,c,d,e,f,g,h\n", line: 1, msg: "triples"},
		{name: "long row", content: v2Header + "CPI,P,IDX1,DAILY,PX_LAST,2020-01-01,1,extra\n", line: 2, msg: "header/row len mismatch: 7 vs 8"},
		{name: "short row", content: v2Header + "CPI,P,IDX1,DAILY,PX_LAST,2020-01-01,1\nCPI,P\n", line: 3, msg: "header/row len mismatch: 7 vs 2"},
		{name: "not a number", content: v2Header + "CPI,P,IDX1,DAILY,PX_LAST,2020-01-01,abc\n", line: 2, msg: "'abc' is not a number"},
		{name: "NaN", content: v2Header + "CPI,P,IDX1,DAILY,PX_LAST,2020-01-01,NaN\n", line: 2, msg: "not finite"},
		{name: "Inf", content: v2Header + "CPI,P,IDX1,DAILY,PX_LAST,2020-01-01,+Inf\n", line: 2, msg: "not finite"},
	}
	for _, tst := range tests {
		t.Run(tst.name, func(t *testing.T) {
			doc, err := NewParser(LayoutV2).Parse([]byte(tst.content))
			if doc != nil {
				t.Fatalf("expected no document, got %+v", doc)
			}
			if !IsFormat(err) {
				t.Fatalf("expected FormatError, got %v", err)
			}
			test.MustBe(t, tst.line, err.(*FormatError).Line, "line")
			if !strings.Contains(err.Error(), tst.msg) {
				t.Fatalf("expected '%s' in '%v'", tst.msg, err)
			}
		})
	}
}

func TestParseLongLine(t *testing.T) {
	n := 5000
	hdr := LayoutV2.Header(n)
	row := []string{"CPI", "P", "IDX1", "DAILY"}
	for i := 0; i < n; i++ {
		row = append(row, "PX_LAST", "2020-01-01", "1")
	}
	content := strings.Join(hdr, ",") + "\n" + strings.Join(row, ",") + "\n"
	doc, err := NewParser(LayoutV2).Parse([]byte(content))
	test.ErrNil(t, err, "Parse")
	test.MustBe(t, 1, doc.Index.Len(), "prices")
}
