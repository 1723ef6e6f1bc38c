package tutorial

import (
	"strings"
	"testing"

	"github.com/jgrabenstein/RaptureTutorials/test"
)

func TestParseLayout(t *testing.T) {
	l, err := ParseLayout(" V1 ")
	test.ErrNil(t, err, "ParseLayout")
	test.MustBe(t, LayoutV1, l)
	if l.HasProvider() {
		t.Fatal("v1 has no provider column")
	}
	_, err = ParseLayout("v9")
	test.MustErr(t, err, "unknown CSV layout", "v9")
}

func TestLayoutHeader(t *testing.T) {
	test.MustBe(t, strings.TrimSpace(v2Header), strings.Join(LayoutV2.Header(1), ","))
	test.MustBe(t, 9, len(LayoutV1.Header(2)), "v1 two triples")
	test.ErrNil(t, LayoutV1.checkFields(9), "v1 two triples")
	if err := LayoutV1.checkFields(8); err == nil {
		t.Fatal("expected error for partial triple")
	}
}
