// Package test holds assertions shared by the tutorial's tests.
package test

import (
	"reflect"
	"strings"
	"testing"
)

func MustBe(t *testing.T, thing1, thing2 interface{}, context ...string) {
	t.Helper()
	var ctx string
	if len(context) == 0 {
		ctx = ""
	} else {
		ctx = context[0] + ": "
	}
	if !reflect.DeepEqual(thing1, thing2) {
		t.Fatalf("%v'%#v' != '%#v'", ctx, thing1, thing2)
	}
}

func ErrNil(t *testing.T, err error, ctx string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%v: %v", ctx, err)
	}
}

// MustErr fails the test unless err is non-nil and its message contains
// substr.
func MustErr(t *testing.T, err error, substr string, ctx string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%v: expected error containing '%s', got nil", ctx, substr)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Fatalf("%v: expected error containing '%s', got '%v'", ctx, substr, err)
	}
}
