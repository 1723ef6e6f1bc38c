package tutorial_test

import (
	"context"
	"testing"

	tutorial "github.com/jgrabenstein/RaptureTutorials"
	"github.com/jgrabenstein/RaptureTutorials/mock"
	"github.com/jgrabenstein/RaptureTutorials/test"
)

func TestBlobDocStore(t *testing.T) {
	blobs := &mock.Blobs{}
	docs := tutorial.BlobDocStore{Blobs: blobs}
	ctx := context.Background()

	_, err := docs.GetDoc(ctx, "document://tutorialDoc/x")
	if !tutorial.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	test.ErrNil(t, docs.PutDoc(ctx, "document://tutorialDoc/x", `{"a":1}`), "PutDoc")
	doc, err := docs.GetDoc(ctx, "document://tutorialDoc/x")
	test.ErrNil(t, err, "GetDoc")
	test.MustBe(t, `{"a":1}`, doc)
	blob, _ := blobs.Blob("document://tutorialDoc/x")
	test.MustBe(t, tutorial.JSONContentType, blob.ContentType, "content type")
}
