package s3

import (
	"bytes"
	"context"
	"io/ioutil"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	tutorial "github.com/jgrabenstein/RaptureTutorials"
	"github.com/jgrabenstein/RaptureTutorials/test"
)

// fakeS3 keeps objects in a map. Calls to any S3API method it doesn't
// override panic on the nil embedded interface.
type fakeS3 struct {
	s3iface.S3API
	objects      map[string][]byte
	contentTypes map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte), contentTypes: make(map[string]string)}
}

func (f *fakeS3) PutObjectWithContext(ctx aws.Context, in *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	data, err := ioutil.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	k := *in.Bucket + "/" + *in.Key
	f.objects[k] = data
	f.contentTypes[k] = aws.StringValue(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObjectWithContext(ctx aws.Context, in *s3.GetObjectInput, opts ...request.Option) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "The specified key does not exist.", nil)
	}
	return &s3.GetObjectOutput{Body: ioutil.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) HeadObjectWithContext(ctx aws.Context, in *s3.HeadObjectInput, opts ...request.Option) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[*in.Bucket+"/"+*in.Key]; !ok {
		return nil, awserr.New("NotFound", "Not Found", nil)
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestBlobStore(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	bs, err := NewBlobStore(OptBlobBucket("tutorial-bucket"), OptBlobPrefix("rapture/"), OptBlobClient(fake))
	test.ErrNil(t, err, "NewBlobStore")

	uri := "blob://tutorialBlob/introDataInbound"
	exists, err := bs.BlobExists(ctx, uri)
	test.ErrNil(t, err, "BlobExists")
	test.MustBe(t, false, exists, "exists before put")

	_, err = bs.GetBlob(ctx, uri)
	if !tutorial.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	test.ErrNil(t, bs.PutBlob(ctx, uri, []byte("x,y\n"), "text/csv"), "PutBlob")
	test.MustBe(t, "text/csv", fake.contentTypes["tutorial-bucket/rapture/tutorialBlob/introDataInbound"], "content type")

	exists, err = bs.BlobExists(ctx, uri)
	test.ErrNil(t, err, "BlobExists")
	test.MustBe(t, true, exists, "exists after put")

	data, err := bs.GetBlob(ctx, uri)
	test.ErrNil(t, err, "GetBlob")
	test.MustBe(t, "x,y\n", string(data), "content")
}

func TestNewBlobStoreNeedsBucket(t *testing.T) {
	_, err := NewBlobStore(OptBlobClient(newFakeS3()))
	test.MustErr(t, err, "no S3 bucket", "NewBlobStore without bucket")
}
