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

// Package s3 implements the tutorial's blob store on an S3 bucket.
package s3

import (
	"bytes"
	"context"
	"io/ioutil"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	tutorial "github.com/jgrabenstein/RaptureTutorials"
	"github.com/pkg/errors"
)

var _ tutorial.BlobStore = &BlobStore{}

// BlobOption is a functional option for NewBlobStore.
type BlobOption func(b *BlobStore)

// OptBlobBucket sets the bucket blobs are stored in.
func OptBlobBucket(bucket string) BlobOption {
	return func(b *BlobStore) {
		b.bucket = bucket
	}
}

// OptBlobRegion sets the AWS region.
func OptBlobRegion(region string) BlobOption {
	return func(b *BlobStore) {
		b.region = region
	}
}

// OptBlobPrefix sets a prefix prepended to every object key.
func OptBlobPrefix(prefix string) BlobOption {
	return func(b *BlobStore) {
		b.prefix = prefix
	}
}

// OptBlobClient sets the S3 client rather than creating one from a new AWS
// session.
func OptBlobClient(client s3iface.S3API) BlobOption {
	return func(b *BlobStore) {
		b.s3 = client
	}
}

// BlobStore stores each blob as an S3 object whose key is the blob URI's
// authority and path under an optional prefix.
type BlobStore struct {
	bucket string
	prefix string
	region string

	s3 s3iface.S3API
}

// NewBlobStore returns a BlobStore. Unless a client is given with
// OptBlobClient, one is created from the default AWS credential chain.
func NewBlobStore(opts ...BlobOption) (*BlobStore, error) {
	b := &BlobStore{
		region: "us-east-1",
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.bucket == "" {
		return nil, errors.New("no S3 bucket specified")
	}
	if b.s3 == nil {
		sess, err := session.NewSession(&aws.Config{
			Region: aws.String(b.region)},
		)
		if err != nil {
			return nil, errors.Wrap(err, "getting new session")
		}
		b.s3 = s3.New(sess)
	}
	return b, nil
}

func (b *BlobStore) objectKey(uri string) (string, error) {
	k, err := tutorial.Key(uri)
	if err != nil {
		return "", errors.Wrap(err, "parsing uri")
	}
	return b.prefix + k, nil
}

func isNotFound(err error) bool {
	aerr, ok := err.(awserr.Error)
	if !ok {
		return false
	}
	switch aerr.Code() {
	case s3.ErrCodeNoSuchKey, "NotFound":
		return true
	}
	return false
}

// BlobExists implements tutorial.BlobStore.
func (b *BlobStore) BlobExists(ctx context.Context, uri string) (bool, error) {
	k, err := b.objectKey(uri)
	if err != nil {
		return false, err
	}
	_, err = b.s3.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(k),
	})
	if isNotFound(err) {
		return false, nil
	} else if err != nil {
		return false, errors.Wrapf(err, "heading %v", k)
	}
	return true, nil
}

// GetBlob implements tutorial.BlobStore.
func (b *BlobStore) GetBlob(ctx context.Context, uri string) ([]byte, error) {
	k, err := b.objectKey(uri)
	if err != nil {
		return nil, err
	}
	result, err := b.s3.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(k),
	})
	if isNotFound(err) {
		return nil, tutorial.NewNotFoundError(uri)
	} else if err != nil {
		return nil, errors.Wrapf(err, "fetching %v", k)
	}
	defer result.Body.Close()
	data, err := ioutil.ReadAll(result.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %v", k)
	}
	return data, nil
}

// PutBlob implements tutorial.BlobStore.
func (b *BlobStore) PutBlob(ctx context.Context, uri string, data []byte, contentType string) error {
	k, err := b.objectKey(uri)
	if err != nil {
		return err
	}
	_, err = b.s3.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(k),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	return errors.Wrapf(err, "putting %v", k)
}
