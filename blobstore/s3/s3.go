// Copyright 2024 The Tessera authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package s3 is a blobstore.Store backed by Amazon S3, grounded on
// storage/aws/aws.go's s3Storage type.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/biocommons/anyvar-go/blobstore"
)

// Store stores blobs as objects in a single S3 bucket.
type Store struct {
	bucket string
	client *s3.Client
}

// New returns a Store backed by bucket using client.
func New(client *s3.Client, bucket string) *Store {
	return &Store{bucket: bucket, client: client}
}

func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, blobstore.ErrNotFound
		}
		return nil, fmt.Errorf("s3: get %q from bucket %q: %w", key, s.bucket, err)
	}
	return r.Body, nil
}

func (s *Store) Put(ctx context.Context, key string, contents io.Reader) error {
	data, err := io.ReadAll(contents)
	if err != nil {
		return fmt.Errorf("s3: read contents for %q: %w", key, err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("s3: put %q to bucket %q: %w", key, s.bucket, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3: delete %q from bucket %q: %w", key, s.bucket, err)
	}
	return nil
}

var _ blobstore.Store = (*Store)(nil)
