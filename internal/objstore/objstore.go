// Package objstore reads and writes images kept in S3 buckets.
package objstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Location addresses an object as s3://Bucket/Key.
type Location struct {
	Bucket string
	Key    string
}

func (l Location) String() string {
	return "s3://" + l.Bucket + "/" + l.Key
}

// ParseURL splits an s3:// URL. The key may be empty or end in "/".
func ParseURL(raw string) (Location, error) {
	rest, ok := strings.CutPrefix(raw, "s3://")
	if !ok {
		return Location{}, fmt.Errorf("not an s3 url: %q", raw)
	}
	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return Location{}, fmt.Errorf("s3 url %q has no bucket", raw)
	}
	return Location{Bucket: bucket, Key: key}, nil
}

// API is the subset of the S3 client used here.
type API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store lazily builds an S3 client from the default AWS configuration the
// first time it is used.
type Store struct {
	once   sync.Once
	client API
	err    error
}

// New returns a Store using the default AWS credential chain.
func New() *Store { return &Store{} }

// NewWithClient returns a Store backed by client.
func NewWithClient(client API) *Store {
	s := &Store{client: client}
	s.once.Do(func() {})
	return s
}

func (s *Store) api(ctx context.Context) (API, error) {
	s.once.Do(func() {
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			s.err = fmt.Errorf("load aws config: %w", err)
			return
		}
		s.client = s3.NewFromConfig(cfg)
	})
	return s.client, s.err
}

// Get returns the object's bytes.
func (s *Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	api, err := s.api(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", Location{bucket, key}, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", Location{bucket, key}, err)
	}
	return data, nil
}

// Put uploads data with the given content type.
func (s *Store) Put(ctx context.Context, bucket, key, contentType string, data []byte) error {
	api, err := s.api(ctx)
	if err != nil {
		return err
	}
	_, err = api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", Location{bucket, key}, err)
	}
	return nil
}
