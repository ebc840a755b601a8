package objstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// memS3 is an in-memory API keyed by bucket/key.
type memS3 struct {
	objects      map[string][]byte
	contentTypes map[string]string
}

func newMemS3() *memS3 {
	return &memS3{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (m *memS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := m.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *memS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	k := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	m.objects[k] = data
	m.contentTypes[k] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func TestParseURL(t *testing.T) {
	cases := []struct {
		in      string
		want    Location
		wantErr bool
	}{
		{"s3://bucket/a/b.png", Location{"bucket", "a/b.png"}, false},
		{"s3://bucket/prefix/", Location{"bucket", "prefix/"}, false},
		{"s3://bucket", Location{"bucket", ""}, false},
		{"s3:///key", Location{}, true},
		{"https://bucket/key", Location{}, true},
	}
	for _, c := range cases {
		got, err := ParseURL(c.in)
		if (err != nil) != c.wantErr {
			t.Errorf("ParseURL(%q) error = %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseURL(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
	if s := (Location{"b", "k.png"}).String(); s != "s3://b/k.png" {
		t.Errorf("String() = %q", s)
	}
}

func TestPutGet(t *testing.T) {
	mem := newMemS3()
	s := NewWithClient(mem)
	ctx := context.Background()
	if err := s.Put(ctx, "masks", "out/a.png", "image/png", []byte("png-bytes")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if ct := mem.contentTypes["masks/out/a.png"]; ct != "image/png" {
		t.Fatalf("content type = %q", ct)
	}
	got, err := s.Get(ctx, "masks", "out/a.png")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "png-bytes" {
		t.Fatalf("Get = %q", got)
	}
	if _, err := s.Get(ctx, "masks", "missing.png"); err == nil {
		t.Fatal("expected error for missing key")
	}
}
