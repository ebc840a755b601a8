package export

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/example/maskedit/internal/objstore"
)

func TestFileName(t *testing.T) {
	cases := []struct {
		source, format, want string
	}{
		{"https://example.com/img/cat.png?size=2", "png", "cat.png"},
		{"https://example.com/img/cat.JPG", "jpeg", "cat.JPG"},
		{"/tmp/shot.webp", "png", "shot.png"},
		{"data:image/jpeg;base64,AAAA", "jpeg", "image.jpeg"},
		{"https://example.com/", "gif", "image.gif"},
		{"", "", "image.png"},
		{"s3://bucket/masks/plate.tif", "tiff", "plate.tif"},
		{`relative/dir/x.bmp`, "bmp", "x.bmp"},
	}
	for _, c := range cases {
		if got := FileName(c.source, c.format); got != c.want {
			t.Errorf("FileName(%q, %q) = %q, want %q", c.source, c.format, got, c.want)
		}
	}
}

func TestNormalizeFormat(t *testing.T) {
	for in, want := range map[string]string{".JPG": "jpeg", "tif": "tiff", "PNG": "png", "x-ms-bmp": "bmp", "webp": "webp"} {
		if got := NormalizeFormat(in); got != want {
			t.Errorf("NormalizeFormat(%q) = %q, want %q", in, got, want)
		}
	}
	if Encodable("webp") || !Encodable("jpg") {
		t.Error("Encodable mismatch")
	}
}

func TestNewSinkSelection(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		dest string
		want any
	}{
		{"", &DirSink{}},
		{dir, &DirSink{}},
		{filepath.Join(dir, "new") + "/", &DirSink{}},
		{filepath.Join(dir, "out.png"), &FileSink{}},
		{"s3://bucket/prefix/", &S3Sink{}},
	}
	for _, c := range cases {
		s, err := NewSink(c.dest, nil)
		if err != nil {
			t.Fatalf("NewSink(%q): %v", c.dest, err)
		}
		switch c.want.(type) {
		case *DirSink:
			if _, ok := s.(*DirSink); !ok {
				t.Errorf("NewSink(%q) = %T, want DirSink", c.dest, s)
			}
		case *FileSink:
			if _, ok := s.(*FileSink); !ok {
				t.Errorf("NewSink(%q) = %T, want FileSink", c.dest, s)
			}
		case *S3Sink:
			if _, ok := s.(*S3Sink); !ok {
				t.Errorf("NewSink(%q) = %T, want S3Sink", c.dest, s)
			}
		}
	}
	if _, err := NewSink("s3://", nil); err == nil {
		t.Error("expected error for s3 url without bucket")
	}
}

func TestDirAndFileSinks(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	ds := &DirSink{Dir: filepath.Join(dir, "nested")}
	loc, err := ds.Save(ctx, "a.png", "image/png", []byte("one"))
	if err != nil {
		t.Fatalf("DirSink: %v", err)
	}
	if loc != filepath.Join(dir, "nested", "a.png") {
		t.Fatalf("DirSink location = %q", loc)
	}

	again, err := ds.Save(ctx, "a.png", "image/png", []byte("three"))
	if err != nil {
		t.Fatalf("DirSink again: %v", err)
	}
	base := filepath.Base(again)
	if again == loc || !strings.HasPrefix(base, "a-") || !strings.HasSuffix(base, ".png") || len(base) != len("a-.png")+26 {
		t.Fatalf("second save went to %q", again)
	}
	if data, _ := os.ReadFile(loc); string(data) != "one" {
		t.Fatalf("first file overwritten: %q", data)
	}

	fs := &FileSink{Path: filepath.Join(dir, "fixed.jpg")}
	loc, err = fs.Save(ctx, "ignored.png", "image/png", []byte("two"))
	if err != nil {
		t.Fatalf("FileSink: %v", err)
	}
	data, err := os.ReadFile(loc)
	if err != nil || string(data) != "two" || filepath.Base(loc) != "fixed.jpg" {
		t.Fatalf("FileSink wrote %q to %q (%v)", data, loc, err)
	}
}

type putRecorder struct {
	bucket, key, contentType string
	body                     []byte
}

func (p *putRecorder) GetObject(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return nil, io.EOF
}

func (p *putRecorder) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	p.bucket, p.key, p.contentType = aws.ToString(in.Bucket), aws.ToString(in.Key), aws.ToString(in.ContentType)
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(in.Body); err != nil {
		return nil, err
	}
	p.body = buf.Bytes()
	return &s3.PutObjectOutput{}, nil
}

func TestS3Sink(t *testing.T) {
	rec := &putRecorder{}
	store := objstore.NewWithClient(rec)
	ctx := context.Background()

	sink, err := NewSink("s3://masks/out/", store)
	if err != nil {
		t.Fatal(err)
	}
	loc, err := sink.Save(ctx, "cat.png", "image/png", []byte("data"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if loc != "s3://masks/out/cat.png" || rec.bucket != "masks" || rec.key != "out/cat.png" {
		t.Fatalf("uploaded to %q (%s/%s)", loc, rec.bucket, rec.key)
	}
	if rec.contentType != "image/png" || string(rec.body) != "data" {
		t.Fatalf("content %q %q", rec.contentType, rec.body)
	}

	exact := &S3Sink{Store: store, Bucket: "masks", Key: "fixed.png"}
	if loc, err := exact.Save(ctx, "cat.png", "image/png", nil); err != nil || loc != "s3://masks/fixed.png" {
		t.Fatalf("exact key: %q %v", loc, err)
	}
}
