// Package export writes encoded canvas images to their destination: a file, a
// directory or an S3 prefix.
package export

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/example/maskedit/internal/objstore"
)

// DefaultFormat is used when a source does not name an encodable format.
const DefaultFormat = "png"

var formatAliases = map[string]string{
	"jpg":      "jpeg",
	"jpe":      "jpeg",
	"jfif":     "jpeg",
	"tif":      "tiff",
	"x-ms-bmp": "bmp",
}

var encodable = map[string]bool{
	"png":  true,
	"jpeg": true,
	"gif":  true,
	"bmp":  true,
	"tiff": true,
}

// NormalizeFormat lower-cases an image subtype or extension and resolves
// common aliases such as jpg.
func NormalizeFormat(ext string) string {
	f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if alias, ok := formatAliases[f]; ok {
		return alias
	}
	return f
}

// Encodable reports whether the canvas can encode format.
func Encodable(format string) bool {
	return encodable[NormalizeFormat(format)]
}

// FileName derives the download name for an image loaded from source and
// encoded as format. Sources without a usable basename, such as data URLs,
// produce "image.<format>". A basename whose extension disagrees with format
// gets its extension replaced.
func FileName(source, format string) string {
	format = NormalizeFormat(format)
	if format == "" {
		format = DefaultFormat
	}
	base := baseName(source)
	if base == "" {
		return "image." + format
	}
	ext := path.Ext(base)
	if NormalizeFormat(ext) == format {
		return base
	}
	return strings.TrimSuffix(base, ext) + "." + format
}

func baseName(source string) string {
	if source == "" || strings.HasPrefix(source, "data:") {
		return ""
	}
	p := source
	if u, err := url.Parse(source); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = filepath.ToSlash(p)
	base := path.Base(p)
	switch base {
	case "", ".", "/":
		return ""
	}
	return base
}

// Sink receives an encoded image. Save returns where the data ended up.
type Sink interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// NewSink picks a Sink for dest:
//   - "s3://bucket/prefix/" uploads below prefix using the derived name,
//     "s3://bucket/key.png" uploads to that exact key
//   - an existing directory, or a path ending in a separator, writes the
//     derived name inside it
//   - any other path is written as-is
//   - "" writes the derived name into the working directory
func NewSink(dest string, store *objstore.Store) (Sink, error) {
	if strings.HasPrefix(dest, "s3://") {
		loc, err := objstore.ParseURL(dest)
		if err != nil {
			return nil, err
		}
		if store == nil {
			store = objstore.New()
		}
		return &S3Sink{Store: store, Bucket: loc.Bucket, Key: loc.Key}, nil
	}
	if dest == "" {
		return &DirSink{Dir: "."}, nil
	}
	if strings.HasSuffix(dest, "/") || strings.HasSuffix(dest, string(filepath.Separator)) {
		return &DirSink{Dir: dest}, nil
	}
	if fi, err := os.Stat(dest); err == nil && fi.IsDir() {
		return &DirSink{Dir: dest}, nil
	}
	return &FileSink{Path: dest}, nil
}

// FileSink writes to a fixed path regardless of the derived name.
type FileSink struct {
	Path string
}

// Save implements Sink.
func (s *FileSink) Save(_ context.Context, _ string, _ string, data []byte) (string, error) {
	return writeFile(s.Path, data)
}

// DirSink writes the derived name into Dir, creating it when missing.
type DirSink struct {
	Dir string
}

// Save implements Sink. Existing files are kept: when name is taken the image
// is written as <stem>-<ULID><ext> instead.
func (s *DirSink) Save(_ context.Context, name, _ string, data []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", s.Dir, err)
	}
	p := filepath.Join(s.Dir, name)
	if _, err := os.Stat(p); err == nil {
		ext := filepath.Ext(name)
		p = filepath.Join(s.Dir, strings.TrimSuffix(name, ext)+"-"+ulid.Make().String()+ext)
	}
	return writeFile(p, data)
}

func writeFile(p string, data []byte) (string, error) {
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", p, err)
	}
	saved := p
	if abs, err := filepath.Abs(p); err == nil {
		saved = abs
	}
	logrus.WithFields(logrus.Fields{"path": saved, "bytes": len(data)}).Info("image saved")
	return saved, nil
}

// S3Sink uploads to a bucket. A Key ending in "/" (or empty) is treated as a
// prefix for the derived name.
type S3Sink struct {
	Store  *objstore.Store
	Bucket string
	Key    string
}

// Save implements Sink.
func (s *S3Sink) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := s.Key
	if key == "" || strings.HasSuffix(key, "/") {
		key += name
	}
	if err := s.Store.Put(ctx, s.Bucket, key, contentType, data); err != nil {
		return "", err
	}
	loc := objstore.Location{Bucket: s.Bucket, Key: key}.String()
	logrus.WithFields(logrus.Fields{"location": loc, "bytes": len(data)}).Info("image uploaded")
	return loc, nil
}
