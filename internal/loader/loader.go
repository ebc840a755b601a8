// Package loader fetches and decodes images from data URLs, HTTP(S), S3 and
// the local filesystem.
package loader

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"

	// Decoders for image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/sirupsen/logrus"

	"github.com/example/maskedit/internal/objstore"
)

// maxBody bounds how much a remote image may occupy in memory.
const maxBody = 256 << 20

// Image is a decoded image with its native dimensions.
type Image struct {
	Width  int
	Height int
	Pixels image.Image
	// Format is the decoder name reported by image.Decode, e.g. "png".
	Format string
	Source string
}

// LoadError reports that an image could not be fetched or decoded.
type LoadError struct {
	URL string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s image cannot be loaded: %v", displayURL(e.URL), e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// displayURL shortens data URLs so errors stay readable.
func displayURL(u string) string {
	if strings.HasPrefix(u, "data:") && len(u) > 48 {
		return u[:48] + "..."
	}
	return u
}

// Credentials are attached to HTTP(S) requests.
type Credentials struct {
	BearerToken string
	Username    string
	Password    string
}

// Loader resolves image URLs. The zero value is not usable, call New.
type Loader struct {
	client      *http.Client
	store       *objstore.Store
	credentials Credentials
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient replaces the HTTP client. Its cookie jar, if any, is used
// for credentialed requests.
func WithHTTPClient(c *http.Client) Option { return func(l *Loader) { l.client = c } }

// WithObjectStore sets the store used for s3:// URLs.
func WithObjectStore(s *objstore.Store) Option { return func(l *Loader) { l.store = s } }

// WithCredentials attaches credentials to HTTP(S) requests.
func WithCredentials(c Credentials) Option { return func(l *Loader) { l.credentials = c } }

// New creates a Loader. By default HTTP requests share a cookie jar so
// cross-origin sources that depend on session cookies keep working.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, o := range opts {
		o(l)
	}
	if l.client == nil {
		jar, _ := cookiejar.New(nil)
		l.client = &http.Client{Jar: jar}
	}
	if l.store == nil {
		l.store = objstore.New()
	}
	return l
}

// Load fetches and decodes the image at rawURL. Any failure is reported as a
// *LoadError naming rawURL. There is no retry.
func (l *Loader) Load(ctx context.Context, rawURL string) (*Image, error) {
	data, err := l.fetch(ctx, rawURL)
	if err != nil {
		return nil, &LoadError{URL: rawURL, Err: err}
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &LoadError{URL: rawURL, Err: fmt.Errorf("decode: %w", err)}
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, &LoadError{URL: rawURL, Err: fmt.Errorf("empty image %dx%d", b.Dx(), b.Dy())}
	}
	logrus.WithFields(logrus.Fields{
		"source": displayURL(rawURL),
		"format": format,
		"bytes":  len(data),
	}).Debug("image loaded")
	return &Image{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pixels: img,
		Format: format,
		Source: rawURL,
	}, nil
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	switch {
	case strings.HasPrefix(rawURL, "data:"):
		return decodeDataURL(rawURL)
	case strings.HasPrefix(rawURL, "http://"), strings.HasPrefix(rawURL, "https://"):
		return l.fetchHTTP(ctx, rawURL)
	case strings.HasPrefix(rawURL, "s3://"):
		loc, err := objstore.ParseURL(rawURL)
		if err != nil {
			return nil, err
		}
		return l.store.Get(ctx, loc.Bucket, loc.Key)
	case strings.HasPrefix(rawURL, "file://"):
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, err
		}
		return readFile(ctx, u.Path)
	default:
		return readFile(ctx, rawURL)
	}
}

func readFile(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

func (l *Loader) fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "image/*")
	switch {
	case l.credentials.BearerToken != "":
		req.Header.Set("Authorization", "Bearer "+l.credentials.BearerToken)
	case l.credentials.Username != "":
		req.SetBasicAuth(l.credentials.Username, l.credentials.Password)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxBody {
		return nil, fmt.Errorf("image larger than %d bytes", maxBody)
	}
	return data, nil
}

// decodeDataURL extracts the payload of a data URL. Both base64 and
// percent-encoded payloads are accepted.
func decodeDataURL(raw string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(raw, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("malformed data url")
	}
	if strings.HasSuffix(header, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("base64 payload: %w", err)
		}
		return data, nil
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}
