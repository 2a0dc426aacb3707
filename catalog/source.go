package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// LoadError reports a collection that could not be fetched or decoded.
type LoadError struct {
	URL string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.URL, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// maxCollectionSize bounds how much of a response body is read.
const maxCollectionSize = 16 << 20

// Source fetches JSON collections. Relative URLs are resolved against Base,
// which is either an http(s) URL or a directory on disk.
type Source struct {
	Base   string
	Client *http.Client
	Now    func() time.Time
}

// NewSource returns a Source rooted at base.
func NewSource(base string) *Source {
	return &Source{
		Base:   base,
		Client: &http.Client{Timeout: 15 * time.Second},
		Now:    time.Now,
	}
}

// Load performs a single fetch of the collection at ref and decodes it as a
// JSON array of R. Every failure is returned as a *LoadError.
func Load[R any](ctx context.Context, s *Source, ref string) ([]R, error) {
	target, err := s.resolve(ref)
	if err != nil {
		return nil, &LoadError{URL: ref, Err: err}
	}
	body, err := s.fetch(ctx, target)
	if err != nil {
		return nil, &LoadError{URL: target, Err: err}
	}
	var records []R
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, &LoadError{URL: target, Err: fmt.Errorf("decode: %w", err)}
	}
	if records == nil {
		return nil, &LoadError{URL: target, Err: fmt.Errorf("decode: expected a JSON array")}
	}
	return records, nil
}

// resolve turns ref into an absolute URL or a file path.
func (s *Source) resolve(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	if u.IsAbs() {
		return u.String(), nil
	}
	base, err := url.Parse(s.Base)
	if err != nil {
		return "", err
	}
	switch base.Scheme {
	case "http", "https":
		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}
		return base.ResolveReference(u).String(), nil
	case "file":
		return "file://" + filepath.Join(base.Path, filepath.FromSlash(u.Path)), nil
	case "":
		return filepath.Join(s.Base, filepath.FromSlash(u.Path)), nil
	}
	return "", fmt.Errorf("unsupported scheme %q", base.Scheme)
}

func (s *Source) fetch(ctx context.Context, target string) ([]byte, error) {
	if path, ok := strings.CutPrefix(target, "file://"); ok {
		return os.ReadFile(path)
	}
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		return os.ReadFile(target)
	}
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("nocache", strconv.FormatInt(s.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxCollectionSize))
}

func (s *Source) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
