package source

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/vango-dev/vbind/internal/errors"
)

// Scheme identifies where a source lives.
type Scheme string

const (
	SchemeFile Scheme = "file"
	SchemeS3   Scheme = "s3"
)

// Location is a parsed source URI.
type Location struct {
	Scheme Scheme
	Path   string // Local path, for SchemeFile
	Bucket string // For SchemeS3
	Key    string // For SchemeS3
}

// Name returns the base name used to pick a decoder.
func (l Location) Name() string {
	if l.Scheme == SchemeS3 {
		return l.Key[strings.LastIndex(l.Key, "/")+1:]
	}
	return filepath.Base(l.Path)
}

// String returns the URI form of the location.
func (l Location) String() string {
	if l.Scheme == SchemeS3 {
		return "s3://" + l.Bucket + "/" + l.Key
	}
	return l.Path
}

// ParseURI parses a local path, file:// URI or s3://bucket/key URI.
func ParseURI(uri string) (Location, error) {
	if uri == "" {
		return Location{}, errors.New("E121").WithDetail("empty URI")
	}
	if !strings.Contains(uri, "://") {
		return Location{Scheme: SchemeFile, Path: uri}, nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return Location{}, errors.New("E121").WithDetailf("%q", uri).Wrap(err)
	}
	switch u.Scheme {
	case "file":
		p := u.Path
		if u.Host != "" {
			p = u.Host + p
		}
		if p == "" {
			return Location{}, errors.New("E121").WithDetailf("%q has no path", uri)
		}
		return Location{Scheme: SchemeFile, Path: p}, nil
	case "s3":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return Location{}, errors.New("E121").
				WithDetailf("%q must name a bucket and a key", uri).
				WithSuggestion("Use s3://bucket/path/to/object")
		}
		return Location{Scheme: SchemeS3, Bucket: u.Host, Key: key}, nil
	default:
		return Location{}, errors.New("E121").WithDetailf("unsupported scheme %q", u.Scheme)
	}
}
