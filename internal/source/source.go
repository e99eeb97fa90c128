package source

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/vango-dev/vbind/internal/config"
	"github.com/vango-dev/vbind/internal/errors"
)

// Source is the content of a template or data file.
type Source struct {
	Location Location
	Data     []byte
}

// Name returns the base name of the source.
func (s *Source) Name() string {
	return s.Location.Name()
}

// Loader reads and writes sources.
type Loader struct {
	s3Config config.S3Config
	logger   *slog.Logger

	clientOnce sync.Once
	client     ObjectAPI
}

// Option configures a Loader.
type Option func(*Loader)

// WithS3Config sets the configuration used to create the S3 client on first
// use.
func WithS3Config(cfg config.S3Config) Option {
	return func(l *Loader) {
		l.s3Config = cfg
	}
}

// WithS3Client sets the S3 client directly.
func WithS3Client(api ObjectAPI) Option {
	return func(l *Loader) {
		l.client = api
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{logger: slog.Default().With("component", "source")}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) s3() ObjectAPI {
	l.clientOnce.Do(func() {
		if l.client == nil {
			l.client = NewS3Client(l.s3Config)
		}
	})
	return l.client
}

// Open reads the source at uri.
func (l *Loader) Open(ctx context.Context, uri string) (*Source, error) {
	loc, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch loc.Scheme {
	case SchemeS3:
		data, err = l.getObject(ctx, loc)
	default:
		data, err = readFile(loc.Path)
	}
	if err != nil {
		return nil, err
	}
	l.logger.Debug("source loaded", "uri", loc.String(), "bytes", len(data))
	return &Source{Location: loc, Data: data}, nil
}

// Write stores data at uri. Local parent directories are created as needed.
func (l *Loader) Write(ctx context.Context, uri string, data []byte, contentType string) error {
	loc, err := ParseURI(uri)
	if err != nil {
		return err
	}
	if loc.Scheme == SchemeS3 {
		_, err = l.s3().PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(loc.Bucket),
			Key:         aws.String(loc.Key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
		if err != nil {
			return errors.New("E122").WithDetailf("put %s", loc).Wrap(err)
		}
	} else {
		if dir := filepath.Dir(loc.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errors.New("E122").WithDetailf("create %s", dir).Wrap(err)
			}
		}
		if err := os.WriteFile(loc.Path, data, 0o644); err != nil {
			return errors.New("E122").WithDetailf("write %s", loc.Path).Wrap(err)
		}
	}
	l.logger.Debug("source written", "uri", loc.String(), "bytes", len(data))
	return nil
}

// Open reads uri with a default Loader.
func Open(ctx context.Context, uri string) (*Source, error) {
	return NewLoader().Open(ctx, uri)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.New("E120").WithLocation(path, "").Wrap(err)
		}
		return nil, errors.New("E122").WithLocation(path, "").Wrap(err)
	}
	return data, nil
}

func (l *Loader) getObject(ctx context.Context, loc Location) ([]byte, error) {
	out, err := l.s3().GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		var noBucket *types.NoSuchBucket
		if stderrors.As(err, &noKey) || stderrors.As(err, &noBucket) {
			return nil, errors.New("E120").WithLocation(loc.String(), "").Wrap(err)
		}
		return nil, errors.New("E122").WithDetailf("get %s", loc).Wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.New("E122").WithDetailf("read %s", loc).Wrap(err)
	}
	return data, nil
}
