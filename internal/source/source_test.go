package source

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/vbind/internal/config"
	"github.com/vango-dev/vbind/internal/errors"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("not found")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[key] = data
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func errorCode(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	if err := os.WriteFile(path, []byte("<p>{{ a }}</p>"), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if string(src.Data) != "<p>{{ a }}</p>" || src.Name() != "page.html" {
		t.Errorf("source = %q %q", src.Name(), src.Data)
	}

	_, err = Open(context.Background(), filepath.Join(dir, "missing.html"))
	if errorCode(err) != "E120" {
		t.Errorf("missing file error = %v, want E120", err)
	}
}

func TestOpenS3(t *testing.T) {
	fake := newFakeS3()
	fake.objects["site/data.json"] = []byte(`{"msg":"hi"}`)
	l := NewLoader(WithS3Client(fake))

	src, err := l.Open(context.Background(), "s3://site/data.json")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	store, err := src.Store()
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if got := store.Value("msg"); got != "hi" {
		t.Errorf("msg = %v, want hi", got)
	}

	_, err = l.Open(context.Background(), "s3://site/none.json")
	if errorCode(err) != "E120" {
		t.Errorf("missing object error = %v, want E120", err)
	}
}

func TestWrite(t *testing.T) {
	fake := newFakeS3()
	l := NewLoader(WithS3Client(fake))
	ctx := context.Background()

	if err := l.Write(ctx, "s3://out/page.html", []byte("<p>x</p>"), "text/html"); err != nil {
		t.Fatalf("Write s3: %v", err)
	}
	if got := string(fake.objects["out/page.html"]); got != "<p>x</p>" {
		t.Errorf("object = %q", got)
	}
	if got := fake.types["out/page.html"]; got != "text/html" {
		t.Errorf("content type = %q", got)
	}

	path := filepath.Join(t.TempDir(), "nested", "page.html")
	if err := l.Write(ctx, path, []byte("ok"), "text/html"); err != nil {
		t.Fatalf("Write file: %v", err)
	}
	if b, _ := os.ReadFile(path); string(b) != "ok" {
		t.Errorf("file = %q", b)
	}
}

func TestDecodeData(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantKeys []string
		wantCode string
	}{
		{"data.json", `{"b": 1, "a": "x"}`, []string{"b", "a"}, ""},
		{"data.yaml", "z: 1\ny: two\n", []string{"z", "y"}, ""},
		{"DATA.YML", "k: v\n", []string{"k"}, ""},
		{"noext", `{"k": true}`, []string{"k"}, ""},
		{"bad.json", `[1, 2]`, nil, "E123"},
		{"bad.yaml", "- a\n- b\n", nil, "E123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := DecodeData(tt.name, []byte(tt.data))
			if tt.wantCode != "" {
				if errorCode(err) != tt.wantCode {
					t.Fatalf("error = %v, want %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeData: %v", err)
			}
			if diff := cmp.Diff(tt.wantKeys, store.Keys()); diff != "" {
				t.Errorf("keys (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewS3Client(t *testing.T) {
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("AWS_ACCESS_KEY_ID", "AKID")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")

	c := NewS3Client(config.S3Config{Endpoint: "http://localhost:9000", PathStyle: true})
	opts := c.Options()
	if opts.Region != "eu-west-1" {
		t.Errorf("Region = %q, want eu-west-1", opts.Region)
	}
	if !opts.UsePathStyle {
		t.Error("UsePathStyle should be true")
	}
	if aws.ToString(opts.BaseEndpoint) != "http://localhost:9000" {
		t.Errorf("BaseEndpoint = %q", aws.ToString(opts.BaseEndpoint))
	}

	creds, err := opts.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if creds.AccessKeyID != "AKID" || creds.SecretAccessKey != "secret" {
		t.Errorf("credentials = %+v", creds)
	}

	if got := NewS3Client(config.S3Config{Region: "ap-south-1"}).Options().Region; got != "ap-south-1" {
		t.Errorf("config region = %q", got)
	}
}
