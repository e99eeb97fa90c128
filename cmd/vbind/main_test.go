package main

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/vbind/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func errorCode(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeFile(t, dir, "index.html", `<p>Hello, {{ name }}!</p><input v-model="name"><i v-text="count"></i>`)
	data := writeFile(t, dir, "data.yaml", "name: Ada\ncount: 1\n")
	cfg := writeFile(t, dir, "vbind.json", `{}`)

	out, err := run(t, "render", tmpl, "--config", cfg, "--data", data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<p>Hello, Ada!</p><input v-model="name" value="Ada"/><i v-text="count">1</i>`
	if strings.TrimSpace(out) != want {
		t.Errorf("output = %q, want %q", out, want)
	}

	out, err = run(t, "render", tmpl, "--config", cfg, "--data", data, "--set", "name=Bob", "--set", "count=2.5")
	if err != nil {
		t.Fatalf("render --set: %v", err)
	}
	want = `<p>Hello, Bob!</p><input v-model="name" value="Bob"/><i v-text="count">2.5</i>`
	if strings.TrimSpace(out) != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestRenderToFile(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeFile(t, dir, "index.html", `<b>{{ x }}</b>`)
	cfg := writeFile(t, dir, "vbind.json", `{"missingValue": "?"}`)
	out := filepath.Join(dir, "out", "page.html")

	if _, err := run(t, "render", tmpl, "--config", cfg, "--out", out); err != nil {
		t.Fatalf("render: %v", err)
	}
	got, _ := os.ReadFile(out)
	if string(got) != "<b>?</b>" {
		t.Errorf("written = %q", got)
	}
}

func TestRenderBadSet(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeFile(t, dir, "index.html", `<b></b>`)
	cfg := writeFile(t, dir, "vbind.json", `{}`)

	_, err := run(t, "render", tmpl, "--config", cfg, "--set", "novalue")
	if errorCode(err) != "E160" {
		t.Errorf("error = %v, want E160", err)
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeFile(t, dir, "index.html", `<p v-bogus="a">{{ missing }}</p><button v-on:click="go"></button>`)
	data := writeFile(t, dir, "data.json", `{"a": 1}`)
	cfg := writeFile(t, dir, "vbind.json", `{}`)

	out, err := run(t, "check", tmpl, "--config", cfg, "--data", data, "--compact")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	for _, want := range []string{"W001", "W002", "W003", "1 bindings, 3 diagnostics"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	_, err = run(t, "check", tmpl, "--config", cfg, "--data", data, "--strict")
	if errorCode(err) != "E161" {
		t.Errorf("strict error = %v, want E161", err)
	}
}

func TestCheckMissingTemplate(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "vbind.json", `{}`)
	_, err := run(t, "check", filepath.Join(dir, "nope.html"), "--config", cfg)
	if errorCode(err) != "E120" {
		t.Errorf("error = %v, want E120", err)
	}
}

func TestInvalidConfigFlag(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeFile(t, dir, "index.html", `<b></b>`)
	cfg := writeFile(t, dir, "vbind.json", `{}`)

	_, err := run(t, "render", tmpl, "--config", cfg, "--log-level", "loud")
	if errorCode(err) != "E102" {
		t.Errorf("error = %v, want E102", err)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version = %q, want %q", out, version)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"hello", "hello"},
		{`"quoted"`, "quoted"},
		{"3", 3.0},
		{"true", true},
		{"null", nil},
		{"", ""},
	}
	for _, tt := range tests {
		if got := parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
