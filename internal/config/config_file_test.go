package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evanw/classvars/internal/test"
)

func writeFile(t *testing.T, path string, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, `
[transform]
ts = true

[runtime]
mode = "import"
module = "./helpers.js"

[output]
outdir = "out"

[log]
level = "warning"
overrides = { "super-call-in-closure" = "error" }
`)

	file, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, file.Transform.TS, true)
	test.AssertEqual(t, file.Runtime.Mode, "import")
	test.AssertEqual(t, file.Log.Overrides["super-call-in-closure"], "error")
	test.AssertEqual(t, file.ResolvePath(file.Output.Dir), filepath.Join(dir, "out"))
	test.AssertEqual(t, len(file.Unknown), 0)

	options := Options{RuntimeModule: DefaultRuntimeModule}
	file.ApplyTo(&options)
	test.AssertEqual(t, options.TS.Parse, true)
	test.AssertEqual(t, options.Runtime, RuntimeImport)
	test.AssertEqual(t, options.RuntimeModule, "./helpers.js")
}

func TestLoadUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, "[transform]\nts = true\nminify = true\n\n[extra]\nx = 1\n")

	file, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, strings.Join(file.Unknown, ","), "extra,extra.x,transform.minify")
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.toml"))
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected a not-exist error, got %v", err)
	}

	path := filepath.Join(dir, FileName)
	writeFile(t, path, "[runtime]\nmode = \"bundle\"\n")
	_, err = Load(path)
	if err == nil || !strings.Contains(err.Error(), "invalid runtime mode \"bundle\"") {
		t.Fatalf("unexpected error %v", err)
	}

	writeFile(t, path, "[runtime\n")
	_, err = Load(path)
	if err == nil || !strings.Contains(err.Error(), "parse error in") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestFindAndLoad(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	file, err := FindAndLoad(nested)
	if err != nil {
		t.Fatal(err)
	}
	if file != nil && strings.HasPrefix(file.Path, dir) {
		t.Fatalf("unexpected config file %s", file.Path)
	}

	writeFile(t, filepath.Join(dir, "a", FileName), "[transform]\nascii-only = true\n")
	file, err = FindAndLoad(nested)
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, file.Transform.ASCIIOnly, true)
	test.AssertEqual(t, file.Dir, filepath.Join(dir, "a"))
}
