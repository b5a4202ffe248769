package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evanw/classvars/internal/test"
	"github.com/evanw/classvars/pkg/api"
)

const input = "class A { let x = 1; m() { return this::x } }"

const output = `class A {
  constructor() {
    _x.set(this, { writable: true, value: 1 });
  }
  m() {
    return __instanceVarGet(this, _x);
  }
}
const _x = new WeakMap();
`

func writeFile(t *testing.T, path string, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(contents)
}

// Every run uses an explicit config file so that a "classvars.toml" in a
// parent directory of the test can't change the results
func runForTest(t *testing.T, stdin string, args ...string) (int, string) {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "empty.toml")
	writeFile(t, configPath, "")
	stdout := bytes.Buffer{}
	args = append([]string{"--config=" + configPath, "--log-level=silent"}, args...)
	code := runImpl(args, strings.NewReader(stdin), &stdout)
	return code, stdout.String()
}

func TestParseOptions(t *testing.T) {
	expectOptions := func(args string, check func(options cliOptions)) {
		t.Helper()
		options := newCLIOptions()
		if err := parseOptionsImpl(strings.Fields(args), &options); err != nil {
			t.Fatalf("Unexpected error for %q: %s", args, err.Error())
		}
		check(options)
	}

	expectOptions("--ts --ascii-only a.js b.js --outdir=out", func(options cliOptions) {
		test.AssertEqual(t, options.transform.TS, true)
		test.AssertEqual(t, options.transform.ASCIIOnly, true)
		test.AssertEqual(t, strings.Join(options.files, ","), "a.js,b.js")
		test.AssertEqual(t, options.outdir, "out")
	})
	expectOptions("--runtime=import --runtime-module=./rt.js", func(options cliOptions) {
		test.AssertEqual(t, options.transform.Runtime, api.RuntimeImport)
		test.AssertEqual(t, options.transform.RuntimeModule, "./rt.js")
	})
	expectOptions("--log-level=error --error-limit=0 --color=false", func(options cliOptions) {
		test.AssertEqual(t, options.transform.LogLevel, api.LogLevelError)
		test.AssertEqual(t, options.transform.ErrorLimit, 0)
		test.AssertEqual(t, options.transform.Color, api.ColorNever)
	})
	expectOptions("--log-override:super-call-in-closure=error", func(options cliOptions) {
		test.AssertEqual(t, options.transform.LogOverride["super-call-in-closure"], api.LogLevelError)
	})
}

func TestParseOptionsErrors(t *testing.T) {
	expectError := func(args string, expected string) {
		t.Helper()
		options := newCLIOptions()
		err := parseOptionsImpl(strings.Fields(args), &options)
		if err == nil {
			t.Fatalf("Expected an error for %q", args)
		}
		test.AssertEqualWithDiff(t, err.Error(), expected)
	}

	expectError("--runtime=bundle", `Invalid runtime: "bundle" (valid: inline, import, none)`)
	expectError("--log-level=verbose", `Invalid log level: "verbose" (valid: info, warning, error, silent)`)
	expectError("--error-limit=x", `Invalid error limit: "x"`)
	expectError("--color=maybe", `Invalid color: "maybe" (valid: true, false)`)
	expectError("--minify", `Invalid flag: "--minify"`)
	expectError("--log-override:unused-instance-variabel=silent",
		`Invalid message ID: "unused-instance-variabel" (did you mean "unused-instance-variable"?)`)
	expectError("--log-override:bogus=error",
		`Invalid message ID: "bogus" (valid: "cache-unavailable", "computed-key-evaluation-order", `+
			`"config-unknown-field", "early-instance-variable-access", "super-call-in-closure", `+
			`or "unused-instance-variable")`)
	expectError("--log-override:unused-instance-variable", `Missing "=" in "--log-override:unused-instance-variable"`)
	expectError("--outfile=a.js --outdir=out", `Cannot use both "outfile" and "outdir"`)
	expectError("a.js b.js --outfile=out.js", `Must use "outdir" when there are multiple input files`)
}

func TestStdinToStdout(t *testing.T) {
	code, stdout := runForTest(t, input, "--runtime=none")
	test.AssertEqual(t, code, 0)
	test.AssertEqualWithDiff(t, stdout, output)

	code, stdout = runForTest(t, input, "--runtime=import")
	test.AssertEqual(t, code, 0)
	test.AssertEqualWithDiff(t, stdout, "import { __instanceVarGet } from \"classvars/runtime\";\n"+output)

	// Nothing is written when there are errors
	code, stdout = runForTest(t, "class A { let x; let x }")
	test.AssertEqual(t, code, 1)
	test.AssertEqual(t, stdout, "")
}

func TestFilesToOutdir(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "src", "a.js")
	b := filepath.Join(dir, "src", "b.ts")
	writeFile(t, a, input)
	writeFile(t, b, "class B { const y: string = 'y'; m() { return this::y } }")
	outdir := filepath.Join(dir, "out")

	code, stdout := runForTest(t, "", "--runtime=none", "--ts", a, b, "--outdir="+outdir)
	test.AssertEqual(t, code, 0)
	test.AssertEqual(t, stdout, "")
	test.AssertEqualWithDiff(t, readFile(t, filepath.Join(outdir, "a.js")), output)
	test.AssertEqualWithDiff(t, readFile(t, filepath.Join(outdir, "b.js")), `class B {
  constructor() {
    _y.set(this, { writable: false, value: "y" });
  }
  m() {
    return __instanceVarGet(this, _y);
  }
}
const _y = new WeakMap();
`)
}

func TestFileErrors(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.js")
	bad := filepath.Join(dir, "bad.js")
	writeFile(t, good, input)
	writeFile(t, bad, "class A { m() { return this::y } }")
	outdir := filepath.Join(dir, "out")

	// One failing file means no file is written
	code, _ := runForTest(t, "", good, bad, "--outdir="+outdir)
	test.AssertEqual(t, code, 1)
	if _, err := os.Stat(filepath.Join(outdir, "good.js")); err == nil {
		t.Fatal("Expected no output")
	}

	code, _ = runForTest(t, "", filepath.Join(dir, "missing.js"))
	test.AssertEqual(t, code, 1)

	// Two inputs can't share an output file
	other := filepath.Join(dir, "other", "good.js")
	writeFile(t, other, input)
	code, _ = runForTest(t, "", good, other, "--outdir="+outdir)
	test.AssertEqual(t, code, 1)

	// Multiple files can't go to stdout
	code, _ = runForTest(t, "", good, bad)
	test.AssertEqual(t, code, 1)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "classvars.toml")
	writeFile(t, configPath, `
[transform]
ts = true

[runtime]
mode = "import"
module = "./rt.js"

[output]
outdir = "out"
cache-dir = ".cache"

[log]
level = "silent"
`)
	src := filepath.Join(dir, "a.js")
	writeFile(t, src, "class A { let x: number = 1; m() { return this::x } }")

	// Flags override the file, and paths in the file are relative to it
	for i := 0; i < 2; i++ {
		code := runImpl([]string{"--config=" + configPath, "--runtime-module=./helpers.js", src}, strings.NewReader(""), &bytes.Buffer{})
		test.AssertEqual(t, code, 0)
		test.AssertEqualWithDiff(t, readFile(t, filepath.Join(dir, "out", "a.js")),
			"import { __instanceVarGet } from \"./helpers.js\";\n"+output)
	}
	entries, err := os.ReadDir(filepath.Join(dir, ".cache"))
	test.AssertEqual(t, err, nil)
	test.AssertEqual(t, len(entries) > 0, true)

	// Bad values in the file are reported
	writeFile(t, configPath, "[log]\nlevel = \"loud\"\n")
	code := runImpl([]string{"--config=" + configPath}, strings.NewReader(input), &bytes.Buffer{})
	test.AssertEqual(t, code, 1)

	code = runImpl([]string{"--config=" + filepath.Join(dir, "missing.toml")}, strings.NewReader(input), &bytes.Buffer{})
	test.AssertEqual(t, code, 1)
}
