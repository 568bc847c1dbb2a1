package main

import (
	"bytes"
	"errors"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tinyrange/napi/internal/codegen"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestPrintDiagnostic(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.go", "package main\n\n//napi:callback(42)\nfunc bad() {}\n")

	d := &codegen.Diagnostic{
		Pos:  token.Position{Filename: path, Line: 3, Column: 17},
		Msg:  "napi:callback argument must be a string",
		Help: "check the directive",
	}
	var buf bytes.Buffer
	printDiagnostic(&buf, d, 0)

	want := path + ":3:17: napi:callback argument must be a string\n" +
		" 3 | //napi:callback(42)\n" +
		"   |                 ^\n" +
		"   = help: check the directive\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrintDiagnosticTabs(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tabs.go", "package main\n\ntype T struct {\n\t//napi:callback(\"x\")\n\tF int\n}\n")

	d := &codegen.Diagnostic{Pos: token.Position{Filename: path, Line: 5, Column: 2}, Msg: "not a function"}
	var buf bytes.Buffer
	printDiagnostic(&buf, d, 0)

	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("unexpected output %q", buf.String())
	}
	if lines[1] != " 5 |     F int" {
		t.Fatalf("unexpected source line %q", lines[1])
	}
	if lines[2] != "   |     ^" {
		t.Fatalf("unexpected caret line %q", lines[2])
	}
}

func TestPrintDiagnosticTruncates(t *testing.T) {
	dir := t.TempDir()
	long := "//napi:callback(\"" + strings.Repeat("a", 200) + "\")"
	path := writeFile(t, dir, "long.go", "package main\n"+long+"\n")

	d := &codegen.Diagnostic{Pos: token.Position{Filename: path, Line: 2, Column: 1}, Msg: "too long"}
	var buf bytes.Buffer
	printDiagnostic(&buf, d, 40)

	lines := strings.Split(buf.String(), "\n")
	if got := len([]rune(lines[1])); got > 40 {
		t.Fatalf("source line not truncated to 40 columns (%d): %q", got, lines[1])
	}
	if !strings.HasSuffix(lines[1], "…") {
		t.Fatalf("truncated line lacks tail: %q", lines[1])
	}
	if lines[2] != "   | ^" {
		t.Fatalf("unexpected caret line %q", lines[2])
	}
}

func TestPrintDiagnosticWithoutSource(t *testing.T) {
	d := &codegen.Diagnostic{
		Pos:  token.Position{Filename: filepath.Join(t.TempDir(), "missing.go"), Line: 1, Column: 1},
		Msg:  "boom",
		Help: "usage",
	}
	var buf bytes.Buffer
	printDiagnostic(&buf, d, 0)
	if !strings.HasSuffix(buf.String(), ": boom\n  = help: usage\n") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestRunReportsDiagnostic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.go", "package main\n\n//napi:callback\nfunc bad() {}\n")

	var stderr bytes.Buffer
	err := run([]string{dir}, &stderr)
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	out := stderr.String()
	for _, want := range []string{
		"bad.go:3:1: incorrect use of napi:callback directive",
		" 3 | //napi:callback\n",
		"   | ^\n",
		`= help: usage: //napi:callback("jsFunctionName")`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stderr lacks %q:\n%s", want, out)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, codegen.DefaultOutput)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("output written despite diagnostic (err=%v)", err)
	}
}

func TestRunGenerates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "addon.go", `package main

import "github.com/tinyrange/napi"

//napi:callback("hello")
func hello(env *napi.Env) (napi.Handle, error) {
	return env.String("hello")
}
`)
	writeFile(t, dir, codegen.ConfigFilename, "output: zz_napi.go\nmanifest: exports.yaml\n")

	var stderr bytes.Buffer
	if err := run([]string{"-manifest", "out/exports.yaml", dir}, &stderr); err != nil {
		t.Fatalf("run returned error: %v\n%s", err, stderr.String())
	}

	if _, err := os.Stat(filepath.Join(dir, "zz_napi.go")); err != nil {
		t.Fatalf("config output not used: %v", err)
	}
	m, err := codegen.LoadManifest(filepath.Join(dir, "out", "exports.yaml"))
	if err != nil {
		t.Fatalf("flag manifest not used: %v", err)
	}
	if len(m.Exports) != 1 || m.Exports[0].Symbol != "napi_go_cb_hello" {
		t.Fatalf("unexpected manifest %+v", m)
	}
}

func TestRunUsageErrors(t *testing.T) {
	var stderr bytes.Buffer
	if err := run([]string{"a", "b"}, &stderr); err == nil {
		t.Fatal("expected error for two directories")
	}
	if !strings.Contains(stderr.String(), "Usage: napigen") {
		t.Fatalf("usage not printed:\n%s", stderr.String())
	}

	if err := run([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml"), t.TempDir()}, &stderr); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestSplitTags(t *testing.T) {
	got := splitTags(" a, b ,,c")
	if strings.Join(got, "|") != "a|b|c" {
		t.Fatalf("splitTags = %q", got)
	}
	if splitTags("") != nil {
		t.Fatal("expected nil tags for empty string")
	}
}
