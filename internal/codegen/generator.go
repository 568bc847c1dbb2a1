package codegen

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/build"
	"go/format"
	"go/parser"
	"go/token"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
)

// GeneratedHeader is the first line of every generated file.
const GeneratedHeader = "// Code generated by napigen. DO NOT EDIT."

// The preamble only declares types, as required for files with //export.
var fileTemplate = template.Must(template.New("file").Parse(GeneratedHeader + `

package {{.Package}}

/*
typedef struct napi_env__* napi_env;
typedef struct napi_value__* napi_value;
typedef struct napi_callback_info__* napi_callback_info;
*/
import "C"

import (
	napi_go_unsafe "unsafe"

	napi_go_rt "{{.Runtime}}"
)
{{range .Trampolines}}
{{printf "%s" .Source}}{{end}}`))

// Generator expands the napi:callback directives of a package directory
// into one generated file.
type Generator struct {
	Config Config
	Logger *slog.Logger
}

// Result describes a Generate run.
type Result struct {
	Package    string
	Expansions []*Expansion
	// Output is the file written, empty if none was.
	Output string
	// Manifest is the manifest written, empty if none was.
	Manifest string
	// Removed is set when a stale generated file was deleted because the
	// package no longer has directives.
	Removed bool
	// ManifestRemoved is set when the manifest of such a package was
	// deleted as well.
	ManifestRemoved bool
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

func (g *Generator) config() (Config, error) {
	cfg := g.Config
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("napigen: invalid config: %w", err)
	}
	return cfg, nil
}

// Generate processes the package in dir. On the first Diagnostic it returns
// without writing anything.
func (g *Generator) Generate(dir string) (*Result, error) {
	cfg, err := g.config()
	if err != nil {
		return nil, err
	}
	log := g.logger()

	fset := token.NewFileSet()
	pkg, files, err := parsePackage(fset, dir, cfg)
	if err != nil {
		return nil, err
	}
	log.Debug("Parsed package", "dir", dir, "package", pkg, "files", len(files))

	exps, err := ExpandFiles(fset, files)
	if err != nil {
		return nil, err
	}

	res := &Result{Package: pkg, Expansions: exps}
	outPath := filepath.Join(dir, cfg.Output)

	if len(exps) == 0 {
		removed, err := removeStale(outPath)
		if err != nil {
			return nil, err
		}
		res.Removed = removed
		if cfg.Manifest != "" {
			if res.ManifestRemoved, err = removeStaleManifest(manifestPath(dir, cfg)); err != nil {
				return nil, err
			}
		}
		log.Info("No napi:callback directives found", "dir", dir, "removed", removed, "manifestRemoved", res.ManifestRemoved)
		return res, nil
	}

	exists, generated, err := generatedFile(outPath)
	if err != nil {
		return nil, err
	}
	if exists && !generated {
		return nil, fmt.Errorf("refusing to overwrite %s: not generated by napigen", outPath)
	}

	src, err := g.render(cfg, pkg, exps)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(outPath, src, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", outPath, err)
	}
	res.Output = outPath
	for _, exp := range exps {
		log.Debug("Synthesized trampoline", "name", exp.Directive.Name, "symbol", exp.Trampoline.LinkName)
	}

	if cfg.Manifest != "" {
		path := manifestPath(dir, cfg)
		if err := WriteManifest(path, NewManifest(pkg, exps)); err != nil {
			return nil, err
		}
		res.Manifest = path
	}

	log.Info("Generated trampolines", "package", pkg, "count", len(exps), "output", outPath)
	return res, nil
}

// Render returns the generated file for exps without touching disk.
func (g *Generator) Render(pkg string, exps []*Expansion) ([]byte, error) {
	cfg, err := g.config()
	if err != nil {
		return nil, err
	}
	return g.render(cfg, pkg, exps)
}

func (g *Generator) render(cfg Config, pkg string, exps []*Expansion) ([]byte, error) {
	data := struct {
		Package     string
		Runtime     string
		Trampolines []*Trampoline
	}{
		Package: pkg,
		Runtime: cfg.Runtime,
	}
	for _, exp := range exps {
		data.Trampolines = append(data.Trampolines, exp.Trampoline)
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", pkg, err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return src, nil
}

// parsePackage parses the buildable, hand-written, non-test files of dir.
func parsePackage(fset *token.FileSet, dir string, cfg Config) (string, []*ast.File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", nil, fmt.Errorf("read package dir: %w", err)
	}

	ctx := build.Default
	ctx.CgoEnabled = true
	ctx.BuildTags = append(append([]string(nil), ctx.BuildTags...), cfg.Tags...)

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		ok, err := ctx.MatchFile(dir, name)
		if err != nil {
			return "", nil, fmt.Errorf("match %s: %w", name, err)
		}
		if ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var (
		pkg     string
		pkgFile string
		files   []*ast.File
	)
	for _, name := range names {
		filename := filepath.Join(dir, name)
		file, err := parser.ParseFile(fset, filename, nil, parser.ParseComments)
		if err != nil {
			return "", nil, err
		}
		if ast.IsGenerated(file) {
			continue
		}
		if pkg == "" {
			pkg, pkgFile = file.Name.Name, name
		} else if file.Name.Name != pkg {
			return "", nil, fmt.Errorf("found packages %s (%s) and %s (%s) in %s", pkg, pkgFile, file.Name.Name, name, dir)
		}
		files = append(files, file)
	}
	if pkg == "" {
		return "", nil, fmt.Errorf("no buildable Go source files in %s", dir)
	}
	return pkg, files, nil
}

// generatedFile reports whether path exists and whether it starts with
// GeneratedHeader.
func generatedFile(path string) (exists, generated bool, err error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	line, _ := bufio.NewReader(f).ReadString('\n')
	return true, strings.TrimSpace(line) == GeneratedHeader, nil
}

func manifestPath(dir string, cfg Config) string {
	if filepath.IsAbs(cfg.Manifest) {
		return cfg.Manifest
	}
	return filepath.Join(dir, cfg.Manifest)
}

// removeStaleManifest deletes a manifest left by an earlier run. Files that
// do not load as a manifest are kept.
func removeStaleManifest(path string) (bool, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if _, err := LoadManifest(path); err != nil {
		return false, nil
	}
	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("remove %s: %w", path, err)
	}
	return true, nil
}

// removeStale deletes a previously generated output. Hand-written files
// are never removed.
func removeStale(outPath string) (bool, error) {
	exists, generated, err := generatedFile(outPath)
	if err != nil || !exists || !generated {
		return false, err
	}
	if err := os.Remove(outPath); err != nil {
		return false, fmt.Errorf("remove %s: %w", outPath, err)
	}
	return true, nil
}
