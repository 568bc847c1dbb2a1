// Command napigen expands napi:callback directives into cgo-exported
// Node-API trampolines. It is normally run through go generate:
//
//	//go:generate go run github.com/tinyrange/napi/cmd/napigen
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/tinyrange/napi/internal/codegen"
)

// errReported is returned once a diagnostic has been printed.
var errReported = errors.New("diagnostic reported")

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "napigen: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("napigen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	output := fs.String("o", "", "Generated file name (default: "+codegen.DefaultOutput+")")
	manifest := fs.String("manifest", "", "Write the export manifest to this path")
	runtimePath := fs.String("runtime", "", "Import path of the napi runtime (default: "+codegen.DefaultRuntime+")")
	tags := fs.String("tags", "", "Comma-separated build tags used to select files")
	configPath := fs.String("config", "", "Config file (default: <dir>/"+codegen.ConfigFilename+" if present)")
	debug := fs.Bool("debug", false, "Enable debug logging")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: napigen [flags] [dir]\n\n")
		fmt.Fprintf(stderr, "Generate Node-API callback trampolines for the package in dir (default: .).\n\n")
		fmt.Fprintf(stderr, "Examples:\n")
		fmt.Fprintf(stderr, "  napigen\n")
		fmt.Fprintf(stderr, "  napigen -manifest build/exports.yaml ./addon\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return fmt.Errorf("at most one package directory expected")
	}

	dir := "."
	if fs.NArg() == 1 {
		dir = fs.Arg(0)
	}

	level := slog.LevelWarn
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig(dir, *configPath, logger)
	if err != nil {
		return err
	}
	cfg = cfg.Merge(codegen.Config{
		Output:   *output,
		Manifest: *manifest,
		Runtime:  *runtimePath,
		Tags:     splitTags(*tags),
	})

	g := &codegen.Generator{Config: cfg, Logger: logger}
	if _, err := g.Generate(dir); err != nil {
		var d *codegen.Diagnostic
		if errors.As(err, &d) {
			printDiagnostic(stderr, d, terminalWidth())
			return errReported
		}
		return err
	}
	return nil
}

func loadConfig(dir, path string, logger *slog.Logger) (codegen.Config, error) {
	if path != "" {
		return codegen.LoadConfig(path)
	}
	cfg, found, err := codegen.LoadConfigDir(dir)
	if err != nil {
		return codegen.Config{}, err
	}
	if found {
		logger.Debug("Loaded config", "dir", dir, "file", codegen.ConfigFilename)
	}
	return cfg, nil
}

func splitTags(s string) []string {
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
