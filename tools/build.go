///usr/bin/true; exec /usr/bin/env go run "$0" "$@"

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

const PACKAGE_NAME = "github.com/tinyrange/napi"

type crossBuild struct {
	GOOS   string
	GOARCH string
}

func (cb crossBuild) IsNative() bool {
	return cb.GOOS == runtime.GOOS && cb.GOARCH == runtime.GOARCH
}

// OutputName returns the file name of a Node-API addon. Node loads addons
// by their .node extension on every platform.
func (cb crossBuild) OutputName(name string) string {
	if cb.IsNative() {
		return name + ".node"
	}
	return fmt.Sprintf("%s_%s_%s.node", name, cb.GOOS, cb.GOARCH)
}

var hostBuild = crossBuild{
	GOOS:   runtime.GOOS,
	GOARCH: runtime.GOARCH,
}

type buildOptions struct {
	Package    string
	OutputName string
	OutputDir  string
	Build      crossBuild
	Tags       []string
}

type buildOutput struct {
	Path string
}

type executor struct {
	dryRun bool
	build  crossBuild
}

func (e *executor) command(env []string, args ...string) error {
	fmt.Fprintf(os.Stderr, "+ %s\n", strings.Join(args, " "))
	if e.dryRun {
		return nil
	}
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// generate runs napigen over every addon package.
func (e *executor) generate() error {
	for _, pkg := range addons {
		if err := e.command(nil, "go", "run", "./cmd/napigen", "./"+pkg); err != nil {
			return fmt.Errorf("napigen %s: %w", pkg, err)
		}
	}
	return nil
}

func (e *executor) goBuild(opts buildOptions) (buildOutput, error) {
	outputDir := "build"
	if opts.OutputDir != "" {
		outputDir = opts.OutputDir
	}
	output := filepath.Join(outputDir, opts.Build.OutputName(opts.OutputName))

	if !e.dryRun {
		if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
			return buildOutput{}, fmt.Errorf("failed to create build directory: %w", err)
		}
	}

	// Trampolines are cgo exports, so c-shared builds always need cgo.
	env := []string{
		"GOOS=" + opts.Build.GOOS,
		"GOARCH=" + opts.Build.GOARCH,
		"CGO_ENABLED=1",
	}
	args := []string{"go", "build", "-buildmode=c-shared", "-o", output}
	if len(opts.Tags) > 0 {
		args = append(args, "-tags", strings.Join(opts.Tags, " "))
	}
	args = append(args, PACKAGE_NAME+"/"+opts.Package)

	if err := e.command(env, args...); err != nil {
		return buildOutput{}, fmt.Errorf("go build failed: %w", err)
	}
	return buildOutput{Path: output}, nil
}

func (e *executor) buildAddons() error {
	for _, pkg := range addons {
		out, err := e.goBuild(buildOptions{
			Package:    pkg,
			OutputName: filepath.Base(pkg),
			Build:      e.build,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "built %s\n", out.Path)
	}
	return nil
}

func (e *executor) test() error {
	return e.command([]string{"CGO_ENABLED=1"}, "go", "test", "./...")
}

var addons = []string{"examples/greet"}

var targets = map[string][]func(*executor) error{
	"generate": {(*executor).generate},
	"addon":    {(*executor).generate, (*executor).buildAddons},
	"test":     {(*executor).generate, (*executor).test},
	"default":  {(*executor).generate, (*executor).test, (*executor).buildAddons},
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s [options] [target]

Options:
  --dry-run         Show what would be done without executing
  --os <goos>       Target operating system for addons (default: host)
  --arch <goarch>   Target architecture for addons (default: host)
  --list            List all available targets
  -h, --help        Show this help message
`, os.Args[0])
}

func main() {
	e := &executor{build: hostBuild}
	var targetName string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--dry-run":
			e.dryRun = true
		case "--os", "--arch":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "%s requires an argument\n", arg)
				os.Exit(1)
			}
			i++
			if arg == "--os" {
				e.build.GOOS = args[i]
			} else {
				e.build.GOARCH = args[i]
			}
		case "--list":
			var names []string
			for name := range targets {
				names = append(names, name)
			}
			sort.Strings(names)
			fmt.Println("Available targets:")
			for _, name := range names {
				fmt.Printf("  %s\n", name)
			}
			os.Exit(0)
		case "-h", "--help":
			usage()
			os.Exit(0)
		default:
			if strings.HasPrefix(arg, "-") || targetName != "" {
				fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", arg)
				usage()
				os.Exit(1)
			}
			targetName = arg
		}
	}
	if targetName == "" {
		targetName = "default"
	}

	steps, ok := targets[targetName]
	if !ok {
		fmt.Fprintf(os.Stderr, "target %q not found\n", targetName)
		os.Exit(1)
	}
	for _, step := range steps {
		if err := step(e); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}
