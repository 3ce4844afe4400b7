package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"aki/interpreter-go/pkg/driver"
	"aki/interpreter-go/pkg/interpreter"
	"aki/interpreter-go/pkg/lexer"
	"aki/interpreter-go/pkg/parser"
	"aki/interpreter-go/pkg/runtime"
	"aki/interpreter-go/pkg/stdlib"

	"github.com/mattn/go-isatty"
)

const cliToolVersion = "aki-cli 0.1.0-dev"

const defaultEntry = "main.aki"

var errManifestNotFound = errors.New("aki.yml not found")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
			return runREPL()
		}
		return runStdin()
	}

	switch args[0] {
	case "--help", "-h":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "repl":
		return runREPL()
	case "run":
		return runEntry(args[1:])
	case "deps":
		return runDeps(args[1:])
	default:
		return runEntry(args)
	}
}

func runEntry(args []string) int {
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return 1
	}

	if len(args) == 1 {
		return executeFile(args[0])
	}

	manifest, err := loadManifestFrom(".")
	if err != nil {
		if errors.Is(err, errManifestNotFound) {
			fmt.Fprintln(os.Stderr, "aki run requires a source file or a project manifest (aki.yml not found)")
		} else {
			fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		}
		return 1
	}
	entry := manifest.Entry
	if entry == "" {
		entry = defaultEntry
	}
	if !filepath.IsAbs(entry) {
		entry = filepath.Join(filepath.Dir(manifest.Path), filepath.FromSlash(entry))
	}
	return executeFile(entry)
}

func executeFile(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", path, err)
		return 1
	}
	interp := interpreter.New(stdlib.New())
	if _, err := executeSource(string(source), interp); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		return 1
	}
	return 0
}

func runStdin() int {
	source, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read stdin: %v\n", err)
		return 1
	}
	interp := interpreter.New(stdlib.New())
	if _, err := executeSource(string(source), interp); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	return 0
}

// executeSource runs one chunk of source through the full pipeline and
// returns the value of its last statement.
func executeSource(source string, interp *interpreter.Interpreter) (runtime.Value, error) {
	tokens, err := lexer.Scan(source)
	if err != nil {
		return nil, err
	}
	nodes, err := parser.New(tokens).Parse()
	if err != nil {
		return nil, err
	}
	return interp.EvaluateProgram(nodes)
}

func runDeps(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "aki deps requires a subcommand (install, update)")
		return 1
	}
	switch args[0] {
	case "install":
		if len(args) > 1 {
			fmt.Fprintf(os.Stderr, "aki deps install does not take arguments (received %s)\n", strings.Join(args[1:], " "))
			return 1
		}
		return runDepsInstall(false, nil)
	case "update":
		return runDepsInstall(true, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown deps subcommand %q\n", args[0])
		return 1
	}
}

func runDepsInstall(update bool, targets []string) int {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to determine working directory: %v\n", err)
		return 1
	}
	manifestPath, err := findManifest(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to locate aki.yml: %v\n", err)
		return 1
	}
	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read manifest: %v\n", err)
		return 1
	}

	fmt.Fprintf(os.Stdout, "Manifest: %s\n", manifest.Path)
	fmt.Fprintf(os.Stdout, "Root package: %s\n", manifest.Name)
	fmt.Fprintf(os.Stdout, "Dependencies: %d\n", len(manifest.Dependencies))

	installer := driver.NewInstaller(manifest)
	installer.Log = func(format string, args ...any) {
		fmt.Fprintf(os.Stdout, format+"\n", args...)
	}

	if update {
		if err := dropLockedEntries(installer.RootDir, manifest, targets); err != nil {
			fmt.Fprintf(os.Stderr, "failed to prepare update: %v\n", err)
			return 1
		}
	}

	changed, err := installer.Install(context.Background(), manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve dependencies: %v\n", err)
		return 1
	}
	if changed {
		fmt.Fprintf(os.Stdout, "Updated %s\n", filepath.Join(installer.RootDir, driver.LockFileName))
	} else {
		fmt.Fprintln(os.Stdout, "Dependencies already up to date.")
	}
	return 0
}

// dropLockedEntries forgets the pinned state of the targeted
// dependencies (or all of them) so the next install re-resolves.
func dropLockedEntries(rootDir string, manifest *driver.Manifest, targets []string) error {
	lockPath := filepath.Join(rootDir, driver.LockFileName)
	lock, err := driver.LoadLockfile(lockPath, manifest.Name)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		lock.Packages = make(map[string]*driver.LockedSpec)
	} else {
		for _, target := range targets {
			if _, ok := manifest.Dependencies[target]; !ok {
				return fmt.Errorf("dependency %q not declared in manifest", target)
			}
			delete(lock.Packages, target)
		}
	}
	return lock.Write(lockPath)
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	absStart, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("resolve manifest search path %q: %w", start, err)
	}
	manifestPath, err := findManifest(absStart)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(manifestPath)
}

func findManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, driver.ManifestFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no aki.yml found from %s upwards: %w", origin, errManifestNotFound)
		}
		dir = parent
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  aki                      start a REPL (or evaluate piped stdin)")
	fmt.Fprintln(os.Stderr, "  aki run [file.aki]       run a source file or the manifest entry")
	fmt.Fprintln(os.Stderr, "  aki <file.aki>")
	fmt.Fprintln(os.Stderr, "  aki repl")
	fmt.Fprintln(os.Stderr, "  aki deps install")
	fmt.Fprintln(os.Stderr, "  aki deps update [dependency ...]")
}
