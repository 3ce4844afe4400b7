package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"aki/interpreter-go/pkg/driver"
	"aki/interpreter-go/pkg/interpreter"
	"aki/interpreter-go/pkg/runtime"
	"aki/interpreter-go/pkg/stdlib"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestExecuteSource(t *testing.T) {
	var out bytes.Buffer
	interp := interpreter.New(stdlib.NewWithOutput(&out))

	val, err := executeSource("func main() { println(to_string(6 * 7)) }", interp)
	if err != nil {
		t.Fatalf("executeSource: %v", err)
	}
	if got := out.String(); got != "42\n" {
		t.Fatalf("output = %q, want %q", got, "42\n")
	}
	if val == nil {
		t.Fatalf("expected a value")
	}
}

func TestExecuteSourceReportsSyntaxError(t *testing.T) {
	interp := interpreter.New(stdlib.New())
	if _, err := executeSource("let x = ;", interp); err == nil {
		t.Fatalf("expected syntax error")
	}
}

func TestExecuteSourceReportsRuntimeError(t *testing.T) {
	interp := interpreter.New(stdlib.New())
	_, err := executeSource("1 / 0", interp)
	if code, ok := runtime.CodeOf(err); !ok || code != runtime.ErrDivisionByZero {
		t.Fatalf("expected DivisionByZero, got %v", err)
	}
}

func TestExecuteSourceSessionStatePersists(t *testing.T) {
	interp := interpreter.New(stdlib.New())
	interp.SetAutoRunMain(false)

	if _, err := executeSource("let x = 40;", interp); err != nil {
		t.Fatalf("first chunk: %v", err)
	}
	val, err := executeSource("x + 2", interp)
	if err != nil {
		t.Fatalf("second chunk: %v", err)
	}
	if iv, ok := val.(runtime.IntegerValue); !ok || iv.Val != 42 {
		t.Fatalf("expected 42, got %#v", val)
	}
}

func TestExecuteFile(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "calc.aki")
	writeFile(t, script, "let x = 2 + 3;\n")
	if code := executeFile(script); code != 0 {
		t.Fatalf("executeFile = %d, want 0", code)
	}
}

func TestExecuteFileMissing(t *testing.T) {
	if code := executeFile(filepath.Join(t.TempDir(), "nope.aki")); code != 1 {
		t.Fatalf("expected exit code 1 for missing file")
	}
}

func TestFindManifest(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	writeFile(t, filepath.Join(root, driver.ManifestFileName), "name: demo\n")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found, err := findManifest(nested)
	if err != nil {
		t.Fatalf("findManifest: %v", err)
	}
	want := filepath.Join(root, driver.ManifestFileName)
	if found != want {
		t.Fatalf("findManifest = %q, want %q", found, want)
	}
}

func TestFindManifestMissing(t *testing.T) {
	_, err := findManifest(t.TempDir())
	if err == nil {
		t.Fatalf("expected error when no manifest exists")
	}
}

func TestRunVersion(t *testing.T) {
	if code := run([]string{"--version"}); code != 0 {
		t.Fatalf("run --version = %d, want 0", code)
	}
	if code := run([]string{"version"}); code != 0 {
		t.Fatalf("run version = %d, want 0", code)
	}
}

func TestRunHelp(t *testing.T) {
	if code := run([]string{"--help"}); code != 0 {
		t.Fatalf("run --help = %d, want 0", code)
	}
}

func TestRunScriptShortcut(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "main.aki")
	writeFile(t, script, "func main() { let x = 1; }\n")
	if code := run([]string{script}); code != 0 {
		t.Fatalf("run script = %d, want 0", code)
	}
}

func TestDropLockedEntriesUnknownDependency(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, driver.ManifestFileName), "name: demo\n")
	manifest, err := driver.LoadManifest(filepath.Join(dir, driver.ManifestFileName))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if err := dropLockedEntries(dir, manifest, []string{"ghost"}); err == nil {
		t.Fatalf("expected error for undeclared dependency")
	}
}
