package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kr/pretty"

	"flint/interpreter-go/pkg/ast"
	"flint/interpreter-go/pkg/driver"
	"flint/interpreter-go/pkg/interpreter"
	"flint/interpreter-go/pkg/lexer"
	"flint/interpreter-go/pkg/parser"
	"flint/interpreter-go/pkg/runtime"
)

const cliToolVersion = "flint-cli 0.1.0-dev"

// Exit codes follow the BSD sysexits convention: 65 for malformed
// source, 70 for a runtime failure.
const (
	exitUsage      = 1
	exitSourceErr  = 65
	exitRuntimeErr = 70
)

var errManifestNotFound = errors.New("package.yml not found")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return exitUsage
	}

	switch args[0] {
	case "--help", "-h":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(args[1:])
	case "ast":
		return runAstDump(args[1:])
	case "deps":
		return runDeps(args[1:])
	default:
		return runEntry(args)
	}
}

func runEntry(args []string) int {
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "flint run takes at most one target or file (received %s)\n", strings.Join(args, " "))
		return exitUsage
	}

	if len(args) == 1 && looksLikePathCandidate(args[0]) {
		return runFile(args[0])
	}

	manifest, err := loadManifestFrom(".")
	if err != nil {
		if errors.Is(err, errManifestNotFound) && len(args) == 1 {
			// No manifest nearby; treat the argument as a script path.
			return runFile(args[0])
		}
		fmt.Fprintf(os.Stderr, "unable to load manifest: %v\n", err)
		return exitUsage
	}

	var target *driver.TargetSpec
	if len(args) == 0 {
		target, err = manifest.DefaultExecutableTarget()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return exitUsage
		}
	} else {
		var ok bool
		target, ok = manifest.FindTarget(args[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "target %q not defined in %s\n", args[0], manifest.Path)
			return exitUsage
		}
	}

	mainPath, err := resolveTargetMain(manifest, target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return exitUsage
	}
	return runFile(mainPath)
}

func runFile(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", path, err)
		return exitUsage
	}

	program, code := parseSource(string(source))
	if program == nil {
		return code
	}

	interp := interpreter.New()
	if err := interp.Run(program); err != nil {
		var rerr *runtime.Error
		if errors.As(err, &rerr) {
			fmt.Fprintf(os.Stderr, "%v\n", rerr)
			return exitRuntimeErr
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return exitRuntimeErr
	}
	return 0
}

func runAstDump(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "flint ast requires exactly one file argument")
		return exitUsage
	}
	source, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", args[0], err)
		return exitUsage
	}
	program, code := parseSource(string(source))
	if program == nil {
		return code
	}
	pretty.Println(program)
	return 0
}

// parseSource runs the lex and parse stages, reporting source errors to
// stderr. A nil program means failure; the int is the exit code.
func parseSource(source string) ([]ast.Statement, int) {
	tokens, err := lexer.Scan(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return nil, exitSourceErr
	}
	program, err := parser.Parse(tokens)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return nil, exitSourceErr
	}
	return program, 0
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	if start == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		start = cwd
	}
	absStart, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("resolve manifest search path %q: %w", start, err)
	}
	if info, statErr := os.Stat(absStart); statErr == nil && !info.IsDir() {
		absStart = filepath.Dir(absStart)
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
		candidate := filepath.Join(dir, "package.yml")
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no package.yml found from %s upwards: %w", origin, errManifestNotFound)
		}
		dir = parent
	}
}

func resolveTargetMain(manifest *driver.Manifest, target *driver.TargetSpec) (string, error) {
	if manifest == nil || target == nil {
		return "", fmt.Errorf("missing manifest or target")
	}
	mainPath := strings.TrimSpace(target.Main)
	if mainPath == "" {
		return "", fmt.Errorf("target %q missing main entrypoint", target.OriginalName)
	}
	if filepath.IsAbs(mainPath) {
		return filepath.Clean(mainPath), nil
	}
	base := filepath.Dir(manifest.Path)
	if base == "" {
		return filepath.Clean(filepath.FromSlash(mainPath)), nil
	}
	return filepath.Join(base, filepath.FromSlash(mainPath)), nil
}

func looksLikePathCandidate(arg string) bool {
	if arg == "" {
		return false
	}
	if strings.Contains(arg, string(os.PathSeparator)) {
		return true
	}
	// Support forward/backward slashes regardless of host OS.
	if strings.Contains(arg, "/") || strings.Contains(arg, "\\") {
		return true
	}
	if filepath.Ext(arg) == ".fl" {
		return true
	}
	if strings.HasPrefix(arg, ".") {
		return true
	}
	return false
}

func resolveFlintHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv("FLINT_HOME")); home != "" {
		abs, err := filepath.Abs(home)
		if err != nil {
			return "", fmt.Errorf("resolve FLINT_HOME %q: %w", home, err)
		}
		return abs, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(userHome, ".flint"), nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  flint run [target]")
	fmt.Fprintln(os.Stderr, "  flint run <file.fl>")
	fmt.Fprintln(os.Stderr, "  flint <file.fl>")
	fmt.Fprintln(os.Stderr, "  flint ast <file.fl>")
	fmt.Fprintln(os.Stderr, "  flint deps install")
	fmt.Fprintln(os.Stderr, "  flint deps update [dependency ...]")
}
