//go:build mage

// Package main contains Mage build targets for research-agent developer tooling.
package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the client expects.
var projectDirs = []string{
	"downloads",
	binDir,
}

// Init creates the project directory structure.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "research-agent"
	cmdPkg  = "./cmd/research-agent"
)

// Build compiles the CLI binary into bin/. The sqlite driver needs cgo.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	env := map[string]string{"CGO_ENABLED": "1"}
	if err := sh.RunWithV(env, "go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Lint runs go vet over the module.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// MockServer builds the CLI and serves canned results on localhost:8000.
func MockServer() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "mock-server", "--delay", "2s")
}

// Research builds the CLI and researches topic against the configured service.
func Research(topic string) error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "research", topic)
}

// Stats prints non-blank Go lines per package, split into production and
// test code, and the word count of the markdown files at the repository root.
func Stats() error {
	pkgs, err := goLinesByPackage(".")
	if err != nil {
		return err
	}
	names := make([]string, 0, len(pkgs))
	for name := range pkgs {
		names = append(names, name)
	}
	sort.Strings(names)

	var prod, test int
	fmt.Printf("%-28s %8s %8s\n", "Package", "Prod", "Test")
	for _, name := range names {
		c := pkgs[name]
		fmt.Printf("%-28s %8d %8d\n", name, c.prod, c.test)
		prod += c.prod
		test += c.test
	}
	fmt.Printf("%-28s %8d %8d\n", "total", prod, test)

	docs, err := filepath.Glob("*.md")
	if err != nil {
		return err
	}
	words := 0
	for _, path := range docs {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		words += len(strings.Fields(string(data)))
	}
	fmt.Printf("Words (%d markdown files): %d\n", len(docs), words)
	return nil
}

type lineCount struct{ prod, test int }

// goLinesByPackage counts non-blank lines of Go files keyed by package
// directory, skipping hidden and underscore-prefixed directories.
func goLinesByPackage(root string) (map[string]lineCount, error) {
	out := map[string]lineCount{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		for _, line := range bytes.Split(data, []byte("\n")) {
			if len(bytes.TrimSpace(line)) > 0 {
				n++
			}
		}
		dir := filepath.ToSlash(filepath.Dir(path))
		c := out[dir]
		if strings.HasSuffix(path, "_test.go") {
			c.test += n
		} else {
			c.prod += n
		}
		out[dir] = c
		return nil
	})
	return out, err
}
