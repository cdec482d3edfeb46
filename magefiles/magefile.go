//go:build mage

// Package main contains Mage build targets for paper-tabulator developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the pipeline expects.
var projectDirs = []string{
	"papers",
	"output/tei",
	"output/metadata",
	"output/index",
}

// Init creates the project directory structure for the pipeline.
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
	binName = "paper-tabulator"
	cmdPkg  = "./cmd/paper-tabulator"
)

// Build compiles the CLI binary into bin/. The fts5 tag enables the
// SQLite full-text index used by the query subcommand.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-tags", "fts5", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the full test suite.
func Test() error {
	return sh.RunV("go", "test", "-tags", "fts5", "./...")
}

// Lint runs go vet over the module.
func Lint() error {
	return sh.RunV("go", "vet", "-tags", "fts5", "./...")
}

const grobidImage = "lfoppiano/grobid:0.8.0"

// Grobid starts a local GROBID container on port 8070 for the process
// stage to talk to.
func Grobid() error {
	fmt.Printf("Starting %s on :8070 (Ctrl-C to stop)\n", grobidImage)
	return sh.RunV("docker", "run", "--rm", "--init", "-p", "8070:8070", grobidImage)
}
