//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	modulePath = "github.com/dkoosis/covreport"
	binPath    = "bin/covreport"
)

// Default target - build the binary
var Default = Build

// Build builds the covreport binary with version information.
func Build() error {
	date := time.Now().UTC().Format(time.RFC3339)
	ldflags := fmt.Sprintf("-s -w -X '%[1]s/internal/version.Version=%[2]s' -X '%[1]s/internal/version.CommitHash=%[3]s' -X '%[1]s/internal/version.BuildDate=%[4]s'",
		modulePath, gitVersion(), gitCommit(), date)
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", binPath, "./cmd/covreport"); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	fmt.Println("Built:", binPath)
	return nil
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll("bin")
}

// Test runs the test suite with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Cover writes coverage.out and prints per-function coverage.
func Cover() error {
	if err := sh.RunV("go", "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func=coverage.out")
}

// QA runs formatting, vet, lint and tests.
func QA() {
	mg.SerialDeps(Lint.Format, Lint.Vet, Lint.Golangci, Test, Build)
}

// Lint namespace for linting commands
type Lint mg.Namespace

// All runs all linters
func (Lint) All() {
	mg.SerialDeps(Lint.Format, Lint.Vet, Lint.Golangci)
}

// Format fails when any file needs gofmt.
func (Lint) Format() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return err
	}
	if out != "" {
		return fmt.Errorf("files need gofmt:\n%s", out)
	}
	return nil
}

// Vet runs go vet
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Golangci runs golangci-lint when it is installed.
func (Lint) Golangci() error {
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		fmt.Fprintln(os.Stderr, "golangci-lint not found (install: go install github.com/golangci/golangci-lint/cmd/golangci-lint@latest)")
		return nil
	}
	return sh.RunV("golangci-lint", "run", "--timeout=5m", "./...")
}

func gitVersion() string {
	out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty", "--match=v*")
	if err != nil {
		return "dev"
	}
	return strings.TrimSpace(out)
}

func gitCommit() string {
	out, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(out)
}
