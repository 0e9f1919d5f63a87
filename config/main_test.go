package config

import (
	"fmt"
	"os"
	"testing"
)

// TestMain gates the config package tests on GO_ENV=test. Config tests touch
// real environment variables, so they must never run against a shell that is
// pointed at a live database.
func TestMain(m *testing.M) {
	if env := os.Getenv("GO_ENV"); env != "test" {
		fmt.Fprintf(os.Stderr, "SAFETY CHECK FAILED: config tests must run with GO_ENV=test (current: %q). Run: GO_ENV=test go test ./...\n", env)
		os.Exit(1)
	}

	os.Exit(m.Run())
}
