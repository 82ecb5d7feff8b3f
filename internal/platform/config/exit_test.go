package config_test

import (
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/louisbranch/minefield/internal/platform/config"
)

// TestExitfExitsWithCode1 runs Exitf in a subprocess because os.Exit cannot
// be intercepted in-process.
func TestExitfExitsWithCode1(t *testing.T) {
	if os.Getenv("MINEFIELD_TEST_EXITF_SUBPROCESS") == "1" {
		config.Exitf("fatal: %s", "board exploded")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestExitfExitsWithCode1$")
	cmd.Env = append(os.Environ(), "MINEFIELD_TEST_EXITF_SUBPROCESS=1")

	out, err := cmd.CombinedOutput()

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected *exec.ExitError, got %T: %v", err, err)
	}
	if exitErr.ExitCode() != 1 {
		t.Fatalf("expected exit code 1, got %d", exitErr.ExitCode())
	}
	if !strings.Contains(string(out), "fatal: board exploded") {
		t.Fatalf("expected stderr to contain %q, got %q", "fatal: board exploded", string(out))
	}
}
