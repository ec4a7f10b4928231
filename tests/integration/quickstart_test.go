//go:build integration

// Package integration provides end-to-end tests that exercise the fargift
// binary the way a user would, from config init through the offline
// command surface.
//
// Run with: go test -tags=integration ./tests/integration/...
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// testHome is a temporary home directory shared by the workflow steps.
//
//nolint:gochecknoglobals // TestMain requires globals for shared test state
var testHome string

// fargiftBinary is the path to the binary built by TestMain.
//
//nolint:gochecknoglobals // TestMain requires globals for shared test state
var fargiftBinary string

func TestMain(m *testing.M) {
	cwd, _ := os.Getwd()
	projectRoot := filepath.Join(cwd, "..", "..")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	//nolint:gosec // G204: binary path is controlled by the test environment
	buildCmd := exec.CommandContext(ctx, "go", "build", "-o", filepath.Join(cwd, "fargift-test"), "./cmd/fargift")
	buildCmd.Dir = projectRoot
	output, err := buildCmd.CombinedOutput()
	if err != nil {
		panic("failed to build fargift binary: " + err.Error() + "\nOutput: " + string(output))
	}

	fargiftBinary = filepath.Join(cwd, "fargift-test")

	testHome, err = os.MkdirTemp("", "fargift-integration-*")
	if err != nil {
		panic("failed to create temp dir: " + err.Error())
	}

	code := m.Run()

	_ = os.RemoveAll(testHome)
	_ = os.Remove(fargiftBinary)

	os.Exit(code)
}

// runFargift executes the fargift CLI with the given arguments.
func runFargift(t *testing.T, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()

	fullArgs := append([]string{"--home", testHome}, args...)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	//nolint:gosec // G204: binary path is controlled by the test environment
	cmd := exec.CommandContext(ctx, fargiftBinary, fullArgs...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	stdout = outBuf.String()
	stderr = errBuf.String()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	} else if err != nil {
		exitCode = -1
	}

	return stdout, stderr, exitCode
}

// TestQuickstartWorkflow walks the offline portion of the user workflow.
// Commands that need a live wallet provider are covered by package tests
// against fakes; here we verify the binary wiring end to end.
func TestQuickstartWorkflow(t *testing.T) {
	t.Run("config init", func(t *testing.T) {
		stdout, _, exitCode := runFargift(t, "config", "init")
		if exitCode != 0 {
			t.Fatalf("config init failed with exit code %d: %s", exitCode, stdout)
		}

		configPath := filepath.Join(testHome, "config.yaml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			t.Error("config.yaml was not created")
		}
	})

	// In non-TTY (piped stdout), auto-format outputs JSON.
	t.Run("config show", func(t *testing.T) {
		stdout, _, exitCode := runFargift(t, "config", "show")
		if exitCode != 0 {
			t.Fatalf("config show failed with exit code %d", exitCode)
		}
		if !strings.Contains(stdout, `"network"`) {
			t.Errorf("expected config output with network section, got: %s", stdout)
		}
	})

	t.Run("config get and set", func(t *testing.T) {
		stdout, _, exitCode := runFargift(t, "config", "set", "output.verbose", "true")
		if exitCode != 0 {
			t.Fatalf("config set failed with exit code %d: %s", exitCode, stdout)
		}

		stdout, _, exitCode = runFargift(t, "config", "get", "output.verbose")
		if exitCode != 0 {
			t.Fatalf("config get failed with exit code %d", exitCode)
		}
		if !strings.Contains(stdout, "true") {
			t.Errorf("expected 'true' in output, got: %s", stdout)
		}
	})

	t.Run("config set unknown key suggests nearest", func(t *testing.T) {
		_, stderr, exitCode := runFargift(t, "config", "set", "network.rcp", "http://localhost:8545")
		if exitCode != 2 {
			t.Errorf("expected exit code 2 for unknown key, got %d", exitCode)
		}
		if !strings.Contains(stderr, "network.rpc") {
			t.Errorf("expected suggestion mentioning network.rpc, got: %s", stderr)
		}
	})

	t.Run("version", func(t *testing.T) {
		stdout, stderr, exitCode := runFargift(t, "version")
		combined := stdout + stderr
		if exitCode != 0 {
			t.Fatalf("version failed with exit code %d, stdout: %s, stderr: %s", exitCode, stdout, stderr)
		}
		if !strings.Contains(combined, "version") {
			t.Errorf("expected version in output, got stdout: %s, stderr: %s", stdout, stderr)
		}
	})

	t.Run("version json", func(t *testing.T) {
		stdout, stderr, exitCode := runFargift(t, "version", "-o", "json")
		combined := stdout + stderr
		if exitCode != 0 {
			t.Fatalf("version -o json failed with exit code %d, stdout: %s, stderr: %s", exitCode, stdout, stderr)
		}

		var v map[string]interface{}
		if err := json.Unmarshal([]byte(strings.TrimSpace(combined)), &v); err != nil {
			t.Errorf("version output is not valid JSON: %s", combined)
		} else if _, ok := v["version"]; !ok {
			t.Errorf("JSON output missing 'version' field: %s", combined)
		}
	})

	t.Run("help commands", func(t *testing.T) {
		commands := []string{
			"--help",
			"connect --help",
			"balance --help",
			"gift --help",
			"gift create --help",
			"gift list --help",
			"gift unwrap --help",
			"session --help",
			"config --help",
		}
		for _, c := range commands {
			args := strings.Fields(c)
			stdout, stderr, exitCode := runFargift(t, args...)
			if exitCode != 0 {
				t.Errorf("%q failed with exit code %d, stderr: %s", c, exitCode, stderr)
			}
			if !strings.Contains(stdout+stderr, "Usage:") {
				t.Errorf("%q produced no usage text", c)
			}
		}
	})

	t.Run("unknown command", func(t *testing.T) {
		_, _, exitCode := runFargift(t, "definitely-not-a-command")
		if exitCode == 0 {
			t.Error("expected non-zero exit code for unknown command")
		}
	})
}
