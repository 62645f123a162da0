package main

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func buildTestBinary(t *testing.T) string {
	binName := "mscli_it_bin"
	if runtime.GOOS == "windows" {
		binName += ".exe"
	}
	bin := filepath.Join(t.TempDir(), binName)
	cmd := exec.Command("go", "build", "-o", bin, ".")
	cmd.Env = os.Environ()
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build binary: %v\n%s", err, string(out))
	}
	return bin
}

// isolatedEnv points the binary at a throwaway home and the in-memory store.
func isolatedEnv(t *testing.T) []string {
	return append(os.Environ(),
		"HOME="+t.TempDir(),
		"MSCLI_STORE=memory",
		"MSCLI_GATEWAY_URL=http://127.0.0.1:1",
	)
}

func TestVersionCommand(t *testing.T) {
	bin := buildTestBinary(t)
	out, err := exec.Command(bin, "version").CombinedOutput()
	if err != nil {
		t.Fatalf("version failed: %v\n%s", err, out)
	}
	if !strings.Contains(string(out), "mscli version:") {
		t.Fatalf("unexpected output: %s", out)
	}
}

// TestSignedOutExitCode checks that protected commands exit with the auth
// status without contacting the gateway.
func TestSignedOutExitCode(t *testing.T) {
	bin := buildTestBinary(t)
	cmd := exec.Command(bin, "customers", "list")
	cmd.Env = isolatedEnv(t)
	out, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected an exit error, got %v", err)
	}
	if exitErr.ExitCode() != 3 {
		t.Fatalf("expected exit code 3, got %d\n%s", exitErr.ExitCode(), out)
	}
	if !strings.Contains(string(out), "mscli login") {
		t.Fatalf("expected a login hint, got: %s", out)
	}
}

// TestGracefulInterrupt sends SIGINT while login waits for a password.
func TestGracefulInterrupt(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("SIGINT cannot be delivered to a child process on Windows")
	}
	bin := buildTestBinary(t)
	cmd := exec.Command(bin, "login", "--email", "a@b.com")
	cmd.Env = isolatedEnv(t)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		t.Fatalf("failed to open stdin: %v", err)
	}
	defer stdin.Close()
	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start binary: %v", err)
	}
	time.Sleep(200 * time.Millisecond)
	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		t.Fatalf("failed to send interrupt: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
			t.Fatalf("expected exit code 1 after SIGINT, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("process did not exit within 3s after SIGINT")
	}
}
