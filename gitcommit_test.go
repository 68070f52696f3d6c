package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestCommitMessage(t *testing.T) {
	got := commitMessage("1", "Two Sum", "python3")
	if got != "solve: 1. Two Sum (python3)" {
		t.Errorf("commitMessage = %q", got)
	}
}

func TestAutoCommitOutsideRepo(t *testing.T) {
	workspace := t.TempDir()
	file := filepath.Join(workspace, "two-sum.py")
	if err := os.WriteFile(file, []byte("pass\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := autoCommitSolution(workspace, file, "1", "Two Sum", "python3"); err == nil {
		t.Error("expected error for non-repository workspace")
	}
}

func TestAutoCommitSolution(t *testing.T) {
	if !gitCLIAvailable() {
		t.Skip("git not installed")
	}
	workspace := t.TempDir()
	runGit(t, workspace, "init")
	runGit(t, workspace, "config", "user.email", "test@example.com")
	runGit(t, workspace, "config", "user.name", "test")

	file := filepath.Join(workspace, "two-sum.py")
	if err := os.WriteFile(file, []byte("pass\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := autoCommitSolution(workspace, file, "1", "Two Sum", "python3"); err != nil {
		t.Fatalf("autoCommitSolution: %v", err)
	}

	out, err := exec.Command("git", "-C", workspace, "log", "--format=%s", "-1").Output()
	if err != nil {
		t.Fatalf("git log: %v", err)
	}
	if got := strings.TrimSpace(string(out)); got != "solve: 1. Two Sum (python3)" {
		t.Errorf("commit subject = %q", got)
	}
}

func TestAutoCommitNothingToCommit(t *testing.T) {
	if !gitCLIAvailable() {
		t.Skip("git not installed")
	}
	workspace := t.TempDir()
	runGit(t, workspace, "init")
	runGit(t, workspace, "config", "user.email", "test@example.com")
	runGit(t, workspace, "config", "user.name", "test")

	file := filepath.Join(workspace, "two-sum.py")
	if err := os.WriteFile(file, []byte("pass\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := autoCommitSolution(workspace, file, "1", "Two Sum", "python3"); err != nil {
		t.Fatalf("first commit: %v", err)
	}
	// unchanged file: the commit fails, but only as a loggable error
	if err := autoCommitSolution(workspace, file, "1", "Two Sum", "python3"); err == nil {
		t.Error("expected nothing-to-commit error")
	}
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
}
