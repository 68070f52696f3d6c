package main

import (
	"fmt"
	"os/exec"
	"strings"
)

func gitCLIAvailable() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

func isGitRepository(dir string) bool {
	if !gitCLIAvailable() {
		return false
	}
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) == "true"
}

func commitMessage(questionID, title, lang string) string {
	return fmt.Sprintf("solve: %s. %s (%s)", questionID, title, lang)
}

// autoCommitSolution stages the solved file and commits it. Best effort:
// every failure (including "nothing to commit") is returned for logging
// only and must never surface to the user.
func autoCommitSolution(workspace, file, questionID, title, lang string) error {
	if !isGitRepository(workspace) {
		return fmt.Errorf("workspace is not a git repository")
	}

	add := exec.Command("git", "add", "--", file)
	add.Dir = workspace
	if out, err := add.CombinedOutput(); err != nil {
		return fmt.Errorf("git add failed: %s", strings.TrimSpace(string(out)))
	}

	commit := exec.Command("git", "commit", "-m", commitMessage(questionID, title, lang))
	commit.Dir = workspace
	if out, err := commit.CombinedOutput(); err != nil {
		return fmt.Errorf("git commit failed: %s", strings.TrimSpace(string(out)))
	}
	return nil
}
