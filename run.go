package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

type judgeProgressMsg struct {
	line string
}

type runFinishedMsg struct {
	slug        string
	report      string
	passed      bool
	authExpired bool
	err         error
}

type submitFinishedMsg struct {
	slug        string
	report      string
	accepted    bool
	authExpired bool
	commitNote  string
	err         error
}

// startRun interprets the current solution file against the problem's example
// testcases, or against customInput when given.
func (m *model) startRun(customInput string) tea.Cmd {
	path := m.solutionPath
	if path == "" {
		m.setToast("No solution file yet; open a problem first", 4*time.Second)
		return nil
	}
	if m.busy {
		m.setToast("A judge request is already in flight", 3*time.Second)
		return nil
	}
	m.busy = true
	m.showSpinner("Running tests")

	client := m.client
	log := m.log.With().Str("flow", shortFlowID()).Logger()
	return tea.Batch(
		func() tea.Msg { return judgeProgressMsg{line: "[INFO] Running tests for " + path} },
		func() tea.Msg {
			slug, lang, code, detail, err := loadSolution(client, path)
			if err != nil {
				return runFinishedMsg{err: err, authExpired: isAuthFailure(err)}
			}
			input := customInput
			if strings.TrimSpace(input) == "" {
				input = detail.ExampleTestcases
			}
			log.Info().Str("slug", slug).Str("lang", lang).Msg("interpret solution")
			jobID, err := client.RunCode(slug, detail.QuestionID, lang, code, input)
			if err != nil {
				return runFinishedMsg{slug: slug, err: err, authExpired: isAuthFailure(err)}
			}
			result, done, err := pollUntil(func() (checkResult, error) {
				return client.CheckStatus(jobID)
			}, judgeTerminal, pollInterval, pollMaxAttempts, time.Sleep)
			if err != nil {
				return runFinishedMsg{slug: slug, err: err, authExpired: isAuthFailure(err)}
			}
			if !done {
				log.Warn().Str("slug", slug).Msg("test run timed out")
				return runFinishedMsg{slug: slug, report: timeoutReport("Test run")}
			}
			log.Info().Str("slug", slug).Str("state", result.State).Bool("passed", result.CorrectAnswer).Msg("test run finished")
			return runFinishedMsg{slug: slug, report: renderRunReport(input, result), passed: result.CorrectAnswer}
		},
	)
}

func (m *model) startSubmit() tea.Cmd {
	path := m.solutionPath
	if path == "" {
		m.setToast("No solution file yet; open a problem first", 4*time.Second)
		return nil
	}
	if m.busy {
		m.setToast("A judge request is already in flight", 3*time.Second)
		return nil
	}
	m.busy = true
	m.showSpinner("Submitting")

	client := m.client
	workspace := m.workspace
	log := m.log.With().Str("flow", shortFlowID()).Logger()
	return tea.Batch(
		func() tea.Msg { return judgeProgressMsg{line: "[INFO] Submitting " + path} },
		func() tea.Msg {
			slug, lang, code, detail, err := loadSolution(client, path)
			if err != nil {
				return submitFinishedMsg{err: err, authExpired: isAuthFailure(err)}
			}
			log.Info().Str("slug", slug).Str("lang", lang).Msg("submit solution")
			jobID, err := client.Submit(slug, detail.QuestionID, lang, code)
			if err != nil {
				return submitFinishedMsg{slug: slug, err: err, authExpired: isAuthFailure(err)}
			}
			result, done, err := pollUntil(func() (checkResult, error) {
				return client.CheckStatus(jobID)
			}, judgeTerminal, pollInterval, pollMaxAttempts, time.Sleep)
			if err != nil {
				return submitFinishedMsg{slug: slug, err: err, authExpired: isAuthFailure(err)}
			}
			if !done {
				log.Warn().Str("slug", slug).Msg("submission timed out")
				return submitFinishedMsg{slug: slug, report: timeoutReport("Submission")}
			}

			accepted := result.StatusMsg == "Accepted"
			msg := submitFinishedMsg{
				slug:     slug,
				report:   renderSubmitReport(detail, result),
				accepted: accepted,
			}
			log.Info().Str("slug", slug).Str("status", result.StatusMsg).Msg("submission finished")

			questionID, _ := strconv.Atoi(detail.QuestionID)
			if histErr := appendHistory(workspace, historyEntry{
				ID:        questionID,
				Title:     detail.Title,
				TitleSlug: slug,
				Lang:      lang,
				Status:    historyStatusCode(result.StatusMsg),
				Timestamp: time.Now().Format(time.RFC3339),
			}); histErr != nil {
				log.Warn().Err(histErr).Msg("history append failed")
			}

			if accepted {
				if commitErr := autoCommitSolution(workspace, path, detail.QuestionID, detail.Title, lang); commitErr != nil {
					log.Warn().Err(commitErr).Msg("auto-commit failed")
					msg.commitNote = "auto-commit skipped: " + commitErr.Error()
				} else {
					msg.commitNote = "committed to git"
				}
			}
			return msg
		},
	)
}

// loadSolution resolves everything a judge request needs from the solution
// file name and the remote problem record.
func loadSolution(client *leetClient, path string) (slug, lang, code string, detail *questionDetail, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", "", "", nil, fmt.Errorf("read solution: %w", err)
	}
	base := path
	if idx := strings.LastIndexAny(path, "/\\"); idx >= 0 {
		base = path[idx+1:]
	}
	slug, lang, err = parseFileInfo(base)
	if err != nil {
		return "", "", "", nil, err
	}
	detail, err = client.GetProblemDetail(slug)
	if err != nil {
		return "", "", "", nil, err
	}
	return slug, lang, string(raw), detail, nil
}

func (m *model) handleRunFinished(msg runFinishedMsg) {
	m.busy = false
	m.hideSpinner()
	if msg.err != nil {
		m.reportJudgeError("Test run", msg.err, msg.authExpired)
		return
	}
	m.previewCol.SetTitle("Test result")
	m.previewCol.SetContent(msg.report)
	m.focus = int(focusPreview)
	if msg.passed {
		m.appendLog("[INFO] Tests passed for " + msg.slug)
	} else {
		m.appendLog("[WARN] Tests failed for " + msg.slug)
	}
}

func (m *model) handleSubmitFinished(msg submitFinishedMsg) {
	m.busy = false
	m.hideSpinner()
	if msg.err != nil {
		m.reportJudgeError("Submission", msg.err, msg.authExpired)
		return
	}
	m.previewCol.SetTitle("Submission result")
	m.previewCol.SetContent(msg.report)
	m.focus = int(focusPreview)
	if msg.accepted {
		m.appendLog("[INFO] Accepted: " + msg.slug)
		if msg.commitNote != "" {
			m.appendLog("[INFO] " + msg.commitNote)
		}
	} else {
		m.appendLog("[WARN] Submission not accepted: " + msg.slug)
	}
}

func (m *model) reportJudgeError(kind string, err error, authExpired bool) {
	if authExpired {
		m.setToast("Session expired — press i to sign in again", 6*time.Second)
		m.appendLog("[WARN] " + kind + " failed: " + err.Error())
		return
	}
	m.setToast(kind+" failed: "+err.Error(), 6*time.Second)
	m.appendLog("[ERROR] " + kind + " failed: " + err.Error())
	m.log.Error().Err(err).Msg(strings.ToLower(kind) + " failed")
}

func renderRunReport(input string, result checkResult) string {
	s := newStyles()
	var b strings.Builder

	if result.FullCompileError != "" || result.CompileError != "" {
		b.WriteString(banner(s, false, "Compile Error"))
		b.WriteString("\n\n")
		b.WriteString(codeBlock(firstNonEmpty(result.FullCompileError, result.CompileError)))
		return b.String()
	}
	if result.FullRuntimeError != "" || result.RuntimeError != "" {
		b.WriteString(banner(s, false, "Runtime Error"))
		b.WriteString("\n\n")
		b.WriteString(codeBlock(firstNonEmpty(result.FullRuntimeError, result.RuntimeError)))
		return b.String()
	}
	if result.State != judgeStateSuccess {
		// FAILURE and friends carry no answer sections, only the judge's
		// own error detail.
		b.WriteString(banner(s, false, "✘ Run Failed"))
		b.WriteString("\n\n")
		b.WriteString(codeBlock(firstNonEmpty(result.ErrorMsg, result.State)))
		return b.String()
	}

	if result.CorrectAnswer {
		b.WriteString(banner(s, true, "✔ All testcases passed"))
	} else {
		label := result.StatusMsg
		if label == "" {
			label = "Wrong Answer"
		}
		b.WriteString(banner(s, false, "✘ "+label))
	}
	b.WriteString("\n\n")

	b.WriteString("Input\n")
	b.WriteString(codeBlock(input))
	b.WriteString("\nYour Output\n")
	b.WriteString(codeBlock(strings.Join(result.CodeAnswer, "\n")))
	b.WriteString("\nExpected Output\n")
	b.WriteString(codeBlock(strings.Join(result.ExpectedCodeAnswer, "\n")))
	if stdout := strings.TrimSpace(strings.Join(result.StdOutputList, "\n")); stdout != "" {
		b.WriteString("\nStdout\n")
		b.WriteString(codeBlock(stdout))
	}
	return b.String()
}

func renderSubmitReport(detail *questionDetail, result checkResult) string {
	s := newStyles()
	var b strings.Builder

	if result.FullCompileError != "" || result.CompileError != "" {
		b.WriteString(banner(s, false, "Compile Error"))
		b.WriteString("\n\n")
		b.WriteString(codeBlock(firstNonEmpty(result.FullCompileError, result.CompileError)))
		return b.String()
	}

	if result.StatusMsg == "Accepted" {
		b.WriteString(banner(s, true, fmt.Sprintf("✔ Accepted — %s", detail.Title)))
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "Runtime: %s\n", firstNonEmpty(result.StatusRuntime, "n/a"))
		fmt.Fprintf(&b, "Memory:  %s\n", firstNonEmpty(result.StatusMemory, "n/a"))
		if result.RuntimePercentile != nil {
			fmt.Fprintf(&b, "Faster than %.1f%% of submissions\n", *result.RuntimePercentile)
		}
		return b.String()
	}

	label := result.StatusMsg
	if label == "" {
		label = "Rejected"
	}
	b.WriteString(banner(s, false, "✘ "+label))
	b.WriteString("\n\n")
	if result.TotalTestcases > 0 {
		fmt.Fprintf(&b, "Passed %d/%d testcases\n", result.TotalCorrect, result.TotalTestcases)
	}
	if result.FullRuntimeError != "" || result.RuntimeError != "" {
		b.WriteString("\n")
		b.WriteString(codeBlock(firstNonEmpty(result.FullRuntimeError, result.RuntimeError)))
	}
	if result.ErrorMsg != "" {
		b.WriteString("\n" + result.ErrorMsg + "\n")
	}
	return b.String()
}

func timeoutReport(kind string) string {
	s := newStyles()
	return banner(s, false, "✘ "+kind+" timed out") +
		"\n\nThe judge did not return a result within the polling window.\nTry again in a moment."
}

func banner(s styles, passed bool, text string) string {
	color := palette.failBanner
	if passed {
		color = palette.passBanner
	}
	return s.cmdPrompt.Copy().Foreground(color).Render(text)
}

func codeBlock(content string) string {
	trimmed := strings.TrimRight(content, "\n")
	if trimmed == "" {
		trimmed = "(empty)"
	}
	var b strings.Builder
	for _, line := range strings.Split(trimmed, "\n") {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func shortFlowID() string {
	id := uuid.NewString()
	return id[:8]
}
