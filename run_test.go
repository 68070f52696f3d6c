package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderRunReportPassed(t *testing.T) {
	result := checkResult{
		State:              "SUCCESS",
		CorrectAnswer:      true,
		CodeAnswer:         []string{"[0,1]"},
		ExpectedCodeAnswer: []string{"[0,1]"},
	}
	got := renderRunReport("[2,7,11,15]\n9", result)
	for _, want := range []string{"All testcases passed", "Input", "[2,7,11,15]", "Your Output", "Expected Output", "[0,1]"} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}
}

func TestRenderRunReportWrongAnswer(t *testing.T) {
	result := checkResult{
		State:              "SUCCESS",
		CorrectAnswer:      false,
		StatusMsg:          "Wrong Answer",
		CodeAnswer:         []string{"[1,0]"},
		ExpectedCodeAnswer: []string{"[0,1]"},
		StdOutputList:      []string{"debug line"},
	}
	got := renderRunReport("[2,7]\n9", result)
	for _, want := range []string{"Wrong Answer", "[1,0]", "[0,1]", "Stdout", "debug line"} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}
}

func TestRenderRunReportCompileError(t *testing.T) {
	result := checkResult{
		State:            "SUCCESS",
		CompileError:     "SyntaxError",
		FullCompileError: "SyntaxError: invalid syntax on line 3",
	}
	got := renderRunReport("", result)
	if !strings.Contains(got, "Compile Error") {
		t.Errorf("missing banner:\n%s", got)
	}
	if !strings.Contains(got, "invalid syntax on line 3") {
		t.Errorf("should prefer the full compiler message:\n%s", got)
	}
	if strings.Contains(got, "Expected Output") {
		t.Errorf("compile errors should not render answer sections:\n%s", got)
	}
}

func TestRenderRunReportJudgeFailure(t *testing.T) {
	result := checkResult{
		State:    "FAILURE",
		ErrorMsg: "internal judge error",
	}
	got := renderRunReport("[2,7]\n9", result)
	if !strings.Contains(got, "Run Failed") {
		t.Errorf("missing failure banner:\n%s", got)
	}
	if !strings.Contains(got, "internal judge error") {
		t.Errorf("missing judge error detail:\n%s", got)
	}
	for _, section := range []string{"Wrong Answer", "Your Output", "Expected Output"} {
		if strings.Contains(got, section) {
			t.Errorf("judge failures should not render %q:\n%s", section, got)
		}
	}
}

func TestRenderRunReportJudgeFailureWithoutMessage(t *testing.T) {
	got := renderRunReport("", checkResult{State: "FAILURE"})
	if !strings.Contains(got, "FAILURE") {
		t.Errorf("should fall back to the raw state:\n%s", got)
	}
}

func TestRenderSubmitReportAccepted(t *testing.T) {
	pct := 97.5
	result := checkResult{
		State:             "SUCCESS",
		StatusMsg:         "Accepted",
		StatusRuntime:     "52 ms",
		StatusMemory:      "16.4 MB",
		RuntimePercentile: &pct,
	}
	got := renderSubmitReport(&questionDetail{Title: "Two Sum"}, result)
	for _, want := range []string{"Accepted", "Two Sum", "52 ms", "16.4 MB", "97.5%"} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}
}

func TestRenderSubmitReportRejected(t *testing.T) {
	result := checkResult{
		State:          "SUCCESS",
		StatusMsg:      "Wrong Answer",
		TotalCorrect:   54,
		TotalTestcases: 57,
	}
	got := renderSubmitReport(&questionDetail{Title: "Two Sum"}, result)
	if !strings.Contains(got, "Wrong Answer") {
		t.Errorf("missing verdict:\n%s", got)
	}
	if !strings.Contains(got, "Passed 54/57 testcases") {
		t.Errorf("missing testcase tally:\n%s", got)
	}
}

func TestTimeoutReport(t *testing.T) {
	got := timeoutReport("Submission")
	if !strings.Contains(got, "Submission timed out") {
		t.Errorf("report = %q", got)
	}
}

func TestLoadSolution(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"question":{
			"questionId":"1","title":"Two Sum","titleSlug":"two-sum",
			"content":"<p>x</p>","difficulty":"Easy",
			"exampleTestcases":"[2,7]\n9"}}}`))
	}))
	defer server.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "two-sum.py")
	if err := os.WriteFile(path, []byte("class Solution: pass\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := newTestClient(t, server.URL, testCookie)
	slug, lang, code, detail, err := loadSolution(c, path)
	if err != nil {
		t.Fatalf("loadSolution: %v", err)
	}
	if slug != "two-sum" || lang != "python3" {
		t.Errorf("slug/lang = %q/%q", slug, lang)
	}
	if !strings.Contains(code, "class Solution") {
		t.Errorf("code = %q", code)
	}
	if detail.QuestionID != "1" {
		t.Errorf("detail = %+v", detail)
	}
}

func TestLoadSolutionUnknownExtension(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("network call for an unparseable file name")
	}))
	defer server.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "two-sum.xyz")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := newTestClient(t, server.URL, testCookie)
	if _, _, _, _, err := loadSolution(c, path); err == nil {
		t.Error("expected extension error")
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "  ", "x", "y"); got != "x" {
		t.Errorf("firstNonEmpty = %q", got)
	}
	if got := firstNonEmpty("", "  "); got != "" {
		t.Errorf("firstNonEmpty on blanks = %q", got)
	}
}
