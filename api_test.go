package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const testCookie = "csrftoken=abc123; LEETCODE_SESSION=xyz"

func newTestStore(t *testing.T) *credentialStore {
	t.Helper()
	store, err := openCredentialStoreAt(t.TempDir())
	if err != nil {
		t.Fatalf("open credential store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestClient(t *testing.T, baseURL, cookie string) *leetClient {
	t.Helper()
	store := newTestStore(t)
	if cookie != "" {
		if err := store.SetCookie(cookie); err != nil {
			t.Fatalf("set cookie: %v", err)
		}
	}
	c := newLeetClient(baseURL, store, nopLogger())
	c.sleep = func(time.Duration) {}
	return c
}

func TestCSRFTokenHeaderFromCookie(t *testing.T) {
	var gotCSRF, gotCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCSRF = r.Header.Get("x-csrftoken")
		gotCookie = r.Header.Get("Cookie")
		w.Write([]byte(`{"data":{"problemsetQuestionList":{"data":[]}}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, testCookie)
	if _, err := c.GetProblems(10, 0, ""); err != nil {
		t.Fatalf("GetProblems: %v", err)
	}
	if gotCSRF != "abc123" {
		t.Errorf("x-csrftoken = %q, want %q", gotCSRF, "abc123")
	}
	if gotCookie != testCookie {
		t.Errorf("Cookie header = %q, want %q", gotCookie, testCookie)
	}
}

func TestRequestsObserveExternalCookieChange(t *testing.T) {
	var gotCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		w.Write([]byte(`{"data":{"problemsetQuestionList":{"data":[]}}}`))
	}))
	defer server.Close()

	dir := t.TempDir()
	store, err := openCredentialStoreAt(dir)
	if err != nil {
		t.Fatalf("open credential store: %v", err)
	}
	defer store.Close()
	if err := store.SetCookie(testCookie); err != nil {
		t.Fatalf("set cookie: %v", err)
	}
	c := newLeetClient(server.URL, store, nopLogger())
	c.sleep = func(time.Duration) {}

	if _, err := c.GetProblems(10, 0, ""); err != nil {
		t.Fatalf("GetProblems: %v", err)
	}
	if gotCookie != testCookie {
		t.Fatalf("Cookie header = %q, want %q", gotCookie, testCookie)
	}

	// another process rotates the cookie behind this handle's back
	other, err := openCredentialStoreAt(dir)
	if err != nil {
		t.Fatalf("second handle: %v", err)
	}
	defer other.Close()
	rotated := "csrftoken=def456; LEETCODE_SESSION=uvw"
	if err := other.SetCookie(rotated); err != nil {
		t.Fatalf("rotate cookie: %v", err)
	}

	if _, err := c.GetProblems(10, 0, ""); err != nil {
		t.Fatalf("GetProblems after rotation: %v", err)
	}
	if gotCookie != rotated {
		t.Errorf("Cookie header after rotation = %q, want %q", gotCookie, rotated)
	}
}

func TestVerifyAuthObservesExternalSignIn(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"userStatus":{"username":"octocat"}}}`))
	}))
	defer server.Close()

	dir := t.TempDir()
	store, err := openCredentialStoreAt(dir)
	if err != nil {
		t.Fatalf("open credential store: %v", err)
	}
	defer store.Close()
	c := newLeetClient(server.URL, store, nopLogger())
	c.sleep = func(time.Duration) {}

	if status := c.VerifyAuth(); status.Valid {
		t.Fatal("empty store should not verify")
	}

	other, err := openCredentialStoreAt(dir)
	if err != nil {
		t.Fatalf("second handle: %v", err)
	}
	defer other.Close()
	if err := other.SetCookie(testCookie); err != nil {
		t.Fatalf("set cookie: %v", err)
	}

	status := c.VerifyAuth()
	if !status.Valid || status.Username != "octocat" {
		t.Errorf("VerifyAuth after external sign-in = %+v", status)
	}
	if !store.IsLoggedIn() {
		t.Error("first handle should observe the externally written cookie")
	}
}

func TestCsrfFromCookieCaseInsensitive(t *testing.T) {
	if got := csrfFromCookie("CSRFTOKEN=Tok_1-2; LEETCODE_SESSION=x"); got != "Tok_1-2" {
		t.Errorf("csrfFromCookie = %q, want %q", got, "Tok_1-2")
	}
	if got := csrfFromCookie("LEETCODE_SESSION=x"); got != "" {
		t.Errorf("csrfFromCookie on missing token = %q, want empty", got)
	}
}

func TestGetProblemDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"question":{
			"questionId":"1",
			"title":"Two Sum",
			"titleSlug":"two-sum",
			"content":"<p>Given an array...</p>",
			"difficulty":"Easy",
			"codeSnippets":[{"lang":"Python3","langSlug":"python3","code":"class Solution: pass"}],
			"exampleTestcases":"[2,7,11,15]\n9"
		}}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, testCookie)
	detail, err := c.GetProblemDetail("two-sum")
	if err != nil {
		t.Fatalf("GetProblemDetail: %v", err)
	}
	if detail.Title != "Two Sum" || detail.QuestionID != "1" {
		t.Errorf("unexpected detail: %+v", detail)
	}
	if len(detail.CodeSnippets) != 1 || detail.CodeSnippets[0].LangSlug != "python3" {
		t.Errorf("unexpected snippets: %+v", detail.CodeSnippets)
	}
}

func TestGetProblemDetailGraphQLErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null,"errors":[{"message":"something broke"}]}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, testCookie)
	_, err := c.GetProblemDetail("two-sum")
	if err == nil {
		t.Fatal("expected error for errors array")
	}
	if err.Error() != "failed to fetch problem details" {
		t.Errorf("error = %q, want %q", err.Error(), "failed to fetch problem details")
	}
}

func TestValidationRunsBeforeNetwork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("network call performed despite invalid input")
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, testCookie)

	if _, err := c.GetProblemDetail("Two Sum!"); err == nil {
		t.Error("expected slug validation error")
	}
	if _, err := c.GetProblems(10, 0, "Algo;Rhythms"); err == nil {
		t.Error("expected category validation error")
	}
	if _, err := c.CheckStatus("../../etc/passwd"); err == nil {
		t.Error("expected job id validation error")
	}
	if _, err := c.CheckStatus(""); err == nil {
		t.Error("expected empty job id validation error")
	}
	if _, err := c.RunCode("Bad Slug", "1", "python3", "pass", ""); err == nil {
		t.Error("expected run slug validation error")
	}
}

func TestClassify(t *testing.T) {
	c := newTestClient(t, "http://unused.invalid", testCookie)

	cases := []struct {
		name     string
		status   int
		body     string
		wantKind errKind
		wantFrag string
	}{
		{"unauthorized", 401, "", errAuthExpired, "sign in again"},
		{"csrf 403", 403, "CSRF verification failed", errForbidden, "csrf token error"},
		{"challenge 403", 403, "Just a moment...", errChallenge, "missing cf_clearance"},
		{"plain 403", 403, "forbidden", errForbidden, "access forbidden"},
		{"bad request", 400, "", errBadRequest, "invalid characters"},
		{"rate limited", 429, "", errRateLimited, "rate limit"},
		{"server error", 503, "", errServer, "server error"},
		{"unexpected", 418, "", errGeneric, "HTTP 418"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.classify(tc.status, []byte(tc.body), nil)
			if got.kind != tc.wantKind {
				t.Errorf("kind = %d, want %d", got.kind, tc.wantKind)
			}
			if !strings.Contains(got.message, tc.wantFrag) {
				t.Errorf("message %q missing %q", got.message, tc.wantFrag)
			}
		})
	}
}

func TestClassifyChallengeWithClearance(t *testing.T) {
	c := newTestClient(t, "http://unused.invalid", testCookie+"; cf_clearance=tok")
	got := c.classify(403, []byte("_cf_chl_opt"), nil)
	if got.kind != errChallenge {
		t.Fatalf("kind = %d, want challenge", got.kind)
	}
	if !strings.Contains(got.message, "invalid or expired") {
		t.Errorf("message %q should blame the stale cf_clearance", got.message)
	}
}

func TestChallengeRetryBudget(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("<html>Just a moment...</html>"))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, testCookie)
	_, err := c.GetProblems(10, 0, "")
	if !isAuthFailure(err) {
		t.Fatalf("expected auth-failure classification, got %v", err)
	}
	if want := 1 + challengeRetries; requests != want {
		t.Errorf("requests = %d, want %d", requests, want)
	}
}

func TestNonChallengeErrorsAreNotRetried(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, testCookie)
	if _, err := c.GetProblems(10, 0, ""); err == nil {
		t.Fatal("expected server error")
	}
	if requests != 1 {
		t.Errorf("requests = %d, want 1", requests)
	}
}

func TestGetUserSwallowsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, testCookie)
	user, err := c.GetUser()
	if err != nil {
		t.Fatalf("GetUser should not surface errors, got %v", err)
	}
	if user != nil {
		t.Fatalf("user = %+v, want nil", user)
	}
}

func TestSubmitAcceptsNumericSubmissionID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"submission_id": 123456789}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, testCookie)
	id, err := c.Submit("two-sum", "1", "python3", "class Solution: pass")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if id != "123456789" {
		t.Errorf("submission id = %q, want %q", id, "123456789")
	}
}

func TestRunCodeReturnsInterpretID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"interpret_id":"runcode_161_abc"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, testCookie)
	id, err := c.RunCode("two-sum", "1", "python3", "class Solution: pass", "[2,7]\n9")
	if err != nil {
		t.Fatalf("RunCode: %v", err)
	}
	if id != "runcode_161_abc" {
		t.Errorf("interpret id = %q", id)
	}
}

func TestRedactURL(t *testing.T) {
	in := "Get https://leetcode.com/graphql?q=1 failed: timeout"
	got := redactURL(in)
	if strings.Contains(got, "leetcode.com") {
		t.Errorf("url survived redaction: %q", got)
	}
	if !strings.Contains(got, "[url redacted]") {
		t.Errorf("missing redaction marker: %q", got)
	}
}

func TestIsAuthFailure(t *testing.T) {
	for _, kind := range []errKind{errAuthExpired, errForbidden, errChallenge} {
		if !isAuthFailure(&apiError{kind: kind}) {
			t.Errorf("kind %d should be an auth failure", kind)
		}
	}
	for _, kind := range []errKind{errGeneric, errValidation, errBadRequest, errRateLimited, errServer, errNetwork} {
		if isAuthFailure(&apiError{kind: kind}) {
			t.Errorf("kind %d should not be an auth failure", kind)
		}
	}
}
