package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultBaseURL   = "https://leetcode.com"
	requestTimeout   = 30 * time.Second
	maxResponseBytes = 10 * 1024 * 1024
	challengeRetries = 2
)

const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

type question struct {
	QuestionID         string `json:"questionId"`
	QuestionFrontendID string `json:"questionFrontendId"`
	Title              string `json:"title"`
	TitleSlug          string `json:"titleSlug"`
	Difficulty         string `json:"difficulty"`
	IsPaidOnly         bool   `json:"isPaidOnly"`
	Status             string `json:"status"`
}

type codeSnippet struct {
	Lang     string `json:"lang"`
	LangSlug string `json:"langSlug"`
	Code     string `json:"code"`
}

type questionDetail struct {
	QuestionID       string        `json:"questionId"`
	Title            string        `json:"title"`
	TitleSlug        string        `json:"titleSlug"`
	Content          string        `json:"content"`
	Difficulty       string        `json:"difficulty"`
	CodeSnippets     []codeSnippet `json:"codeSnippets"`
	ExampleTestcases string        `json:"exampleTestcases"`
}

type userProfile struct {
	Username string `json:"username"`
	RealName string `json:"realName"`
	Avatar   string `json:"avatar"`
}

type dailyQuestion struct {
	Date     string   `json:"date"`
	Link     string   `json:"link"`
	Question question `json:"question"`
}

// checkResult is the polled judge record. Interpret and submit share the
// endpoint shape; fields the remote omits stay at their zero value.
type checkResult struct {
	State string `json:"state"`

	CorrectAnswer      bool     `json:"correct_answer"`
	CodeAnswer         []string `json:"code_answer"`
	ExpectedCodeAnswer []string `json:"expected_code_answer"`
	StdOutputList      []string `json:"std_output_list"`

	StatusMsg         string   `json:"status_msg"`
	TotalCorrect      int      `json:"total_correct"`
	TotalTestcases    int      `json:"total_testcases"`
	StatusRuntime     string   `json:"status_runtime"`
	StatusMemory      string   `json:"status_memory"`
	RuntimePercentile *float64 `json:"runtime_percentile"`

	RuntimeError     string `json:"runtime_error"`
	FullRuntimeError string `json:"full_runtime_error"`
	CompileError     string `json:"compile_error"`
	FullCompileError string `json:"full_compile_error"`
	ErrorMsg         string `json:"error_msg"`
}

type errKind int

const (
	errGeneric errKind = iota
	errValidation
	errAuthExpired
	errForbidden
	errChallenge
	errBadRequest
	errRateLimited
	errServer
	errNetwork
)

type apiError struct {
	kind    errKind
	status  int
	message string
}

func (e *apiError) Error() string { return e.message }

// authFailure reports whether the error should send the user back through
// sign-in rather than being shown raw.
func (e *apiError) authFailure() bool {
	return e.kind == errAuthExpired || e.kind == errForbidden || e.kind == errChallenge
}

func isAuthFailure(err error) bool {
	var ae *apiError
	return errors.As(err, &ae) && ae.authFailure()
}

var (
	slugPattern     = regexp.MustCompile(`^[a-z0-9-]+$`)
	categoryPattern = regexp.MustCompile(`^[a-z0-9-]*$`)
	jobIDPattern    = regexp.MustCompile(`[\s/\\<>"']`)
	csrfPattern     = regexp.MustCompile(`(?i)csrftoken=([a-zA-Z0-9_-]+)`)
	urlPattern      = regexp.MustCompile(`https?://[^\s]+`)
)

func validateSlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return &apiError{kind: errValidation, message: "invalid slug format"}
	}
	return nil
}

func validateCategory(category string) error {
	if !categoryPattern.MatchString(category) {
		return &apiError{kind: errValidation, message: "invalid category format"}
	}
	return nil
}

func validateJobID(id string) error {
	if id == "" || jobIDPattern.MatchString(id) {
		return &apiError{kind: errValidation, message: "invalid job id format"}
	}
	return nil
}

func csrfFromCookie(cookie string) string {
	match := csrfPattern.FindStringSubmatch(cookie)
	if match == nil {
		return ""
	}
	return match[1]
}

func redactURL(message string) string {
	return urlPattern.ReplaceAllString(message, "[url redacted]")
}

var challengeMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)just a moment\.{3}`),
	regexp.MustCompile(`(?i)_cf_chl_opt`),
	regexp.MustCompile(`(?i)challenge-platform/h/g`),
}

func isChallengeBody(body []byte) bool {
	for _, marker := range challengeMarkers {
		if marker.Match(body) {
			return true
		}
	}
	return false
}

// leetClient is the single remote-client instance handed to every flow.
type leetClient struct {
	baseURL string
	http    *http.Client
	creds   *credentialStore
	log     zerolog.Logger
	sleep   func(time.Duration)
}

func newLeetClient(baseURL string, creds *credentialStore, logger zerolog.Logger) *leetClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &leetClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		creds:   creds,
		log:     logger,
		sleep:   time.Sleep,
	}
}

func (c *leetClient) graphqlURL() string { return c.baseURL + "/graphql" }

func (c *leetClient) headers(req *http.Request, referer string) {
	if referer == "" {
		referer = c.baseURL
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", referer)
	req.Header.Set("Origin", c.baseURL)

	cookie := c.creds.Cookie()
	if strings.TrimSpace(cookie) == "" {
		c.log.Warn().Msg("no session cookie set")
		return
	}
	req.Header.Set("Cookie", cookie)
	if token := csrfFromCookie(cookie); token != "" {
		req.Header.Set("x-csrftoken", token)
	} else {
		// The server may still accept the request without it.
		c.log.Warn().Msg("no csrf token found in cookie")
	}
}

// logCookieDiagnostics records which tokens the stored cookie carries.
// Missing cf_clearance is the usual cause of challenge responses.
func (c *leetClient) logCookieDiagnostics() {
	cookie := c.creds.Cookie()
	if cookie == "" {
		c.log.Warn().Msg("no session cookie stored")
		return
	}
	hasCf := strings.Contains(strings.ToLower(cookie), "cf_clearance=")
	hasSession := hasSessionToken(cookie)
	hasCsrf := csrfFromCookie(cookie) != ""
	c.log.Info().
		Bool("cf_clearance", hasCf).
		Bool("leetcode_session", hasSession).
		Bool("csrftoken", hasCsrf).
		Msg("cookie diagnostics")
	if !hasCf {
		c.log.Warn().Msg("cf_clearance missing: edge protection may block requests")
	}
}

func (c *leetClient) classify(status int, body []byte, err error) *apiError {
	if err != nil {
		return &apiError{kind: errNetwork, message: redactURL("connectivity error: " + err.Error())}
	}
	switch {
	case status == http.StatusUnauthorized:
		return &apiError{kind: errAuthExpired, status: status, message: "authentication failed: session expired or invalid, sign in again"}
	case status == http.StatusForbidden:
		if bytes.Contains(body, []byte("CSRF")) {
			return &apiError{kind: errForbidden, status: status, message: "csrf token error: sign out and sign in again"}
		}
		if isChallengeBody(body) {
			if strings.Contains(strings.ToLower(c.creds.Cookie()), "cf_clearance=") {
				return &apiError{kind: errChallenge, status: status, message: "blocked by edge protection: cf_clearance is invalid or expired, re-copy your cookie and sign in again"}
			}
			return &apiError{kind: errChallenge, status: status, message: "blocked by edge protection: cookie is missing cf_clearance, re-copy the full cookie header and sign in again"}
		}
		return &apiError{kind: errForbidden, status: status, message: "access forbidden: session may be expired or invalid"}
	case status == http.StatusBadRequest:
		return &apiError{kind: errBadRequest, status: status, message: "bad request: code may contain invalid characters or encoding issues"}
	case status == http.StatusTooManyRequests:
		return &apiError{kind: errRateLimited, status: status, message: "rate limit exceeded: wait a moment before trying again"}
	case status >= 500:
		return &apiError{kind: errServer, status: status, message: "server error: try again later"}
	default:
		return &apiError{kind: errGeneric, status: status, message: fmt.Sprintf("unexpected response (HTTP %d)", status)}
	}
}

func (c *leetClient) randomRetryDelay() {
	c.sleep(time.Duration(1000+rand.Intn(1001)) * time.Millisecond)
}

// doRequest performs one HTTP call with the browser header set. A 403 whose
// body carries challenge markers is retried up to challengeRetries extra
// times; every other failure propagates after a single attempt.
func (c *leetClient) doRequest(method, url string, payload any, referer string) ([]byte, error) {
	var encoded []byte
	if payload != nil {
		var err error
		encoded, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
	}

	// Pick up a cookie written by another process before reading it.
	if err := c.creds.Reload(); err != nil {
		c.log.Warn().Err(err).Msg("credential reload failed")
	}

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			c.randomRetryDelay()
			c.log.Warn().Int("attempt", attempt+1).Msg("edge-protection challenge detected, retrying")
		}

		var reader io.Reader
		if encoded != nil {
			reader = bytes.NewReader(encoded)
		}
		req, err := http.NewRequest(method, url, reader)
		if err != nil {
			return nil, err
		}
		c.headers(req, referer)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, c.classify(0, nil, err)
		}
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
		resp.Body.Close()
		if readErr != nil {
			return nil, c.classify(0, nil, readErr)
		}
		if len(body) > maxResponseBytes {
			return nil, &apiError{kind: errNetwork, message: "response exceeds size limit"}
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return body, nil
		}

		apiErr := c.classify(resp.StatusCode, body, nil)
		if apiErr.kind == errChallenge && attempt < challengeRetries {
			continue
		}
		return nil, apiErr
	}
}

type graphqlEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *leetClient) graphql(query string, variables any, out any) error {
	payload := map[string]any{"query": query}
	if variables != nil {
		payload["variables"] = variables
	}
	body, err := c.doRequest(http.MethodPost, c.graphqlURL(), payload, "")
	if err != nil {
		return err
	}
	var envelope graphqlEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return &apiError{kind: errGeneric, message: "graphql error"}
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

// GetUser probes the current session identity. It doubles as the auth
// check, so every failure shape collapses to (nil, nil).
func (c *leetClient) GetUser() (*userProfile, error) {
	query := `
        query globalData {
            userStatus {
                username
                avatar
                realName
            }
        }
    `
	var data struct {
		UserStatus *userProfile `json:"userStatus"`
	}
	if err := c.graphql(query, nil, &data); err != nil {
		c.log.Info().Str("error", redactURL(err.Error())).Msg("auth check failed")
		return nil, nil
	}
	if data.UserStatus == nil || data.UserStatus.Username == "" {
		return nil, nil
	}
	return data.UserStatus, nil
}

func (c *leetClient) GetProblems(limit, skip int, category string) ([]question, error) {
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	query := `
        query problemsetQuestionList($categorySlug: String, $limit: Int, $skip: Int, $filters: QuestionListFilterInput) {
            problemsetQuestionList: questionList(
                categorySlug: $categorySlug
                limit: $limit
                skip: $skip
                filters: $filters
            ) {
                data {
                    questionId
                    questionFrontendId
                    title
                    titleSlug
                    difficulty
                    isPaidOnly
                    status
                }
            }
        }
    `
	variables := map[string]any{
		"categorySlug": category,
		"limit":        limit,
		"skip":         skip,
		"filters":      map[string]any{},
	}
	var data struct {
		ProblemsetQuestionList struct {
			Data []question `json:"data"`
		} `json:"problemsetQuestionList"`
	}
	if err := c.graphql(query, variables, &data); err != nil {
		var ae *apiError
		if errors.As(err, &ae) && ae.kind == errGeneric && ae.status == 0 {
			return nil, &apiError{kind: errGeneric, message: "failed to fetch problems"}
		}
		return nil, err
	}
	return data.ProblemsetQuestionList.Data, nil
}

// GetAllProblems fetches the full problem set in one shot; the platform
// exposes no cursor-based pagination.
func (c *leetClient) GetAllProblems() ([]question, error) {
	return c.GetProblems(10000, 0, "")
}

func (c *leetClient) GetProblemDetail(slug string) (*questionDetail, error) {
	if err := validateSlug(slug); err != nil {
		return nil, err
	}
	query := `
        query questionData($titleSlug: String!) {
            question(titleSlug: $titleSlug) {
                questionId
                title
                titleSlug
                content
                difficulty
                codeSnippets {
                    lang
                    langSlug
                    code
                }
                exampleTestcases
            }
        }
    `
	var data struct {
		Question *questionDetail `json:"question"`
	}
	if err := c.graphql(query, map[string]any{"titleSlug": slug}, &data); err != nil {
		var ae *apiError
		if errors.As(err, &ae) && ae.kind == errGeneric && ae.status == 0 {
			return nil, &apiError{kind: errGeneric, message: "failed to fetch problem details"}
		}
		return nil, err
	}
	if data.Question == nil {
		return nil, &apiError{kind: errGeneric, message: "failed to fetch problem details"}
	}
	return data.Question, nil
}

func (c *leetClient) GetDailyQuestion() (*dailyQuestion, error) {
	query := `
        query questionOfToday {
            activeDailyCodingChallengeQuestion {
                date
                link
                question {
                    questionId
                    questionFrontendId
                    title
                    titleSlug
                    difficulty
                    isPaidOnly
                    status
                }
            }
        }
    `
	var data struct {
		ActiveDailyCodingChallengeQuestion *dailyQuestion `json:"activeDailyCodingChallengeQuestion"`
	}
	if err := c.graphql(query, nil, &data); err != nil {
		var ae *apiError
		if errors.As(err, &ae) && ae.kind == errGeneric && ae.status == 0 {
			return nil, &apiError{kind: errGeneric, message: "failed to fetch daily question"}
		}
		return nil, err
	}
	if data.ActiveDailyCodingChallengeQuestion == nil {
		return nil, &apiError{kind: errGeneric, message: "failed to fetch daily question"}
	}
	return data.ActiveDailyCodingChallengeQuestion, nil
}

// RunCode sends the code against the sample tests and returns the job id
// to poll.
func (c *leetClient) RunCode(slug, questionID, lang, code, dataInput string) (string, error) {
	if err := validateSlug(slug); err != nil {
		return "", err
	}
	c.logCookieDiagnostics()
	url := fmt.Sprintf("%s/problems/%s/interpret_solution/", c.baseURL, slug)
	payload := map[string]any{
		"question_id": questionID,
		"data_input":  dataInput,
		"lang":        lang,
		"judge_type":  "large",
		"typed_code":  normalizeCode(code),
	}
	body, err := c.doRequest(http.MethodPost, url, payload, fmt.Sprintf("%s/problems/%s/", c.baseURL, slug))
	if err != nil {
		c.log.Error().Str("error", redactURL(err.Error())).Str("slug", slug).Msg("run dispatch failed")
		return "", err
	}
	var out struct {
		InterpretID string `json:"interpret_id"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return out.InterpretID, nil
}

// Submit sends the code against the full judge and returns the job id to
// poll.
func (c *leetClient) Submit(slug, questionID, lang, code string) (string, error) {
	if err := validateSlug(slug); err != nil {
		return "", err
	}
	c.logCookieDiagnostics()
	url := fmt.Sprintf("%s/problems/%s/submit/", c.baseURL, slug)
	payload := map[string]any{
		"question_id": questionID,
		"lang":        lang,
		"typed_code":  normalizeCode(code),
	}
	body, err := c.doRequest(http.MethodPost, url, payload, fmt.Sprintf("%s/problems/%s/", c.baseURL, slug))
	if err != nil {
		c.log.Error().Str("error", redactURL(err.Error())).Str("slug", slug).Msg("submit dispatch failed")
		return "", err
	}
	var out struct {
		SubmissionID json.Number `json:"submission_id"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return out.SubmissionID.String(), nil
}

// CheckStatus performs exactly one status probe; polling discipline belongs
// to the caller.
func (c *leetClient) CheckStatus(jobID string) (checkResult, error) {
	if err := validateJobID(jobID); err != nil {
		return checkResult{}, err
	}
	url := fmt.Sprintf("%s/submissions/detail/%s/check/", c.baseURL, jobID)
	body, err := c.doRequest(http.MethodGet, url, nil, "")
	if err != nil {
		c.log.Error().Str("error", redactURL(err.Error())).Msg("status check failed")
		return checkResult{}, err
	}
	var result checkResult
	if err := json.Unmarshal(body, &result); err != nil {
		return checkResult{}, fmt.Errorf("decode response: %w", err)
	}
	return result, nil
}
