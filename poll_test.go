package main

import (
	"testing"
	"time"
)

func TestPollStopsAtFirstTerminalResult(t *testing.T) {
	probes := 0
	sleeps := 0
	result, done, err := pollUntil(func() (checkResult, error) {
		probes++
		return checkResult{State: "SUCCESS"}, nil
	}, judgeTerminal, time.Millisecond, pollMaxAttempts, func(time.Duration) { sleeps++ })
	if err != nil {
		t.Fatalf("pollUntil: %v", err)
	}
	if !done {
		t.Fatal("expected terminal result")
	}
	if result.State != "SUCCESS" {
		t.Errorf("state = %q", result.State)
	}
	if probes != 1 || sleeps != 0 {
		t.Errorf("probes = %d, sleeps = %d; want 1 probe and no sleeps", probes, sleeps)
	}
}

func TestPollExhaustsBudgetOnPending(t *testing.T) {
	probes := 0
	sleeps := 0
	_, done, err := pollUntil(func() (checkResult, error) {
		probes++
		return checkResult{State: "PENDING"}, nil
	}, judgeTerminal, time.Millisecond, pollMaxAttempts, func(time.Duration) { sleeps++ })
	if err != nil {
		t.Fatalf("pollUntil: %v", err)
	}
	if done {
		t.Fatal("pending-only probe should not report done")
	}
	if probes != pollMaxAttempts {
		t.Errorf("probes = %d, want %d", probes, pollMaxAttempts)
	}
	if sleeps != pollMaxAttempts-1 {
		t.Errorf("sleeps = %d, want %d", sleeps, pollMaxAttempts-1)
	}
}

func TestPollNinePendingProbesWaitNineTimes(t *testing.T) {
	probes := 0
	sleeps := 0
	result, done, err := pollUntil(func() (checkResult, error) {
		probes++
		if probes <= 9 {
			return checkResult{State: "PENDING"}, nil
		}
		return checkResult{State: "SUCCESS"}, nil
	}, judgeTerminal, time.Millisecond, pollMaxAttempts, func(time.Duration) { sleeps++ })
	if err != nil {
		t.Fatalf("pollUntil: %v", err)
	}
	if !done || result.State != "SUCCESS" {
		t.Fatalf("done = %v, state = %q", done, result.State)
	}
	if sleeps != 9 {
		t.Errorf("sleeps = %d, want 9", sleeps)
	}
}

func TestPollPropagatesProbeError(t *testing.T) {
	wantErr := &apiError{kind: errAuthExpired, message: "authentication failed"}
	_, done, err := pollUntil(func() (checkResult, error) {
		return checkResult{}, wantErr
	}, judgeTerminal, time.Millisecond, pollMaxAttempts, func(time.Duration) {})
	if done {
		t.Fatal("errored poll should not be done")
	}
	if !isAuthFailure(err) {
		t.Errorf("err = %v, want auth failure", err)
	}
}

func TestJudgePendingStates(t *testing.T) {
	for _, state := range []string{"STARTED", "PENDING"} {
		if !judgePending(checkResult{State: state}) {
			t.Errorf("state %q should be pending", state)
		}
	}
	for _, state := range []string{"SUCCESS", "FAILURE", ""} {
		if judgePending(checkResult{State: state}) {
			t.Errorf("state %q should be terminal", state)
		}
	}
}
