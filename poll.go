package main

import "time"

const (
	pollInterval    = time.Second
	pollMaxAttempts = 20

	judgeStateSuccess = "SUCCESS"
)

// pollUntil probes until isTerminal reports true or the attempt budget is
// spent, sleeping between attempts. The first probe happens immediately.
// The bool result is false when the budget ran out while the probe was
// still non-terminal.
func pollUntil(probe func() (checkResult, error), isTerminal func(checkResult) bool, interval time.Duration, maxAttempts int, sleep func(time.Duration)) (checkResult, bool, error) {
	if sleep == nil {
		sleep = time.Sleep
	}
	var last checkResult
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			sleep(interval)
		}
		result, err := probe()
		if err != nil {
			return checkResult{}, false, err
		}
		last = result
		if isTerminal(result) {
			return result, true, nil
		}
	}
	return last, false, nil
}

// judgePending matches the two in-flight states the status endpoint
// reports before a verdict exists.
func judgePending(result checkResult) bool {
	return result.State == "STARTED" || result.State == "PENDING"
}

func judgeTerminal(result checkResult) bool {
	return !judgePending(result)
}
