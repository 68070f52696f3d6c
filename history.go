package main

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	historyFileName   = ".leetterm-history.json"
	historyMaxEntries = 500
)

// historyEntry records one accepted-or-judged submission. The log lives in
// the workspace, newest first, capped at historyMaxEntries.
type historyEntry struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	TitleSlug string `json:"titleSlug"`
	Lang      string `json:"lang"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// historyStatusCode compresses the judge's status message into the short
// verdict codes used by the log.
func historyStatusCode(statusMsg string) string {
	switch statusMsg {
	case "Accepted":
		return "AC"
	case "Wrong Answer":
		return "WA"
	case "Time Limit Exceeded":
		return "TLE"
	case "Memory Limit Exceeded":
		return "MLE"
	default:
		return "RE"
	}
}

func historyPath(workspace string) string {
	return filepath.Join(workspace, historyFileName)
}

func loadHistory(workspace string) ([]historyEntry, error) {
	data, err := os.ReadFile(historyPath(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var entries []historyEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// appendHistory prepends the entry and drops the oldest past the cap.
func appendHistory(workspace string, entry historyEntry) error {
	entries, err := loadHistory(workspace)
	if err != nil {
		// A corrupt log should not block recording new results.
		entries = nil
	}
	entries = append([]historyEntry{entry}, entries...)
	if len(entries) > historyMaxEntries {
		entries = entries[:historyMaxEntries]
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(historyPath(workspace), data, 0o644)
}
