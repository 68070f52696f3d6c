package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// historyEntry mirrors the on-disk shape of .leetterm-history.json. The
// tool is standalone so it carries its own copy of the schema.
type historyEntry struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	TitleSlug string `json:"titleSlug"`
	Lang      string `json:"lang"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type historyReport struct {
	Total      int            `json:"total"`
	Accepted   int            `json:"accepted"`
	ByStatus   map[string]int `json:"by_status"`
	ByLanguage map[string]int `json:"by_language"`
	LastWeek   int            `json:"last_week"`
	Recent     []historyEntry `json:"recent"`
}

func main() {
	var workspace string
	var asJSON bool
	var recentCount int
	flag.StringVar(&workspace, "workspace", ".", "workspace directory containing .leetterm-history.json")
	flag.BoolVar(&asJSON, "json", false, "emit the report as JSON")
	flag.IntVar(&recentCount, "recent", 10, "number of recent submissions to list")
	flag.Parse()

	entries, err := readHistory(filepath.Join(workspace, ".leetterm-history.json"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	report := buildReport(entries, recentCount)
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		return
	}
	printReport(report)
}

func readHistory(path string) ([]historyEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var entries []historyEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return entries, nil
}

func buildReport(entries []historyEntry, recentCount int) historyReport {
	report := historyReport{
		Total:      len(entries),
		ByStatus:   map[string]int{},
		ByLanguage: map[string]int{},
	}
	weekAgo := time.Now().Add(-7 * 24 * time.Hour)
	for _, entry := range entries {
		report.ByStatus[entry.Status]++
		if entry.Lang != "" {
			report.ByLanguage[entry.Lang]++
		}
		if entry.Status == "AC" {
			report.Accepted++
		}
		if ts, err := time.Parse(time.RFC3339, entry.Timestamp); err == nil && ts.After(weekAgo) {
			report.LastWeek++
		}
	}
	if recentCount > len(entries) {
		recentCount = len(entries)
	}
	// the log is stored newest first
	report.Recent = append([]historyEntry(nil), entries[:recentCount]...)
	return report
}

func printReport(report historyReport) {
	fmt.Printf("Submissions: %d total, %d accepted, %d in the last week\n\n", report.Total, report.Accepted, report.LastWeek)

	if len(report.ByStatus) > 0 {
		fmt.Println("By verdict:")
		for _, key := range sortedKeys(report.ByStatus) {
			fmt.Printf("  %-4s %d\n", key, report.ByStatus[key])
		}
		fmt.Println()
	}
	if len(report.ByLanguage) > 0 {
		fmt.Println("By language:")
		for _, key := range sortedKeys(report.ByLanguage) {
			fmt.Printf("  %-12s %d\n", key, report.ByLanguage[key])
		}
		fmt.Println()
	}
	if len(report.Recent) > 0 {
		fmt.Println("Recent:")
		for _, entry := range report.Recent {
			when := entry.Timestamp
			if ts, err := time.Parse(time.RFC3339, entry.Timestamp); err == nil {
				when = ts.Format("2006-01-02 15:04")
			}
			fmt.Printf("  %-4s %s (%s) %s\n", entry.Status, entry.Title, entry.Lang, when)
		}
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return strings.Compare(keys[i], keys[j]) < 0
	})
	return keys
}
