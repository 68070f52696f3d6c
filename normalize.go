package main

import (
	"regexp"
	"strings"
)

var blankRunPattern = regexp.MustCompile(`\n{3,}`)

var asciiReplacer = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
	" ", " ",
)

// normalizeCode rewrites submitted text the way the platform's own
// formatter would: LF line endings, ASCII quotes, tabs as four spaces, no
// trailing whitespace, at most two consecutive newlines, exactly one
// trailing newline. Unnormalized text is a known trigger for
// edge-protection rejections. The transform is idempotent.
func normalizeCode(code string) string {
	code = strings.ReplaceAll(code, "\r\n", "\n")
	code = asciiReplacer.Replace(code)
	code = strings.ReplaceAll(code, "\t", "    ")

	lines := strings.Split(code, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	code = strings.Join(lines, "\n")

	code = blankRunPattern.ReplaceAllString(code, "\n\n")
	return strings.TrimSpace(code) + "\n"
}
