package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

var extensionForLang = map[string]string{
	"cpp":        ".cpp",
	"java":       ".java",
	"python3":    ".py",
	"python":     ".py",
	"c":          ".c",
	"csharp":     ".cs",
	"javascript": ".js",
	"typescript": ".ts",
	"golang":     ".go",
	"ruby":       ".rb",
	"swift":      ".swift",
	"kotlin":     ".kt",
	"scala":      ".scala",
	"rust":       ".rs",
	"php":        ".php",
}

var langForExtension = map[string]string{
	".cpp":   "cpp",
	".java":  "java",
	".py":    "python3",
	".c":     "c",
	".cs":    "csharp",
	".js":    "javascript",
	".ts":    "typescript",
	".go":    "golang",
	".rb":    "ruby",
	".swift": "swift",
	".kt":    "kotlin",
	".scala": "scala",
	".rs":    "rust",
	".php":   "php",
}

func extensionForLangSlug(langSlug string) string {
	if ext, ok := extensionForLang[langSlug]; ok {
		return ext
	}
	return ".txt"
}

// parseFileInfo recovers the problem slug and language slug from a
// generated file name. An unrecognized extension is a hard failure; there
// is no silent default language.
func parseFileInfo(fileName string) (slug, lang string, err error) {
	base := filepath.Base(fileName)
	ext := filepath.Ext(base)
	slug = strings.TrimSuffix(base, ext)

	lang, ok := langForExtension[strings.ToLower(ext)]
	if !ok {
		return "", "", fmt.Errorf("unrecognized file extension %q", ext)
	}
	if err := validateSlug(slug); err != nil {
		return "", "", err
	}
	return slug, lang, nil
}

// starterFilePath joins slug and extension under the workspace root and
// confirms the resolved path did not escape it.
func starterFilePath(workspace, slug, ext string) (string, error) {
	if err := validateSlug(slug); err != nil {
		return "", err
	}
	root, err := filepath.Abs(workspace)
	if err != nil {
		return "", err
	}
	path := filepath.Join(root, slug+ext)
	rel, err := filepath.Rel(root, path)
	if err != nil || rel != slug+ext || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("resolved path escapes workspace")
	}
	return path, nil
}

// createStarterFile writes the snippet with exclusive-create semantics.
// An existing file is opened unchanged; user edits are never overwritten.
// The bool result reports whether a new file was written.
func createStarterFile(workspace, slug, ext, code string) (string, bool, error) {
	path, err := starterFilePath(workspace, slug, ext)
	if err != nil {
		return "", false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", false, err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return path, false, nil
		}
		return "", false, err
	}
	defer f.Close()
	if _, err := f.WriteString(code); err != nil {
		return "", false, err
	}
	return path, true, nil
}

// launchEditor opens the file with $VISUAL/$EDITOR, falling back to the
// platform opener.
func launchEditor(path string) (string, error) {
	candidates := []string{os.Getenv("VISUAL"), os.Getenv("EDITOR")}
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		parts := strings.Fields(candidate)
		parts = append(parts, path)
		cmd := exec.Command(parts[0], parts[1:]...)
		if err := cmd.Start(); err != nil {
			continue
		}
		return strings.Join(parts, " "), nil
	}
	switch runtime.GOOS {
	case "darwin":
		cmd := exec.Command("open", path)
		if err := cmd.Start(); err != nil {
			return "", err
		}
		return "open " + path, nil
	case "windows":
		quoted := fmt.Sprintf("\"%s\"", path)
		cmd := exec.Command("cmd", "/c", "start", "", quoted)
		if err := cmd.Start(); err != nil {
			return "", err
		}
		return "cmd /c start " + quoted, nil
	default:
		cmd := exec.Command("xdg-open", path)
		if err := cmd.Start(); err != nil {
			return "", err
		}
		return "xdg-open " + path, nil
	}
}
