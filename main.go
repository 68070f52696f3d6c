package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
)

func main() {
	theme := flag.String("theme", "auto", "Markdown rendering theme: auto, light, or dark")
	flag.Parse()

	_ = godotenv.Load()

	cfg, cfgPath := loadUIConfig()
	if cfg == nil {
		cfg = &uiConfig{}
	}
	if *theme != "auto" {
		setMarkdownTheme(markdownThemeFromString(*theme))
	} else if cfg.Theme != "" {
		setMarkdownTheme(markdownThemeFromString(cfg.Theme))
	}

	logger := newAppLogger()

	creds, err := openCredentialStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: cannot open credential store:", err)
		os.Exit(1)
	}
	defer creds.Close()

	if err := migrateLegacyCookie(cfg, cfgPath, creds); err != nil {
		logger.Warn().Err(err).Msg("legacy cookie migration failed")
	}

	client := newLeetClient(os.Getenv("LEETTERM_BASE_URL"), creds, logger)

	if _, err := tea.NewProgram(
		newModel(client, creds, cfg, cfgPath, logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
