package main

import "github.com/charmbracelet/lipgloss"

type colorPalette struct {
	textMuted  lipgloss.Color
	easy       lipgloss.Color
	medium     lipgloss.Color
	hard       lipgloss.Color
	solved     lipgloss.Color
	failBanner lipgloss.Color
	passBanner lipgloss.Color
}

var palette = colorPalette{
	textMuted:  lipgloss.Color("243"),
	easy:       lipgloss.Color("42"),
	medium:     lipgloss.Color("214"),
	hard:       lipgloss.Color("203"),
	solved:     lipgloss.Color("42"),
	failBanner: lipgloss.Color("203"),
	passBanner: lipgloss.Color("42"),
}

type styles struct {
	app, topBar                    lipgloss.Style
	columnTitle                    lipgloss.Style
	panel, panelFocused            lipgloss.Style
	statusBar, statusSeg           lipgloss.Style
	statusHint                     lipgloss.Style
	listItem, listSel              lipgloss.Style
	cmdOverlay, cmdPrompt, cmdHint lipgloss.Style
	difficultyEasy                 lipgloss.Style
	difficultyMedium               lipgloss.Style
	difficultyHard                 lipgloss.Style
}

func newStyles() styles {
	base := lipgloss.NewStyle()
	panelBorder := lipgloss.NormalBorder()
	focusedBorder := lipgloss.DoubleBorder()

	return styles{
		app:              base,
		topBar:           base.Padding(0, 1),
		columnTitle:      base.Copy().Bold(true).Padding(0, 1),
		panel:            base.BorderStyle(panelBorder),
		panelFocused:     base.BorderStyle(focusedBorder),
		statusBar:        base.Padding(0, 1),
		statusSeg:        base.Padding(0, 1).MarginRight(1),
		statusHint:       base.Copy().Faint(true),
		listItem:         base.Padding(0, 1),
		listSel:          base.Padding(0, 1).Bold(true),
		cmdOverlay:       base.Border(lipgloss.RoundedBorder()).Padding(1, 2),
		cmdPrompt:        base.Copy().Bold(true),
		cmdHint:          base.Copy().Faint(true),
		difficultyEasy:   base.Copy().Foreground(palette.easy),
		difficultyMedium: base.Copy().Foreground(palette.medium),
		difficultyHard:   base.Copy().Foreground(palette.hard),
	}
}

func difficultyStyle(s styles, difficulty string) lipgloss.Style {
	switch safeDifficulty(difficulty) {
	case "easy":
		return s.difficultyEasy
	case "medium":
		return s.difficultyMedium
	case "hard":
		return s.difficultyHard
	default:
		return lipgloss.NewStyle().Foreground(palette.textMuted)
	}
}
