package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type column interface {
	SetSize(width, height int)
	Update(msg tea.Msg) (column, tea.Cmd)
	View(styles styles, focused bool) string
	Title() string
	FocusValue() string
}

// problemItem is the closed set of things the problem list can show: either a
// real problem row or the sign-in placeholder. Every consumer switches over
// both cases.
type problemItem interface {
	list.Item
	problemItem()
}

type problemEntry struct {
	question question
}

func (e problemEntry) problemItem() {}

func (e problemEntry) Title() string {
	solved := " "
	if e.question.Status == "ac" {
		solved = "✓"
	}
	id := e.question.QuestionFrontendID
	if id == "" {
		id = e.question.QuestionID
	}
	paid := ""
	if e.question.IsPaidOnly {
		paid = " $"
	}
	return fmt.Sprintf("%s %s. %s%s", solved, id, e.question.Title, paid)
}

func (e problemEntry) Description() string {
	difficulty := safeDifficulty(e.question.Difficulty)
	return difficultyStyle(newStyles(), difficulty).Render(difficulty)
}

func (e problemEntry) FilterValue() string {
	return e.question.QuestionFrontendID + " " + e.question.Title + " " + e.question.TitleSlug
}

type signInEntry struct {
	reason string
}

func (e signInEntry) problemItem() {}

func (e signInEntry) Title() string { return "Sign in to LeetCode" }

func (e signInEntry) Description() string {
	if strings.TrimSpace(e.reason) == "" {
		return "Press enter to paste your session cookie"
	}
	return e.reason
}

func (e signInEntry) FilterValue() string { return "sign in" }

type problemColumn struct {
	title    string
	model    list.Model
	width    int
	height   int
	all      []problemItem
	filter   string
	onSelect func(item problemItem) tea.Cmd
}

func newProblemColumn(title string, s styles) *problemColumn {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = s.listSel
	delegate.Styles.SelectedDesc = s.listSel
	delegate.Styles.NormalTitle = s.listItem
	delegate.Styles.NormalDesc = s.listItem.Foreground(palette.textMuted)

	m := list.New([]list.Item{}, delegate, 32, 20)
	m.Title = title
	m.SetShowStatusBar(false)
	m.SetFilteringEnabled(false)
	m.SetShowHelp(false)
	m.SetShowPagination(false)

	return &problemColumn{
		title: title,
		model: m,
	}
}

func (c *problemColumn) SetOnSelect(fn func(problemItem) tea.Cmd) {
	c.onSelect = fn
}

func (c *problemColumn) SetEntries(items []problemItem) {
	c.all = items
	c.applyFilter()
}

// SetFilter narrows the visible rows to those matching query. An empty query
// restores the full set.
func (c *problemColumn) SetFilter(query string) {
	c.filter = strings.ToLower(strings.TrimSpace(query))
	c.applyFilter()
}

func (c *problemColumn) applyFilter() {
	visible := make([]list.Item, 0, len(c.all))
	for _, item := range c.all {
		if c.filter != "" {
			if _, ok := item.(signInEntry); !ok {
				if !strings.Contains(strings.ToLower(item.FilterValue()), c.filter) {
					continue
				}
			}
		}
		visible = append(visible, item)
	}
	c.model.SetItems(visible)
	if len(visible) > 0 {
		c.model.Select(0)
	}
}

func (c *problemColumn) SelectedItem() (problemItem, bool) {
	if item, ok := c.model.SelectedItem().(problemItem); ok {
		return item, true
	}
	return nil, false
}

func (c *problemColumn) SelectSlug(slug string) {
	for idx, item := range c.model.Items() {
		if entry, ok := item.(problemEntry); ok && entry.question.TitleSlug == slug {
			c.model.Select(idx)
			return
		}
	}
}

func (c *problemColumn) VisibleCount() int {
	return len(c.model.Items())
}

func (c *problemColumn) SetSize(width, height int) {
	c.width = width
	if height < 3 {
		height = 3
	}
	c.height = height
	c.model.SetSize(width, height-2)
}

func (c *problemColumn) Update(msg tea.Msg) (column, tea.Cmd) {
	if m, ok := msg.(tea.KeyMsg); ok {
		if m.String() == "enter" && c.onSelect != nil {
			if item, ok := c.SelectedItem(); ok {
				return c, c.onSelect(item)
			}
		}
	}
	var cmd tea.Cmd
	c.model, cmd = c.model.Update(msg)
	return c, cmd
}

func (c *problemColumn) View(s styles, focused bool) string {
	title := c.title
	if c.filter != "" {
		title = fmt.Sprintf("%s (/%s)", c.title, c.filter)
	}
	body := lipgloss.JoinVertical(lipgloss.Left, s.columnTitle.Render(title), c.model.View())
	if focused {
		return s.panelFocused.Width(c.width).Render(body)
	}
	return s.panel.Width(c.width).Render(body)
}

func (c *problemColumn) Title() string {
	return c.title
}

func (c *problemColumn) FocusValue() string {
	item, ok := c.SelectedItem()
	if !ok {
		return ""
	}
	switch entry := item.(type) {
	case problemEntry:
		return entry.question.Title
	case signInEntry:
		return "Sign in"
	}
	return ""
}

type listEntry struct {
	title   string
	desc    string
	payload any
}

func (e listEntry) Title() string       { return e.title }
func (e listEntry) Description() string { return e.desc }
func (e listEntry) FilterValue() string { return e.title }

type selectableColumn struct {
	title    string
	model    list.Model
	width    int
	height   int
	onSelect func(entry listEntry) tea.Cmd
}

func newSelectableColumn(title string, items []list.Item, width int, onSelect func(listEntry) tea.Cmd, s styles) *selectableColumn {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = s.listSel
	delegate.Styles.SelectedDesc = s.listSel
	delegate.Styles.NormalTitle = s.listItem
	delegate.Styles.NormalDesc = s.listItem.Foreground(palette.textMuted)

	m := list.New(items, delegate, width, 20)
	m.Title = title
	m.SetShowStatusBar(false)
	m.SetFilteringEnabled(false)
	m.SetShowHelp(false)
	m.SetShowPagination(false)

	return &selectableColumn{
		title:    title,
		model:    m,
		width:    width,
		onSelect: onSelect,
	}
}

func (c *selectableColumn) SetItems(items []list.Item) {
	c.model.SetItems(items)
	if len(items) > 0 {
		c.model.Select(0)
	}
}

func (c *selectableColumn) SelectedEntry() (listEntry, bool) {
	if entry, ok := c.model.SelectedItem().(listEntry); ok {
		return entry, true
	}
	return listEntry{}, false
}

func (c *selectableColumn) SetSize(width, height int) {
	c.width = width
	if height < 3 {
		height = 3
	}
	c.height = height
	c.model.SetSize(width, height-2)
}

func (c *selectableColumn) Update(msg tea.Msg) (column, tea.Cmd) {
	if m, ok := msg.(tea.KeyMsg); ok {
		if m.String() == "enter" && c.onSelect != nil {
			if entry, ok := c.SelectedEntry(); ok {
				return c, c.onSelect(entry)
			}
		}
	}
	var cmd tea.Cmd
	c.model, cmd = c.model.Update(msg)
	return c, cmd
}

func (c *selectableColumn) View(s styles, focused bool) string {
	body := lipgloss.JoinVertical(lipgloss.Left, s.columnTitle.Render(c.title), c.model.View())
	if focused {
		return s.panelFocused.Width(c.width).Render(body)
	}
	return s.panel.Width(c.width).Render(body)
}

func (c *selectableColumn) Title() string {
	return c.title
}

func (c *selectableColumn) FocusValue() string {
	if entry, ok := c.SelectedEntry(); ok {
		return entry.title
	}
	return ""
}

type previewColumn struct {
	title   string
	width   int
	height  int
	content string
	view    viewport.Model
}

func newPreviewColumn(width int) *previewColumn {
	vp := viewport.New(width, 20)
	return &previewColumn{
		title: "Preview",
		view:  vp,
	}
}

func (p *previewColumn) SetTitle(title string) {
	if strings.TrimSpace(title) == "" {
		title = "Preview"
	}
	p.title = title
}

func (p *previewColumn) SetSize(width, height int) {
	p.width = width
	if height < 3 {
		height = 3
	}
	p.height = height
	p.view.Width = width - 2
	p.view.Height = height - 3
}

func (p *previewColumn) SetContent(content string) {
	p.content = content
	p.view.SetContent(content)
	p.view.GotoTop()
}

func (p *previewColumn) Update(msg tea.Msg) (column, tea.Cmd) {
	var cmd tea.Cmd
	p.view, cmd = p.view.Update(msg)
	return p, cmd
}

func (p *previewColumn) View(s styles, focused bool) string {
	header := s.columnTitle.Render(p.title)
	body := header + "\n" + p.view.View()
	if focused {
		return s.panelFocused.Width(p.width).Render(body)
	}
	return s.panel.Width(p.width).Render(body)
}

func (p *previewColumn) Title() string {
	return p.title
}

func (p *previewColumn) FocusValue() string {
	return ""
}
