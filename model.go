package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

const problemPageSize = 100

type focusArea int

const (
	focusProblems focusArea = iota
	focusLanguages
	focusPreview
)

type inputMode int

const (
	inputNone inputMode = iota
	inputCookie
	inputTestInput
	inputSearch
)

type problemsLoadedMsg struct {
	questions []question
	all       bool
	err       error
}

type userLoadedMsg struct {
	user *userProfile
}

type detailLoadedMsg struct {
	detail *questionDetail
	err    error
}

type dailyLoadedMsg struct {
	daily *dailyQuestion
	err   error
}

type signInResultMsg struct {
	status authStatus
}

type authCheckedMsg struct {
	status authStatus
}

type signedOutMsg struct {
	err error
}

type starterCreatedMsg struct {
	path    string
	created bool
	lang    string
	title   string
	err     error
}

type editorOpenedMsg struct {
	output string
	err    error
}

type historyLoadedMsg struct {
	entries []historyEntry
	err     error
}

type problemChosenMsg struct {
	item problemItem
}

type languageChosenMsg struct {
	snippet codeSnippet
}

type keyMap struct {
	quit       key.Binding
	nextFocus  key.Binding
	prevFocus  key.Binding
	refresh    key.Binding
	search     key.Binding
	signIn     key.Binding
	signOut    key.Binding
	authStatus key.Binding
	daily      key.Binding
	runTests   key.Binding
	customTest key.Binding
	submit     key.Binding
	history    key.Binding
	copyLink   key.Binding
	openEditor key.Binding
	toggleLogs key.Binding
	toggleHelp key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		nextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next panel"),
		),
		prevFocus: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev panel"),
		),
		refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh problems"),
		),
		search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		signIn: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "sign in"),
		),
		signOut: key.NewBinding(
			key.WithKeys("I"),
			key.WithHelp("I", "sign out"),
		),
		authStatus: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "auth status"),
		),
		daily: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "daily question"),
		),
		runTests: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "run tests"),
		),
		customTest: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "custom test"),
		),
		submit: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "submit"),
		),
		history: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "history"),
		),
		copyLink: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy link"),
		),
		openEditor: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open in editor"),
		),
		toggleLogs: key.NewBinding(
			key.WithKeys("f6"),
			key.WithHelp("F6", "toggle logs"),
		),
		toggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.nextFocus,
		k.search,
		k.runTests,
		k.submit,
		k.daily,
		k.history,
		k.toggleHelp,
		k.quit,
	}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.nextFocus, k.prevFocus, k.refresh, k.search},
		{k.signIn, k.signOut, k.authStatus},
		{k.runTests, k.customTest, k.submit},
		{k.daily, k.history, k.copyLink, k.openEditor},
		{k.toggleLogs, k.toggleHelp, k.quit},
	}
}

type model struct {
	width  int
	height int

	styles styles
	keys   keyMap
	help   help.Model

	client    *leetClient
	creds     *credentialStore
	cfg       *uiConfig
	cfgPath   string
	workspace string
	log       zerolog.Logger

	problemsCol  *problemColumn
	languagesCol *selectableColumn
	previewCol   *previewColumn
	columns      []column
	focus        int

	showLogs   bool
	logsHeight int
	logs       viewport.Model
	logLines   []string

	inputActive bool
	inputMode   inputMode
	inputPrompt string
	inputField  textinput.Model

	spinner        spinner.Model
	spinnerActive  bool
	spinnerMessage string

	toastMessage string
	toastExpires time.Time

	username      string
	allLoaded     bool
	currentDetail *questionDetail
	solutionPath  string
	busy          bool
}

func newModel(client *leetClient, creds *credentialStore, cfg *uiConfig, cfgPath string, logger zerolog.Logger) *model {
	s := newStyles()
	m := &model{
		styles:     s,
		keys:       newKeyMap(),
		help:       help.New(),
		client:     client,
		creds:      creds,
		cfg:        cfg,
		cfgPath:    cfgPath,
		workspace:  resolveWorkspace(cfg),
		log:        logger,
		showLogs:   true,
		logsHeight: 8,
		logLines: []string{
			"[INFO] Press r to refresh problems, i to sign in with your session cookie.",
			"[TIP] Enter on a problem loads it; pick a language to create the solution file.",
		},
	}

	m.help.ShortSeparator = " │ "
	m.help.Styles.ShortKey = m.styles.statusHint.Copy()
	m.help.Styles.ShortDesc = m.styles.statusHint.Copy()
	m.help.Styles.ShortSeparator = m.styles.statusSeg.Copy()
	m.help.Styles.FullKey = m.styles.statusHint.Copy()
	m.help.Styles.FullDesc = m.styles.statusHint.Copy()
	m.help.Styles.FullSeparator = m.styles.statusSeg.Copy()

	m.inputField = textinput.New()
	m.inputField.Prompt = "> "
	m.inputField.CharLimit = 4096
	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot))
	m.spinner.Style = m.styles.statusHint.Copy().Bold(true)

	m.problemsCol = newProblemColumn("Problems", s)
	m.problemsCol.SetOnSelect(func(item problemItem) tea.Cmd {
		return func() tea.Msg { return problemChosenMsg{item: item} }
	})

	m.languagesCol = newSelectableColumn("Language", nil, 26, func(entry listEntry) tea.Cmd {
		if snippet, ok := entry.payload.(codeSnippet); ok {
			return func() tea.Msg { return languageChosenMsg{snippet: snippet} }
		}
		return nil
	}, s)

	m.previewCol = newPreviewColumn(60)
	m.previewCol.SetContent(renderMarkdown("# leetterm\n\nSelect a problem to see its description here."))

	m.columns = []column{m.problemsCol, m.languagesCol, m.previewCol}
	return m
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.loadProblemsCmd(false)}
	if m.creds.IsLoggedIn() {
		cmds = append(cmds, m.loadUserCmd())
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if tick, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(tick)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	if m.inputActive {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.closeInput()
				return m, tea.Batch(cmds...)
			case "ctrl+p":
				if pasted, err := clipboard.ReadAll(); err == nil {
					m.inputField.SetValue(strings.TrimSpace(pasted))
				} else {
					m.setToast("Clipboard unavailable: "+err.Error(), 4*time.Second)
				}
				return m, tea.Batch(cmds...)
			case "enter":
				value := m.inputField.Value()
				if m.inputMode != inputTestInput {
					value = strings.TrimSpace(value)
				}
				if cmd := m.handleInputSubmit(value); cmd != nil {
					cmds = append(cmds, cmd)
				}
				m.closeInput()
				return m, tea.Batch(cmds...)
			}
		}
		var cmd tea.Cmd
		m.inputField, cmd = m.inputField.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	switch message := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = message.Width, message.Height
		m.applyLayout()
		return m, nil
	case tea.KeyMsg:
		if handled, cmd := m.handleGlobalKey(message); handled {
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
			return m, tea.Batch(cmds...)
		}
	}

	if m.focus >= 0 && m.focus < len(m.columns) {
		col := m.columns[m.focus]
		var cmd tea.Cmd
		m.columns[m.focus], cmd = col.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	switch message := msg.(type) {
	case problemsLoadedMsg:
		m.handleProblemsLoaded(message)
	case userLoadedMsg:
		if message.user != nil {
			m.username = message.user.Username
			m.appendLog("[INFO] Signed in as " + m.username)
		}
	case problemChosenMsg:
		if cmd := m.handleProblemChosen(message.item); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case detailLoadedMsg:
		m.handleDetailLoaded(message)
	case dailyLoadedMsg:
		if cmd := m.handleDailyLoaded(message); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case languageChosenMsg:
		if cmd := m.handleLanguageChosen(message.snippet); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case starterCreatedMsg:
		if cmd := m.handleStarterCreated(message); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case editorOpenedMsg:
		if message.err != nil {
			m.setToast("Editor: "+message.err.Error(), 5*time.Second)
			m.appendLog("[WARN] editor launch failed: " + message.err.Error())
		}
	case signInResultMsg:
		if cmd := m.handleSignInResult(message.status); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case authCheckedMsg:
		m.handleAuthChecked(message.status)
	case signedOutMsg:
		m.username = ""
		m.setToast("Signed out", 3*time.Second)
		m.appendLog("[INFO] Signed out")
		cmds = append(cmds, m.loadProblemsCmd(false))
	case historyLoadedMsg:
		m.handleHistoryLoaded(message)
	case judgeProgressMsg:
		m.appendLog(message.line)
	case runFinishedMsg:
		m.handleRunFinished(message)
	case submitFinishedMsg:
		m.handleSubmitFinished(message)
	}

	m.applyLayout()
	return m, tea.Batch(cmds...)
}

func (m *model) View() string {
	var builder strings.Builder

	helpWidth := m.width - 4
	if helpWidth < 0 {
		helpWidth = 0
	}
	m.help.Width = helpWidth

	title := "leetterm"
	if m.username != "" {
		title += " • " + m.username
	}
	if m.currentDetail != nil {
		title += " • " + m.currentDetail.Title
	}
	builder.WriteString(m.styles.topBar.Width(m.width).Render(title))
	builder.WriteRune('\n')

	var colViews []string
	for i, col := range m.columns {
		colViews = append(colViews, col.View(m.styles, i == m.focus))
	}
	builder.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, colViews...))
	builder.WriteRune('\n')

	if m.showLogs {
		logTitle := m.styles.columnTitle.Render("Activity")
		builder.WriteString(m.styles.panel.Width(m.width).Render(logTitle + "\n" + m.logs.View()))
		builder.WriteRune('\n')
	}

	if helpView := m.help.View(m.keys); helpView != "" {
		builder.WriteString(helpView)
		if !strings.HasSuffix(helpView, "\n") {
			builder.WriteRune('\n')
		}
	}

	builder.WriteString(m.renderStatus())

	if m.inputActive {
		overlayWidth := minInt(72, m.width-4)
		if overlayWidth < 24 {
			overlayWidth = 24
		}
		var content strings.Builder
		content.WriteString(m.styles.cmdPrompt.Render(m.inputPrompt))
		content.WriteRune('\n')
		content.WriteString(m.inputField.View())
		content.WriteRune('\n')
		hints := []string{"enter confirm", "esc cancel"}
		if m.inputMode == inputCookie {
			hints = append([]string{"ctrl+p paste clipboard"}, hints...)
		}
		if m.inputMode == inputTestInput {
			hints = append([]string{`use \n for newlines`}, hints...)
		}
		content.WriteString(m.styles.cmdHint.Render(strings.Join(hints, " • ")))
		overlay := m.styles.cmdOverlay.Width(overlayWidth).Render(content.String())
		builder.WriteString("\n")
		builder.WriteString(lipgloss.Place(m.width, m.height/2, lipgloss.Center, lipgloss.Center, overlay))
	}

	return m.styles.app.Render(builder.String())
}

func (m *model) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return true, tea.Quit
	case key.Matches(msg, m.keys.nextFocus):
		m.focus = (m.focus + 1) % len(m.columns)
		return true, nil
	case key.Matches(msg, m.keys.prevFocus):
		m.focus = (m.focus - 1 + len(m.columns)) % len(m.columns)
		return true, nil
	case key.Matches(msg, m.keys.toggleLogs):
		m.showLogs = !m.showLogs
		m.applyLayout()
		return true, nil
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		m.applyLayout()
		return true, nil
	case key.Matches(msg, m.keys.refresh):
		m.showSpinner("Refreshing problems")
		return true, m.loadProblemsCmd(m.allLoaded)
	case key.Matches(msg, m.keys.search):
		m.openInput("Search problems", "two sum", inputSearch)
		return true, nil
	case key.Matches(msg, m.keys.signIn):
		m.openInput("Paste your LeetCode cookie (needs csrftoken and LEETCODE_SESSION)", "csrftoken=...; LEETCODE_SESSION=...", inputCookie)
		return true, nil
	case key.Matches(msg, m.keys.signOut):
		return true, m.signOutCmd()
	case key.Matches(msg, m.keys.authStatus):
		m.showSpinner("Checking session")
		return true, m.authStatusCmd()
	case key.Matches(msg, m.keys.daily):
		m.showSpinner("Fetching daily question")
		return true, m.loadDailyCmd()
	case key.Matches(msg, m.keys.runTests):
		return true, m.startRun("")
	case key.Matches(msg, m.keys.customTest):
		m.openInput("Custom test input", `[2,7,11,15]\n9`, inputTestInput)
		return true, nil
	case key.Matches(msg, m.keys.submit):
		return true, m.startSubmit()
	case key.Matches(msg, m.keys.history):
		return true, m.loadHistoryCmd()
	case key.Matches(msg, m.keys.copyLink):
		m.copyProblemLink()
		return true, nil
	case key.Matches(msg, m.keys.openEditor):
		return true, m.openEditorCmd()
	}
	if msg.String() == "esc" && m.problemsCol.filter != "" {
		m.problemsCol.SetFilter("")
		m.setToast("Search cleared", 2*time.Second)
		return true, nil
	}
	return false, nil
}

func (m *model) handleInputSubmit(value string) tea.Cmd {
	switch m.inputMode {
	case inputCookie:
		return m.signInCmd(value)
	case inputTestInput:
		if strings.TrimSpace(value) == "" {
			m.setToast("Test input is empty", 3*time.Second)
			return nil
		}
		// the overlay is single-line; literal \n separates testcase lines
		return m.startRun(strings.ReplaceAll(value, `\n`, "\n"))
	case inputSearch:
		m.problemsCol.SetFilter(value)
		if value != "" && !m.allLoaded {
			m.showSpinner("Loading full problem set")
			return m.loadProblemsCmd(true)
		}
	}
	return nil
}

func (m *model) loadProblemsCmd(all bool) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		var (
			qs  []question
			err error
		)
		if all {
			qs, err = client.GetAllProblems()
		} else {
			qs, err = client.GetProblems(problemPageSize, 0, "")
		}
		return problemsLoadedMsg{questions: qs, all: all, err: err}
	}
}

func (m *model) loadUserCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		user, _ := client.GetUser()
		return userLoadedMsg{user: user}
	}
}

func (m *model) loadDetailCmd(slug string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		detail, err := client.GetProblemDetail(slug)
		return detailLoadedMsg{detail: detail, err: err}
	}
}

func (m *model) loadDailyCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		daily, err := client.GetDailyQuestion()
		return dailyLoadedMsg{daily: daily, err: err}
	}
}

func (m *model) signInCmd(cookie string) tea.Cmd {
	client := m.client
	creds := m.creds
	return func() tea.Msg {
		if err := validateCookieShape(cookie); err != nil {
			return signInResultMsg{status: authStatus{Err: err.Error()}}
		}
		if err := creds.SetCookie(cookie); err != nil {
			return signInResultMsg{status: authStatus{Err: "failed to store cookie: " + err.Error()}}
		}
		return signInResultMsg{status: client.VerifyAuth()}
	}
}

func (m *model) authStatusCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return authCheckedMsg{status: client.VerifyAuth()}
	}
}

func (m *model) signOutCmd() tea.Cmd {
	creds := m.creds
	return func() tea.Msg {
		return signedOutMsg{err: creds.DeleteCookie()}
	}
}

func (m *model) loadHistoryCmd() tea.Cmd {
	workspace := m.workspace
	return func() tea.Msg {
		entries, err := loadHistory(workspace)
		return historyLoadedMsg{entries: entries, err: err}
	}
}

func (m *model) openEditorCmd() tea.Cmd {
	path := m.solutionPath
	if path == "" {
		m.setToast("No solution file yet; open a problem first", 4*time.Second)
		return nil
	}
	return func() tea.Msg {
		out, err := launchEditor(path)
		return editorOpenedMsg{output: out, err: err}
	}
}

func (m *model) handleProblemsLoaded(msg problemsLoadedMsg) {
	m.hideSpinner()
	if msg.err != nil {
		if isAuthFailure(msg.err) {
			m.problemsCol.SetEntries([]problemItem{signInEntry{reason: msg.err.Error()}})
			m.appendLog("[WARN] " + msg.err.Error())
			return
		}
		m.problemsCol.SetEntries(nil)
		m.setToast("Failed to load problems: "+msg.err.Error(), 6*time.Second)
		m.appendLog("[ERROR] " + msg.err.Error())
		m.log.Error().Err(msg.err).Msg("load problems")
		return
	}
	if !m.creds.IsLoggedIn() {
		m.problemsCol.SetEntries([]problemItem{signInEntry{}})
		return
	}
	items := make([]problemItem, 0, len(msg.questions))
	for _, q := range msg.questions {
		items = append(items, problemEntry{question: q})
	}
	m.problemsCol.SetEntries(items)
	m.allLoaded = m.allLoaded || msg.all
	m.appendLog(fmt.Sprintf("[INFO] Loaded %d problems", len(msg.questions)))
}

func (m *model) handleProblemChosen(item problemItem) tea.Cmd {
	switch entry := item.(type) {
	case signInEntry:
		m.openInput("Paste your LeetCode cookie (needs csrftoken and LEETCODE_SESSION)", "csrftoken=...; LEETCODE_SESSION=...", inputCookie)
		return nil
	case problemEntry:
		m.showSpinner("Loading " + entry.question.Title)
		return m.loadDetailCmd(entry.question.TitleSlug)
	}
	return nil
}

func (m *model) handleDetailLoaded(msg detailLoadedMsg) {
	m.hideSpinner()
	if msg.err != nil {
		m.setToast(msg.err.Error(), 6*time.Second)
		m.appendLog("[ERROR] " + msg.err.Error())
		return
	}
	m.currentDetail = msg.detail
	m.previewCol.SetTitle(msg.detail.Title)
	m.previewCol.SetContent(renderMarkdown(renderProblemMarkdown(msg.detail)))
	m.languagesCol.SetItems(languageEntries(msg.detail.CodeSnippets, m.cfg.Language))
	m.focus = int(focusLanguages)
	m.appendLog("[INFO] Loaded problem " + msg.detail.TitleSlug)
}

func (m *model) handleDailyLoaded(msg dailyLoadedMsg) tea.Cmd {
	m.hideSpinner()
	if msg.err != nil {
		m.setToast("Daily question: "+msg.err.Error(), 5*time.Second)
		return nil
	}
	q := msg.daily.Question
	m.setToast(fmt.Sprintf("Daily (%s): %s", msg.daily.Date, q.Title), 6*time.Second)
	m.problemsCol.SelectSlug(q.TitleSlug)
	m.showSpinner("Loading " + q.Title)
	return m.loadDetailCmd(q.TitleSlug)
}

func (m *model) handleLanguageChosen(snippet codeSnippet) tea.Cmd {
	if m.currentDetail == nil {
		return nil
	}
	detail := m.currentDetail
	workspace := m.workspace
	return func() tea.Msg {
		ext := extensionForLangSlug(snippet.LangSlug)
		code := normalizeCode(snippet.Code)
		path, created, err := createStarterFile(workspace, detail.TitleSlug, ext, code)
		return starterCreatedMsg{path: path, created: created, lang: snippet.LangSlug, title: detail.Title, err: err}
	}
}

func (m *model) handleStarterCreated(msg starterCreatedMsg) tea.Cmd {
	if msg.err != nil {
		m.setToast("Cannot create file: "+msg.err.Error(), 6*time.Second)
		m.appendLog("[ERROR] " + msg.err.Error())
		return nil
	}
	m.solutionPath = msg.path
	if msg.created {
		m.setToast("Created "+msg.path, 4*time.Second)
		m.appendLog("[INFO] Created solution file " + msg.path)
	} else {
		m.setToast("Opening existing "+msg.path, 4*time.Second)
	}
	if m.cfg.Language != msg.lang {
		m.cfg.Language = msg.lang
		if err := saveUIConfig(m.cfg, m.cfgPath); err != nil {
			m.appendLog("[WARN] failed to save config: " + err.Error())
		}
	}
	return m.openEditorCmd()
}

func (m *model) handleSignInResult(status authStatus) tea.Cmd {
	if status.Err != "" {
		// a cookie that fails verification is useless; drop it
		_ = m.creds.DeleteCookie()
		m.username = ""
		m.setToast("Sign in failed: "+status.Err, 6*time.Second)
		m.appendLog("[ERROR] Sign in failed: " + status.Err)
		m.log.Warn().Str("reason", status.Err).Msg("sign in failed")
		return nil
	}
	m.username = status.Username
	m.setToast("Signed in as "+status.Username, 4*time.Second)
	m.appendLog("[INFO] Signed in as " + status.Username)
	m.showSpinner("Loading problems")
	return m.loadProblemsCmd(false)
}

func (m *model) handleAuthChecked(status authStatus) {
	m.hideSpinner()
	if status.Err != "" {
		m.setToast("Session: "+status.Err, 6*time.Second)
		m.appendLog("[WARN] Session check: " + status.Err)
		return
	}
	note := ""
	if age, ok := m.creds.SessionAge(); ok {
		note = fmt.Sprintf(" (verified %s ago)", formatDurationShort(age))
	}
	m.username = status.Username
	m.setToast("Session valid for "+status.Username+note, 5*time.Second)
}

func (m *model) handleHistoryLoaded(msg historyLoadedMsg) {
	if msg.err != nil {
		m.setToast("History: "+msg.err.Error(), 5*time.Second)
		return
	}
	m.previewCol.SetTitle("Submission history")
	m.previewCol.SetContent(renderMarkdown(renderHistoryMarkdown(msg.entries)))
	m.focus = int(focusPreview)
}

func (m *model) copyProblemLink() {
	item, ok := m.problemsCol.SelectedItem()
	if !ok {
		return
	}
	entry, ok := item.(problemEntry)
	if !ok {
		return
	}
	link := fmt.Sprintf("%s/problems/%s/", strings.TrimRight(m.client.baseURL, "/"), entry.question.TitleSlug)
	if err := clipboard.WriteAll(link); err != nil {
		m.setToast("Clipboard unavailable: "+err.Error(), 4*time.Second)
		return
	}
	m.setToast("Copied "+link, 3*time.Second)
}

func languageEntries(snippets []codeSnippet, preferred string) []list.Item {
	ordered := make([]codeSnippet, 0, len(snippets))
	for _, snippet := range snippets {
		if snippet.LangSlug == preferred {
			ordered = append([]codeSnippet{snippet}, ordered...)
			continue
		}
		ordered = append(ordered, snippet)
	}
	items := make([]list.Item, 0, len(ordered))
	for _, snippet := range ordered {
		items = append(items, listEntry{
			title:   snippet.Lang,
			desc:    extensionForLangSlug(snippet.LangSlug),
			payload: snippet,
		})
	}
	return items
}

func renderHistoryMarkdown(entries []historyEntry) string {
	if len(entries) == 0 {
		return "# Submission history\n\nNo submissions recorded yet."
	}
	var b strings.Builder
	b.WriteString("# Submission history\n\n")
	b.WriteString("| # | Problem | Lang | Status | When |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")
	for _, entry := range entries {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
			entry.ID, entry.Title, entry.Lang, entry.Status, entry.Timestamp)
	}
	return b.String()
}

func (m *model) openInput(prompt, placeholder string, mode inputMode) {
	m.inputActive = true
	m.inputMode = mode
	m.inputPrompt = prompt
	m.inputField.Placeholder = placeholder
	m.inputField.SetValue("")
	m.inputField.Focus()
}

func (m *model) closeInput() {
	m.inputActive = false
	m.inputMode = inputNone
	m.inputPrompt = ""
	m.inputField.Blur()
	m.inputField.SetValue("")
}

func (m *model) appendLog(line string) {
	if line == "" {
		return
	}
	m.logLines = append(m.logLines, line)
	if len(m.logLines) > 400 {
		m.logLines = m.logLines[len(m.logLines)-400:]
	}
	m.logs.SetContent(strings.Join(m.logLines, "\n"))
	m.logs.GotoBottom()
}

func (m *model) showSpinner(message string) {
	m.spinnerActive = true
	m.spinnerMessage = strings.TrimSpace(message)
}

func (m *model) hideSpinner() {
	m.spinnerActive = false
	m.spinnerMessage = ""
}

func (m *model) setToast(msg string, duration time.Duration) {
	trimmed := strings.TrimSpace(msg)
	if trimmed == "" {
		m.toastMessage = ""
		m.toastExpires = time.Time{}
		return
	}
	if duration <= 0 {
		duration = 5 * time.Second
	}
	m.toastMessage = trimmed
	m.toastExpires = time.Now().Add(duration)
}

func (m *model) renderStatus() string {
	focusTitle := m.columns[m.focus].Title()
	focusValue := strings.TrimSpace(m.columns[m.focus].FocusValue())
	if focusValue == "" {
		focusValue = "—"
	}

	segments := []string{
		m.styles.statusSeg.Render(fmt.Sprintf("%s: %s", focusTitle, focusValue)),
	}
	if m.username != "" {
		segments = append(segments, m.styles.statusSeg.Render("User: "+m.username))
	} else {
		segments = append(segments, m.styles.statusSeg.Render("Not signed in"))
	}
	if m.creds.IsLoggedIn() && m.creds.IsSessionPossiblyExpired() {
		segments = append(segments, m.styles.statusSeg.Render("Session may be stale — press i to refresh"))
	}
	segments = append(segments, m.styles.statusSeg.Render("Workspace: "+m.workspace))
	if m.spinnerActive {
		spin := m.spinner.View()
		if m.spinnerMessage != "" {
			spin = fmt.Sprintf("%s %s", spin, m.spinnerMessage)
		}
		segments = append(segments, m.styles.statusSeg.Render(spin))
	}
	if m.toastMessage != "" {
		if time.Now().After(m.toastExpires) {
			m.toastMessage = ""
		} else {
			segments = append(segments, m.styles.statusSeg.Render(m.toastMessage))
		}
	}
	content := strings.Join(segments, lipgloss.NewStyle().Render("│"))
	return m.styles.statusBar.Width(m.width).Render(content)
}

func (m *model) applyLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	topChrome := 1
	bottomChrome := 1
	helpWidth := m.width - 4
	if helpWidth < 0 {
		helpWidth = 0
	}
	m.help.Width = helpWidth
	if helpView := m.help.View(m.keys); helpView != "" {
		bottomChrome += lipgloss.Height(helpView)
	}

	bodyHeight := m.height - topChrome - bottomChrome
	if bodyHeight < 6 {
		bodyHeight = 6
	}

	if m.showLogs {
		bodyHeight -= m.logsHeight
		if bodyHeight < 3 {
			bodyHeight = 3
		}
		m.logs.Width = m.width - 2
		if m.logs.Width < 10 {
			m.logs.Width = m.width
		}
		m.logs.Height = m.logsHeight - 2
	}

	widths := []int{44, 24}
	remaining := m.width
	for i := range widths {
		if widths[i] > remaining {
			widths[i] = maxInt(remaining, 10)
		}
		remaining -= widths[i]
	}
	if remaining < 24 {
		remaining = 24
	}
	widths = append(widths, remaining)
	setMarkdownWordWrap(remaining - 4)

	for i, col := range m.columns {
		col.SetSize(widths[i], bodyHeight)
		m.columns[i] = col
	}
}

func formatDurationShort(d time.Duration) string {
	if d < time.Minute {
		return "moments"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
