package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	authdto "smartlib/internal/modules/auth/dto"
	catalogdto "smartlib/internal/modules/catalog/dto"
	dashdto "smartlib/internal/modules/dashboard/dto"
	libdto "smartlib/internal/modules/library/dto"
	readingdto "smartlib/internal/modules/reading/dto"
	apperrors "smartlib/internal/platform/errors"
	"smartlib/internal/ui/components"
	"smartlib/internal/ui/theme"
	dashboardview "smartlib/internal/ui/views/dashboard"
	discoverview "smartlib/internal/ui/views/discover"
	libraryview "smartlib/internal/ui/views/library"
	timerview "smartlib/internal/ui/views/timer"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type AuthPort interface {
	Status(ctx context.Context) authdto.StatusOutput
	OnSignOut(fn func())
}

type LibraryPort interface {
	libraryview.Port
	Add(ctx context.Context, input libdto.AddInput) ([]libdto.EntryOutput, error)
	Update(ctx context.Context, input libdto.UpdateInput) ([]libdto.EntryOutput, error)
	Remove(ctx context.Context, entryID int64) ([]libdto.EntryOutput, error)
}

type ReadingPort interface {
	timerview.Port
	Start(ctx context.Context, input readingdto.StartInput) (readingdto.StateOutput, error)
	Finish(ctx context.Context, entryID int64) ([]libdto.EntryOutput, error)
	Drop(ctx context.Context, entryID int64) ([]libdto.EntryOutput, error)
	Abandon(ctx context.Context)
}

type DashboardPort interface {
	dashboardview.Port
	SetGoals(ctx context.Context, input dashdto.GoalsInput) (dashdto.GoalsOutput, error)
}

type CatalogPort = discoverview.Port

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabDashboard tabID = iota
	tabLibrary
	tabDiscover
	tabReading
	tabCount
)

var tabLabels = [tabCount]string{
	"Dashboard", "Library", "Discover", "Reading",
}

// ─── async messages ───────────────────────────────────────────────────────────

type signedOutMsg struct{}

type startedMsg struct {
	state readingdto.StateOutput
	err   error
}

// writeMsg is the outcome of a library write; entries are the list re-fetched after it.
type writeMsg struct {
	done    string
	entries []libdto.EntryOutput
	err     error
}

type goalsSetMsg struct {
	goals dashdto.GoalsOutput
	err   error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab       key.Binding
	Help      key.Binding
	Palette   key.Binding
	Quit      key.Binding
	Start     key.Binding
	Stop      key.Binding
	Finish    key.Binding
	Drop      key.Binding
	Add       key.Binding
	Recommend key.Binding
	Search    key.Binding
	Filter    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:   key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Start:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start timer")),
		Stop:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop timer")),
		Finish:    key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "finish book")),
		Drop:      key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "drop book")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to library")),
		Recommend: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recommend / reload")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search catalog")),
		Filter:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "filter status")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Start, k.Stop},
		{k.Finish, k.Drop, k.Filter},
		{k.Search, k.Add, k.Recommend},
		{k.Help, k.Palette, k.Quit},
	}
}

// hints must stay in sync with the switch in executePalette.
var paletteHints = []string{
	"read:start",
	"read:stop",
	"read:confirm <page>",
	"read:cancel",
	"library:status <to_read|reading|finished|dropped>",
	"library:rate <1-5>",
	"library:progress <0-100>",
	"library:remove",
	"finish",
	"drop",
	"search <query>",
	"recommend",
	"goals:set <books-per-month> <minutes-per-day>",
	"refresh",
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the reading session badge, the
// global help overlay and the command palette. Business logic lives behind the ports; rendering
// is delegated to sub-views.
type Model struct {
	auth      AuthPort
	library   LibraryPort
	reading   ReadingPort
	dashboard DashboardPort
	catalog   CatalogPort

	signOuts chan struct{}

	dashView     dashboardview.Model
	libView      libraryview.Model
	discoverView discoverview.Model
	timerView    timerview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	// quitArmed is set by a first quit key while a session is running.
	quitArmed bool
	signedOut bool
	status    string
	width     int
	height    int
}

func NewModel(auth AuthPort, library LibraryPort, reading ReadingPort, dashboard DashboardPort, catalog CatalogPort) Model {
	m := Model{
		auth:         auth,
		library:      library,
		reading:      reading,
		dashboard:    dashboard,
		catalog:      catalog,
		signOuts:     make(chan struct{}, 1),
		dashView:     dashboardview.New(dashboard),
		libView:      libraryview.New(library),
		discoverView: discoverview.New(catalog),
		timerView:    timerview.New(reading),
		activeTab:    tabDashboard,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(paletteHints),
		status:       "ready",
	}
	signOuts := m.signOuts
	auth.OnSignOut(func() {
		select {
		case signOuts <- struct{}{}:
		default:
		}
	})
	if !auth.Status(context.Background()).Authenticated {
		m.status = "not logged in · run `smartlib login`"
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.dashView.Init(),
		m.libView.Init(),
		m.discoverView.Init(),
		m.timerView.Init(),
		m.waitForSignOut(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		if _, isKey := msg.(tea.KeyMsg); isKey {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case signedOutMsg:
		m.signedOut = true
		m.status = apperrors.SessionExpiredMessage
		m.timerView.Refresh()
		m.libView.SetActive(0)
		return m, m.waitForSignOut()

	case startedMsg:
		if msg.err != nil {
			m.status = "start: " + msg.err.Error()
			return m, nil
		}
		m.timerView.Refresh()
		m.libView.SetActive(msg.state.EntryID)
		m.activeTab = tabReading
		m.status = "reading " + msg.state.BookTitle

	case writeMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.status = msg.done
		cmds = append(cmds, m.refreshAfterWrite(msg.entries)...)
		return m, tea.Batch(cmds...)

	case goalsSetMsg:
		if msg.err != nil {
			m.status = "goals: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("goals set: %d books/month, %d min/day", msg.goals.BooksPerMonth, msg.goals.MinutesPerDay)
		return m, m.dashView.Reload()

	case timerview.SavedMsg:
		var cmd tea.Cmd
		m.timerView, cmd = m.timerView.Update(msg)
		cmds = append(cmds, cmd)
		if msg.Err != nil {
			m.status = "save: " + msg.Err.Error()
			return m, tea.Batch(cmds...)
		}
		m.libView.SetActive(0)
		m.status = fmt.Sprintf("saved %d min, +%d pages", msg.Result.Record.MinutesRead, msg.Result.Record.PagesRead)
		cmds = append(cmds, m.refreshAfterWrite(msg.Entries)...)
		return m, tea.Batch(cmds...)

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Everything else (loads, spinner and clock ticks) is routed to every sub-view; each ignores
	// what it does not own.
	var cmd tea.Cmd
	m.dashView, cmd = m.dashView.Update(msg)
	cmds = append(cmds, cmd)
	m.libView, cmd = m.libView.Update(msg)
	cmds = append(cmds, cmd)
	m.discoverView, cmd = m.discoverView.Update(msg)
	cmds = append(cmds, cmd)
	m.timerView, cmd = m.timerView.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		if msg.String() == "?" || msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}

	if msg.String() == "ctrl+c" || (msg.String() == "q" && !m.subViewTyping()) {
		return m.quit()
	}
	m.quitArmed = false

	// Yield to sub-views that own the keyboard.
	if m.subViewTyping() {
		return m.forwardKey(msg)
	}

	switch msg.String() {
	case "tab":
		m.activeTab = (m.activeTab + 1) % tabCount
		return m, nil
	case "shift+tab":
		m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		return m, nil
	case "?":
		m.showHelp = true
		return m, nil
	case ":":
		cmd := m.palette.Open()
		return m, cmd
	}

	switch m.activeTab {
	case tabDashboard:
		if msg.String() == "r" {
			return m, m.dashView.Reload()
		}
	case tabLibrary:
		switch msg.String() {
		case "s":
			return m, m.startSelected()
		case "F":
			return m, m.changeSelected("finish")
		case "D":
			return m, m.changeSelected("drop")
		}
	case tabDiscover:
		switch msg.String() {
		case "a":
			return m, m.addSelected()
		case "r":
			cmd := m.discoverView.Recommend(candidatesFrom(m.libView.Entries()))
			return m, cmd
		}
	}
	return m.forwardKey(msg)
}

func (m Model) forwardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.activeTab {
	case tabDashboard:
		m.dashView, cmd = m.dashView.Update(msg)
	case tabLibrary:
		m.libView, cmd = m.libView.Update(msg)
	case tabDiscover:
		m.discoverView, cmd = m.discoverView.Update(msg)
	case tabReading:
		m.timerView, cmd = m.timerView.Update(msg)
	}
	return m, cmd
}

// quit leaves at once when nothing is being timed. A running session is not persisted, so the
// first quit only warns and the second abandons it.
func (m Model) quit() (tea.Model, tea.Cmd) {
	if !running(m.timerView.State()) {
		return m, tea.Quit
	}
	if !m.quitArmed {
		m.quitArmed = true
		m.status = "the reading session will be lost · press q again to quit"
		return m, nil
	}
	m.reading.Abandon(context.Background())
	return m, tea.Quit
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabDashboard:
		return m.dashView.View()
	case tabLibrary:
		return m.libView.View()
	case tabDiscover:
		return m.discoverView.View()
	case tabReading:
		return m.timerView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "smartlib  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.signedOut {
		left = theme.Error.Render(left)
	}
	if st := m.timerView.State(); running(st) {
		left = theme.Hot.Render("● "+st.BookTitle+" "+timerview.FormatElapsed(st.ElapsedSeconds)) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	entry, hasEntry := m.libView.Selected()

	switch parts[0] {
	case "read:start":
		return m, m.startSelected()

	case "read:stop":
		m.activeTab = tabReading
		cmd := m.timerView.Stop()
		return m, cmd

	case "read:confirm":
		if len(parts) < 2 {
			m.status = "usage: read:confirm <page>"
			return m, nil
		}
		page, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "Current page must be a non-negative integer."
			return m, nil
		}
		m.activeTab = tabReading
		cmd := m.timerView.Confirm(page)
		return m, cmd

	case "read:cancel":
		m.activeTab = tabReading
		return m.forwardKey(tea.KeyMsg{Type: tea.KeyEsc})

	case "library:status", "library:rate", "library:progress":
		if !hasEntry {
			m.status = "no library entry selected"
			return m, nil
		}
		if len(parts) < 2 {
			m.status = "usage: " + parts[0] + " <value>"
			return m, nil
		}
		upd, err := updateInput(entry.ID, parts[0], parts[1])
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		return m, m.writeCmd("updated "+entry.Title, func(ctx context.Context) ([]libdto.EntryOutput, error) {
			return m.library.Update(ctx, upd)
		})

	case "library:remove":
		if !hasEntry {
			m.status = "no library entry selected"
			return m, nil
		}
		if st := m.timerView.State(); st.EntryID == entry.ID && running(st) {
			m.status = "Please stop the active session first and enter current page."
			return m, nil
		}
		return m, m.writeCmd("removed "+entry.Title, func(ctx context.Context) ([]libdto.EntryOutput, error) {
			return m.library.Remove(ctx, entry.ID)
		})

	case "finish", "drop":
		return m, m.changeSelected(parts[0])

	case "search":
		query := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		if query == "" {
			m.status = "usage: search <query>"
			return m, nil
		}
		m.activeTab = tabDiscover
		cmd := m.discoverView.Search(query)
		return m, cmd

	case "recommend":
		m.activeTab = tabDiscover
		cmd := m.discoverView.Recommend(candidatesFrom(m.libView.Entries()))
		return m, cmd

	case "goals:set":
		if len(parts) < 3 {
			m.status = "usage: goals:set <books-per-month> <minutes-per-day>"
			return m, nil
		}
		books, err1 := strconv.Atoi(parts[1])
		minutes, err2 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil {
			m.status = "goals must be whole numbers"
			return m, nil
		}
		dashboard := m.dashboard
		return m, func() tea.Msg {
			goals, err := dashboard.SetGoals(context.Background(), dashdto.GoalsInput{BooksPerMonth: books, MinutesPerDay: minutes})
			return goalsSetMsg{goals: goals, err: err}
		}

	case "refresh":
		return m, tea.Batch(m.libView.Reload(), m.dashView.Reload())

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) subViewTyping() bool {
	switch m.activeTab {
	case tabLibrary:
		return m.libView.Filtering()
	case tabDiscover:
		return m.discoverView.Typing()
	case tabReading:
		return m.timerView.Editing()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.dashView, _ = m.dashView.Update(sz)
	m.libView, _ = m.libView.Update(sz)
	m.discoverView, _ = m.discoverView.Update(sz)
	m.timerView, _ = m.timerView.Update(sz)
}

// refreshAfterWrite shows the re-fetched entries and recomputes the dashboard.
func (m *Model) refreshAfterWrite(entries []libdto.EntryOutput) []tea.Cmd {
	var cmd tea.Cmd
	m.libView, cmd = m.libView.Update(libraryview.EntriesLoadedMsg{Entries: entries})
	return []tea.Cmd{cmd, m.dashView.Reload()}
}

func updateInput(entryID int64, command, raw string) (libdto.UpdateInput, error) {
	input := libdto.UpdateInput{EntryID: entryID}
	switch command {
	case "library:status":
		status := strings.ToUpper(raw)
		input.Status = &status
	case "library:rate", "library:progress":
		n, err := strconv.Atoi(raw)
		if err != nil {
			return input, apperrors.Validation("%s expects a number", strings.TrimPrefix(command, "library:"))
		}
		if command == "library:rate" {
			input.Rating = &n
		} else {
			input.ProgressPercent = &n
		}
	}
	return input, nil
}

func running(state readingdto.StateOutput) bool {
	return state.Phase == "active" || state.Phase == "stopping"
}

func candidatesFrom(entries []libdto.EntryOutput) []catalogdto.Candidate {
	out := make([]catalogdto.Candidate, 0, len(entries))
	for _, e := range entries {
		out = append(out, catalogdto.Candidate{Title: e.Title, Author: e.Author, Status: e.Status, Rating: e.Rating})
	}
	return out
}

// ─── async commands ───────────────────────────────────────────────────────────

// waitForSignOut turns the next sign-out broadcast into a message for the event loop.
func (m Model) waitForSignOut() tea.Cmd {
	ch := m.signOuts
	return func() tea.Msg {
		<-ch
		return signedOutMsg{}
	}
}

func (m Model) startSelected() tea.Cmd {
	entry, ok := m.libView.Selected()
	if !ok {
		return nil
	}
	reading := m.reading
	return func() tea.Msg {
		state, err := reading.Start(context.Background(), readingdto.StartInput{EntryID: entry.ID, BookID: entry.BookID, BookTitle: entry.Title})
		return startedMsg{state: state, err: err}
	}
}

func (m Model) changeSelected(action string) tea.Cmd {
	entry, ok := m.libView.Selected()
	if !ok {
		return nil
	}
	reading := m.reading
	if action == "finish" {
		return m.writeCmd("finished "+entry.Title, func(ctx context.Context) ([]libdto.EntryOutput, error) {
			return reading.Finish(ctx, entry.ID)
		})
	}
	return m.writeCmd("dropped "+entry.Title, func(ctx context.Context) ([]libdto.EntryOutput, error) {
		return reading.Drop(ctx, entry.ID)
	})
}

func (m Model) addSelected() tea.Cmd {
	book, ok := m.discoverView.Selected()
	if !ok {
		return nil
	}
	library := m.library
	return m.writeCmd("added "+book.Title, func(ctx context.Context) ([]libdto.EntryOutput, error) {
		return library.Add(ctx, libdto.AddInput{BookID: book.ID})
	})
}

func (m Model) writeCmd(done string, write func(ctx context.Context) ([]libdto.EntryOutput, error)) tea.Cmd {
	return func() tea.Msg {
		entries, err := write(context.Background())
		return writeMsg{done: done, entries: entries, err: err}
	}
}
