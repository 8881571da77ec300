package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	libdto "smartlib/internal/modules/library/dto"
	"smartlib/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	List(ctx context.Context, status string) ([]libdto.EntryOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// EntriesLoadedMsg carries a fresh library listing. Writes elsewhere in the app emit it with
// the re-fetched entries so the list never shows optimistic state.
type EntriesLoadedMsg struct {
	Entries []libdto.EntryOutput
	Err     error
}

// ─── list item ───────────────────────────────────────────────────────────────

type entryItem struct {
	entry libdto.EntryOutput
}

func (i entryItem) Title() string { return i.entry.Title }
func (i entryItem) Description() string {
	desc := theme.StatusStyle(i.entry.Status).Render(i.entry.Status)
	if i.entry.ProgressPercent > 0 {
		desc += fmt.Sprintf("  %d%%", i.entry.ProgressPercent)
	}
	if i.entry.Rating > 0 {
		desc += "  " + strings.Repeat("★", i.entry.Rating)
	}
	return desc
}
func (i entryItem) FilterValue() string { return i.entry.Title + " " + i.entry.Author }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    Port
	list    list.Model
	preview viewport.Model
	spinner spinner.Model
	all     []libdto.EntryOutput
	filter  string
	active  int64
	loading bool
	width   int
	height  int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Library"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		list:    l,
		preview: vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case EntriesLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Library · " + msg.Err.Error()
			return m, nil
		}
		m.all = msg.Entries
		cmds = append(cmds, m.applyFilter())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		if !m.Filtering() && msg.String() == "v" {
			m.filter = nextFilter(m.filter)
			cmds = append(cmds, m.applyFilter())
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			m.preview.SetContent(m.renderDetail())
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading library…")
	}

	listW := m.width * 45 / 100
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Reload fetches the entries again.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.port.List(context.Background(), "")
		return EntriesLoadedMsg{Entries: entries, Err: err}
	}
}

// Selected returns the highlighted entry, if any.
func (m Model) Selected() (libdto.EntryOutput, bool) {
	if item, ok := m.list.SelectedItem().(entryItem); ok {
		return item.entry, true
	}
	return libdto.EntryOutput{}, false
}

// SetActive marks the entry being timed so the detail pane can say so.
func (m *Model) SetActive(entryID int64) {
	m.active = entryID
	m.preview.SetContent(m.renderDetail())
}

// Entries returns every loaded entry, ignoring the status filter.
func (m Model) Entries() []libdto.EntryOutput {
	return m.all
}

// Filtering reports whether the list's search filter is currently active.
// The app model checks this to avoid consuming global keys during a search.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

var filters = []string{"", "TO_READ", "READING", "FINISHED", "DROPPED"}

func nextFilter(current string) string {
	for i, f := range filters {
		if f == current {
			return filters[(i+1)%len(filters)]
		}
	}
	return ""
}

func (m *Model) applyFilter() tea.Cmd {
	m.list.Title = "Library"
	if m.filter != "" {
		m.list.Title += " · " + m.filter
	}
	items := make([]list.Item, 0, len(m.all))
	for _, e := range m.all {
		if m.filter != "" && e.Status != m.filter {
			continue
		}
		items = append(items, entryItem{entry: e})
	}
	cmd := m.list.SetItems(items)
	m.preview.SetContent(m.renderDetail())
	return cmd
}

func (m *Model) resize() {
	listW := m.width * 45 / 100
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4
}

func (m Model) renderDetail() string {
	e, ok := m.Selected()
	if !ok {
		return theme.Muted.Render("Add books from the Discover tab")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(e.Title) + "\n")
	if e.Author != "" {
		sb.WriteString(theme.Muted.Render(e.Author) + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(theme.Muted.Render("entry:    ") + fmt.Sprintf("#%d (book %d)", e.ID, e.BookID) + "\n")
	sb.WriteString(theme.Muted.Render("status:   ") + theme.StatusStyle(e.Status).Render(e.Status) + "\n")
	sb.WriteString(theme.Muted.Render("progress: ") + fmt.Sprintf("%d%%", e.ProgressPercent) + "\n")
	rating := "none"
	if e.Rating > 0 {
		rating = strings.Repeat("★", e.Rating) + strings.Repeat("☆", 5-e.Rating)
	}
	sb.WriteString(theme.Muted.Render("rating:   ") + rating + "\n")
	if e.StartedAt != "" {
		sb.WriteString(theme.Muted.Render("started:  ") + e.StartedAt + "\n")
	}
	if e.FinishedAt != "" {
		sb.WriteString(theme.Muted.Render("finished: ") + e.FinishedAt + "\n")
	}
	if m.active == e.ID {
		sb.WriteString("\n" + theme.Hot.Render("● reading now") + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("s: start timer  F: finish  D: drop  v: filter status"))
	return sb.String()
}
