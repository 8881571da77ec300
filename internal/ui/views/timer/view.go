package timer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	libdto "smartlib/internal/modules/library/dto"
	readingdto "smartlib/internal/modules/reading/dto"
	"smartlib/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	State(ctx context.Context) readingdto.StateOutput
	RequestStop(ctx context.Context, entryID int64) (readingdto.StateOutput, error)
	ConfirmStop(ctx context.Context, input readingdto.ConfirmInput) (readingdto.ReconcileOutput, []libdto.EntryOutput, error)
	CancelStop(ctx context.Context) (readingdto.StateOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type tickMsg time.Time

// StateMsg reports the engine state after a stop request or a cancel.
type StateMsg struct {
	State readingdto.StateOutput
	Err   error
}

// SavedMsg reports a confirmed stop. Entries is the library re-fetched after the status update.
type SavedMsg struct {
	Result  readingdto.ReconcileOutput
	Entries []libdto.EntryOutput
	Err     error
}

const badPage = "Current page must be a non-negative integer."

// ─── model ───────────────────────────────────────────────────────────────────

// Model shows the running clock of the reading session and collects the current page when the
// session is stopped.
type Model struct {
	port  Port
	state readingdto.StateOutput
	page  textinput.Model
	// busy is set while a stop or save is in flight; keys are ignored meanwhile.
	busy   bool
	err    string
	saved  *readingdto.ReconcileOutput
	width  int
	height int
}

func New(port Port) Model {
	ti := textinput.New()
	ti.Placeholder = "page"
	ti.CharLimit = 6
	ti.Width = 8
	return Model{port: port, page: ti}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if !m.busy {
			m.sync(m.port.State(context.Background()))
		}
		return m, tick()

	case StateMsg:
		m.busy = false
		if msg.Err != nil {
			m.err = msg.Err.Error()
		} else {
			m.err = ""
		}
		cmd := m.sync(msg.State)
		return m, cmd

	case SavedMsg:
		m.busy = false
		if msg.Err != nil {
			m.err = msg.Err.Error()
			return m, nil
		}
		m.err = ""
		result := msg.Result
		m.saved = &result
		cmd := m.sync(m.port.State(context.Background()))
		return m, cmd

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.state.Phase {
	case "active":
		if msg.String() == "x" || msg.String() == "enter" {
			cmd := m.Stop()
			return m, cmd
		}
	case "stopping":
		switch msg.String() {
		case "esc":
			m.busy = true
			return m, m.cancelCmd()
		case "enter":
			page, err := strconv.Atoi(strings.TrimSpace(m.page.Value()))
			if err != nil {
				m.err = badPage
				return m, nil
			}
			m.busy = true
			return m, m.confirmCmd(page)
		}
		var cmd tea.Cmd
		m.page, cmd = m.page.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	switch m.state.Phase {
	case "active", "stopping":
		sb.WriteString(theme.Title.Render(m.state.BookTitle) + "\n")
		sb.WriteString(theme.Muted.Render("started "+m.state.StartedAt.Format("15:04")) + "\n\n")
		sb.WriteString(theme.Clock.Render(FormatElapsed(m.state.ElapsedSeconds)) + "\n\n")
		if m.state.Phase == "active" {
			sb.WriteString(theme.Muted.Render("x/enter: stop and record pages"))
		} else {
			sb.WriteString(fmt.Sprintf("Previous page: %d\n", m.state.PreviousPage))
			sb.WriteString("Current page:  " + m.page.View() + "\n\n")
			sb.WriteString(theme.Muted.Render("enter: save  esc: keep reading"))
		}
	default:
		if m.saved != nil {
			r := m.saved.Record
			sb.WriteString(theme.Good.Render("Session saved") + "\n\n")
			sb.WriteString(fmt.Sprintf("%d min  ·  pages %d → %d (+%d)\n", r.MinutesRead, m.saved.PreviousPage, m.saved.CurrentPage, r.PagesRead))
			if m.saved.JournalPath != "" {
				sb.WriteString(theme.Muted.Render("journal: "+m.saved.JournalPath) + "\n")
			}
		} else {
			sb.WriteString(theme.Muted.Render("No reading session. Select a book in Library and press s."))
		}
	}
	if m.busy {
		sb.WriteString("\n\n" + theme.Muted.Render("working…"))
	}
	if m.err != "" {
		sb.WriteString("\n\n" + theme.Error.Render(m.err))
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, sb.String())
}

// Stop asks the engine to park the session and propose the current page.
func (m *Model) Stop() tea.Cmd {
	if m.state.Phase != "active" {
		return nil
	}
	m.busy = true
	port, entryID := m.port, m.state.EntryID
	return func() tea.Msg {
		state, err := port.RequestStop(context.Background(), entryID)
		return StateMsg{State: state, Err: err}
	}
}

// Confirm saves the pending session with the given page, as typed in the palette.
func (m *Model) Confirm(page int) tea.Cmd {
	if m.state.Phase != "stopping" {
		return nil
	}
	m.busy = true
	return m.confirmCmd(page)
}

// Refresh re-reads the engine state, e.g. after a session was started elsewhere.
func (m *Model) Refresh() {
	m.sync(m.port.State(context.Background()))
}

func (m Model) State() readingdto.StateOutput { return m.state }
func (m Model) Busy() bool                     { return m.busy }

// Editing reports whether the page input owns the keyboard.
func (m Model) Editing() bool { return m.state.Phase == "stopping" }

// FormatElapsed renders seconds as HH:MM:SS.
func FormatElapsed(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) sync(state readingdto.StateOutput) tea.Cmd {
	entering := state.Phase == "stopping" && m.state.Phase != "stopping"
	m.state = state
	if state.Phase != "idle" {
		m.saved = nil
	}
	if entering {
		m.page.SetValue(strconv.Itoa(state.ProposedPage))
		m.page.CursorEnd()
		return m.page.Focus()
	}
	if state.Phase != "stopping" {
		m.page.Blur()
	}
	return nil
}

func (m Model) cancelCmd() tea.Cmd {
	return func() tea.Msg {
		state, err := m.port.CancelStop(context.Background())
		return StateMsg{State: state, Err: err}
	}
}

func (m Model) confirmCmd(page int) tea.Cmd {
	return func() tea.Msg {
		result, entries, err := m.port.ConfirmStop(context.Background(), readingdto.ConfirmInput{CurrentPage: page})
		return SavedMsg{Result: result, Entries: entries, Err: err}
	}
}
