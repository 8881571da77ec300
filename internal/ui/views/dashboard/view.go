package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	dashdto "smartlib/internal/modules/dashboard/dto"
	"smartlib/internal/ui/theme"
)

type Port interface {
	Projection(ctx context.Context) (dashdto.ProjectionOutput, error)
}

type LoadedMsg struct {
	Projection dashdto.ProjectionOutput
	Err        error
}

const barWidth = 24

type Model struct {
	port    Port
	spinner spinner.Model
	data    dashdto.ProjectionOutput
	err     error
	loading bool
	width   int
	height  int
}

func New(port Port) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Green)
	return Model{port: port, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload recomputes the projection from freshly fetched entries, sessions and goals.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		p, err := m.port.Projection(context.Background())
		return LoadedMsg{Projection: p, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case LoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.data = msg.Projection
		}
	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading dashboard…")
	}
	if m.err != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Error.Render(m.err.Error())+"\n\n"+theme.Muted.Render("r: retry"))
	}

	half := m.width/2 - 2
	if half < 30 {
		half = 30
	}
	left := lipgloss.JoinVertical(lipgloss.Left,
		theme.Pane.Width(half).Render(m.renderCounters()),
		theme.Pane.Width(half).Render(m.renderGoals()),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		theme.Pane.Width(half).Render(m.renderHistogram()),
		theme.Pane.Width(half).Render(m.renderRecent()),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) renderCounters() string {
	d := m.data
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Books") + "\n\n")
	sb.WriteString(fmt.Sprintf("%-10s %d\n", "total", d.TotalBooks))
	sb.WriteString(theme.StatusStyle("TO_READ").Render(fmt.Sprintf("%-10s %d", "to read", d.ToReadBooks)) + "\n")
	sb.WriteString(theme.StatusStyle("READING").Render(fmt.Sprintf("%-10s %d", "reading", d.ReadingBooks)) + "\n")
	sb.WriteString(theme.StatusStyle("FINISHED").Render(fmt.Sprintf("%-10s %d", "finished", d.FinishedBooks)) + "\n")
	sb.WriteString(theme.StatusStyle("DROPPED").Render(fmt.Sprintf("%-10s %d", "dropped", d.DroppedBooks)))
	return sb.String()
}

func (m Model) renderGoals() string {
	d := m.data
	finishedThisMonth := 0
	if n := len(d.MonthlyFinished); n > 0 {
		finishedThisMonth = d.MonthlyFinished[n-1].Count
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Goals") + "\n\n")
	sb.WriteString(fmt.Sprintf("today       %s %d/%d min\n", Bar(d.MinutesReadToday, d.MinutesPerDayGoal, barWidth), d.MinutesReadToday, d.MinutesPerDayGoal))
	sb.WriteString(fmt.Sprintf("this month  %s %d/%d books\n", Bar(finishedThisMonth, d.BooksPerMonthGoal, barWidth), finishedThisMonth, d.BooksPerMonthGoal))
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("%d minutes read this month", d.MinutesReadThisMonth)))
	return sb.String()
}

func (m Model) renderHistogram() string {
	peak := 1
	for _, b := range m.data.MonthlyFinished {
		if b.Count > peak {
			peak = b.Count
		}
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Finished per month") + "\n\n")
	for _, b := range m.data.MonthlyFinished {
		sb.WriteString(fmt.Sprintf("%s  %s %d\n", b.Month, theme.Good.Render(strings.Repeat("█", b.Count*barWidth/peak)), b.Count))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m Model) renderRecent() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Recent sessions") + "\n\n")
	if len(m.data.RecentSessions) == 0 {
		sb.WriteString(theme.Muted.Render("No sessions yet"))
		return sb.String()
	}
	for _, s := range m.data.RecentSessions {
		title := s.BookTitle
		if title == "" {
			title = fmt.Sprintf("book %d", s.BookID)
		}
		sb.WriteString(fmt.Sprintf("%s  %-24.24s %3d min  +%d p\n", s.SessionDate, title, s.MinutesRead, s.PagesRead))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Bar renders value against goal as a fixed-width gauge, full when the goal is met.
func Bar(value, goal, width int) string {
	if goal < 1 {
		goal = 1
	}
	filled := value * width / goal
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	style := theme.Warn
	if value >= goal {
		style = theme.Good
	}
	return style.Render(strings.Repeat("━", filled)) + theme.Muted.Render(strings.Repeat("─", width-filled))
}
