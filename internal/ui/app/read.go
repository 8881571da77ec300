package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	readingdto "smartlib/internal/modules/reading/dto"
	"smartlib/internal/ui/theme"
	timerview "smartlib/internal/ui/views/timer"
)

// ReadModel is the single-screen program behind `smartlib read`: it starts a session for one
// library entry, shows the clock and exits once the session is saved.
type ReadModel struct {
	reading   ReadingPort
	input     readingdto.StartInput
	timer     timerview.Model
	quitArmed bool
	status    string
	width     int

	// Result is set when the session was saved; Err when it could not be started.
	Result *readingdto.ReconcileOutput
	Err    error
}

func NewReadModel(reading ReadingPort, input readingdto.StartInput) ReadModel {
	return ReadModel{
		reading: reading,
		input:   input,
		timer:   timerview.New(reading),
	}
}

func (m ReadModel) Init() tea.Cmd {
	reading, input := m.reading, m.input
	return tea.Batch(func() tea.Msg {
		state, err := reading.Start(context.Background(), input)
		return startedMsg{state: state, err: err}
	}, m.timer.Init())
}

func (m ReadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 2})
		return m, cmd

	case startedMsg:
		if msg.err != nil {
			m.Err = msg.err
			return m, tea.Quit
		}
		m.timer.Refresh()
		return m, nil

	case timerview.SavedMsg:
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		if msg.Err != nil {
			return m, cmd
		}
		result := msg.Result
		m.Result = &result
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || (msg.String() == "q" && !m.timer.Editing()) {
			if !running(m.timer.State()) {
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
		m.quitArmed = false
		m.status = ""
	}

	var cmd tea.Cmd
	m.timer, cmd = m.timer.Update(msg)
	return m, cmd
}

func (m ReadModel) View() string {
	status := m.status
	if status == "" {
		status = "q: quit"
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.timer.View(), "", theme.Muted.Render(status))
}
