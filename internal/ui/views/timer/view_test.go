package timer_test

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libdto "smartlib/internal/modules/library/dto"
	readingdto "smartlib/internal/modules/reading/dto"
	"smartlib/internal/ui/views/timer"
)

type fakePort struct {
	state      readingdto.StateOutput
	confirmed  []int
	confirmErr error
}

func (f *fakePort) State(context.Context) readingdto.StateOutput { return f.state }

func (f *fakePort) RequestStop(context.Context, int64) (readingdto.StateOutput, error) {
	f.state.Phase = "stopping"
	f.state.PreviousPage = 10
	f.state.ProposedPage = 10
	return f.state, nil
}

func (f *fakePort) ConfirmStop(_ context.Context, in readingdto.ConfirmInput) (readingdto.ReconcileOutput, []libdto.EntryOutput, error) {
	f.confirmed = append(f.confirmed, in.CurrentPage)
	if f.confirmErr != nil {
		return readingdto.ReconcileOutput{}, nil, f.confirmErr
	}
	f.state = readingdto.StateOutput{Phase: "idle"}
	return readingdto.ReconcileOutput{
		Record:       readingdto.RecordOutput{BookID: 42, MinutesRead: 2, PagesRead: in.CurrentPage - 10},
		PreviousPage: 10,
		CurrentPage:  in.CurrentPage,
	}, []libdto.EntryOutput{{ID: 7, Status: "READING"}}, nil
}

func (f *fakePort) CancelStop(context.Context) (readingdto.StateOutput, error) {
	f.state.Phase = "active"
	return f.state, nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func activeModel(port *fakePort) timer.Model {
	port.state = readingdto.StateOutput{Phase: "active", EntryID: 7, BookID: 42, BookTitle: "Dune", ElapsedSeconds: 125}
	m := timer.New(port)
	m.Refresh()
	return m
}

func TestStopThenConfirmTypedPage(t *testing.T) {
	t.Parallel()
	port := &fakePort{}
	m := activeModel(port)

	m, cmd := m.Update(key("x"))
	require.NotNil(t, cmd)
	assert.True(t, m.Busy())
	m, _ = m.Update(key("q"))
	assert.Equal(t, "active", m.State().Phase, "keys are ignored while busy")

	m, _ = m.Update(cmd())
	require.True(t, m.Editing())
	assert.Contains(t, m.View(), "Previous page: 10")

	m, _ = m.Update(key("backspace"))
	m, _ = m.Update(key("backspace"))
	m, _ = m.Update(key("1"))
	m, _ = m.Update(key("3"))
	m, cmd = m.Update(key("enter"))
	require.NotNil(t, cmd)

	msg := cmd()
	saved, ok := msg.(timer.SavedMsg)
	require.True(t, ok)
	assert.Equal(t, []int{13}, port.confirmed)
	assert.Equal(t, 3, saved.Result.Record.PagesRead)

	m, _ = m.Update(msg)
	assert.Equal(t, "idle", m.State().Phase)
	assert.Contains(t, m.View(), "Session saved")
}

func TestNonNumericPageStaysPending(t *testing.T) {
	t.Parallel()
	port := &fakePort{}
	m := activeModel(port)
	m, cmd := m.Update(key("x"))
	m, _ = m.Update(cmd())

	m, _ = m.Update(key("a"))
	m, cmd = m.Update(key("enter"))
	assert.Nil(t, cmd)
	assert.Empty(t, port.confirmed)
	assert.True(t, m.Editing())
	assert.Contains(t, m.View(), "Current page must be a non-negative integer.")
}

func TestFailedSaveKeepsPending(t *testing.T) {
	t.Parallel()
	port := &fakePort{confirmErr: errors.New("Current page cannot be less than previous page (10).")}
	m := activeModel(port)
	m, cmd := m.Update(key("x"))
	m, _ = m.Update(cmd())

	m, cmd = m.Update(key("enter"))
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	assert.True(t, m.Editing())
	assert.False(t, m.Busy())
	assert.Contains(t, m.View(), "less than previous page")
}

func TestEscResumes(t *testing.T) {
	t.Parallel()
	port := &fakePort{}
	m := activeModel(port)
	m, cmd := m.Update(key("x"))
	m, _ = m.Update(cmd())

	m, cmd = m.Update(key("esc"))
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	assert.Equal(t, "active", m.State().Phase)
	assert.False(t, m.Editing())
}

func TestFormatElapsed(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "00:02:05", timer.FormatElapsed(125))
	assert.Equal(t, "01:00:00", timer.FormatElapsed(3600))
	assert.Equal(t, "00:00:00", timer.FormatElapsed(-4))
}
