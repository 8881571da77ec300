package library_test

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libdto "smartlib/internal/modules/library/dto"
	"smartlib/internal/ui/views/library"
)

type fakePort struct {
	entries []libdto.EntryOutput
	err     error
}

func (f fakePort) List(context.Context, string) ([]libdto.EntryOutput, error) {
	return f.entries, f.err
}

func loaded(t *testing.T, port fakePort) library.Model {
	t.Helper()
	m := library.New(port)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = m.Update(m.Reload()())
	return m
}

func TestStatusFilterCyclesButEntriesStayComplete(t *testing.T) {
	port := fakePort{entries: []libdto.EntryOutput{
		{ID: 1, Title: "Dune", Status: "READING"},
		{ID: 2, Title: "Emma", Status: "TO_READ"},
		{ID: 3, Title: "Ulysses", Status: "DROPPED"},
	}}
	m := loaded(t, port)

	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(1), sel.ID)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v")})
	sel, ok = m.Selected()
	require.True(t, ok)
	assert.Equal(t, "TO_READ", sel.Status)
	assert.Len(t, m.Entries(), 3)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v")})
	sel, ok = m.Selected()
	require.True(t, ok)
	assert.Equal(t, "READING", sel.Status)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v")})
	_, ok = m.Selected()
	assert.False(t, ok, "no finished entries")
}

func TestLoadErrorShowsInTitle(t *testing.T) {
	m := loaded(t, fakePort{err: errors.New("connection refused")})
	assert.Contains(t, m.View(), "connection refused")
	_, ok := m.Selected()
	assert.False(t, ok)
}

func TestWriteResultReplacesEntries(t *testing.T) {
	m := loaded(t, fakePort{entries: []libdto.EntryOutput{{ID: 1, Title: "Dune", Status: "TO_READ"}}})

	m, _ = m.Update(library.EntriesLoadedMsg{Entries: []libdto.EntryOutput{{ID: 1, Title: "Dune", Status: "FINISHED", Rating: 5}}})
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "FINISHED", sel.Status)
	assert.Equal(t, 5, sel.Rating)
}

func TestActiveEntryIsMarked(t *testing.T) {
	m := loaded(t, fakePort{entries: []libdto.EntryOutput{{ID: 4, Title: "Dune", Status: "READING"}}})
	m.SetActive(4)
	assert.Contains(t, m.View(), "reading now")
}
