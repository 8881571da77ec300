package app

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authdto "smartlib/internal/modules/auth/dto"
	catalogdto "smartlib/internal/modules/catalog/dto"
	dashdto "smartlib/internal/modules/dashboard/dto"
	libdto "smartlib/internal/modules/library/dto"
	readingdto "smartlib/internal/modules/reading/dto"
	apperrors "smartlib/internal/platform/errors"
	"smartlib/internal/ui/components"
	timerview "smartlib/internal/ui/views/timer"
)

type fakeAuth struct {
	authenticated bool
	hooks         []func()
}

func (f *fakeAuth) Status(context.Context) authdto.StatusOutput {
	return authdto.StatusOutput{Authenticated: f.authenticated}
}
func (f *fakeAuth) OnSignOut(fn func()) { f.hooks = append(f.hooks, fn) }
func (f *fakeAuth) signOut() {
	for _, fn := range f.hooks {
		fn()
	}
}

type fakeLibrary struct {
	entries []libdto.EntryOutput
	updates []libdto.UpdateInput
}

func (f *fakeLibrary) List(context.Context, string) ([]libdto.EntryOutput, error) {
	return f.entries, nil
}
func (f *fakeLibrary) Add(context.Context, libdto.AddInput) ([]libdto.EntryOutput, error) {
	return f.entries, nil
}
func (f *fakeLibrary) Update(_ context.Context, in libdto.UpdateInput) ([]libdto.EntryOutput, error) {
	f.updates = append(f.updates, in)
	return f.entries, nil
}
func (f *fakeLibrary) Remove(context.Context, int64) ([]libdto.EntryOutput, error) {
	return f.entries, nil
}

type fakeReading struct {
	state     readingdto.StateOutput
	abandoned int
}

func (f *fakeReading) State(context.Context) readingdto.StateOutput { return f.state }
func (f *fakeReading) RequestStop(context.Context, int64) (readingdto.StateOutput, error) {
	return f.state, nil
}
func (f *fakeReading) ConfirmStop(context.Context, readingdto.ConfirmInput) (readingdto.ReconcileOutput, []libdto.EntryOutput, error) {
	return readingdto.ReconcileOutput{}, nil, nil
}
func (f *fakeReading) CancelStop(context.Context) (readingdto.StateOutput, error) { return f.state, nil }
func (f *fakeReading) Start(_ context.Context, in readingdto.StartInput) (readingdto.StateOutput, error) {
	f.state = readingdto.StateOutput{Phase: "active", EntryID: in.EntryID, BookTitle: in.BookTitle}
	return f.state, nil
}
func (f *fakeReading) Finish(context.Context, int64) ([]libdto.EntryOutput, error) { return nil, nil }
func (f *fakeReading) Drop(context.Context, int64) ([]libdto.EntryOutput, error)   { return nil, nil }
func (f *fakeReading) Abandon(context.Context) {
	f.abandoned++
	f.state = readingdto.StateOutput{Phase: "idle"}
}

type fakeDashboard struct{}

func (fakeDashboard) Projection(context.Context) (dashdto.ProjectionOutput, error) {
	return dashdto.ProjectionOutput{}, nil
}
func (fakeDashboard) SetGoals(_ context.Context, in dashdto.GoalsInput) (dashdto.GoalsOutput, error) {
	return dashdto.GoalsOutput{BooksPerMonth: in.BooksPerMonth, MinutesPerDay: in.MinutesPerDay}, nil
}

type fakeCatalog struct{}

func (fakeCatalog) ListBooks(context.Context, catalogdto.ListBooksInput) (catalogdto.BookPageOutput, error) {
	return catalogdto.BookPageOutput{}, nil
}
func (fakeCatalog) Search(context.Context, catalogdto.SearchInput) ([]catalogdto.SearchHitOutput, error) {
	return nil, nil
}
func (fakeCatalog) Recommend(context.Context, catalogdto.RecommendInput) catalogdto.RecommendOutput {
	return catalogdto.RecommendOutput{}
}

func newTestModel() (Model, *fakeAuth, *fakeLibrary, *fakeReading) {
	auth := &fakeAuth{authenticated: true}
	library := &fakeLibrary{entries: []libdto.EntryOutput{{ID: 3, BookID: 8, Title: "Dune", Status: "TO_READ"}}}
	reading := &fakeReading{state: readingdto.StateOutput{Phase: "idle"}}
	m := NewModel(auth, library, reading, fakeDashboard{}, fakeCatalog{})
	return m, auth, library, reading
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func keyQ() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")} }

func TestQuitWhileIdleExitsImmediately(t *testing.T) {
	m, _, _, _ := newTestModel()
	_, cmd := update(t, m, keyQ())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestQuitDuringSessionAsksTwiceThenAbandons(t *testing.T) {
	m, _, _, reading := newTestModel()
	reading.state = readingdto.StateOutput{Phase: "active", EntryID: 3, BookTitle: "Dune"}
	m, _ = update(t, m, timerview.StateMsg{State: reading.state})

	m, cmd := update(t, m, keyQ())
	assert.Nil(t, cmd)
	assert.Contains(t, m.status, "press q again")
	assert.Equal(t, 0, reading.abandoned)

	_, cmd = update(t, m, keyQ())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, 1, reading.abandoned)
}

func TestSignOutShowsExpiredMessage(t *testing.T) {
	m, auth, _, _ := newTestModel()
	auth.signOut()
	msg := m.waitForSignOut()()
	require.IsType(t, signedOutMsg{}, msg)

	m, cmd := update(t, m, msg)
	assert.True(t, m.signedOut)
	assert.Equal(t, apperrors.SessionExpiredMessage, m.status)
	assert.NotNil(t, cmd)
}

func TestUnauthenticatedStartupHintsAtLogin(t *testing.T) {
	auth := &fakeAuth{}
	m := NewModel(auth, &fakeLibrary{}, &fakeReading{}, fakeDashboard{}, fakeCatalog{})
	assert.Contains(t, m.status, "smartlib login")
}

func TestPaletteRateUpdatesSelectedEntry(t *testing.T) {
	m, _, library, _ := newTestModel()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = update(t, m, m.libView.Reload()())

	m, cmd := update(t, m, paletteSubmit("library:rate 4"))
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, writeMsg{}, msg)
	require.Len(t, library.updates, 1)
	require.NotNil(t, library.updates[0].Rating)
	assert.Equal(t, 4, *library.updates[0].Rating)
	assert.Equal(t, int64(3), library.updates[0].EntryID)

	m, _ = update(t, m, msg)
	assert.Equal(t, "updated Dune", m.status)
}

func TestPaletteRejectsBadInput(t *testing.T) {
	m, _, _, _ := newTestModel()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = update(t, m, m.libView.Reload()())

	m, cmd := update(t, m, paletteSubmit("library:rate lots"))
	assert.Nil(t, cmd)
	assert.Equal(t, "rate expects a number", m.status)

	m, cmd = update(t, m, paletteSubmit("read:confirm -"))
	assert.Nil(t, cmd)
	assert.Equal(t, "Current page must be a non-negative integer.", m.status)

	m, cmd = update(t, m, paletteSubmit("shelve"))
	assert.Nil(t, cmd)
	assert.Equal(t, "unknown command: shelve", m.status)
}

func TestStartKeySwitchesToReadingTab(t *testing.T) {
	m, _, _, reading := newTestModel()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = update(t, m, m.libView.Reload()())
	m.activeTab = tabLibrary

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, tabReading, m.activeTab)
	assert.Equal(t, "active", reading.state.Phase)
	assert.Equal(t, "reading Dune", m.status)
}

func paletteSubmit(input string) tea.Msg {
	return components.PaletteSubmitMsg{Input: input}
}
