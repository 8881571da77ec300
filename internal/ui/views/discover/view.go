package discover

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	catalogdto "smartlib/internal/modules/catalog/dto"
	"smartlib/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	ListBooks(ctx context.Context, input catalogdto.ListBooksInput) (catalogdto.BookPageOutput, error)
	Search(ctx context.Context, input catalogdto.SearchInput) ([]catalogdto.SearchHitOutput, error)
	Recommend(ctx context.Context, input catalogdto.RecommendInput) catalogdto.RecommendOutput
}

// ─── messages ────────────────────────────────────────────────────────────────

// ResultsMsg replaces the listed books. Title names where they came from.
type ResultsMsg struct {
	Title string
	Books []Book
	Err   error
}

// Book is what the view lists, whichever endpoint produced it.
type Book struct {
	ID          int64
	Title       string
	Author      string
	Description string
	Note        string
}

type bookItem struct{ book Book }

func (i bookItem) Title() string { return i.book.Title }
func (i bookItem) Description() string {
	if i.book.Note != "" {
		return i.book.Author + "  " + i.book.Note
	}
	return i.book.Author
}
func (i bookItem) FilterValue() string { return i.book.Title + " " + i.book.Author }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     Port
	list     list.Model
	query    textinput.Model
	detail   viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	loading  bool
	width    int
	height   int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Peach).BorderForeground(theme.Peach)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Peach)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Catalog"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	ti := textinput.New()
	ti.Placeholder = "describe the book you want…"
	ti.Prompt = "/ "
	ti.CharLimit = 200

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Background(theme.Mantle).Foreground(theme.Text)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Peach)

	r, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(0),
	)

	return Model{
		port:     port,
		list:     l,
		query:    ti,
		detail:   vp,
		spinner:  sp,
		renderer: r,
		loading:  true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.browseCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case ResultsMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Catalog · " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = msg.Title
		items := make([]list.Item, len(msg.Books))
		for i, b := range msg.Books {
			items[i] = bookItem{book: b}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.list.ResetSelected()
		m.detail.SetContent(m.renderDetail())
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if m.query.Focused() {
			switch msg.String() {
			case "esc":
				m.query.Blur()
				return m, nil
			case "enter":
				m.query.Blur()
				q := strings.TrimSpace(m.query.Value())
				if q == "" {
					return m, nil
				}
				m.loading = true
				return m, tea.Batch(m.searchCmd(q), m.spinner.Tick)
			}
			var cmd tea.Cmd
			m.query, cmd = m.query.Update(msg)
			return m, cmd
		}
		if msg.String() == "/" {
			return m, m.query.Focus()
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			m.detail.SetContent(m.renderDetail())
		}
		var vCmd tea.Cmd
		m.detail, vCmd = m.detail.Update(msg)
		cmds = append(cmds, vCmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	header := m.query.View()
	if !m.query.Focused() && m.query.Value() == "" {
		header = theme.Muted.Render("/: semantic search  r: recommendations  a: add to library")
	}
	bodyH := m.height - 2
	if m.loading {
		return lipgloss.JoinVertical(lipgloss.Left, header,
			lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center, m.spinner.View()+" Searching…"))
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW
	listPane := lipgloss.NewStyle().Width(listW).Height(bodyH).Render(m.list.View())
	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(bodyH - 2).
		Render(m.detail.View())
	return lipgloss.JoinVertical(lipgloss.Left, header, lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane))
}

// Recommend lists books similar to what the user liked. It never fails.
func (m *Model) Recommend(candidates []catalogdto.Candidate) tea.Cmd {
	m.loading = true
	port := m.port
	return tea.Batch(func() tea.Msg {
		out := port.Recommend(context.Background(), catalogdto.RecommendInput{Candidates: candidates})
		books := make([]Book, 0, len(out.Hits))
		for _, h := range out.Hits {
			books = append(books, fromHit(h))
		}
		return ResultsMsg{Title: "Recommended · " + out.Seed, Books: books}
	}, m.spinner.Tick)
}

// Search runs a semantic query as if it were typed in the search box.
func (m *Model) Search(query string) tea.Cmd {
	m.query.SetValue(query)
	m.loading = true
	return tea.Batch(m.searchCmd(query), m.spinner.Tick)
}

// Selected returns the highlighted book, if any.
func (m Model) Selected() (Book, bool) {
	if item, ok := m.list.SelectedItem().(bookItem); ok {
		return item.book, true
	}
	return Book{}, false
}

// Typing reports whether the search box owns the keyboard.
func (m Model) Typing() bool { return m.query.Focused() }

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height-2)
	m.query.Width = m.width - 4
	m.detail.Width = detailW - 4
	m.detail.Height = m.height - 6
	if m.renderer != nil && m.detail.Width > 10 {
		if r, err := glamour.NewTermRenderer(glamour.WithStylePath("dark"), glamour.WithWordWrap(m.detail.Width)); err == nil {
			m.renderer = r
		}
	}
	m.detail.SetContent(m.renderDetail())
}

func (m Model) renderDetail() string {
	b, ok := m.Selected()
	if !ok {
		return theme.Muted.Render("No books")
	}
	md := fmt.Sprintf("# %s\n\n*%s*\n\n%s\n", b.Title, b.Author, b.Description)
	if b.Note != "" {
		md += "\n> " + b.Note + "\n"
	}
	if m.renderer == nil {
		return md
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

func (m Model) browseCmd() tea.Cmd {
	port := m.port
	return func() tea.Msg {
		page, err := port.ListBooks(context.Background(), catalogdto.ListBooksInput{})
		if err != nil {
			return ResultsMsg{Err: err}
		}
		books := make([]Book, 0, len(page.Books))
		for _, b := range page.Books {
			books = append(books, Book{
				ID:          b.ID,
				Title:       b.Title,
				Author:      b.Author,
				Description: b.Description,
				Note:        fmt.Sprintf("%d/%d available", b.AvailableCopies, b.TotalCopies),
			})
		}
		return ResultsMsg{Title: fmt.Sprintf("Catalog · page 1 of %d", max(page.TotalPages, 1)), Books: books}
	}
}

func (m Model) searchCmd(query string) tea.Cmd {
	port := m.port
	return func() tea.Msg {
		hits, err := port.Search(context.Background(), catalogdto.SearchInput{Query: query})
		if err != nil {
			return ResultsMsg{Err: err}
		}
		books := make([]Book, 0, len(hits))
		for _, h := range hits {
			books = append(books, fromHit(h))
		}
		return ResultsMsg{Title: "Search · " + query, Books: books}
	}
}

func fromHit(h catalogdto.SearchHitOutput) Book {
	note := fmt.Sprintf("score %.2f", h.Score)
	if h.PublishedDate != "" {
		note += " · " + h.PublishedDate
	}
	return Book{ID: h.ID, Title: h.Title, Author: h.Author, Description: h.Description, Note: note}
}
