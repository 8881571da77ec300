package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"smartlib/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

const maxSuggestions = 5

// Suggest returns up to limit hints for the typed input: everything when empty, otherwise fuzzy
// matches on the command word, best first.
func Suggest(hints []string, input string, limit int) []string {
	word, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(input)), " ")
	if word == "" {
		if len(hints) > limit {
			return hints[:limit]
		}
		return hints
	}
	commands := make([]string, len(hints))
	for i, h := range hints {
		commands[i], _, _ = strings.Cut(h, " ")
	}
	matches := fuzzy.Find(word, commands)
	out := make([]string, 0, limit)
	for _, m := range matches {
		out = append(out, hints[m.Index])
		if len(out) == limit {
			break
		}
	}
	return out
}

// Palette is a command-palette overlay backed by bubbles/textinput.
type Palette struct {
	input   textinput.Model
	hints   []string
	visible bool
	width   int
}

// NewPalette creates an inactive Palette suggesting hints as the user types.
func NewPalette(hints []string) Palette {
	ti := textinput.New()
	ti.Placeholder = "type a command…"
	ti.CharLimit = 256
	return Palette{input: ti, hints: hints}
}

// Visible reports whether the palette is currently shown.
func (p Palette) Visible() bool { return p.visible }

// Open shows the palette, clears the input, and returns the focus command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	return p.input.Focus()
}

// SetWidth sets the render width for the overlay.
func (p *Palette) SetWidth(w int) { p.width = w }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	matching := Suggest(p.hints, p.input.Value(), maxSuggestions)

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command Palette") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if len(matching) > 0 {
		sb.WriteString("\n")
		for _, h := range matching {
			sb.WriteString(hintStyle.Render("  "+h) + "\n")
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}
