package theme

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/passmenu/passmenu/menu/internal/config"
)

// pixelsPerCell converts configured pixel widths to terminal cells.
const pixelsPerCell = 8

// Styles is the set of styles used to draw the menu.
type Styles struct {
	Frame    lipgloss.Style
	Title    lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Editor   lipgloss.Style
}

// New builds the menu styles for cfg.
func New(cfg *config.Config) *Styles {
	st := cfg.Interface.Style

	item := lipgloss.NewStyle()
	item = foreground(item, st.Foreground)
	item = background(item, st.Background)

	selected := lipgloss.NewStyle().Bold(true)
	selected = foreground(selected, st.SelectionForeground)
	selected = background(selected, st.SelectionBackground)

	frame := lipgloss.NewStyle().Padding(0, 1)
	frame = background(frame, st.Background)
	frame = border(frame, st.Border)
	if w := cells(st.Width); w > 0 {
		frame = frame.Width(w)
	}

	editor := lipgloss.NewStyle().Padding(0, 1)
	editor = foreground(editor, st.Foreground)
	editor = border(editor, st.Border)
	if w := cells(cfg.Interface.PasswordEditor.Width); w > 0 {
		editor = editor.Width(w)
	}

	return &Styles{
		Frame:    frame,
		Title:    item.Bold(true),
		Item:     item,
		Selected: selected,
		Editor:   editor,
	}
}

// RenderMenu draws a menu with the given entries, highlighting the one at
// index selected. An out-of-range index highlights nothing.
func (s *Styles) RenderMenu(title string, items []string, selected int) string {
	lines := make([]string, 0, len(items)+1)
	if title != "" {
		lines = append(lines, s.Title.Render(title))
	}
	for i, it := range items {
		if i == selected {
			lines = append(lines, s.Selected.Render(it))
			continue
		}
		lines = append(lines, s.Item.Render(it))
	}
	return s.Frame.Render(strings.Join(lines, "\n"))
}

// BorderFor maps a brush thickness to a border shape. Zero means no border.
func BorderFor(thickness int) (lipgloss.Border, bool) {
	switch {
	case thickness <= 0:
		return lipgloss.Border{}, false
	case thickness == 1:
		return lipgloss.NormalBorder(), true
	case thickness == 2:
		return lipgloss.ThickBorder(), true
	default:
		return lipgloss.DoubleBorder(), true
	}
}

func foreground(s lipgloss.Style, b config.Brush) lipgloss.Style {
	if b.Transparent() {
		return s
	}
	return s.Foreground(color(b))
}

func background(s lipgloss.Style, b config.Brush) lipgloss.Style {
	if b.Transparent() {
		return s
	}
	return s.Background(color(b))
}

func border(s lipgloss.Style, b config.Brush) lipgloss.Style {
	shape, ok := BorderFor(b.Thickness)
	if !ok || b.Transparent() {
		return s
	}
	return s.Border(shape).BorderForeground(color(b))
}

// color drops the alpha channel; terminals draw opaque colours only.
func color(b config.Brush) lipgloss.Color {
	return lipgloss.Color(b.Color.Hex())
}

// cells converts a configured width to terminal cells. Auto and zero widths
// return 0, meaning "size to content".
func cells(w config.Width) int {
	if w.Auto || w.Value <= 0 {
		return 0
	}
	return int(math.Max(1, math.Round(w.Value/pixelsPerCell)))
}
