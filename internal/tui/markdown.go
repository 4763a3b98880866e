package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdownRenderer converts assistant Markdown into styled terminal output.
// Caches the renderer and only recreates when width or style changes.
type markdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
	style    string
}

// newMarkdownRenderer creates a renderer for the given theme. The theme
// names double as glamour standard style names.
// Returns nil renderer if initialization fails (graceful degradation).
func newMarkdownRenderer(width int, style string) *markdownRenderer {
	if width <= 0 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		// Graceful degradation: caller falls back to plain text
		return nil
	}

	return &markdownRenderer{renderer: r, width: width, style: style}
}

// UpdateWidth recreates the renderer only if width has actually changed.
func (m *markdownRenderer) UpdateWidth(width int) bool {
	if m == nil || width <= 0 || m.width == width {
		return false
	}
	return m.rebuild(width, m.style)
}

// UpdateStyle recreates the renderer only if the style has actually
// changed. Keeps the current width.
func (m *markdownRenderer) UpdateStyle(style string) bool {
	if m == nil || style == "" || m.style == style {
		return false
	}
	return m.rebuild(m.width, style)
}

func (m *markdownRenderer) rebuild(width int, style string) bool {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		// Keep existing renderer on error
		return false
	}

	m.renderer = r
	m.width = width
	m.style = style
	return true
}

// Render converts Markdown to styled terminal output.
// Returns the original text if rendering fails.
func (m *markdownRenderer) Render(markdown string) string {
	if m == nil || m.renderer == nil {
		return markdown
	}

	rendered, err := m.renderer.Render(markdown)
	if err != nil {
		return markdown
	}

	return strings.TrimSuffix(rendered, "\n")
}
