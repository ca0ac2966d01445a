package main

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"
)

const renderWidth = 80

// renderMarkdown renders value as terminal markdown, falling back to plain
// word-wrapped text when rendering fails.
func renderMarkdown(value string, width int) string {
	if width < 1 {
		width = renderWidth
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return wordwrap.String(value, width)
	}
	rendered, err := renderer.Render(value)
	if err != nil {
		return wordwrap.String(value, width)
	}
	return strings.TrimRight(rendered, "\n")
}

func renderMarkdownOrDash(value string, width int) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return renderMarkdown(value, width)
}
