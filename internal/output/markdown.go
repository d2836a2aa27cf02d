package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
}

func NewMarkdownRenderer() (*MarkdownRenderer, error) {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
		if width > 120 {
			width = 120
		}
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}

	return &MarkdownRenderer{renderer: r}, nil
}

func (m *MarkdownRenderer) Render(content string) (string, error) {
	out, err := m.renderer.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	return strings.TrimSpace(out), nil
}

// ResultsMarkdown renders results as a markdown document with one table row
// per user.
func ResultsMarkdown(results SearchResults) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Users matching `%s`\n\n", results.Query)
	fmt.Fprintf(&b, "Showing %d of %d.\n\n", len(results.Items), results.TotalCount)
	if len(results.Items) == 0 {
		b.WriteString("_No users found._\n")
		return b.String()
	}

	b.WriteString("| # | Login | Type | Profile |\n")
	b.WriteString("|---|---|---|---|\n")
	for i, r := range results.Items {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", i+1, escapeCell(r.Login), escapeCell(r.Type), escapeCell(r.URL))
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func RenderMarkdown(content string) (string, error) {
	r, err := NewMarkdownRenderer()
	if err != nil {
		return "", err
	}
	return r.Render(content)
}
