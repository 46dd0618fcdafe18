package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"github.com/sonnes/darpan/site"
)

const defaultWidth = 80

var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#60a5fa"}
	colorBright = lipgloss.AdaptiveColor{Light: "#0f172a", Dark: "#f1f5f9"}
	colorDim    = lipgloss.AdaptiveColor{Light: "#94a3b8", Dark: "#64748b"}

	styleName  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleTitle = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	styleURL   = lipgloss.NewStyle().Foreground(colorAccent).Underline(true)
	styleLabel = lipgloss.NewStyle().Foreground(colorDim)
	styleRule  = lipgloss.NewStyle().Foreground(colorDim)
)

// printBanner writes the startup summary: site title, page count, and the
// browser-facing URL.
func printBanner(w io.Writer, s *site.Site, url string) {
	width := termWidth()
	rule := styleRule.Render(strings.Repeat("─", min(width, defaultWidth)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s  %s\n", styleName.Render("darpan"), styleTitle.Render(s.Config.Title))
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  %s %s\n", styleLabel.Render("local:"), styleURL.Render(url))
	fmt.Fprintf(w, "  %s %d\n", styleLabel.Render("pages:"), len(s.Pages))
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}

func termWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return defaultWidth
}
