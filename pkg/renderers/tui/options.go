package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the lipgloss styles used for non-interactive output.
type Theme struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Paragraph lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	// Separator is drawn for separator elements.
	Separator string
}

// DefaultTheme mirrors the colours of the HTML stylesheet.
func DefaultTheme() Theme {
	return Theme{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69")),
		Subtitle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("111")),
		Paragraph: lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Separator: "────────────────────────",
	}
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutput sets where the survey driver prints informational lines.
func WithOutput(w io.Writer) Option {
	return func(r *Renderer) {
		if w != nil {
			r.out = w
		}
	}
}

// WithTheme replaces the output styles.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithMaxAttempts bounds how many submit rounds a fill-in may take before the
// renderer gives up. Zero means unlimited.
func WithMaxAttempts(n int) Option {
	return func(r *Renderer) {
		if n >= 0 {
			r.maxAttempts = n
		}
	}
}
