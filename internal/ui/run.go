package ui

import (
	"context"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"safethunk/internal/pipeline"
)

// Enabled resolves --ui auto|on|off. auto shows the view only when stderr is
// a terminal and there is more than one file.
func Enabled(mode string, files int) bool {
	switch strings.ToLower(mode) {
	case "on":
		return true
	case "off":
		return false
	default:
		return files > 1 && term.IsTerminal(int(os.Stderr.Fd()))
	}
}

// Run shows the progress view on stderr until events is closed.
func Run(ctx context.Context, title string, files []string, events <-chan pipeline.Event) error {
	p := tea.NewProgram(
		NewProgressModel(title, files, events),
		tea.WithOutput(os.Stderr),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
