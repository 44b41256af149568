package tui

import (
	"phonebook-client/internal/actions"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type Options struct {
	// Address seeds the server address field.
	Address string
	Client  actions.Querier
	Logger  *zap.Logger
	// Profile is the color profile: "default" or "mono".
	Profile string
}

func Run(opts Options) error {
	applyColorProfilePreference(opts.Profile)
	applyThemePreference()

	m := newAppModel(opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
