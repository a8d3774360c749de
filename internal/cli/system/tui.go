package system

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daydicated/internal/cli"
	"github.com/julianstephens/daydicated/internal/logger"
	"github.com/julianstephens/daydicated/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	bg, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctx.PerformAutomaticBackup(bg)

	if _, _, err := ctx.Auth.Restore(bg); err != nil {
		logger.Warn("Failed to restore session", "error", err)
	}
	actors, unsubscribe := ctx.Auth.Subscribe()
	defer unsubscribe()

	p := tea.NewProgram(tui.NewModel(bg, ctx.NewController(), actors), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}
