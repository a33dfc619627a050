package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"vessel/internal/service"
)

// Run shows the dashboard until the user quits or ctx is cancelled.
func Run(ctx context.Context, backend service.Backend, log *zap.Logger) error {
	p := tea.NewProgram(New(ctx, backend, log), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}
