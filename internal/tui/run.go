package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/udhaarapp/udhaar/internal/engine"
)

// Run starts the dashboard and blocks until the user quits.
func Run(ctx context.Context, eng *engine.Engine) error {
	if eng == nil {
		return fmt.Errorf("engine is required")
	}

	program := tea.NewProgram(
		newModel(ctx, eng),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}
	return nil
}
