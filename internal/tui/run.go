package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/cooccur/internal/engine"
	tea "github.com/charmbracelet/bubbletea"
)

// Browse opens the interactive rule browser and blocks until the user quits
// or ctx is canceled.
func Browse(ctx context.Context, rep *engine.Report, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)

	p := tea.NewProgram(NewModel(rep), opts...)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("rule browser failed: %w", err)
	}
	return nil
}
