package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/weiawesome/room-lobby/internal/service"
)

// Run shows the lobby in the terminal until the user quits or ctx ends.
func Run(ctx context.Context, session *service.Session) error {
	p := tea.NewProgram(New(ctx, session), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
