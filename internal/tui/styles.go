package tui

import "github.com/charmbracelet/lipgloss"

var (
	Primary     = lipgloss.Color("#8BC34A")
	Muted       = lipgloss.Color("#6b7280")
	Border      = lipgloss.Color("#2a3850")
	Destructive = lipgloss.Color("#e53935")
	Info        = lipgloss.Color("#2196F3")
)

// Styles holds the lipgloss styles of the lobby screen.
type Styles struct {
	Title        lipgloss.Style
	Viewer       lipgloss.Style
	Card         lipgloss.Style
	SelectedCard lipgloss.Style
	RoomName     lipgloss.Style
	Meta         lipgloss.Style
	Actions      lipgloss.Style
	Placeholder  lipgloss.Style
	Notice       lipgloss.Style
	Confirm      lipgloss.Style
	Help         lipgloss.Style
}

// DefaultStyles returns the lobby styles.
func DefaultStyles() Styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	return Styles{
		Title:        lipgloss.NewStyle().Bold(true).Foreground(Primary),
		Viewer:       lipgloss.NewStyle().Foreground(Muted),
		Card:         card,
		SelectedCard: card.BorderForeground(Primary),
		RoomName:     lipgloss.NewStyle().Bold(true),
		Meta:         lipgloss.NewStyle().Foreground(Muted),
		Actions:      lipgloss.NewStyle().Foreground(Info),
		Placeholder:  lipgloss.NewStyle().Italic(true).Foreground(Muted),
		Notice:       lipgloss.NewStyle().Foreground(Info).Bold(true),
		Confirm:      lipgloss.NewStyle().Foreground(Destructive).Bold(true),
		Help:         lipgloss.NewStyle().Foreground(Muted),
	}
}
