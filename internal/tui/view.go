package tui

import (
	"fmt"
	"strings"

	"github.com/weiawesome/room-lobby/internal/service"
	"github.com/weiawesome/room-lobby/internal/view"
)

// View implements tea.Model.
func (m Model) View() string {
	snap := m.session.Snapshot()

	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Chat Rooms"))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Viewer.Render("Signed in as " + snap.Viewer))
	sb.WriteString("\n\n")

	if snap.Placeholder != "" {
		sb.WriteString(m.styles.Placeholder.Render(snap.Placeholder))
		sb.WriteString("\n")
	}
	for i, card := range snap.Cards {
		sb.WriteString(m.renderCard(card, i == m.cursor))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	switch m.mode {
	case modeCreate:
		sb.WriteString("New room\n")
		sb.WriteString(m.input.View())
		sb.WriteString("\n")
	case modeConfirmDelete:
		sb.WriteString(m.styles.Confirm.Render(service.MsgConfirmDelete + " (y/n)"))
		sb.WriteString("\n")
	}

	if m.notice != "" {
		sb.WriteString(m.styles.Notice.Render(m.notice))
		sb.WriteString("\n")
	}
	if m.err != nil {
		sb.WriteString(m.styles.Confirm.Render("Error: " + m.err.Error()))
		sb.WriteString("\n")
	}

	sb.WriteString(m.styles.Help.Render(m.help()))
	return sb.String()
}

func (m Model) renderCard(card view.Card, focused bool) string {
	style := m.styles.Card
	if focused {
		style = m.styles.SelectedCard
	}
	if m.width > 4 {
		style = style.Width(m.width - 4)
	}

	var body string
	if card.State == view.Editing && m.mode == modeEdit && m.pending == card.Row.ID {
		body = "Rename room\n" + m.input.View()
	} else {
		body = m.styles.RoomName.Render(card.Row.Name) + "\n" +
			m.styles.Meta.Render(fmt.Sprintf("Created by %s on %s", card.Row.Creator, card.Row.CreatedAt))
		if actions := cardActions(card.Row); actions != "" {
			body += "\n" + m.styles.Actions.Render(actions)
		}
	}
	return style.Render(body)
}

func cardActions(row view.Row) string {
	var actions []string
	if row.CanJoin {
		actions = append(actions, "[j]oin")
	}
	if row.CanEdit {
		actions = append(actions, "[e]dit")
	}
	if row.CanDelete {
		actions = append(actions, "[d]elete")
	}
	return strings.Join(actions, "  ")
}

func (m Model) help() string {
	switch m.mode {
	case modeCreate:
		return "enter: create • esc: back"
	case modeEdit:
		return "enter: save • esc: cancel"
	case modeConfirmDelete:
		return "y: delete • n: keep"
	default:
		return "↑/↓: select • n: new room • j/enter: join • e: edit • d: delete • r: refresh • q: quit"
	}
}
