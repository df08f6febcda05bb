package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/weiawesome/room-lobby/internal/service"
	"github.com/weiawesome/room-lobby/internal/store"
	"github.com/weiawesome/room-lobby/internal/view"
	"github.com/weiawesome/room-lobby/pkg/log"
)

type mode int

const (
	modeBrowse mode = iota
	modeCreate
	modeEdit
	modeConfirmDelete
)

// Model is the bubbletea model of the lobby screen. It draws from the
// session's document and routes key presses to session intents.
type Model struct {
	// ctx lives as long as the program. tea.Model methods take no context and
	// every session call runs synchronously inside Update.
	ctx     context.Context
	session *service.Session
	input   textinput.Model
	styles  Styles

	mode    mode
	cursor  int
	pending string // room id being edited or awaiting delete confirmation
	notice  string
	err     error
	width   int
}

// New creates the model and draws the initial list.
func New(ctx context.Context, session *service.Session) Model {
	ti := textinput.New()
	ti.Placeholder = "Room name"
	ti.Prompt = "│ "
	ti.CharLimit = 200
	ti.Width = 40

	session.Open(ctx)

	return Model{
		ctx:     ctx,
		session: session,
		input:   ti,
		styles:  DefaultStyles(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeCreate, modeEdit:
			return m.updateInput(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	m.err = nil

	cards := m.session.Snapshot().Cards
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down":
		if m.cursor < len(cards)-1 {
			m.cursor++
		}
	case "r":
		if _, err := m.session.Refresh(m.ctx); err != nil {
			m.fail(err)
		}
	case "n":
		m.mode = modeCreate
		m.input.Reset()
		return m, m.input.Focus()
	case "enter", "j":
		if card, ok := selected(cards, m.cursor); ok {
			rec := &service.Recorder{}
			if _, err := m.session.Join(m.ctx, card.Row.ID, rec); err != nil {
				m.fail(err)
			}
			m.showAlerts(rec)
		}
	case "e":
		if card, ok := selected(cards, m.cursor); ok {
			if err := m.session.Edit(card.Row.ID); err != nil {
				// Edit is not offered on rooms the viewer did not create.
				if !errors.Is(err, view.ErrNotPermitted) {
					m.fail(err)
				}
				break
			}
			m.mode = modeEdit
			m.pending = card.Row.ID
			m.input.SetValue(card.Row.Name)
			m.input.CursorEnd()
			return m, m.input.Focus()
		}
	case "d":
		if card, ok := selected(cards, m.cursor); ok && card.Row.CanDelete {
			m.mode = modeConfirmDelete
			m.pending = card.Row.ID
		}
	}

	m.clampCursor()
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.mode == modeEdit {
			if err := m.session.Cancel(m.pending); err != nil {
				m.fail(err)
			}
		}
		m.leaveInput()
		return m, nil
	case "enter":
		m.notice = ""
		rec := &service.Recorder{}
		var err error
		if m.mode == modeCreate {
			_, err = m.session.Create(m.ctx, m.input.Value(), rec)
		} else {
			_, err = m.session.Save(m.ctx, m.pending, m.input.Value(), rec)
		}
		m.showAlerts(rec)
		if err != nil {
			// An empty name keeps the form open.
			if !errors.Is(err, store.ErrEmptyName) {
				m.fail(err)
				if m.mode == modeEdit {
					_ = m.session.Cancel(m.pending)
				}
				m.leaveInput()
			}
			return m, nil
		}
		if m.mode == modeCreate {
			m.cursor = len(m.session.Snapshot().Cards) - 1
		}
		m.leaveInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y":
		if _, err := m.session.Delete(m.ctx, m.pending, &service.Recorder{Answer: true}); err != nil {
			m.fail(err)
		}
	case "n", "esc":
	default:
		return m, nil
	}

	m.mode = modeBrowse
	m.pending = ""
	m.clampCursor()
	return m, nil
}

func (m *Model) leaveInput() {
	m.mode = modeBrowse
	m.pending = ""
	m.input.Reset()
	m.input.Blur()
	m.clampCursor()
}

func (m *Model) showAlerts(rec *service.Recorder) {
	if len(rec.Alerts) > 0 {
		m.notice = rec.Alerts[len(rec.Alerts)-1]
	}
}

func (m *Model) fail(err error) {
	m.err = err
	l := log.Ctx(m.ctx)
	l.Error().Err(err).Str(log.FieldSurface, "tui").Msg("lobby action failed")
}

func (m *Model) clampCursor() {
	n := len(m.session.Snapshot().Cards)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func selected(cards []view.Card, cursor int) (view.Card, bool) {
	if cursor < 0 || cursor >= len(cards) {
		return view.Card{}, false
	}
	return cards[cursor], true
}
