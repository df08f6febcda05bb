package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/weiawesome/room-lobby/internal/domain"
	"github.com/weiawesome/room-lobby/internal/store"
	"github.com/weiawesome/room-lobby/internal/view"
)

// Session is one viewer's lobby screen. It keeps a view.Document in step with
// the service and holds the edit forms that viewer has open.
type Session struct {
	mu       sync.Mutex
	svc      LobbyService
	doc      *view.Document
	renderer *view.Renderer
}

// Snapshot is a copy of what a Session currently shows.
type Snapshot struct {
	Viewer      string
	Cards       []view.Card
	Placeholder string
}

// NewSession creates a session for opts.Viewer. Call Open to draw the list.
func NewSession(svc LobbyService, opts view.Options) *Session {
	doc := view.NewDocument()
	return &Session{
		svc:      svc,
		doc:      doc,
		renderer: view.NewRenderer(doc, opts),
	}
}

// Actor returns the identity acting through this session.
func (s *Session) Actor() string {
	return s.renderer.Viewer()
}

// Open draws the whole list from scratch.
func (s *Session) Open(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderer.RenderAll(s.svc.ListRooms(ctx))
}

// Refresh re-reads storage and patches the screen to match, keeping open edit
// forms. When the read fails the screen is still reconciled against the last
// good collection and the error is returned.
func (s *Session) Refresh(ctx context.Context) ([]view.Patch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.svc.Reload(ctx)
	return s.renderer.Reconcile(s.svc.ListRooms(ctx)), err
}

// Snapshot copies the current screen.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards := s.doc.Cards()
	snap := Snapshot{
		Viewer: s.Actor(),
		Cards:  make([]view.Card, len(cards)),
	}
	for i, c := range cards {
		snap.Cards[i] = *c
	}
	snap.Placeholder, _ = s.doc.Placeholder()
	return snap
}

// Create validates name, creates the room and appends its card.
func (s *Session) Create(ctx context.Context, name string, p Prompter) (*domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(name) == "" {
		p.Alert(MsgEmptyName)
		return nil, store.ErrEmptyName
	}

	room, err := s.svc.CreateRoom(ctx, s.Actor(), name)
	if err != nil {
		return nil, err
	}
	// Creating re-read storage, so rooms from other processes may precede ours.
	s.renderer.Reconcile(without(s.svc.ListRooms(ctx), room.ID))
	s.renderer.AppendOne(*room)
	return room, nil
}

func without(rooms []domain.Room, roomID string) []domain.Room {
	out := rooms[:0:0]
	for _, r := range rooms {
		if r.ID != roomID {
			out = append(out, r)
		}
	}
	return out
}

// Join shows the join notice for roomID. Unknown rooms show nothing.
func (s *Session) Join(ctx context.Context, roomID string, p Prompter) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, err := s.svc.JoinRoom(ctx, s.Actor(), roomID)
	if err != nil {
		return "", err
	}
	p.Alert(msg)
	return msg, nil
}

// Edit opens the name form on the card for roomID.
func (s *Session) Edit(roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.doc.Card(roomID)
	if !ok {
		return ErrRoomNotFound
	}
	return card.BeginEdit()
}

// Save submits the edit form for roomID. An empty name alerts and leaves the
// form open with the rejected draft. Otherwise the form closes and the list is
// reconciled, whether or not the rename applied.
func (s *Session) Save(ctx context.Context, roomID, name string, p Prompter) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.doc.Card(roomID)
	if !ok {
		return false, ErrRoomNotFound
	}
	if card.State != view.Editing {
		return false, fmt.Errorf("%w: %s -> %s", view.ErrInvalidTransition, card.State, view.Visible)
	}

	if strings.TrimSpace(name) == "" {
		card.Draft = name
		p.Alert(MsgEmptyName)
		return false, store.ErrEmptyName
	}

	renamed, err := s.svc.RenameRoom(ctx, s.Actor(), roomID, name)
	if err != nil {
		return false, err
	}
	if err := card.Save(); err != nil {
		return false, err
	}
	s.renderer.Reconcile(s.svc.ListRooms(ctx))
	return renamed, nil
}

// Cancel closes the edit form for roomID and drops the draft.
func (s *Session) Cancel(roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.doc.Card(roomID)
	if !ok {
		return ErrRoomNotFound
	}
	return card.Cancel()
}

// Delete asks p to confirm, then removes the room and its card.
func (s *Session) Delete(ctx context.Context, roomID string, p Prompter) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.doc.Card(roomID)
	if !ok {
		return false, ErrRoomNotFound
	}
	if err := card.Check(view.Removed); err != nil {
		return false, err
	}

	deleted, err := s.svc.DeleteRoom(ctx, s.Actor(), roomID, p)
	if err != nil {
		return false, err
	}
	if deleted {
		s.renderer.RemoveOne(roomID)
	}
	s.renderer.Reconcile(s.svc.ListRooms(ctx))
	return deleted, nil
}
