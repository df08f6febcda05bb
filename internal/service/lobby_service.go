package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/weiawesome/room-lobby/internal/audit"
	"github.com/weiawesome/room-lobby/internal/domain"
	"github.com/weiawesome/room-lobby/internal/store"
	"github.com/weiawesome/room-lobby/pkg/log"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrNotConfirmed = errors.New("room deletion was not confirmed")
)

// lobbyServiceImpl implements LobbyService. One mutex runs every intent to
// completion before the next starts; RoomStore is not safe for concurrent use.
type lobbyServiceImpl struct {
	mu    sync.Mutex
	rooms *store.RoomStore
}

// NewLobbyService creates a lobby service over a loaded RoomStore.
func NewLobbyService(rooms *store.RoomStore) LobbyService {
	return &lobbyServiceImpl{rooms: rooms}
}

// ListRooms returns every room in creation order.
func (s *lobbyServiceImpl) ListRooms(ctx context.Context) []domain.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms.List()
}

// GetRoom retrieves a room by ID.
func (s *lobbyServiceImpl) GetRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms.Find(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}
	return &room, nil
}

// CreateRoom creates a room owned by actor.
func (s *lobbyServiceImpl) CreateRoom(ctx context.Context, actor, name string) (*domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := log.Ctx(ctx)
	if err := s.reload(ctx); err != nil {
		return nil, err
	}

	room, err := s.rooms.Create(ctx, name, actor)
	if err != nil {
		if !errors.Is(err, store.ErrEmptyName) {
			l.Error().Err(err).Str(log.FieldActor, actor).Msg("failed to create room")
		}
		return nil, err
	}

	audit.LogWithDetail(ctx, audit.ActionCreateRoom, actor, room.ID, room.Name, "room created")
	return &room, nil
}

// RenameRoom renames a room the actor created.
func (s *lobbyServiceImpl) RenameRoom(ctx context.Context, actor, roomID, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := log.Ctx(ctx)
	if err := s.reload(ctx); err != nil {
		return false, err
	}

	ok, err := s.rooms.Rename(ctx, roomID, name, actor)
	if err != nil {
		if !errors.Is(err, store.ErrEmptyName) {
			l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to rename room")
		}
		return false, err
	}
	if !ok {
		l.Debug().Str(log.FieldRoomID, roomID).Str(log.FieldActor, actor).Msg("rename not applied")
		return false, nil
	}

	audit.LogWithDetail(ctx, audit.ActionRenameRoom, actor, roomID, strings.TrimSpace(name), "room renamed")
	return true, nil
}

// DeleteRoom removes a room the actor created once confirm agrees. Nothing is
// asked when the room is missing or belongs to someone else. confirm runs
// with the service lock held.
func (s *lobbyServiceImpl) DeleteRoom(ctx context.Context, actor, roomID string, confirm Confirmer) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := log.Ctx(ctx)
	if err := s.reload(ctx); err != nil {
		return false, err
	}

	if !s.rooms.CanModify(roomID, actor) {
		l.Debug().Str(log.FieldRoomID, roomID).Str(log.FieldActor, actor).Msg("delete not applied")
		return false, nil
	}
	if confirm == nil || !confirm.Confirm(MsgConfirmDelete) {
		return false, ErrNotConfirmed
	}

	ok, err := s.rooms.Delete(ctx, roomID, actor)
	if err != nil {
		l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to delete room")
		return false, err
	}
	if ok {
		audit.Log(ctx, audit.ActionDeleteRoom, actor, roomID, "room deleted")
	}
	return ok, nil
}

// JoinRoom returns the join notice for an existing room. It changes nothing.
func (s *lobbyServiceImpl) JoinRoom(ctx context.Context, actor, roomID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms.Find(roomID)
	if !ok {
		return "", ErrRoomNotFound
	}

	audit.Log(ctx, audit.ActionJoinRoom, actor, roomID, "room joined")
	return JoinNotice(room.Name), nil
}

// Reload re-reads the persisted collection, dropping unsaved state.
func (s *lobbyServiceImpl) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reload(ctx)
}

// reload picks up writes other processes made to the shared backend.
// Mutations run it first. Callers hold s.mu.
func (s *lobbyServiceImpl) reload(ctx context.Context) error {
	if err := s.rooms.Load(ctx); err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldStoreKey, s.rooms.Key()).Msg("failed to reload rooms")
		return err
	}
	return nil
}
