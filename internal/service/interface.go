package service

import (
	"context"

	"github.com/weiawesome/room-lobby/internal/domain"
)

// LobbyService defines the room lobby intents shared by every surface.
type LobbyService interface {
	ListRooms(ctx context.Context) []domain.Room
	GetRoom(ctx context.Context, roomID string) (*domain.Room, error)
	CreateRoom(ctx context.Context, actor, name string) (*domain.Room, error)
	// RenameRoom reports false, without error, when the room is missing or
	// actor is not its creator.
	RenameRoom(ctx context.Context, actor, roomID, name string) (bool, error)
	// DeleteRoom asks confirm before removing anything. A declined question
	// yields ErrNotConfirmed.
	DeleteRoom(ctx context.Context, actor, roomID string, confirm Confirmer) (bool, error)
	JoinRoom(ctx context.Context, actor, roomID string) (string, error)
	// Reload re-reads the persisted collection.
	Reload(ctx context.Context) error
}
