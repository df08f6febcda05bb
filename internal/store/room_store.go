package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/weiawesome/room-lobby/internal/domain"
	"github.com/weiawesome/room-lobby/internal/kv"
	"github.com/weiawesome/room-lobby/pkg/log"
)

// DefaultKey is the fixed key the room collection is stored under.
const DefaultKey = "chatRooms"

const maxIDAttempts = 64

var (
	ErrEmptyName   = errors.New("room name must not be empty")
	ErrStorageRead = errors.New("stored rooms are unreadable")
)

// Option configures a RoomStore.
type Option func(*RoomStore)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *RoomStore) { s.key = key }
}

// WithAuthorizer replaces the CreatorOnly predicate.
func WithAuthorizer(a Authorizer) Option {
	return func(s *RoomStore) { s.auth = a }
}

// WithIDGenerator replaces the time-derived id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *RoomStore) { s.ids = g }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *RoomStore) { s.now = now }
}

// WithDiscardCorrupt makes Load start empty instead of failing on unreadable data.
func WithDiscardCorrupt(discard bool) Option {
	return func(s *RoomStore) { s.discardCorrupt = discard }
}

// RoomStore owns the ordered room collection of one session and mirrors it
// into a kv.Store under a single key. It is not safe for concurrent use.
type RoomStore struct {
	kv             kv.Store
	key            string
	auth           Authorizer
	ids            IDGenerator
	now            func() time.Time
	discardCorrupt bool

	rooms []domain.Room
}

// New creates an empty RoomStore. Call Load to pick up persisted rooms.
func New(backend kv.Store, opts ...Option) *RoomStore {
	s := &RoomStore{
		kv:   backend,
		key:  DefaultKey,
		auth: CreatorOnly,
		ids:  &TimeIDs{},
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the storage key.
func (s *RoomStore) Key() string {
	return s.key
}

// Load replaces the in-memory collection with the persisted one.
// An absent key yields an empty collection. With WithDiscardCorrupt, an
// unreadable value is deleted and the collection starts empty.
func (s *RoomStore) Load(ctx context.Context) error {
	l := log.Ctx(ctx)

	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			s.rooms = nil
			l.Debug().Str(log.FieldStoreKey, s.key).Msg("no stored rooms")
			return nil
		}
		return fmt.Errorf("failed to read rooms: %w", err)
	}

	rooms, err := decode(raw)
	if err != nil {
		if s.discardCorrupt {
			l.Warn().Err(err).Str(log.FieldStoreKey, s.key).Msg("discarding unreadable stored rooms")
			if err := s.kv.Delete(ctx, s.key); err != nil {
				return fmt.Errorf("failed to clear unreadable rooms: %w", err)
			}
			s.rooms = nil
			return nil
		}
		return err
	}

	s.rooms = rooms
	l.Debug().Str(log.FieldStoreKey, s.key).Int(log.FieldRooms, len(rooms)).Msg("rooms loaded")
	return nil
}

// decode parses and validates a stored collection.
func decode(raw string) ([]domain.Room, error) {
	rooms, err := domain.DecodeRooms(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageRead, err)
	}

	seen := make(map[string]struct{}, len(rooms))
	for i, r := range rooms {
		if r.ID == "" {
			return nil, fmt.Errorf("%w: room #%d has no id", ErrStorageRead, i)
		}
		if strings.TrimSpace(r.Name) == "" {
			return nil, fmt.Errorf("%w: room %q has an empty name", ErrStorageRead, r.ID)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate room id %q", ErrStorageRead, r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	return rooms, nil
}

// Save rewrites the whole persisted collection from memory.
func (s *RoomStore) Save(ctx context.Context) error {
	raw, err := domain.EncodeRooms(s.rooms)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("failed to persist rooms: %w", err)
	}
	return nil
}

// Create appends a new room owned by creatorID and persists the collection.
func (s *RoomStore) Create(ctx context.Context, name, creatorID string) (domain.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Room{}, ErrEmptyName
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	id, err := s.freshID(now)
	if err != nil {
		return domain.Room{}, err
	}

	room := domain.Room{
		ID:        id,
		Name:      name,
		Creator:   creatorID,
		CreatedAt: now,
	}

	s.rooms = append(s.rooms, room)
	if err := s.Save(ctx); err != nil {
		s.rooms = s.rooms[:len(s.rooms)-1]
		return domain.Room{}, err
	}

	l := log.Ctx(ctx)
	l.Debug().Str(log.FieldRoomID, id).Msg("room created in store")
	return room, nil
}

func (s *RoomStore) freshID(now time.Time) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.ids.NewID(now)
		if id == "" {
			continue
		}
		if _, taken := s.indexOf(id); !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique room id after %d attempts", maxIDAttempts)
}

// Rename changes the name of a room the acting identity may modify.
// It reports false, without error, when the room is missing or not modifiable.
func (s *RoomStore) Rename(ctx context.Context, roomID, newName, actingID string) (bool, error) {
	i, ok := s.authorized(roomID, actingID)
	if !ok {
		return false, nil
	}

	newName = strings.TrimSpace(newName)
	if newName == "" {
		return false, ErrEmptyName
	}

	old := s.rooms[i].Name
	s.rooms[i].Name = newName
	if err := s.Save(ctx); err != nil {
		s.rooms[i].Name = old
		return false, err
	}

	l := log.Ctx(ctx)
	l.Debug().Str(log.FieldRoomID, roomID).Msg("room renamed in store")
	return true, nil
}

// Delete removes a room the acting identity may modify, keeping the order of
// the rest. It reports false, without error, when nothing was removed.
func (s *RoomStore) Delete(ctx context.Context, roomID, actingID string) (bool, error) {
	i, ok := s.authorized(roomID, actingID)
	if !ok {
		return false, nil
	}

	prev := s.rooms
	next := make([]domain.Room, 0, len(prev)-1)
	next = append(next, prev[:i]...)
	next = append(next, prev[i+1:]...)

	s.rooms = next
	if err := s.Save(ctx); err != nil {
		s.rooms = prev
		return false, err
	}

	l := log.Ctx(ctx)
	l.Debug().Str(log.FieldRoomID, roomID).Msg("room deleted from store")
	return true, nil
}

// List returns a copy of the collection in creation order.
func (s *RoomStore) List() []domain.Room {
	out := make([]domain.Room, len(s.rooms))
	copy(out, s.rooms)
	return out
}

// Len returns the number of rooms.
func (s *RoomStore) Len() int {
	return len(s.rooms)
}

// Find looks a room up by id.
func (s *RoomStore) Find(roomID string) (domain.Room, bool) {
	i, ok := s.indexOf(roomID)
	if !ok {
		return domain.Room{}, false
	}
	return s.rooms[i], true
}

// CanModify reports whether actingID may rename or delete the room.
func (s *RoomStore) CanModify(roomID, actingID string) bool {
	_, ok := s.authorized(roomID, actingID)
	return ok
}

func (s *RoomStore) indexOf(roomID string) (int, bool) {
	for i := range s.rooms {
		if s.rooms[i].ID == roomID {
			return i, true
		}
	}
	return -1, false
}

func (s *RoomStore) authorized(roomID, actingID string) (int, bool) {
	i, ok := s.indexOf(roomID)
	if !ok || !s.auth.CanModify(s.rooms[i], actingID) {
		return -1, false
	}
	return i, true
}
