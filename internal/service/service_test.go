package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/room-lobby/internal/domain"
	"github.com/weiawesome/room-lobby/internal/kv"
	"github.com/weiawesome/room-lobby/internal/store"
	"github.com/weiawesome/room-lobby/internal/view"
)

const (
	me    = "syed-asad-ul-zaman"
	other = "other-user"
)

func newTestService(t *testing.T) (LobbyService, *kv.MemoryStore) {
	t.Helper()
	mem := kv.NewMemoryStore()
	rooms := store.New(mem)
	require.NoError(t, rooms.Load(context.Background()))
	return NewLobbyService(rooms), mem
}

func newTestSession(t *testing.T, svc LobbyService, viewer string) *Session {
	t.Helper()
	s := NewSession(svc, view.Options{Viewer: viewer, Location: time.UTC})
	s.Open(context.Background())
	return s
}

func storedRooms(t *testing.T, mem kv.Store) []domain.Room {
	t.Helper()
	raw, err := mem.Get(context.Background(), store.DefaultKey)
	require.NoError(t, err)
	rooms, err := domain.DecodeRooms(raw)
	require.NoError(t, err)
	return rooms
}

func TestLobbyServiceCreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t)

	room, err := svc.CreateRoom(ctx, me, "  General  ")
	require.NoError(t, err)
	assert.Equal(t, "General", room.Name)
	assert.Equal(t, me, room.Creator)

	got, err := svc.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, *room, *got)
	assert.Len(t, storedRooms(t, mem), 1)

	_, err = svc.GetRoom(ctx, "missing")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestLobbyServiceCreateEmptyName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateRoom(context.Background(), me, "   ")
	assert.ErrorIs(t, err, store.ErrEmptyName)
	assert.Empty(t, svc.ListRooms(context.Background()))
}

func TestLobbyServiceRename(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	room, err := svc.CreateRoom(ctx, me, "old")
	require.NoError(t, err)

	ok, err := svc.RenameRoom(ctx, other, room.ID, "hijacked")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.RenameRoom(ctx, me, room.ID, "new")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := svc.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Name)
}

func TestLobbyServiceDelete(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t)
	room, err := svc.CreateRoom(ctx, me, "doomed")
	require.NoError(t, err)

	t.Run("non creator is never asked", func(t *testing.T) {
		asked := false
		ok, err := svc.DeleteRoom(ctx, other, room.ID, ConfirmFunc(func(string) bool {
			asked = true
			return true
		}))
		require.NoError(t, err)
		assert.False(t, ok)
		assert.False(t, asked)
	})

	t.Run("declined", func(t *testing.T) {
		ok, err := svc.DeleteRoom(ctx, me, room.ID, NeverConfirm)
		assert.ErrorIs(t, err, ErrNotConfirmed)
		assert.False(t, ok)
		assert.Len(t, storedRooms(t, mem), 1)
	})

	t.Run("nil confirmer declines", func(t *testing.T) {
		_, err := svc.DeleteRoom(ctx, me, room.ID, nil)
		assert.ErrorIs(t, err, ErrNotConfirmed)
	})

	t.Run("confirmed", func(t *testing.T) {
		rec := &Recorder{Answer: true}
		ok, err := svc.DeleteRoom(ctx, me, room.ID, rec)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{MsgConfirmDelete}, rec.Asked)
		assert.Empty(t, storedRooms(t, mem))
	})
}

func TestLobbyServiceJoin(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t)
	room, err := svc.CreateRoom(ctx, other, "Lounge")
	require.NoError(t, err)
	before, err := mem.Get(ctx, store.DefaultKey)
	require.NoError(t, err)

	msg, err := svc.JoinRoom(ctx, me, room.ID)
	require.NoError(t, err)
	assert.Equal(t, `Joining room "Lounge". This would navigate to the room view in a real implementation.`, msg)

	after, err := mem.Get(ctx, store.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	_, err = svc.JoinRoom(ctx, me, "missing")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestLobbyServiceReload(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t)

	raw, err := domain.EncodeRooms([]domain.Room{{
		ID: "1", Name: "external", Creator: other, CreatedAt: time.Unix(0, 0).UTC(),
	}})
	require.NoError(t, err)
	require.NoError(t, mem.Set(ctx, store.DefaultKey, raw))

	require.NoError(t, svc.Reload(ctx))
	rooms := svc.ListRooms(ctx)
	require.Len(t, rooms, 1)
	assert.Equal(t, "external", rooms[0].Name)

	require.NoError(t, mem.Set(ctx, store.DefaultKey, "{not json"))
	assert.ErrorIs(t, svc.Reload(ctx), store.ErrStorageRead)
}

func TestSessionOpenEmptyShowsPlaceholder(t *testing.T) {
	svc, _ := newTestService(t)
	s := newTestSession(t, svc, me)

	snap := s.Snapshot()
	assert.Equal(t, view.Placeholder, snap.Placeholder)
	assert.Empty(t, snap.Cards)
	assert.Equal(t, me, snap.Viewer)
}

func TestSessionCreate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	s := newTestSession(t, svc, me)
	rec := &Recorder{}

	_, err := s.Create(ctx, "", rec)
	assert.ErrorIs(t, err, store.ErrEmptyName)
	assert.Equal(t, []string{MsgEmptyName}, rec.Alerts)
	assert.Empty(t, svc.ListRooms(ctx))

	room, err := s.Create(ctx, "General", rec)
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Empty(t, snap.Placeholder)
	require.Len(t, snap.Cards, 1)
	assert.Equal(t, room.ID, snap.Cards[0].Row.ID)
	assert.True(t, snap.Cards[0].Row.CanEdit)
}

func TestSessionJoin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	room, err := svc.CreateRoom(ctx, other, "Lounge")
	require.NoError(t, err)
	s := newTestSession(t, svc, me)
	rec := &Recorder{}

	_, err = s.Join(ctx, room.ID, rec)
	require.NoError(t, err)
	assert.Equal(t, []string{JoinNotice("Lounge")}, rec.Alerts)

	rec.Alerts = nil
	_, err = s.Join(ctx, "missing", rec)
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.Empty(t, rec.Alerts)
}

func TestSessionEditSaveCancel(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	s := newTestSession(t, svc, me)
	rec := &Recorder{}
	room, err := s.Create(ctx, "Room", rec)
	require.NoError(t, err)

	_, err = s.Save(ctx, room.ID, "too early", rec)
	assert.ErrorIs(t, err, view.ErrInvalidTransition)

	require.NoError(t, s.Edit(room.ID))
	assert.Equal(t, "Room", s.Snapshot().Cards[0].Draft)

	_, err = s.Save(ctx, room.ID, "  ", rec)
	assert.ErrorIs(t, err, store.ErrEmptyName)
	assert.Equal(t, []string{MsgEmptyName}, rec.Alerts)
	assert.Equal(t, view.Editing, s.Snapshot().Cards[0].State)

	require.NoError(t, s.Cancel(room.ID))
	assert.Equal(t, view.Visible, s.Snapshot().Cards[0].State)
	assert.Equal(t, "Room", s.Snapshot().Cards[0].Row.Name)

	require.NoError(t, s.Edit(room.ID))
	renamed, err := s.Save(ctx, room.ID, "Renamed", rec)
	require.NoError(t, err)
	assert.True(t, renamed)

	card := s.Snapshot().Cards[0]
	assert.Equal(t, view.Visible, card.State)
	assert.Equal(t, "Renamed", card.Row.Name)

	assert.ErrorIs(t, s.Edit("missing"), ErrRoomNotFound)
	assert.ErrorIs(t, s.Cancel(room.ID), view.ErrInvalidTransition)
}

func TestSessionNonCreatorCannotEditOrDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	room, err := svc.CreateRoom(ctx, other, "Theirs")
	require.NoError(t, err)
	s := newTestSession(t, svc, me)

	assert.ErrorIs(t, s.Edit(room.ID), view.ErrNotPermitted)

	_, err = s.Delete(ctx, room.ID, &Recorder{Answer: true})
	assert.ErrorIs(t, err, view.ErrNotPermitted)
	assert.Len(t, svc.ListRooms(ctx), 1)
}

func TestSessionDelete(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t)
	s := newTestSession(t, svc, me)
	room, err := s.Create(ctx, "Room", &Recorder{})
	require.NoError(t, err)

	declined := &Recorder{}
	_, err = s.Delete(ctx, room.ID, declined)
	assert.ErrorIs(t, err, ErrNotConfirmed)
	assert.Equal(t, []string{MsgConfirmDelete}, declined.Asked)
	assert.Len(t, s.Snapshot().Cards, 1)
	assert.Len(t, storedRooms(t, mem), 1)

	deleted, err := s.Delete(ctx, room.ID, &Recorder{Answer: true})
	require.NoError(t, err)
	assert.True(t, deleted)

	snap := s.Snapshot()
	assert.Empty(t, snap.Cards)
	assert.Equal(t, view.Placeholder, snap.Placeholder)
	assert.Empty(t, storedRooms(t, mem))
}

func TestSessionRefreshPicksUpOtherViewers(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	mine := newTestSession(t, svc, me)
	theirs := newTestSession(t, svc, other)

	room, err := mine.Create(ctx, "Mine", &Recorder{})
	require.NoError(t, err)
	require.NoError(t, mine.Edit(room.ID))

	_, err = theirs.Create(ctx, "Theirs", &Recorder{})
	require.NoError(t, err)

	patches, err := mine.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, patches, 1)
	assert.Equal(t, view.OpAppend, patches[0].Op)

	snap := mine.Snapshot()
	require.Len(t, snap.Cards, 2)
	assert.Equal(t, view.Editing, snap.Cards[0].State)
	assert.False(t, snap.Cards[1].Row.CanEdit)
}

// Two processes, such as `lobby serve` and `lobby rooms create`, sharing one
// backend through separate stores.
func TestSharedBackendKeepsEveryWrite(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemoryStore()
	at := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)
	clock := func() time.Time { return at }

	serverRooms := store.New(mem, store.WithClock(clock))
	require.NoError(t, serverRooms.Load(ctx))
	server := NewLobbyService(serverRooms)
	sess := newTestSession(t, server, me)

	cliRooms := store.New(mem, store.WithClock(clock))
	require.NoError(t, cliRooms.Load(ctx))
	cli := NewLobbyService(cliRooms)

	fromCLI, err := cli.CreateRoom(ctx, me, "From CLI")
	require.NoError(t, err)

	_, err = sess.Refresh(ctx)
	require.NoError(t, err)
	snap := sess.Snapshot()
	require.Len(t, snap.Cards, 1)
	assert.Equal(t, "From CLI", snap.Cards[0].Row.Name)

	fromServer, err := sess.Create(ctx, "From server", &Recorder{})
	require.NoError(t, err)
	assert.NotEqual(t, fromCLI.ID, fromServer.ID)

	stored := storedRooms(t, mem)
	require.Len(t, stored, 2)
	assert.Equal(t, "From CLI", stored[0].Name)
	assert.Equal(t, "From server", stored[1].Name)

	cards := sess.Snapshot().Cards
	require.Len(t, cards, 2)
	assert.Equal(t, fromCLI.ID, cards[0].Row.ID)
	assert.Equal(t, fromServer.ID, cards[1].Row.ID)

	// A rename from the CLI survives a later server delete.
	ok, err := cli.RenameRoom(ctx, me, fromCLI.ID, "Renamed by CLI")
	require.NoError(t, err)
	require.True(t, ok)

	deleted, err := sess.Delete(ctx, fromServer.ID, &Recorder{Answer: true})
	require.NoError(t, err)
	require.True(t, deleted)

	stored = storedRooms(t, mem)
	require.Len(t, stored, 1)
	assert.Equal(t, "Renamed by CLI", stored[0].Name)

	cards = sess.Snapshot().Cards
	require.Len(t, cards, 1)
	assert.Equal(t, "Renamed by CLI", cards[0].Row.Name)

	// A room deleted elsewhere cannot be renamed back into existence.
	ok, err = cli.DeleteRoom(ctx, me, fromCLI.ID, AlwaysConfirm)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = server.RenameRoom(ctx, me, fromCLI.ID, "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, storedRooms(t, mem))
}

func TestSessionRefreshReportsUnreadableStorage(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t)
	s := newTestSession(t, svc, me)
	_, err := s.Create(ctx, "Kept", &Recorder{})
	require.NoError(t, err)

	require.NoError(t, mem.Set(ctx, store.DefaultKey, "{not json"))

	_, err = s.Refresh(ctx)
	assert.ErrorIs(t, err, store.ErrStorageRead)
	require.Len(t, s.Snapshot().Cards, 1)
	assert.Equal(t, "Kept", s.Snapshot().Cards[0].Row.Name)

	_, err = svc.CreateRoom(ctx, me, "Blocked")
	assert.ErrorIs(t, err, store.ErrStorageRead)
	assert.Len(t, svc.ListRooms(ctx), 1)
}

// Create, rename, view as another user, then delete back to the placeholder.
func TestTeamSyncScenario(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t)
	s := newTestSession(t, svc, me)
	rec := &Recorder{Answer: true}

	room, err := s.Create(ctx, "Team Sync", rec)
	require.NoError(t, err)
	require.NoError(t, s.Edit(room.ID))
	_, err = s.Save(ctx, room.ID, "Team Sync (weekly)", rec)
	require.NoError(t, err)
	assert.Equal(t, "Team Sync (weekly)", storedRooms(t, mem)[0].Name)

	guest := newTestSession(t, svc, other)
	card := guest.Snapshot().Cards[0]
	assert.True(t, card.Row.CanJoin)
	assert.False(t, card.Row.CanEdit)
	assert.False(t, card.Row.CanDelete)

	deleted, err := s.Delete(ctx, room.ID, rec)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, view.Placeholder, s.Snapshot().Placeholder)
	assert.Empty(t, storedRooms(t, mem))
}

func TestConsole(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"y", true},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		c := NewConsole(strings.NewReader(tt.input), &out)
		assert.Equal(t, tt.want, c.Confirm(MsgConfirmDelete), "input %q", tt.input)
		assert.Equal(t, MsgConfirmDelete+" [y/N]: ", out.String())
	}

	var out bytes.Buffer
	NewConsole(strings.NewReader(""), &out).Alert(MsgEmptyName)
	assert.Equal(t, MsgEmptyName+"\n", out.String())
}
