package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/room-lobby/pkg/database"
)

// exerciseStore checks the contract every backend must honour.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "chatRooms")
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, "chatRooms", `[]`))
	got, err := s.Get(ctx, "chatRooms")
	require.NoError(t, err)
	assert.Equal(t, `[]`, got)

	require.NoError(t, s.Set(ctx, "chatRooms", `[{"id":"1"}]`))
	got, err = s.Get(ctx, "chatRooms")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, got)

	require.NoError(t, s.Delete(ctx, "chatRooms"))
	_, err = s.Get(ctx, "chatRooms")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Deleting twice is fine.
	assert.NoError(t, s.Delete(ctx, "chatRooms"))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(FileConfig{BasePath: t.TempDir()})
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestFileStoreWritesOneFilePerKey(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(FileConfig{BasePath: dir})
	require.NoError(t, err)

	require.NoError(t, s.Set(context.Background(), "chatRooms", "[]"))

	data, err := os.ReadFile(filepath.Join(dir, "chatRooms.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	s, err := NewFileStore(FileConfig{BasePath: t.TempDir()})
	require.NoError(t, err)

	for _, key := range []string{"..", "../escape", "/etc/passwd", "."} {
		_, err := s.Get(context.Background(), key)
		assert.Error(t, err, key)
		assert.NotErrorIs(t, err, ErrKeyNotFound, key)
	}
}

func TestGormStoreSQLite(t *testing.T) {
	s, err := NewGormStore(&database.Config{
		Driver:       "sqlite",
		FilePath:     filepath.Join(t.TempDir(), "lobby.db"),
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	exerciseStore(t, s)
}

func TestOpenSelectsBackend(t *testing.T) {
	s, err := Open(context.Background(), Config{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(context.Background(), Config{Backend: BackendFile, File: FileConfig{BasePath: t.TempDir()}})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = Open(context.Background(), Config{Backend: BackendGorm})
	assert.Error(t, err)

	_, err = Open(context.Background(), Config{Backend: "etcd"})
	assert.Error(t, err)
}

func TestRedisBuildKey(t *testing.T) {
	assert.Equal(t, "lobby:chatRooms", (&RedisStore{prefix: "lobby"}).BuildKey("chatRooms"))
	assert.Equal(t, "chatRooms", (&RedisStore{}).BuildKey("chatRooms"))
}

func TestS3ObjectKey(t *testing.T) {
	assert.Equal(t, "lobby/chatRooms.json", (&S3Store{prefix: "lobby"}).ObjectKey("chatRooms"))
	assert.Equal(t, "chatRooms.json", (&S3Store{}).ObjectKey("chatRooms"))
}
