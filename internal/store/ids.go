package store

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces room identifiers. RoomStore still rejects collisions.
type IDGenerator interface {
	NewID(now time.Time) string
}

// TimeIDs issues unix-millisecond ids, bumped past the last one so two rooms
// created in the same millisecond still differ. Not safe for concurrent use.
type TimeIDs struct {
	last int64
}

// NewID implements IDGenerator.
func (g *TimeIDs) NewID(now time.Time) string {
	ms := now.UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return strconv.FormatInt(ms, 10)
}

// UUIDs issues random v4 uuids.
type UUIDs struct{}

// NewID implements IDGenerator.
func (UUIDs) NewID(time.Time) string {
	return uuid.NewString()
}

// NewIDGenerator maps a configured strategy name to a generator.
// Unknown names fall back to time-derived ids.
func NewIDGenerator(strategy string) IDGenerator {
	if strategy == "uuid" {
		return UUIDs{}
	}
	return &TimeIDs{}
}
