package view

import (
	"time"

	"github.com/weiawesome/room-lobby/internal/domain"
)

// Placeholder is shown instead of cards when there are no rooms.
const Placeholder = "No rooms available. Create one!"

// DefaultTimeFormat renders createdAt the way a browser's toLocaleString does in en-US.
const DefaultTimeFormat = "Jan 2, 2006, 3:04:05 PM"

// Options controls how rooms become rows.
type Options struct {
	// Viewer is the identity looking at the list; it decides Edit/Delete.
	Viewer     string
	TimeFormat string
	Location   *time.Location
}

func (o Options) withDefaults() Options {
	if o.TimeFormat == "" {
		o.TimeFormat = DefaultTimeFormat
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

// Row is the render-ready descriptor of one room card.
type Row struct {
	ID        string
	Name      string
	Creator   string
	CreatedAt string
	CanJoin   bool
	CanEdit   bool
	CanDelete bool
}

// NewRow projects one room for the configured viewer.
func NewRow(room domain.Room, opts Options) Row {
	opts = opts.withDefaults()
	owned := room.IsOwnedBy(opts.Viewer)
	return Row{
		ID:        room.ID,
		Name:      room.Name,
		Creator:   room.Creator,
		CreatedAt: room.CreatedAt.In(opts.Location).Format(opts.TimeFormat),
		CanJoin:   true,
		CanEdit:   owned,
		CanDelete: owned,
	}
}

// BuildRows projects rooms in order.
func BuildRows(rooms []domain.Room, opts Options) []Row {
	rows := make([]Row, len(rooms))
	for i, room := range rooms {
		rows[i] = NewRow(room, opts)
	}
	return rows
}
