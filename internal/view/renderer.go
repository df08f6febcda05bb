package view

import (
	"github.com/weiawesome/room-lobby/internal/domain"
)

// Renderer projects the room list onto a Surface and keeps track of what it
// has drawn, so later calls can patch instead of redraw.
type Renderer struct {
	surface     Surface
	opts        Options
	rows        []Row
	placeholder bool
}

// NewRenderer creates a Renderer drawing onto surface.
func NewRenderer(surface Surface, opts Options) *Renderer {
	return &Renderer{
		surface: surface,
		opts:    opts.withDefaults(),
	}
}

// Viewer returns the identity the renderer draws for.
func (r *Renderer) Viewer() string {
	return r.opts.Viewer
}

// Row projects one room with the renderer's options.
func (r *Renderer) Row(room domain.Room) Row {
	return NewRow(room, r.opts)
}

// Rows returns what is currently drawn.
func (r *Renderer) Rows() []Row {
	out := make([]Row, len(r.rows))
	copy(out, r.rows)
	return out
}

// ShowingPlaceholder reports whether the placeholder is drawn.
func (r *Renderer) ShowingPlaceholder() bool {
	return r.placeholder
}

// RenderAll clears the surface and draws rooms from scratch.
func (r *Renderer) RenderAll(rooms []domain.Room) {
	r.draw(BuildRows(rooms, r.opts))
}

func (r *Renderer) draw(rows []Row) {
	r.surface.Clear()
	r.rows = rows
	r.placeholder = len(rows) == 0
	if r.placeholder {
		r.surface.ShowPlaceholder(Placeholder)
		return
	}
	for _, row := range rows {
		r.surface.Append(row)
	}
}

// AppendOne draws a newly created room after the others. The result matches
// RenderAll on the extended list.
func (r *Renderer) AppendOne(room domain.Room) {
	row := r.Row(room)
	for i := range r.rows {
		if r.rows[i].ID == row.ID {
			r.rows[i] = row
			r.surface.Replace(row)
			return
		}
	}

	if r.placeholder {
		r.surface.Clear()
		r.placeholder = false
	}
	r.surface.Append(row)
	r.rows = append(r.rows, row)
}

// RemoveOne erases exactly the card for roomID, falling back to the
// placeholder when it was the last one.
func (r *Renderer) RemoveOne(roomID string) {
	for i := range r.rows {
		if r.rows[i].ID != roomID {
			continue
		}
		r.surface.Remove(roomID)
		r.rows = append(r.rows[:i:i], r.rows[i+1:]...)
		if len(r.rows) == 0 {
			r.surface.ShowPlaceholder(Placeholder)
			r.placeholder = true
		}
		return
	}
}

// Reconcile patches the surface to show rooms and returns the applied patches.
func (r *Renderer) Reconcile(rooms []domain.Room) []Patch {
	target := BuildRows(rooms, r.opts)
	patches := Diff(r.rows, target)

	for _, p := range patches {
		switch p.Op {
		case OpReset:
			r.draw(target)
			return patches
		case OpRemove:
			r.surface.Remove(p.ID)
		case OpUpdate:
			r.surface.Replace(p.Row)
		case OpAppend:
			if r.placeholder {
				r.surface.Clear()
				r.placeholder = false
			}
			r.surface.Append(p.Row)
		}
	}

	r.rows = target
	if len(target) == 0 && !r.placeholder {
		r.surface.ShowPlaceholder(Placeholder)
		r.placeholder = true
	}
	return patches
}
