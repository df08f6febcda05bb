package view

import "fmt"

// Op is a single surface mutation.
type Op int

const (
	// OpReset redraws the whole list.
	OpReset Op = iota
	OpRemove
	OpUpdate
	OpAppend
)

func (o Op) String() string {
	switch o {
	case OpReset:
		return "reset"
	case OpRemove:
		return "remove"
	case OpUpdate:
		return "update"
	case OpAppend:
		return "append"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Patch is one step turning the displayed rows into the target rows.
type Patch struct {
	Op  Op
	Row Row    // OpUpdate, OpAppend
	ID  string // OpRemove
}

// Diff returns the patches that turn from into to. Removals come first, then
// in-place updates, then appends. When surviving rows changed relative order,
// or a new row lands before a surviving one, the result is a single OpReset.
func Diff(from, to []Row) []Patch {
	target := make(map[string]int, len(to))
	for i, r := range to {
		target[r.ID] = i
	}
	current := make(map[string]Row, len(from))
	for _, r := range from {
		current[r.ID] = r
	}

	var patches []Patch

	lastPos := -1
	for _, r := range from {
		pos, keep := target[r.ID]
		if !keep {
			patches = append(patches, Patch{Op: OpRemove, ID: r.ID})
			continue
		}
		if pos < lastPos {
			return []Patch{{Op: OpReset}}
		}
		lastPos = pos
	}

	var appends []Patch
	for i, r := range to {
		old, existed := current[r.ID]
		switch {
		case !existed:
			if i < lastPos {
				return []Patch{{Op: OpReset}}
			}
			appends = append(appends, Patch{Op: OpAppend, Row: r})
		case old != r:
			patches = append(patches, Patch{Op: OpUpdate, Row: r})
		}
	}

	return append(patches, appends...)
}
