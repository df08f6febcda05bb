package view

import (
	"errors"
	"fmt"
)

// CardState is the lifecycle position of one rendered card.
type CardState int

const (
	Hidden CardState = iota
	Visible
	Editing
	Removed
)

func (s CardState) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Visible:
		return "visible"
	case Editing:
		return "editing"
	case Removed:
		return "removed"
	default:
		return fmt.Sprintf("CardState(%d)", int(s))
	}
}

var (
	ErrInvalidTransition = errors.New("invalid card transition")
	ErrNotPermitted      = errors.New("action not available to this viewer")
)

// Card is one room as it sits on a surface.
type Card struct {
	Row   Row
	State CardState
	// Draft holds the name being edited while State is Editing.
	Draft string
}

// Check reports whether the card may move to next.
func (c *Card) Check(next CardState) error {
	switch {
	case c.State == Hidden && next == Visible:
	case c.State == Visible && next == Editing:
		if !c.Row.CanEdit {
			return ErrNotPermitted
		}
	case c.State == Editing && next == Visible:
	case c.State == Visible && next == Removed:
		if !c.Row.CanDelete {
			return ErrNotPermitted
		}
	default:
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.State, next)
	}
	return nil
}

// Show makes a freshly rendered card visible.
func (c *Card) Show() error {
	if err := c.Check(Visible); err != nil {
		return err
	}
	if c.State != Hidden {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.State, Visible)
	}
	c.State = Visible
	return nil
}

// BeginEdit opens the name form pre-populated with the current name.
func (c *Card) BeginEdit() error {
	if err := c.Check(Editing); err != nil {
		return err
	}
	c.State = Editing
	c.Draft = c.Row.Name
	return nil
}

// Save closes the form after the new name was accepted.
func (c *Card) Save() error {
	if c.State != Editing {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.State, Visible)
	}
	c.State = Visible
	c.Draft = ""
	return nil
}

// Cancel closes the form and drops the draft.
func (c *Card) Cancel() error {
	if c.State != Editing {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.State, Visible)
	}
	c.State = Visible
	c.Draft = ""
	return nil
}
