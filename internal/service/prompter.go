package service

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// User-facing messages.
const (
	MsgEmptyName     = "Please enter a room name"
	MsgConfirmDelete = "Are you sure you want to delete this room?"
)

// JoinNotice is the informational message shown when a room is joined.
func JoinNotice(roomName string) string {
	return fmt.Sprintf("Joining room \"%s\". This would navigate to the room view in a real implementation.", roomName)
}

// Confirmer answers a yes/no question.
type Confirmer interface {
	Confirm(message string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(message string) bool

func (f ConfirmFunc) Confirm(message string) bool { return f(message) }

var (
	// AlwaysConfirm answers yes without asking anyone.
	AlwaysConfirm Confirmer = ConfirmFunc(func(string) bool { return true })
	// NeverConfirm answers no.
	NeverConfirm Confirmer = ConfirmFunc(func(string) bool { return false })
)

// Prompter is the dialog facility of a surface: blocking notices and yes/no questions.
type Prompter interface {
	Confirmer
	Alert(message string)
}

// Recorder is a Prompter for surfaces that cannot ask mid-action, such as an
// HTTP request. Confirm returns the preset Answer; every message is kept so
// the surface can show it afterwards.
type Recorder struct {
	Answer bool
	Alerts []string
	Asked  []string
}

func (r *Recorder) Alert(message string) {
	r.Alerts = append(r.Alerts, message)
}

func (r *Recorder) Confirm(message string) bool {
	r.Asked = append(r.Asked, message)
	return r.Answer
}

// Console prompts on a line-oriented terminal stream.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole creates a Console reading answers from in.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

func (c *Console) Alert(message string) {
	fmt.Fprintln(c.out, message)
}

// Confirm accepts y or yes, case-insensitively. Anything else, EOF included, is no.
func (c *Console) Confirm(message string) bool {
	fmt.Fprintf(c.out, "%s [y/N]: ", message)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
