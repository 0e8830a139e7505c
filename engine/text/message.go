package text

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrMessageWindow is returned for a message whose window is empty or reversed.
	ErrMessageWindow = errors.New("text: invalid message window")
	// ErrMessageOverlap is returned when two messages are active at the same time.
	ErrMessageOverlap = errors.New("text: messages overlap")
	// ErrEmptyMessage is returned for a message with no text.
	ErrEmptyMessage = errors.New("text: empty message")
)

// Message is a string painted onto the canvas during [Start, End).
type Message struct {
	Text  string
	Color colorful.Color
	Start float64
	End   float64
}

// Key identifies the bitmap rendered for the message.
func (m Message) Key() string { return m.Text }

// Cells returns the number of character cells the message is split into.
func (m Message) Cells() int {
	return utf8.RuneCountInString(m.Text)
}

// Messages is the show's text schedule in time order.
type Messages []Message

// Validate checks every window and that no two messages overlap.
func (ms Messages) Validate() error {
	for i, m := range ms {
		if m.Text == "" {
			return fmt.Errorf("%w: message %d", ErrEmptyMessage, i)
		}
		if !(m.Start < m.End) {
			return fmt.Errorf("%w: %q [%g, %g)", ErrMessageWindow, m.Text, m.Start, m.End)
		}
		if i > 0 && m.Start < ms[i-1].End {
			return fmt.Errorf("%w: %q [%g, %g) and %q [%g, %g)", ErrMessageOverlap,
				ms[i-1].Text, ms[i-1].Start, ms[i-1].End, m.Text, m.Start, m.End)
		}
	}
	return nil
}

// Active returns the message shown at t.
func (ms Messages) Active(t float64) (Message, bool) {
	for _, m := range ms {
		if t >= m.Start && t < m.End {
			return m, true
		}
	}
	return Message{}, false
}
