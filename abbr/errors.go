package abbr

import (
	"errors"
	"fmt"
)

// ErrMalformed is returned (wrapped) for any abbreviation which cannot be
// parsed. No partial tree is ever returned together with it.
var ErrMalformed = errors.New("malformed abbreviation")

// Error describes parsing problem. Pos is a byte offset in the abbreviation.
type Error struct {
	Pos int
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at position %d: %s", ErrMalformed, e.Pos, e.Msg)
}

func (e *Error) Unwrap() error {
	return ErrMalformed
}

func errorf(pos int, format string, args ...any) error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// shift moves position of a parsing error reported for a substring.
func shift(err error, by int) error {
	var e *Error
	if errors.As(err, &e) {
		return &Error{Pos: e.Pos + by, Msg: e.Msg}
	}
	return err
}
