package lexer

import (
	"errors"
	"fmt"
)

// Error describes a malformed token.
type Error struct {
	Err        error
	Pos        Position
	Incomplete bool
}

func (e *Error) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return fmt.Sprintf("%d:%d: %v", e.Pos.Line, e.Pos.Column, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// TokenError converts a malformed token into an *Error. It returns nil for
// well-formed tokens.
func TokenError(tok Token) error {
	switch tok.Kind {
	case KindError:
		return &Error{Err: errors.New(tok.Text), Pos: tok.Pos}
	case KindBrokenString:
		return &Error{Err: errors.New("unterminated string literal"), Pos: tok.Pos, Incomplete: true}
	case KindBrokenComment:
		return &Error{Err: errors.New("unterminated block comment"), Pos: tok.Pos, Incomplete: true}
	}
	return nil
}

// IsIncomplete reports whether err was caused by input ending inside a
// string literal or block comment.
func IsIncomplete(err error) bool {
	var lerr *Error
	if errors.As(err, &lerr) {
		return lerr.Incomplete
	}
	return false
}
