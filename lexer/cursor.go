package lexer

import "unicode/utf8"

// EOF is the rune reported by Cursor.Advance once the input is exhausted.
const EOF rune = -1

const maxPushback = 8

type unread struct {
	offset int
	r      rune
}

// Cursor reads runes from an immutable string and lets the scanner push a
// few of them back.
type Cursor struct {
	src  string
	pos  int
	back [maxPushback]unread
	n    int
}

// NewCursor returns a cursor positioned at the start of src.
func NewCursor(src string) *Cursor {
	return &Cursor{src: src}
}

// Advance returns the next rune and its byte offset. At the end of input it
// returns (len(src), EOF) on every call. An invalid UTF-8 byte is returned
// as utf8.RuneError and consumes exactly one byte.
func (c *Cursor) Advance() (int, rune) {
	if c.n > 0 {
		c.n--
		u := c.back[c.n]
		return u.offset, u.r
	}
	if c.pos >= len(c.src) {
		return len(c.src), EOF
	}
	offset := c.pos
	r, w := utf8.DecodeRuneInString(c.src[c.pos:])
	c.pos += w
	return offset, r
}

// Pushback returns a pair obtained from Advance to the front of the stream.
// Pairs are reproduced in LIFO order.
func (c *Cursor) Pushback(offset int, r rune) {
	if c.n == maxPushback {
		panic("lexer: cursor pushback overflow")
	}
	c.back[c.n] = unread{offset: offset, r: r}
	c.n++
}

// Peek returns the pair the next Advance would return.
func (c *Cursor) Peek() (int, rune) {
	offset, r := c.Advance()
	c.Pushback(offset, r)
	return offset, r
}

// Offset is the byte offset of the next rune Advance would return.
func (c *Cursor) Offset() int {
	if c.n > 0 {
		return c.back[c.n-1].offset
	}
	return c.pos
}

// Slice returns src[start:end] without copying.
func (c *Cursor) Slice(start, end int) string {
	return c.src[start:end]
}

// Rest returns the source from offset to the end without copying.
func (c *Cursor) Rest(offset int) string {
	return c.src[offset:]
}
