// Package lexer turns source text into a lazy stream of tokens. Identifiers,
// whitespace runs and operators are interned in a symbol.Table so that
// equal spellings compare by identity.
package lexer

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/sergev/symlex/symbol"
)

// Tokenizer produces tokens on demand from a borrowed source string. The
// table and operator registry are owned by the caller and may be shared
// between tokenizers as long as access is serialized.
type Tokenizer struct {
	cur   *Cursor
	table *symbol.Table
	ops   *Operators
	log   logrus.FieldLogger

	line   int
	column int
	done   bool
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithLogger makes the tokenizer report malformed tokens at debug level.
func WithLogger(log logrus.FieldLogger) Option {
	return func(tz *Tokenizer) {
		tz.log = log
	}
}

// New returns a tokenizer over src. ops may be nil, in which case no
// operators are recognised until Register is called.
func New(src string, table *symbol.Table, ops *Operators, opts ...Option) *Tokenizer {
	if table == nil {
		table = symbol.NewTable()
	}
	tz := &Tokenizer{
		cur:    NewCursor(src),
		table:  table,
		ops:    ops,
		line:   1,
		column: 1,
	}
	for _, opt := range opts {
		opt(tz)
	}
	return tz
}

// Table returns the symbol table tokens are interned in.
func (tz *Tokenizer) Table() *symbol.Table {
	return tz.table
}

// Operators returns the operator registry, which may be nil.
func (tz *Tokenizer) Operators() *Operators {
	return tz.ops
}

// Register adds an operator spelling. It takes effect from the next call
// to Next.
func (tz *Tokenizer) Register(spelling string) {
	if tz.ops == nil {
		tz.ops = NewOperators()
	}
	tz.ops.Register(spelling)
}

// Next returns the next token. Once the input is exhausted it returns false
// on this and every later call.
func (tz *Tokenizer) Next() (Token, bool) {
	if tz.done {
		return Token{}, false
	}
	start, r := tz.cur.Advance()
	if r == EOF {
		tz.done = true
		return Token{}, false
	}

	var tok Token
	switch {
	case isIdentifierStart(r):
		tok = tz.scanIdentifier(start)
	case isWhitespace(r):
		tok = tz.scanWhitespace(start)
	case isDecimal(r):
		tok = tz.scanNumber(start, r)
	case r == '"':
		tok = tz.scanString()
	default:
		matched := false
		if r == '/' {
			tok, matched = tz.scanComment(start)
		}
		if !matched {
			tok = tz.scanOperator(start, r)
		}
	}
	return tz.emit(tok, start), true
}

// All returns an iterator over the remaining tokens.
func (tz *Tokenizer) All() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for {
			tok, ok := tz.Next()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}

func (tz *Tokenizer) emit(tok Token, start int) Token {
	tok.End = tz.cur.Offset()
	tok.Pos = Position{
		Offset: start,
		Line:   tz.line,
		Column: tz.column,
	}
	for _, r := range tz.cur.Slice(start, tok.End) {
		if r == '\n' {
			tz.line++
			tz.column = 1
		} else {
			tz.column++
		}
	}
	if tz.log != nil && tok.Kind.Malformed() {
		tz.log.WithFields(logrus.Fields{
			"kind":   tok.Kind.String(),
			"offset": tok.Pos.Offset,
			"line":   tok.Pos.Line,
			"column": tok.Pos.Column,
		}).Debugf("malformed token: %s", tok.Text)
	}
	return tok
}

func (tz *Tokenizer) intern(start, end int) symbol.Symbol {
	return tz.table.Intern(tz.cur.Slice(start, end))
}

var (
	identifierStart = []*unicode.RangeTable{
		unicode.L,
		unicode.Nl,
		unicode.Other_ID_Start,
	}
	identifierContinue = []*unicode.RangeTable{
		unicode.L,
		unicode.Nl,
		unicode.Other_ID_Start,
		unicode.Mn,
		unicode.Mc,
		unicode.Nd,
		unicode.Pc,
		unicode.Other_ID_Continue,
	}
)

func isIdentifierStart(r rune) bool {
	return unicode.IsOneOf(identifierStart, r) && !isPattern(r)
}

func isIdentifierPart(r rune) bool {
	return unicode.IsOneOf(identifierContinue, r) && !isPattern(r)
}

func isPattern(r rune) bool {
	return unicode.In(r, unicode.Pattern_Syntax, unicode.Pattern_White_Space)
}

func isWhitespace(r rune) bool {
	return unicode.Is(unicode.White_Space, r)
}

func isDecimal(r rune) bool {
	return '0' <= r && r <= '9'
}

func isHex(r rune) bool {
	return isDecimal(r) || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F'
}

func isDigitOf(r rune, radix int) bool {
	switch radix {
	case 2:
		return r == '0' || r == '1'
	case 8:
		return '0' <= r && r <= '7'
	case 16:
		return isHex(r)
	default:
		return isDecimal(r)
	}
}

func hexValue(r rune) rune {
	switch {
	case isDecimal(r):
		return r - '0'
	case 'a' <= r && r <= 'f':
		return r - 'a' + 10
	default:
		return r - 'A' + 10
	}
}

func (tz *Tokenizer) scanIdentifier(start int) Token {
	for {
		offset, r := tz.cur.Advance()
		if !isIdentifierPart(r) {
			tz.cur.Pushback(offset, r)
			return Token{Kind: KindIdentifier, Sym: tz.intern(start, offset)}
		}
	}
}

func (tz *Tokenizer) scanWhitespace(start int) Token {
	for {
		offset, r := tz.cur.Advance()
		if !isWhitespace(r) {
			tz.cur.Pushback(offset, r)
			return Token{Kind: KindWhitespace, Sym: tz.intern(start, offset)}
		}
	}
}

// scanDigits consumes a run of radix digits and underscores and returns the
// offset just past it.
func (tz *Tokenizer) scanDigits(radix int) int {
	for {
		offset, r := tz.cur.Advance()
		if !isDigitOf(r, radix) && r != '_' {
			tz.cur.Pushback(offset, r)
			return offset
		}
	}
}

func radixOf(r rune) int {
	switch r {
	case 'x':
		return 16
	case 'o':
		return 8
	case 'b':
		return 2
	}
	return 0
}

func (tz *Tokenizer) scanNumber(start int, first rune) Token {
	secondOffset, second := tz.cur.Advance()
	if isDecimal(second) || second == '_' || second == '.' || second == 'e' || second == 'E' {
		tz.cur.Pushback(secondOffset, second)
		return tz.scanDecimal(start)
	}
	if first == '0' {
		if radix := radixOf(second); radix != 0 {
			thirdOffset, third := tz.cur.Advance()
			if isDigitOf(third, radix) {
				end := tz.scanDigits(radix)
				digits := strings.ReplaceAll(tz.cur.Slice(thirdOffset, end), "_", "")
				v, err := strconv.ParseUint(digits, radix, 64)
				if err != nil {
					return Token{Kind: KindError, Text: err.Error()}
				}
				return Token{Kind: KindNumber, Num: Uint(v)}
			}
			tz.cur.Pushback(thirdOffset, third)
		}
	}
	tz.cur.Pushback(secondOffset, second)
	return Token{Kind: KindNumber, Num: Int(int64(first - '0'))}
}

func (tz *Tokenizer) scanDecimal(start int) Token {
	end := tz.scanDigits(10)
	isFloat := false

	offset, r := tz.cur.Advance()
	if r == '.' {
		isFloat = true
		end = tz.scanDigits(10)
	} else {
		tz.cur.Pushback(offset, r)
	}

	offset, r = tz.cur.Advance()
	if r == 'e' || r == 'E' {
		digitOffset, digit := tz.cur.Advance()
		if isDecimal(digit) {
			isFloat = true
			end = tz.scanDigits(10)
		} else {
			tz.cur.Pushback(digitOffset, digit)
			tz.cur.Pushback(offset, r)
		}
	} else {
		tz.cur.Pushback(offset, r)
	}

	text := strings.ReplaceAll(tz.cur.Slice(start, end), "_", "")
	if isFloat {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Token{Kind: KindError, Text: err.Error()}
		}
		return Token{Kind: KindNumber, Num: Float(v)}
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Token{Kind: KindError, Text: err.Error()}
	}
	return Token{Kind: KindNumber, Num: Int(v)}
}

func (tz *Tokenizer) scanString() Token {
	var builder strings.Builder
	for {
		_, r := tz.cur.Advance()
		switch r {
		case EOF:
			return Token{Kind: KindBrokenString, Text: builder.String()}
		case '"':
			return Token{Kind: KindString, Text: builder.String()}
		case '\\':
			msg, eof := tz.scanEscape(&builder)
			if eof {
				return Token{Kind: KindBrokenString, Text: builder.String()}
			}
			if msg != "" {
				tz.skipString()
				return Token{Kind: KindError, Text: msg}
			}
		default:
			builder.WriteRune(r)
		}
	}
}

// skipString consumes the rest of a string literal after an escape error.
func (tz *Tokenizer) skipString() {
	for {
		_, r := tz.cur.Advance()
		switch r {
		case EOF, '"':
			return
		case '\\':
			if _, next := tz.cur.Advance(); next == EOF {
				return
			}
		}
	}
}

// scanEscape decodes the escape following a backslash into builder. It
// returns a non-empty message for a malformed escape, or eof when the input
// ends inside the escape.
func (tz *Tokenizer) scanEscape(builder *strings.Builder) (string, bool) {
	_, esc := tz.cur.Advance()
	switch esc {
	case EOF:
		return "", true
	case 'n':
		builder.WriteByte('\n')
	case 't':
		builder.WriteByte('\t')
	case '\\':
		builder.WriteByte('\\')
	case '"':
		builder.WriteByte('"')
	case 'x':
		return tz.scanByteEscape(builder)
	case 'u':
		return tz.scanUnicodeEscape(builder)
	default:
		return fmt.Sprintf("unknown character escape: %c", esc), false
	}
	return "", false
}

func (tz *Tokenizer) scanByteEscape(builder *strings.Builder) (string, bool) {
	var value rune
	for range 2 {
		offset, r := tz.cur.Advance()
		if r == EOF {
			return "", true
		}
		if !isHex(r) {
			tz.cur.Pushback(offset, r)
			return "numeric character escape is too short", false
		}
		value = value*16 + hexValue(r)
	}
	if value > 0x7f {
		return `this form of character escape may only be used with characters in the range [\x00-\x7f]`, false
	}
	builder.WriteByte(byte(value))
	return "", false
}

func (tz *Tokenizer) scanUnicodeEscape(builder *strings.Builder) (string, bool) {
	offset, r := tz.cur.Advance()
	if r == EOF {
		return "", true
	}
	if r != '{' {
		tz.cur.Pushback(offset, r)
		return "incorrect unicode escape sequence", false
	}
	var code rune
	digits := 0
	for {
		offset, r := tz.cur.Advance()
		switch {
		case r == EOF:
			return "", true
		case r == '}':
			if digits == 0 {
				return "empty unicode escape", false
			}
			if !utf8.ValidRune(code) {
				return "invalid unicode character escape", false
			}
			builder.WriteRune(code)
			return "", false
		case digits == 6:
			tz.cur.Pushback(offset, r)
			return "overlong unicode escape (can have at most 6 hex digits)", false
		case !isHex(r):
			tz.cur.Pushback(offset, r)
			return fmt.Sprintf("invalid character in unicode escape: %c", r), false
		}
		code = code*16 + hexValue(r)
		digits++
	}
}

// scanComment scans a possibly nested block comment after its leading '/'.
// It reports false, consuming nothing more, when the '/' does not open one.
func (tz *Tokenizer) scanComment(start int) (Token, bool) {
	offset, r := tz.cur.Advance()
	if r != '*' {
		tz.cur.Pushback(offset, r)
		return Token{}, false
	}
	body := start + 2
	depth := 1
	for {
		offset, r := tz.cur.Advance()
		switch r {
		case EOF:
			return Token{Kind: KindBrokenComment, Text: tz.cur.Slice(body, offset)}, true
		case '/':
			nextOffset, next := tz.cur.Advance()
			if next == '*' {
				depth++
			} else {
				tz.cur.Pushback(nextOffset, next)
			}
		case '*':
			nextOffset, next := tz.cur.Advance()
			if next != '/' {
				tz.cur.Pushback(nextOffset, next)
				continue
			}
			depth--
			if depth == 0 {
				return Token{Kind: KindComment, Text: tz.cur.Slice(body, offset)}, true
			}
		}
	}
}

func (tz *Tokenizer) scanOperator(start int, first rune) Token {
	if tz.ops != nil {
		if spelling, ok := tz.ops.LongestMatch(tz.cur.Rest(start)); ok {
			end := start + len(spelling)
			for {
				offset, r := tz.cur.Advance()
				if offset >= end {
					tz.cur.Pushback(offset, r)
					break
				}
			}
			return Token{Kind: KindOperator, Sym: tz.table.Intern(spelling)}
		}
	}
	if first == utf8.RuneError {
		if _, w := utf8.DecodeRuneInString(tz.cur.Rest(start)); w == 1 {
			return Token{Kind: KindError, Text: fmt.Sprintf("invalid UTF-8 encoding at byte %d", start)}
		}
	}
	return Token{Kind: KindError, Text: fmt.Sprintf("unexpected character %q", first)}
}
