package lexer

import (
	"strconv"

	"github.com/sergev/symlex/symbol"
)

// Kind enumerates the token variants produced by the tokenizer.
type Kind int

const (
	KindIdentifier Kind = iota
	KindNumber
	KindString
	KindBrokenString
	KindError
	KindComment
	KindBrokenComment
	KindWhitespace
	KindOperator
)

func (k Kind) String() string {
	switch k {
	case KindIdentifier:
		return "identifier"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBrokenString:
		return "broken-string"
	case KindError:
		return "error"
	case KindComment:
		return "comment"
	case KindBrokenComment:
		return "broken-comment"
	case KindWhitespace:
		return "whitespace"
	case KindOperator:
		return "operator"
	default:
		return "unknown"
	}
}

// Malformed reports whether tokens of this kind describe bad input.
func (k Kind) Malformed() bool {
	switch k {
	case KindError, KindBrokenString, KindBrokenComment:
		return true
	}
	return false
}

// Position tracks a source location.
type Position struct {
	Offset int // zero-based byte offset
	Line   int // one-based line number
	Column int // one-based column number (rune count)
}

// Token is a single lexical unit. Which payload field is set depends on Kind:
// Sym for identifiers, whitespace and operators, Num for numbers, Text for
// everything else (decoded string contents, comment text, error message).
type Token struct {
	Kind Kind
	Sym  symbol.Symbol
	Num  Number
	Text string
	Pos  Position
	End  int // byte offset just past the token
}

// Source returns the text the token was scanned from. src must be the
// input the tokenizer was created with.
func (t Token) Source(src string) string {
	return src[t.Pos.Offset:t.End]
}

// Value renders the token payload.
func (t Token) Value() string {
	switch t.Kind {
	case KindIdentifier, KindWhitespace, KindOperator:
		return t.Sym.String()
	case KindNumber:
		return t.Num.String()
	default:
		return t.Text
	}
}

func (t Token) String() string {
	return t.Kind.String() + "(" + strconv.Quote(t.Value()) + ")"
}

// NumberKind tags the representation held by a Number.
type NumberKind int

const (
	I64 NumberKind = iota // signed decimal integer
	U64                   // radix-prefixed integer
	F64                   // decimal with fraction or exponent
)

func (k NumberKind) String() string {
	switch k {
	case I64:
		return "i64"
	case U64:
		return "u64"
	case F64:
		return "f64"
	default:
		return "unknown"
	}
}

// Number is a numeric literal value. Numbers are comparable with ==.
type Number struct {
	Kind NumberKind
	i    int64
	u    uint64
	f    float64
}

// Int returns a signed integer Number.
func Int(v int64) Number { return Number{Kind: I64, i: v} }

// Uint returns an unsigned integer Number.
func Uint(v uint64) Number { return Number{Kind: U64, u: v} }

// Float returns a floating point Number.
func Float(v float64) Number { return Number{Kind: F64, f: v} }

// Int64 returns the value of an I64 number.
func (n Number) Int64() int64 { return n.i }

// Uint64 returns the value of a U64 number.
func (n Number) Uint64() uint64 { return n.u }

// Float64 returns the value of an F64 number.
func (n Number) Float64() float64 { return n.f }

func (n Number) String() string {
	switch n.Kind {
	case I64:
		return strconv.FormatInt(n.i, 10)
	case U64:
		return strconv.FormatUint(n.u, 10)
	case F64:
		return strconv.FormatFloat(n.f, 'g', -1, 64)
	default:
		return "?"
	}
}
