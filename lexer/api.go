package lexer

import (
	"io"

	"github.com/pkg/errors"

	"github.com/sergev/symlex/symbol"
)

// Scan tokenizes all of src. Every token is returned; the error, if any,
// describes the first malformed one.
func Scan(src string, table *symbol.Table, ops *Operators, opts ...Option) ([]Token, error) {
	var (
		tokens []Token
		first  error
	)
	for tok := range New(src, table, ops, opts...).All() {
		if first == nil {
			first = TokenError(tok)
		}
		tokens = append(tokens, tok)
	}
	return tokens, first
}

// ScanReader reads r to the end and tokenizes its contents. It also returns
// the text read so that token spans can be resolved.
func ScanReader(r io.Reader, table *symbol.Table, ops *Operators, opts ...Option) (string, []Token, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", nil, errors.Wrap(err, "lexer: read source")
	}
	src := string(data)
	tokens, err := Scan(src, table, ops, opts...)
	return src, tokens, err
}
