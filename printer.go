package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/sergev/symlex/lexer"
)

type printer struct {
	w      io.Writer
	json   bool
	trivia bool
}

func newPrinter(w io.Writer, format string, trivia bool) (*printer, error) {
	switch format {
	case "text":
		return &printer{w: w, trivia: trivia}, nil
	case "json":
		return &printer{w: w, json: true, trivia: trivia}, nil
	default:
		return nil, errors.Errorf("unknown output format %q", format)
	}
}

type tokenRecord struct {
	Kind   string `json:"kind"`
	Offset int    `json:"offset"`
	End    int    `json:"end"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Value  string `json:"value"`
	Number string `json:"number,omitempty"`
}

func (p *printer) print(src string, tokens []lexer.Token) error {
	enc := json.NewEncoder(p.w)
	for _, tok := range tokens {
		if !p.trivia && isTrivia(tok.Kind) {
			continue
		}
		if p.json {
			rec := tokenRecord{
				Kind:   tok.Kind.String(),
				Offset: tok.Pos.Offset,
				End:    tok.End,
				Line:   tok.Pos.Line,
				Column: tok.Pos.Column,
				Value:  tok.Value(),
			}
			if tok.Kind == lexer.KindNumber {
				rec.Number = tok.Num.Kind.String()
			}
			if err := enc.Encode(rec); err != nil {
				return err
			}
			continue
		}
		kind := tok.Kind.String()
		if tok.Kind == lexer.KindNumber {
			kind += "/" + tok.Num.Kind.String()
		}
		if _, err := fmt.Fprintf(p.w, "%d:%d\t%s\t%s\n", tok.Pos.Line, tok.Pos.Column, kind, strconv.Quote(tok.Value())); err != nil {
			return err
		}
	}
	return nil
}

func isTrivia(k lexer.Kind) bool {
	return k == lexer.KindWhitespace || k == lexer.KindComment
}
