// Package parser implements the recursive-descent SELECT/DML/DDL/WITH/
// value-expression/source-expression parsers and the multi-query
// splitter. Each sub-parser is conceptually a pure function over a
// lexeme slice and a start index; this implementation expresses
// that as methods on a small cursor type shared by every sub-parser file.
package parser

import (
	"fmt"

	"github.com/sqlrefine/sqlrefine/internal/sqlerr"
	"github.com/sqlrefine/sqlrefine/lexer"
)

// cursor walks an immutable token slice. Sub-parsers never mutate the
// slice; state lives entirely in pos, keeping each sub-parser re-entrant
// and stateless across calls.
type cursor struct {
	toks []lexer.Token
	pos  int
}

func newCursor(toks []lexer.Token) *cursor {
	return &cursor{toks: toks}
}

func (c *cursor) peek() lexer.Token {
	return c.peekN(0)
}

func (c *cursor) peekN(n int) lexer.Token {
	idx := c.pos + n
	if idx >= len(c.toks) {
		return lexer.Token{Kind: lexer.KindEOF}
	}
	return c.toks[idx]
}

func (c *cursor) next() lexer.Token {
	t := c.peek()
	if t.Kind != lexer.KindEOF {
		c.pos++
	}
	return t
}

func (c *cursor) atEOF() bool {
	return c.peek().Kind == lexer.KindEOF
}

func (c *cursor) isKeyword(kws ...string) bool {
	return c.peek().Is(kws...)
}

func (c *cursor) isPunct(p string) bool {
	t := c.peek()
	return t.Kind == lexer.KindPunctuation && t.Value == p
}

// consumeKeyword advances past a matching keyword and reports success
// without error; used for optional clause markers.
func (c *cursor) consumeKeyword(kws ...string) bool {
	if c.isKeyword(kws...) {
		c.next()
		return true
	}
	return false
}

func (c *cursor) consumePunct(p string) bool {
	if c.isPunct(p) {
		c.next()
		return true
	}
	return false
}

func (c *cursor) expectKeyword(kw string) (lexer.Token, error) {
	if !c.isKeyword(kw) {
		return lexer.Token{}, c.errorf("expected %q", kw)
	}
	return c.next(), nil
}

func (c *cursor) expectPunct(p string) (lexer.Token, error) {
	if !c.isPunct(p) {
		return lexer.Token{}, c.errorf("expected %q", p)
	}
	return c.next(), nil
}

func (c *cursor) errorf(format string, args ...any) error {
	t := c.peek()
	return &sqlerr.SyntaxError{
		Message:  fmt.Sprintf(format, args...),
		Position: t.Position,
		Line:     t.Line,
		Column:   t.Column,
		Token:    t.Value,
	}
}

// skipTwoWordKeyword consumes `first second` as one logical keyword when
// both are present and reports true; otherwise it consumes nothing and
// reports false. Used for
// GROUP BY / ORDER BY / IS NOT / NOT NULL style pairs.
func (c *cursor) skipTwoWordKeyword(first, second string) bool {
	if c.isKeyword(first) && c.peekN(1).Is(second) {
		c.next()
		c.next()
		return true
	}
	return false
}
