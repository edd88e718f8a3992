package parser

import (
	"strings"

	"github.com/sqlrefine/sqlrefine/ast"
	"github.com/sqlrefine/sqlrefine/internal/obs"
	"github.com/sqlrefine/sqlrefine/internal/sqlerr"
	"github.com/sqlrefine/sqlrefine/lexer"
)

// sqlParser is the shared driver every sub-parser file adds methods to.
// Each sub-parser is conceptually a pure function over a
// lexeme slice and start index; here that's expressed as a method set
// over a cursor, with sqlParser itself carrying no state beyond it.
type sqlParser struct {
	c *cursor
}

// Parse tokenizes sql and parses exactly one statement, returning the
// typed root node. A trailing `;` is permitted; any other trailing
// non-EOF content is a syntax error. Use SplitStatements first for input
// that may hold more than one statement.
func Parse(sql string) (ast.Node, error) {
	toks, err := lexer.Tokenize(sql)
	if err != nil {
		obs.L().Errorw("tokenize failed", "error", err)
		return nil, &sqlerr.SyntaxError{Message: err.Error()}
	}
	return ParseTokens(toks)
}

// ParseTokens parses a pre-tokenized lexeme stream, skipping the
// tokenizer pass. Exported for callers that memoize tokenization
// (see cache.RedisParseCache): every call still builds a brand new AST
// from the shared token slice, so every caller's tree stays independently
// owned even though the tokens themselves are reused across calls.
func ParseTokens(toks []lexer.Token) (ast.Node, error) {
	toks = stripComments(toks)
	p := &sqlParser{c: newCursor(toks)}
	node, err := p.parseStatement()
	if err != nil {
		obs.L().Errorw("parse failed", "error", err)
		return nil, err
	}
	p.c.consumePunct(";")
	if !p.c.atEOF() {
		return nil, p.c.errorf("unexpected trailing input")
	}
	return node, nil
}

// stripComments removes comment tokens from the stream the grammar
// consumes, so the grammar itself never needs to skip them inline. The
// removed comments are not attached to any AST node.
func stripComments(toks []lexer.Token) []lexer.Token {
	out := make([]lexer.Token, 0, len(toks))
	for _, t := range toks {
		if t.Kind != lexer.KindComment {
			out = append(out, t)
		}
	}
	return out
}

func (p *sqlParser) parseStatement() (ast.Node, error) {
	switch {
	case p.c.isKeyword("EXPLAIN"):
		return p.parseExplain()
	case p.c.isKeyword("WITH"), p.c.isKeyword("SELECT"), p.c.isKeyword("VALUES"):
		return p.parseQuery()
	case p.c.isKeyword("INSERT"):
		return p.parseInsert()
	case p.c.isKeyword("UPDATE"):
		return p.parseUpdate()
	case p.c.isKeyword("DELETE"):
		return p.parseDelete()
	case p.c.isKeyword("MERGE"):
		return p.parseMerge()
	case p.c.isKeyword("CREATE") && p.c.peekN(1).Is("TABLE"):
		return p.parseCreateTable()
	case p.c.isKeyword("CREATE") && (p.c.peekN(1).Is("INDEX") || (p.c.peekN(1).Is("UNIQUE") && p.c.peekN(2).Is("INDEX"))):
		return p.parseCreateIndex()
	case p.c.isKeyword("ALTER") && p.c.peekN(1).Is("TABLE"):
		return p.parseAlterTable()
	case p.c.isKeyword("DROP") && p.c.peekN(1).Is("TABLE"):
		return p.parseDropTable()
	case p.c.isKeyword("DROP") && p.c.peekN(1).Is("INDEX"):
		return p.parseDropIndex()
	}
	return nil, p.c.errorf("unrecognized statement")
}

func (p *sqlParser) parseExplain() (*ast.Explain, error) {
	p.c.next() // EXPLAIN
	ex := ast.NewExplain()
	for {
		switch {
		case p.c.consumeKeyword("ANALYZE"):
			ex.Analyze = true
		case p.c.consumeKeyword("VERBOSE"):
			ex.Verbose = true
		default:
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			ex.Statement = stmt
			return ex, nil
		}
	}
}

// SplitStatements implements the multi-query splitter: it
// recognizes statement terminators (`;`) outside string/identifier
// literals and only at parenthesis depth zero, returning each statement's
// text up to but not including the terminator, trimmed of surrounding
// whitespace (comments before the terminator stay in). Empty statements
// are dropped.
func SplitStatements(sql string) ([]string, error) {
	toks, err := lexer.Tokenize(sql)
	if err != nil {
		return nil, &sqlerr.SyntaxError{Message: err.Error()}
	}
	var stmts []string
	depth := 0
	start := 0
	lastEnd := 0
	for _, t := range toks {
		if t.Kind == lexer.KindEOF {
			break
		}
		switch {
		case t.Kind == lexer.KindPunctuation && t.Value == "(":
			depth++
		case t.Kind == lexer.KindPunctuation && t.Value == ")":
			depth--
		case t.Kind == lexer.KindPunctuation && t.Value == ";" && depth == 0:
			text := strings.TrimSpace(sql[start:lastEnd])
			if text != "" {
				stmts = append(stmts, text)
			}
			start = t.Position + 1
		}
		lastEnd = t.Position + len(t.Value)
	}
	tail := strings.TrimSpace(sql[start:])
	if tail != "" {
		stmts = append(stmts, tail)
	}
	return stmts, nil
}
