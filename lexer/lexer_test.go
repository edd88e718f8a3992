package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeBasicSelect(t *testing.T) {
	toks, err := Tokenize("SELECT id, name FROM users WHERE id = 1")
	require.NoError(t, err)

	require.NotEmpty(t, toks)
	assert.Equal(t, KindKeyword, toks[0].Kind)
	assert.Equal(t, "SELECT", toks[0].Value)
	assert.Equal(t, KindEOF, toks[len(toks)-1].Kind)
}

func TestTokenizeKeywordClassification(t *testing.T) {
	toks, err := Tokenize("SELECT my_select FROM t")
	require.NoError(t, err)

	assert.True(t, toks[0].Is("SELECT"))
	assert.Equal(t, KindIdentifier, toks[1].Kind, "my_select is an identifier, not the SELECT keyword, despite the substring")
}

func TestTokenizeQuotedIdentifiers(t *testing.T) {
	for _, sql := range []string{`"weird col"`, "`weird col`", `[weird col]`} {
		toks, err := Tokenize(sql)
		require.NoError(t, err, sql)
		require.Equal(t, KindQuotedIdentifier, toks[0].Kind, sql)
	}
}

func TestTokenizeParameters(t *testing.T) {
	toks, err := Tokenize("WHERE id = :user_id AND x = $1 AND y = $name")
	require.NoError(t, err)

	var params []string
	for _, tok := range toks {
		if tok.Kind == KindParameter {
			params = append(params, tok.Value)
		}
	}
	assert.Equal(t, []string{":user_id", "$1", "$name"}, params)
}

func TestTokenizeStringLiteralWithEscapedQuote(t *testing.T) {
	toks, err := Tokenize(`'it''s here'`)
	require.NoError(t, err)
	require.Equal(t, KindStringLiteral, toks[0].Kind)
	assert.Equal(t, `'it''s here'`, toks[0].Value)
}

func TestTokenizeComments(t *testing.T) {
	toks, err := Tokenize("SELECT 1 -- trailing comment\n/* block */ FROM t")
	require.NoError(t, err)

	var kinds []Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Contains(t, kinds, KindComment)
}

func TestTokenizeUnterminatedStringIsError(t *testing.T) {
	_, err := Tokenize("SELECT 'oops")
	require.Error(t, err)
	var lexErr *Error
	require.ErrorAs(t, err, &lexErr)
}

func TestTokenizeMultiCharPunctuation(t *testing.T) {
	toks, err := Tokenize("a <= b AND c <> d AND e::int")
	require.NoError(t, err)

	var puncts []string
	for _, tok := range toks {
		if tok.Kind == KindPunctuation {
			puncts = append(puncts, tok.Value)
		}
	}
	assert.Contains(t, puncts, "<=")
	assert.Contains(t, puncts, "<>")
	assert.Contains(t, puncts, "::")
}

func TestIsKeyword(t *testing.T) {
	assert.True(t, IsKeyword("select"))
	assert.True(t, IsKeyword("SELECT"))
	assert.False(t, IsKeyword("my_table"))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "keyword", KindKeyword.String())
	assert.Equal(t, "EOF", KindEOF.String())
	assert.Equal(t, "unknown", Kind(999).String())
}
