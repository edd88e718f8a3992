package lexer

// keywords is the dictionary of reserved words the lexer classifies as
// KindKeyword rather than KindIdentifier. Matching is case-insensitive;
// the parser's sub-parsers hold their own per-clause keyword dictionaries
// layered on top of this classification.
var keywords = buildKeywordSet([]string{
	"SELECT", "FROM", "WHERE", "GROUP", "BY", "HAVING", "ORDER", "LIMIT",
	"OFFSET", "FETCH", "FIRST", "NEXT", "ROWS", "ROW", "ONLY", "WITH",
	"TIES", "DISTINCT", "AS", "ALL", "ANY", "SOME", "UNION", "INTERSECT",
	"EXCEPT", "JOIN", "INNER", "LEFT", "RIGHT", "FULL", "CROSS", "LATERAL",
	"ON", "USING", "NATURAL", "RECURSIVE", "VALUES", "INSERT", "INTO",
	"UPDATE", "SET", "DELETE", "MERGE", "WHEN", "MATCHED", "NOT", "THEN",
	"RETURNING", "DEFAULT", "CONFLICT", "DO", "NOTHING", "CREATE", "TABLE",
	"ALTER", "DROP", "ADD", "COLUMN", "CONSTRAINT", "PRIMARY", "KEY",
	"FOREIGN", "REFERENCES", "UNIQUE", "CHECK", "NULL", "INDEX", "IF",
	"EXISTS", "CASCADE", "RENAME", "TO", "AND", "OR", "IS", "IN", "LIKE",
	"ILIKE", "BETWEEN", "CASE", "WHEN_EXPR", "ELSE", "END", "CAST",
	"ARRAY", "WINDOW", "OVER", "PARTITION", "RANGE", "GROUPS",
	"UNBOUNDED", "PRECEDING", "FOLLOWING", "CURRENT", "NULLS", "LAST",
	"ASC", "DESC", "FOR", "SHARE", "NOWAIT", "SKIP", "LOCKED", "EXPLAIN",
	"ANALYZE", "VERBOSE", "TRUE", "FALSE", "INCLUDE", "BY_SOURCE", "TARGET",
	"SOURCE", "EXCLUDED", "TRANSACTION",
})

// twoWord records adjacent-keyword pairs the parser treats as one logical
// keyword (NOT NULL, IS NULL, GROUP BY, ...). Nothing reads it; the
// parser itself just looks ahead one token rather than consulting this.
var twoWord = map[string]bool{
	"GROUP BY": true, "ORDER BY": true, "IS NOT": true, "NOT NULL": true,
	"LEFT JOIN": true, "RIGHT JOIN": true, "FULL JOIN": true,
	"CROSS JOIN": true, "INNER JOIN": true, "PRIMARY KEY": true,
	"FOREIGN KEY": true, "NOT EXISTS": true, "UNION ALL": true,
	"INTERSECT ALL": true, "EXCEPT ALL": true, "FOR UPDATE": true,
	"FOR SHARE": true, "NOT IN": true, "NOT BETWEEN": true, "NOT LIKE": true,
}

func buildKeywordSet(words []string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// IsKeyword reports whether word (any case) is a reserved SQL keyword.
func IsKeyword(word string) bool {
	return keywords[upper(word)]
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 32
		}
	}
	return string(b)
}
