package format

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v5"
	tidbparser "github.com/pingcap/tidb/parser"
	_ "github.com/pingcap/tidb/parser/test_driver" // registers the literal AST driver tidbparser.New() expects
	"github.com/xwb1989/sqlparser"
)

// ============================================
// POST-FORMAT VALIDATION
// ============================================
//
// These wrap three third-party SQL front ends to catch a formatter bug
// that produces syntactically invalid output. They are deliberately
// dumb: dialect-accurate syntax checking, nothing about the original
// AST's semantics, all three in this one file, the same three libraries a
// dedicated validator package would reach for.

// ValidatePostgres reports whether sql parses as valid PostgreSQL.
func ValidatePostgres(sql string) error {
	_, err := pg_query.Parse(sql)
	if err != nil {
		return fmt.Errorf("postgres validation: %w", err)
	}
	return nil
}

// ValidateMySQL reports whether sql parses as valid MySQL DDL. It uses
// TiDB's parser, which (unlike xwb1989/sqlparser) understands the full
// range of CREATE/ALTER/DROP TABLE syntax this package's lower_ddl.go emits.
func ValidateMySQL(sql string) error {
	p := tidbparser.New()
	_, _, err := p.Parse(sql, "", "")
	if err != nil {
		return fmt.Errorf("mysql ddl validation: %w", err)
	}
	return nil
}

// ValidateMySQLQuery reports whether sql parses as a valid MySQL DML
// statement (SELECT/INSERT/UPDATE/DELETE), using xwb1989/sqlparser. It
// rejects MySQL DDL it doesn't recognize, so it is not a substitute for
// ValidateMySQL on CREATE/ALTER/DROP statements.
func ValidateMySQLQuery(sql string) error {
	_, err := sqlparser.Parse(sql)
	if err != nil {
		return fmt.Errorf("mysql query validation: %w", err)
	}
	return nil
}
