package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Dialect abstracts the differences between the two supported backends:
// placeholder syntax, substring function name, and how inserted ids are
// retrieved. Both share one logical schema.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Rebind converts a query written with ? placeholders into the dialect's
// native placeholder style.
func (d Dialect) Rebind(query string) string {
	return sqlx.Rebind(d.bindType(), query)
}

func (d Dialect) bindType() int {
	if d == DialectPostgres {
		return sqlx.DOLLAR
	}
	return sqlx.QUESTION
}

// SupportsReturning reports whether INSERT ... RETURNING id is available.
func (d Dialect) SupportsReturning() bool {
	return d == DialectPostgres
}

// Substr returns the dialect's substring function name.
func (d Dialect) Substr() string {
	if d == DialectPostgres {
		return "SUBSTRING"
	}
	return "SUBSTR"
}

// YearExpr yields a SQL expression extracting the four digit year from a
// YYYY-MM-DD text date column.
func (d Dialect) YearExpr(column string) string {
	return fmt.Sprintf("CAST(%s(%s, 1, 4) AS INTEGER)", d.Substr(), column)
}

// MonthExpr yields a SQL expression extracting the YYYY-MM prefix from a
// YYYY-MM-DD text date column.
func (d Dialect) MonthExpr(column string) string {
	return fmt.Sprintf("%s(%s, 1, 7)", d.Substr(), column)
}

// FoldExpr builds an accent and case folding expression over a text column,
// mirroring the Go side folding applied to search terms. The column is
// lowered first so both "Ingeniería" and "INGENIERÍA" fold to "ingenieria".
func (d Dialect) FoldExpr(column string) string {
	expr := fmt.Sprintf("LOWER(%s)", column)
	for _, pair := range [][2]string{
		{"á", "a"}, {"é", "e"}, {"í", "i"}, {"ó", "o"}, {"ú", "u"}, {"ñ", "n"},
	} {
		expr = fmt.Sprintf("REPLACE(%s, '%s', '%s')", expr, pair[0], pair[1])
	}
	return expr
}
