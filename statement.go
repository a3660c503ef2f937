package jdbcsink

import (
	"strconv"
	"strings"
)

// Placeholder selects the bind-parameter syntax of the generated statements.
type Placeholder int

const (
	// PlaceholderQuestion emits "?" markers (MySQL, SQLite, most JDBC-style
	// drivers).
	PlaceholderQuestion Placeholder = iota
	// PlaceholderDollar emits positional "$1, $2, ..." markers (PostgreSQL).
	PlaceholderDollar
)

func (p Placeholder) token(n int) string {
	if p == PlaceholderDollar {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// InsertBuilder renders plain INSERT statements:
//
//	INSERT INTO t (a, b, id) VALUES (?, ?, ?)
//
// Columns appear non-key first, then key, matching the order the grouping
// iterator observed them.
type InsertBuilder struct {
	Placeholder Placeholder
}

func (b InsertBuilder) Build(table string, nonKeyColumns, keyColumns []string) string {
	var sb strings.Builder
	writeInsert(&sb, table, nonKeyColumns, keyColumns, b.Placeholder)
	return sb.String()
}

// UpsertBuilder renders PostgreSQL-style upserts:
//
//	INSERT INTO t (a, b, id) VALUES ($1, $2, $3)
//	ON CONFLICT (id) DO UPDATE SET a = EXCLUDED.a, b = EXCLUDED.b
//
// With no key columns it degrades to a plain insert. With no non-key columns
// the conflict action is DO NOTHING, since there is nothing to update.
type UpsertBuilder struct {
	Placeholder Placeholder
}

func (b UpsertBuilder) Build(table string, nonKeyColumns, keyColumns []string) string {
	var sb strings.Builder
	writeInsert(&sb, table, nonKeyColumns, keyColumns, b.Placeholder)

	if len(keyColumns) == 0 {
		return sb.String()
	}

	sb.WriteString(" ON CONFLICT (")
	sb.WriteString(strings.Join(keyColumns, ", "))
	sb.WriteString(")")

	if len(nonKeyColumns) == 0 {
		sb.WriteString(" DO NOTHING")
		return sb.String()
	}

	sb.WriteString(" DO UPDATE SET ")
	for i, col := range nonKeyColumns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(col)
		sb.WriteString(" = EXCLUDED.")
		sb.WriteString(col)
	}
	return sb.String()
}

func writeInsert(sb *strings.Builder, table string, nonKeyColumns, keyColumns []string, p Placeholder) {
	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" (")

	n := 0
	for _, cols := range [][]string{nonKeyColumns, keyColumns} {
		for _, col := range cols {
			if n > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(col)
			n++
		}
	}

	sb.WriteString(") VALUES (")
	for i := range n {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.token(i + 1))
	}
	sb.WriteString(")")
}
