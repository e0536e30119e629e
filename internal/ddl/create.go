// Package ddl holds a small dialect-neutral model of SQL tables and renders
// CREATE TABLE, DELETE and INSERT statements for the warehouse backends.
//
// Each backend describes itself with a Dialect: how identifiers are quoted,
// how logical column types map to SQL types and how a create is made
// idempotent. ColumnDef.Default is emitted as raw SQL.
package ddl

import (
	"fmt"
	"strings"
)

// Dialect describes one SQL flavour.
type Dialect struct {
	Name string

	// QuoteIdent quotes a single identifier segment.
	QuoteIdent func(string) string

	// MapType maps a model logical type to a SQL type.
	MapType func(logical string) string

	// Guard wraps a plain CREATE TABLE statement so it is a no-op when the
	// table exists. Nil means CREATE TABLE IF NOT EXISTS is supported.
	Guard func(quotedFQN, create string) string
}

// DoubleQuote quotes an identifier the ANSI way: "name", with embedded
// quotes doubled.
func DoubleQuote(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// Backtick quotes a MySQL identifier: `name`.
func Backtick(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }

// Bracket quotes a SQL Server identifier: [name].
func Bracket(id string) string { return "[" + strings.ReplaceAll(id, "]", "]]") + "]" }

// QuoteFQN quotes each dotted segment of fqn. Empty segments are dropped.
func (d Dialect) QuoteFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, d.QuoteIdent(p))
	}
	return strings.Join(out, ".")
}

// BuildCreateTableSQL renders an idempotent CREATE TABLE for t:
//
//	CREATE TABLE IF NOT EXISTS "schema"."table" (
//	  "col1" TYPE [NOT NULL] [DEFAULT expr],
//	  PRIMARY KEY ("pk1")
//	);
//
// Primary-key columns are always NOT NULL.
func (d Dialect) BuildCreateTableSQL(t TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("%s ddl: table FQN must not be empty", d.Name)
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("%s ddl: at least one column is required", d.Name)
	}

	cols := make([]string, 0, len(t.Columns)+1)
	var pks []string
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("%s ddl: column with empty name in table %s", d.Name, fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("%s ddl: column %s missing SQLType", d.Name, name)
		}

		var sb strings.Builder
		sb.WriteString(d.QuoteIdent(name))
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable || c.PrimaryKey {
			sb.WriteString(" NOT NULL")
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}
		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, d.QuoteIdent(name))
		}
	}
	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	quoted := d.QuoteFQN(fqn)
	if d.Guard != nil {
		create := fmt.Sprintf("CREATE TABLE %s (\n    %s\n  );", quoted, strings.Join(cols, ",\n    "))
		return d.Guard(quoted, create), nil
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", quoted, strings.Join(cols, ",\n  ")), nil
}

// DeleteAllSQL renders a statement that removes every row of fqn.
func (d Dialect) DeleteAllSQL(fqn string) string {
	return "DELETE FROM " + d.QuoteFQN(fqn)
}

// InsertSQL renders an INSERT of rows rows. placeholder receives the
// 1-based parameter index.
func (d Dialect) InsertSQL(fqn string, columns []string, rows int, placeholder func(int) string) string {
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = d.QuoteIdent(c)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", d.QuoteFQN(fqn), strings.Join(cols, ", "))
	n := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for c := range columns {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(placeholder(n))
			n++
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

// Question is the "?" placeholder style.
func Question(int) string { return "?" }

// Dollar is the "$n" placeholder style.
func Dollar(i int) string { return fmt.Sprintf("$%d", i) }
