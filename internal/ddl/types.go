package ddl

import "github.com/Ramanathantrb/Datalakes-with-spark/internal/model"

// ColumnDef describes one column of a table definition.
//
//   - Name: column name, unquoted; quoting happens at render time
//   - SQLType: dialect SQL type (e.g., TEXT, BIGINT, TIMESTAMPTZ)
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
//   - Default: raw default expression
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Default    string
}

// TableDef holds the table name in dotted form ("schema.table") and the
// ordered column list.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// FromTable builds the definition of a lake table for a dialect. Partition
// columns are ordinary columns in the warehouse.
func FromTable(d Dialect, t model.Table, fqn string) TableDef {
	def := TableDef{FQN: fqn, Columns: make([]ColumnDef, len(t.Columns))}
	for i, c := range t.Columns {
		def.Columns[i] = ColumnDef{
			Name:     c.Name,
			SQLType:  d.MapType(c.Type),
			Nullable: c.Nullable,
		}
	}
	return def
}

// TableName joins an optional schema and a table name.
func TableName(schema, table string) string {
	if schema == "" {
		return table
	}
	return schema + "." + table
}
