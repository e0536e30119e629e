package ddl

import (
	"strings"
	"testing"

	"github.com/Ramanathantrb/Datalakes-with-spark/internal/model"
)

var testDialect = Dialect{
	Name:       "test",
	QuoteIdent: DoubleQuote,
	MapType: func(logical string) string {
		switch logical {
		case model.TypeInt:
			return "INTEGER"
		case model.TypeDouble:
			return "DOUBLE"
		default:
			return "TEXT"
		}
	},
}

// TestBuildCreateTableSQL covers validation errors and rendering of
// nullability, defaults and primary keys.
func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		def         TableDef
		wantSQL     string
		errContains string
	}{
		{
			name:        "empty FQN",
			def:         TableDef{Columns: []ColumnDef{{Name: "id", SQLType: "INT"}}},
			errContains: "table FQN must not be empty",
		},
		{
			name:        "no columns",
			def:         TableDef{FQN: "t"},
			errContains: "at least one column is required",
		},
		{
			name:        "empty column name",
			def:         TableDef{FQN: "t", Columns: []ColumnDef{{SQLType: "INT"}}},
			errContains: "column with empty name",
		},
		{
			name:        "missing type",
			def:         TableDef{FQN: "t", Columns: []ColumnDef{{Name: "id"}}},
			errContains: "missing SQLType",
		},
		{
			name: "nullable, default and primary key",
			def: TableDef{
				FQN: "public.songs",
				Columns: []ColumnDef{
					{Name: "song_id", SQLType: "TEXT", PrimaryKey: true, Nullable: true},
					{Name: "title", SQLType: "TEXT", Nullable: true},
					{Name: "year", SQLType: "INTEGER", Default: "0"},
				},
			},
			wantSQL: "CREATE TABLE IF NOT EXISTS \"public\".\"songs\" (\n" +
				"  \"song_id\" TEXT NOT NULL,\n" +
				"  \"title\" TEXT,\n" +
				"  \"year\" INTEGER NOT NULL DEFAULT 0,\n" +
				"  PRIMARY KEY (\"song_id\")\n);",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := testDialect.BuildCreateTableSQL(tt.def)
			if tt.errContains != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errContains) {
					t.Fatalf("error = %v, want containing %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.wantSQL {
				t.Fatalf("SQL mismatch\n got: %q\nwant: %q", got, tt.wantSQL)
			}
		})
	}
}

func TestGuardedCreate(t *testing.T) {
	d := testDialect
	d.QuoteIdent = Bracket
	d.Guard = func(q, create string) string { return "IF OBJECT_ID(N'" + q + "') IS NULL\nBEGIN\n  " + create + "\nEND;" }

	got, err := d.BuildCreateTableSQL(TableDef{FQN: "dbo.t", Columns: []ColumnDef{{Name: "a", SQLType: "INT"}}})
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	want := "IF OBJECT_ID(N'[dbo].[t]') IS NULL\nBEGIN\n  CREATE TABLE [dbo].[t] (\n    [a] INT NOT NULL\n  );\nEND;"
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestQuoting(t *testing.T) {
	tests := []struct {
		quote func(string) string
		in    string
		want  string
	}{
		{DoubleQuote, `weird"name`, `"weird""name"`},
		{Backtick, "a`b", "`a``b`"},
		{Bracket, "x]y", "[x]]y]"},
	}
	for _, tt := range tests {
		if got := tt.quote(tt.in); got != tt.want {
			t.Fatalf("quote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := testDialect.QuoteFQN("main..songs"); got != `"main"."songs"` {
		t.Fatalf("QuoteFQN = %q", got)
	}
}

func TestInsertSQL(t *testing.T) {
	got := testDialect.InsertSQL("users", []string{"user_id", "level"}, 2, Dollar)
	want := `INSERT INTO "users" ("user_id", "level") VALUES ($1, $2), ($3, $4)`
	if got != want {
		t.Fatalf("InsertSQL = %q, want %q", got, want)
	}
	if got := testDialect.DeleteAllSQL("s.users"); got != `DELETE FROM "s"."users"` {
		t.Fatalf("DeleteAllSQL = %q", got)
	}
}

func TestFromTable(t *testing.T) {
	def := FromTable(testDialect, model.ArtistsTable, TableName("lake", "artists"))
	if def.FQN != "lake.artists" || len(def.Columns) != 5 {
		t.Fatalf("def = %+v", def)
	}
	lat := def.Columns[3]
	if lat.Name != "latitude" || lat.SQLType != "DOUBLE" || !lat.Nullable {
		t.Fatalf("latitude column = %+v", lat)
	}
	if def.Columns[0].Nullable {
		t.Fatalf("artist_id should be NOT NULL")
	}
	if TableName("", "songs") != "songs" {
		t.Fatalf("TableName without schema")
	}
}
