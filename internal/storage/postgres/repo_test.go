package postgres

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/Ramanathantrb/Datalakes-with-spark/internal/ddl"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/model"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/storage"

	"github.com/jackc/pgx/v5"
)

/*
TestSplitFQN checks schema-qualified names become pgx identifiers.
*/
func TestSplitFQN(t *testing.T) {
	cases := []struct {
		in   string
		want pgx.Identifier
	}{
		{"songplays", pgx.Identifier{"songplays"}},
		{"sparkify.songplays", pgx.Identifier{"sparkify", "songplays"}},
		{".songs", pgx.Identifier{"songs"}},
	}
	for _, tc := range cases {
		if got := splitFQN(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("splitFQN(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

/*
TestDialect_Songplays renders the songplays table the way Postgres expects.
*/
func TestDialect_Songplays(t *testing.T) {
	sql, err := Dialect.BuildCreateTableSQL(ddl.FromTable(Dialect, model.SongplaysTable, "sparkify.songplays"))
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	for _, want := range []string{
		`CREATE TABLE IF NOT EXISTS "sparkify"."songplays"`,
		`"songplay_id" BIGINT NOT NULL`,
		`"start_time" TIMESTAMPTZ NOT NULL`,
		`"year" INTEGER NOT NULL`,
	} {
		if !strings.Contains(sql, want) {
			t.Fatalf("ddl missing %q:\n%s", want, sql)
		}
	}
}

/*
TestRegistered checks the init wiring and that the factory forwards its
configuration through the test hook.
*/
func TestRegistered(t *testing.T) {
	if _, err := storage.DialectFor("postgres"); err != nil {
		t.Fatalf("dialect: %v", err)
	}

	orig := newRepository
	t.Cleanup(func() { newRepository = orig })

	var got Config
	closed := false
	newRepository = func(_ context.Context, cfg Config) (*Repository, func(), error) {
		got = cfg
		return &Repository{cfg: cfg}, func() { closed = true }, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{
		Kind:    "postgres",
		DSN:     "postgres://localhost/sparkify",
		Table:   "songs",
		Columns: []string{"song_id"},
	})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	if got.Table != "songs" || got.DSN != "postgres://localhost/sparkify" {
		t.Fatalf("config = %+v", got)
	}
	repo.Close()
	if !closed {
		t.Fatalf("Close did not call the close function")
	}
}

/*
TestNewRepository_EmptyDSN fails before dialing.
*/
func TestNewRepository_EmptyDSN(t *testing.T) {
	if _, _, err := NewRepository(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error for empty DSN")
	}
}
