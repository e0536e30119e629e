package etl

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Ramanathantrb/Datalakes-with-spark/internal/model"

	"github.com/hashicorp/go-multierror"
)

// DefaultViolationLimit caps the violations reported per contract.
const DefaultViolationLimit = 10

// Tables bundles the computed rows of one run.
type Tables struct {
	Songs     []model.Song
	Artists   []model.Artist
	Users     []model.User
	Time      []model.TimeRow
	Songplays []model.Songplay
}

// TablesOf collects the rows of both stages.
func TablesOf(c *Catalog, e *Events) Tables {
	var t Tables
	if c != nil {
		t.Songs, t.Artists = c.Songs, c.Artists
	}
	if e != nil {
		t.Users, t.Time, t.Songplays = e.Users, e.Time, e.Songplays
	}
	return t
}

// Rows returns the warehouse rows of every table keyed by table name.
func (t Tables) Rows() map[string][][]any {
	return map[string][][]any{
		model.SongsTable.Name:     valuesOf(t.Songs),
		model.ArtistsTable.Name:   valuesOf(t.Artists),
		model.UsersTable.Name:     valuesOf(t.Users),
		model.TimeTable.Name:      valuesOf(t.Time),
		model.SongplaysTable.Name: valuesOf(t.Songplays),
	}
}

func valuesOf[R interface{ Values() []any }](rows []R) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = r.Values()
	}
	return out
}

// Violation is one broken contract instance.
type Violation struct {
	Contract string
	Row      int
	Value    string
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s: row %d: %s", v.Contract, v.Row, v.Value)
}

// CheckIntegrity verifies the model.ForeignKeys contracts and songplay_id
// uniqueness over t. It returns nil when every contract holds, otherwise a
// *multierror.Error listing at most limit violations per contract plus a
// count of the rest. limit <= 0 means DefaultViolationLimit.
//
// The songplays join is by artist name, so broken references are expected
// on real data; callers decide whether a violation is fatal.
func CheckIntegrity(t Tables, limit int) error {
	if limit <= 0 {
		limit = DefaultViolationLimit
	}
	vals := t.Rows()
	tables := map[string]model.Table{}
	for _, tb := range model.Tables() {
		tables[tb.Name] = tb
	}

	var result *multierror.Error
	for _, fk := range model.ForeignKeys {
		col := tables[fk.Table].Index(fk.Column)
		refCol := tables[fk.RefTable].Index(fk.RefColumn)
		if col < 0 || refCol < 0 {
			result = multierror.Append(result, fmt.Errorf("contract %s.%s -> %s.%s: unknown column", fk.Table, fk.Column, fk.RefTable, fk.RefColumn))
			continue
		}

		ref := make(map[string]struct{}, len(vals[fk.RefTable]))
		for _, row := range vals[fk.RefTable] {
			ref[keyOf(row[refCol])] = struct{}{}
		}

		name := fmt.Sprintf("%s.%s -> %s.%s", fk.Table, fk.Column, fk.RefTable, fk.RefColumn)
		missing := 0
		for i, row := range vals[fk.Table] {
			k := keyOf(row[col])
			if _, ok := ref[k]; ok {
				continue
			}
			missing++
			if missing <= limit {
				result = multierror.Append(result, Violation{Contract: name, Row: i, Value: fmt.Sprintf("%s=%q has no match", fk.Column, k)})
			}
		}
		if missing > limit {
			result = multierror.Append(result, fmt.Errorf("%s: %d more rows without a match", name, missing-limit))
		}
	}

	seen := make(map[int64]int, len(t.Songplays))
	dups := 0
	for i, p := range t.Songplays {
		if first, ok := seen[p.SongplayID]; ok {
			dups++
			if dups <= limit {
				result = multierror.Append(result, Violation{
					Contract: "songplays.songplay_id unique",
					Row:      i,
					Value:    fmt.Sprintf("id %d already used by row %d", p.SongplayID, first),
				})
			}
			continue
		}
		seen[p.SongplayID] = i
	}
	if dups > limit {
		result = multierror.Append(result, fmt.Errorf("songplays.songplay_id unique: %d more duplicates", dups-limit))
	}

	return result.ErrorOrNil()
}

func keyOf(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
