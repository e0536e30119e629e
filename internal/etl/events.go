package etl

import (
	"context"
	"fmt"
	"sort"

	"github.com/Ramanathantrb/Datalakes-with-spark/internal/calendar"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/config"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/idgen"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/lake"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/metrics"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/model"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/transformer"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/transformer/builtin"
)

// SourceLogs labels event log reads in metrics.
const SourceLogs = "log_data"

// Events is the output of ProcessLogData.
type Events struct {
	Users     []model.User
	Time      []model.TimeRow
	Songplays []model.Songplay

	UsersResult     lake.Result
	TimeResult      lake.Result
	SongplaysResult lake.Result
}

// ProcessLogData reads the event logs and the join catalog and writes the
// users, time and songplays tables, replacing any previous contents. An
// empty join still writes an empty songplays table.
func ProcessLogData(ctx context.Context, s *Session) (*Events, error) {
	files, err := ReadJSON[model.LogEvent](ctx, s.In, s.Opt.LogGlob, s.Opt.ReadWorkers)
	if err != nil {
		return nil, fmt.Errorf("log data: %w", err)
	}
	reportCorrupt(s, SourceLogs, files)

	// Keep one slice per log file: the file index is the songplay_id
	// partition.
	plays := make([][]model.LogEvent, len(files))
	var read, kept int
	for i, f := range files {
		read += len(f.Records)
		plays[i] = FilterPlays(f.Records, s.Opt.PlayPage)
		kept += len(plays[i])
	}
	metrics.RecordRows(s.Opt.Job, SourceLogs, metrics.KindRead, int64(read))
	metrics.RecordRows(s.Opt.Job, SourceLogs, metrics.KindDropped, int64(read-kept))
	s.log.Debug().Int("files", len(files)).Int("events", read).Int("plays", kept).Msg("log data read")

	all := make([]model.LogEvent, 0, kept)
	for _, p := range plays {
		all = append(all, p...)
	}

	ev := &Events{
		Users: BuildUsers(all, s.Opt.UsersDedup),
		Time:  BuildTime(all),
	}

	ev.UsersResult, err = lake.Write[model.User](ctx, s.Out, model.UsersTable, ev.Users, s.Opt.Lake)
	if err != nil {
		return nil, fmt.Errorf("log data: %w", err)
	}
	logCreated(s, ev.UsersResult)

	ev.TimeResult, err = lake.Write[model.TimeFile](ctx, s.Out, model.TimeTable, ev.Time, s.Opt.Lake)
	if err != nil {
		return nil, fmt.Errorf("log data: %w", err)
	}
	logCreated(s, ev.TimeResult)

	catalog, err := ReadJSON[model.SongRecord](ctx, s.In, s.Opt.JoinSongGlob, s.Opt.ReadWorkers)
	if err != nil {
		return nil, fmt.Errorf("log data: join catalog: %w", err)
	}
	ev.Songplays, err = BuildSongplays(plays, Flatten(catalog), builtin.KeyFunc(s.Opt.JoinKey))
	if err != nil {
		return nil, fmt.Errorf("log data: %w", err)
	}
	if len(ev.Songplays) == 0 {
		s.log.Warn().
			Str("join_glob", s.Opt.JoinSongGlob).
			Int("plays", kept).
			Msg("no event matched a catalog artist; songplays is empty")
	}

	ev.SongplaysResult, err = lake.Write[model.SongplayFile](ctx, s.Out, model.SongplaysTable, ev.Songplays, s.Opt.Lake)
	if err != nil {
		return nil, fmt.Errorf("log data: %w", err)
	}
	logCreated(s, ev.SongplaysResult)

	return ev, nil
}

// FilterPlays returns the events whose page equals page, in input order.
// It does not modify events.
func FilterPlays(events []model.LogEvent, page string) []model.LogEvent {
	in := append([]model.LogEvent(nil), events...)
	return builtin.Filter[model.LogEvent]{
		Keep: func(e model.LogEvent) bool { return e.Page == page },
	}.Apply(in)
}

// BuildUsers projects play events onto the users table. Policy
// config.DedupKey keeps the row of each user's latest event; anything else
// drops full-row duplicates only, so a user who changed level appears once
// per level.
func BuildUsers(plays []model.LogEvent, policy string) []model.User {
	if policy == config.DedupKey {
		plays = append([]model.LogEvent(nil), plays...)
		sort.SliceStable(plays, func(i, j int) bool { return plays[i].TS < plays[j].TS })
	}

	rows := make([]model.User, len(plays))
	for i, e := range plays {
		rows[i] = model.User{
			UserID:    string(e.UserID),
			FirstName: e.FirstName,
			LastName:  e.LastName,
			Gender:    e.Gender,
			Level:     e.Level,
		}
	}

	chain := transformer.Chain[model.User]{builtin.Distinct[model.User]{}}
	if policy == config.DedupKey {
		chain = transformer.Chain[model.User]{
			builtin.DeDup[model.User]{
				Key:    func(u model.User) (string, bool) { return u.UserID, u.UserID != "" },
				Policy: builtin.KeepLast,
			},
		}
	}
	return chain.Apply(rows)
}

// BuildTime derives one time row per distinct start second of the play
// events.
func BuildTime(plays []model.LogEvent) []model.TimeRow {
	rows := make([]model.TimeRow, len(plays))
	for i, e := range plays {
		st := calendar.StartTime(e.TS)
		p := calendar.Split(st)
		rows[i] = model.TimeRow{
			StartTime: st,
			Hour:      p.Hour,
			Day:       p.Day,
			Week:      p.Week,
			Month:     p.Month,
			Year:      p.Year,
			Weekday:   p.Weekday,
		}
	}
	return builtin.Distinct[model.TimeRow]{}.Apply(rows)
}

// BuildSongplays inner-joins play events to catalog records on
// key(event.artist) == key(record.artist_name). Every matching catalog
// record yields a row; events without an artist never match.
//
// plays holds one slice per log file. Slice i is id partition i, so ids are
// unique and increase in output order.
func BuildSongplays(plays [][]model.LogEvent, catalog []model.SongRecord, key func(string) string) ([]model.Songplay, error) {
	if key == nil {
		key = builtin.ExactKey
	}

	byArtist := make(map[string][]int, len(catalog))
	for i, r := range catalog {
		k := key(r.ArtistName)
		byArtist[k] = append(byArtist[k], i)
	}

	var out []model.Songplay
	for p, events := range plays {
		ids, err := idgen.ForPartition(p)
		if err != nil {
			return nil, err
		}
		for _, e := range events {
			if e.Artist == nil {
				continue
			}
			matches := byArtist[key(*e.Artist)]
			if len(matches) == 0 {
				continue
			}
			st := calendar.StartTime(e.TS)
			for _, ci := range matches {
				song := catalog[ci]
				out = append(out, model.Songplay{
					SongplayID: ids.Next(),
					StartTime:  st,
					UserID:     string(e.UserID),
					Level:      e.Level,
					SongID:     song.SongID,
					ArtistID:   song.ArtistID,
					SessionID:  e.SessionID,
					Location:   e.Location,
					UserAgent:  e.UserAgent,
					Year:       calendar.Year(st),
					Month:      calendar.Month(st),
				})
			}
		}
	}
	return out, nil
}
