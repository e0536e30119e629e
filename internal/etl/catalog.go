package etl

import (
	"context"
	"fmt"

	"github.com/Ramanathantrb/Datalakes-with-spark/internal/config"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/lake"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/metrics"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/model"
	"github.com/Ramanathantrb/Datalakes-with-spark/internal/transformer/builtin"
)

// SourceSongs labels song catalog reads in metrics.
const SourceSongs = "song_data"

// Catalog is the output of ProcessSongData.
type Catalog struct {
	Songs   []model.Song
	Artists []model.Artist

	SongsResult   lake.Result
	ArtistsResult lake.Result
}

// ProcessSongData reads the song catalog and writes the songs table
// (partitioned by year and artist_id) and the artists table, replacing any
// previous contents.
func ProcessSongData(ctx context.Context, s *Session) (*Catalog, error) {
	files, err := ReadJSON[model.SongRecord](ctx, s.In, s.Opt.SongGlob, s.Opt.ReadWorkers)
	if err != nil {
		return nil, fmt.Errorf("song data: %w", err)
	}
	reportCorrupt(s, SourceSongs, files)
	recs := Flatten(files)
	metrics.RecordRows(s.Opt.Job, SourceSongs, metrics.KindRead, int64(len(recs)))
	s.log.Debug().Int("files", len(files)).Int("records", len(recs)).Msg("song data read")

	c := &Catalog{
		Songs:   BuildSongs(recs),
		Artists: BuildArtists(recs, s.Opt.ArtistsDedup),
	}

	c.SongsResult, err = lake.Write[model.SongFile](ctx, s.Out, model.SongsTable, c.Songs, s.Opt.Lake)
	if err != nil {
		return nil, fmt.Errorf("song data: %w", err)
	}
	logCreated(s, c.SongsResult)

	c.ArtistsResult, err = lake.Write[model.Artist](ctx, s.Out, model.ArtistsTable, c.Artists, s.Opt.Lake)
	if err != nil {
		return nil, fmt.Errorf("song data: %w", err)
	}
	logCreated(s, c.ArtistsResult)

	return c, nil
}

// BuildSongs projects catalog records onto the songs table and drops rows
// that are identical across all five columns.
func BuildSongs(recs []model.SongRecord) []model.Song {
	rows := make([]model.Song, len(recs))
	for i, r := range recs {
		rows[i] = model.Song{
			SongID:   r.SongID,
			Title:    r.Title,
			ArtistID: r.ArtistID,
			Year:     int32(r.Year),
			Duration: r.Duration,
		}
	}
	return builtin.Distinct[model.Song]{}.Apply(rows)
}

// BuildArtists projects and renames the artist fields of catalog records.
// Policy config.DedupKey keeps the first row per artist_id; anything else
// drops full-row duplicates only, so one artist_id may appear with
// differing attributes.
func BuildArtists(recs []model.SongRecord, policy string) []model.Artist {
	rows := make([]model.Artist, len(recs))
	for i, r := range recs {
		rows[i] = model.Artist{
			ArtistID:  r.ArtistID,
			Name:      r.ArtistName,
			Location:  r.ArtistLocation,
			Latitude:  r.ArtistLatitude,
			Longitude: r.ArtistLongitude,
		}
	}

	rows = builtin.Distinct[model.Artist]{}.Apply(rows)
	if policy == config.DedupKey {
		rows = builtin.DeDup[model.Artist]{
			Key:    func(a model.Artist) (string, bool) { return a.ArtistID, true },
			Policy: builtin.KeepFirst,
		}.Apply(rows)
	}
	return rows
}

func logCreated(s *Session, res lake.Result) {
	s.log.Info().
		Str("table", res.Table).
		Int64("rows", res.Rows).
		Int("files", res.Files).
		Int64("bytes", res.Bytes).
		Dur("elapsed", res.Elapsed).
		Msg(res.Table + " table created")
}
