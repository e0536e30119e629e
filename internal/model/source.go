// Package model holds the record types read from the raw datasets, the row
// types of the five lake tables, and the column contracts that the lake
// writer, the warehouse loader and the integrity checks share.
package model

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// SongRecord is one song-catalog document from song_data/. Artist
// attributes are embedded in the same record.
type SongRecord struct {
	NumSongs        int      `json:"num_songs"`
	SongID          string   `json:"song_id"`
	Title           string   `json:"title"`
	ArtistID        string   `json:"artist_id"`
	Year            int      `json:"year"`
	Duration        float64  `json:"duration"`
	ArtistName      string   `json:"artist_name"`
	ArtistLocation  string   `json:"artist_location"`
	ArtistLatitude  *float64 `json:"artist_latitude"`
	ArtistLongitude *float64 `json:"artist_longitude"`
}

// LogEvent is one user interaction from log_data/. Only events whose Page is
// the play page feed the users, time and songplays tables.
type LogEvent struct {
	Artist        *string    `json:"artist"`
	Auth          string     `json:"auth"`
	FirstName     string     `json:"firstName"`
	Gender        string     `json:"gender"`
	ItemInSession int        `json:"itemInSession"`
	LastName      string     `json:"lastName"`
	Length        *float64   `json:"length"`
	Level         string     `json:"level"`
	Location      string     `json:"location"`
	Method        string     `json:"method"`
	Page          string     `json:"page"`
	Registration  *float64   `json:"registration"`
	SessionID     int64      `json:"sessionId"`
	Song          *string    `json:"song"`
	Status        int        `json:"status"`
	TS            int64      `json:"ts"`
	UserAgent     string     `json:"userAgent"`
	UserID        FlexString `json:"userId"`
}

// FlexString decodes a JSON string, number or null into a string. The event
// logs carry userId as a string, but some exports emit it as a number.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*f = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		n, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return fmt.Errorf("flexstring: %w", err)
		}
		*f = FlexString(strconv.FormatFloat(n, 'f', -1, 64))
	default:
		return fmt.Errorf("flexstring: unsupported JSON value %s", b)
	}
	return nil
}
