package model

import (
	"strconv"
	"time"
)

// Logical column types. Warehouse backends map them to SQL types.
const (
	TypeString    = "string"
	TypeInt       = "int"
	TypeBigint    = "bigint"
	TypeDouble    = "double"
	TypeTimestamp = "timestamp"
)

// Column is one column of a table contract.
type Column struct {
	Name     string
	Type     string
	Nullable bool
}

// Table is the contract of one output table. Columns list every column in
// Values() order, partition columns included; PartitionBy names the columns
// that become directory segments in the lake instead of file columns.
type Table struct {
	Name        string
	Columns     []Column
	PartitionBy []string
}

// Dir is the table directory relative to the lake root, e.g.
// "songs/songs.parquet".
func (t Table) Dir() string { return t.Name + "/" + t.Name + ".parquet" }

// ColumnNames returns the column names in Values() order.
func (t Table) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Index returns the position of the named column, or -1.
func (t Table) Index(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

var (
	SongsTable = Table{
		Name: "songs",
		Columns: []Column{
			{Name: "song_id", Type: TypeString},
			{Name: "title", Type: TypeString},
			{Name: "artist_id", Type: TypeString},
			{Name: "year", Type: TypeInt},
			{Name: "duration", Type: TypeDouble},
		},
		PartitionBy: []string{"year", "artist_id"},
	}

	ArtistsTable = Table{
		Name: "artists",
		Columns: []Column{
			{Name: "artist_id", Type: TypeString},
			{Name: "name", Type: TypeString},
			{Name: "location", Type: TypeString},
			{Name: "latitude", Type: TypeDouble, Nullable: true},
			{Name: "longitude", Type: TypeDouble, Nullable: true},
		},
	}

	UsersTable = Table{
		Name: "users",
		Columns: []Column{
			{Name: "user_id", Type: TypeString},
			{Name: "first_name", Type: TypeString},
			{Name: "last_name", Type: TypeString},
			{Name: "gender", Type: TypeString},
			{Name: "level", Type: TypeString},
		},
	}

	TimeTable = Table{
		Name: "time",
		Columns: []Column{
			{Name: "start_time", Type: TypeTimestamp},
			{Name: "hour", Type: TypeInt},
			{Name: "day", Type: TypeInt},
			{Name: "week", Type: TypeInt},
			{Name: "month", Type: TypeInt},
			{Name: "year", Type: TypeInt},
			{Name: "weekday", Type: TypeInt},
		},
		PartitionBy: []string{"year", "month"},
	}

	SongplaysTable = Table{
		Name: "songplays",
		Columns: []Column{
			{Name: "songplay_id", Type: TypeBigint},
			{Name: "start_time", Type: TypeTimestamp},
			{Name: "user_id", Type: TypeString},
			{Name: "level", Type: TypeString},
			{Name: "song_id", Type: TypeString},
			{Name: "artist_id", Type: TypeString},
			{Name: "session_id", Type: TypeBigint},
			{Name: "location", Type: TypeString},
			{Name: "user_agent", Type: TypeString},
			{Name: "year", Type: TypeInt},
			{Name: "month", Type: TypeInt},
		},
		PartitionBy: []string{"year", "month"},
	}
)

// Tables returns the five table contracts in write order.
func Tables() []Table {
	return []Table{SongsTable, ArtistsTable, UsersTable, TimeTable, SongplaysTable}
}

// ForeignKey documents a reference the job does not enforce. The join is by
// artist name, so songplays can reference ids missing from the dimensions.
type ForeignKey struct {
	Table, Column       string
	RefTable, RefColumn string
}

// ForeignKeys are the implicit contracts between the fact table and the
// dimensions.
var ForeignKeys = []ForeignKey{
	{Table: "songplays", Column: "song_id", RefTable: "songs", RefColumn: "song_id"},
	{Table: "songplays", Column: "artist_id", RefTable: "artists", RefColumn: "artist_id"},
	{Table: "songplays", Column: "user_id", RefTable: "users", RefColumn: "user_id"},
	{Table: "songplays", Column: "start_time", RefTable: "time", RefColumn: "start_time"},
}

// Row is implemented by every table row type. F is the parquet file record:
// the row without its partition columns.
type Row[F any] interface {
	Values() []any
	Partition() []string
	File() F
}

// Song is a songs table row.
type Song struct {
	SongID   string
	Title    string
	ArtistID string
	Year     int32
	Duration float64
}

// SongFile is the parquet record of a songs part file.
type SongFile struct {
	SongID   string  `parquet:"name=song_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Title    string  `parquet:"name=title, type=BYTE_ARRAY, convertedtype=UTF8"`
	Duration float64 `parquet:"name=duration, type=DOUBLE"`
}

func (s Song) Values() []any       { return []any{s.SongID, s.Title, s.ArtistID, s.Year, s.Duration} }
func (s Song) Partition() []string { return []string{strconv.Itoa(int(s.Year)), s.ArtistID} }
func (s Song) File() SongFile      { return SongFile{SongID: s.SongID, Title: s.Title, Duration: s.Duration} }

// Artist is an artists table row. The table is not partitioned, so the row
// is its own parquet record.
type Artist struct {
	ArtistID  string   `parquet:"name=artist_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Name      string   `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Location  string   `parquet:"name=location, type=BYTE_ARRAY, convertedtype=UTF8"`
	Latitude  *float64 `parquet:"name=latitude, type=DOUBLE, repetitiontype=OPTIONAL"`
	Longitude *float64 `parquet:"name=longitude, type=DOUBLE, repetitiontype=OPTIONAL"`
}

func (a Artist) Values() []any {
	return []any{a.ArtistID, a.Name, a.Location, a.Latitude, a.Longitude}
}
func (a Artist) Partition() []string { return nil }
func (a Artist) File() Artist        { return a }

// User is a users table row.
type User struct {
	UserID    string `parquet:"name=user_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	FirstName string `parquet:"name=first_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	LastName  string `parquet:"name=last_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Gender    string `parquet:"name=gender, type=BYTE_ARRAY, convertedtype=UTF8"`
	Level     string `parquet:"name=level, type=BYTE_ARRAY, convertedtype=UTF8"`
}

func (u User) Values() []any       { return []any{u.UserID, u.FirstName, u.LastName, u.Gender, u.Level} }
func (u User) Partition() []string { return nil }
func (u User) File() User          { return u }

// TimeRow is a time table row. StartTime is UTC, truncated to the second.
type TimeRow struct {
	StartTime time.Time
	Hour      int32
	Day       int32
	Week      int32
	Month     int32
	Year      int32
	Weekday   int32
}

// TimeFile is the parquet record of a time part file.
type TimeFile struct {
	StartTime int64 `parquet:"name=start_time, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	Hour      int32 `parquet:"name=hour, type=INT32"`
	Day       int32 `parquet:"name=day, type=INT32"`
	Week      int32 `parquet:"name=week, type=INT32"`
	Weekday   int32 `parquet:"name=weekday, type=INT32"`
}

func (r TimeRow) Values() []any {
	return []any{r.StartTime, r.Hour, r.Day, r.Week, r.Month, r.Year, r.Weekday}
}

func (r TimeRow) Partition() []string {
	return []string{strconv.Itoa(int(r.Year)), strconv.Itoa(int(r.Month))}
}

func (r TimeRow) File() TimeFile {
	return TimeFile{
		StartTime: r.StartTime.UnixMilli(),
		Hour:      r.Hour,
		Day:       r.Day,
		Week:      r.Week,
		Weekday:   r.Weekday,
	}
}

// Songplay is a songplays table row.
type Songplay struct {
	SongplayID int64
	StartTime  time.Time
	UserID     string
	Level      string
	SongID     string
	ArtistID   string
	SessionID  int64
	Location   string
	UserAgent  string
	Year       int32
	Month      int32
}

// SongplayFile is the parquet record of a songplays part file.
type SongplayFile struct {
	SongplayID int64  `parquet:"name=songplay_id, type=INT64"`
	StartTime  int64  `parquet:"name=start_time, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	UserID     string `parquet:"name=user_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Level      string `parquet:"name=level, type=BYTE_ARRAY, convertedtype=UTF8"`
	SongID     string `parquet:"name=song_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	ArtistID   string `parquet:"name=artist_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	SessionID  int64  `parquet:"name=session_id, type=INT64"`
	Location   string `parquet:"name=location, type=BYTE_ARRAY, convertedtype=UTF8"`
	UserAgent  string `parquet:"name=user_agent, type=BYTE_ARRAY, convertedtype=UTF8"`
}

func (p Songplay) Values() []any {
	return []any{
		p.SongplayID, p.StartTime, p.UserID, p.Level, p.SongID, p.ArtistID,
		p.SessionID, p.Location, p.UserAgent, p.Year, p.Month,
	}
}

func (p Songplay) Partition() []string {
	return []string{strconv.Itoa(int(p.Year)), strconv.Itoa(int(p.Month))}
}

func (p Songplay) File() SongplayFile {
	return SongplayFile{
		SongplayID: p.SongplayID,
		StartTime:  p.StartTime.UnixMilli(),
		UserID:     p.UserID,
		Level:      p.Level,
		SongID:     p.SongID,
		ArtistID:   p.ArtistID,
		SessionID:  p.SessionID,
		Location:   p.Location,
		UserAgent:  p.UserAgent,
	}
}
