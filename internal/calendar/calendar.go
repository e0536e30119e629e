// Package calendar derives the time dimension from event timestamps. Every
// function is pure and works in UTC.
package calendar

import "time"

// StartTime converts epoch milliseconds to a UTC time truncated to the
// second. Events within the same second share a start time.
func StartTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC().Truncate(time.Second)
}

// Hour returns the hour of day, 0-23.
func Hour(t time.Time) int32 { return int32(t.UTC().Hour()) }

// Day returns the day of month, 1-31.
func Day(t time.Time) int32 { return int32(t.UTC().Day()) }

// Week returns the ISO 8601 week of year, 1-53.
func Week(t time.Time) int32 {
	_, w := t.UTC().ISOWeek()
	return int32(w)
}

// Month returns the month, 1-12.
func Month(t time.Time) int32 { return int32(t.UTC().Month()) }

// Year returns the calendar year.
func Year(t time.Time) int32 { return int32(t.UTC().Year()) }

// Weekday returns the day of week with 1=Sunday through 7=Saturday.
func Weekday(t time.Time) int32 { return int32(t.UTC().Weekday()) + 1 }

// Parts bundles every derived field of one timestamp.
type Parts struct {
	Hour, Day, Week, Month, Year, Weekday int32
}

// Split derives all parts of t.
func Split(t time.Time) Parts {
	return Parts{
		Hour:    Hour(t),
		Day:     Day(t),
		Week:    Week(t),
		Month:   Month(t),
		Year:    Year(t),
		Weekday: Weekday(t),
	}
}

// Hourly rebuilds the hour-truncated timestamp from year, month, day and
// hour. Hourly(Split(t)) == t.Truncate(time.Hour) for any UTC t.
func (p Parts) Hourly() time.Time {
	return time.Date(int(p.Year), time.Month(p.Month), int(p.Day), int(p.Hour), 0, 0, 0, time.UTC)
}
