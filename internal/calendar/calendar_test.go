package calendar

import (
	"math/rand"
	"testing"
	"time"
)

// TestStartTime_TruncatesToSecond verifies the ms conversion and that two
// events in the same second collapse to one start time.
func TestStartTime_TruncatesToSecond(t *testing.T) {
	a := StartTime(1541121934796)
	b := StartTime(1541121934001)
	want := time.Date(2018, 11, 2, 1, 25, 34, 0, time.UTC)
	if !a.Equal(want) || !b.Equal(want) {
		t.Fatalf("StartTime = %v / %v, want %v", a, b, want)
	}
	if a.Location() != time.UTC {
		t.Fatalf("location = %v, want UTC", a.Location())
	}
}

/*
TestSplit_KnownDates pins the derived fields for dates chosen around ISO
week and weekday edges.
*/
func TestSplit_KnownDates(t *testing.T) {
	tests := []struct {
		in   time.Time
		want Parts
	}{
		// Friday 2018-11-02 01:25:34 UTC.
		{time.Date(2018, 11, 2, 1, 25, 34, 0, time.UTC), Parts{Hour: 1, Day: 2, Week: 44, Month: 11, Year: 2018, Weekday: 6}},
		// Sunday is 1.
		{time.Date(2018, 11, 4, 23, 0, 0, 0, time.UTC), Parts{Hour: 23, Day: 4, Week: 44, Month: 11, Year: 2018, Weekday: 1}},
		// Saturday is 7.
		{time.Date(2018, 11, 3, 0, 0, 0, 0, time.UTC), Parts{Hour: 0, Day: 3, Week: 44, Month: 11, Year: 2018, Weekday: 7}},
		// 2018-12-31 is in ISO week 1 of 2019; Year stays the calendar year.
		{time.Date(2018, 12, 31, 12, 0, 0, 0, time.UTC), Parts{Hour: 12, Day: 31, Week: 1, Month: 12, Year: 2018, Weekday: 2}},
		// 2021-01-03 is in ISO week 53 of 2020.
		{time.Date(2021, 1, 3, 5, 0, 0, 0, time.UTC), Parts{Hour: 5, Day: 3, Week: 53, Month: 1, Year: 2021, Weekday: 1}},
	}
	for _, tc := range tests {
		if got := Split(tc.in); got != tc.want {
			t.Fatalf("Split(%v) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

// TestSplit_NonUTCInput verifies parts are computed in UTC.
func TestSplit_NonUTCInput(t *testing.T) {
	loc := time.FixedZone("UTC-8", -8*3600)
	in := time.Date(2018, 11, 1, 20, 0, 0, 0, loc) // 2018-11-02 04:00 UTC
	if got := Split(in); got.Day != 2 || got.Hour != 4 {
		t.Fatalf("Split(%v) = %+v", in, got)
	}
}

/*
TestParts_HourlyRoundTrip checks that (year, month, day, hour) rebuild the
hour-truncated start time for random timestamps.
*/
func TestParts_HourlyRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	lo := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	hi := time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	for i := 0; i < 10000; i++ {
		ms := lo + r.Int63n(hi-lo)
		st := StartTime(ms)
		p := Split(st)
		if got, want := p.Hourly(), st.Truncate(time.Hour); !got.Equal(want) {
			t.Fatalf("ms=%d: Hourly() = %v, want %v", ms, got, want)
		}
		if p.Weekday < 1 || p.Weekday > 7 || p.Week < 1 || p.Week > 53 {
			t.Fatalf("ms=%d: out of range parts %+v", ms, p)
		}
	}
}
