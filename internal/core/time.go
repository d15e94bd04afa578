package core

import "time"

// TimeFormat is the wire format for all timestamps.
const TimeFormat = time.RFC3339

// FormatTime renders t in UTC using TimeFormat.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// ParseTime parses a TimeFormat timestamp.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeFormat, s)
}

// NowFormatted returns the current time rendered with FormatTime.
func NowFormatted() string {
	return FormatTime(time.Now())
}
