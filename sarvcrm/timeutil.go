package sarvcrm

import "time"

// Time formatting helpers producing the string shapes the remote service
// accepts in date-typed fields.

// FormatDate renders t as "YYYY-MM-DD".
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatDateTime renders t with second precision and the local UTC offset,
// e.g. "2024-05-01T13:30:00+03:30".
func FormatDateTime(t time.Time) string {
	return t.Local().Format("2006-01-02T15:04:05-07:00")
}

// FormatTime renders the time-of-day component of t as "HH:MM:SS".
func FormatTime(t time.Time) string {
	return t.Format("15:04:05")
}

// FromNow returns the UTC instant the given duration from now, for building
// relative date fields.
func FromNow(d time.Duration) time.Time {
	return time.Now().UTC().Add(d)
}
