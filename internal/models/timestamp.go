package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

var (
	dateRe      = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	timestampRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})T(\d{2}:\d{2}:\d{2})([+-]\d{2}:\d{2})$`)
)

// Date is a calendar day kept as its literal zero-padded components.
// Components are not validated against the civil calendar.
type Date struct {
	Year  string
	Month string
	Day   string
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	return Date{
		Year:  fmt.Sprintf("%04d", t.Year()),
		Month: fmt.Sprintf("%02d", int(t.Month())),
		Day:   fmt.Sprintf("%02d", t.Day()),
	}
}

// ParseDate accepts exactly YYYY-MM-DD.
func ParseDate(s string) (Date, bool) {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return Date{}, false
	}
	return Date{Year: m[1], Month: m[2], Day: m[3]}, true
}

func (d Date) String() string {
	return d.Year + "-" + d.Month + "-" + d.Day
}

// Timestamp is the ts field of a stored record: YYYY-MM-DDTHH:MM:SS±HH:MM.
// The date and the wall clock are independent: a date override keeps the
// clock of the moment the entry was logged.
type Timestamp struct {
	Date   Date
	Clock  string // HH:MM:SS
	Offset string // ±HH:MM
}

// NewTimestamp combines a calendar day with the wall clock and UTC offset of clock.
func NewTimestamp(d Date, clock time.Time) Timestamp {
	return Timestamp{
		Date:   d,
		Clock:  clock.Format("15:04:05"),
		Offset: clock.Format("-07:00"),
	}
}

// ParseTimestamp parses the format produced by Timestamp.String.
func ParseTimestamp(s string) (Timestamp, error) {
	m := timestampRe.FindStringSubmatch(s)
	if m == nil {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
	}
	return Timestamp{
		Date:   Date{Year: m[1], Month: m[2], Day: m[3]},
		Clock:  m[4],
		Offset: m[5],
	}, nil
}

func (t Timestamp) String() string {
	return t.Date.String() + "T" + t.Clock + t.Offset
}

// Time converts to a time.Time. It fails for literal dates that do not exist
// on the calendar (e.g. 2026-02-31).
func (t Timestamp) Time() (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, t.String())
	if err != nil {
		return time.Time{}, fmt.Errorf("converting timestamp: %w", err)
	}
	return parsed, nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
