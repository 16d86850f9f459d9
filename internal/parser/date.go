package parser

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/claude/workoutlog/internal/models"
)

// Zone is the civil time zone every log entry is dated in.
var Zone = mustLoadZone("America/Los_Angeles")

func mustLoadZone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("loading zone %s: %v", name, err))
	}
	return loc
}

// ResolveDate turns an optional date token into a calendar day.
//
//	""           -> the reference day in Zone
//	"yesterday"  -> the reference day minus one
//	"today"      -> the reference day
//	"YYYY-MM-DD" -> the literal components, unvalidated
func ResolveDate(token string, ref time.Time) (models.Date, error) {
	ref = ref.In(Zone)
	token = strings.TrimSpace(token)

	if token == "" {
		return models.DateOf(ref), nil
	}

	switch strings.ToLower(token) {
	case "yesterday":
		return models.DateOf(ref.AddDate(0, 0, -1)), nil
	case "today":
		return models.DateOf(ref), nil
	}

	if d, ok := models.ParseDate(token); ok {
		return d, nil
	}
	return models.Date{}, newError(InvalidDate, "Could not parse date: %q", token)
}

// ReferenceOn returns the instant on calendar day date (YYYY-MM-DD) at the
// wall clock of now, both in Zone. It backs date overrides that keep the
// time an entry was logged.
func ReferenceOn(date string, now time.Time) (time.Time, error) {
	day, err := time.ParseInLocation(time.DateOnly, date, Zone)
	if err != nil {
		return time.Time{}, newError(InvalidDate, "Invalid date format: %s. Use YYYY-MM-DD", date)
	}
	now = now.In(Zone)
	return time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), now.Second(), 0, Zone), nil
}
