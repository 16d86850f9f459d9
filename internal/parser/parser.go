// Package parser turns workout shorthand such as "/log squat 315x5x3 rpe8"
// into typed records.
package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/claude/workoutlog/internal/exercises"
	"github.com/claude/workoutlog/internal/models"
)

const (
	logPrefix  = "/log "
	notePrefix = "/note "

	// DefaultSource labels records whose caller did not name a source.
	DefaultSource = "telegram"

	// maxExerciseWords is the longest alias phrase tried.
	maxExerciseWords = 3
)

var (
	leadingDateRe  = regexp.MustCompile(`(?i)^(yesterday|today|\d{4}-\d{2}-\d{2})(?:\s*:\s*|\s+)`)
	trailingDateRe = regexp.MustCompile(`\s+(\d{4}-\d{2}-\d{2})\s*$`)
)

// Parse converts one /log or /note message into a record and the calendar
// day it belongs to. A zero ref means now. An empty source means
// DefaultSource. Errors are *Error values; no partial record is returned.
func Parse(message string, ref time.Time, source string) (*models.Record, models.Date, error) {
	var isNote bool
	var content string
	switch {
	case strings.HasPrefix(message, logPrefix):
		content = message[len(logPrefix):]
	case strings.HasPrefix(message, notePrefix):
		isNote = true
		content = message[len(notePrefix):]
	default:
		return nil, models.Date{}, newError(MissingPrefix, "Message must start with /log or /note")
	}
	content = strings.TrimSpace(content)

	dateToken, body := splitDateModifier(content, isNote)

	if ref.IsZero() {
		ref = time.Now()
	}
	ref = ref.In(Zone)
	date, err := ResolveDate(dateToken, ref)
	if err != nil {
		return nil, models.Date{}, err
	}

	if source == "" {
		source = DefaultSource
	}
	rec := &models.Record{
		Timestamp: models.NewTimestamp(date, ref),
		Source:    source,
		Raw:       message,
	}

	if isNote {
		rec.Notes = strings.TrimSpace(body)
		rec.Detail = &models.Note{}
		return rec, date, nil
	}

	exercise, rest, err := splitExercise(body)
	if err != nil {
		return nil, models.Date{}, err
	}

	category, _ := exercises.Classify(exercise)
	switch category {
	case exercises.Cardio:
		rec.Detail, rec.Notes = parseCardio(exercise, rest)
	case exercises.Strength, exercises.Bodyweight, exercises.Machine:
		lift, notes, rpe, err := parseLift(exercise, category, rest)
		if err != nil {
			return nil, models.Date{}, err
		}
		rec.Detail, rec.Notes, rec.RPE = lift, notes, rpe
	default:
		panic(fmt.Sprintf("exercise %q has no category", exercise))
	}
	return rec, date, nil
}

// splitDateModifier separates an optional date modifier from the content.
// A leading modifier wins; only /log entries accept a trailing ISO date so
// that dates inside note text are left alone.
func splitDateModifier(content string, isNote bool) (token, body string) {
	if m := leadingDateRe.FindStringSubmatch(content); m != nil {
		return m[1], content[len(m[0]):]
	}
	if isNote {
		return "", content
	}
	if m := trailingDateRe.FindStringSubmatch(content); m != nil {
		return m[1], strings.TrimSpace(content[:strings.LastIndex(content, m[1])])
	}
	return "", content
}

// splitExercise resolves the longest-needed alias prefix of one to three
// words and returns the canonical id with the remaining text.
func splitExercise(body string) (string, string, error) {
	words := strings.Fields(body)
	if len(words) == 0 {
		return "", "", newError(NoExercise, "No exercise specified")
	}

	var reported string
	for n := 1; n <= maxExerciseWords && n <= len(words); n++ {
		phrase := strings.Join(words[:n], " ")
		if n < maxExerciseWords {
			reported = phrase
		}
		if id, ok := exercises.Normalize(phrase); ok {
			return id, strings.Join(words[n:], " "), nil
		}
	}
	return "", "", newError(UnknownExercise, "Unknown exercise: %q. Could not normalize.", reported)
}
