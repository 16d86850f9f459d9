// Package format renders records as one-line summaries and git commit
// subjects.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/claude/workoutlog/internal/models"
)

// maxSubject is the longest commit subject body before truncation.
const maxSubject = 65

// Name turns a canonical identifier into a display name: "pull_up" -> "Pull Up".
func Name(id string) string {
	// Casers are stateful and must not be shared across goroutines.
	return cases.Title(language.English).String(strings.Join(strings.Fields(strings.ReplaceAll(id, "_", " ")), " "))
}

// Record renders one record, e.g.
//
//	[2026-02-16] Squat: 315x5x3 @ RPE 8 - "felt strong"
//	[2026-02-16] Treadmill: 10 min, 3.2 mph, 15% inc
//	[2026-02-16] Note: "Felt tired today"
func Record(rec *models.Record) string {
	date := rec.Timestamp.Date.String()

	var summary string
	switch d := rec.Detail.(type) {
	case *models.Note:
		return fmt.Sprintf("[%s] Note: \"%s\"", date, rec.Notes)
	case *models.Cardio:
		summary = cardio(d)
	case *models.Lift:
		summary = Sets(d.Sets)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %s", date, Name(rec.Name()), summary)
	if rec.RPE != 0 {
		fmt.Fprintf(&b, " @ RPE %d", rec.RPE)
	}
	if rec.Notes != "" {
		fmt.Fprintf(&b, " - \"%s\"", rec.Notes)
	}
	return b.String()
}

func cardio(c *models.Cardio) string {
	var parts []string
	add := func(v *float64, suffix string) {
		if v != nil && *v != 0 {
			parts = append(parts, number(*v)+suffix)
		}
	}
	add(c.DurationMin, " min")
	add(c.DistanceMiles, " mi")
	add(c.SpeedMPH, " mph")
	add(c.InclinePercent, "% inc")
	return strings.Join(parts, ", ")
}

type weightGroup struct {
	weight *float64
	reps   []string
}

// Sets summarizes sets, grouping consecutive sets at the same weight:
// "315x5x3", "315x[5, 4, 0 (fail)]", "5x10 reps", "20, 20, 25 reps".
func Sets(sets []models.Set) string {
	if len(sets) == 0 {
		return "No sets"
	}

	var groups []*weightGroup
	for _, s := range sets {
		rep := strconv.Itoa(s.Reps)
		if s.Failed {
			rep += " (fail)"
		}
		if n := len(groups); n > 0 && sameWeight(groups[n-1].weight, s.Weight) {
			groups[n-1].reps = append(groups[n-1].reps, rep)
			continue
		}
		groups = append(groups, &weightGroup{weight: s.Weight, reps: []string{rep}})
	}

	out := make([]string, 0, len(groups))
	for _, g := range groups {
		uniform := true
		for _, r := range g.reps {
			if r != g.reps[0] {
				uniform = false
				break
			}
		}
		count := len(g.reps)

		if g.weight != nil {
			w := number(*g.weight)
			switch {
			case count == 1:
				out = append(out, w+"x"+g.reps[0])
			case uniform:
				out = append(out, fmt.Sprintf("%sx%dx%s", w, count, g.reps[0]))
			default:
				out = append(out, w+"x["+strings.Join(g.reps, ", ")+"]")
			}
			continue
		}

		if uniform && count > 1 {
			out = append(out, fmt.Sprintf("%dx%s reps", count, g.reps[0]))
		} else {
			out = append(out, strings.Join(g.reps, ", ")+" reps")
		}
	}
	return strings.Join(out, ", ")
}

// CommitMessage builds the git commit subject for a record:
// "workout: squat 315x5x3 rpe8" or "note: Felt tired today".
func CommitMessage(rec *models.Record) string {
	if _, ok := rec.Detail.(*models.Note); ok {
		return "note: " + truncate(strings.TrimSpace(rec.Notes))
	}

	name := rec.Name()
	if name == "" {
		name = "workout"
	}
	parts := []string{name}

	if l, ok := rec.Detail.(*models.Lift); ok && len(l.Sets) > 0 {
		parts = append(parts, commitSets(l.Sets))
	}
	if rec.RPE != 0 {
		parts = append(parts, "rpe"+strconv.Itoa(rec.RPE))
	}
	return "workout: " + truncate(strings.Join(parts, " "))
}

// commitSets condenses sets to one token. Sets count as uniform when weight
// and reps match, regardless of failure.
func commitSets(sets []models.Set) string {
	first := sets[0]
	uniform := true
	for _, s := range sets[1:] {
		if !sameWeight(s.Weight, first.Weight) || s.Reps != first.Reps {
			uniform = false
			break
		}
	}
	weighted := first.Weight != nil && *first.Weight != 0

	switch {
	case len(sets) == 1 && weighted:
		return fmt.Sprintf("%sx%d", number(*first.Weight), first.Reps)
	case len(sets) == 1:
		return strconv.Itoa(first.Reps)
	case uniform && weighted:
		return fmt.Sprintf("%sx%dx%d", number(*first.Weight), len(sets), first.Reps)
	case uniform:
		return fmt.Sprintf("%dx%d", len(sets), first.Reps)
	default:
		return fmt.Sprintf("%d sets", len(sets))
	}
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxSubject {
		return s
	}
	return string(r[:maxSubject]) + "..."
}

func sameWeight(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// number prints a float without trailing zeros: 315, 92.5, 3.2.
func number(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
