package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/claude/workoutlog/internal/models"
)

var (
	durationRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*min(?:ute)?s?`)
	speedRe    = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*mph`)
	inclineRe  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*degree\s*incline|incline\s*(\d+(?:\.\d+)?)`)
	distanceRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*miles?`)

	// Removed from the text in this order before what is left becomes notes.
	cardioStrip = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*min(?:ute)?s?`),
		regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*mph`),
		regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*degree\s*incline`),
		regexp.MustCompile(`(?i)incline\s*\d+(?:\.\d+)?`),
		regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*miles?`),
	}
	separatorsRe = regexp.MustCompile(`[,\s]+`)
)

// parseCardio extracts the optional cardio attributes from rest. Each
// attribute is found independently of the others and of token order.
func parseCardio(modality, rest string) (*models.Cardio, string) {
	c := &models.Cardio{
		Modality:       modality,
		DurationMin:    firstNumber(durationRe, rest),
		SpeedMPH:       firstNumber(speedRe, rest),
		InclinePercent: firstNumber(inclineRe, rest),
		DistanceMiles:  firstNumber(distanceRe, rest),
	}

	notes := rest
	for _, re := range cardioStrip {
		notes = re.ReplaceAllString(notes, "")
	}
	notes = strings.TrimSpace(separatorsRe.ReplaceAllString(notes, " "))
	return c, notes
}

// firstNumber returns the first non-empty capture group of the leftmost match.
func firstNumber(re *regexp.Regexp, s string) *float64 {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	for _, g := range m[1:] {
		if g == "" {
			continue
		}
		f, err := strconv.ParseFloat(g, 64)
		if err != nil {
			return nil
		}
		return &f
	}
	return nil
}
