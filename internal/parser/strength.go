package parser

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/claude/workoutlog/internal/exercises"
	"github.com/claude/workoutlog/internal/models"
)

// MaxSets bounds the set count a single shorthand token can expand to.
const MaxSets = 100

var (
	bareIntRe      = regexp.MustCompile(`^\d+$`)
	bareNumberRe   = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	repListRe      = regexp.MustCompile(`^[\d,xfXF]+$`)
	dumbbellPairRe = regexp.MustCompile(`(?i)^2x(\d+)$`)
	dumbbellSetsRe = regexp.MustCompile(`(?i)^(\d+)x([\d,]+)$`)
	pairRe         = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)x(\d+)$`)
	trailingRepsRe = regexp.MustCompile(`(?i)^x?(\d+)$`)
	tripleRe       = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)x(\d+)x(\d+)$`)
	setsRepsRe     = regexp.MustCompile(`(?i)^(\d+)x(\d+)$`)
	rpeRe          = regexp.MustCompile(`(?i)rpe(\d+)`)
)

// liftInput is what every recognizer sees.
type liftInput struct {
	tokens     []string
	bodyweight bool
	dumbbell   bool
}

func (in liftInput) token(i int) string {
	if i < len(in.tokens) {
		return in.tokens[i]
	}
	return ""
}

// liftMatch is a recognizer's output: the sets it built, how many leading
// tokens it consumed, and an optional seeded note.
type liftMatch struct {
	sets     []models.Set
	consumed int
	note     string
}

// recognizer is one arm of the cascade. It reports ok=false when its pattern
// or guard does not apply; an error stops the cascade.
type recognizer func(in liftInput) (m liftMatch, ok bool, err error)

// recognizers are tried in order and the first match wins. Several patterns
// overlap textually, so the order decides their meaning.
var recognizers = []recognizer{
	matchEmpty,
	matchBodyweightReps,
	matchRepList,
	matchDumbbellPair,
	matchPair,
	matchTriple,
	matchWeightThenSetsReps,
	matchWeightThenRepList,
}

func matchEmpty(in liftInput) (liftMatch, bool, error) {
	if len(in.tokens) > 0 {
		return liftMatch{}, false, nil
	}
	return liftMatch{sets: []models.Set{}}, true, nil
}

// "pull-up 20"
func matchBodyweightReps(in liftInput) (liftMatch, bool, error) {
	first := in.token(0)
	if !in.bodyweight || !bareIntRe.MatchString(first) {
		return liftMatch{}, false, nil
	}
	reps, err := atoi(first)
	if err != nil {
		return liftMatch{}, false, err
	}
	return liftMatch{sets: []models.Set{models.RepSet(reps)}, consumed: 1}, true, nil
}

// "pull-up 20,20,25"
func matchRepList(in liftInput) (liftMatch, bool, error) {
	first := in.token(0)
	if !repListRe.MatchString(first) || !strings.Contains(first, ",") {
		return liftMatch{}, false, nil
	}
	outcomes, err := ParseRepList(first)
	if err != nil {
		return liftMatch{}, false, err
	}
	return liftMatch{sets: outcomeSets(nil, outcomes), consumed: 1}, true, nil
}

// "db bench 2x90 4x10,7": 90 per dumbbell, four sets of 10 then one of 7.
func matchDumbbellPair(in liftInput) (liftMatch, bool, error) {
	if !in.dumbbell {
		return liftMatch{}, false, nil
	}
	m := dumbbellPairRe.FindStringSubmatch(in.token(0))
	if m == nil {
		return liftMatch{}, false, nil
	}
	weight, err := parseWeight(m[1])
	if err != nil {
		return liftMatch{}, false, err
	}

	out := liftMatch{consumed: 1}
	sm := dumbbellSetsRe.FindStringSubmatch(in.token(1))
	if sm == nil {
		return out, true, nil
	}

	count, err := setCount(sm[1])
	if err != nil {
		return liftMatch{}, false, err
	}
	var reps []int
	for _, piece := range strings.Split(sm[2], ",") {
		n, err := strconv.Atoi(strings.TrimSpace(piece))
		if err != nil {
			return liftMatch{}, false, newError(InvalidRepToken, "Invalid rep count %q in %q", piece, in.token(1))
		}
		reps = append(reps, n)
	}

	for i := 0; i < count; i++ {
		out.sets = append(out.sets, models.WeightedSet(weight, reps[0]))
	}
	for _, r := range reps[1:] {
		out.sets = append(out.sets, models.WeightedSet(weight, r))
	}
	out.consumed = 2
	if len(out.sets) > 0 {
		out.note = "per dumbbell"
	}
	return out, true, nil
}

// "squat 225x5 3" or "squat 225x5 x3" is weight x sets x reps;
// "pull-up 7x10" is sets x reps; "squat 225x5" is a single set.
func matchPair(in liftInput) (liftMatch, bool, error) {
	m := pairRe.FindStringSubmatch(in.token(0))
	if m == nil {
		return liftMatch{}, false, nil
	}

	if tm := trailingRepsRe.FindStringSubmatch(in.token(1)); tm != nil {
		weight, err := parseWeight(m[1])
		if err != nil {
			return liftMatch{}, false, err
		}
		count, err := setCount(m[2])
		if err != nil {
			return liftMatch{}, false, err
		}
		reps, err := atoi(tm[1])
		if err != nil {
			return liftMatch{}, false, err
		}
		return liftMatch{sets: repeatSet(models.WeightedSet(weight, reps), count), consumed: 2}, true, nil
	}

	reps, err := atoi(m[2])
	if err != nil {
		return liftMatch{}, false, err
	}

	if in.bodyweight {
		// "7.5x10" counts as seven sets.
		whole, _, _ := strings.Cut(m[1], ".")
		count, err := setCount(whole)
		if err != nil {
			return liftMatch{}, false, err
		}
		return liftMatch{sets: repeatSet(models.RepSet(reps), count), consumed: 1}, true, nil
	}

	weight, err := parseWeight(m[1])
	if err != nil {
		return liftMatch{}, false, err
	}
	return liftMatch{sets: []models.Set{models.WeightedSet(weight, reps)}, consumed: 1}, true, nil
}

// "squat 315x5x3"
func matchTriple(in liftInput) (liftMatch, bool, error) {
	m := tripleRe.FindStringSubmatch(in.token(0))
	if m == nil {
		return liftMatch{}, false, nil
	}
	weight, err := parseWeight(m[1])
	if err != nil {
		return liftMatch{}, false, err
	}
	count, err := setCount(m[2])
	if err != nil {
		return liftMatch{}, false, err
	}
	reps, err := atoi(m[3])
	if err != nil {
		return liftMatch{}, false, err
	}
	return liftMatch{sets: repeatSet(models.WeightedSet(weight, reps), count), consumed: 1}, true, nil
}

// "ohp 135 1x4"
func matchWeightThenSetsReps(in liftInput) (liftMatch, bool, error) {
	if !bareNumberRe.MatchString(in.token(0)) {
		return liftMatch{}, false, nil
	}
	m := setsRepsRe.FindStringSubmatch(in.token(1))
	if m == nil {
		return liftMatch{}, false, nil
	}
	weight, err := parseWeight(in.token(0))
	if err != nil {
		return liftMatch{}, false, err
	}
	count, err := setCount(m[1])
	if err != nil {
		return liftMatch{}, false, err
	}
	reps, err := atoi(m[2])
	if err != nil {
		return liftMatch{}, false, err
	}
	return liftMatch{sets: repeatSet(models.WeightedSet(weight, reps), count), consumed: 2}, true, nil
}

// "squat 405 2,1,x"
func matchWeightThenRepList(in liftInput) (liftMatch, bool, error) {
	if !bareNumberRe.MatchString(in.token(0)) || !repListRe.MatchString(in.token(1)) {
		return liftMatch{}, false, nil
	}
	weight, err := parseWeight(in.token(0))
	if err != nil {
		return liftMatch{}, false, err
	}
	outcomes, err := ParseRepList(in.token(1))
	if err != nil {
		return liftMatch{}, false, err
	}
	return liftMatch{sets: outcomeSets(&weight, outcomes), consumed: 2}, true, nil
}

// parseLift runs the cascade over rest and extracts RPE and notes from the
// tokens the winning recognizer left behind.
func parseLift(exercise string, category exercises.Category, rest string) (*models.Lift, string, int, error) {
	in := liftInput{
		tokens:     strings.Fields(rest),
		bodyweight: category == exercises.Bodyweight,
		dumbbell:   exercises.IsDumbbell(exercise),
	}

	for _, match := range recognizers {
		m, ok, err := match(in)
		if err != nil {
			return nil, "", 0, err
		}
		if !ok {
			continue
		}

		sets := m.sets
		if sets == nil {
			sets = []models.Set{}
		}
		lift := &models.Lift{Category: category, Exercise: exercise, Sets: sets}

		rpe, residual := extractRPE(strings.Join(in.tokens[m.consumed:], " "))
		notes := m.note
		if residual != "" {
			if notes != "" {
				notes += "; " + residual
			} else {
				notes = residual
			}
		}
		return lift, notes, rpe, nil
	}

	return nil, "", 0, newError(UnparsableFormat,
		`Could not parse format: %q. Try formats like "225x3x5", "20,20,25", or "405 2,1,x"`,
		strings.TrimSpace(rest))
}

// extractRPE returns the first rpe<n> marker with n in 1-10 (zero if none)
// and the text with every rpe<n> marker removed.
func extractRPE(text string) (int, string) {
	rpe := 0
	for _, m := range rpeRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err == nil && n >= 1 && n <= 10 {
			rpe = n
			break
		}
	}
	return rpe, strings.TrimSpace(rpeRe.ReplaceAllString(text, ""))
}

func outcomeSets(weight *float64, outcomes []RepOutcome) []models.Set {
	sets := make([]models.Set, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Failed {
			sets = append(sets, models.FailedSet(weight))
			continue
		}
		if weight != nil {
			sets = append(sets, models.WeightedSet(*weight, o.Reps))
		} else {
			sets = append(sets, models.RepSet(o.Reps))
		}
	}
	return sets
}

func repeatSet(s models.Set, count int) []models.Set {
	sets := make([]models.Set, 0, count)
	for i := 0; i < count; i++ {
		if s.Weight != nil {
			sets = append(sets, models.WeightedSet(*s.Weight, s.Reps))
		} else {
			sets = append(sets, models.RepSet(s.Reps))
		}
	}
	return sets
}

func parseWeight(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, newError(UnparsableFormat, "Invalid weight %q", s)
	}
	return f, nil
}

func atoi(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, newError(UnparsableFormat, "Invalid number %q", s)
	}
	return n, nil
}

// setCount parses a set count in 0..MaxSets.
func setCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if errors.Is(err, strconv.ErrRange) || n > MaxSets {
		return 0, newError(UnparsableFormat,
			"Too many sets: %s. A single entry is limited to %d sets, split it into several entries", s, MaxSets)
	}
	if err != nil || n < 0 {
		return 0, newError(UnparsableFormat, "Invalid set count %q", s)
	}
	return n, nil
}
