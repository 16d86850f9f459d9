package exercises

import (
	"sort"
	"strings"
)

// Category determines which set grammar and record shape an exercise uses.
type Category string

const (
	Strength   Category = "strength"
	Bodyweight Category = "bodyweight"
	Machine    Category = "machine"
	Cardio     Category = "cardio"
)

// aliases maps lowercase phrases to canonical exercise identifiers.
var aliases = map[string]string{
	// Strength
	"squat":            "squat",
	"sq":               "squat",
	"bench":            "bench_press",
	"bench press":      "bench_press",
	"bp":               "bench_press",
	"deadlift":         "deadlift",
	"dl":               "deadlift",
	"ohp":              "ohp",
	"overhead press":   "ohp",
	"op":               "ohp",
	"press":            "ohp",
	"row":              "barbell_row",
	"rows":             "barbell_row",
	"barbell row":      "barbell_row",
	"bent over row":    "barbell_row",
	"incline row":      "incline_row",
	"weighted dip":     "weighted_dip",
	"dip":              "dip",
	"chin up":          "chin_up",
	"chin-up":          "chin_up",
	"chinup":           "chin_up",
	"weighted chin up": "weighted_chin_up",
	"pull up":          "pull_up",
	"pull-up":          "pull_up",
	"pullup":           "pull_up",
	"weighted pull up": "weighted_pull_up",
	"weighted pullup":  "weighted_pull_up",
	"weighted pull-up": "weighted_pull_up",
	"dragon flag":      "dragon_flag",
	"dragon-flag":      "dragon_flag",
	"dragonflag":       "dragon_flag",
	"shrug":            "shrug",

	// Dumbbell
	"db bench":       "dumbbell_bench_press",
	"dumbbell bench": "dumbbell_bench_press",
	"db press":       "dumbbell_bench_press",

	// Machines
	"chest press":         "chest_press_machine",
	"chest press machine": "chest_press_machine",
	"tricep dip machine":  "tricep_dip_machine",
	"triceip dip":         "tricep_dip_machine",
	"ab crunch":           "ab_crunch",
	"ab_crunch":           "ab_crunch",
	"cybex ab crunch":     "cybex_ab_crunch",
	"cybex_ab_crunch":     "cybex_ab_crunch",
	"leg press":           "leg_press",
	"leg_press":           "leg_press",
	"hack squat":          "hack_squat",
	"hack_squat":          "hack_squat",
	"face pulls":          "face_pulls",
	"face pull":           "face_pulls",
	"lat pulldown":        "lat_pulldown",
	"lat pull down":       "lat_pulldown",
	"lat pull-down":       "lat_pulldown",

	// Cardio
	"treadmill":       "treadmill",
	"tm":              "treadmill",
	"rowing":          "rowing",
	"rower":           "rowing",
	"row machine":     "rowing",
	"bike":            "stationary_bike",
	"stationary bike": "stationary_bike",
}

// categories classifies every canonical identifier that aliases can produce.
var categories = map[string]Category{
	"squat":                Strength,
	"bench_press":          Strength,
	"deadlift":             Strength,
	"ohp":                  Strength,
	"barbell_row":          Strength,
	"incline_row":          Strength,
	"weighted_dip":         Strength,
	"dumbbell_bench_press": Strength,
	"shrug":                Strength,
	"dip":                  Bodyweight,
	"chin_up":              Bodyweight,
	"weighted_chin_up":     Bodyweight,
	"pull_up":              Bodyweight,
	"weighted_pull_up":     Bodyweight,
	"dragon_flag":          Bodyweight,
	"chest_press_machine":  Machine,
	"tricep_dip_machine":   Machine,
	"ab_crunch":            Machine,
	"cybex_ab_crunch":      Machine,
	"leg_press":            Machine,
	"hack_squat":           Machine,
	"face_pulls":           Machine,
	"lat_pulldown":         Machine,
	"treadmill":            Cardio,
	"rowing":               Cardio,
	"stationary_bike":      Cardio,
}

// Normalize resolves a user-typed phrase to its canonical exercise identifier.
// Matching is exact after trimming and lowercasing.
func Normalize(phrase string) (string, bool) {
	id, ok := aliases[strings.ToLower(strings.TrimSpace(phrase))]
	return id, ok
}

// Classify returns the category of a canonical exercise identifier.
func Classify(id string) (Category, bool) {
	c, ok := categories[id]
	return c, ok
}

// IsDumbbell reports whether the exercise uses per-dumbbell pair notation.
func IsDumbbell(id string) bool {
	return strings.Contains(id, "dumbbell")
}

// Entry is one catalog line: a canonical exercise with all of its aliases.
type Entry struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Aliases  []string `json:"aliases"`
}

// Catalog returns every canonical exercise with its sorted aliases, ordered
// by category then identifier.
func Catalog() []Entry {
	byID := make(map[string][]string, len(categories))
	for alias, id := range aliases {
		byID[id] = append(byID[id], alias)
	}

	entries := make([]Entry, 0, len(categories))
	for id, cat := range categories {
		names := byID[id]
		sort.Strings(names)
		entries = append(entries, Entry{ID: id, Category: cat, Aliases: names})
	}

	order := map[Category]int{Strength: 0, Bodyweight: 1, Machine: 2, Cardio: 3}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Category != entries[j].Category {
			return order[entries[i].Category] < order[entries[j].Category]
		}
		return entries[i].ID < entries[j].ID
	})
	return entries
}
