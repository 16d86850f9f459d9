package parser

import (
	"strconv"
	"strings"
)

// RepOutcome is one entry of a rep list: a rep count or a failed attempt.
type RepOutcome struct {
	Reps   int
	Failed bool
}

// ParseRepList parses "20,20,25" or "2,1,x". The markers x, f and fail
// record a failed set. Order is set order.
func ParseRepList(token string) ([]RepOutcome, error) {
	pieces := strings.Split(token, ",")
	out := make([]RepOutcome, 0, len(pieces))
	for _, p := range pieces {
		p = strings.ToLower(strings.TrimSpace(p))
		switch p {
		case "x", "f", "fail":
			out = append(out, RepOutcome{Failed: true})
			continue
		}
		if !bareIntRe.MatchString(p) {
			return nil, newError(InvalidRepToken, "Invalid rep count %q in %q", p, token)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, newError(InvalidRepToken, "Invalid rep count %q in %q", p, token)
		}
		out = append(out, RepOutcome{Reps: n})
	}
	return out, nil
}
