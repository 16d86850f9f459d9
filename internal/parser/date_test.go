package parser

import (
	"testing"
	"time"

	"github.com/claude/workoutlog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// refTime is the reference instant shared by the parser tests.
var refTime = time.Date(2026, 2, 16, 10, 30, 0, 0, Zone)

func TestResolveDate(t *testing.T) {
	cases := []struct {
		token string
		want  models.Date
	}{
		{"", models.Date{Year: "2026", Month: "02", Day: "16"}},
		{"yesterday", models.Date{Year: "2026", Month: "02", Day: "15"}},
		{"Yesterday", models.Date{Year: "2026", Month: "02", Day: "15"}},
		{"today", models.Date{Year: "2026", Month: "02", Day: "16"}},
		{"TODAY", models.Date{Year: "2026", Month: "02", Day: "16"}},
		{"2026-01-30", models.Date{Year: "2026", Month: "01", Day: "30"}},
		// Taken literally, not checked against the calendar.
		{"2026-02-31", models.Date{Year: "2026", Month: "02", Day: "31"}},
	}
	for _, tc := range cases {
		t.Run(tc.token, func(t *testing.T) {
			got, err := ResolveDate(tc.token, refTime)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveDateInvalid(t *testing.T) {
	for _, token := range []string{"invalid", "2026-1-30", "tomorrow", "01/30/2026"} {
		_, err := ResolveDate(token, refTime)
		require.Error(t, err, token)
		assert.True(t, IsKind(err, InvalidDate), token)
		assert.Contains(t, err.Error(), "Could not parse date")
	}
}

// TestResolveDateUsesPacificDay checks that the reference is moved into the
// fixed zone before the calendar day is taken.
func TestResolveDateUsesPacificDay(t *testing.T) {
	// 05:00 UTC on the 17th is still the evening of the 16th in Los Angeles.
	ref := time.Date(2026, 2, 17, 5, 0, 0, 0, time.UTC)
	got, err := ResolveDate("", ref)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-16", got.String())

	got, err = ResolveDate("yesterday", ref)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-15", got.String())
}

func TestResolveDateYesterdayCrossesMonth(t *testing.T) {
	ref := time.Date(2026, 3, 1, 9, 0, 0, 0, Zone)
	got, err := ResolveDate("yesterday", ref)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-28", got.String())
}

func TestReferenceOn(t *testing.T) {
	ref, err := ReferenceOn("2026-02-01", refTime)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 1, 10, 30, 0, 0, Zone), ref)

	for _, bad := range []string{"2026-02-30", "02/01/2026", "yesterday", ""} {
		_, err := ReferenceOn(bad, refTime)
		assert.True(t, IsKind(err, InvalidDate), bad)
	}
}
