package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/claude/workoutlog/internal/exercises"
)

// Type tags the variant of a stored record.
type Type string

const (
	TypeStrength   Type = "strength"
	TypeBodyweight Type = "bodyweight"
	TypeMachine    Type = "machine"
	TypeCardio     Type = "cardio"
	TypeNote       Type = "note"
)

// WeightUnit is the only unit weights are recorded in.
const WeightUnit = "lb"

// Set is one block of repetitions. A failed set always has zero reps.
type Set struct {
	Weight *float64 `json:"weight,omitempty"`
	Reps   int      `json:"reps"`
	Failed bool     `json:"failed"`
}

// RepSet is a completed set without weight.
func RepSet(reps int) Set {
	return Set{Reps: reps}
}

// WeightedSet is a completed set at the given weight.
func WeightedSet(weight float64, reps int) Set {
	return Set{Weight: &weight, Reps: reps}
}

// FailedSet is a failed attempt, optionally at a weight.
func FailedSet(weight *float64) Set {
	if weight != nil {
		w := *weight
		weight = &w
	}
	return Set{Weight: weight, Failed: true}
}

// Detail holds the variant-specific part of a record.
type Detail interface {
	Type() Type
}

// Lift is the strength, bodyweight and machine variant.
type Lift struct {
	Category exercises.Category
	Exercise string
	Sets     []Set
}

func (l *Lift) Type() Type { return Type(l.Category) }

// Unit returns WeightUnit when any set carries a weight, "" otherwise.
func (l *Lift) Unit() string {
	for _, s := range l.Sets {
		if s.Weight != nil {
			return WeightUnit
		}
	}
	return ""
}

// Cardio is the cardio variant. Every attribute is optional.
type Cardio struct {
	Modality       string
	DurationMin    *float64
	SpeedMPH       *float64
	InclinePercent *float64
	DistanceMiles  *float64
}

func (c *Cardio) Type() Type { return TypeCardio }

// Note is a free-text entry; its text lives in Record.Notes.
type Note struct{}

func (*Note) Type() Type { return TypeNote }

// Record is one parsed log entry, written once and never mutated.
type Record struct {
	Timestamp Timestamp
	Source    string
	Raw       string
	Notes     string
	RPE       int // 1-10, zero when absent
	Detail    Detail
}

// Type returns the variant tag.
func (r *Record) Type() Type {
	return r.Detail.Type()
}

// Name returns the exercise or modality identifier, or "" for notes.
func (r *Record) Name() string {
	switch d := r.Detail.(type) {
	case *Lift:
		return d.Exercise
	case *Cardio:
		return d.Modality
	}
	return ""
}

// Validate checks the invariants a stored record must hold.
func (r *Record) Validate() error {
	if r.Detail == nil {
		return errors.New("record has no detail")
	}
	if r.RPE < 0 || r.RPE > 10 {
		return fmt.Errorf("rpe %d out of range 1-10", r.RPE)
	}

	switch d := r.Detail.(type) {
	case *Lift:
		cat, ok := exercises.Classify(d.Exercise)
		if !ok {
			return fmt.Errorf("unknown exercise %q", d.Exercise)
		}
		if cat != d.Category {
			return fmt.Errorf("exercise %q is %s, record says %s", d.Exercise, cat, d.Category)
		}
		for i, s := range d.Sets {
			if s.Failed && s.Reps != 0 {
				return fmt.Errorf("set %d: failed set has %d reps", i+1, s.Reps)
			}
			if s.Reps < 0 {
				return fmt.Errorf("set %d: negative reps", i+1)
			}
		}
	case *Cardio:
		cat, ok := exercises.Classify(d.Modality)
		if !ok || cat != exercises.Cardio {
			return fmt.Errorf("unknown cardio modality %q", d.Modality)
		}
	case *Note:
	default:
		return fmt.Errorf("unsupported detail %T", d)
	}
	return nil
}

// wireRecord is the flat JSONL shape of a record.
type wireRecord struct {
	TS             Timestamp `json:"ts"`
	Type           Type      `json:"type"`
	Exercise       string    `json:"exercise,omitempty"`
	Modality       string    `json:"modality,omitempty"`
	Unit           string    `json:"unit,omitempty"`
	Sets           *[]Set    `json:"sets,omitempty"`
	DurationMin    *float64  `json:"duration_min,omitempty"`
	SpeedMPH       *float64  `json:"speed_mph,omitempty"`
	InclinePercent *float64  `json:"incline_percent,omitempty"`
	DistanceMiles  *float64  `json:"distance_miles,omitempty"`
	RPE            int       `json:"rpe,omitempty"`
	Notes          *string   `json:"notes,omitempty"`
	Source         string    `json:"source"`
	Raw            string    `json:"raw"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	if r.Detail == nil {
		return nil, errors.New("marshaling record: no detail")
	}
	w := wireRecord{
		TS:     r.Timestamp,
		Type:   r.Detail.Type(),
		RPE:    r.RPE,
		Source: r.Source,
		Raw:    r.Raw,
	}
	if r.Notes != "" {
		notes := r.Notes
		w.Notes = &notes
	}

	switch d := r.Detail.(type) {
	case *Lift:
		sets := d.Sets
		if sets == nil {
			sets = []Set{}
		}
		w.Exercise = d.Exercise
		w.Unit = d.Unit()
		w.Sets = &sets
	case *Cardio:
		w.Modality = d.Modality
		w.DurationMin = d.DurationMin
		w.SpeedMPH = d.SpeedMPH
		w.InclinePercent = d.InclinePercent
		w.DistanceMiles = d.DistanceMiles
	case *Note:
		notes := r.Notes
		w.Notes = &notes
	}
	return json.Marshal(w)
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	rec := Record{
		Timestamp: w.TS,
		Source:    w.Source,
		Raw:       w.Raw,
		RPE:       w.RPE,
	}
	if w.Notes != nil {
		rec.Notes = *w.Notes
	}

	switch w.Type {
	case TypeStrength, TypeBodyweight, TypeMachine:
		if w.Exercise == "" {
			return fmt.Errorf("%s record without exercise", w.Type)
		}
		lift := &Lift{Category: exercises.Category(w.Type), Exercise: w.Exercise, Sets: []Set{}}
		if w.Sets != nil {
			lift.Sets = *w.Sets
		}
		rec.Detail = lift
	case TypeCardio:
		if w.Modality == "" {
			return errors.New("cardio record without modality")
		}
		rec.Detail = &Cardio{
			Modality:       w.Modality,
			DurationMin:    w.DurationMin,
			SpeedMPH:       w.SpeedMPH,
			InclinePercent: w.InclinePercent,
			DistanceMiles:  w.DistanceMiles,
		}
	case TypeNote:
		rec.Detail = &Note{}
	default:
		return fmt.Errorf("unknown record type %q", w.Type)
	}

	*r = rec
	return nil
}
