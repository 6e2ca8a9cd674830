// Package domain defines the workout model and the interfaces the player
// depends on. All other packages depend on domain; domain depends on nothing.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Workout is a named, ordered sequence of sections. Built once by the parser
// and read-only afterwards.
type Workout struct {
	Name     string
	Sections []WorkoutSet
}

// Length estimates the total workout duration. Rep-based exercises are
// untimed and count as zero.
func (w *Workout) Length() time.Duration {
	var total time.Duration
	for i := range w.Sections {
		total += w.Sections[i].Length()
	}
	return total
}

// String renders the workout as "name [~12.5 mins]".
func (w *Workout) String() string {
	return fmt.Sprintf("%s [~%.1f mins]", w.Name, w.Length().Minutes())
}

// WorkoutSet is one repeatable block of elements ("Set" in workout files).
type WorkoutSet struct {
	Name    string // empty when the set is unnamed
	Reps    int    // always >= 1
	Parts   []Element
	SetRest time.Duration // rest between repetitions, 0 = none
}

// Length returns set_rest*(reps-1) + parts*reps.
func (s *WorkoutSet) Length() time.Duration {
	var parts time.Duration
	for _, p := range s.Parts {
		parts += p.Duration()
	}
	reps := time.Duration(s.Reps)
	if reps < 1 {
		return 0
	}
	return s.SetRest*(reps-1) + parts*reps
}

// DisplayName returns the set name, or "[UNKNOWN]" for unnamed sets.
func (s *WorkoutSet) DisplayName() string {
	if s.Name == "" {
		return "[UNKNOWN]"
	}
	return s.Name
}

// ExerciseCount returns how many exercise elements the set contains.
// Rests are not counted.
func (s *WorkoutSet) ExerciseCount() int {
	n := 0
	for _, p := range s.Parts {
		if p.Kind == ElementExercise {
			n++
		}
	}
	return n
}

// ExerciseIndex maps the n-th exercise (0-based, rests skipped) to its index
// in Parts. Returns false when the set has fewer than n+1 exercises.
func (s *WorkoutSet) ExerciseIndex(n int) (int, bool) {
	if n < 0 {
		return 0, false
	}
	left := n + 1
	for i, p := range s.Parts {
		if p.Kind != ElementExercise {
			continue
		}
		left--
		if left == 0 {
			return i, true
		}
	}
	return 0, false
}

func (s *WorkoutSet) String() string {
	if s.Reps > 1 {
		return fmt.Sprintf("%s x%d", s.DisplayName(), s.Reps)
	}
	return s.DisplayName()
}

// ElementKind tags an Element as an exercise or a rest.
type ElementKind int

const (
	ElementExercise ElementKind = iota
	ElementRest
)

// String returns a human-readable element kind.
func (k ElementKind) String() string {
	switch k {
	case ElementExercise:
		return "exercise"
	case ElementRest:
		return "rest"
	default:
		return "unknown"
	}
}

// Element is an exercise or a rest inside a set. Name and Amount are only
// meaningful for exercises, RestDuration only for rests.
type Element struct {
	Kind         ElementKind
	Name         string
	Amount       Amount
	RestDuration time.Duration
}

// Exercise builds an exercise element.
func Exercise(name string, amount Amount) Element {
	return Element{Kind: ElementExercise, Name: name, Amount: amount}
}

// Rest builds a rest element.
func Rest(d time.Duration) Element {
	return Element{Kind: ElementRest, RestDuration: d}
}

// Duration is the time the element takes: the rest length, the hold time of
// a timed exercise, or zero for a rep-based exercise.
func (e Element) Duration() time.Duration {
	if e.Kind == ElementRest {
		return e.RestDuration
	}
	if e.Amount.Kind == AmountTime {
		return e.Amount.Duration
	}
	return 0
}

func (e Element) String() string {
	if e.Kind == ElementRest {
		return fmt.Sprintf("[REST]: %s", e.RestDuration)
	}
	return fmt.Sprintf("[EXERCISE]: %s %s", e.Name, e.Amount)
}

// AmountKind tags an exercise Amount as timed or rep-counted.
type AmountKind int

const (
	AmountTime AmountKind = iota
	AmountReps
)

// Amount is how much of an exercise to do: a timed hold (optionally with a
// midpoint cue) or a rep count confirmed by the operator.
type Amount struct {
	Kind     AmountKind
	Duration time.Duration
	MidBeep  bool
	Reps     int
}

// Timed returns a time-based amount.
func Timed(d time.Duration, midBeep bool) Amount {
	return Amount{Kind: AmountTime, Duration: d, MidBeep: midBeep}
}

// Reps returns a rep-based amount.
func Reps(n int) Amount {
	return Amount{Kind: AmountReps, Reps: n}
}

func (a Amount) String() string {
	if a.Kind == AmountReps {
		return fmt.Sprintf("x%d", a.Reps)
	}
	return a.Duration.String()
}

// BeepLevel is the severity of an audible cue.
type BeepLevel int

const (
	BeepHigh BeepLevel = iota
	BeepMid
	BeepLow
)

// BeepLevels lists every level, highest pitch first.
var BeepLevels = []BeepLevel{BeepHigh, BeepMid, BeepLow}

// Frequency returns the tone pitch in Hz.
func (l BeepLevel) Frequency() float64 {
	switch l {
	case BeepHigh:
		return 750
	case BeepMid:
		return 600
	default:
		return 450
	}
}

// String returns a human-readable beep level.
func (l BeepLevel) String() string {
	switch l {
	case BeepHigh:
		return "high"
	case BeepMid:
		return "mid"
	case BeepLow:
		return "low"
	default:
		return "unknown"
	}
}

// StartPosition is a zero-based (section, repetition, exercise) triple used
// to resume a workout partway through. The zero value starts from the top.
type StartPosition struct {
	Set      int
	SetRep   int
	Exercise int
}

// IsZero reports whether the position is the beginning of the workout.
func (p StartPosition) IsZero() bool {
	return p == StartPosition{}
}

// String renders the position in the 1-based CLI form SET/SET_REP.EXERCISE.
func (p StartPosition) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", p.Set+1)
	if p.SetRep != 0 {
		fmt.Fprintf(&b, "/%d", p.SetRep+1)
	}
	fmt.Fprintf(&b, ".%d", p.Exercise+1)
	return b.String()
}
