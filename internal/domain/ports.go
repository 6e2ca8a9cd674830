package domain

import (
	"context"
	"time"
)

// Beeper plays an audible cue. Implementations must not block: the player
// calls Beep on its own goroutine and stalls for as long as Beep does.
type Beeper interface {
	Beep(level BeepLevel)
}

// BeepFunc adapts a plain function to the Beeper interface.
type BeepFunc func(level BeepLevel)

// Beep calls f(level).
func (f BeepFunc) Beep(level BeepLevel) { f(level) }

// Clock performs the blocking waits that pace a workout. Tests substitute
// an instantaneous clock.
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// Confirmer blocks until the operator confirms a rep-based exercise is done.
type Confirmer interface {
	Confirm(ctx context.Context) error
}

// ProgressSink receives narration events from the player. Implementations
// can print to a terminal, record events for tests, or drop them.
type ProgressSink interface {
	WorkoutStarted(w *Workout)
	ResumingFrom(w *Workout, pos StartPosition)
	SectionStarted(s *WorkoutSet)
	RepetitionStarted(s *WorkoutSet, rep int)
	ElementStarted(e Element)
	NextUp(name string)
	Midpoint()
	SetRest(d time.Duration)
	RestWarning(left time.Duration)
	WorkoutCompleted(w *Workout)
}
