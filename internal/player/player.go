// Package player walks a parsed workout in real time: it sleeps for the
// prescribed durations, narrates progress through a ProgressSink and cues
// transitions through a Beeper.
package player

import (
	"context"
	"fmt"
	"time"

	"github.com/hammamikhairi/ottofit/internal/domain"
	"github.com/hammamikhairi/ottofit/internal/logger"
	"github.com/hammamikhairi/ottofit/internal/timer"
)

// Default timings.
const (
	DefaultLeadIn         = 6 * time.Second
	DefaultPreSectionWait = 2 * time.Second
	DefaultWarningWindow  = 5 * time.Second
	DefaultFinishPause    = 2 * time.Second
)

// Option configures the player.
type Option func(*Player)

// WithClock replaces the wall clock, typically with timer.Recorder in tests.
func WithClock(c domain.Clock) Option {
	return func(p *Player) {
		p.clock = c
	}
}

// WithLeadIn sets the wait after the first visited section's header,
// before its first repetition begins.
func WithLeadIn(d time.Duration) Option {
	return func(p *Player) {
		p.leadIn = d
	}
}

// WithPreSectionWait sets the pause after the double beep that opens every
// repetition. It is also deducted from inter-repetition set rests.
func WithPreSectionWait(d time.Duration) Option {
	return func(p *Player) {
		p.preSectionWait = d
	}
}

// WithWarningWindow sets how long before the end of a rest the warning
// beep sounds.
func WithWarningWindow(d time.Duration) Option {
	return func(p *Player) {
		p.warningWindow = d
	}
}

// WithFinishPause sets the pauses around the closing fanfare.
func WithFinishPause(d time.Duration) Option {
	return func(p *Player) {
		p.finishPause = d
	}
}

// Player drives workout playback. It is single-threaded: every wait, beep
// and confirmation happens on the goroutine that calls Play.
type Player struct {
	beeper    domain.Beeper
	sink      domain.ProgressSink
	confirmer domain.Confirmer
	clock     domain.Clock
	log       *logger.Logger

	leadIn         time.Duration
	preSectionWait time.Duration
	warningWindow  time.Duration
	finishPause    time.Duration
}

// New creates a player with the given collaborators and options.
func New(beeper domain.Beeper, sink domain.ProgressSink, confirmer domain.Confirmer, log *logger.Logger, opts ...Option) *Player {
	p := &Player{
		beeper:         beeper,
		sink:           sink,
		confirmer:      confirmer,
		clock:          timer.NewReal(),
		log:            log,
		leadIn:         DefaultLeadIn,
		preSectionWait: DefaultPreSectionWait,
		warningWindow:  DefaultWarningWindow,
		finishPause:    DefaultFinishPause,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// cursor tracks where playback resumes. It is consumed by the first
// repetition visited and never re-armed.
type cursor struct {
	first   bool
	rep     int
	element int
}

// Play runs the workout from start, blocking until it completes or fails.
// The zero StartPosition plays from the beginning.
func (p *Player) Play(ctx context.Context, w *domain.Workout, start domain.StartPosition) error {
	if w == nil || len(w.Sections) == 0 {
		return domain.ErrNoSections
	}

	resume, err := resolveStart(w, start)
	if err != nil {
		return err
	}

	p.log.Info("playing %s from %s", w.String(), start.String())
	p.sink.WorkoutStarted(w)
	p.beep(domain.BeepHigh, domain.BeepMid, domain.BeepLow)

	if !start.IsZero() {
		p.sink.ResumingFrom(w, start)
	}

	cur := cursor{first: true, rep: start.SetRep, element: resume}
	for si := start.Set; si < len(w.Sections); si++ {
		if err := p.playSection(ctx, &w.Sections[si], &cur); err != nil {
			return fmt.Errorf("set %d (%s): %w", si+1, w.Sections[si].DisplayName(), err)
		}
	}

	p.sink.WorkoutCompleted(w)
	if err := p.clock.Sleep(ctx, p.finishPause); err != nil {
		return err
	}
	p.beep(domain.BeepLow, domain.BeepMid, domain.BeepHigh)
	if err := p.clock.Sleep(ctx, p.finishPause); err != nil {
		return err
	}

	p.log.Info("workout %s complete", w.Name)
	return nil
}

// resolveStart validates a resume position and returns the index in Parts
// of the exercise to resume at. The zero position always resumes at 0.
func resolveStart(w *domain.Workout, start domain.StartPosition) (int, error) {
	if start.IsZero() {
		return 0, nil
	}

	if start.Set < 0 || start.Set >= len(w.Sections) {
		return 0, fmt.Errorf("%w: set %d of %d", domain.ErrStartPositionOutOfBounds, start.Set+1, len(w.Sections))
	}
	s := &w.Sections[start.Set]
	if start.SetRep < 0 || start.SetRep >= s.Reps {
		return 0, fmt.Errorf("%w: repetition %d of %d", domain.ErrStartPositionOutOfBounds, start.SetRep+1, s.Reps)
	}
	idx, ok := s.ExerciseIndex(start.Exercise)
	if !ok {
		return 0, fmt.Errorf("%w: exercise %d of %d", domain.ErrStartPositionOutOfBounds, start.Exercise+1, s.ExerciseCount())
	}
	return idx, nil
}

func (p *Player) playSection(ctx context.Context, s *domain.WorkoutSet, cur *cursor) error {
	p.sink.SectionStarted(s)

	firstRep := 0
	if cur.first {
		if err := p.clock.Sleep(ctx, p.leadIn); err != nil {
			return err
		}
		firstRep = cur.rep
	}

	for rep := firstRep; rep < s.Reps; rep++ {
		if rep > 0 {
			p.sink.RepetitionStarted(s, rep)
		}

		p.beep(domain.BeepMid, domain.BeepMid)
		if err := p.clock.Sleep(ctx, p.preSectionWait); err != nil {
			return err
		}

		firstElem := 0
		if cur.first {
			cur.first = false
			firstElem = cur.element
		}

		for ei := firstElem; ei < len(s.Parts); ei++ {
			if err := p.playElement(ctx, s, ei); err != nil {
				return err
			}
		}

		if rep < s.Reps-1 && s.SetRest > 0 {
			p.sink.SetRest(s.SetRest)
			if err := p.rest(ctx, saturatingSub(s.SetRest, p.preSectionWait)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Player) playElement(ctx context.Context, s *domain.WorkoutSet, idx int) error {
	e := s.Parts[idx]
	p.sink.ElementStarted(e)
	p.log.Debug("element %d: %s", idx, e.String())

	if e.Kind == domain.ElementRest {
		if idx+1 < len(s.Parts) && s.Parts[idx+1].Kind == domain.ElementExercise {
			p.sink.NextUp(s.Parts[idx+1].Name)
		}
		return p.rest(ctx, e.RestDuration)
	}

	p.beep(domain.BeepHigh)

	if e.Amount.Kind == domain.AmountReps {
		if err := p.confirmer.Confirm(ctx); err != nil {
			return fmt.Errorf("waiting for confirmation: %w", err)
		}
		return nil
	}

	if e.Amount.MidBeep {
		half := e.Amount.Duration / 2
		if err := p.clock.Sleep(ctx, half); err != nil {
			return err
		}
		p.sink.Midpoint()
		p.beep(domain.BeepMid)
		if err := p.clock.Sleep(ctx, e.Amount.Duration-half); err != nil {
			return err
		}
	} else if err := p.clock.Sleep(ctx, e.Amount.Duration); err != nil {
		return err
	}

	p.beep(domain.BeepLow)
	return nil
}

// rest sleeps for total, sounding a warning beep when only the warning
// window is left. Rests no longer than the window get no warning.
func (p *Player) rest(ctx context.Context, total time.Duration) error {
	if total <= p.warningWindow {
		return p.clock.Sleep(ctx, total)
	}

	if err := p.clock.Sleep(ctx, total-p.warningWindow); err != nil {
		return err
	}
	p.sink.RestWarning(p.warningWindow)
	p.beep(domain.BeepMid)
	return p.clock.Sleep(ctx, p.warningWindow)
}

func (p *Player) beep(levels ...domain.BeepLevel) {
	for _, l := range levels {
		p.beeper.Beep(l)
	}
}

func saturatingSub(a, b time.Duration) time.Duration {
	if a <= b {
		return 0
	}
	return a - b
}
