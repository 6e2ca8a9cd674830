package player

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/hammamikhairi/ottofit/internal/domain"
	"github.com/hammamikhairi/ottofit/internal/logger"
	"github.com/hammamikhairi/ottofit/internal/parser"
	"github.com/hammamikhairi/ottofit/internal/timer"
)

// eventLog records beeps, sleeps, confirmations and narration in order.
type eventLog struct {
	events []string
}

func (l *eventLog) add(format string, args ...any) {
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

// filter returns the events that start with prefix.
func (l *eventLog) filter(prefix string) []string {
	var out []string
	for _, e := range l.events {
		if strings.HasPrefix(e, prefix) {
			out = append(out, e)
		}
	}
	return out
}

// recordingSink implements domain.ProgressSink on top of an eventLog.
type recordingSink struct{ log *eventLog }

func (s recordingSink) WorkoutStarted(w *domain.Workout) { s.log.add("start %s", w.Name) }
func (s recordingSink) ResumingFrom(_ *domain.Workout, pos domain.StartPosition) {
	s.log.add("resume %s", pos)
}
func (s recordingSink) SectionStarted(set *domain.WorkoutSet) { s.log.add("section %s", set) }
func (s recordingSink) RepetitionStarted(_ *domain.WorkoutSet, rep int) {
	s.log.add("repetition %d", rep+1)
}
func (s recordingSink) ElementStarted(e domain.Element) { s.log.add("element %s", e) }
func (s recordingSink) NextUp(name string)             { s.log.add("next %s", name) }
func (s recordingSink) Midpoint()                      { s.log.add("midpoint") }
func (s recordingSink) SetRest(d time.Duration)        { s.log.add("set-rest %s", d) }
func (s recordingSink) RestWarning(left time.Duration) { s.log.add("warning %s", left) }
func (s recordingSink) WorkoutCompleted(w *domain.Workout) {
	s.log.add("done %s", w.Name)
}

type fakeConfirmer struct {
	log *eventLog
	err error
}

func (c *fakeConfirmer) Confirm(context.Context) error {
	c.log.add("confirm")
	return c.err
}

type harness struct {
	log       *eventLog
	clock     *timer.Recorder
	confirmer *fakeConfirmer
	player    *Player
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{log: &eventLog{}, clock: timer.NewRecorder()}
	h.clock.OnSleep = func(d time.Duration) { h.log.add("sleep %s", d) }
	h.confirmer = &fakeConfirmer{log: h.log}

	beeper := domain.BeepFunc(func(level domain.BeepLevel) { h.log.add("beep %s", level) })
	all := append([]Option{WithClock(h.clock)}, opts...)
	h.player = New(beeper, recordingSink{h.log}, h.confirmer, logger.New(logger.LevelOff, nil), all...)
	return h
}

func sampleWorkout() *domain.Workout {
	return &domain.Workout{
		Name: "Sample",
		Sections: []domain.WorkoutSet{
			{
				Name: "Warmup",
				Reps: 1,
				Parts: []domain.Element{
					domain.Exercise("Jacks", domain.Timed(30*time.Second, false)),
				},
			},
			{
				Name: "Core",
				Reps: 2,
				Parts: []domain.Element{
					domain.Exercise("Plank", domain.Timed(40*time.Second, true)),
					domain.Rest(20 * time.Second),
					domain.Exercise("Crunches", domain.Reps(15)),
				},
				SetRest: 30 * time.Second,
			},
		},
	}
}

func TestPlayFullSequence(t *testing.T) {
	h := newHarness(t)
	if err := h.player.Play(context.Background(), sampleWorkout(), domain.StartPosition{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"start Sample",
		"beep high", "beep mid", "beep low",
		"section Warmup",
		"sleep 6s",
		"beep mid", "beep mid", "sleep 2s",
		"element [EXERCISE]: Jacks 30s",
		"beep high", "sleep 30s", "beep low",
		"section Core x2",
		"beep mid", "beep mid", "sleep 2s",
		"element [EXERCISE]: Plank 40s",
		"beep high", "sleep 20s", "midpoint", "beep mid", "sleep 20s", "beep low",
		"element [REST]: 20s",
		"next Crunches",
		"sleep 15s", "warning 5s", "beep mid", "sleep 5s",
		"element [EXERCISE]: Crunches x15",
		"beep high", "confirm",
		"set-rest 30s",
		"sleep 23s", "warning 5s", "beep mid", "sleep 5s",
		"repetition 2",
		"beep mid", "beep mid", "sleep 2s",
		"element [EXERCISE]: Plank 40s",
		"beep high", "sleep 20s", "midpoint", "beep mid", "sleep 20s", "beep low",
		"element [REST]: 20s",
		"next Crunches",
		"sleep 15s", "warning 5s", "beep mid", "sleep 5s",
		"element [EXERCISE]: Crunches x15",
		"beep high", "confirm",
		"done Sample",
		"sleep 2s",
		"beep low", "beep mid", "beep high",
		"sleep 2s",
	}

	if !reflect.DeepEqual(h.log.events, want) {
		t.Fatalf("event sequence mismatch\n got: %q\nwant: %q", h.log.events, want)
	}
}

func TestPlayZeroStartMatchesDefault(t *testing.T) {
	def := newHarness(t)
	if err := def.player.Play(context.Background(), sampleWorkout(), domain.StartPosition{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(def.log.filter("resume")) != 0 {
		t.Fatal("default start should not announce a resume point")
	}

	for _, arg := range []string{"1.1", "0.0", "1/1.1", "."} {
		t.Run(arg, func(t *testing.T) {
			start, err := parser.ParseStartPosition(arg)
			if err != nil {
				t.Fatalf("parsing %q: %v", arg, err)
			}

			h := newHarness(t)
			if err := h.player.Play(context.Background(), sampleWorkout(), start); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(def.log.events, h.log.events) {
				t.Fatalf("start %q played differently from the default start:\n got %v\nwant %v", arg, h.log.events, def.log.events)
			}
		})
	}
}

func TestPlayZeroStartWithLeadingRest(t *testing.T) {
	w := &domain.Workout{Name: "W", Sections: []domain.WorkoutSet{{
		Reps:  1,
		Parts: []domain.Element{domain.Rest(3 * time.Second)},
	}}}

	h := newHarness(t)
	if err := h.player.Play(context.Background(), w, domain.StartPosition{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := h.log.filter("element"); len(got) != 1 {
		t.Fatalf("elements played = %v", got)
	}
}

func TestPlayResumeSkipsEarlierExercises(t *testing.T) {
	h := newHarness(t)
	start := domain.StartPosition{Set: 1, SetRep: 0, Exercise: 1}
	if err := h.player.Play(context.Background(), sampleWorkout(), start); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := h.log.filter("resume"); !reflect.DeepEqual(got, []string{"resume 2.2"}) {
		t.Fatalf("resume events = %v", got)
	}
	if got := h.log.filter("section"); !reflect.DeepEqual(got, []string{"section Core x2"}) {
		t.Fatalf("sections = %v", got)
	}

	want := []string{
		// first repetition resumes at Crunches, skipping Plank and the rest
		"element [EXERCISE]: Crunches x15",
		// second repetition starts from the top
		"element [EXERCISE]: Plank 40s",
		"element [REST]: 20s",
		"element [EXERCISE]: Crunches x15",
	}
	if got := h.log.filter("element"); !reflect.DeepEqual(got, want) {
		t.Fatalf("elements = %q, want %q", got, want)
	}
}

func TestPlayResumeKeepsRestsAfterTarget(t *testing.T) {
	w := &domain.Workout{Name: "W", Sections: []domain.WorkoutSet{{
		Reps: 1,
		Parts: []domain.Element{
			domain.Rest(10 * time.Second),
			domain.Exercise("A", domain.Reps(5)),
			domain.Rest(10 * time.Second),
			domain.Exercise("B", domain.Reps(5)),
			domain.Rest(10 * time.Second),
		},
	}}}

	h := newHarness(t)
	if err := h.player.Play(context.Background(), w, domain.StartPosition{Exercise: 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Exercise 0 of a zero start is the top, including the leading rest.
	if n := len(h.log.filter("element")); n != 5 {
		t.Fatalf("elements played = %d, want 5", n)
	}

	h = newHarness(t)
	if err := h.player.Play(context.Background(), w, domain.StartPosition{Exercise: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"element [EXERCISE]: B x5", "element [REST]: 10s"}
	if got := h.log.filter("element"); !reflect.DeepEqual(got, want) {
		t.Fatalf("elements = %q, want %q", got, want)
	}
}

func TestPlayResumeLaterRepetition(t *testing.T) {
	h := newHarness(t)
	start := domain.StartPosition{Set: 1, SetRep: 1, Exercise: 0}
	if err := h.player.Play(context.Background(), sampleWorkout(), start); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := h.log.filter("repetition"); !reflect.DeepEqual(got, []string{"repetition 2"}) {
		t.Fatalf("repetitions = %v", got)
	}
	// Last repetition: no set rest afterwards.
	if got := h.log.filter("set-rest"); len(got) != 0 {
		t.Fatalf("unexpected set rest: %v", got)
	}
	if n := len(h.log.filter("element")); n != 3 {
		t.Fatalf("elements played = %d, want 3", n)
	}
}

func TestPlayResumeOutOfBounds(t *testing.T) {
	tests := []struct {
		name  string
		start domain.StartPosition
	}{
		{"set past end", domain.StartPosition{Set: 2}},
		{"repetition past end", domain.StartPosition{Set: 1, SetRep: 2}},
		{"exercise past end", domain.StartPosition{Set: 1, Exercise: 2}},
		{"exercise past end of single-exercise set", domain.StartPosition{Set: 0, Exercise: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			err := h.player.Play(context.Background(), sampleWorkout(), tt.start)
			if !errors.Is(err, domain.ErrStartPositionOutOfBounds) {
				t.Fatalf("expected ErrStartPositionOutOfBounds, got %v", err)
			}
			if len(h.log.events) != 0 {
				t.Fatalf("nothing should play on a bad start, got %v", h.log.events)
			}
		})
	}
}

func TestPlayResumeLastValidExercise(t *testing.T) {
	h := newHarness(t)
	err := h.player.Play(context.Background(), sampleWorkout(), domain.StartPosition{Set: 1, SetRep: 1, Exercise: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"element [EXERCISE]: Crunches x15"}
	if got := h.log.filter("element"); !reflect.DeepEqual(got, want) {
		t.Fatalf("elements = %q, want %q", got, want)
	}
}

func TestRestWithWarning(t *testing.T) {
	tests := []struct {
		name      string
		total     time.Duration
		wantSleep []time.Duration
		wantBeeps int
	}{
		{"shorter than window", 3 * time.Second, []time.Duration{3 * time.Second}, 0},
		{"equal to window", 5 * time.Second, []time.Duration{5 * time.Second}, 0},
		{"longer than window", 20 * time.Second, []time.Duration{15 * time.Second, 5 * time.Second}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if err := h.player.rest(context.Background(), tt.total); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := h.clock.Sleeps(); !reflect.DeepEqual(got, tt.wantSleep) {
				t.Fatalf("sleeps = %v, want %v", got, tt.wantSleep)
			}
			if got := h.log.filter("beep mid"); len(got) != tt.wantBeeps {
				t.Fatalf("mid beeps = %d, want %d", len(got), tt.wantBeeps)
			}
		})
	}
}

func TestSetRestShorterThanPreSectionWait(t *testing.T) {
	w := &domain.Workout{Name: "W", Sections: []domain.WorkoutSet{{
		Reps:    2,
		SetRest: time.Second,
	}}}

	h := newHarness(t, WithLeadIn(0), WithFinishPause(0))
	if err := h.player.Play(context.Background(), w, domain.StartPosition{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []time.Duration{0, 2 * time.Second, 0, 2 * time.Second, 0, 0}
	if got := h.clock.Sleeps(); !reflect.DeepEqual(got, want) {
		t.Fatalf("sleeps = %v, want %v", got, want)
	}
}

func TestPlayCustomTimings(t *testing.T) {
	w := &domain.Workout{Name: "W", Sections: []domain.WorkoutSet{{
		Reps:  1,
		Parts: []domain.Element{domain.Rest(10 * time.Second)},
	}}}

	h := newHarness(t,
		WithLeadIn(time.Second),
		WithPreSectionWait(3*time.Second),
		WithWarningWindow(4*time.Second),
		WithFinishPause(500*time.Millisecond),
	)
	if err := h.player.Play(context.Background(), w, domain.StartPosition{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []time.Duration{
		time.Second, 3 * time.Second, 6 * time.Second, 4 * time.Second,
		500 * time.Millisecond, 500 * time.Millisecond,
	}
	if got := h.clock.Sleeps(); !reflect.DeepEqual(got, want) {
		t.Fatalf("sleeps = %v, want %v", got, want)
	}
}

func TestPlayConfirmationError(t *testing.T) {
	h := newHarness(t)
	ioErr := errors.New("stdin closed")
	h.confirmer.err = ioErr

	err := h.player.Play(context.Background(), sampleWorkout(), domain.StartPosition{})
	if !errors.Is(err, ioErr) {
		t.Fatalf("expected confirmation error, got %v", err)
	}
	if len(h.log.filter("done")) != 0 {
		t.Fatal("workout should not complete after a confirmation failure")
	}
}

func TestPlayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := newHarness(t)
	h.clock.OnSleep = func(time.Duration) { cancel() }

	err := h.player.Play(ctx, sampleWorkout(), domain.StartPosition{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPlayRejectsEmptyWorkout(t *testing.T) {
	h := newHarness(t)
	err := h.player.Play(context.Background(), &domain.Workout{Name: "Empty"}, domain.StartPosition{})
	if !errors.Is(err, domain.ErrNoSections) {
		t.Fatalf("expected ErrNoSections, got %v", err)
	}
}

func TestPlayElapsedMatchesEstimate(t *testing.T) {
	w := sampleWorkout()
	h := newHarness(t, WithLeadIn(0), WithFinishPause(0))
	if err := h.player.Play(context.Background(), w, domain.StartPosition{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Each repetition adds the pre-section wait, and the set rest already
	// absorbs one of them, so only the first repetition of each set and
	// reps without a set rest add extra time.
	extra := 2*time.Second + 2*time.Second // warmup rep, first core rep
	if got, want := h.clock.Elapsed(), w.Length()+extra; got != want {
		t.Fatalf("elapsed = %s, want %s", got, want)
	}
}
