package domain

import "errors"

// Parse errors.
var (
	ErrMissingWorkoutName     = errors.New("missing workout name")
	ErrExpectedSet            = errors.New("expected start of set")
	ErrMissingAmount          = errors.New("no amount provided for exercise")
	ErrBadDuration            = errors.New("bad duration")
	ErrMalformedDurationToken = errors.New("malformed duration token, want MM:SS")
	ErrBadReps                = errors.New("bad rep count")
	ErrNoSections             = errors.New("workout has no sets")
)

// Playback errors.
var (
	ErrBadStartPosition         = errors.New("starting position format: SET[/SET_REP].EXERCISE")
	ErrStartPositionOutOfBounds = errors.New("starting position is out of bounds")
)
