// Package parser reads the plain-text workout format into a domain.Workout.
//
// The format is line oriented and driven by line prefixes:
//
//	Workout <name>
//	Set [<name>] [x<reps>]
//	Exercise <name> <MM:SS>["] | Exercise <name> x<reps>
//	Rest <MM:SS>
//	Set rest <MM:SS>
//
// Blank lines and leading indentation are ignored everywhere.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hammamikhairi/ottofit/internal/domain"
	"github.com/hammamikhairi/ottofit/internal/logger"
)

// Error reports a parse failure on a specific source line. It unwraps to one
// of the domain parse sentinels.
type Error struct {
	Line int    // 1-based line number in the source text
	Text string // the offending line, trimmed
	Err  error
}

func (e *Error) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %v (%q)", e.Line, e.Err, e.Text)
}

func (e *Error) Unwrap() error { return e.Err }

// Option configures the parser.
type Option func(*Parser)

// WithStrictSetRest makes an unparsable "Set rest" duration a hard error.
// By default such a line is not a set rest and starts the next set instead.
func WithStrictSetRest(strict bool) Option {
	return func(p *Parser) {
		p.strictSetRest = strict
	}
}

// Parser converts workout source text into a domain.Workout.
type Parser struct {
	log           *logger.Logger
	strictSetRest bool
}

// New creates a workout parser.
func New(log *logger.Logger, opts ...Option) *Parser {
	p := &Parser{log: log}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// repsToken matches "x<integer>".
var repsToken = regexp.MustCompile(`^x(\d+)$`)

// Element keywords. "Excercise" is the spelling older workout files use.
var exerciseKeywords = map[string]bool{
	"Exercise":  true,
	"Excercise": true,
}

const setRestPrefix = "Set rest "

type sourceLine struct {
	num  int
	text string
}

// Parse builds a Workout from source text. No partial workout is returned
// on error.
func (p *Parser) Parse(text string) (*domain.Workout, error) {
	lines := nonBlankLines(text)
	if len(lines) == 0 {
		return nil, &Error{Line: 1, Err: domain.ErrMissingWorkoutName}
	}

	name, ok := strings.CutPrefix(lines[0].text, "Workout ")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return nil, &Error{Line: lines[0].num, Text: lines[0].text, Err: domain.ErrMissingWorkoutName}
	}

	w := &domain.Workout{Name: name}

	i := 1
	for i < len(lines) {
		set, err := parseSetHeader(lines[i])
		if err != nil {
			return nil, err
		}
		i++

		for i < len(lines) {
			elem, ok, err := parseElement(lines[i])
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			set.Parts = append(set.Parts, elem)
			i++
		}

		if i < len(lines) {
			if raw, ok := strings.CutPrefix(lines[i].text, setRestPrefix); ok {
				d, err := ParseDuration(strings.TrimSpace(raw))
				switch {
				case err == nil:
					set.SetRest = d
					i++
				case p.strictSetRest:
					return nil, &Error{Line: lines[i].num, Text: lines[i].text, Err: err}
				default:
					// Not a set rest; the line is re-read as the next set header.
					p.log.Debug("parser: line %d: no set rest (%v)", lines[i].num, err)
				}
			}
		}

		p.log.Debug("parser: set %s (%d parts, rest=%s)", set.String(), len(set.Parts), set.SetRest)
		w.Sections = append(w.Sections, set)
	}

	if len(w.Sections) == 0 {
		return nil, &Error{Line: lines[0].num, Text: lines[0].text, Err: domain.ErrNoSections}
	}

	p.log.Info("parsed workout %s with %d sets", w.String(), len(w.Sections))
	return w, nil
}

// nonBlankLines splits text into trimmed, non-empty lines, keeping the
// original line numbers for error messages.
func nonBlankLines(text string) []sourceLine {
	var out []sourceLine
	for n, l := range strings.Split(text, "\n") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		out = append(out, sourceLine{num: n + 1, text: l})
	}
	return out
}

// parseSetHeader parses "Set[ <name>][ x<N>]". A trailing token that is not
// a valid rep count is treated as part of the name.
func parseSetHeader(l sourceLine) (domain.WorkoutSet, error) {
	rest, ok := strings.CutPrefix(l.text, "Set")
	if !ok || (rest != "" && rest[0] != ' ' && rest[0] != '\t') {
		return domain.WorkoutSet{}, &Error{Line: l.num, Text: l.text, Err: domain.ErrExpectedSet}
	}

	rest = strings.TrimSpace(rest)
	set := domain.WorkoutSet{Reps: 1}
	if rest == "" {
		return set, nil
	}

	if n, ok := setReps(rest); ok {
		set.Reps = n
		return set, nil
	}

	if idx := strings.LastIndexAny(rest, " \t"); idx >= 0 {
		if n, ok := setReps(rest[idx+1:]); ok {
			set.Name = strings.TrimSpace(rest[:idx])
			set.Reps = n
			return set, nil
		}
	}

	set.Name = rest
	return set, nil
}

// setReps reports whether tok is a usable set repetition count.
func setReps(tok string) (int, bool) {
	m := repsToken.FindStringSubmatch(tok)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseUint(m[1], 10, 16)
	if err != nil || n == 0 {
		return 0, false
	}
	return int(n), true
}

// parseElement parses one Exercise or Rest line. ok is false when the line
// is not an element at all, which ends the current set's element list.
func parseElement(l sourceLine) (elem domain.Element, ok bool, err error) {
	keyword, rest, found := strings.Cut(l.text, " ")
	if !found {
		return domain.Element{}, false, nil
	}
	rest = strings.TrimSpace(rest)

	switch {
	case exerciseKeywords[keyword]:
		idx := strings.LastIndexAny(rest, " \t")
		if idx < 0 {
			return domain.Element{}, false, &Error{Line: l.num, Text: l.text, Err: domain.ErrMissingAmount}
		}
		name := strings.TrimSpace(rest[:idx])
		amount, err := parseAmount(rest[idx+1:])
		if err != nil {
			return domain.Element{}, false, &Error{Line: l.num, Text: l.text, Err: err}
		}
		return domain.Exercise(name, amount), true, nil

	case keyword == "Rest":
		d, err := ParseDuration(rest)
		if err != nil {
			return domain.Element{}, false, &Error{Line: l.num, Text: l.text, Err: err}
		}
		return domain.Rest(d), true, nil

	default:
		return domain.Element{}, false, nil
	}
}

// parseAmount parses "x<reps>" or "MM:SS" with an optional trailing `"`
// that enables the midpoint cue.
func parseAmount(tok string) (domain.Amount, error) {
	if reps, ok := strings.CutPrefix(tok, "x"); ok {
		n, err := strconv.ParseUint(reps, 10, 16)
		if err != nil {
			return domain.Amount{}, fmt.Errorf("%w: %q", domain.ErrBadReps, tok)
		}
		return domain.Reps(int(n)), nil
	}

	d, err := ParseDuration(tok)
	if err != nil {
		return domain.Amount{}, err
	}
	return domain.Timed(d, strings.HasSuffix(tok, `"`)), nil
}

// ParseDuration parses a fixed-width MM:SS token. Only the first five
// characters are read, so suffixes such as the midpoint marker are ignored.
func ParseDuration(tok string) (time.Duration, error) {
	if len(tok) < 5 {
		return 0, fmt.Errorf("%w: %q", domain.ErrMalformedDurationToken, tok)
	}
	if tok[2] != ':' {
		return 0, fmt.Errorf("%w: %q", domain.ErrBadDuration, tok)
	}

	mins, err := strconv.ParseUint(tok[0:2], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: minutes in %q", domain.ErrBadDuration, tok)
	}
	secs, err := strconv.ParseUint(tok[3:5], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: seconds in %q", domain.ErrBadDuration, tok)
	}

	return time.Duration(mins*60+secs) * time.Second, nil
}
