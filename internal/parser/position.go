package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hammamikhairi/ottofit/internal/domain"
)

// ParseStartPosition parses the CLI resume argument SET[/SET_REP].EXERCISE.
// Each component is 1-based and converted to 0-based with a saturating
// decrement, so "0" and "" both mean the first one.
func ParseStartPosition(s string) (domain.StartPosition, error) {
	set, exercise, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok {
		return domain.StartPosition{}, fmt.Errorf("%w: %q", domain.ErrBadStartPosition, s)
	}

	var pos domain.StartPosition
	var err error

	if seti, rep, hasRep := strings.Cut(set, "/"); hasRep {
		set = seti
		if pos.SetRep, err = positionIndex(rep); err != nil {
			return domain.StartPosition{}, fmt.Errorf("%w: set repetition %q", domain.ErrBadStartPosition, rep)
		}
	}
	if pos.Set, err = positionIndex(set); err != nil {
		return domain.StartPosition{}, fmt.Errorf("%w: set %q", domain.ErrBadStartPosition, set)
	}
	if pos.Exercise, err = positionIndex(exercise); err != nil {
		return domain.StartPosition{}, fmt.Errorf("%w: exercise %q", domain.ErrBadStartPosition, exercise)
	}

	return pos, nil
}

func positionIndex(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	return int(n) - 1, nil
}
