package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/hammamikhairi/ottofit/internal/domain"
)

// WriteOutline prints the parsed workout with the 1-based coordinates each
// exercise can be resumed from (SET.EXERCISE, or SET/REP.EXERCISE for a
// later repetition).
func WriteOutline(out io.Writer, w *domain.Workout) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", w)

	for si := range w.Sections {
		s := &w.Sections[si]
		fmt.Fprintf(&b, "\n%d  %s", si+1, s)
		if s.SetRest > 0 {
			fmt.Fprintf(&b, "  (set rest %s)", s.SetRest)
		}
		b.WriteByte('\n')

		ex := 0
		for _, p := range s.Parts {
			if p.Kind == domain.ElementRest {
				fmt.Fprintf(&b, "          rest %s\n", p.RestDuration)
				continue
			}
			ex++
			pos := fmt.Sprintf("%d.%d", si+1, ex)
			mid := ""
			if p.Amount.Kind == domain.AmountTime && p.Amount.MidBeep {
				mid = " (midpoint cue)"
			}
			fmt.Fprintf(&b, "   %-6s %s %s%s\n", pos, p.Name, p.Amount, mid)
		}
		if len(s.Parts) == 0 {
			b.WriteString("          (empty)\n")
		}
	}

	_, err := io.WriteString(out, b.String())
	return err
}
