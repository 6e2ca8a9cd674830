package display

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteOutline(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutline(&buf, testWorkout()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Evening [~",
		"1  Warmup",
		"1.1    Jacks 30s",
		"2  Core x3  (set rest 1m0s)",
		"2.1    Plank 1m0s (midpoint cue)",
		"rest 15s",
		"2.2    Crunches x20",
		"3  [UNKNOWN]",
		"rest 5s",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("outline missing %q\n%s", want, out)
		}
	}
}
