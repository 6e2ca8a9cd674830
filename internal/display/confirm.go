package display

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hammamikhairi/ottofit/internal/domain"
)

// Compile-time interface check.
var _ domain.Confirmer = (*LineConfirmer)(nil)

// LineConfirmer waits for the operator to press enter. While it blocks no
// timer advances; a rep-based exercise takes as long as it takes.
type LineConfirmer struct {
	in     *bufio.Reader
	out    io.Writer
	prompt string

	// pending holds the result of a read abandoned by a cancelled Confirm.
	// The next Confirm waits on it instead of starting a second read.
	pending chan readResult
}

type readResult struct {
	line string
	err  error
}

// NewLineConfirmer reads confirmations from in and prompts on out.
func NewLineConfirmer(in io.Reader, out io.Writer) *LineConfirmer {
	return &LineConfirmer{
		in:     bufio.NewReader(in),
		out:    out,
		prompt: "    Press enter to continue! ",
	}
}

// Confirm prompts and blocks until one line is read or ctx is done. A read
// interrupted by ctx keeps running in the background; it owns the reader
// until it returns.
func (c *LineConfirmer) Confirm(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fmt.Fprint(c.out, c.prompt)

	res := c.pending
	if res == nil {
		res = make(chan readResult, 1)
		go func() {
			line, err := c.in.ReadString('\n')
			res <- readResult{line: line, err: err}
		}()
	}

	select {
	case <-ctx.Done():
		c.pending = res
		return ctx.Err()
	case r := <-res:
		c.pending = nil
		if r.err != nil {
			if errors.Is(r.err, io.EOF) && r.line != "" {
				return nil
			}
			return fmt.Errorf("reading confirmation: %w", r.err)
		}
		return nil
	}
}
