package audio

import (
	"context"
	"io"
	"sync"
	"time"
)

// Stream is an endless PCM source for a single output player. Queued clips
// are served back to back; when nothing is queued it yields silence so the
// device never starves. Safe for concurrent use: the player enqueues while
// the audio driver reads.
type Stream struct {
	mu      sync.Mutex
	pending [][]byte
	closed  bool
}

// NewStream creates an idle stream.
func NewStream() *Stream {
	return &Stream{}
}

// Enqueue appends a clip for playback after everything already queued.
// Non-blocking. Clips enqueued after Close are dropped.
func (s *Stream) Enqueue(clip []byte) {
	if len(clip) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = append(s.pending, clip)
}

// Read fills p from the queued clips, padding with silence. After Close it
// returns io.EOF once the queue is empty.
func (s *Stream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for n < len(p) && len(s.pending) > 0 {
		c := copy(p[n:], s.pending[0])
		n += c
		if c == len(s.pending[0]) {
			s.pending[0] = nil
			s.pending = s.pending[1:]
		} else {
			s.pending[0] = s.pending[0][c:]
		}
	}

	if s.closed {
		if n == 0 {
			return 0, io.EOF
		}
		return n, nil
	}

	clear(p[n:])
	return len(p), nil
}

// Pending returns the number of queued bytes not yet read.
func (s *Stream) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, c := range s.pending {
		total += len(c)
	}
	return total
}

// Drain blocks until every queued clip has been read or ctx is done.
func (s *Stream) Drain(ctx context.Context) error {
	for s.Pending() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
	return nil
}

// Close stops the silence padding; readers get io.EOF once the queue is
// empty.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
