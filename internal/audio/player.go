package audio

import (
	"context"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/ottofit/internal/domain"
	"github.com/hammamikhairi/ottofit/internal/logger"
)

// Compile-time interface check.
var _ domain.Beeper = (*Output)(nil)

// Output plays beeps on the system audio device. One oto player reads a
// Stream for the whole run, so consecutive beeps play without gaps.
type Output struct {
	ctx    *oto.Context
	player *oto.Player
	stream *Stream
	bank   *ClipBank
	log    *logger.Logger
}

// NewOutput initializes the audio device and starts the output stream.
// Returns an error if the device is unavailable.
func NewOutput(bank *ClipBank, log *logger.Logger) (*Output, error) {
	opts := bank.Options()
	op := &oto.NewContextOptions{
		SampleRate:   opts.SampleRate,
		ChannelCount: ChannelCount,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("initializing audio device: %w", err)
	}
	<-readyChan

	stream := NewStream()
	player := ctx.NewPlayer(stream)
	player.Play()

	log.Debug("audio output initialized (rate=%d, channels=%d)", opts.SampleRate, ChannelCount)
	return &Output{ctx: ctx, player: player, stream: stream, bank: bank, log: log}, nil
}

// Beep queues the clip for level. Never blocks.
func (o *Output) Beep(level domain.BeepLevel) {
	o.log.Debug("audio: beep %s (%.0f Hz)", level, level.Frequency())
	o.stream.Enqueue(o.bank.Clip(level))
}

// Close waits for queued beeps to finish playing, then releases the player.
func (o *Output) Close(ctx context.Context) error {
	if err := o.stream.Drain(ctx); err != nil {
		return err
	}

	// Clips already handed to the driver still need to reach the speaker.
	tail := bytesDuration(o.player.BufferedSize(), o.bank.Options().SampleRate)
	select {
	case <-ctx.Done():
	case <-time.After(tail):
	}

	o.stream.Close()
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("closing audio player: %w", err)
	}
	o.log.Debug("audio output closed")
	return nil
}
