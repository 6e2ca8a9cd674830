// Package audio renders and plays the beep cues: sine tones with a short
// fade in and out, pre-rendered once per level and fed gaplessly to a
// single oto output stream.
package audio

import (
	"encoding/binary"
	"math"

	"github.com/hammamikhairi/ottofit/internal/domain"
)

// RenderTone synthesizes a mono signed 16-bit little-endian sine clip at
// freq Hz, shaped by opts.
func RenderTone(freq float64, opts ToneOptions) []byte {
	n := opts.samples(opts.Length)
	fadeIn := opts.samples(opts.FadeIn)
	fadeOut := opts.samples(opts.FadeOut)

	out := make([]byte, n*bytesPerSample)
	step := 2 * math.Pi * freq / float64(opts.SampleRate)

	for i := 0; i < n; i++ {
		gain := opts.Volume
		if fadeIn > 0 && i < fadeIn {
			gain *= float64(i) / float64(fadeIn)
		}
		if tail := n - 1 - i; fadeOut > 0 && tail < fadeOut {
			gain *= float64(tail) / float64(fadeOut)
		}

		v := int16(math.Round(math.Sin(step*float64(i)) * gain * math.MaxInt16))
		binary.LittleEndian.PutUint16(out[i*bytesPerSample:], uint16(v))
	}
	return out
}

// ClipBank holds one pre-rendered clip per beep level. Clips are shared and
// must not be modified.
type ClipBank struct {
	clips map[domain.BeepLevel][]byte
	opts  ToneOptions
}

// NewClipBank renders every beep level once.
func NewClipBank(opts ToneOptions) (*ClipBank, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	b := &ClipBank{clips: make(map[domain.BeepLevel][]byte, len(domain.BeepLevels)), opts: opts}
	for _, level := range domain.BeepLevels {
		b.clips[level] = RenderTone(level.Frequency(), opts)
	}
	return b, nil
}

// Clip returns the rendered clip for level.
func (b *ClipBank) Clip(level domain.BeepLevel) []byte {
	return b.clips[level]
}

// Options returns the shape the clips were rendered with.
func (b *ClipBank) Options() ToneOptions {
	return b.opts
}
