package audio

import (
	"fmt"
	"time"
)

// PCM format shared by the tone renderer, the stream and the oto context.
const (
	ChannelCount   = 1
	BitDepth       = 16
	bytesPerSample = BitDepth / 8
)

// Default beep shape.
const (
	DefaultSampleRate = 44100
	DefaultVolume     = 0.4
	DefaultLength     = 500 * time.Millisecond
	DefaultFadeIn     = 100 * time.Millisecond
	DefaultFadeOut    = 100 * time.Millisecond
)

// ToneOptions describes how beep clips are rendered.
type ToneOptions struct {
	SampleRate int
	Volume     float64       // peak amplitude in (0, 1]
	Length     time.Duration // total clip length
	FadeIn     time.Duration // linear ramp up from silence
	FadeOut    time.Duration // linear ramp down into silence at the tail
}

// DefaultToneOptions returns the standard half-second beep.
func DefaultToneOptions() ToneOptions {
	return ToneOptions{
		SampleRate: DefaultSampleRate,
		Volume:     DefaultVolume,
		Length:     DefaultLength,
		FadeIn:     DefaultFadeIn,
		FadeOut:    DefaultFadeOut,
	}
}

// Validate reports options that cannot produce a sensible clip.
func (o ToneOptions) Validate() error {
	switch {
	case o.SampleRate <= 0:
		return fmt.Errorf("sample rate must be positive, got %d", o.SampleRate)
	case o.Volume <= 0 || o.Volume > 1:
		return fmt.Errorf("volume must be in (0, 1], got %v", o.Volume)
	case o.Length <= 0:
		return fmt.Errorf("beep length must be positive, got %s", o.Length)
	case o.FadeIn < 0 || o.FadeOut < 0:
		return fmt.Errorf("fades must not be negative")
	case o.FadeIn+o.FadeOut > o.Length:
		return fmt.Errorf("fade in (%s) + fade out (%s) exceed beep length %s", o.FadeIn, o.FadeOut, o.Length)
	}
	return nil
}

// samples converts a duration to a sample count at the configured rate.
func (o ToneOptions) samples(d time.Duration) int {
	return int(d.Seconds() * float64(o.SampleRate))
}

// bytesDuration converts a PCM byte count back to playing time.
func bytesDuration(n, sampleRate int) time.Duration {
	frames := n / (bytesPerSample * ChannelCount)
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}
