// Package config loads ottofit settings from an optional YAML file with
// OTTOFIT_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/ottofit/internal/audio"
	"github.com/hammamikhairi/ottofit/internal/logger"
	"github.com/hammamikhairi/ottofit/internal/player"
)

// EnvConfigPath names the env var that points at the config file when
// --config is not given.
const EnvConfigPath = "OTTOFIT_CONFIG"

type Config struct {
	Playback PlaybackConfig `yaml:"playback"`
	Audio    AudioConfig    `yaml:"audio"`
	Log      LogConfig      `yaml:"log"`
	Parser   ParserConfig   `yaml:"parser"`
}

type PlaybackConfig struct {
	LeadIn         time.Duration `yaml:"lead_in"`
	PreSectionWait time.Duration `yaml:"pre_section_wait"`
	WarningWindow  time.Duration `yaml:"warning_window"`
	FinishPause    time.Duration `yaml:"finish_pause"`
}

type AudioConfig struct {
	Enabled    bool          `yaml:"enabled"`
	SampleRate int           `yaml:"sample_rate"`
	Volume     float64       `yaml:"volume"`
	BeepLength time.Duration `yaml:"beep_length"`
	FadeIn     time.Duration `yaml:"fade_in"`
	FadeOut    time.Duration `yaml:"fade_out"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type ParserConfig struct {
	StrictSetRest bool `yaml:"strict_set_rest"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Playback: PlaybackConfig{
			LeadIn:         player.DefaultLeadIn,
			PreSectionWait: player.DefaultPreSectionWait,
			WarningWindow:  player.DefaultWarningWindow,
			FinishPause:    player.DefaultFinishPause,
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: audio.DefaultSampleRate,
			Volume:     audio.DefaultVolume,
			BeepLength: audio.DefaultLength,
			FadeIn:     audio.DefaultFadeIn,
			FadeOut:    audio.DefaultFadeOut,
		},
		Log: LogConfig{
			Level: "normal",
			File:  ".ottofit-logs/ottofit.log",
		},
	}
}

// ToneOptions converts the audio settings for the clip renderer.
func (a AudioConfig) ToneOptions() audio.ToneOptions {
	return audio.ToneOptions{
		SampleRate: a.SampleRate,
		Volume:     a.Volume,
		Length:     a.BeepLength,
		FadeIn:     a.FadeIn,
		FadeOut:    a.FadeOut,
	}
}

// PlayerOptions converts the playback settings into player options.
func (p PlaybackConfig) PlayerOptions() []player.Option {
	return []player.Option{
		player.WithLeadIn(p.LeadIn),
		player.WithPreSectionWait(p.PreSectionWait),
		player.WithWarningWindow(p.WarningWindow),
		player.WithFinishPause(p.FinishPause),
	}
}

// Load starts from Default, overlays the YAML file at path, then applies
// environment overrides. An empty path, or a missing file when required is
// false, leaves the defaults in place.
//
// Env vars:
//
//	OTTOFIT_LEAD_IN, OTTOFIT_PRE_SECTION_WAIT, OTTOFIT_WARNING_WINDOW,
//	OTTOFIT_FINISH_PAUSE, OTTOFIT_AUDIO_ENABLED, OTTOFIT_AUDIO_VOLUME,
//	OTTOFIT_SAMPLE_RATE, OTTOFIT_LOG_LEVEL, OTTOFIT_LOG_FILE,
//	OTTOFIT_STRICT_SET_REST
func Load(path string, required bool) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		case errors.Is(err, fs.ErrNotExist) && !required:
		default:
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("config env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	durations := []struct {
		env string
		dst *time.Duration
	}{
		{"OTTOFIT_LEAD_IN", &cfg.Playback.LeadIn},
		{"OTTOFIT_PRE_SECTION_WAIT", &cfg.Playback.PreSectionWait},
		{"OTTOFIT_WARNING_WINDOW", &cfg.Playback.WarningWindow},
		{"OTTOFIT_FINISH_PAUSE", &cfg.Playback.FinishPause},
	}
	for _, d := range durations {
		if v := os.Getenv(d.env); v != "" {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", d.env, err)
			}
			*d.dst = parsed
		}
	}

	if v := os.Getenv("OTTOFIT_AUDIO_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("OTTOFIT_AUDIO_ENABLED: %w", err)
		}
		cfg.Audio.Enabled = b
	}
	if v := os.Getenv("OTTOFIT_AUDIO_VOLUME"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("OTTOFIT_AUDIO_VOLUME: %w", err)
		}
		cfg.Audio.Volume = f
	}
	if v := os.Getenv("OTTOFIT_SAMPLE_RATE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("OTTOFIT_SAMPLE_RATE: %w", err)
		}
		cfg.Audio.SampleRate = n
	}
	if v := os.Getenv("OTTOFIT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("OTTOFIT_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("OTTOFIT_STRICT_SET_REST"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("OTTOFIT_STRICT_SET_REST: %w", err)
		}
		cfg.Parser.StrictSetRest = b
	}
	return nil
}

func (c *Config) validate() error {
	p := c.Playback
	if p.LeadIn < 0 || p.PreSectionWait < 0 || p.WarningWindow < 0 || p.FinishPause < 0 {
		return fmt.Errorf("playback durations must not be negative")
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Audio.Enabled {
		if err := c.Audio.ToneOptions().Validate(); err != nil {
			return fmt.Errorf("audio: %w", err)
		}
	}
	return nil
}
