package audio

import (
	"github.com/hammamikhairi/ottofit/internal/domain"
	"github.com/hammamikhairi/ottofit/internal/logger"
)

// Compile-time interface check.
var _ domain.Beeper = (*Silent)(nil)

// Silent is a beeper that only logs. Used with --mute or when audio is
// disabled in the config.
type Silent struct {
	log *logger.Logger
}

// NewSilent creates a silent beeper.
func NewSilent(log *logger.Logger) *Silent {
	return &Silent{log: log}
}

// Beep logs the cue and does nothing else.
func (s *Silent) Beep(level domain.BeepLevel) {
	s.log.Debug("audio muted: would beep %s", level)
}
