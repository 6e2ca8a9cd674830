// ottofit plays a structured interval workout from a plain-text file,
// beeping at every transition.
//
// Usage:
//
//	ottofit [flags] <workout-file> [<start-position>]
//
// The start position is SET[/SET_REP].EXERCISE, 1-based.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/ottofit/internal/audio"
	"github.com/hammamikhairi/ottofit/internal/config"
	"github.com/hammamikhairi/ottofit/internal/display"
	"github.com/hammamikhairi/ottofit/internal/domain"
	"github.com/hammamikhairi/ottofit/internal/logger"
	"github.com/hammamikhairi/ottofit/internal/parser"
	"github.com/hammamikhairi/ottofit/internal/player"
)

type options struct {
	configPath string
	verbose    bool
	quiet      bool
	logFile    string
	mute       bool
	strict     bool
	outline    bool
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "ottofit <workout-file> [<start-position>]",
		Short: "Interval timer that beeps you through a plain-text workout",
		Long: `ottofit reads a workout file and walks through it in real time,
beeping at the start, midpoint and end of every exercise and before every
rest ends.

The optional start position resumes partway through, as
SET[/SET_REP].EXERCISE with 1-based numbers (e.g. 2.3 or 2/2.1).`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "YAML config file (default $"+config.EnvConfigPath+" or ottofit.yaml if present)")
	f.BoolVar(&opts.verbose, "verbose", false, "enable verbose/debug logging")
	f.BoolVar(&opts.quiet, "quiet", false, "disable all logging")
	f.StringVar(&opts.logFile, "log-file", "", "file to write logs to (use \"stderr\" to log to console)")
	f.BoolVar(&opts.mute, "mute", false, "do not open the audio device; beeps are only logged")
	f.BoolVar(&opts.strict, "strict", false, "fail on a malformed \"Set rest\" line instead of ignoring it")
	f.BoolVar(&opts.outline, "outline", false, "print the parsed workout with resume positions and exit")

	return cmd
}

func run(ctx context.Context, opts *options, args []string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logOut, closeLog := openLogOutput(cfg.Log.File)
	defer closeLog()

	// Route the standard log package (used by the audio driver) to the same
	// place so it doesn't interleave with the narration.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	level, _ := logger.ParseLevel(cfg.Log.Level)
	if opts.verbose {
		level = logger.LevelVerbose
	}
	if opts.quiet {
		level = logger.LevelOff
	}
	log := logger.New(level, logOut).WithRun(uuid.NewString())

	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading workout: %w", err)
	}

	p := parser.New(log, parser.WithStrictSetRest(cfg.Parser.StrictSetRest || opts.strict))
	workout, err := p.Parse(string(source))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	if opts.outline {
		return display.WriteOutline(os.Stdout, workout)
	}

	var start domain.StartPosition
	if len(args) > 1 {
		if start, err = parser.ParseStartPosition(args[1]); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	beeper, closeAudio, err := openBeeper(cfg, opts.mute, log)
	if err != nil {
		return err
	}
	defer closeAudio()

	fmt.Println(display.RenderBanner())

	pl := player.New(
		beeper,
		display.NewConsole(os.Stdout),
		display.NewLineConfirmer(os.Stdin, os.Stdout),
		log,
		cfg.Playback.PlayerOptions()...,
	)

	if err := pl.Play(ctx, workout, start); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("workout interrupted")
			fmt.Println("\nStopped.")
			return nil
		}
		return err
	}
	return nil
}

func loadConfig(opts *options) (*config.Config, error) {
	path, required := opts.configPath, true
	if path == "" {
		path = os.Getenv(config.EnvConfigPath)
	}
	if path == "" {
		path, required = "ottofit.yaml", false
	}

	cfg, err := config.Load(path, required)
	if err != nil {
		return nil, err
	}
	if opts.logFile != "" {
		cfg.Log.File = opts.logFile
	}
	return cfg, nil
}

// openLogOutput directs logs to a file by default so narration stays clean.
func openLogOutput(path string) (io.Writer, func()) {
	if path == "" || path == "stderr" {
		return os.Stderr, func() {}
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		os.MkdirAll(dir, 0o755)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
		return os.Stderr, func() {}
	}
	return f, func() { f.Close() }
}

// openBeeper pre-renders the beep clips and opens the audio device. A
// device failure is fatal unless audio is muted.
func openBeeper(cfg *config.Config, mute bool, log *logger.Logger) (domain.Beeper, func(), error) {
	if mute || !cfg.Audio.Enabled {
		log.Info("audio disabled, beeps are logged only")
		return audio.NewSilent(log), func() {}, nil
	}

	bank, err := audio.NewClipBank(cfg.Audio.ToneOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("rendering beeps: %w", err)
	}
	out, err := audio.NewOutput(bank, log)
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := out.Close(ctx); err != nil {
			log.Warn("closing audio: %v", err)
		}
	}
	return out, closeFn, nil
}
