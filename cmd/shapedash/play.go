package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/shapedash/internal/config"
	"github.com/vovakirdan/shapedash/internal/platform/tui"
	"github.com/vovakirdan/shapedash/internal/player"
	"github.com/vovakirdan/shapedash/internal/storage"
)

var flagWatch bool

var playCmd = &cobra.Command{
	Use:   "play <shape>",
	Short: "Play with a shape",
	Long: `Start a level right away with the given shape.

Controls:
  Space/Up/W - Jump
  P          - Pause
  Space/R    - Restart (once the results view allows it)
  M/Esc      - Back to the shape menu
  Q/Ctrl+C   - Quit

Difficulty options:
  easy   - Spikes start sparse and grow denser with the score
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, spike density stays at the config's value

Examples:
  shapedash play square
  shapedash play circle --difficulty hard
  shapedash play triangle --seed 42
  shapedash play square --config ./runner.yaml --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload --config on change; applies from the next level")
}

func runPlay(_ *cobra.Command, args []string) error {
	shape, err := player.ParseShape(args[0])
	if err != nil {
		return fmt.Errorf("%w (run 'shapedash shapes' to list them)", err)
	}
	return runInteractive(&shape)
}

// runInteractive runs the local TUI, starting in the menu when shape is nil.
func runInteractive(shape *player.Shape) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := tuiLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		// Continue without storage - the best score lives in memory
		store = nil
	} else {
		defer store.Close()
	}

	opts := tui.SessionOptions{
		Store:   store,
		Runner:  cfg,
		Runtime: runtimeConfig(),
		Logger:  logger,
		Shape:   shape,
	}

	if flagWatch {
		reloads, stop, err := watchConfig(logger)
		if err != nil {
			return err
		}
		defer stop()
		opts.Reloads = reloads
	}

	return tui.RunSession(opts)
}

// watchConfig watches the --config file and re-applies the --difficulty
// preset to every reload, since the preset is not part of the file.
func watchConfig(logger *log.Logger) (<-chan config.Reload, func(), error) {
	if flagConfig == "" {
		return nil, nil, errors.New("--watch needs --config")
	}
	watcher, err := config.NewWatcher(flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot watch %s: %w", flagConfig, err)
	}
	logger.Info("watching config", "path", watcher.Path())

	stop := func() { _ = watcher.Close() }
	if flagDifficulty == "" {
		return watcher.Reloads, stop, nil
	}

	preset := config.ParsePreset(flagDifficulty)
	reloads := make(chan config.Reload, cap(watcher.Reloads))
	done := make(chan struct{})
	go func() {
		defer close(reloads)
		for {
			select {
			case r := <-watcher.Reloads:
				if r.Err == nil {
					config.ApplyPreset(&r.Config, preset)
				}
				select {
				case reloads <- r:
				case <-done:
					return
				}
			case <-done:
				return
			}
		}
	}()
	return reloads, func() {
		close(done)
		stop()
	}, nil
}
