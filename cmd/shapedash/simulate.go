package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/shapedash/internal/player"
	"github.com/vovakirdan/shapedash/internal/sim"
	"github.com/vovakirdan/shapedash/internal/storage"
)

var (
	flagTicks int
	flagJSON  bool
	flagSave  bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <shape>",
	Short: "Run a level headlessly with an autopilot",
	Long: `Play one level without a terminal UI. An autopilot jumps gaps, walls
and spikes; the run ends on death or after --ticks frames.

With --seed the terrain, and therefore the outcome, is reproducible.

Examples:
  shapedash simulate square --seed 42
  shapedash simulate circle --ticks 600 --json
  shapedash simulate triangle --difficulty hard --save`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagTicks, "ticks", 3600, "Stop after this many frames if still alive")
	simulateCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the outcome as JSON")
	simulateCmd.Flags().BoolVar(&flagSave, "save", false, "Record the run and best score in --db")
}

type simReport struct {
	Shape       string  `json:"shape"`
	Seed        int64   `json:"seed"`
	Alive       bool    `json:"alive"`
	Cause       string  `json:"cause,omitempty"`
	Score       int     `json:"score"`
	Best        int     `json:"best"`
	NewBest     bool    `json:"new_best"`
	Distance    float64 `json:"distance"`
	Ticks       int     `json:"ticks"`
	Jumps       int     `json:"jumps"`
	MaxResident int     `json:"max_resident"`
	Elapsed     string  `json:"elapsed"`
}

func runSimulate(_ *cobra.Command, args []string) error {
	shape, err := player.ParseShape(args[0])
	if err != nil {
		return fmt.Errorf("%w (run 'shapedash shapes' to list them)", err)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr, "simulate")
	if err != nil {
		return err
	}

	opts := sim.Options{
		Config:   cfg,
		Shape:    shape,
		Seed:     flagSeed,
		MaxTicks: flagTicks,
		TickRate: flagFPS,
		Logger:   logger,
	}
	if flagSave {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			return fmt.Errorf("opening runs database: %w", err)
		}
		defer store.Close()
		opts.Store = store
	}

	start := time.Now()
	out, err := sim.Run(opts)
	if err != nil {
		return err
	}

	report := newSimReport(shape, out)
	report.Elapsed = time.Since(start).Round(time.Millisecond).String()

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	status := "survived"
	if !report.Alive {
		status = "died (" + report.Cause + ")"
	}
	fmt.Printf("%s %s after %d ticks\n", report.Shape, status, report.Ticks)
	fmt.Printf("  seed      %d\n", report.Seed)
	fmt.Printf("  score     %d\n", report.Score)
	fmt.Printf("  distance  %.0f\n", report.Distance)
	fmt.Printf("  jumps     %d\n", report.Jumps)
	fmt.Printf("  resident  %d (max)\n", report.MaxResident)
	if !report.Alive {
		best := fmt.Sprintf("%d", report.Best)
		if report.NewBest {
			best += " (new)"
		}
		fmt.Printf("  best      %s\n", best)
	}
	return nil
}

func newSimReport(shape player.Shape, out sim.Outcome) simReport {
	r := simReport{
		Shape:       shape.String(),
		Seed:        out.Seed,
		Alive:       out.Alive(),
		Score:       out.Score,
		Distance:    out.Distance,
		Ticks:       out.Ticks,
		Jumps:       out.Jumps,
		MaxResident: out.MaxResident,
	}
	if res := out.Result; res != nil {
		r.Cause = res.Cause.String()
		r.Score = res.FinalScore
		r.Best = res.Best
		r.NewBest = res.NewBest
	}
	return r
}
