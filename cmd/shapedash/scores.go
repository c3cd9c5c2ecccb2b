package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/shapedash/internal/player"
	"github.com/vovakirdan/shapedash/internal/storage"
)

var (
	flagResetBest bool
	flagClearRuns bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [shape]",
	Short: "Show the best runs",
	Long: `Display the top 10 runs, optionally for a single shape, and the
all-time best score.

Examples:
  shapedash scores
  shapedash scores circle
  shapedash scores --reset         # Forget the best score
  shapedash scores --reset --clear # Also delete every recorded run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagResetBest, "reset", false, "Reset the best score to zero")
	scoresCmd.Flags().BoolVar(&flagClearRuns, "clear", false, "Delete every recorded run")
}

func runScores(_ *cobra.Command, args []string) error {
	filter := ""
	if len(args) == 1 {
		shape, err := player.ParseShape(args[0])
		if err != nil {
			return fmt.Errorf("%w (run 'shapedash shapes' to list them)", err)
		}
		filter = shape.String()
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening runs database: %w", err)
	}
	defer store.Close()

	if flagClearRuns {
		if err := store.ClearRuns(); err != nil {
			return err
		}
		fmt.Println("Runs cleared.")
	}
	if flagResetBest {
		if err := store.ResetBest(); err != nil {
			return err
		}
		fmt.Println("Best score reset.")
	}
	if flagClearRuns || flagResetBest {
		return nil
	}

	runs, err := store.TopRuns(filter, 10)
	if err != nil {
		return fmt.Errorf("retrieving runs: %w", err)
	}

	title := "all shapes"
	if filter != "" {
		title = filter
	}
	fmt.Printf("Best Runs - %s\n", title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'shapedash play square' to set the first score!")
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-9s  %-7s  %s\n", "Rank", "Score", "Shape", "Cause", "Date")
	fmt.Printf("  %-4s  %-8s  %-9s  %-7s  %s\n", "----", "-----", "-----", "-----", "----")
	for i, run := range runs {
		fmt.Printf("  %-4d  %-8d  %-9s  %-7s  %s\n",
			i+1, run.Score, run.Shape, run.Cause, run.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	fmt.Printf("Best: %d\n", store.BestScore())
	return nil
}
