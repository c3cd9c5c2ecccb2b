package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/shapedash/internal/player"
)

var shapesCmd = &cobra.Command{
	Use:   "shapes",
	Short: "List the playable shapes",
	Long:  `Shows every shape with its air spin and landing symmetry.`,
	RunE:  runShapes,
}

func runShapes(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println("Available shapes:")
	fmt.Println()
	fmt.Printf("  %-9s  %-10s  %s\n", "Shape", "Spin", "Lands every")
	fmt.Printf("  %-9s  %-10s  %s\n", "-----", "----", "-----------")

	for _, s := range player.Shapes() {
		p := player.ProfileFor(s, cfg.Player)
		landing := "rolls"
		if p.Snaps() {
			landing = fmt.Sprintf("%g deg", p.Symmetry)
		}
		fmt.Printf("  %-9s  %-10s  %s\n", s, fmt.Sprintf("%g deg/s", p.Spin), landing)
	}

	fmt.Println()
	fmt.Println("Run 'shapedash play <shape>' to play.")
	return nil
}
