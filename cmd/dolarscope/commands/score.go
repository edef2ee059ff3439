package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute today's score once and print it",
	Long: `Runs one full pipeline cycle (market + macro collection, scoring,
history merge) and prints the result.

Example:
  go run ./cmd/dolarscope score
  go run ./cmd/dolarscope score --json`,
	RunE: runScore,
}

var scoreJSON bool

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "print the full bundle as JSON")
}

func runScore(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	bundle := d.agg.ScoreBundle(ctx)

	if scoreJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(bundle)
	}

	today := bundle.Today
	fmt.Printf("Data:   %s\n", today.Date)
	fmt.Printf("Placar: %.1f\n", today.Score)
	fmt.Printf("Viés:   %s\n", today.Bias)
	fmt.Printf("Resumo: %s\n", today.Brief)
	if len(today.Factors) > 0 {
		fmt.Println("Fatores:")
		for _, f := range today.Factors {
			fmt.Printf("  - %s\n", f)
		}
	}
	fmt.Printf("Histórico: %d dias\n", len(bundle.History))

	return nil
}
