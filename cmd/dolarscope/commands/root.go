package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dolarscope",
	Short: "DolarScope - placar de viés do dólar (USD/BRL)",
	Long: `DolarScope Unified CLI

Fusão de sinais macro e de mercado em um placar diário de viés
do dólar contra o real, com histórico rolante de 30 dias.

Usage:
  go run ./cmd/dolarscope [command]

Examples:
  go run ./cmd/dolarscope api
  go run ./cmd/dolarscope score
  go run ./cmd/dolarscope scheduler start`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
