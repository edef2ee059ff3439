package config_test

import (
	"fmt"

	"github.com/dolarscope/backend/pkg/config"
)

// Example demonstrates how to use the config package.
func Example() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	fmt.Printf("Server running on port: %s\n", cfg.Port)
	fmt.Printf("Environment: %s\n", cfg.Env)
	fmt.Printf("History file: %s\n", cfg.History.Path)
	fmt.Printf("Yahoo configured: %v\n", cfg.Yahoo.APIKey != "")
}
