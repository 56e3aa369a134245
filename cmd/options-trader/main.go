package main

import (
	"fmt"
	"os"

	"options-trader/internal/cli"
	"options-trader/internal/config"
	"options-trader/internal/logging"
)

func main() {
	// The config directory must be known before cobra parses flags,
	// so pre-scan the arguments for it.
	configDir := ""
	for i, arg := range os.Args[1:] {
		if arg == "--config" && i+2 < len(os.Args) {
			configDir = os.Args[i+2]
		} else if len(arg) > 9 && arg[:9] == "--config=" {
			configDir = arg[9:]
		}
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "options-trader: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger()

	rootCmd := cli.NewRootCmd(cfg, configDir, logger)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
