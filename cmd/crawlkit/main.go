package main

import (
	"os"

	"github.com/charmbracelet/log"

	"github.com/crawlkit/crawlkit/internal/cli"
)

func main() {
	// Set up logging first
	if level, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}
	log.SetReportTimestamp(true)
	log.SetReportCaller(true)

	rootCmd := cli.NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
