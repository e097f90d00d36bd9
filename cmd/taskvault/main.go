// Package main provides the taskvault CLI, an operator surface over the
// persistence engine: initialization, health, stats, integrity checks,
// backups, and JSONL export/import.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
