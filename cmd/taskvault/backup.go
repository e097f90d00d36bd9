// The backup, export, and import commands cover snapshot operations.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup [destination]",
	Short: "Write a consistent snapshot of the store",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		dest := ""
		if len(args) == 1 {
			dest = args[0]
		}
		path, err := store.Backup(dest)
		if err != nil {
			return err
		}
		fmt.Printf("backup written to %s\n", path)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Dump every table to JSONL files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Export(args[0]); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", args[0])
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Restore a JSONL dump into an empty store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Import(args[0]); err != nil {
			return err
		}
		fmt.Printf("imported from %s\n", args[0])
		return nil
	},
}
