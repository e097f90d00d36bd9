// The check command runs the on-demand integrity audit.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Scan for orphaned rows and invalid enum values",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		report, err := store.IntegrityCheck()
		if err != nil {
			return err
		}
		if flagJSON {
			return json.NewEncoder(os.Stdout).Encode(report)
		}
		if report.IsValid {
			fmt.Println("no integrity issues found")
			return nil
		}
		fmt.Printf("%d issue(s) found:\n", len(report.Issues))
		for _, issue := range report.Issues {
			fmt.Printf("  - %s\n", issue)
		}
		return nil
	},
}
