// Version command for the taskvault CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskvault/taskvault/pkg/types"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the taskvault version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("taskvault", types.Version)
	},
}
