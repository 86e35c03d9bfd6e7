package main

import (
	"fmt"

	"github.com/nspcc-dev/launchpad-contract/common"
	"github.com/nspcc-dev/launchpad-contract/contracts"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Shows contracts version and code hashes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		all, err := contracts.GetAll()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Contracts version: %s\n", common.VersionString(common.Version))
		for _, c := range all {
			fmt.Fprintf(out, "%-12s %s\n", c.Manifest.Name, c.Code.HashString())
		}
		return nil
	},
}
