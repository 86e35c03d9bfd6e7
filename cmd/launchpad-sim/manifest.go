package main

import (
	"encoding/json"

	"github.com/nspcc-dev/launchpad-contract/contracts"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var manifestCmd = &cobra.Command{
	Use:       "manifest [name...]",
	Short:     "Prints manifests of the contracts, all of them by default",
	ValidArgs: contracts.Names(),
	Args:      cobra.OnlyValidArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = contracts.Names()
		}

		res := make([]manifest.Manifest, 0, len(args))
		for _, name := range lo.Uniq(args) {
			c, err := contracts.Get(name)
			if err != nil {
				return err
			}
			res = append(res, c.Manifest)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}
