package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sintef/feems/serialize"
)

func newValidateCmd() *cobra.Command {
	var fleetPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load a fleet definition and check its configuration invariants.",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			data, err := os.ReadFile(fleetPath)
			if err != nil {
				return err
			}
			fleet, err := serialize.UnmarshalFleet(data)
			if err != nil {
				return err
			}
			log.Infof("fleet %s: %d components across %d nodes: OK", fleetPath, len(fleet.Components), len(fleet.Nodes))
			return nil
		},
	}
	cmd.Flags().StringVar(&fleetPath, "fleet", "", "path to a fleet JSON file")
	cmd.MarkFlagRequired("fleet")
	return cmd
}
