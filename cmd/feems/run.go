package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sintef/feems/config"
	"github.com/sintef/feems/fuel"
	"github.com/sintef/feems/pms"
	"github.com/sintef/feems/serialize"
	"github.com/sintef/feems/sim"
	"github.com/sintef/feems/topology"
)

func newRunCmd() *cobra.Command {
	var fleetPath, optionsPath, profilePath, outPath string
	var pmsStart, pmsStop float64

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a voyage profile through a fleet and write the aggregated result.",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			runID := uuid.New().String()
			log.Infof("run %s: starting", runID)

			fleetData, err := os.ReadFile(fleetPath)
			if err != nil {
				return err
			}
			fleet, err := serialize.UnmarshalFleet(fleetData)
			if err != nil {
				return err
			}

			opts := config.Options{TimestepSeconds: 1, FuelRegime: fuel.IMO}
			if optionsPath != "" {
				opts, err = config.Load(optionsPath)
				if err != nil {
					return err
				}
			}

			sys, err := topology.BuildSystem(fleet, opts)
			if err != nil {
				return err
			}

			profileData, err := os.ReadFile(profilePath)
			if err != nil {
				return err
			}
			var profile sim.VoyageProfile
			if err := json.Unmarshal(profileData, &profile); err != nil {
				return err
			}

			orch := &sim.Orchestrator{
				System: sys,
				Policy: pms.LoadDependentStartStop{StartThreshold: pmsStart, StopThreshold: pmsStop},
			}
			log.Infof("run %s: running %d timesteps", runID, len(profile.ElectricDemandKW))
			res, err := orch.Run(context.Background(), profile)
			if err != nil {
				return err
			}
			log.Infof("run %s: done, %.3f kg fuel burned", runID, res.TotalFuelMassKg())

			data, err := serialize.MarshalResult(res)
			if err != nil {
				return err
			}
			if outPath == "" || outPath == "-" {
				_, err = os.Stdout.Write(append(data, '\n'))
				return err
			}
			return os.WriteFile(outPath, data, 0o644)
		},
	}
	cmd.Flags().StringVar(&fleetPath, "fleet", "", "path to a fleet JSON file")
	cmd.Flags().StringVar(&optionsPath, "options", "", "path to a run-options TOML file")
	cmd.Flags().StringVar(&profilePath, "profile", "", "path to a voyage-profile JSON file")
	cmd.Flags().StringVar(&outPath, "out", "-", "path to write the result JSON, or - for stdout")
	cmd.Flags().Float64Var(&pmsStart, "pms-start", 0.85, "PMS genset start threshold (fraction of online capacity)")
	cmd.Flags().Float64Var(&pmsStop, "pms-stop", 0.4, "PMS genset stop threshold (fraction of online capacity)")
	cmd.MarkFlagRequired("fleet")
	cmd.MarkFlagRequired("profile")
	return cmd
}
