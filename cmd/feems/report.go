package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sintef/feems/fuel"
	"github.com/sintef/feems/result"
	"github.com/sintef/feems/serialize"
)

func newReportCmd() *cobra.Command {
	var resultPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Pretty-print a result JSON file as fuel, emission and running-hours tables.",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(resultPath)
			if err != nil {
				return err
			}
			res, err := serialize.UnmarshalResult(data)
			if err != nil {
				return err
			}
			printFuelTable(res)
			fmt.Println()
			printEmissionTable(res)
			fmt.Println()
			printRunningHoursTable(res)
			return nil
		},
	}
	cmd.Flags().StringVar(&resultPath, "result", "", "path to a result JSON file")
	cmd.MarkFlagRequired("result")
	return cmd
}

func printFuelTable(res *result.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Fuel", "Origin", "Regime", "Name", "Mass (kg)", "CO2eq (kg)"})
	for _, f := range res.MultiFuelConsumptionTotalKg {
		t.AppendRow(table.Row{f.Kind, f.Origin, f.Regime, f.Name, fmt.Sprintf("%.3f", f.MassKg), fmt.Sprintf("%.3f", f.Co2eqKg)})
	}
	t.AppendFooter(table.Row{"", "", "", "Total", fmt.Sprintf("%.3f", res.TotalFuelMassKg()), fmt.Sprintf("%.3f", res.TotalCo2eqKg())})
	t.Render()
}

func printEmissionTable(res *result.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Species", "Mass (kg)"})
	species := make([]fuel.EmissionSpecies, 0, len(res.TotalEmissionKg))
	for s := range res.TotalEmissionKg {
		species = append(species, s)
	}
	sort.Slice(species, func(i, j int) bool { return species[i] < species[j] })
	for _, s := range species {
		t.AppendRow(table.Row{s, fmt.Sprintf("%.3f", res.TotalEmissionKg[s])})
	}
	t.Render()
}

// componentTotals accumulates one component's detail rows across every
// timestep into the lifetime totals the report table prints.
type componentTotals struct {
	name      string
	fuelKg    float64
	co2Kg     float64
	runningHr float64
}

func printRunningHoursTable(res *result.Result) {
	totals := map[string]*componentTotals{}
	var order []string
	for _, d := range res.Detail {
		c, ok := totals[d.ComponentUID]
		if !ok {
			c = &componentTotals{name: d.Name}
			totals[d.ComponentUID] = c
			order = append(order, d.ComponentUID)
		}
		c.fuelKg += d.FuelConsumptionKg
		c.co2Kg += d.Co2EmissionKg
	}
	for uid, hrs := range res.RunningHoursHrByComponent {
		c, ok := totals[uid]
		if !ok {
			c = &componentTotals{name: uid}
			totals[uid] = c
			order = append(order, uid)
		}
		c.runningHr = hrs
	}
	sort.Strings(order)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Component", "Running hours", "Fuel (kg)", "CO2eq (kg)"})
	for _, uid := range order {
		c := totals[uid]
		t.AppendRow(table.Row{c.name, fmt.Sprintf("%.2f", c.runningHr), fmt.Sprintf("%.1f", c.fuelKg), fmt.Sprintf("%.1f", c.co2Kg)})
	}
	t.Render()
}
