package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rotrain/rotrain/internal/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rotrain",
		Short: "Reverse-osmosis train design and performance engine",
	}

	var phreeqcBin, phreeqcDB string
	rootCmd.PersistentFlags().StringVar(&phreeqcBin, "phreeqc-bin", "", "PHREEQC executable (defaults to \"phreeqc\" on PATH)")
	rootCmd.PersistentFlags().StringVar(&phreeqcDB, "phreeqc-db", "", "PHREEQC thermodynamic database path")

	rootCmd.AddCommand(optimizeCmd(&phreeqcBin, &phreeqcDB))
	rootCmd.AddCommand(simulateCmd(&phreeqcBin, &phreeqcDB))
	rootCmd.AddCommand(defaultsCmd())
	rootCmd.AddCommand(serveCmd(&phreeqcBin, &phreeqcDB))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func optimizeCmd(phreeqcBin, phreeqcDB *string) *cobra.Command {
	return &cobra.Command{
		Use:   "optimize [project-path]",
		Short: "Search feasible vessel-array configurations for a project's feed and target recovery",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runOptimize(args[0], *phreeqcBin, *phreeqcDB)
		},
	}
}

func simulateCmd(phreeqcBin, phreeqcDB *string) *cobra.Command {
	return &cobra.Command{
		Use:   "simulate [project-path]",
		Short: "Simulate a project's configuration and report performance, chemistry, and LCOW",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runSimulate(args[0], *phreeqcBin, *phreeqcDB)
		},
	}
}

func defaultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "defaults [membrane-model]",
		Short: "Print the bundled economic and chemical-dosing defaults",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			membrane := ""
			if len(args) == 1 {
				membrane = args[0]
			}
			return runDefaults(membrane)
		},
	}
}

func serveCmd(phreeqcBin, phreeqcDB *string) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Start the local dev server exposing optimize/simulate/defaults over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			eng := buildEngine(*phreeqcBin, *phreeqcDB)
			srv := server.New(eng, args[0], port)
			return srv.Start()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port")
	return cmd
}
