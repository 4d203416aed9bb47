// Package main is the entry point for the ilpsched command-line tool.
//
// ilpsched automatically generates a control-step schedule for a data-flow
// graph by encoding it as an integer linear program in the CPLEX-LP format
// and (optionally) handing the formulation to the GLPK solver.
//
// Usage:
//
//	ilpsched -g dfg.edgelist -l 4               # MR-LC: minimize resources
//	ilpsched -g dfg.edgelist -a 1 -a 1 -a 2 -a 1  # ML-RC: minimize latency
//	ilpsched -g dfg.edgelist -l 4 -a 1 -a 1 -a 2 -a 1  # both formulations
//
// Configuration is loaded with the following priority (highest to lowest):
//
//  1. Environment variables (prefix: ILPSCHED_)
//  2. Config file (config.yaml, config/config.yaml, /etc/ilpsched/config.yaml)
//  3. Default values
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ilpsched/internal/edgelist"
	"ilpsched/internal/qor"
	"ilpsched/internal/scheduler"
	"ilpsched/pkg/apperror"
	"ilpsched/pkg/config"
	"ilpsched/pkg/logger"
	"ilpsched/pkg/metrics"
)

var (
	flagGraph     string
	flagLatency   int
	flagAreaCost  []int
	flagOutputDir string
	flagNoSolve   bool
)

func main() {
	root := &cobra.Command{
		Use:           "ilpsched",
		Short:         "Automated ILP scheduler for data-flow graphs",
		Long:          "Automatically generates the schedule and produces the QoRs of the schedule for the given DFG graph. Interfaces with the GLPK solver.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runSchedule,
	}

	root.Flags().StringVarP(&flagGraph, "graph", "g", "", "DFG to schedule, in edgelist format")
	root.Flags().IntVarP(&flagLatency, "latency", "l", 0, "latency constraint to minimize resources under")
	root.Flags().IntSliceVarP(&flagAreaCost, "area-cost", "a", nil, "resource counts to minimize latency under, one per interior unit")
	root.Flags().StringVar(&flagOutputDir, "output-dir", "", "directory for generated files (overrides config)")
	root.Flags().BoolVar(&flagNoSolve, "no-solve", false, "generate the LP files without invoking the solver")

	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			fmt.Fprintf(os.Stderr, "ilpsched: %v\n", appErr)
		} else {
			fmt.Fprintf(os.Stderr, "ilpsched: %v\n", err)
		}
		os.Exit(1)
	}
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagOutputDir != "" {
		cfg.Output.Dir = flagOutputDir
	}

	logger.InitWithConfig(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})

	if cfg.Metrics.Enabled {
		metrics.InitMetrics(cfg.Metrics.Namespace, cfg.Metrics.Subsystem)
		metrics.Default().AppInfo.WithLabelValues(cfg.App.Version).Set(1)
		srv := metrics.Serve(cfg.Metrics.Port, cfg.Metrics.Path)
		defer srv.Close()
	}

	if flagGraph == "" {
		return apperror.New(apperror.CodeInvalidArgument, "please insert an edgelist graph using -g")
	}

	g, err := edgelist.ReadFile(flagGraph)
	if err != nil {
		return err
	}

	results, err := scheduler.New(cfg).Run(cmd.Context(), g, scheduler.Options{
		Latency:  flagLatency,
		AreaCost: flagAreaCost,
		NoSolve:  flagNoSolve,
	})
	if err != nil {
		return err
	}

	text := qor.NewTextGenerator()
	for _, res := range results {
		fmt.Printf("schedule: %s\n", res.Objective)
		fmt.Printf("lp file: %s\n", res.LPPath)
		if res.Report == nil {
			continue
		}
		content, err := text.Generate(cmd.Context(), res.Report)
		if err != nil {
			return err
		}
		fmt.Print(string(content))
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the ilpsched version",
		Run: func(cmd *cobra.Command, _ []string) {
			cfg, err := config.Load()
			version := "unknown"
			if err == nil {
				version = cfg.App.Version
			}
			fmt.Printf("ilpsched %s\n", version)
		},
	}
}
