// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloudzero/bootscout/app/build"
	"github.com/cloudzero/bootscout/app/domain/sysprobe"
	logging "github.com/cloudzero/bootscout/app/logging/probe"
	"github.com/cloudzero/bootscout/app/types"
)

var (
	// CLI flags
	rootDir   string
	dmiSource string
	logLevel  string
	logFormat string
)

// rootCmd dumps every probe when called without a probe name.
var rootCmd = &cobra.Command{
	Use:   "hwprobe [probe]",
	Short: "Dump the raw host signals used for platform identification",
	Long: `hwprobe runs the signal collector mechanisms individually and prints
their raw name=value pairs to stdout. It never evaluates platform checks and
never writes anything; use it to capture what a host actually exposes.

Run 'hwprobe list' to see the available probes.`,
	Version: build.GetVersion(),
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := "all"
		if len(args) == 1 {
			name = args[0]
		}
		return runProbe(cmd, name)
	},
}

// listCmd prints the probe catalog.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available probes",
	Run: func(cmd *cobra.Command, args []string) {
		for _, p := range sysprobe.Probes() {
			fmt.Printf("%-8s %s\n", p.Name, p.Description)
		}
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "alternate root for all host paths")
	rootCmd.PersistentFlags().StringVar(&dmiSource, "dmi-source", "", "pin the hardware descriptor source (sysfs, kenv, sysctl, dmidecode)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "the log level")
	rootCmd.PersistentFlags().StringVarP(&logFormat, "output", "o", logging.LogFormatText, "log format (text, json)")

	rootCmd.AddCommand(listCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runProbe(cmd *cobra.Command, name string) error {
	logging.SetUpLogging(logLevel, logFormat)

	var opts []sysprobe.Option
	if dmiSource != "" {
		opts = append(opts, sysprobe.WithDMISource(dmiSource))
	}
	collector := sysprobe.NewCollector(types.NewPaths(rootDir), opts...)

	var vals map[string]string
	if name == "all" {
		vals = collector.RunAll(cmd.Context())
	} else {
		var err error
		vals, err = collector.RunProbe(name)
		if err != nil {
			return err
		}
	}

	for _, k := range sysprobe.SortedKeys(vals) {
		fmt.Printf("%s=%s\n", k, vals[k])
	}
	return nil
}
