// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package probe exposes the collector mechanisms individually for image
// debugging: each probe prints the raw name=value pairs it would contribute
// to the identification snapshot.
package probe

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/cloudzero/bootscout/app/domain/detect"
	"github.com/cloudzero/bootscout/app/domain/sysprobe"
	"github.com/cloudzero/bootscout/app/functions/bootscout/identify"
	logging "github.com/cloudzero/bootscout/app/logging/probe"
)

const FlagList = "list"

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     "run collector probes and print their name=value pairs",
		ArgsUsage: "[probe|all]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: FlagList, Usage: "list the available probes and platform checks"},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	if c.Bool(FlagList) {
		fmt.Println("probes:")
		for _, p := range sysprobe.Probes() {
			fmt.Printf("  %-8s %s\n", p.Name, p.Description)
		}
		fmt.Println("platform checks (* = descriptor fields only):")
		for _, d := range detect.Registry() {
			mark := ""
			if d.RequiresDMI {
				mark = " *"
			}
			fmt.Printf("  %s%s\n", d.Name, mark)
		}
		return nil
	}

	settings, err := identify.LoadSettings(c)
	if err != nil {
		return err
	}

	logging.SetUpLogging(settings.Logging.Level, logging.LogFormatText)
	if settings.Logging.Location != "" {
		if err := logging.LogToFile(settings.Logging.Location); err != nil {
			return err
		}
	}

	var opts []sysprobe.Option
	if settings.DMISource != "" {
		opts = append(opts, sysprobe.WithDMISource(settings.DMISource))
	}
	collector := sysprobe.NewCollector(settings.Paths(), opts...)

	name := c.Args().First()
	if name == "" {
		name = "all"
	}

	var vals map[string]string
	if name == "all" {
		vals = collector.RunAll(c.Context)
	} else {
		vals, err = collector.RunProbe(name)
		if err != nil {
			return err
		}
	}

	// probe output is the one thing that goes to stdout
	for _, k := range sysprobe.SortedKeys(vals) {
		fmt.Printf("%s=%s\n", k, vals[k])
	}
	return nil
}
