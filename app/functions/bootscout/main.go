// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/cloudzero/bootscout/app/build"
	config "github.com/cloudzero/bootscout/app/config/bootscout"
	"github.com/cloudzero/bootscout/app/functions/bootscout/identify"
	"github.com/cloudzero/bootscout/app/functions/bootscout/probe"
	"github.com/cloudzero/bootscout/app/functions/bootscout/watch"
	"github.com/cloudzero/bootscout/app/logging"
)

func main() {
	ctx := ctrlCHandler()

	app := &cli.App{
		Name:     "bootscout",
		Version:  fmt.Sprintf("%s/%s-%s", build.GetVersion(), runtime.GOOS, runtime.GOARCH),
		Compiled: time.Now(),
		Authors: []*cli.Author{
			{Name: build.AuthorName, Email: build.AuthorEmail},
		},
		Copyright:            build.Copyright,
		Usage:                "identify the cloud platform a host is booting on",
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: config.FlagConfigFile, Aliases: []string{"f"}, Usage: config.FlagDescConfFile},
			&cli.StringFlag{Name: config.FlagRoot, Usage: "alternate root for all host paths"},
			&cli.StringFlag{Name: config.FlagPolicy, Usage: "identification policy override"},
			&cli.StringFlag{Name: config.FlagDMISource, Usage: "pin the hardware descriptor source (sysfs, kenv, sysctl, dmidecode)"},
			&cli.StringFlag{Name: config.FlagEC2StrictID, Usage: "strict identification for EC2-alike platforms (true, false, warn)"},
			&cli.StringFlag{Name: config.FlagLogLevel, Usage: "the log level", Value: "info"},
			&cli.StringFlag{Name: config.FlagLogFile, Usage: "log to this file instead of stderr"},
		},
		Before: func(c *cli.Context) error {
			opts := []logging.OptFunc{
				logging.WithLevel(c.String(config.FlagLogLevel)),
				logging.WithVersion(build.GetVersion()),
			}
			if path := c.String(config.FlagLogFile); path != "" {
				opt, err := logging.WithLogFile(path)
				if err != nil {
					return err
				}
				opts = append(opts, opt)
			}

			logger, err := logging.NewLogger(opts...)
			if err != nil {
				return fmt.Errorf("failed to create the logger: %w", err)
			}
			zerolog.DefaultContextLogger = logger
			c.Context = logger.WithContext(c.Context)
			return nil
		},
		Commands: []*cli.Command{
			identify.NewCommand(),
			probe.NewCommand(),
			watch.NewCommand(),
		},
		// the bare binary identifies, mirroring the boot path invocation
		Action: identify.Action,
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		// exit-coded errors were already handled inside Run
		log.Ctx(ctx).Error().Err(err).Msg("bootscout failed")
		os.Exit(2)
	}
}

func ctrlCHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt)
	go func() {
		<-stopCh
		cancel()
	}()
	return ctx
}
