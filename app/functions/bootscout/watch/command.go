// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package watch re-runs identification whenever the host cloud configuration
// changes. It is a debugging aid for image builds; the boot path runs
// identify exactly once.
package watch

import (
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/cloudzero/bootscout/app/functions/bootscout/identify"
)

const FlagWrite = "write"

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "re-run identification when the cloud configuration changes",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: FlagWrite, Usage: "publish the fragment on every pass instead of only logging"},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	settings, err := identify.LoadSettings(c)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer watcher.Close()

	paths := settings.Paths()
	watched := 0
	for _, dir := range []string{paths.EtcCloud, paths.CloudCfgD} {
		if err := watcher.Add(dir); err != nil {
			log.Ctx(c.Context).Warn().Err(err).Str("dir", dir).Msg("cannot watch directory")
			continue
		}
		watched++
	}
	if watched == 0 {
		return cli.Exit("no cloud configuration directory to watch", 1)
	}

	write := c.Bool(FlagWrite)
	pass := func(trigger string) {
		decision, err := identify.Identify(c.Context, settings, write)
		if err != nil {
			log.Ctx(c.Context).Error().Err(err).Msg("identification pass failed")
			return
		}
		log.Ctx(c.Context).Info().
			Str("trigger", trigger).
			Bool("found", decision.Found).
			Strs("list", decision.List).
			Msg("identification pass")
	}
	pass("startup")

	for {
		select {
		case <-c.Context.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			pass(ev.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Ctx(c.Context).Warn().Err(err).Msg("watcher error")
		}
	}
}
