// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package identify implements the identification command: collect the host
// signals, resolve the cloud configuration, evaluate the platform checks
// under the effective policy, and publish the datasource fragment.
package identify

import (
	"bytes"
	"context"
	"os"

	"github.com/go-obvious/timestamp"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	config "github.com/cloudzero/bootscout/app/config/bootscout"
	"github.com/cloudzero/bootscout/app/domain/detect"
	"github.com/cloudzero/bootscout/app/domain/emit"
	"github.com/cloudzero/bootscout/app/domain/policy"
	"github.com/cloudzero/bootscout/app/domain/sysprobe"
	"github.com/cloudzero/bootscout/app/types"
)

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:    "identify",
		Usage:   "identify the platform and publish the datasource fragment",
		Aliases: []string{"id"},
		Action:  Action,
	}
}

// Action runs one identification pass and maps the outcome to the exit
// status: zero for FOUND, one for NOT_FOUND.
func Action(c *cli.Context) error {
	settings, err := LoadSettings(c)
	if err != nil {
		return err
	}

	decision, err := Identify(c.Context, settings, true)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if !decision.Found {
		return cli.Exit("", 1)
	}
	return nil
}

// LoadSettings builds the engine settings from the optional settings file,
// the environment, and the command line overrides, in that order.
func LoadSettings(c *cli.Context) (*config.Settings, error) {
	settings, err := config.NewSettings(c.String(config.FlagConfigFile))
	if err != nil {
		return nil, err
	}

	if c.IsSet(config.FlagRoot) {
		settings.Root = c.String(config.FlagRoot)
	}
	if c.IsSet(config.FlagPolicy) {
		settings.Policy = c.String(config.FlagPolicy)
	}
	if c.IsSet(config.FlagDMISource) {
		settings.DMISource = c.String(config.FlagDMISource)
	}
	if c.IsSet(config.FlagEC2StrictID) {
		settings.EC2StrictID = c.String(config.FlagEC2StrictID)
	}
	if c.IsSet(config.FlagLogLevel) {
		settings.Logging.Level = c.String(config.FlagLogLevel)
	}
	if c.IsSet(config.FlagLogFile) {
		settings.Logging.Location = c.String(config.FlagLogFile)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Identify runs one full pass: collect, resolve, evaluate, publish. The
// decision is returned so callers that re-run (such as watch) can log it;
// write false skips the fragment.
func Identify(ctx context.Context, settings *config.Settings, write bool) (*policy.Decision, error) {
	started := timestamp.Milli()

	paths := settings.Paths()
	var opts []sysprobe.Option
	if settings.DMISource != "" {
		opts = append(opts, sysprobe.WithDMISource(settings.DMISource))
	}
	sig := sysprobe.NewCollector(paths, opts...).Collect(ctx)

	cfg := config.Resolve(paths, sig.KernelCmdline)

	// the kernel command line outranks the engine's own policy override,
	// which outranks the host override file
	def := policy.Default(sig.DMI.Obtained)
	policyStr := cfg.EffectivePolicy()
	if cfg.CmdlinePolicy == "" && settings.Policy != "" {
		policyStr = settings.Policy
	}
	spec := def
	if policyStr != "" {
		spec = policy.Parse(policyStr, def)
	}

	strictID := settings.EC2StrictID
	if strictID == "" {
		strictID = cfg.EC2StrictID
	}
	if strictID == "" {
		strictID = config.DefaultEC2StrictID
	}

	decision := policy.Evaluate(spec, detect.Registry(), sig, cfg, strictID)

	writeDump(settings, sig, &decision)

	if write && decision.WriteFragment && len(decision.List) > 0 {
		path := emit.FragmentPath(paths, sig.Uname.KernelName)
		if err := emit.WriteFragment(path, decision.List, decision.Report); err != nil {
			return &decision, err
		}
		log.Ctx(ctx).Info().
			Str("path", path).
			Strs("list", decision.List).
			Msg("published the datasource fragment")
	}

	report := types.Report{
		ID:           uuid.NewString(),
		StartedMilli: started,
		Found:        decision.Found,
		List:         decision.List,
		Verdicts:     decision.Verdicts,
	}
	log.Ctx(ctx).Debug().Interface("report", report).Msg("identification complete")

	return &decision, nil
}

// writeDump sends the name=value diagnostic dump to the configured log file,
// or stderr. Never stdout and never the fragment.
func writeDump(settings *config.Settings, sig *types.Signals, d *policy.Decision) {
	var buf bytes.Buffer
	emit.Dump(&buf, sig, d)

	if settings.Logging.Location != "" {
		f, err := os.OpenFile(settings.Logging.Location, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			defer f.Close()
			_, _ = f.Write(buf.Bytes())
			return
		}
	}
	_, _ = os.Stderr.Write(buf.Bytes())
}
