// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package config implements the configuration surface of the bootscout
// identification engine.
//
// Two layers live here:
//
//   - Settings: the engine's own knobs (alternate root, log destination,
//     policy override, descriptor source pin), loaded from an optional YAML
//     file and environment variables.
//   - Resolved: the narrow view over the host's cloud configuration
//     (cloud.cfg, cloud.cfg.d fragments, ds-identify.cfg, kernel command
//     line) extracting only the datasource list, policy strings, and the
//     handful of keys individual platform checks consult.
//
// Host configuration is never parsed as a general document; unparsable input
// is silently ignored and compiled-in defaults apply.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cloudzero/bootscout/app/types"
)

// DefaultEC2StrictID matches the compiled-in upstream default: an
// unidentifiable EC2-alike platform is not claimed.
const DefaultEC2StrictID = "true"

// Settings configures the engine itself, as opposed to the host
// configuration the resolver reads.
type Settings struct {
	// Root rebases every host path the engine touches. Empty means the real
	// filesystem root; tests and chroot-style invocations set it.
	Root string `yaml:"root" env:"BOOTSCOUT_ROOT" env-description:"alternate root for all host paths"`

	// Policy overrides the identification policy string. Highest precedence
	// after the kernel command line.
	Policy string `yaml:"policy" env:"BOOTSCOUT_POLICY" env-description:"identification policy override"`

	// DMISource pins the hardware descriptor source instead of the
	// sysfs/kenv/sysctl/dmidecode ladder.
	DMISource string `yaml:"dmi_source" env:"BOOTSCOUT_DMI_SOURCE" env-description:"descriptor source: sysfs, kenv, sysctl or dmidecode"`

	// EC2StrictID controls whether an EC2-alike host with no recognizable
	// brand is claimed: true, false, or warn.
	EC2StrictID string `yaml:"ec2_strict_id" env:"BOOTSCOUT_EC2_STRICT_ID" env-description:"strict identification for EC2-alike platforms: true, false or warn"`

	Logging Logging `yaml:"logging"`
}

type Logging struct {
	Level    string `yaml:"level" default:"info" env:"BOOTSCOUT_LOG_LEVEL" env-description:"logging level such as debug, info, error"`
	Location string `yaml:"location" env:"BOOTSCOUT_LOG_FILE" env-description:"log file path; empty logs to stderr"`
}

// NewSettings loads the engine settings from the given YAML files (later
// files override earlier ones) and the environment. Empty file names are
// skipped; passing none loads defaults and environment only.
func NewSettings(configFiles ...string) (*Settings, error) {
	var cfg Settings

	loaded := false
	for _, cfgFile := range configFiles {
		if cfgFile == "" {
			continue
		}

		if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("no config %s", cfgFile)
		}

		if err := cleanenv.ReadConfig(cfgFile, &cfg); err != nil {
			return nil, fmt.Errorf("config read %s: %w", cfgFile, err)
		}
		loaded = true
	}

	if !loaded {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, errors.Wrap(err, "failed to read the environment")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "failed to validate settings")
	}

	return &cfg, nil
}

func (s *Settings) Validate() error {
	s.Root = strings.TrimSpace(s.Root)
	if s.Root != "" {
		s.Root = filepath.Clean(s.Root)
	}

	switch s.DMISource {
	case "", "sysfs", "kenv", "sysctl", "dmidecode":
	default:
		return fmt.Errorf("invalid dmi_source %q", s.DMISource)
	}

	// empty defers to ds-identify.cfg and finally the compiled-in default
	s.EC2StrictID = strings.TrimSpace(s.EC2StrictID)
	switch {
	case s.EC2StrictID == "" || s.EC2StrictID == "true" || s.EC2StrictID == "false":
	case strings.HasPrefix(s.EC2StrictID, "warn"):
	default:
		return fmt.Errorf("invalid ec2_strict_id %q", s.EC2StrictID)
	}

	if s.Logging.Level == "" {
		s.Logging.Level = "info"
	}

	return nil
}

// Paths resolves the well-known host locations under the configured root.
func (s *Settings) Paths() types.Paths {
	return types.NewPaths(s.Root)
}

func (s *Settings) ToYAML() ([]byte, error) {
	raw, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode into yaml: %w", err)
	}
	return raw, nil
}

// ToBytes returns a serialized representation of the data in the class
func (s *Settings) ToBytes() ([]byte, error) {
	return s.ToYAML()
}
