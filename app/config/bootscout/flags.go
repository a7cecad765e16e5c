// SPDX-FileCopyrightText: Copyright (c) 2016-2025, CloudZero, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

// Command line flag names shared by the bootscout commands. Each one
// overrides the matching Settings field.
const (
	FlagConfigFile  = "config"
	FlagRoot        = "root"
	FlagPolicy      = "policy"
	FlagDMISource   = "dmi-source"
	FlagEC2StrictID = "ec2-strict-id"
	FlagLogLevel    = "log-level"
	FlagLogFile     = "log-file"

	FlagDescConfFile = "configuration file with the engine settings"
)
