// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package constants

// Build-time variables set via ldflags
var (
	Version   = "v0.0.1-dev" // Set via -X flag during build
	CommitSHA = "unknown"    // Set via -X flag during build
	BuildTime = "unknown"    // Set via -X flag during build
)

const (
	NetgenVersion = "v0.0.1"

	// config
	ConfigFileName = "netgen.yml"
	ConfigEnvVar   = "NETGEN_CONFIG"

	// Default input and output locations
	DefaultOutputDir   = "/run/systemd/network"
	DefaultCmdlinePath = "/proc/cmdline"
	DefaultEfivarsPath = "/sys/firmware/efi/efivars"

	// Output file prefixes. The numeric prefix orders the fragments after
	// the distribution defaults and before local admin overrides.
	NetworkFilePrefix     = "66-ip"
	NetdevFilePrefix      = "62-rdii"
	IfcfgFilePrefix       = "66-ifcfg-dev"
	IfcfgVLANPrefix       = "64-ifcfg-vlan"
	IfcfgVLANNetdevPrefix = "62-ifcfg-vlan"

	// Capacity defaults; overridable through the limits section of the
	// configuration file.
	DefaultMaxInterfaces = 10
	DefaultMaxVLANs      = 10
	DefaultMaxVLANRefs   = 3
)
