// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package errors

import "syscall"

const (
	DomainConfig Domain = "CONFIG"
	DomainParse  Domain = "PARSE"
	DomainMerge  Domain = "MERGE"
	DomainEmit   Domain = "EMIT"
	DomainEFI    Domain = "EFI"
	DomainSystem Domain = "SYSTEM"
)

// ErrorCode represents unique error identifiers
type ErrorCode int

// Domain represents the subsystem where the error originated
type Domain string

type NetgenError struct {
	Code    ErrorCode `json:"code"`
	Domain  Domain    `json:"domain"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`

	// Errno-like process exit status reported when this error aborts a run.
	ExitCode int `json:"-"`

	// Additional contextual information that doesn't fit into the standard
	// error fields: offending token, entry index, file path.
	Metadata map[string]string `json:"metadata,omitempty"`

	wrapped error
}

// Error code ranges:
// 1000-1099: Configuration errors
// 1100-1199: Directive parse errors
// 1200-1299: Record merge errors
// 1300-1399: Config emit errors
// 1400-1499: EFI variable and boot-source errors
// 1500-1599: System errors
const (
	// Configuration Errors (1000-1099)
	ConfigNotFound           = 1000 + iota // Config file not found
	ConfigInvalid                          // Invalid config format
	ConfigLoadFailed                       // Failed to load config
	ConfigWriteFailed                      // Failed to write config
	ConfigDirectoryError                   // Config directory error
	ConfigMarshalFailed                    // Config serialization failed
	ConfigHomeDirectoryError               // Error getting home directory
	ConfigUsageError                       // Mutually exclusive options combined
)

const (
	// Directive Parse Errors (1100-1199)
	ParseSyntax            = 1100 + iota // Malformed directive
	ParseUnknownDirective                // Unrecognized directive prefix
	ParseInvalidVLANID                   // VLAN id out of range
	ParseInvalidNetmask                  // Invalid or non-contiguous netmask
	ParseInvalidAutoconf                 // Unknown autoconf method
	ParseInvalidPeerDNS                  // rd.peerdns value not 0 or 1
	ParseInputReadFailed                 // Failed to read input source
)

const (
	// Record Merge Errors (1200-1299)
	MergeTooManyInterfaces = 1200 + iota // Interface table capacity exceeded
	MergeTooManyVLANs                    // VLAN table capacity exceeded
	MergeTooManyVLANRefs                 // Per-record VLAN reference slots exhausted
	MergeTooManyGateways                 // Per-record gateway slots exhausted
)

const (
	// Config Emit Errors (1300-1399)
	EmitDirectoryFailed = 1300 + iota // Output directory creation failed
	EmitOpenFailed                    // Output file open failed
	EmitWriteFailed                   // Output file write failed
	EmitUnknownVLAN                   // Record references an unregistered VLAN id
)

const (
	// EFI Errors (1400-1499)
	EFIUnsupported      = 1400 + iota // efivars filesystem not available
	EFIVariableNotFound               // EFI variable does not exist
	EFIReadFailed                     // EFI variable read failed
	EFINotRegularFile                 // EFI variable is a directory
	EFISymlink                        // EFI variable is a symlink
	EFIWrongFileType                  // EFI variable is not a regular file
	EFIMalformedUTF16                 // UTF-16 payload malformed
	EFIMalformedVariable              // Variable payload too short or inconsistent
	EFIBootSourceUnknown              // No boot source could be determined
)

const (
	// System Errors (1500-1599)
	OperationFailed = 1500 + iota // Generic operation failed
	OutOfMemory                   // Allocation failure surfaced by the runtime
	LoggerError                   // Logger initialization error
)

var errorDefinitions = map[ErrorCode]struct {
	message  string
	domain   Domain
	exitCode int
}{
	ConfigNotFound:           {"Configuration file not found", DomainConfig, int(syscall.ENOENT)},
	ConfigInvalid:            {"Invalid configuration format", DomainConfig, int(syscall.EINVAL)},
	ConfigLoadFailed:         {"Failed to load configuration", DomainConfig, int(syscall.EIO)},
	ConfigWriteFailed:        {"Failed to write configuration", DomainConfig, int(syscall.EIO)},
	ConfigDirectoryError:     {"Configuration directory error", DomainConfig, int(syscall.EIO)},
	ConfigMarshalFailed:      {"Configuration serialization failed", DomainConfig, int(syscall.EINVAL)},
	ConfigHomeDirectoryError: {"Error resolving home directory", DomainConfig, int(syscall.ENOENT)},
	ConfigUsageError:         {"Invalid combination of options", DomainConfig, int(syscall.EINVAL)},

	ParseSyntax:           {"Syntax error in directive", DomainParse, int(syscall.EINVAL)},
	ParseUnknownDirective: {"Unknown directive", DomainParse, int(syscall.EINVAL)},
	ParseInvalidVLANID:    {"Invalid VLAN interface", DomainParse, int(syscall.EINVAL)},
	ParseInvalidNetmask:   {"Invalid netmask", DomainParse, int(syscall.EINVAL)},
	ParseInvalidAutoconf:  {"Unknown autoconf option", DomainParse, int(syscall.EINVAL)},
	ParseInvalidPeerDNS:   {"Invalid rd.peerdns value", DomainParse, int(syscall.EINVAL)},
	ParseInputReadFailed:  {"Failed to read input", DomainParse, int(syscall.EIO)},

	MergeTooManyInterfaces: {"Too many interfaces", DomainMerge, int(syscall.ENOMEM)},
	MergeTooManyVLANs:      {"Too many VLANs", DomainMerge, int(syscall.ENOMEM)},
	MergeTooManyVLANRefs:   {"More than 3 VLAN ids on one interface", DomainMerge, int(syscall.ENOMEM)},
	MergeTooManyGateways:   {"More than 2 gateways on one record", DomainMerge, int(syscall.ENOMEM)},

	EmitDirectoryFailed: {"Could not create output directory", DomainEmit, int(syscall.EIO)},
	EmitOpenFailed:      {"Failed to open output file for writing", DomainEmit, int(syscall.EIO)},
	EmitWriteFailed:     {"Failed to write output file", DomainEmit, int(syscall.EIO)},
	EmitUnknownVLAN:     {"Record references unknown VLAN id", DomainEmit, int(syscall.ENOKEY)},

	EFIUnsupported:       {"EFI variables are not supported on this system", DomainEFI, int(syscall.EOPNOTSUPP)},
	EFIVariableNotFound:  {"EFI variable not found", DomainEFI, int(syscall.ENOENT)},
	EFIReadFailed:        {"Failed to read EFI variable", DomainEFI, int(syscall.EIO)},
	EFINotRegularFile:    {"EFI variable is a directory", DomainEFI, int(syscall.EISDIR)},
	EFISymlink:           {"EFI variable is a symbolic link", DomainEFI, int(syscall.ELOOP)},
	EFIWrongFileType:     {"EFI variable is not a regular file", DomainEFI, int(syscall.EBADFD)},
	EFIMalformedUTF16:    {"Malformed UTF-16 payload", DomainEFI, int(syscall.EINVAL)},
	EFIMalformedVariable: {"Malformed EFI variable payload", DomainEFI, int(syscall.EINVAL)},
	EFIBootSourceUnknown: {"Boot source could not be determined", DomainEFI, int(syscall.ENOENT)},

	OperationFailed: {"Operation failed", DomainSystem, 1},
	OutOfMemory:     {"Out of memory", DomainSystem, int(syscall.ENOMEM)},
	LoggerError:     {"Logger initialization failed", DomainSystem, 1},
}
