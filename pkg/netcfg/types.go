// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package netcfg

import "github.com/stratastor/netgen/internal/constants"

// UseDNS is the tri-state carried by rd.peerdns=.
type UseDNS int

const (
	UseDNSUnset UseDNS = iota
	UseDNSNo
	UseDNSYes
)

// Limits holds the fixed capacities of the record and VLAN tables. They are
// part of the generator contract; the configuration file may raise them.
type Limits struct {
	MaxInterfaces int
	MaxVLANs      int
	MaxVLANRefs   int
}

func DefaultLimits() Limits {
	return Limits{
		MaxInterfaces: constants.DefaultMaxInterfaces,
		MaxVLANs:      constants.DefaultMaxVLANs,
		MaxVLANRefs:   constants.DefaultMaxVLANRefs,
	}
}

// InterfaceConfig is one partial or merged interface record. Directive
// sub-parsers fill in the fields they recognize; the merge table combines
// records that refer to the same interface.
type InterfaceConfig struct {
	// Interface selects the link: exact name, glob containing '*', or a
	// MAC literal recognized by containing ':'. Empty means a free record.
	Interface string

	ClientIP    string
	PeerIP      string
	Gateway     string
	Gateway1    string // second gateway slot, filled by legacy route merges
	Destination string
	Netmask     int // CIDR prefix length; 0 means unset
	Hostname    string
	Autoconf    string
	UseDNS      UseDNS
	DNS1        string
	DNS2        string
	NTP         string
	MTU         string
	MACAddr     string
	Domains     string

	// VLANRefs holds the ids of VLANs for which this interface is the
	// parent, capacity Limits.MaxVLANRefs.
	VLANRefs []int

	// Entry is the input entry (cmdline token) or line (config file)
	// index that first produced this record; diagnostics reference it.
	Entry int
}

// VLAN is one entry of the VLAN definition table.
type VLAN struct {
	ID   int
	Name string
}

// dhcpSettings maps the symbolic autoconf methods onto the DHCP= primitive
// of the emitted [Network] section. This table is the single source of
// truth for the mapping.
var dhcpSettings = map[string]string{
	"none":       "no",
	"off":        "no",
	"on":         "yes",
	"any":        "yes",
	"dhcp":       "ipv4",
	"dhcp6":      "ipv6",
	"auto6":      "no",
	"either6":    "ipv6",
	"ibft":       "no",
	"link6":      "no",
	"link-local": "no",
}

// DHCPSetting translates an autoconf method into the emitter's DHCP=
// value. The second return is false for unknown methods.
func DHCPSetting(autoconf string) (string, bool) {
	if autoconf == "" {
		return "", false
	}
	v, ok := dhcpSettings[autoconf]
	return v, ok
}
