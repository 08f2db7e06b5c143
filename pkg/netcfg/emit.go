// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package netcfg

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/stratastor/netgen/internal/constants"
	"github.com/stratastor/netgen/pkg/errors"
)

// PrepareOutputDir creates the output directory if it does not exist.
// ifcfg= fragments are written while parsing, so this must run before
// any input is processed.
func (g *Generator) PrepareOutputDir() error {
	if err := os.MkdirAll(g.opts.OutputDir, 0755); err != nil {
		return errors.Wrap(err, errors.EmitDirectoryFailed).WithMetadata("path", g.opts.OutputDir)
	}
	return nil
}

// WriteConfigs emits one .network file per merged record and one .netdev
// file per VLAN definition. Interface files come first so that a consumer
// reading in emission order sees every VLAN= reference satisfied by the
// time the netdev files exist.
func (g *Generator) WriteConfigs() error {
	for i, rec := range g.table.Records() {
		if err := g.writeNetworkFile(i+1, rec); err != nil {
			return err
		}
	}

	for _, vlan := range g.table.VLANs() {
		if err := g.writeNetdevFile(vlan); err != nil {
			return err
		}
	}

	return g.writeIfcfgNetdevFiles()
}

// configFile accumulates INI-like sections and flushes them in one write.
type configFile struct {
	path     string
	b        strings.Builder
	sections int
}

func newConfigFile(path string) *configFile {
	return &configFile{path: path}
}

func (c *configFile) section(name string) {
	if c.sections > 0 {
		c.b.WriteByte('\n')
	}
	c.sections++
	c.b.WriteString("[" + name + "]\n")
}

func (c *configFile) line(key, value string) {
	c.b.WriteString(key + "=" + value + "\n")
}

func (c *configFile) lines(key, list string) {
	for _, item := range strings.Fields(list) {
		c.line(key, item)
	}
}

func (c *configFile) flush() error {
	if err := os.WriteFile(c.path, []byte(c.b.String()), 0644); err != nil {
		return errors.Wrap(err, errors.EmitWriteFailed).WithMetadata("path", c.path)
	}
	return nil
}

// matchSection writes the [Match] selector for an interface spec:
// catch-all for empty or "*", MAC match when the spec contains ':',
// plain (possibly globbed) name otherwise.
func matchSection(c *configFile, iface string) {
	c.section("Match")
	switch {
	case iface == "" || iface == "*":
		c.line("Kind", "!*")
		c.line("Type", "!loopback")
	case strings.Contains(iface, ":"):
		c.line("Name", "*")
		c.line("MACAddress", iface)
	default:
		c.line("Name", iface)
	}
}

func (g *Generator) writeNetworkFile(entry int, cfg *InterfaceConfig) error {
	path := filepath.Join(g.opts.OutputDir,
		fmt.Sprintf("%s-%02d.network", constants.NetworkFilePrefix, entry))

	g.log.Debug("Writing network config", "entry", entry, "path", path)

	c := newConfigFile(path)

	matchSection(c, cfg.Interface)

	if cfg.MTU != "" || cfg.MACAddr != "" {
		c.section("Link")
		if cfg.MACAddr != "" {
			c.line("MACAddress", cfg.MACAddr)
		}
		if cfg.MTU != "" {
			c.line("MTUBytes", cfg.MTU)
		}
	}

	if cfg.Autoconf != "" || cfg.DNS1 != "" || cfg.DNS2 != "" ||
		cfg.NTP != "" || cfg.Domains != "" || len(cfg.VLANRefs) > 0 {
		c.section("Network")
		if cfg.Autoconf != "" {
			if dhcp, ok := DHCPSetting(cfg.Autoconf); ok {
				c.line("DHCP", dhcp)
				if cfg.Autoconf == "off" {
					c.line("LinkLocalAddressing", "no")
					c.line("IPv6AcceptRA", "no")
				}
			} else {
				g.log.Warn("Unknown autoconf option, omitting DHCP setting",
					"autoconf", cfg.Autoconf, "entry", cfg.Entry)
			}
		}
		if cfg.DNS1 != "" {
			c.line("DNS", cfg.DNS1)
		}
		if cfg.DNS2 != "" {
			c.line("DNS", cfg.DNS2)
		}
		if cfg.Domains != "" {
			c.line("Domains", cfg.Domains)
		}
		if cfg.NTP != "" {
			c.line("NTP", cfg.NTP)
		}
		for _, id := range cfg.VLANRefs {
			name, ok := g.table.LookupVLAN(id)
			if !ok {
				return errors.New(errors.EmitUnknownVLAN, strconv.Itoa(id))
			}
			c.line("VLAN", name)
		}
	}

	// A hostname of "*" is the catch-all placeholder and is not a real
	// DHCP client hostname.
	hostname := cfg.Hostname
	if hostname == "*" {
		hostname = ""
	}
	if hostname != "" || cfg.UseDNS != UseDNSUnset {
		c.section("DHCP")
		if hostname != "" {
			c.line("Hostname", hostname)
		}
		switch cfg.UseDNS {
		case UseDNSNo:
			c.line("UseDNS", "no")
		case UseDNSYes:
			c.line("UseDNS", "yes")
		}
	}

	if cfg.ClientIP != "" {
		c.section("Address")
		c.line("Address", fmt.Sprintf("%s/%d", cfg.ClientIP, cfg.Netmask))
		if cfg.PeerIP != "" {
			c.line("Peer", cfg.PeerIP)
		}
	}

	if cfg.Gateway != "" || cfg.Destination != "" {
		c.section("Route")
		if cfg.Destination != "" {
			c.line("Destination", cfg.Destination)
		}
		if cfg.Gateway != "" {
			c.line("Gateway", cfg.Gateway)
		}
	}

	if cfg.Gateway1 != "" {
		c.section("Route")
		c.line("Gateway", cfg.Gateway1)
	}

	return c.flush()
}

func (g *Generator) writeNetdevFile(vlan VLAN) error {
	path := filepath.Join(g.opts.OutputDir,
		fmt.Sprintf("%s-%s.netdev", constants.NetdevFilePrefix, vlan.Name))

	g.log.Debug("Creating vlan netdev", "path", path, "id", vlan.ID)

	c := newConfigFile(path)
	c.section("NetDev")
	c.line("Name", vlan.Name)
	c.line("Kind", "vlan")
	c.section("VLAN")
	c.line("Id", strconv.Itoa(vlan.ID))

	return c.flush()
}
