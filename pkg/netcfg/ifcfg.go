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

// The legacy ifcfg= directive predates the merged record table: each entry
// describes exactly one interface and is written out as soon as it parses.
// Syntax:
//
//	ifcfg=<interface-spec>=<ip-spec>
//
// where <interface-spec> is a name, name.vlanid, MAC or glob, and <ip-spec>
// is either dhcp[,rfc2132] / dhcp4[,rfc2132] / dhcp6[,rfc2132] or the four
// comma-separated lists <IPs>,<gateways>,<DNS>,<search-domains>.
func (g *Generator) parseIfcfgArg(entry int, arg string) error {
	g.log.Debug("Parsing ifcfg entry", "entry", entry, "arg", arg)

	iface, spec, found := strings.Cut(arg, "=")
	if !found {
		return errors.New(errors.ParseSyntax,
			"malformed format, expected 'ifcfg=<iface>=...'")
	}
	if iface == "" || spec == "" {
		return errors.New(errors.ParseSyntax, arg)
	}

	vlanID := 0
	if dot := strings.LastIndexByte(iface, '.'); dot >= 0 {
		idStr := iface[dot+1:]
		id, err := strconv.Atoi(idStr)
		if err != nil || id < 1 || id > 4095 {
			return errors.New(errors.ParseInvalidVLANID, iface)
		}
		vlanID = id
		iface = iface[:dot]

		if err := g.registerIfcfgVLAN(id); err != nil {
			return err
		}
	}

	cfg := InterfaceConfig{Interface: iface, Entry: entry}
	rfc2132 := false

	// IP_LIST,GATEWAY_LIST,NAMESERVER_LIST,DOMAINSEARCH_LIST
	// Anything beyond the fourth comma is discarded.
	fields := strings.Split(spec, ",")
	for len(fields) < 4 {
		fields = append(fields, "")
	}
	fields = fields[:4]
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	if strings.HasPrefix(fields[0], "dhcp") {
		cfg.Autoconf = fields[0]
		if fields[1] == "rfc2132" {
			rfc2132 = true
		}
	} else {
		cfg.ClientIP = fields[0]
		cfg.Gateway = fields[1]
		cfg.DNS1 = fields[2]
		cfg.Domains = fields[3]
	}

	return g.writeIfcfgNetworkFile(entry, &cfg, rfc2132, vlanID)
}

func (g *Generator) registerIfcfgVLAN(id int) error {
	for _, known := range g.ifcfgVLANs {
		if known == id {
			return nil
		}
	}
	if len(g.ifcfgVLANs)+1 == g.opts.Limits.MaxVLANs {
		return errors.New(errors.MergeTooManyVLANs, strconv.Itoa(id))
	}
	g.ifcfgVLANs = append(g.ifcfgVLANs, id)
	g.log.Debug("Stored ifcfg VLAN id", "id", id)
	return nil
}

func (g *Generator) writeIfcfgNetworkFile(entry int, cfg *InterfaceConfig, rfc2132 bool, vlanID int) error {
	path := filepath.Join(g.opts.OutputDir,
		fmt.Sprintf("%s-%02d.network", constants.IfcfgFilePrefix, entry))

	g.log.Debug("Creating ifcfg config", "path", path, "interface", cfg.Interface)

	c := newConfigFile(path)

	c.section("Match")
	if vlanID != 0 {
		c.line("Name", vlanName(vlanID))
		c.line("Type", "vlan")
	} else if strings.Contains(cfg.Interface, ":") {
		c.line("Name", "*")
		c.line("MACAddress", cfg.Interface)
	} else {
		c.line("Name", cfg.Interface)
	}

	c.section("Network")

	dhcpV4 := cfg.Autoconf == "dhcp" || cfg.Autoconf == "dhcp4"
	dhcpV6 := cfg.Autoconf == "dhcp" || cfg.Autoconf == "dhcp6"
	switch cfg.Autoconf {
	case "dhcp":
		c.line("DHCP", "yes")
	case "dhcp4":
		c.line("DHCP", "ipv4")
	case "dhcp6":
		c.line("DHCP", "ipv6")
	}

	// Static entries are space-separated lists, one line per element.
	c.lines("Address", cfg.ClientIP)
	c.lines("Gateway", cfg.Gateway)
	c.lines("DNS", cfg.DNS1)
	if cfg.Domains != "" {
		c.line("Domains", cfg.Domains)
	}

	if dhcpV4 {
		c.section("DHCPv4")
		c.line("UseHostname", "false")
		c.line("UseDNS", "true")
		c.line("UseNTP", "true")
		if rfc2132 {
			c.line("ClientIdentifier", "mac")
		}
	}
	if dhcpV6 {
		c.section("DHCPv6")
		c.line("UseHostname", "false")
		c.line("UseDNS", "true")
		c.line("UseNTP", "true")
	}

	if err := c.flush(); err != nil {
		return err
	}

	if vlanID != 0 {
		return g.writeIfcfgVLANFile(cfg.Interface, vlanID)
	}

	return nil
}

// writeIfcfgVLANFile maintains the fragment that binds a physical parent
// device to its VLANs. The first VLAN creates the file with a tagged-only
// setup; later VLANs on the same parent are appended as additional VLAN=
// lines.
func (g *Generator) writeIfcfgVLANFile(iface string, vlanID int) error {
	path := filepath.Join(g.opts.OutputDir,
		fmt.Sprintf("%s-%s.network", constants.IfcfgVLANPrefix, iface))

	g.log.Debug("Creating vlan parent config", "path", path, "interface", iface, "id", vlanID)

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrap(err, errors.EmitOpenFailed).WithMetadata("path", path)
		}

		c := newConfigFile(path)
		c.section("Match")
		c.line("Name", iface)
		c.line("Type", "ether")

		c.section("Network")
		c.line("Description", "The unconfigured physical ethernet device")
		c.line("VLAN", vlanName(vlanID))
		c.b.WriteString("# 'tagged only' setup\n")
		c.line("LinkLocalAddressing", "no")
		c.line("LLDP", "no")
		c.line("EmitLLDP", "no")
		c.line("IPv6AcceptRA", "no")
		c.line("IPv6SendRA", "no")

		return c.flush()
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrap(err, errors.EmitOpenFailed).WithMetadata("path", path)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "VLAN=%s\n", vlanName(vlanID)); err != nil {
		return errors.Wrap(err, errors.EmitWriteFailed).WithMetadata("path", path)
	}

	return nil
}

// writeIfcfgNetdevFiles emits one netdev definition per VLAN id collected
// from ifcfg= interface suffixes.
func (g *Generator) writeIfcfgNetdevFiles() error {
	for _, id := range g.ifcfgVLANs {
		path := filepath.Join(g.opts.OutputDir,
			fmt.Sprintf("%s%04d.netdev", constants.IfcfgVLANNetdevPrefix, id))

		g.log.Debug("Creating ifcfg vlan netdev", "path", path, "id", id)

		c := newConfigFile(path)
		c.section("NetDev")
		c.line("Name", vlanName(id))
		c.line("Kind", "vlan")
		c.section("VLAN")
		c.line("Id", strconv.Itoa(id))

		if err := c.flush(); err != nil {
			return err
		}
	}
	return nil
}

// vlanName renders the synthetic zero-padded device name used by the
// ifcfg= VLAN path.
func vlanName(id int) string {
	return fmt.Sprintf("Vlan%04d", id)
}
