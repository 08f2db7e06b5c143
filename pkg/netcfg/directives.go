// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package netcfg

import (
	"strconv"
	"strings"

	"github.com/stratastor/netgen/pkg/errors"
)

// parseNameserverArg handles nameserver=<ip>. The server applies to every
// interface seen so far, so the record stays free.
func parseNameserverArg(arg string, cfg *InterfaceConfig) error {
	addr := arg
	if strings.HasPrefix(addr, "[") && strings.HasSuffix(addr, "]") {
		addr = addr[1 : len(addr)-1]
	}
	if addr == "" || !isIPAddr(addr) {
		return errors.New(errors.ParseSyntax, arg)
	}
	cfg.DNS1 = addr
	return nil
}

// parsePeerDNSArg handles rd.peerdns=0|1.
func parsePeerDNSArg(arg string, cfg *InterfaceConfig) error {
	switch arg {
	case "0":
		cfg.UseDNS = UseDNSNo
	case "1":
		cfg.UseDNS = UseDNSYes
	default:
		return errors.New(errors.ParseInvalidPeerDNS, arg)
	}
	return nil
}

// takeRouteToken splits the next ':'-separated token off a rd.route=
// value. Bracketed IPv6 literals (which contain colons, and may carry a
// prefix length inside the brackets) are unwrapped.
func takeRouteToken(s string) (token, rest string, err error) {
	if strings.HasPrefix(s, "[") {
		end := strings.IndexByte(s, ']')
		if end <= 1 {
			return "", "", errors.New(errors.ParseSyntax, "unterminated IPv6 bracket")
		}
		token = s[1:end]
		rest = s[end+1:]
		if rest == "" {
			return token, "", nil
		}
		if !strings.HasPrefix(rest, ":") {
			return "", "", errors.New(errors.ParseSyntax, "trailing IPv6 bracket")
		}
		return token, rest[1:], nil
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return s[:i], s[i+1:], nil
	}
	return s, "", nil
}

// parseRouteArg handles rd.route=<destination>[:<gateway>][:<interface>].
func parseRouteArg(arg string, cfg *InterfaceConfig) error {
	dest, rest, err := takeRouteToken(arg)
	if err != nil {
		return err
	}
	if dest == "" {
		return errors.New(errors.ParseSyntax, arg)
	}
	cfg.Destination = dest

	if rest == "" {
		return nil
	}

	gw, rest, err := takeRouteToken(rest)
	if err != nil {
		return err
	}
	cfg.Gateway = gw

	if rest != "" {
		cfg.Interface = rest
	}

	return nil
}

// vlanIDFromName extracts the VLAN id from the digit suffix of a VLAN
// interface name. All four dracut naming styles are supported:
// vlan0005, vlan5, eth0.0005 and eth0.5.
func vlanIDFromName(name string) (int, error) {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == 0 || i == len(name) {
		// all digits, or no digit suffix at all
		return 0, errors.New(errors.ParseInvalidVLANID, name)
	}
	id, err := strconv.Atoi(name[i:])
	if err != nil || id < 1 || id > 4095 {
		return 0, errors.New(errors.ParseInvalidVLANID, name)
	}
	return id, nil
}

// parseVLANArg handles vlan=<vlan-name>:<parent-interface>. The definition
// lands in the VLAN table under its textual name; the parent record gains
// a VLAN reference.
func (g *Generator) parseVLANArg(arg string, cfg *InterfaceConfig) error {
	name, parent, found := strings.Cut(arg, ":")
	if !found || name == "" || parent == "" {
		return errors.New(errors.ParseSyntax, arg)
	}

	id, err := vlanIDFromName(name)
	if err != nil {
		return err
	}

	if err := g.table.RegisterVLAN(id, name); err != nil {
		return err
	}

	cfg.Interface = parent
	cfg.VLANRefs = append(cfg.VLANRefs, id)

	return nil
}
