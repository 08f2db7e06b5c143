// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package netcfg

import (
	"net"
	"strconv"
	"strings"

	"github.com/stratastor/netgen/pkg/errors"
)

// splitter walks a ':'-delimited directive value. valid mirrors the
// exhausted state of the cursor: once the last token has been taken,
// empty() stays true even though the final token may have been non-empty.
type splitter struct {
	rest  string
	valid bool
}

func newSplitter(s string) *splitter {
	return &splitter{rest: s, valid: true}
}

func (s *splitter) empty() bool {
	return !s.valid || s.rest == ""
}

// next takes the next ':'-separated token.
func (s *splitter) next() string {
	if !s.valid {
		return ""
	}
	if i := strings.IndexByte(s.rest, ':'); i >= 0 {
		tok := s.rest[:i]
		s.rest = s.rest[i+1:]
		return tok
	}
	tok := s.rest
	s.rest = ""
	s.valid = false
	return tok
}

// nextWord takes the next token, failing when required and empty.
func (s *splitter) nextWord(required bool) (string, error) {
	tok := s.next()
	if required && tok == "" {
		return "", errors.New(errors.ParseSyntax, "missing field")
	}
	return tok, nil
}

// errNotIP signals that the token under the cursor is not an IP literal;
// the token itself is returned so the caller may reinterpret it as an
// interface name.
var errNotIP = errors.New(errors.ParseSyntax, "not an IP address")

// nextIP takes the next token as an IP address. IPv6 literals may be
// enclosed in brackets; the brackets are stripped.
func (s *splitter) nextIP(required bool) (string, error) {
	if s.valid && strings.HasPrefix(s.rest, "[") {
		end := strings.IndexByte(s.rest, ']')
		if end <= 1 {
			return "", errors.New(errors.ParseSyntax, "unterminated IPv6 bracket")
		}
		tok := s.rest[1:end]
		tail := s.rest[end+1:]
		// A bracketed literal must be followed by a ':' delimited field.
		if !strings.HasPrefix(tail, ":") || len(tail) < 2 {
			return "", errors.New(errors.ParseSyntax, "trailing IPv6 bracket")
		}
		s.rest = tail[1:]
		return tok, nil
	}

	tok := s.next()
	if tok != "" && !isIPAddr(tok) {
		return tok, errNotIP
	}
	if required && tok == "" {
		return "", errNotIP
	}
	return tok, nil
}

func isIPAddr(token string) bool {
	return net.ParseIP(token) != nil
}

// netmaskToCIDR converts a dotted-quad netmask to its CIDR prefix length.
// Non-contiguous masks are rejected.
func netmaskToCIDR(s string) (int, error) {
	ip := net.ParseIP(s)
	if ip == nil || ip.To4() == nil {
		return 0, errors.New(errors.ParseInvalidNetmask, s)
	}
	ones, bits := net.IPMask(ip.To4()).Size()
	if bits != 32 {
		return 0, errors.New(errors.ParseInvalidNetmask, s)
	}
	if ones == 0 && !ip.Equal(net.IPv4zero) {
		// Size() collapses non-contiguous masks to 0,0
		return 0, errors.New(errors.ParseInvalidNetmask, s)
	}
	return ones, nil
}

func parseNetmaskField(token string) (int, error) {
	if strings.Contains(token, ".") {
		return netmaskToCIDR(token)
	}
	n, err := strconv.Atoi(token)
	if err != nil || n < 0 || n > 128 {
		return 0, errors.New(errors.ParseInvalidNetmask, token)
	}
	return n, nil
}

// parseIPArg parses the historical ip= directive. The form is chosen by
// heuristic:
//
//   - ip={dhcp|on|any|dhcp6|auto6|either6|link6|...}
//   - ip=<interface>:<autoconf>[:[<mtu>][:<macaddr>]]
//   - ip=<client-IP>:[<peer>]:<gateway>:<netmask>:[<hostname>]:<interface>:
//     [<autoconf>][:<dns1>[:<dns2>[:<ntp>]] | :<mtu>:<macaddr>]
func parseIPArg(arg string, cfg *InterfaceConfig) error {
	// No colons at all: the whole value is the autoconf method. A plain
	// client IP lands here too and is rejected later by the autoconf
	// mapping, producing a record without a DHCP line.
	if !strings.Contains(arg, ":") {
		cfg.Autoconf = arg
		return nil
	}

	s := newSplitter(arg)

	token, err := s.nextIP(true)
	if err != nil {
		if err != errNotIP {
			return err
		}
		return parseIPShortForm(token, s, cfg)
	}

	return parseIPLongForm(token, s, cfg)
}

// parseIPShortForm handles <interface>:<autoconf>[:[<mtu>][:<macaddr>]].
func parseIPShortForm(iface string, s *splitter, cfg *InterfaceConfig) error {
	cfg.Interface = iface
	cfg.Autoconf = s.next()

	if s.empty() {
		return nil
	}

	cfg.MTU = s.next()

	if s.valid {
		if s.rest == "" || strings.HasSuffix(s.rest, ":") {
			return errors.New(errors.ParseSyntax, "trailing field separator")
		}
		// The remainder is the MAC address; it contains colons itself.
		cfg.MACAddr = s.rest
	}

	return nil
}

// parseIPLongForm handles the client-IP form.
func parseIPLongForm(clientIP string, s *splitter, cfg *InterfaceConfig) error {
	var token string
	var err error

	cfg.ClientIP = clientIP

	if cfg.PeerIP, err = s.nextIP(false); err != nil {
		return err
	}
	if cfg.Gateway, err = s.nextIP(true); err != nil {
		return err
	}

	if token, err = s.nextWord(true); err != nil {
		return err
	}
	if cfg.Netmask, err = parseNetmaskField(token); err != nil {
		return err
	}

	if cfg.Hostname, err = s.nextWord(false); err != nil {
		return err
	}
	if cfg.Interface, err = s.nextWord(true); err != nil {
		return err
	}
	if cfg.Autoconf, err = s.nextWord(false); err != nil {
		return err
	}

	if s.empty() {
		return nil
	}

	// The tail is either <dns1>[:<dns2>[:<ntp>]] or <mtu>:<macaddr>. A
	// first token that parses as an IP literal selects the DNS reading.
	token = s.next()

	switch {
	case isIPAddr(token):
		cfg.DNS1 = token
		if s.empty() {
			return nil
		}
		if cfg.DNS2, err = s.nextIP(false); err != nil {
			return err
		}
		if !s.empty() {
			if cfg.NTP, err = s.nextIP(false); err != nil {
				return err
			}
		}
		if !s.empty() {
			return errors.New(errors.ParseSyntax, "unexpected trailing fields")
		}

	case token != "":
		cfg.MTU = token
		if s.valid {
			cfg.MACAddr = s.rest
		}

	case !s.empty():
		// Empty first tail token: a remainder with exactly five colons
		// is a MAC address, anything else is a DNS continuation.
		if strings.Count(s.rest, ":") == 5 {
			cfg.MACAddr = s.rest
			return nil
		}
		cfg.DNS2 = s.next()
		if !s.empty() {
			if !isIPAddr(s.rest) {
				return errors.New(errors.ParseSyntax, s.rest)
			}
			cfg.NTP = s.rest
		}
	}

	return nil
}
