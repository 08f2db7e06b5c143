// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package netcfg

import (
	"bufio"
	"os"
	"strings"

	"github.com/stratastor/logger"
	"github.com/stratastor/netgen/pkg/errors"
)

// Options controls a generator run.
type Options struct {
	// OutputDir receives the generated .network and .netdev fragments.
	OutputDir string

	// ParseAll enables the ip=, nameserver=, rd.peerdns=, rd.route= and
	// vlan= prefixes on the kernel command line. Without it only ifcfg=
	// is consumed there; the other prefixes are presumed handled by the
	// host's own network generator. Configuration files always activate
	// every prefix.
	ParseAll bool

	Limits Limits
}

// Generator parses network directives and emits networkd-style
// configuration fragments.
type Generator struct {
	log   logger.Logger
	opts  Options
	table *Table

	// VLAN ids declared through ifcfg= interface suffixes; they get
	// their own netdev files, distinct from the vlan= table.
	ifcfgVLANs []int
}

func New(log logger.Logger, opts Options) *Generator {
	if opts.Limits == (Limits{}) {
		opts.Limits = DefaultLimits()
	}
	return &Generator{
		log:   log,
		opts:  opts,
		table: NewTable(log, opts.Limits),
	}
}

// Table exposes the merged records, mainly for tests.
func (g *Generator) Table() *Table { return g.table }

// directivePrefixes are the value prefixes recognized on the kernel
// command line when ParseAll is set; configuration files accept them
// unconditionally.
var directivePrefixes = []string{
	"ip=",
	"nameserver=",
	"rd.peerdns=",
	"rd.route=",
	"vlan=",
}

func hasDirectivePrefix(token string) bool {
	for _, p := range directivePrefixes {
		if strings.HasPrefix(token, p) {
			return true
		}
	}
	return false
}

// parseDirective dispatches a recognized non-ifcfg directive to its
// syntactic sub-parser.
func (g *Generator) parseDirective(token string, cfg *InterfaceConfig) error {
	switch {
	case strings.HasPrefix(token, "ip="):
		return parseIPArg(token[len("ip="):], cfg)
	case strings.HasPrefix(token, "nameserver="):
		return parseNameserverArg(token[len("nameserver="):], cfg)
	case strings.HasPrefix(token, "rd.peerdns="):
		return parsePeerDNSArg(token[len("rd.peerdns="):], cfg)
	case strings.HasPrefix(token, "rd.route="):
		return parseRouteArg(token[len("rd.route="):], cfg)
	case strings.HasPrefix(token, "vlan="):
		return g.parseVLANArg(token[len("vlan="):], cfg)
	}
	return errors.New(errors.ParseUnknownDirective, token)
}

// isSoft reports whether an error may be skipped on the kernel command
// line. Syntax errors are soft there; capacity and I/O errors always
// abort the run.
func isSoft(err error) bool {
	ne, ok := errors.IsNetgenError(err)
	return ok && ne.Domain == errors.DomainParse
}

func (g *Generator) reportSyntaxError(entry int, token string, err error) {
	g.log.Error("Syntax error in entry", "entry", entry, "token", token, "err", err)
}

// stripValueQuotes removes one level of double quotes wrapped around an
// ifcfg= value on the kernel command line.
func stripValueQuotes(val string) string {
	if strings.HasPrefix(val, `"`) {
		val = val[1:]
		if strings.HasSuffix(val, `"`) {
			val = val[:len(val)-1]
		}
	}
	return val
}

// splitCmdline tokenizes a kernel command line. Double quotes group
// spaces into a single token and are kept in place; the ifcfg= handler
// strips them from its value.
func splitCmdline(line string) []string {
	var tokens []string
	var b strings.Builder
	inQuote := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '"' {
			inQuote = !inQuote
		}
		if c == ' ' && !inQuote {
			tokens = append(tokens, b.String())
			b.Reset()
			continue
		}
		b.WriteByte(c)
	}
	tokens = append(tokens, b.String())

	return tokens
}

// ProcessCmdline parses a kernel command line. Tokens with unrecognized
// prefixes are ignored; a token that fails to parse is skipped with a
// logged diagnostic and does not affect the remaining tokens.
func (g *Generator) ProcessCmdline(line string) error {
	line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
	g.log.Debug("Parsing kernel command line", "cmdline", line)

	nr := 1
	for _, token := range splitCmdline(line) {
		if token == "" {
			continue
		}

		if strings.HasPrefix(token, "ifcfg=") {
			entry := nr
			nr++
			val := stripValueQuotes(token[len("ifcfg="):])
			if err := g.parseIfcfgArg(entry, val); err != nil {
				if !isSoft(err) {
					return err
				}
				g.reportSyntaxError(entry, val, err)
				g.log.Warn("Skipping entry due to errors", "entry", entry)
			}
			continue
		}

		if !g.opts.ParseAll || !hasDirectivePrefix(token) {
			continue
		}

		entry := nr
		nr++
		cfg := &InterfaceConfig{Entry: entry}
		if err := g.parseDirective(token, cfg); err != nil {
			if !isSoft(err) {
				return err
			}
			g.reportSyntaxError(entry, token, err)
			continue
		}
		if err := g.table.Merge(cfg); err != nil {
			return err
		}
	}

	return nil
}

// ProcessCmdlineFile reads the kernel command line from a pseudo-file,
// usually /proc/cmdline.
func (g *Generator) ProcessCmdlineFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, errors.ParseInputReadFailed).WithMetadata("path", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return errors.Wrap(err, errors.ParseInputReadFailed).WithMetadata("path", path)
		}
		return nil
	}

	return g.ProcessCmdline(scanner.Text())
}

// ProcessArgs treats positional arguments as kernel-command-line text.
func (g *Generator) ProcessArgs(args []string) error {
	return g.ProcessCmdline(strings.Join(args, " "))
}

// ProcessConfigFile parses a line-oriented configuration file. Blank and
// #-comment lines are skipped; every retained line must carry a known
// directive, and any error aborts with the offending line number.
func (g *Generator) ProcessConfigFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, errors.ParseInputReadFailed).WithMetadata("path", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if err := g.processConfigLine(lineNum, line); err != nil {
			if _, ok := errors.IsNetgenError(err); ok {
				g.reportSyntaxError(lineNum, line, err)
			}
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, errors.ParseInputReadFailed).WithMetadata("path", path)
	}

	return nil
}

func (g *Generator) processConfigLine(lineNum int, line string) error {
	if strings.HasPrefix(line, "ifcfg=") {
		return g.parseIfcfgArg(lineNum, line[len("ifcfg="):])
	}

	if !hasDirectivePrefix(line) {
		return errors.New(errors.ParseUnknownDirective, line)
	}

	cfg := &InterfaceConfig{Entry: lineNum}
	if err := g.parseDirective(line, cfg); err != nil {
		return err
	}
	return g.table.Merge(cfg)
}
