// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package netcfg

import (
	"strconv"

	"github.com/stratastor/logger"
	"github.com/stratastor/netgen/pkg/errors"
)

// Table collects merged interface records and VLAN definitions. Records are
// kept in the order they were first observed so emission is deterministic.
type Table struct {
	log     logger.Logger
	limits  Limits
	records []*InterfaceConfig
	vlans   []VLAN
}

func NewTable(log logger.Logger, limits Limits) *Table {
	return &Table{log: log, limits: limits}
}

func (t *Table) Records() []*InterfaceConfig { return t.records }
func (t *Table) VLANs() []VLAN               { return t.vlans }

// Merge folds a partial record into the table:
//
//  1. A record naming an already-known interface is copied on top of that
//     record.
//  2. A record without an interface merges into every existing record that
//     has one; this models global directives (nameserver=, rd.peerdns=,
//     interface-less rd.route=) applying to already-seen interfaces.
//  3. Otherwise the record is appended.
func (t *Table) Merge(cfg *InterfaceConfig) error {
	if len(t.records) == t.limits.MaxInterfaces {
		return errors.New(errors.MergeTooManyInterfaces,
			"more than "+strconv.Itoa(t.limits.MaxInterfaces)+" interfaces")
	}

	found := false
	for _, rec := range t.records {
		if rec.Interface != "" && cfg.Interface != "" && rec.Interface == cfg.Interface {
			return t.copyOnto(cfg, rec)
		}
		if rec.Interface != "" && cfg.Interface == "" {
			if err := t.copyOnto(cfg, rec); err != nil {
				return err
			}
			found = true
		}
	}

	if !found {
		if len(t.records) == t.limits.MaxInterfaces {
			return errors.New(errors.MergeTooManyInterfaces,
				"more than "+strconv.Itoa(t.limits.MaxInterfaces)+" interfaces")
		}
		rec := &InterfaceConfig{Entry: cfg.Entry}
		if err := t.copyOnto(cfg, rec); err != nil {
			return err
		}
		t.records = append(t.records, rec)
	}

	return nil
}

// copyOnto overlays the set fields of cfg onto rec. Gateways and VLAN
// references are additive with fixed slot counts.
func (t *Table) copyOnto(cfg, rec *InterfaceConfig) error {
	if cfg.ClientIP != "" {
		rec.ClientIP = cfg.ClientIP
	}
	if cfg.PeerIP != "" {
		rec.PeerIP = cfg.PeerIP
	}
	if cfg.Gateway != "" {
		// rd.route= contributes a gateway to a record that may already
		// have one from ip=; the previous gateway moves to the second
		// route slot.
		if rec.Gateway != "" {
			if rec.Gateway1 != "" {
				return errors.New(errors.MergeTooManyGateways, rec.Interface)
			}
			rec.Gateway1 = rec.Gateway
		}
		rec.Gateway = cfg.Gateway
	}
	if cfg.Destination != "" {
		rec.Destination = cfg.Destination
	}
	if cfg.Netmask != 0 {
		rec.Netmask = cfg.Netmask
	}
	if cfg.Hostname != "" {
		rec.Hostname = cfg.Hostname
	}
	if cfg.Interface != "" {
		rec.Interface = cfg.Interface
	}
	if cfg.Autoconf != "" {
		rec.Autoconf = cfg.Autoconf
	}
	if cfg.UseDNS != UseDNSUnset {
		rec.UseDNS = cfg.UseDNS
	}
	if cfg.DNS1 != "" {
		rec.DNS1 = cfg.DNS1
	}
	if cfg.DNS2 != "" {
		rec.DNS2 = cfg.DNS2
	}
	if cfg.NTP != "" {
		rec.NTP = cfg.NTP
	}
	if cfg.MTU != "" {
		rec.MTU = cfg.MTU
	}
	if cfg.MACAddr != "" {
		rec.MACAddr = cfg.MACAddr
	}
	if cfg.Domains != "" {
		rec.Domains = cfg.Domains
	}
	for _, id := range cfg.VLANRefs {
		if len(rec.VLANRefs) >= t.limits.MaxVLANRefs {
			return errors.New(errors.MergeTooManyVLANRefs, rec.Interface)
		}
		rec.VLANRefs = append(rec.VLANRefs, id)
	}

	return nil
}

// RegisterVLAN records a VLAN definition under its textual name. Duplicate
// ids are ignored; the first name wins.
func (t *Table) RegisterVLAN(id int, name string) error {
	for _, v := range t.vlans {
		if v.ID == id {
			return nil
		}
	}
	if len(t.vlans)+1 == t.limits.MaxVLANs {
		return errors.New(errors.MergeTooManyVLANs, name)
	}
	t.vlans = append(t.vlans, VLAN{ID: id, Name: name})
	t.log.Debug("Stored VLAN id", "id", id, "name", name)
	return nil
}

// LookupVLAN returns the name registered for a VLAN id.
func (t *Table) LookupVLAN(id int) (string, bool) {
	for _, v := range t.vlans {
		if v.ID == id {
			return v.Name, true
		}
	}
	return "", false
}
