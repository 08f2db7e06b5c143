// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package netcfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratastor/netgen/pkg/errors"
)

func newTestTable(t *testing.T, limits Limits) *Table {
	return NewTable(newTestLogger(t), limits)
}

func TestMerge(t *testing.T) {
	t.Run("SameInterfaceOverlays", func(t *testing.T) {
		tbl := newTestTable(t, DefaultLimits())

		require.NoError(t, tbl.Merge(&InterfaceConfig{Interface: "eth0", Autoconf: "dhcp"}))
		require.NoError(t, tbl.Merge(&InterfaceConfig{Interface: "eth0", Hostname: "box"}))

		recs := tbl.Records()
		require.Len(t, recs, 1)
		assert.Equal(t, "dhcp", recs[0].Autoconf)
		assert.Equal(t, "box", recs[0].Hostname)
	})

	t.Run("FreeRecordMergesIntoEveryNamedRecord", func(t *testing.T) {
		tbl := newTestTable(t, DefaultLimits())

		require.NoError(t, tbl.Merge(&InterfaceConfig{Interface: "eth0"}))
		require.NoError(t, tbl.Merge(&InterfaceConfig{Interface: "eth1"}))
		require.NoError(t, tbl.Merge(&InterfaceConfig{DNS1: "8.8.8.8"}))

		recs := tbl.Records()
		require.Len(t, recs, 2)
		assert.Equal(t, "8.8.8.8", recs[0].DNS1)
		assert.Equal(t, "8.8.8.8", recs[1].DNS1)
	})

	t.Run("FreeRecordWithoutTargetsAppends", func(t *testing.T) {
		tbl := newTestTable(t, DefaultLimits())

		require.NoError(t, tbl.Merge(&InterfaceConfig{DNS1: "8.8.8.8"}))

		recs := tbl.Records()
		require.Len(t, recs, 1)
		assert.Empty(t, recs[0].Interface)
		assert.Equal(t, "8.8.8.8", recs[0].DNS1)
	})

	t.Run("SecondGatewayMovesToSecondSlot", func(t *testing.T) {
		tbl := newTestTable(t, DefaultLimits())

		require.NoError(t, tbl.Merge(&InterfaceConfig{Interface: "eth0", Gateway: "10.0.0.1"}))
		require.NoError(t, tbl.Merge(&InterfaceConfig{Interface: "eth0", Gateway: "10.0.0.2", Destination: "10.1.0.0/16"}))

		rec := tbl.Records()[0]
		assert.Equal(t, "10.0.0.2", rec.Gateway)
		assert.Equal(t, "10.0.0.1", rec.Gateway1)
		assert.Equal(t, "10.1.0.0/16", rec.Destination)
	})

	t.Run("ThirdGatewayOverflows", func(t *testing.T) {
		tbl := newTestTable(t, DefaultLimits())

		require.NoError(t, tbl.Merge(&InterfaceConfig{Interface: "eth0", Gateway: "10.0.0.1"}))
		require.NoError(t, tbl.Merge(&InterfaceConfig{Interface: "eth0", Gateway: "10.0.0.2"}))
		err := tbl.Merge(&InterfaceConfig{Interface: "eth0", Gateway: "10.0.0.3"})
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.MergeTooManyGateways))
	})

	t.Run("InterfaceCapacity", func(t *testing.T) {
		tbl := newTestTable(t, Limits{MaxInterfaces: 2, MaxVLANs: 10, MaxVLANRefs: 3})

		require.NoError(t, tbl.Merge(&InterfaceConfig{Interface: "eth0"}))
		require.NoError(t, tbl.Merge(&InterfaceConfig{Interface: "eth1"}))
		err := tbl.Merge(&InterfaceConfig{Interface: "eth2"})
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.MergeTooManyInterfaces))
	})

	t.Run("VLANRefSlots", func(t *testing.T) {
		tbl := newTestTable(t, DefaultLimits())

		require.NoError(t, tbl.Merge(&InterfaceConfig{Interface: "eth0", VLANRefs: []int{1}}))
		require.NoError(t, tbl.Merge(&InterfaceConfig{Interface: "eth0", VLANRefs: []int{2}}))
		require.NoError(t, tbl.Merge(&InterfaceConfig{Interface: "eth0", VLANRefs: []int{3}}))
		assert.Equal(t, []int{1, 2, 3}, tbl.Records()[0].VLANRefs)

		err := tbl.Merge(&InterfaceConfig{Interface: "eth0", VLANRefs: []int{4}})
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.MergeTooManyVLANRefs))
	})

	t.Run("EntryIndexOfFirstObservation", func(t *testing.T) {
		tbl := newTestTable(t, DefaultLimits())

		require.NoError(t, tbl.Merge(&InterfaceConfig{Interface: "eth0", Entry: 3}))
		require.NoError(t, tbl.Merge(&InterfaceConfig{Interface: "eth0", Entry: 7, Hostname: "late"}))

		assert.Equal(t, 3, tbl.Records()[0].Entry)
	})
}

func TestRegisterVLAN(t *testing.T) {
	t.Run("DuplicateIDsIgnored", func(t *testing.T) {
		tbl := newTestTable(t, DefaultLimits())

		require.NoError(t, tbl.RegisterVLAN(5, "vlan5"))
		require.NoError(t, tbl.RegisterVLAN(5, "eth0.5"))

		vlans := tbl.VLANs()
		require.Len(t, vlans, 1)
		assert.Equal(t, "vlan5", vlans[0].Name) // first name wins
	})

	t.Run("LookupByID", func(t *testing.T) {
		tbl := newTestTable(t, DefaultLimits())
		require.NoError(t, tbl.RegisterVLAN(99, "vlan99"))

		name, ok := tbl.LookupVLAN(99)
		require.True(t, ok)
		assert.Equal(t, "vlan99", name)

		_, ok = tbl.LookupVLAN(98)
		assert.False(t, ok)
	})

	t.Run("CapacityCheck", func(t *testing.T) {
		tbl := newTestTable(t, Limits{MaxInterfaces: 10, MaxVLANs: 3, MaxVLANRefs: 3})

		require.NoError(t, tbl.RegisterVLAN(1, "vlan1"))
		// The overflow comparison rejects when the next addition would
		// reach capacity, so a capacity of 3 admits two entries.
		require.NoError(t, tbl.RegisterVLAN(2, "vlan2"))
		err := tbl.RegisterVLAN(3, "vlan3")
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.MergeTooManyVLANs))
	})
}

func TestVLANIDFromName(t *testing.T) {
	cases := map[string]int{
		"vlan0005": 5,
		"vlan5":    5,
		"eth0.0005": 5,
		"eth0.5":    5,
		"vlan99":    99,
		"eth1.4095": 4095,
	}
	for name, want := range cases {
		got, err := vlanIDFromName(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	for _, bad := range []string{"vlan", "vlan0", "vlan4096", "12345", "", "eth0."} {
		_, err := vlanIDFromName(bad)
		assert.Error(t, err, bad)
	}
}
