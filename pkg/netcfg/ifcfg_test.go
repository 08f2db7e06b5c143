// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package netcfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratastor/netgen/pkg/errors"
)

func TestIfcfgDHCPVariants(t *testing.T) {
	dir := runCmdline(t, false,
		`ifcfg=*=dhcp ifcfg=00:11:22:33:44:55=dhcp,rfc2132 `+
			`ifcfg="eth1=192.168.0.2/24 192.158.10.12/24,192.168.0.1,8.8.8.8,mydomain.com"`)

	assert.ElementsMatch(t, []string{
		"66-ifcfg-dev-01.network",
		"66-ifcfg-dev-02.network",
		"66-ifcfg-dev-03.network",
	}, listFiles(t, dir))

	assert.Equal(t, `[Match]
Name=*

[Network]
DHCP=yes

[DHCPv4]
UseHostname=false
UseDNS=true
UseNTP=true

[DHCPv6]
UseHostname=false
UseDNS=true
UseNTP=true
`, readFile(t, dir, "66-ifcfg-dev-01.network"))

	assert.Equal(t, `[Match]
Name=*
MACAddress=00:11:22:33:44:55

[Network]
DHCP=yes

[DHCPv4]
UseHostname=false
UseDNS=true
UseNTP=true
ClientIdentifier=mac

[DHCPv6]
UseHostname=false
UseDNS=true
UseNTP=true
`, readFile(t, dir, "66-ifcfg-dev-02.network"))

	assert.Equal(t, `[Match]
Name=eth1

[Network]
Address=192.168.0.2/24
Address=192.158.10.12/24
Gateway=192.168.0.1
DNS=8.8.8.8
Domains=mydomain.com
`, readFile(t, dir, "66-ifcfg-dev-03.network"))
}

func TestIfcfgDHCPFamilies(t *testing.T) {
	dir := runCmdline(t, false, "ifcfg=eth0=dhcp4 ifcfg=eth1=dhcp6")

	v4 := readFile(t, dir, "66-ifcfg-dev-01.network")
	assert.Contains(t, v4, "DHCP=ipv4\n")
	assert.Contains(t, v4, "[DHCPv4]")
	assert.NotContains(t, v4, "[DHCPv6]")

	v6 := readFile(t, dir, "66-ifcfg-dev-02.network")
	assert.Contains(t, v6, "DHCP=ipv6\n")
	assert.Contains(t, v6, "[DHCPv6]")
	assert.NotContains(t, v6, "[DHCPv4]")
}

func TestIfcfgVLANTagging(t *testing.T) {
	dir := runCmdline(t, false,
		"ifcfg=eth0.66=10.0.1.1/24,10.0.1.254 ifcfg=eth0.67=dhcp ifcfg=eth1.33=dhcp")

	assert.ElementsMatch(t, []string{
		"66-ifcfg-dev-01.network",
		"66-ifcfg-dev-02.network",
		"66-ifcfg-dev-03.network",
		"64-ifcfg-vlan-eth0.network",
		"64-ifcfg-vlan-eth1.network",
		"62-ifcfg-vlan0066.netdev",
		"62-ifcfg-vlan0067.netdev",
		"62-ifcfg-vlan0033.netdev",
	}, listFiles(t, dir))

	assert.Equal(t, `[Match]
Name=Vlan0066
Type=vlan

[Network]
Address=10.0.1.1/24
Gateway=10.0.1.254
`, readFile(t, dir, "66-ifcfg-dev-01.network"))

	assert.Contains(t, readFile(t, dir, "66-ifcfg-dev-02.network"), "Name=Vlan0067\nType=vlan\n")
	assert.Contains(t, readFile(t, dir, "66-ifcfg-dev-03.network"), "Name=Vlan0033\nType=vlan\n")

	// The parent fragment is created by the first VLAN and extended by
	// later ones.
	parent := readFile(t, dir, "64-ifcfg-vlan-eth0.network")
	assert.Equal(t, `[Match]
Name=eth0
Type=ether

[Network]
Description=The unconfigured physical ethernet device
VLAN=Vlan0066
# 'tagged only' setup
LinkLocalAddressing=no
LLDP=no
EmitLLDP=no
IPv6AcceptRA=no
IPv6SendRA=no
VLAN=Vlan0067
`, parent)

	assert.Equal(t, `[NetDev]
Name=Vlan0066
Kind=vlan

[VLAN]
Id=66
`, readFile(t, dir, "62-ifcfg-vlan0066.netdev"))
}

func TestIfcfgSyntaxErrors(t *testing.T) {
	g := newTestGenerator(t, false)

	t.Run("MissingEquals", func(t *testing.T) {
		err := g.parseIfcfgArg(1, "eth0")
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ParseSyntax))
	})

	t.Run("EmptyConfig", func(t *testing.T) {
		err := g.parseIfcfgArg(1, "eth0=")
		require.Error(t, err)
	})

	t.Run("VLANIDOutOfRange", func(t *testing.T) {
		err := g.parseIfcfgArg(1, "eth0.4096=dhcp")
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ParseInvalidVLANID))

		err = g.parseIfcfgArg(1, "eth0.0=dhcp")
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ParseInvalidVLANID))
	})

	t.Run("SkippedOnCmdline", func(t *testing.T) {
		// A broken ifcfg token must not disturb its neighbors.
		dir := runCmdline(t, false, "ifcfg=broken ifcfg=eth0=dhcp")
		assert.Equal(t, []string{"66-ifcfg-dev-02.network"}, listFiles(t, dir))
	})
}
