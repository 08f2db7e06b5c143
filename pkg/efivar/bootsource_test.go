// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package efivar

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratastor/netgen/pkg/errors"
)

// writeVar fabricates an efivarfs file: 4 bytes of attributes followed by
// the payload.
func writeVar(t *testing.T, dir, name, guid string, payload []byte) {
	data := append([]byte{0x07, 0x00, 0x00, 0x00}, payload...)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+"-"+guid), data, 0644))
}

func utf16zBytes(s string) []byte {
	return append(utf16Bytes(s), 0, 0)
}

// bootEntry builds a Boot#### payload: load-option attributes, file-path
// list length, UTF-16 description, device path.
func bootEntry(desc string, devicePath []byte) []byte {
	out := make([]byte, 6)
	binary.LittleEndian.PutUint16(out[4:], uint16(len(devicePath)))
	out = append(out, utf16zBytes(desc)...)
	return append(out, devicePath...)
}

func bootIndex(idx uint16) []byte {
	out := make([]byte, 2)
	binary.LittleEndian.PutUint16(out, idx)
	return out
}

// defaultBootVars installs BootOrder and Boot0000 entries pointing at a
// hard drive, satisfying the default-partition lookup every resolution
// performs.
func defaultBootVars(t *testing.T, dir string) {
	writeVar(t, dir, "BootOrder", GlobalVariableGUID, bootIndex(0))
	writeVar(t, dir, "Boot0000", GlobalVariableGUID,
		bootEntry("default", append(hardDriveNode(), endNode()...)))
}

func TestReadVariable(t *testing.T) {
	dir := t.TempDir()
	r := NewReader(dir, newTestLogger(t))

	t.Run("StripsAttributeHeader", func(t *testing.T) {
		writeVar(t, dir, "Test", GlobalVariableGUID, []byte{1, 2, 3})
		data, err := r.ReadVariable("Test", GlobalVariableGUID)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3}, data)
	})

	t.Run("MissingVariable", func(t *testing.T) {
		_, err := r.ReadVariable("Nope", GlobalVariableGUID)
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("DirectoryRejected", func(t *testing.T) {
		require.NoError(t, os.Mkdir(filepath.Join(dir, "Dir-"+GlobalVariableGUID), 0755))
		_, err := r.ReadVariable("Dir", GlobalVariableGUID)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.EFINotRegularFile))
	})

	t.Run("SymlinkRejected", func(t *testing.T) {
		target := filepath.Join(dir, "Test-"+GlobalVariableGUID)
		link := filepath.Join(dir, "Link-"+GlobalVariableGUID)
		require.NoError(t, os.Symlink(target, link))
		_, err := r.ReadVariable("Link", GlobalVariableGUID)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.EFISymlink))
	})

	t.Run("TruncatedFile", func(t *testing.T) {
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "Short-"+GlobalVariableGUID), []byte{1, 2}, 0644))
		_, err := r.ReadVariable("Short", GlobalVariableGUID)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.EFIMalformedVariable))
	})

	t.Run("ReadString", func(t *testing.T) {
		writeVar(t, dir, "Str", LoaderVendorGUID, utf16zBytes("hello"))
		s, err := r.ReadString("Str", LoaderVendorGUID)
		require.NoError(t, err)
		assert.Equal(t, "hello", s)
	})
}

func TestResolveBootSource(t *testing.T) {
	t.Run("UnsupportedWithoutEfivars", func(t *testing.T) {
		r := NewReader(filepath.Join(t.TempDir(), "absent"), newTestLogger(t))
		_, err := ResolveBootSource(r)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.EFIUnsupported))
	})

	t.Run("LoaderStubURL", func(t *testing.T) {
		dir := t.TempDir()
		writeVar(t, dir, "LoaderDeviceURL", LoaderVendorGUID,
			utf16zBytes("http://boot.example/installer.efi"))
		defaultBootVars(t, dir)

		src, err := ResolveBootSource(NewReader(dir, newTestLogger(t)))
		require.NoError(t, err)
		assert.Equal(t, "http://boot.example/installer.efi", src.URL)
		assert.Empty(t, src.Device)
		assert.Equal(t, "/dev/disk/by-partuuid/"+testPartUUID, src.DefaultPartition)
	})

	t.Run("LoaderStubPartUUIDLowercased", func(t *testing.T) {
		dir := t.TempDir()
		writeVar(t, dir, "LoaderDevicePartUUID", LoaderVendorGUID,
			utf16zBytes("ABCDEF12-3456-7890-ABCD-EF1234567890"))
		writeVar(t, dir, "LoaderImageIdentifier", LoaderVendorGUID,
			utf16zBytes(`\EFI\Linux\installer.efi`))
		writeVar(t, dir, "LoaderEntrySelected", LoaderVendorGUID,
			utf16zBytes("installer"))
		defaultBootVars(t, dir)

		src, err := ResolveBootSource(NewReader(dir, newTestLogger(t)))
		require.NoError(t, err)
		assert.Equal(t, "/dev/disk/by-partuuid/abcdef12-3456-7890-abcd-ef1234567890", src.Device)
		assert.Equal(t, "/EFI/Linux/installer.efi", src.Image)
		assert.Equal(t, "installer", src.Entry)
	})

	t.Run("FallsBackToBootCurrent", func(t *testing.T) {
		dir := t.TempDir()
		writeVar(t, dir, "BootCurrent", GlobalVariableGUID, bootIndex(0x0003))
		writeVar(t, dir, "Boot0003", GlobalVariableGUID,
			bootEntry("UEFI OS", append(hardDriveNode(), endNode()...)))
		defaultBootVars(t, dir)

		src, err := ResolveBootSource(NewReader(dir, newTestLogger(t)))
		require.NoError(t, err)
		assert.Equal(t, "/dev/disk/by-partuuid/"+testPartUUID, src.Device)
		assert.Equal(t, "UEFI OS", src.Entry)
	})

	t.Run("PXEViaMACNode", func(t *testing.T) {
		dir := t.TempDir()
		writeVar(t, dir, "BootCurrent", GlobalVariableGUID, bootIndex(0x0001))
		pxePath := append(node(dtMessaging, dstMsgMACAddr, make([]byte, 33)), endNode()...)
		writeVar(t, dir, "Boot0001", GlobalVariableGUID, bootEntry("PXE IPv4", pxePath))
		defaultBootVars(t, dir)

		src, err := ResolveBootSource(NewReader(dir, newTestLogger(t)))
		require.NoError(t, err)
		assert.True(t, src.PXEBoot)
		assert.Empty(t, src.Device)
	})

	t.Run("NothingUsableFails", func(t *testing.T) {
		dir := t.TempDir()
		src, err := ResolveBootSource(NewReader(dir, newTestLogger(t)))
		require.Error(t, err)
		assert.Nil(t, src)
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestDefaultBootPartition(t *testing.T) {
	t.Run("FirstBootOrderEntry", func(t *testing.T) {
		dir := t.TempDir()
		writeVar(t, dir, "BootOrder", GlobalVariableGUID,
			append(bootIndex(0x0002), bootIndex(0x0001)...))
		writeVar(t, dir, "Boot0002", GlobalVariableGUID,
			bootEntry("disk", append(hardDriveNode(), endNode()...)))

		part, err := NewReader(dir, newTestLogger(t)).DefaultBootPartition()
		require.NoError(t, err)
		assert.Equal(t, "/dev/disk/by-partuuid/"+testPartUUID, part)
	})

	t.Run("NonDiskEntryFails", func(t *testing.T) {
		dir := t.TempDir()
		writeVar(t, dir, "BootOrder", GlobalVariableGUID, bootIndex(0))
		pxePath := append(node(dtMessaging, dstMsgMACAddr, make([]byte, 33)), endNode()...)
		writeVar(t, dir, "Boot0000", GlobalVariableGUID, bootEntry("PXE", pxePath))

		_, err := NewReader(dir, newTestLogger(t)).DefaultBootPartition()
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.EFIBootSourceUnknown))
	})
}
