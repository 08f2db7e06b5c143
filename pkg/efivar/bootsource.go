// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package efivar

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/stratastor/netgen/pkg/errors"
)

// BootSource describes where the currently running binary was booted
// from. At most one of URL, Device and Image is the primary origin; the
// PXE flag stands alone when only network nodes were present.
type BootSource struct {
	URL    string
	Device string
	Image  string

	// Entry is the loader entry or Boot#### description, when one exists.
	Entry string

	// DefaultPartition is the hard-drive partition of the first BootOrder
	// entry, used for secondary lookups next to the boot image.
	DefaultPartition string

	PXEBoot bool
}

// ResolveBootSource determines the boot source through a strategy chain:
// loader-stub variables first, then the BootCurrent device path. The
// default boot partition from BootOrder is resolved afterwards in either
// case. Callers own the returned record.
func ResolveBootSource(r *Reader) (*BootSource, error) {
	if !r.Supported() {
		return nil, errors.New(errors.EFIUnsupported, r.dir)
	}

	src := &BootSource{}

	err := r.loaderStubSource(src)
	if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}
	if errors.IsNotFound(err) {
		if err := r.bootCurrentSource(src); err != nil {
			return nil, err
		}
	}

	part, err := r.DefaultBootPartition()
	if err != nil {
		return nil, err
	}
	src.DefaultPartition = part

	return src, nil
}

// partUUIDPath renders a partition UUID as its stable device path.
func partUUIDPath(id string) string {
	return "/dev/disk/by-partuuid/" + strings.ToLower(id)
}

// loaderStubSource reads the variables a loader stub leaves behind for
// the booted image: the selected entry, a network boot URL, and the
// partition the image was loaded from.
func (r *Reader) loaderStubSource(src *BootSource) error {
	entry, err := r.ReadString("LoaderEntrySelected", LoaderVendorGUID)
	if err != nil && !errors.IsNotFound(err) {
		return err
	}

	url, err := r.ReadString("LoaderDeviceURL", LoaderVendorGUID)
	if err != nil && !errors.IsNotFound(err) {
		return err
	}

	dev, err := r.ReadString("LoaderDevicePartUUID", LoaderVendorGUID)
	if err != nil && !errors.IsNotFound(err) {
		return err
	}

	var image string
	if dev != "" {
		dev = partUUIDPath(dev)

		image, err = r.ReadString("LoaderImageIdentifier", LoaderVendorGUID)
		if err != nil && !errors.IsNotFound(err) {
			return err
		}
	}

	if url == "" && dev == "" && image == "" {
		return errors.New(errors.EFIBootSourceUnknown, "no loader stub variables")
	}

	src.URL = url
	src.Device = dev
	src.Image = image
	src.Entry = entry

	return nil
}

// readBootEntry reads a Boot#### variable and returns its description
// string and device-path blob.
//
// Layout: attributes (4 bytes), file-path-list length (2 bytes), a
// NUL-terminated UTF-16 description, then the device path.
func (r *Reader) readBootEntry(index uint16) (desc string, devicePath []byte, err error) {
	name := fmt.Sprintf("Boot%04X", index)
	r.log.Debug("Reading boot entry", "name", name)

	data, err := r.ReadVariable(name, GlobalVariableGUID)
	if err != nil {
		return "", nil, err
	}
	if len(data) < 6 {
		return "", nil, errors.New(errors.EFIMalformedVariable, name)
	}

	offset := 6
	start := offset
	for offset+1 < len(data) {
		offset += 2
		if data[offset-2] == 0 && data[offset-1] == 0 {
			break
		}
	}

	if offset > start {
		desc, err = DecodeUTF16(data[start:offset])
		if err != nil {
			return "", nil, err
		}
		r.log.Debug("Boot entry description", "name", name, "description", desc)
	}

	if offset >= len(data) {
		return desc, nil, nil
	}

	return desc, data[offset:], nil
}

// readBootIndex reads a variable holding one or more little-endian boot
// indices and returns the first.
func (r *Reader) readBootIndex(name string) (uint16, error) {
	data, err := r.ReadVariable(name, GlobalVariableGUID)
	if err != nil {
		return 0, err
	}
	if len(data) < 2 {
		return 0, errors.New(errors.EFIMalformedVariable, name)
	}
	return binary.LittleEndian.Uint16(data), nil
}

// bootCurrentSource derives the boot source from the device path of the
// entry BootCurrent points at.
func (r *Reader) bootCurrentSource(src *BootSource) error {
	r.log.Debug("Trying BootCurrent resolution")

	index, err := r.readBootIndex("BootCurrent")
	if err != nil {
		return err
	}

	desc, devicePath, err := r.readBootEntry(index)
	if err != nil {
		return err
	}
	if desc != "" {
		src.Entry = desc
	}
	if devicePath == nil {
		return errors.New(errors.EFIBootSourceUnknown, "boot entry has no device path")
	}

	found, err := r.walkDevicePath(devicePath, src)
	if err != nil {
		return err
	}
	if !found {
		return errors.New(errors.EFIBootSourceUnknown, "no usable device path nodes")
	}

	return nil
}

// DefaultBootPartition returns the partition device of the first
// BootOrder entry, when that entry boots from a hard drive.
func (r *Reader) DefaultBootPartition() (string, error) {
	r.log.Debug("Resolving default boot partition")

	index, err := r.readBootIndex("BootOrder")
	if err != nil {
		return "", err
	}

	_, devicePath, err := r.readBootEntry(index)
	if err != nil {
		return "", err
	}
	if devicePath == nil {
		return "", errors.New(errors.EFIBootSourceUnknown, "default boot entry has no device path")
	}

	var probe BootSource
	if _, err := r.walkDevicePath(devicePath, &probe); err != nil {
		return "", err
	}
	if probe.Device == "" {
		return "", errors.New(errors.EFIBootSourceUnknown, "default boot entry is not a disk")
	}

	r.log.Debug("EFI default boot device", "device", probe.Device)

	return probe.Device, nil
}
