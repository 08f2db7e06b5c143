// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package efivar

import (
	"encoding/binary"
)

// Device path node types
const (
	dtHardware  = 0x01
	dtACPI      = 0x02
	dtMessaging = 0x03
	dtMedia     = 0x04
	dtEnd       = 0x7f
)

// Device path node sub-types
const (
	dstHardDrive  = 0x01
	dstMediaFile  = 0x04
	dstMsgMACAddr = 0x0b
	dstMsgIPv4    = 0x0c
	dstMsgURI     = 0x18
)

// nodeHeaderSize covers type, sub-type and the 16-bit length field.
const nodeHeaderSize = 4

// hardDriveGUIDOffset is where the partition signature sits inside a
// hard-drive media node: header(4) + partition number(4) + start LBA(8)
// + size LBA(8).
const (
	hardDriveGUIDOffset = 24
	hardDriveMinLength  = 42
)

// walkDevicePath iterates the device-path blob of a Boot#### variable and
// fills src with whatever the known nodes describe. The length field of
// each node is untrusted: anything below the header size or past the end
// of the blob terminates the walk.
func (r *Reader) walkDevicePath(data []byte, src *BootSource) (bool, error) {
	found := false
	offset := 0

	for offset+nodeHeaderSize <= len(data) {
		typ := data[offset]
		subType := data[offset+1]
		length := int(binary.LittleEndian.Uint16(data[offset+2:]))

		if typ == dtEnd {
			break
		}
		if length < nodeHeaderSize {
			r.log.Debug("Device path node length too short",
				"type", typ, "subtype", subType, "length", length)
			break
		}
		if offset+length > len(data) {
			r.log.Debug("Device path node overruns blob",
				"type", typ, "subtype", subType, "length", length, "limit", len(data))
			break
		}

		node := data[offset : offset+length]

		switch typ {
		case dtMedia:
			switch subType {
			case dstHardDrive:
				if length >= hardDriveMinLength {
					guid, err := guidBytesToString(node[hardDriveGUIDOffset:])
					if err == nil {
						src.Device = "/dev/disk/by-partuuid/" + guid
						found = true
						r.log.Debug("Partition UUID", "device", src.Device)
					}
				} else {
					r.log.Debug("Hard drive node too small", "length", length)
				}
			case dstMediaFile:
				img, err := DecodeUTF16(node[nodeHeaderSize:])
				if err != nil {
					return found, err
				}
				if img != "" {
					src.Image = img
					found = true
				}
			default:
				r.log.Debug("Unknown media sub-type", "subtype", subType)
			}

		case dtMessaging:
			switch subType {
			case dstMsgURI:
				url, err := DecodeUTF16(node[nodeHeaderSize:])
				if err != nil {
					return found, err
				}
				if url != "" {
					src.URL = url
					found = true
				}
			case dstMsgMACAddr:
				src.PXEBoot = true
				found = true
			case dstMsgIPv4:
				// Remote IP follows the 4-byte local IP in the node
				// payload; 0.0.0.0 normally means PXE boot.
				if length >= nodeHeaderSize+8 {
					remote := node[nodeHeaderSize+4 : nodeHeaderSize+8]
					if remote[0] == 0 && remote[1] == 0 && remote[2] == 0 && remote[3] == 0 {
						src.PXEBoot = true
						found = true
					}
				}
			default:
				r.log.Debug("Unknown messaging sub-type", "subtype", subType)
			}

		case dtHardware, dtACPI:
			r.log.Debug("Ignoring device path node", "type", typ, "subtype", subType)

		default:
			r.log.Debug("Unknown device path type", "type", typ, "subtype", subType)
		}

		offset += length
	}

	return found, nil
}
