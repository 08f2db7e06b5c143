// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package efivar

import (
	"github.com/google/uuid"

	"github.com/stratastor/netgen/pkg/errors"
)

// guidBytesToString renders a 16-byte EFI GUID in registry string format.
// EFI stores the first three fields little-endian, while RFC 4122 (and
// the by-partuuid symlink names derived from it) use big-endian; the
// first eight bytes are reordered before formatting.
func guidBytesToString(b []byte) (string, error) {
	if len(b) < 16 {
		return "", errors.New(errors.EFIMalformedVariable, "short GUID")
	}

	var rfc [16]byte
	rfc[0], rfc[1], rfc[2], rfc[3] = b[3], b[2], b[1], b[0]
	rfc[4], rfc[5] = b[5], b[4]
	rfc[6], rfc[7] = b[7], b[6]
	copy(rfc[8:], b[8:16])

	id, err := uuid.FromBytes(rfc[:])
	if err != nil {
		return "", errors.Wrap(err, errors.EFIMalformedVariable)
	}

	// uuid.String() is already lowercase, matching /dev/disk/by-partuuid.
	return id.String(), nil
}
