// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package efivar

import (
	"encoding/binary"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/stratastor/netgen/pkg/errors"
)

// DecodeUTF16 converts a UTF-16LE payload to a plain string. Firmware
// strings are expected to be ASCII: any code unit outside that range is
// an error rather than silently transliterated. Decoding stops at the
// first NUL code unit, DOS backslashes become forward slashes, and an
// odd-length payload is rejected.
func DecodeUTF16(data []byte) (string, error) {
	if len(data)%2 != 0 {
		return "", errors.New(errors.EFIMalformedUTF16, "odd payload length")
	}

	// Truncate at the terminator before handing off to the decoder.
	end := len(data)
	for i := 0; i+1 < len(data); i += 2 {
		if binary.LittleEndian.Uint16(data[i:]) == 0 {
			end = i
			break
		}
	}

	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	decoded, err := dec.Bytes(data[:end])
	if err != nil {
		return "", errors.Wrap(err, errors.EFIMalformedUTF16)
	}

	var b strings.Builder
	for _, r := range string(decoded) {
		if r >= 128 {
			return "", errors.New(errors.EFIMalformedUTF16, "code unit out of ASCII range")
		}
		if r == '\\' {
			b.WriteRune('/')
		} else {
			b.WriteRune(r)
		}
	}

	return b.String(), nil
}
