// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package efivar reads UEFI firmware variables through the efivarfs
// pseudo-filesystem and determines the boot source of the running image:
// an HTTP URL, a partition identifier, or a PXE flag.
package efivar

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/stratastor/logger"
	"github.com/stratastor/netgen/internal/constants"
	"github.com/stratastor/netgen/pkg/errors"
)

// Well-known vendor GUIDs, in the lowercase registry format used by
// efivarfs file names.
const (
	GlobalVariableGUID = "8be4df61-93ca-11d2-aa0d-00e098032b8c"
	LoaderVendorGUID   = "4a67b082-0a4c-41cf-b6c7-440b29bb8c4f"
)

// attributeHeaderSize is the length of the attribute prefix every
// efivarfs file carries in front of the variable payload.
const attributeHeaderSize = 4

// Reader reads firmware variables from an efivars directory. Tests point
// it at a fabricated tree.
type Reader struct {
	dir string
	log logger.Logger
}

func NewReader(dir string, log logger.Logger) *Reader {
	if dir == "" {
		dir = constants.DefaultEfivarsPath
	}
	return &Reader{dir: dir, log: log}
}

// Supported reports whether the efivars directory is accessible at all.
func (r *Reader) Supported() bool {
	_, err := os.Stat(r.dir)
	return err == nil
}

// verifyRegular rejects anything that is not a regular file, with
// distinct codes so callers can tell a directory from a dangling link.
func verifyRegular(fi fs.FileInfo) error {
	switch {
	case fi.IsDir():
		return errors.New(errors.EFINotRegularFile, fi.Name())
	case fi.Mode()&fs.ModeSymlink != 0:
		return errors.New(errors.EFISymlink, fi.Name())
	case !fi.Mode().IsRegular():
		return errors.New(errors.EFIWrongFileType, fi.Name())
	}
	return nil
}

// ReadVariable returns the payload of the variable <name>-<guid> with the
// attribute header stripped. A missing variable maps onto the dedicated
// not-found code so resolver strategies can chain.
func (r *Reader) ReadVariable(name, guid string) ([]byte, error) {
	path := filepath.Join(r.dir, name+"-"+guid)

	fi, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.EFIVariableNotFound, path)
		}
		return nil, errors.Wrap(err, errors.EFIReadFailed).WithMetadata("path", path)
	}
	if err := verifyRegular(fi); err != nil {
		r.log.Debug("EFI variable is not a regular file", "path", path, "err", err)
		return nil, err
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.EFIReadFailed).WithMetadata("path", path)
	}
	if len(buf) < attributeHeaderSize {
		return nil, errors.New(errors.EFIMalformedVariable, path)
	}

	return buf[attributeHeaderSize:], nil
}

// ReadString reads a variable whose payload is a NUL-terminated UTF-16LE
// string.
func (r *Reader) ReadString(name, guid string) (string, error) {
	data, err := r.ReadVariable(name, guid)
	if err != nil {
		return "", err
	}
	return DecodeUTF16(data)
}
