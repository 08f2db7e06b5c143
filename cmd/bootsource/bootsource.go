// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package bootsource

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stratastor/logger"
	"github.com/stratastor/netgen/config"
	"github.com/stratastor/netgen/pkg/efivar"
	"github.com/stratastor/netgen/pkg/errors"
)

var debug bool

// NewBootSourceCmd resolves how the running binary was booted and prints
// the result as KEY=value lines suitable for shell eval, so the installer
// scripts can locate their configuration next to the boot image.
func NewBootSourceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bootsource",
		Short: "Determine the boot source of the running EFI binary",
		Long: `bootsource parses the EFI variables in efivarfs to recover where the
currently running image was booted from: an HTTP URL, a disk partition, or
PXE. The result is printed as KEY=value lines.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runBootSource,
	}

	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Verbose diagnostics")

	return cmd
}

func runBootSource(cmd *cobra.Command, args []string) error {
	rc := config.GetConfig()

	lcfg := config.NewLoggerConfig(rc)
	if debug {
		lcfg.LogLevel = "debug"
	}
	log, err := logger.NewTag(lcfg, "efivar")
	if err != nil {
		return errors.Wrap(err, errors.LoggerError)
	}

	reader := efivar.NewReader(rc.Efivars.Path, log)

	src, err := efivar.ResolveBootSource(reader)
	if err != nil {
		log.Error("Boot source resolution failed", "err", err)
		return err
	}

	if src.URL != "" {
		fmt.Printf("URL=%s\n", src.URL)
	}
	if src.Device != "" {
		fmt.Printf("DEVICE=%s\n", src.Device)
	}
	if src.Image != "" {
		fmt.Printf("IMAGE=%s\n", src.Image)
	}
	if src.Entry != "" {
		fmt.Printf("ENTRY=%s\n", src.Entry)
	}
	if src.DefaultPartition != "" {
		fmt.Printf("DEFAULT_PARTITION=%s\n", src.DefaultPartition)
	}
	if src.PXEBoot {
		fmt.Println("PXEBOOT=1")
	}

	return nil
}
