// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stratastor/logger"
	"github.com/stratastor/netgen/cmd/bootsource"
	configcmd "github.com/stratastor/netgen/cmd/config"
	"github.com/stratastor/netgen/cmd/version"
	"github.com/stratastor/netgen/config"
	"github.com/stratastor/netgen/internal/constants"
	"github.com/stratastor/netgen/pkg/errors"
	"github.com/stratastor/netgen/pkg/netcfg"
)

var (
	cfgFile      string
	outputDir    string
	parseAll     bool
	debug        bool
	showVersion  bool
	settingsFile string
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "netgen [directives...]",
		Short: "netgen: create networkd config from the kernel command line",
		Long: `netgen reads network directives (ifcfg=, ip=, nameserver=, rd.peerdns=,
rd.route=, vlan=) from the kernel command line or a configuration file and
writes systemd-networkd .network and .netdev fragments.

Positional arguments, when given, are treated as kernel-command-line text;
this is mainly useful for testing.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGenerate,
	}

	rootCmd.Flags().StringVarP(&cfgFile, "config", "c", "", "File with configuration directives")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory in which to write config")
	rootCmd.Flags().BoolVarP(&parseAll, "parse-all", "a", false, "Parse all network options on cmdline")
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "Verbose diagnostics")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Print program version")
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "Path to netgen settings file")

	rootCmd.AddCommand(version.NewVersionCmd())
	rootCmd.AddCommand(bootsource.NewBootSourceCmd())
	rootCmd.AddCommand(configcmd.NewConfigCmd())

	return rootCmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if showVersion {
		fmt.Printf("netgen (%s) %s\n", constants.NetgenVersion, constants.Version)
		return nil
	}

	rc := config.LoadConfig(settingsFile)

	lcfg := config.NewLoggerConfig(rc)
	if debug {
		lcfg.LogLevel = "debug"
	}
	log, err := logger.NewTag(lcfg, "netcfg")
	if err != nil {
		return errors.Wrap(err, errors.LoggerError)
	}

	if cfgFile != "" && len(args) > 0 {
		return errors.New(errors.ConfigUsageError,
			"using a configuration file with additional arguments is not possible")
	}

	opts := netcfg.Options{
		OutputDir: rc.Output.Dir,
		ParseAll:  parseAll,
		Limits: netcfg.Limits{
			MaxInterfaces: rc.Limits.MaxInterfaces,
			MaxVLANs:      rc.Limits.MaxVLANs,
			MaxVLANRefs:   rc.Limits.MaxVLANRefs,
		},
	}
	if outputDir != "" {
		opts.OutputDir = outputDir
	}

	g := netcfg.New(log, opts)

	if err := g.PrepareOutputDir(); err != nil {
		log.Error("Could not create output directory", "dir", opts.OutputDir, "err", err)
		return err
	}

	switch {
	case cfgFile != "":
		err = g.ProcessConfigFile(cfgFile)
	case len(args) > 0:
		err = g.ProcessArgs(args)
	default:
		err = g.ProcessCmdlineFile(rc.Cmdline.Path)
	}
	if err != nil {
		log.Error("Directive processing failed", "err", err)
		return err
	}

	if err := g.WriteConfigs(); err != nil {
		log.Error("Error writing config files", "err", err)
		return err
	}

	return nil
}
