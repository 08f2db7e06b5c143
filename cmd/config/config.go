// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stratastor/netgen/config"
	"gopkg.in/yaml.v3"
)

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage netgen configuration",
	}

	cmd.AddCommand(NewPrintConfigCmd())
	cmd.AddCommand(NewPathConfigCmd())
	return cmd
}

func NewPrintConfigCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(configPath)
			if cfg == nil {
				return fmt.Errorf("no configuration loaded")
			}

			ymlData, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config to YAML: %v", err)
			}

			fmt.Printf("%s", string(ymlData))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "settings", "s", "", "Path to settings file")
	return cmd
}

func NewPathConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the path of the loaded configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = config.GetConfig()
			fmt.Println(config.GetLoadedConfigPath())
			return nil
		},
	}
}
