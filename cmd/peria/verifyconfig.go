package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/peria-go/peria/internal/config"
)

// newVerifyConfigCmd mirrors perceptiactl's verify-config subcommand
// (original_source/perceptia/perceptiactl/verify_config.rs): load the
// configuration and, on success, print the effective values; on
// failure, print the error the loader returned. Neither path starts the
// compositor.
func newVerifyConfigCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "verify-config",
		Short: "load a configuration file and print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), config.Serialize(cfg))
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML configuration file")
	return cmd
}
