// cmd/kscli/config.go
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"kingdomseekers/internal/config"
)

func (c *cli) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or write the kscli configuration",
		// Only the configuration is loaded; no storage is opened.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath, c.envFile)
			if err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
	}
	cmd.AddCommand(c.configInitCmd(), c.configShowCmd())
	return cmd
}

func (c *cli) configInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the --config file",
		Long: `Write the effective configuration (defaults, file, .env and KS_* variables)
to the --config file. The storage passphrase is never written; keep it in
KS_STORAGE_PASSPHRASE.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(c.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists; use --force to overwrite", c.configPath)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			cfg := *c.cfg
			cfg.Storage.Passphrase = ""
			if err := cfg.Save(c.configPath); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Wrote %s\n", c.configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func (c *cli) configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			sealed := "no"
			if cfg.Storage.Passphrase != "" {
				sealed = "yes"
			}
			renderPairs(c.out, "kscli "+c.configPath, [][2]string{
				{"API base URL", cfg.API.BaseURL},
				{"API timeout", orDash(cfg.API.Timeout)},
				{"Rate limit (req/s)", strconv.FormatFloat(cfg.API.RateLimit, 'f', -1, 64)},
				{"Storage", cfg.Storage.Driver + " " + cfg.Storage.DSN},
				{"Token sealed", sealed},
				{"Log level", cfg.Logging.Level + " (" + cfg.Logging.Format + ")"},
				{"OTLP endpoint", orDash(cfg.Telemetry.Endpoint)},
			})
			return nil
		},
	}
}
