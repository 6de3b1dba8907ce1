// cmd/kscli/main.go

// Command kscli administers the Kingdom Seekers church API from the terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"kingdomseekers/internal/config"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// cli carries the state shared by every subcommand of one invocation.
type cli struct {
	configPath string
	envFile    string
	verbose    bool

	cfg    *config.Config
	app    *App
	out    io.Writer
	errOut io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "kscli",
		Short: "Kingdom Seekers administration client",
		Long: `kscli manages members, pastors, donations and the Heaven's Gate
guesthouse through the Kingdom Seekers REST API.

Log in once with "kscli login"; the token is kept in local storage and sent
with every following request until "kscli logout".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath, c.envFile)
			if err != nil {
				return err
			}
			if c.verbose {
				cfg.Logging.Level = "debug"
			}
			c.app, err = newApp(cmd.Context(), cfg, c.out, c.errOut)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.close(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", config.DefaultConfigPath(), "path to the YAML config file")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file with KS_* overrides")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.membersCmd(),
		c.pastorsCmd(),
		c.donationsCmd(),
		c.roomsCmd(),
		c.bookingsCmd(),
		c.guesthouseCmd(),
		c.dashboardCmd(),
		c.configCmd(),
	)
	return root
}

// close runs even when the command failed, unlike PersistentPostRunE.
func (c *cli) close(ctx context.Context) error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close(ctx)
	c.app = nil
	return err
}

// run wraps a RunE so local state is released on failure too.
func (c *cli) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			_ = c.close(cmd.Context())
			return err
		}
		return nil
	}
}

func parseID(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return v, nil
}
