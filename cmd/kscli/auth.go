// cmd/kscli/auth.go
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kingdomseekers/internal/auth"
)

func (c *cli) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the bearer token in local storage",
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("KS_PASSWORD")
			}
			// A *auth.LoginError reads as the user-facing message.
			if _, err := c.app.auth.Login(cmd.Context(), email, password); err != nil {
				return err
			}
			fmt.Fprintln(c.out, titleStyle.Render("Logged in as "+email))
			return nil
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (or KS_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			if err := c.app.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Logged out.")
			return nil
		}),
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show what the stored token says about the session",
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			token, ok, err := c.app.tokens.Get(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(c.out, "Not logged in.")
				return nil
			}

			claims, err := auth.InspectClaims(token)
			if errors.Is(err, auth.ErrOpaqueToken) {
				fmt.Fprintln(c.out, "Logged in (opaque token).")
				return nil
			}
			pairs := [][2]string{{"Subject", orDash(claims.Subject)}, {"Issuer", orDash(claims.Issuer)}}
			if !claims.ExpiresAt.IsZero() {
				state := claims.ExpiresAt.Local().Format("2006-01-02 15:04")
				if claims.Expired(c.app.now()) {
					state += " (expired)"
				}
				pairs = append(pairs, [2]string{"Expires", state})
			}
			renderPairs(c.out, "Session", pairs)
			return nil
		}),
	}
}
