// cmd/kscli/pastors.go
package main

import (
	"github.com/spf13/cobra"

	"kingdomseekers/internal/membership"
)

func (c *cli) pastorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pastors",
		Short: "Manage pastors",
	}
	cmd.AddCommand(c.pastorsListCmd(), c.pastorsCreateCmd(), c.pastorsByBranchCmd(), c.pastorsByCountryCmd())
	return cmd
}

func (c *cli) printPastors(pastors []membership.Pastor) {
	rows := make([][]string, 0, len(pastors))
	for _, p := range pastors {
		rows = append(rows, []string{id(p.ID), p.FullName(), p.Email, orDash(p.Phone), p.ChurchBranch, p.CountryCode})
	}
	renderTable(c.out, []string{"ID", "Name", "Email", "Phone", "Branch", "Country"}, rows)
}

func (c *cli) pastorsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all pastors",
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			pastors, err := c.app.membership.Pastors().List(cmd.Context())
			if err != nil {
				return err
			}
			c.printPastors(pastors)
			return nil
		}),
	}
}

func (c *cli) pastorsCreateCmd() *cobra.Command {
	var p membership.Pastor
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a pastor",
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			created, err := createWith(cmd.Context(), c.app.membership.Pastors(),
				func() membership.Pastor { return membership.Pastor{} },
				func(d *membership.Pastor) error {
					*d = p
					return nil
				})
			if err != nil {
				return err
			}
			c.printPastors([]membership.Pastor{created})
			return nil
		}),
	}
	cmd.Flags().StringVar(&p.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&p.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&p.Email, "email", "", "email address")
	cmd.Flags().StringVar(&p.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&p.ChurchBranch, "branch", "", "church branch")
	cmd.Flags().StringVar(&p.CountryCode, "country", "", "country code, e.g. KE")
	return cmd
}

func (c *cli) pastorsByBranchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "by-branch BRANCH",
		Short: "List pastors of a church branch",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			pastors, err := c.app.membership.PastorsByBranch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			c.printPastors(pastors)
			return nil
		}),
	}
}

func (c *cli) pastorsByCountryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "by-country CODE",
		Short: "List pastors serving in a country",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			pastors, err := c.app.membership.PastorsByCountry(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			c.printPastors(pastors)
			return nil
		}),
	}
}
