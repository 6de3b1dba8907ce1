// cmd/kscli/members.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kingdomseekers/internal/membership"
)

func (c *cli) membersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Manage congregation members",
	}
	cmd.AddCommand(
		c.membersListCmd(),
		c.membersGetCmd(),
		c.membersCreateCmd(),
		c.membersUpdateCmd(),
		c.membersVetCmd(),
		c.membersAssignPastorCmd(),
		c.membersByStatusCmd(),
		c.membersByPastorCmd(),
	)
	return cmd
}

func (c *cli) printMembers(members []membership.Member) {
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		rows = append(rows, []string{
			id(m.ID), m.FullName(), m.Email, orDash(m.Phone),
			string(m.VettingStatus), optionalID(m.PastorID),
		})
	}
	renderTable(c.out, []string{"ID", "Name", "Email", "Phone", "Vetting", "Pastor"}, rows)
}

func (c *cli) printMember(m membership.Member) {
	renderPairs(c.out, "Member "+id(m.ID), [][2]string{
		{"Name", m.FullName()},
		{"Email", m.Email},
		{"Phone", orDash(m.Phone)},
		{"Address", orDash(m.Address)},
		{"Nationality", orDash(m.Nationality)},
		{"Country of residence", orDash(m.CountryOfResidence)},
		{"Vetting", string(m.VettingStatus)},
		{"Pastor", optionalID(m.PastorID)},
	})
}

func (c *cli) membersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all members",
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			members, err := c.app.membership.Members().List(cmd.Context())
			if err != nil {
				return err
			}
			c.printMembers(members)
			return nil
		}),
	}
}

func (c *cli) membersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one member",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			memberID, err := parseID(args[0])
			if err != nil {
				return err
			}
			m, err := c.app.membership.GetMember(cmd.Context(), memberID)
			if err != nil {
				return err
			}
			c.printMember(m)
			return nil
		}),
	}
}

type memberFlags struct {
	firstName, lastName, email, phone, address, nationality, country string
}

func (f *memberFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&f.lastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&f.email, "email", "", "email address")
	cmd.Flags().StringVar(&f.phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&f.address, "address", "", "postal address")
	cmd.Flags().StringVar(&f.nationality, "nationality", "", "nationality")
	cmd.Flags().StringVar(&f.country, "country", "", "country of residence")
}

func (f *memberFlags) apply(cmd *cobra.Command, m *membership.Member) {
	setString(cmd, "first-name", &m.FirstName, f.firstName)
	setString(cmd, "last-name", &m.LastName, f.lastName)
	setString(cmd, "email", &m.Email, f.email)
	setString(cmd, "phone", &m.Phone, f.phone)
	setString(cmd, "address", &m.Address, f.address)
	setString(cmd, "nationality", &m.Nationality, f.nationality)
	setString(cmd, "country", &m.CountryOfResidence, f.country)
}

func (c *cli) membersCreateCmd() *cobra.Command {
	var f memberFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new member (starts PENDING vetting)",
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			m, err := createWith(cmd.Context(), c.app.membership.Members(), membership.NewMember,
				func(d *membership.Member) error {
					f.apply(cmd, d)
					return nil
				})
			if err != nil {
				return err
			}
			c.printMember(m)
			return nil
		}),
	}
	f.bind(cmd)
	return cmd
}

func (c *cli) membersUpdateCmd() *cobra.Command {
	var f memberFlags
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change a member's details",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			memberID, err := parseID(args[0])
			if err != nil {
				return err
			}
			current, err := c.app.membership.GetMember(cmd.Context(), memberID)
			if err != nil {
				return err
			}
			m, err := editWith(cmd.Context(), c.app.membership.Members(), current,
				func(d *membership.Member) error {
					f.apply(cmd, d)
					return nil
				})
			if err != nil {
				return err
			}
			c.printMember(m)
			return nil
		}),
	}
	f.bind(cmd)
	return cmd
}

func (c *cli) membersVetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vet ID STATUS",
		Short: "Set a member's vetting status (PENDING, APPROVED, REJECTED)",
		Args:  cobra.ExactArgs(2),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			memberID, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := membership.ParseVettingStatus(args[1])
			if err != nil {
				return err
			}
			m, err := c.app.membership.SetVettingStatus(cmd.Context(), memberID, status)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s is now %s.\n", m.FullName(), m.VettingStatus)
			return nil
		}),
	}
}

func (c *cli) membersAssignPastorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign-pastor MEMBER_ID PASTOR_ID",
		Short: "Assign a pastor to a member",
		Args:  cobra.ExactArgs(2),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			memberID, err := parseID(args[0])
			if err != nil {
				return err
			}
			pastorID, err := parseID(args[1])
			if err != nil {
				return err
			}
			m, err := c.app.membership.AssignPastor(cmd.Context(), memberID, pastorID)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s is now under pastor %s.\n", m.FullName(), optionalID(m.PastorID))
			return nil
		}),
	}
}

func (c *cli) membersByStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "by-status STATUS",
		Short: "List members with a vetting status",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			status, err := membership.ParseVettingStatus(args[0])
			if err != nil {
				return err
			}
			members, err := c.app.membership.MembersByVettingStatus(cmd.Context(), status)
			if err != nil {
				return err
			}
			c.printMembers(members)
			return nil
		}),
	}
}

func (c *cli) membersByPastorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "by-pastor PASTOR_ID",
		Short: "List members assigned to a pastor",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			pastorID, err := parseID(args[0])
			if err != nil {
				return err
			}
			members, err := c.app.membership.MembersByPastor(cmd.Context(), pastorID)
			if err != nil {
				return err
			}
			c.printMembers(members)
			return nil
		}),
	}
}
