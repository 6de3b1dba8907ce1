// cmd/kscli/donations.go
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"kingdomseekers/internal/giving"
)

func (c *cli) donationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "donations",
		Short: "Record and review donations",
	}
	cmd.AddCommand(
		c.donationsListCmd(),
		c.donationsCreateCmd(),
		c.donationsByMemberCmd(),
		c.donationsByTypeCmd(),
		c.donationsByCampaignCmd(),
		c.donationsByDatesCmd(),
	)
	return cmd
}

func (c *cli) printDonations(donations []giving.Donation) {
	rows := make([][]string, 0, len(donations))
	for _, d := range donations {
		rows = append(rows, []string{
			id(d.ID), d.DonationDate, string(d.DonationType),
			orDash(d.CampaignCode), id(d.MemberID), money(d.Amount),
		})
	}
	renderTable(c.out, []string{"ID", "Date", "Type", "Campaign", "Member", "Amount"}, rows)
	if len(donations) > 0 {
		s := giving.Summarize(donations)
		fmt.Fprintf(c.out, "%s donations, %s in total\n", count(s.Count), money(s.Total))
	}
}

func (c *cli) donationsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all donations",
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			donations, err := c.app.giving.Donations().List(cmd.Context())
			if err != nil {
				return err
			}
			c.printDonations(donations)
			return nil
		}),
	}
}

func (c *cli) donationsCreateCmd() *cobra.Command {
	var (
		amount   float64
		kind     string
		campaign string
		date     string
		memberID int64
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a donation",
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			now := c.app.now()
			d, err := createWith(cmd.Context(), c.app.giving.Donations(),
				func() giving.Donation { return giving.NewDonation(now) },
				func(d *giving.Donation) error {
					t, err := giving.ParseDonationType(kind)
					if err != nil {
						return err
					}
					d.Amount = amount
					d.DonationType = t
					d.CampaignCode = campaign
					d.MemberID = memberID
					setString(cmd, "date", &d.DonationDate, date)
					return nil
				})
			if err != nil {
				return err
			}
			c.printDonations([]giving.Donation{d})
			return nil
		}),
	}
	cmd.Flags().Float64Var(&amount, "amount", 0, "amount given")
	cmd.Flags().StringVar(&kind, "type", string(giving.TypeTithe), "TITHE, OFFERING, SPECIAL or CAMPAIGN")
	cmd.Flags().StringVar(&campaign, "campaign", "", "campaign code (CAMPAIGN donations only)")
	cmd.Flags().StringVar(&date, "date", "", "donation date YYYY-MM-DD (default today)")
	cmd.Flags().Int64Var(&memberID, "member", 0, "id of the giving member")
	return cmd
}

func (c *cli) donationsByMemberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "by-member MEMBER_ID",
		Short: "List a member's donations",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			memberID, err := parseID(args[0])
			if err != nil {
				return err
			}
			donations, err := c.app.giving.DonationsByMember(cmd.Context(), memberID)
			if err != nil {
				return err
			}
			c.printDonations(donations)
			return nil
		}),
	}
}

func (c *cli) donationsByTypeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "by-type TYPE",
		Short: "List donations of one type",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			t, err := giving.ParseDonationType(args[0])
			if err != nil {
				return err
			}
			donations, err := c.app.giving.DonationsByType(cmd.Context(), t)
			if err != nil {
				return err
			}
			c.printDonations(donations)
			return nil
		}),
	}
}

func (c *cli) donationsByCampaignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "by-campaign CODE",
		Short: "List donations to a campaign",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			donations, err := c.app.giving.DonationsByCampaign(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			c.printDonations(donations)
			return nil
		}),
	}
}

func (c *cli) donationsByDatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "by-dates FROM TO",
		Short: "List donations dated between FROM and TO (YYYY-MM-DD, inclusive)",
		Args:  cobra.ExactArgs(2),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			from, err := time.Parse(giving.DateLayout, args[0])
			if err != nil {
				return fmt.Errorf("invalid FROM date: %w", err)
			}
			to, err := time.Parse(giving.DateLayout, args[1])
			if err != nil {
				return fmt.Errorf("invalid TO date: %w", err)
			}
			donations, err := c.app.giving.DonationsBetween(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			c.printDonations(donations)
			return nil
		}),
	}
}
