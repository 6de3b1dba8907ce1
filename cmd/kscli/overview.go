// cmd/kscli/overview.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kingdomseekers/internal/guesthouse"
)

func (c *cli) guesthouseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guesthouse",
		Short: "Heaven's Gate occupancy and revenue",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			s, err := c.app.guesthouse.Overview(cmd.Context())
			if err != nil {
				return err
			}
			pairs := [][2]string{
				{"Rooms", count(s.TotalRooms)},
				{"Occupied", count(s.OccupiedRooms)},
				{"Available", count(s.AvailableRooms)},
				{"Occupancy", fmt.Sprintf("%d%%", s.OccupancyRate)},
				{"Bookings", count(s.TotalBookings)},
				{"Booking revenue (all bookings)", money(s.Revenue)},
			}
			for _, st := range guesthouse.BookingStatuses {
				if n := s.ByStatus[st]; n > 0 {
					pairs = append(pairs, [2]string{"  " + string(st), count(n)})
				}
			}
			renderPairs(c.out, "Heaven's Gate", pairs)
			return nil
		}),
	}
	cmd.AddCommand(c.guesthouseRevenueCmd(), c.guesthouseStatsCmd())
	return cmd
}

func (c *cli) guesthouseRevenueCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "revenue",
		Short: "Confirmed booking revenue for check-ins in a period (default today)",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			today := c.app.now().Format(guesthouse.DateLayout)
			if from == "" {
				from = today
			}
			if to == "" {
				to = from
			}
			start, err := parseDay("from", from)
			if err != nil {
				return err
			}
			end, err := parseDay("to", to)
			if err != nil {
				return err
			}
			report, err := c.app.guesthouse.Revenue(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			period := report.StartDate
			if report.EndDate != report.StartDate {
				period += " to " + report.EndDate
			}
			renderPairs(c.out, "Heaven's Gate revenue", [][2]string{
				{"Period", period},
				{"Confirmed revenue", money(report.TotalRevenue)},
			})
			return nil
		}),
	}
	cmd.Flags().StringVar(&from, "from", "", "first check-in date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&to, "to", "", "last check-in date YYYY-MM-DD (default --from)")
	return cmd
}

func (c *cli) guesthouseStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Room and booking counts as the server reports them",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rooms, err := c.app.guesthouse.RoomStats(ctx)
			if err != nil {
				return err
			}
			bookings, err := c.app.guesthouse.BookingStats(ctx)
			if err != nil {
				return err
			}
			renderPairs(c.out, "Heaven's Gate", [][2]string{
				{"Rooms", count(int(rooms.TotalRooms))},
				{"Available", count(int(rooms.AvailableRooms))},
				{"Occupied", count(int(rooms.OccupiedRooms))},
				{"Occupancy", fmt.Sprintf("%.1f%%", rooms.OccupancyRate)},
				{"Bookings", count(int(bookings.TotalBookings))},
				{"  Confirmed", count(int(bookings.ConfirmedBookings))},
				{"  Pending", count(int(bookings.PendingBookings))},
				{"  Checked in", count(int(bookings.CheckedInBookings))},
			})
			return nil
		}),
	}
}

func (c *cli) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Headline totals",
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			t, err := c.app.dashboard.Totals(cmd.Context())
			if err != nil {
				return err
			}
			renderPairs(c.out, "Kingdom Seekers", [][2]string{
				{"Members", count(t.Members)},
				{"Awaiting vetting", count(t.PendingVetting)},
				{"Pastors", count(t.Pastors)},
				{"Donations", count(t.Donations)},
				{"Given in total", money(t.DonationTotal)},
			})
			return nil
		}),
	}
}
