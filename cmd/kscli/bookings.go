// cmd/kscli/bookings.go
package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kingdomseekers/internal/guesthouse"
)

func (c *cli) bookingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "Manage guesthouse bookings",
	}
	cmd.AddCommand(
		c.bookingsListCmd(),
		c.bookingsCreateCmd(),
		c.bookingsUpdateCmd(),
		c.bookingsStatusCmd(),
		c.bookingsDeleteCmd(),
	)
	return cmd
}

func (c *cli) printBookings(bookings []guesthouse.Booking) {
	rows := make([][]string, 0, len(bookings))
	for _, b := range bookings {
		room := orDash(b.Room.RoomNumber)
		if room == "-" && b.Room.ID != 0 {
			room = "#" + id(b.Room.ID)
		}
		rows = append(rows, []string{
			id(b.ID), orDash(b.BookingReference), b.GuestName, room,
			b.CheckInDate, b.CheckOutDate, strconv.Itoa(b.Nights()),
			money(b.TotalAmount), string(b.PaymentMethod), string(b.Status),
		})
	}
	renderTable(c.out, []string{"ID", "Reference", "Guest", "Room", "Check-in", "Check-out", "Nights", "Total", "Payment", "Status"}, rows)
}

func parseDay(flag, value string) (time.Time, error) {
	d, err := time.Parse(guesthouse.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s date %q, want YYYY-MM-DD", flag, value)
	}
	return d, nil
}

func (c *cli) bookingsListCmd() *cobra.Command {
	var (
		status    string
		reference string
		guest     string
		active    string
		checkIns  string
		checkOuts string
		roomID    int64
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bookings",
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := c.app.guesthouse
			var (
				bookings []guesthouse.Booking
				err      error
			)
			onDay := func(flag, value string, query func(context.Context, time.Time) ([]guesthouse.Booking, error)) {
				var day time.Time
				if day, err = parseDay(flag, value); err == nil {
					bookings, err = query(ctx, day)
				}
			}
			switch {
			case reference != "":
				var b guesthouse.Booking
				if b, err = svc.BookingByReference(ctx, reference); err == nil {
					bookings = []guesthouse.Booking{b}
				}
			case guest != "":
				bookings, err = svc.BookingsForGuest(ctx, guest)
			case active != "":
				onDay("active", active, svc.ActiveBookings)
			case checkIns != "":
				onDay("check-ins", checkIns, svc.CheckIns)
			case checkOuts != "":
				onDay("check-outs", checkOuts, svc.CheckOuts)
			case roomID > 0:
				bookings, err = svc.BookingsForRoom(ctx, roomID)
			case status != "":
				var s guesthouse.BookingStatus
				if s, err = guesthouse.ParseBookingStatus(status); err != nil {
					return err
				}
				bookings, err = svc.BookingsByStatus(ctx, s)
			default:
				bookings, err = svc.Bookings().List(ctx)
			}
			if err != nil {
				return err
			}
			c.printBookings(bookings)
			return nil
		}),
	}
	cmd.Flags().StringVar(&status, "status", "", "only bookings with this status")
	cmd.Flags().StringVar(&reference, "reference", "", "look up one booking by reference")
	cmd.Flags().StringVar(&guest, "guest", "", "only bookings made with this guest email")
	cmd.Flags().StringVar(&active, "active", "", "only stays covering the night of this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&checkIns, "check-ins", "", "confirmed arrivals on this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&checkOuts, "check-outs", "", "expected departures on this date (YYYY-MM-DD)")
	cmd.Flags().Int64Var(&roomID, "room", 0, "only bookings of this room")
	cmd.MarkFlagsMutuallyExclusive("status", "reference", "guest", "active", "check-ins", "check-outs", "room")
	return cmd
}

type bookingFlags struct {
	b       guesthouse.Booking
	payment string
	status  string
}

func (f *bookingFlags) bind(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.b.Room.ID, "room", 0, "room id")
	cmd.Flags().StringVar(&f.b.GuestName, "guest-name", "", "guest name")
	cmd.Flags().StringVar(&f.b.GuestEmail, "guest-email", "", "guest email")
	cmd.Flags().StringVar(&f.b.GuestPhone, "guest-phone", "", "guest phone")
	cmd.Flags().StringVar(&f.b.CheckInDate, "check-in", "", "check-in date YYYY-MM-DD")
	cmd.Flags().StringVar(&f.b.CheckOutDate, "check-out", "", "check-out date YYYY-MM-DD")
	cmd.Flags().StringVar(&f.payment, "payment", "", `payment method, e.g. "M-Pesa" or "Bank Transfer"`)
	cmd.Flags().StringVar(&f.b.SpecialRequests, "requests", "", "special requests")
}

// apply copies the flags the user gave onto d.
func (f *bookingFlags) apply(cmd *cobra.Command, d *guesthouse.Booking) error {
	if cmd.Flags().Changed("room") {
		d.Room = guesthouse.RoomRef{ID: f.b.Room.ID}
	}
	setString(cmd, "guest-name", &d.GuestName, f.b.GuestName)
	setString(cmd, "guest-email", &d.GuestEmail, f.b.GuestEmail)
	setString(cmd, "guest-phone", &d.GuestPhone, f.b.GuestPhone)
	setString(cmd, "check-in", &d.CheckInDate, f.b.CheckInDate)
	setString(cmd, "check-out", &d.CheckOutDate, f.b.CheckOutDate)
	setString(cmd, "requests", &d.SpecialRequests, f.b.SpecialRequests)
	if cmd.Flags().Changed("payment") {
		m, err := guesthouse.ParsePaymentMethod(f.payment)
		if err != nil {
			return err
		}
		d.PaymentMethod = m
	}
	if cmd.Flags().Lookup("status") != nil && cmd.Flags().Changed("status") {
		s, err := guesthouse.ParseBookingStatus(f.status)
		if err != nil {
			return err
		}
		d.Status = s
	}
	return nil
}

// printQuote shows what the stay should cost before the server prices it.
func (c *cli) printQuote(ctx context.Context, b guesthouse.Booking) {
	if b.Room.ID <= 0 || b.Nights() == 0 {
		return
	}
	room, err := c.app.guesthouse.GetRoom(ctx, b.Room.ID)
	if err != nil {
		c.app.logger.Debug("no quote for booking", zap.Int64("room", b.Room.ID), zap.Error(err))
		return
	}
	fmt.Fprintf(c.out, "Estimated total: %s (%d nights at %s)\n",
		money(b.Quote(room)), b.Nights(), money(room.Price))
}

func (c *cli) bookingsCreateCmd() *cobra.Command {
	var f bookingFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Book a room for a guest",
		Long:  "Book a room for a guest. Dates default to a one-night stay from today, payment to M-Pesa.",
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			now := c.app.now()
			created, err := createWith(ctx, c.app.guesthouse.Bookings(),
				func() guesthouse.Booking { return guesthouse.NewBooking(now) },
				func(d *guesthouse.Booking) error {
					if err := f.apply(cmd, d); err != nil {
						return err
					}
					c.printQuote(ctx, *d)
					return nil
				})
			if err != nil {
				return err
			}
			c.printBookings([]guesthouse.Booking{created})
			return nil
		}),
	}
	f.bind(cmd)
	return cmd
}

func (c *cli) bookingsUpdateCmd() *cobra.Command {
	var f bookingFlags
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change a booking",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			bookingID, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			current, err := c.app.guesthouse.GetBooking(ctx, bookingID)
			if err != nil {
				return err
			}
			updated, err := editWith(ctx, c.app.guesthouse.Bookings(), current,
				func(d *guesthouse.Booking) error { return f.apply(cmd, d) })
			if err != nil {
				return err
			}
			c.printBookings([]guesthouse.Booking{updated})
			return nil
		}),
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&f.status, "status", "", "booking status, e.g. CONFIRMED")
	return cmd
}

func (c *cli) bookingsStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Move a booking to a new status (CONFIRMED, CHECKED_IN, ...)",
		Args:  cobra.ExactArgs(2),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			bookingID, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := guesthouse.ParseBookingStatus(args[1])
			if err != nil {
				return err
			}
			b, err := c.app.guesthouse.SetBookingStatus(cmd.Context(), bookingID, status)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Booking %s is now %s.\n", orDash(b.BookingReference), b.Status)
			return nil
		}),
	}
}

func (c *cli) bookingsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Remove a booking",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			bookingID, err := parseID(args[0])
			if err != nil {
				return err
			}
			bookings := c.app.guesthouse.Bookings()
			if err := bookings.Remove(cmd.Context(), bookingID); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Booking %d removed.\n", bookingID)
			if bookings.Loaded() {
				fmt.Fprintf(c.out, "%d bookings remain.\n", len(bookings.Items()))
			}
			return nil
		}),
	}
}
