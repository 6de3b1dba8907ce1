// cmd/kscli/rooms.go
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"kingdomseekers/internal/guesthouse"
)

func (c *cli) roomsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "Manage Heaven's Gate guesthouse rooms",
	}
	cmd.AddCommand(c.roomsListCmd(), c.roomsCreateCmd(), c.roomsUpdateCmd(), c.roomsDeleteCmd())
	return cmd
}

func (c *cli) printRooms(rooms []guesthouse.Room) {
	rows := make([][]string, 0, len(rooms))
	for _, r := range rooms {
		rows = append(rows, []string{
			id(r.ID), r.RoomNumber, string(r.Type), strconv.Itoa(r.Capacity),
			string(r.PackageType), money(r.Price), string(r.Status),
		})
	}
	renderTable(c.out, []string{"ID", "Number", "Type", "Capacity", "Package", "Price", "Status"}, rows)
}

type roomFlags struct {
	number, kind, pkg, status, description, amenities string
	capacity                                          int
	price                                             float64
}

func (f *roomFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.number, "number", "", "room number")
	cmd.Flags().StringVar(&f.kind, "type", "", "STANDARD, DELUXE, VIP or FAMILY_SUITE")
	cmd.Flags().StringVar(&f.pkg, "package", "", "BASIC, PREMIUM, LUXURY or FAMILY")
	cmd.Flags().StringVar(&f.status, "status", "", "AVAILABLE, OCCUPIED, MAINTENANCE or OUT_OF_ORDER")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	cmd.Flags().StringVar(&f.amenities, "amenities", "", "amenities")
	cmd.Flags().IntVar(&f.capacity, "capacity", 0, "guests the room sleeps")
	cmd.Flags().Float64Var(&f.price, "price", 0, "price per night")
}

func (f *roomFlags) apply(cmd *cobra.Command, r *guesthouse.Room) error {
	var err error
	changed := cmd.Flags().Changed
	setString(cmd, "number", &r.RoomNumber, f.number)
	setString(cmd, "description", &r.Description, f.description)
	setString(cmd, "amenities", &r.Amenities, f.amenities)
	if changed("type") {
		if r.Type, err = guesthouse.ParseRoomType(f.kind); err != nil {
			return err
		}
	}
	if changed("package") {
		if r.PackageType, err = guesthouse.ParsePackageType(f.pkg); err != nil {
			return err
		}
	}
	if changed("status") {
		if r.Status, err = guesthouse.ParseRoomStatus(f.status); err != nil {
			return err
		}
	}
	if changed("capacity") {
		r.Capacity = f.capacity
	}
	if changed("price") {
		r.Price = f.price
	}
	return nil
}

func (c *cli) roomsListCmd() *cobra.Command {
	var (
		available bool
		status    string
		kind      string
		number    string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rooms",
		Long:  "List rooms. --type combines with --available to list open rooms of one type.",
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := c.app.guesthouse
			var (
				rooms []guesthouse.Room
				t     guesthouse.RoomType
				err   error
			)
			if kind != "" {
				if t, err = guesthouse.ParseRoomType(kind); err != nil {
					return err
				}
			}
			switch {
			case number != "":
				var r guesthouse.Room
				if r, err = svc.RoomByNumber(ctx, number); err == nil {
					rooms = []guesthouse.Room{r}
				}
			case available && t != "":
				rooms, err = svc.AvailableRoomsByType(ctx, t)
			case available:
				rooms, err = svc.AvailableRooms(ctx)
			case t != "":
				rooms, err = svc.RoomsByType(ctx, t)
			case status != "":
				var s guesthouse.RoomStatus
				if s, err = guesthouse.ParseRoomStatus(status); err != nil {
					return err
				}
				rooms, err = svc.RoomsByStatus(ctx, s)
			default:
				rooms, err = svc.Rooms().List(ctx)
			}
			if err != nil {
				return err
			}
			c.printRooms(rooms)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&available, "available", false, "only rooms open for booking")
	cmd.Flags().StringVar(&status, "status", "", "only rooms with this status")
	cmd.Flags().StringVar(&kind, "type", "", "only rooms of this type")
	cmd.Flags().StringVar(&number, "number", "", "look up one room by number")
	cmd.MarkFlagsMutuallyExclusive("number", "status", "available")
	cmd.MarkFlagsMutuallyExclusive("number", "type")
	cmd.MarkFlagsMutuallyExclusive("status", "type")
	return cmd
}

func (c *cli) roomsCreateCmd() *cobra.Command {
	var f roomFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a room",
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			r, err := createWith(cmd.Context(), c.app.guesthouse.Rooms(), guesthouse.NewRoom,
				func(d *guesthouse.Room) error { return f.apply(cmd, d) })
			if err != nil {
				return err
			}
			c.printRooms([]guesthouse.Room{r})
			return nil
		}),
	}
	f.bind(cmd)
	return cmd
}

func (c *cli) roomsUpdateCmd() *cobra.Command {
	var f roomFlags
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change a room",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			roomID, err := parseID(args[0])
			if err != nil {
				return err
			}
			current, err := c.app.guesthouse.GetRoom(cmd.Context(), roomID)
			if err != nil {
				return err
			}
			r, err := editWith(cmd.Context(), c.app.guesthouse.Rooms(), current,
				func(d *guesthouse.Room) error { return f.apply(cmd, d) })
			if err != nil {
				return err
			}
			c.printRooms([]guesthouse.Room{r})
			return nil
		}),
	}
	f.bind(cmd)
	return cmd
}

func (c *cli) roomsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Remove a room",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			roomID, err := parseID(args[0])
			if err != nil {
				return err
			}
			rooms := c.app.guesthouse.Rooms()
			if err := rooms.Remove(cmd.Context(), roomID); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Room %d removed.\n", roomID)
			if rooms.Loaded() {
				fmt.Fprintf(c.out, "%d rooms remain.\n", len(rooms.Items()))
			}
			return nil
		}),
	}
}
