// internal/guesthouse/service.go
package guesthouse

import (
	"context"
	"time"

	"kingdomseekers/internal/resource"
)

// Route tables for the guesthouse collections.
var (
	RoomRoutes    = resource.Routes{Collection: "/rooms", Update: true, Delete: true}
	BookingRoutes = resource.Routes{Collection: "/bookings", Update: true, Delete: true}
)

// Service defines the interface for the guesthouse service.
type Service interface {
	Rooms() *resource.Manager[Room]
	Bookings() *resource.Manager[Booking]

	GetRoom(ctx context.Context, id int64) (Room, error)
	AvailableRooms(ctx context.Context) ([]Room, error)
	RoomsByStatus(ctx context.Context, status RoomStatus) ([]Room, error)
	RoomByNumber(ctx context.Context, number string) (Room, error)
	RoomsByType(ctx context.Context, kind RoomType) ([]Room, error)
	AvailableRoomsByType(ctx context.Context, kind RoomType) ([]Room, error)
	RoomStats(ctx context.Context) (RoomStats, error)

	GetBooking(ctx context.Context, id int64) (Booking, error)
	BookingByReference(ctx context.Context, ref string) (Booking, error)
	BookingsByStatus(ctx context.Context, status BookingStatus) ([]Booking, error)
	BookingsForRoom(ctx context.Context, roomID int64) ([]Booking, error)
	BookingsForGuest(ctx context.Context, email string) ([]Booking, error)
	// ActiveBookings returns stays covering the night of day.
	ActiveBookings(ctx context.Context, day time.Time) ([]Booking, error)
	CheckIns(ctx context.Context, day time.Time) ([]Booking, error)
	CheckOuts(ctx context.Context, day time.Time) ([]Booking, error)
	BookingStats(ctx context.Context) (BookingStats, error)
	// Revenue asks the server for confirmed booking revenue between from and to.
	Revenue(ctx context.Context, from, to time.Time) (RevenueReport, error)
	SetBookingStatus(ctx context.Context, id int64, status BookingStatus) (Booking, error)

	// Overview refreshes rooms and bookings in parallel and summarizes them.
	Overview(ctx context.Context) (Summary, error)

	Close()
}
