// internal/guesthouse/implementation.go
package guesthouse

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"kingdomseekers/internal/clients"
	"kingdomseekers/internal/resource"
)

var tracer = otel.Tracer("kingdomseekers/guesthouse")

// service implements the Service interface.
type service struct {
	client   clients.Doer
	rooms    *resource.Manager[Room]
	bookings *resource.Manager[Booking]
}

// NewService creates a new guesthouse service instance.
func NewService(client clients.Doer, opts ...resource.ManagerOption) Service {
	return &service{
		client:   client,
		rooms:    resource.NewManager[Room](client, "rooms", RoomRoutes, opts...),
		bookings: resource.NewManager[Booking](client, "bookings", BookingRoutes, opts...),
	}
}

func (s *service) Rooms() *resource.Manager[Room] { return s.rooms }

func (s *service) Bookings() *resource.Manager[Booking] { return s.bookings }

func (s *service) GetRoom(ctx context.Context, id int64) (Room, error) {
	return s.rooms.Get(ctx, id)
}

func (s *service) AvailableRooms(ctx context.Context) ([]Room, error) {
	return s.rooms.Query(ctx, "/available", nil)
}

func (s *service) RoomsByStatus(ctx context.Context, status RoomStatus) ([]Room, error) {
	return s.rooms.Query(ctx, "/status/"+string(status), nil)
}

func (s *service) RoomByNumber(ctx context.Context, number string) (Room, error) {
	return s.rooms.Lookup(ctx, "/number/"+url.PathEscape(number))
}

func (s *service) RoomsByType(ctx context.Context, kind RoomType) ([]Room, error) {
	return s.rooms.Query(ctx, "/type/"+string(kind), nil)
}

func (s *service) AvailableRoomsByType(ctx context.Context, kind RoomType) ([]Room, error) {
	return s.rooms.Query(ctx, "/available/type/"+string(kind), nil)
}

func (s *service) RoomStats(ctx context.Context) (RoomStats, error) {
	var stats RoomStats
	err := s.fetch(ctx, RoomRoutes.Collection+"/stats", nil, &stats)
	return stats, err
}

func (s *service) GetBooking(ctx context.Context, id int64) (Booking, error) {
	return s.bookings.Get(ctx, id)
}

func (s *service) BookingByReference(ctx context.Context, ref string) (Booking, error) {
	return s.bookings.Lookup(ctx, "/reference/"+url.PathEscape(ref))
}

func (s *service) BookingsByStatus(ctx context.Context, status BookingStatus) ([]Booking, error) {
	return s.bookings.Query(ctx, "/status/"+string(status), nil)
}

func (s *service) BookingsForRoom(ctx context.Context, roomID int64) ([]Booking, error) {
	return s.bookings.Query(ctx, "/room/"+strconv.FormatInt(roomID, 10), nil)
}

func (s *service) BookingsForGuest(ctx context.Context, email string) ([]Booking, error) {
	return s.bookings.Query(ctx, "/guest/"+url.PathEscape(email), nil)
}

func (s *service) ActiveBookings(ctx context.Context, day time.Time) ([]Booking, error) {
	return s.bookings.Query(ctx, "/active", onDate(day))
}

func (s *service) CheckIns(ctx context.Context, day time.Time) ([]Booking, error) {
	return s.bookings.Query(ctx, "/check-ins", onDate(day))
}

func (s *service) CheckOuts(ctx context.Context, day time.Time) ([]Booking, error) {
	return s.bookings.Query(ctx, "/check-outs", onDate(day))
}

func (s *service) BookingStats(ctx context.Context) (BookingStats, error) {
	var stats BookingStats
	err := s.fetch(ctx, BookingRoutes.Collection+"/stats", nil, &stats)
	return stats, err
}

func (s *service) Revenue(ctx context.Context, from, to time.Time) (RevenueReport, error) {
	if to.Before(from) {
		return RevenueReport{}, fmt.Errorf("revenue period ends %s before it starts %s",
			to.Format(DateLayout), from.Format(DateLayout))
	}
	var report RevenueReport
	err := s.fetch(ctx, BookingRoutes.Collection+"/revenue", url.Values{
		"startDate": {from.Format(DateLayout)},
		"endDate":   {to.Format(DateLayout)},
	}, &report)
	return report, err
}

func onDate(day time.Time) url.Values {
	return url.Values{"date": {day.Format(DateLayout)}}
}

// fetch reads a server-side aggregate that is not a collection record.
func (s *service) fetch(ctx context.Context, path string, params url.Values, out any) error {
	req := clients.Request{Method: http.MethodGet, Path: path, Query: params}
	if err := s.client.Do(ctx, req, out); err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	return nil
}

// SetBookingStatus moves a booking through its stay lifecycle.
func (s *service) SetBookingStatus(ctx context.Context, id int64, status BookingStatus) (Booking, error) {
	if !contains(BookingStatuses, status) {
		return Booking{}, fmt.Errorf("unknown booking status %q", status)
	}
	return s.bookings.Patch(ctx, id, resource.FieldPatch{
		Field: "status",
		Path:  "/status",
		Query: url.Values{"status": {string(status)}},
	})
}

func (s *service) Overview(ctx context.Context) (Summary, error) {
	ctx, span := tracer.Start(ctx, "guesthouse.overview")
	defer span.End()

	var (
		rooms    []Room
		bookings []Booking
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rooms, err = s.rooms.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		bookings, err = s.bookings.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Summary{}, fmt.Errorf("failed to load guesthouse overview: %w", err)
	}

	summary := Summarize(rooms, bookings)
	span.SetAttributes(
		attribute.Int("rooms.total", summary.TotalRooms),
		attribute.Int("rooms.occupied", summary.OccupiedRooms),
		attribute.Int("bookings.total", summary.TotalBookings),
	)
	return summary, nil
}

func (s *service) Close() {
	s.rooms.Close()
	s.bookings.Close()
}
