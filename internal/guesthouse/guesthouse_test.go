// internal/guesthouse/guesthouse_test.go
package guesthouse

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"kingdomseekers/internal/apitest"
	"kingdomseekers/internal/clients"
	"kingdomseekers/internal/resource"
)

func newTestService(t *testing.T) (*apitest.Server, Service) {
	t.Helper()
	srv := apitest.New(t)
	return srv, NewService(clients.NewClient(srv.BaseURL()))
}

func room(number string, status RoomStatus) Room {
	r := NewRoom()
	r.RoomNumber = number
	r.Status = status
	return r
}

func seed(srv *apitest.Server) {
	srv.Seed("rooms",
		room("101", RoomAvailable),
		room("102", RoomOccupied),
		room("103", RoomMaintenance),
		room("104", RoomAvailable),
	)
	srv.Seed("bookings",
		Booking{BookingReference: "HG-1", Room: RoomRef{ID: 2}, GuestName: "Grace", GuestEmail: "g@x.org",
			CheckInDate: "2026-10-18", CheckOutDate: "2026-10-20", TotalAmount: 10000,
			PaymentMethod: PayMPesa, Status: BookingCheckedIn},
		Booking{BookingReference: "HG-2", Room: RoomRef{ID: 1}, GuestName: "Peter", GuestEmail: "p@x.org",
			CheckInDate: "2026-11-01", CheckOutDate: "2026-11-02", TotalAmount: 5000,
			PaymentMethod: PayCash, Status: BookingPending},
	)
}

func TestParsePaymentMethod(t *testing.T) {
	cases := map[string]PaymentMethod{
		"M-Pesa":        PayMPesa,
		"m_pesa":        PayMPesa,
		"Bank Transfer": PayBankTransfer,
		"cash":          PayCash,
		" Credit Card ": PayCreditCard,
	}
	for label, want := range cases {
		got, err := ParsePaymentMethod(label)
		require.NoError(t, err, label)
		assert.Equal(t, want, got, label)
	}

	_, err := ParsePaymentMethod("cheque")
	assert.Error(t, err)
}

func TestParseOtherEnums(t *testing.T) {
	rt, err := ParseRoomType("family suite")
	require.NoError(t, err)
	assert.Equal(t, RoomFamilySuite, rt)

	rs, err := ParseRoomStatus("out-of-order")
	require.NoError(t, err)
	assert.Equal(t, RoomOutOfOrder, rs)

	bs, err := ParseBookingStatus("checked in")
	require.NoError(t, err)
	assert.Equal(t, BookingCheckedIn, bs)

	pt, err := ParsePackageType("Luxury")
	require.NoError(t, err)
	assert.Equal(t, PackageLuxury, pt)

	_, err = ParseRoomType("penthouse")
	assert.Error(t, err)
}

func TestNewRoomDraft(t *testing.T) {
	r := NewRoom()
	assert.Equal(t, RoomStandard, r.Type)
	assert.Equal(t, 2, r.Capacity)
	assert.Equal(t, 5000.0, r.Price)
	assert.Equal(t, PackageBasic, r.PackageType)
	assert.Equal(t, RoomAvailable, r.Status)

	var gap *resource.ValidationGap
	require.ErrorAs(t, r.Validate(), &gap)
	assert.Equal(t, []string{"roomNumber"}, gap.Fields)

	r.RoomNumber, r.Price, r.Capacity = "101", -1, 0
	require.ErrorAs(t, r.Validate(), &gap)
	assert.Empty(t, gap.Fields)
	assert.Equal(t, []string{"capacity", "price"}, gap.Invalid)
	assert.Equal(t, "invalid values: capacity, price", gap.Error())
}

func TestBookingValidate(t *testing.T) {
	b := NewBooking(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
	var gap *resource.ValidationGap
	require.ErrorAs(t, b.Validate(), &gap)
	assert.Equal(t, []string{"room", "guestName", "guestEmail"}, gap.Fields)

	b.Room.ID, b.GuestName, b.GuestEmail = 1, "Grace", "g@x.org"
	assert.NoError(t, b.Validate())
}

func TestBookingNightsAndQuote(t *testing.T) {
	b := Booking{CheckInDate: "2026-10-18", CheckOutDate: "2026-10-21"}
	assert.Equal(t, 3, b.Nights())
	assert.Equal(t, 15000.0, b.Quote(NewRoom()))

	assert.Zero(t, Booking{CheckInDate: "2026-10-21", CheckOutDate: "2026-10-18"}.Nights())
	assert.Zero(t, Booking{CheckInDate: "soon"}.Nights())
}

func TestOccupancyRate(t *testing.T) {
	assert.Equal(t, 0, OccupancyRate(0, 0))
	assert.Equal(t, 25, OccupancyRate(1, 4))
	assert.Equal(t, 33, OccupancyRate(1, 3))
	assert.Equal(t, 67, OccupancyRate(2, 3))
	assert.Equal(t, 100, OccupancyRate(5, 5))
}

func TestSummarizeProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		statuses := rapid.SliceOf(rapid.SampledFrom(RoomStatuses)).Draw(t, "rooms")
		amounts := rapid.SliceOf(rapid.Float64Range(0, 1e5)).Draw(t, "amounts")

		rooms := make([]Room, len(statuses))
		for i, s := range statuses {
			rooms[i] = Room{ID: int64(i + 1), Status: s}
		}
		bookings := make([]Booking, len(amounts))
		var want float64
		for i, a := range amounts {
			bookings[i] = Booking{ID: int64(i + 1), TotalAmount: a}
			want += a
		}

		s := Summarize(rooms, bookings)
		if s.AvailableRooms != s.TotalRooms-s.OccupiedRooms {
			t.Fatalf("available %d != %d - %d", s.AvailableRooms, s.TotalRooms, s.OccupiedRooms)
		}
		if s.OccupancyRate < 0 || s.OccupancyRate > 100 {
			t.Fatalf("occupancy %d out of range", s.OccupancyRate)
		}
		if s.TotalRooms == 0 && s.OccupancyRate != 0 {
			t.Fatalf("occupancy %d with no rooms", s.OccupancyRate)
		}
		if s.Revenue != want {
			t.Fatalf("revenue %v, want %v", s.Revenue, want)
		}
	})
}

func TestOverview(t *testing.T) {
	srv, svc := newTestService(t)
	seed(srv)

	s, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, s.TotalRooms)
	assert.Equal(t, 1, s.OccupiedRooms)
	assert.Equal(t, 3, s.AvailableRooms)
	assert.Equal(t, 25, s.OccupancyRate)
	assert.Equal(t, 2, s.TotalBookings)
	assert.Equal(t, 15000.0, s.Revenue)
	assert.Equal(t, 1, s.ByStatus[BookingPending])

	assert.Len(t, svc.Rooms().Items(), 4)
	assert.Len(t, svc.Bookings().Items(), 2)
}

func TestOverviewWithNoRooms(t *testing.T) {
	_, svc := newTestService(t)

	s, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Zero(t, s.OccupancyRate)
	assert.Zero(t, s.Revenue)
}

func TestOverviewFailure(t *testing.T) {
	srv, svc := newTestService(t)
	seed(srv)
	srv.FailNext(http.MethodGet, "/bookings", http.StatusInternalServerError, "database down")

	_, err := svc.Overview(context.Background())
	require.Error(t, err)
	assert.Equal(t, "database down", clients.ServerMessage(err))
	assert.False(t, svc.Bookings().Loaded())
}

func TestCreateBookingSendsRoomReference(t *testing.T) {
	srv, svc := newTestService(t)
	seed(srv)

	draft := NewBooking(time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC))
	draft.Room.ID = 4
	draft.GuestName, draft.GuestEmail = "Ruth", "ruth@x.org"
	method, err := ParsePaymentMethod("Bank Transfer")
	require.NoError(t, err)
	draft.PaymentMethod = method

	created, err := svc.Bookings().Create(context.Background(), draft)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.BookingReference, "HG-"))

	post, ok := srv.Last(http.MethodPost, "/bookings")
	require.True(t, ok)
	body := post.JSON()
	assert.Equal(t, map[string]any{"id": 4.0}, body["room"])
	assert.Equal(t, "BANK_TRANSFER", body["paymentMethod"])
	assert.Equal(t, "2026-12-25", body["checkOutDate"])
	assert.NotContains(t, body, "totalAmount")
	assert.Equal(t, 1, srv.Count(http.MethodGet, "/bookings"))
}

func TestSetBookingStatus(t *testing.T) {
	srv, svc := newTestService(t)
	seed(srv)
	ctx := context.Background()

	b, err := svc.SetBookingStatus(ctx, 2, BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, BookingConfirmed, b.Status)

	patch, ok := srv.Last(http.MethodPatch, "/bookings/2/status")
	require.True(t, ok)
	assert.Equal(t, "status=CONFIRMED", patch.Query)
	assert.Equal(t, 1, srv.Count(http.MethodGet, "/bookings"))

	_, err = svc.SetBookingStatus(ctx, 2, "LOST")
	assert.Error(t, err)
}

func TestRemoveRoomAndBooking(t *testing.T) {
	srv, svc := newTestService(t)
	seed(srv)
	ctx := context.Background()

	require.NoError(t, svc.Rooms().Remove(ctx, 3))
	assert.Equal(t, 1, srv.Count(http.MethodDelete, "/rooms/3"))
	assert.Len(t, svc.Rooms().Items(), 3)
	_, found := svc.Rooms().Find(3)
	assert.False(t, found)

	require.NoError(t, svc.Bookings().Remove(ctx, 1))
	assert.Len(t, svc.Bookings().Items(), 1)

	err := svc.Rooms().Remove(ctx, 99)
	assert.True(t, clients.IsNotFound(err))
}

func TestUpdateRoom(t *testing.T) {
	srv, svc := newTestService(t)
	seed(srv)
	ctx := context.Background()

	r, err := svc.GetRoom(ctx, 1)
	require.NoError(t, err)
	r.Price = 6500
	r.Amenities = "WiFi, breakfast"

	updated, err := svc.Rooms().Update(ctx, 1, r)
	require.NoError(t, err)
	assert.Equal(t, 6500.0, updated.Price)
	assert.Equal(t, 1, srv.Count(http.MethodGet, "/rooms"))
}

func TestLookups(t *testing.T) {
	srv, svc := newTestService(t)
	seed(srv)
	ctx := context.Background()

	available, err := svc.AvailableRooms(ctx)
	require.NoError(t, err)
	assert.Len(t, available, 2)

	maintenance, err := svc.RoomsByStatus(ctx, RoomMaintenance)
	require.NoError(t, err)
	require.Len(t, maintenance, 1)
	assert.Equal(t, "103", maintenance[0].RoomNumber)

	b, err := svc.BookingByReference(ctx, "HG-2")
	require.NoError(t, err)
	assert.Equal(t, "Peter", b.GuestName)

	_, err = svc.BookingByReference(ctx, "HG-404")
	assert.True(t, clients.IsNotFound(err))

	pending, err := svc.BookingsByStatus(ctx, BookingPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	forRoom, err := svc.BookingsForRoom(ctx, 2)
	require.NoError(t, err)
	require.Len(t, forRoom, 1)
	assert.Equal(t, "HG-1", forRoom[0].BookingReference)

	got, err := svc.GetBooking(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Room.ID)

	assert.False(t, svc.Rooms().Loaded())
}

func TestRoomLookupsByNumberAndType(t *testing.T) {
	srv, svc := newTestService(t)
	deluxe := room("201", RoomAvailable)
	deluxe.Type = RoomDeluxe
	bookedDeluxe := room("202", RoomOccupied)
	bookedDeluxe.Type = RoomDeluxe
	srv.Seed("rooms", room("101", RoomAvailable), deluxe, bookedDeluxe)
	ctx := context.Background()

	r, err := svc.RoomByNumber(ctx, "202")
	require.NoError(t, err)
	assert.Equal(t, int64(3), r.ID)

	_, err = svc.RoomByNumber(ctx, "999")
	assert.True(t, clients.IsNotFound(err))

	byType, err := svc.RoomsByType(ctx, RoomDeluxe)
	require.NoError(t, err)
	assert.Len(t, byType, 2)

	open, err := svc.AvailableRoomsByType(ctx, RoomDeluxe)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "201", open[0].RoomNumber)

	_, ok := srv.Last(http.MethodGet, "/rooms/available/type/DELUXE")
	assert.True(t, ok)
	assert.False(t, svc.Rooms().Loaded())
}

func TestBookingsByGuestAndDate(t *testing.T) {
	srv, svc := newTestService(t)
	seed(srv)
	srv.Seed("bookings", Booking{BookingReference: "HG-3", Room: RoomRef{ID: 4}, GuestName: "Grace", GuestEmail: "g@x.org",
		CheckInDate: "2026-10-20", CheckOutDate: "2026-10-22", TotalAmount: 10000,
		PaymentMethod: PayCash, Status: BookingConfirmed})
	ctx := context.Background()
	day := func(s string) time.Time {
		d, err := time.Parse(DateLayout, s)
		require.NoError(t, err)
		return d
	}

	forGuest, err := svc.BookingsForGuest(ctx, "g@x.org")
	require.NoError(t, err)
	assert.Len(t, forGuest, 2)

	active, err := svc.ActiveBookings(ctx, day("2026-10-19"))
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "HG-1", active[0].BookingReference)

	act, ok := srv.Last(http.MethodGet, "/bookings/active")
	require.True(t, ok)
	assert.Equal(t, "date=2026-10-19", act.Query)

	// HG-1 leaves the day HG-3 arrives.
	arrivals, err := svc.CheckIns(ctx, day("2026-10-20"))
	require.NoError(t, err)
	require.Len(t, arrivals, 1)
	assert.Equal(t, "HG-3", arrivals[0].BookingReference)

	departures, err := svc.CheckOuts(ctx, day("2026-10-20"))
	require.NoError(t, err)
	require.Len(t, departures, 1)
	assert.Equal(t, "HG-1", departures[0].BookingReference)

	// Pending stays are not expected at the desk.
	none, err := svc.CheckIns(ctx, day("2026-11-01"))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestServerStats(t *testing.T) {
	srv, svc := newTestService(t)
	seed(srv)
	ctx := context.Background()

	rooms, err := svc.RoomStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, RoomStats{TotalRooms: 4, AvailableRooms: 2, OccupiedRooms: 1, OccupancyRate: 25}, rooms)

	bookings, err := svc.BookingStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, BookingStats{TotalBookings: 2, PendingBookings: 1, CheckedInBookings: 1}, bookings)

	srv.FailNext(http.MethodGet, "/rooms/stats", http.StatusServiceUnavailable, "")
	_, err = svc.RoomStats(ctx)
	assert.Equal(t, http.StatusServiceUnavailable, clients.StatusCode(err))
}

func TestRevenueForPeriod(t *testing.T) {
	srv, svc := newTestService(t)
	seed(srv)
	ctx := context.Background()
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC)

	report, err := svc.Revenue(ctx, from, to)
	require.NoError(t, err)
	assert.Zero(t, report.TotalRevenue)

	_, err = svc.SetBookingStatus(ctx, 2, BookingConfirmed)
	require.NoError(t, err)

	report, err = svc.Revenue(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, RevenueReport{StartDate: "2026-10-01", EndDate: "2026-11-30", TotalRevenue: 5000}, report)

	get, ok := srv.Last(http.MethodGet, "/bookings/revenue")
	require.True(t, ok)
	assert.Equal(t, "endDate=2026-11-30&startDate=2026-10-01", get.Query)

	n := len(srv.Requests())
	_, err = svc.Revenue(ctx, to, from)
	assert.Error(t, err)
	assert.Len(t, srv.Requests(), n)
}

func TestCreatedBookingIsPricedByServer(t *testing.T) {
	srv, svc := newTestService(t)
	seed(srv)

	draft := NewBooking(time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC))
	draft.CheckOutDate = "2026-12-27"
	draft.Room.ID = 1
	draft.GuestName, draft.GuestEmail = "Ruth", "ruth@x.org"

	created, err := svc.Bookings().Create(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, 3, created.NumberOfNights)
	assert.Equal(t, draft.Quote(room("101", RoomAvailable)), created.TotalAmount)
}
