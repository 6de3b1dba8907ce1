// internal/guesthouse/summary.go
package guesthouse

import "math"

// Summary is the guesthouse dashboard.
type Summary struct {
	TotalRooms     int
	OccupiedRooms  int
	AvailableRooms int
	// OccupancyRate is a whole percentage; 0 when there are no rooms.
	OccupancyRate int
	TotalBookings int
	// Revenue sums totalAmount over every booking fetched, whatever its date.
	Revenue  float64
	ByStatus map[BookingStatus]int
}

// OccupancyRate rounds occupied/total*100 to the nearest integer.
func OccupancyRate(occupied, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(occupied) / float64(total) * 100))
}

// Revenue sums the booking totals.
func Revenue(bookings []Booking) float64 {
	var sum float64
	for _, b := range bookings {
		sum += b.TotalAmount
	}
	return sum
}

func Summarize(rooms []Room, bookings []Booking) Summary {
	s := Summary{
		TotalRooms:    len(rooms),
		TotalBookings: len(bookings),
		Revenue:       Revenue(bookings),
		ByStatus:      make(map[BookingStatus]int),
	}
	for _, r := range rooms {
		if r.Status == RoomOccupied {
			s.OccupiedRooms++
		}
	}
	s.AvailableRooms = s.TotalRooms - s.OccupiedRooms
	s.OccupancyRate = OccupancyRate(s.OccupiedRooms, s.TotalRooms)
	for _, b := range bookings {
		s.ByStatus[b.Status]++
	}
	return s
}

// RoomStats is the server's own room count summary. Its occupancy rate is
// not rounded.
type RoomStats struct {
	TotalRooms     int64   `json:"totalRooms"`
	AvailableRooms int64   `json:"availableRooms"`
	OccupiedRooms  int64   `json:"occupiedRooms"`
	OccupancyRate  float64 `json:"occupancyRate"`
}

// BookingStats counts bookings in the statuses the front desk watches.
type BookingStats struct {
	TotalBookings     int64 `json:"totalBookings"`
	ConfirmedBookings int64 `json:"confirmedBookings"`
	PendingBookings   int64 `json:"pendingBookings"`
	CheckedInBookings int64 `json:"checkedInBookings"`
}

// RevenueReport is the server total of CONFIRMED bookings checking in
// between StartDate and EndDate, both inclusive.
type RevenueReport struct {
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate"`
	TotalRevenue float64 `json:"totalRevenue"`
}
