// internal/guesthouse/domain.go
package guesthouse

import (
	"fmt"
	"strings"
	"time"

	"kingdomseekers/internal/resource"
)

// DateLayout is the wire format of check-in and check-out dates.
const DateLayout = "2006-01-02"

// RoomType is the room category.
type RoomType string

const (
	RoomStandard    RoomType = "STANDARD"
	RoomDeluxe      RoomType = "DELUXE"
	RoomVIP         RoomType = "VIP"
	RoomFamilySuite RoomType = "FAMILY_SUITE"
)

var RoomTypes = []RoomType{RoomStandard, RoomDeluxe, RoomVIP, RoomFamilySuite}

// PackageType is the service tier sold with a room.
type PackageType string

const (
	PackageBasic   PackageType = "BASIC"
	PackagePremium PackageType = "PREMIUM"
	PackageLuxury  PackageType = "LUXURY"
	PackageFamily  PackageType = "FAMILY"
)

var PackageTypes = []PackageType{PackageBasic, PackagePremium, PackageLuxury, PackageFamily}

// RoomStatus is the housekeeping state of a room.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "AVAILABLE"
	RoomOccupied    RoomStatus = "OCCUPIED"
	RoomMaintenance RoomStatus = "MAINTENANCE"
	RoomOutOfOrder  RoomStatus = "OUT_OF_ORDER"
)

var RoomStatuses = []RoomStatus{RoomAvailable, RoomOccupied, RoomMaintenance, RoomOutOfOrder}

// BookingStatus is the stay lifecycle of a booking.
type BookingStatus string

const (
	BookingPending    BookingStatus = "PENDING"
	BookingConfirmed  BookingStatus = "CONFIRMED"
	BookingCheckedIn  BookingStatus = "CHECKED_IN"
	BookingCheckedOut BookingStatus = "CHECKED_OUT"
	BookingCancelled  BookingStatus = "CANCELLED"
	BookingNoShow     BookingStatus = "NO_SHOW"
)

var BookingStatuses = []BookingStatus{
	BookingPending, BookingConfirmed, BookingCheckedIn,
	BookingCheckedOut, BookingCancelled, BookingNoShow,
}

// PaymentMethod is how a guest settles a booking.
type PaymentMethod string

const (
	PayMPesa        PaymentMethod = "M_PESA"
	PayBankTransfer PaymentMethod = "BANK_TRANSFER"
	PayCash         PaymentMethod = "CASH"
	PayCreditCard   PaymentMethod = "CREDIT_CARD"
)

var PaymentMethods = []PaymentMethod{PayMPesa, PayBankTransfer, PayCash, PayCreditCard}

// enumKey turns a human label such as "M-Pesa" into "M_PESA".
func enumKey(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}

func parseEnum[E ~string](kind, s string, valid []E) (E, error) {
	key := E(enumKey(s))
	for _, v := range valid {
		if v == key {
			return v, nil
		}
	}
	var zero E
	return zero, fmt.Errorf("unknown %s %q", kind, s)
}

func ParseRoomType(s string) (RoomType, error) { return parseEnum("room type", s, RoomTypes) }

func ParsePackageType(s string) (PackageType, error) {
	return parseEnum("package type", s, PackageTypes)
}

func ParseRoomStatus(s string) (RoomStatus, error) {
	return parseEnum("room status", s, RoomStatuses)
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	return parseEnum("booking status", s, BookingStatuses)
}

// ParsePaymentMethod accepts labels as typed by staff, e.g. "M-Pesa" or "Bank Transfer".
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	return parseEnum("payment method", s, PaymentMethods)
}

func contains[E comparable](all []E, v E) bool {
	for _, x := range all {
		if x == v {
			return true
		}
	}
	return false
}

// Room is a guesthouse room.
type Room struct {
	ID          int64       `json:"id"`
	RoomNumber  string      `json:"roomNumber"`
	Type        RoomType    `json:"type"`
	Capacity    int         `json:"capacity"`
	Price       float64     `json:"price"`
	Status      RoomStatus  `json:"status"`
	PackageType PackageType `json:"packageType"`
	Description string      `json:"description,omitempty"`
	Amenities   string      `json:"amenities,omitempty"`
}

// NewRoom returns the blank form draft.
func NewRoom() Room {
	return Room{
		Type:        RoomStandard,
		Capacity:    2,
		Price:       5000,
		Status:      RoomAvailable,
		PackageType: PackageBasic,
	}
}

func (r Room) ResourceID() int64 { return r.ID }

func (r Room) Validate() error {
	var req resource.Required
	req.Text("roomNumber", r.RoomNumber)
	req.Check("type", contains(RoomTypes, r.Type))
	req.Range("capacity", r.Capacity > 0)
	req.Range("price", r.Price >= 0)
	req.Check("packageType", contains(PackageTypes, r.PackageType))
	if r.Status != "" {
		req.Check("status", contains(RoomStatuses, r.Status))
	}
	return req.Err()
}

// RoomRef points a booking at a room. Responses may carry the room number too.
type RoomRef struct {
	ID         int64  `json:"id"`
	RoomNumber string `json:"roomNumber,omitempty"`
}

// Booking is a guest reservation of one room.
type Booking struct {
	ID               int64         `json:"id"`
	BookingReference string        `json:"bookingReference,omitempty"`
	Room             RoomRef       `json:"room"`
	GuestName        string        `json:"guestName"`
	GuestEmail       string        `json:"guestEmail"`
	GuestPhone       string        `json:"guestPhone"`
	CheckInDate      string        `json:"checkInDate"`
	CheckOutDate     string        `json:"checkOutDate"`
	NumberOfNights   int           `json:"numberOfNights,omitempty"`
	TotalAmount      float64       `json:"totalAmount,omitempty"`
	PaymentMethod    PaymentMethod `json:"paymentMethod"`
	Status           BookingStatus `json:"status,omitempty"`
	SpecialRequests  string        `json:"specialRequests,omitempty"`
}

// NewBooking returns the blank form draft: a one-night stay from today.
func NewBooking(now time.Time) Booking {
	return Booking{
		CheckInDate:   now.Format(DateLayout),
		CheckOutDate:  now.AddDate(0, 0, 1).Format(DateLayout),
		PaymentMethod: PayMPesa,
		Status:        BookingPending,
	}
}

func (b Booking) ResourceID() int64 { return b.ID }

func (b Booking) Validate() error {
	var req resource.Required
	req.Check("room", b.Room.ID > 0)
	req.Text("guestName", b.GuestName)
	req.Text("guestEmail", b.GuestEmail)
	req.Text("checkInDate", b.CheckInDate)
	req.Text("checkOutDate", b.CheckOutDate)
	req.Check("paymentMethod", contains(PaymentMethods, b.PaymentMethod))
	return req.Err()
}

// Nights is the stay length implied by the dates; 0 when they do not parse.
func (b Booking) Nights() int {
	in, err := time.Parse(DateLayout, b.CheckInDate)
	if err != nil {
		return 0
	}
	out, err := time.Parse(DateLayout, b.CheckOutDate)
	if err != nil || !out.After(in) {
		return 0
	}
	return int(out.Sub(in).Hours() / 24)
}

// Quote estimates the amount the server will charge for the stay in room.
func (b Booking) Quote(room Room) float64 {
	return float64(b.Nights()) * room.Price
}
