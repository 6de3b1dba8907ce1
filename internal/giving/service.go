// internal/giving/service.go
package giving

import (
	"context"
	"time"

	"kingdomseekers/internal/resource"
)

// DonationRoutes allows listing and creating only.
var DonationRoutes = resource.Routes{Collection: "/donations"}

// Service defines the interface for the giving service.
type Service interface {
	Donations() *resource.Manager[Donation]

	GetDonation(ctx context.Context, id int64) (Donation, error)
	DonationsByMember(ctx context.Context, memberID int64) ([]Donation, error)
	DonationsByType(ctx context.Context, t DonationType) ([]Donation, error)
	DonationsByCampaign(ctx context.Context, code string) ([]Donation, error)
	// DonationsBetween returns donations dated within [from, to], inclusive.
	DonationsBetween(ctx context.Context, from, to time.Time) ([]Donation, error)

	Close()
}
