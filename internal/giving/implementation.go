// internal/giving/implementation.go
package giving

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"kingdomseekers/internal/clients"
	"kingdomseekers/internal/resource"
)

type service struct {
	donations *resource.Manager[Donation]
}

// NewService creates a new giving service instance.
func NewService(client clients.Doer, opts ...resource.ManagerOption) Service {
	return &service{
		donations: resource.NewManager[Donation](client, "donations", DonationRoutes, opts...),
	}
}

func (s *service) Donations() *resource.Manager[Donation] { return s.donations }

func (s *service) GetDonation(ctx context.Context, id int64) (Donation, error) {
	return s.donations.Get(ctx, id)
}

func (s *service) DonationsByMember(ctx context.Context, memberID int64) ([]Donation, error) {
	return s.donations.Query(ctx, "/member/"+strconv.FormatInt(memberID, 10), nil)
}

func (s *service) DonationsByType(ctx context.Context, t DonationType) ([]Donation, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown donation type %q", t)
	}
	return s.donations.Query(ctx, "/type/"+string(t), nil)
}

func (s *service) DonationsByCampaign(ctx context.Context, code string) ([]Donation, error) {
	return s.donations.Query(ctx, "/campaign/"+url.PathEscape(code), nil)
}

func (s *service) DonationsBetween(ctx context.Context, from, to time.Time) ([]Donation, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("date range ends %s before it starts %s",
			to.Format(DateLayout), from.Format(DateLayout))
	}
	return s.donations.Query(ctx, "/date-range", url.Values{
		"startDate": {from.Format(DateLayout)},
		"endDate":   {to.Format(DateLayout)},
	})
}

func (s *service) Close() {
	s.donations.Close()
}
