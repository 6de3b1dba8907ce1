// internal/membership/implementation.go
package membership

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"kingdomseekers/internal/clients"
	"kingdomseekers/internal/resource"
)

// service implements the Service interface.
type service struct {
	members *resource.Manager[Member]
	pastors *resource.Manager[Pastor]
}

// NewService creates a new membership service instance.
func NewService(client clients.Doer, opts ...resource.ManagerOption) Service {
	return &service{
		members: resource.NewManager[Member](client, "members", MemberRoutes, opts...),
		pastors: resource.NewManager[Pastor](client, "pastors", PastorRoutes, opts...),
	}
}

func (s *service) Members() *resource.Manager[Member] { return s.members }

func (s *service) Pastors() *resource.Manager[Pastor] { return s.pastors }

// GetMember retrieves a member by ID.
func (s *service) GetMember(ctx context.Context, id int64) (Member, error) {
	return s.members.Get(ctx, id)
}

// SetVettingStatus moves a member through the vetting workflow.
func (s *service) SetVettingStatus(ctx context.Context, id int64, status VettingStatus) (Member, error) {
	if !status.Valid() {
		return Member{}, fmt.Errorf("unknown vetting status %q", status)
	}
	return s.members.Patch(ctx, id, resource.FieldPatch{
		Field: "vettingStatus",
		Path:  "/vetting",
		Query: url.Values{"status": {string(status)}},
	})
}

// AssignPastor links a member to a pastor.
func (s *service) AssignPastor(ctx context.Context, memberID, pastorID int64) (Member, error) {
	return s.members.Patch(ctx, memberID, resource.FieldPatch{
		Field: "pastorId",
		Path:  "/assign-pastor/" + strconv.FormatInt(pastorID, 10),
	})
}

func (s *service) MembersByVettingStatus(ctx context.Context, status VettingStatus) ([]Member, error) {
	return s.members.Query(ctx, "/vetting/"+url.PathEscape(string(status)), nil)
}

func (s *service) MembersByPastor(ctx context.Context, pastorID int64) ([]Member, error) {
	return s.members.Query(ctx, "/pastor/"+strconv.FormatInt(pastorID, 10), nil)
}

func (s *service) GetPastor(ctx context.Context, id int64) (Pastor, error) {
	return s.pastors.Get(ctx, id)
}

func (s *service) PastorsByBranch(ctx context.Context, branch string) ([]Pastor, error) {
	return s.pastors.Query(ctx, "/branch/"+url.PathEscape(branch), nil)
}

func (s *service) PastorsByCountry(ctx context.Context, countryCode string) ([]Pastor, error) {
	return s.pastors.Query(ctx, "/country/"+url.PathEscape(countryCode), nil)
}

func (s *service) Close() {
	s.members.Close()
	s.pastors.Close()
}
