// internal/membership/service.go
package membership

import (
	"context"

	"kingdomseekers/internal/resource"
)

// Route tables for the two membership collections.
var (
	MemberRoutes = resource.Routes{Collection: "/members", Update: true}
	PastorRoutes = resource.Routes{Collection: "/pastors"}
)

// Service defines the interface for the membership service.
type Service interface {
	Members() *resource.Manager[Member]
	Pastors() *resource.Manager[Pastor]

	GetMember(ctx context.Context, id int64) (Member, error)
	SetVettingStatus(ctx context.Context, id int64, status VettingStatus) (Member, error)
	AssignPastor(ctx context.Context, memberID, pastorID int64) (Member, error)
	MembersByVettingStatus(ctx context.Context, status VettingStatus) ([]Member, error)
	MembersByPastor(ctx context.Context, pastorID int64) ([]Member, error)

	GetPastor(ctx context.Context, id int64) (Pastor, error)
	PastorsByBranch(ctx context.Context, branch string) ([]Pastor, error)
	PastorsByCountry(ctx context.Context, countryCode string) ([]Pastor, error)

	// Close discards local state of both managers.
	Close()
}
