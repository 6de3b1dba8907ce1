// internal/membership/domain.go
package membership

import (
	"fmt"
	"strings"

	"kingdomseekers/internal/resource"
)

// VettingStatus is the moderation state of a member record.
type VettingStatus string

const (
	VettingPending  VettingStatus = "PENDING"
	VettingApproved VettingStatus = "APPROVED"
	VettingRejected VettingStatus = "REJECTED"
)

// VettingStatuses lists every status in workflow order.
var VettingStatuses = []VettingStatus{VettingPending, VettingApproved, VettingRejected}

func (s VettingStatus) Valid() bool {
	switch s {
	case VettingPending, VettingApproved, VettingRejected:
		return true
	}
	return false
}

// ParseVettingStatus accepts any letter case.
func ParseVettingStatus(s string) (VettingStatus, error) {
	v := VettingStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("unknown vetting status %q", s)
	}
	return v, nil
}

// Member represents a congregation member.
type Member struct {
	ID                 int64         `json:"id"`
	FirstName          string        `json:"firstName"`
	LastName           string        `json:"lastName"`
	Email              string        `json:"email"`
	Phone              string        `json:"phone"`
	Address            string        `json:"address"`
	Nationality        string        `json:"nationality,omitempty"`
	CountryOfResidence string        `json:"countryOfResidence,omitempty"`
	VettingStatus      VettingStatus `json:"vettingStatus"`
	PastorID           *int64        `json:"pastorId"`
}

// NewMember returns an empty draft awaiting vetting.
func NewMember() Member {
	return Member{VettingStatus: VettingPending}
}

func (m Member) ResourceID() int64 { return m.ID }

func (m Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// Validate checks required fields only.
func (m Member) Validate() error {
	var req resource.Required
	req.Text("firstName", m.FirstName)
	req.Text("lastName", m.LastName)
	req.Text("email", m.Email)
	return req.Err()
}

// Pastor represents a pastor serving a church branch.
type Pastor struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	ChurchBranch string `json:"churchBranch"`
	CountryCode  string `json:"countryCode"`
}

func (p Pastor) ResourceID() int64 { return p.ID }

func (p Pastor) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (p Pastor) Validate() error {
	var req resource.Required
	req.Text("firstName", p.FirstName)
	req.Text("lastName", p.LastName)
	req.Text("email", p.Email)
	req.Text("churchBranch", p.ChurchBranch)
	req.Text("countryCode", p.CountryCode)
	return req.Err()
}
