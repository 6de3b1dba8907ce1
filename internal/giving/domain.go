// internal/giving/domain.go
package giving

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"kingdomseekers/internal/resource"
)

// DateLayout is the wire format of donation dates.
const DateLayout = "2006-01-02"

// DonationType classifies a gift.
type DonationType string

const (
	TypeTithe    DonationType = "TITHE"
	TypeOffering DonationType = "OFFERING"
	TypeSpecial  DonationType = "SPECIAL"
	TypeCampaign DonationType = "CAMPAIGN"
)

// DonationTypes lists every donation type.
var DonationTypes = []DonationType{TypeTithe, TypeOffering, TypeSpecial, TypeCampaign}

func (t DonationType) Valid() bool {
	switch t {
	case TypeTithe, TypeOffering, TypeSpecial, TypeCampaign:
		return true
	}
	return false
}

func ParseDonationType(s string) (DonationType, error) {
	t := DonationType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown donation type %q", s)
	}
	return t, nil
}

// Donation is a single recorded gift from a member.
type Donation struct {
	ID           int64        `json:"id"`
	Amount       float64      `json:"amount"`
	DonationType DonationType `json:"donationType"`
	// CampaignCode only means something for CAMPAIGN donations and is sent
	// as "" for every other type.
	CampaignCode string `json:"campaignCode"`
	DonationDate string `json:"donationDate"`
	MemberID     int64  `json:"memberId"`
}

// NewDonation returns the blank form draft: a tithe dated today.
func NewDonation(now time.Time) Donation {
	return Donation{
		DonationType: TypeTithe,
		DonationDate: now.Format(DateLayout),
	}
}

func (d Donation) ResourceID() int64 { return d.ID }

// MarshalJSON drops the campaign code of non-campaign donations.
func (d Donation) MarshalJSON() ([]byte, error) {
	type wire Donation
	w := wire(d)
	if w.DonationType != TypeCampaign {
		w.CampaignCode = ""
	}
	return json.Marshal(w)
}

func (d Donation) Validate() error {
	var req resource.Required
	req.Range("amount", d.Amount >= 0)
	req.Check("donationType", d.DonationType.Valid())
	if d.DonationType == TypeCampaign {
		req.Text("campaignCode", d.CampaignCode)
	}
	req.Text("donationDate", d.DonationDate)
	req.Check("memberId", d.MemberID > 0)
	return req.Err()
}

// Date parses DonationDate.
func (d Donation) Date() (time.Time, error) {
	return time.Parse(DateLayout, d.DonationDate)
}

// Summary totals a set of donations.
type Summary struct {
	Count  int
	Total  float64
	ByType map[DonationType]float64
}

// Summarize totals donations overall and per type.
func Summarize(donations []Donation) Summary {
	s := Summary{Count: len(donations), ByType: make(map[DonationType]float64)}
	for _, d := range donations {
		s.Total += d.Amount
		s.ByType[d.DonationType] += d.Amount
	}
	return s
}
