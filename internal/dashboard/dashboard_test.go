// internal/dashboard/dashboard_test.go
package dashboard

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kingdomseekers/internal/apitest"
	"kingdomseekers/internal/clients"
	"kingdomseekers/internal/giving"
	"kingdomseekers/internal/membership"
)

func newDashboard(t *testing.T) (*apitest.Server, *Dashboard) {
	t.Helper()
	srv := apitest.New(t)
	client := clients.NewClient(srv.BaseURL())
	return srv, New(membership.NewService(client), giving.NewService(client), nil)
}

func TestTotals(t *testing.T) {
	srv, d := newDashboard(t)
	srv.Seed("members",
		membership.Member{FirstName: "Ann", LastName: "W", Email: "a@x.org", VettingStatus: membership.VettingPending},
		membership.Member{FirstName: "Ben", LastName: "O", Email: "b@x.org", VettingStatus: membership.VettingApproved},
		membership.Member{FirstName: "Cy", LastName: "K", Email: "c@x.org", VettingStatus: membership.VettingPending},
	)
	srv.Seed("pastors", membership.Pastor{FirstName: "John", LastName: "Mark", Email: "j@x.org", ChurchBranch: "Central", CountryCode: "KE"})
	srv.Seed("donations",
		giving.Donation{Amount: 100.5, DonationType: giving.TypeTithe, DonationDate: "2026-10-01", MemberID: 1},
		giving.Donation{Amount: 50, DonationType: giving.TypeOffering, DonationDate: "2026-10-02", MemberID: 2},
	)

	got, err := d.Totals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Totals{
		Members:        3,
		PendingVetting: 2,
		Pastors:        1,
		Donations:      2,
		DonationTotal:  150.5,
	}, got)

	assert.Equal(t, 1, srv.Count(http.MethodGet, "/members"))
	assert.Equal(t, 1, srv.Count(http.MethodGet, "/pastors"))
	assert.Equal(t, 1, srv.Count(http.MethodGet, "/donations"))
}

func TestTotalsEmpty(t *testing.T) {
	_, d := newDashboard(t)

	got, err := d.Totals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Totals{}, got)
}

func TestTotalsFailure(t *testing.T) {
	srv, d := newDashboard(t)
	srv.FailNext(http.MethodGet, "/pastors", http.StatusForbidden, "Forbidden")

	_, err := d.Totals(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, clients.StatusCode(err))
}
