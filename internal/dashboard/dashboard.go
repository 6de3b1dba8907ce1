// internal/dashboard/dashboard.go

// Package dashboard assembles the headline numbers of the administration home page.
package dashboard

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"kingdomseekers/internal/giving"
	"kingdomseekers/internal/membership"
)

var tracer = otel.Tracer("kingdomseekers/dashboard")

// Totals are the dashboard counters.
type Totals struct {
	Members        int
	PendingVetting int
	Pastors        int
	Donations      int
	DonationTotal  float64
}

// Dashboard reads through the membership and giving services.
type Dashboard struct {
	membership membership.Service
	giving     giving.Service
	logger     *zap.Logger
}

func New(m membership.Service, g giving.Service, logger *zap.Logger) *Dashboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dashboard{membership: m, giving: g, logger: logger}
}

// Totals refreshes members, pastors and donations in parallel.
// Any failed fetch fails the whole call.
func (d *Dashboard) Totals(ctx context.Context) (Totals, error) {
	ctx, span := tracer.Start(ctx, "dashboard.totals")
	defer span.End()

	var (
		members   []membership.Member
		pastors   []membership.Pastor
		donations []giving.Donation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		members, err = d.membership.Members().List(gctx)
		return err
	})
	g.Go(func() (err error) {
		pastors, err = d.membership.Pastors().List(gctx)
		return err
	})
	g.Go(func() (err error) {
		donations, err = d.giving.Donations().List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		d.logger.Error("failed to load dashboard", zap.Error(err))
		span.RecordError(err)
		return Totals{}, fmt.Errorf("failed to load dashboard: %w", err)
	}

	t := Totals{
		Members:       len(members),
		Pastors:       len(pastors),
		Donations:     len(donations),
		DonationTotal: giving.Summarize(donations).Total,
	}
	for _, m := range members {
		if m.VettingStatus == membership.VettingPending {
			t.PendingVetting++
		}
	}
	return t, nil
}
