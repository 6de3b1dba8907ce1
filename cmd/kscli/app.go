// cmd/kscli/app.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"kingdomseekers/internal/auth"
	"kingdomseekers/internal/clients"
	"kingdomseekers/internal/config"
	"kingdomseekers/internal/dashboard"
	"kingdomseekers/internal/giving"
	"kingdomseekers/internal/guesthouse"
	"kingdomseekers/internal/logging"
	"kingdomseekers/internal/membership"
	"kingdomseekers/internal/resource"
	"kingdomseekers/internal/storage"
	"kingdomseekers/internal/telemetry"
)

// App is everything one kscli invocation talks through.
type App struct {
	cfg    *config.Config
	logger *zap.Logger

	kv       *storage.KV
	tokens   auth.Store
	client   *clients.Client
	notices  *resource.Notices
	shutdown telemetry.ShutdownFunc

	auth       *auth.Service
	membership membership.Service
	giving     giving.Service
	guesthouse guesthouse.Service
	dashboard  *dashboard.Dashboard

	out    io.Writer
	errOut io.Writer
	now    func() time.Time
}

func newApp(ctx context.Context, cfg *config.Config, out, errOut io.Writer) (*App, error) {
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}

	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry.Endpoint, cfg.Telemetry.ServiceName)
	if err != nil {
		return nil, err
	}

	if cfg.Storage.Driver == storage.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.DSN), 0700); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}
	kv, err := storage.Open(ctx, cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		return nil, err
	}
	tokens := auth.NewPersistentStore(kv, auth.NewSealer(cfg.Storage.Passphrase))

	client := clients.NewClient(cfg.API.BaseURL,
		clients.WithTimeout(cfg.Timeout()),
		clients.WithTokenSource(tokens),
		clients.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
		clients.WithLogger(logger),
	)

	notices := resource.NewNotices(resource.DefaultNoticeTTL, time.Now)
	opts := []resource.ManagerOption{
		resource.WithLogger(logger),
		resource.WithNotifier(resource.Fanout(resource.LogNotifier(logger), notices)),
	}
	ms := membership.NewService(client, opts...)
	gs := giving.NewService(client, opts...)

	return &App{
		cfg:        cfg,
		logger:     logger,
		kv:         kv,
		tokens:     tokens,
		client:     client,
		notices:    notices,
		shutdown:   shutdown,
		auth:       auth.NewService(client, tokens, logger),
		membership: ms,
		giving:     gs,
		guesthouse: guesthouse.NewService(client, opts...),
		dashboard:  dashboard.New(ms, gs, logger),
		out:        out,
		errOut:     errOut,
		now:        time.Now,
	}, nil
}

// flushNotice prints the pending mutation notice, if any, to stderr.
func (a *App) flushNotice() {
	n, ok := a.notices.Active()
	if !ok {
		return
	}
	fmt.Fprintln(a.errOut, noticeStyle(n.Severity).Render(n.Message))
	a.notices.Dismiss()
}

func (a *App) Close(ctx context.Context) error {
	a.flushNotice()
	a.membership.Close()
	a.giving.Close()
	a.guesthouse.Close()

	err := errors.Join(a.kv.Close(), a.shutdown(ctx))
	_ = a.logger.Sync()
	return err
}
