// Command seed fills a development database with sample incidents and
// donations. Peers
// that are down are tolerated: their references are replaced by synthetic
// identifiers and reported.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"

	"refguard/internal/app"
	"refguard/internal/donation"
	"refguard/internal/incident"
	"refguard/internal/platform/config"
	"refguard/internal/platform/logger"
	"refguard/internal/reference"
	"refguard/internal/reference/bulk"
	"refguard/internal/seed"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logger.New("info").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reg := prometheus.NewRegistry()
	peers, err := app.NewPeers(cfg, reg, log)
	if err != nil {
		log.Error("failed to build peer clients", "error", err)
		os.Exit(1)
	}
	stores, err := app.OpenStores(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open stores", "error", err)
		os.Exit(1)
	}
	defer stores.Close()

	var opts []bulk.Option
	for _, kind := range []reference.Kind{reference.KindState, reference.KindAddress, reference.KindUser, reference.KindPhoto} {
		opts = append(opts, bulk.WithFallbackBase(kind, cfg.Seed.FallbackBase))
	}
	opts = append(opts, bulk.WithLogger(log), bulk.WithMetrics(bulk.NewMetrics(reg)))

	resolver := bulk.New(peers, opts...)
	gen := seed.New(cfg.Seed.Value)

	incidents, reports, err := incident.NewSeeder(stores.Incidents, resolver, stores.Tx, gen, log).Seed(ctx, cfg.Seed.Count)
	if err != nil {
		log.Error("seeding incidents failed", "error", err)
		os.Exit(1)
	}
	logReports(log, "incidents", reports)

	donations, reports, err := donation.NewSeeder(stores.Donations, resolver, gen, log).Seed(ctx, cfg.Seed.Donations)
	if err != nil {
		log.Error("seeding donations failed", "error", err)
		os.Exit(1)
	}
	logReports(log, "donations", reports)

	log.Info("seeding complete", "incidents", len(incidents), "donations", len(donations))
}

func logReports(log *slog.Logger, entity string, reports map[reference.Kind]bulk.Report) {
	for kind, report := range reports {
		log.Info("references resolved",
			"entity", entity,
			"kind", kind,
			"requested", report.Requested,
			"available", report.Available,
			"fallbacks", report.Fallbacks,
		)
	}
}
