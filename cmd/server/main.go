package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"refguard/internal/app"
	"refguard/internal/audit"
	"refguard/internal/donation"
	"refguard/internal/incident"
	"refguard/internal/messaging"
	"refguard/internal/platform/config"
	"refguard/internal/platform/httpserver"
	"refguard/internal/platform/logger"
	"refguard/internal/platform/metrics"
	"refguard/internal/reference/validator"
	httptransport "refguard/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logger.New("info").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.New()
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

	refs := validator.New(peers, validator.WithLogger(log), validator.WithMetrics(validator.NewMetrics(reg)))
	recorder := audit.NewRecorder(stores.Audit, audit.WithLogger(log), audit.WithMetrics(audit.NewMetrics(reg)))
	incidents := incident.NewService(stores.Incidents, refs, recorder, stores.Tx, incident.WithLogger(log))
	donations := donation.NewService(stores.Donations, refs, donation.WithLogger(log))
	conversations := messaging.NewService(stores.Messaging, refs, recorder, stores.Tx, messaging.WithLogger(log))

	checks := map[string]httptransport.HealthCheck{}
	for name, check := range stores.HealthChecks() {
		checks[name] = check
	}

	router := httptransport.NewRouter(reg.Handler(), checks,
		httptransport.NewReferenceHandler(refs, log),
		httptransport.NewAuditHandler(recorder, log),
		httptransport.NewIncidentHandler(incidents, log),
		httptransport.NewDonationHandler(donations, log),
		httptransport.NewMessagingHandler(conversations, log),
	)

	if err := httpserver.Run(ctx, httpserver.New(cfg.Addr, router), log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
