package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"refguard/internal/audit"
	auditmem "refguard/internal/audit/store/memory"
	auditpg "refguard/internal/audit/store/postgres"
	"refguard/internal/donation"
	donationmem "refguard/internal/donation/store/memory"
	donationredis "refguard/internal/donation/store/redis"
	"refguard/internal/incident"
	incidentmem "refguard/internal/incident/store/memory"
	incidentpg "refguard/internal/incident/store/postgres"
	"refguard/internal/messaging"
	messagingmem "refguard/internal/messaging/store/memory"
	messagingpg "refguard/internal/messaging/store/postgres"
	"refguard/internal/platform/config"
	"refguard/internal/platform/postgres"
	"refguard/internal/platform/redis"
	"refguard/pkg/platform/tx"
)

// Stores groups the persistence backends chosen from configuration.
type Stores struct {
	Audit     audit.Store
	Incidents incident.Store
	Donations donation.Store
	Messaging messaging.Store
	Tx        tx.Runner

	DB    *sql.DB
	Redis *redis.Client
}

// OpenStores uses Postgres and Redis when configured and falls back to
// in-memory stores otherwise.
func OpenStores(ctx context.Context, cfg config.Server, logger *slog.Logger) (*Stores, error) {
	s := &Stores{}

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if db != nil {
		auditStore := auditpg.New(db)
		incidentStore := incidentpg.New(db)
		if err := auditStore.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		if err := incidentStore.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		messagingStore := messagingpg.New(db)
		if err := messagingStore.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		s.DB = db
		s.Audit = auditStore
		s.Incidents = incidentStore
		s.Messaging = messagingStore
		s.Tx = postgres.NewTxManager(db)
		logger.Info("using postgres stores")
	} else {
		s.Audit = auditmem.NewInMemoryStore()
		s.Incidents = incidentmem.NewInMemoryStore()
		s.Messaging = messagingmem.NewInMemoryStore()
		s.Tx = tx.NewMemoryRunner()
		logger.Info("using in-memory stores")
	}

	rc, err := redis.Open(ctx, cfg.Redis)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open redis: %w", err)
	}
	if rc != nil {
		s.Redis = rc
		s.Donations = donationredis.New(rc.Client)
	} else {
		s.Donations = donationmem.NewInMemoryStore()
	}
	return s, nil
}

// HealthChecks returns a check per external backend in use.
func (s *Stores) HealthChecks() map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{}
	if s.DB != nil {
		checks["postgres"] = s.DB.PingContext
	}
	if s.Redis != nil {
		checks["redis"] = s.Redis.Ping
	}
	return checks
}

func (s *Stores) Close() {
	if s.DB != nil {
		_ = s.DB.Close()
	}
	if s.Redis != nil {
		_ = s.Redis.Close()
	}
}
