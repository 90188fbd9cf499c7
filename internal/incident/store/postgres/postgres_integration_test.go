//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"refguard/internal/audit"
	auditpg "refguard/internal/audit/store/postgres"
	"refguard/internal/incident"
	incidentpg "refguard/internal/incident/store/postgres"
	platformpg "refguard/internal/platform/postgres"
	"refguard/internal/reference"
	"refguard/internal/reference/peer"
	"refguard/internal/reference/validator"
	"refguard/pkg/testutil/containers"
)

type IncidentPostgresSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	service  *incident.Service
}

func TestIncidentPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(IncidentPostgresSuite))
}

func (s *IncidentPostgresSuite) SetupSuite() {
	ctx := context.Background()
	s.postgres = containers.NewPostgresContainer(s.T())
	incidents := incidentpg.New(s.postgres.DB)
	audits := auditpg.New(s.postgres.DB)
	s.Require().NoError(incidents.Migrate(ctx))
	s.Require().NoError(audits.Migrate(ctx))

	var states []reference.Descriptor
	for _, id := range []reference.ID{"1", "2", "3", "4", "5", "6"} {
		states = append(states, reference.Descriptor{Kind: reference.KindState, ID: id})
	}
	registry, err := peer.NewRegistry(
		&peer.StaticClient{EntityKind: reference.KindState, Descriptors: states},
		&peer.StaticClient{EntityKind: reference.KindUser, Descriptors: []reference.Descriptor{{Kind: reference.KindUser, ID: "7"}}},
	)
	s.Require().NoError(err)

	s.service = incident.NewService(incidents, validator.New(registry), audit.NewRecorder(audits), platformpg.NewTxManager(s.postgres.DB))
}

func (s *IncidentPostgresSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audit_records", "incidents"))
}

func (s *IncidentPostgresSuite) TestConcurrentTransitionsFormAChain() {
	ctx := context.Background()
	inc, err := s.service.Create(ctx, incident.CreateRequest{Title: "broken lamp", StateID: "1", ReporterID: "7"})
	s.Require().NoError(err)

	var wg sync.WaitGroup
	for _, next := range []reference.ID{"2", "3", "4", "5", "6"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.ChangeState(ctx, inc.ID, next, "")
			s.NoError(err)
		}()
	}
	wg.Wait()

	history, err := s.service.History(ctx, inc.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 5)

	// every state is left at most once, and the walk from 1 visits all records
	next := map[reference.ID]reference.ID{}
	for _, rec := range history {
		_, dup := next[rec.PriorState.ID]
		s.False(dup, "two transitions claim prior state %s", rec.PriorState.ID)
		next[rec.PriorState.ID] = rec.NewState.ID
	}
	at, steps := reference.ID("1"), 0
	for {
		to, ok := next[at]
		if !ok {
			break
		}
		at = to
		steps++
	}
	s.Equal(5, steps)
}
