// Package app assembles the process from configuration. Both binaries share
// it so the server and the seeder talk to peers the same way.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"refguard/internal/platform/config"
	"refguard/internal/reference"
	"refguard/internal/reference/peer"
	"refguard/pkg/platform/circuit"
)

var errNotConfigured = errors.New("peer not configured")

type peerEndpoint struct {
	kind     reference.Kind
	baseURL  string
	listPath string
}

func endpoints(cfg config.Peers) []peerEndpoint {
	return []peerEndpoint{
		{reference.KindState, cfg.StateURL, cfg.StateListPath},
		{reference.KindAddress, cfg.AddressURL, cfg.AddressListPath},
		{reference.KindUser, cfg.UserURL, cfg.UserListPath},
		{reference.KindPhoto, cfg.PhotoURL, cfg.PhotoListPath},
	}
}

// NewPeers builds one client per reference kind. A kind without a base URL
// gets a client that always reports the peer unavailable, so writes that
// depend on it fail closed instead of failing as a contract violation.
func NewPeers(cfg config.Server, reg prometheus.Registerer, logger *slog.Logger) (*peer.Registry, error) {
	metrics := peer.NewMetrics(reg)
	httpClient := &http.Client{}

	var clients []peer.Client
	for _, ep := range endpoints(cfg.Peers) {
		if ep.baseURL == "" {
			logger.Warn("peer not configured, references of this kind cannot be verified", "kind", ep.kind)
			clients = append(clients, &peer.StaticClient{
				EntityKind: ep.kind,
				Err:        peer.Unreachable(ep.kind, errNotConfigured),
			})
			continue
		}

		breaker := circuit.New(string(ep.kind),
			circuit.WithFailureThreshold(cfg.Breaker.FailureThreshold),
			circuit.WithSuccessThreshold(cfg.Breaker.SuccessThreshold),
			circuit.WithCooldown(cfg.Breaker.Cooldown),
		)
		client, err := peer.NewHTTPClient(peer.Config{
			Kind:     ep.kind,
			BaseURL:  ep.baseURL,
			ListPath: ep.listPath,
			Timeout:  cfg.Peers.Timeout,
		},
			peer.WithHTTPClient(httpClient),
			peer.WithBreaker(breaker),
			peer.WithMetrics(metrics),
			peer.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("build %s peer: %w", ep.kind, err)
		}
		clients = append(clients, client)
	}
	registry, err := peer.NewRegistry(clients...)
	if err != nil {
		return nil, err
	}
	logger.Info("peer clients ready", "kinds", registry.Kinds())
	return registry, nil
}
