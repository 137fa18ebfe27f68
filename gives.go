// Package gives implements the recipient-resolution and
// payment-orchestration core behind x402 donation pages: creators publish
// a configuration (in a repository or inside the link itself), donors
// resolve it and pay through the x402 settlement protocol.
package gives

import (
	"context"

	"github.com/x402x/gives/builder"
	"github.com/x402x/gives/clients"
	"github.com/x402x/gives/config"
	"github.com/x402x/gives/logger"
	"github.com/x402x/gives/metrics"
	"github.com/x402x/gives/networks"
	"github.com/x402x/gives/payment"
	"github.com/x402x/gives/resolver"
	"github.com/x402x/gives/types"
)

// Gives is the assembled donation core: one registry, one resolver, one
// builder, and a factory for per-session payment orchestrators. Construct
// it once at startup and share it by reference.
type Gives struct {
	cfg      *config.Config
	registry *networks.Registry
	github   *clients.GitHubClient
	resolver *resolver.Resolver
	builder  *builder.Builder
	log      logger.Logger
	metrics  metrics.Recorder
}

// New assembles the core from configuration plus options.
func New(cfg *config.Config, opts ...Option) *Gives {
	g := &Gives{
		cfg:     cfg,
		log:     logger.NoopLogger{},
		metrics: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(g)
	}

	mode := networks.Development
	if cfg.App.Mode == string(networks.Production) {
		mode = networks.Production
	}

	if g.registry == nil {
		g.registry = networks.NewRegistry(mode, nil)
	}
	if g.github == nil {
		g.github = clients.NewGitHubClient(clients.GitHubConfig{
			APIBaseURL: cfg.GitHub.APIBaseURL,
			RawBaseURL: cfg.GitHub.RawBaseURL,
			Timeout:    cfg.GitHub.Timeout,
			CacheTTL:   cfg.GitHub.CacheTTL,
			Logger:     g.log,
			Metrics:    g.metrics,
		})
	}
	g.resolver = resolver.New(g.github, g.log, g.metrics)
	g.builder = builder.New(g.registry, cfg.App.BaseURL)
	return g
}

// NewWithDefaults assembles the core with default configuration, suitable
// for tests and examples. An unreadable config file falls back to the
// built-in defaults rather than failing construction.
func NewWithDefaults(opts ...Option) *Gives {
	cfg, err := config.Load(".")
	if err != nil {
		cfg = config.Default()
	}
	return New(cfg, opts...)
}

// Resolve evaluates the resolution fallback chain for one route.
func (g *Gives) Resolve(ctx context.Context, route resolver.Route) (*types.RecipientPageData, error) {
	return g.resolver.Resolve(ctx, route)
}

// Watch builds a stale-discarding resolution watcher over this core.
func (g *Gives) Watch(deliver func(resolver.Result)) *resolver.Watcher {
	return resolver.NewWatcher(g.resolver, deliver)
}

// Networks exposes the registry: catalog, availability policy, recipient
// restriction intersection, preference store.
func (g *Gives) Networks() *networks.Registry { return g.registry }

// Builder exposes the draft builder and its shareable outputs.
func (g *Gives) Builder() *builder.Builder { return g.builder }

// NewPayment builds an orchestrator for one donor wallet. Settlement
// clients are facilitator-backed and constructed per selected network.
func (g *Gives) NewPayment(wallet clients.Wallet, cb payment.Callbacks) *payment.Orchestrator {
	factory := func(n networks.NetworkConfig) clients.SettlementClient {
		return clients.NewFacilitatorClient(clients.FacilitatorConfig{
			URL:                 g.cfg.Facilitator.URL,
			Network:             n,
			Wallet:              wallet,
			Timeout:             g.cfg.Facilitator.Timeout,
			ConfirmationTimeout: g.cfg.Facilitator.ConfirmationTimeout,
			Logger:              g.log,
			Metrics:             g.metrics,
		})
	}
	return payment.NewOrchestrator(g.registry, wallet, factory, cb, g.log, g.metrics)
}

// Version information
const Version = "1.0.0"

// GetVersion returns version and capability information.
func GetVersion() map[string]interface{} {
	keys := make([]string, 0, 4)
	for _, n := range networks.NewRegistry(networks.Development, nil).ListAll() {
		keys = append(keys, string(n.Key))
	}
	return map[string]interface{}{
		"library_version":    Version,
		"supported_networks": keys,
		"config_path":        clients.ConfigPath,
	}
}
