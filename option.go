package gives

import (
	"github.com/x402x/gives/clients"
	"github.com/x402x/gives/logger"
	"github.com/x402x/gives/metrics"
	"github.com/x402x/gives/networks"
)

type Option func(*Gives)

func WithLogger(l logger.Logger) Option {
	return func(g *Gives) {
		g.log = l
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(g *Gives) {
		g.metrics = r
	}
}

// WithRegistry substitutes the network registry, mainly to inject a
// durable preference store.
func WithRegistry(r *networks.Registry) Option {
	return func(g *Gives) {
		g.registry = r
	}
}

// WithGitHubClient substitutes the GitHub collaborator, mainly for tests.
func WithGitHubClient(c *clients.GitHubClient) Option {
	return func(g *Gives) {
		g.github = c
	}
}
