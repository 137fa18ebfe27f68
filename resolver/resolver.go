// Package resolver turns a navigational context (path segments plus URL
// hash) into a fully-formed recipient page, trying sources in priority
// order: GitHub-hosted config, GitHub profile alone, quick-link token,
// bare address.
package resolver

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/x402x/gives/clients"
	"github.com/x402x/gives/codec"
	"github.com/x402x/gives/logger"
	"github.com/x402x/gives/metrics"
	"github.com/x402x/gives/types"
	"github.com/x402x/gives/utils"
)

// GitHubAPI is the slice of the GitHub client the resolver needs.
type GitHubAPI interface {
	User(ctx context.Context, username string) (*types.GitHubUser, error)
	Repo(ctx context.Context, owner, repo string) (*types.GitHubRepo, error)
	DonationConfig(ctx context.Context, username, repo string, bypassCache bool) (*types.DonationConfig, string, error)
}

// Route is the navigational identity of one page view. Username marks a
// GitHub route; Address a quick-link route; Hash is the URL fragment with
// the leading '#' already stripped.
type Route struct {
	Username string
	Repo     string
	Address  string
	Hash     string
}

// Identity is the re-resolution key: two routes with equal identity render
// the same page and must not trigger a second resolution.
func (r Route) Identity() string {
	return fmt.Sprintf("%s/%s/%s#%s", r.Username, r.Repo, r.Address, r.Hash)
}

// Resolver resolves routes into recipient pages.
type Resolver struct {
	github  GitHubAPI
	log     logger.Logger
	metrics metrics.Recorder
}

// New builds a resolver over the GitHub collaborator.
func New(github GitHubAPI, log logger.Logger, rec metrics.Recorder) *Resolver {
	if log == nil {
		log = logger.NoopLogger{}
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Resolver{github: github, log: log, metrics: rec}
}

// Resolve evaluates the fallback chain once. A nil result with a nil error
// means "not found": the route names nothing donatable. Failures inside a
// branch fall through to the next branch instead of aborting the whole
// resolution.
func (r *Resolver) Resolve(ctx context.Context, route Route) (*types.RecipientPageData, error) {
	r.metrics.IncCounter(metrics.EventResolution, map[string]string{})

	switch {
	case route.Username != "":
		return r.resolveGitHub(ctx, route)
	case route.Address != "" && utils.IsChainAddress(route.Address):
		return r.resolveQuickLink(route), nil
	default:
		return nil, nil
	}
}

func (r *Resolver) resolveGitHub(ctx context.Context, route Route) (*types.RecipientPageData, error) {
	var (
		config    *types.DonationConfig
		reference string
		configErr error

		user    *types.GitHubUser
		userErr error

		repo *types.GitHubRepo
	)

	// Config, profile and repo metadata are independent reads; issue them
	// together so the slowest one bounds the latency, not their sum.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		config, reference, configErr = r.github.DonationConfig(gctx, route.Username, route.Repo, false)
		return nil
	})
	g.Go(func() error {
		user, userErr = r.github.User(gctx, route.Username)
		return nil
	})
	if route.Repo != "" {
		g.Go(func() error {
			// Best effort; a missing repo only loses stars/description.
			repo, _ = r.github.Repo(gctx, route.Username, route.Repo)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if configErr == nil && config != nil && userErr == nil && user != nil {
		r.log.Debug("resolved verified github config", map[string]any{
			"reference": reference,
		})
		return buildGitHubPage(config, reference, true, user, repo), nil
	}

	if userErr == nil && user != nil {
		// Profile exists but there is no (usable) config file: render the
		// page unconfigured, payTo intentionally absent.
		r.log.Debug("github profile without donation config", map[string]any{
			"username": route.Username,
		})
		return buildGitHubPage(&types.DonationConfig{}, reference, false, user, repo), nil
	}

	r.log.Debug("github resolution found nothing", map[string]any{
		"username": route.Username,
		"repo":     route.Repo,
	})
	return nil, nil
}

func (r *Resolver) resolveQuickLink(route Route) *types.RecipientPageData {
	decoded := codec.Decode(route.Hash)
	if decoded != nil {
		// The URL path is authoritative for payTo regardless of what the
		// token claims.
		decoded.PayTo = route.Address
		if codec.Validate(decoded) {
			reference := route.Address
			if route.Hash != "" {
				reference = fmt.Sprintf("%s#%s", route.Address, route.Hash)
			}
			return buildQuickLinkPage(decoded, reference)
		}
	}

	return buildQuickLinkPage(&types.DonationConfig{PayTo: route.Address}, route.Address)
}

func buildGitHubPage(config *types.DonationConfig, reference string, verified bool, user *types.GitHubUser, repo *types.GitHubRepo) *types.RecipientPageData {
	if reference == "" {
		reference = fmt.Sprintf("github.com/%s/%s/%s", user.Login, user.Login, clients.ConfigPath)
	}
	return &types.RecipientPageData{
		Config: *config.Clone(),
		Metadata: types.PageMetadata{
			Source: types.Source{
				Type:      types.SourceGitHub,
				Reference: reference,
				Verified:  verified,
			},
			GitHubUser: user,
			GitHubRepo: repo,
		},
	}
}

func buildQuickLinkPage(config *types.DonationConfig, reference string) *types.RecipientPageData {
	return &types.RecipientPageData{
		Config: *config.Clone(),
		Metadata: types.PageMetadata{
			Source: types.Source{
				Type:      types.SourceQuickLink,
				Reference: reference,
				Verified:  false,
			},
		},
	}
}
