// Package clients holds the collaborator boundaries of the donation core:
// the GitHub read-only API, the x402 facilitator, and the donor's wallet.
// Every failure crossing out of this package is a typed error; nothing
// here panics into a caller.
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/x402x/gives/codec"
	"github.com/x402x/gives/logger"
	"github.com/x402x/gives/metrics"
	"github.com/x402x/gives/types"
)

const (
	// ConfigPath is the conventional repository-relative location of a
	// creator's donation configuration.
	ConfigPath = ".x402/donation.json"

	defaultGitHubAPIBase  = "https://api.github.com"
	defaultGitHubRawBase  = "https://raw.githubusercontent.com"
	defaultGitHubTimeout  = 10 * time.Second
	defaultGitHubCacheTTL = 5 * time.Minute
)

// GitHubConfig configures the GitHub collaborator client.
type GitHubConfig struct {
	APIBaseURL string
	RawBaseURL string
	Timeout    time.Duration
	CacheTTL   time.Duration
	Logger     logger.Logger
	Metrics    metrics.Recorder
}

// GitHubClient reads user profiles, repository metadata and donation
// configuration files. Responses are cached briefly so a page reload does
// not hammer the unauthenticated API.
type GitHubClient struct {
	apiBase    string
	rawBase    string
	httpClient *http.Client
	cache      *gocache.Cache
	log        logger.Logger
	metrics    metrics.Recorder
}

// NewGitHubClient builds a GitHub client; zero-value config fields fall
// back to production defaults.
func NewGitHubClient(cfg GitHubConfig) *GitHubClient {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultGitHubAPIBase
	}
	if cfg.RawBaseURL == "" {
		cfg.RawBaseURL = defaultGitHubRawBase
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultGitHubTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultGitHubCacheTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NoopLogger{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NoopRecorder{}
	}

	return &GitHubClient{
		apiBase:    cfg.APIBaseURL,
		rawBase:    cfg.RawBaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cache:      gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		log:        cfg.Logger,
		metrics:    cfg.Metrics,
	}
}

// User fetches a GitHub user profile. A 404 (or any non-2xx) is an error;
// the resolver treats every error here as "profile absent".
func (c *GitHubClient) User(ctx context.Context, username string) (*types.GitHubUser, error) {
	var user types.GitHubUser
	url := fmt.Sprintf("%s/users/%s", c.apiBase, username)
	if err := c.getJSON(ctx, url, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Repo fetches repository metadata (stars, forks, description, homepage).
func (c *GitHubClient) Repo(ctx context.Context, owner, repo string) (*types.GitHubRepo, error) {
	var r types.GitHubRepo
	url := fmt.Sprintf("%s/repos/%s/%s", c.apiBase, owner, repo)
	if err := c.getJSON(ctx, url, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// DonationConfig fetches and parses the donation configuration file of
// (username, repo). Repo defaults to the username itself: user-level
// configs live in <username>/<username>. A file that does not exist, does
// not parse, or lacks payTo is reported as an error, which callers treat
// the same as "no configuration". The returned reference names the exact
// file consulted.
func (c *GitHubClient) DonationConfig(ctx context.Context, username, repo string, bypassCache bool) (*types.DonationConfig, string, error) {
	targetRepo := repo
	if targetRepo == "" {
		targetRepo = username
	}
	reference := fmt.Sprintf("github.com/%s/%s/%s", username, targetRepo, ConfigPath)

	url := fmt.Sprintf("%s/%s/%s/main/%s", c.rawBase, username, targetRepo, ConfigPath)
	if bypassCache {
		url = fmt.Sprintf("%s?t=%d", url, time.Now().UnixMilli())
	}

	body, err := c.getRaw(ctx, url, bypassCache)
	if err != nil {
		return nil, reference, err
	}

	config, err := codec.ParseConfigFile(body)
	if err != nil {
		c.log.Warn("donation config did not parse", map[string]any{
			"reference": reference, "error": err.Error(),
		})
		return nil, reference, err
	}
	if config.PayTo == "" {
		return nil, reference, types.NewError(types.ErrInvalidConfig,
			"donation config has no payTo address")
	}

	return config, reference, nil
}

func (c *GitHubClient) getJSON(ctx context.Context, url string, out interface{}) error {
	body, err := c.getRaw(ctx, url, false)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return types.NewError(types.ErrResolutionFailed,
			fmt.Sprintf("failed to decode GitHub response: %v", err))
	}
	return nil
}

func (c *GitHubClient) getRaw(ctx context.Context, url string, bypassCache bool) ([]byte, error) {
	if !bypassCache {
		if cached, ok := c.cache.Get(url); ok {
			return cached.([]byte), nil
		}
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, types.NewError(types.ErrNetworkError, err.Error())
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, types.NewError(types.ErrNetworkError,
			fmt.Sprintf("GitHub request failed: %v", err))
	}
	defer resp.Body.Close()

	c.metrics.ObserveLatency(metrics.OperationGitHubFetch, time.Since(start), map[string]string{})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, types.NewError(types.ErrResolutionFailed,
			fmt.Sprintf("GitHub returned status %d for %s", resp.StatusCode, url))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.NewError(types.ErrNetworkError, err.Error())
	}

	if !bypassCache {
		c.cache.SetDefault(url, body)
	}
	return body, nil
}
