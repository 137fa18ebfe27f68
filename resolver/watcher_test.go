package resolver

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x402x/gives/types"
)

// gateGitHub blocks each username's reads until its gate is released, so
// tests can order the completion of overlapping resolutions.
type gateGitHub struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
}

func newGateGitHub() *gateGitHub {
	return &gateGitHub{gates: make(map[string]chan struct{})}
}

func (g *gateGitHub) gate(username string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gates[username] == nil {
		g.gates[username] = make(chan struct{})
	}
	return g.gates[username]
}

func (g *gateGitHub) release(username string) { close(g.gate(username)) }

func (g *gateGitHub) User(ctx context.Context, username string) (*types.GitHubUser, error) {
	select {
	case <-g.gate(username):
	case <-ctx.Done():
	}
	return &types.GitHubUser{Login: username}, nil
}

func (g *gateGitHub) Repo(context.Context, string, string) (*types.GitHubRepo, error) {
	return nil, nil
}

func (g *gateGitHub) DonationConfig(ctx context.Context, username, _ string, _ bool) (*types.DonationConfig, string, error) {
	select {
	case <-g.gate(username):
	case <-ctx.Done():
	}
	return &types.DonationConfig{PayTo: quickAddr}, "github.com/" + username, nil
}

func collectResults() (func(Result), <-chan Result) {
	ch := make(chan Result, 8)
	return func(r Result) { ch <- r }, ch
}

func waitResult(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a resolution result")
		return Result{}
	}
}

func assertNoResult(t *testing.T, ch <-chan Result) {
	t.Helper()
	select {
	case r := <-ch:
		t.Fatalf("unexpected result delivered for %q", r.Route.Username)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcherDiscardsStaleResolution(t *testing.T) {
	gh := newGateGitHub()
	deliver, results := collectResults()
	w := NewWatcher(New(gh, nil, nil), deliver)
	defer w.Stop()

	w.Navigate(context.Background(), Route{Username: "slow"})
	w.Navigate(context.Background(), Route{Username: "fast"})

	gh.release("fast")
	got := waitResult(t, results)
	assert.Equal(t, "fast", got.Route.Username)
	require.NotNil(t, got.Data)
	assert.Equal(t, "fast", got.Data.Metadata.GitHubUser.Login)

	// The first navigation completes afterwards; its result must vanish.
	gh.release("slow")
	assertNoResult(t, results)
}

func TestWatcherSameIdentityIsNoop(t *testing.T) {
	gh := newGateGitHub()
	gh.release("alice")
	deliver, results := collectResults()
	w := NewWatcher(New(gh, nil, nil), deliver)
	defer w.Stop()

	route := Route{Username: "alice"}
	w.Navigate(context.Background(), route)
	waitResult(t, results)

	w.Navigate(context.Background(), route)
	assertNoResult(t, results)
}

func TestWatcherStopSuppressesDelivery(t *testing.T) {
	gh := newGateGitHub()
	deliver, results := collectResults()
	w := NewWatcher(New(gh, nil, nil), deliver)

	w.Navigate(context.Background(), Route{Username: "carol"})
	w.Stop()
	gh.release("carol")
	assertNoResult(t, results)
}
