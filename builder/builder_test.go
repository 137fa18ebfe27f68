package builder

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x402x/gives/codec"
	"github.com/x402x/gives/networks"
	"github.com/x402x/gives/types"
)

const (
	payToAddr = "0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb1"
	splitAddr = "0x8ba1f109551bD432803012645Ac136ddd64DBa72"
)

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	return New(networks.NewRegistry(networks.Development, nil), "")
}

func fields(errs []FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestValidateCollectsAllErrors(t *testing.T) {
	b := newBuilder(t)

	errs := b.Validate(Draft{
		PayTo:         "nope",
		DefaultAmount: "abc",
		Networks:      []string{"polygon"},
		Recipients: []types.Recipient{
			{Address: "", Bips: -5},
			{Address: splitAddr, Bips: 10001},
		},
		Links:   []types.Link{{URL: ""}},
		Creator: &types.Creator{Avatar: "x"},
	})

	got := fields(errs)
	assert.Contains(t, got, "payTo")
	assert.Contains(t, got, "recipients[0].address")
	assert.Contains(t, got, "recipients[0].bips")
	assert.Contains(t, got, "recipients")
	assert.Contains(t, got, "defaultAmount")
	assert.Contains(t, got, "networks")
	assert.Contains(t, got, "links[0].url")
	assert.Contains(t, got, "creator.handle")
}

func TestValidateAcceptsCompleteDraft(t *testing.T) {
	b := newBuilder(t)

	errs := b.Validate(Draft{
		PayTo:         payToAddr,
		Title:         "Support Us",
		DefaultAmount: "$5",
		Networks:      []string{"base", "base-sepolia"},
		Recipients:    []types.Recipient{{Address: splitAddr, Bips: 3000}},
		Links:         []types.Link{{URL: "https://example.com", Label: "Site"}},
		Creator:       &types.Creator{Handle: "alice"},
	})
	assert.Empty(t, errs)
}

func TestValidateProductionTestnetRestriction(t *testing.T) {
	b := New(networks.NewRegistry(networks.Production, nil), "")

	errs := b.Validate(Draft{PayTo: payToAddr, Networks: []string{"base-sepolia"}})
	require.Len(t, errs, 1)
	assert.Equal(t, "networks", errs[0].Field)
	assert.Contains(t, errs[0].Message, "testnet")
}

func TestQuickLink(t *testing.T) {
	b := newBuilder(t)

	t.Run("bare address produces a fragment-free URL", func(t *testing.T) {
		pageURL, token, err := b.QuickLink(Draft{PayTo: payToAddr})
		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL+"/"+payToAddr, pageURL)
		assert.Empty(t, token)
	})

	t.Run("configured draft carries a token without payTo", func(t *testing.T) {
		pageURL, token, err := b.QuickLink(Draft{
			PayTo: payToAddr,
			Title: "Tip Jar",
		})
		require.NoError(t, err)
		require.NotEmpty(t, token)
		assert.Equal(t, DefaultBaseURL+"/"+payToAddr+"#"+token, pageURL)

		decoded := codec.Decode(token)
		require.NotNil(t, decoded)
		assert.Equal(t, "Tip Jar", decoded.Title)
		// The path is authoritative; the token never duplicates the address.
		assert.Empty(t, decoded.PayTo)
	})

	t.Run("invalid draft refuses to encode", func(t *testing.T) {
		_, _, err := b.QuickLink(Draft{PayTo: "bad"})
		assert.Error(t, err)
	})
}

func TestQuickLinkCustomBaseURL(t *testing.T) {
	b := New(networks.NewRegistry(networks.Development, nil), "https://donate.example.org")

	pageURL, _, err := b.QuickLink(Draft{PayTo: payToAddr})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(pageURL, "https://donate.example.org/"))
}

func TestGitHubURL(t *testing.T) {
	b := newBuilder(t)
	assert.Equal(t, DefaultBaseURL+"/github.com/alice", b.GitHubURL("alice", ""))
	assert.Equal(t, DefaultBaseURL+"/github.com/alice/tool", b.GitHubURL("alice", "tool"))
}

func TestConfigFile(t *testing.T) {
	b := newBuilder(t)

	data, err := b.ConfigFile(Draft{
		PayTo:    payToAddr,
		Title:    "Support Us",
		Networks: []string{"base"},
	})
	require.NoError(t, err)

	var config types.DonationConfig
	require.NoError(t, json.Unmarshal(data, &config))
	assert.Equal(t, payToAddr, config.PayTo)
	assert.Equal(t, types.NetworkField{"base"}, config.Network)

	// Committed files should be diff-friendly.
	assert.True(t, strings.Contains(string(data), "\n  "))
}

func TestBadges(t *testing.T) {
	b := newBuilder(t)
	pageURL := DefaultBaseURL + "/" + payToAddr

	md := b.BadgeMarkdown(pageURL, "alice")
	assert.Equal(t, "[![Support alice]("+BadgeImageURL+")]("+pageURL+")", md)

	html := b.BadgeHTML(pageURL, "alice")
	assert.Contains(t, html, "<a href=\""+pageURL+"\">")
	assert.Contains(t, html, "alt=\"Support alice\"")
}
