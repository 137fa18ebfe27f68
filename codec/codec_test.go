package codec

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x402x/gives/types"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := map[string]*types.DonationConfig{
		"minimal": {
			PayTo: "0x1111111111111111111111111111111111111111",
		},
		"full": {
			PayTo: "0x1111111111111111111111111111111111111111",
			Recipients: []types.Recipient{
				{Address: "0x2222222222222222222222222222222222222222", Bips: 3000},
				{Address: "0x3333333333333333333333333333333333333333", Bips: 7000},
			},
			Title:         "Support My Work",
			Description:   "Donations keep the lights on ✨",
			Creator:       &types.Creator{Handle: "jolestar", Avatar: "https://github.com/jolestar.png"},
			DefaultAmount: "$5",
			Network:       types.NetworkField{"base", "base-sepolia"},
			Links: []types.Link{
				{URL: "https://github.com/example/repo", Label: "Repository"},
			},
		},
		"single network collapses to string form": {
			PayTo:   "0x1111111111111111111111111111111111111111",
			Network: types.NetworkField{"base"},
		},
	}

	for name, config := range cases {
		t.Run(name, func(t *testing.T) {
			token, err := Encode(config)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			decoded := Decode(token)
			require.NotNil(t, decoded)
			assert.Equal(t, config, decoded)
		})
	}
}

func TestDecodeMalformedReturnsNil(t *testing.T) {
	cases := []string{
		"",
		"not base64 at all!!!",
		"////",
		"aGVsbG8gd29ybGQ=",     // base64 of plain text, not JSON
		"JXp6aW52YWxpZA==",     // base64 of an invalid percent escape
		"eyJwYXlUbyI6",         // truncated
		strings.Repeat("A", 7), // wrong padding
	}
	for _, token := range cases {
		assert.Nil(t, Decode(token), "token %q must decode to nil", token)
	}
}

func TestValidate(t *testing.T) {
	payTo := "0x1111111111111111111111111111111111111111"

	t.Run("payTo required", func(t *testing.T) {
		assert.False(t, Validate(&types.DonationConfig{}))
		assert.False(t, Validate(nil))
		assert.True(t, Validate(&types.DonationConfig{PayTo: payTo}))
	})

	t.Run("bips overflow rejected regardless of payTo", func(t *testing.T) {
		config := &types.DonationConfig{
			PayTo: payTo,
			Recipients: []types.Recipient{
				{Address: "0x2222222222222222222222222222222222222222", Bips: 6000},
				{Address: "0x3333333333333333333333333333333333333333", Bips: 5000},
			},
		}
		assert.False(t, Validate(config))
	})

	t.Run("aggregate at exactly 10000 passes", func(t *testing.T) {
		config := &types.DonationConfig{
			PayTo: payTo,
			Recipients: []types.Recipient{
				{Address: "0x2222222222222222222222222222222222222222", Bips: 10000},
			},
		}
		assert.True(t, Validate(config))
	})

	t.Run("recipient without address rejected", func(t *testing.T) {
		config := &types.DonationConfig{
			PayTo:      payTo,
			Recipients: []types.Recipient{{Address: "", Bips: 100}},
		}
		assert.False(t, Validate(config))
	})

	t.Run("negative bips rejected", func(t *testing.T) {
		config := &types.DonationConfig{
			PayTo: payTo,
			Recipients: []types.Recipient{
				{Address: "0x2222222222222222222222222222222222222222", Bips: -1},
			},
		}
		assert.False(t, Validate(config))
	})
}

func TestNormalizeNetworks(t *testing.T) {
	assert.Equal(t, []string{}, NormalizeNetworks(nil))
	assert.Equal(t, []string{"base"}, NormalizeNetworks(types.NetworkField{"base"}))
	assert.Equal(t, []string{"base", "x-layer"}, NormalizeNetworks(types.NetworkField{"base", "x-layer"}))
}

func TestNetworkFieldJSONForms(t *testing.T) {
	single := Decode(tokenFromJSON(`{"payTo":"0x1111111111111111111111111111111111111111","network":"base"}`))
	require.NotNil(t, single)
	assert.Equal(t, types.NetworkField{"base"}, single.Network)

	list := Decode(tokenFromJSON(`{"payTo":"0x1111111111111111111111111111111111111111","network":["base","x-layer"]}`))
	require.NotNil(t, list)
	assert.Equal(t, types.NetworkField{"base", "x-layer"}, list.Network)
}

// tokenFromJSON builds a token the way the web client does, bypassing Encode
// so the two halves of the codec are tested against each other.
func tokenFromJSON(jsonString string) string {
	return base64.StdEncoding.EncodeToString([]byte(uriComponentEncode(jsonString)))
}

func TestParseConfigFile(t *testing.T) {
	config, err := ParseConfigFile([]byte(`{"payTo":"0x1111111111111111111111111111111111111111","title":"hi"}`))
	require.NoError(t, err)
	assert.Equal(t, "hi", config.Title)

	_, err = ParseConfigFile([]byte(`{not json`))
	require.Error(t, err)

	// struct-tag violation: creator present without handle
	_, err = ParseConfigFile([]byte(`{"payTo":"0x11","creator":{"avatar":"x"}}`))
	require.Error(t, err)
}
