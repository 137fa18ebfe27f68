// Package codec encodes and decodes donation configurations to and from the
// URL-safe token carried in quick-link fragments, and validates configs from
// any source. The token format is base64(percent-encoded(JSON)) with
// JavaScript encodeURIComponent escaping, so tokens produced here are
// readable by the web client and vice versa.
package codec

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"

	"github.com/x402x/gives/types"
)

var validate = validator.New()

// Encode serializes a donation config into a quick-link token.
func Encode(config *types.DonationConfig) (string, error) {
	raw, err := json.Marshal(config)
	if err != nil {
		return "", &types.GivesError{
			Code:    types.ErrInvalidConfig,
			Message: fmt.Sprintf("invalid configuration format: %v", err),
		}
	}
	return base64.StdEncoding.EncodeToString([]byte(uriComponentEncode(string(raw)))), nil
}

// Decode reverses Encode. Malformed tokens of any kind return nil; a token
// coming off a URL fragment must never be able to crash the caller.
func Decode(token string) *types.DonationConfig {
	if token == "" {
		return nil
	}

	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil
	}

	jsonString, err := url.PathUnescape(string(raw))
	if err != nil {
		return nil
	}

	var config types.DonationConfig
	if err := json.Unmarshal([]byte(jsonString), &config); err != nil {
		return nil
	}
	return &config
}

// Validate reports whether a config is payable: payTo present, every split
// recipient carrying an address and a non-negative bips value, and the
// aggregate split not exceeding 100%. Per-entry bips have no separate upper
// bound; only the aggregate matters.
func Validate(config *types.DonationConfig) bool {
	if config == nil || config.PayTo == "" {
		return false
	}

	if len(config.Recipients) > 0 {
		if config.TotalBips() > types.MaxTotalBips {
			return false
		}
		for _, r := range config.Recipients {
			if r.Address == "" || r.Bips < 0 {
				return false
			}
		}
	}

	return true
}

// NormalizeNetworks is the single place the config network field becomes a
// list: absent means empty, a single key means a one-element list.
func NormalizeNetworks(field types.NetworkField) []string {
	if len(field) == 0 {
		return []string{}
	}
	return []string(field)
}

// ParseConfigFile parses a donation.json body fetched from a repository.
// Structural problems and struct-tag violations both fail the parse; a file
// without payTo is treated by callers the same as a missing file.
func ParseConfigFile(data []byte) (*types.DonationConfig, error) {
	var config types.DonationConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, &types.GivesError{
			Code:    types.ErrInvalidConfig,
			Message: fmt.Sprintf("failed to parse donation config: %v", err),
		}
	}

	if err := validate.Struct(&config); err != nil {
		return nil, &types.GivesError{
			Code:    types.ErrInvalidConfig,
			Message: fmt.Sprintf("donation config validation failed: %v", err),
		}
	}

	return &config, nil
}
