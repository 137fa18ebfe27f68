package networks

import (
	"fmt"
	"strings"

	"github.com/x402x/gives/codec"
	"github.com/x402x/gives/types"
)

// Mode is the build-time environment classification. It is fixed at
// construction; availability decisions must be deterministic for a build.
type Mode string

const (
	Development Mode = "development"
	Production  Mode = "production"
)

// Registry answers every network question the rest of the module asks:
// what exists, what this build may use, what a recipient allows, and what
// the donor preferred last time.
type Registry struct {
	mode  Mode
	prefs PreferenceStore
}

// NewRegistry builds a registry for the given mode. A nil store disables
// preference persistence.
func NewRegistry(mode Mode, prefs PreferenceStore) *Registry {
	if prefs == nil {
		prefs = NewMemoryPreferences()
	}
	return &Registry{mode: mode, prefs: prefs}
}

// Mode returns the build mode the registry was constructed with.
func (r *Registry) Mode() Mode { return r.mode }

// ListAll returns the full static catalog in fixed order.
func (r *Registry) ListAll() []NetworkConfig {
	out := make([]NetworkConfig, 0, len(catalogOrder))
	for _, k := range catalogOrder {
		out = append(out, catalog[k])
	}
	return out
}

// Available returns the networks this build may use: everything in
// development, the mainnet subset in production.
func (r *Registry) Available() []Key {
	out := make([]Key, 0, len(catalogOrder))
	for _, k := range catalogOrder {
		if r.mode == Production && catalog[k].IsTestnet() {
			continue
		}
		out = append(out, k)
	}
	return out
}

// Selectable intersects the available networks with a recipient's
// restriction list, preserving availability order. An unrestricted config
// selects everything available.
func (r *Registry) Selectable(config *types.DonationConfig) []Key {
	available := r.Available()
	if config == nil {
		return available
	}

	configured := codec.NormalizeNetworks(config.Network)
	if len(configured) == 0 {
		return available
	}

	allowed := make(map[string]struct{}, len(configured))
	for _, n := range configured {
		allowed[n] = struct{}{}
	}

	out := make([]Key, 0, len(available))
	for _, k := range available {
		if _, ok := allowed[string(k)]; ok {
			out = append(out, k)
		}
	}
	return out
}

// ValidationReport is the outcome of ValidateConfig. Both error classes may
// co-occur; nothing short-circuits.
type ValidationReport struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidateConfig flags network keys missing from the catalog, and
// separately flags syntactically valid testnet keys when the build is
// production. A config without a network restriction is always valid.
func (r *Registry) ValidateConfig(config *types.DonationConfig) ValidationReport {
	errors := []string{}
	configured := codec.NormalizeNetworks(config.Network)
	if len(configured) == 0 {
		return ValidationReport{Valid: true, Errors: errors}
	}

	var invalid, testnets []string
	for _, n := range configured {
		cfg, ok := catalog[Key(n)]
		if !ok {
			invalid = append(invalid, n)
			continue
		}
		if r.mode == Production && cfg.IsTestnet() {
			testnets = append(testnets, n)
		}
	}

	if len(invalid) > 0 {
		known := make([]string, 0, len(catalogOrder))
		for _, k := range catalogOrder {
			known = append(known, string(k))
		}
		errors = append(errors, fmt.Sprintf(
			"invalid networks: %s. Available networks: %s",
			strings.Join(invalid, ", "), strings.Join(known, ", ")))
	}
	if len(testnets) > 0 {
		errors = append(errors, fmt.Sprintf(
			"testnet networks are not available in production: %s",
			strings.Join(testnets, ", ")))
	}

	return ValidationReport{Valid: len(errors) == 0, Errors: errors}
}

// ByKey returns the catalog entry for a key.
func (r *Registry) ByKey(key Key) (NetworkConfig, bool) {
	cfg, ok := catalog[key]
	return cfg, ok
}

// ByChainID returns the network whose chain id matches, if any.
func (r *Registry) ByChainID(chainID int64) (NetworkConfig, bool) {
	for _, k := range catalogOrder {
		if catalog[k].ChainID == chainID {
			return catalog[k], true
		}
	}
	return NetworkConfig{}, false
}

// Preferred returns the donor's stored network preference. A stored key no
// longer present in the catalog reads as absent, never as an error.
func (r *Registry) Preferred() (Key, bool) {
	stored, ok := r.prefs.Get()
	if !ok {
		return "", false
	}
	if _, known := catalog[stored]; !known {
		return "", false
	}
	return stored, true
}

// SetPreferred stores the donor's network choice. Last write wins.
func (r *Registry) SetPreferred(key Key) {
	r.prefs.Set(key)
}
