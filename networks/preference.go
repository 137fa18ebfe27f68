package networks

import (
	gocache "github.com/patrickmn/go-cache"
)

// PreferenceStore persists the donor's preferred network across sessions.
// Semantics are last-write-wins; no transactional guarantees.
type PreferenceStore interface {
	Get() (Key, bool)
	Set(Key)
}

const preferredNetworkKey = "gives-preferred-network"

// MemoryPreferences keeps the preference in process memory. The embedding
// client decides whether to back it with anything durable.
type MemoryPreferences struct {
	cache *gocache.Cache
}

// NewMemoryPreferences builds a non-expiring in-memory store.
func NewMemoryPreferences() *MemoryPreferences {
	return &MemoryPreferences{cache: gocache.New(gocache.NoExpiration, 0)}
}

func (m *MemoryPreferences) Get() (Key, bool) {
	v, ok := m.cache.Get(preferredNetworkKey)
	if !ok {
		return "", false
	}
	key, ok := v.(Key)
	return key, ok
}

func (m *MemoryPreferences) Set(key Key) {
	m.cache.Set(preferredNetworkKey, key, gocache.NoExpiration)
}
