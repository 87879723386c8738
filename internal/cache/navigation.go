package cache

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/iggydv12/dashcache/internal/storage"
)

const navigationKeyName = "nav_state"

// Navigation caches the single global navigation snapshot. The embedded
// slot is the typed view; SaveRaw and LoadRaw keep whatever shape the
// caller provides.
type Navigation struct {
	*Slot[NavigationState]
	raw *Slot[json.RawMessage]
}

// NewNavigation creates the navigation state cache.
func NewNavigation(a *storage.Adapter, version string, logger *zap.Logger) *Navigation {
	return &Navigation{
		Slot: newSlot[NavigationState](a, navigationKeyName, version, logger),
		raw:  newSlot[json.RawMessage](a, navigationKeyName, version, logger),
	}
}

// SaveRaw caches a JSON document verbatim. Returns false if nothing was
// persisted.
func (n *Navigation) SaveRaw(data json.RawMessage) bool {
	return n.raw.Save(data)
}

// LoadRaw returns the cached snapshot as raw JSON.
func (n *Navigation) LoadRaw() (json.RawMessage, bool) {
	return n.raw.Load()
}
