package cache

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/iggydv12/dashcache/internal/storage"
)

// ErrUnknownCategory is returned when parsing a name outside the closed
// set of dashboard categories.
var ErrUnknownCategory = errors.New("unknown dashboard category")

// Category identifies one of the dashboards whose state is cached.
type Category string

const (
	CategoryUser    Category = "user"
	CategoryManager Category = "manager"
	CategoryAdmin   Category = "admin"
)

// Categories returns every dashboard category.
func Categories() []Category {
	return []Category{CategoryUser, CategoryManager, CategoryAdmin}
}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryUser, CategoryManager, CategoryAdmin:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
}

func (c Category) String() string { return string(c) }

// keyName is the logical storage name, before the application prefix.
func (c Category) keyName() string { return "dashboard_" + string(c) }

// Dashboards holds one typed slot per dashboard category.
type Dashboards struct {
	User    *Slot[UserDashboard]
	Manager *Slot[ManagerDashboard]
	Admin   *Slot[AdminDashboard]

	adapter *storage.Adapter
	version string
	logger  *zap.Logger
}

// NewDashboards creates the dashboard state cache.
func NewDashboards(a *storage.Adapter, version string, logger *zap.Logger) *Dashboards {
	return &Dashboards{
		User:    newSlot[UserDashboard](a, CategoryUser.keyName(), version, logger),
		Manager: newSlot[ManagerDashboard](a, CategoryManager.keyName(), version, logger),
		Admin:   newSlot[AdminDashboard](a, CategoryAdmin.keyName(), version, logger),
		adapter: a,
		version: version,
		logger:  logger,
	}
}

// raw returns an untyped view of the category's slot. Categories built
// without ParseCategory are treated as distinct slots.
func (d *Dashboards) raw(c Category) *Slot[json.RawMessage] {
	return newSlot[json.RawMessage](d.adapter, c.keyName(), d.version, d.logger)
}

// Version returns the envelope version this cache writes and accepts.
func (d *Dashboards) Version() string { return d.version }

// Key returns the full storage key of a category.
func (d *Dashboards) Key(c Category) string { return d.adapter.Key(c.keyName()) }

// SaveDashboardState caches an arbitrary JSON-encodable state for the
// category. Returns false if nothing was persisted.
func (d *Dashboards) SaveDashboardState(c Category, state any) bool {
	data, ok := state.(json.RawMessage)
	if !ok {
		var err error
		data, err = json.Marshal(state)
		if err != nil {
			d.logger.Warn("encode dashboard state", zap.Stringer("category", c), zap.Error(err))
			return false
		}
	}
	return d.raw(c).Save(data)
}

// LoadDashboardState returns the cached state of the category as raw JSON.
func (d *Dashboards) LoadDashboardState(c Category) (json.RawMessage, bool) {
	return d.raw(c).Load()
}

// ClearDashboardState removes the cached state of the category.
func (d *Dashboards) ClearDashboardState(c Category) {
	d.raw(c).Clear()
}
