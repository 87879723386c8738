package diagnostics_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/iggydv12/dashcache/internal/cache"
	"github.com/iggydv12/dashcache/internal/diagnostics"
	"github.com/iggydv12/dashcache/internal/session"
	"github.com/iggydv12/dashcache/internal/storage"
	"github.com/iggydv12/dashcache/internal/storage/local"
)

const prefix = "rental_app_"

type fixture struct {
	mem        *local.MemoryStore
	dashboards *cache.Dashboards
	navigation *cache.Navigation
	inspector  *diagnostics.Inspector
}

func setupInspector(t *testing.T, mem *local.MemoryStore) *fixture {
	t.Helper()
	f := newFixture(t, mem)
	f.mem = mem
	return f
}

// newFixture wires an inspector over any store; mem is left unset.
func newFixture(t *testing.T, store local.Store) *fixture {
	t.Helper()
	logger := zaptest.NewLogger(t)
	a := storage.New(store, prefix, logger)
	d := cache.NewDashboards(a, "1.0", logger)
	n := cache.NewNavigation(a, "1.0", logger)
	v := session.NewValidator(store, logger)
	return &fixture{
		dashboards: d,
		navigation: n,
		inspector:  diagnostics.New(a, d, n, v, 1000, logger),
	}
}

var errStuck = errors.New("entry is locked")

// stickyStore refuses to delete one key.
type stickyStore struct {
	*local.MemoryStore
	stuck string
}

func (s stickyStore) Delete(key string) error {
	if key == s.stuck {
		return errStuck
	}
	return s.MemoryStore.Delete(key)
}

// unlistableStore reads and writes normally but cannot enumerate keys.
type unlistableStore struct {
	*local.MemoryStore
}

func (unlistableStore) Keys() ([]string, error) { return nil, errStuck }

func TestClearAllAppState(t *testing.T) {
	f := setupInspector(t, local.NewMemoryStore(0))
	require.True(t, f.dashboards.User.Save(cache.UserDashboard{ActiveTab: "a"}))
	require.True(t, f.dashboards.Manager.Save(cache.ManagerDashboard{PendingApprovals: 1}))
	require.True(t, f.navigation.Save(cache.NavigationState{CurrentPage: "home"}))
	require.NoError(t, f.mem.Set("authToken", "tok"))
	require.NoError(t, f.mem.Set("theme", "dark"))

	removed := f.inspector.ClearAllAppState()
	assert.Equal(t, 3, removed)

	keys, err := f.mem.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"authToken", "theme"}, keys)
	for _, k := range keys {
		assert.False(t, strings.HasPrefix(k, prefix))
	}
}

func TestClearAllAppStateSkipsFailedDeletes(t *testing.T) {
	mem := local.NewMemoryStore(0)
	f := newFixture(t, stickyStore{MemoryStore: mem, stuck: prefix + "dashboard_manager"})
	require.True(t, f.dashboards.User.Save(cache.UserDashboard{ActiveTab: "a"}))
	require.True(t, f.dashboards.Manager.Save(cache.ManagerDashboard{PendingApprovals: 1}))
	require.True(t, f.dashboards.Admin.Save(cache.AdminDashboard{ActiveTab: "fleet"}))
	require.True(t, f.navigation.Save(cache.NavigationState{CurrentPage: "home"}))
	require.NoError(t, mem.Set("theme", "dark"))

	removed := f.inspector.ClearAllAppState()
	assert.Equal(t, 3, removed)

	keys, err := mem.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{prefix + "dashboard_manager", "theme"}, keys)
}

func TestExportReportsListingFailure(t *testing.T) {
	mem := local.NewMemoryStore(0)
	f := newFixture(t, unlistableStore{MemoryStore: mem})
	require.NoError(t, mem.Set("authToken", "tok"))
	require.True(t, f.dashboards.User.Save(cache.UserDashboard{ActiveTab: "a"}))

	exported, err := f.inspector.Export()
	assert.ErrorIs(t, err, errStuck)
	assert.Nil(t, exported)

	backup, err := f.inspector.ExportJSON()
	assert.ErrorIs(t, err, errStuck)
	assert.Nil(t, backup)
}

func TestStorageStatsTotals(t *testing.T) {
	f := setupInspector(t, local.NewMemoryStore(0))
	require.NoError(t, f.mem.Set("a", strings.Repeat("x", 10)))
	require.NoError(t, f.mem.Set("b", strings.Repeat("x", 20)))
	require.NoError(t, f.mem.Set("c", strings.Repeat("x", 30)))

	stats, err := f.inspector.StorageStats()
	require.NoError(t, err)
	assert.Equal(t, int64(60), stats.TotalBytes)
	assert.Equal(t, 3, stats.Entries)
	assert.Equal(t, int64(1000), stats.CapacityBytes)
	assert.InDelta(t, 6.0, stats.UsedPercent, 0.0001)
	assert.Equal(t, []diagnostics.Bucket{
		{Name: "a", Bytes: 10, Entries: 1},
		{Name: "b", Bytes: 20, Entries: 1},
		{Name: "c", Bytes: 30, Entries: 1},
	}, stats.Buckets)
}

func TestStorageStatsGroupsAppData(t *testing.T) {
	f := setupInspector(t, local.NewMemoryStore(0))
	require.NoError(t, f.mem.Set(prefix+"dashboard_user", "12345"))
	require.NoError(t, f.mem.Set(prefix+"nav_state", "1234567"))
	require.NoError(t, f.mem.Set("userData", "ü")) // 2 bytes in UTF-8

	stats, err := f.inspector.StorageStats()
	require.NoError(t, err)
	assert.Equal(t, []diagnostics.Bucket{
		{Name: diagnostics.AppDataBucket, Bytes: 12, Entries: 2},
		{Name: "userData", Bytes: 2, Entries: 1},
	}, stats.Buckets)
	assert.Equal(t, int64(14), stats.TotalBytes)
}

func TestExportImportRoundTrip(t *testing.T) {
	src := setupInspector(t, local.NewMemoryStore(0))
	require.True(t, src.dashboards.Admin.Save(cache.AdminDashboard{
		Cars: []cache.Car{{ID: "c1", Make: "Honda"}},
	}))
	require.True(t, src.navigation.Save(cache.NavigationState{CurrentPage: "reports"}))
	require.NoError(t, src.mem.Set("authToken", "tok"))
	require.NoError(t, src.mem.Set("userData", `{"id":"u1","role":"admin"}`))
	require.NoError(t, src.mem.Set("unrelated", "skip me"))

	exported, err := src.inspector.Export()
	require.NoError(t, err)
	assert.Len(t, exported, 4)
	assert.NotContains(t, exported, "unrelated")

	backup, err := src.inspector.ExportJSON()
	require.NoError(t, err)

	dst := setupInspector(t, local.NewMemoryStore(0))
	n, err := dst.inspector.Import(backup)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	got, ok := dst.dashboards.Admin.Load()
	require.True(t, ok)
	assert.Equal(t, "Honda", got.Cars[0].Make)

	token, err := dst.mem.Get("authToken")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}

func TestImportMalformedWritesNothing(t *testing.T) {
	f := setupInspector(t, local.NewMemoryStore(0))

	_, err := f.inspector.Import([]byte(`{"rental_app_nav_state": "x",`))
	require.Error(t, err)
	_, err = f.inspector.Import([]byte(`["not", "an", "object"]`))
	require.Error(t, err)

	keys, err := f.mem.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestImportNonStringValues(t *testing.T) {
	f := setupInspector(t, local.NewMemoryStore(0))

	n, err := f.inspector.Import([]byte(`{"userData": {"id": 3, "role": "user"}}`))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	raw, err := f.mem.Get("userData")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"role":"user"}`, raw)
}

func TestImportNullValue(t *testing.T) {
	f := setupInspector(t, local.NewMemoryStore(0))

	n, err := f.inspector.Import([]byte(`{"userData": null, "theme": "dark"}`))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	raw, err := f.mem.Get("userData")
	require.NoError(t, err)
	assert.Equal(t, "null", raw)
	raw, err = f.mem.Get("theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", raw)
}

func TestImportContinuesPastFailedWrites(t *testing.T) {
	// room for the short entry only
	f := setupInspector(t, local.NewMemoryStore(20))

	backup, err := json.Marshal(map[string]string{
		"a": "1",
		"b": strings.Repeat("x", 100),
	})
	require.NoError(t, err)

	n, err := f.inspector.Import(backup)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, err = f.mem.Get("a")
	assert.NoError(t, err)
}

func TestRunDiagnosticsReport(t *testing.T) {
	f := setupInspector(t, local.NewMemoryStore(0))
	require.NoError(t, f.mem.Set("authToken", "tok"))
	require.NoError(t, f.mem.Set("userData", `{"id":"u1","role":"manager"}`))
	require.True(t, f.dashboards.Manager.Save(cache.ManagerDashboard{PendingApprovals: 3}))
	require.NoError(t, f.mem.Set(prefix+"dashboard_admin", `{"version":"0.9","timestamp":0,"data":{}}`))

	var buf bytes.Buffer
	require.NoError(t, f.inspector.RunDiagnostics(&buf))
	out := buf.String()

	assert.Contains(t, out, "valid: yes")
	assert.Contains(t, out, "token present: true (length 3)")
	assert.Contains(t, out, `"pendingApprovals": 3`)
	assert.Contains(t, out, "stale: current version is 1.0")
	assert.Contains(t, out, diagnostics.AppDataBucket)

	// reporting never discards the stale entry
	_, err := f.mem.Get(prefix + "dashboard_admin")
	assert.NoError(t, err)
}
