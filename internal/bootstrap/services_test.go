package bootstrap

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/pos-console/config"
	"github.com/target/pos-console/internal/adapters/filestore"
	"github.com/target/pos-console/internal/adapters/memstore"
	"github.com/target/pos-console/internal/domain/model"
	"github.com/target/pos-console/internal/service"
	"github.com/target/pos-console/internal/testutil"
	"github.com/target/pos-console/internal/testutil/fakeapi"
)

func testConfig(api *fakeapi.Server) *config.AppConfig {
	cfg := &config.AppConfig{Profile: "test"}
	cfg.API.URL = api.BaseURL()
	cfg.API.Timeout = 5 * time.Second
	cfg.Storage.Backend = config.BackendMemory
	return cfg
}

func buildServices(t *testing.T, cfg *config.AppConfig, st *Storage) *Services {
	t.Helper()
	svc, err := BuildServices(ServiceDeps{Config: cfg, Storage: st, Logger: testutil.DiscardLogger()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestBuildServices_Validation(t *testing.T) {
	_, err := BuildServices(ServiceDeps{Storage: &Storage{Store: memstore.New()}})
	assert.Error(t, err)

	cfg := &config.AppConfig{}
	_, err = BuildServices(ServiceDeps{Config: cfg})
	assert.Error(t, err)

	_, err = BuildServices(ServiceDeps{Config: cfg, Storage: &Storage{Store: memstore.New()}})
	assert.ErrorContains(t, err, "create api client")
}

func TestServices_EndToEnd(t *testing.T) {
	api := fakeapi.New(t)
	backend := memstore.NewBackend()
	cfg := testConfig(api)
	ctx := context.Background()

	first := buildServices(t, cfg, &Storage{Store: backend.Open()})
	_, err := first.Session.Login(ctx, "root", fakeapi.Password)
	require.NoError(t, err)
	_, err = first.Impersonation.EnterPartner(ctx, 42)
	require.NoError(t, err)
	page, err := first.Catalog.Products(ctx, model.ProductListOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, page.Results)

	// A second process restores the same context.
	second := buildServices(t, cfg, &Storage{Store: backend.Open()})
	status, err := second.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.StatusAuthenticated, status)
	ec := second.Session.Context()
	assert.True(t, ec.IsImpersonatingPartner)
	assert.Equal(t, int64(42), ec.PartnerID)

	// A 401 from a resource call ends the session through the client hook.
	api.RevokeAll()
	_, err = second.Catalog.Dashboard(ctx)
	require.Error(t, err)
	assert.Equal(t, service.StatusUnauthenticated, second.Session.Status())
}

func TestServices_RunFollowsOtherProcess(t *testing.T) {
	api := fakeapi.New(t)
	backend := memstore.NewBackend()
	cfg := testConfig(api)

	watcher := buildServices(t, cfg, &Storage{Store: backend.Open()})
	other := buildServices(t, cfg, &Storage{Store: backend.Open()})

	var (
		mu    sync.Mutex
		snaps []service.Snapshot
	)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watcher.Run(ctx, func(snap service.Snapshot) {
			mu.Lock()
			defer mu.Unlock()
			snaps = append(snaps, snap)
		})
	}()
	require.Eventually(t, func() bool { return backend.Watchers() > 0 }, 2*time.Second, 10*time.Millisecond)

	_, err := other.Session.Login(context.Background(), "owner", fakeapi.Password)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(snaps) > 0 && snaps[len(snaps)-1].Status == service.StatusAuthenticated
	}, 2*time.Second, 10*time.Millisecond)

	// The selection caught up before the callback ran.
	selected := watcher.Selector.Selected()
	require.NotNil(t, selected)
	assert.Equal(t, int64(12), selected.ID)
	assert.Equal(t, "owner", watcher.Session.Principal().Username)

	require.NoError(t, other.Session.Logout(context.Background()))
	require.Eventually(t, func() bool {
		return watcher.Session.Status() == service.StatusUnauthenticated
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestServices_RunRequiresWatchableStore(t *testing.T) {
	api := fakeapi.New(t)
	fs, err := filestore.New(t.TempDir() + "/state.json")
	require.NoError(t, err)
	svc := buildServices(t, testConfig(api), &Storage{Store: fs, Backend: config.BackendFile})

	err = svc.Run(context.Background(), nil)
	assert.ErrorIs(t, err, service.ErrWatchUnsupported)
}
