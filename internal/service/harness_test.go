package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/target/pos-console/internal/adapters/memstore"
	"github.com/target/pos-console/internal/adapters/posapi"
	"github.com/target/pos-console/internal/ports"
	"github.com/target/pos-console/internal/testutil"
	"github.com/target/pos-console/internal/testutil/fakeapi"
)

// harness wires the services against the fake API the way bootstrap does.
type harness struct {
	api      *fakeapi.Server
	client   *posapi.Client
	store    ports.KeyValueStore
	session  *Session
	imp      *Impersonation
	selector *StoreSelector
	catalog  *Catalog
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessOn(t, fakeapi.New(t), memstore.New())
}

func newHarnessOn(t *testing.T, api *fakeapi.Server, store ports.KeyValueStore) *harness {
	t.Helper()
	logger := testutil.DiscardLogger()

	client, err := posapi.NewClient(posapi.Config{BaseURL: api.BaseURL(), Timeout: 5 * time.Second, Logger: logger})
	require.NoError(t, err)

	session, err := NewSession(SessionOptions{API: client, Store: store, Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	client.SetUnauthorizedHandler(session.ForceLogout)
	resources := client.WithTokenSource(session.TokenSource())

	selector, err := NewStoreSelector(StoreSelectorOptions{Session: session, Directory: resources, Logger: logger})
	require.NoError(t, err)
	catalog, err := NewCatalog(CatalogOptions{Session: session, Selector: selector, API: resources, Logger: logger})
	require.NoError(t, err)

	return &harness{
		api:      api,
		client:   client,
		store:    store,
		session:  session,
		imp:      NewImpersonation(session),
		selector: selector,
		catalog:  catalog,
	}
}

func (h *harness) login(t *testing.T, username string) {
	t.Helper()
	_, err := h.session.Login(context.Background(), username, fakeapi.Password)
	require.NoError(t, err)
}

// impersonationCalls counts recorded requests to the impersonation endpoints.
func (h *harness) impersonationCalls() int {
	n := 0
	for _, r := range h.api.Requests() {
		if strings.HasPrefix(r.Path, "/auth/impersonate/") {
			n++
		}
	}
	return n
}

func storedKeys(t *testing.T, store ports.KeyValueStore, keys ...string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	for _, k := range keys {
		v, err := store.Get(context.Background(), k)
		if err != nil {
			continue
		}
		out[k] = string(v)
	}
	return out
}
