package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/pos-console/internal/adapters/memstore"
	domainauth "github.com/target/pos-console/internal/domain/auth"
	apperrors "github.com/target/pos-console/internal/errors"
	"github.com/target/pos-console/internal/mocks"
	"github.com/target/pos-console/internal/ports"
	"github.com/target/pos-console/internal/testutil"
	"github.com/target/pos-console/internal/testutil/fakeapi"
	"go.uber.org/mock/gomock"
)

func storeIDs(stores []domainauth.StoreRef) []int64 {
	ids := make([]int64, 0, len(stores))
	for _, st := range stores {
		ids = append(ids, st.ID)
	}
	return ids
}

func countRequests(api *fakeapi.Server, path string) int {
	n := 0
	for _, r := range api.Requests() {
		if r.Path == path {
			n++
		}
	}
	return n
}

func TestNewStoreSelector_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, err := NewStoreSelector(StoreSelectorOptions{Directory: mocks.NewMockStoreDirectory(ctrl)})
	assert.Error(t, err)

	s, err := NewSession(SessionOptions{API: mocks.NewMockAuthAPI(ctrl), Store: memstore.New()})
	require.NoError(t, err)
	_, err = NewStoreSelector(StoreSelectorOptions{Session: s})
	assert.Error(t, err)
}

func TestStoreSelector_DefaultStoreFirst(t *testing.T) {
	h := newHarness(t)
	h.login(t, "owner")

	selected, err := h.selector.Ensure(context.Background())
	require.NoError(t, err)
	require.NotNil(t, selected)
	assert.Equal(t, int64(12), selected.ID)
	assert.Equal(t, []int64{3, 11, 12}, storeIDs(h.selector.Stores()))
	assert.Equal(t, "12", storedKeys(t, h.store, selectedStoreKey(9))[selectedStoreKey(9)])

	// The filter never becomes the effective store.
	assert.Zero(t, h.session.Context().StoreID)
}

func TestStoreSelector_FirstStoreWithoutDefault(t *testing.T) {
	h := newHarness(t)
	h.login(t, "root")
	_, err := h.imp.EnterPartner(context.Background(), 42)
	require.NoError(t, err)

	selected, err := h.selector.Ensure(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), selected.ID)
	assert.Equal(t, []int64{7, 8}, storeIDs(h.selector.Stores()))
}

func TestStoreSelector_PersistedChoiceSurvivesRestart(t *testing.T) {
	api := fakeapi.New(t)
	backend := memstore.NewBackend()
	ctx := context.Background()

	first := newHarnessOn(t, api, backend.Open())
	first.login(t, "owner")
	selected, err := first.selector.Select(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, int64(11), selected.ID)
	assert.Equal(t, int64(11), first.selector.Selected().ID)

	second := newHarnessOn(t, api, backend.Open())
	_, err = second.session.Restore(ctx)
	require.NoError(t, err)
	selected, err = second.selector.Ensure(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(11), selected.ID)
}

func TestStoreSelector_StalePersistedChoiceIgnored(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "owner")
	require.NoError(t, h.store.Commit(ctx, ports.Batch{Set: map[string][]byte{selectedStoreKey(9): []byte("13")}}))

	selected, err := h.selector.Ensure(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(12), selected.ID)
	assert.Equal(t, "12", storedKeys(t, h.store, selectedStoreKey(9))[selectedStoreKey(9)])
}

func TestStoreSelector_EmptyListClearsChoice(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "empty")
	require.NoError(t, h.store.Commit(ctx, ports.Batch{Set: map[string][]byte{selectedStoreKey(43): []byte("5")}}))

	selected, err := h.selector.Ensure(ctx)
	require.NoError(t, err)
	assert.Nil(t, selected)
	assert.Empty(t, h.selector.Stores())
	assert.Empty(t, storedKeys(t, h.store, selectedStoreKey(43)))
}

func TestStoreSelector_Select(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "owner")

	_, err := h.selector.Select(ctx, 7)
	assert.ErrorIs(t, err, ErrUnknownStore)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, int64(12), h.selector.Selected().ID)

	selected, err := h.selector.Select(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), selected.ID)
	assert.Equal(t, "3", storedKeys(t, h.store, selectedStoreKey(9))[selectedStoreKey(9)])
}

func TestStoreSelector_MirrorsImpersonatedStore(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "root")
	_, err := h.imp.EnterPartner(ctx, 42)
	require.NoError(t, err)
	_, err = h.imp.EnterStore(ctx, 42, 8)
	require.NoError(t, err)
	fetches := countRequests(h.api, "/stores/")

	selected, err := h.selector.Ensure(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(8), selected.ID)
	assert.Equal(t, []int64{8}, storeIDs(h.selector.Stores()))
	assert.Equal(t, fetches, countRequests(h.api, "/stores/"))

	_, err = h.selector.Select(ctx, 7)
	assert.ErrorIs(t, err, ErrSelectionLocked)
	assert.Equal(t, int64(8), h.selector.Selected().ID)
}

func TestStoreSelector_SuperAdminAtBase(t *testing.T) {
	h := newHarness(t)
	h.login(t, "root")

	selected, err := h.selector.Ensure(context.Background())
	require.NoError(t, err)
	assert.Nil(t, selected)
	assert.Empty(t, h.selector.Stores())
	assert.Zero(t, countRequests(h.api, "/stores/"))
}

func TestStoreSelector_FollowsContextChanges(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "root")
	_, err := h.imp.EnterPartner(ctx, 42)
	require.NoError(t, err)

	selected, err := h.selector.Ensure(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), selected.ID)

	// Ensure without a context change does not refetch.
	fetches := countRequests(h.api, "/stores/")
	_, err = h.selector.Ensure(ctx)
	require.NoError(t, err)
	assert.Equal(t, fetches, countRequests(h.api, "/stores/"))

	_, err = h.imp.SwitchPartner(ctx, 9)
	require.NoError(t, err)
	selected, err = h.selector.Ensure(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), selected.ID)
	assert.Equal(t, []int64{3, 11, 12}, storeIDs(h.selector.Stores()))
}

func TestStoreSelector_RequiresSession(t *testing.T) {
	h := newHarness(t)
	_, err := h.selector.Ensure(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = h.selector.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func mockSelector(t *testing.T) (*StoreSelector, *Session, *mocks.MockStoreDirectory) {
	t.Helper()
	owner := testutil.NewPrincipal().WithUsername("owner").AsTenantAdmin(9).WithDefaultStore(12).Build()
	s, _, _ := mockSessionAs(t, owner)
	dir := mocks.NewMockStoreDirectory(gomock.NewController(t))
	sel, err := NewStoreSelector(StoreSelectorOptions{Session: s, Directory: dir, Logger: testutil.DiscardLogger()})
	require.NoError(t, err)
	return sel, s, dir
}

func TestStoreSelector_ConcurrentRefreshSharesFetch(t *testing.T) {
	sel, _, dir := mockSelector(t)
	var calls atomic.Int32
	release := make(chan struct{})

	dir.EXPECT().ListStores(gomock.Any()).
		DoAndReturn(func(context.Context) ([]domainauth.StoreRef, error) {
			calls.Add(1)
			<-release
			return []domainauth.StoreRef{testutil.Store(11, 9), testutil.Store(12, 9)}, nil
		}).AnyTimes()

	funcs := make([]func() error, 8)
	for i := range funcs {
		funcs[i] = func() error {
			st, err := sel.Refresh(context.Background())
			if err == nil && st.ID != 12 {
				return assert.AnError
			}
			return err
		}
	}
	go func() {
		time.Sleep(50 * time.Millisecond)
		close(release)
	}()
	for _, err := range testutil.RunConcurrent(funcs...) {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestStoreSelector_FetchError(t *testing.T) {
	sel, _, dir := mockSelector(t)
	dir.EXPECT().ListStores(gomock.Any()).Return(nil, apperrors.FromStatus(503, "down"))

	_, err := sel.Ensure(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsUnavailable(err))
	assert.Contains(t, err.Error(), "list stores")
	assert.Nil(t, sel.Selected())
}

// A selection computed for a context that ended meanwhile is discarded.
func TestStoreSelector_StaleRefreshDiscarded(t *testing.T) {
	sel, s, dir := mockSelector(t)
	dir.EXPECT().ListStores(gomock.Any()).
		DoAndReturn(func(ctx context.Context) ([]domainauth.StoreRef, error) {
			s.ForceLogout(ctx, apperrors.Unauthorized("expired"))
			return []domainauth.StoreRef{testutil.Store(12, 9)}, nil
		})

	_, err := sel.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrStaleTransition)
	assert.Empty(t, sel.Stores())
	assert.Empty(t, s.store.(*memstore.Store).Keys(), "nothing persisted after logout")
}
