package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	domainauth "github.com/target/pos-console/internal/domain/auth"
	"github.com/target/pos-console/internal/domain/tenancy"
	"github.com/target/pos-console/internal/ports"
	"golang.org/x/sync/singleflight"
)

// StoreSelectorOptions groups dependencies for StoreSelector.
type StoreSelectorOptions struct {
	Session   *Session
	Directory ports.StoreDirectory
	Logger    *slog.Logger
}

// StoreSelector tracks the store filter a tenant admin narrows lists and
// reports by. The filter is persisted per partner and never changes the
// effective store. During store impersonation it mirrors the impersonated
// store and cannot be changed.
type StoreSelector struct {
	session *Session
	dir     ports.StoreDirectory
	store   ports.KeyValueStore
	logger  *slog.Logger
	group   singleflight.Group

	mu       sync.Mutex
	loaded   bool
	ctxKey   string
	stores   []domainauth.StoreRef
	selected *domainauth.StoreRef
}

// NewStoreSelector constructs a StoreSelector.
func NewStoreSelector(opts StoreSelectorOptions) (*StoreSelector, error) {
	if opts.Session == nil {
		return nil, errors.New("Session is required")
	}
	if opts.Directory == nil {
		return nil, errors.New("Directory is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &StoreSelector{
		session: opts.Session,
		dir:     opts.Directory,
		store:   opts.Session.store,
		logger:  logger.With("component", "store_selector"),
	}, nil
}

// selection is the result of one refresh.
type selection struct {
	key      string
	stores   []domainauth.StoreRef
	selected *domainauth.StoreRef
}

// Refresh refetches the store list and reruns the selection: the
// impersonated store, else the persisted choice if still listed, else the
// principal's default store, else the first store. Concurrent calls share
// one fetch.
func (s *StoreSelector) Refresh(ctx context.Context) (*domainauth.StoreRef, error) {
	v, err, _ := s.group.Do("refresh", func() (any, error) {
		return s.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	sel, _ := v.(selection)
	return domainauth.CloneStore(sel.selected), nil
}

// Ensure refreshes only when the partner context or the impersonated store
// changed since the last refresh.
func (s *StoreSelector) Ensure(ctx context.Context) (*domainauth.StoreRef, error) {
	snap := s.session.Snapshot()
	if snap.Status != StatusAuthenticated {
		return nil, ErrNotAuthenticated
	}
	s.mu.Lock()
	fresh := s.loaded && s.ctxKey == contextKey(snap)
	selected := domainauth.CloneStore(s.selected)
	s.mu.Unlock()
	if fresh {
		return selected, nil
	}
	return s.Refresh(ctx)
}

// Select persists storeID as the filter for the current partner.
func (s *StoreSelector) Select(ctx context.Context, storeID int64) (*domainauth.StoreRef, error) {
	if s.session.Context().IsImpersonatingStore {
		return nil, ErrSelectionLocked
	}
	if _, err := s.Ensure(ctx); err != nil {
		return nil, err
	}

	snap := s.session.Snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctxKey != contextKey(snap) {
		return nil, ErrStaleTransition
	}
	idx := slices.IndexFunc(s.stores, func(st domainauth.StoreRef) bool { return st.ID == storeID })
	if idx < 0 {
		return nil, ErrUnknownStore
	}
	choice := s.stores[idx]
	if err := s.persist(ctx, snap.Context.PartnerID, &choice); err != nil {
		return nil, err
	}
	s.selected = &choice
	s.logger.InfoContext(ctx, "store filter selected", "partner_id", snap.Context.PartnerID, "store_id", storeID)
	return domainauth.CloneStore(&choice), nil
}

// Selected returns the current filter. During store impersonation it is the
// impersonated store.
func (s *StoreSelector) Selected() *domainauth.StoreRef {
	ec := s.session.Context()
	if ec.IsImpersonatingStore {
		return domainauth.CloneStore(ec.Store)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return domainauth.CloneStore(s.selected)
}

// Stores returns the store list fetched by the last refresh.
func (s *StoreSelector) Stores() []domainauth.StoreRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.stores)
}

// Scope returns the query scope for tenant-scoped calls, refreshing the
// selection first if the context changed.
func (s *StoreSelector) Scope(ctx context.Context) (tenancy.Scope, tenancy.EffectiveContext, error) {
	selected, err := s.Ensure(ctx)
	if err != nil {
		return tenancy.Scope{}, tenancy.EffectiveContext{}, err
	}
	ec := s.session.Context()
	var filter int64
	if selected != nil {
		filter = selected.ID
	}
	return ec.Scope(filter), ec, nil
}

func (s *StoreSelector) refresh(ctx context.Context) (selection, error) {
	snap := s.session.Snapshot()
	if snap.Status != StatusAuthenticated {
		return selection{}, ErrNotAuthenticated
	}
	ec := snap.Context
	sel := selection{key: contextKey(snap)}

	switch {
	case ec.IsImpersonatingStore:
		sel.stores = []domainauth.StoreRef{*ec.Store}
		sel.selected = domainauth.CloneStore(ec.Store)
	case ec.PartnerID == 0:
	default:
		stores, err := s.dir.ListStores(ctx)
		if err != nil {
			return selection{}, fmt.Errorf("list stores: %w", err)
		}
		if contextKey(s.session.Snapshot()) != sel.key {
			return selection{}, ErrStaleTransition
		}
		sel.stores = stores
		sel.selected, err = s.choose(ctx, ec.PartnerID, snap.Principal, stores)
		if err != nil {
			return selection{}, err
		}
	}

	if contextKey(s.session.Snapshot()) != sel.key {
		return selection{}, ErrStaleTransition
	}

	s.mu.Lock()
	s.loaded = true
	s.ctxKey = sel.key
	s.stores = sel.stores
	s.selected = sel.selected
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "store selection refreshed",
		"partner_id", ec.PartnerID,
		"stores", len(sel.stores),
		"selected", storeID(sel.selected),
	)
	return sel, nil
}

func (s *StoreSelector) choose(
	ctx context.Context,
	partnerID int64,
	p *domainauth.Principal,
	stores []domainauth.StoreRef,
) (*domainauth.StoreRef, error) {
	if len(stores) == 0 {
		return nil, s.persist(ctx, partnerID, nil)
	}
	find := func(id int64) *domainauth.StoreRef {
		for i := range stores {
			if stores[i].ID == id {
				return domainauth.CloneStore(&stores[i])
			}
		}
		return nil
	}

	if id, ok := s.persisted(ctx, partnerID); ok {
		if st := find(id); st != nil {
			return st, nil
		}
	}

	var choice *domainauth.StoreRef
	if p != nil && p.DefaultStore != nil {
		choice = find(p.DefaultStore.ID)
	}
	if choice == nil {
		choice = domainauth.CloneStore(&stores[0])
	}
	return choice, s.persist(ctx, partnerID, choice)
}

func (s *StoreSelector) persisted(ctx context.Context, partnerID int64) (int64, bool) {
	raw, err := s.store.Get(ctx, selectedStoreKey(partnerID))
	if err != nil {
		if !errors.Is(err, ports.ErrKeyNotFound) {
			s.logger.WarnContext(ctx, "read store filter", "partner_id", partnerID, "error", err)
		}
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (s *StoreSelector) persist(ctx context.Context, partnerID int64, st *domainauth.StoreRef) error {
	key := selectedStoreKey(partnerID)
	var b ports.Batch
	if st == nil {
		b.Delete = []string{key}
	} else {
		b.Set = map[string][]byte{key: []byte(strconv.FormatInt(st.ID, 10))}
	}
	if err := s.store.Commit(ctx, b); err != nil {
		return fmt.Errorf("persist store filter: %w", err)
	}
	return nil
}

// contextKey identifies the inputs the selection depends on.
func contextKey(snap Snapshot) string {
	var user int64
	if snap.Principal != nil {
		user = snap.Principal.ID
	}
	return fmt.Sprintf("%d/%d/%d", user, snap.Context.PartnerID, snap.Context.StoreID)
}

func storeID(st *domainauth.StoreRef) int64 {
	if st == nil {
		return 0
	}
	return st.ID
}
