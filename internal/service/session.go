package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	domainauth "github.com/target/pos-console/internal/domain/auth"
	"github.com/target/pos-console/internal/domain/tenancy"
	apperrors "github.com/target/pos-console/internal/errors"
	"github.com/target/pos-console/internal/ports"
	"golang.org/x/oauth2"
)

// ErrWatchUnsupported is returned by Watch when the store cannot report
// foreign changes.
var ErrWatchUnsupported = errors.New("session storage does not support change notification")

// Status is the session's authentication status.
type Status int

const (
	// StatusUnauthenticated means no principal is signed in.
	StatusUnauthenticated Status = iota
	// StatusAuthenticated means a principal and an active pair are installed.
	StatusAuthenticated
)

func (s Status) String() string {
	if s == StatusAuthenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Snapshot is a consistent copy of the session at one point in time.
type Snapshot struct {
	Status      Status
	Principal   *domainauth.Principal
	Credentials domainauth.CredentialPair
	Stack       tenancy.Stack
	Context     tenancy.EffectiveContext
	// Epoch increases on every change to the session.
	Epoch uint64
}

// SessionOptions groups dependencies for Session.
type SessionOptions struct {
	API    ports.AuthAPI
	Store  ports.KeyValueStore
	Logger *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Session owns the principal, the active credential pair and the
// impersonation stack, and keeps them in the persisted store.
//
// mu guards the state. gate serializes transitions (login, restore,
// impersonation changes); TokenSource readers wait on it so no outbound call
// sees a half-applied transition. Logout and ForceLogout take only mu, so
// they never wait for an in-flight transition and always win.
type Session struct {
	api    ports.AuthAPI
	store  ports.KeyValueStore
	logger *slog.Logger
	now    func() time.Time

	gate sync.RWMutex

	mu        sync.Mutex
	state     sessionState
	status    Status
	epoch     uint64
	listeners map[int]func(Snapshot)
	nextID    int

	done      chan struct{}
	closeOnce sync.Once
}

// NewSession constructs a Session. Call Restore before use.
func NewSession(opts SessionOptions) (*Session, error) {
	if opts.API == nil {
		return nil, errors.New("API is required")
	}
	if opts.Store == nil {
		return nil, errors.New("Store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Session{
		api:       opts.API,
		store:     opts.Store,
		logger:    logger.With("component", "session"),
		now:       now,
		listeners: make(map[int]func(Snapshot)),
		done:      make(chan struct{}),
	}, nil
}

// Login signs in and replaces any previous session wholesale. On failure the
// server's reason is returned and nothing is changed.
func (s *Session) Login(ctx context.Context, username, password string) (*domainauth.Principal, error) {
	res, err := s.api.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	principal := res.Principal
	next := sessionState{principal: &principal, active: res.Credentials}

	s.gate.Lock()
	defer s.gate.Unlock()

	s.mu.Lock()
	if err := s.persistLocked(ctx, next); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.installLocked(next, StatusAuthenticated)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	s.logger.InfoContext(ctx, "signed in",
		"user_id", principal.ID,
		"username", principal.Username,
		"role", principal.Role.String(),
	)
	return principal.Clone(), nil
}

// Logout tears the session down locally, then revokes the credentials server
// side on a best-effort basis. Server failures are logged, never returned.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	prev, wasAuthenticated := s.state, s.status == StatusAuthenticated
	err := s.teardownLocked(ctx)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	if wasAuthenticated {
		s.revoke(ctx, prev)
		s.logger.InfoContext(ctx, "signed out", "user_id", prev.principal.ID)
	}
	return err
}

// ForceLogout ends the session locally without calling the API. It is the
// target of the API client's unauthorized hook and does nothing when the
// session is already unauthenticated.
func (s *Session) ForceLogout(ctx context.Context, reason error) {
	s.mu.Lock()
	if s.status != StatusAuthenticated {
		s.mu.Unlock()
		return
	}
	err := s.teardownLocked(ctx)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	s.logger.WarnContext(ctx, "session ended by the server", "reason", reason)
	if err != nil {
		s.logger.ErrorContext(ctx, "clear session storage", "error", err)
	}
}

// Restore loads the persisted session and reconciles its impersonation frames
// with the server. Transient failures of the reconciliation call are logged
// and the stored session is kept; a 401 ends the session.
func (s *Session) Restore(ctx context.Context) (Status, error) {
	s.gate.Lock()
	defer s.gate.Unlock()

	loaded, ok, err := loadState(ctx, s.store)
	if errors.Is(err, errCorruptState) {
		s.logger.WarnContext(ctx, "discarding corrupt stored session", "error", err)
		ok, err = false, s.store.Clear(ctx)
	}
	if err != nil {
		return StatusUnauthenticated, fmt.Errorf("restore session: %w", err)
	}

	s.mu.Lock()
	if !ok {
		s.installLocked(sessionState{}, StatusUnauthenticated)
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.notify(snap)
		return StatusUnauthenticated, nil
	}
	s.installLocked(loaded, StatusAuthenticated)
	epoch := s.epoch
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	srv, err := s.api.ImpersonationStatus(ctx, loaded.active)
	if err != nil {
		if apperrors.IsUnauthorized(err) {
			s.ForceLogout(ctx, err)
			return StatusUnauthenticated, nil
		}
		s.logger.WarnContext(ctx, "impersonation status unavailable; keeping stored session", "error", err)
		return StatusAuthenticated, nil
	}

	next, why := reconcile(loaded, srv)
	if why == "" {
		return StatusAuthenticated, nil
	}

	s.mu.Lock()
	if s.epoch != epoch {
		status := s.status
		s.mu.Unlock()
		return status, nil
	}
	persistErr := s.persistLocked(ctx, next)
	s.installLocked(next, StatusAuthenticated)
	snap = s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	s.logger.InfoContext(ctx, "reconciled impersonation with server",
		"reason", why,
		"state", snap.Context.State.String(),
	)
	if persistErr != nil {
		return StatusAuthenticated, persistErr
	}
	return StatusAuthenticated, nil
}

// Snapshot returns a consistent copy of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Context resolves the effective context from the current state.
func (s *Session) Context() tenancy.EffectiveContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return tenancy.Resolve(s.state.principal, s.state.stack)
}

// Principal returns a copy of the signed-in principal, or nil.
func (s *Session) Principal() *domainauth.Principal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.principal.Clone()
}

// Credentials returns the active pair.
func (s *Session) Credentials() domainauth.CredentialPair {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.active
}

// Status reports whether a principal is signed in.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// OnChange registers fn to run after every change with the new snapshot.
// The returned func unregisters it.
func (s *Session) OnChange(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// TokenSource exposes the active pair to oauth2.Transport. Token blocks while
// a transition is being applied, and reports an expired pair as
// ErrNotAuthenticated.
func (s *Session) TokenSource() oauth2.TokenSource {
	return sessionTokenSource{s: s}
}

type sessionTokenSource struct {
	s *Session
}

func (ts sessionTokenSource) Token() (*oauth2.Token, error) {
	ts.s.gate.RLock()
	defer ts.s.gate.RUnlock()

	ts.s.mu.Lock()
	pair, status := ts.s.state.active, ts.s.status
	ts.s.mu.Unlock()

	if status != StatusAuthenticated || pair.IsZero() {
		return nil, ErrNotAuthenticated
	}
	if pair.Expired(ts.s.now()) {
		ts.s.logger.Debug("access token expired", "expires_at", pair.ExpiresAt)
		return nil, ErrNotAuthenticated
	}
	return &oauth2.Token{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.Type(),
		Expiry:       pair.ExpiresAt,
	}, nil
}

// Watch reloads the session whenever another process changes the shared
// store. It blocks until ctx is done or Close is called.
func (s *Session) Watch(ctx context.Context) error {
	notifier, ok := s.store.(ports.ChangeNotifier)
	if !ok {
		return ErrWatchUnsupported
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	changes, err := notifier.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch session storage: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.done:
			return nil
		case c, open := <-changes:
			if !open {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("session storage watch closed")
			}
			if !touchesSession(c) {
				continue
			}
			if err := s.reload(ctx); err != nil {
				s.logger.WarnContext(ctx, "reload session after foreign change", "error", err)
			}
		}
	}
}

// Close stops Watch and drops change listeners. It does not sign out.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		clear(s.listeners)
		s.mu.Unlock()
	})
	return nil
}

// reload replaces the in-memory state with what the store holds. It bumps
// the epoch, so an in-flight transition started from the old state is
// discarded.
func (s *Session) reload(ctx context.Context) error {
	loaded, ok, err := loadState(ctx, s.store)
	if err != nil && !errors.Is(err, errCorruptState) {
		return err
	}

	s.mu.Lock()
	if ok {
		s.installLocked(loaded, StatusAuthenticated)
	} else {
		s.installLocked(sessionState{}, StatusUnauthenticated)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	s.logger.InfoContext(ctx, "session reloaded from shared storage",
		"status", snap.Status.String(),
		"state", snap.Context.State.String(),
	)
	return nil
}

// transitionFunc computes the next state from cur. changed reports whether
// next should be committed; it is honored even when err is non-nil so a
// partial unwind is kept.
type transitionFunc func(ctx context.Context, cur sessionState) (next sessionState, changed bool, err error)

// transition runs fn under the gate and commits its result unless the
// session moved on meanwhile. unwind transitions keep their in-memory result
// even when persisting fails.
func (s *Session) transition(ctx context.Context, op string, unwind bool, fn transitionFunc) (Snapshot, error) {
	s.gate.Lock()
	defer s.gate.Unlock()

	s.mu.Lock()
	if s.status != StatusAuthenticated {
		s.mu.Unlock()
		return Snapshot{}, ErrNotAuthenticated
	}
	cur, epoch := s.state, s.epoch
	s.mu.Unlock()

	next, changed, fnErr := fn(ctx, cur)

	s.mu.Lock()
	if !changed {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, fnErr
	}
	if s.epoch != epoch {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.logger.WarnContext(ctx, "discarding stale transition", "op", op, "epoch", epoch, "current_epoch", snap.Epoch)
		return snap, ErrStaleTransition
	}

	persistErr := s.persistLocked(ctx, next)
	if persistErr != nil && !unwind {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, persistErr
	}
	s.installLocked(next, StatusAuthenticated)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	s.logger.InfoContext(ctx, "impersonation changed",
		"op", op,
		"state", snap.Context.State.String(),
		"partner_id", snap.Context.PartnerID,
		"store_id", snap.Context.StoreID,
	)
	return snap, errors.Join(fnErr, persistErr)
}

func (s *Session) installLocked(st sessionState, status Status) {
	s.state = st
	s.status = status
	s.epoch++
}

func (s *Session) persistLocked(ctx context.Context, st sessionState) error {
	b, err := stateBatch(st)
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	if err := s.store.Commit(ctx, b); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (s *Session) teardownLocked(ctx context.Context) error {
	s.installLocked(sessionState{}, StatusUnauthenticated)
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session storage: %w", err)
	}
	return nil
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Status:      s.status,
		Principal:   s.state.principal.Clone(),
		Credentials: s.state.active,
		Stack:       s.state.stack,
		Context:     tenancy.Resolve(s.state.principal, s.state.stack),
		Epoch:       s.epoch,
	}
}

func (s *Session) notify(snap Snapshot) {
	s.mu.Lock()
	fns := make([]func(Snapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

// revoke tells the server the pairs of st are done: the active pair and, when
// impersonating, the pre-impersonation pair.
func (s *Session) revoke(ctx context.Context, st sessionState) {
	pairs := []domainauth.CredentialPair{st.active}
	if bottom, ok := st.stack.Bottom(); ok && bottom.Saved.AccessToken != st.active.AccessToken {
		pairs = append(pairs, bottom.Saved)
	}
	var errs []error
	for _, p := range pairs {
		if p.IsZero() {
			continue
		}
		if err := s.api.Logout(ctx, p); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		s.logger.WarnContext(ctx, "server logout failed", "error", err)
	}
}
