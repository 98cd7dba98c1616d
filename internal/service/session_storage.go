package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	domainauth "github.com/target/pos-console/internal/domain/auth"
	"github.com/target/pos-console/internal/domain/tenancy"
	"github.com/target/pos-console/internal/ports"
)

// Persisted keys. Logout clears the whole namespace, so every key the
// console writes lives under the same store.
const (
	keyAccessToken      = "access_token"
	keyRefreshToken     = "refresh_token"
	keyTokenMeta        = "token_meta"
	keyUser             = "user"
	keyPartnerFrame     = "impersonation_partner"
	keyStoreFrame       = "impersonation_store"
	selectedStorePrefix = "selected_store_"
)

var sessionKeys = []string{
	keyAccessToken,
	keyRefreshToken,
	keyTokenMeta,
	keyUser,
	keyPartnerFrame,
	keyStoreFrame,
}

var errCorruptState = errors.New("stored session is corrupt")

// sessionState is everything the session persists. stack frames hold the
// reserve credential pairs.
type sessionState struct {
	principal *domainauth.Principal
	active    domainauth.CredentialPair
	stack     tenancy.Stack
}

type tokenMeta struct {
	TokenType string    `json:"token_type,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

func selectedStoreKey(partnerID int64) string {
	return selectedStorePrefix + strconv.FormatInt(partnerID, 10)
}

// touchesSession reports whether a foreign change affects the session keys.
func touchesSession(c ports.Change) bool {
	if c.Cleared {
		return true
	}
	for _, k := range c.Keys {
		for _, sk := range sessionKeys {
			if k == sk {
				return true
			}
		}
	}
	return false
}

// stateBatch renders st as one atomic write; absent frames are deleted.
func stateBatch(st sessionState) (ports.Batch, error) {
	b := ports.Batch{Set: make(map[string][]byte, len(sessionKeys))}

	user, err := json.Marshal(st.principal)
	if err != nil {
		return ports.Batch{}, fmt.Errorf("encode principal: %w", err)
	}
	meta, err := json.Marshal(tokenMeta{TokenType: st.active.TokenType, ExpiresAt: st.active.ExpiresAt})
	if err != nil {
		return ports.Batch{}, fmt.Errorf("encode token meta: %w", err)
	}
	b.Set[keyUser] = user
	b.Set[keyTokenMeta] = meta
	b.Set[keyAccessToken] = []byte(st.active.AccessToken)
	b.Set[keyRefreshToken] = []byte(st.active.RefreshToken)

	setFrame := func(key string, f tenancy.Frame, ok bool) error {
		if !ok {
			b.Delete = append(b.Delete, key)
			return nil
		}
		data, encErr := json.Marshal(f)
		if encErr != nil {
			return fmt.Errorf("encode %s: %w", key, encErr)
		}
		b.Set[key] = data
		return nil
	}
	pf, hasPartner := st.stack.PartnerFrame()
	if err := setFrame(keyPartnerFrame, pf, hasPartner); err != nil {
		return ports.Batch{}, err
	}
	sf, hasStore := st.stack.StoreFrame()
	if err := setFrame(keyStoreFrame, sf, hasStore); err != nil {
		return ports.Batch{}, err
	}
	return b, nil
}

// loadState reads the persisted session. ok is false when no session is
// stored. Undecodable data is reported as errCorruptState.
func loadState(ctx context.Context, store ports.KeyValueStore) (sessionState, bool, error) {
	get := func(key string) ([]byte, bool, error) {
		v, err := store.Get(ctx, key)
		if errors.Is(err, ports.ErrKeyNotFound) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, fmt.Errorf("read %s: %w", key, err)
		}
		return v, true, nil
	}

	rawUser, hasUser, err := get(keyUser)
	if err != nil {
		return sessionState{}, false, err
	}
	access, hasAccess, err := get(keyAccessToken)
	if err != nil {
		return sessionState{}, false, err
	}
	if !hasUser || !hasAccess || strings.TrimSpace(string(access)) == "" {
		return sessionState{}, false, nil
	}

	var st sessionState
	var principal domainauth.Principal
	if err := json.Unmarshal(rawUser, &principal); err != nil {
		return sessionState{}, false, fmt.Errorf("%w: user: %w", errCorruptState, err)
	}
	st.principal = &principal
	st.active.AccessToken = string(access)

	refresh, _, err := get(keyRefreshToken)
	if err != nil {
		return sessionState{}, false, err
	}
	st.active.RefreshToken = string(refresh)

	rawMeta, hasMeta, err := get(keyTokenMeta)
	if err != nil {
		return sessionState{}, false, err
	}
	if hasMeta {
		var meta tokenMeta
		if err := json.Unmarshal(rawMeta, &meta); err != nil {
			return sessionState{}, false, fmt.Errorf("%w: token meta: %w", errCorruptState, err)
		}
		st.active.TokenType = meta.TokenType
		st.active.ExpiresAt = meta.ExpiresAt
	}

	var frames []tenancy.Frame
	for _, key := range []string{keyPartnerFrame, keyStoreFrame} {
		raw, ok, getErr := get(key)
		if getErr != nil {
			return sessionState{}, false, getErr
		}
		if !ok {
			continue
		}
		var f tenancy.Frame
		if err := json.Unmarshal(raw, &f); err != nil {
			return sessionState{}, false, fmt.Errorf("%w: %s: %w", errCorruptState, key, err)
		}
		frames = append(frames, f)
	}
	st.stack, err = tenancy.StackOf(frames...)
	if err != nil {
		return sessionState{}, false, fmt.Errorf("%w: %w", errCorruptState, err)
	}
	return st, true, nil
}

// reconcile aligns local frames with the server's view. The server is
// authoritative: frames it no longer reports are unwound to their saved pair,
// matching frames take the server's descriptors.
func reconcile(st sessionState, srv ports.ImpersonationStatus) (sessionState, string) {
	pf, hasPartner := st.stack.PartnerFrame()
	sf, hasStore := st.stack.StoreFrame()

	switch {
	case hasPartner && !srv.ImpersonatingPartner:
		next := st
		next.active = pf.Saved
		next.stack = tenancy.Stack{}
		return next, "partner impersonation ended on the server"
	case hasStore && !srv.ImpersonatingStore:
		next := st
		next.active = sf.Saved
		_, _ = next.stack.Pop()
		return next, "store impersonation ended on the server"
	}

	frames := st.stack.Frames()
	changed := false
	for i := range frames {
		f := &frames[i]
		switch f.Level {
		case tenancy.LevelPartner:
			if srv.Partner != nil && srv.Partner.ID == f.Partner.ID && *srv.Partner != f.Partner {
				f.Partner = *srv.Partner
				changed = true
			}
		case tenancy.LevelStore:
			if srv.Store == nil || srv.Store.ID != f.Store.ID {
				continue
			}
			fresh := *srv.Store
			if fresh.PartnerID == 0 {
				fresh.PartnerID = f.Partner.ID
			}
			if fresh != *f.Store {
				f.Store = &fresh
				changed = true
			}
		}
	}
	if !changed {
		return st, ""
	}
	stack, err := tenancy.StackOf(frames...)
	if err != nil {
		return st, ""
	}
	next := st
	next.stack = stack
	return next, "impersonation descriptors refreshed"
}
