package service

import (
	"context"
	"errors"

	domainauth "github.com/target/pos-console/internal/domain/auth"
	"github.com/target/pos-console/internal/domain/tenancy"
	apperrors "github.com/target/pos-console/internal/errors"
	"github.com/target/pos-console/internal/ports"
)

// Impersonation drives partner and store impersonation on a Session.
//
// Entries either complete or change nothing: the server's refusal is
// returned as-is. Exits always unwind locally; the server notification is
// best-effort.
type Impersonation struct {
	session *Session
	api     ports.AuthAPI
}

// NewImpersonation returns the impersonation state machine for session.
func NewImpersonation(session *Session) *Impersonation {
	return &Impersonation{session: session, api: session.api}
}

// EnterPartner impersonates partnerID. Only system administrators may do
// this, and only from Base.
func (im *Impersonation) EnterPartner(ctx context.Context, partnerID int64) (Snapshot, error) {
	return im.session.transition(ctx, "enter_partner", false,
		func(ctx context.Context, cur sessionState) (sessionState, bool, error) {
			next, err := im.enterPartner(ctx, cur, partnerID)
			return next, err == nil, err
		})
}

// EnterStore impersonates storeID of partnerID, which must be the effective
// partner. Real tenant admins enter their own stores directly; system
// administrators must be inside the partner first.
func (im *Impersonation) EnterStore(ctx context.Context, partnerID, storeID int64) (Snapshot, error) {
	return im.session.transition(ctx, "enter_store", false,
		func(ctx context.Context, cur sessionState) (sessionState, bool, error) {
			ec := tenancy.Resolve(cur.principal, cur.stack)
			caps := cur.principal.Capabilities()
			switch {
			case ec.IsStoreLevelUser:
				return cur, false, errStoreLevelUser
			case ec.IsImpersonatingStore:
				return cur, false, ErrAlreadyImpersonating
			case !ec.IsImpersonatingPartner && !caps.EnterOwnStores:
				return cur, false, errNoTenantContext
			case ec.Partner == nil || partnerID != ec.PartnerID:
				return cur, false, ErrPartnerMismatch
			}

			grant, err := im.api.ImpersonateStore(ctx, cur.active, partnerID, storeID)
			if err != nil {
				return cur, false, err
			}
			next := cur
			anchored := !ec.IsImpersonatingPartner
			if err := next.stack.PushStore(*ec.Partner, grant.Store, cur.active, anchored); err != nil {
				return cur, false, apperrors.Wrap(err, apperrors.ErrCodeInternal, "record store impersonation")
			}
			next.active = grant.Credentials
			return next, true, nil
		})
}

// ExitStore leaves store impersonation. It is a no-op without a store frame.
func (im *Impersonation) ExitStore(ctx context.Context) (Snapshot, error) {
	return im.session.transition(ctx, "exit_store", true,
		func(ctx context.Context, cur sessionState) (sessionState, bool, error) {
			if _, ok := cur.stack.StoreFrame(); !ok {
				return cur, false, nil
			}
			return im.exitStore(ctx, cur), true, nil
		})
}

// ExitPartner returns to Base, leaving a store frame first. It is a no-op at
// Base.
func (im *Impersonation) ExitPartner(ctx context.Context) (Snapshot, error) {
	return im.unwind(ctx, "exit_partner")
}

// ExitAll unwinds every impersonation level.
func (im *Impersonation) ExitAll(ctx context.Context) (Snapshot, error) {
	return im.unwind(ctx, "exit_all")
}

// SwitchPartner unwinds completely and then enters partnerID, as one
// transition. If the entry is refused the session stays at Base.
func (im *Impersonation) SwitchPartner(ctx context.Context, partnerID int64) (Snapshot, error) {
	return im.session.transition(ctx, "switch_partner", true,
		func(ctx context.Context, cur sessionState) (sessionState, bool, error) {
			if !cur.principal.Capabilities().EnterPartner {
				return cur, false, errPartnerEntryForbidden
			}
			if pf, ok := cur.stack.PartnerFrame(); ok && pf.Partner.ID == partnerID {
				return cur, false, nil
			}
			base := im.unwindState(ctx, cur)
			next, err := im.enterPartner(ctx, base, partnerID)
			if err != nil {
				return base, base.stack.Depth() != cur.stack.Depth(), err
			}
			return next, true, nil
		})
}

func (im *Impersonation) unwind(ctx context.Context, op string) (Snapshot, error) {
	return im.session.transition(ctx, op, true,
		func(ctx context.Context, cur sessionState) (sessionState, bool, error) {
			if cur.stack.Empty() {
				return cur, false, nil
			}
			return im.unwindState(ctx, cur), true, nil
		})
}

func (im *Impersonation) enterPartner(ctx context.Context, cur sessionState, partnerID int64) (sessionState, error) {
	if !cur.principal.Capabilities().EnterPartner {
		return cur, errPartnerEntryForbidden
	}
	if !cur.stack.Empty() {
		return cur, ErrAlreadyImpersonating
	}
	grant, err := im.api.ImpersonatePartner(ctx, cur.active, partnerID)
	if err != nil {
		return cur, err
	}
	next := cur
	if err := next.stack.PushPartner(grant.Partner, cur.active); err != nil {
		return cur, apperrors.Wrap(err, apperrors.ErrCodeInternal, "record partner impersonation")
	}
	next.active = grant.Credentials
	return next, nil
}

// exitStore pops the store frame. A pair returned by the server wins over the
// saved one.
func (im *Impersonation) exitStore(ctx context.Context, cur sessionState) sessionState {
	next := cur
	frame, err := next.stack.Pop()
	if err != nil {
		return cur
	}
	next.active = frame.Saved

	fresh, err := im.api.ExitStore(ctx, cur.active)
	switch {
	case err != nil:
		im.notifyFailed(ctx, "exit store", err)
	case fresh != nil:
		next.active = *fresh
	}
	return next
}

// unwindState pops every frame, notifying the server for each level.
func (im *Impersonation) unwindState(ctx context.Context, cur sessionState) sessionState {
	next := cur
	if _, ok := next.stack.StoreFrame(); ok {
		next = im.exitStore(ctx, next)
	}
	if _, ok := next.stack.PartnerFrame(); ok {
		if err := im.api.ExitPartner(ctx, next.active); err != nil {
			im.notifyFailed(ctx, "exit partner", err)
		}
		frame, _ := next.stack.Pop()
		next.active = frame.Saved
	}
	return next
}

func (im *Impersonation) notifyFailed(ctx context.Context, what string, err error) {
	level := im.session.logger.WarnContext
	if errors.Is(err, context.Canceled) || apperrors.IsCanceled(err) {
		level = im.session.logger.DebugContext
	}
	level(ctx, what+" notification failed; unwinding locally", "error", err)
}

// Partner returns the partner frame's descriptor, or nil at Base.
func (im *Impersonation) Partner() *domainauth.PartnerRef {
	pf, ok := im.session.Snapshot().Stack.PartnerFrame()
	if !ok {
		return nil
	}
	return domainauth.ClonePartner(&pf.Partner)
}

// State returns the current impersonation state.
func (im *Impersonation) State() tenancy.State {
	return im.session.Snapshot().Stack.State()
}
