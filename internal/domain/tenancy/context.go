package tenancy

import (
	domainauth "github.com/target/pos-console/internal/domain/auth"
)

// EffectiveContext is the partner/store scope and role facets derived from
// the principal and the impersonation stack. A zero ID means "none".
type EffectiveContext struct {
	PartnerID int64
	StoreID   int64
	Partner   *domainauth.PartnerRef
	Store     *domainauth.StoreRef

	Role  domainauth.Role
	State State

	IsSuperAdmin     bool
	IsTenantAdmin    bool
	IsStoreAdmin     bool
	IsCashier        bool
	IsStoreLevelUser bool

	IsImpersonatingPartner bool
	IsImpersonatingStore   bool
}

// Resolve derives the effective context. It is pure: no I/O, no caching.
//
// Precedence is store frame over assigned store, partner frame over own
// partner. Frames the principal could not have pushed are ignored, so a
// store-level user's store always comes from their static assignment.
func Resolve(p *domainauth.Principal, s Stack) EffectiveContext {
	if p == nil {
		return EffectiveContext{State: Base}
	}
	caps := domainauth.CapabilitiesOf(p.Role)

	partnerFrame, hasPartner := s.PartnerFrame()
	hasPartner = hasPartner && caps.EnterPartner

	storeFrame, hasStore := s.StoreFrame()
	switch {
	case !hasStore:
	case storeFrame.Anchored:
		hasStore = caps.EnterOwnStores && p.Partner != nil && p.Partner.ID == storeFrame.Partner.ID
	default:
		hasStore = hasPartner
	}

	ec := EffectiveContext{
		Role:                   p.Role,
		IsSuperAdmin:           caps.SuperAdmin,
		IsTenantAdmin:          caps.TenantAdmin || hasPartner,
		IsStoreAdmin:           caps.StoreAdmin,
		IsCashier:              caps.Cashier,
		IsStoreLevelUser:       caps.StoreLevel,
		IsImpersonatingPartner: hasPartner,
		IsImpersonatingStore:   hasStore,
	}

	switch {
	case hasPartner:
		ec.Partner = domainauth.ClonePartner(&partnerFrame.Partner)
	case p.Partner != nil:
		ec.Partner = domainauth.ClonePartner(p.Partner)
	}
	if ec.Partner != nil {
		ec.PartnerID = ec.Partner.ID
	}

	switch {
	case hasStore:
		ec.Store = domainauth.CloneStore(storeFrame.Store)
	case p.AssignedStore != nil:
		ec.Store = domainauth.CloneStore(p.AssignedStore)
	}
	if ec.Store != nil {
		ec.StoreID = ec.Store.ID
	}

	switch {
	case hasStore:
		ec.State = ImpersonatingPartnerAndStore
	case hasPartner:
		ec.State = ImpersonatingPartner
	default:
		ec.State = Base
	}
	return ec
}

// Authenticated reports whether the context was derived from a principal.
func (c EffectiveContext) Authenticated() bool { return c.Role != nil }

// CanManagePartners reports whether the partner directory is usable: a super
// admin who is not inside a partner.
func (c EffectiveContext) CanManagePartners() bool {
	return c.IsSuperAdmin && !c.IsImpersonatingPartner
}

// CanViewTenantData reports whether tenant-scoped screens make sense.
func (c EffectiveContext) CanViewTenantData() bool {
	return c.Authenticated() && (!c.IsSuperAdmin || c.IsImpersonatingPartner)
}

// CanUsePOS reports whether sales can be rung up (an effective store exists).
func (c EffectiveContext) CanUsePOS() bool { return c.StoreID != 0 }

// CanEnterPartner reports whether EnterPartner is currently offered.
func (c EffectiveContext) CanEnterPartner() bool {
	return c.IsSuperAdmin && c.State == Base
}

// CanEnterStore reports whether EnterStore is currently offered.
func (c EffectiveContext) CanEnterStore() bool {
	if c.IsStoreLevelUser || c.IsImpersonatingStore || c.PartnerID == 0 {
		return false
	}
	return c.IsImpersonatingPartner || (c.IsTenantAdmin && !c.IsSuperAdmin)
}

// Allows reports whether the principal's role is one of roles.
func (c EffectiveContext) Allows(roles ...domainauth.Role) bool {
	return domainauth.Allows(c.Role, roles...)
}

// Scope returns the query scope for tenant-scoped calls, with filterStoreID
// as the selector's choice.
func (c EffectiveContext) Scope(filterStoreID int64) Scope {
	return Scope{PartnerID: c.PartnerID, StoreID: c.StoreID, FilterStoreID: filterStoreID}
}

// Scope carries the identifiers tenant-scoped API calls are filtered by.
type Scope struct {
	PartnerID     int64
	StoreID       int64
	FilterStoreID int64
}

// QueryStoreID is the store_id to send: the effective store, else the filter.
func (s Scope) QueryStoreID() int64 {
	if s.StoreID != 0 {
		return s.StoreID
	}
	return s.FilterStoreID
}
