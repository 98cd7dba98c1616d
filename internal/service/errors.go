package service

import (
	"github.com/target/pos-console/internal/domain/tenancy"
	apperrors "github.com/target/pos-console/internal/errors"
)

// Sentinel errors returned by the session, impersonation and selector
// services. They are AppErrors so callers can also branch on the code.
var (
	// ErrNotAuthenticated is returned when an operation needs a signed-in session.
	ErrNotAuthenticated = apperrors.Unauthorized("not signed in")

	// ErrAlreadyImpersonating is returned when entering a level that is already occupied.
	ErrAlreadyImpersonating = &apperrors.AppError{
		Code:    apperrors.ErrCodeConflict,
		Message: "already impersonating; exit the current level first",
		Cause:   tenancy.ErrAlreadyImpersonating,
	}

	// ErrPartnerMismatch is returned when a store is requested for a partner
	// other than the effective one.
	ErrPartnerMismatch = apperrors.ValidationField("partner_id", "store impersonation must target the current partner")

	// ErrStaleTransition is returned when the session changed (logout, forced
	// logout, restore or a foreign reload) while a transition was in flight.
	// The transition's result has been discarded.
	ErrStaleTransition = apperrors.Conflict("session changed while the request was in flight")

	// ErrSelectionLocked is returned when the store filter is changed during
	// store impersonation.
	ErrSelectionLocked = apperrors.Conflict("store selection follows the impersonated store")

	// ErrUnknownStore is returned when selecting a store outside the partner's list.
	ErrUnknownStore = apperrors.NotFound("store is not available for the current partner")

	// ErrNoStore is returned by store-bound operations when no effective store exists.
	ErrNoStore = apperrors.ValidationField("store", "no store in context; enter or get assigned a store first")
)

var (
	errPartnerEntryForbidden = apperrors.Forbidden("only system administrators can impersonate partners")
	errStoreLevelUser        = apperrors.Forbidden("store-level users cannot impersonate stores")
	errNoTenantContext       = apperrors.Forbidden("store impersonation needs a tenant context")
	errEnterPartnerFirst     = apperrors.Forbidden("enter a partner to view tenant data")
	errReadOnly              = apperrors.Forbidden("your role is read-only")
	errStockForbidden        = apperrors.Forbidden("your role cannot manage stock")
	errPartnersForbidden     = apperrors.Forbidden("only system administrators outside a partner can list partners")
	errOtherStore            = apperrors.Forbidden("you can only act on your current store")
)
