package ports

// Package ports defines interfaces (hexagonal ports) for the POS console.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/target/pos-console/internal/domain/auth"
)

// LoginResult is what a successful login returns.
type LoginResult struct {
	Credentials domainauth.CredentialPair
	Principal   domainauth.Principal
}

// PartnerGrant is the result of entering partner impersonation.
type PartnerGrant struct {
	Credentials domainauth.CredentialPair
	Partner     domainauth.PartnerRef
}

// StoreGrant is the result of entering store impersonation.
type StoreGrant struct {
	Credentials domainauth.CredentialPair
	Store       domainauth.StoreRef
}

// ImpersonationStatus is the server's view of the caller's impersonation.
type ImpersonationStatus struct {
	ImpersonatingPartner bool
	Partner              *domainauth.PartnerRef
	ImpersonatingStore   bool
	Store                *domainauth.StoreRef
}

// AuthAPI is the authentication and impersonation surface of the REST API.
// Calls that act on behalf of a session take the bearer pair explicitly so
// the caller decides which pair authenticates a transition.
type AuthAPI interface {
	// Login exchanges a username and password for a credential pair and principal.
	Login(ctx context.Context, username, password string) (LoginResult, error)

	// Logout revokes creds server side. Callers treat failures as best-effort.
	Logout(ctx context.Context, creds domainauth.CredentialPair) error

	// ImpersonationStatus reports what the server believes creds are impersonating.
	ImpersonationStatus(ctx context.Context, creds domainauth.CredentialPair) (ImpersonationStatus, error)

	// ImpersonatePartner exchanges creds for a partner-scoped pair.
	ImpersonatePartner(ctx context.Context, creds domainauth.CredentialPair, partnerID int64) (PartnerGrant, error)

	// ExitPartner notifies the server that partner impersonation ended.
	ExitPartner(ctx context.Context, creds domainauth.CredentialPair) error

	// ImpersonateStore exchanges creds for a store-scoped pair.
	ImpersonateStore(ctx context.Context, creds domainauth.CredentialPair, partnerID, storeID int64) (StoreGrant, error)

	// ExitStore notifies the server that store impersonation ended. It may
	// return a fresh partner-level pair; nil means "reuse the saved one".
	ExitStore(ctx context.Context, creds domainauth.CredentialPair) (*domainauth.CredentialPair, error)
}
