package testutil

import (
	"strconv"
	"time"

	domainauth "github.com/target/pos-console/internal/domain/auth"
)

// PrincipalBuilder provides a fluent interface for building principals.
type PrincipalBuilder struct {
	p domainauth.Principal
}

// NewPrincipal starts a cashier named "user" with ID 1.
func NewPrincipal() *PrincipalBuilder {
	return &PrincipalBuilder{p: domainauth.Principal{
		ID:       1,
		Username: "user",
		Role:     domainauth.Cashier{},
	}}
}

// WithID sets the principal ID.
func (b *PrincipalBuilder) WithID(id int64) *PrincipalBuilder {
	b.p.ID = id
	return b
}

// WithUsername sets the username and a matching email.
func (b *PrincipalBuilder) WithUsername(name string) *PrincipalBuilder {
	b.p.Username = name
	b.p.Email = name + "@example.com"
	return b
}

// AsSystemAdmin makes the principal a system administrator without a partner.
func (b *PrincipalBuilder) AsSystemAdmin() *PrincipalBuilder {
	b.p.Role = domainauth.SystemAdmin{}
	b.p.Partner = nil
	b.p.AssignedStore = nil
	return b
}

// AsTenantAdmin makes the principal an administrator of partnerID.
func (b *PrincipalBuilder) AsTenantAdmin(partnerID int64) *PrincipalBuilder {
	b.p.Role = domainauth.TenantAdmin{}
	b.p.Partner = Partner(partnerID)
	b.p.AssignedStore = nil
	return b
}

// AsStoreUser gives the principal a store-level role assigned to storeID of
// partnerID.
func (b *PrincipalBuilder) AsStoreUser(role domainauth.Role, partnerID, storeID int64) *PrincipalBuilder {
	b.p.Role = role
	b.p.Partner = Partner(partnerID)
	st := Store(storeID, partnerID)
	b.p.AssignedStore = &st
	return b
}

// WithRole sets the role only.
func (b *PrincipalBuilder) WithRole(role domainauth.Role) *PrincipalBuilder {
	b.p.Role = role
	return b
}

// WithDefaultStore sets the default store, owned by the principal's partner.
func (b *PrincipalBuilder) WithDefaultStore(storeID int64) *PrincipalBuilder {
	var partnerID int64
	if b.p.Partner != nil {
		partnerID = b.p.Partner.ID
	}
	st := Store(storeID, partnerID)
	st.IsDefault = true
	b.p.DefaultStore = &st
	return b
}

// Build returns a copy of the principal.
func (b *PrincipalBuilder) Build() domainauth.Principal {
	return *b.p.Clone()
}

// Ptr returns a pointer to a copy of the principal.
func (b *PrincipalBuilder) Ptr() *domainauth.Principal {
	return b.p.Clone()
}

// Partner returns an active partner descriptor for id.
func Partner(id int64) *domainauth.PartnerRef {
	s := strconv.FormatInt(id, 10)
	return &domainauth.PartnerRef{ID: id, Name: "Partner " + s, Code: "P" + s, IsActive: true}
}

// Store returns an active store descriptor for id owned by partnerID.
func Store(id, partnerID int64) domainauth.StoreRef {
	s := strconv.FormatInt(id, 10)
	return domainauth.StoreRef{ID: id, Name: "Store " + s, Code: "S" + s, IsActive: true, PartnerID: partnerID}
}

// Pair returns a credential pair whose tokens are tagged with name.
func Pair(name string) domainauth.CredentialPair {
	return domainauth.CredentialPair{
		AccessToken:  "access-" + name,
		RefreshToken: "refresh-" + name,
		TokenType:    domainauth.DefaultTokenType,
		ExpiresAt:    TestTime().Add(time.Hour),
	}
}
