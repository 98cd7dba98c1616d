package tenancy

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/pos-console/internal/domain/auth"
)

func superAdmin() *domainauth.Principal {
	return &domainauth.Principal{ID: 1, Username: "root", Role: domainauth.SystemAdmin{}}
}

func tenantAdmin(partnerID int64) *domainauth.Principal {
	return &domainauth.Principal{
		ID:       2,
		Username: "owner",
		Role:     domainauth.TenantAdmin{},
		Partner:  &domainauth.PartnerRef{ID: partnerID, Name: "Own"},
	}
}

func storeUser(role domainauth.Role, partnerID, storeID int64) *domainauth.Principal {
	return &domainauth.Principal{
		ID:            3,
		Username:      "clerk",
		Role:          role,
		Partner:       &domainauth.PartnerRef{ID: partnerID},
		AssignedStore: &domainauth.StoreRef{ID: storeID, PartnerID: partnerID},
	}
}

func TestResolve_NilPrincipal(t *testing.T) {
	ec := Resolve(nil, Stack{})
	assert.False(t, ec.Authenticated())
	assert.Zero(t, ec.PartnerID)
	assert.Zero(t, ec.StoreID)
	assert.False(t, ec.CanViewTenantData())
}

func TestResolve_SuperAdminWalkthrough(t *testing.T) {
	p := superAdmin()
	var s Stack

	ec := Resolve(p, s)
	assert.Zero(t, ec.PartnerID)
	assert.True(t, ec.CanManagePartners())
	assert.True(t, ec.CanEnterPartner())
	assert.False(t, ec.CanViewTenantData())

	require.NoError(t, s.PushPartner(acme, basePair))
	ec = Resolve(p, s)
	assert.Equal(t, int64(42), ec.PartnerID)
	assert.Zero(t, ec.StoreID)
	assert.True(t, ec.IsTenantAdmin)
	assert.True(t, ec.IsImpersonatingPartner)
	assert.True(t, ec.CanEnterStore())
	assert.False(t, ec.CanManagePartners())
	assert.True(t, ec.CanViewTenantData())

	require.NoError(t, s.PushStore(acme, downtown, partnerPair, false))
	ec = Resolve(p, s)
	assert.Equal(t, int64(7), ec.StoreID)
	assert.True(t, ec.CanUsePOS())
	assert.Equal(t, ImpersonatingPartnerAndStore, ec.State)

	_, _ = s.Pop()
	ec = Resolve(p, s)
	assert.Zero(t, ec.StoreID)
	assert.Equal(t, int64(42), ec.PartnerID)

	_, _ = s.Pop()
	ec = Resolve(p, s)
	assert.Zero(t, ec.StoreID)
	assert.Zero(t, ec.PartnerID)
	assert.Equal(t, Base, ec.State)
}

func TestResolve_TenantAdminOwnPartner(t *testing.T) {
	p := tenantAdmin(9)
	ec := Resolve(p, Stack{})

	assert.Equal(t, int64(9), ec.PartnerID)
	assert.Zero(t, ec.StoreID)
	assert.True(t, ec.IsTenantAdmin)
	assert.False(t, ec.IsImpersonatingPartner)
	assert.True(t, ec.CanEnterStore())
	assert.False(t, ec.CanEnterPartner())

	var s Stack
	require.NoError(t, s.PushStore(*p.Partner, domainauth.StoreRef{ID: 11, PartnerID: 9}, basePair, true))
	ec = Resolve(p, s)
	assert.Equal(t, int64(11), ec.StoreID)
	assert.Equal(t, int64(9), ec.PartnerID)
	assert.True(t, ec.IsImpersonatingStore)
	assert.False(t, ec.CanEnterStore())
}

func TestResolve_StoreLevelUserIgnoresFrames(t *testing.T) {
	for _, role := range []domainauth.Role{domainauth.StoreAdmin{}, domainauth.Cashier{}} {
		p := storeUser(role, 9, 3)

		ec := Resolve(p, Stack{})
		assert.Equal(t, int64(3), ec.StoreID, role.String())
		assert.True(t, ec.IsStoreLevelUser)
		assert.False(t, ec.CanEnterStore())

		// Frames that such a user could never push are not honored.
		var s Stack
		require.NoError(t, s.PushStore(*p.Partner, domainauth.StoreRef{ID: 99}, basePair, true))
		ec = Resolve(p, s)
		assert.Equal(t, int64(3), ec.StoreID, role.String())
		assert.False(t, ec.IsImpersonatingStore)
		assert.Equal(t, Base, ec.State)
	}
}

func TestResolve_PartnerFrameIgnoredForTenantAdmin(t *testing.T) {
	p := tenantAdmin(9)
	var s Stack
	require.NoError(t, s.PushPartner(acme, basePair))

	ec := Resolve(p, s)
	assert.Equal(t, int64(9), ec.PartnerID)
	assert.False(t, ec.IsImpersonatingPartner)
}

func TestResolve_DescriptorsAreCopies(t *testing.T) {
	p := tenantAdmin(9)
	ec := Resolve(p, Stack{})
	ec.Partner.ID = 100
	assert.Equal(t, int64(9), p.Partner.ID)
}

func TestScope_QueryStoreID(t *testing.T) {
	assert.Equal(t, int64(7), Scope{StoreID: 7, FilterStoreID: 3}.QueryStoreID())
	assert.Equal(t, int64(3), Scope{FilterStoreID: 3}.QueryStoreID())
	assert.Zero(t, Scope{}.QueryStoreID())

	ec := Resolve(tenantAdmin(9), Stack{})
	assert.Equal(t, Scope{PartnerID: 9, FilterStoreID: 4}, ec.Scope(4))
}

// model mirrors the two named reserve slots a stack replaces; it is driven
// alongside a Stack to check precedence after every step.
type model struct {
	partner      *domainauth.PartnerRef
	store        *domainauth.StoreRef
	active       domainauth.CredentialPair
	original     *domainauth.CredentialPair
	partnerLevel *domainauth.CredentialPair
}

func TestResolve_PrecedenceOverRandomSequences(t *testing.T) {
	principals := []*domainauth.Principal{
		superAdmin(),
		tenantAdmin(9),
		storeUser(domainauth.StoreAdmin{}, 9, 3),
		storeUser(domainauth.Cashier{}, 9, 3),
		{ID: 4, Username: "viewer", Role: domainauth.Viewer{}, Partner: &domainauth.PartnerRef{ID: 9}},
	}
	rng := rand.New(rand.NewPCG(1, 2))

	for _, p := range principals {
		for run := 0; run < 200; run++ {
			var (
				s    Stack
				m    = model{active: basePair}
				next = 0
			)
			for step := 0; step < 12; step++ {
				next++
				issued := domainauth.CredentialPair{AccessToken: "tok", RefreshToken: string(rune('a' + next%26))}
				ec := Resolve(p, s)

				switch rng.IntN(4) {
				case 0: // enter partner
					if !ec.CanEnterPartner() {
						continue
					}
					partner := domainauth.PartnerRef{ID: int64(rng.IntN(5) + 1)}
					require.NoError(t, s.PushPartner(partner, m.active))
					saved := m.active
					m.original, m.partner, m.active = &saved, &partner, issued
				case 1: // enter store
					if !ec.CanEnterStore() {
						continue
					}
					store := domainauth.StoreRef{ID: int64(rng.IntN(5) + 10), PartnerID: ec.PartnerID}
					require.NoError(t, s.PushStore(*ec.Partner, store, m.active, !ec.IsImpersonatingPartner))
					saved := m.active
					m.partnerLevel, m.store, m.active = &saved, &store, issued
				case 2: // exit store
					sf, ok := s.StoreFrame()
					if !ok {
						continue
					}
					_, err := s.Pop()
					require.NoError(t, err)
					assert.Equal(t, *m.partnerLevel, sf.Saved)
					m.active, m.store, m.partnerLevel = *m.partnerLevel, nil, nil
				case 3: // exit partner
					if _, ok := s.StoreFrame(); ok {
						f, _ := s.Pop()
						m.active, m.store, m.partnerLevel = f.Saved, nil, nil
					}
					pf, ok := s.PartnerFrame()
					if !ok {
						continue
					}
					_, err := s.Pop()
					require.NoError(t, err)
					assert.Equal(t, *m.original, pf.Saved)
					m.active, m.partner, m.original = *m.original, nil, nil
				}

				ec = Resolve(p, s)
				wantPartner := int64(0)
				switch {
				case m.partner != nil:
					wantPartner = m.partner.ID
				case p.Partner != nil:
					wantPartner = p.Partner.ID
				}
				wantStore := int64(0)
				switch {
				case m.store != nil:
					wantStore = m.store.ID
				case p.AssignedStore != nil:
					wantStore = p.AssignedStore.ID
				}
				assert.Equal(t, wantPartner, ec.PartnerID)
				assert.Equal(t, wantStore, ec.StoreID)

				if ec.IsStoreLevelUser {
					assert.False(t, ec.IsImpersonatingStore)
					assert.Equal(t, p.AssignedStore.ID, ec.StoreID)
				}
				if ec.IsImpersonatingStore && !ec.IsImpersonatingPartner {
					assert.True(t, ec.IsTenantAdmin && !ec.IsSuperAdmin)
				}
				if s.Empty() {
					assert.Equal(t, basePair, m.active)
				}
			}
		}
	}
}
