package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	domainauth "github.com/target/pos-console/internal/domain/auth"
)

func TestPrincipalBuilder(t *testing.T) {
	p := NewPrincipal().WithID(2).WithUsername("owner").AsTenantAdmin(9).WithDefaultStore(12).Build()

	assert.Equal(t, int64(2), p.ID)
	assert.Equal(t, "owner@example.com", p.Email)
	assert.True(t, domainauth.SameRole(p.Role, domainauth.TenantAdmin{}))
	assert.Equal(t, int64(9), p.Partner.ID)
	assert.Nil(t, p.AssignedStore)
	assert.Equal(t, int64(12), p.DefaultStore.ID)
	assert.Equal(t, int64(9), p.DefaultStore.PartnerID)
	assert.True(t, p.DefaultStore.IsDefault)
}

func TestPrincipalBuilder_StoreUser(t *testing.T) {
	b := NewPrincipal().AsStoreUser(domainauth.StoreAdmin{}, 9, 3)
	p := b.Ptr()
	p.AssignedStore.ID = 99

	assert.Equal(t, int64(3), b.Build().AssignedStore.ID, "Ptr returns a copy")
	assert.True(t, p.Capabilities().StoreLevel)
}

func TestRunConcurrent(t *testing.T) {
	errs := RunConcurrent(
		func() error { return nil },
		func() error { return assert.AnError },
	)
	assert.NoError(t, errs[0])
	assert.ErrorIs(t, errs[1], assert.AnError)
}

func TestPair(t *testing.T) {
	p := Pair("x")
	assert.Equal(t, "access-x", p.AccessToken)
	assert.False(t, p.Expired(TestTime()))
}
