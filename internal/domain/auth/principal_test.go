package auth

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipal_JSONKeepsRole(t *testing.T) {
	p := Principal{
		ID:            5,
		Username:      "maria",
		FirstName:     "Maria",
		Role:          StoreAdmin{},
		Partner:       &PartnerRef{ID: 9, Name: "Acme"},
		AssignedStore: &StoreRef{ID: 3, Name: "Downtown", PartnerID: 9},
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"role":"store-admin"`)

	var got Principal
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, p, got)
}

func TestPrincipal_MarshalWithoutRole(t *testing.T) {
	_, err := json.Marshal(Principal{ID: 1})
	assert.Error(t, err)
}

func TestPrincipal_UnmarshalUnknownRole(t *testing.T) {
	var p Principal
	err := json.Unmarshal([]byte(`{"id":1,"role":"owner"}`), &p)
	assert.Error(t, err)
}

func TestPrincipal_Clone(t *testing.T) {
	p := &Principal{ID: 1, Role: TenantAdmin{}, Partner: &PartnerRef{ID: 9}}
	cp := p.Clone()
	cp.Partner.ID = 10

	assert.Equal(t, int64(9), p.Partner.ID)
	assert.Nil(t, (*Principal)(nil).Clone())
}

func TestPrincipal_DisplayName(t *testing.T) {
	assert.Equal(t, "Ana Lima", (&Principal{Username: "ana", FirstName: "Ana", LastName: "Lima"}).DisplayName())
	assert.Equal(t, "ana", (&Principal{Username: "ana"}).DisplayName())
}

func TestCredentialPair(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, CredentialPair{}.IsZero())
	assert.Equal(t, "Bearer", CredentialPair{AccessToken: "a"}.Type())
	assert.Equal(t, "JWT", CredentialPair{AccessToken: "a", TokenType: "JWT"}.Type())

	assert.False(t, CredentialPair{AccessToken: "a"}.Expired(now))
	assert.True(t, CredentialPair{AccessToken: "a", ExpiresAt: now}.Expired(now))
	assert.False(t, CredentialPair{AccessToken: "a", ExpiresAt: now.Add(time.Minute)}.Expired(now))
}
