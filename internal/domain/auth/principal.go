package auth

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PartnerRef identifies a tenant (partner) account.
type PartnerRef struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	IsActive bool   `json:"is_active"`
}

// StoreRef identifies a store owned by a partner.
type StoreRef struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	IsActive  bool   `json:"is_active"`
	IsDefault bool   `json:"is_default,omitempty"`
	PartnerID int64  `json:"partner_id,omitempty"`
}

// Principal is the authenticated actor. It is replaced wholesale on every login.
type Principal struct {
	ID            int64
	Username      string
	Email         string
	FirstName     string
	LastName      string
	Role          Role
	Partner       *PartnerRef
	AssignedStore *StoreRef
	DefaultStore  *StoreRef
}

// Capabilities returns the static capabilities of the principal's role.
func (p *Principal) Capabilities() Capabilities {
	if p == nil {
		return Capabilities{}
	}
	return CapabilitiesOf(p.Role)
}

// DisplayName returns "First Last", falling back to the username.
func (p *Principal) DisplayName() string {
	if p == nil {
		return ""
	}
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.Username
	}
	return name
}

// Clone returns a deep copy of p.
func (p *Principal) Clone() *Principal {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Partner = clonePartner(p.Partner)
	cp.AssignedStore = CloneStore(p.AssignedStore)
	cp.DefaultStore = CloneStore(p.DefaultStore)
	return &cp
}

// CloneStore returns a copy of s, or nil.
func CloneStore(s *StoreRef) *StoreRef {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

func clonePartner(p *PartnerRef) *PartnerRef {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// ClonePartner returns a copy of p, or nil.
func ClonePartner(p *PartnerRef) *PartnerRef { return clonePartner(p) }

type principalJSON struct {
	ID            int64       `json:"id"`
	Username      string      `json:"username"`
	Email         string      `json:"email,omitempty"`
	FirstName     string      `json:"first_name,omitempty"`
	LastName      string      `json:"last_name,omitempty"`
	Role          string      `json:"role"`
	Partner       *PartnerRef `json:"partner,omitempty"`
	AssignedStore *StoreRef   `json:"assigned_store,omitempty"`
	DefaultStore  *StoreRef   `json:"default_store,omitempty"`
}

// MarshalJSON persists the role by name so the sealed Role survives a round trip.
func (p Principal) MarshalJSON() ([]byte, error) {
	if p.Role == nil {
		return nil, fmt.Errorf("principal %d has no role", p.ID)
	}
	return json.Marshal(principalJSON{
		ID:            p.ID,
		Username:      p.Username,
		Email:         p.Email,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Role:          p.Role.String(),
		Partner:       p.Partner,
		AssignedStore: p.AssignedStore,
		DefaultStore:  p.DefaultStore,
	})
}

// UnmarshalJSON restores a principal written by MarshalJSON.
func (p *Principal) UnmarshalJSON(data []byte) error {
	var raw principalJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	role, err := RoleFromName(raw.Role)
	if err != nil {
		return err
	}
	*p = Principal{
		ID:            raw.ID,
		Username:      raw.Username,
		Email:         raw.Email,
		FirstName:     raw.FirstName,
		LastName:      raw.LastName,
		Role:          role,
		Partner:       raw.Partner,
		AssignedStore: raw.AssignedStore,
		DefaultStore:  raw.DefaultStore,
	}
	return nil
}
