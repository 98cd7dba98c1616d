package auth

// Package auth contains domain-level types for principals, roles and credentials.
// It is pure and free of framework/adapter concerns.

import (
	"fmt"
	"strings"
)

// Role is the closed set of application roles. The unexported method seals
// the set to the variant types declared in this file.
type Role interface {
	kind() roleKind
	String() string
}

type roleKind uint8

const (
	kindSystemAdmin roleKind = iota + 1
	kindTenantAdmin
	kindStoreAdmin
	kindInventoryStaff
	kindCashier
	kindViewer
)

// SystemAdmin operates the platform and may impersonate partners.
type SystemAdmin struct{}

// TenantAdmin administers one partner and its stores.
type TenantAdmin struct{}

// StoreAdmin administers a single assigned store.
type StoreAdmin struct{}

// InventoryStaff maintains products and stock.
type InventoryStaff struct{}

// Cashier rings up sales at an assigned store.
type Cashier struct{}

// Viewer has read-only access.
type Viewer struct{}

func (SystemAdmin) kind() roleKind    { return kindSystemAdmin }
func (TenantAdmin) kind() roleKind    { return kindTenantAdmin }
func (StoreAdmin) kind() roleKind     { return kindStoreAdmin }
func (InventoryStaff) kind() roleKind { return kindInventoryStaff }
func (Cashier) kind() roleKind        { return kindCashier }
func (Viewer) kind() roleKind         { return kindViewer }

func (SystemAdmin) String() string    { return "system-admin" }
func (TenantAdmin) String() string    { return "tenant-admin" }
func (StoreAdmin) String() string     { return "store-admin" }
func (InventoryStaff) String() string { return "inventory-staff" }
func (Cashier) String() string        { return "cashier" }
func (Viewer) String() string         { return "viewer" }

// Wire values used by the REST API for the user's role field.
const (
	WireAdmin          = "ADMIN"
	WireStoreAdmin     = "STORE_ADMIN"
	WireInventoryStaff = "INVENTORY_STAFF"
	WireCashier        = "CASHIER"
	WireViewer         = "VIEWER"
)

// AllRoles lists every role variant.
func AllRoles() []Role {
	return []Role{SystemAdmin{}, TenantAdmin{}, StoreAdmin{}, InventoryStaff{}, Cashier{}, Viewer{}}
}

// ParseRole maps the API's role string and super-admin flag to a Role.
// ADMIN with the super-admin flag is a system admin; plain ADMIN is a tenant admin.
func ParseRole(wire string, superAdmin bool) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(wire)) {
	case WireAdmin:
		if superAdmin {
			return SystemAdmin{}, nil
		}
		return TenantAdmin{}, nil
	case WireStoreAdmin:
		return StoreAdmin{}, nil
	case WireInventoryStaff:
		return InventoryStaff{}, nil
	case WireCashier:
		return Cashier{}, nil
	case WireViewer:
		return Viewer{}, nil
	default:
		return nil, fmt.Errorf("unknown role %q", wire)
	}
}

// RoleFromName parses the String() form of a role.
func RoleFromName(name string) (Role, error) {
	for _, r := range AllRoles() {
		if r.String() == name {
			return r, nil
		}
	}
	return nil, fmt.Errorf("unknown role name %q", name)
}

// WireRole returns the API representation of r.
func WireRole(r Role) string {
	switch r.(type) {
	case SystemAdmin, TenantAdmin:
		return WireAdmin
	case StoreAdmin:
		return WireStoreAdmin
	case InventoryStaff:
		return WireInventoryStaff
	case Cashier:
		return WireCashier
	case Viewer:
		return WireViewer
	}
	return ""
}

// SameRole reports whether a and b are the same variant.
func SameRole(a, b Role) bool {
	if a == nil || b == nil {
		return false
	}
	return a.kind() == b.kind()
}

// Allows reports whether r is one of allowed.
func Allows(r Role, allowed ...Role) bool {
	for _, candidate := range allowed {
		if SameRole(r, candidate) {
			return true
		}
	}
	return false
}

// Capabilities are the static permissions implied by a role, before any
// impersonation is taken into account.
type Capabilities struct {
	SuperAdmin     bool
	TenantAdmin    bool
	StoreAdmin     bool
	Cashier        bool
	StoreLevel     bool
	ManageStock    bool
	ReadOnly       bool
	EnterPartner   bool
	EnterOwnStores bool
}

// CapabilitiesOf returns the capabilities of r. A nil role has none.
func CapabilitiesOf(r Role) Capabilities {
	switch r.(type) {
	case SystemAdmin:
		return Capabilities{SuperAdmin: true, ManageStock: true, EnterPartner: true}
	case TenantAdmin:
		return Capabilities{TenantAdmin: true, ManageStock: true, EnterOwnStores: true}
	case StoreAdmin:
		return Capabilities{StoreAdmin: true, StoreLevel: true, ManageStock: true}
	case InventoryStaff:
		return Capabilities{ManageStock: true}
	case Cashier:
		return Capabilities{Cashier: true, StoreLevel: true}
	case Viewer:
		return Capabilities{ReadOnly: true}
	}
	return Capabilities{}
}
