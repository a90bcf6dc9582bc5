package models

import "fmt"

// Tenant identifies one isolated corpus partition (the bot_type discriminator).
// The set is closed: requests carry the tenant explicitly and it is never
// inferred from content.
type Tenant string

const (
	// TenantNusawork is the primary tenant and the bot_type default.
	TenantNusawork Tenant = "nusawork"

	// TenantNusaid is the NusaID tenant.
	TenantNusaid Tenant = "nusaid"
)

// AllTenants returns every configured tenant tag.
func AllTenants() []Tenant {
	return []Tenant{TenantNusawork, TenantNusaid}
}

// ParseTenant validates a raw tag against the closed tenant set.
func ParseTenant(raw string) (Tenant, error) {
	switch Tenant(raw) {
	case TenantNusawork:
		return TenantNusawork, nil
	case TenantNusaid:
		return TenantNusaid, nil
	default:
		return "", fmt.Errorf("unknown tenant %q", raw)
	}
}

// Valid reports whether the tenant belongs to the configured set.
func (t Tenant) Valid() bool {
	_, err := ParseTenant(string(t))
	return err == nil
}

// String implements fmt.Stringer.
func (t Tenant) String() string {
	return string(t)
}
