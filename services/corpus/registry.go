// Package corpus maps tenant tags to their physical embeddings tables.
package corpus

import (
	"fmt"

	"github.com/nusanet/nusarag/models"
	"github.com/nusanet/nusarag/services"
)

// Per-tenant embeddings tables. These constants are the only values the
// registry ever hands out; table names are never assembled from request
// strings.
const (
	nusaworkTable = "nusawork_embeddings"
	nusaidTable   = "nusaid_embeddings"
)

// Registry resolves tenants to their corpus tables. It is an in-memory map
// built once at startup, read-only afterwards and safe for concurrent use.
type Registry struct {
	tables map[models.Tenant]string
}

// NewRegistry builds the registry for the configured tenant set.
func NewRegistry() *Registry {
	return &Registry{
		tables: map[models.Tenant]string{
			models.TenantNusawork: nusaworkTable,
			models.TenantNusaid:   nusaidTable,
		},
	}
}

// Resolve returns the embeddings table for the tenant. Pure lookup, no I/O.
func (r *Registry) Resolve(tenant models.Tenant) (string, error) {
	table, ok := r.tables[tenant]
	if !ok {
		return "", services.NewDomainError(services.ErrorTypeUnknownTenant,
			fmt.Sprintf("tenant %q is not configured", tenant), services.ErrUnknownTenant)
	}
	return table, nil
}

// Tables returns every registered table, keyed by tenant. Used by schema
// provisioning and ingestion tooling.
func (r *Registry) Tables() map[models.Tenant]string {
	out := make(map[models.Tenant]string, len(r.tables))
	for tenant, table := range r.tables {
		out[tenant] = table
	}
	return out
}
