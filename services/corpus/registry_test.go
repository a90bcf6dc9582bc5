package corpus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nusanet/nusarag/models"
	"github.com/nusanet/nusarag/services"
)

func TestRegistryResolve(t *testing.T) {
	registry := NewRegistry()

	t.Run("resolves each tenant to its own table", func(t *testing.T) {
		nusawork, err := registry.Resolve(models.TenantNusawork)
		require.NoError(t, err)
		nusaid, err := registry.Resolve(models.TenantNusaid)
		require.NoError(t, err)

		assert.Equal(t, "nusawork_embeddings", nusawork)
		assert.Equal(t, "nusaid_embeddings", nusaid)
		assert.NotEqual(t, nusawork, nusaid, "tenant corpora must stay isolated")
	})

	t.Run("unknown tenant is rejected", func(t *testing.T) {
		_, err := registry.Resolve(models.Tenant("intruder"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, services.ErrUnknownTenant))
	})
}

func TestRegistryTables(t *testing.T) {
	registry := NewRegistry()

	tables := registry.Tables()
	assert.Len(t, tables, 2)

	// returned map is a copy, mutating it must not affect the registry
	tables[models.TenantNusawork] = "tampered"
	resolved, err := registry.Resolve(models.TenantNusawork)
	require.NoError(t, err)
	assert.Equal(t, "nusawork_embeddings", resolved)
}
