package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wpthub/tenanthub/app/models"
	"github.com/wpthub/tenanthub/app/repository"
	"github.com/wpthub/tenanthub/internal/pkg/testutil"
)

func setupRegistryFixture(t *testing.T) (*repository.Repositories, *Registry, *models.Tenant) {
	t.Helper()

	repos := testutil.SetupTestRepositories(t)
	registry := NewRegistryFromRepositories(repos)
	user := testutil.CreateTestUser(t, repos, "owner@example.com")
	tenant := testutil.CreateTestTenant(t, repos, user.ID, "https://site.example.com")
	return repos, registry, tenant
}

func TestVisibleModulesAllTenantsMode(t *testing.T) {
	repos, registry, tenant := setupRegistryFixture(t)

	testutil.CreateTestModule(t, repos, "career", "Career Portal", models.AvailabilityAllTenants)

	visible, err := registry.VisibleModules(tenant.ID)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "career", visible[0].Slug)
}

func TestVisibleModulesSpecificTenantsMode(t *testing.T) {
	repos, registry, tenant := setupRegistryFixture(t)

	module := testutil.CreateTestModule(t, repos, "career", "Career Portal", models.AvailabilitySpecificTenants)

	visible, err := registry.VisibleModules(tenant.ID)
	require.NoError(t, err)
	assert.Empty(t, visible)

	require.NoError(t, repos.Module.AddAvailability(module.ID, tenant.ID))

	visible, err = registry.VisibleModules(tenant.ID)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "career", visible[0].Slug)
}

func TestVisibleModulesExcludesInactive(t *testing.T) {
	repos, registry, tenant := setupRegistryFixture(t)

	module := testutil.CreateTestModule(t, repos, "career", "Career Portal", models.AvailabilityAllTenants)
	module.IsActive = false
	require.NoError(t, repos.Module.Update(module))

	visible, err := registry.VisibleModules(tenant.ID)
	require.NoError(t, err)
	assert.Empty(t, visible)
}

func TestActivateRequiresVisibility(t *testing.T) {
	repos, registry, tenant := setupRegistryFixture(t)

	module := testutil.CreateTestModule(t, repos, "career", "Career Portal", models.AvailabilitySpecificTenants)

	_, err := registry.Activate(tenant.ID, module.ID, models.ActorTenant)
	assert.ErrorIs(t, err, ErrNotVisible)

	require.NoError(t, repos.Module.AddAvailability(module.ID, tenant.ID))

	tm, err := registry.Activate(tenant.ID, module.ID, models.ActorTenant)
	require.NoError(t, err)
	assert.True(t, tm.IsActive())
	assert.Equal(t, models.ActorTenant, tm.LastActor)
}

func TestActivateRejectsInactiveModule(t *testing.T) {
	repos, registry, tenant := setupRegistryFixture(t)

	module := testutil.CreateTestModule(t, repos, "career", "Career Portal", models.AvailabilityAllTenants)
	module.IsActive = false
	require.NoError(t, repos.Module.Update(module))

	_, err := registry.Activate(tenant.ID, module.ID, models.ActorTenant)
	assert.ErrorIs(t, err, ErrModuleInactive)
}

func TestDeactivateRecordsActor(t *testing.T) {
	repos, registry, tenant := setupRegistryFixture(t)

	module := testutil.CreateTestModule(t, repos, "career", "Career Portal", models.AvailabilityAllTenants)

	_, err := registry.Activate(tenant.ID, module.ID, models.ActorTenant)
	require.NoError(t, err)

	tm, err := registry.Deactivate(tenant.ID, module.ID, models.ActorAdmin)
	require.NoError(t, err)
	assert.False(t, tm.IsActive())
	assert.Equal(t, models.ActorAdmin, tm.LastActor)

	slugs, err := repos.Module.ListActiveSlugsByTenant(tenant.ID)
	require.NoError(t, err)
	assert.Empty(t, slugs)
}

func TestDeactivateRequiresExistingActivation(t *testing.T) {
	repos, registry, tenant := setupRegistryFixture(t)

	module := testutil.CreateTestModule(t, repos, "career", "Career Portal", models.AvailabilityAllTenants)

	_, err := registry.Deactivate(tenant.ID, module.ID, models.ActorAdmin)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repos.Module.GetTenantModule(tenant.ID, module.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestEligibleTenantsFollowsAvailabilityMode(t *testing.T) {
	repos, registry, tenant := setupRegistryFixture(t)

	other := testutil.CreateTestTenant(t, repos, tenant.UserID, "https://other.example.com")

	open := testutil.CreateTestModule(t, repos, "career", "Career Portal", models.AvailabilityAllTenants)
	restricted := testutil.CreateTestModule(t, repos, "shop", "Shop", models.AvailabilitySpecificTenants)
	require.NoError(t, repos.Module.AddAvailability(restricted.ID, other.ID))

	all, err := registry.EligibleTenants(open)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	some, err := registry.EligibleTenants(restricted)
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Equal(t, other.ID, some[0].ID)
}
