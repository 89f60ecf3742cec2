package addons

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wpthub/tenanthub/app/models"
	"github.com/wpthub/tenanthub/app/repository"
	"github.com/wpthub/tenanthub/internal/pkg/testutil"
)

func setupAddonFixture(t *testing.T) (*repository.Repositories, *Service, *models.Tenant) {
	t.Helper()

	repos := testutil.SetupTestRepositories(t)
	service := NewServiceFromRepositories(repos)
	user := testutil.CreateTestUser(t, repos, "owner@example.com")
	tenant := testutil.CreateTestTenant(t, repos, user.ID, "https://site.example.com")
	return repos, service, tenant
}

func createAddon(t *testing.T, repos *repository.Repositories, slug string, requiredModules []string) *models.Addon {
	t.Helper()

	addon := &models.Addon{Slug: slug, Name: slug, IsActive: true}
	if requiredModules != nil {
		require.NoError(t, addon.SetRequiredModules(requiredModules))
	}
	require.NoError(t, repos.Addon.Create(addon))
	return addon
}

func TestActivateWithoutDependencies(t *testing.T) {
	repos, service, tenant := setupAddonFixture(t)
	addon := createAddon(t, repos, "extra-jobs", nil)

	ta, err := service.Activate(tenant.ID, addon.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, ta.Quantity)
	assert.True(t, ta.IsActive())
}

func TestActivateDefaultsQuantityToOne(t *testing.T) {
	repos, service, tenant := setupAddonFixture(t)
	addon := createAddon(t, repos, "extra-jobs", nil)

	ta, err := service.Activate(tenant.ID, addon.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, ta.Quantity)
}

func TestActivateBlockedByMissingModule(t *testing.T) {
	repos, service, tenant := setupAddonFixture(t)

	testutil.CreateTestModule(t, repos, "career", "Career Portal", models.AvailabilityAllTenants)
	addon := createAddon(t, repos, "extra-jobs", []string{"career"})

	_, err := service.Activate(tenant.ID, addon.ID, 1)
	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Contains(t, depErr.Error(), "Career Portal")
}

func TestActivateAfterDependencySatisfied(t *testing.T) {
	repos, service, tenant := setupAddonFixture(t)

	module := testutil.CreateTestModule(t, repos, "career", "Career Portal", models.AvailabilityAllTenants)
	addon := createAddon(t, repos, "extra-jobs", []string{"career"})

	require.NoError(t, repos.Module.UpsertTenantModule(&models.TenantModule{
		TenantID: tenant.ID,
		ModuleID: module.ID,
		Status:   models.ModuleStatusActive,
	}))

	ta, err := service.Activate(tenant.ID, addon.ID, 1)
	require.NoError(t, err)
	assert.True(t, ta.IsActive())
}

func TestReactivateUpdatesQuantityInPlace(t *testing.T) {
	repos, service, tenant := setupAddonFixture(t)
	addon := createAddon(t, repos, "extra-jobs", nil)

	first, err := service.Activate(tenant.ID, addon.ID, 1)
	require.NoError(t, err)

	second, err := service.Activate(tenant.ID, addon.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.Quantity)
}

func TestDeactivateKeepsRow(t *testing.T) {
	repos, service, tenant := setupAddonFixture(t)
	addon := createAddon(t, repos, "extra-jobs", nil)

	_, err := service.Activate(tenant.ID, addon.ID, 2)
	require.NoError(t, err)

	ta, err := service.Deactivate(tenant.ID, addon.ID)
	require.NoError(t, err)
	assert.False(t, ta.IsActive())
	assert.Equal(t, 2, ta.Quantity)

	active, err := repos.Addon.ListActiveByTenant(tenant.ID)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestActivateRejectsInactiveAddon(t *testing.T) {
	repos, service, tenant := setupAddonFixture(t)

	addon := createAddon(t, repos, "extra-jobs", nil)
	addon.IsActive = false
	require.NoError(t, repos.Addon.Update(addon))

	_, err := service.Activate(tenant.ID, addon.ID, 1)
	assert.ErrorIs(t, err, ErrAddonInactive)
}
