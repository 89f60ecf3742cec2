package entitlements

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wpthub/tenanthub/app/models"
	"github.com/wpthub/tenanthub/app/repository"
	"github.com/wpthub/tenanthub/internal/pkg/testutil"
)

func setupQuotaFixture(t *testing.T) (*repository.Repositories, *Resolver, *models.Tenant) {
	t.Helper()

	repos := testutil.SetupTestRepositories(t)
	resolver := NewResolverFromRepositories(repos)

	user := testutil.CreateTestUser(t, repos, "owner@example.com")
	tenant := testutil.CreateTestTenant(t, repos, user.ID, "https://site.example.com")

	plan := testutil.CreateTestPlan(t, repos, "starter", map[string]interface{}{
		"job_limit":       5,
		"purchase_addons": true,
	})
	tenant.PlanID = &plan.ID
	require.NoError(t, repos.Tenant.Update(tenant))

	mapping := &models.FeatureMapping{
		FeatureKey:       "job_limit",
		Name:             "Job Listings",
		Type:             models.FeatureTypePostType,
		TargetIdentifier: "job",
		IsQuota:          true,
	}
	require.NoError(t, repos.FeatureMapping.Create(mapping))

	return repos, resolver, tenant
}

func TestResolveQuotaFromPlan(t *testing.T) {
	_, resolver, tenant := setupQuotaFixture(t)

	quota, err := resolver.ResolveQuota(tenant.ID, "job_limit")
	require.NoError(t, err)
	assert.Equal(t, int64(5), quota.Limit)
	assert.False(t, quota.Unlimited)
	assert.Equal(t, "5", quota.Display())
}

func TestResolveQuotaWithAddonIncrements(t *testing.T) {
	repos, resolver, tenant := setupQuotaFixture(t)

	addon := &models.Addon{Slug: "extra-jobs", Name: "Extra Jobs", IsActive: true}
	require.NoError(t, addon.SetFeatureIncrements(map[string]int64{"job_limit": 1}))
	require.NoError(t, repos.Addon.Create(addon))
	require.NoError(t, repos.Addon.UpsertTenantAddon(&models.TenantAddon{
		TenantID:    tenant.ID,
		AddonID:     addon.ID,
		Quantity:    2,
		Status:      models.AddonStatusActive,
		ActivatedAt: time.Now(),
	}))

	quota, err := resolver.ResolveQuota(tenant.ID, "job_limit")
	require.NoError(t, err)
	assert.Equal(t, int64(7), quota.Limit)
}

func TestResolveQuotaSuspendedAddonDoesNotCount(t *testing.T) {
	repos, resolver, tenant := setupQuotaFixture(t)

	addon := &models.Addon{Slug: "extra-jobs", Name: "Extra Jobs", IsActive: true}
	require.NoError(t, addon.SetFeatureIncrements(map[string]int64{"job_limit": 3}))
	require.NoError(t, repos.Addon.Create(addon))
	require.NoError(t, repos.Addon.UpsertTenantAddon(&models.TenantAddon{
		TenantID:    tenant.ID,
		AddonID:     addon.ID,
		Quantity:    1,
		Status:      models.AddonStatusSuspended,
		ActivatedAt: time.Now(),
	}))

	quota, err := resolver.ResolveQuota(tenant.ID, "job_limit")
	require.NoError(t, err)
	assert.Equal(t, int64(5), quota.Limit)
}

func TestResolveQuotaUnlimitedSentinel(t *testing.T) {
	repos, resolver, tenant := setupQuotaFixture(t)

	plan, err := repos.Plan.GetByID(*tenant.PlanID)
	require.NoError(t, err)
	require.NoError(t, plan.SetFeatureMap(map[string]interface{}{"job_limit": models.UnlimitedQuota}))
	require.NoError(t, repos.Plan.Update(plan))

	quota, err := resolver.ResolveQuota(tenant.ID, "job_limit")
	require.NoError(t, err)
	assert.True(t, quota.Unlimited)
	assert.Equal(t, "Unlimited", quota.Display())
	assert.Equal(t, int64(-1), quota.Remaining(1000))
}

func TestResolveQuotaWithoutPlan(t *testing.T) {
	repos, resolver, tenant := setupQuotaFixture(t)

	tenant.PlanID = nil
	require.NoError(t, repos.Tenant.Update(tenant))

	quota, err := resolver.ResolveQuota(tenant.ID, "job_limit")
	require.NoError(t, err)
	assert.Equal(t, int64(0), quota.Limit)
	assert.Equal(t, int64(0), quota.Remaining(0))
}

func TestResolveQuotaUnmappedKeyPassesThrough(t *testing.T) {
	repos, resolver, tenant := setupQuotaFixture(t)

	plan, err := repos.Plan.GetByID(*tenant.PlanID)
	require.NoError(t, err)
	require.NoError(t, plan.SetFeatureMap(map[string]interface{}{"mystery_limit": 12}))
	require.NoError(t, repos.Plan.Update(plan))

	quota, err := resolver.ResolveQuota(tenant.ID, "mystery_limit")
	require.NoError(t, err)
	assert.True(t, quota.Unmapped)
	assert.Equal(t, int64(12), quota.Limit)
}

func TestResolveBoolPurchaseCapabilityOverride(t *testing.T) {
	repos, resolver, tenant := setupQuotaFixture(t)

	allowed, err := resolver.ResolveBool(tenant.ID, CapabilityPurchase)
	require.NoError(t, err)
	assert.True(t, allowed)

	denied := false
	tenant.CanPurchase = &denied
	require.NoError(t, repos.Tenant.Update(tenant))

	allowed, err = resolver.ResolveBool(tenant.ID, CapabilityPurchase)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestQuotaReportCountsPublishedOnly(t *testing.T) {
	repos, resolver, tenant := setupQuotaFixture(t)

	require.NoError(t, repos.ContentRecord.Create(&models.ContentRecord{
		Type: "job", TenantID: tenant.ID, OriginID: 1, Title: "Open role", Status: models.ContentStatusPublish,
	}))
	require.NoError(t, repos.ContentRecord.Create(&models.ContentRecord{
		Type: "job", TenantID: tenant.ID, OriginID: 2, Title: "Draft role", Status: models.ContentStatusDraft,
	}))

	reports, err := resolver.QuotaReport(tenant.ID)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "job_limit", reports[0].FeatureKey)
	assert.Equal(t, "5", reports[0].Limit)
	assert.Equal(t, int64(1), reports[0].Published)
	assert.Equal(t, int64(4), reports[0].Remaining)
}
