package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wpthub/tenanthub/app/models"
	"github.com/wpthub/tenanthub/app/repository"
	"github.com/wpthub/tenanthub/internal/pkg/testutil"
)

var (
	adminTestOnce  sync.Once
	adminTestRepos *repository.Repositories
	adminTestApp   *fiber.App
	adminTestSeq   int
)

// Handlers read from the global factory, which initializes once per
// process, so every test in this package shares one database.
func setupAdminFixture(t *testing.T) (*repository.Repositories, *fiber.App) {
	t.Helper()

	adminTestOnce.Do(func() {
		db := testutil.SetupTestDB(t)
		repository.InitializeFactory(db)
		adminTestRepos = repository.GetGlobalRepositories()

		adminTestApp = fiber.New()
		adminTestApp.Get("/tenants/:id", HandleAdminTenantGet)
		adminTestApp.Post("/tenants", HandleAdminTenantCreate)
		adminTestApp.Post("/tenants/:id/suspend", HandleAdminTenantSuspend)
		adminTestApp.Post("/tenants/:id/regenerate-key", HandleAdminTenantRegenerateKey)
		adminTestApp.Delete("/tenants/:id", HandleAdminTenantDelete)
		adminTestApp.Delete("/plans/:id", HandleAdminPlanDelete)
		adminTestApp.Post("/plans", HandleAdminPlanCreate)
		adminTestApp.Delete("/module-categories/:id", HandleAdminModuleCategoryDelete)
		adminTestApp.Post("/tenant-addons/activate", HandleAdminTenantAddonActivate)
		adminTestApp.Delete("/addons/:id", HandleAdminAddonDelete)
		adminTestApp.Post("/modules/:id/availability", HandleAdminModuleAvailabilityAdd)
		adminTestApp.Delete("/modules/:id/availability", HandleAdminModuleAvailabilityRemove)
	})

	adminTestSeq++
	return adminTestRepos, adminTestApp
}

func adminSeedTenant(t *testing.T, repos *repository.Repositories) *models.Tenant {
	t.Helper()

	user := testutil.CreateTestUser(t, repos, fmt.Sprintf("admin%d@example.com", adminTestSeq))
	return testutil.CreateTestTenant(t, repos, user.ID, "https://site.example.com")
}

func adminRequest(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp, decoded
}

func TestPlanDeleteGuardedByActiveTenants(t *testing.T) {
	repos, app := setupAdminFixture(t)

	plan := testutil.CreateTestPlan(t, repos, fmt.Sprintf("guarded-%d", adminTestSeq), nil)
	tenant := adminSeedTenant(t, repos)
	tenant.PlanID = &plan.ID
	require.NoError(t, repos.Tenant.Update(tenant))

	resp, body := adminRequest(t, app, http.MethodDelete, fmt.Sprintf("/plans/%d", plan.ID), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "1 active tenants are using this plan.", body["message"])

	// Suspended tenants do not block deletion
	tenant.Status = models.TenantStatusSuspended
	require.NoError(t, repos.Tenant.Update(tenant))

	resp, _ = adminRequest(t, app, http.MethodDelete, fmt.Sprintf("/plans/%d", plan.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestModuleCategoryDeleteGuard(t *testing.T) {
	repos, app := setupAdminFixture(t)

	category := &models.ModuleCategory{Slug: fmt.Sprintf("cat-%d", adminTestSeq), Name: "Commerce"}
	require.NoError(t, repos.Module.CreateCategory(category))

	module := testutil.CreateTestModule(t, repos, fmt.Sprintf("shop-%d", adminTestSeq), "Shop", models.AvailabilityAllTenants)
	module.CategoryID = &category.ID
	require.NoError(t, repos.Module.Update(module))

	resp, body := adminRequest(t, app, http.MethodDelete, fmt.Sprintf("/module-categories/%d", category.ID), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "1 modules are assigned to this category.", body["message"])
}

func TestTenantAddonActivateReportsMissingModules(t *testing.T) {
	repos, app := setupAdminFixture(t)
	tenant := adminSeedTenant(t, repos)

	testutil.CreateTestModule(t, repos, fmt.Sprintf("career-%d", adminTestSeq), "Career Portal", models.AvailabilityAllTenants)
	addon := &models.Addon{Slug: fmt.Sprintf("extra-%d", adminTestSeq), Name: "Extra Jobs", IsActive: true}
	require.NoError(t, addon.SetRequiredModules([]string{fmt.Sprintf("career-%d", adminTestSeq)}))
	require.NoError(t, repos.Addon.Create(addon))

	resp, body := adminRequest(t, app, http.MethodPost, "/tenant-addons/activate",
		map[string]interface{}{"tenant_id": tenant.ID, "addon_id": addon.ID, "quantity": 1})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body["message"], "Career Portal")
}

func TestAddonDeleteGuardedByActiveGrants(t *testing.T) {
	repos, app := setupAdminFixture(t)
	tenant := adminSeedTenant(t, repos)

	addon := &models.Addon{Slug: fmt.Sprintf("held-%d", adminTestSeq), Name: "Held Addon", IsActive: true}
	require.NoError(t, repos.Addon.Create(addon))
	require.NoError(t, repos.Addon.UpsertTenantAddon(&models.TenantAddon{
		TenantID: tenant.ID, AddonID: addon.ID, Quantity: 1, Status: models.AddonStatusActive,
	}))

	resp, body := adminRequest(t, app, http.MethodDelete, fmt.Sprintf("/addons/%d", addon.ID), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "1 tenants have this addon active.", body["message"])
}

func TestModuleAvailabilityEditsRePushToAudience(t *testing.T) {
	repos, app := setupAdminFixture(t)

	var hits atomic.Int32
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer site.Close()

	user := testutil.CreateTestUser(t, repos, fmt.Sprintf("audience%d@example.com", adminTestSeq))
	first := testutil.CreateTestTenant(t, repos, user.ID, site.URL)
	second := testutil.CreateTestTenant(t, repos, user.ID, site.URL)
	module := testutil.CreateTestModule(t, repos, fmt.Sprintf("vault-%d", adminTestSeq), "Vault", models.AvailabilitySpecificTenants)

	resp, body := adminRequest(t, app, http.MethodPost,
		fmt.Sprintf("/modules/%d/availability", module.ID),
		map[string]interface{}{"tenant_id": first.ID})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	push := body["data"].(map[string]interface{})["push"].(map[string]interface{})
	assert.Equal(t, float64(1), push["total"])
	assert.Len(t, push["success"], 1)
	assert.Equal(t, int32(1), hits.Load())

	// Revoking re-pushes to the remaining audience, not the revoked tenant
	require.NoError(t, repos.Module.AddAvailability(module.ID, second.ID))
	resp, body = adminRequest(t, app, http.MethodDelete,
		fmt.Sprintf("/modules/%d/availability", module.ID),
		map[string]interface{}{"tenant_id": first.ID})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	push = body["data"].(map[string]interface{})["push"].(map[string]interface{})
	assert.Equal(t, float64(1), push["total"])
	success := push["success"].([]interface{})
	require.Len(t, success, 1)
	assert.Equal(t, second.TenantKey, success[0].(map[string]interface{})["tenant_key"])
	assert.Equal(t, int32(2), hits.Load())
}

func TestTenantRegenerateKeyInvalidatesOldKey(t *testing.T) {
	repos, app := setupAdminFixture(t)
	tenant := adminSeedTenant(t, repos)
	oldKey := tenant.APIKey

	resp, body := adminRequest(t, app, http.MethodPost, fmt.Sprintf("/tenants/%d/regenerate-key", tenant.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	newKey := data["api_key"].(string)
	assert.NotEqual(t, oldKey, newKey)

	_, err := repos.Tenant.GetByAPIKey(oldKey)
	assert.Error(t, err)

	found, err := repos.Tenant.GetByAPIKey(newKey)
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, found.ID)
}

func TestTenantDeleteCascadesDependentRows(t *testing.T) {
	repos, app := setupAdminFixture(t)
	tenant := adminSeedTenant(t, repos)

	require.NoError(t, repos.ContentRecord.Create(&models.ContentRecord{
		Type: "job", TenantID: tenant.ID, OriginID: 1, Status: models.ContentStatusPublish,
	}))
	require.NoError(t, repos.SyncConfig.SavePushRecord(tenant.ID, tenant.CreatedAt))

	resp, _ := adminRequest(t, app, http.MethodDelete, fmt.Sprintf("/tenants/%d", tenant.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	count, err := repos.ContentRecord.CountPublished("job", tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	_, err = repos.SyncConfig.GetPushRecord(tenant.ID)
	assert.Error(t, err)
}

func TestTenantCreateStartsPendingWithKeys(t *testing.T) {
	repos, app := setupAdminFixture(t)

	user := testutil.CreateTestUser(t, repos, fmt.Sprintf("new%d@example.com", adminTestSeq))
	resp, body := adminRequest(t, app, http.MethodPost, "/tenants",
		map[string]interface{}{"user_id": user.ID})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, models.TenantStatusPendingSite, data["status"])
	assert.Contains(t, data["tenant_key"], "wpt_")
}
