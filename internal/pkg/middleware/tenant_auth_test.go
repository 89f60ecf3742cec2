package middleware

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wpthub/tenanthub/app/models"
	"github.com/wpthub/tenanthub/app/repository"
	"github.com/wpthub/tenanthub/internal/pkg/tenantcontext"
	"github.com/wpthub/tenanthub/internal/pkg/testutil"
)

var (
	authTestOnce  sync.Once
	authTestRepos *repository.Repositories
	authTestSeq   int
)

// The middleware reads from the global factory, which initializes once
// per process, so every test in this package shares one database.
func setupAuthFixture(t *testing.T) (*repository.Repositories, *models.Tenant) {
	t.Helper()

	authTestOnce.Do(func() {
		db := testutil.SetupTestDB(t)
		repository.InitializeFactory(db)
		authTestRepos = repository.GetGlobalRepositories()
	})

	authTestSeq++
	user := testutil.CreateTestUser(t, authTestRepos, fmt.Sprintf("owner%d@example.com", authTestSeq))
	tenant := testutil.CreateTestTenant(t, authTestRepos, user.ID, "https://site.example.com")
	return authTestRepos, tenant
}

func newAuthTestApp(handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/protected", handler, func(c *fiber.Ctx) error {
		tc := tenantcontext.Get(c)
		return c.JSON(fiber.Map{"tenant_key": tc.TenantKey})
	})
	return app
}

func TestTenantAuthAcceptsValidKey(t *testing.T) {
	_, tenant := setupAuthFixture(t)
	app := newAuthTestApp(TenantAuthMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(HeaderAPIKey, tenant.APIKey)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), tenant.TenantKey)
}

func TestTenantAuthRejectsMissingKey(t *testing.T) {
	setupAuthFixture(t)
	app := newAuthTestApp(TenantAuthMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// A nonexistent key and a suspended tenant's valid key must produce
// byte-identical responses, otherwise tenant status can be probed.
func TestTenantAuthUniformUnauthorizedBody(t *testing.T) {
	repos, tenant := setupAuthFixture(t)
	app := newAuthTestApp(TenantAuthMiddleware())

	unknownReq := httptest.NewRequest(http.MethodGet, "/protected", nil)
	unknownReq.Header.Set(HeaderAPIKey, "wpk_does_not_exist")
	unknownResp, err := app.Test(unknownReq, -1)
	require.NoError(t, err)
	unknownBody, _ := io.ReadAll(unknownResp.Body)

	tenant.Status = models.TenantStatusSuspended
	require.NoError(t, repos.Tenant.Update(tenant))

	suspendedReq := httptest.NewRequest(http.MethodGet, "/protected", nil)
	suspendedReq.Header.Set(HeaderAPIKey, tenant.APIKey)
	suspendedResp, err := app.Test(suspendedReq, -1)
	require.NoError(t, err)
	suspendedBody, _ := io.ReadAll(suspendedResp.Body)

	assert.Equal(t, http.StatusUnauthorized, unknownResp.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, suspendedResp.StatusCode)
	assert.Equal(t, string(unknownBody), string(suspendedBody))
	assert.Contains(t, string(unknownBody), "Invalid API credentials")
}

func TestTenantAuthRejectsPendingTenant(t *testing.T) {
	repos, tenant := setupAuthFixture(t)
	app := newAuthTestApp(TenantAuthMiddleware())

	tenant.Status = models.TenantStatusPendingSite
	require.NoError(t, repos.Tenant.Update(tenant))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(HeaderAPIKey, tenant.APIKey)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPairAuthRequiresMatchingTenantKey(t *testing.T) {
	_, tenant := setupAuthFixture(t)
	app := newAuthTestApp(TenantPairAuthMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(HeaderAPIKey, tenant.APIKey)
	req.Header.Set(HeaderTenantKey, "wpt_someone_else")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(HeaderAPIKey, tenant.APIKey)
	req.Header.Set(HeaderTenantKey, tenant.TenantKey)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
