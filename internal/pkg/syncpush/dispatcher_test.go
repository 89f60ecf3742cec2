package syncpush

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wpthub/tenanthub/app/models"
	"github.com/wpthub/tenanthub/app/repository"
	"github.com/wpthub/tenanthub/internal/pkg/testutil"
)

func setupDispatcherFixture(t *testing.T) (*repository.Repositories, *Dispatcher, *models.Tenant) {
	t.Helper()

	repos := testutil.SetupTestRepositories(t)
	dispatcher := NewDispatcherFromRepositories(repos)
	user := testutil.CreateTestUser(t, repos, "owner@example.com")
	tenant := testutil.CreateTestTenant(t, repos, user.ID, "")
	return repos, dispatcher, tenant
}

// newTenantSite is a stub tenant endpoint that records received payloads
func newTenantSite(t *testing.T, status int, hits *atomic.Int32, lastBody *[]byte) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		if lastBody != nil {
			raw, _ := io.ReadAll(r.Body)
			*lastBody = raw
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
}

func seedGlobalConfig(t *testing.T, repos *repository.Repositories, postTypes []string, fieldGroups map[string][]string) {
	t.Helper()

	config := &models.SyncConfig{}
	require.NoError(t, config.SetSelection(postTypes, nil, fieldGroups))
	require.NoError(t, repos.SyncConfig.Save(config))
}

func TestEffectiveConfigPrefersTenantOverride(t *testing.T) {
	repos, dispatcher, tenant := setupDispatcherFixture(t)

	seedGlobalConfig(t, repos, []string{"job"}, nil)

	override := &models.SyncConfig{TenantID: &tenant.ID}
	require.NoError(t, override.SetSelection([]string{"event"}, nil, nil))
	require.NoError(t, repos.SyncConfig.Save(override))

	config, err := dispatcher.EffectiveConfig(tenant.ID)
	require.NoError(t, err)
	assert.False(t, config.IsGlobal())
	assert.Equal(t, []string{"event"}, config.PostTypeSlugs())
}

func TestEffectiveConfigFallsBackToGlobal(t *testing.T) {
	repos, dispatcher, tenant := setupDispatcherFixture(t)

	seedGlobalConfig(t, repos, []string{"job"}, nil)

	config, err := dispatcher.EffectiveConfig(tenant.ID)
	require.NoError(t, err)
	assert.True(t, config.IsGlobal())
}

func TestEffectiveConfigWithoutAnyConfig(t *testing.T) {
	_, dispatcher, tenant := setupDispatcherFixture(t)

	_, err := dispatcher.EffectiveConfig(tenant.ID)
	assert.ErrorIs(t, err, ErrNoConfig)
}

func TestPushConfigRequiresSiteURL(t *testing.T) {
	repos, dispatcher, tenant := setupDispatcherFixture(t)

	seedGlobalConfig(t, repos, []string{"job"}, nil)

	err := dispatcher.PushConfig(context.Background(), tenant)
	assert.ErrorIs(t, err, ErrNoSiteURL)
}

func TestPushConfigDeliversPayloadWithAuthHeaders(t *testing.T) {
	repos, dispatcher, tenant := setupDispatcherFixture(t)

	require.NoError(t, repos.ContentDef.CreateContentType(&models.ContentTypeDef{
		Slug: "job", Label: "Jobs", Public: true,
	}))
	group := &models.FieldGroupDef{GroupKey: "group_jobs", Title: "Job Fields"}
	require.NoError(t, group.SetFieldList([]models.FieldDef{
		{Key: "field_salary", Label: "Salary", Name: "salary", Type: "number"},
		{Key: "field_remote", Label: "Remote", Name: "remote", Type: "true_false"},
	}))
	require.NoError(t, repos.ContentDef.CreateFieldGroup(group))

	// Empty selection for the group means every field known at push time
	seedGlobalConfig(t, repos, []string{"job"}, map[string][]string{"group_jobs": {}})

	var gotHeaders http.Header
	var body []byte
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		body, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer site.Close()

	tenant.SiteURL = site.URL
	require.NoError(t, repos.Tenant.Update(tenant))
	dispatcher.SetHTTPClient(site.Client())

	require.NoError(t, dispatcher.PushConfig(context.Background(), tenant))

	assert.Equal(t, tenant.TenantKey, gotHeaders.Get("X-WPT-Tenant-Key"))
	assert.NotEmpty(t, gotHeaders.Get("X-WPT-API-Key"))

	var payload Payload
	require.NoError(t, json.Unmarshal(body, &payload))
	require.Len(t, payload.CPTs, 1)
	assert.Equal(t, "job", payload.CPTs[0].Slug)
	require.Len(t, payload.ACFJSON, 1)
	assert.Len(t, payload.ACFJSON[0].Fields, 2)
	assert.ElementsMatch(t, []string{"field_salary", "field_remote"}, payload.FieldMappings["group_jobs"])
}

func TestPushConfigSelectsFieldSubset(t *testing.T) {
	repos, dispatcher, tenant := setupDispatcherFixture(t)

	group := &models.FieldGroupDef{GroupKey: "group_jobs", Title: "Job Fields"}
	require.NoError(t, group.SetFieldList([]models.FieldDef{
		{Key: "field_salary", Label: "Salary", Name: "salary", Type: "number"},
		{Key: "field_remote", Label: "Remote", Name: "remote", Type: "true_false"},
	}))
	require.NoError(t, repos.ContentDef.CreateFieldGroup(group))

	seedGlobalConfig(t, repos, nil, map[string][]string{"group_jobs": {"field_salary"}})

	var body []byte
	site := newTenantSite(t, http.StatusOK, nil, &body)
	defer site.Close()

	tenant.SiteURL = site.URL
	require.NoError(t, repos.Tenant.Update(tenant))
	dispatcher.SetHTTPClient(site.Client())

	require.NoError(t, dispatcher.PushConfig(context.Background(), tenant))

	var payload Payload
	require.NoError(t, json.Unmarshal(body, &payload))
	require.Len(t, payload.ACFJSON, 1)
	require.Len(t, payload.ACFJSON[0].Fields, 1)
	assert.Equal(t, "field_salary", payload.ACFJSON[0].Fields[0].Key)
}

func TestPushConfigFailsOnNon2xx(t *testing.T) {
	repos, dispatcher, tenant := setupDispatcherFixture(t)

	seedGlobalConfig(t, repos, []string{"job"}, nil)

	site := newTenantSite(t, http.StatusInternalServerError, nil, nil)
	defer site.Close()

	tenant.SiteURL = site.URL
	require.NoError(t, repos.Tenant.Update(tenant))
	dispatcher.SetHTTPClient(site.Client())

	err := dispatcher.PushConfig(context.Background(), tenant)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestEnsureFirstContactPushesExactlyOnce(t *testing.T) {
	repos, dispatcher, tenant := setupDispatcherFixture(t)

	seedGlobalConfig(t, repos, []string{"job"}, nil)

	var hits atomic.Int32
	site := newTenantSite(t, http.StatusOK, &hits, nil)
	defer site.Close()

	tenant.SiteURL = site.URL
	require.NoError(t, repos.Tenant.Update(tenant))
	dispatcher.SetHTTPClient(site.Client())

	dispatcher.EnsureFirstContact(context.Background(), tenant)
	dispatcher.EnsureFirstContact(context.Background(), tenant)

	assert.Equal(t, int32(1), hits.Load())

	record, err := repos.SyncConfig.GetPushRecord(tenant.ID)
	require.NoError(t, err)
	assert.False(t, record.PushedAt.IsZero())
}

func TestEnsureFirstContactRecordsFailedAttempt(t *testing.T) {
	repos, dispatcher, tenant := setupDispatcherFixture(t)

	seedGlobalConfig(t, repos, []string{"job"}, nil)

	var hits atomic.Int32
	site := newTenantSite(t, http.StatusInternalServerError, &hits, nil)
	defer site.Close()

	tenant.SiteURL = site.URL
	require.NoError(t, repos.Tenant.Update(tenant))
	dispatcher.SetHTTPClient(site.Client())

	dispatcher.EnsureFirstContact(context.Background(), tenant)
	dispatcher.EnsureFirstContact(context.Background(), tenant)

	// The failed attempt is recorded; there is no automatic retry
	assert.Equal(t, int32(1), hits.Load())
	_, err := repos.SyncConfig.GetPushRecord(tenant.ID)
	require.NoError(t, err)
}

func TestPushModuleToTenantsPartialFailure(t *testing.T) {
	repos, dispatcher, tenant := setupDispatcherFixture(t)

	site := newTenantSite(t, http.StatusOK, nil, nil)
	defer site.Close()

	tenant.SiteURL = site.URL
	require.NoError(t, repos.Tenant.Update(tenant))

	reachable2 := testutil.CreateTestTenant(t, repos, tenant.UserID, site.URL)
	unreachable := testutil.CreateTestTenant(t, repos, tenant.UserID, "")

	dispatcher.SetHTTPClient(site.Client())

	module := testutil.CreateTestModule(t, repos, "career", "Career Portal", models.AvailabilityAllTenants)
	result := dispatcher.PushModuleToTenants(context.Background(), module,
		[]models.Tenant{*tenant, *reachable2, *unreachable})

	assert.Equal(t, 3, result.Total)
	assert.Len(t, result.Success, 2)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, unreachable.ID, result.Failed[0].TenantID)
	assert.Equal(t, ErrNoSiteURL.Error(), result.Failed[0].Error)
}
