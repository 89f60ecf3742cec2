package mirror

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wpthub/tenanthub/app/models"
	"github.com/wpthub/tenanthub/app/repository"
	"github.com/wpthub/tenanthub/internal/pkg/testutil"
)

func setupMirrorFixture(t *testing.T) (*repository.Repositories, *Protocol, *models.Tenant) {
	t.Helper()

	repos := testutil.SetupTestRepositories(t)
	protocol := NewProtocolFromRepositories(repos)
	user := testutil.CreateTestUser(t, repos, "owner@example.com")
	tenant := testutil.CreateTestTenant(t, repos, user.ID, "https://site.example.com")
	return repos, protocol, tenant
}

func TestUpsertCreatesRecord(t *testing.T) {
	_, protocol, tenant := setupMirrorFixture(t)

	record, created, err := protocol.Upsert(tenant, "job", IncomingPost{
		ID:      42,
		Title:   "Backend Engineer",
		Content: "<p>Join us</p>",
		Status:  models.ContentStatusPublish,
		ACFFields: map[string]interface{}{
			"salary": 90000,
		},
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, uint(42), record.OriginID)
	assert.Equal(t, tenant.UserID, record.AuthorID)
	assert.Equal(t, "Backend Engineer", record.Title)
}

func TestUpsertIsIdempotentPerOrigin(t *testing.T) {
	repos, protocol, tenant := setupMirrorFixture(t)

	first, created, err := protocol.Upsert(tenant, "job", IncomingPost{ID: 42, Title: "v1"})
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := protocol.Upsert(tenant, "job", IncomingPost{ID: 42, Title: "v2"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "v2", second.Title)

	count, err := repos.ContentRecord.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUpsertSameOriginDifferentTenants(t *testing.T) {
	repos, protocol, tenant := setupMirrorFixture(t)

	other := testutil.CreateTestTenant(t, repos, tenant.UserID, "https://other.example.com")

	_, created, err := protocol.Upsert(tenant, "job", IncomingPost{ID: 42, Title: "Mine"})
	require.NoError(t, err)
	require.True(t, created)

	_, created, err = protocol.Upsert(other, "job", IncomingPost{ID: 42, Title: "Theirs"})
	require.NoError(t, err)
	assert.True(t, created)
}

func TestUpsertDefaultsStatusToPublish(t *testing.T) {
	_, protocol, tenant := setupMirrorFixture(t)

	record, _, err := protocol.Upsert(tenant, "job", IncomingPost{ID: 1, Title: "No status"})
	require.NoError(t, err)
	assert.Equal(t, models.ContentStatusPublish, record.Status)
}

func TestUpsertRequiresOriginID(t *testing.T) {
	_, protocol, tenant := setupMirrorFixture(t)

	_, _, err := protocol.Upsert(tenant, "job", IncomingPost{Title: "No origin"})
	assert.ErrorIs(t, err, ErrMissingOriginID)
}

func TestDeleteRemovesRecord(t *testing.T) {
	repos, protocol, tenant := setupMirrorFixture(t)

	_, _, err := protocol.Upsert(tenant, "job", IncomingPost{ID: 42, Title: "Doomed"})
	require.NoError(t, err)

	require.NoError(t, protocol.Delete(tenant, "job", 42))

	count, err := repos.ContentRecord.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestDeleteUnknownOrigin(t *testing.T) {
	_, protocol, tenant := setupMirrorFixture(t)

	err := protocol.Delete(tenant, "job", 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
