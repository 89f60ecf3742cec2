package testutil

import (
	"testing"

	"github.com/wpthub/tenanthub/app/models"
	"github.com/wpthub/tenanthub/app/repository"
)

// CreateTestUser inserts a user with a hashed password
func CreateTestUser(t *testing.T, repos *repository.Repositories, email string) *models.User {
	t.Helper()

	user, err := models.CreateUser("Test User", email, "secret123")
	if err != nil {
		t.Fatalf("Failed to build test user: %v", err)
	}
	if err := repos.User.Create(user); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// CreateTestTenant inserts an active tenant with generated keys
func CreateTestTenant(t *testing.T, repos *repository.Repositories, userID uint, siteURL string) *models.Tenant {
	t.Helper()

	tenant, err := models.CreateTenant(userID, siteURL)
	if err != nil {
		t.Fatalf("Failed to build test tenant: %v", err)
	}
	tenant.Status = models.TenantStatusActive
	if err := repos.Tenant.Create(tenant); err != nil {
		t.Fatalf("Failed to create test tenant: %v", err)
	}
	return tenant
}

// CreateTestPlan inserts a plan with the given feature map
func CreateTestPlan(t *testing.T, repos *repository.Repositories, slug string, features map[string]interface{}) *models.Plan {
	t.Helper()

	plan := &models.Plan{
		Slug:          slug,
		Name:          slug,
		BillingPeriod: models.BillingPeriodMonthly,
		IsActive:      true,
	}
	if features != nil {
		if err := plan.SetFeatureMap(features); err != nil {
			t.Fatalf("Failed to set plan features: %v", err)
		}
	}
	if err := repos.Plan.Create(plan); err != nil {
		t.Fatalf("Failed to create test plan: %v", err)
	}
	return plan
}

// CreateTestModule inserts an active catalog module
func CreateTestModule(t *testing.T, repos *repository.Repositories, slug, title, mode string) *models.Module {
	t.Helper()

	module := &models.Module{
		Slug:             slug,
		Title:            title,
		AvailabilityMode: mode,
		IsActive:         true,
	}
	if err := repos.Module.Create(module); err != nil {
		t.Fatalf("Failed to create test module: %v", err)
	}
	return module
}
