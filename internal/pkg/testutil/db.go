package testutil

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wpthub/tenanthub/app/models"
	"github.com/wpthub/tenanthub/app/repository"
)

// SetupTestDB creates an in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Tenant{},
		&models.Plan{},
		&models.FeatureMapping{},
		&models.Addon{},
		&models.TenantAddon{},
		&models.Module{},
		&models.ModuleCategory{},
		&models.ModuleAvailability{},
		&models.TenantModule{},
		&models.ContentTypeDef{},
		&models.TaxonomyDef{},
		&models.FieldGroupDef{},
		&models.SyncConfig{},
		&models.SyncPushRecord{},
		&models.ContentRecord{},
		&models.AITokenLog{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// SetupTestRepositories creates a repository bundle over a fresh test database
func SetupTestRepositories(t *testing.T) *repository.Repositories {
	t.Helper()
	return repository.NewRepositories(SetupTestDB(t))
}
