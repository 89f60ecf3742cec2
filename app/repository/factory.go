package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetTenantRepository returns the tenant repository instance
func (f *Factory) GetTenantRepository() TenantRepository {
	return f.GetRepositories().Tenant
}

// GetPlanRepository returns the plan repository instance
func (f *Factory) GetPlanRepository() PlanRepository {
	return f.GetRepositories().Plan
}

// GetFeatureMappingRepository returns the feature mapping repository instance
func (f *Factory) GetFeatureMappingRepository() FeatureMappingRepository {
	return f.GetRepositories().FeatureMapping
}

// GetAddonRepository returns the addon repository instance
func (f *Factory) GetAddonRepository() AddonRepository {
	return f.GetRepositories().Addon
}

// GetModuleRepository returns the module repository instance
func (f *Factory) GetModuleRepository() ModuleRepository {
	return f.GetRepositories().Module
}

// GetContentDefRepository returns the content definition repository instance
func (f *Factory) GetContentDefRepository() ContentDefRepository {
	return f.GetRepositories().ContentDef
}

// GetSyncConfigRepository returns the sync configuration repository instance
func (f *Factory) GetSyncConfigRepository() SyncConfigRepository {
	return f.GetRepositories().SyncConfig
}

// GetContentRecordRepository returns the content record repository instance
func (f *Factory) GetContentRecordRepository() ContentRecordRepository {
	return f.GetRepositories().ContentRecord
}

// GetAITokenRepository returns the AI token repository instance
func (f *Factory) GetAITokenRepository() AITokenRepository {
	return f.GetRepositories().AIToken
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
