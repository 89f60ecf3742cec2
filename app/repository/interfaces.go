package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/wpthub/tenanthub/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	Count() (int64, error)
}

// TenantRepository defines the interface for tenant-related database operations
type TenantRepository interface {
	Create(tenant *models.Tenant) error
	GetByID(id uint) (*models.Tenant, error)
	GetByTenantKey(key string) (*models.Tenant, error)
	GetByAPIKey(key string) (*models.Tenant, error)
	Update(tenant *models.Tenant) error
	Delete(id uint) error
	List(offset, limit int) ([]models.Tenant, error)
	ListAll() ([]models.Tenant, error)
	Count() (int64, error)
	CountActiveByPlan(planID uint) (int64, error)
}

// PlanRepository defines the interface for plan-related database operations
type PlanRepository interface {
	Create(plan *models.Plan) error
	GetByID(id uint) (*models.Plan, error)
	GetBySlug(slug string) (*models.Plan, error)
	GetAll() ([]models.Plan, error)
	GetActive() ([]models.Plan, error)
	Update(plan *models.Plan) error
	Delete(id uint) error
}

// FeatureMappingRepository defines the interface for feature mapping operations
type FeatureMappingRepository interface {
	Create(mapping *models.FeatureMapping) error
	GetByID(id uint) (*models.FeatureMapping, error)
	GetByKey(featureKey string) (*models.FeatureMapping, error)
	GetAll() ([]models.FeatureMapping, error)
	Update(mapping *models.FeatureMapping) error
	Delete(id uint) error
}

// AddonRepository defines the interface for addon and tenant-addon operations
type AddonRepository interface {
	Create(addon *models.Addon) error
	GetByID(id uint) (*models.Addon, error)
	GetBySlug(slug string) (*models.Addon, error)
	GetAll() ([]models.Addon, error)
	GetActive() ([]models.Addon, error)
	Update(addon *models.Addon) error
	Delete(id uint) error
	CountActiveTenantAddons(addonID uint) (int64, error)

	UpsertTenantAddon(ta *models.TenantAddon) error
	GetTenantAddon(tenantID, addonID uint) (*models.TenantAddon, error)
	ListActiveByTenant(tenantID uint) ([]models.TenantAddon, error)
}

// ModuleRepository defines the interface for module catalog, availability
// and activation-state operations
type ModuleRepository interface {
	Create(module *models.Module) error
	GetByID(id uint) (*models.Module, error)
	GetBySlug(slug string) (*models.Module, error)
	GetAll() ([]models.Module, error)
	GetActive() ([]models.Module, error)
	Update(module *models.Module) error
	Delete(id uint) error

	CreateCategory(category *models.ModuleCategory) error
	GetCategoryByID(id uint) (*models.ModuleCategory, error)
	GetCategories() ([]models.ModuleCategory, error)
	UpdateCategory(category *models.ModuleCategory) error
	DeleteCategory(id uint) error
	CountModulesInCategory(categoryID uint) (int64, error)

	AddAvailability(moduleID, tenantID uint) error
	RemoveAvailability(moduleID, tenantID uint) error
	HasAvailability(moduleID, tenantID uint) (bool, error)
	ListAvailabilityTenantIDs(moduleID uint) ([]uint, error)

	UpsertTenantModule(tm *models.TenantModule) error
	GetTenantModule(tenantID, moduleID uint) (*models.TenantModule, error)
	ListTenantModules(tenantID uint) ([]models.TenantModule, error)
	ListActiveSlugsByTenant(tenantID uint) ([]string, error)
}

// ContentDefRepository defines the interface for portable content-type,
// taxonomy and field-group definitions
type ContentDefRepository interface {
	CreateContentType(def *models.ContentTypeDef) error
	GetContentTypeBySlug(slug string) (*models.ContentTypeDef, error)
	GetContentTypesBySlugs(slugs []string) ([]models.ContentTypeDef, error)
	GetAllContentTypes() ([]models.ContentTypeDef, error)
	UpdateContentType(def *models.ContentTypeDef) error
	DeleteContentType(id uint) error

	CreateTaxonomy(def *models.TaxonomyDef) error
	GetTaxonomyBySlug(slug string) (*models.TaxonomyDef, error)
	GetTaxonomiesBySlugs(slugs []string) ([]models.TaxonomyDef, error)
	GetAllTaxonomies() ([]models.TaxonomyDef, error)
	UpdateTaxonomy(def *models.TaxonomyDef) error
	DeleteTaxonomy(id uint) error

	CreateFieldGroup(def *models.FieldGroupDef) error
	GetFieldGroupByKey(groupKey string) (*models.FieldGroupDef, error)
	GetAllFieldGroups() ([]models.FieldGroupDef, error)
	UpdateFieldGroup(def *models.FieldGroupDef) error
	DeleteFieldGroup(id uint) error
}

// SyncConfigRepository defines the interface for sync configuration and
// first-contact push records
type SyncConfigRepository interface {
	GetGlobal() (*models.SyncConfig, error)
	GetByTenantID(tenantID uint) (*models.SyncConfig, error)
	Save(config *models.SyncConfig) error
	DeleteByTenantID(tenantID uint) error

	GetPushRecord(tenantID uint) (*models.SyncPushRecord, error)
	SavePushRecord(tenantID uint, pushedAt time.Time) error
	DeletePushRecord(tenantID uint) error
}

// ContentRecordRepository defines the interface for mirrored content records
type ContentRecordRepository interface {
	Create(record *models.ContentRecord) error
	Update(record *models.ContentRecord) error
	FindByOrigin(contentType string, tenantID, originID uint) (*models.ContentRecord, error)
	DeleteByOrigin(contentType string, tenantID, originID uint) error
	GetByID(id uint) (*models.ContentRecord, error)
	ListByTenant(tenantID uint, offset, limit int) ([]models.ContentRecord, error)
	CountPublished(contentType string, tenantID uint) (int64, error)
	Count() (int64, error)
	DeleteByTenant(tenantID uint) error
}

// AITokenRepository defines the interface for AI token usage logging
type AITokenRepository interface {
	CreateLog(entry *models.AITokenLog) error
	SumSince(tenantID uint, since time.Time) (int64, error)
	ListByTenant(tenantID uint, offset, limit int) ([]models.AITokenLog, error)
	SumAllSince(since time.Time) (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User           UserRepository
	Tenant         TenantRepository
	Plan           PlanRepository
	FeatureMapping FeatureMappingRepository
	Addon          AddonRepository
	Module         ModuleRepository
	ContentDef     ContentDefRepository
	SyncConfig     SyncConfigRepository
	ContentRecord  ContentRecordRepository
	AIToken        AITokenRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:           NewUserRepository(db),
		Tenant:         NewTenantRepository(db),
		Plan:           NewPlanRepository(db),
		FeatureMapping: NewFeatureMappingRepository(db),
		Addon:          NewAddonRepository(db),
		Module:         NewModuleRepository(db),
		ContentDef:     NewContentDefRepository(db),
		SyncConfig:     NewSyncConfigRepository(db),
		ContentRecord:  NewContentRecordRepository(db),
		AIToken:        NewAITokenRepository(db),
	}
}
