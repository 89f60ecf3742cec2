package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wpthub/tenanthub/app/models"
)

// moduleRepository implements the ModuleRepository interface
type moduleRepository struct {
	db *gorm.DB
}

// NewModuleRepository creates a new module repository instance
func NewModuleRepository(db *gorm.DB) ModuleRepository {
	return &moduleRepository{db: db}
}

// Create creates a new module in the database
func (r *moduleRepository) Create(module *models.Module) error {
	return r.db.Create(module).Error
}

// GetByID retrieves a module by its ID
func (r *moduleRepository) GetByID(id uint) (*models.Module, error) {
	var module models.Module
	err := r.db.First(&module, id).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

// GetBySlug retrieves a module by its slug
func (r *moduleRepository) GetBySlug(slug string) (*models.Module, error) {
	var module models.Module
	err := r.db.Where("slug = ?", slug).First(&module).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

// GetAll retrieves every module
func (r *moduleRepository) GetAll() ([]models.Module, error) {
	var modules []models.Module
	err := r.db.Order("title ASC").Find(&modules).Error
	return modules, err
}

// GetActive retrieves all active modules
func (r *moduleRepository) GetActive() ([]models.Module, error) {
	var modules []models.Module
	err := r.db.Where("is_active = ?", true).Order("title ASC").Find(&modules).Error
	return modules, err
}

// Update updates an existing module in the database
func (r *moduleRepository) Update(module *models.Module) error {
	return r.db.Save(module).Error
}

// Delete removes a module and its per-tenant state
func (r *moduleRepository) Delete(id uint) error {
	r.db.Where("module_id = ?", id).Delete(&models.ModuleAvailability{})
	r.db.Where("module_id = ?", id).Delete(&models.TenantModule{})
	return r.db.Delete(&models.Module{}, id).Error
}

// CreateCategory creates a new module category
func (r *moduleRepository) CreateCategory(category *models.ModuleCategory) error {
	return r.db.Create(category).Error
}

// GetCategoryByID retrieves a module category by its ID
func (r *moduleRepository) GetCategoryByID(id uint) (*models.ModuleCategory, error) {
	var category models.ModuleCategory
	err := r.db.First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetCategories retrieves every module category
func (r *moduleRepository) GetCategories() ([]models.ModuleCategory, error) {
	var categories []models.ModuleCategory
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

// UpdateCategory updates an existing module category
func (r *moduleRepository) UpdateCategory(category *models.ModuleCategory) error {
	return r.db.Save(category).Error
}

// DeleteCategory removes a module category by its ID
func (r *moduleRepository) DeleteCategory(id uint) error {
	return r.db.Delete(&models.ModuleCategory{}, id).Error
}

// CountModulesInCategory returns how many modules reference a category
func (r *moduleRepository) CountModulesInCategory(categoryID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Module{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

// AddAvailability grants a tenant access to a specific_tenants module.
// Re-granting an existing pair is a no-op.
func (r *moduleRepository) AddAvailability(moduleID, tenantID uint) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ModuleAvailability{ModuleID: moduleID, TenantID: tenantID}).Error
}

// RemoveAvailability revokes a tenant's access to a module
func (r *moduleRepository) RemoveAvailability(moduleID, tenantID uint) error {
	return r.db.Where("module_id = ? AND tenant_id = ?", moduleID, tenantID).
		Delete(&models.ModuleAvailability{}).Error
}

// HasAvailability reports whether an availability row exists for the pair
func (r *moduleRepository) HasAvailability(moduleID, tenantID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.ModuleAvailability{}).
		Where("module_id = ? AND tenant_id = ?", moduleID, tenantID).
		Count(&count).Error
	return count > 0, err
}

// ListAvailabilityTenantIDs returns the tenant ids allowed to see a module
func (r *moduleRepository) ListAvailabilityTenantIDs(moduleID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.ModuleAvailability{}).
		Where("module_id = ?", moduleID).
		Pluck("tenant_id", &ids).Error
	return ids, err
}

// UpsertTenantModule creates or updates the single (tenant, module)
// activation row
func (r *moduleRepository) UpsertTenantModule(tm *models.TenantModule) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "tenant_id"},
			{Name: "module_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"status",
			"last_actor",
			"last_actor_at",
			"updated_at",
		}),
	}).Create(tm).Error; err != nil {
		return err
	}

	return r.db.Where("tenant_id = ? AND module_id = ?", tm.TenantID, tm.ModuleID).
		First(tm).Error
}

// GetTenantModule retrieves the activation row for a (tenant, module) pair
func (r *moduleRepository) GetTenantModule(tenantID, moduleID uint) (*models.TenantModule, error) {
	var tm models.TenantModule
	err := r.db.Where("tenant_id = ? AND module_id = ?", tenantID, moduleID).First(&tm).Error
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

// ListTenantModules retrieves all activation rows for a tenant
func (r *moduleRepository) ListTenantModules(tenantID uint) ([]models.TenantModule, error) {
	var tms []models.TenantModule
	err := r.db.Preload("Module").Where("tenant_id = ?", tenantID).Find(&tms).Error
	return tms, err
}

// ListActiveSlugsByTenant returns the slugs of modules currently active
// for a tenant
func (r *moduleRepository) ListActiveSlugsByTenant(tenantID uint) ([]string, error) {
	var slugs []string
	err := r.db.Model(&models.TenantModule{}).
		Joins("JOIN modules ON modules.id = tenant_modules.module_id").
		Where("tenant_modules.tenant_id = ? AND tenant_modules.status = ?", tenantID, models.ModuleStatusActive).
		Pluck("modules.slug", &slugs).Error
	return slugs, err
}
