package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wpthub/tenanthub/app/models"
)

// addonRepository implements the AddonRepository interface
type addonRepository struct {
	db *gorm.DB
}

// NewAddonRepository creates a new addon repository instance
func NewAddonRepository(db *gorm.DB) AddonRepository {
	return &addonRepository{db: db}
}

// Create creates a new addon in the database
func (r *addonRepository) Create(addon *models.Addon) error {
	return r.db.Create(addon).Error
}

// GetByID retrieves an addon by its ID
func (r *addonRepository) GetByID(id uint) (*models.Addon, error) {
	var addon models.Addon
	err := r.db.First(&addon, id).Error
	if err != nil {
		return nil, err
	}
	return &addon, nil
}

// GetBySlug retrieves an addon by its slug
func (r *addonRepository) GetBySlug(slug string) (*models.Addon, error) {
	var addon models.Addon
	err := r.db.Where("slug = ?", slug).First(&addon).Error
	if err != nil {
		return nil, err
	}
	return &addon, nil
}

// GetAll retrieves every addon
func (r *addonRepository) GetAll() ([]models.Addon, error) {
	var addons []models.Addon
	err := r.db.Order("slug ASC").Find(&addons).Error
	return addons, err
}

// GetActive retrieves all active addons
func (r *addonRepository) GetActive() ([]models.Addon, error) {
	var addons []models.Addon
	err := r.db.Where("is_active = ?", true).Order("slug ASC").Find(&addons).Error
	return addons, err
}

// Update updates an existing addon in the database
func (r *addonRepository) Update(addon *models.Addon) error {
	return r.db.Save(addon).Error
}

// Delete removes an addon by its ID
func (r *addonRepository) Delete(id uint) error {
	return r.db.Delete(&models.Addon{}, id).Error
}

// CountActiveTenantAddons returns how many tenants currently have the addon active
func (r *addonRepository) CountActiveTenantAddons(addonID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.TenantAddon{}).
		Where("addon_id = ? AND status = ?", addonID, models.AddonStatusActive).
		Count(&count).Error
	return count, err
}

// UpsertTenantAddon creates or updates the single (tenant, addon) row.
// The unique index closes the race between concurrent activations; a
// reactivation lands on the existing row instead of inserting a duplicate.
func (r *addonRepository) UpsertTenantAddon(ta *models.TenantAddon) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "tenant_id"},
			{Name: "addon_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"quantity",
			"status",
			"activated_at",
			"updated_at",
		}),
	}).Create(ta).Error; err != nil {
		return err
	}

	return r.db.Where("tenant_id = ? AND addon_id = ?", ta.TenantID, ta.AddonID).
		First(ta).Error
}

// GetTenantAddon retrieves the activation row for a (tenant, addon) pair
func (r *addonRepository) GetTenantAddon(tenantID, addonID uint) (*models.TenantAddon, error) {
	var ta models.TenantAddon
	err := r.db.Where("tenant_id = ? AND addon_id = ?", tenantID, addonID).First(&ta).Error
	if err != nil {
		return nil, err
	}
	return &ta, nil
}

// ListActiveByTenant retrieves all active tenant addons with their addon preloaded
func (r *addonRepository) ListActiveByTenant(tenantID uint) ([]models.TenantAddon, error) {
	var tas []models.TenantAddon
	err := r.db.Preload("Addon").
		Where("tenant_id = ? AND status = ?", tenantID, models.AddonStatusActive).
		Find(&tas).Error
	return tas, err
}
