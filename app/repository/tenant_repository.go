package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/wpthub/tenanthub/app/models"
)

// tenantRepository implements the TenantRepository interface
type tenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a new tenant repository instance
func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{db: db}
}

// Create creates a new tenant in the database
func (r *tenantRepository) Create(tenant *models.Tenant) error {
	return r.db.Create(tenant).Error
}

// GetByID retrieves a tenant by its ID
func (r *tenantRepository) GetByID(id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.First(&tenant, id).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// GetByTenantKey retrieves a tenant by its public tenant key
func (r *tenantRepository) GetByTenantKey(key string) (*models.Tenant, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var tenant models.Tenant
	err := r.db.Where("tenant_key = ?", trimmed).First(&tenant).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// GetByAPIKey resolves an API secret to its tenant
func (r *tenantRepository) GetByAPIKey(key string) (*models.Tenant, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var tenant models.Tenant
	err := r.db.Where("api_key = ?", trimmed).First(&tenant).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// Update updates an existing tenant in the database
func (r *tenantRepository) Update(tenant *models.Tenant) error {
	return r.db.Save(tenant).Error
}

// Delete removes a tenant and cascade-deletes its dependents. Mirrored
// content referencing the tenant is removed first so no orphaned mirrors
// survive the tenant.
func (r *tenantRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		dependents := []interface{}{
			&models.TenantAddon{},
			&models.TenantModule{},
			&models.ModuleAvailability{},
			&models.SyncConfig{},
			&models.SyncPushRecord{},
			&models.ContentRecord{},
			&models.AITokenLog{},
		}
		for _, dependent := range dependents {
			if err := tx.Where("tenant_id = ?", id).Delete(dependent).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Tenant{}, id).Error
	})
}

// List retrieves a paginated list of tenants
func (r *tenantRepository) List(offset, limit int) ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&tenants).Error
	return tenants, err
}

// ListAll retrieves every tenant
func (r *tenantRepository) ListAll() ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := r.db.Order("id ASC").Find(&tenants).Error
	return tenants, err
}

// Count returns the total number of tenants
func (r *tenantRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Tenant{}).Count(&count).Error
	return count, err
}

// CountActiveByPlan returns how many active tenants reference a plan
func (r *tenantRepository) CountActiveByPlan(planID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Tenant{}).
		Where("plan_id = ? AND status = ?", planID, models.TenantStatusActive).
		Count(&count).Error
	return count, err
}
