package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wpthub/tenanthub/app/models"
)

// syncConfigRepository implements the SyncConfigRepository interface
type syncConfigRepository struct {
	db *gorm.DB
}

// NewSyncConfigRepository creates a new sync configuration repository instance
func NewSyncConfigRepository(db *gorm.DB) SyncConfigRepository {
	return &syncConfigRepository{db: db}
}

// GetGlobal retrieves the global default configuration (tenant_id IS NULL)
func (r *syncConfigRepository) GetGlobal() (*models.SyncConfig, error) {
	var config models.SyncConfig
	err := r.db.Where("tenant_id IS NULL").First(&config).Error
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// GetByTenantID retrieves the per-tenant override configuration
func (r *syncConfigRepository) GetByTenantID(tenantID uint) (*models.SyncConfig, error) {
	var config models.SyncConfig
	err := r.db.Where("tenant_id = ?", tenantID).First(&config).Error
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// Save creates or updates a configuration row
func (r *syncConfigRepository) Save(config *models.SyncConfig) error {
	return r.db.Save(config).Error
}

// DeleteByTenantID removes a tenant's override, falling back to global
func (r *syncConfigRepository) DeleteByTenantID(tenantID uint) error {
	return r.db.Where("tenant_id = ?", tenantID).Delete(&models.SyncConfig{}).Error
}

// GetPushRecord retrieves the first-contact push record for a tenant
func (r *syncConfigRepository) GetPushRecord(tenantID uint) (*models.SyncPushRecord, error) {
	var record models.SyncPushRecord
	err := r.db.Where("tenant_id = ?", tenantID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// SavePushRecord stores the "pushed at least once" timestamp for a tenant
func (r *syncConfigRepository) SavePushRecord(tenantID uint, pushedAt time.Time) error {
	record := &models.SyncPushRecord{TenantID: tenantID, PushedAt: pushedAt}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"pushed_at"}),
	}).Create(record).Error
}

// DeletePushRecord clears the push record, re-arming the first-contact push
func (r *syncConfigRepository) DeletePushRecord(tenantID uint) error {
	return r.db.Where("tenant_id = ?", tenantID).Delete(&models.SyncPushRecord{}).Error
}
