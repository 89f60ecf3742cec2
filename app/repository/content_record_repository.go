package repository

import (
	"gorm.io/gorm"

	"github.com/wpthub/tenanthub/app/models"
)

// contentRecordRepository implements the ContentRecordRepository interface
type contentRecordRepository struct {
	db *gorm.DB
}

// NewContentRecordRepository creates a new content record repository instance
func NewContentRecordRepository(db *gorm.DB) ContentRecordRepository {
	return &contentRecordRepository{db: db}
}

// Create creates a new mirrored content record
func (r *contentRecordRepository) Create(record *models.ContentRecord) error {
	return r.db.Create(record).Error
}

// Update updates an existing mirrored content record
func (r *contentRecordRepository) Update(record *models.ContentRecord) error {
	return r.db.Save(record).Error
}

// FindByOrigin locates the single mirror for a (type, tenant, origin) triple
func (r *contentRecordRepository) FindByOrigin(contentType string, tenantID, originID uint) (*models.ContentRecord, error) {
	var record models.ContentRecord
	err := r.db.Where("type = ? AND tenant_id = ? AND origin_id = ?", contentType, tenantID, originID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteByOrigin hard-deletes the mirror for a (type, tenant, origin) triple
func (r *contentRecordRepository) DeleteByOrigin(contentType string, tenantID, originID uint) error {
	return r.db.Unscoped().
		Where("type = ? AND tenant_id = ? AND origin_id = ?", contentType, tenantID, originID).
		Delete(&models.ContentRecord{}).Error
}

// GetByID retrieves a mirrored content record by its HUB-side ID
func (r *contentRecordRepository) GetByID(id uint) (*models.ContentRecord, error) {
	var record models.ContentRecord
	err := r.db.First(&record, id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByTenant retrieves a paginated list of a tenant's mirrored records
func (r *contentRecordRepository) ListByTenant(tenantID uint, offset, limit int) ([]models.ContentRecord, error) {
	var records []models.ContentRecord
	err := r.db.Where("tenant_id = ?", tenantID).
		Order("updated_at DESC").Offset(offset).Limit(limit).Find(&records).Error
	return records, err
}

// CountPublished counts a tenant's published records of one content type.
// Quota checks count live rows rather than a denormalized counter.
func (r *contentRecordRepository) CountPublished(contentType string, tenantID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.ContentRecord{}).
		Where("type = ? AND tenant_id = ? AND status = ?", contentType, tenantID, models.ContentStatusPublish).
		Count(&count).Error
	return count, err
}

// Count returns the total number of mirrored records
func (r *contentRecordRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.ContentRecord{}).Count(&count).Error
	return count, err
}

// DeleteByTenant removes every mirror belonging to a tenant
func (r *contentRecordRepository) DeleteByTenant(tenantID uint) error {
	return r.db.Unscoped().Where("tenant_id = ?", tenantID).Delete(&models.ContentRecord{}).Error
}
