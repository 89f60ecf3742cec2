package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/wpthub/tenanthub/app/models"
)

// aiTokenRepository implements the AITokenRepository interface
type aiTokenRepository struct {
	db *gorm.DB
}

// NewAITokenRepository creates a new AI token repository instance
func NewAITokenRepository(db *gorm.DB) AITokenRepository {
	return &aiTokenRepository{db: db}
}

// CreateLog stores one usage report
func (r *aiTokenRepository) CreateLog(entry *models.AITokenLog) error {
	return r.db.Create(entry).Error
}

// SumSince totals a tenant's reported tokens since the given time
func (r *aiTokenRepository) SumSince(tenantID uint, since time.Time) (int64, error) {
	var total int64
	err := r.db.Model(&models.AITokenLog{}).
		Where("tenant_id = ? AND created_at >= ?", tenantID, since).
		Select("COALESCE(SUM(tokens), 0)").
		Scan(&total).Error
	return total, err
}

// ListByTenant retrieves a paginated list of a tenant's usage reports
func (r *aiTokenRepository) ListByTenant(tenantID uint, offset, limit int) ([]models.AITokenLog, error) {
	var entries []models.AITokenLog
	err := r.db.Where("tenant_id = ?", tenantID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, err
}

// SumAllSince totals reported tokens across all tenants since the given time
func (r *aiTokenRepository) SumAllSince(since time.Time) (int64, error) {
	var total int64
	err := r.db.Model(&models.AITokenLog{}).
		Where("created_at >= ?", since).
		Select("COALESCE(SUM(tokens), 0)").
		Scan(&total).Error
	return total, err
}
