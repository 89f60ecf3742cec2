package repository

import (
	"gorm.io/gorm"

	"github.com/wpthub/tenanthub/app/models"
)

// featureMappingRepository implements the FeatureMappingRepository interface
type featureMappingRepository struct {
	db *gorm.DB
}

// NewFeatureMappingRepository creates a new feature mapping repository instance
func NewFeatureMappingRepository(db *gorm.DB) FeatureMappingRepository {
	return &featureMappingRepository{db: db}
}

// Create creates a new feature mapping in the database
func (r *featureMappingRepository) Create(mapping *models.FeatureMapping) error {
	return r.db.Create(mapping).Error
}

// GetByID retrieves a feature mapping by its ID
func (r *featureMappingRepository) GetByID(id uint) (*models.FeatureMapping, error) {
	var mapping models.FeatureMapping
	err := r.db.First(&mapping, id).Error
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

// GetByKey retrieves a feature mapping by its feature key
func (r *featureMappingRepository) GetByKey(featureKey string) (*models.FeatureMapping, error) {
	var mapping models.FeatureMapping
	err := r.db.Where("feature_key = ?", featureKey).First(&mapping).Error
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

// GetAll retrieves every feature mapping
func (r *featureMappingRepository) GetAll() ([]models.FeatureMapping, error) {
	var mappings []models.FeatureMapping
	err := r.db.Order("feature_key ASC").Find(&mappings).Error
	return mappings, err
}

// Update updates an existing feature mapping in the database
func (r *featureMappingRepository) Update(mapping *models.FeatureMapping) error {
	return r.db.Save(mapping).Error
}

// Delete removes a feature mapping by its ID
func (r *featureMappingRepository) Delete(id uint) error {
	return r.db.Delete(&models.FeatureMapping{}, id).Error
}
