package repository

import (
	"gorm.io/gorm"

	"github.com/wpthub/tenanthub/app/models"
)

// contentDefRepository implements the ContentDefRepository interface
type contentDefRepository struct {
	db *gorm.DB
}

// NewContentDefRepository creates a new content definition repository instance
func NewContentDefRepository(db *gorm.DB) ContentDefRepository {
	return &contentDefRepository{db: db}
}

// CreateContentType creates a new content type definition
func (r *contentDefRepository) CreateContentType(def *models.ContentTypeDef) error {
	return r.db.Create(def).Error
}

// GetContentTypeBySlug retrieves a content type definition by slug
func (r *contentDefRepository) GetContentTypeBySlug(slug string) (*models.ContentTypeDef, error) {
	var def models.ContentTypeDef
	err := r.db.Where("slug = ?", slug).First(&def).Error
	if err != nil {
		return nil, err
	}
	return &def, nil
}

// GetContentTypesBySlugs retrieves the content type definitions for a slug set
func (r *contentDefRepository) GetContentTypesBySlugs(slugs []string) ([]models.ContentTypeDef, error) {
	var defs []models.ContentTypeDef
	if len(slugs) == 0 {
		return defs, nil
	}
	err := r.db.Where("slug IN ?", slugs).Order("slug ASC").Find(&defs).Error
	return defs, err
}

// GetAllContentTypes retrieves every content type definition
func (r *contentDefRepository) GetAllContentTypes() ([]models.ContentTypeDef, error) {
	var defs []models.ContentTypeDef
	err := r.db.Order("slug ASC").Find(&defs).Error
	return defs, err
}

// UpdateContentType updates an existing content type definition
func (r *contentDefRepository) UpdateContentType(def *models.ContentTypeDef) error {
	return r.db.Save(def).Error
}

// DeleteContentType removes a content type definition by its ID
func (r *contentDefRepository) DeleteContentType(id uint) error {
	return r.db.Delete(&models.ContentTypeDef{}, id).Error
}

// CreateTaxonomy creates a new taxonomy definition
func (r *contentDefRepository) CreateTaxonomy(def *models.TaxonomyDef) error {
	return r.db.Create(def).Error
}

// GetTaxonomyBySlug retrieves a taxonomy definition by slug
func (r *contentDefRepository) GetTaxonomyBySlug(slug string) (*models.TaxonomyDef, error) {
	var def models.TaxonomyDef
	err := r.db.Where("slug = ?", slug).First(&def).Error
	if err != nil {
		return nil, err
	}
	return &def, nil
}

// GetTaxonomiesBySlugs retrieves the taxonomy definitions for a slug set
func (r *contentDefRepository) GetTaxonomiesBySlugs(slugs []string) ([]models.TaxonomyDef, error) {
	var defs []models.TaxonomyDef
	if len(slugs) == 0 {
		return defs, nil
	}
	err := r.db.Where("slug IN ?", slugs).Order("slug ASC").Find(&defs).Error
	return defs, err
}

// GetAllTaxonomies retrieves every taxonomy definition
func (r *contentDefRepository) GetAllTaxonomies() ([]models.TaxonomyDef, error) {
	var defs []models.TaxonomyDef
	err := r.db.Order("slug ASC").Find(&defs).Error
	return defs, err
}

// UpdateTaxonomy updates an existing taxonomy definition
func (r *contentDefRepository) UpdateTaxonomy(def *models.TaxonomyDef) error {
	return r.db.Save(def).Error
}

// DeleteTaxonomy removes a taxonomy definition by its ID
func (r *contentDefRepository) DeleteTaxonomy(id uint) error {
	return r.db.Delete(&models.TaxonomyDef{}, id).Error
}

// CreateFieldGroup creates a new field group definition
func (r *contentDefRepository) CreateFieldGroup(def *models.FieldGroupDef) error {
	return r.db.Create(def).Error
}

// GetFieldGroupByKey retrieves a field group definition by its group key
func (r *contentDefRepository) GetFieldGroupByKey(groupKey string) (*models.FieldGroupDef, error) {
	var def models.FieldGroupDef
	err := r.db.Where("group_key = ?", groupKey).First(&def).Error
	if err != nil {
		return nil, err
	}
	return &def, nil
}

// GetAllFieldGroups retrieves every field group definition
func (r *contentDefRepository) GetAllFieldGroups() ([]models.FieldGroupDef, error) {
	var defs []models.FieldGroupDef
	err := r.db.Order("group_key ASC").Find(&defs).Error
	return defs, err
}

// UpdateFieldGroup updates an existing field group definition
func (r *contentDefRepository) UpdateFieldGroup(def *models.FieldGroupDef) error {
	return r.db.Save(def).Error
}

// DeleteFieldGroup removes a field group definition by its ID
func (r *contentDefRepository) DeleteFieldGroup(id uint) error {
	return r.db.Delete(&models.FieldGroupDef{}, id).Error
}
