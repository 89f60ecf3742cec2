package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	FeatureTypePostType   = "post_type"
	FeatureTypeTaxonomy   = "taxonomy"
	FeatureTypeCapability = "capability"
	FeatureTypeBoolean    = "boolean"
	FeatureTypeNumeric    = "numeric"
)

// FeatureMapping declares the meaning of a feature_key used inside
// plan/addon feature JSON: what kind of resource the key refers to and
// whether its value is a countable quota. Keys without a mapping are
// accepted but resolved as unmapped (raw value passthrough).
type FeatureMapping struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	FeatureKey       string    `gorm:"uniqueIndex;type:varchar(100);not null" json:"feature_key" validate:"required,min=2,max=100"`
	Name             string    `gorm:"type:varchar(150);not null" json:"name" validate:"required,max=150"`
	Type             string    `gorm:"type:varchar(30);not null" json:"type" validate:"oneof=post_type taxonomy capability boolean numeric"`
	TargetIdentifier string    `gorm:"type:varchar(100);default:null" json:"target_identifier" validate:"max=100"`
	IsQuota          bool      `gorm:"default:false" json:"is_quota"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (m *FeatureMapping) Validate() error {
	v := validator.New()

	return v.Struct(m)
}
