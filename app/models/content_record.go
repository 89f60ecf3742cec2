package models

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

const (
	ContentStatusPublish = "publish"
	ContentStatusDraft   = "draft"
)

// ContentRecord is a HUB-side mirror of a content item authored on a
// tenant site. The (Type, TenantID, OriginID) triple identifies at most
// one mirror; repeated syncs with the same triple update in place.
type ContentRecord struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Type             string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_mirror_origin,priority:1" json:"type" validate:"required,max=100"`
	TenantID         uint           `gorm:"not null;uniqueIndex:idx_mirror_origin,priority:2" json:"tenant_id"`
	OriginID         uint           `gorm:"not null;uniqueIndex:idx_mirror_origin,priority:3" json:"origin_id"`
	Title            string         `gorm:"type:varchar(255)" json:"title" validate:"max=255"`
	Body             string         `gorm:"type:longtext" json:"body"`
	Excerpt          string         `gorm:"type:text" json:"excerpt"`
	Status           string         `gorm:"type:varchar(30);default:'publish'" json:"status"`
	AuthorID         uint           `gorm:"index" json:"author_id"`
	FeaturedImageURL string         `gorm:"type:varchar(255)" json:"featured_image_url" validate:"max=255"`
	Fields           datatypes.JSON `gorm:"type:json" json:"fields"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *ContentRecord) Validate() error {
	v := validator.New()

	return v.Struct(r)
}

// FieldMap decodes the attached structured-field values
func (r *ContentRecord) FieldMap() map[string]interface{} {
	out := map[string]interface{}{}
	if len(r.Fields) == 0 {
		return out
	}
	if err := json.Unmarshal(r.Fields, &out); err != nil {
		return map[string]interface{}{}
	}
	return out
}

// SetFieldMap encodes and stores the structured-field values
func (r *ContentRecord) SetFieldMap(fields map[string]interface{}) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	r.Fields = datatypes.JSON(raw)
	return nil
}

// IsPublished reports whether the record counts toward published quotas
func (r *ContentRecord) IsPublished() bool {
	return r.Status == ContentStatusPublish
}
