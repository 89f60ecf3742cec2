package models

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

const (
	BillingPeriodMonthly = "monthly"
	BillingPeriodYearly  = "yearly"

	// UnlimitedQuota is the sentinel plan value meaning "no limit".
	UnlimitedQuota = 999
)

// Plan is a subscription tier. Features holds an arbitrary
// feature_key -> value map whose meaning is declared by FeatureMapping rows.
type Plan struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Slug          string         `gorm:"uniqueIndex;type:varchar(100);not null" json:"slug" validate:"required,min=2,max=100"`
	Name          string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Price         float64        `gorm:"type:decimal(10,2);default:0" json:"price" validate:"gte=0"`
	BillingPeriod string         `gorm:"type:varchar(20);default:'monthly'" json:"billing_period" validate:"oneof=monthly yearly"`
	Features      datatypes.JSON `gorm:"type:json" json:"features"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Plan) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

// FeatureMap decodes the feature JSON into a generic map. An empty or
// absent column yields an empty map, never an error.
func (p *Plan) FeatureMap() map[string]interface{} {
	out := map[string]interface{}{}
	if len(p.Features) == 0 {
		return out
	}
	if err := json.Unmarshal(p.Features, &out); err != nil {
		return map[string]interface{}{}
	}
	return out
}

// SetFeatureMap encodes and stores the feature map
func (p *Plan) SetFeatureMap(features map[string]interface{}) error {
	raw, err := json.Marshal(features)
	if err != nil {
		return err
	}
	p.Features = datatypes.JSON(raw)
	return nil
}
