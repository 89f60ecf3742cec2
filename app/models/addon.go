package models

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

const (
	AddonStatusActive    = "active"
	AddonStatusSuspended = "suspended"
)

// Addon is a purchasable unit of functionality or quota increment,
// independent of plan. RequiredModules lists module slugs that must be
// active for a tenant before the addon can be activated. FeatureIncrements
// maps feature_key -> per-unit quota increment; an activated addon with
// quantity N contributes N times each increment.
type Addon struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Slug              string         `gorm:"uniqueIndex;type:varchar(100);not null" json:"slug" validate:"required,min=2,max=100"`
	Name              string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,max=150"`
	Price             float64        `gorm:"type:decimal(10,2);default:0" json:"price" validate:"gte=0"`
	Description       string         `gorm:"type:text" json:"description"`
	IsActive          bool           `gorm:"default:true" json:"is_active"`
	RequiredModules   datatypes.JSON `gorm:"type:json" json:"required_modules"`
	FeatureIncrements datatypes.JSON `gorm:"type:json" json:"feature_increments"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Addon) Validate() error {
	v := validator.New()

	return v.Struct(a)
}

// RequiredModuleSlugs decodes the required module slug list
func (a *Addon) RequiredModuleSlugs() []string {
	var out []string
	if len(a.RequiredModules) == 0 {
		return out
	}
	if err := json.Unmarshal(a.RequiredModules, &out); err != nil {
		return nil
	}
	return out
}

// IncrementFor returns the per-unit quota increment this addon contributes
// to the given feature key, or 0 if it does not touch the key.
func (a *Addon) IncrementFor(featureKey string) int64 {
	if len(a.FeatureIncrements) == 0 {
		return 0
	}
	increments := map[string]int64{}
	if err := json.Unmarshal(a.FeatureIncrements, &increments); err != nil {
		return 0
	}
	return increments[featureKey]
}

// SetFeatureIncrements encodes and stores the increment map
func (a *Addon) SetFeatureIncrements(increments map[string]int64) error {
	raw, err := json.Marshal(increments)
	if err != nil {
		return err
	}
	a.FeatureIncrements = datatypes.JSON(raw)
	return nil
}

// SetRequiredModules encodes and stores the required module slug list
func (a *Addon) SetRequiredModules(slugs []string) error {
	raw, err := json.Marshal(slugs)
	if err != nil {
		return err
	}
	a.RequiredModules = datatypes.JSON(raw)
	return nil
}

// TenantAddon records one activation of an addon for one tenant. At most
// one row exists per (tenant, addon) pair; reactivation updates in place.
type TenantAddon struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TenantID    uint      `gorm:"not null;uniqueIndex:idx_tenant_addon,priority:1" json:"tenant_id"`
	AddonID     uint      `gorm:"not null;uniqueIndex:idx_tenant_addon,priority:2" json:"addon_id"`
	Addon       *Addon    `gorm:"foreignKey:AddonID" json:"-"`
	Quantity    int       `gorm:"default:1" json:"quantity" validate:"gte=1"`
	Status      string    `gorm:"type:varchar(20);default:'active'" json:"status" validate:"oneof=active suspended"`
	ActivatedAt time.Time `json:"activated_at"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ta *TenantAddon) Validate() error {
	v := validator.New()

	return v.Struct(ta)
}

// IsActive reports whether the activation currently counts toward quotas
func (ta *TenantAddon) IsActive() bool {
	return ta.Status == AddonStatusActive
}
