package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	AvailabilityAllTenants      = "all_tenants"
	AvailabilitySpecificTenants = "specific_tenants"

	ModuleStatusActive   = "active"
	ModuleStatusInactive = "inactive"

	ActorAdmin  = "admin"
	ActorTenant = "tenant"
)

// Module is a self-contained optional feature bundle tenants can activate.
// Modules in specific_tenants mode are visible only to tenants with a
// ModuleAvailability row.
type Module struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	Slug             string          `gorm:"uniqueIndex;type:varchar(100);not null" json:"slug" validate:"required,min=2,max=100"`
	Title            string          `gorm:"type:varchar(150);not null" json:"title" validate:"required,max=150"`
	ShortDescription string          `gorm:"type:varchar(500)" json:"short_description" validate:"max=500"`
	Description      string          `gorm:"type:text" json:"description"`
	CategoryID       *uint           `gorm:"default:null;index" json:"category_id"`
	Category         *ModuleCategory `gorm:"foreignKey:CategoryID" json:"-"`
	LogoURL          string          `gorm:"type:varchar(255)" json:"logo_url" validate:"max=255"`
	Price            float64         `gorm:"type:decimal(10,2);default:0" json:"price" validate:"gte=0"`
	AvailabilityMode string          `gorm:"type:varchar(30);default:'all_tenants'" json:"availability_mode" validate:"oneof=all_tenants specific_tenants"`
	IsActive         bool            `gorm:"default:true" json:"is_active"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (m *Module) Validate() error {
	v := validator.New()

	return v.Struct(m)
}

// ModuleCategory groups modules in the catalog
type ModuleCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"uniqueIndex;type:varchar(100);not null" json:"slug" validate:"required,max=100"`
	Name      string    `gorm:"type:varchar(150);not null" json:"name" validate:"required,max=150"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *ModuleCategory) Validate() error {
	v := validator.New()

	return v.Struct(c)
}

// ModuleAvailability grants one tenant access to a specific_tenants module
type ModuleAvailability struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ModuleID  uint      `gorm:"not null;uniqueIndex:idx_module_tenant,priority:1" json:"module_id"`
	TenantID  uint      `gorm:"not null;uniqueIndex:idx_module_tenant,priority:2" json:"tenant_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TenantModule is the activation state of a module for one tenant,
// distinct from availability. LastActor records who flipped the state last
// (admin bulk push vs tenant self-service).
type TenantModule struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TenantID    uint      `gorm:"not null;uniqueIndex:idx_tenant_module,priority:1" json:"tenant_id"`
	ModuleID    uint      `gorm:"not null;uniqueIndex:idx_tenant_module,priority:2" json:"module_id"`
	Module      *Module   `gorm:"foreignKey:ModuleID" json:"-"`
	Status      string    `gorm:"type:varchar(20);default:'inactive'" json:"status" validate:"oneof=active inactive"`
	LastActor   string    `gorm:"type:varchar(20)" json:"last_actor" validate:"omitempty,oneof=admin tenant"`
	LastActorAt time.Time `json:"last_actor_at"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsActive reports whether the module is currently active for the tenant
func (tm *TenantModule) IsActive() bool {
	return tm.Status == ModuleStatusActive
}
