package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TenantStatusPendingSite = "pending_site"
	TenantStatusActive      = "active"
	TenantStatusSuspended   = "suspended"
)

// Tenant is one client deployment managed by the HUB. The tenant key is
// the stable public identifier; the API key is the shared secret used in
// both directions (tenant -> HUB requests and HUB -> tenant sync pushes),
// so it is stored as issued rather than hashed.
type Tenant struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	User         *User          `gorm:"foreignKey:UserID" json:"-"`
	BrandID      *uint          `gorm:"default:null" json:"brand_id"`
	SiteURL      string         `gorm:"type:varchar(255);default:null" json:"site_url" validate:"omitempty,url,max=255"`
	TenantKey    string         `gorm:"uniqueIndex;type:varchar(64);not null" json:"tenant_key"`
	APIKey       string         `gorm:"uniqueIndex;type:varchar(64);not null" json:"-"`
	PlanID       *uint          `gorm:"default:null;index" json:"plan_id"`
	Plan         *Plan          `gorm:"foreignKey:PlanID" json:"-"`
	Status       string         `gorm:"type:varchar(50);default:'pending_site'" json:"status" validate:"oneof=pending_site active suspended"`
	BillingDate  *time.Time     `gorm:"type:date;default:null" json:"billing_date"`
	AITokensUsed int64          `gorm:"default:0" json:"ai_tokens_used"`
	CanPurchase  *bool          `gorm:"default:null" json:"can_purchase"` // per-tenant override for the purchase capability
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *Tenant) Validate() error {
	v := validator.New()

	return v.Struct(t)
}

// CreateTenant builds a tenant with a fresh key pair. Keys are immutable
// after creation; only RotateAPIKey (license activation) replaces the secret.
func CreateTenant(userID uint, siteURL string) (*Tenant, error) {
	t := &Tenant{
		UserID:    userID,
		SiteURL:   siteURL,
		TenantKey: "wpt_" + uuid.NewString(),
		Status:    TenantStatusPendingSite,
	}
	key, err := GenerateAPIKey()
	if err != nil {
		return nil, err
	}
	t.APIKey = key

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// GenerateAPIKey creates a new random API secret
func GenerateAPIKey() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "wpk_" + hex.EncodeToString(b), nil
}

// RotateAPIKey replaces the tenant's API secret with a fresh one and
// returns the new key.
func (t *Tenant) RotateAPIKey() (string, error) {
	key, err := GenerateAPIKey()
	if err != nil {
		return "", err
	}
	t.APIKey = key
	return key, nil
}

// IsActive reports whether the tenant may use the API
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// IsSuspended reports whether the tenant is locked out regardless of key validity
func (t *Tenant) IsSuspended() bool {
	return t.Status == TenantStatusSuspended
}
