package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// AITokenLog is one usage report from a tenant site. The tenant's
// cumulative counter is updated alongside each log entry.
type AITokenLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TenantID  uint      `gorm:"not null;index" json:"tenant_id"`
	Tokens    int64     `gorm:"not null" json:"tokens" validate:"gt=0"`
	Feature   string    `gorm:"type:varchar(100)" json:"feature" validate:"max=100"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (l *AITokenLog) Validate() error {
	v := validator.New()

	return v.Struct(l)
}
