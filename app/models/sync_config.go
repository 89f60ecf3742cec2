package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// SyncConfig selects which content-type, taxonomy and field-group
// definitions are mirrored to a tenant site. The row with TenantID = NULL
// is the global default; a per-tenant row, once created, overrides it
// entirely. Stored as typed columns keyed by tenant id rather than an
// opaque option blob.
type SyncConfig struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	TenantID    *uint          `gorm:"uniqueIndex;default:null" json:"tenant_id"`
	PostTypes   datatypes.JSON `gorm:"type:json" json:"post_types"`
	Taxonomies  datatypes.JSON `gorm:"type:json" json:"taxonomies"`
	FieldGroups datatypes.JSON `gorm:"type:json" json:"field_groups"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsGlobal reports whether this row is the global default configuration
func (c *SyncConfig) IsGlobal() bool {
	return c.TenantID == nil
}

// PostTypeSlugs decodes the selected content type slugs
func (c *SyncConfig) PostTypeSlugs() []string {
	return decodeStringList(c.PostTypes)
}

// TaxonomySlugs decodes the selected taxonomy slugs
func (c *SyncConfig) TaxonomySlugs() []string {
	return decodeStringList(c.Taxonomies)
}

// FieldGroupSelection decodes the group_key -> selected field keys map.
// An empty key list means "all fields known at push time".
func (c *SyncConfig) FieldGroupSelection() map[string][]string {
	out := map[string][]string{}
	if len(c.FieldGroups) == 0 {
		return out
	}
	if err := json.Unmarshal(c.FieldGroups, &out); err != nil {
		return map[string][]string{}
	}
	return out
}

// IsEmpty reports whether the configuration selects nothing at all
func (c *SyncConfig) IsEmpty() bool {
	return len(c.PostTypeSlugs()) == 0 &&
		len(c.TaxonomySlugs()) == 0 &&
		len(c.FieldGroupSelection()) == 0
}

// SetSelection encodes and stores all three selection sets
func (c *SyncConfig) SetSelection(postTypes, taxonomies []string, fieldGroups map[string][]string) error {
	pt, err := json.Marshal(postTypes)
	if err != nil {
		return err
	}
	tx, err := json.Marshal(taxonomies)
	if err != nil {
		return err
	}
	fg, err := json.Marshal(fieldGroups)
	if err != nil {
		return err
	}
	c.PostTypes = datatypes.JSON(pt)
	c.Taxonomies = datatypes.JSON(tx)
	c.FieldGroups = datatypes.JSON(fg)
	return nil
}

func decodeStringList(raw datatypes.JSON) []string {
	var out []string
	if len(raw) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// SyncPushRecord stores the single fact "configuration has been pushed to
// this tenant at least once". It gates first-contact auto-pushes only and
// is not an audit log.
type SyncPushRecord struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	TenantID uint      `gorm:"uniqueIndex;not null" json:"tenant_id"`
	PushedAt time.Time `json:"pushed_at"`
}
