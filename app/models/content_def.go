package models

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

// ContentTypeDef is the portable registration record for a content type.
// It captures everything a tenant site needs to reconstruct an equivalent
// type without depending on the HUB runtime.
type ContentTypeDef struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Slug         string         `gorm:"uniqueIndex;type:varchar(100);not null" json:"slug" validate:"required,max=100"`
	Label        string         `gorm:"type:varchar(150);not null" json:"label" validate:"required,max=150"`
	Public       bool           `gorm:"default:true" json:"public"`
	ShowInMenu   bool           `gorm:"default:true" json:"show_in_menu"`
	MenuIcon     string         `gorm:"type:varchar(100)" json:"menu_icon" validate:"max=100"`
	MenuPosition int            `gorm:"default:0" json:"menu_position"`
	RewriteSlug  string         `gorm:"type:varchar(100)" json:"rewrite_slug" validate:"max=100"`
	Hierarchical bool           `gorm:"default:false" json:"hierarchical"`
	Supports     datatypes.JSON `gorm:"type:json" json:"supports"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (d *ContentTypeDef) Validate() error {
	v := validator.New()

	return v.Struct(d)
}

// SupportList decodes the supported capabilities (title, editor, thumbnail...)
func (d *ContentTypeDef) SupportList() []string {
	var out []string
	if len(d.Supports) == 0 {
		return out
	}
	if err := json.Unmarshal(d.Supports, &out); err != nil {
		return nil
	}
	return out
}

// TaxonomyDef is the portable registration record for a taxonomy
type TaxonomyDef struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Slug         string         `gorm:"uniqueIndex;type:varchar(100);not null" json:"slug" validate:"required,max=100"`
	Label        string         `gorm:"type:varchar(150);not null" json:"label" validate:"required,max=150"`
	ObjectTypes  datatypes.JSON `gorm:"type:json" json:"object_types"`
	Hierarchical bool           `gorm:"default:false" json:"hierarchical"`
	Public       bool           `gorm:"default:true" json:"public"`
	RewriteSlug  string         `gorm:"type:varchar(100)" json:"rewrite_slug" validate:"max=100"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (d *TaxonomyDef) Validate() error {
	v := validator.New()

	return v.Struct(d)
}

// ObjectTypeList decodes the content type slugs the taxonomy attaches to
func (d *TaxonomyDef) ObjectTypeList() []string {
	var out []string
	if len(d.ObjectTypes) == 0 {
		return out
	}
	if err := json.Unmarshal(d.ObjectTypes, &out); err != nil {
		return nil
	}
	return out
}

// FieldDef is one structured field inside a field group
type FieldDef struct {
	Key      string            `json:"key"`
	Label    string            `json:"label"`
	Name     string            `json:"name"`
	Type     string            `json:"type"`
	Required bool              `json:"required"`
	Choices  map[string]string `json:"choices,omitempty"`
}

// FieldGroupDef is the portable definition of a structured-field group.
// Fields holds the full field list; sync configuration selects a subset
// per tenant (empty selection = every field known at push time).
type FieldGroupDef struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	GroupKey  string         `gorm:"uniqueIndex;type:varchar(100);not null" json:"group_key" validate:"required,max=100"`
	Title     string         `gorm:"type:varchar(150);not null" json:"title" validate:"required,max=150"`
	Location  datatypes.JSON `gorm:"type:json" json:"location"`
	Fields    datatypes.JSON `gorm:"type:json" json:"fields"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (d *FieldGroupDef) Validate() error {
	v := validator.New()

	return v.Struct(d)
}

// FieldList decodes the field definitions of the group
func (d *FieldGroupDef) FieldList() []FieldDef {
	var out []FieldDef
	if len(d.Fields) == 0 {
		return out
	}
	if err := json.Unmarshal(d.Fields, &out); err != nil {
		return nil
	}
	return out
}

// SetFieldList encodes and stores the field definitions
func (d *FieldGroupDef) SetFieldList(fields []FieldDef) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	d.Fields = datatypes.JSON(raw)
	return nil
}
