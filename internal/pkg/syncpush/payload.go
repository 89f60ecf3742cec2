package syncpush

import (
	"errors"

	gormdatatypes "gorm.io/datatypes"

	"github.com/wpthub/tenanthub/app/models"
	"github.com/wpthub/tenanthub/app/repository"
)

// ErrNoConfig is returned when a push is explicitly requested for a
// tenant that has neither a per-tenant nor a global configuration.
var ErrNoConfig = errors.New("no sync configuration exists for this tenant")

// PortableContentType is the self-describing transfer record for one
// content type. It carries registration metadata, not a live reference,
// so the tenant can reconstruct an equivalent type on its own runtime.
type PortableContentType struct {
	Slug         string   `json:"slug"`
	Label        string   `json:"label"`
	Public       bool     `json:"public"`
	ShowInMenu   bool     `json:"show_in_menu"`
	MenuIcon     string   `json:"menu_icon,omitempty"`
	MenuPosition int      `json:"menu_position,omitempty"`
	RewriteSlug  string   `json:"rewrite_slug,omitempty"`
	Hierarchical bool     `json:"hierarchical"`
	Supports     []string `json:"supports"`
}

// PortableTaxonomy is the transfer record for one taxonomy
type PortableTaxonomy struct {
	Slug         string   `json:"slug"`
	Label        string   `json:"label"`
	ObjectTypes  []string `json:"object_types"`
	Hierarchical bool     `json:"hierarchical"`
	Public       bool     `json:"public"`
	RewriteSlug  string   `json:"rewrite_slug,omitempty"`
}

// PortableFieldGroup is the transfer record for one structured-field
// group, containing only the fields selected for the tenant.
type PortableFieldGroup struct {
	Key      string             `json:"key"`
	Title    string             `json:"title"`
	Location gormdatatypes.JSON `json:"location,omitempty"`
	Fields   []models.FieldDef  `json:"fields"`
}

// Payload is the transfer body POSTed to a tenant's sync endpoint.
type Payload struct {
	CPTs          []PortableContentType `json:"cpts"`
	Taxonomies    []PortableTaxonomy    `json:"taxonomies"`
	ACFJSON       []PortableFieldGroup  `json:"acf_json"`
	FieldMappings map[string][]string   `json:"field_mappings"`
}

// builder assembles payloads from the definition tables
type builder struct {
	defs repository.ContentDefRepository
}

// BuildPayload translates a configuration's selection into a transfer
// payload. Selected slugs without a definition row are skipped silently:
// the selection is advisory, the definition tables are authoritative.
func (d *Dispatcher) BuildPayload(config *models.SyncConfig) (*Payload, error) {
	b := &builder{defs: d.defs}
	return b.build(config)
}

func (b *builder) build(config *models.SyncConfig) (*Payload, error) {
	payload := &Payload{
		CPTs:          []PortableContentType{},
		Taxonomies:    []PortableTaxonomy{},
		ACFJSON:       []PortableFieldGroup{},
		FieldMappings: map[string][]string{},
	}

	contentTypes, err := b.defs.GetContentTypesBySlugs(config.PostTypeSlugs())
	if err != nil {
		return nil, err
	}
	for _, def := range contentTypes {
		payload.CPTs = append(payload.CPTs, PortableContentType{
			Slug:         def.Slug,
			Label:        def.Label,
			Public:       def.Public,
			ShowInMenu:   def.ShowInMenu,
			MenuIcon:     def.MenuIcon,
			MenuPosition: def.MenuPosition,
			RewriteSlug:  def.RewriteSlug,
			Hierarchical: def.Hierarchical,
			Supports:     def.SupportList(),
		})
	}

	taxonomies, err := b.defs.GetTaxonomiesBySlugs(config.TaxonomySlugs())
	if err != nil {
		return nil, err
	}
	for _, def := range taxonomies {
		payload.Taxonomies = append(payload.Taxonomies, PortableTaxonomy{
			Slug:         def.Slug,
			Label:        def.Label,
			ObjectTypes:  def.ObjectTypeList(),
			Hierarchical: def.Hierarchical,
			Public:       def.Public,
			RewriteSlug:  def.RewriteSlug,
		})
	}

	for groupKey, selectedKeys := range config.FieldGroupSelection() {
		def, err := b.defs.GetFieldGroupByKey(groupKey)
		if err != nil {
			continue
		}
		fields := selectFields(def.FieldList(), selectedKeys)
		payload.ACFJSON = append(payload.ACFJSON, PortableFieldGroup{
			Key:      def.GroupKey,
			Title:    def.Title,
			Location: def.Location,
			Fields:   fields,
		})
		payload.FieldMappings[groupKey] = fieldKeys(fields)
	}

	return payload, nil
}

// selectFields filters a group's fields down to the selected keys.
// An empty selection means every field known at push time.
func selectFields(all []models.FieldDef, selectedKeys []string) []models.FieldDef {
	if len(selectedKeys) == 0 {
		return all
	}

	selected := make(map[string]bool, len(selectedKeys))
	for _, key := range selectedKeys {
		selected[key] = true
	}

	out := make([]models.FieldDef, 0, len(selectedKeys))
	for _, field := range all {
		if selected[field.Key] {
			out = append(out, field)
		}
	}
	return out
}

func fieldKeys(fields []models.FieldDef) []string {
	keys := make([]string, 0, len(fields))
	for _, field := range fields {
		keys = append(keys, field.Key)
	}
	return keys
}
