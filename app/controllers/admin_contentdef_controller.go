package controllers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"github.com/wpthub/tenanthub/app/models"
)

type contentTypeRequest struct {
	Slug         string   `json:"slug"`
	Label        string   `json:"label"`
	Public       *bool    `json:"public"`
	ShowInMenu   *bool    `json:"show_in_menu"`
	MenuIcon     string   `json:"menu_icon"`
	MenuPosition int      `json:"menu_position"`
	RewriteSlug  string   `json:"rewrite_slug"`
	Hierarchical *bool    `json:"hierarchical"`
	Supports     []string `json:"supports"`
}

// HandleAdminContentTypeList returns every portable content type definition
func HandleAdminContentTypeList(c *fiber.Ctx) error {
	defs, err := repos().ContentDef.GetAllContentTypes()
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to load content types")
	}
	return respondSuccess(c, fiber.Map{"content_types": defs})
}

// HandleAdminContentTypeCreate registers a portable content type
func HandleAdminContentTypeCreate(c *fiber.Ctx) error {
	var req contentTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	def := &models.ContentTypeDef{
		Slug:         req.Slug,
		Label:        req.Label,
		Public:       true,
		ShowInMenu:   true,
		MenuIcon:     req.MenuIcon,
		MenuPosition: req.MenuPosition,
		RewriteSlug:  req.RewriteSlug,
	}
	if req.Public != nil {
		def.Public = *req.Public
	}
	if req.ShowInMenu != nil {
		def.ShowInMenu = *req.ShowInMenu
	}
	if req.Hierarchical != nil {
		def.Hierarchical = *req.Hierarchical
	}
	if req.Supports != nil {
		raw, err := json.Marshal(req.Supports)
		if err != nil {
			return respondError(c, fiber.StatusBadRequest, "Invalid supports list")
		}
		def.Supports = datatypes.JSON(raw)
	}

	if err := def.Validate(); err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := repos().ContentDef.CreateContentType(def); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to create content type")
	}
	return respondSuccess(c, def)
}

// HandleAdminContentTypeDelete removes a content type definition
func HandleAdminContentTypeDelete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid content type ID")
	}
	if err := repos().ContentDef.DeleteContentType(id); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to delete content type")
	}
	return respondSuccess(c, fiber.Map{"message": "Content type deleted"})
}

type taxonomyRequest struct {
	Slug         string   `json:"slug"`
	Label        string   `json:"label"`
	ObjectTypes  []string `json:"object_types"`
	Hierarchical *bool    `json:"hierarchical"`
	Public       *bool    `json:"public"`
	RewriteSlug  string   `json:"rewrite_slug"`
}

// HandleAdminTaxonomyList returns every portable taxonomy definition
func HandleAdminTaxonomyList(c *fiber.Ctx) error {
	defs, err := repos().ContentDef.GetAllTaxonomies()
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to load taxonomies")
	}
	return respondSuccess(c, fiber.Map{"taxonomies": defs})
}

// HandleAdminTaxonomyCreate registers a portable taxonomy
func HandleAdminTaxonomyCreate(c *fiber.Ctx) error {
	var req taxonomyRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	def := &models.TaxonomyDef{
		Slug:        req.Slug,
		Label:       req.Label,
		Public:      true,
		RewriteSlug: req.RewriteSlug,
	}
	if req.Hierarchical != nil {
		def.Hierarchical = *req.Hierarchical
	}
	if req.Public != nil {
		def.Public = *req.Public
	}
	if req.ObjectTypes != nil {
		raw, err := json.Marshal(req.ObjectTypes)
		if err != nil {
			return respondError(c, fiber.StatusBadRequest, "Invalid object types")
		}
		def.ObjectTypes = datatypes.JSON(raw)
	}

	if err := def.Validate(); err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := repos().ContentDef.CreateTaxonomy(def); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to create taxonomy")
	}
	return respondSuccess(c, def)
}

// HandleAdminTaxonomyDelete removes a taxonomy definition
func HandleAdminTaxonomyDelete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid taxonomy ID")
	}
	if err := repos().ContentDef.DeleteTaxonomy(id); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to delete taxonomy")
	}
	return respondSuccess(c, fiber.Map{"message": "Taxonomy deleted"})
}

type fieldGroupRequest struct {
	GroupKey string            `json:"group_key"`
	Title    string            `json:"title"`
	Location []interface{}     `json:"location"`
	Fields   []models.FieldDef `json:"fields"`
}

// HandleAdminFieldGroupList returns every portable field group definition
func HandleAdminFieldGroupList(c *fiber.Ctx) error {
	defs, err := repos().ContentDef.GetAllFieldGroups()
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to load field groups")
	}
	return respondSuccess(c, fiber.Map{"field_groups": defs})
}

// HandleAdminFieldGroupCreate registers a portable field group with its
// structured field list
func HandleAdminFieldGroupCreate(c *fiber.Ctx) error {
	var req fieldGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	def := &models.FieldGroupDef{
		GroupKey: req.GroupKey,
		Title:    req.Title,
	}
	if req.Location != nil {
		raw, err := json.Marshal(req.Location)
		if err != nil {
			return respondError(c, fiber.StatusBadRequest, "Invalid location rules")
		}
		def.Location = datatypes.JSON(raw)
	}
	if req.Fields != nil {
		if err := def.SetFieldList(req.Fields); err != nil {
			return respondError(c, fiber.StatusBadRequest, "Invalid field list")
		}
	}

	if err := def.Validate(); err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := repos().ContentDef.CreateFieldGroup(def); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to create field group")
	}
	return respondSuccess(c, def)
}

// HandleAdminFieldGroupDelete removes a field group definition
func HandleAdminFieldGroupDelete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid field group ID")
	}
	if err := repos().ContentDef.DeleteFieldGroup(id); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to delete field group")
	}
	return respondSuccess(c, fiber.Map{"message": "Field group deleted"})
}
