package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/wpthub/tenanthub/app/models"
)

type featureMappingRequest struct {
	FeatureKey       string `json:"feature_key"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	TargetIdentifier string `json:"target_identifier"`
	IsQuota          *bool  `json:"is_quota"`
}

// HandleAdminFeatureMappingList returns every feature mapping
func HandleAdminFeatureMappingList(c *fiber.Ctx) error {
	mappings, err := repos().FeatureMapping.GetAll()
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to load feature mappings")
	}
	return respondSuccess(c, fiber.Map{"mappings": mappings})
}

// HandleAdminFeatureMappingCreate declares what a plan feature key means
func HandleAdminFeatureMappingCreate(c *fiber.Ctx) error {
	var req featureMappingRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	mapping := &models.FeatureMapping{
		FeatureKey:       req.FeatureKey,
		Name:             req.Name,
		Type:             req.Type,
		TargetIdentifier: req.TargetIdentifier,
	}
	if req.IsQuota != nil {
		mapping.IsQuota = *req.IsQuota
	}
	if err := mapping.Validate(); err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := repos().FeatureMapping.Create(mapping); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to create feature mapping")
	}
	return respondSuccess(c, mapping)
}

// HandleAdminFeatureMappingUpdate edits a feature mapping
func HandleAdminFeatureMappingUpdate(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid mapping ID")
	}
	mapping, err := repos().FeatureMapping.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, fiber.StatusNotFound, "Feature mapping not found")
		}
		return respondError(c, fiber.StatusInternalServerError, "Failed to load feature mapping")
	}

	var req featureMappingRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.FeatureKey != "" {
		mapping.FeatureKey = req.FeatureKey
	}
	if req.Name != "" {
		mapping.Name = req.Name
	}
	if req.Type != "" {
		mapping.Type = req.Type
	}
	if req.TargetIdentifier != "" {
		mapping.TargetIdentifier = req.TargetIdentifier
	}
	if req.IsQuota != nil {
		mapping.IsQuota = *req.IsQuota
	}

	if err := mapping.Validate(); err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := repos().FeatureMapping.Update(mapping); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to update feature mapping")
	}
	return respondSuccess(c, mapping)
}

// HandleAdminFeatureMappingDelete removes a mapping. Plan values keyed
// by it fall back to raw passthrough until the key is re-declared.
func HandleAdminFeatureMappingDelete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid mapping ID")
	}
	if err := repos().FeatureMapping.Delete(id); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to delete feature mapping")
	}
	return respondSuccess(c, fiber.Map{"message": "Feature mapping deleted"})
}
