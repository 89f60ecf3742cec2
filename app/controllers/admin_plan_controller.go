package controllers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/wpthub/tenanthub/app/models"
)

type planRequest struct {
	Name          string                 `json:"name"`
	Slug          string                 `json:"slug"`
	Price         float64                `json:"price"`
	BillingPeriod string                 `json:"billing_period"`
	IsActive      *bool                  `json:"is_active"`
	Features      map[string]interface{} `json:"features"`
}

// HandleAdminPlanList returns every plan
func HandleAdminPlanList(c *fiber.Ctx) error {
	plans, err := repos().Plan.GetAll()
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to load plans")
	}
	return respondSuccess(c, fiber.Map{"plans": plans})
}

// HandleAdminPlanCreate creates a plan with its feature map
func HandleAdminPlanCreate(c *fiber.Ctx) error {
	var req planRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	plan := &models.Plan{
		Name:          req.Name,
		Slug:          req.Slug,
		Price:         req.Price,
		BillingPeriod: req.BillingPeriod,
		IsActive:      true,
	}
	if plan.BillingPeriod == "" {
		plan.BillingPeriod = models.BillingPeriodMonthly
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}
	if req.Features != nil {
		if err := plan.SetFeatureMap(req.Features); err != nil {
			return respondError(c, fiber.StatusBadRequest, "Invalid feature map")
		}
	}
	if err := plan.Validate(); err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := repos().Plan.Create(plan); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to create plan")
	}
	return respondSuccess(c, plan)
}

// HandleAdminPlanGet returns one plan
func HandleAdminPlanGet(c *fiber.Ctx) error {
	plan, ok := loadPlanParam(c)
	if !ok {
		return nil
	}
	return respondSuccess(c, plan)
}

// HandleAdminPlanUpdate updates a plan. Feature changes apply to every
// tenant on the plan at their next entitlement lookup.
func HandleAdminPlanUpdate(c *fiber.Ctx) error {
	plan, ok := loadPlanParam(c)
	if !ok {
		return nil
	}

	var req planRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Name != "" {
		plan.Name = req.Name
	}
	if req.Slug != "" {
		plan.Slug = req.Slug
	}
	if req.Price > 0 {
		plan.Price = req.Price
	}
	if req.BillingPeriod != "" {
		plan.BillingPeriod = req.BillingPeriod
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}
	if req.Features != nil {
		if err := plan.SetFeatureMap(req.Features); err != nil {
			return respondError(c, fiber.StatusBadRequest, "Invalid feature map")
		}
	}

	if err := plan.Validate(); err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := repos().Plan.Update(plan); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to update plan")
	}
	return respondSuccess(c, plan)
}

// HandleAdminPlanDelete deletes a plan unless active tenants still use it
func HandleAdminPlanDelete(c *fiber.Ctx) error {
	plan, ok := loadPlanParam(c)
	if !ok {
		return nil
	}

	count, err := repos().Tenant.CountActiveByPlan(plan.ID)
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to check plan usage")
	}
	if count > 0 {
		return respondError(c, fiber.StatusConflict,
			fmt.Sprintf("%d active tenants are using this plan.", count))
	}

	if err := repos().Plan.Delete(plan.ID); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Failed to delete plan")
	}
	return respondSuccess(c, fiber.Map{"message": "Plan deleted"})
}

func loadPlanParam(c *fiber.Ctx) (*models.Plan, bool) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		_ = respondError(c, fiber.StatusBadRequest, "Invalid plan ID")
		return nil, false
	}
	plan, err := repos().Plan.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = respondError(c, fiber.StatusNotFound, "Plan not found")
		} else {
			_ = respondError(c, fiber.StatusInternalServerError, "Failed to load plan")
		}
		return nil, false
	}
	return plan, true
}
