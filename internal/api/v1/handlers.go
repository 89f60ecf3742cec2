package apiv1

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/wpthub/tenanthub/app/models"
	"github.com/wpthub/tenanthub/app/repository"
	"github.com/wpthub/tenanthub/internal/pkg/entitlements"
	"github.com/wpthub/tenanthub/internal/pkg/mirror"
	"github.com/wpthub/tenanthub/internal/pkg/modules"
	"github.com/wpthub/tenanthub/internal/pkg/syncpush"
	"github.com/wpthub/tenanthub/internal/pkg/tenantcontext"
)

// APIServer bundles the core components behind the tenant-facing API
type APIServer struct {
	repos      *repository.Repositories
	resolver   *entitlements.Resolver
	registry   *modules.Registry
	dispatcher *syncpush.Dispatcher
	mirror     *mirror.Protocol
}

// NewAPIServer creates an API server wired to the global repositories
func NewAPIServer() *APIServer {
	repos := repository.GetGlobalRepositories()
	return NewAPIServerWithRepositories(repos)
}

// NewAPIServerWithRepositories creates an API server from an explicit
// repository bundle (tests)
func NewAPIServerWithRepositories(repos *repository.Repositories) *APIServer {
	return &APIServer{
		repos:      repos,
		resolver:   entitlements.NewResolverFromRepositories(repos),
		registry:   modules.NewRegistryFromRepositories(repos),
		dispatcher: syncpush.NewDispatcherFromRepositories(repos),
		mirror:     mirror.NewProtocolFromRepositories(repos),
	}
}

// Dispatcher exposes the sync dispatcher (tests swap its HTTP client)
func (s *APIServer) Dispatcher() *syncpush.Dispatcher {
	return s.dispatcher
}

func success(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": data})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}

// GetPing confirms credentials and reports the tenant's status
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	tc := tenantcontext.Get(c)
	return success(c, fiber.Map{
		"message":    "pong",
		"tenant_key": tc.TenantKey,
		"status":     tc.Status,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

// GetTenantInfo returns the tenant's brand content. The first
// authenticated call also triggers the one-time configuration push;
// its outcome never affects this response.
func (s *APIServer) GetTenantInfo(c *fiber.Ctx) error {
	tenant := tenantcontext.Tenant(c)

	s.dispatcher.EnsureFirstContact(c.Context(), tenant)

	info := fiber.Map{
		"tenant_key":   tenant.TenantKey,
		"status":       tenant.Status,
		"site_url":     tenant.SiteURL,
		"billing_date": tenant.BillingDate,
	}

	if tenant.BrandID != nil {
		brand, err := s.repos.ContentRecord.GetByID(*tenant.BrandID)
		if err == nil {
			info["brand"] = fiber.Map{
				"title":          brand.Title,
				"content":        brand.Body,
				"acf_fields":     brand.FieldMap(),
				"featured_image": brand.FeaturedImageURL,
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, fiber.StatusInternalServerError, "Failed to load brand content")
		}
	}

	return success(c, info)
}

// GetModules returns the catalog filtered by the tenant's visibility
func (s *APIServer) GetModules(c *fiber.Ctx) error {
	tc := tenantcontext.Get(c)

	visible, err := s.registry.VisibleModules(tc.TenantID)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to load modules")
	}
	categories, err := s.repos.Module.GetCategories()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to load categories")
	}

	return success(c, fiber.Map{
		"modules":    visible,
		"categories": categories,
	})
}

// PostModulesActivate acknowledges a tenant-side activation request.
// The actual activation flow runs through the admin surface for now.
func (s *APIServer) PostModulesActivate(c *fiber.Ctx) error {
	return success(c, fiber.Map{"message": "Module activation request received"})
}

// GetUpdatesCheck reports available updates (none yet)
func (s *APIServer) GetUpdatesCheck(c *fiber.Ctx) error {
	return success(c, fiber.Map{"updates": []interface{}{}})
}

// PostSyncUser acknowledges a user sync request
func (s *APIServer) PostSyncUser(c *fiber.Ctx) error {
	return success(c, fiber.Map{"message": "User sync received"})
}

type syncPostRequest struct {
	PostType string              `json:"post_type"`
	PostData mirror.IncomingPost `json:"post_data"`
}

// PostSyncPost mirrors one tenant-authored content item into the HUB
func (s *APIServer) PostSyncPost(c *fiber.Ctx) error {
	var req syncPostRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.PostType == "" {
		return fail(c, fiber.StatusBadRequest, "post_type is required")
	}

	tenant := tenantcontext.Tenant(c)
	record, created, err := s.mirror.Upsert(tenant, req.PostType, req.PostData)
	if err != nil {
		if errors.Is(err, mirror.ErrMissingOriginID) {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		return fail(c, fiber.StatusInternalServerError, "Failed to mirror post")
	}

	message := "Post updated"
	if created {
		message = "Post created"
	}
	return success(c, fiber.Map{"post_id": record.ID, "message": message})
}

type syncPostDeleteRequest struct {
	PostID   uint   `json:"post_id"`
	PostType string `json:"post_type"`
}

// PostSyncPostDelete propagates a tenant-side deletion to the HUB
func (s *APIServer) PostSyncPostDelete(c *fiber.Ctx) error {
	var req syncPostDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.PostType == "" {
		return fail(c, fiber.StatusBadRequest, "post_type is required")
	}

	tenant := tenantcontext.Tenant(c)
	if err := s.mirror.Delete(tenant, req.PostType, req.PostID); err != nil {
		switch {
		case errors.Is(err, mirror.ErrNotFound):
			return fail(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, mirror.ErrMissingOriginID):
			return fail(c, fiber.StatusBadRequest, err.Error())
		default:
			return fail(c, fiber.StatusInternalServerError, "Failed to delete mirrored post")
		}
	}

	return success(c, fiber.Map{"message": "Post deleted"})
}

type licenseActivateRequest struct {
	TenantKey string `json:"tenant_key"`
	SiteURL   string `json:"site_url"`
}

// PostLicenseActivate issues a fresh API key for a tenant site. This is
// the only open endpoint: the tenant key alone identifies the license.
func (s *APIServer) PostLicenseActivate(c *fiber.Ctx) error {
	var req licenseActivateRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.TenantKey == "" {
		return fail(c, fiber.StatusBadRequest, "tenant_key is required")
	}

	tenant, err := s.repos.Tenant.GetByTenantKey(req.TenantKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, fiber.StatusNotFound, "Unknown tenant key")
		}
		return fail(c, fiber.StatusInternalServerError, "Failed to activate license")
	}
	if tenant.IsSuspended() {
		return fail(c, fiber.StatusForbidden, "Tenant is suspended")
	}

	apiKey, err := tenant.RotateAPIKey()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to issue API key")
	}
	if req.SiteURL != "" {
		tenant.SiteURL = req.SiteURL
	}
	tenant.Status = models.TenantStatusActive
	if err := s.repos.Tenant.Update(tenant); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to activate license")
	}

	return success(c, fiber.Map{
		"tenant_key": tenant.TenantKey,
		"api_key":    apiKey,
	})
}

// PostAnalyticsReport acknowledges an analytics report
func (s *APIServer) PostAnalyticsReport(c *fiber.Ctx) error {
	return success(c, fiber.Map{"message": "Report received"})
}

// GetTenantQuota returns limits, published counts and remaining headroom
// for every tracked quota feature.
func (s *APIServer) GetTenantQuota(c *fiber.Ctx) error {
	tc := tenantcontext.Get(c)

	reports, err := s.resolver.QuotaReport(tc.TenantID)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to resolve quotas")
	}

	limits := fiber.Map{}
	published := fiber.Map{}
	remaining := fiber.Map{}
	for _, report := range reports {
		limits[report.FeatureKey] = report.Limit
		published[report.FeatureKey] = report.Published
		remaining[report.FeatureKey] = report.Remaining
	}

	return success(c, fiber.Map{
		"limits":    limits,
		"published": published,
		"remaining": remaining,
	})
}

type aiTokenLogRequest struct {
	Tokens  int64  `json:"tokens"`
	Feature string `json:"feature"`
}

// PostAITokensLog records reported AI token usage and advances the
// tenant's cumulative counter.
func (s *APIServer) PostAITokensLog(c *fiber.Ctx) error {
	var req aiTokenLogRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Tokens <= 0 {
		return fail(c, fiber.StatusBadRequest, "tokens must be a positive number")
	}

	tenant := tenantcontext.Tenant(c)
	entry := &models.AITokenLog{
		TenantID: tenant.ID,
		Tokens:   req.Tokens,
		Feature:  req.Feature,
	}
	if err := s.repos.AIToken.CreateLog(entry); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to log token usage")
	}

	tenant.AITokensUsed += req.Tokens
	if err := s.repos.Tenant.Update(tenant); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to update usage counter")
	}

	return success(c, fiber.Map{"total_used": tenant.AITokensUsed})
}

// GetAITokensUsage returns the tenant's cumulative and same-day usage
func (s *APIServer) GetAITokensUsage(c *fiber.Ctx) error {
	tenant := tenantcontext.Tenant(c)

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := s.repos.AIToken.SumSince(tenant.ID, midnight)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to load token usage")
	}

	return success(c, fiber.Map{
		"total_used": tenant.AITokensUsed,
		"today":      today,
	})
}
