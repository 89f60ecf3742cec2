package addons

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/wpthub/tenanthub/app/models"
	"github.com/wpthub/tenanthub/app/repository"
)

// ErrAddonInactive is returned when the addon is disabled in the catalog.
var ErrAddonInactive = errors.New("addon is not active")

// DependencyError reports which required modules block an addon
// activation. Missing modules are listed by display title.
type DependencyError struct {
	AddonSlug      string
	MissingModules []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("addon %q requires the following modules to be active: %s",
		e.AddonSlug, strings.Join(e.MissingModules, ", "))
}

// Service activates and deactivates addons for tenants. Addons gate on
// modules (never the other way around): every slug in the addon's
// required list must be an active module for the tenant.
type Service struct {
	addons  repository.AddonRepository
	modules repository.ModuleRepository
}

// NewService creates an addon service from injected repositories
func NewService(addons repository.AddonRepository, modules repository.ModuleRepository) *Service {
	return &Service{addons: addons, modules: modules}
}

// NewServiceFromRepositories creates an addon service from a repository bundle
func NewServiceFromRepositories(repos *repository.Repositories) *Service {
	return NewService(repos.Addon, repos.Module)
}

// Activate turns an addon on for a tenant with the given quantity.
// Reactivating an existing pair updates the single row in place.
func (s *Service) Activate(tenantID, addonID uint, quantity int) (*models.TenantAddon, error) {
	addon, err := s.addons.GetByID(addonID)
	if err != nil {
		return nil, err
	}
	if !addon.IsActive {
		return nil, ErrAddonInactive
	}
	if quantity < 1 {
		quantity = 1
	}

	if err := s.checkDependencies(tenantID, addon); err != nil {
		return nil, err
	}

	ta := &models.TenantAddon{
		TenantID:    tenantID,
		AddonID:     addonID,
		Quantity:    quantity,
		Status:      models.AddonStatusActive,
		ActivatedAt: time.Now(),
	}
	if err := s.addons.UpsertTenantAddon(ta); err != nil {
		return nil, err
	}
	return ta, nil
}

// Deactivate suspends an addon for a tenant. The row is kept so a later
// reactivation lands on it.
func (s *Service) Deactivate(tenantID, addonID uint) (*models.TenantAddon, error) {
	ta, err := s.addons.GetTenantAddon(tenantID, addonID)
	if err != nil {
		return nil, err
	}

	ta.Status = models.AddonStatusSuspended
	if err := s.addons.UpsertTenantAddon(ta); err != nil {
		return nil, err
	}
	return ta, nil
}

// checkDependencies verifies every required module is active for the
// tenant and reports the missing ones by display title.
func (s *Service) checkDependencies(tenantID uint, addon *models.Addon) error {
	required := addon.RequiredModuleSlugs()
	if len(required) == 0 {
		return nil
	}

	activeSlugs, err := s.modules.ListActiveSlugsByTenant(tenantID)
	if err != nil {
		return err
	}
	active := make(map[string]bool, len(activeSlugs))
	for _, slug := range activeSlugs {
		active[slug] = true
	}

	var missing []string
	for _, slug := range required {
		if active[slug] {
			continue
		}
		title := slug
		if module, err := s.modules.GetBySlug(slug); err == nil {
			title = module.Title
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		missing = append(missing, title)
	}

	if len(missing) > 0 {
		return &DependencyError{AddonSlug: addon.Slug, MissingModules: missing}
	}
	return nil
}
