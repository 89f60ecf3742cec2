package modules

import (
	"errors"
	"time"

	"github.com/wpthub/tenanthub/app/models"
	"github.com/wpthub/tenanthub/app/repository"
)

var (
	// ErrNotVisible is returned when a tenant attempts to activate a
	// module it cannot see (specific_tenants mode without an
	// availability row).
	ErrNotVisible = errors.New("module is not available for this tenant")

	// ErrModuleInactive is returned when the module is disabled in the
	// catalog.
	ErrModuleInactive = errors.New("module is not active")
)

// Registry answers visibility questions and drives the per-(tenant,
// module) activation state machine:
// not-visible -> visible -> active <-> inactive.
type Registry struct {
	modules repository.ModuleRepository
	tenants repository.TenantRepository
}

// NewRegistry creates a registry from injected repositories
func NewRegistry(modules repository.ModuleRepository, tenants repository.TenantRepository) *Registry {
	return &Registry{modules: modules, tenants: tenants}
}

// NewRegistryFromRepositories creates a registry from a repository bundle
func NewRegistryFromRepositories(repos *repository.Repositories) *Registry {
	return NewRegistry(repos.Module, repos.Tenant)
}

// IsVisible reports whether a tenant can see a module. all_tenants modules
// are visible to everyone; specific_tenants modules require an explicit
// availability row, checked live with no caching delay.
func (g *Registry) IsVisible(module *models.Module, tenantID uint) (bool, error) {
	if module.AvailabilityMode == models.AvailabilityAllTenants {
		return true, nil
	}
	return g.modules.HasAvailability(module.ID, tenantID)
}

// VisibleModules returns the active catalog filtered by what the tenant
// is allowed to see.
func (g *Registry) VisibleModules(tenantID uint) ([]models.Module, error) {
	all, err := g.modules.GetActive()
	if err != nil {
		return nil, err
	}

	visible := make([]models.Module, 0, len(all))
	for _, module := range all {
		ok, err := g.IsVisible(&module, tenantID)
		if err != nil {
			return nil, err
		}
		if ok {
			visible = append(visible, module)
		}
	}
	return visible, nil
}

// EligibleTenants returns every tenant currently able to see the module;
// this is the audience for info/availability re-pushes.
func (g *Registry) EligibleTenants(module *models.Module) ([]models.Tenant, error) {
	if module.AvailabilityMode == models.AvailabilityAllTenants {
		return g.tenants.ListAll()
	}

	ids, err := g.modules.ListAvailabilityTenantIDs(module.ID)
	if err != nil {
		return nil, err
	}

	tenants := make([]models.Tenant, 0, len(ids))
	for _, id := range ids {
		tenant, err := g.tenants.GetByID(id)
		if err != nil {
			continue
		}
		tenants = append(tenants, *tenant)
	}
	return tenants, nil
}

// Activate transitions a (tenant, module) pair to active, recording who
// performed the transition. Permitted only while the module is active in
// the catalog and visible to the tenant.
func (g *Registry) Activate(tenantID, moduleID uint, actor string) (*models.TenantModule, error) {
	module, err := g.modules.GetByID(moduleID)
	if err != nil {
		return nil, err
	}
	if !module.IsActive {
		return nil, ErrModuleInactive
	}

	visible, err := g.IsVisible(module, tenantID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrNotVisible
	}

	tm := &models.TenantModule{
		TenantID:    tenantID,
		ModuleID:    moduleID,
		Status:      models.ModuleStatusActive,
		LastActor:   actor,
		LastActorAt: time.Now(),
	}
	if err := g.modules.UpsertTenantModule(tm); err != nil {
		return nil, err
	}
	return tm, nil
}

// Deactivate transitions a (tenant, module) pair to inactive, recording
// who performed the transition. A pair that was never activated has no
// row to transition and is reported as not found.
func (g *Registry) Deactivate(tenantID, moduleID uint, actor string) (*models.TenantModule, error) {
	if _, err := g.modules.GetByID(moduleID); err != nil {
		return nil, err
	}

	tm, err := g.modules.GetTenantModule(tenantID, moduleID)
	if err != nil {
		return nil, err
	}

	tm.Status = models.ModuleStatusInactive
	tm.LastActor = actor
	tm.LastActorAt = time.Now()
	if err := g.modules.UpsertTenantModule(tm); err != nil {
		return nil, err
	}
	return tm, nil
}
