package syncpush

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/wpthub/tenanthub/app/models"
	"github.com/wpthub/tenanthub/app/repository"
)

const (
	// SyncConfigPath is the well-known endpoint every tenant site exposes
	// for configuration pushes.
	SyncConfigPath = "/wp-json/wpt/v1/sync-config"

	// ModuleSyncPath receives module definition re-pushes.
	ModuleSyncPath = "/wp-json/wpt/v1/module-sync"

	pushTimeout = 30 * time.Second
)

// ErrNoSiteURL is returned when a push targets a tenant that has not been
// provisioned with a site URL yet.
var ErrNoSiteURL = errors.New("tenant has no site URL")

// TenantResult is one tenant's outcome inside a batch push
type TenantResult struct {
	TenantID  uint   `json:"tenant_id"`
	TenantKey string `json:"tenant_key"`
	SiteURL   string `json:"site_url"`
	Error     string `json:"error,omitempty"`
}

// BatchResult aggregates per-tenant outcomes of a bulk push. One
// unreachable tenant never aborts the batch; successes are not rolled
// back when later tenants fail.
type BatchResult struct {
	Success []TenantResult `json:"success"`
	Failed  []TenantResult `json:"failed"`
	Total   int            `json:"total"`
}

// Dispatcher serializes selected definitions into transfer payloads and
// delivers them to tenant sites. The HUB authenticates itself with the
// tenant's own key pair, mirroring the tenant->HUB direction.
type Dispatcher struct {
	tenants     repository.TenantRepository
	syncConfigs repository.SyncConfigRepository
	defs        repository.ContentDefRepository

	client *http.Client
}

// NewDispatcher creates a dispatcher from injected repositories
func NewDispatcher(
	tenants repository.TenantRepository,
	syncConfigs repository.SyncConfigRepository,
	defs repository.ContentDefRepository,
) *Dispatcher {
	return &Dispatcher{
		tenants:     tenants,
		syncConfigs: syncConfigs,
		defs:        defs,
		client: &http.Client{
			Timeout: pushTimeout,
		},
	}
}

// NewDispatcherFromRepositories creates a dispatcher from a repository bundle
func NewDispatcherFromRepositories(repos *repository.Repositories) *Dispatcher {
	return NewDispatcher(repos.Tenant, repos.SyncConfig, repos.ContentDef)
}

// SetHTTPClient replaces the HTTP client (tests)
func (d *Dispatcher) SetHTTPClient(client *http.Client) {
	d.client = client
}

// EffectiveConfig resolves the configuration that applies to a tenant:
// the per-tenant override when present and non-empty, otherwise the
// global default. A tenant with neither gets ErrNoConfig.
func (d *Dispatcher) EffectiveConfig(tenantID uint) (*models.SyncConfig, error) {
	config, err := d.syncConfigs.GetByTenantID(tenantID)
	if err == nil && !config.IsEmpty() {
		return config, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	global, err := d.syncConfigs.GetGlobal()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoConfig
		}
		return nil, err
	}
	return global, nil
}

// PushConfig assembles the tenant's effective configuration and delivers
// it to the tenant's sync endpoint.
func (d *Dispatcher) PushConfig(ctx context.Context, tenant *models.Tenant) error {
	config, err := d.EffectiveConfig(tenant.ID)
	if err != nil {
		return err
	}

	payload, err := d.BuildPayload(config)
	if err != nil {
		return err
	}

	return d.deliver(ctx, tenant, SyncConfigPath, payload)
}

// PushModule delivers one module's definition to a tenant site
func (d *Dispatcher) PushModule(ctx context.Context, tenant *models.Tenant, module *models.Module) error {
	body := map[string]interface{}{
		"module": map[string]interface{}{
			"slug":              module.Slug,
			"title":             module.Title,
			"short_description": module.ShortDescription,
			"description":       module.Description,
			"logo_url":          module.LogoURL,
			"price":             module.Price,
			"is_active":         module.IsActive,
		},
	}
	return d.deliver(ctx, tenant, ModuleSyncPath, body)
}

// EnsureFirstContact pushes the tenant's effective configuration exactly
// once, on the first authenticated request from a tenant with no push
// record. The attempt is recorded regardless of outcome (no automatic
// retry) and failures never affect the triggering request.
func (d *Dispatcher) EnsureFirstContact(ctx context.Context, tenant *models.Tenant) {
	_, err := d.syncConfigs.GetPushRecord(tenant.ID)
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("syncpush: push record lookup failed for tenant %d: %v", tenant.ID, err)
		return
	}

	if pushErr := d.PushConfig(ctx, tenant); pushErr != nil {
		log.Printf("syncpush: first-contact push failed for tenant %d: %v", tenant.ID, pushErr)
	}

	if saveErr := d.syncConfigs.SavePushRecord(tenant.ID, time.Now()); saveErr != nil {
		log.Printf("syncpush: failed to record first-contact push for tenant %d: %v", tenant.ID, saveErr)
	}
}

// PushModuleToTenants re-pushes a module definition to a list of tenants,
// sequentially, capturing each tenant's result independently.
func (d *Dispatcher) PushModuleToTenants(ctx context.Context, module *models.Module, tenants []models.Tenant) BatchResult {
	result := BatchResult{
		Success: []TenantResult{},
		Failed:  []TenantResult{},
		Total:   len(tenants),
	}

	for i := range tenants {
		tenant := tenants[i]
		entry := TenantResult{TenantID: tenant.ID, TenantKey: tenant.TenantKey, SiteURL: tenant.SiteURL}
		if err := d.PushModule(ctx, &tenant, module); err != nil {
			entry.Error = err.Error()
			result.Failed = append(result.Failed, entry)
			continue
		}
		result.Success = append(result.Success, entry)
	}

	return result
}

// PushConfigToTenants pushes each tenant's own effective configuration,
// sequentially, with independent result capture.
func (d *Dispatcher) PushConfigToTenants(ctx context.Context, tenants []models.Tenant) BatchResult {
	result := BatchResult{
		Success: []TenantResult{},
		Failed:  []TenantResult{},
		Total:   len(tenants),
	}

	for i := range tenants {
		tenant := tenants[i]
		entry := TenantResult{TenantID: tenant.ID, TenantKey: tenant.TenantKey, SiteURL: tenant.SiteURL}
		if err := d.PushConfig(ctx, &tenant); err != nil {
			entry.Error = err.Error()
			result.Failed = append(result.Failed, entry)
			continue
		}
		result.Success = append(result.Success, entry)
	}

	return result
}

// deliver POSTs a JSON body to a tenant-site endpoint, authenticated with
// the tenant's key pair. A non-2xx status or a malformed JSON reply is a
// push failure; there is no automatic retry.
func (d *Dispatcher) deliver(ctx context.Context, tenant *models.Tenant, path string, body interface{}) error {
	siteURL := strings.TrimRight(strings.TrimSpace(tenant.SiteURL), "/")
	if siteURL == "" {
		return ErrNoSiteURL
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, siteURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-WPT-Tenant-Key", tenant.TenantKey)
	req.Header.Set("X-WPT-API-Key", tenant.APIKey)

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("tenant site returned status %d", resp.StatusCode)
	}

	replyBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	var reply map[string]interface{}
	if err := json.Unmarshal(replyBody, &reply); err != nil {
		return fmt.Errorf("tenant site returned malformed JSON: %w", err)
	}

	return nil
}
