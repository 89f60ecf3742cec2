package entitlements

import (
	"errors"
	"log"
	"strconv"

	"gorm.io/gorm"

	"github.com/wpthub/tenanthub/app/models"
	"github.com/wpthub/tenanthub/app/repository"
)

// CapabilityPurchase is the capability key whose plan value can be
// overridden per tenant (Tenant.CanPurchase).
const CapabilityPurchase = "purchase_addons"

// Quota is the effective answer for one quota-type feature key.
type Quota struct {
	FeatureKey string      `json:"feature_key"`
	Limit      int64       `json:"limit"`
	Unlimited  bool        `json:"unlimited"`
	Unmapped   bool        `json:"unmapped,omitempty"`
	RawValue   interface{} `json:"raw_value,omitempty"`
}

// Display renders the quota for user-facing output. The unlimited
// sentinel always wins over any finite addon sum.
func (q Quota) Display() string {
	if q.Unlimited {
		return "Unlimited"
	}
	return strconv.FormatInt(q.Limit, 10)
}

// Remaining returns how much of the quota is left given current usage
func (q Quota) Remaining(used int64) int64 {
	if q.Unlimited {
		return -1
	}
	remaining := q.Limit - used
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Report is one row of a tenant's quota overview
type Report struct {
	FeatureKey string `json:"feature_key"`
	Name       string `json:"name"`
	Limit      string `json:"limit"`
	Published  int64  `json:"published"`
	Remaining  int64  `json:"remaining"`
}

// Resolver computes a tenant's effective entitlements from plan features,
// active addons and per-tenant overrides. Every resolution issues fresh
// reads; there is no caching layer to drift.
type Resolver struct {
	tenants  repository.TenantRepository
	plans    repository.PlanRepository
	addons   repository.AddonRepository
	mappings repository.FeatureMappingRepository
	content  repository.ContentRecordRepository
}

// NewResolver creates a resolver from injected repositories
func NewResolver(
	tenants repository.TenantRepository,
	plans repository.PlanRepository,
	addons repository.AddonRepository,
	mappings repository.FeatureMappingRepository,
	content repository.ContentRecordRepository,
) *Resolver {
	return &Resolver{
		tenants:  tenants,
		plans:    plans,
		addons:   addons,
		mappings: mappings,
		content:  content,
	}
}

// NewResolverFromRepositories creates a resolver from a repository bundle
func NewResolverFromRepositories(repos *repository.Repositories) *Resolver {
	return NewResolver(repos.Tenant, repos.Plan, repos.Addon, repos.FeatureMapping, repos.ContentRecord)
}

// ResolveQuota computes the effective quota for one feature key:
// plan value plus the quantity-weighted increments of every active addon
// wired to the key. The sentinel plan value short-circuits addon math.
func (r *Resolver) ResolveQuota(tenantID uint, featureKey string) (Quota, error) {
	quota := Quota{FeatureKey: featureKey}

	tenant, err := r.tenants.GetByID(tenantID)
	if err != nil {
		return quota, err
	}

	raw, found, err := r.planFeatureValue(tenant, featureKey)
	if err != nil {
		return quota, err
	}

	if _, err := r.mappings.GetByKey(featureKey); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return quota, err
		}
		// Data-quality event: the key is used but never declared.
		// The raw stored value is passed through uninterpreted.
		log.Printf("entitlements: no feature mapping for key %q (tenant %d)", featureKey, tenantID)
		quota.Unmapped = true
		quota.RawValue = raw
		quota.Limit = toInt64(raw)
		return quota, nil
	}

	if !found {
		// Tenant without a plan, or plan without the key: zero-value.
		quota.Limit = 0
	} else {
		quota.Limit = toInt64(raw)
	}

	if quota.Limit == models.UnlimitedQuota {
		quota.Unlimited = true
		return quota, nil
	}

	increments, err := r.addonIncrements(tenantID, featureKey)
	if err != nil {
		return quota, err
	}
	quota.Limit += increments

	return quota, nil
}

// ResolveBool computes the effective boolean/capability answer for one
// feature key. The plan value is authoritative unless a documented
// per-tenant override exists, in which case the override wins.
func (r *Resolver) ResolveBool(tenantID uint, featureKey string) (bool, error) {
	tenant, err := r.tenants.GetByID(tenantID)
	if err != nil {
		return false, err
	}

	if featureKey == CapabilityPurchase && tenant.CanPurchase != nil {
		return *tenant.CanPurchase, nil
	}

	raw, found, err := r.planFeatureValue(tenant, featureKey)
	if err != nil || !found {
		return false, err
	}

	return toBool(raw), nil
}

// Usage counts a tenant's published content of the type a quota key maps
// to. Computed on demand from live rows, never from a stored counter.
func (r *Resolver) Usage(tenantID uint, featureKey string) (int64, error) {
	mapping, err := r.mappings.GetByKey(featureKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if mapping.Type != models.FeatureTypePostType || mapping.TargetIdentifier == "" {
		return 0, nil
	}
	return r.content.CountPublished(mapping.TargetIdentifier, tenantID)
}

// QuotaReport resolves every quota-type feature mapping for a tenant into
// a limits/published/remaining overview.
func (r *Resolver) QuotaReport(tenantID uint) ([]Report, error) {
	mappings, err := r.mappings.GetAll()
	if err != nil {
		return nil, err
	}

	reports := make([]Report, 0, len(mappings))
	for _, mapping := range mappings {
		if !mapping.IsQuota {
			continue
		}
		quota, err := r.ResolveQuota(tenantID, mapping.FeatureKey)
		if err != nil {
			return nil, err
		}
		used, err := r.Usage(tenantID, mapping.FeatureKey)
		if err != nil {
			return nil, err
		}
		reports = append(reports, Report{
			FeatureKey: mapping.FeatureKey,
			Name:       mapping.Name,
			Limit:      quota.Display(),
			Published:  used,
			Remaining:  quota.Remaining(used),
		})
	}
	return reports, nil
}

// planFeatureValue reads the raw plan value for a key. A tenant without a
// plan resolves every key to the zero-value rather than failing.
func (r *Resolver) planFeatureValue(tenant *models.Tenant, featureKey string) (interface{}, bool, error) {
	if tenant.PlanID == nil {
		return nil, false, nil
	}
	plan, err := r.plans.GetByID(*tenant.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	raw, ok := plan.FeatureMap()[featureKey]
	return raw, ok, nil
}

// addonIncrements sums quantity * per-unit increment over the tenant's
// active addons that are wired to the feature key.
func (r *Resolver) addonIncrements(tenantID uint, featureKey string) (int64, error) {
	tas, err := r.addons.ListActiveByTenant(tenantID)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, ta := range tas {
		if ta.Addon == nil || !ta.Addon.IsActive {
			continue
		}
		total += int64(ta.Quantity) * ta.Addon.IncrementFor(featureKey)
	}
	return total, nil
}

func toInt64(raw interface{}) int64 {
	switch v := raw.(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return n
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func toBool(raw interface{}) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v == "true" || v == "1" || v == "yes"
	default:
		return false
	}
}
