package mirror

import (
	"errors"

	"gorm.io/gorm"

	"github.com/wpthub/tenanthub/app/models"
	"github.com/wpthub/tenanthub/app/repository"
)

var (
	// ErrNotFound is returned when a delete targets content that was
	// never mirrored. The failure is reported, not swallowed as success.
	ErrNotFound = errors.New("no mirrored record exists for this origin id")

	// ErrMissingType is returned when the request omits the content type.
	ErrMissingType = errors.New("post_type is required")

	// ErrMissingOriginID is returned when the request omits the origin id.
	ErrMissingOriginID = errors.New("post id is required")
)

// IncomingPost is one content item as delivered by a tenant site
type IncomingPost struct {
	ID            uint                   `json:"id"`
	Title         string                 `json:"title"`
	Content       string                 `json:"content"`
	Excerpt       string                 `json:"excerpt"`
	Status        string                 `json:"status"`
	ACFFields     map[string]interface{} `json:"acf_fields"`
	FeaturedImage string                 `json:"featured_image"`
}

// Protocol mirrors tenant-authored content into the HUB. Records are
// keyed by (content type, tenant id, origin id); replaying the same
// payload any number of times converges to exactly one record.
type Protocol struct {
	records repository.ContentRecordRepository
}

// NewProtocol creates a mirror protocol from an injected repository
func NewProtocol(records repository.ContentRecordRepository) *Protocol {
	return &Protocol{records: records}
}

// NewProtocolFromRepositories creates a mirror protocol from a repository bundle
func NewProtocolFromRepositories(repos *repository.Repositories) *Protocol {
	return NewProtocol(repos.ContentRecord)
}

// Upsert creates or updates the single mirror for an incoming post.
// Provenance (tenant id, origin id) is attached at creation and is the
// lookup key ever after; the author is always the tenant's owning user.
func (p *Protocol) Upsert(tenant *models.Tenant, postType string, post IncomingPost) (*models.ContentRecord, bool, error) {
	if postType == "" {
		return nil, false, ErrMissingType
	}
	if post.ID == 0 {
		return nil, false, ErrMissingOriginID
	}

	status := post.Status
	if status == "" {
		status = models.ContentStatusPublish
	}

	existing, err := p.records.FindByOrigin(postType, tenant.ID, post.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if existing != nil {
		existing.Title = post.Title
		existing.Body = post.Content
		existing.Excerpt = post.Excerpt
		existing.Status = status
		existing.AuthorID = tenant.UserID
		existing.FeaturedImageURL = post.FeaturedImage
		if err := applyFields(existing, post.ACFFields); err != nil {
			return nil, false, err
		}
		if err := p.records.Update(existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	record := &models.ContentRecord{
		Type:             postType,
		TenantID:         tenant.ID,
		OriginID:         post.ID,
		Title:            post.Title,
		Body:             post.Content,
		Excerpt:          post.Excerpt,
		Status:           status,
		AuthorID:         tenant.UserID,
		FeaturedImageURL: post.FeaturedImage,
	}
	if err := applyFields(record, post.ACFFields); err != nil {
		return nil, false, err
	}
	if err := p.records.Create(record); err != nil {
		return nil, false, err
	}
	return record, true, nil
}

// Delete hard-deletes the mirror for a (type, tenant, origin) triple.
// Deleting something never mirrored is a reported failure.
func (p *Protocol) Delete(tenant *models.Tenant, postType string, originID uint) error {
	if postType == "" {
		return ErrMissingType
	}
	if originID == 0 {
		return ErrMissingOriginID
	}

	if _, err := p.records.FindByOrigin(postType, tenant.ID, originID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return p.records.DeleteByOrigin(postType, tenant.ID, originID)
}

// applyFields writes the flat structured-field map onto the record.
// An empty map leaves existing values untouched, so a HUB without the
// field subsystem skips this step without failing the sync.
func applyFields(record *models.ContentRecord, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return record.SetFieldMap(fields)
}
