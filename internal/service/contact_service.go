package service

import (
	"context"
	"time"

	"github.com/maxcrm/maxcrm-api/internal/model"
	"github.com/maxcrm/maxcrm-api/internal/queue"
	"github.com/maxcrm/maxcrm-api/internal/repository"
)

// ContactStore is the repository surface the contact service
// depends on.
type ContactStore interface {
	Create(ctx context.Context, c *model.Contact) error
	GetByIDAndOwner(ctx context.Context, id, uid uint64) (*model.Contact, error)
	ListByOwner(ctx context.Context, uid uint64) ([]*model.Contact, error)
	ListByCompanyAndOwner(ctx context.Context, companyID, uid uint64) ([]*model.Contact, error)
	Search(ctx context.Context, q string, uid uint64) ([]*model.Contact, error)
	Update(ctx context.Context, id, uid uint64, p model.ContactPatch) (*model.Contact, error)
	DeleteByIDAndOwner(ctx context.Context, id, uid uint64) (bool, error)
}

// ContactService wraps the contact store with pagination and
// activity events.
type ContactService struct {
	store ContactStore
	pub   publisher
}

func NewContactService(store ContactStore, pub publisher) *ContactService {
	return &ContactService{store: store, pub: pub}
}

// List returns one page of the caller's contacts, newest first.
func (s *ContactService) List(ctx context.Context, uid uint64, page, limit int) ([]*model.Contact, *model.Pagination, error) {
	all, err := s.store.ListByOwner(ctx, uid)
	if err != nil {
		return nil, nil, err
	}
	items, pg := paginate(all, page, limit)
	return items, pg, nil
}

// Get returns one contact owned by uid.
func (s *ContactService) Get(ctx context.Context, id, uid uint64) (*model.Contact, error) {
	return s.store.GetByIDAndOwner(ctx, id, uid)
}

// ByCompany returns the caller's contacts linked to a company.
func (s *ContactService) ByCompany(ctx context.Context, companyID, uid uint64) ([]*model.Contact, error) {
	return s.store.ListByCompanyAndOwner(ctx, companyID, uid)
}

// Search runs a case-insensitive substring search over the
// caller's contacts.
func (s *ContactService) Search(ctx context.Context, q string, uid uint64) ([]*model.Contact, error) {
	return s.store.Search(ctx, q, uid)
}

// Create persists a new contact. The owner comes from the
// authenticated identity, never from the request body.
func (s *ContactService) Create(ctx context.Context, uid uint64, c *model.Contact) error {
	c.UserID = uid
	if err := s.store.Create(ctx, c); err != nil {
		return err
	}
	s.publish(ctx, c.ID, uid, queue.ActionCreated)
	return nil
}

// Update applies a partial update to the caller's contact.
func (s *ContactService) Update(ctx context.Context, id, uid uint64, p model.ContactPatch) (*model.Contact, error) {
	c, err := s.store.Update(ctx, id, uid, p)
	if err != nil {
		return nil, err
	}
	if !p.Empty() {
		s.publish(ctx, id, uid, queue.ActionUpdated)
	}
	return c, nil
}

// Delete removes the caller's contact. A miss (absent or owned by
// someone else) surfaces as the repository's not-found error.
func (s *ContactService) Delete(ctx context.Context, id, uid uint64) error {
	deleted, err := s.store.DeleteByIDAndOwner(ctx, id, uid)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.ErrContactNotFound
	}
	s.publish(ctx, id, uid, queue.ActionDeleted)
	return nil
}

func (s *ContactService) publish(ctx context.Context, id, uid uint64, action string) {
	if s.pub == nil {
		return
	}
	_ = s.pub.Publish(ctx, queue.ActivityEvent{
		Entity:     "contact",
		EntityID:   id,
		UserID:     uid,
		Action:     action,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}
