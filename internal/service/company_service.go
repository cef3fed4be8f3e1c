package service

import (
	"context"
	"time"

	"github.com/maxcrm/maxcrm-api/internal/model"
	"github.com/maxcrm/maxcrm-api/internal/queue"
	"github.com/maxcrm/maxcrm-api/internal/repository"
)

// CompanyStore is the repository surface the company service
// depends on.
type CompanyStore interface {
	Create(ctx context.Context, c *model.Company) error
	GetByIDAndOwner(ctx context.Context, id, uid uint64) (*model.Company, error)
	ListByOwner(ctx context.Context, uid uint64) ([]*model.Company, error)
	Search(ctx context.Context, q string, uid uint64) ([]*model.Company, error)
	Update(ctx context.Context, id, uid uint64, p model.CompanyPatch) (*model.Company, error)
	DeleteByIDAndOwner(ctx context.Context, id, uid uint64) (bool, error)
}

// CompanyService wraps the company store with pagination and
// activity events.
type CompanyService struct {
	store CompanyStore
	pub   publisher
}

func NewCompanyService(store CompanyStore, pub publisher) *CompanyService {
	return &CompanyService{store: store, pub: pub}
}

// List returns one page of the caller's companies, newest first.
func (s *CompanyService) List(ctx context.Context, uid uint64, page, limit int) ([]*model.Company, *model.Pagination, error) {
	all, err := s.store.ListByOwner(ctx, uid)
	if err != nil {
		return nil, nil, err
	}
	items, pg := paginate(all, page, limit)
	return items, pg, nil
}

// Get returns one company owned by uid.
func (s *CompanyService) Get(ctx context.Context, id, uid uint64) (*model.Company, error) {
	return s.store.GetByIDAndOwner(ctx, id, uid)
}

// Search runs a case-insensitive substring search over the
// caller's companies.
func (s *CompanyService) Search(ctx context.Context, q string, uid uint64) ([]*model.Company, error) {
	return s.store.Search(ctx, q, uid)
}

// Create persists a new company owned by the caller.
func (s *CompanyService) Create(ctx context.Context, uid uint64, c *model.Company) error {
	c.UserID = uid
	if err := s.store.Create(ctx, c); err != nil {
		return err
	}
	s.publish(ctx, c.ID, uid, queue.ActionCreated)
	return nil
}

// Update applies a partial update to the caller's company.
func (s *CompanyService) Update(ctx context.Context, id, uid uint64, p model.CompanyPatch) (*model.Company, error) {
	c, err := s.store.Update(ctx, id, uid, p)
	if err != nil {
		return nil, err
	}
	if !p.Empty() {
		s.publish(ctx, id, uid, queue.ActionUpdated)
	}
	return c, nil
}

// Delete removes the caller's company.
func (s *CompanyService) Delete(ctx context.Context, id, uid uint64) error {
	deleted, err := s.store.DeleteByIDAndOwner(ctx, id, uid)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.ErrCompanyNotFound
	}
	s.publish(ctx, id, uid, queue.ActionDeleted)
	return nil
}

func (s *CompanyService) publish(ctx context.Context, id, uid uint64, action string) {
	if s.pub == nil {
		return
	}
	_ = s.pub.Publish(ctx, queue.ActivityEvent{
		Entity:     "company",
		EntityID:   id,
		UserID:     uid,
		Action:     action,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}
