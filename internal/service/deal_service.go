package service

import (
	"context"
	"time"

	"github.com/maxcrm/maxcrm-api/internal/model"
	"github.com/maxcrm/maxcrm-api/internal/queue"
	"github.com/maxcrm/maxcrm-api/internal/repository"
)

// DealStore is the repository surface the deal service depends on.
type DealStore interface {
	Create(ctx context.Context, d *model.Deal) error
	GetByIDAndOwner(ctx context.Context, id, uid uint64) (*model.Deal, error)
	ListByOwner(ctx context.Context, uid uint64) ([]*model.Deal, error)
	ListByStageAndOwner(ctx context.Context, stage string, uid uint64) ([]*model.Deal, error)
	ListByContactAndOwner(ctx context.Context, contactID, uid uint64) ([]*model.Deal, error)
	ListByCompanyAndOwner(ctx context.Context, companyID, uid uint64) ([]*model.Deal, error)
	Search(ctx context.Context, q string, uid uint64) ([]*model.Deal, error)
	SumValueByOwner(ctx context.Context, uid uint64) (float64, error)
	SumValueByStageAndOwner(ctx context.Context, stage string, uid uint64) (float64, error)
	CountByOwner(ctx context.Context, uid uint64) (int, error)
	Update(ctx context.Context, id, uid uint64, p model.DealPatch) (*model.Deal, error)
	DeleteByIDAndOwner(ctx context.Context, id, uid uint64) (bool, error)
}

// DealService wraps the deal store with pagination, stats
// assembly and activity events.
type DealService struct {
	store DealStore
	pub   publisher
}

func NewDealService(store DealStore, pub publisher) *DealService {
	return &DealService{store: store, pub: pub}
}

// List returns one page of the caller's deals, newest first.
func (s *DealService) List(ctx context.Context, uid uint64, page, limit int) ([]*model.Deal, *model.Pagination, error) {
	all, err := s.store.ListByOwner(ctx, uid)
	if err != nil {
		return nil, nil, err
	}
	items, pg := paginate(all, page, limit)
	return items, pg, nil
}

// Get returns one deal owned by uid.
func (s *DealService) Get(ctx context.Context, id, uid uint64) (*model.Deal, error) {
	return s.store.GetByIDAndOwner(ctx, id, uid)
}

// ByStage returns the caller's deals in a pipeline stage.
func (s *DealService) ByStage(ctx context.Context, stage string, uid uint64) ([]*model.Deal, error) {
	return s.store.ListByStageAndOwner(ctx, stage, uid)
}

// ByContact returns the caller's deals linked to a contact.
func (s *DealService) ByContact(ctx context.Context, contactID, uid uint64) ([]*model.Deal, error) {
	return s.store.ListByContactAndOwner(ctx, contactID, uid)
}

// ByCompany returns the caller's deals linked to a company.
func (s *DealService) ByCompany(ctx context.Context, companyID, uid uint64) ([]*model.Deal, error) {
	return s.store.ListByCompanyAndOwner(ctx, companyID, uid)
}

// Search runs a case-insensitive substring search over the
// caller's deal titles.
func (s *DealService) Search(ctx context.Context, q string, uid uint64) ([]*model.Deal, error) {
	return s.store.Search(ctx, q, uid)
}

// Create persists a new deal owned by the caller.
func (s *DealService) Create(ctx context.Context, uid uint64, d *model.Deal) error {
	d.UserID = uid
	if err := s.store.Create(ctx, d); err != nil {
		return err
	}
	s.publish(ctx, d.ID, uid, queue.ActionCreated)
	return nil
}

// Update applies a partial update to the caller's deal.
func (s *DealService) Update(ctx context.Context, id, uid uint64, p model.DealPatch) (*model.Deal, error) {
	d, err := s.store.Update(ctx, id, uid, p)
	if err != nil {
		return nil, err
	}
	if !p.Empty() {
		s.publish(ctx, id, uid, queue.ActionUpdated)
	}
	return d, nil
}

// Delete removes the caller's deal.
func (s *DealService) Delete(ctx context.Context, id, uid uint64) error {
	deleted, err := s.store.DeleteByIDAndOwner(ctx, id, uid)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.ErrDealNotFound
	}
	s.publish(ctx, id, uid, queue.ActionDeleted)
	return nil
}

// Stats assembles the per-stage value breakdown. Every stage
// bucket is present in the result, zero-filled when the caller has
// no deals in it.
func (s *DealService) Stats(ctx context.Context, uid uint64) (*model.DealStats, error) {
	total, err := s.store.SumValueByOwner(ctx, uid)
	if err != nil {
		return nil, err
	}
	count, err := s.store.CountByOwner(ctx, uid)
	if err != nil {
		return nil, err
	}
	byStage := make(map[string]float64, len(model.Stages))
	for _, stage := range model.Stages {
		v, err := s.store.SumValueByStageAndOwner(ctx, stage, uid)
		if err != nil {
			return nil, err
		}
		byStage[stage] = v
	}
	return &model.DealStats{
		TotalValue:   total,
		TotalDeals:   count,
		ValueByStage: byStage,
	}, nil
}

func (s *DealService) publish(ctx context.Context, id, uid uint64, action string) {
	if s.pub == nil {
		return
	}
	_ = s.pub.Publish(ctx, queue.ActivityEvent{
		Entity:     "deal",
		EntityID:   id,
		UserID:     uid,
		Action:     action,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}
