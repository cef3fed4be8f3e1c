package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxcrm/maxcrm-api/internal/model"
	"github.com/maxcrm/maxcrm-api/internal/queue"
	"github.com/maxcrm/maxcrm-api/internal/repository"
)

type fakeContactStore struct {
	contacts []*model.Contact
	deleted  bool
}

func (f *fakeContactStore) Create(_ context.Context, c *model.Contact) error {
	c.ID = uint64(len(f.contacts) + 1)
	f.contacts = append(f.contacts, c)
	return nil
}

func (f *fakeContactStore) GetByIDAndOwner(_ context.Context, id, uid uint64) (*model.Contact, error) {
	for _, c := range f.contacts {
		if c.ID == id && c.UserID == uid {
			return c, nil
		}
	}
	return nil, repository.ErrContactNotFound
}

func (f *fakeContactStore) ListByOwner(_ context.Context, uid uint64) ([]*model.Contact, error) {
	var out []*model.Contact
	for _, c := range f.contacts {
		if c.UserID == uid {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContactStore) ListByCompanyAndOwner(context.Context, uint64, uint64) ([]*model.Contact, error) {
	return nil, nil
}

func (f *fakeContactStore) Search(context.Context, string, uint64) ([]*model.Contact, error) {
	return nil, nil
}

func (f *fakeContactStore) Update(_ context.Context, id, uid uint64, _ model.ContactPatch) (*model.Contact, error) {
	return f.GetByIDAndOwner(nil, id, uid)
}

func (f *fakeContactStore) DeleteByIDAndOwner(context.Context, uint64, uint64) (bool, error) {
	return f.deleted, nil
}

func TestContactCreateOverridesClientSuppliedOwner(t *testing.T) {
	store := &fakeContactStore{}
	svc := NewContactService(store, nil)

	c := &model.Contact{FirstName: "John", LastName: "Doe", Email: "john@x.com", UserID: 999}
	require.NoError(t, svc.Create(context.Background(), 4, c))
	assert.Equal(t, uint64(4), c.UserID)
}

func TestContactGetIsTenantScoped(t *testing.T) {
	store := &fakeContactStore{contacts: []*model.Contact{{ID: 1, UserID: 1}}}
	svc := NewContactService(store, nil)

	_, err := svc.Get(context.Background(), 1, 2)
	assert.ErrorIs(t, err, repository.ErrContactNotFound)

	got, err := svc.Get(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.ID)
}

func TestContactDeletePublishesEvent(t *testing.T) {
	store := &fakeContactStore{deleted: true}
	pub := &recordingPublisher{}
	svc := NewContactService(store, pub)

	require.NoError(t, svc.Delete(context.Background(), 9, 4))
	require.Len(t, pub.events, 1)
	assert.Equal(t, "contact", pub.events[0].Entity)
	assert.Equal(t, queue.ActionDeleted, pub.events[0].Action)
	assert.Equal(t, uint64(9), pub.events[0].EntityID)
}

func TestContactDeleteMissReportsNotFound(t *testing.T) {
	store := &fakeContactStore{deleted: false}
	pub := &recordingPublisher{}
	svc := NewContactService(store, pub)

	err := svc.Delete(context.Background(), 9, 4)
	assert.ErrorIs(t, err, repository.ErrContactNotFound)
	assert.Empty(t, pub.events)
}
