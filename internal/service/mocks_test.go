package service_test

import (
	"context"

	"planie.app/api/internal/model"
	"planie.app/api/internal/service"
	"planie.app/api/internal/store"
)

type mockWorkspaceStore struct {
	getByIDFn          func(ctx context.Context, id int64) (*model.Workspace, error)
	createFn           func(ctx context.Context, ws *model.Workspace) error
	updateFn           func(ctx context.Context, ws *model.Workspace) error
	updateInviteCodeFn func(ctx context.Context, id int64, code string) (*model.Workspace, error)
	deleteFn           func(ctx context.Context, id int64) error
	listByIDsFn        func(ctx context.Context, ids []int64) ([]model.Workspace, error)
	createCalls        int
	deleteCalls        int
	listByIDsCalls     int
}

func (m *mockWorkspaceStore) GetByID(ctx context.Context, id int64) (*model.Workspace, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockWorkspaceStore) Create(ctx context.Context, ws *model.Workspace) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, ws)
	}
	return nil
}

func (m *mockWorkspaceStore) Update(ctx context.Context, ws *model.Workspace) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, ws)
	}
	return nil
}

func (m *mockWorkspaceStore) UpdateInviteCode(ctx context.Context, id int64, code string) (*model.Workspace, error) {
	if m.updateInviteCodeFn != nil {
		return m.updateInviteCodeFn(ctx, id, code)
	}
	return &model.Workspace{ID: id, InviteCode: code}, nil
}

func (m *mockWorkspaceStore) Delete(ctx context.Context, id int64) error {
	m.deleteCalls++
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockWorkspaceStore) ListByIDs(ctx context.Context, ids []int64) ([]model.Workspace, error) {
	m.listByIDsCalls++
	if m.listByIDsFn != nil {
		return m.listByIDsFn(ctx, ids)
	}
	return []model.Workspace{}, nil
}

type mockMembershipStore struct {
	getFn        func(ctx context.Context, workspaceID int64, userID string) (*model.Membership, error)
	createFn     func(ctx context.Context, m *model.Membership) error
	listByUserFn func(ctx context.Context, userID string) ([]model.Membership, error)
	created      []model.Membership
}

func (m *mockMembershipStore) GetByWorkspaceAndUser(ctx context.Context, workspaceID int64, userID string) (*model.Membership, error) {
	if m.getFn != nil {
		return m.getFn(ctx, workspaceID, userID)
	}
	return nil, store.ErrNotFound
}

func (m *mockMembershipStore) Create(ctx context.Context, mem *model.Membership) error {
	if m.createFn != nil {
		if err := m.createFn(ctx, mem); err != nil {
			return err
		}
	}
	m.created = append(m.created, *mem)
	return nil
}

func (m *mockMembershipStore) ListByUser(ctx context.Context, userID string) ([]model.Membership, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return nil, nil
}

type mockImageStore struct {
	storeFn func(ctx context.Context, img *model.Image) error
	stored  map[int64]model.Image
}

func (m *mockImageStore) Store(ctx context.Context, img *model.Image) error {
	if m.storeFn != nil {
		if err := m.storeFn(ctx, img); err != nil {
			return err
		}
	}
	if m.stored == nil {
		m.stored = map[int64]model.Image{}
	}
	m.stored[img.ID] = *img
	return nil
}

func (m *mockImageStore) Get(_ context.Context, id int64) (*model.Image, error) {
	img, ok := m.stored[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &img, nil
}

type mockIdempotencyStore struct {
	reserveFn     func(ctx context.Context, userID, key string) (int64, bool, error)
	completed     map[string]int64
	released      []string
	completeCalls int
}

func (m *mockIdempotencyStore) Reserve(ctx context.Context, userID, key string) (int64, bool, error) {
	if m.reserveFn != nil {
		return m.reserveFn(ctx, userID, key)
	}
	return 0, true, nil
}

func (m *mockIdempotencyStore) Complete(_ context.Context, userID, key string, workspaceID int64) error {
	m.completeCalls++
	if m.completed == nil {
		m.completed = map[string]int64{}
	}
	m.completed[userID+":"+key] = workspaceID
	return nil
}

func (m *mockIdempotencyStore) Release(_ context.Context, userID, key string) error {
	m.released = append(m.released, userID+":"+key)
	return nil
}

type mockProducer struct {
	publishFn func(ctx context.Context, event model.WorkspaceEvent) error
	events    []model.WorkspaceEvent
}

func (m *mockProducer) Publish(ctx context.Context, event model.WorkspaceEvent) error {
	m.events = append(m.events, event)
	if m.publishFn != nil {
		return m.publishFn(ctx, event)
	}
	return nil
}

func (m *mockProducer) Close() error { return nil }

func (m *mockProducer) types() []model.EventType {
	out := make([]model.EventType, len(m.events))
	for i, e := range m.events {
		out[i] = e.Type
	}
	return out
}

type mockStoreProvider struct {
	work   store.WorkspaceStore
	member store.MembershipStore
	images store.ImageStore
}

func (m *mockStoreProvider) Workspaces() store.WorkspaceStore   { return m.work }
func (m *mockStoreProvider) Memberships() store.MembershipStore { return m.member }
func (m *mockStoreProvider) Images() store.ImageStore           { return m.images }

type mockTxRunner struct {
	withTxFn func(ctx context.Context, fn func(stores service.StoreProvider) error) error
	calls    int
}

func (m *mockTxRunner) WithTx(ctx context.Context, fn func(stores service.StoreProvider) error) error {
	m.calls++
	if m.withTxFn != nil {
		return m.withTxFn(ctx, fn)
	}
	return fn(&mockStoreProvider{})
}

func strPtr(s string) *string {
	return &s
}

func adminOf(workspaceID int64, userID string) *model.Membership {
	return &model.Membership{ID: 1, WorkspaceID: workspaceID, UserID: userID, Role: model.RoleAdmin}
}

func memberOf(workspaceID int64, userID string) *model.Membership {
	return &model.Membership{ID: 2, WorkspaceID: workspaceID, UserID: userID, Role: model.RoleMember}
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
