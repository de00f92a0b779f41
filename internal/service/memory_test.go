package service_test

import (
	"context"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"planie.app/api/internal/model"
	"planie.app/api/internal/service"
	"planie.app/api/internal/store"
)

// memDB is an in-memory stand-in for Postgres. It enforces the
// (workspace_id, user_id) uniqueness of members and rolls back on tx error.
type memDB struct {
	workspaces map[int64]model.Workspace
	members    []model.Membership
	images     map[int64]model.Image
	clock      time.Time
}

func newMemDB() *memDB {
	return &memDB{
		workspaces: map[int64]model.Workspace{},
		images:     map[int64]model.Image{},
		clock:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (db *memDB) tick() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

func (db *memDB) Workspaces() store.WorkspaceStore   { return memWorkspaces{db} }
func (db *memDB) Memberships() store.MembershipStore { return memMembers{db} }
func (db *memDB) Images() store.ImageStore           { return memImages{db} }

func (db *memDB) WithTx(_ context.Context, fn func(stores service.StoreProvider) error) error {
	wsSnap := make(map[int64]model.Workspace, len(db.workspaces))
	for k, v := range db.workspaces {
		wsSnap[k] = v
	}
	imgSnap := make(map[int64]model.Image, len(db.images))
	for k, v := range db.images {
		imgSnap[k] = v
	}
	memSnap := append([]model.Membership(nil), db.members...)

	if err := fn(db); err != nil {
		db.workspaces, db.images, db.members = wsSnap, imgSnap, memSnap
		return err
	}
	return nil
}

func (db *memDB) membershipsOf(workspaceID int64) []model.Membership {
	var out []model.Membership
	for _, m := range db.members {
		if m.WorkspaceID == workspaceID {
			out = append(out, m)
		}
	}
	return out
}

type memWorkspaces struct{ db *memDB }

func (s memWorkspaces) GetByID(_ context.Context, id int64) (*model.Workspace, error) {
	ws, ok := s.db.workspaces[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &ws, nil
}

func (s memWorkspaces) Create(_ context.Context, ws *model.Workspace) error {
	if _, ok := s.db.workspaces[ws.ID]; ok {
		return store.ErrDuplicate
	}
	now := s.db.tick()
	ws.CreatedAt, ws.UpdatedAt = now, now
	s.db.workspaces[ws.ID] = *ws
	return nil
}

func (s memWorkspaces) Update(_ context.Context, ws *model.Workspace) error {
	cur, ok := s.db.workspaces[ws.ID]
	if !ok {
		return store.ErrNotFound
	}
	cur.Name = ws.Name
	cur.ImageURL = ws.ImageURL
	cur.UpdatedAt = s.db.tick()
	s.db.workspaces[ws.ID] = cur
	*ws = cur
	return nil
}

func (s memWorkspaces) UpdateInviteCode(_ context.Context, id int64, code string) (*model.Workspace, error) {
	cur, ok := s.db.workspaces[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cur.InviteCode = code
	cur.UpdatedAt = s.db.tick()
	s.db.workspaces[id] = cur
	return &cur, nil
}

func (s memWorkspaces) Delete(_ context.Context, id int64) error {
	if _, ok := s.db.workspaces[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.db.workspaces, id)
	return nil
}

func (s memWorkspaces) ListByIDs(_ context.Context, ids []int64) ([]model.Workspace, error) {
	out := []model.Workspace{}
	for _, id := range ids {
		if ws, ok := s.db.workspaces[id]; ok {
			out = append(out, ws)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

type memMembers struct{ db *memDB }

func (s memMembers) GetByWorkspaceAndUser(_ context.Context, workspaceID int64, userID string) (*model.Membership, error) {
	for _, m := range s.db.members {
		if m.WorkspaceID == workspaceID && m.UserID == userID {
			return &m, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s memMembers) Create(_ context.Context, m *model.Membership) error {
	for _, existing := range s.db.members {
		if existing.WorkspaceID == m.WorkspaceID && existing.UserID == m.UserID {
			return store.ErrDuplicate
		}
	}
	m.CreatedAt = s.db.tick()
	s.db.members = append(s.db.members, *m)
	return nil
}

func (s memMembers) ListByUser(_ context.Context, userID string) ([]model.Membership, error) {
	var out []model.Membership
	for _, m := range s.db.members {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

type memImages struct{ db *memDB }

func (s memImages) Store(_ context.Context, img *model.Image) error {
	img.CreatedAt = s.db.tick()
	s.db.images[img.ID] = *img
	return nil
}

func (s memImages) Get(_ context.Context, id int64) (*model.Image, error) {
	img, ok := s.db.images[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &img, nil
}

// memKV is an in-memory Redis stand-in for the idempotency store. Like a real
// client it refuses to run a command on a done context.
type memKV struct {
	values map[string]string
}

func newMemKV() *memKV {
	return &memKV{values: map[string]string{}}
}

func (kv *memKV) SetNX(ctx context.Context, key string, value any, _ time.Duration) *redis.BoolCmd {
	if err := ctx.Err(); err != nil {
		return redis.NewBoolResult(false, err)
	}
	if _, ok := kv.values[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	kv.values[key] = value.(string)
	return redis.NewBoolResult(true, nil)
}

func (kv *memKV) Get(ctx context.Context, key string) *redis.StringCmd {
	if err := ctx.Err(); err != nil {
		return redis.NewStringResult("", err)
	}
	v, ok := kv.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (kv *memKV) Set(ctx context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	if err := ctx.Err(); err != nil {
		return redis.NewStatusResult("", err)
	}
	kv.values[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (kv *memKV) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if err := ctx.Err(); err != nil {
		return redis.NewIntResult(0, err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := kv.values[k]; ok {
			delete(kv.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}
