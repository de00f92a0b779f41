package store

import "planie.app/api/core/db"

// Stores hands out Postgres-backed stores bound to a single Querier, which is
// either the pool or an open transaction.
type Stores struct {
	q db.Querier
}

func NewStores(q db.Querier) *Stores {
	return &Stores{q: q}
}

func (s *Stores) Workspaces() WorkspaceStore {
	return newWorkspaceStore(s.q)
}

func (s *Stores) Memberships() MembershipStore {
	return newMembershipStore(s.q)
}

func (s *Stores) Images() ImageStore {
	return newImageStore(s.q)
}
