package service

import (
	"planie.app/api/core/config"
	"planie.app/api/internal/queue"
	"planie.app/api/internal/store"
)

type Services struct {
	stores       *store.Stores
	txRunner     TxRunner
	idempotency  store.IdempotencyStore
	events       queue.Producer
	workspaceCfg config.WorkspaceConfig
}

// NewServices wires services over the given stores. idempotency may be nil,
// in which case Idempotency-Key headers are ignored.
func NewServices(stores *store.Stores, txRunner TxRunner, idempotency store.IdempotencyStore, events queue.Producer, workspaceCfg config.WorkspaceConfig) *Services {
	if events == nil {
		events = queue.NewNoopProducer()
	}
	return &Services{
		stores:       stores,
		txRunner:     txRunner,
		idempotency:  idempotency,
		events:       events,
		workspaceCfg: workspaceCfg,
	}
}

func (s *Services) Workspaces() WorkspaceService {
	return NewWorkspaceService(
		s.stores.Workspaces(),
		s.stores.Memberships(),
		s.txRunner,
		s.idempotency,
		s.events,
		s.workspaceCfg.ImageMaxBytes,
	)
}

func (s *Services) Join() JoinService {
	return NewJoinService(s.stores.Workspaces(), s.stores.Memberships(), s.events)
}
