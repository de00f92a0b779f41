package store

import (
	"context"
	"errors"

	"planie.app/api/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique constraint
var ErrDuplicate = errors.New("duplicate")

// WorkspaceStore defines the contract for workspace data access
type WorkspaceStore interface {
	GetByID(ctx context.Context, id int64) (*model.Workspace, error)
	Create(ctx context.Context, ws *model.Workspace) error
	Update(ctx context.Context, ws *model.Workspace) error // name and image_url
	UpdateInviteCode(ctx context.Context, id int64, code string) (*model.Workspace, error)
	Delete(ctx context.Context, id int64) error // hard delete, memberships untouched
	ListByIDs(ctx context.Context, ids []int64) ([]model.Workspace, error)
}

// MembershipStore defines the contract for membership data access
type MembershipStore interface {
	GetByWorkspaceAndUser(ctx context.Context, workspaceID int64, userID string) (*model.Membership, error)
	Create(ctx context.Context, m *model.Membership) error // ErrDuplicate on (workspace_id, user_id) conflict
	ListByUser(ctx context.Context, userID string) ([]model.Membership, error)
}

// ImageStore is the blob store for workspace images
type ImageStore interface {
	Store(ctx context.Context, img *model.Image) error
	Get(ctx context.Context, id int64) (*model.Image, error)
}

// IdempotencyStore reserves client-supplied keys so a create request can be
// replayed without producing a second workspace.
type IdempotencyStore interface {
	// Reserve claims key for userID. When the key is already held it reports
	// reserved=false and the workspace id recorded by Complete, or 0 while
	// the original request is still in flight.
	Reserve(ctx context.Context, userID, key string) (workspaceID int64, reserved bool, err error)
	Complete(ctx context.Context, userID, key string, workspaceID int64) error
	Release(ctx context.Context, userID, key string) error
}
