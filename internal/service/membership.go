package service

import (
	"context"
	"errors"
	"fmt"

	"planie.app/api/internal/model"
	"planie.app/api/internal/store"
)

// ErrUnauthorized is returned when the caller lacks the role an operation requires.
var ErrUnauthorized = errors.New("unauthorized")

// Authorize admits m only when it exists and holds exactly the required role.
func Authorize(m *model.Membership, required model.Role) error {
	if m == nil || m.Role != required {
		return ErrUnauthorized
	}
	return nil
}

type MembershipService interface {
	// Find returns the caller's membership in the workspace, or (nil, nil).
	Find(ctx context.Context, workspaceID int64, userID string) (*model.Membership, error)
	RequireRole(ctx context.Context, workspaceID int64, userID string, role model.Role) (*model.Membership, error)
}

type membershipService struct {
	memberships store.MembershipStore
}

func NewMembershipService(memberships store.MembershipStore) MembershipService {
	return &membershipService{memberships: memberships}
}

func (s *membershipService) Find(ctx context.Context, workspaceID int64, userID string) (*model.Membership, error) {
	m, err := s.memberships.GetByWorkspaceAndUser(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding membership: %w", err)
	}
	return m, nil
}

func (s *membershipService) RequireRole(ctx context.Context, workspaceID int64, userID string, role model.Role) (*model.Membership, error) {
	m, err := s.Find(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(m, role); err != nil {
		return nil, err
	}
	return m, nil
}
