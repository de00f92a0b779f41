package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"planie.app/api/common/id"
	"planie.app/api/common/logger"
	"planie.app/api/internal/model"
	"planie.app/api/internal/queue"
	"planie.app/api/internal/store"
)

var (
	ErrAlreadyMember     = errors.New("already a member of this workspace")
	ErrInvalidInviteCode = errors.New("invalid invite code")
)

type JoinService interface {
	Join(ctx context.Context, userID string, workspaceID int64, code string) (*model.Workspace, error)
}

type joinService struct {
	workspaces  store.WorkspaceStore
	memberships store.MembershipStore
	access      MembershipService
	events      queue.Producer
}

func NewJoinService(workspaces store.WorkspaceStore, memberships store.MembershipStore, events queue.Producer) JoinService {
	return &joinService{
		workspaces:  workspaces,
		memberships: memberships,
		access:      NewMembershipService(memberships),
		events:      events,
	}
}

func (s *joinService) Join(ctx context.Context, userID string, workspaceID int64, code string) (*model.Workspace, error) {
	sc := logger.StartSpan(ctx, "workspace.join")
	defer sc.End()
	ctx = logger.WithLogFields(sc.Context(), logger.LogFields{WorkspaceID: &workspaceID})

	existing, err := s.access.Find(ctx, workspaceID, userID)
	if err != nil {
		sc.RecordError(err)
		return nil, fmt.Errorf("joining workspace: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	ws, err := s.workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		sc.RecordError(err)
		return nil, fmt.Errorf("joining workspace: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(code), []byte(ws.InviteCode)) != 1 {
		slog.InfoContext(ctx, "join rejected: invite code mismatch")
		return nil, ErrInvalidInviteCode
	}

	member := &model.Membership{
		ID:          id.New(),
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        model.RoleMember,
	}
	if err := s.memberships.Create(ctx, member); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrAlreadyMember
		}
		sc.RecordError(err)
		return nil, fmt.Errorf("joining workspace: %w", err)
	}

	slog.InfoContext(ctx, "member joined workspace", "membership_id", member.ID)
	publishEvent(ctx, s.events, model.EventTypeMemberJoined, userID, workspaceID)
	return ws, nil
}
