package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"planie.app/api/common/id"
	"planie.app/api/common/invitecode"
	"planie.app/api/common/logger"
	"planie.app/api/internal/model"
	"planie.app/api/internal/queue"
	"planie.app/api/internal/store"
)

const MaxWorkspaceNameLength = 256

const idempotencyCleanupTimeout = 5 * time.Second

var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrInvalidName       = errors.New("workspace name must be 1-256 characters")
	ErrCreateInProgress  = errors.New("workspace creation with this idempotency key is in progress")
)

type CreateWorkspaceInput struct {
	Name           string
	Image          *ImageUpload
	IdempotencyKey string
}

// UpdateWorkspaceInput describes a partial update. A nil Name keeps the
// current name. When Image is nil, ImageURL replaces the stored value
// verbatim, so a nil ImageURL clears it.
type UpdateWorkspaceInput struct {
	Name     *string
	Image    *ImageUpload
	ImageURL *string
}

type WorkspaceService interface {
	ListForUser(ctx context.Context, userID string) []model.Workspace
	Get(ctx context.Context, userID string, workspaceID int64) (*model.Workspace, error)
	Create(ctx context.Context, userID string, in CreateWorkspaceInput) (*model.Workspace, error)
	Update(ctx context.Context, userID string, workspaceID int64, in UpdateWorkspaceInput) (*model.Workspace, error)
	Delete(ctx context.Context, userID string, workspaceID int64) (int64, error)
	ResetInviteCode(ctx context.Context, userID string, workspaceID int64) (*model.Workspace, error)
}

type workspaceService struct {
	workspaces    store.WorkspaceStore
	memberships   store.MembershipStore
	access        MembershipService
	txRunner      TxRunner
	idempotency   store.IdempotencyStore // nil when Redis is not configured
	events        queue.Producer
	imageMaxBytes int64
}

func NewWorkspaceService(
	workspaces store.WorkspaceStore,
	memberships store.MembershipStore,
	txRunner TxRunner,
	idempotency store.IdempotencyStore,
	events queue.Producer,
	imageMaxBytes int64,
) WorkspaceService {
	return &workspaceService{
		workspaces:    workspaces,
		memberships:   memberships,
		access:        NewMembershipService(memberships),
		txRunner:      txRunner,
		idempotency:   idempotency,
		events:        events,
		imageMaxBytes: imageMaxBytes,
	}
}

func (s *workspaceService) ListForUser(ctx context.Context, userID string) []model.Workspace {
	memberships, err := s.memberships.ListByUser(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "listing memberships failed, returning no workspaces", "error", err)
		return []model.Workspace{}
	}
	if len(memberships) == 0 {
		return []model.Workspace{}
	}

	ids := make([]int64, 0, len(memberships))
	seen := make(map[int64]struct{}, len(memberships))
	for _, m := range memberships {
		if _, ok := seen[m.WorkspaceID]; ok {
			continue
		}
		seen[m.WorkspaceID] = struct{}{}
		ids = append(ids, m.WorkspaceID)
	}

	workspaces, err := s.workspaces.ListByIDs(ctx, ids)
	if err != nil {
		slog.WarnContext(ctx, "listing workspaces failed, returning no workspaces",
			"error", err,
			"workspace_count", len(ids))
		return []model.Workspace{}
	}
	return workspaces
}

func (s *workspaceService) Get(ctx context.Context, userID string, workspaceID int64) (*model.Workspace, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{WorkspaceID: &workspaceID})

	m, err := s.access.Find(ctx, workspaceID, userID)
	if err != nil {
		slog.WarnContext(ctx, "membership lookup failed, hiding workspace", "error", err)
		return nil, ErrWorkspaceNotFound
	}
	if m == nil {
		return nil, ErrWorkspaceNotFound
	}

	ws, err := s.workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.WarnContext(ctx, "workspace lookup failed, hiding workspace", "error", err)
		}
		return nil, ErrWorkspaceNotFound
	}
	return ws, nil
}

func (s *workspaceService) Create(ctx context.Context, userID string, in CreateWorkspaceInput) (ws *model.Workspace, err error) {
	sc := logger.StartSpan(ctx, "workspace.create")
	defer sc.End()
	ctx = sc.Context()

	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	var mime string
	if in.Image != nil {
		if mime, err = detectImage(in.Image, s.imageMaxBytes); err != nil {
			return nil, err
		}
	}

	if in.IdempotencyKey != "" && s.idempotency != nil {
		var (
			existingID int64
			reserved   bool
		)
		existingID, reserved, err = s.idempotency.Reserve(ctx, userID, in.IdempotencyKey)
		if err != nil {
			sc.RecordError(err)
			return nil, fmt.Errorf("creating workspace: %w", err)
		}
		if !reserved {
			return s.replayCreate(ctx, existingID)
		}

		defer func() {
			// Settle the key even when the caller has gone away.
			cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), idempotencyCleanupTimeout)
			defer cancel()

			if err != nil {
				if relErr := s.idempotency.Release(cleanupCtx, userID, in.IdempotencyKey); relErr != nil {
					slog.WarnContext(cleanupCtx, "failed to release idempotency key", "error", relErr)
				}
				return
			}
			if compErr := s.idempotency.Complete(cleanupCtx, userID, in.IdempotencyKey, ws.ID); compErr != nil {
				slog.WarnContext(cleanupCtx, "failed to record idempotency key", "error", compErr, "workspace_id", ws.ID)
			}
		}()
	}

	ws = &model.Workspace{
		ID:         id.New(),
		Name:       name,
		UserID:     userID,
		InviteCode: invitecode.Generate(invitecode.DefaultLength),
	}

	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if in.Image != nil {
			url, err := materializeImage(ctx, stores.Images(), mime, in.Image.Data)
			if err != nil {
				return err
			}
			ws.ImageURL = &url
		}

		if err := stores.Workspaces().Create(ctx, ws); err != nil {
			return fmt.Errorf("inserting workspace: %w", err)
		}

		admin := &model.Membership{
			ID:          id.New(),
			WorkspaceID: ws.ID,
			UserID:      userID,
			Role:        model.RoleAdmin,
		}
		if err := stores.Memberships().Create(ctx, admin); err != nil {
			return fmt.Errorf("inserting admin membership: %w", err)
		}
		return nil
	})
	if err != nil {
		sc.RecordError(err)
		return nil, fmt.Errorf("creating workspace: %w", err)
	}

	slog.InfoContext(ctx, "workspace created",
		"workspace_id", ws.ID,
		"has_image", ws.ImageURL != nil)

	publishEvent(ctx, s.events, model.EventTypeWorkspaceCreated, userID, ws.ID)
	return ws, nil
}

func (s *workspaceService) replayCreate(ctx context.Context, existingID int64) (*model.Workspace, error) {
	if existingID == 0 {
		return nil, ErrCreateInProgress
	}

	ws, err := s.workspaces.GetByID(ctx, existingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("loading replayed workspace: %w", err)
	}

	slog.InfoContext(ctx, "replayed idempotent workspace create", "workspace_id", ws.ID)
	return ws, nil
}

func (s *workspaceService) Update(ctx context.Context, userID string, workspaceID int64, in UpdateWorkspaceInput) (*model.Workspace, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{WorkspaceID: &workspaceID})

	if _, err := s.access.RequireRole(ctx, workspaceID, userID, model.RoleAdmin); err != nil {
		return nil, err
	}

	var name *string
	if in.Name != nil {
		n, err := normalizeName(*in.Name)
		if err != nil {
			return nil, err
		}
		name = &n
	}

	var mime string
	if in.Image != nil {
		var err error
		if mime, err = detectImage(in.Image, s.imageMaxBytes); err != nil {
			return nil, err
		}
	}

	var updated *model.Workspace
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		ws, err := stores.Workspaces().GetByID(ctx, workspaceID)
		if err != nil {
			return err
		}

		if name != nil {
			ws.Name = *name
		}

		if in.Image != nil {
			url, err := materializeImage(ctx, stores.Images(), mime, in.Image.Data)
			if err != nil {
				return err
			}
			ws.ImageURL = &url
		} else {
			ws.ImageURL = in.ImageURL
		}

		if err := stores.Workspaces().Update(ctx, ws); err != nil {
			return err
		}
		updated = ws
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("updating workspace: %w", err)
	}

	slog.InfoContext(ctx, "workspace updated", "has_image", updated.ImageURL != nil)
	publishEvent(ctx, s.events, model.EventTypeWorkspaceUpdated, userID, workspaceID)
	return updated, nil
}

func (s *workspaceService) Delete(ctx context.Context, userID string, workspaceID int64) (int64, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{WorkspaceID: &workspaceID})

	if _, err := s.access.RequireRole(ctx, workspaceID, userID, model.RoleAdmin); err != nil {
		return 0, err
	}

	if err := s.workspaces.Delete(ctx, workspaceID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, ErrWorkspaceNotFound
		}
		return 0, fmt.Errorf("deleting workspace: %w", err)
	}

	slog.InfoContext(ctx, "workspace deleted")
	publishEvent(ctx, s.events, model.EventTypeWorkspaceDeleted, userID, workspaceID)
	return workspaceID, nil
}

func (s *workspaceService) ResetInviteCode(ctx context.Context, userID string, workspaceID int64) (*model.Workspace, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{WorkspaceID: &workspaceID})

	if _, err := s.access.RequireRole(ctx, workspaceID, userID, model.RoleAdmin); err != nil {
		return nil, err
	}

	ws, err := s.workspaces.UpdateInviteCode(ctx, workspaceID, invitecode.Generate(invitecode.DefaultLength))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("resetting invite code: %w", err)
	}

	slog.InfoContext(ctx, "workspace invite code reset")
	publishEvent(ctx, s.events, model.EventTypeWorkspaceInviteCodeReset, userID, workspaceID)
	return ws, nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxWorkspaceNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}
