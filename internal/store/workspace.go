package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"planie.app/api/core/db"
	"planie.app/api/internal/model"
)

var workspaceColumns = []string{"id", "name", "image_url", "user_id", "invite_code", "created_at", "updated_at"}

type workspaceStore struct {
	q db.Querier
}

func newWorkspaceStore(q db.Querier) WorkspaceStore {
	return &workspaceStore{q: q}
}

func (s *workspaceStore) GetByID(ctx context.Context, id int64) (*model.Workspace, error) {
	query, args, err := workspaceByIDQuery(id)
	if err != nil {
		return nil, err
	}

	ws, err := scanWorkspace(s.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ws, nil
}

func (s *workspaceStore) Create(ctx context.Context, ws *model.Workspace) error {
	query, args, err := insertWorkspaceQuery(ws)
	if err != nil {
		return err
	}

	if err := s.q.QueryRow(ctx, query, args...).Scan(&ws.CreatedAt, &ws.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (s *workspaceStore) Update(ctx context.Context, ws *model.Workspace) error {
	query, args, err := updateWorkspaceQuery(ws)
	if err != nil {
		return err
	}

	row, err := scanWorkspace(s.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	*ws = *row
	return nil
}

func (s *workspaceStore) UpdateInviteCode(ctx context.Context, id int64, code string) (*model.Workspace, error) {
	query, args, err := updateInviteCodeQuery(id, code)
	if err != nil {
		return nil, err
	}

	ws, err := scanWorkspace(s.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ws, nil
}

func (s *workspaceStore) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.Delete("workspaces").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("building delete workspace query: %w", err)
	}

	tag, err := s.q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *workspaceStore) ListByIDs(ctx context.Context, ids []int64) ([]model.Workspace, error) {
	if len(ids) == 0 {
		return []model.Workspace{}, nil
	}

	query, args, err := workspacesByIDsQuery(ids)
	if err != nil {
		return nil, err
	}

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Workspace, 0, len(ids))
	for rows.Next() {
		ws, err := scanWorkspace(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ws)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func workspaceByIDQuery(id int64) (string, []any, error) {
	query, args, err := psql.Select(workspaceColumns...).
		From("workspaces").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("building get workspace query: %w", err)
	}
	return query, args, nil
}

func workspacesByIDsQuery(ids []int64) (string, []any, error) {
	query, args, err := psql.Select(workspaceColumns...).
		From("workspaces").
		Where(sq.Eq{"id": ids}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("building list workspaces query: %w", err)
	}
	return query, args, nil
}

func insertWorkspaceQuery(ws *model.Workspace) (string, []any, error) {
	query, args, err := psql.Insert("workspaces").
		Columns("id", "name", "image_url", "user_id", "invite_code").
		Values(ws.ID, ws.Name, ws.ImageURL, ws.UserID, ws.InviteCode).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("building insert workspace query: %w", err)
	}
	return query, args, nil
}

func updateWorkspaceQuery(ws *model.Workspace) (string, []any, error) {
	query, args, err := psql.Update("workspaces").
		Set("name", ws.Name).
		Set("image_url", ws.ImageURL).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": ws.ID}).
		Suffix("RETURNING " + returningWorkspace()).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("building update workspace query: %w", err)
	}
	return query, args, nil
}

func updateInviteCodeQuery(id int64, code string) (string, []any, error) {
	query, args, err := psql.Update("workspaces").
		Set("invite_code", code).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + returningWorkspace()).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("building update invite code query: %w", err)
	}
	return query, args, nil
}

func returningWorkspace() string {
	return strings.Join(workspaceColumns, ", ")
}

func scanWorkspace(row pgx.Row) (*model.Workspace, error) {
	var ws model.Workspace
	if err := row.Scan(
		&ws.ID,
		&ws.Name,
		&ws.ImageURL,
		&ws.UserID,
		&ws.InviteCode,
		&ws.CreatedAt,
		&ws.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ws, nil
}
