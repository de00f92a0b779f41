package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"planie.app/api/core/db"
	"planie.app/api/internal/model"
)

type membershipStore struct {
	q db.Querier
}

func newMembershipStore(q db.Querier) MembershipStore {
	return &membershipStore{q: q}
}

func (s *membershipStore) GetByWorkspaceAndUser(ctx context.Context, workspaceID int64, userID string) (*model.Membership, error) {
	query, args, err := membershipByWorkspaceAndUserQuery(workspaceID, userID)
	if err != nil {
		return nil, err
	}

	m, err := scanMembership(s.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *membershipStore) Create(ctx context.Context, m *model.Membership) error {
	query, args, err := psql.Insert("members").
		Columns("id", "workspace_id", "user_id", "role").
		Values(m.ID, m.WorkspaceID, m.UserID, string(m.Role)).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert membership query: %w", err)
	}

	if err := s.q.QueryRow(ctx, query, args...).Scan(&m.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (s *membershipStore) ListByUser(ctx context.Context, userID string) ([]model.Membership, error) {
	query, args, err := membershipsByUserQuery(userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func membershipByWorkspaceAndUserQuery(workspaceID int64, userID string) (string, []any, error) {
	query, args, err := psql.Select("id", "workspace_id", "user_id", "role", "created_at").
		From("members").
		Where(sq.Eq{"workspace_id": workspaceID}).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("building get membership query: %w", err)
	}
	return query, args, nil
}

func membershipsByUserQuery(userID string) (string, []any, error) {
	query, args, err := psql.Select("id", "workspace_id", "user_id", "role", "created_at").
		From("members").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("building list memberships query: %w", err)
	}
	return query, args, nil
}

func scanMembership(row pgx.Row) (*model.Membership, error) {
	var (
		m    model.Membership
		role string
	)
	if err := row.Scan(&m.ID, &m.WorkspaceID, &m.UserID, &role, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.Role = model.Role(role)
	if !m.Role.IsValid() {
		return nil, fmt.Errorf("membership %d has unknown role %q", m.ID, role)
	}
	return &m, nil
}
