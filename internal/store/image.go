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

// imageStore keeps workspace images in Postgres as bytea rows.
type imageStore struct {
	q db.Querier
}

func newImageStore(q db.Querier) ImageStore {
	return &imageStore{q: q}
}

func (s *imageStore) Store(ctx context.Context, img *model.Image) error {
	query, args, err := psql.Insert("workspace_images").
		Columns("id", "content_type", "data").
		Values(img.ID, img.ContentType, img.Data).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert image query: %w", err)
	}

	return s.q.QueryRow(ctx, query, args...).Scan(&img.CreatedAt)
}

func (s *imageStore) Get(ctx context.Context, id int64) (*model.Image, error) {
	query, args, err := psql.Select("id", "content_type", "data", "created_at").
		From("workspace_images").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building get image query: %w", err)
	}

	var img model.Image
	if err := s.q.QueryRow(ctx, query, args...).Scan(&img.ID, &img.ContentType, &img.Data, &img.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &img, nil
}
