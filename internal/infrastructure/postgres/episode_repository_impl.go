package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/podtrail/podtrail-api/internal/domain/entity"
	"github.com/podtrail/podtrail-api/internal/domain/repository"
)

type EpisodeRepository struct {
	pool *pgxpool.Pool
}

func NewEpisodeRepository(pool *pgxpool.Pool) *EpisodeRepository {
	return &EpisodeRepository{pool: pool}
}

func (r *EpisodeRepository) ListByPodcast(podcastID string) ([]*entity.Episode, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT id, podcast_id, title, category, created_at, updated_at
		FROM episodes
		WHERE podcast_id = $1
		ORDER BY created_at
	`, podcastID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.Episode, 0)
	for rows.Next() {
		e := &entity.Episode{}
		if err := rows.Scan(&e.ID, &e.PodcastID, &e.Title, &e.Category,
			&e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EpisodeRepository) Create(e *entity.Episode) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO episodes (podcast_id, title, category)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, e.PodcastID, e.Title, e.Category)

	return row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *EpisodeRepository) Update(e *entity.Episode) error {
	ctx := context.Background()
	e.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE episodes
		SET title = $1, category = $2, updated_at = $3
		WHERE id = $4
	`, e.Title, e.Category, e.UpdatedAt, e.ID)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *EpisodeRepository) Delete(id string) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `DELETE FROM episodes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.EpisodeRepository = (*EpisodeRepository)(nil)
