package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/podtrail/podtrail-api/internal/domain/entity"
	"github.com/podtrail/podtrail-api/internal/domain/repository"
)

type PodcastRepository struct {
	pool *pgxpool.Pool
}

func NewPodcastRepository(pool *pgxpool.Pool) *PodcastRepository {
	return &PodcastRepository{pool: pool}
}

func (r *PodcastRepository) GetAll() ([]*entity.Podcast, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, category, COALESCE(rating, 0), cover_url, created_at, updated_at
		FROM podcasts
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.Podcast, 0)
	for rows.Next() {
		p := &entity.Podcast{}
		if err := rows.Scan(&p.ID, &p.Title, &p.Category, &p.Rating, &p.CoverURL,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PodcastRepository) GetByID(id string) (*entity.Podcast, error) {
	ctx := context.Background()
	p := &entity.Podcast{}

	row := r.pool.QueryRow(ctx, `
		SELECT id, title, category, COALESCE(rating, 0), cover_url, created_at, updated_at
		FROM podcasts
		WHERE id = $1
	`, id)

	if err := row.Scan(&p.ID, &p.Title, &p.Category, &p.Rating, &p.CoverURL,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return p, nil
}

func (r *PodcastRepository) Create(p *entity.Podcast) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO podcasts (title, category, cover_url)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, p.Title, p.Category, p.CoverURL)

	return row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PodcastRepository) Update(p *entity.Podcast) error {
	ctx := context.Background()
	p.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE podcasts
		SET title = $1, category = $2, rating = NULLIF($3, 0), cover_url = $4, updated_at = $5
		WHERE id = $6
	`, p.Title, p.Category, p.Rating, p.CoverURL, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes the podcast; its episodes go with it via the FK cascade.
func (r *PodcastRepository) Delete(id string) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `DELETE FROM podcasts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.PodcastRepository = (*PodcastRepository)(nil)
