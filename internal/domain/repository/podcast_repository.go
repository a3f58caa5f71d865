package repository

import "github.com/podtrail/podtrail-api/internal/domain/entity"

// PodcastRepository defines the interface for podcast-related database operations.
type PodcastRepository interface {
	GetAll() ([]*entity.Podcast, error)
	GetByID(id string) (*entity.Podcast, error)
	Create(p *entity.Podcast) error
	Update(p *entity.Podcast) error
	Delete(id string) error
}

// EpisodeRepository defines the interface for episode-related database
// operations. Episodes are always scoped to their owning podcast.
type EpisodeRepository interface {
	ListByPodcast(podcastID string) ([]*entity.Episode, error)
	Create(e *entity.Episode) error
	Update(e *entity.Episode) error
	Delete(id string) error
}
