package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/podtrail/podtrail-api/internal/domain/entity"
	repo "github.com/podtrail/podtrail-api/internal/domain/repository"
	"github.com/podtrail/podtrail-api/pkg/helpers"
)

// ErrInvalidRating rejects rating updates outside the closed range [1,5].
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// PodcastNotFoundError reports a missing podcast by id.
type PodcastNotFoundError struct {
	ID string
}

func (e *PodcastNotFoundError) Error() string {
	return fmt.Sprintf("podcast with id %s not found", e.ID)
}

// EpisodeNotFoundError reports a missing episode within an existing podcast.
type EpisodeNotFoundError struct {
	PodcastID string
	EpisodeID string
}

func (e *EpisodeNotFoundError) Error() string {
	return fmt.Sprintf("episode with id %s not found in podcast with id %s", e.EpisodeID, e.PodcastID)
}

// IsNotFound reports whether err is a catalog not-found failure.
func IsNotFound(err error) bool {
	var pnf *PodcastNotFoundError
	var enf *EpisodeNotFoundError
	return errors.As(err, &pnf) || errors.As(err, &enf)
}

// CatalogService owns podcasts and their nested episodes. Every episode
// operation funnels through the podcast existence check first; not-found
// failures from those checks are returned to callers unchanged.
//
// Existence check and subsequent mutation are separate round-trips with no
// transaction around them, so concurrent callers can race the check. That
// window is inherited from the design and left open on purpose.
type CatalogService struct {
	Podcasts  repo.PodcastRepository
	Episodes  repo.EpisodeRepository
	GCS       *storage.Client
	GCSBucket string
	ES        *elasticsearch.Client
	ESIndex   string
	Logger    *logrus.Logger
}

func NewCatalogService(podcasts repo.PodcastRepository, episodes repo.EpisodeRepository, gcs *storage.Client, gcsBucket string, es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *CatalogService {
	return &CatalogService{
		Podcasts:  podcasts,
		Episodes:  episodes,
		GCS:       gcs,
		GCSBucket: gcsBucket,
		ES:        es,
		ESIndex:   esIndex,
		Logger:    logger,
	}
}

// ListPodcasts returns every podcast.
func (s *CatalogService) ListPodcasts(ctx context.Context) ([]*entity.Podcast, error) {
	out, err := s.Podcasts.GetAll()
	if err != nil {
		return nil, fmt.Errorf("list podcasts: %w", err)
	}
	return out, nil
}

// CreatePodcast persists a new podcast with zero episodes and returns its id.
func (s *CatalogService) CreatePodcast(ctx context.Context, title, category string) (string, error) {
	p := &entity.Podcast{Title: title, Category: category}
	if err := s.Podcasts.Create(p); err != nil {
		return "", fmt.Errorf("create podcast: %w", err)
	}
	s.indexPodcast(ctx, p)
	return p.ID, nil
}

// GetPodcast is the single source of truth for podcast existence. Read-only.
func (s *CatalogService) GetPodcast(ctx context.Context, id string) (*entity.Podcast, error) {
	p, err := s.Podcasts.GetByID(id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, &PodcastNotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get podcast: %w", err)
	}
	return p, nil
}

// DeletePodcast removes the podcast and, through the persistence layer's
// cascade, all of its episodes.
func (s *CatalogService) DeletePodcast(ctx context.Context, id string) error {
	p, err := s.GetPodcast(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Podcasts.Delete(p.ID); err != nil {
		return fmt.Errorf("delete podcast: %w", err)
	}
	s.removeFromIndex(ctx, p.ID)
	return nil
}

type UpdatePodcastInput struct {
	Title    string
	Category string
	Rating   *int
}

// UpdatePodcast merges the provided fields into an existing podcast. A nil
// Rating means "no rating change"; a present rating outside [1,5] fails
// before anything is mutated.
func (s *CatalogService) UpdatePodcast(ctx context.Context, id string, in UpdatePodcastInput) error {
	p, err := s.GetPodcast(ctx, id)
	if err != nil {
		return err
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return ErrInvalidRating
	}

	if in.Title != "" {
		p.Title = in.Title
	}
	if in.Category != "" {
		p.Category = in.Category
	}
	if in.Rating != nil {
		p.Rating = *in.Rating
	}

	if err := s.Podcasts.Update(p); err != nil {
		return fmt.Errorf("update podcast: %w", err)
	}
	s.indexPodcast(ctx, p)
	return nil
}

// ListEpisodes returns the episodes of an existing podcast.
func (s *CatalogService) ListEpisodes(ctx context.Context, podcastID string) ([]*entity.Episode, error) {
	if _, err := s.GetPodcast(ctx, podcastID); err != nil {
		return nil, err
	}
	eps, err := s.Episodes.ListByPodcast(podcastID)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	return eps, nil
}

// GetEpisode resolves an episode by (podcastID, episodeID), scanning the
// owning podcast's episode set.
func (s *CatalogService) GetEpisode(ctx context.Context, podcastID, episodeID string) (*entity.Episode, error) {
	eps, err := s.ListEpisodes(ctx, podcastID)
	if err != nil {
		return nil, err
	}
	for _, e := range eps {
		if e.ID == episodeID {
			return e, nil
		}
	}
	return nil, &EpisodeNotFoundError{PodcastID: podcastID, EpisodeID: episodeID}
}

// CreateEpisode persists a new episode owned by an existing podcast and
// returns its id.
func (s *CatalogService) CreateEpisode(ctx context.Context, podcastID, title, category string) (string, error) {
	p, err := s.GetPodcast(ctx, podcastID)
	if err != nil {
		return "", err
	}
	e := &entity.Episode{PodcastID: p.ID, Title: title, Category: category}
	if err := s.Episodes.Create(e); err != nil {
		return "", fmt.Errorf("create episode: %w", err)
	}
	return e.ID, nil
}

type UpdateEpisodeInput struct {
	Title    string
	Category string
}

// UpdateEpisode merges the provided fields into an existing episode.
func (s *CatalogService) UpdateEpisode(ctx context.Context, podcastID, episodeID string, in UpdateEpisodeInput) error {
	e, err := s.GetEpisode(ctx, podcastID, episodeID)
	if err != nil {
		return err
	}
	if in.Title != "" {
		e.Title = in.Title
	}
	if in.Category != "" {
		e.Category = in.Category
	}
	if err := s.Episodes.Update(e); err != nil {
		return fmt.Errorf("update episode: %w", err)
	}
	return nil
}

// DeleteEpisode removes a single episode after resolving it.
func (s *CatalogService) DeleteEpisode(ctx context.Context, podcastID, episodeID string) error {
	e, err := s.GetEpisode(ctx, podcastID, episodeID)
	if err != nil {
		return err
	}
	if err := s.Episodes.Delete(e.ID); err != nil {
		return fmt.Errorf("delete episode: %w", err)
	}
	return nil
}

// UploadCover stores cover art in GCS and records its public URL.
func (s *CatalogService) UploadCover(ctx context.Context, podcastID string, r io.Reader, filename, contentType string) (string, error) {
	p, err := s.GetPodcast(ctx, podcastID)
	if err != nil {
		return "", err
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("covers", p.ID, id+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", fmt.Errorf("upload cover: %w", err)
	}
	p.CoverURL = url
	if err := s.Podcasts.Update(p); err != nil {
		return "", fmt.Errorf("upload cover: %w", err)
	}
	s.indexPodcast(ctx, p)
	return url, nil
}

func (s *CatalogService) indexPodcast(ctx context.Context, p *entity.Podcast) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         p.ID,
		"title":      p.Title,
		"category":   p.Category,
		"rating":     p.Rating,
		"cover_url":  p.CoverURL,
		"created_at": p.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": p.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: p.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("podcast_id", p.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("podcast_id", p.ID).Warn("es index response error")
	}
}

func (s *CatalogService) removeFromIndex(ctx context.Context, id string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("podcast_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// SearchPodcasts performs a simple multi_match search on title and category.
func (s *CatalogService) SearchPodcasts(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "category"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
