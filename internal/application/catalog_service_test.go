package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/podtrail/podtrail-api/internal/application"
	"github.com/podtrail/podtrail-api/internal/domain/entity"
	"github.com/podtrail/podtrail-api/internal/domain/repository"
)

func newCatalogService(pods *MockPodcastRepository, eps *MockEpisodeRepository) *application.CatalogService {
	return application.NewCatalogService(pods, eps, nil, "", nil, "", nil)
}

func intPtr(v int) *int { return &v }

func TestCatalogService_GetPodcast(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		pods := new(MockPodcastRepository)
		pods.On("GetByID", "p1").Return(&entity.Podcast{ID: "p1", Title: "Go Time"}, nil)

		svc := newCatalogService(pods, new(MockEpisodeRepository))
		p, err := svc.GetPodcast(ctx, "p1")

		require.NoError(t, err)
		assert.Equal(t, "Go Time", p.Title)
	})

	t.Run("missing yields an id-bearing not-found error", func(t *testing.T) {
		pods := new(MockPodcastRepository)
		pods.On("GetByID", "nope").Return(nil, repository.ErrNotFound)

		svc := newCatalogService(pods, new(MockEpisodeRepository))
		_, err := svc.GetPodcast(ctx, "nope")

		require.Error(t, err)
		assert.True(t, application.IsNotFound(err))
		assert.Contains(t, err.Error(), "nope")
	})

	t.Run("read-only: asking twice changes nothing and stays consistent", func(t *testing.T) {
		pods := new(MockPodcastRepository)
		pods.On("GetByID", "p1").Return(&entity.Podcast{ID: "p1", Title: "Go Time"}, nil)

		svc := newCatalogService(pods, new(MockEpisodeRepository))
		first, err1 := svc.GetPodcast(ctx, "p1")
		second, err2 := svc.GetPodcast(ctx, "p1")

		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, first.ID, second.ID)
		pods.AssertNotCalled(t, "Create", mock.Anything)
		pods.AssertNotCalled(t, "Update", mock.Anything)
		pods.AssertNotCalled(t, "Delete", mock.Anything)
	})

	t.Run("store fault is wrapped, not classified as not-found", func(t *testing.T) {
		pods := new(MockPodcastRepository)
		pods.On("GetByID", "p1").Return(nil, errors.New("connection reset"))

		svc := newCatalogService(pods, new(MockEpisodeRepository))
		_, err := svc.GetPodcast(ctx, "p1")

		require.Error(t, err)
		assert.False(t, application.IsNotFound(err))
	})
}

func TestCatalogService_CreatePodcast(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the id assigned by the store", func(t *testing.T) {
		pods := new(MockPodcastRepository)
		pods.On("Create", mock.AnythingOfType("*entity.Podcast")).Run(func(args mock.Arguments) {
			args.Get(0).(*entity.Podcast).ID = "p42"
		}).Return(nil)

		svc := newCatalogService(pods, new(MockEpisodeRepository))
		id, err := svc.CreatePodcast(ctx, "Go Time", "tech")

		require.NoError(t, err)
		assert.Equal(t, "p42", id)
	})

	t.Run("failing write is reported generically", func(t *testing.T) {
		pods := new(MockPodcastRepository)
		pods.On("Create", mock.Anything).Return(errors.New("insert failed"))

		svc := newCatalogService(pods, new(MockEpisodeRepository))
		_, err := svc.CreatePodcast(ctx, "Go Time", "tech")

		require.Error(t, err)
		assert.False(t, application.IsNotFound(err))
	})
}

func TestCatalogService_UpdatePodcast(t *testing.T) {
	ctx := context.Background()

	stored := func() *entity.Podcast {
		return &entity.Podcast{ID: "p1", Title: "Go Time", Category: "tech", Rating: 3}
	}

	t.Run("rating bounds", func(t *testing.T) {
		cases := []struct {
			name   string
			rating *int
			ok     bool
		}{
			{"no rating change", nil, true},
			{"lower bound", intPtr(1), true},
			{"upper bound", intPtr(5), true},
			{"below range", intPtr(0), false},
			{"above range", intPtr(6), false},
			{"negative", intPtr(-3), false},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				pods := new(MockPodcastRepository)
				pods.On("GetByID", "p1").Return(stored(), nil)
				if tc.ok {
					pods.On("Update", mock.Anything).Return(nil).Once()
				}

				svc := newCatalogService(pods, new(MockEpisodeRepository))
				err := svc.UpdatePodcast(ctx, "p1", application.UpdatePodcastInput{Rating: tc.rating})

				if tc.ok {
					require.NoError(t, err)
					pods.AssertExpectations(t)
				} else {
					assert.True(t, errors.Is(err, application.ErrInvalidRating))
					pods.AssertNotCalled(t, "Update", mock.Anything)
				}
			})
		}
	})

	t.Run("merges only the provided fields", func(t *testing.T) {
		pods := new(MockPodcastRepository)
		pods.On("GetByID", "p1").Return(stored(), nil)
		pods.On("Update", mock.MatchedBy(func(p *entity.Podcast) bool {
			return p.Title == "Go Time Remastered" && p.Category == "tech" && p.Rating == 3
		})).Return(nil).Once()

		svc := newCatalogService(pods, new(MockEpisodeRepository))
		err := svc.UpdatePodcast(ctx, "p1", application.UpdatePodcastInput{Title: "Go Time Remastered"})

		require.NoError(t, err)
		pods.AssertExpectations(t)
	})

	t.Run("missing podcast propagates unchanged", func(t *testing.T) {
		pods := new(MockPodcastRepository)
		pods.On("GetByID", "p9").Return(nil, repository.ErrNotFound)

		svc := newCatalogService(pods, new(MockEpisodeRepository))
		err := svc.UpdatePodcast(ctx, "p9", application.UpdatePodcastInput{Rating: intPtr(4)})

		var nf *application.PodcastNotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, "p9", nf.ID)
		pods.AssertNotCalled(t, "Update", mock.Anything)
	})
}

func TestCatalogService_DeletePodcast(t *testing.T) {
	ctx := context.Background()

	t.Run("missing podcast propagates unchanged", func(t *testing.T) {
		pods := new(MockPodcastRepository)
		pods.On("GetByID", "p9").Return(nil, repository.ErrNotFound)

		svc := newCatalogService(pods, new(MockEpisodeRepository))
		err := svc.DeletePodcast(ctx, "p9")

		var nf *application.PodcastNotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, "p9", nf.ID)
		pods.AssertNotCalled(t, "Delete", mock.Anything)
	})

	t.Run("existing podcast is deleted by id", func(t *testing.T) {
		pods := new(MockPodcastRepository)
		pods.On("GetByID", "p1").Return(&entity.Podcast{ID: "p1"}, nil)
		pods.On("Delete", "p1").Return(nil).Once()

		svc := newCatalogService(pods, new(MockEpisodeRepository))
		require.NoError(t, svc.DeletePodcast(ctx, "p1"))
		pods.AssertExpectations(t)
	})
}

func TestCatalogService_Episodes(t *testing.T) {
	ctx := context.Background()

	podcast := &entity.Podcast{ID: "p1", Title: "Go Time"}
	episodes := []*entity.Episode{
		{ID: "e1", PodcastID: "p1", Title: "Intro"},
		{ID: "e2", PodcastID: "p1", Title: "Generics"},
	}

	t.Run("listing a missing podcast fails with the podcast error", func(t *testing.T) {
		pods := new(MockPodcastRepository)
		eps := new(MockEpisodeRepository)
		pods.On("GetByID", "p9").Return(nil, repository.ErrNotFound)

		svc := newCatalogService(pods, eps)
		_, err := svc.ListEpisodes(ctx, "p9")

		var nf *application.PodcastNotFoundError
		require.True(t, errors.As(err, &nf))
		eps.AssertNotCalled(t, "ListByPodcast", mock.Anything)
	})

	t.Run("listing an existing podcast returns its episodes", func(t *testing.T) {
		pods := new(MockPodcastRepository)
		eps := new(MockEpisodeRepository)
		pods.On("GetByID", "p1").Return(podcast, nil)
		eps.On("ListByPodcast", "p1").Return(episodes, nil)

		svc := newCatalogService(pods, eps)
		got, err := svc.ListEpisodes(ctx, "p1")

		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("GetEpisode resolves by id within the podcast", func(t *testing.T) {
		pods := new(MockPodcastRepository)
		eps := new(MockEpisodeRepository)
		pods.On("GetByID", "p1").Return(podcast, nil)
		eps.On("ListByPodcast", "p1").Return(episodes, nil)

		svc := newCatalogService(pods, eps)
		e, err := svc.GetEpisode(ctx, "p1", "e2")

		require.NoError(t, err)
		assert.Equal(t, "Generics", e.Title)
	})

	t.Run("GetEpisode names both ids when the episode is missing", func(t *testing.T) {
		pods := new(MockPodcastRepository)
		eps := new(MockEpisodeRepository)
		pods.On("GetByID", "p1").Return(podcast, nil)
		eps.On("ListByPodcast", "p1").Return(episodes, nil)

		svc := newCatalogService(pods, eps)
		_, err := svc.GetEpisode(ctx, "p1", "e9")

		var nf *application.EpisodeNotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, "p1", nf.PodcastID)
		assert.Equal(t, "e9", nf.EpisodeID)
		assert.Contains(t, err.Error(), "e9")
		assert.Contains(t, err.Error(), "p1")
	})

	t.Run("creating under a missing podcast never touches the episode store", func(t *testing.T) {
		pods := new(MockPodcastRepository)
		eps := new(MockEpisodeRepository)
		pods.On("GetByID", "p9").Return(nil, repository.ErrNotFound)

		svc := newCatalogService(pods, eps)
		_, err := svc.CreateEpisode(ctx, "p9", "Intro", "tech")

		assert.True(t, application.IsNotFound(err))
		eps.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("creating returns the id assigned by the store", func(t *testing.T) {
		pods := new(MockPodcastRepository)
		eps := new(MockEpisodeRepository)
		pods.On("GetByID", "p1").Return(podcast, nil)
		eps.On("Create", mock.MatchedBy(func(e *entity.Episode) bool {
			return e.PodcastID == "p1" && e.Title == "Intro"
		})).Run(func(args mock.Arguments) {
			args.Get(0).(*entity.Episode).ID = "e77"
		}).Return(nil)

		svc := newCatalogService(pods, eps)
		id, err := svc.CreateEpisode(ctx, "p1", "Intro", "tech")

		require.NoError(t, err)
		assert.Equal(t, "e77", id)
	})

	t.Run("updating a missing episode propagates the episode error unchanged", func(t *testing.T) {
		pods := new(MockPodcastRepository)
		eps := new(MockEpisodeRepository)
		pods.On("GetByID", "p1").Return(podcast, nil)
		eps.On("ListByPodcast", "p1").Return(episodes, nil)

		svc := newCatalogService(pods, eps)
		err := svc.UpdateEpisode(ctx, "p1", "e9", application.UpdateEpisodeInput{Title: "X"})

		var nf *application.EpisodeNotFoundError
		require.True(t, errors.As(err, &nf))
		eps.AssertNotCalled(t, "Update", mock.Anything)
	})

	t.Run("updating merges only the provided fields", func(t *testing.T) {
		pods := new(MockPodcastRepository)
		eps := new(MockEpisodeRepository)
		pods.On("GetByID", "p1").Return(podcast, nil)
		eps.On("ListByPodcast", "p1").Return([]*entity.Episode{
			{ID: "e1", PodcastID: "p1", Title: "Intro", Category: "tech"},
		}, nil)
		eps.On("Update", mock.MatchedBy(func(e *entity.Episode) bool {
			return e.ID == "e1" && e.Title == "Intro v2" && e.Category == "tech"
		})).Return(nil).Once()

		svc := newCatalogService(pods, eps)
		err := svc.UpdateEpisode(ctx, "p1", "e1", application.UpdateEpisodeInput{Title: "Intro v2"})

		require.NoError(t, err)
		eps.AssertExpectations(t)
	})

	t.Run("deleting a missing episode propagates the episode error unchanged", func(t *testing.T) {
		pods := new(MockPodcastRepository)
		eps := new(MockEpisodeRepository)
		pods.On("GetByID", "p1").Return(podcast, nil)
		eps.On("ListByPodcast", "p1").Return(episodes, nil)

		svc := newCatalogService(pods, eps)
		err := svc.DeleteEpisode(ctx, "p1", "e9")

		assert.True(t, application.IsNotFound(err))
		eps.AssertNotCalled(t, "Delete", mock.Anything)
	})

	t.Run("deleting an existing episode removes it by id", func(t *testing.T) {
		pods := new(MockPodcastRepository)
		eps := new(MockEpisodeRepository)
		pods.On("GetByID", "p1").Return(podcast, nil)
		eps.On("ListByPodcast", "p1").Return(episodes, nil)
		eps.On("Delete", "e2").Return(nil).Once()

		svc := newCatalogService(pods, eps)
		require.NoError(t, svc.DeleteEpisode(ctx, "p1", "e2"))
		eps.AssertExpectations(t)
	})
}
