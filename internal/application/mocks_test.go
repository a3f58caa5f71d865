package application_test

import (
	"github.com/stretchr/testify/mock"

	"github.com/podtrail/podtrail-api/internal/domain/entity"
)

// MockUserRepository mocks repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(u *entity.User) error {
	args := m.Called(u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(u *entity.User) error {
	args := m.Called(u)
	return args.Error(0)
}

// MockPodcastRepository mocks repository.PodcastRepository
type MockPodcastRepository struct {
	mock.Mock
}

func (m *MockPodcastRepository) GetAll() ([]*entity.Podcast, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Podcast), args.Error(1)
}

func (m *MockPodcastRepository) GetByID(id string) (*entity.Podcast, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Podcast), args.Error(1)
}

func (m *MockPodcastRepository) Create(p *entity.Podcast) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockPodcastRepository) Update(p *entity.Podcast) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockPodcastRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockEpisodeRepository mocks repository.EpisodeRepository
type MockEpisodeRepository struct {
	mock.Mock
}

func (m *MockEpisodeRepository) ListByPodcast(podcastID string) ([]*entity.Episode, error) {
	args := m.Called(podcastID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Episode), args.Error(1)
}

func (m *MockEpisodeRepository) Create(e *entity.Episode) error {
	args := m.Called(e)
	return args.Error(0)
}

func (m *MockEpisodeRepository) Update(e *entity.Episode) error {
	args := m.Called(e)
	return args.Error(0)
}

func (m *MockEpisodeRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}
