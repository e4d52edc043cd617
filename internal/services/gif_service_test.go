package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockGifRepo struct {
	categoryCalls int
	byCategory    []string
	searched      []string
}

func (m *mockGifRepo) GetCategories(context.Context) ([]models.GifCategory, error) {
	m.categoryCalls++
	return []models.GifCategory{{Name: "Happy", SortOrder: 1}, {Name: "Sad", SortOrder: 2}}, nil
}

func (m *mockGifRepo) GetByCategory(_ context.Context, category string) ([]models.Gif, error) {
	m.byCategory = append(m.byCategory, category)
	return []models.Gif{{URL: "https://gifs.example/1.gif", Category: category}}, nil
}

func (m *mockGifRepo) SearchByDescription(_ context.Context, term string, limit int64) ([]models.Gif, error) {
	m.searched = append(m.searched, term)
	return nil, nil
}

func TestGifSearch(t *testing.T) {
	assert := assert.New(t)
	repo := &mockGifRepo{}
	svc := NewGifService(repo, nil)

	_, err := svc.Search(context.Background(), "  ")
	assertAppError(t, err, http.StatusBadRequest, "No search term provided")

	gifs, err := svc.Search(context.Background(), "Happy")
	require.NoError(t, err)
	assert.Len(gifs, 1)
	assert.Equal([]string{"Happy"}, repo.byCategory)

	_, err = svc.Search(context.Background(), "dancing cat")
	require.NoError(t, err)
	assert.Equal([]string{"dancing cat"}, repo.searched)
}

func TestGifByCategoryRequiresName(t *testing.T) {
	svc := NewGifService(&mockGifRepo{}, nil)
	_, err := svc.ByCategory(context.Background(), "")
	assertAppError(t, err, http.StatusBadRequest, "No category provided")
}

func TestGifCategoriesCached(t *testing.T) {
	c, err := cache.New(time.Minute)
	require.NoError(t, err)
	repo := &mockGifRepo{}
	svc := NewGifService(repo, c)

	first, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Len(t, first, 2)

	// ristretto applies writes asynchronously and may drop one under contention.
	assert.Eventually(t, func() bool {
		if _, err := svc.Categories(context.Background()); err != nil {
			return false
		}
		var cached []models.GifCategory
		return c.Get(context.Background(), gifCategoriesKey, &cached) && len(cached) == 2
	}, time.Second, 10*time.Millisecond)

	calls := repo.categoryCalls
	_, err = svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, calls, repo.categoryCalls)
}
