package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/internal/repositories"
	"github.com/anonto42/chirp/backend/pkg/apperror"
	"github.com/anonto42/chirp/backend/pkg/cache"
	"github.com/samber/lo"
)

const (
	gifCategoriesKey = "gif:categories"
	gifSearchLimit   = 50
)

// GifService serves the stored gif library.
type GifService struct {
	gifs  repositories.GifRepository
	cache *cache.Cache
}

// NewGifService creates a new GifService. c may be nil.
func NewGifService(gifs repositories.GifRepository, c *cache.Cache) *GifService {
	return &GifService{gifs: gifs, cache: c}
}

// Categories returns all categories ordered by sortOrder.
func (s *GifService) Categories(ctx context.Context) ([]models.GifCategory, error) {
	var categories []models.GifCategory
	if s.cache.Get(ctx, gifCategoriesKey, &categories) {
		return categories, nil
	}
	categories, err := s.gifs.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, gifCategoriesKey, categories)
	return categories, nil
}

func (s *GifService) ByCategory(ctx context.Context, category string) ([]models.Gif, error) {
	if category == "" {
		return nil, apperror.New("No category provided", http.StatusBadRequest)
	}
	return s.gifs.GetByCategory(ctx, category)
}

// Search treats a known category name as a category lookup and anything else
// as a description match.
func (s *GifService) Search(ctx context.Context, term string) ([]models.Gif, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperror.New("No search term provided", http.StatusBadRequest)
	}
	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if lo.ContainsBy(categories, func(c models.GifCategory) bool { return c.Name == term }) {
		return s.gifs.GetByCategory(ctx, term)
	}
	return s.gifs.SearchByDescription(ctx, term, gifSearchLimit)
}
