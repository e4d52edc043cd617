package handlers

import (
	"context"

	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/labstack/echo/v4"
)

type GifService interface {
	Categories(ctx context.Context) ([]models.GifCategory, error)
	ByCategory(ctx context.Context, category string) ([]models.Gif, error)
	Search(ctx context.Context, term string) ([]models.Gif, error)
}

// GifHandler serves the gif library
type GifHandler struct {
	gifs GifService
}

// NewGifHandler creates a new GifHandler
func NewGifHandler(gifs GifService) *GifHandler {
	return &GifHandler{gifs: gifs}
}

// RegisterGifRoutes registers the public gif routes
func (h *GifHandler) RegisterGifRoutes(g *echo.Group) {
	g.GET("", h.GetGifsByCategory)
	g.GET("/categories", h.GetCategories)
	g.GET("/search", h.SearchGifs)
}

func (h *GifHandler) GetCategories(c echo.Context) error {
	categories, err := h.gifs.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	return sendList(c, categories, len(categories))
}

func (h *GifHandler) GetGifsByCategory(c echo.Context) error {
	gifs, err := h.gifs.ByCategory(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return err
	}
	return sendList(c, gifs, len(gifs))
}

func (h *GifHandler) SearchGifs(c echo.Context) error {
	gifs, err := h.gifs.Search(c.Request().Context(), c.QueryParam("searchTerm"))
	if err != nil {
		return err
	}
	return sendList(c, gifs, len(gifs))
}
