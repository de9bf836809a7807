package api

import (
	"context"

	"github.com/socialchef/creativechef/internal/db"
	"github.com/socialchef/creativechef/internal/services/recipe"
	"github.com/socialchef/creativechef/internal/web"
)

// RecipeGenerator is implemented by *recipe.Generator.
type RecipeGenerator interface {
	Generate(ctx context.Context, req recipe.Request) (*recipe.Generated, error)
}

// HistoryLister is implemented by *db.Queries.
type HistoryLister interface {
	ListRecentRecipeHistory(ctx context.Context, limit int32) ([]db.RecipeHistory, error)
}

type Server struct {
	generator RecipeGenerator
	history   HistoryLister
	pages     *web.Renderer
}

// NewServer wires the handlers. history may be nil when no database is
// configured; the history endpoint then answers 503.
func NewServer(generator RecipeGenerator, history HistoryLister, pages *web.Renderer) *Server {
	return &Server{
		generator: generator,
		history:   history,
		pages:     pages,
	}
}
