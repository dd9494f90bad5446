package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/cinesphere/cinesphere-server/internal/catalog"
	"github.com/cinesphere/cinesphere-server/internal/domain"
	domainerrors "github.com/cinesphere/cinesphere-server/internal/errors"
)

// MovieCatalog is the remote movie database.
type MovieCatalog interface {
	Popular(ctx context.Context, page int) (*domain.MoviePage, error)
	Search(ctx context.Context, query string, page int) (*domain.MoviePage, error)
	Genres(ctx context.Context) ([]domain.Genre, error)
	Discover(ctx context.Context, p catalog.DiscoverParams) (*domain.MoviePage, error)
}

// CatalogService browses the remote catalog. Every client failure is
// reported as Unavailable; callers only need to know the catalog could
// not answer.
type CatalogService struct {
	client MovieCatalog
	logger *slog.Logger
}

// NewCatalogService creates a catalog service.
func NewCatalogService(client MovieCatalog, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{client: client, logger: logger}
}

// Popular returns a page of popular movies.
func (s *CatalogService) Popular(ctx context.Context, page int) (*domain.MoviePage, error) {
	res, err := s.client.Popular(ctx, page)
	if err != nil {
		return nil, s.unavailable("popular", err)
	}
	return res, nil
}

// Search looks up movies by title.
func (s *CatalogService) Search(ctx context.Context, query string, page int) (*domain.MoviePage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"q": "is required",
		})
	}
	res, err := s.client.Search(ctx, query, page)
	if err != nil {
		return nil, s.unavailable("search", err)
	}
	return res, nil
}

// Genres lists the catalog's movie genres.
func (s *CatalogService) Genres(ctx context.Context) ([]domain.Genre, error) {
	res, err := s.client.Genres(ctx)
	if err != nil {
		return nil, s.unavailable("genres", err)
	}
	return res, nil
}

// Discover filters the catalog by year, minimum rating and genre.
func (s *CatalogService) Discover(ctx context.Context, p catalog.DiscoverParams) (*domain.MoviePage, error) {
	if p.MinRating < 0 || p.MinRating > 10 {
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"min_rating": "must be between 0 and 10",
		})
	}
	res, err := s.client.Discover(ctx, p)
	if err != nil {
		return nil, s.unavailable("discover", err)
	}
	return res, nil
}

func (s *CatalogService) unavailable(op string, err error) error {
	if errors.Is(err, catalog.ErrNotConfigured) {
		s.logger.Warn("catalog request without api key", "op", op)
	} else {
		s.logger.Error("catalog request failed", "op", op, "error", err)
	}
	return domainerrors.Wrap(err, domainerrors.CodeUnavailable, "movie catalog unavailable")
}
