package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cinesphere/cinesphere-server/internal/catalog"
	"github.com/cinesphere/cinesphere-server/internal/domain"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "catalogPopular",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/popular",
		Summary:     "Popular movies",
		Tags:        []string{"Catalog"},
		Security:    bearerAuth,
	}, s.handleCatalogPopular)

	huma.Register(s.api, huma.Operation{
		OperationID: "catalogSearch",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/search",
		Summary:     "Search movies",
		Tags:        []string{"Catalog"},
		Security:    bearerAuth,
	}, s.handleCatalogSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "catalogGenres",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/genres",
		Summary:     "Movie genres",
		Tags:        []string{"Catalog"},
		Security:    bearerAuth,
	}, s.handleCatalogGenres)

	huma.Register(s.api, huma.Operation{
		OperationID: "catalogDiscover",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/discover",
		Summary:     "Discover movies",
		Description: "Filters the catalog by release year, minimum rating and genre",
		Tags:        []string{"Catalog"},
		Security:    bearerAuth,
	}, s.handleCatalogDiscover)
}

// === DTOs ===

// CatalogPageInput selects a catalog page.
type CatalogPageInput struct {
	Page int `query:"page" minimum:"0" maximum:"500" doc:"1-based page number"`
}

// CatalogSearchInput contains catalog search parameters.
type CatalogSearchInput struct {
	Query string `query:"q" maxLength:"200" doc:"Title to search for"`
	Page  int    `query:"page" minimum:"0" maximum:"500" doc:"1-based page number"`
}

// CatalogDiscoverInput contains discover filters. Zero values are ignored.
type CatalogDiscoverInput struct {
	Year      int     `query:"year" minimum:"0" doc:"Primary release year"`
	MinRating float64 `query:"min_rating" minimum:"0" maximum:"10" doc:"Minimum average rating"`
	GenreID   int64   `query:"genre" minimum:"0" doc:"Genre ID"`
	Page      int     `query:"page" minimum:"0" maximum:"500" doc:"1-based page number"`
}

// MoviePageOutput wraps a catalog page for Huma.
type MoviePageOutput struct {
	Body *domain.MoviePage
}

// GenresResponse lists catalog genres.
type GenresResponse struct {
	Genres []domain.Genre `json:"genres" doc:"Movie genres"`
}

// GenresOutput wraps genres for Huma.
type GenresOutput struct {
	Body GenresResponse
}

// === Handlers ===

func (s *Server) handleCatalogPopular(ctx context.Context, input *CatalogPageInput) (*MoviePageOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	page, err := s.services.Catalog.Popular(ctx, input.Page)
	if err != nil {
		return nil, err
	}
	return &MoviePageOutput{Body: page}, nil
}

func (s *Server) handleCatalogSearch(ctx context.Context, input *CatalogSearchInput) (*MoviePageOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	page, err := s.services.Catalog.Search(ctx, input.Query, input.Page)
	if err != nil {
		return nil, err
	}
	return &MoviePageOutput{Body: page}, nil
}

func (s *Server) handleCatalogGenres(ctx context.Context, _ *struct{}) (*GenresOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	genres, err := s.services.Catalog.Genres(ctx)
	if err != nil {
		return nil, err
	}
	return &GenresOutput{Body: GenresResponse{Genres: genres}}, nil
}

func (s *Server) handleCatalogDiscover(ctx context.Context, input *CatalogDiscoverInput) (*MoviePageOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	page, err := s.services.Catalog.Discover(ctx, catalog.DiscoverParams{
		Year:      input.Year,
		MinRating: input.MinRating,
		GenreID:   input.GenreID,
		Page:      input.Page,
	})
	if err != nil {
		return nil, err
	}
	return &MoviePageOutput{Body: page}, nil
}
