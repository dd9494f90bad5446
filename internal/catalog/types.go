package catalog

import "github.com/cinesphere/cinesphere-server/internal/domain"

// movieResult is one movie in a TMDB listing response.
type movieResult struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path"`
	Overview    string  `json:"overview"`
	VoteAverage float64 `json:"vote_average"`
	ReleaseDate string  `json:"release_date"`
}

// pageResponse is the envelope of movie/popular, search/movie and discover/movie.
type pageResponse struct {
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	Results    []movieResult `json:"results"`
}

type genreResponse struct {
	Genres []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

func (p *pageResponse) toDomain() *domain.MoviePage {
	movies := make([]domain.Movie, 0, len(p.Results))
	for _, r := range p.Results {
		movies = append(movies, domain.Movie{
			ID:          r.ID,
			Title:       r.Title,
			PosterPath:  r.PosterPath,
			Overview:    r.Overview,
			Rating:      r.VoteAverage,
			ReleaseDate: r.ReleaseDate,
		})
	}
	return &domain.MoviePage{Page: p.Page, TotalPages: p.TotalPages, Results: movies}
}

// DiscoverParams filters catalog discovery. Zero fields are not sent.
type DiscoverParams struct {
	Year      int
	MinRating float64
	GenreID   int64
	Page      int
}
