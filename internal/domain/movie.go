package domain

// Movie is a catalog title as returned by the remote movie database.
type Movie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path,omitempty"`
	Overview    string  `json:"overview,omitempty"`
	Rating      float64 `json:"vote_average"`
	ReleaseDate string  `json:"release_date,omitempty"`
}

// Genre is a catalog genre.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MoviePage is one page of catalog results. Pages are 1-based.
type MoviePage struct {
	Page       int     `json:"page"`
	TotalPages int     `json:"total_pages"`
	Results    []Movie `json:"results"`
}

// HasMore reports whether the catalog has pages after this one.
func (p *MoviePage) HasMore() bool {
	return p.Page < p.TotalPages
}
