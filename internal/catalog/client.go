// Package catalog is a client for the remote movie database (TMDB v3 API).
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/cinesphere/cinesphere-server/internal/domain"
)

const (
	DefaultBaseURL  = "https://api.themoviedb.org/3/"
	DefaultLanguage = "es-ES"
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("catalog: api key not configured")

// StatusError is returned for non-200 responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Config configures a Client.
type Config struct {
	APIKey            string
	BaseURL           string
	Language          string
	RequestsPerSecond float64
	Timeout           time.Duration
}

// Client queries the movie catalog. It does not cache or retry.
type Client struct {
	apiKey      string
	baseURL     *url.URL
	language    string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// NewClient creates a catalog client. Missing fields take defaults.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse catalog base url: %w", err)
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 20
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		apiKey:      cfg.APIKey,
		baseURL:     base,
		language:    cfg.Language,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(1, int(cfg.RequestsPerSecond))),
		logger:      logger,
	}, nil
}

// Popular returns a page of popular movies.
func (c *Client) Popular(ctx context.Context, page int) (*domain.MoviePage, error) {
	params := url.Values{}
	setPage(params, page)

	var resp pageResponse
	if err := c.get(ctx, "movie/popular", params, &resp); err != nil {
		return nil, err
	}
	return resp.toDomain(), nil
}

// Search returns a page of movies matching query.
func (c *Client) Search(ctx context.Context, query string, page int) (*domain.MoviePage, error) {
	params := url.Values{}
	params.Set("query", query)
	setPage(params, page)

	var resp pageResponse
	if err := c.get(ctx, "search/movie", params, &resp); err != nil {
		return nil, err
	}
	return resp.toDomain(), nil
}

// Genres returns every movie genre.
func (c *Client) Genres(ctx context.Context) ([]domain.Genre, error) {
	var resp genreResponse
	if err := c.get(ctx, "genre/movie/list", url.Values{}, &resp); err != nil {
		return nil, err
	}
	genres := make([]domain.Genre, 0, len(resp.Genres))
	for _, g := range resp.Genres {
		genres = append(genres, domain.Genre{ID: g.ID, Name: g.Name})
	}
	return genres, nil
}

// Discover returns a page of movies matching the filters in p.
func (c *Client) Discover(ctx context.Context, p DiscoverParams) (*domain.MoviePage, error) {
	params := url.Values{}
	if p.Year > 0 {
		params.Set("primary_release_year", strconv.Itoa(p.Year))
	}
	if p.MinRating > 0 {
		params.Set("vote_average.gte", strconv.FormatFloat(p.MinRating, 'f', -1, 64))
	}
	if p.GenreID > 0 {
		params.Set("with_genres", strconv.FormatInt(p.GenreID, 10))
	}
	setPage(params, p.Page)

	var resp pageResponse
	if err := c.get(ctx, "discover/movie", params, &resp); err != nil {
		return nil, err
	}
	return resp.toDomain(), nil
}

func setPage(params url.Values, page int) {
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
}

// get performs a GET on path and decodes the JSON body into dest.
func (c *Client) get(ctx context.Context, path string, params url.Values, dest any) error {
	if c.apiKey == "" {
		return ErrNotConfigured
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)

	u := c.baseURL.ResolveReference(&url.URL{Path: path, RawQuery: params.Encode()})

	c.logger.Debug("catalog request", "path", path, "page", params.Get("page"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512)) //nolint:errcheck // best effort detail
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
