package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cinesphere/cinesphere-server/internal/domain"
	"github.com/cinesphere/cinesphere-server/internal/service"
	"github.com/cinesphere/cinesphere-server/internal/store"
)

var bearerAuth = []map[string][]string{{"bearer": {}}}

func (s *Server) registerWatchListRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listWatchList",
		Method:      http.MethodGet,
		Path:        "/api/v1/watchlist",
		Summary:     "List watch list page",
		Description: "Returns one page of the caller's watch list, newest first. A page shorter than the limit is the last one.",
		Tags:        []string{"Watch list"},
		Security:    bearerAuth,
	}, s.handleListWatchList)

	huma.Register(s.api, huma.Operation{
		OperationID: "listWatchListAll",
		Method:      http.MethodGet,
		Path:        "/api/v1/watchlist/all",
		Summary:     "List whole watch list",
		Description: "Returns every entry in the caller's watch list, newest first",
		Tags:        []string{"Watch list"},
		Security:    bearerAuth,
	}, s.handleListWatchListAll)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchWatchList",
		Method:      http.MethodGet,
		Path:        "/api/v1/watchlist/search",
		Summary:     "Search watch list",
		Description: "Finds entries in the caller's watch list by title, ignoring case and accents",
		Tags:        []string{"Watch list"},
		Security:    bearerAuth,
	}, s.handleSearchWatchList)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addToWatchList",
		Method:        http.MethodPost,
		Path:          "/api/v1/watchlist",
		Summary:       "Add movie",
		Description:   "Adds a movie to the caller's watch list. Adding a movie twice fails with 409 and changes nothing.",
		Tags:          []string{"Watch list"},
		Security:      bearerAuth,
		DefaultStatus: http.StatusCreated,
	}, s.handleAddToWatchList)

	huma.Register(s.api, huma.Operation{
		OperationID: "getWatchListEntry",
		Method:      http.MethodGet,
		Path:        "/api/v1/watchlist/{movieId}",
		Summary:     "Check movie",
		Description: "Reports whether a movie is in the caller's watch list and returns the entry if it is",
		Tags:        []string{"Watch list"},
		Security:    bearerAuth,
	}, s.handleGetWatchListEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "setWatchListStatus",
		Method:      http.MethodPut,
		Path:        "/api/v1/watchlist/{movieId}/status",
		Summary:     "Set status",
		Description: "Changes the viewing status of a movie in the caller's watch list",
		Tags:        []string{"Watch list"},
		Security:    bearerAuth,
	}, s.handleSetWatchListStatus)

	huma.Register(s.api, huma.Operation{
		OperationID:   "removeFromWatchList",
		Method:        http.MethodDelete,
		Path:          "/api/v1/watchlist/{movieId}",
		Summary:       "Remove movie",
		Description:   "Removes a movie from the caller's watch list",
		Tags:          []string{"Watch list"},
		Security:      bearerAuth,
		DefaultStatus: http.StatusNoContent,
	}, s.handleRemoveFromWatchList)
}

// === DTOs ===

// ListWatchListInput contains offset pagination parameters.
type ListWatchListInput struct {
	Limit  int `query:"limit" minimum:"0" maximum:"100" doc:"Entries per page (default from server config)"`
	Offset int `query:"offset" minimum:"0" doc:"Entries to skip"`
}

// ListWatchListOutput wraps a watch-list page for Huma.
type ListWatchListOutput struct {
	Body *store.OffsetPage[*domain.WatchListEntry]
}

// WatchListEntries is a list of entries.
type WatchListEntries struct {
	Items []*domain.WatchListEntry `json:"items" doc:"Watch-list entries"`
	Total int                      `json:"total" doc:"Number of entries returned"`
}

// WatchListEntriesOutput wraps a list of entries for Huma.
type WatchListEntriesOutput struct {
	Body WatchListEntries
}

// SearchWatchListInput contains search parameters.
type SearchWatchListInput struct {
	Query string `query:"q" maxLength:"200" doc:"Title to search for"`
	Limit int    `query:"limit" minimum:"0" maximum:"100" doc:"Maximum results"`
}

// AddToWatchListRequest is the request body for adding a movie.
type AddToWatchListRequest struct {
	MovieID    int64  `json:"movie_id" minimum:"1" doc:"Catalog movie ID"`
	Title      string `json:"title" maxLength:"500" doc:"Movie title"`
	PosterPath string `json:"poster_path,omitempty" maxLength:"500" doc:"Poster image path"`
	Status     string `json:"status,omitempty" doc:"PENDING, WATCHING, WATCHED or ABANDONED (default PENDING)"`
}

// AddToWatchListInput wraps the add request for Huma.
type AddToWatchListInput struct {
	Body AddToWatchListRequest
}

// WatchListEntryOutput wraps one entry for Huma.
type WatchListEntryOutput struct {
	Body *domain.WatchListEntry
}

// MovieIDInput identifies a movie in the caller's watch list.
type MovieIDInput struct {
	MovieID int64 `path:"movieId" minimum:"1" doc:"Catalog movie ID"`
}

// WatchListMembership reports whether a movie is in the watch list.
type WatchListMembership struct {
	InWatchList bool                   `json:"in_watch_list" doc:"Whether the movie is in the watch list"`
	Entry       *domain.WatchListEntry `json:"entry,omitempty" doc:"The entry, when present"`
}

// WatchListMembershipOutput wraps membership for Huma.
type WatchListMembershipOutput struct {
	Body WatchListMembership
}

// SetStatusRequest is the request body for changing status.
type SetStatusRequest struct {
	Status string `json:"status" doc:"PENDING, WATCHING, WATCHED or ABANDONED"`
}

// SetStatusInput wraps the status change for Huma.
type SetStatusInput struct {
	MovieID int64 `path:"movieId" minimum:"1" doc:"Catalog movie ID"`
	Body    SetStatusRequest
}

// === Handlers ===

func (s *Server) handleListWatchList(ctx context.Context, input *ListWatchListInput) (*ListWatchListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	page, err := s.services.WatchList.Page(ctx, userID, store.OffsetParams{Limit: input.Limit, Offset: input.Offset})
	if err != nil {
		return nil, err
	}

	return &ListWatchListOutput{Body: page}, nil
}

func (s *Server) handleListWatchListAll(ctx context.Context, _ *struct{}) (*WatchListEntriesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.services.WatchList.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &WatchListEntriesOutput{Body: WatchListEntries{Items: entries, Total: len(entries)}}, nil
}

func (s *Server) handleSearchWatchList(ctx context.Context, input *SearchWatchListInput) (*WatchListEntriesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.services.WatchList.Search(ctx, userID, input.Query, input.Limit)
	if err != nil {
		return nil, err
	}

	return &WatchListEntriesOutput{Body: WatchListEntries{Items: entries, Total: len(entries)}}, nil
}

func (s *Server) handleAddToWatchList(ctx context.Context, input *AddToWatchListInput) (*WatchListEntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.WatchList.Add(ctx, userID, service.AddRequest{
		MovieID:    input.Body.MovieID,
		Title:      input.Body.Title,
		PosterPath: input.Body.PosterPath,
		Status:     input.Body.Status,
	})
	if err != nil {
		return nil, err
	}

	return &WatchListEntryOutput{Body: entry}, nil
}

func (s *Server) handleGetWatchListEntry(ctx context.Context, input *MovieIDInput) (*WatchListMembershipOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	ok, err := s.services.WatchList.Exists(ctx, userID, input.MovieID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &WatchListMembershipOutput{Body: WatchListMembership{InWatchList: false}}, nil
	}

	entry, err := s.services.WatchList.Get(ctx, userID, input.MovieID)
	if err != nil {
		return nil, err
	}

	return &WatchListMembershipOutput{Body: WatchListMembership{InWatchList: true, Entry: entry}}, nil
}

func (s *Server) handleSetWatchListStatus(ctx context.Context, input *SetStatusInput) (*WatchListEntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.WatchList.SetStatus(ctx, userID, input.MovieID, input.Body.Status); err != nil {
		return nil, err
	}

	entry, err := s.services.WatchList.Get(ctx, userID, input.MovieID)
	if err != nil {
		return nil, err
	}
	return &WatchListEntryOutput{Body: entry}, nil
}

func (s *Server) handleRemoveFromWatchList(ctx context.Context, input *MovieIDInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.WatchList.Remove(ctx, userID, input.MovieID); err != nil {
		return nil, err
	}
	return nil, nil
}
