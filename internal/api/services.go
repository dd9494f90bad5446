package api

import "github.com/cinesphere/cinesphere-server/internal/service"

// Services groups the business services used by the API server.
type Services struct {
	Auth      *service.AuthService
	WatchList *service.WatchListService
	Stats     *service.StatsService
	Catalog   *service.CatalogService
}
