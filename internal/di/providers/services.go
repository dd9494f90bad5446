package providers

import (
	"github.com/samber/do/v2"

	"github.com/cinesphere/cinesphere-server/internal/auth"
	"github.com/cinesphere/cinesphere-server/internal/catalog"
	"github.com/cinesphere/cinesphere-server/internal/config"
	"github.com/cinesphere/cinesphere-server/internal/logger"
	"github.com/cinesphere/cinesphere-server/internal/service"
	"github.com/cinesphere/cinesphere-server/internal/validation"
)

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sessionHandle := do.MustInvoke[*SessionStoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	hasher := auth.NewHasher(auth.DefaultParams)

	return service.NewAuthService(storeHandle.Store, hasher, tokenService, sessionHandle.Store, v, log.Logger), nil
}

// ProvideWatchListService provides the watch-list service.
func ProvideWatchListService(i do.Injector) (*service.WatchListService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewWatchListService(storeHandle.Store, indexHandle.Index, v, cfg.WatchList.PageSize, log.Logger), nil
}

// ProvideStatsService provides the statistics service.
func ProvideStatsService(i do.Injector) (*service.StatsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStatsService(storeHandle.Store, log.Logger), nil
}

// CatalogClientHandle wraps the remote catalog client.
type CatalogClientHandle struct {
	*catalog.Client
}

// ProvideCatalogClient provides the movie catalog client.
func ProvideCatalogClient(i do.Injector) (*CatalogClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client, err := catalog.NewClient(catalog.Config{
		APIKey:            cfg.Catalog.APIKey,
		BaseURL:           cfg.Catalog.BaseURL,
		Language:          cfg.Catalog.Language,
		RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
		Timeout:           cfg.Catalog.Timeout,
	}, log.Logger)
	if err != nil {
		return nil, err
	}

	if cfg.Catalog.APIKey == "" {
		log.Warn("No catalog API key configured, catalog endpoints will be unavailable")
	} else {
		log.Info("Catalog client initialized", "language", cfg.Catalog.Language)
	}

	return &CatalogClientHandle{Client: client}, nil
}

// ProvideCatalogService provides the catalog service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	clientHandle := do.MustInvoke[*CatalogClientHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(clientHandle.Client, log.Logger), nil
}
