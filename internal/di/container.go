// Package di wires the application together with samber/do.
package di

import (
	"github.com/samber/do/v2"

	"github.com/pagemarkapp/pagemark-server/internal/auth"
	"github.com/pagemarkapp/pagemark-server/internal/catalog/googlebooks"
	"github.com/pagemarkapp/pagemark-server/internal/config"
	"github.com/pagemarkapp/pagemark-server/internal/di/providers"
	"github.com/pagemarkapp/pagemark-server/internal/logger"
	"github.com/pagemarkapp/pagemark-server/internal/service"
)

// NewContainer registers every provider. Nothing is constructed until
// Bootstrap invokes it.
func NewContainer() *do.RootScope {
	injector := do.New()

	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideCatalogClient)
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideShelfService)
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideCollectionService)
	do.Provide(injector, providers.ProvideAnnotationService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideSessionCleanupJob)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap forces construction of the whole graph, in dependency order,
// so configuration problems surface at startup rather than on first
// request. The final invoke starts the HTTP listener.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*googlebooks.Client](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[*service.ShelfService](injector)
	_ = do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.CollectionService](injector)
	_ = do.MustInvoke[*service.AnnotationService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// An empty index with a populated registry means the index directory
	// was lost; rebuild it in the background.
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
