package providers

import (
	"github.com/samber/do/v2"

	"github.com/pagemarkapp/pagemark-server/internal/auth"
	"github.com/pagemarkapp/pagemark-server/internal/catalog/googlebooks"
	"github.com/pagemarkapp/pagemark-server/internal/config"
	"github.com/pagemarkapp/pagemark-server/internal/logger"
	"github.com/pagemarkapp/pagemark-server/internal/service"
)

// ProvideCatalogClient provides the Google Books API client.
func ProvideCatalogClient(i do.Injector) (*googlebooks.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return googlebooks.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.APIKey, log.Logger), nil
}

// ProvideShelfService provides the shelf service.
func ProvideShelfService(i do.Injector) (*service.ShelfService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewShelfService(storeHandle.Store, log.Logger), nil
}

// ProvideBookService provides the book registry service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	catalogClient := do.MustInvoke[*googlebooks.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(storeHandle.Store, catalogClient, indexHandle.Index, log.Logger), nil
}

// ProvideCollectionService provides the collection service.
func ProvideCollectionService(i do.Injector) (*service.CollectionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	bookService := do.MustInvoke[*service.BookService](i)
	shelfService := do.MustInvoke[*service.ShelfService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCollectionService(storeHandle.Store, bookService, shelfService, log.Logger), nil
}

// ProvideAnnotationService provides the annotation service.
func ProvideAnnotationService(i do.Injector) (*service.AnnotationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	collectionService := do.MustInvoke[*service.CollectionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAnnotationService(storeHandle.Store, collectionService, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	shelfService := do.MustInvoke[*service.ShelfService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, shelfService, log.Logger), nil
}
