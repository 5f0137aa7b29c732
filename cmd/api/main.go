// Command api runs the Pagemark HTTP server.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/pagemarkapp/pagemark-server/internal/di"
	"github.com/pagemarkapp/pagemark-server/internal/di/providers"
	"github.com/pagemarkapp/pagemark-server/internal/logger"
)

func main() {
	injector := di.NewContainer()
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap failed: %v\n", err)
		os.Exit(1)
	}

	// Block until asked to stop.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log := do.MustInvoke[*logger.Logger](injector)
	log.Info("Shutting down")

	// Shutdownable providers (HTTP server, cleanup job) stop here, in
	// reverse registration order.
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	// The store and search index sit behind handle types, so close them
	// explicitly after everything that uses them has stopped.
	closeHandle(injector, log, "database", func(h *providers.StoreHandle) error { return h.Shutdown() })
	closeHandle(injector, log, "search index", func(h *providers.SearchIndexHandle) error { return h.Shutdown() })

	log.Info("Goodnight")
}

func closeHandle[H any](injector do.Injector, log *logger.Logger, name string, close func(H) error) {
	handle, err := do.Invoke[H](injector)
	if err != nil {
		return
	}
	if err := close(handle); err != nil {
		log.Error("Failed to close "+name, "error", err)
		return
	}
	log.Info("Closed " + name)
}
