package server // import "github.com/storyhouse/storyhouse/server"

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	v1 "github.com/storyhouse/storyhouse/api/v1"
	"github.com/storyhouse/storyhouse/branch"
	"github.com/storyhouse/storyhouse/config"
	"github.com/storyhouse/storyhouse/store"
	"github.com/storyhouse/storyhouse/version"
	"github.com/storyhouse/storyhouse/worker"
)

// StartServer starts the HTTP server
func StartServer(ctx context.Context, store *store.Store, branches *branch.Manager, registry worker.WorkPool) (*http.Server, error) {
	addr := config.Opts.Host
	port := config.Opts.Port
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", addr, port),
		Handler: setupHandler(store, branches, registry),
	}

	startHTTPServer(server)

	return server, nil
}

func startHTTPServer(server *http.Server) {
	go func() {
		fmt.Println("Starting HTTP server in:", server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			fmt.Println("HTTP server error", err)
			os.Exit(1)
		}
	}()
}

func setupHandler(store *store.Store, branches *branch.Manager, registry worker.WorkPool) http.Handler {
	router := mux.NewRouter()

	// Setup the API routes
	v1.Server(router, store, branches, registry)

	router.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(); err != nil {
			http.Error(w, "Database Connection Error", http.StatusInternalServerError)
			return
		}

		w.Write([]byte("OK"))
	}).Name("healthcheck")

	router.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(version.GetCurrentVersion()))
	}).Name("version")

	return router
}
