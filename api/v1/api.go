package v1 // import "github.com/storyhouse/storyhouse/api/v1"

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/storyhouse/storyhouse/branch"
	"github.com/storyhouse/storyhouse/middleware"
	"github.com/storyhouse/storyhouse/ownership"
	"github.com/storyhouse/storyhouse/pricing"
	"github.com/storyhouse/storyhouse/store"
	"github.com/storyhouse/storyhouse/worker"
)

type Handler struct {
	store      *store.Store
	resolver   *ownership.Resolver
	calculator *pricing.Calculator
	branches   *branch.Manager
	registry   worker.WorkPool
	router     *mux.Router
}

func Server(router *mux.Router, store *store.Store, branches *branch.Manager, registry worker.WorkPool) {
	handler := &Handler{
		store:      store,
		resolver:   ownership.NewResolver(store),
		calculator: pricing.NewCalculator(),
		branches:   branches,
		registry:   registry,
		router:     router,
	}

	sr := router.PathPrefix("/api/v1").Subrouter()
	middleware := middleware.NewMiddleware(handler.store)
	sr.Use(middleware.HandleCORS)
	sr.Use(middleware.LoggingRequest)
	sr.Methods(http.MethodOptions)

	sr.HandleFunc("/books", handler.listBooks).Methods(http.MethodGet)
	sr.HandleFunc("/books", handler.registerBook).Methods(http.MethodPost)
	sr.HandleFunc("/book/{bookID}", handler.getBook).Methods(http.MethodGet)
	sr.HandleFunc("/book/{bookID}/chapters", handler.addChapter).Methods(http.MethodPost)
	sr.HandleFunc("/book/{bookID}/chapters/{chapterNumber}", handler.getChapter).Methods(http.MethodGet)
	sr.HandleFunc("/book/{bookID}/cover", handler.uploadCover).Methods(http.MethodPost)
	sr.HandleFunc("/book/{bookID}/cover", handler.getCover).Methods(http.MethodGet)
	sr.HandleFunc("/book/{bookID}/cover", handler.deleteCover).Methods(http.MethodDelete)
	sr.HandleFunc("/book/{bookID}/ownership", handler.getOwnership).Methods(http.MethodGet)
	sr.HandleFunc("/derivatives", handler.createDerivative).Methods(http.MethodPost)
	sr.HandleFunc("/pricing/chapter/{chapterNumber}", handler.chapterPricing).Methods(http.MethodGet)
	sr.HandleFunc("/pricing/royalty", handler.royaltySplit).Methods(http.MethodPost)
	sr.HandleFunc("/migrations", handler.runMigration).Methods(http.MethodPost)
}
