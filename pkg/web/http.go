package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// NewRouter creates a new HTTP router
// CORS wraps the whole router, preflight requests are answered before route matching.
func NewRouter(hr *HandlerRepository) http.Handler {
	router := mux.NewRouter()
	router.Use(func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			handler.ServeHTTP(w, r)
			d := time.Since(start)

			hr.logger.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"remoteAddr": r.RemoteAddr,
				"durationMs": d.Milliseconds(),
				"duration":   d.String(),
			}).Info("Request")
		})
	})

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/categories", hr.categoriesHandler()).Methods(http.MethodGet)
	api.HandleFunc("/categories/{id}", hr.categoryHandler()).Methods(http.MethodGet)
	api.HandleFunc("/drinks", hr.drinksHandler()).Methods(http.MethodGet)
	api.HandleFunc("/drinks", hr.addDrinkHandler()).Methods(http.MethodPost)
	api.HandleFunc("/drinks/{id}", hr.drinkHandler()).Methods(http.MethodGet)
	api.HandleFunc("/drinks/{id}", hr.deleteDrinkHandler()).Methods(http.MethodDelete)
	api.HandleFunc("/drinks/{id}/prices", hr.savedPricesHandler()).Methods(http.MethodGet)
	api.HandleFunc("/drinks/{id}/prices", hr.refreshPricesHandler()).Methods(http.MethodPost)
	api.HandleFunc("/prices", hr.searchPricesHandler()).Methods(http.MethodGet)
	api.HandleFunc("/login", hr.loginHandler()).Methods(http.MethodPost)
	api.HandleFunc("/favorites", hr.favoritesHandler()).Methods(http.MethodGet)
	api.HandleFunc("/favorites", hr.addFavoriteHandler()).Methods(http.MethodPost)
	api.HandleFunc("/favorites/{id}", hr.deleteFavoriteHandler()).Methods(http.MethodDelete)

	router.Handle("/metrics", hr.metricsHandler())
	// unmatched paths fall through to the frontend, wrong methods on api routes still get 405
	router.NotFoundHandler = hr.frontendHandler()

	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	})(router)
}

// StartServer starts HTTP server
// It listens for SIGINT and SIGTERM signals and gracefully stops the server
func StartServer(router http.Handler, port int, logger *logrus.Logger) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("listen: %s", err)
		}
	}()
	logger.Infof("Server Started on port %d", port)

	<-done
	logger.Info("Server Stopped")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server Shutdown Failed:%+v", err)
	}

	logger.Info("Server Exited Properly")
}
