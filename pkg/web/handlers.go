package web

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/kotrzina/russtea/pkg/catalog"
	"github.com/kotrzina/russtea/pkg/config"
	"github.com/kotrzina/russtea/pkg/offers"
	"github.com/kotrzina/russtea/pkg/pricesearch"
	"github.com/kotrzina/russtea/pkg/prometheus"
	"github.com/kotrzina/russtea/pkg/store"
	"github.com/kotrzina/russtea/pkg/utils"
)

type HandlerRepository struct {
	catalog *catalog.Catalog
	prices  *pricesearch.Service
	config  *config.Config
	monitor *prometheus.Monitor
	logger  *logrus.Logger
	now     func() time.Time
}

func NewHandlerRepository(
	catalog *catalog.Catalog,
	prices *pricesearch.Service,
	config *config.Config,
	monitor *prometheus.Monitor,
	logger *logrus.Logger,
) *HandlerRepository {
	return &HandlerRepository{
		catalog: catalog,
		prices:  prices,
		config:  config,
		monitor: monitor,
		logger:  logger,
		now:     time.Now,
	}
}

type offerResponse struct {
	offers.Offer
	PriceFormatted string `json:"price_formatted"`
}

type searchResponse struct {
	Query  string          `json:"query"`
	Offers []offerResponse `json:"offers"`
	Cached bool            `json:"cached"`
}

type savedPricesResponse struct {
	DrinkID string          `json:"drink_id"`
	Offers  []offerResponse `json:"offers"`
	SavedAt time.Time       `json:"saved_at"`
	Age     string          `json:"age"`
}

func (hr *HandlerRepository) categoriesHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		hr.writeJSON(w, http.StatusOK, hr.catalog.Categories())
	}
}

func (hr *HandlerRepository) categoryHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		category, err := hr.catalog.Category(mux.Vars(r)["id"])
		if err != nil {
			hr.writeError(w, err)
			return
		}

		hr.writeJSON(w, http.StatusOK, category)
	}
}

// drinksHandler lists drinks, any filter parameter switches from plain listing to filtering
func (hr *HandlerRepository) drinksHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		limit := 0
		if raw := q.Get("limit"); raw != "" {
			var err error
			limit, err = strconv.Atoi(raw)
			if err != nil || limit < 0 {
				hr.writeBadRequest(w, "limit must be a non-negative number")
				return
			}
		}

		drinks, err := hr.catalog.Filter(catalog.Filter{
			CategoryID:    q.Get("category_id"),
			CaffeineLevel: q.Get("caffeine_level"),
			ID:            q.Get("id"),
			Search:        q.Get("search"),
			SortBy:        q.Get("sort"),
			Limit:         limit,
		})
		if err != nil {
			hr.writeError(w, err)
			return
		}

		hr.writeJSON(w, http.StatusOK, drinks)
	}
}

func (hr *HandlerRepository) drinkHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		drink, err := hr.catalog.Drink(mux.Vars(r)["id"])
		if err != nil {
			hr.writeError(w, err)
			return
		}

		hr.writeJSON(w, http.StatusOK, drink)
	}
}

func (hr *HandlerRepository) addDrinkHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if !hr.authorized(w, r) {
			return
		}

		var drink store.Drink
		if err := json.NewDecoder(r.Body).Decode(&drink); err != nil {
			hr.writeBadRequest(w, "Could not read post body")
			return
		}

		created, err := hr.catalog.AddDrink(r.Context(), drink)
		if err != nil {
			hr.writeError(w, err)
			return
		}

		hr.writeJSON(w, http.StatusCreated, created)
	}
}

func (hr *HandlerRepository) deleteDrinkHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if !hr.authorized(w, r) {
			return
		}

		if err := hr.catalog.DeleteDrink(r.Context(), mux.Vars(r)["id"]); err != nil {
			hr.writeError(w, err)
			return
		}

		hr.writeOk(w)
	}
}

func (hr *HandlerRepository) savedPricesHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		if _, err := hr.catalog.Drink(id); err != nil {
			hr.writeError(w, err)
			return
		}

		saved, err := hr.prices.SavedPrices(id)
		if err != nil {
			hr.writeError(w, err)
			return
		}

		hr.writeJSON(w, http.StatusOK, hr.savedPricesResponse(saved))
	}
}

func (hr *HandlerRepository) refreshPricesHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		saved, err := hr.prices.SearchForDrink(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			hr.writeError(w, err)
			return
		}

		hr.writeJSON(w, http.StatusOK, hr.savedPricesResponse(saved))
	}
}

func (hr *HandlerRepository) searchPricesHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(r.URL.Query().Get("q"))
		if name == "" {
			hr.writeBadRequest(w, "query parameter q is required")
			return
		}

		result, err := hr.prices.Search(r.Context(), name)
		if err != nil {
			hr.writeError(w, err)
			return
		}

		hr.writeJSON(w, http.StatusOK, searchResponse{
			Query:  result.Query,
			Offers: formatOffers(result.Offers),
			Cached: result.Cached,
		})
	}
}

func (hr *HandlerRepository) loginHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var input struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			hr.writeBadRequest(w, "Could not read post body")
			return
		}

		user, err := hr.catalog.Login(input.Email)
		if err != nil {
			hr.writeError(w, err)
			return
		}

		hr.writeJSON(w, http.StatusOK, user)
	}
}

func (hr *HandlerRepository) favoritesHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		favorites, err := hr.catalog.Favorites(r.URL.Query().Get("email"))
		if err != nil {
			hr.writeError(w, err)
			return
		}

		hr.writeJSON(w, http.StatusOK, favorites)
	}
}

func (hr *HandlerRepository) addFavoriteHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var input struct {
			DrinkID   string `json:"drink_id"`
			UserEmail string `json:"user_email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			hr.writeBadRequest(w, "Could not read post body")
			return
		}

		favorite, err := hr.catalog.AddFavorite(input.UserEmail, input.DrinkID)
		if err != nil {
			hr.writeError(w, err)
			return
		}

		hr.writeJSON(w, http.StatusCreated, favorite)
	}
}

func (hr *HandlerRepository) deleteFavoriteHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := hr.catalog.RemoveFavorite(mux.Vars(r)["id"]); err != nil {
			hr.writeError(w, err)
			return
		}

		hr.writeOk(w)
	}
}

// metricsHandler returns HTTP handler for metrics endpoint
func (hr *HandlerRepository) metricsHandler() http.Handler {
	return promhttp.HandlerFor(
		hr.monitor.Registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			Registry:          hr.monitor.Registry,
		},
	)
}

// frontendHandler serves the built frontend, unknown paths get index.html for client side routing
func (hr *HandlerRepository) frontendHandler() http.Handler {
	root := hr.config.FrontendPath
	files := http.FileServer(http.Dir(root))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			hr.writeJSON(w, http.StatusNotFound, errorResponse{Error: "no such endpoint", Kind: "not_found"})
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		path := filepath.Join(root, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err != nil || info.IsDir() && r.URL.Path != "/" {
			http.ServeFile(w, r, filepath.Join(root, "index.html"))
			return
		}

		files.ServeHTTP(w, r)
	})
}

func (hr *HandlerRepository) authorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Authorization") != hr.config.Password {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return false
	}

	return true
}

func (hr *HandlerRepository) savedPricesResponse(saved store.SavedPrices) savedPricesResponse {
	return savedPricesResponse{
		DrinkID: saved.DrinkID,
		Offers:  formatOffers(saved.Offers),
		SavedAt: saved.SavedAt,
		Age:     utils.FormatAge(saved.SavedAt, hr.now()),
	}
}

func formatOffers(found []offers.Offer) []offerResponse {
	out := make([]offerResponse, 0, len(found))
	for _, offer := range found {
		out = append(out, offerResponse{
			Offer:          offer,
			PriceFormatted: utils.FormatPrice(offer.Price, offer.Currency),
		})
	}
	return out
}

func (hr *HandlerRepository) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		hr.logger.Errorf("Could not write response: %v", err)
	}
}

func (hr *HandlerRepository) writeOk(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(utils.GetOkJSON()); err != nil {
		hr.logger.Errorf("Could not write response: %v", err)
	}
}
