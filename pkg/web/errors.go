package web

import (
	"errors"
	"net/http"

	"github.com/kotrzina/russtea/pkg/catalog"
	"github.com/kotrzina/russtea/pkg/offers"
	"github.com/kotrzina/russtea/pkg/pricesearch"
	"github.com/kotrzina/russtea/pkg/store"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// errorStatus maps a domain error to its HTTP status and a stable kind for clients
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, offers.ErrNoCandidateRecords):
		return http.StatusNotFound, "no_candidate_records"
	case errors.Is(err, offers.ErrNoPriceableRecords):
		return http.StatusUnprocessableEntity, "no_priceable_records"
	case errors.Is(err, pricesearch.ErrUnauthorized):
		return http.StatusBadGateway, "unauthorized"
	case errors.Is(err, pricesearch.ErrProviderUnavailable):
		return http.StatusBadGateway, "provider_unavailable"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, catalog.ErrInvalidDrink):
		return http.StatusBadRequest, "invalid_drink"
	case errors.Is(err, catalog.ErrInvalidEmail):
		return http.StatusBadRequest, "invalid_email"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (hr *HandlerRepository) writeError(w http.ResponseWriter, err error) {
	status, kind := errorStatus(err)
	if status >= http.StatusInternalServerError {
		hr.logger.Errorf("Request failed: %v", err)
	} else {
		hr.logger.Debugf("Request rejected (%s): %v", kind, err)
	}

	hr.writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

func (hr *HandlerRepository) writeBadRequest(w http.ResponseWriter, msg string) {
	hr.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg, Kind: "bad_request"})
}
