package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/hongminglow/volcano-api/internal/auth"
	"github.com/hongminglow/volcano-api/internal/http/respond"
	"github.com/hongminglow/volcano-api/internal/models"
	"github.com/hongminglow/volcano-api/internal/storage"
)

const (
	msgInvalidQuery           = "Invalid query parameters. Only country and populatedWithin are permitted."
	msgCountryRequired        = "Country is a required query parameter."
	msgInvalidPopulatedWithin = "Invalid value for populatedWithin. Only: 5km,10km,30km,100km are permitted."
)

// VolcanoHandler owns the read-only volcano endpoints.
type VolcanoHandler struct {
	store    storage.VolcanoStore
	verifier *auth.Verifier
	log      *slog.Logger
}

// NewVolcanoHandler constructs the handler.
func NewVolcanoHandler(store storage.VolcanoStore, verifier *auth.Verifier, log *slog.Logger) *VolcanoHandler {
	return &VolcanoHandler{store: store, verifier: verifier, log: log}
}

// Register attaches volcano routes to the mux.
func (h *VolcanoHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /countries", h.handleCountries)
	mux.HandleFunc("GET /volcanoes", h.handleList)
	mux.HandleFunc("GET /volcano/{id}", h.handleGet)
}

func (h *VolcanoHandler) handleCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.store.Countries(r.Context())
	if err != nil {
		h.log.Error("list countries failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond.JSON(w, http.StatusOK, countries)
}

func (h *VolcanoHandler) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if len(query) == 0 {
		respond.Error(w, http.StatusBadRequest, msgInvalidQuery)
		return
	}
	for key := range query {
		if key != "country" && key != "populatedWithin" {
			respond.Error(w, http.StatusBadRequest, msgInvalidQuery)
			return
		}
	}

	filter := models.VolcanoFilter{Country: strings.TrimSpace(query.Get("country"))}
	if filter.Country == "" {
		respond.Error(w, http.StatusBadRequest, msgCountryRequired)
		return
	}
	if query.Has("populatedWithin") {
		radius, ok := models.ParsePopulationRadius(query.Get("populatedWithin"))
		if !ok {
			respond.Error(w, http.StatusBadRequest, msgInvalidPopulatedWithin)
			return
		}
		filter.PopulatedWithin = radius
	}

	volcanoes, err := h.store.ListVolcanoes(r.Context(), filter)
	if err != nil {
		h.log.Error("list volcanoes failed", "country", filter.Country, "error", err)
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond.JSON(w, http.StatusOK, volcanoes)
}

func (h *VolcanoHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	outcome := h.verifier.FromRequest(r)
	if outcome.Status == auth.Rejected {
		respondAuthError(w, outcome.Reason)
		return
	}

	rawID := r.PathValue("id")
	notFound := fmt.Sprintf("Volcano with id %s not found", rawID)
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		respond.Error(w, http.StatusNotFound, notFound)
		return
	}

	volcano, err := h.store.GetVolcano(r.Context(), id, auth.VolcanoExtendedFields(outcome))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, notFound)
			return
		}
		h.log.Error("get volcano failed", "id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond.JSON(w, http.StatusOK, volcano)
}
