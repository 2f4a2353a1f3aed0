package handlers

import (
	"net/http"

	"github.com/hongminglow/volcano-api/internal/http/respond"
	"github.com/hongminglow/volcano-api/internal/models/dto"
)

// MetaHandler serves static information about the API author.
type MetaHandler struct {
	me dto.MeResponse
}

// NewMetaHandler constructs the handler.
func NewMetaHandler(name, studentNumber string) *MetaHandler {
	return &MetaHandler{me: dto.MeResponse{Name: name, StudentNumber: studentNumber}}
}

// Register attaches the meta routes to the mux.
func (h *MetaHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /me", h.handleMe)
}

func (h *MetaHandler) handleMe(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.me)
}
