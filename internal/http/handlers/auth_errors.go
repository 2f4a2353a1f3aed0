package handlers

import (
	"errors"
	"net/http"

	"github.com/hongminglow/volcano-api/internal/auth"
	"github.com/hongminglow/volcano-api/internal/http/respond"
)

// respondAuthError maps a credential failure to 401, or 403 for ErrForbidden.
func respondAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrForbidden):
		respond.Error(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, auth.ErrMissingHeader):
		respond.Error(w, http.StatusUnauthorized, "Authorization header ('Bearer token') not found")
	case errors.Is(err, auth.ErrMalformedHeader):
		respond.Error(w, http.StatusUnauthorized, "Authorization header is malformed")
	case errors.Is(err, auth.ErrExpiredToken):
		respond.Error(w, http.StatusUnauthorized, "JWT token has expired")
	default:
		respond.Error(w, http.StatusUnauthorized, "Invalid JWT token")
	}
}
