package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hongminglow/volcano-api/internal/auth"
	"github.com/hongminglow/volcano-api/internal/http/respond"
	"github.com/hongminglow/volcano-api/internal/models/dto"
	"github.com/hongminglow/volcano-api/internal/profile"
	"github.com/hongminglow/volcano-api/internal/storage"
)

const (
	msgCredentialsIncomplete = "Request body incomplete, both email and password are required"
	msgBadCredentials        = "Incorrect email or password"
	msgUserNotFound          = "User not found"
	msgInvalidJSON           = "invalid JSON payload"
)

var profileMessages = map[error]string{
	profile.ErrIncomplete: "Request body incomplete: firstName, lastName, dob and address are required.",
	profile.ErrWrongType:  "Request body invalid: firstName, lastName and address must be strings only.",
	profile.ErrBadFormat:  "Invalid input: dob must be a real date in format YYYY-MM-DD.",
	profile.ErrFutureDate: "Invalid input: dob must be a date in the past.",
}

// UserHandler owns registration, login and profile endpoints.
type UserHandler struct {
	store    storage.UserStore
	tokens   *auth.TokenManager
	verifier *auth.Verifier
	log      *slog.Logger
	now      func() time.Time
}

// NewUserHandler constructs the handler.
func NewUserHandler(store storage.UserStore, tokens *auth.TokenManager, verifier *auth.Verifier, log *slog.Logger) *UserHandler {
	return &UserHandler{store: store, tokens: tokens, verifier: verifier, log: log, now: time.Now}
}

// Register attaches user routes to the mux. limit, when non-nil, wraps the
// credential endpoints.
func (h *UserHandler) Register(mux *http.ServeMux, limit func(http.Handler) http.Handler) {
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}
	mux.Handle("POST /user/register", limit(http.HandlerFunc(h.handleRegister)))
	mux.Handle("POST /user/login", limit(http.HandlerFunc(h.handleLogin)))
	mux.HandleFunc("GET /user/{email}/profile", h.handleGetProfile)
	mux.HandleFunc("PUT /user/{email}/profile", h.handleUpdateProfile)
}

func (h *UserHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	if req.Email == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, msgCredentialsIncomplete)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			respond.Error(w, http.StatusBadRequest, "password must be at most 72 bytes")
			return
		}
		h.log.Error("hash password failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	if err := h.store.CreateUser(r.Context(), req.Email, hash); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respond.Error(w, http.StatusConflict, "User already exists")
			return
		}
		h.log.Error("create user failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond.JSON(w, http.StatusCreated, dto.MessageResponse{Message: "User created"})
}

func (h *UserHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	if req.Email == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, msgCredentialsIncomplete)
		return
	}

	user, err := h.store.FindByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusUnauthorized, msgBadCredentials)
			return
		}
		h.log.Error("login lookup failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respond.Error(w, http.StatusUnauthorized, msgBadCredentials)
		return
	}

	token, err := h.tokens.Generate(user.Email)
	if err != nil {
		h.log.Error("sign token failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond.JSON(w, http.StatusOK, dto.LoginResponse{Token: token, TokenType: "Bearer", ExpiresIn: h.tokens.ExpiresIn()})
}

func (h *UserHandler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	outcome := h.verifier.FromRequest(r)
	if outcome.Status == auth.Rejected {
		respondAuthError(w, outcome.Reason)
		return
	}

	user, err := h.store.FindByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, msgUserNotFound)
			return
		}
		h.log.Error("profile lookup failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if auth.ProfileExtendedFields(outcome, email) {
		respond.JSON(w, http.StatusOK, dto.NewFullProfile(user))
		return
	}
	respond.JSON(w, http.StatusOK, dto.NewPublicProfile(user))
}

func (h *UserHandler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	if err := auth.AuthorizeProfileUpdate(h.verifier.FromRequest(r), email); err != nil {
		respondAuthError(w, err)
		return
	}

	payload, err := profile.DecodePayload(r.Body)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	updated, err := profile.Validate(payload, h.now())
	if err != nil {
		respond.Error(w, http.StatusBadRequest, profileMessages[err])
		return
	}

	if err := h.store.UpdateProfile(r.Context(), email, updated); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, msgUserNotFound)
			return
		}
		h.log.Error("update profile failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond.JSON(w, http.StatusOK, dto.UpdatedProfile{Email: email, Profile: updated})
}
