package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/yourname/reelshelf/internal/accounts"
	"github.com/yourname/reelshelf/internal/auth"
	"github.com/yourname/reelshelf/internal/validate"
)

// TokenVerifier turns a raw access token into the caller's identity.
type TokenVerifier interface {
	Verify(raw string) (auth.Identity, error)
}

type AccountHandler struct {
	Accounts *accounts.Service
	Verifier TokenVerifier
	Log      zerolog.Logger

	// SecureCookie marks the session cookie Secure; off only for plain-http dev.
	SecureCookie bool
}

func NewAccountHandler(svc *accounts.Service, v TokenVerifier, log zerolog.Logger) *AccountHandler {
	return &AccountHandler{Accounts: svc, Verifier: v, Log: log, SecureCookie: true}
}

// AuthRoutes is mounted under /auth.
func (h *AccountHandler) AuthRoutes(authn func(http.Handler) http.Handler) func(r chi.Router) {
	return func(r chi.Router) {
		r.Post("/session", h.session)
		r.Post("/logout", h.logout)
		r.With(authn).Post("/sync", h.sync)
	}
}

func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := caller(w, r)
	if !ok {
		return
	}
	u, err := h.Accounts.Me(r.Context(), uid)
	if errors.Is(err, accounts.ErrUnknownUser) {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		respondServiceError(w, r, h.Log, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

func (h *AccountHandler) sync(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok || id.UserID == "" {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	h.syncIdentity(w, r, id)
}

type sessionBody struct {
	AccessToken string `json:"accessToken" validate:"required"`
}

// session exchanges an access token for an HttpOnly cookie and syncs the
// profile it describes.
func (h *AccountHandler) session(w http.ResponseWriter, r *http.Request) {
	var b sessionBody
	if !decodeJSON(w, r, h.Log, &b) {
		return
	}
	if msg := validate.Summary(b); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	id, err := h.Verifier.Verify(b.AccessToken)
	if err != nil {
		h.Log.Debug().Err(err).Msg("session token rejected")
		respondError(w, http.StatusUnauthorized, "invalid access token")
		return
	}

	expires := id.ExpiresAt
	if expires.IsZero() {
		expires = time.Now().Add(time.Hour)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    b.AccessToken,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
		Path:     "/",
	})
	h.syncIdentity(w, r, id)
}

func (h *AccountHandler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		HttpOnly: true,
		Secure:   h.SecureCookie,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
	})
	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AccountHandler) syncIdentity(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	u, created, err := h.Accounts.Sync(r.Context(), accounts.Profile{
		ID:       id.UserID,
		Email:    id.Email,
		Username: id.Username,
		Avatar:   id.Avatar,
	})
	if err != nil {
		respondServiceError(w, r, h.Log, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(w, status, u)
}
