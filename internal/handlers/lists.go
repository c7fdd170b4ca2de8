package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/yourname/reelshelf/internal/auth"
	"github.com/yourname/reelshelf/internal/lists"
	"github.com/yourname/reelshelf/internal/validate"
)

type ListHandler struct {
	Lists   *lists.Service
	Sharing *lists.Gateway
	Log     zerolog.Logger
}

func NewListHandler(svc *lists.Service, gw *lists.Gateway, log zerolog.Logger) *ListHandler {
	return &ListHandler{Lists: svc, Sharing: gw, Log: log}
}

// Routes mounts the list endpoints under /lists. Everything except the
// shared-list read goes through authn.
func (h *ListHandler) Routes(authn func(http.Handler) http.Handler) func(r chi.Router) {
	return func(r chi.Router) {
		r.Get("/shared/{token}", h.shared)

		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.Get("/", h.listOwned)
			r.Post("/", h.create)
			r.Get("/{id}", h.get)
			r.Put("/{id}", h.update)
			r.Delete("/{id}", h.delete)
			r.Post("/{id}/movies", h.addMovie)
			r.Delete("/{id}/movies/{movieId}", h.removeMovie)
			r.Post("/{id}/share", h.share)
		})
	}
}

// caller returns the authenticated user id or writes a 401.
func caller(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid := auth.UserID(r.Context())
	if uid == "" {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return uid, true
}

func (h *ListHandler) listOwned(w http.ResponseWriter, r *http.Request) {
	uid, ok := caller(w, r)
	if !ok {
		return
	}
	out, err := h.Lists.ListOwned(r.Context(), uid)
	if err != nil {
		respondServiceError(w, r, h.Log, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

type createListBody struct {
	Name        string `json:"name" validate:"max=200"`
	Description string `json:"description" validate:"max=1000"`
	IsPublic    bool   `json:"isPublic"`
}

func (h *ListHandler) create(w http.ResponseWriter, r *http.Request) {
	uid, ok := caller(w, r)
	if !ok {
		return
	}
	var b createListBody
	if !decodeJSON(w, r, h.Log, &b) {
		return
	}
	if msg := validate.Summary(b); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	l, err := h.Lists.CreateList(r.Context(), uid, b.Name, b.Description, b.IsPublic)
	if err != nil {
		respondServiceError(w, r, h.Log, err)
		return
	}
	respondJSON(w, http.StatusCreated, l)
}

func (h *ListHandler) get(w http.ResponseWriter, r *http.Request) {
	uid, ok := caller(w, r)
	if !ok {
		return
	}
	l, err := h.Lists.GetListDetails(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, h.Log, err)
		return
	}
	respondJSON(w, http.StatusOK, l)
}

type updateListBody struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	IsPublic    *bool   `json:"isPublic"`
}

func (h *ListHandler) update(w http.ResponseWriter, r *http.Request) {
	uid, ok := caller(w, r)
	if !ok {
		return
	}
	var b updateListBody
	if !decodeJSON(w, r, h.Log, &b) {
		return
	}
	if msg := validate.Summary(b); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	l, err := h.Lists.UpdateList(r.Context(), uid, chi.URLParam(r, "id"), lists.Patch{
		Name:        b.Name,
		Description: b.Description,
		IsPublic:    b.IsPublic,
	})
	if err != nil {
		respondServiceError(w, r, h.Log, err)
		return
	}
	respondJSON(w, http.StatusOK, l)
}

func (h *ListHandler) delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := caller(w, r)
	if !ok {
		return
	}
	if err := h.Lists.DeleteList(r.Context(), uid, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, h.Log, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "list deleted"})
}

type addMovieBody struct {
	MovieID     int64    `json:"movieId" validate:"required,gt=0"`
	Title       string   `json:"title" validate:"required,max=500"`
	PosterPath  string   `json:"posterPath" validate:"max=500"`
	ReleaseDate string   `json:"releaseDate" validate:"max=32"`
	VoteAverage *float64 `json:"voteAverage" validate:"omitempty,gte=0,lte=10"`
}

func (h *ListHandler) addMovie(w http.ResponseWriter, r *http.Request) {
	uid, ok := caller(w, r)
	if !ok {
		return
	}
	var b addMovieBody
	if !decodeJSON(w, r, h.Log, &b) {
		return
	}
	if msg := validate.Summary(b); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	l, err := h.Lists.AddMovie(r.Context(), uid, chi.URLParam(r, "id"), lists.MovieInput{
		MovieID:     b.MovieID,
		Title:       b.Title,
		PosterPath:  b.PosterPath,
		ReleaseDate: b.ReleaseDate,
		VoteAverage: b.VoteAverage,
	})
	if err != nil {
		respondServiceError(w, r, h.Log, err)
		return
	}
	respondJSON(w, http.StatusOK, l)
}

func (h *ListHandler) removeMovie(w http.ResponseWriter, r *http.Request) {
	uid, ok := caller(w, r)
	if !ok {
		return
	}
	movieID, err := strconv.ParseInt(chi.URLParam(r, "movieId"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "movieId must be an integer")
		return
	}
	l, err := h.Lists.RemoveMovie(r.Context(), uid, chi.URLParam(r, "id"), movieID)
	if err != nil {
		respondServiceError(w, r, h.Log, err)
		return
	}
	respondJSON(w, http.StatusOK, l)
}

func (h *ListHandler) share(w http.ResponseWriter, r *http.Request) {
	uid, ok := caller(w, r)
	if !ok {
		return
	}
	s, err := h.Sharing.GenerateShareToken(r.Context(), uid, chi.URLParam(r, "id"), baseURL(r))
	if err != nil {
		respondServiceError(w, r, h.Log, err)
		return
	}
	respondJSON(w, http.StatusOK, s)
}

// shared is the anonymous read path; it never requires a token header.
func (h *ListHandler) shared(w http.ResponseWriter, r *http.Request) {
	sl, err := h.Sharing.ResolveSharedList(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		respondServiceError(w, r, h.Log, err)
		return
	}
	respondJSON(w, http.StatusOK, sl)
}
