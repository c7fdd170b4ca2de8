package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/yourname/reelshelf/internal/cache"
	"github.com/yourname/reelshelf/internal/tmdb"
	"github.com/yourname/reelshelf/internal/validate"
)

// Catalog is the subset of the TMDB client the proxy needs.
type Catalog interface {
	SearchMovies(ctx context.Context, query string, page int) (*tmdb.Page, error)
	TrendingMovies(ctx context.Context, window string, page int) (*tmdb.Page, error)
	GetMovie(ctx context.Context, id int64) (*tmdb.Movie, error)
}

// CatalogHandler proxies movie lookups to TMDB. Successful upstream bodies
// are cached under a key built from the parsed parameters, so unrelated
// query parameters never create new entries.
type CatalogHandler struct {
	TMDB  Catalog
	Cache *cache.TTLCache[string, []byte]
	Log   zerolog.Logger
}

func NewCatalogHandler(c Catalog, ttl time.Duration, log zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{TMDB: c, Cache: cache.NewTTL[string, []byte](ttl), Log: log}
}

// Routes is mounted under /movies. A nil catalog answers 503 everywhere.
func (h *CatalogHandler) Routes(r chi.Router) {
	r.Use(h.requireCatalog)
	r.Get("/search", h.search)
	r.Get("/trending", h.trending)
	r.Get("/{id}", h.movie)
}

func (h *CatalogHandler) requireCatalog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.TMDB == nil {
			respondError(w, http.StatusServiceUnavailable, "movie catalog is not configured")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// pageParam returns the requested page, or 0 for TMDB's default.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 0
	}
	return page
}

func (h *CatalogHandler) search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		respondError(w, http.StatusBadRequest, "q is required")
		return
	}
	page := pageParam(r)
	key := "search:" + strconv.Itoa(page) + ":" + q
	h.serveCached(w, r, key, func(ctx context.Context) (any, error) {
		return h.TMDB.SearchMovies(ctx, q, page)
	})
}

func (h *CatalogHandler) trending(w http.ResponseWriter, r *http.Request) {
	q := struct {
		Window string `json:"window" validate:"oneof=day week"`
	}{Window: r.URL.Query().Get("window")}
	if q.Window == "" {
		q.Window = "day"
	}
	if msg := validate.Summary(q); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	page := pageParam(r)
	key := "trending:" + q.Window + ":" + strconv.Itoa(page)
	h.serveCached(w, r, key, func(ctx context.Context) (any, error) {
		return h.TMDB.TrendingMovies(ctx, q.Window, page)
	})
}

func (h *CatalogHandler) movie(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "id must be a positive integer")
		return
	}
	h.serveCached(w, r, "movie:"+strconv.FormatInt(id, 10), func(ctx context.Context) (any, error) {
		return h.TMDB.GetMovie(ctx, id)
	})
}

func (h *CatalogHandler) serveCached(w http.ResponseWriter, r *http.Request, key string, fetch func(context.Context) (any, error)) {
	body, hit, err := h.Cache.GetOrLoad(key, func() ([]byte, error) {
		v, err := fetch(r.Context())
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	switch {
	case errors.Is(err, tmdb.ErrNotFound):
		respondError(w, http.StatusNotFound, "movie not found")
		return
	case err != nil:
		h.Log.Warn().Err(err).Str("path", r.URL.Path).Msg("catalog upstream failed")
		respondError(w, http.StatusBadGateway, "movie catalog unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
