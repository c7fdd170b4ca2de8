package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"github.com/yourname/reelshelf/internal/accounts"
	"github.com/yourname/reelshelf/internal/auth"
	"github.com/yourname/reelshelf/internal/handlers"
	httpserver "github.com/yourname/reelshelf/internal/http"
	"github.com/yourname/reelshelf/internal/lists"
	"github.com/yourname/reelshelf/internal/logger"
	"github.com/yourname/reelshelf/internal/store"
	"github.com/yourname/reelshelf/internal/store/mongostore"
	"github.com/yourname/reelshelf/internal/tmdb"
)

type Config struct {
	Port                 string        `envconfig:"PORT" default:"8080"`
	DBDriver             string        `envconfig:"DB_DRIVER" default:"postgres"`
	DatabaseURL          string        `envconfig:"DATABASE_URL" required:"true"`
	MongoDatabase        string        `envconfig:"MONGO_DATABASE" default:"reelshelf"`
	SupabaseJWTSecret    string        `envconfig:"SUPABASE_JWT_SECRET"`
	SupabaseJWTPublicKey string        `envconfig:"SUPABASE_JWT_PUBLIC_KEY"`
	SupabaseJWKSURL      string        `envconfig:"SUPABASE_JWKS_URL"`
	SupabaseJWTAudience  string        `envconfig:"SUPABASE_JWT_AUDIENCE" default:"authenticated"`
	SupabaseJWTIssuer    string        `envconfig:"SUPABASE_JWT_ISSUER" required:"true"`
	TMDBAPIKey           string        `envconfig:"TMDB_API_KEY"`
	TMDBBaseURL          string        `envconfig:"TMDB_BASE_URL" default:"https://api.themoviedb.org/3"`
	CatalogCacheTTL      time.Duration `envconfig:"CATALOG_CACHE_TTL" default:"60s"`
	CORSAllowedOrigins   []string      `envconfig:"CORS_ALLOWED_ORIGINS"`
	CookieSecure         bool          `envconfig:"COOKIE_SECURE" default:"true"`
	LogLevel             string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat            string        `envconfig:"LOG_FORMAT" default:"json"`
	ShutdownTimeout      time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func mustLoadEnv() Config {
	_ = godotenv.Load()
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		fmt.Fprintf(os.Stderr, "env error: %v\n", err)
		os.Exit(1)
	}
	return c
}

// backend is what both storage drivers provide.
type backend interface {
	lists.Store
	accounts.Store
	Migrate(ctx context.Context) error
}

func mustStore(ctx context.Context, cfg Config, log zerolog.Logger) (backend, func()) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var (
		st      backend
		closeFn func()
	)
	switch strings.ToLower(cfg.DBDriver) {
	case "mongo", "mongodb":
		ms, err := mongostore.Open(ctx, cfg.DatabaseURL, cfg.MongoDatabase)
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connect")
		}
		st = ms
		closeFn = func() {
			cctx, ccancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer ccancel()
			if err := ms.Close(cctx); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		}
	default:
		db, err := store.Open(strings.ToLower(cfg.DBDriver), cfg.DatabaseURL, log)
		if err != nil {
			log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("db connect")
		}
		gs := store.New(db)
		if err := gs.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("db ping")
		}
		st = gs
		closeFn = func() {
			if err := gs.Close(); err != nil {
				log.Warn().Err(err).Msg("db close")
			}
		}
	}
	if err := st.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	return st, closeFn
}

func main() {
	cfg := mustLoadEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore := mustStore(ctx, cfg, log)
	defer closeStore()
	log.Info().Str("driver", cfg.DBDriver).Msg("store ready")

	listSvc := lists.NewService(st, log.With().Str("component", "lists").Logger())
	gateway := lists.NewGateway(listSvc)
	tasks := accounts.NewDispatcher(log.With().Str("component", "tasks").Logger(), 30*time.Second)
	accountSvc := accounts.NewService(st, listSvc, tasks, log.With().Str("component", "accounts").Logger())

	verifier := &auth.SupabaseVerifier{
		Secret:             cfg.SupabaseJWTSecret,
		PublicKeyPEMOrJWKS: cfg.SupabaseJWTPublicKey,
		JWKSURL:            cfg.SupabaseJWKSURL,
		Audience:           cfg.SupabaseJWTAudience,
		Issuer:             cfg.SupabaseJWTIssuer,
	}

	var catalog handlers.Catalog
	if cfg.TMDBAPIKey != "" {
		catalog = tmdb.New(cfg.TMDBAPIKey, cfg.TMDBBaseURL)
	} else {
		log.Warn().Msg("TMDB_API_KEY not set; movie catalog disabled")
	}

	listHandler := handlers.NewListHandler(listSvc, gateway, log)
	accountHandler := handlers.NewAccountHandler(accountSvc, verifier, log)
	accountHandler.SecureCookie = cfg.CookieSecure
	catalogHandler := handlers.NewCatalogHandler(catalog, cfg.CatalogCacheTTL, log)

	mounter := func(r chi.Router) {
		r.Route("/auth", accountHandler.AuthRoutes(verifier.Middleware))
		r.With(verifier.Middleware).Get("/me", accountHandler.Me)
		r.Route("/lists", listHandler.Routes(verifier.Middleware))
		r.Route("/movies", catalogHandler.Routes)
	}

	srv := httpserver.NewServer(httpserver.Options{
		Addr:           ":" + cfg.Port,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}, log, mounter)

	if err := srv.Run(ctx, cfg.ShutdownTimeout); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}

	wctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := tasks.Wait(wctx); err != nil {
		log.Warn().Err(err).Msg("background tasks still running at exit")
	}
	log.Info().Msg("bye")
}
