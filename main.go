package main

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/debemdeboas/denuo-web/internal/admin"
	"github.com/debemdeboas/denuo-web/internal/billing"
	"github.com/debemdeboas/denuo-web/internal/cache"
	"github.com/debemdeboas/denuo-web/internal/config"
	"github.com/debemdeboas/denuo-web/internal/content"
	"github.com/debemdeboas/denuo-web/internal/db"
	"github.com/debemdeboas/denuo-web/internal/draft"
	"github.com/debemdeboas/denuo-web/internal/identity"
	"github.com/debemdeboas/denuo-web/internal/invoice"
	"github.com/debemdeboas/denuo-web/internal/logger"
	"github.com/debemdeboas/denuo-web/internal/model"
	"github.com/debemdeboas/denuo-web/internal/render"
	"github.com/debemdeboas/denuo-web/internal/routes"
	"github.com/debemdeboas/denuo-web/internal/save"
	"github.com/debemdeboas/denuo-web/internal/site"
	"github.com/debemdeboas/denuo-web/internal/sse"
	"github.com/debemdeboas/denuo-web/internal/store"
	"github.com/debemdeboas/denuo-web/internal/util"
)

//go:embed static/* templates/*
var embedded embed.FS

var clients = sse.NewSSEClients()

func setLoggers(l zerolog.Logger) {
	config.SetLogger(l.With().Str("component", "config").Logger())
	db.SetLogger(l.With().Str("component", "db").Logger())
	store.SetLogger(l.With().Str("component", "store").Logger())
	content.SetLogger(l.With().Str("component", "content").Logger())
	draft.SetLogger(l.With().Str("component", "draft").Logger())
	save.SetLogger(l.With().Str("component", "save").Logger())
	invoice.SetLogger(l.With().Str("component", "invoice").Logger())
	identity.SetLogger(l.With().Str("component", "identity").Logger())
	billing.SetLogger(l.With().Str("component", "billing").Logger())
	render.SetLogger(l.With().Str("component", "render").Logger())
	admin.SetLogger(l.With().Str("component", "admin").Logger())
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file loaded")
	}

	configPath := config.Env(config.EnvConfigPath, "config.yaml")
	if err := config.LoadConfig(configPath); err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("Failed to load config")
	}
	cfg := config.AppConfig

	l := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	setLoggers(l)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	docs, err := store.Open(ctx, cfg.Store)
	if err != nil {
		l.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msgf(config.ErrOpenStoreFmt, err)
	}
	defer docs.Close()

	key := model.DocumentKey(cfg.Store.DocumentKey)
	siteContent := content.NewService(docs, key)
	if err := siteContent.Load(ctx); err != nil {
		l.Fatal().Err(err).Msgf(config.ErrLoadContentFmt, err)
	}
	siteContent.OnChange(func(*model.SiteContent) {
		render.ClearCache()
		clients.Broadcast(sse.TopicSite, "reload")
		clients.Broadcast(sse.TopicAdmin, "reload")
	})
	siteContent.Start()
	defer siteContent.Stop()

	provider, err := identity.NewProvider(cfg.Auth)
	if err != nil {
		l.Fatal().Err(err).Msgf(config.ErrCreateProviderFmt, err)
	}

	policy, err := draft.ParsePolicy(cfg.Editor.SyncPolicy)
	if err != nil {
		l.Fatal().Err(err).Msg("Invalid sync policy")
	}

	var invoices *invoice.Builder
	if cfg.Billing.Enabled {
		invoices = invoice.NewBuilder(cfg.Billing.Endpoint, nil)
	}

	adminHandler := admin.NewHandler(admin.Options{
		FS:        embedded,
		Provider:  provider,
		Drafts:    draft.NewRegistry(policy),
		Content:   siteContent,
		Saver:     save.NewController(docs, key, siteContent.Replace),
		Invoices:  invoices,
		SignInURL: cfg.Auth.SignInURL,
	})
	siteHandler := site.NewHandler(embedded, siteContent)

	stripe := billing.NewStripeClient(config.Env(config.EnvStripeSecretKey, ""), cfg.Billing.StripeAPI)
	billingHandler := billing.NewHandler(stripe, cfg.Billing)

	// Hash static content for ETags
	static, _ := fs.Sub(embedded, config.StaticLocalDir)
	fs.WalkDir(static, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(static, path)
		if err != nil {
			return err
		}
		cache.SetStaticHash(config.StaticURLPath+path, `"`+util.ShortHash(util.ContentHash(data))+`"`)
		return nil
	})

	mux := http.NewServeMux()

	mux.HandleFunc(routes.RobotsPath, site.ServeRobots)
	mux.Handle(config.StaticURLPath, http.StripPrefix(config.StaticURLPath, http.FileServer(http.FS(static))))
	mux.HandleFunc("POST "+routes.ThemeToggle, site.ServeThemeToggle)
	mux.HandleFunc("POST "+routes.LanguageToggle, site.ServeLanguageToggle)
	mux.HandleFunc(routes.SSEPath, clients.Handler())
	mux.HandleFunc(routes.RootPath, siteHandler.ServeIndex)

	adminRoutes := adminHandler.Routes()
	mux.Handle(routes.Admin, adminRoutes)
	mux.Handle(routes.Admin+"/", adminRoutes)

	if cfg.Billing.Enabled {
		mux.Handle(routes.APIBillingInvoice, provider.Middleware()(billingHandler))
	}

	handler := logger.Middleware(l)(cacheIt(secureHeaders(mux.ServeHTTP)))

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		l.Info().Str("addr", server.Addr).Str("store", cfg.Store.Backend).Str("auth", cfg.Auth.Type).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	l.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("Error during shutdown")
	}
}

func cacheIt(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCacheControl, "no-cache")
		w.Header().Set("Vary", "Cookie")

		// Add etag header to response if it's a static file
		if hash, ok := cache.GetStaticHash(r.URL.Path); ok {
			w.Header().Set(config.HCacheControl, "public, max-age=3600")
			w.Header().Set(config.HETag, hash)
		}

		h(w, r)
	}
}

func secureHeaders(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		h(w, r)
	}
}
