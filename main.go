package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"chumstream/api"
	"chumstream/config"
	"chumstream/handlers"
	"chumstream/models"
	"chumstream/services/catalog"
	"chumstream/services/featured"
	"chumstream/services/gogophim"
	"chumstream/services/playback"
	"chumstream/services/prefs"
	"chumstream/utils"
)

func main() {
	cfg := config.Load()

	if cfg.LogFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    20, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		}
		log.SetOutput(io.MultiWriter(os.Stderr, rotator))
	}

	httpc := &http.Client{Timeout: cfg.RequestTimeout + time.Second}
	fetcher := gogophim.NewFetcher(httpc, cfg.RequestTimeout)
	client := gogophim.NewClient(cfg.UpstreamBaseURL, fetcher)

	session := catalog.NewSession(client, cfg.AutoLoadCeiling)
	featuredSvc := featured.NewService(client)
	prefsSvc := prefs.NewService(afero.NewOsFs(), cfg.DataDir)
	manager := playback.NewManager(handlers.NewHLSSessionFactory())

	// Warm the hero rail and the initial latest feed concurrently; the
	// server comes up either way and serves whatever arrived.
	warmCtx, cancelWarm := context.WithTimeout(context.Background(), 30*time.Second)
	go func() {
		defer cancelWarm()
		p := pool.New().WithErrors().WithContext(warmCtx)
		p.Go(func(ctx context.Context) error {
			return featuredSvc.Refresh(ctx)
		})
		p.Go(func(ctx context.Context) error {
			_, err := session.SetQuery(ctx, models.CatalogQuery{
				Kind:  models.FilterCategory,
				Value: "phim-moi-cap-nhat",
			})
			return err
		})
		if err := p.Wait(); err != nil {
			log.Printf("[main] warmup incomplete: %v", err)
		}
	}()

	catalogHandler := handlers.NewCatalogHandler(session, client)
	playbackHandler := handlers.NewPlaybackHandler(manager)
	featuredHandler := handlers.NewFeaturedHandler(featuredSvc)
	prefsHandler := handlers.NewPrefsHandler(prefsSvc)
	versionHandler := handlers.NewVersionHandler()

	router := utils.NewRouter()
	limiter := api.NewIPRateLimiter(rate.Every(time.Second), 20)

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(limiter.Middleware())

	apiRouter.HandleFunc("/catalog", catalogHandler.Browse).Methods(http.MethodGet)
	apiRouter.HandleFunc("/catalog/current", catalogHandler.Current).Methods(http.MethodGet)
	apiRouter.HandleFunc("/catalog/more", catalogHandler.More).Methods(http.MethodPost)
	apiRouter.HandleFunc("/catalog/reset", catalogHandler.Reset).Methods(http.MethodPost)
	apiRouter.HandleFunc("/search", catalogHandler.Search).Methods(http.MethodGet)
	apiRouter.HandleFunc("/suggest", catalogHandler.Suggest).Methods(http.MethodGet)
	apiRouter.HandleFunc("/movies/{slug}", catalogHandler.Detail).Methods(http.MethodGet)
	apiRouter.HandleFunc("/featured", featuredHandler.List).Methods(http.MethodGet)
	apiRouter.HandleFunc("/playback/resolve", playbackHandler.Resolve).Methods(http.MethodPost)
	apiRouter.HandleFunc("/playback/start", playbackHandler.Start).Methods(http.MethodPost)
	apiRouter.HandleFunc("/playback/stop", playbackHandler.Stop).Methods(http.MethodPost)
	apiRouter.HandleFunc("/playback", playbackHandler.Active).Methods(http.MethodGet)
	apiRouter.HandleFunc("/theme", prefsHandler.GetTheme).Methods(http.MethodGet)
	apiRouter.HandleFunc("/theme", prefsHandler.SetTheme).Methods(http.MethodPut)
	apiRouter.HandleFunc("/version", versionHandler.GetVersion).Methods(http.MethodGet)

	if cfg.PosterRelay {
		posterHandler := handlers.NewPosterHandler(httpc)
		apiRouter.HandleFunc("/poster", posterHandler.Relay).Methods(http.MethodGet)
	}

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("[main] listening on %s (upstream %s)", cfg.ListenAddr, cfg.UpstreamBaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Printf("[main] shutting down")
	manager.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[main] shutdown error: %v", err)
	}
}
