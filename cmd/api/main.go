package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"georeport/api"
	"georeport/auth"
	"georeport/config"
	"georeport/db"
	"georeport/media"
	"georeport/request"
	"georeport/taxonomy"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	// A missing .env is the normal case outside development.
	_ = godotenv.Load()

	settings, err := config.Load(os.Getenv("GEOREPORT_CONFIG"))
	if err != nil {
		log.Fatalf("bootstrap settings: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, settings.DatabaseURL)
	if err != nil {
		log.Fatalf("bootstrap database pool: %v", err)
	}
	defer pool.Close()

	categories := taxonomy.NewPGCategoryStore(pool, settings.TaxCategory, settings.TaxStatus)
	resolver := taxonomy.NewResolver(categories)
	classifier := taxonomy.NewClassifier(settings.StatusOpen, settings.StatusOpenStart)

	store := request.NewPGRecordStore(pool)
	fetcher := media.NewHTTPFetcher(settings.MediaDir, settings.MediaBaseURL, 10*time.Second)
	mapper := request.NewMapper(classifier, resolver, fetcher, settings.Bundle, store.SupportsStableIDs())
	builder := request.NewQueryBuilder(settings, resolver, auth.NewKeyCheck(settings.AdminKeyHash))
	requests := request.NewService(store, mapper, builder)

	handler := api.NewHandler(requests, resolver, auth.NewVerifier(settings.JWTSecret), api.NewMetrics())

	server := &http.Server{
		Addr:              settings.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("georeport api listening on %s", settings.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server: %v", err)
	}
	log.Print("georeport api stopped")
}
