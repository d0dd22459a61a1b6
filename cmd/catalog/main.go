// Command catalog boots the product catalog HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hlubek/productcatalog/config"
	"github.com/hlubek/productcatalog/httpapi"
	"github.com/hlubek/productcatalog/obs"
	"github.com/hlubek/productcatalog/repository"
	"github.com/hlubek/productcatalog/storage"
)

func main() {
	cfg := config.Load()
	obs.InitLogger()
	obs.Logger.Info("service_starting")

	db, stopDB, err := storage.Open(cfg)
	if err != nil {
		obs.Logger.Error("storage_open_failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := stopDB(); err != nil {
			obs.Logger.Error("storage_stop_failed", "error", err)
		}
	}()

	repo := repository.NewProductRepository(db)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := repo.Migrate(ctx); err != nil {
		obs.Logger.Error("migrate_failed", "error", err)
		os.Exit(1)
	}

	app := httpapi.NewApp(cfg, repo)
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	obs.Logger.Info("service_stopped")
}
