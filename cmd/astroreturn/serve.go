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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thurmanmarka/astroreturn"
	"github.com/thurmanmarka/astroreturn/internal/config"
	apihttp "github.com/thurmanmarka/astroreturn/internal/http"
	"github.com/thurmanmarka/astroreturn/internal/metrics"
	"github.com/thurmanmarka/astroreturn/internal/watch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API. With a catalog file configured, edits to the file are
picked up without a restart; a file that fails to parse is logged and the
previous catalog stays in service.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}

	m := metrics.NewCollector()
	solver, err := astroreturn.NewSolver(m.Provider(astroreturn.Ephemeris{}), cfg.Options())
	if err != nil {
		return err
	}

	handler := apihttp.NewHandler(solver, catalog, m)
	router := apihttp.SetupRouter(handler, apihttp.RouterConfig{
		CORSOrigins: cfg.Server.CORSOrigins,
		RateLimit:   cfg.Server.RateLimit,
		Burst:       cfg.Server.Burst,
	})

	if cfg.CatalogPath != "" {
		w, err := watch.NewCatalogWatcher(cfg.CatalogPath)
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()
		go applyCatalogUpdates(w.Updates, handler)
		log.Printf("Watching catalog %s", w.Path)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s (%d bodies)", srv.Addr, catalog.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Printf("Server stopped")
	return nil
}

func applyCatalogUpdates(updates <-chan watch.Update, h *apihttp.Handler) {
	for u := range updates {
		if u.Err != nil {
			log.Printf("Catalog reload failed, keeping previous catalog: %v", u.Err)
			continue
		}
		h.SetCatalog(u.Catalog)
		log.Printf("Catalog reloaded from %s (%d bodies)", u.Path, u.Catalog.Len())
	}
}
