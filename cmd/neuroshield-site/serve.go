package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/OddSageID/neuroshield-site/internal/portal"
	"github.com/OddSageID/neuroshield-site/internal/prefs"
	"github.com/OddSageID/neuroshield-site/internal/preview"
	"github.com/OddSageID/neuroshield-site/internal/site"
	"github.com/OddSageID/neuroshield-site/internal/theme"
)

var serveOpts struct {
	addr   string
	scheme string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a local preview with live theme and security headers",
	Long: `Serve the site locally the way production should behave: every HTML
response carries the security headers and the current theme marker on its
root element.

The theme follows the desktop color scheme via the settings portal until an
explicit choice is made through POST /_theme/toggle; the choice persists
across runs in the preference store.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveOpts.addr, "addr", "",
		"Listen address (default: [serve].addr from config)")
	serveCmd.Flags().StringVar(&serveOpts.scheme, "scheme", "",
		"Fix the system scheme to dark or light instead of asking the desktop")
}

// newPreferenceStore builds the theme preference store. With no usable
// state directory it degrades to an in-memory store: toggling keeps
// working, it just stops surviving restarts.
func newPreferenceStore() theme.PreferenceStore {
	path := cfg.Theme.StorePath
	if path == "" {
		path = prefs.DefaultPath()
	}
	if path == "" {
		logger.Warn("no state directory available, theme preference will not persist")
		return prefs.NewMemoryStore()
	}

	store, err := prefs.NewFileStore(path)
	if err != nil {
		logger.Warn("preference store unavailable, theme preference will not persist", "error", err)
		return prefs.NewMemoryStore()
	}
	return store
}

// newSchemeSource builds the system scheme source, honoring an explicit
// --scheme override.
func newSchemeSource(override string) (portal.Source, error) {
	switch override {
	case "":
		return portal.Detect(logger), nil
	case "dark":
		return portal.Static{Dark: true}, nil
	case "light":
		return portal.Static{Dark: false}, nil
	default:
		return nil, fmt.Errorf("invalid scheme %q (want dark or light)", override)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := serveOpts.addr
	if addr == "" {
		addr = cfg.Serve.Addr
	}

	scheme, err := newSchemeSource(serveOpts.scheme)
	if err != nil {
		return err
	}

	store := newPreferenceStore()
	doc := preview.NewDocumentState(cfg.Theme.MarkerAttribute)
	control := preview.NewControlState()

	// Initialize before the listener accepts anything: the first response
	// must already carry the resolved theme.
	ctrl := theme.NewController(store, scheme, doc, logger)
	ctrl.Initialize()
	ctrl.AttachControl(control)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := scheme.Subscribe(ctx, ctrl.HandleSystemChange); err != nil {
		logger.Warn("system scheme changes will not be tracked", "error", err)
	}

	watcher, err := site.NewWatcher(cfg.Site.Root, cfg.Site.ExcludeDirs, logger)
	if err == nil {
		watcher.SetChangeCallback(func(paths []string) {
			logger.Info("site content changed", "files", len(paths))
		})
		if err := watcher.Start(); err != nil {
			logger.Warn("site watcher not started", "error", err)
		} else {
			defer watcher.Stop()
		}
	}

	srv := preview.New(preview.Options{
		Root:       cfg.Site.Root,
		CSP:        cfg.Headers.CSP,
		Controller: ctrl,
		Store:      store,
		Document:   doc,
		Control:    control,
		Logger:     logger,
	})

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("preview listening", "addr", addr, "root", cfg.Site.Root, "theme", ctrl.Effective())
		errCh <- httpServer.ListenAndServe()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-sig:
		logger.Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}
