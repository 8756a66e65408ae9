// cmd/web/main.go
//
// MNLY storefront API – HTTP entry point.
//
// Start-up
// --------
//
//  1. Load env vars (server-wide file → conf/.env fallback).
//
//  2. Load and validate configuration, resolving vault: references.
//
//  3. Start the daily rotating logger (tees to console when in a TTY).
//
//  4. Open the optional GeoLite2 database for request enrichment.
//
//  5. Open the store backend named by database.driver.
//
//  6. Build the SMTP sender, the media uploader, and the token service.
//
//  7. Mount the route tree and serve until SIGINT or SIGTERM, then drain
//     in-flight requests and close the backend.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
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

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/rokibulislampro/mnly-server/internal/config"
	"github.com/rokibulislampro/mnly-server/internal/database"
	"github.com/rokibulislampro/mnly-server/internal/logger"
	"github.com/rokibulislampro/mnly-server/internal/media"
	"github.com/rokibulislampro/mnly-server/internal/message"
	"github.com/rokibulislampro/mnly-server/internal/requestinfo"
	"github.com/rokibulislampro/mnly-server/internal/router"
	"github.com/rokibulislampro/mnly-server/internal/server"
	"github.com/rokibulislampro/mnly-server/internal/token"
)

const (
	serverEnvPath   = "/usr/local/etc/mnly-server/global.env"
	shutdownTimeout = 15 * time.Second
)

// loadEnv prefers the server-wide env file; on dev the config loader picks
// up conf/.env on its own.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
	}
}

func init() { loadEnv() }

func main() {
	if err := run(); err != nil {
		log.Fatalf("mnly-server: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Configuration and logger ────────────────────────────────────
	//
	// Config errors surface through log.Fatalf; the file logger needs the
	// configured level and root.
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	logOut, err := logger.New(cfg.Paths.Root, cfg.Log.Level, logger.IsTTY())
	if err != nil {
		return err
	}
	defer logOut.Sync()
	zl := logOut.Desugar()

	//
	// ── 2.  Collaborators ───────────────────────────────────────────────
	//
	if err := requestinfo.InitGeo(cfg.GeoIP.DBPath); err != nil {
		logOut.Warnw("geoip disabled", "path", cfg.GeoIP.DBPath, "err", err)
	}
	defer requestinfo.CloseGeo()

	gw, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logOut.Infow("store online", "driver", cfg.Database.Driver)

	mailer, err := message.NewSMTP(cfg.Mail, zl)
	if err != nil {
		return err
	}
	uploader, err := media.NewCloudinary(cfg.Media, zl)
	if err != nil {
		return err
	}
	tokens, err := token.New(cfg.Auth.TokenSecret)
	if err != nil {
		return err
	}

	//
	// ── 3.  Serve ───────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP, router.New(router.Deps{
		Store:    gw,
		Tokens:   tokens,
		Notifier: mailer,
		Uploader: uploader,
		Config:   cfg,
		Log:      zl,
	}))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logOut.Infow("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(srv.Shutdown(sctx), gw.Close(sctx))
	})
	return g.Wait()
}
