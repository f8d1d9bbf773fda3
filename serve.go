package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"catalog-management/auth"
	"catalog-management/config"
	"catalog-management/handler"
	"catalog-management/service"
	"catalog-management/storage"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, sync, err := setup()
			if err != nil {
				return err
			}
			defer sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.AppConfig) error {
	if cfg.Auth.Secret == "" {
		return errors.New("auth.secret is required (set CATALOG_AUTH_SECRET)")
	}
	tokens, err := auth.NewManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.Audience, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	blobs, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return errors.Wrap(err, "init storage")
	}

	svc := service.NewService(st, blobs, service.WithTokens(tokens), service.WithBcryptCost(cfg.Auth.BcryptCost))
	if _, err := svc.EnsureBootstrapAdmin(ctx, cfg.Auth.BootstrapUser, cfg.Auth.BootstrapPassword); err != nil {
		return errors.Wrap(err, "bootstrap admin")
	}

	opts := handler.Options{
		Production:     cfg.IsProduction(),
		ProtectUploads: cfg.Auth.ProtectUploads,
		MaxUploadBytes: cfg.Web.MaxUploadMB << 20,
		AllowedOrigin:  cfg.Web.AllowedOrigin,
	}
	if cfg.Storage.Driver == "" || cfg.Storage.Driver == "local" {
		opts.UploadDir, opts.UploadURLPrefix = cfg.Storage.Local.Dir, cfg.Storage.Local.URLPrefix
	}
	h := handler.NewHandler(svc, opts)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Web.ReadTimeout,
		WriteTimeout:      cfg.Web.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zap.L().Info("server running",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.System.Env),
			zap.String("database", cfg.Database.Driver),
			zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
