package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/auth"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/cache"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/database"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/jobs"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/payment"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/realtime"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/routes"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand() *cobra.Command {
	var skipMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and background jobs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer database.Close(db)

			if !skipMigrate {
				if err := database.Migrate(db); err != nil {
					return fmt.Errorf("failed to migrate schema: %w", err)
				}
				log.Info("Database migrations completed successfully")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, err := cache.New(cfg.Redis)
			if err != nil {
				return fmt.Errorf("failed to connect cache: %w", err)
			}
			if closer, ok := store.(io.Closer); ok {
				defer closer.Close()
			}
			verifier, err := auth.NewFirebaseVerifier(ctx, cfg.Auth)
			if err != nil {
				log.Warn("Google sign-in disabled", "error", err)
			}

			hub := realtime.NewHub(log)
			go hub.Run(ctx)

			runner := jobs.NewRunner(db, log, jobs.Settings{
				UploadDir:       cfg.UploadDir,
				BackupDir:       cfg.BackupDir,
				BackupRetention: time.Duration(cfg.BackupRetentionDays) * 24 * time.Hour,
				BackupHour:      cfg.BackupHour,
			})
			runner.Start(ctx)

			if cfg.IsProduction() {
				gin.SetMode(gin.ReleaseMode)
			}
			router := routes.NewRouter(routes.Deps{
				DB:       db,
				Config:   cfg,
				Cache:    store,
				Tokens:   auth.NewTokens(cfg.Auth),
				Verifier: verifier,
				Gateways: payment.NewRegistry(cfg.Payment, nil),
				Hub:      hub,
				Log:      log,
			})

			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			serverErrors := make(chan error, 1)
			go func() {
				log.Info("Starting server", "port", cfg.Port)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErrors <- fmt.Errorf("server failed to start: %w", err)
				}
			}()

			select {
			case err := <-serverErrors:
				stop()
				runner.Wait()
				return err
			case <-ctx.Done():
				log.Info("Shutdown signal received")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
			runner.Wait()
			log.Info("Server stopped gracefully")
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not run schema migrations on start")
	return cmd
}
