package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"eda-backend/internal/api"
	"eda-backend/internal/service"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		reports := service.NewReportService(cfg.UploadDir, cfg.StaticDir, logger)
		handler := api.NewHandler(reports, cfg.StaticDir, cfg.PreviewRows, cfg.MaxUploadBytes())

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           api.NewRouter(handler, logger, cfg.AllowedOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info().
				Str("addr", "http://localhost:"+cfg.Port).
				Str("upload_dir", cfg.UploadDir).
				Str("static_dir", cfg.StaticDir).
				Strs("cors", cfg.AllowedOrigins).
				Msg("starting server")
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

		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (overrides PORT and config)")
	rootCmd.AddCommand(serveCmd)
}
