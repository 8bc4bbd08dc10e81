package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/recruitflow/recruiter/internal/api"
)

const (
	seedActor       = "system"
	shutdownTimeout = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the candidate, assistant and admin HTTP API",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("address", "a", "", "listen address (default is server.address or :8080)")
	serveCmd.Flags().Bool("no-seed", false, "do not seed an empty knowledge store from the embedded dataset")

	viper.BindPFlag("server.address", serveCmd.Flags().Lookup("address"))
}

func serve(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger()

	a, err := newApplication(ctx, logger)
	if err != nil {
		logger.Fatal("starting the recruiter", zap.Error(err))
	}
	defer a.Close()

	logger.Info("starting the recruiter", zap.String("version", version))

	if noSeed, _ := cmd.Flags().GetBool("no-seed"); !noSeed {
		if err := a.seedKnowledge(ctx, seedActor); err != nil {
			// reads still work through the fallback dataset
			logger.Warn("knowledge seeding failed", zap.Error(err))
		}
	}

	if !viper.GetBool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.NewRouter(api.Config{
		Applications:   a.applications,
		Knowledge:      a.knowledge,
		Assistant:      a.assistant,
		Logger:         logger.Named("http"),
		MaxResumeBytes: a.config.Server.MaxResumeBytes,
	})

	server := &http.Server{
		Addr:              a.config.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("address", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", zap.Error(err))
		}
		return
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", shutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
