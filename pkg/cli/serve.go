package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/smartminutes/pkg/cli/config"
	httpctrl "github.com/secmon-lab/smartminutes/pkg/controller/http"
	"github.com/secmon-lab/smartminutes/pkg/repository/record"
	"github.com/secmon-lab/smartminutes/pkg/service/enrich"
	"github.com/secmon-lab/smartminutes/pkg/usecase"
	"github.com/secmon-lab/smartminutes/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var appCfg config.App
	var storageCfg config.Storage
	var llmCfg config.LLM

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       "127.0.0.1:8080",
			Sources:     cli.EnvVars("SMARTMINUTES_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load configuration")
			}

			kv, err := storageCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize storage")
			}
			defer func() {
				if err := kv.Close(); err != nil {
					logging.Default().Error("failed to close storage", "error", err.Error())
				}
			}()

			repo := record.New(kv, cfg.RecordOptions()...)

			var ucOpts []usecase.Option
			llmClient, err := llmCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize LLM client")
			}
			if llmClient != nil {
				enricher, err := enrich.New(llmClient, cfg.EnrichOptions()...)
				if err != nil {
					return goerr.Wrap(err, "failed to initialize enrichment service")
				}
				ucOpts = append(ucOpts, usecase.WithEnricher(enricher))
				logging.Default().Info("AI features enabled", "llm", slog.GroupValue(llmCfg.LogAttrs()...))
			} else {
				logging.Default().Warn("LLM credential not configured, AI features are disabled")
			}

			uc := usecase.New(repo, ucOpts...)
			if err := uc.Session.Refresh(ctx); err != nil {
				return goerr.Wrap(err, "failed to load meetings")
			}

			httpHandler, err := httpctrl.New(uc.Session)
			if err != nil {
				return goerr.Wrap(err, "failed to create http server")
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr, "storage_key", repo.Key())
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
