package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/miru4128/gaayatri-project/internal/auth"
	httpserver "github.com/miru4128/gaayatri-project/internal/transport/http"
	"github.com/miru4128/gaayatri-project/internal/transport/ws"
)

// ServeCommand starts the HTTP and WebSocket server.
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the chat API server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides server.port)",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if c.IsSet("port") {
				cfg.Server.Port = c.Int("port")
			}

			tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret)
			if err != nil {
				return fmt.Errorf("auth.jwt_secret is required: %w", err)
			}

			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, err := newService(ctx, cfg, store)
			if err != nil {
				return err
			}

			e := httpserver.NewServer(svc, tokens, ws.Config{
				ReadTimeout:    cfg.WS.ReadTimeout,
				WriteTimeout:   cfg.WS.WriteTimeout,
				PingInterval:   cfg.WS.PingInterval,
				MaxMessageSize: cfg.WS.MaxMessageSize,
			})

			errCh := make(chan error, 1)
			go func() {
				addr := fmt.Sprintf(":%d", cfg.Server.Port)
				if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			log.Info().
				Int("port", cfg.Server.Port).
				Str("model", cfg.LLM.Model).
				Str("embedding_provider", cfg.Embedding.Provider).
				Msg("gaayatri server started")

			select {
			case <-ctx.Done():
			case err := <-errCh:
				return fmt.Errorf("failed to start server: %w", err)
			}

			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := e.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shut down server gracefully")
			}
			log.Info().Msg("server stopped")
			return nil
		},
	}
}
