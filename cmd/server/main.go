package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/clink-app/meet-server/internal/adapters/http"
	wssignal "github.com/clink-app/meet-server/internal/adapters/signal"
	"github.com/clink-app/meet-server/internal/app"
	"github.com/clink-app/meet-server/internal/config"
	"github.com/clink-app/meet-server/internal/core"
	"github.com/clink-app/meet-server/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	var chat store.ChatStore
	if cfg.MongoURI != "" {
		mongoStore, err := store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect chat store")
		}
		defer func() {
			if err := mongoStore.Close(context.Background()); err != nil {
				log.Error().Err(err).Msg("chat store disconnect")
			}
		}()
		chat = mongoStore
		log.Info().Str("db", cfg.MongoDB).Msg("chat store: mongodb")
	} else {
		chat = store.NewMemoryStore()
		log.Info().Msg("chat store: in-memory")
	}

	coord := app.NewCoordinator(core.NewRoster(), core.NewWaitingQueue(), core.NewApprovalLedger(), app.TrustClientAuthorizer{})
	switchboard := app.NewSwitchboard()
	dispatcher := app.NewDispatcher(coord.Roster(), switchboard)
	ctl := wssignal.NewController(coord, switchboard, dispatcher, chat, cfg)

	r := router.SetupRouter(ctx, cfg, coord, ctl)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("meet server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
