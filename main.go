package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/joCur/later-server/auth"
	"github.com/joCur/later-server/cache"
	"github.com/joCur/later-server/config"
	"github.com/joCur/later-server/domain"
	"github.com/joCur/later-server/events"
	httpserver "github.com/joCur/later-server/http"
	"github.com/joCur/later-server/repository"
	"github.com/joCur/later-server/store"
)

func main() {
	cfg, err := config.Load(os.Getenv("LATER_CONFIG"))
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	var st store.Store
	if cfg.DatabaseURL == "" {
		log.Warn().Msg("no database url configured, using in-memory store")
		st = store.NewMemory()
	} else {
		if err := store.Migrate(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("migrate")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pool, err := store.Connect(ctx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("connect store")
		}
		defer pool.Close()
		st = store.NewPostgres(pool)
	}

	hub := events.NewHub()
	go hub.Run()

	todoItems := cache.New[domain.TodoItem](cfg.Cache.Capacity)
	listItems := cache.New[domain.ListItem](cfg.Cache.Capacity)

	notes := repository.NewNotes(st, hub)
	todoLists := repository.NewTodoLists(st, hub, todoItems)
	lists := repository.NewLists(st, hub, listItems)
	spaces := repository.NewSpaces(st, hub, notes, todoLists, lists)

	tokens := make([]auth.Token, len(cfg.Auth.Tokens))
	for i, t := range cfg.Auth.Tokens {
		tokens[i] = auth.Token{UserID: t.UserID, Hash: t.TokenHash}
	}

	server := httpserver.NewServer(log, spaces, notes, todoLists, lists, hub)
	app := server.App(auth.NewRegistry(tokens))

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("shutting down")
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	log.Info().Str("addr", cfg.Addr).Msg("server starting")
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("listen")
	}
}
