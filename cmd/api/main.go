// Package main is the entry point for the snippet API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/snipbox/snippet-api/internal/api"
	"github.com/snipbox/snippet-api/internal/api/handler"
	"github.com/snipbox/snippet-api/internal/api/metrics"
	"github.com/snipbox/snippet-api/internal/core/ports"
	"github.com/snipbox/snippet-api/internal/core/service"
	"github.com/snipbox/snippet-api/internal/infrastructure/db/mongo"
	"github.com/snipbox/snippet-api/internal/infrastructure/db/mysql"
	"github.com/snipbox/snippet-api/internal/infrastructure/db/redis"
	"github.com/snipbox/snippet-api/internal/infrastructure/queue"
	"github.com/snipbox/snippet-api/internal/infrastructure/token"
	"github.com/snipbox/snippet-api/internal/pkg/config"
	"github.com/snipbox/snippet-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// @title        Snipbox API
// @version      1.0
// @description  Accounts, account types and HTML snippets behind a single authorization engine.
// @BasePath     /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "snippet-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Principal store ---
	db, err := mysql.Connect(ctx, mysql.Config{
		DSN:          cfg.MySQL.DSN,
		MaxOpenConns: cfg.MySQL.MaxOpenConns,
		MaxIdleConns: cfg.MySQL.MaxIdleConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mysql")
	}
	defer func() {
		if err := mysql.Close(db); err != nil {
			log.Error().Err(err).Msg("mysql close")
		}
	}()

	if err := mysql.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate schema")
	}
	if err := mysql.SeedSystemRoles(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to seed system roles")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to access mysql pool")
	}
	checks := map[string]handler.Check{
		"mysql": sqlDB.PingContext,
	}

	// --- Cache and login throttle ---
	var (
		cache    ports.SnippetCache
		throttle ports.LoginThrottle
	)
	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, running without snippet cache and login throttle")
	} else {
		defer closeRedis(rdb, log)
		cache = redis.NewSnippetCache(rdb, cfg.Redis.SnippetCacheTTL, logger.Component(log, "cache"))
		throttle = redis.NewLoginThrottle(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow)
		checks["redis"] = redis.Pinger(rdb)
	}

	// --- Decision audit ---
	recorders := []ports.DecisionRecorder{metrics.DecisionRecorder{}}
	var dispatcher *queue.Dispatcher
	if cfg.Audit.Enabled {
		client, mdb, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "snippet-api",
		})
		if err != nil {
			log.Warn().Err(err).Msg("mongodb unavailable, decision audit disabled")
		} else {
			defer disconnectMongo(client, log)

			decisions := mongo.NewDecisionRepository(mdb)
			if err := decisions.EnsureIndexes(ctx, cfg.Audit.Retention); err != nil {
				log.Warn().Err(err).Msg("failed to create audit indexes")
			}

			dispatcher = queue.NewDispatcher(cfg.Audit.Workers, decisions, logger.Component(log, "audit"))
			// Workers outlive the signal context so Close can drain them.
			dispatcher.Start(context.WithoutCancel(ctx))
			recorders = append(recorders, dispatcher)

			checks["mongodb"] = mongo.Pinger(client)
		}
	}
	recorder := service.Recorders(recorders...)

	// --- Services ---
	issuer := token.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	settings := service.Settings{
		BcryptCost:   cfg.Auth.BcryptCost,
		ListLimitCap: cfg.Auth.ListLimitCap,
	}

	accountRepo := mysql.NewAccountRepository(db)
	roleRepo := mysql.NewRoleRepository(db)
	snippetRepo := mysql.NewSnippetRepository(db)

	e := api.NewRouter(api.Dependencies{
		Accounts: service.NewAccountService(accountRepo, roleRepo, snippetRepo, issuer, cache, recorder, settings, log),
		Roles:    service.NewRoleService(roleRepo, recorder, settings, log),
		Snippets: service.NewSnippetService(snippetRepo, cache, recorder, settings, log),
		Auth:     service.NewAuthService(accountRepo, issuer, throttle, recorder, log),
		Tokens:   issuer,
		Checks:   checks,
		Log:      log,
	})

	// --- Serve ---
	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting snippet api")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	// Drain queued decisions before the mongo client goes away.
	if dispatcher != nil {
		dispatcher.Close()
	}
}

func closeRedis(client *goredis.Client, log zerolog.Logger) {
	if err := client.Close(); err != nil {
		log.Error().Err(err).Msg("redis close")
	}
}

func disconnectMongo(client *mongodriver.Client, log zerolog.Logger) {
	if err := mongo.Disconnect(client); err != nil {
		log.Error().Err(err).Msg("mongodb disconnect")
	}
}
