// @title                       Turnos Auth API
// @version                     1.0
// @description                 Client authentication, registration and lifecycle management.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	_ "github.com/unla-grupo16/turnos-auth/docs"
	"github.com/unla-grupo16/turnos-auth/internal/api"
	"github.com/unla-grupo16/turnos-auth/internal/api/handler"
	"github.com/unla-grupo16/turnos-auth/internal/core/domain"
	"github.com/unla-grupo16/turnos-auth/internal/core/service"
	"github.com/unla-grupo16/turnos-auth/internal/infrastructure/db/mongo"
	redisdb "github.com/unla-grupo16/turnos-auth/internal/infrastructure/db/redis"
	"github.com/unla-grupo16/turnos-auth/internal/infrastructure/queue"
	"github.com/unla-grupo16/turnos-auth/internal/infrastructure/security"
	"github.com/unla-grupo16/turnos-auth/internal/pkg/config"
	"github.com/unla-grupo16/turnos-auth/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad(ctx)

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "turnos-auth",
		Env:     cfg.Env,
	})

	// --- Stores ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongo index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Timeout:  cfg.Redis.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	roles := mongo.NewRoleRepository(db)
	if cfg.Auth.SeedRoles {
		if err := roles.EnsureRoles(ctx, domain.RoleClient, domain.RoleAdmin); err != nil {
			log.Fatal().Err(err).Msg("role seeding failed")
		}
	}

	// --- Audit pipeline ---
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, mongo.NewAuditRepository(db), logger.Component("audit"))
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)

	// --- Core services ---
	accounts := mongo.NewAccountRepository(db)
	persons := mongo.NewPersonRepository(db)
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens := security.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTTTL)

	authService := service.NewAuthService(
		service.NewPasswordVerifier(accounts, hasher),
		accounts,
		persons,
		tokens,
		logger.Component("auth"),
	)
	clientService := service.NewClientService(
		service.ClientRepositories{
			Accounts:     accounts,
			Persons:      persons,
			Roles:        roles,
			Appointments: mongo.NewAppointmentRepository(db),
			Tx:           mongo.NewTransactor(mongoClient),
		},
		hasher,
		redisdb.NewRegistrationLock(rdb, cfg.Auth.RegistrationLockTTL),
		dispatcher,
		logger.Component("clients"),
	)

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		AuthService:   authService,
		ClientService: clientService,
		Tokens:        tokens,
		HealthChecks:  healthChecks(db, rdb),
		Log:           logger.Component("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown requested")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}

	stopWorkers()
	dispatcher.Wait()
	log.Info().Msg("shutdown complete")
}

func healthChecks(db *gomongo.Database, rdb *redis.Client) map[string]handler.HealthCheck {
	return map[string]handler.HealthCheck{
		"mongodb": func(ctx context.Context) error {
			return db.Client().Ping(ctx, nil)
		},
		"redis": redisdb.HealthCheck(rdb),
	}
}
