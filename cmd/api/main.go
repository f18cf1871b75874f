package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	redisclient "github.com/redis/go-redis/v9"
	memoryadapter "github.com/lesquel/mesaYa-Res-sub003/internal/adapters/memory"
	mongoadapter "github.com/lesquel/mesaYa-Res-sub003/internal/adapters/mongo"
	"github.com/lesquel/mesaYa-Res-sub003/internal/adapters/postgres"
	"github.com/lesquel/mesaYa-Res-sub003/internal/adapters/rabbit"
	redisadapter "github.com/lesquel/mesaYa-Res-sub003/internal/adapters/redis"
	"github.com/lesquel/mesaYa-Res-sub003/internal/config"
	httphandler "github.com/lesquel/mesaYa-Res-sub003/internal/http"
	"github.com/lesquel/mesaYa-Res-sub003/internal/observability"
	"github.com/lesquel/mesaYa-Res-sub003/internal/ratelimit"
	"github.com/lesquel/mesaYa-Res-sub003/internal/scheduling"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdown, err := observability.SetupOTel(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdown()

	logger := observability.NewLogger()

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	repo := postgres.NewRepository(pool)

	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())
	audit := mongoadapter.NewAuditTrail(mongoClient.Database("mesaya"), logger)

	rabbitConn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer rabbitConn.Close()
	publisher, err := rabbit.NewPublisher(rabbitConn)
	if err != nil {
		log.Fatalf("failed to create publisher: %v", err)
	}

	// Rate limiting rides on redis no matter which hold backend is in use.
	redisClient := redisclient.NewClient(&redisclient.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	rl := ratelimit.NewRateLimiter(redisClient)

	var holdStore scheduling.HoldStore
	var sweeper scheduling.HoldSweeper
	switch cfg.HoldBackend {
	case "memory":
		memStore := memoryadapter.NewHoldStore()
		holdStore = memStore
		sweeper = memStore
	default:
		holdStore = redisadapter.NewHoldStore(redisClient)
	}

	service := scheduling.NewService(
		repo.Tables(),
		repo.Calendars(),
		repo.Reservations(),
		repo.Exceptions(),
		scheduling.TrustedUserDirectory{},
		repo.Ownership(),
		publisher,
		audit,
		logger,
		cfg.DefaultDurationMin,
	)
	holds := scheduling.NewHoldCoordinator(holdStore, cfg.HoldTTL, logger)
	exceptions := scheduling.NewExceptionService(repo.Exceptions(), repo.Ownership(), logger)

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	if sweeper != nil {
		janitor := scheduling.NewHoldJanitor(sweeper, publisher, logger)
		go janitor.Run(janitorCtx, time.Minute)
	}

	handlers := httphandler.NewHandlers(service, holds, exceptions, logger)
	r := httphandler.SetupRouter(handlers, logger, rl)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	stopJanitor()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}
	logger.Info("Server exiting")
}
