package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gitlab.com/codearena-2025.net/internal/adapter/judgeclient"
	"gitlab.com/codearena-2025.net/internal/adapter/postgres/submissionrepository"
	"gitlab.com/codearena-2025.net/internal/adapter/redis/jobindex"
	"gitlab.com/codearena-2025.net/internal/config"
	"gitlab.com/codearena-2025.net/internal/core/services/challenge"
	"gitlab.com/codearena-2025.net/internal/core/services/relay"
	logger2 "gitlab.com/codearena-2025.net/internal/global/logger"
	http2 "gitlab.com/codearena-2025.net/internal/http"
)

func main() {
	InitReader()
	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	logger2.Info("Starting judge gateway service")

	logger := logger2.Logger

	sysCfg := config.NewSystemConfig()

	db, err := setupDatabase(sysCfg.PostgresConfig)
	if err != nil {
		panic(err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     sysCfg.RedisConfig.Url,
		Password: sysCfg.RedisConfig.Password,
		DB:       sysCfg.RedisConfig.DB,
	})

	// SECONDARY PORTS
	judgeGateway := judgeclient.NewClient(sysCfg.JudgeConfig, logger)
	submissionSink := submissionrepository.NewSubmissionRepository(db, logger)
	jobIndex := jobindex.NewJobIndexRepository(redisClient, logger)

	// services
	registry := relay.NewRegistry()
	relaySvc := relay.NewRelay(registry, submissionSink, jobIndex, logger)
	challengeSvc := challenge.NewChallengeService(judgeGateway, jobIndex, logger)
	serviceProvider := http2.NewServiceProvider(challengeSvc, relaySvc, registry)

	// server
	httServer := http2.NewServer(8082, "judgeGateway", *serviceProvider, sysCfg, logger)
	err = httServer.Init()
	if err != nil {
		panic(err)
	}
	ctxBg := context.Background()
	httServer.Start(ctxBg)

	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(ctxBg, 5*time.Second)
	defer cancel()
	httServer.Stop(ctx)
	_ = db.Close()
	_ = redisClient.Close()

	logger.Info("successfully shutdown server")
}

// setupDatabase sets up the PostgreSQL connection
func setupDatabase(cfg *config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.Url)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

func InitReader() {
	environment := ""
	if len(os.Args) < 2 {
		log.Fatalf("Env not supplied in argument")
	} else {
		environment = os.Args[1]
	}

	err := godotenv.Load(environment + ".env")
	if err != nil {
		log.Fatalf("Error loading %s.env file", environment)
	}
}
