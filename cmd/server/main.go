package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"homesense/pkg/common"
	"homesense/pkg/db"
	"homesense/pkg/hub"
	hubHttp "homesense/pkg/http"
	hubMqtt "homesense/pkg/mqtt"
)

func main() {
	var err error

	err = godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	var dbInstance *db.DB
	dbType := os.Getenv(common.EnvKeyHomeSenseDBType)
	switch dbType {
	case "file":
		dbInstance = db.GetInstance(db.UseSqliteDialector())
	case "memory":
		dbInstance = db.GetInstance(db.UseMemorySqliteDialector())
	default:
		log.Fatal("Unknown HOMESENSE_DB_TYPE: " + dbType)
	}

	mqttBroker := common.GetEnvOr(common.EnvKeyHomeSenseMqttBroker, "tcp://localhost:1883")
	mqttClientID := common.GetEnvOr(common.EnvKeyHomeSenseMqttClientID, "data-processor")
	mqttTopic := common.GetEnvOr(common.EnvKeyHomeSenseMqttTopic, "smart-home/#")
	httpHostPort := strings.TrimSpace(os.Getenv(common.EnvKeyHomeSenseHttpHostPort))

	var defaultRate float64
	var defaultBurst int64

	if defaultRate, err = strconv.ParseFloat(os.Getenv(common.EnvKeyHomeSenseDefaultRate), 64); err != nil {
		log.Fatal("Invalid HOMESENSE_DEFAULT_RATE, or not set in .env, should be a float64 value")
	}

	if defaultBurst, err = strconv.ParseInt(os.Getenv(common.EnvKeyHomeSenseDefaultBurst), 10, 64); err != nil {
		log.Fatal("Invalid HOMESENSE_DEFAULT_BURST, or not set in .env, should be an int value")
	}

	logger := common.GetLogger()

	hubCore := hub.Hub{
		Db: *dbInstance,
	}
	hubCore.WithServices(hub.ServiceOpts{
		Ingest: hubCore.GetIIngest(),
		Query:  hubCore.GetIQuery(),
		Stats:  hubCore.GetIStats(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reporter := hub.NewReporter(hubCore.Query, hub.DefaultReportInterval)
	go reporter.Run(ctx)

	if httpHostPort == "" {
		// fallback to default http port
		httpHostPort = ":8080"
	}

	rs := &hubHttp.RestfulServer{
		Server:           gin.Default(),
		Hub:              &hubCore,
		StatsCache:       hub.NewStatsCache(hubCore.Stats, hub.DefaultStatsWindow),
		RateLimiterStore: hub.NewRateLimiterStore(rate.Limit(defaultRate), int(defaultBurst)),
	}
	rs.Setup()

	go func() {
		logger.Info("Starting HTTP server on: " + httpHostPort)
		if err := rs.Server.Run(httpHostPort); err != nil {
			log.Fatalf("http server failed to serve: %v", err)
		}
	}()

	subscriber := hubMqtt.NewSubscriber(mqttBroker, mqttClientID, mqttTopic, hubCore.Ingest)
	if err := subscriber.Start(); err != nil {
		log.Fatalf("mqtt subscriber failed to start: %v", err)
	}
	logger.Info("Connected to MQTT broker",
		zap.String("broker", mqttBroker),
		zap.String("topic", mqttTopic))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down")
	cancel()
	subscriber.Close()
}
