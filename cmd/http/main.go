package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/fekuna/omnipos-menu-service/config"
	"github.com/fekuna/omnipos-menu-service/internal/auth"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/broker"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/database"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/healthcheck"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/search"
	"github.com/fekuna/omnipos-menu-service/internal/server"

	catH "github.com/fekuna/omnipos-menu-service/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-menu-service/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-menu-service/internal/category/usecase"

	heroH "github.com/fekuna/omnipos-menu-service/internal/heroimage/handler"
	heroRepoPkg "github.com/fekuna/omnipos-menu-service/internal/heroimage/repository"
	heroUCPkg "github.com/fekuna/omnipos-menu-service/internal/heroimage/usecase"

	menuH "github.com/fekuna/omnipos-menu-service/internal/menu/handler"
	menuUCPkg "github.com/fekuna/omnipos-menu-service/internal/menu/usecase"

	itemH "github.com/fekuna/omnipos-menu-service/internal/menuitem/handler"
	itemListenerPkg "github.com/fekuna/omnipos-menu-service/internal/menuitem/listener"
	itemRepoPkg "github.com/fekuna/omnipos-menu-service/internal/menuitem/repository"
	itemUCPkg "github.com/fekuna/omnipos-menu-service/internal/menuitem/usecase"
)

const itemsCacheKey = "menu:items:list"

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	instanceID := strings.ReplaceAll(uuid.New().String(), "-", "")
	appLogger = appLogger.With(zap.String("instance", instanceID))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Connect to Database
	db, err := database.Open(ctx, &database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		SQLitePath:      cfg.Database.SQLitePath,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	// 4. Initialize Repositories
	catRepo := catRepoPkg.NewSQLRepository(db)
	itemRepo := itemRepoPkg.NewSQLRepository(db)
	heroRepo := heroRepoPkg.NewSQLRepository(db)

	// 5. Initialize Item Cache
	var itemCache cache.Cache[[]model.MenuItem]
	switch cfg.Cache.Backend {
	case "redis":
		redisClient, err := cache.NewRedisClient(&cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		itemCache = cache.NewRedis[[]model.MenuItem](redisClient, itemsCacheKey, cfg.Cache.TTL)
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	default:
		itemCache = cache.NewMemory[[]model.MenuItem](cfg.Cache.TTL, nil)
	}

	itemOpts := []itemUCPkg.Option{itemUCPkg.WithCache(itemCache)}

	// 5.5 Initialize Kafka
	var kafkaConsumer *broker.KafkaConsumer
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		defer producer.Close()

		// Every instance gets its own group so each one sees every event.
		kafkaConsumer = broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupPrefix + "-" + instanceID,
		})
		defer kafkaConsumer.Close()

		itemOpts = append(itemOpts, itemUCPkg.WithPublisher(producer, instanceID))
		appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	// 5.8 Initialize Elasticsearch
	if len(cfg.Elastic.Addresses) > 0 {
		esClient, err := search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch, search falls back to the database", zap.Error(err))
		} else {
			itemOpts = append(itemOpts, itemUCPkg.WithSearch(esClient, cfg.Elastic.Index))
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 5.9 Initialize Token Verifier
	var verifier auth.TokenVerifier
	if cfg.Auth.Issuer != "" {
		oidcVerifier, err := auth.NewOIDCVerifier(ctx, cfg.Auth.Issuer, cfg.Auth.ClientID)
		if err != nil {
			appLogger.Fatal("Could not initialize token verifier", zap.Error(err))
		}
		verifier = oidcVerifier
	}

	// 6. Initialize UseCases
	catUC := catUCPkg.NewCategoryUseCase(catRepo, appLogger)
	itemUC := itemUCPkg.NewItemUseCase(itemRepo, catUC, appLogger, itemOpts...)
	heroUC := heroUCPkg.NewHeroImageUseCase(heroRepo, appLogger, nil)
	menuUC := menuUCPkg.NewMenuUseCase(catUC, itemUC, model.Restaurant{
		Name:        cfg.Restaurant.Name,
		Description: cfg.Restaurant.Description,
		Location:    cfg.Restaurant.Location,
	}, appLogger)

	// 6.5 Initialize Listeners
	if kafkaConsumer != nil {
		itemListener := itemListenerPkg.NewCacheListener(kafkaConsumer, itemUC, instanceID, appLogger)
		go itemListener.Start(ctx)
	}

	// 7. Initialize Handlers
	router := server.NewRouter(server.Handlers{
		Category:  catH.NewCategoryHandler(catUC, appLogger),
		MenuItem:  itemH.NewItemHandler(itemUC, appLogger),
		HeroImage: heroH.NewHeroImageHandler(heroUC, appLogger),
		Menu:      menuH.NewMenuHandler(menuUC, appLogger),
	}, server.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		Verifier:    verifier,
		DB:          db,
	}, appLogger)

	// 8. Start HTTP Server
	httpServer := &http.Server{
		Addr:              listenAddr(cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// 9. Start gRPC Health Server
	lis, err := net.Listen("tcp", listenAddr(cfg.Server.GRPCPort))
	if err != nil {
		appLogger.Fatal("failed to listen", zap.Error(err))
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	go healthcheck.NewReporter(healthServer, db, 15*time.Second, appLogger).Start(ctx)

	go func() {
		appLogger.Info("Starting gRPC health server", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("http shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

func listenAddr(port string) string {
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
