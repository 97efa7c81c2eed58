package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/selivandex/seller-bot/internal/adapters/ai"
	"github.com/selivandex/seller-bot/internal/adapters/clickhouse"
	"github.com/selivandex/seller-bot/internal/adapters/config"
	"github.com/selivandex/seller-bot/internal/adapters/database"
	metricsAdapter "github.com/selivandex/seller-bot/internal/adapters/metrics"
	redisAdapter "github.com/selivandex/seller-bot/internal/adapters/redis"
	"github.com/selivandex/seller-bot/internal/adapters/telegram"
	"github.com/selivandex/seller-bot/internal/agents"
	"github.com/selivandex/seller-bot/internal/conversations"
	"github.com/selivandex/seller-bot/internal/feedback"
	"github.com/selivandex/seller-bot/internal/health"
	"github.com/selivandex/seller-bot/internal/ozon"
	"github.com/selivandex/seller-bot/internal/subscriptions"
	"github.com/selivandex/seller-bot/internal/toolkit"
	"github.com/selivandex/seller-bot/internal/wb"
	"github.com/selivandex/seller-bot/internal/workers"
	"github.com/selivandex/seller-bot/pkg/logger"
	"github.com/selivandex/seller-bot/pkg/metrics"
	"github.com/selivandex/seller-bot/pkg/templates"
	"github.com/selivandex/seller-bot/pkg/worker"
	_ "github.com/lib/pq"
)

// Warehouse loads land at unpredictable hours, so the anomaly scan
// polls instead of running once a day
const alertScanInterval = time.Hour

// requiredTemplates are the bot replies that must exist on disk
var requiredTemplates = []string{
	"welcome.tmpl",
	"help.tmpl",
	"busy.tmpl",
	"error.tmpl",
	"feedback_usage.tmpl",
	"feedback_thanks.tmpl",
	"subscription.tmpl",
	"stats.tmpl",
}

func main() {
	// .env is optional, production reads real environment variables
	_ = godotenv.Load()

	// Setup signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	// Run application
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load configuration and initialize logger
	cfg, err := initConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Seller Analytics Bot starting...",
		zap.String("agent_mode", cfg.Agent.Mode),
	)

	// Initialize core infrastructure
	db, redisClient, err := initInfrastructure(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	defer redisClient.Close()

	// Optional ClickHouse pipeline for usage metrics
	chDB, usageLogger := initUsageMetrics(cfg)
	if chDB != nil {
		defer chDB.Close()
	}

	// Warehouse and bot repositories
	wbRepo := wb.NewRepository(db)
	ozonRepo := ozon.NewRepository(db)
	subsRepo := subscriptions.NewRepository(db)
	feedbackRepo := feedback.NewRepository(db)
	convosRepo := conversations.NewRepository(db, redisClient)

	// LLM providers with failover
	provider := initProviders(cfg)

	// Analytics toolkit exposed to the model
	sellerToolkit := toolkit.NewLocalToolkit(wbRepo, ozonRepo, feedbackRepo, cfg.Thresholds)
	registry := toolkit.NewToolRegistry(sellerToolkit)
	if usageLogger != nil {
		registry.SetMetricsLogger(usageLogger)
	}

	// Reasoning agent
	agent := agents.NewAgent(registry, provider, convosRepo, cfg.Agent)

	// Bot reply templates
	allTemplates, err := templates.NewManagerWithValidation(cfg.TemplatesDir, requiredTemplates)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	// Telegram bot
	bot, err := telegram.NewBot(cfg, agent, subsRepo, feedbackRepo, convosRepo, redisClient.GetLockFactory(), allTemplates)
	if err != nil {
		return fmt.Errorf("failed to create telegram bot: %w", err)
	}

	go func() {
		if err := bot.Start(ctx); err != nil && err != context.Canceled {
			logger.Error("telegram bot error", zap.Error(err))
		}
	}()
	logger.Info("📱 Telegram bot started")

	// Scheduled workers: morning digest and anomaly alert scan
	workerGroup := startWorkers(ctx, cfg, subsRepo, wbRepo, ozonRepo, redisClient, bot)

	// Health server for K8s probes and Prometheus scrape
	healthServer := startHealthServer(cfg, db, redisClient)

	// Wait for shutdown signal
	<-ctx.Done()

	return performGracefulShutdown(healthServer, workerGroup, usageLogger, db, redisClient)
}

// initConfig loads configuration and initializes logger
func initConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, nil
}

// initInfrastructure initializes database and Redis connections
func initInfrastructure(cfg *config.Config) (*database.DB, *redisAdapter.Client, error) {
	db, err := initDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}

	redisClient, err := initRedis(cfg)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	return db, redisClient, nil
}

// initDatabase initializes database connection with sqlx
func initDatabase(cfg *config.Config) (*database.DB, error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Run migrations
	if err := database.RunMigrations(db.Conn(), cfg.Database.MigrationsPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("database connection established (sqlx)",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Name),
	)

	return db, nil
}

// initRedis initializes Redis client with Redlock support
func initRedis(cfg *config.Config) (*redisAdapter.Client, error) {
	redisClient, err := redisAdapter.New(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	// Test connection
	if err := redisClient.Health(); err != nil {
		redisClient.Close()
		return nil, fmt.Errorf("redis health check failed: %w", err)
	}

	logger.Info("redis connection established (redlock)",
		zap.String("host", cfg.Redis.Host),
		zap.Int("port", cfg.Redis.Port),
	)

	return redisClient, nil
}

// initUsageMetrics wires the optional ClickHouse usage pipeline.
// Missing ClickHouse is not an error, the bot just skips usage logging.
func initUsageMetrics(cfg *config.Config) (*database.ClickHouse, *metricsAdapter.UsageLogger) {
	if !cfg.ClickHouse.Enabled {
		logger.Info("clickhouse disabled, usage metrics off")
		return nil, nil
	}

	chDB, err := database.NewClickHouse(cfg.ClickHouse.GetDSN())
	if err != nil {
		logger.Warn("clickhouse unavailable, usage metrics off", zap.Error(err))
		return nil, nil
	}

	writer := clickhouse.NewWriter(chDB.DB())

	schemaCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := writer.EnsureSchema(schemaCtx); err != nil {
		logger.Warn("clickhouse schema setup failed, usage metrics off", zap.Error(err))
		chDB.Close()
		return nil, nil
	}

	buffer := metrics.NewBufferedMetrics(metrics.BufferConfig{
		Writer: writer,
	})

	logger.Info("clickhouse usage metrics enabled",
		zap.String("host", cfg.ClickHouse.Host),
		zap.String("database", cfg.ClickHouse.Database),
	)

	return chDB, metricsAdapter.NewUsageLogger(buffer)
}

// initProviders builds the LLM failover chain, OpenAI first
func initProviders(cfg *config.Config) ai.Provider {
	failover := ai.NewFailover(
		ai.NewOpenAIProvider(cfg.AI.OpenAI),
		ai.NewDeepSeekProvider(cfg.AI.DeepSeek),
	)

	if !failover.Enabled() {
		logger.Warn("no llm providers configured, answers degrade to raw reports")
		return failover
	}

	names := make([]string, 0, len(failover.Providers()))
	for _, p := range failover.Providers() {
		names = append(names, p.Name())
	}
	logger.Info("llm providers initialized", zap.Strings("providers", names))

	return failover
}

// startWorkers registers and starts the scheduled jobs
func startWorkers(
	ctx context.Context,
	cfg *config.Config,
	subsRepo *subscriptions.Repository,
	wbRepo *wb.Repository,
	ozonRepo *ozon.Repository,
	redisClient *redisAdapter.Client,
	bot *telegram.Bot,
) *worker.WorkerGroup {
	group := worker.NewWorkerGroup(ctx)

	// Digest hour is interpreted in the server timezone
	digest := workers.NewDigestWorker(subsRepo, wbRepo, ozonRepo, bot, cfg.Thresholds)
	group.AddDaily(digest, cfg.Telegram.DigestHour, time.Local)

	alerts := workers.NewAlertsWorker(subsRepo, wbRepo, redisClient, bot, cfg.Thresholds.Anomaly)
	group.Add(alerts, alertScanInterval)

	group.Start()

	return group
}

// startHealthServer initializes and starts health check server for K8s probes
func startHealthServer(cfg *config.Config, db *database.DB, redisClient *redisAdapter.Client) *health.Server {
	healthServer := health.NewServer(cfg.Health.Port, db, redisClient)

	go func() {
		if err := healthServer.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server error", zap.Error(err))
		}
	}()

	logger.Info("🤖 Seller Analytics Bot ready",
		zap.String("health_port", cfg.Health.Port),
	)

	// Mark service as ready after initialization
	healthServer.SetReady(true)

	return healthServer
}

// performGracefulShutdown handles graceful shutdown of all components
func performGracefulShutdown(
	healthServer *health.Server,
	workerGroup *worker.WorkerGroup,
	usageLogger *metricsAdapter.UsageLogger,
	db *database.DB,
	redisClient *redisAdapter.Client,
) error {
	logger.Info("🛑 Shutdown signal received, starting graceful shutdown...")

	// Mark service as not ready (stop accepting new traffic)
	healthServer.SetReady(false)

	// Create shutdown context with timeout (K8s gives 30s terminationGracePeriodSeconds)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer shutdownCancel()

	// Stop scheduled workers first
	logger.Info("stopping workers...")
	workerGroup.Stop(10 * time.Second)

	// Flush buffered usage metrics
	if usageLogger != nil {
		logger.Info("flushing usage metrics...")
		if err := usageLogger.Close(shutdownCtx); err != nil {
			logger.Error("usage metrics close error", zap.Error(err))
		}
	}

	// Close database connection
	logger.Info("closing database connection...")
	if err := db.Close(); err != nil {
		logger.Error("database close error", zap.Error(err))
	}

	// Close redis connection
	logger.Info("closing redis connection...")
	if err := redisClient.Close(); err != nil {
		logger.Error("redis close error", zap.Error(err))
	}

	// Stop health server
	logger.Info("stopping health server...")
	if err := healthServer.Stop(shutdownCtx); err != nil {
		logger.Error("health server stop error", zap.Error(err))
	}

	// Sync logger
	logger.Sync()

	// Check if shutdown completed in time
	select {
	case <-shutdownCtx.Done():
		logger.Warn("⚠️ shutdown timeout exceeded")
		return fmt.Errorf("graceful shutdown timeout")
	default:
		logger.Info("✅ shutdown completed successfully")
	}

	return nil
}
