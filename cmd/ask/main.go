package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/selivandex/seller-bot/internal/adapters/ai"
	"github.com/selivandex/seller-bot/internal/adapters/config"
	"github.com/selivandex/seller-bot/internal/adapters/database"
	"github.com/selivandex/seller-bot/internal/agents"
	"github.com/selivandex/seller-bot/internal/conversations"
	"github.com/selivandex/seller-bot/internal/feedback"
	"github.com/selivandex/seller-bot/internal/ozon"
	"github.com/selivandex/seller-bot/internal/toolkit"
	"github.com/selivandex/seller-bot/internal/wb"
	"github.com/selivandex/seller-bot/pkg/logger"
)

// One-shot question runner. Asks the agent from the command line
// without Telegram, handy for smoke checks against a fresh warehouse:
//
//	go run ./cmd/ask -chat 1 "почему упала маржа за неделю"

func main() {
	// Parse flags
	var (
		chatID  = flag.Int64("chat", 0, "Chat ID for history and feedback scoping")
		mode    = flag.String("mode", "", "Agent mode override (pipeline/react)")
		timeout = flag.Duration("timeout", 2*time.Minute, "Answer timeout")
	)

	flag.Parse()

	question := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if question == "" {
		fmt.Fprintln(os.Stderr, "Usage: ask [flags] <question>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// .env is optional
	_ = godotenv.Load()

	// Keep stdout clean for the answer
	if err := logger.Init("error", ""); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *mode != "" {
		if *mode != "pipeline" && *mode != "react" {
			fmt.Fprintf(os.Stderr, "Invalid mode: %s (must be pipeline or react)\n", *mode)
			os.Exit(1)
		}
		cfg.Agent.Mode = *mode
	}

	// Connect to the warehouse
	db, err := database.New(&cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(db.Conn(), cfg.Database.MigrationsPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to run migrations: %v\n", err)
		os.Exit(1)
	}

	// No Redis for a one-shot run, history comes straight from Postgres
	wbRepo := wb.NewRepository(db)
	ozonRepo := ozon.NewRepository(db)
	feedbackRepo := feedback.NewRepository(db)
	convosRepo := conversations.NewRepository(db, nil)

	provider := ai.NewFailover(
		ai.NewOpenAIProvider(cfg.AI.OpenAI),
		ai.NewDeepSeekProvider(cfg.AI.DeepSeek),
	)

	sellerToolkit := toolkit.NewLocalToolkit(wbRepo, ozonRepo, feedbackRepo, cfg.Thresholds)
	registry := toolkit.NewToolRegistry(sellerToolkit)
	agent := agents.NewAgent(registry, provider, convosRepo, cfg.Agent)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	answer, err := agent.Answer(ctx, *chatID, question)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Answer failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(answer)
}
