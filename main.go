package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"github.com/samber/lo"

	"github.com/dskvich/ottaga/pkg/analytics"
	"github.com/dskvich/ottaga/pkg/api"
	"github.com/dskvich/ottaga/pkg/api/handler"
	"github.com/dskvich/ottaga/pkg/auth"
	"github.com/dskvich/ottaga/pkg/database"
	"github.com/dskvich/ottaga/pkg/domain"
	"github.com/dskvich/ottaga/pkg/llm"
	"github.com/dskvich/ottaga/pkg/logger"
	"github.com/dskvich/ottaga/pkg/prompts"
	"github.com/dskvich/ottaga/pkg/repository"
	"github.com/dskvich/ottaga/pkg/services"
	"github.com/dskvich/ottaga/pkg/telegram"
	"github.com/dskvich/ottaga/pkg/workers"
)

type Config struct {
	LLMAPIKey  string `env:"LLM_API_KEY,required"`
	LLMBaseURL string `env:"LLM_BASE_URL" envDefault:"https://api.together.xyz/v1"`

	AssistantModel        string  `env:"ASSISTANT_MODEL" envDefault:"meta-llama/Llama-3.3-70B-Instruct-Turbo"`
	AssistantTemperature  float32 `env:"ASSISTANT_TEMPERATURE" envDefault:"0.75"`
	AssistantMaxTokens    int     `env:"ASSISTANT_MAX_TOKENS" envDefault:"10000"`
	AssistantSystemPrompt string  `env:"ASSISTANT_SYSTEM_PROMPT"`

	ModerationModel        string  `env:"MODERATION_MODEL" envDefault:"Qwen/Qwen3-235B-A22B-fp8-tput"`
	ModerationTemperature  float32 `env:"MODERATION_TEMPERATURE" envDefault:"0.15"`
	ModerationMaxTokens    int     `env:"MODERATION_MAX_TOKENS" envDefault:"800"`
	ModerationSystemPrompt string  `env:"MODERATION_SYSTEM_PROMPT"`

	HistoryLimit int `env:"HISTORY_LIMIT" envDefault:"20"`

	HTTPAddr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	RateLimitAttempts   int           `env:"RATE_LIMIT_ATTEMPTS" envDefault:"5"`
	RateLimitWindow     time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"30s"`

	PgURL  string `env:"DATABASE_URL"`
	PgHost string `env:"DB_HOST" envDefault:"localhost:65432"`

	SentryDSN         string `env:"SENTRY_DSN"`
	SentryEnvironment string `env:"SENTRY_ENVIRONMENT" envDefault:"development"`

	TelegramBotToken          string  `env:"TELEGRAM_BOT_TOKEN"`
	TelegramAuthorizedUserIDs []int64 `env:"TELEGRAM_AUTHORIZED_USER_IDS" envSeparator:" "`

	LogLevel   string `env:"LOG_LEVEL" envDefault:"debug"`
	LogNoColor bool   `env:"LOG_NO_COLOR"`
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parsing env config: %w", err)
	}

	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, &logger.Options{
		Level:       logger.ParseLevel(cfg.LogLevel),
		TimeFormat:  time.DateTime,
		ShortSource: true,
		NoColor:     cfg.LogNoColor,
	})))

	tracker, err := analytics.NewSentry(cfg.SentryDSN, cfg.SentryEnvironment)
	if err != nil {
		return fmt.Errorf("creating analytics client: %w", err)
	}
	defer tracker.Flush(2 * time.Second)

	workerGroup, err := setupWorkers(&cfg, tracker)
	if err != nil {
		return err
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return workerGroup.Start(ctx)
}

func setupWorkers(cfg *Config, tracker services.Analytics) (workers.Group, error) {
	var workerGroup workers.Group

	db, err := database.NewPostgres(cfg.PgURL, cfg.PgHost)
	if err != nil {
		return nil, fmt.Errorf("creating db: %w", err)
	}

	assistantPrompt, _ := lo.Coalesce(cfg.AssistantSystemPrompt, prompts.Assistant)
	assistant, err := llm.NewProvider(llm.Config{
		BaseURL:      cfg.LLMBaseURL,
		APIKey:       cfg.LLMAPIKey,
		Model:        cfg.AssistantModel,
		SystemPrompt: assistantPrompt,
		Temperature:  cfg.AssistantTemperature,
		MaxTokens:    cfg.AssistantMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("creating assistant provider: %w", err)
	}

	gatePrompt, _ := lo.Coalesce(cfg.ModerationSystemPrompt, prompts.SafeGuard)
	gate, err := llm.NewProvider(llm.Config{
		BaseURL:      cfg.LLMBaseURL,
		APIKey:       cfg.LLMAPIKey,
		Model:        cfg.ModerationModel,
		SystemPrompt: gatePrompt,
		Temperature:  cfg.ModerationTemperature,
		MaxTokens:    cfg.ModerationMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("creating moderation provider: %w", err)
	}

	chatRepository := repository.NewChatRepository(db)
	messageRepository := repository.NewMessageRepository(db)

	moderationService := services.NewModerationService(gate, tracker)
	conversationService := services.NewConversationService(
		moderationService,
		assistant,
		chatRepository,
		messageRepository,
		cfg.HistoryLimit,
	)
	chatService := services.NewChatService(chatRepository, messageRepository)

	router := api.NewRouter(
		handler.NewChats(conversationService, chatService),
		handler.NewLLM(conversationService, chatService, auth.NewLimiterPool(cfg.RateLimitAttempts, cfg.RateLimitWindow)),
	)
	workerGroup = append(workerGroup, workers.NewHTTPServer(cfg.HTTPAddr, router, cfg.HTTPShutdownTimeout))

	if cfg.TelegramBotToken == "" {
		slog.Info("telegram bot token is empty, telegram front-end disabled")
		return workerGroup, nil
	}

	telegramClient, err := telegram.NewClient(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("creating telegram client: %w", err)
	}

	responseCh := make(chan domain.Response)
	telegramHandler := telegram.NewHandler(
		conversationService,
		repository.NewTelegramChatRepository(db),
		responseCh,
	)

	workerGroup = append(workerGroup, workers.NewTelegramUpdateListener(
		telegramClient,
		auth.NewAuthenticator(cfg.TelegramAuthorizedUserIDs),
		telegramHandler,
		responseCh,
	))

	return workerGroup, nil
}
