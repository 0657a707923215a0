// Package container wires the application together with Uber FX
package container

import (
	"context"
	"os"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sousa/mealplan/internal/application/assistant"
	"github.com/sousa/mealplan/internal/application/mealplan"
	"github.com/sousa/mealplan/internal/application/pantry"
	"github.com/sousa/mealplan/internal/application/profile"
	"github.com/sousa/mealplan/internal/application/recipe"
	"github.com/sousa/mealplan/internal/application/shopping"
	"github.com/sousa/mealplan/internal/infrastructure/ai/openai"
	"github.com/sousa/mealplan/internal/infrastructure/config"
	"github.com/sousa/mealplan/internal/infrastructure/events"
	"github.com/sousa/mealplan/internal/infrastructure/http/apiserver"
	"github.com/sousa/mealplan/internal/infrastructure/http/handlers"
	"github.com/sousa/mealplan/internal/infrastructure/http/middleware"
	"github.com/sousa/mealplan/internal/infrastructure/http/server"
	"github.com/sousa/mealplan/internal/infrastructure/monitoring"
	"github.com/sousa/mealplan/internal/infrastructure/persistence/database"
	gormRepo "github.com/sousa/mealplan/internal/infrastructure/persistence/gorm"
	"github.com/sousa/mealplan/internal/infrastructure/persistence/memory"
	redisRepo "github.com/sousa/mealplan/internal/infrastructure/persistence/redis"
	"github.com/sousa/mealplan/internal/infrastructure/security"
	"github.com/sousa/mealplan/internal/ports/inbound"
	"github.com/sousa/mealplan/internal/ports/outbound"
	"github.com/sousa/mealplan/pkg/healthcheck"
	"github.com/sousa/mealplan/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConfigPathEnv names the environment variable holding an optional config file
const ConfigPathEnv = config.EnvPrefix + "_CONFIG"

// Module provides all dependency injection modules
var Module = fx.Options(
	// Infrastructure modules
	ConfigModule,
	LoggerModule,
	MonitoringModule,
	DatabaseModule,
	CacheModule,
	EventModule,

	// Repository modules
	RepositoryModule,

	// Service modules
	ServiceModule,

	// HTTP modules
	HTTPModule,

	// Lifecycle hooks
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load(os.Getenv(ConfigPathEnv))
	},
)

// LoggerModule provides logging. The level follows the config file when it
// changes on disk.
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*logger.Logger, error) {
		l, err := logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
		if err != nil {
			return nil, err
		}
		cfg.OnLogLevelChange(func(level string) {
			l.SetLevel(level)
			l.Info("Log level changed", zap.String("level", level))
		})
		return l, nil
	},
	func(l *logger.Logger) *zap.Logger {
		return l.Logger
	},
)

// MonitoringModule provides Prometheus metrics and OpenTelemetry
var MonitoringModule = fx.Provide(
	monitoring.NewMetricsCollector,
	func(cfg *config.Config, metrics *monitoring.MetricsCollector, log *zap.Logger) (*monitoring.Telemetry, error) {
		return monitoring.NewTelemetry(cfg, metrics.Registry(), log)
	},
)

// DatabaseModule provides the connection manager and its GORM handle
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, metrics *monitoring.MetricsCollector, log *zap.Logger) (*database.ConnectionManager, error) {
		cm, err := database.NewConnectionManager(cfg, metrics, log)
		if err != nil {
			return nil, err
		}
		if err := metrics.Registry().Register(cm.Collector()); err != nil {
			log.Warn("Failed to register database pool collector", zap.Error(err))
		}
		return cm, nil
	},
	func(cm *database.ConnectionManager) *gorm.DB {
		return cm.DB()
	},
)

// CacheModule provides Redis when enabled and an in-memory cache otherwise
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) goredis.UniversalClient {
		if !cfg.Redis.Enabled {
			return nil
		}
		log.Info("Using Redis cache", zap.String("addr", cfg.RedisAddr()))
		return redisRepo.NewClient(cfg.Redis, cfg.RedisAddr())
	},
	func(cfg *config.Config, client goredis.UniversalClient, metrics *monitoring.MetricsCollector, log *zap.Logger) outbound.CacheRepository {
		var cache outbound.CacheRepository
		if client != nil {
			cache = redisRepo.NewCacheRepository(client, cfg.Redis.KeyPrefix, log)
		} else {
			log.Info("Using in-memory cache")
			cache = memory.NewCacheRepository(time.Minute)
		}
		return monitoring.InstrumentCache(cache, metrics)
	},
)

// EventModule provides the domain event publisher
var EventModule = fx.Provide(
	func(cfg *config.Config, client goredis.UniversalClient, metrics *monitoring.MetricsCollector, log *zap.Logger) outbound.EventPublisher {
		var broadcaster events.Broadcaster
		if client != nil {
			broadcaster = client
		}
		return events.NewPublisher(log, metrics, broadcaster, cfg.Redis.KeyPrefix)
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormRepo.NewRecipeRepository,
	gormRepo.NewMealRepository,
	gormRepo.NewPantryRepository,
	gormRepo.NewShoppingRepository,
	gormRepo.NewProfileRepository,
	fx.Annotate(
		gormRepo.NewTransactor,
		fx.As(new(outbound.Transactor)),
	),
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	fx.Annotate(
		func(cfg *config.Config, metrics *monitoring.MetricsCollector, log *zap.Logger) *openai.Client {
			return openai.NewClient(cfg.AI, metrics, log)
		},
		fx.As(new(outbound.LanguageModel)),
	),
	recipe.NewRecipeService,
	mealplan.NewMealPlanService,
	pantry.NewPantryService,
	shopping.NewShoppingService,
	func(cfg *config.Config, repo outbound.ProfileRepository, cache outbound.CacheRepository, log *zap.Logger) *profile.ProfileService {
		return profile.NewProfileService(repo, cache, cfg.AI.ProfileCache, log)
	},
	func(p *profile.ProfileService) inbound.ProfileService {
		return p
	},
	fx.Annotate(
		NewAssistant,
		fx.As(new(inbound.AssistantService)),
	),
)

// AssistantParams collects the assistant's collaborators
type AssistantParams struct {
	fx.In

	Config   *config.Config
	Logger   *zap.Logger
	LLM      outbound.LanguageModel
	Profiles *profile.ProfileService
	Recipes  outbound.RecipeRepository
	Meals    outbound.MealRepository
	Shopping outbound.ShoppingRepository
	Tx       outbound.Transactor
	Cache    outbound.CacheRepository
	Events   outbound.EventPublisher
	Metrics  *monitoring.MetricsCollector
}

// NewAssistant builds the AI assistant service
func NewAssistant(p AssistantParams) *assistant.Service {
	return assistant.NewService(assistant.Deps{
		LLM:      p.LLM,
		Profiles: p.Profiles,
		Recipes:  p.Recipes,
		Meals:    p.Meals,
		Shopping: p.Shopping,
		Tx:       p.Tx,
		Cache:    p.Cache,
		Events:   p.Events,
		Quota:    p.Metrics,
	}, assistant.Config{DailyQuota: p.Config.AI.DailyQuota}, p.Logger)
}

// HandlerParams collects the inbound services exposed over HTTP
type HandlerParams struct {
	fx.In

	Recipes   inbound.RecipeService
	Pantry    inbound.PantryService
	Shopping  inbound.ShoppingService
	Profiles  inbound.ProfileService
	MealPlan  inbound.MealPlanService
	Assistant inbound.AssistantService
	Validator *security.Validator
	Logger    *zap.Logger
}

// HTTPModule provides the API server, the operations server and their
// collaborators
var HTTPModule = fx.Provide(
	security.NewValidator,
	func(cfg *config.Config) *security.TokenVerifier {
		return security.NewTokenVerifier(cfg.Auth)
	},
	func(cfg *config.Config) *security.RateLimiter {
		if !cfg.RateLimit.Enable {
			return nil
		}
		return security.NewRateLimiter(cfg.RateLimit)
	},
	func(p HandlerParams) *handlers.APIHandlers {
		return handlers.NewAPIHandlers(handlers.Services{
			Recipes:   p.Recipes,
			Pantry:    p.Pantry,
			Shopping:  p.Shopping,
			Profiles:  p.Profiles,
			MealPlan:  p.MealPlan,
			Assistant: p.Assistant,
		}, p.Validator, p.Logger)
	},
	func(
		cfg *config.Config,
		log *zap.Logger,
		h *handlers.APIHandlers,
		verifier *security.TokenVerifier,
		limiter *security.RateLimiter,
		metrics *monitoring.MetricsCollector,
	) *apiserver.Server {
		var l middleware.Limiter
		if limiter != nil {
			l = limiter
		}
		return apiserver.NewServer(cfg, log, h, verifier, l, metrics)
	},
	NewHealthCheck,
	func(cfg *config.Config, log *zap.Logger, health *healthcheck.HealthCheck, metrics *monitoring.MetricsCollector) *server.OpsServer {
		if !cfg.Monitoring.EnableMetrics {
			metrics = nil
		}
		return server.NewOpsServer(cfg, log, health, metrics)
	},
)

// NewHealthCheck registers the database, AI configuration and, when enabled,
// Redis checks
func NewHealthCheck(cfg *config.Config, log *zap.Logger, cm *database.ConnectionManager, client goredis.UniversalClient) *healthcheck.HealthCheck {
	hc := healthcheck.New(cfg.App.Version, log)
	hc.Register("database", healthcheck.NewDatabaseChecker(cm.SQLDB()))
	if client != nil {
		hc.Register("redis", healthcheck.NewRedisChecker(client))
	}
	hc.Register("ai", healthcheck.NewCustomChecker("ai", func(ctx context.Context) (healthcheck.Status, string, interface{}) {
		meta := map[string]interface{}{"model": cfg.AI.Model}
		if cfg.AI.APIKey == "" {
			return healthcheck.StatusDegraded, "no API key configured", meta
		}
		return healthcheck.StatusHealthy, "", meta
	}))
	return hc
}

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// LifecycleParams collects everything with a start or stop step
type LifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Config     *config.Config
	Logger     *zap.Logger
	Database   *database.ConnectionManager
	Redis      goredis.UniversalClient
	Telemetry  *monitoring.Telemetry
	Limiter    *security.RateLimiter
	API        *apiserver.Server
	Ops        *server.OpsServer
}

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(p LifecycleParams) {
	log := p.Logger
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting meal planner",
				zap.String("version", p.Config.App.Version),
				zap.String("environment", p.Config.App.Environment),
				zap.String("address", p.Config.Addr()),
			)

			go func() {
				if err := p.API.Start(); err != nil {
					log.Error("API server stopped", zap.Error(err))
					_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			go func() {
				if err := p.Ops.Start(); err != nil {
					log.Error("Operations server stopped", zap.Error(err))
					_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down meal planner")

			if err := p.API.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown API server", zap.Error(err))
			}
			if err := p.Ops.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown operations server", zap.Error(err))
			}
			if err := p.Telemetry.Shutdown(ctx); err != nil {
				log.Error("Failed to flush telemetry", zap.Error(err))
			}
			if p.Limiter != nil {
				p.Limiter.Close()
			}
			if err := p.Database.Close(); err != nil {
				log.Error("Failed to close database connection", zap.Error(err))
			}
			if p.Redis != nil {
				if err := p.Redis.Close(); err != nil {
					log.Error("Failed to close Redis client", zap.Error(err))
				}
			}

			// Flush logs
			_ = log.Sync()

			return nil
		},
	})
}
