package cli

import (
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/quiz-admin-service/internal/cache"
	"github.com/SAP-F-2025/quiz-admin-service/internal/config"
	"github.com/SAP-F-2025/quiz-admin-service/internal/events"
	"github.com/SAP-F-2025/quiz-admin-service/internal/services"
	"github.com/SAP-F-2025/quiz-admin-service/pkg"
)

func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
}

// openDatabase connects and brings the schema up to date
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if err := pkg.Migrate(db); err != nil {
		closeDatabase(db)
		return nil, err
	}
	return db, nil
}

func closeDatabase(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// openRedis returns nil when redis is not configured or unreachable; the cache is optional
func openRedis(cfg *config.Config, logger *slog.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}
	client, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, running without cache", "error", err)
		return nil
	}
	return client
}

func applyCacheTTLs(cfg *config.Config) {
	cache.QuizCacheConfig.TTL = config.TTLDuration(cfg.Cache.QuizTTL, cache.QuizCacheConfig.TTL)
	cache.UserCacheConfig.TTL = config.TTLDuration(cfg.Cache.UserTTL, cache.UserCacheConfig.TTL)
	cache.ExistsCacheConfig.TTL = config.TTLDuration(cfg.Cache.ExistsTTL, cache.ExistsCacheConfig.TTL)
}

// newPublisher publishes to kafka when brokers are configured, in process otherwise
func newPublisher(cfg *config.Config, logger *slog.Logger) (events.EventPublisher, error) {
	if len(cfg.Kafka.Brokers) > 0 {
		return events.NewKafkaEventPublisher(cfg.Kafka.Brokers, cfg.Kafka.TopicPrefix, logger)
	}
	return events.NewInMemoryEventPublisher(cfg.Kafka.TopicPrefix, logger), nil
}

func seedUsers(cfg *config.Config) []services.SeedUser {
	users := make([]services.SeedUser, 0, len(cfg.Seed))
	for _, u := range cfg.Seed {
		users = append(users, services.SeedUser{Email: u.Email, Password: u.Password, IsAdmin: u.IsAdmin})
	}
	return users
}
