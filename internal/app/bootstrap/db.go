// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	assignhistorystore "github.com/schoolyard/examdesk/internal/app/store/assignhistory"
	"github.com/schoolyard/examdesk/internal/app/system/questiongen"
	"github.com/schoolyard/examdesk/internal/app/wizardstate"
	"github.com/schoolyard/examdesk/internal/platform"
)

// ConnectDB establishes every backend connection the app needs: MongoDB for
// assignment history, optional Redis for wizard state, and the platform API
// client. The wizard state store falls back to in-process memory when Redis
// is not configured.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	var deps DBDeps

	mongoOpts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, mongoOpts)
	if err != nil {
		return deps, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return deps, fmt.Errorf("ping MongoDB: %w", err)
	}
	deps.MongoClient = client
	deps.MongoDatabase = client.Database(appCfg.MongoDatabase)
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	if appCfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     appCfg.RedisAddr,
			Password: appCfg.RedisPassword,
			DB:       appCfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return deps, fmt.Errorf("ping Redis at %s: %w", appCfg.RedisAddr, err)
		}
		deps.Redis = rdb
		deps.WizardStates = wizardstate.NewRedisStore(rdb, appCfg.WizardStateTTL)
		logger.Info("wizard state backed by Redis", zap.String("addr", appCfg.RedisAddr))
	} else {
		deps.WizardStates = wizardstate.NewMemoryStore(appCfg.WizardStateTTL)
		logger.Info("wizard state backed by process memory")
	}

	deps.Platform = platform.New(appCfg.PlatformBaseURL, appCfg.PlatformToken, logger)
	logger.Info("platform client configured", zap.String("base_url", appCfg.PlatformBaseURL))

	if appCfg.OpenAIAPIKey != "" {
		deps.QuestionGen = questiongen.New(appCfg.OpenAIBaseURL, appCfg.OpenAIAPIKey, appCfg.OpenAIModel, logger)
		logger.Info("question drafting enabled", zap.String("model", appCfg.OpenAIModel))
	} else {
		logger.Info("question drafting disabled (no API key)")
	}

	return deps, nil
}

// EnsureSchema creates the MongoDB indexes the app relies on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := assignhistorystore.New(deps.MongoDatabase).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure assignment history indexes: %w", err)
	}
	logger.Info("MongoDB indexes ensured")
	return nil
}
