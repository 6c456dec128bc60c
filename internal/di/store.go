package di

import (
	"context"
	"fmt"
	"time"

	"github.com/prohmpiriya/handiq-workshops/internal/repository"
	"github.com/prohmpiriya/handiq-workshops/pkg/config"
	"github.com/prohmpiriya/handiq-workshops/pkg/database"
	"github.com/prohmpiriya/handiq-workshops/pkg/logger"
	"github.com/prohmpiriya/handiq-workshops/pkg/mongodb"
	"go.uber.org/zap"
)

// OpenStore connects the configured store driver and prepares its schema.
// The returned close function releases the connection.
func OpenStore(ctx context.Context, cfg *config.Config) (*repository.Store, func(), error) {
	log := logger.Get()

	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Warn("using in-memory store, data is lost on restart")
		return repository.NewMemoryStore(), func() {}, nil

	case config.StoreDriverMongo:
		client, err := mongodb.NewClient(ctx, &mongodb.Config{
			URI:            cfg.MongoDB.URI,
			Database:       cfg.MongoDB.Database,
			ConnectTimeout: cfg.MongoDB.ConnectTimeout,
			MaxPoolSize:    cfg.MongoDB.MaxPoolSize,
			MaxRetries:     3,
			RetryInterval:  time.Second,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("mongodb connection failed: %w", err)
		}
		if err := repository.EnsureMongoIndexes(ctx, client); err != nil {
			_ = client.Close(context.Background())
			return nil, nil, fmt.Errorf("failed to create mongodb indexes: %w", err)
		}
		log.Info("MongoDB connected", zap.String("database", cfg.MongoDB.Database))
		return repository.NewMongoStore(client), func() { _ = client.Close(context.Background()) }, nil

	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(ctx, &database.PostgresConfig{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			Database:        cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			MaxConns:        int32(cfg.Database.MaxOpenConns),
			MinConns:        int32(cfg.Database.MaxIdleConns),
			MaxConnLifetime: cfg.Database.ConnMaxLifetime,
			MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
			ConnectTimeout:  5 * time.Second,
			MaxRetries:      3,
			RetryInterval:   time.Second,
			EnableTracing:   cfg.OTel.Enabled,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("postgres connection failed: %w", err)
		}
		if err := db.Migrate(ctx, repository.PostgresSchema...); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info("PostgreSQL connected",
			zap.String("database", cfg.Database.DBName),
			zap.Int("max_conns", cfg.Database.MaxOpenConns),
		)
		return repository.NewPostgresStore(db), db.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver: %q", cfg.Store.Driver)
}
