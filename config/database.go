package config

import (
	"main/utils"
	"time"

	"go.mongodb.org/mongo-driver/mongo/options"
)

type DatabaseConfig struct {
	URI             string
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
	DatabaseName    string
	RetryWrites     bool
}

func LoadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URI:             utils.GetEnvAsString("MONGO_URI", "mongodb://localhost:27017"),
		MaxPoolSize:     utils.GetEnvAsUint64("MONGO_MAX_POOL_SIZE", 100),
		MinPoolSize:     utils.GetEnvAsUint64("MONGO_MIN_POOL_SIZE", 10),
		MaxConnIdleTime: time.Duration(utils.GetEnvAsInt("MONGO_MAX_CONN_IDLE_TIME", 60)) * time.Second,
		DatabaseName:    utils.GetEnvAsString("MONGO_DB", "habitly"),
		RetryWrites:     utils.GetEnvAsBool("MONGO_RETRY_WRITES", true),
	}
}

// ClientOptions builds the Mongo client options from the config
func (c DatabaseConfig) ClientOptions() *options.ClientOptions {
	return options.Client().
		ApplyURI(c.URI).
		SetMaxPoolSize(c.MaxPoolSize).
		SetMinPoolSize(c.MinPoolSize).
		SetMaxConnIdleTime(c.MaxConnIdleTime).
		SetRetryWrites(c.RetryWrites)
}

type CacheConfig struct {
	RedisURL         string
	RolloverInterval time.Duration
}

func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		RedisURL:         utils.GetEnvAsString("REDIS_URL", "redis://localhost:6379/0"),
		RolloverInterval: utils.GetEnvAsDuration("ROLLOVER_CHECK_INTERVAL", time.Minute),
	}
}
