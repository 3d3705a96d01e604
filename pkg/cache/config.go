package cache

import "time"

// MemoryOption configures MemoryCache.
type MemoryOption func(*MemoryConfig)

// MemoryConfig holds in-memory cache configuration.
type MemoryConfig struct {
	MaxSize         int
	CleanupInterval time.Duration
}

// WithMaxSize sets max number of cached entries before LRU eviction.
func WithMaxSize(n int) MemoryOption {
	return func(c *MemoryConfig) {
		if n > 0 {
			c.MaxSize = n
		}
	}
}

// WithCleanupInterval sets how often expired entries are swept.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(c *MemoryConfig) {
		if d > 0 {
			c.CleanupInterval = d
		}
	}
}

// RedisOption configures RedisCache.
type RedisOption func(*RedisConfig)

// RedisConfig holds Redis cache configuration.
type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	PoolTimeout  time.Duration
	MinIdleConns int
	Prefix       string
}

// WithRedisAddr sets Redis host and port.
func WithRedisAddr(host string, port int) RedisOption {
	return func(c *RedisConfig) {
		c.Host = host
		c.Port = port
	}
}

// WithRedisAuth sets password and database index.
func WithRedisAuth(password string, db int) RedisOption {
	return func(c *RedisConfig) {
		c.Password = password
		c.DB = db
	}
}

// WithRedisPrefix sets the key namespace prefix.
func WithRedisPrefix(prefix string) RedisOption {
	return func(c *RedisConfig) {
		if prefix != "" {
			c.Prefix = prefix
		}
	}
}

// WithRedisPool sets pool sizing.
func WithRedisPool(size, minIdle int, timeout time.Duration) RedisOption {
	return func(c *RedisConfig) {
		c.PoolSize = size
		c.MinIdleConns = minIdle
		c.PoolTimeout = timeout
	}
}
