package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
environment: test
server:
  port: 8080
  read_timeout: 10s
  write_timeout: 10s
  shutdown_timeout: 5s
log:
  level: debug
  format: console
clickhouse:
  host: localhost
  port: 9000
  database: stockdeck
  user: default
  actuals_table: stockdeck.stock_silver
  forecast_table: stockdeck.stock_forecast
cache:
  backend: memory
  ttl: 10m
  version_ttl: 30s
refresh:
  brokers: [localhost:9092]
  topic: stockdeck.tables.refreshed
  group_id: stockdeck-dashboard
dashboard:
  rate_capacity: 10
  rate_refill: 5
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Environment != "test" {
		t.Fatalf("environment = %q", cfg.Environment)
	}
	if cfg.Server.Port != 8080 || cfg.Server.ReadTimeout != 10*time.Second {
		t.Fatalf("server = %+v", cfg.Server)
	}
	if cfg.ClickHouse.ActualsTable != "stockdeck.stock_silver" {
		t.Fatalf("actuals_table = %q", cfg.ClickHouse.ActualsTable)
	}
	if cfg.Cache.Backend != "memory" || cfg.Cache.TTL != 10*time.Minute {
		t.Fatalf("cache = %+v", cfg.Cache)
	}
	if len(cfg.Refresh.Brokers) != 1 || cfg.Refresh.Topic != "stockdeck.tables.refreshed" {
		t.Fatalf("refresh = %+v", cfg.Refresh)
	}
	if cfg.Dashboard.RateCapacity != 10 || cfg.Dashboard.RateRefill != 5 {
		t.Fatalf("dashboard = %+v", cfg.Dashboard)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("CLICKHOUSE_HOST", "warehouse.internal")
	t.Setenv("CLICKHOUSE_PASSWORD", "secret")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("PORT", "9999")

	cfg, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.ClickHouse.Host != "warehouse.internal" {
		t.Fatalf("host = %q", cfg.ClickHouse.Host)
	}
	if cfg.ClickHouse.Password != "secret" {
		t.Fatalf("password not overridden")
	}
	if len(cfg.Refresh.Brokers) != 2 || cfg.Refresh.Brokers[1] != "k2:9092" {
		t.Fatalf("brokers = %v", cfg.Refresh.Brokers)
	}
	if cfg.Server.Port != 9999 {
		t.Fatalf("port = %d", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing environment", func(c *Config) { c.Environment = "" }, true},
		{"missing host", func(c *Config) { c.ClickHouse.Host = "" }, true},
		{"missing tables", func(c *Config) { c.ClickHouse.ActualsTable = "" }, true},
		{"bad cache backend", func(c *Config) { c.Cache.Backend = "memcached" }, true},
		{"empty cache backend ok", func(c *Config) { c.Cache.Backend = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, validYAML))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
