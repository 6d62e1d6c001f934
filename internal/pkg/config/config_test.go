package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Mongo.URI != "mongodb://localhost:27017" || cfg.Mongo.Database != "pinkbananas" {
		t.Fatalf("unexpected mongo defaults: %+v", cfg.Mongo)
	}
	if cfg.Redis.Enabled {
		t.Fatalf("redis cache should be off by default")
	}
	if cfg.Redis.CacheTTL != 5*time.Minute || cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected durations: %+v", cfg)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development env")
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":            "9090",
		"ENV":             "production",
		"MONGO_URI":       "mongodb+srv://cluster.example.net",
		"MONGO_DB":        "streaks",
		"REDIS_ENABLED":   "true",
		"REDIS_ADDR":      "cache:6379",
		"REDIS_CACHE_TTL": "30s",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "9090" || cfg.IsDevelopment() {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
	if cfg.Mongo.Database != "streaks" {
		t.Fatalf("unexpected mongo db: %s", cfg.Mongo.Database)
	}
	if !cfg.Redis.Enabled || cfg.Redis.Addr != "cache:6379" || cfg.Redis.CacheTTL != 30*time.Second {
		t.Fatalf("unexpected redis config: %+v", cfg.Redis)
	}
}

func TestLoadWith_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"non numeric port":     {"PORT": "http"},
		"unknown env":          {"ENV": "qa"},
		"zero mongo timeout":   {"MONGO_TIMEOUT": "0s"},
		"zero cache ttl":       {"REDIS_CACHE_TTL": "0s"},
		"negative redis db":    {"REDIS_DB": "-1"},
		"unparseable duration": {"SHUTDOWN_TIMEOUT": "soon"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadWith(context.Background(), envconfig.MapLookuper(env)); err == nil {
				t.Fatalf("expected error for %v", env)
			}
		})
	}
}
