package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_USER", "booking")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "booking")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "15")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "30")
	t.Setenv("BCRYPT_COST", "10")
}

func TestLoadFeeDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg := Load()
	if cfg.CleaningFeeCents != 2500 {
		t.Errorf("CleaningFeeCents = %d, want default 2500", cfg.CleaningFeeCents)
	}
	if cfg.ServiceFeeCents != 500 {
		t.Errorf("ServiceFeeCents = %d, want default 500", cfg.ServiceFeeCents)
	}

	t.Setenv("CLEANING_FEE_CENTS", "4000")
	t.Setenv("SERVICE_FEE_CENTS", "0")
	cfg = Load()
	if cfg.CleaningFeeCents != 4000 || cfg.ServiceFeeCents != 0 {
		t.Errorf("fees = (%d, %d), want (4000, 0)", cfg.CleaningFeeCents, cfg.ServiceFeeCents)
	}
}

func TestLoadRateLimitConfigNormalizes(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	if cfg.Capacity != 1 {
		t.Errorf("Capacity = %d, want clamped to 1", cfg.Capacity)
	}
	if cfg.RefillTokens != 1 {
		t.Errorf("RefillTokens = %d, want clamped to 1", cfg.RefillTokens)
	}
	if want := 5 * cfg.RefillInterval; cfg.TTL != want {
		t.Errorf("TTL = %v, want raised to %v", cfg.TTL, want)
	}
}

func TestLoadCacheConfigMethods(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_TTL", "45s")

	cfg := LoadCacheConfig()
	if !cfg.Methods["GET"] || !cfg.Methods["HEAD"] {
		t.Errorf("Methods = %v, want GET and HEAD enabled", cfg.Methods)
	}
	if cfg.Methods["POST"] {
		t.Error("POST must never be cacheable")
	}
	if cfg.TTL != 45*time.Second {
		t.Errorf("TTL = %v, want 45s", cfg.TTL)
	}
}
