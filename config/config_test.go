package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Name: "accounts_db"},
		JWT: JWTConfig{
			AccessSecret:  "access-secret",
			RefreshSecret: "refresh-secret",
			AccessExpiry:  24 * time.Hour,
			RefreshExpiry: 7 * 24 * time.Hour,
		},
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateRequiresBothSecrets(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing access secret", func(c *Config) { c.JWT.AccessSecret = "" }},
		{"missing refresh secret", func(c *Config) { c.JWT.RefreshSecret = "" }},
		{"both secrets missing", func(c *Config) { c.JWT.AccessSecret = ""; c.JWT.RefreshSecret = "" }},
		{"missing db name", func(c *Config) { c.Database.Name = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() accepted an incomplete config")
			}
		})
	}
}

func TestValidateRejectsEqualSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.JWT.RefreshSecret = cfg.JWT.AccessSecret

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted identical access and refresh secrets")
	}
}

func TestLoadConfigFailsFastWithoutSecrets(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() succeeded without signing secrets")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "")
	t.Setenv("REFRESH_TOKEN_EXPIRY", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.JWT.AccessExpiry != 24*time.Hour {
		t.Errorf("AccessExpiry = %v, want 24h", cfg.JWT.AccessExpiry)
	}
	if cfg.JWT.RefreshExpiry != 7*24*time.Hour {
		t.Errorf("RefreshExpiry = %v, want 168h", cfg.JWT.RefreshExpiry)
	}
	if cfg.App.Port == "" {
		t.Error("expected a default port")
	}
}

func TestDatabaseConnectionString(t *testing.T) {
	cfg := validConfig()
	cfg.Database = DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		Name:     "accounts_db",
		User:     "svc",
		Password: "pw",
		SSLMode:  "require",
	}

	want := "host=db.internal port=5433 user=svc password=pw dbname=accounts_db sslmode=require"
	if got := cfg.DatabaseConnectionString(); got != want {
		t.Errorf("DatabaseConnectionString() = %q, want %q", got, want)
	}
}
