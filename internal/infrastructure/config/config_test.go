package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	cfg := &DatabaseConfig{
		Host:     "localhost",
		Port:     15432,
		User:     "registry",
		Password: "secret",
		Database: "registry_test",
		SSLMode:  "disable",
	}

	want := "host=localhost port=15432 user=registry password=secret dbname=registry_test sslmode=disable"
	if got := cfg.ConnectionString(); got != want {
		t.Errorf("ConnectionString() = %q, want %q", got, want)
	}
}

func TestLoad_RequiresPassword(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	if _, err := Load(); err == nil {
		t.Error("Load() without DB_PASSWORD succeeded, want error")
	}
}

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	if err := InitConfig("test"); err != nil {
		t.Fatalf("InitConfig() error = %v", err)
	}
	viper.Set("DB_PASSWORD", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port == 0 {
		t.Error("Load() returned zero server port, want default")
	}
	if cfg.Database.Host == "" {
		t.Error("Load() returned empty database host, want default")
	}
	if !cfg.Cache.Enabled {
		t.Error("Load() returned disabled cache, want enabled by default")
	}
}
