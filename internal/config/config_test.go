package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:   HTTPConfig{Port: 8080},
		Engine: EngineConfig{Addrs: []string{"http://localhost:9200"}},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_InvalidDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.Driver = "solr"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid driver")
	}

	expected := `engine.driver must be "opensearch" or "elasticsearch", got "solr"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_ValidDrivers(t *testing.T) {
	for _, driver := range []string{DriverOpenSearch, DriverElasticsearch} {
		t.Run("driver="+driver, func(t *testing.T) {
			cfg := validConfig()
			cfg.Engine.Driver = driver
			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for driver %q: %v", driver, err)
			}
		})
	}
}

func TestValidate_MissingEngineAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing engine addrs")
	}
}

func TestValidate_NegativeReplicas(t *testing.T) {
	cfg := validConfig()
	cfg.Index.Replicas = -1

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative replicas")
	}
}

func TestValidate_Fuzziness(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"auto", false},
		{"0", false},
		{"2", false},
		{"3", true},
		{"fuzzy", true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cfg := validConfig()
			cfg.Search.Fuzziness = tt.value
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 30 {
		t.Errorf("expected WriteTimeoutSec=30, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Engine.Driver != DriverOpenSearch {
		t.Errorf("expected Driver=%q, got %q", DriverOpenSearch, cfg.Engine.Driver)
	}
	if cfg.Engine.MaxRetries != 3 {
		t.Errorf("expected MaxRetries=3, got %d", cfg.Engine.MaxRetries)
	}
	if cfg.Engine.ReadinessTimeout != 30 {
		t.Errorf("expected ReadinessTimeout=30, got %d", cfg.Engine.ReadinessTimeout)
	}
	if cfg.Search.Fuzziness != "auto" {
		t.Errorf("expected Fuzziness=auto, got %q", cfg.Search.Fuzziness)
	}
	if cfg.Search.DefaultLimit != 10 {
		t.Errorf("expected DefaultLimit=10, got %d", cfg.Search.DefaultLimit)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:   HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Engine: EngineConfig{Driver: DriverElasticsearch, MaxRetries: 5, ReadinessTimeout: 15},
		Search: SearchConfig{Fuzziness: "1", DefaultLimit: 25},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Engine.Driver != DriverElasticsearch {
		t.Errorf("expected Driver=%q, got %q", DriverElasticsearch, cfg.Engine.Driver)
	}
	if cfg.Engine.MaxRetries != 5 {
		t.Errorf("expected MaxRetries=5, got %d", cfg.Engine.MaxRetries)
	}
	if cfg.Search.Fuzziness != "1" {
		t.Errorf("expected Fuzziness=1, got %q", cfg.Search.Fuzziness)
	}
	if cfg.Search.DefaultLimit != 25 {
		t.Errorf("expected DefaultLimit=25, got %d", cfg.Search.DefaultLimit)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("SB_TEST_PASSWORD", "s3cret")

	got := string(expandEnvVars([]byte("a: ${SB_TEST_PASSWORD}\nb: ${SB_TEST_UNSET:-fallback}\nc: ${SB_TEST_UNSET}")))
	want := "a: s3cret\nb: fallback\nc: "
	if got != want {
		t.Errorf("expandEnvVars() = %q, want %q", got, want)
	}
}

func TestParse(t *testing.T) {
	t.Setenv("SB_TEST_ADDR", "http://search:9200")

	cfg, err := Parse([]byte(`
http:
  port: 8080
engine:
  driver: elasticsearch
  addrs: ["${SB_TEST_ADDR}"]
index:
  prefix: "site_"
  refresh_interval: 1s
auth:
  api_keys: ["k1"]
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Engine.Driver != DriverElasticsearch {
		t.Errorf("Driver = %q", cfg.Engine.Driver)
	}
	if len(cfg.Engine.Addrs) != 1 || cfg.Engine.Addrs[0] != "http://search:9200" {
		t.Errorf("Addrs = %v", cfg.Engine.Addrs)
	}
	if cfg.Index.Prefix != "site_" || cfg.Index.RefreshInterval != "1s" {
		t.Errorf("Index = %+v", cfg.Index)
	}
	if cfg.Engine.MaxRetries != 3 {
		t.Errorf("MaxRetries default not applied: %d", cfg.Engine.MaxRetries)
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("http:\n  port: 8080\n"))
	if err == nil {
		t.Fatal("expected error for missing engine addrs")
	}
	if !strings.HasPrefix(err.Error(), "invalid config:") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	data := "http:\n  port: 9090\nengine:\n  addrs: [\"http://localhost:9200\"]\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.HTTP.Port)
	}
}

func TestLoad_Local(t *testing.T) {
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Engine.Driver != DriverOpenSearch {
		t.Errorf("Driver = %q", cfg.Engine.Driver)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
