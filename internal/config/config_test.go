package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	cfg := Config{Catalog: CatalogConfig{BaseURL: "https://contoso.data.azure-apicenter.ms"}}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{Catalog: CatalogConfig{BaseURL: "https://x.example.com/"}}
	cfg.ApplyDefaults()

	if cfg.Catalog.Workspace != "default" {
		t.Errorf("workspace = %q", cfg.Catalog.Workspace)
	}
	if cfg.Catalog.PageSize != 50 {
		t.Errorf("page_size = %d", cfg.Catalog.PageSize)
	}
	if cfg.Catalog.BaseURL != "https://x.example.com" {
		t.Errorf("base_url = %q, want trailing slash trimmed", cfg.Catalog.BaseURL)
	}
	if cfg.Cache.Driver != CacheDriverMemory {
		t.Errorf("cache.driver = %q", cfg.Cache.Driver)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("http.port = %d", cfg.HTTP.Port)
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MissingBaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.Catalog.BaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing base_url")
	}
}

func TestValidate_RelativeBaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.Catalog.BaseURL = "contoso.example.com"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for scheme-less base_url")
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_CacheDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Driver = "memcached"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
	expected := `cache.driver must be "memory", "lru" or "redis", got "memcached"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_RedisNeedsAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Driver = CacheDriverRedis
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for redis without addrs")
	}
	cfg.Cache.Addrs = []string{"localhost:6379"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("APICAT_TEST_HOST", "https://env.example.com")

	got := string(expandEnvVars([]byte("a: ${APICAT_TEST_HOST}\nb: ${APICAT_TEST_UNSET:-fallback}\nc: ${APICAT_TEST_UNSET}")))
	want := "a: https://env.example.com\nb: fallback\nc: "
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("APICAT_TEST_TOKEN", "secret")
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	data := `
catalog:
  base_url: https://contoso.example.com
  workspace: team-a
  token: ${APICAT_TEST_TOKEN}
cache:
  driver: lru
  size: 16
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Catalog.Workspace != "team-a" || cfg.Catalog.Token != "secret" {
		t.Errorf("catalog = %+v", cfg.Catalog)
	}
	if cfg.Cache.Driver != CacheDriverLRU || cfg.Cache.Size != 16 {
		t.Errorf("cache = %+v", cfg.Cache)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if !IsNotExist(err) {
		t.Errorf("IsNotExist(%v) = false", err)
	}
}

func TestDefault(t *testing.T) {
	t.Setenv("APICAT_BASE_URL", "https://env.example.com")
	t.Setenv("APICAT_WORKSPACE", "")
	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if cfg.Catalog.BaseURL != "https://env.example.com" || cfg.Catalog.Workspace != "default" {
		t.Errorf("catalog = %+v", cfg.Catalog)
	}
}

func TestDefault_MissingBaseURL(t *testing.T) {
	t.Setenv("APICAT_BASE_URL", "")
	if _, err := Default(); err == nil {
		t.Error("expected error without a base url")
	}
}

func TestParse_OverridesApplyBeforeValidation(t *testing.T) {
	cfg, err := Parse([]byte("catalog:\n  workspace: ws\n"), func(c *Config) {
		c.Catalog.BaseURL = "https://flag.example.com/"
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Catalog.BaseURL != "https://flag.example.com" || cfg.Catalog.Workspace != "ws" {
		t.Errorf("catalog = %+v", cfg.Catalog)
	}
}
