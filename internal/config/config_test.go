package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/thurmanmarka/astroreturn"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func TestLoad_Defaults(t *testing.T) {
	resetViper()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"ToleranceSeconds", cfg.ToleranceSeconds, 1.0},
		{"MaxIterations", cfg.MaxIterations, 1000},
		{"ReturnEpsilonSeconds", cfg.ReturnEpsilonSeconds, 60.0},
		{"CatalogPath", cfg.CatalogPath, ""},
		{"Verbose", cfg.Verbose, false},
		{"Server.Addr", cfg.Server.Addr, ":8080"},
		{"Server.RateLimit", cfg.Server.RateLimit, 20.0},
		{"Server.Burst", cfg.Server.Burst, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "tolerance_seconds",
			envKey: "ASTRORETURN_TOLERANCE_SECONDS",
			envVal: "0.5",
			field:  func(c Config) any { return c.ToleranceSeconds },
			want:   0.5,
		},
		{
			name:   "max_iterations",
			envKey: "ASTRORETURN_MAX_ITERATIONS",
			envVal: "5000",
			field:  func(c Config) any { return c.MaxIterations },
			want:   5000,
		},
		{
			name:   "catalog_path",
			envKey: "ASTRORETURN_CATALOG_PATH",
			envVal: "/etc/astroreturn/bodies.toml",
			field:  func(c Config) any { return c.CatalogPath },
			want:   "/etc/astroreturn/bodies.toml",
		},
		{
			name:   "server.addr",
			envKey: "ASTRORETURN_SERVER_ADDR",
			envVal: "127.0.0.1:9000",
			field:  func(c Config) any { return c.Server.Addr },
			want:   "127.0.0.1:9000",
		},
		{
			name:   "verbose",
			envKey: "ASTRORETURN_VERBOSE",
			envVal: "true",
			field:  func(c Config) any { return c.Verbose },
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			t.Setenv(tt.envKey, tt.envVal)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			if got := tt.field(cfg); got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	resetViper()

	path := filepath.Join(t.TempDir(), ".astroreturn.yaml")
	yaml := "tolerance_seconds: 2\nserver:\n  addr: \":9999\"\n  cors_origins:\n    - https://example.org\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.ToleranceSeconds != 2 || cfg.Server.Addr != ":9999" {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "https://example.org" {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
}

func TestLoad_Invalid(t *testing.T) {
	resetViper()
	t.Setenv("ASTRORETURN_RETURN_EPSILON_SECONDS", "0.5")

	if _, err := Load(); err == nil {
		t.Error("epsilon below tolerance should be rejected")
	}
}

func TestConfig_Options(t *testing.T) {
	cfg := Config{ToleranceSeconds: 1, MaxIterations: 10, ReturnEpsilonSeconds: 60}
	opts := cfg.Options()

	if math.Abs(opts.Tolerance-astroreturn.Second) > 1e-15 ||
		math.Abs(opts.ReturnEpsilon-astroreturn.Minute) > 1e-15 ||
		opts.MaxIterations != 10 {
		t.Errorf("Options() = %+v", opts)
	}
	if _, err := astroreturn.NewSolver(astroreturn.Ephemeris{}, opts); err != nil {
		t.Errorf("NewSolver rejected converted options: %v", err)
	}
}

func TestConfig_Catalog(t *testing.T) {
	c, err := Config{}.Catalog()
	if err != nil || c.Len() != astroreturn.DefaultCatalog().Len() {
		t.Fatalf("default catalog: %v", err)
	}

	if _, err := (Config{CatalogPath: filepath.Join(t.TempDir(), "none.toml")}).Catalog(); err == nil {
		t.Error("missing catalog file should fail")
	}
}
