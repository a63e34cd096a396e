package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("HOYSPACE_TEST_SECRET", "s3cret")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: "9090"
  legacy_ids: false
auth:
  jwt_secret: ${HOYSPACE_TEST_SECRET}
  bcrypt_cost: 4
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.JWTSecret != "s3cret" {
		t.Errorf("jwt secret = %q", cfg.Auth.JWTSecret)
	}
	if cfg.Server.Port != "9090" || cfg.Server.LegacyIDs {
		t.Errorf("server = %+v", cfg.Server)
	}
	// untouched sections keep defaults
	if cfg.Database.Driver != "sqlite3" || cfg.Auth.OTPTTLMinutes != 10 {
		t.Errorf("defaults lost: %+v %+v", cfg.Database, cfg.Auth)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Errorf("jwt secret = %q", cfg.Auth.JWTSecret)
	}
	if cfg.Server.Port == "" {
		t.Error("expected default port")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"ok", func(c *Config) { c.Auth.JWTSecret = "x" }, false},
		{"no secret", func(c *Config) {}, true},
		{"bad driver", func(c *Config) { c.Auth.JWTSecret = "x"; c.Database.Driver = "postgres" }, true},
		{"bad cost", func(c *Config) { c.Auth.JWTSecret = "x"; c.Auth.BcryptCost = 2 }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tc.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
