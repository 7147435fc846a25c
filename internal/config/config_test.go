package config

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Store.Driver != "sqlite" {
		t.Errorf("default store driver = %q", cfg.Store.Driver)
	}
	if cfg.Sweep.Hour != 8 || cfg.Sweep.Minute != 0 {
		t.Errorf("default sweep time = %02d:%02d, want 08:00", cfg.Sweep.Hour, cfg.Sweep.Minute)
	}
	if cfg.Notify.Dispatcher != "log" {
		t.Errorf("default dispatcher = %q", cfg.Notify.Dispatcher)
	}
	if err := cfg.validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestUnmarshalAppliesDefaults(t *testing.T) {
	raw := []byte("sweep:\n  hour: 6\n  minute: 30\n")

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	cfg.applyDefaults()

	if cfg.Sweep.Hour != 6 || cfg.Sweep.Minute != 30 {
		t.Errorf("sweep time = %02d:%02d, want 06:30", cfg.Sweep.Hour, cfg.Sweep.Minute)
	}
	if cfg.Store.Driver != "sqlite" {
		t.Errorf("missing store driver not defaulted: %q", cfg.Store.Driver)
	}
	if cfg.HTTP.Listen == "" {
		t.Error("missing listen address not defaulted")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad driver", func(c *Config) { c.Store.Driver = "postgres" }, true},
		{"bad dispatcher", func(c *Config) { c.Notify.Dispatcher = "carrier-pigeon" }, true},
		{"hour out of range", func(c *Config) { c.Sweep.Hour = 24 }, true},
		{"minute out of range", func(c *Config) { c.Sweep.Minute = 75 }, true},
		{"smtp without host", func(c *Config) { c.Notify.Dispatcher = "smtp" }, true},
		{"smtp with host", func(c *Config) {
			c.Notify.Dispatcher = "smtp"
			c.Notify.SMTPHost = "relay.internal"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
