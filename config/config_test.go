package config

import (
	"testing"
)

func validConfig() *Config {
	return &Config{
		Sarv: SarvConfig{
			UType:    "testco",
			Username: "apiuser",
			Password: "secret",
			Language: "en_US",
			PageSize: 300,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid config",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "missing utype",
			mutate:  func(cfg *Config) { cfg.Sarv.UType = "" },
			wantErr: true,
		},
		{
			name:    "missing username",
			mutate:  func(cfg *Config) { cfg.Sarv.Username = "" },
			wantErr: true,
		},
		{
			name:    "missing password",
			mutate:  func(cfg *Config) { cfg.Sarv.Password = "" },
			wantErr: true,
		},
		{
			name:   "persian language",
			mutate: func(cfg *Config) { cfg.Sarv.Language = "fa_IR" },
		},
		{
			name:    "unknown language",
			mutate:  func(cfg *Config) { cfg.Sarv.Language = "de_DE" },
			wantErr: true,
		},
		{
			name:    "zero page size",
			mutate:  func(cfg *Config) { cfg.Sarv.PageSize = 0 },
			wantErr: true,
		},
		{
			name:    "invalid logging level",
			mutate:  func(cfg *Config) { cfg.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "invalid logging format",
			mutate:  func(cfg *Config) { cfg.Logging.Format = "xml" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
