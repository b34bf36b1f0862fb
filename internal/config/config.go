package config

import (
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	ProjectID       string  `koanf:"PROJECTID"`
	Region          string  `koanf:"REGION"`
	Port            string  `koanf:"PORT"`
	LogLevel        string  `koanf:"LOGLEVEL"`
	VertexModel     string  `koanf:"VERTEXMODEL"`
	KMSKeyName      string  `koanf:"KMSKEYNAME"`
	WebhookSecret   string  `koanf:"WEBHOOKSECRET"`   // empty: fetched from Secret Manager, or verification off
	AirtableBaseURL string  `koanf:"AIRTABLEBASEURL"` // override for tests
	ExtractRPS      float64 `koanf:"EXTRACTRPS"`
}

var defaults = map[string]any{
	"PORT":            "8080",
	"LOGLEVEL":        "info",
	"REGION":          "us-central1",
	"VERTEXMODEL":     "gemini-2.0-flash",
	"AIRTABLEBASEURL": "https://api.airtable.com/v0",
	"EXTRACTRPS":      1.0,
}

// New loads configuration from the environment over built-in defaults.
func New() *Config {
	k := koanf.New(".")
	// Defaults first so env values win.
	_ = k.Load(confmap.Provider(defaults, "."), nil)
	_ = k.Load(env.Provider("", ".", nil), nil)

	var cfg Config
	_ = k.Unmarshal("", &cfg)
	return &cfg
}
