package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fallback defaults, used whenever the config file or environment leaves a
// value unset.
const (
	DefaultCropAPIURL   = "https://markhet-internal-ngfs.onrender.com"
	DefaultSubmitURL    = "http://localhost:5000/api/verifications/submit"
	DefaultStatusURL    = "http://localhost:5000/api/verifications/user"
	DefaultSupportPhone = "6206415125"
	DefaultLocale       = "kn"

	DefaultCaptureWidth  = 640
	DefaultCaptureHeight = 480
)

// Config models cropproof.yml.
type Config struct {
	Services struct {
		CropAPI string `yaml:"crop_api"`
		Submit  string `yaml:"submit"`
		Status  string `yaml:"status"`
	} `yaml:"services"`
	SupportPhone string `yaml:"support_phone"`
	Locale       string `yaml:"locale"`
	Capture      struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"capture"`
}

// Default returns a Config populated with the hardcoded fallbacks.
func Default() *Config {
	var cfg Config
	cfg.Services.CropAPI = DefaultCropAPIURL
	cfg.Services.Submit = DefaultSubmitURL
	cfg.Services.Status = DefaultStatusURL
	cfg.SupportPhone = DefaultSupportPhone
	cfg.Locale = DefaultLocale
	cfg.Capture.Width = DefaultCaptureWidth
	cfg.Capture.Height = DefaultCaptureHeight
	return &cfg
}

// Load reads config from path, falling back to defaults when the file does
// not exist. Values missing from the file are filled from defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) fillDefaults() {
	if c.Services.CropAPI == "" {
		c.Services.CropAPI = DefaultCropAPIURL
	}
	if c.Services.Submit == "" {
		c.Services.Submit = DefaultSubmitURL
	}
	if c.Services.Status == "" {
		c.Services.Status = DefaultStatusURL
	}
	if c.SupportPhone == "" {
		c.SupportPhone = DefaultSupportPhone
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	if c.Capture.Width <= 0 {
		c.Capture.Width = DefaultCaptureWidth
	}
	if c.Capture.Height <= 0 {
		c.Capture.Height = DefaultCaptureHeight
	}
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	for name, u := range map[string]string{
		"services.crop_api": c.Services.CropAPI,
		"services.submit":   c.Services.Submit,
		"services.status":   c.Services.Status,
	} {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return fmt.Errorf("config.%s must be an http(s) URL, got %q", name, u)
		}
	}
	if c.Locale != "en" && c.Locale != "kn" {
		return fmt.Errorf("config.locale must be en or kn, got %q", c.Locale)
	}
	return nil
}
