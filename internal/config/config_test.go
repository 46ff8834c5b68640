package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Services.CropAPI != DefaultCropAPIURL {
		t.Fatalf("CropAPI = %q", cfg.Services.CropAPI)
	}
	if cfg.Locale != DefaultLocale {
		t.Fatalf("Locale = %q, want %q", cfg.Locale, DefaultLocale)
	}
	if cfg.Capture.Width != DefaultCaptureWidth || cfg.Capture.Height != DefaultCaptureHeight {
		t.Fatalf("capture = %dx%d", cfg.Capture.Width, cfg.Capture.Height)
	}
}

func TestLoadPartialFileFillsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cropproof.yml")
	data := []byte("services:\n  submit: http://submit.test/api\nlocale: en\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Services.Submit != "http://submit.test/api" {
		t.Fatalf("Submit = %q", cfg.Services.Submit)
	}
	if cfg.Locale != "en" {
		t.Fatalf("Locale = %q", cfg.Locale)
	}
	if cfg.Services.CropAPI != DefaultCropAPIURL {
		t.Fatalf("CropAPI = %q, want default kept", cfg.Services.CropAPI)
	}
	if cfg.SupportPhone != DefaultSupportPhone {
		t.Fatalf("SupportPhone = %q, want default kept", cfg.SupportPhone)
	}
}

func TestFromYAMLRejectsBadURL(t *testing.T) {
	if _, err := FromYAML([]byte("services:\n  submit: ftp://nope\n")); err == nil {
		t.Fatal("want error for non-http submit URL")
	}
}

func TestFromYAMLRejectsBadLocale(t *testing.T) {
	if _, err := FromYAML([]byte("locale: fr\n")); err == nil {
		t.Fatal("want error for unsupported locale")
	}
}

func TestFromYAMLRejectsGarbage(t *testing.T) {
	if _, err := FromYAML([]byte(": not yaml :\n\t-")); err == nil {
		t.Fatal("want error for malformed yaml")
	}
}

func TestValidateDefaults(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
}
