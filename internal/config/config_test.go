package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"upnotify/internal/env"
)

func TestNew_Defaults(t *testing.T) {
	c := New("mytool", "1.0.0")
	if c.Interval() != DefaultInterval {
		t.Errorf("Interval() = %v, want %v", c.Interval(), DefaultInterval)
	}
	if c.Tag() != "latest" {
		t.Errorf("Tag() = %q, want latest", c.Tag())
	}
	if c.SchedulingDisabled() {
		t.Error("default config should schedule checks")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"ok", Config{PackageName: "a", PackageVersion: "1.0.0"}, ""},
		{"no name", Config{PackageVersion: "1.0.0"}, "packageName"},
		{"no version", Config{PackageName: "a"}, "packageVersion"},
		{"nothing", Config{}, "packageName"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Fatalf("Validate() = %v, want missing %s", err, tt.field)
			}
			if !errors.Is(err, ErrMissingField) {
				t.Error("expected errors.Is(err, ErrMissingField)")
			}
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	in := Config{
		PackageName:             "@scope/tool",
		PackageVersion:          "1.2.3",
		UpdateCheckInterval:     -1,
		ShouldNotifyInNpmScript: true,
		RegistryURL:             "http://localhost:4873",
		ConfigDir:               "/tmp/cfg",
	}
	payload, err := in.Encode()
	if err != nil {
		t.Fatal(err)
	}
	out, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	in.DistTag = "latest"
	if out != in {
		t.Errorf("Decode(Encode(c)) = %+v, want %+v", out, in)
	}
}

func TestDecode_Invalid(t *testing.T) {
	if _, err := Decode("not json"); err == nil {
		t.Error("expected error for bad JSON")
	}
	if _, err := Decode(`{"packageName":"x"}`); !errors.Is(err, ErrMissingField) {
		t.Errorf("expected missing version, got %v", err)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "upnotify.yaml")
	content := `packageName: mytool
packageVersion: 1.0.0
updateCheckInterval: 3600000
distTag: next
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	rt := env.Context{
		WorkDir: dir,
		Vars: map[string]string{
			"XDG_CONFIG_HOME":     dir,
			"UPNOTIFY_DISTTAG":    "beta",
			"npm_config_registry": "http://registry.local",
		},
	}

	c, err := Load("", rt)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.PackageName != "mytool" || c.PackageVersion != "1.0.0" {
		t.Errorf("identity = %q@%q", c.PackageName, c.PackageVersion)
	}
	if c.Interval() != time.Hour {
		t.Errorf("Interval() = %v, want 1h", c.Interval())
	}
	if c.DistTag != "beta" {
		t.Errorf("DistTag = %q, want env override beta", c.DistTag)
	}
	if c.RegistryURL != "http://registry.local" {
		t.Errorf("RegistryURL = %q", c.RegistryURL)
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	c, err := Load("", env.Context{WorkDir: dir, Vars: map[string]string{"XDG_CONFIG_HOME": dir}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Interval() != DefaultInterval || c.DistTag != DefaultDistTag {
		t.Errorf("defaults not applied: %+v", c)
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), env.Context{})
	if err == nil {
		t.Error("expected error for explicit missing file")
	}
}
