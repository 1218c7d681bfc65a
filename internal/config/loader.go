package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"upnotify/internal/env"
)

// EnvPrefix prefixes environment overrides, e.g. UPNOTIFY_DISTTAG=next.
const EnvPrefix = "UPNOTIFY_"

// keys are the viper keys that may come from a file or the environment.
var keys = []string{
	"packageName",
	"packageVersion",
	"updateCheckInterval",
	"distTag",
	"shouldNotifyInNpmScript",
	"registryUrl",
	"configDir",
}

// Load reads configuration from path (or upnotify.yaml in the working
// directory or <user config dir>/upnotify when path is empty), then applies
// UPNOTIFY_* overrides from rt. A missing file is not an error.
func Load(path string, rt env.Context) (Config, error) {
	v := viper.New()
	setDefaults(v, rt)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("upnotify")
		v.SetConfigType("yaml")
		if rt.WorkDir != "" {
			v.AddConfigPath(rt.WorkDir)
		}
		v.AddConfigPath(filepath.Join(rt.ConfigDir(), "upnotify"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	for _, k := range keys {
		if val, ok := rt.Lookup(EnvPrefix + strings.ToUpper(k)); ok {
			v.Set(k, val)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper, rt env.Context) {
	v.SetDefault("packageName", "")
	v.SetDefault("packageVersion", "")
	v.SetDefault("updateCheckInterval", DefaultInterval.Milliseconds())
	v.SetDefault("distTag", DefaultDistTag)
	v.SetDefault("shouldNotifyInNpmScript", false)
	v.SetDefault("registryUrl", registryFromEnv(rt))
	v.SetDefault("configDir", "")
}

// registryFromEnv honours the npm registry override the npm CLI exports.
func registryFromEnv(rt env.Context) string {
	for _, k := range []string{"npm_config_registry", "NPM_CONFIG_REGISTRY"} {
		if r := rt.Get(k); r != "" {
			return r
		}
	}
	return ""
}
