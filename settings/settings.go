// Package settings persists the user level configuration: whether network
// calls are allowed and the vendor API keys.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "PERSONA"

// Settings are read at the start of every invocation, so changes apply to
// the next run without a restart.
type Settings struct {
	AllowNetwork bool   `mapstructure:"allow_network" yaml:"allow_network"`
	OpenAIAPIKey string `mapstructure:"openai_api_key" yaml:"openai_api_key"`
	GeminiAPIKey string `mapstructure:"gemini_api_key" yaml:"gemini_api_key"`
}

// Source provides the current settings.
type Source interface {
	Load() (Settings, error)
}

// Static always returns the same settings.
type Static Settings

func (s Static) Load() (Settings, error) {
	return Settings(s), nil
}

// File loads settings from a YAML file. Environment variables prefixed with
// PERSONA_ override file values, a missing file yields the defaults.
type File struct {
	Path string
}

func (f File) viper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(f.Path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("allow_network", false)
	v.SetDefault("openai_api_key", "")
	v.SetDefault("gemini_api_key", "")
}

func (f File) Load() (Settings, error) {
	v := f.viper()
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Settings{}, fmt.Errorf("failed to read settings %s: %w", f.Path, err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return s, nil
}

// Save writes s to the file, creating the parent directory when needed.
// Environment overrides are not persisted.
func (f File) Save(s Settings) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("failed to create settings dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("allow_network", s.AllowNetwork)
	v.Set("openai_api_key", s.OpenAIAPIKey)
	v.Set("gemini_api_key", s.GeminiAPIKey)
	if err := v.WriteConfigAs(f.Path); err != nil {
		return fmt.Errorf("failed to write settings %s: %w", f.Path, err)
	}
	return os.Chmod(f.Path, 0o600)
}

// DefaultPath is the settings file under the user configuration directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "persona", "settings.yaml")
}
