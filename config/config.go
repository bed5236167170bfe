// Package config loads metagen settings from metagen.yaml, METAGEN_*
// environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the working directory and
// its parents.
const FileName = "metagen.yaml"

const EnvPrefix = "METAGEN"

type Config struct {
	SourceDirs []string    `mapstructure:"source_dirs"`
	OutputDir  string      `mapstructure:"output_dir"`
	Classpath  []string    `mapstructure:"classpath"`
	Log        LogConfig   `mapstructure:"log"`
	Watch      WatchConfig `mapstructure:"watch"`

	// File is the config file that was read, or empty.
	File string `mapstructure:"-"`
}

type LogConfig struct {
	// Verbosity follows commonlog: 0 logs errors only, each step adds a
	// level up to debug.
	Verbosity int    `mapstructure:"verbosity"`
	File      string `mapstructure:"file"`
}

type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// New returns a viper instance carrying the defaults and the environment
// binding. Callers bind their flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("source_dirs", []string{"src/main/java"})
	v.SetDefault("output_dir", "target/generated-sources/metagen")
	v.SetDefault("classpath", []string{})
	v.SetDefault("log.verbosity", 1)
	v.SetDefault("log.file", "")
	v.SetDefault("watch.debounce", 200*time.Millisecond)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads file, or metagen.yaml from the working directory upwards
// when file is empty, and decodes the merged settings. A missing default
// file is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file == "" {
		file = Find()
	}
	var fromFile *viper.Viper
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		fromFile = viper.New()
		fromFile.SetConfigFile(file)
		if err := fromFile.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.resolve(fromFile); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Find returns the nearest metagen.yaml from the working directory
// upwards, or an empty string.
func Find() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// resolve makes relative paths taken from the config file relative to
// that file and checks the settings. Paths from flags and the environment
// stay relative to the working directory. fromFile holds the file's own
// values and is nil when no file was read.
func (c *Config) resolve(fromFile *viper.Viper) error {
	if len(c.SourceDirs) == 0 {
		return errors.New("source_dirs must not be empty")
	}
	if c.OutputDir == "" {
		return errors.New("output_dir must not be empty")
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	if fromFile == nil || c.File == "" {
		return nil
	}

	base := filepath.Dir(c.File)
	rel := func(path string) string {
		if path == "" || filepath.IsAbs(path) {
			return path
		}
		return filepath.Join(base, path)
	}
	rebase := func(key string, paths []string) {
		if fromFile.IsSet(key) && slices.Equal(fromFile.GetStringSlice(key), paths) {
			for i := range paths {
				paths[i] = rel(paths[i])
			}
		}
	}
	rebaseOne := func(key string, path *string) {
		if fromFile.IsSet(key) && fromFile.GetString(key) == *path {
			*path = rel(*path)
		}
	}

	rebase("source_dirs", c.SourceDirs)
	rebase("classpath", c.Classpath)
	rebaseOne("output_dir", &c.OutputDir)
	rebaseOne("log.file", &c.Log.File)
	return nil
}
