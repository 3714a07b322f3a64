package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/beer-inventory/logger"
)

// FileSystem abstracts the file lookups done while resolving configuration.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem reads from the process file system.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LoadEnv loads a dotenv file. Variables already set in the process win.
func (RealFileSystem) LoadEnv(path string) error { return godotenv.Load(path) }

// LoaderConfig holds the loader dependencies and explicit file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
}

// LoaderOption configures LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem replaces the file system used for lookups.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile skips the search and reads the YAML file at path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile skips the search and loads the dotenv file at path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// ResolvedFiles are the files LoadConfig will read. Empty means none found.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// Resolver finds the config.yml and .env files of a service.
type Resolver struct {
	FileSystem FileSystem
}

// ResolveFiles returns the explicit paths from opts, falling back to the
// first existing candidate in the standard locations.
func (r *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	files := ResolvedFiles{ConfigFile: opts.ConfigFile, EnvFile: opts.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = r.first(searchDirs(serviceName), "config.yml")
	}
	if files.EnvFile == "" {
		files.EnvFile = r.first(searchDirs(serviceName), ".env."+serviceName, ".env")
	}
	return files
}

func (r *Resolver) first(dirs []string, names ...string) string {
	for _, name := range names {
		for _, dir := range dirs {
			path := name
			if dir != "" {
				path = dir + "/" + name
			}
			if r.FileSystem.Exists(path) {
				return path
			}
		}
	}
	return ""
}

// searchDirs lists where a service keeps its files, from the service's own
// cmd directory outwards. Tests run from a package directory, so the
// parents are searched too.
func searchDirs(serviceName string) []string {
	var dirs []string
	for _, up := range []string{".", "..", "../.."} {
		dirs = append(dirs, up+"/cmd/"+serviceName)
	}
	for _, up := range []string{".", ".."} {
		dirs = append(dirs, up+"/config")
	}
	return append(dirs, "")
}

// LoadConfig fills cfg from the service's config.yml and environment.
//
// Precedence, highest first: process environment, the .env file, the YAML
// file, zero values. Every key of cfg can be set through the environment by
// upper-casing it and replacing dots with underscores, so CATALOG_URL sets
// catalog.url and SCHEDULE_MAX_CONCURRENT_RUNS sets
// schedule.max_concurrent_runs. A missing file is not an error; an
// unreadable one is.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: RealFileSystem{}}
	for _, opt := range opts {
		opt(&lc)
	}

	files := (&Resolver{FileSystem: lc.FileSystem}).ResolveFiles(serviceName, lc)
	v := viper.New()

	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", files.ConfigFile, err)
		}
		logger.Debug("Loaded config file", logger.Fields("file", files.ConfigFile))
	}

	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			logger.Warn("Failed to load env file", logger.Fields("file", files.EnvFile, logger.FieldError, err.Error()))
		}
	}

	for _, key := range structKeys(reflect.TypeOf(cfg), "") {
		if err := v.BindEnv(key, envName(key)); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("decode config for %s: %w", serviceName, err)
	}
	return nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// structKeys returns the dotted mapstructure keys of every leaf field of t.
// Squashed structs contribute their keys at the parent's level.
func structKeys(t reflect.Type, prefix string) []string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t == durationType || t == reflect.TypeOf(time.Time{}) {
		if prefix == "" {
			return nil
		}
		return []string{prefix}
	}

	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "-" {
			continue
		}
		if strings.Contains(opts, "squash") {
			keys = append(keys, structKeys(f.Type, prefix)...)
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		if prefix != "" {
			name = prefix + "." + name
		}
		keys = append(keys, structKeys(f.Type, name)...)
	}
	return keys
}

// envName is the environment variable that overrides key.
func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
