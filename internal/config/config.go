package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	HistoryGit  = "git"
	HistoryNone = "none"

	EnvRoot     = "MANIFEST_ROOT"
	EnvOutput   = "MANIFEST_OUTPUT"
	EnvLogLevel = "MANIFEST_LOG_LEVEL"

	DefaultConfigFileName = "manifestgen.yml"
	DefaultEnvFileName    = ".env"

	defaultRoot         = "."
	defaultOutput       = "manifest.json"
	defaultDescFileName = "metadata.json"
)

// LoaderConfig is the part of Config the descriptor loader and scanner need.
type LoaderConfig struct {
	Root             string
	DescFileName     string
	CheckFrontmatter bool
}

type Config struct {
	Root             string `yaml:"root"`
	Output           string `yaml:"output"`
	DescFileName     string `yaml:"descriptor"`
	LogLevel         string `yaml:"log_level"`
	History          string `yaml:"history"`
	CheckFrontmatter bool   `yaml:"check_frontmatter"`
}

func (c *Config) SetDefaults() {
	c.Root = defaultRoot
	c.Output = defaultOutput
	c.DescFileName = defaultDescFileName
	c.LogLevel = LogLevelInfo
	c.History = HistoryGit
	c.CheckFrontmatter = true
}

func (c *Config) LoaderConfig() *LoaderConfig {
	return &LoaderConfig{
		Root:             c.Root,
		DescFileName:     c.DescFileName,
		CheckFrontmatter: c.CheckFrontmatter,
	}
}

// OutputPath resolves the manifest destination against the root.
func (c *Config) OutputPath() string {
	if filepath.IsAbs(c.Output) {
		return c.Output
	}

	return filepath.Join(c.Root, c.Output)
}

func (c *Config) Validate() error {
	if c.Root == "" {
		return errors.New("root must not be empty")
	}

	if c.Output == "" {
		return errors.New("output must not be empty")
	}

	if c.DescFileName == "" {
		return errors.New("descriptor must not be empty")
	}

	if !slices.Contains([]string{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError}, c.LogLevel) {
		return fmt.Errorf("unknown log level: %q", c.LogLevel)
	}

	if !slices.Contains([]string{HistoryGit, HistoryNone}, c.History) {
		return fmt.Errorf("unknown history provider: %q", c.History)
	}

	return nil
}

/*
Load builds the configuration in layers: defaults, then the YAML file,
then variables from the env file, then the process environment. Missing
config and env files are not errors. The result is not validated: callers
apply their own overrides first and then call Validate.
*/
func Load(fs afero.Fs, cfgPath, envPath string) (*Config, error) {
	cfg := &Config{}
	cfg.SetDefaults()

	if cfgPath != "" {
		data, err := afero.ReadFile(fs, cfgPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("cannot parse config file %s: %w", cfgPath, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("cannot read config file %s: %w", cfgPath, err)
		}
	}

	env, err := readEnvFile(fs, envPath)
	if err != nil {
		return nil, err
	}

	lookup := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}

		return env[key]
	}

	if v := lookup(EnvRoot); v != "" {
		cfg.Root = v
	}
	if v := lookup(EnvOutput); v != "" {
		cfg.Output = v
	}
	if v := lookup(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}

func readEnvFile(fs afero.Fs, envPath string) (map[string]string, error) {
	if envPath == "" {
		return nil, nil
	}

	f, err := fs.Open(envPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("cannot open env file %s: %w", envPath, err)
	}
	defer f.Close()

	env, err := godotenv.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("cannot parse env file %s: %w", envPath, err)
	}

	return env, nil
}
