// Package config loads myorm settings from config files, .env files and
// the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem config files are read from.
var AppFs = afero.NewOsFs()

// Config holds the application configuration
type Config struct {
	Provider string
	Database string
	Debug    bool
	// ConfigFile is the config file that was read, if any.
	ConfigFile string
}

// Load reads configuration. Precedence, highest first: environment
// (MYORM_*, and DATABASE_URL for the database), .env.local, .env, the
// config file, defaults. An explicit path replaces the config file search.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env", false); err != nil {
		return nil, err
	}
	if err := loadDotEnv(".env.local", true); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(AppFs)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(".myorm")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "myorm"))
	}

	v.SetEnvPrefix("MYORM")
	v.AutomaticEnv()

	v.SetDefault("provider", "sqlite")
	v.SetDefault("database", "myorm.db")
	v.SetDefault("debug", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Provider:   v.GetString("provider"),
		Database:   v.GetString("database"),
		Debug:      v.GetBool("debug"),
		ConfigFile: v.ConfigFileUsed(),
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database = url
	}
	return cfg, nil
}

// loadDotEnv sets the variables of a .env file. Unless overload is set,
// variables already present in the environment win.
func loadDotEnv(name string, overload bool) error {
	data, err := afero.ReadFile(AppFs, name)
	if err != nil {
		// missing files are fine
		return nil
	}

	vars, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	for key, value := range vars {
		if _, exists := os.LookupEnv(key); exists && !overload {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return nil
}

// Save writes cfg to the user config directory and returns the file path.
func Save(cfg *Config) (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}

	v := viper.New()
	v.SetFs(AppFs)
	v.Set("provider", cfg.Provider)
	v.Set("database", cfg.Database)
	v.Set("debug", cfg.Debug)

	dir := filepath.Join(home, ".config", "myorm")
	if err := AppFs.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	file := filepath.Join(dir, ".myorm.yaml")
	if err := v.WriteConfigAs(file); err != nil {
		return "", err
	}
	return file, nil
}
