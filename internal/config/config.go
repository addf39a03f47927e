package config

import (
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
	"os"
	"sutda-server/internal/util"
)

// Config provides configuration for the sutda server
type Config struct {
	loaded bool
	// Host is the public-facing URL of the front-end
	Host           string `yaml:"host" envconfig:"host"`
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	JWT            struct {
		PublicKey  string `yaml:"publicKey" envconfig:"public_key"`
		PrivateKey string `yaml:"privateKey" envconfig:"private_key"`
	}
	Log struct {
		Level             string `yaml:"level" envconfig:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}
	RecaptchaSecret string `yaml:"recaptchaSecret" envconfig:"recaptcha_secret"`
	StartGameDelay  int    `yaml:"startGameDelay" envconfig:"start_game_delay"`
	// PlayerCreateDelay is the number of seconds a remote address must wait between sign-ups
	PlayerCreateDelay int `yaml:"playerCreateDelay" envconfig:"player_create_delay"`
	Email             struct {
		Disable                                bool
		From, Sender, Username, Password, Host string
		TemplatesPath                          string `yaml:"templatesPath" envconfig:"templates_path"`
	}
}

var config Config

// DefaultConfig returns a config object with the default values
func DefaultConfig() Config {
	var c Config
	c.PGDSN = "postgres://postgres@localhost:5432/postgres?sslmode=disable"
	c.MigrationsPath = "./sql"
	c.JWT.PublicKey = ".keys/public.pem"
	c.JWT.PrivateKey = ".keys/private.key"
	c.StartGameDelay = 10
	c.PlayerCreateDelay = 60
	c.Email.Sender = "no-reply@sutda.live"
	c.Email.From = "Sutda <no-reply@sutda.live>"
	c.Email.TemplatesPath = "./templates"
	return c
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// A missing config file is not an error; defaults and the environment still apply
func Load() error {
	config = DefaultConfig()

	configFile := util.Getenv("SUTDA_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("sutda", &config); err != nil {
		return err
	}

	config.loaded = true
	return nil
}
