package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/pelletier/go-toml/v2"

	"github.com/maksimkurb/restd/src/internal/log"
)

var (
	resourceNameRegexp = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)
)

const (
	DefaultListenAddr      = "127.0.0.1:8080"
	DefaultLogLevel        = "info"
	DefaultAPIPrefix       = "/api/v1"
	DefaultShutdownTimeout = 10
	DefaultCORSOrigin      = "*"
)

func LoadConfig(configPath string) (*Config, error) {
	configFile := filepath.Clean(configPath)

	if !filepath.IsAbs(configFile) {
		if path, err := filepath.Abs(configFile); err != nil {
			return nil, fmt.Errorf("failed to get absolute path: %v", err)
		} else {
			configFile = path
		}
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		log.Errorf("Configuration file not found: %s", configFile)
		return nil, fmt.Errorf("configuration file not found: %s", configFile)
	}

	content, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	config, err := ParseConfig(content)
	if err != nil {
		return nil, err
	}
	config._absConfigFilePath = configFile

	log.Debugf("Configuration file path: %s", configFile)

	return config, nil
}

// ParseConfig decodes TOML content, upgrades deprecated fields and fills defaults.
func ParseConfig(content []byte) (*Config, error) {
	var config Config
	if err := toml.Unmarshal(content, &config); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			log.Errorf(derr.String())
			row, col := derr.Position()
			log.Errorf("Error at line %d, column %d", row, col)
			return nil, fmt.Errorf("failed to parse config file at line %d, column %d", row, col)
		}
		return nil, fmt.Errorf("failed to parse config file: %v", err)
	}

	if _, err := config.UpgradeConfig(); err != nil {
		return nil, err
	}
	config.ApplyDefaults()

	return &config, nil
}

// ApplyDefaults fills missing sections and settings.
func (c *Config) ApplyDefaults() {
	if c.General == nil {
		c.General = &GeneralConfig{}
	}
	if c.General.ListenAddr == "" {
		c.General.ListenAddr = DefaultListenAddr
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = DefaultLogLevel
	}
	if c.General.APIPrefix == "" {
		c.General.APIPrefix = DefaultAPIPrefix
	}
	if c.General.ShutdownTimeoutSeconds == 0 {
		c.General.ShutdownTimeoutSeconds = DefaultShutdownTimeout
	}
	if c.General.CORSOrigin == "" {
		c.General.CORSOrigin = DefaultCORSOrigin
	}

	if c.Dispatch == nil {
		c.Dispatch = &DispatchConfig{}
	}
	if c.Dispatch.Format == "" {
		c.Dispatch.Format = "json"
	}
	if c.Dispatch.Variant == "" {
		c.Dispatch.Variant = "strict"
	}

	if c.Store == nil {
		c.Store = &StoreConfig{}
	}
	if c.Store.Driver == "" {
		c.Store.Driver = DriverMemory
	}
}

func (c *Config) SerializeConfig() (*bytes.Buffer, error) {
	buf := bytes.Buffer{}
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return &buf, nil
}

// UpgradeConfig moves deprecated settings to their current names.
func (c *Config) UpgradeConfig() (bool, error) {
	upgraded := false

	if c.Dispatch != nil && c.Dispatch.JSON != nil {
		if *c.Dispatch.JSON && !c.Dispatch.BodyFormat {
			c.Dispatch.BodyFormat = true
		}
		c.Dispatch.JSON = nil

		log.Infof("Upgrading deprecated field \"dispatch.json\" to \"dispatch.body_format\"")
		upgraded = true
	}

	return upgraded, nil
}
