package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/maksimkurb/restd/src/internal/config"
	"github.com/maksimkurb/restd/src/internal/log"
)

type Runner interface {
	Init(args []string, globalArgs *AppContext) error
	Run() error
	Name() string
}

type AppContext struct {
	ConfigPath string
	Verbose    bool

	// Out receives command output. Nil means stdout.
	Out io.Writer
}

func (ctx *AppContext) out() io.Writer {
	if ctx.Out == nil {
		return os.Stdout
	}
	return ctx.Out
}

// loadAndValidateConfigOrFail loads configuration from file and validates it.
func loadAndValidateConfigOrFail(configPath string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %v", err)
	}

	if err := cfg.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %v", err)
	}

	return cfg, nil
}

// applyLogLevel sets the configured log level unless -verbose was given.
func applyLogLevel(ctx *AppContext, cfg *config.Config) error {
	if ctx.Verbose {
		return nil
	}
	level, err := log.ParseLevel(cfg.General.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	return nil
}
