package commands

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/maksimkurb/restd/src/internal/api"
	"github.com/maksimkurb/restd/src/internal/config"
	"github.com/maksimkurb/restd/src/internal/log"
	"github.com/maksimkurb/restd/src/internal/store"
)

const storeOpenTimeout = 15 * time.Second

// ServeCommand runs the HTTP server with the configured resources.
type ServeCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	// Command-specific flags
	listenAddr  string
	maxRestarts int

	store        store.Store
	handler      http.Handler
	configHasher *config.ConfigHasher
}

// CreateServeCommand creates a new serve command.
func CreateServeCommand() Runner {
	return &ServeCommand{
		fs: flag.NewFlagSet("serve", flag.ContinueOnError),
	}
}

// Name returns the command name.
func (c *ServeCommand) Name() string {
	return c.fs.Name()
}

// Init loads the configuration, opens the store and builds the router.
func (c *ServeCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx

	c.fs.StringVar(&c.listenAddr, "listen", "", "Address to listen on, overrides general.listen_addr (e.g., 0.0.0.0:8080)")
	c.fs.IntVar(&c.maxRestarts, "max-restarts", 5, "Restart the HTTP server at most this many times after a failure (0 = unlimited)")

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	if err := applyLogLevel(ctx, cfg); err != nil {
		return err
	}

	if c.listenAddr == "" {
		c.listenAddr = cfg.General.ListenAddr
	}

	openCtx, cancel := context.WithTimeout(context.Background(), storeOpenTimeout)
	defer cancel()
	c.store, err = store.New(openCtx, cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}

	resources, err := api.BuildResources(cfg, c.store)
	if err != nil {
		c.store.Close()
		return err
	}

	c.configHasher = config.NewConfigHasher(ctx.ConfigPath)
	activeHash, err := config.CalculateHash(cfg)
	if err != nil {
		log.Warnf("Failed to calculate config hash: %v", err)
	}
	c.configHasher.SetActiveConfigHash(activeHash)

	c.handler = api.NewRouter(cfg, c.store, resources, c.configHasher)

	return nil
}

// Run serves until SIGINT or SIGTERM, or until the server gives up restarting.
func (c *ServeCommand) Run() error {
	defer c.store.Close()

	log.Infof("Configuration loaded from: %s", c.cfg.GetConfigPath())
	log.Infof("Store: %s", c.cfg.Store.Driver)
	log.Infof("Request bodies are limited to %s", humanize.IBytes(uint64(maxBodyBytes(c.cfg))))
	for _, res := range c.cfg.Resources {
		log.Infof("Resource %s mounted at %s/%s", res.Name, c.cfg.General.APIPrefix, res.Name)
	}
	if c.cfg.General.PrivateNetworksOnly {
		log.Infof("Access restricted to private subnets only")
	}

	shutdownTimeout := time.Duration(c.cfg.General.ShutdownTimeoutSeconds) * time.Second

	runner := NewRestartableRunner(RunnerConfig{
		Name:        "http-server",
		MaxRestarts: c.maxRestarts,
		StopTimeout: shutdownTimeout + time.Second,
	}, func(ctx context.Context) error {
		return serveUntilDone(ctx, api.NewServer(c.listenAddr, c.handler), shutdownTimeout)
	})

	if err := runner.Start(context.Background()); err != nil {
		return err
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case <-runner.Done():
		if err := runner.LastError(); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		log.Infof("Received signal %v, shutting down server...", sig)
		if err := runner.Stop(); err != nil {
			return err
		}
		log.Infof("Server stopped gracefully")
	}

	return nil
}

// serveUntilDone runs server until it fails or ctx is cancelled, then shuts it down.
func serveUntilDone(ctx context.Context, server *api.Server, shutdownTimeout time.Duration) error {
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return <-serverErrors
	}
}
