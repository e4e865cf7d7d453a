package commands

import (
	"flag"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/maksimkurb/restd/src/internal/config"
	"github.com/maksimkurb/restd/src/internal/log"
	"github.com/maksimkurb/restd/src/rest/request"
)

// CheckConfigCommand validates the configuration file and prints its hash.
type CheckConfigCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	print bool
}

func CreateCheckConfigCommand() Runner {
	return &CheckConfigCommand{
		fs: flag.NewFlagSet("check-config", flag.ContinueOnError),
	}
}

func (c *CheckConfigCommand) Name() string {
	return c.fs.Name()
}

func (c *CheckConfigCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	c.fs.BoolVar(&c.print, "print", false, "Print the effective configuration with defaults applied")

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *CheckConfigCommand) Run() error {
	out := c.ctx.out()

	hash, err := config.CalculateHash(c.cfg)
	if err != nil {
		return err
	}

	log.Infof("Configuration %s is valid", c.cfg.GetConfigPath())
	fmt.Fprintf(out, "resources: %d\n", len(c.cfg.Resources))
	fmt.Fprintf(out, "max body: %s\n", humanize.IBytes(uint64(maxBodyBytes(c.cfg))))
	fmt.Fprintf(out, "hash: %s\n", hash)

	if c.print {
		buf, err := c.cfg.SerializeConfig()
		if err != nil {
			log.Errorf("Failed to serialize config: %v", err)
			return err
		}
		fmt.Fprintln(out, "---")
		if _, err := out.Write(buf.Bytes()); err != nil {
			return err
		}
	}

	return nil
}

// maxBodyBytes returns the effective request body limit.
func maxBodyBytes(cfg *config.Config) int64 {
	if cfg.General.MaxBodyBytes > 0 {
		return cfg.General.MaxBodyBytes
	}
	return request.DefaultMaxBodyBytes
}
