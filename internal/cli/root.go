package cli

import (
	"context"
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// persistent flags that override configuration, bound into viper under "cli.".
var overrideFlags = []string{"domain", "default-table", "mapping", "scheme", "strip-www", "log-level", "log-format"}

type cli struct {
	v       *viper.Viper
	cfgFile string
	noColor bool
}

// Execute runs the command line.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   "subdomains",
		Short: "Route requests by subdomain and reverse URLs onto subdomains",
		Long: `subdomains extracts the subdomain of a host, selects the routing table
mapped to it and reverses named routes into absolute URLs.

Configuration comes from SUBDOMAINS_* environment variables, the YAML
mapping file (./subdomains.yaml or --config) and the flags below.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.init,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "", "mapping file (default ./subdomains.yaml)")
	pf.BoolVar(&c.noColor, "no-color", false, "disable colored output")
	pf.String("domain", "", "parent domain, e.g. example.com")
	pf.String("default-table", "", "table used when the mapping selects nothing")
	pf.String("mapping", "", "subdomain mapping, e.g. @=marketing,api=api")
	pf.String("scheme", "", "default scheme of reversed URLs")
	pf.Bool("strip-www", false, "strip a leading www. from the parent domain")
	pf.String("log-level", "", "debug, info, warn or error")
	pf.String("log-format", "", "json, text or pretty")
	for _, name := range overrideFlags {
		_ = c.v.BindPFlag("cli."+name, pf.Lookup(name))
	}

	root.AddCommand(
		c.extractCmd(),
		c.selectCmd(),
		c.reverseCmd(),
		c.serveCmd(),
		c.migrateCmd(),
		c.invalidateCmd(),
		c.siteCmd(),
	)
	return root
}

func (c *cli) init(*cobra.Command, []string) error {
	if c.noColor {
		color.NoColor = true
	}

	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
	} else {
		c.v.SetConfigName("subdomains")
		c.v.SetConfigType("yaml")
		c.v.AddConfigPath(".")
		c.v.AddConfigPath("/etc/subdomains")
	}

	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if c.cfgFile != "" || !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}
