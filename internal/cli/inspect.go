package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/subdomains/pkg/domain"
	"github.com/dmitrymomot/subdomains/pkg/hostrouter"
	"github.com/dmitrymomot/subdomains/pkg/routing"
)

var (
	bareColor      = color.New(color.FgBlue)
	subdomainColor = color.New(color.FgGreen)
	unmatchedColor = color.New(color.FgRed)
	defaultColor   = color.New(color.FgYellow)
)

func (c *cli) extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract HOST...",
		Short: "Show the subdomain of each host",
		Example: `  subdomains extract --domain example.com api.example.com example.com evil.test
  api.example.com   subdomain  api
  example.com       bare
  evil.test         unmatched`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, hosts []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := requireDomain(cfg); err != nil {
				return err
			}
			log := newLogger(cfg, cmd.ErrOrStderr())

			src, err := domainSource(cfg, nil)
			if err != nil {
				return err
			}
			resolver, closeCache := newResolver(cfg, src, nil, log)
			defer func() { _ = closeCache() }()

			d, err := resolver.Resolve(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, host := range hosts {
				printResult(out, host, hostrouter.Extract(d, host))
			}
			return nil
		},
	}
}

func printResult(out io.Writer, host string, res hostrouter.Result) {
	_, _ = fmt.Fprintf(out, "%s\t", host)
	switch res.Kind {
	case hostrouter.Subdomain:
		_, _ = subdomainColor.Fprint(out, res.Kind.String())
		_, _ = fmt.Fprintf(out, "\t%s\n", res.Token)
	case hostrouter.Bare:
		_, _ = bareColor.Fprintln(out, res.Kind.String())
	default:
		_, _ = unmatchedColor.Fprintln(out, res.Kind.String())
	}
}

func (c *cli) selectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select HOST...",
		Short: "Show the routing table that serves each host",
		Example: `  subdomains select --domain example.com --mapping @=marketing,api=api --default-table web \
      api.example.com shop.example.com
  api.example.com    api
  shop.example.com   web (default)`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, hosts []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := requireDomain(cfg); err != nil {
				return err
			}
			mapping, err := cfg.Mapping()
			if err != nil {
				return err
			}
			log := newLogger(cfg, cmd.ErrOrStderr())

			src, err := domainSource(cfg, nil)
			if err != nil {
				return err
			}
			d, err := domain.New(src, domain.WithStripWWW(cfg.StripWWW), domain.WithLogger(log)).Resolve(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, host := range hosts {
				res := hostrouter.Extract(d, host)
				_, _ = fmt.Fprintf(out, "%s\t", host)

				if !res.Matched() {
					_, _ = unmatchedColor.Fprint(out, res.Kind.String())
					_, _ = fmt.Fprintf(out, "\t%s (default)\n", cfg.DefaultTable)
					continue
				}
				if id, ok := routing.Select(res, mapping); ok {
					_, _ = subdomainColor.Fprintln(out, string(id))
					continue
				}
				_, _ = defaultColor.Fprintf(out, "%s (default)\n", cfg.DefaultTable)
			}
			return nil
		},
	}
}
