package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/subdomains"
	"github.com/dmitrymomot/subdomains/pkg/reverse"
	"github.com/dmitrymomot/subdomains/pkg/routing"
)

func (c *cli) reverseCmd() *cobra.Command {
	var (
		subdomain string
		bare      bool
		args      []string
		params    map[string]string
		scheme    string
		port      int
		fallback  bool
	)

	cmd := &cobra.Command{
		Use:   "reverse NAME",
		Short: "Build the absolute URL of a named route",
		Example: `  subdomains reverse --config subdomains.yaml home --subdomain api
  http://api.example.com/

  subdomains reverse --config subdomains.yaml api:user --param id=42 --scheme https
  https://api.example.com/users/42/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, names []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("fallback") {
				cfg.NamespaceFallback = fallback
			}
			if err := cfg.Validate(); err != nil {
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
			resolver, closeCache := newResolver(cfg, src, nil, log)
			defer func() { _ = closeCache() }()

			tables := routing.NewChiRegistry()
			registerTables(tables, cfg, mapping, noURLs)

			opts, err := subdomains.FromConfig(cfg)
			if err != nil {
				return err
			}
			router, err := subdomains.New(append(opts,
				subdomains.WithResolver(resolver),
				subdomains.WithTables(tables),
				subdomains.WithLogger(log),
			)...)
			if err != nil {
				return err
			}
			defer func() { _ = router.Close() }()

			var ropts []reverse.Option
			switch {
			case bare:
				ropts = append(ropts, reverse.Bare())
			case cmd.Flags().Changed("subdomain"):
				ropts = append(ropts, reverse.Subdomain(subdomain))
			}
			if len(args) > 0 {
				ropts = append(ropts, reverse.Args(args...))
			}
			if len(params) > 0 {
				ropts = append(ropts, reverse.Params(params))
			}
			if cmd.Flags().Changed("url-scheme") {
				ropts = append(ropts, reverse.Scheme(scheme))
			}
			if port > 0 {
				ropts = append(ropts, reverse.Port(port))
			}

			u, err := router.Reverse(cmd.Context(), names[0], ropts...)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), u)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&subdomain, "subdomain", "", "target subdomain; empty means the bare domain")
	f.BoolVar(&bare, "bare", false, "target the bare domain")
	f.StringSliceVar(&args, "arg", nil, "positional route argument (repeatable)")
	f.StringToStringVar(&params, "param", nil, "named route argument, key=value (repeatable)")
	f.StringVar(&scheme, "url-scheme", "", "scheme of this URL; empty gives a scheme-relative URL")
	f.IntVar(&port, "port", 0, "port to append to the host")
	f.BoolVar(&fallback, "fallback", false, "reverse ns:view names in the table providing ns")
	return cmd
}
