// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"tenantpress/internal/resolver"
	"tenantpress/internal/store"
)

type resolveOptions struct {
	remote bool
}

func newResolveCmd() *cobra.Command {
	opts := &resolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve HOST [PATH]",
		Short: "Show how a request for HOST and PATH would be routed",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/"
			if len(args) == 2 {
				path = args[1]
			}
			return runResolve(cmd.Context(), cmd.OutOrStdout(), args[0], path, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.remote, "remote", false, "Ask DOMAIN_CHECK_URL instead of the local database")

	return cmd
}

func runResolve(ctx context.Context, out io.Writer, host, path string, opts *resolveOptions) error {
	cfg, db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	var checker resolver.Checker = resolver.NewStoreChecker(store.NewSiteStore(db), cfg.AdminDomains)
	if opts.remote {
		if cfg.DomainCheckURL == "" {
			return fmt.Errorf("--remote needs DOMAIN_CHECK_URL")
		}
		checker = resolver.NewHTTPChecker(cfg.DomainCheckURL, resolver.DefaultLookupTimeout)
	}

	res := resolver.New(checker)
	res.SetScheme(cfg.PublicScheme)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	writeDecision(out, res.Resolve(ctx, host, path))
	return nil
}

func writeDecision(out io.Writer, d resolver.Decision) {
	fmt.Fprintf(out, "state:          %s\n", d.State)
	fmt.Fprintf(out, "host:           %s\n", d.Host)
	fmt.Fprintf(out, "path:           %s\n", d.Path)
	if d.Err != nil {
		fmt.Fprintf(out, "error:          %v\n", d.Err)
	}
	if d.Scope == nil {
		return
	}
	site := d.Scope.Site
	fmt.Fprintf(out, "site:           %s (%s)\n", site.DisplayTitle(), site.ID)
	fmt.Fprintf(out, "site type:      %s\n", site.SiteType)
	fmt.Fprintf(out, "theme:          %s\n", site.ThemeID)
	fmt.Fprintf(out, "base path:      %q\n", d.Scope.BasePath)
	fmt.Fprintf(out, "alias domain:   %t\n", d.Scope.IsAliasDomain)
	fmt.Fprintf(out, "effective path: %s\n", d.EffectivePath)
	fmt.Fprintf(out, "in base path:   %t\n", d.InBasePath)
	fmt.Fprintf(out, "home:           %s\n", d.Scope.AbsoluteURL("/"))
}
