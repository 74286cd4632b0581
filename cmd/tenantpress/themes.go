// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tenantpress/internal/theme"
)

func newThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the built-in themes and whether tenants can select them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeThemes(cmd.OutOrStdout(), theme.Default)
		},
	}
}

func writeThemes(out io.Writer, reg *theme.Registry) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tVERSION\tCATEGORY\tENABLED\tFEATURES")
	for _, d := range reg.All() {
		enabled := "no"
		if reg.IsEnabled(d.ID) {
			enabled = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.Name, d.Version, d.Category, enabled, strings.Join(d.Features, ", "))
	}
	return tw.Flush()
}
