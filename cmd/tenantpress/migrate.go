// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"github.com/spf13/cobra"

	"tenantpress/internal/database"
)

type migrateOptions struct {
	seed bool
}

func newMigrateCmd() *cobra.Command {
	opts := &migrateOptions{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(opts)
		},
	}
	cmd.Flags().BoolVar(&opts.seed, "seed", false, "Insert the demo sites after migrating")

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the applied state of every migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()
			return database.Status(db)
		},
	})

	return cmd
}

func runMigrate(opts *migrateOptions) error {
	_, db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}
	if opts.seed {
		return database.Seed(db)
	}
	return nil
}
