package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memora-care/memora/internal/config"
	"github.com/memora-care/memora/internal/db"
	"github.com/memora-care/memora/migrations"
)

var migrateList bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply embedded SQL migrations to Postgres",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateList, "list", false, "print the embedded migrations without connecting")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if migrateList {
		names, err := migrations.Names()
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(out, n)
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	database, err := db.NewDb(cmd.Context(), cfg.DB.DSN())
	if err != nil {
		return fmt.Errorf("database init: %w", err)
	}
	defer database.Close()

	applied, err := migrations.Apply(cmd.Context(), database.GetPool())
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		fmt.Fprintln(out, "schema is up to date")
		return nil
	}
	for _, n := range applied {
		fmt.Fprintf(out, "applied %s\n", n)
	}
	return nil
}
