package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, sync, err := setup()
			if err != nil {
				return err
			}
			defer sync()
			if cfg.Database.Driver == "memory" {
				return errors.New("migrate needs database.driver postgres")
			}
			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return st.Close()
		},
	}
}
