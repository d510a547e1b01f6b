package cmd

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := openDatabase(false); err != nil {
			return err
		}
		log.Info("database migrated")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Migrate and create the default number series, units, Superadmin role and admin user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := openDatabase(true); err != nil {
			return err
		}
		log.Info("database seeded")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
	RootCmd.AddCommand(seedCmd)
}
