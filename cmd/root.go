package cmd

import (
	"calibration-app/config"
	"calibration-app/controllers/idgen"
	"calibration-app/database"
	"calibration-app/logging"
	"calibration-app/services"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

var log = logging.GetLogger("cmd")

// RootCmd is the base command. Every subcommand loads the configuration and
// the logger before it runs.
var RootCmd = &cobra.Command{
	Use:   "calibration-app",
	Short: "Calibration back office: work orders, delivery notes and invoicing",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadConfig()
		if err := logging.Initialize(config.LogLevel, config.LogDebug); err != nil {
			return err
		}
		return idgen.Init(viper.GetInt64("NODE_ID"))
	},
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringP("log-level", "L", "info", "Log level: debug, info, warn or error")
	viper.BindPFlag("LOG_LEVEL", RootCmd.PersistentFlags().Lookup("log-level"))
	RootCmd.PersistentFlags().Bool("debug", false, "Development logging and SQL trace")
	viper.BindPFlag("LOG_DEBUG", RootCmd.PersistentFlags().Lookup("debug"))
	RootCmd.PersistentFlags().String("db-driver", "postgres", "Database driver: postgres, mysql, mssql or sqlite")
	viper.BindPFlag("DB_DRIVER", RootCmd.PersistentFlags().Lookup("db-driver"))
	RootCmd.PersistentFlags().Int64("node-id", 1, "Snowflake node number of this process")
	viper.BindPFlag("NODE_ID", RootCmd.PersistentFlags().Lookup("node-id"))
}

func Execute() error {
	return RootCmd.Execute()
}

// openDatabase connects, migrates and, when seed is set, seeds the defaults
// the lifecycle depends on.
func openDatabase(seed bool) (*gorm.DB, error) {
	db, err := database.Open()
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	if !seed {
		return db, nil
	}
	if err := database.RunSeeders(db); err != nil {
		return nil, err
	}
	if _, err := services.NewPermissionService(db).EnsureSuperadminRole(); err != nil {
		return nil, err
	}
	return db, nil
}
