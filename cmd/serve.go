package cmd

import (
	"calibration-app/config"
	"calibration-app/notifications"
	"calibration-app/routes"
	"calibration-app/services"
	"calibration-app/storage"
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API with the notification dispatcher and the reminder scan",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	serveCmd.Flags().StringP("port", "p", "9000", "Port the API listens on")
	viper.BindPFlag("APP_PORT", serveCmd.Flags().Lookup("port"))
	RootCmd.AddCommand(serveCmd)
}

func serve() error {
	db, err := openDatabase(true)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mailer := notifications.NewMailNotifier(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword, config.MailFrom)
	dispatcher := notifications.NewDispatcher(db, mailer, notifications.DispatcherConfig{
		MaxAttempts: config.NotifyMaxAttempts,
		Backoff:     config.NotifyBackoff,
		AdminEmail:  config.AdminEmail,
	})
	go dispatcher.Run(ctx, config.NotifyPoll)
	go runReminders(ctx, services.NewReminderService(db), config.ReminderInterval)

	app := fiber.New(fiber.Config{
		AppName:   "calibration-app",
		BodyLimit: 20 * 1024 * 1024,
	})
	app.Use(recover.New())
	config.SetupCORS(app)
	routes.SetupRoutes(app, db, storage.NewLocal(config.MediaRoot))

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Error("shutdown failed", "error", err)
		}
	}()

	log.Info("server listening", "port", config.APP_PORT)
	return app.Listen(":" + config.APP_PORT)
}
