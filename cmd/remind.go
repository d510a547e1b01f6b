package cmd

import (
	"calibration-app/services"
	"context"
	"time"

	"github.com/spf13/cobra"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Queue today's invoice due reminders and past-due alerts",
	Long: `Queue the midpoint and due date reminders and the past-due alerts of raised invoices.
Running it more than once on the same day queues nothing new.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(false)
		if err != nil {
			return err
		}
		n, err := services.NewReminderService(db).Scan(cmd.Context(), time.Now())
		if err != nil {
			return err
		}
		log.Info("reminder scan finished", "queued", n)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(remindCmd)
}

// runReminders scans once per interval until ctx is cancelled.
func runReminders(ctx context.Context, svc *services.ReminderService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := svc.Scan(ctx, time.Now()); err != nil {
			log.Error("reminder scan failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
