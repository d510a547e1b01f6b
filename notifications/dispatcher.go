package notifications

import (
	"calibration-app/logging"
	"calibration-app/models"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

var log = logging.GetLogger("notifications")

type DispatcherConfig struct {
	MaxAttempts int
	Backoff     time.Duration
	BatchSize   int
	AdminEmail  string
}

// Dispatcher delivers pending outbox rows. A failed send is retried after
// Backoff until MaxAttempts is reached, then the row is marked failed.
type Dispatcher struct {
	DB       *gorm.DB
	Notifier Notifier
	cfg      DispatcherConfig
	now      func() time.Time
}

func NewDispatcher(db *gorm.DB, notifier Notifier, cfg DispatcherConfig) *Dispatcher {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	return &Dispatcher{DB: db, Notifier: notifier, cfg: cfg, now: time.Now}
}

// Run polls the outbox until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := d.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("outbox dispatch failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce sends every due row once and returns how many were delivered.
func (d *Dispatcher) RunOnce(ctx context.Context) (int, error) {
	now := d.now().UTC()

	var rows []models.NotificationOutbox
	err := d.DB.WithContext(ctx).
		Where("status = ? AND next_attempt_at <= ?", models.OutboxPending, now).
		Order("id").
		Limit(d.cfg.BatchSize).
		Find(&rows).Error
	if err != nil {
		return 0, err
	}

	admins, err := d.adminRecipients(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range rows {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if d.deliver(ctx, &rows[i], admins, now) {
			sent++
		}
	}
	return sent, nil
}

func (d *Dispatcher) deliver(ctx context.Context, row *models.NotificationOutbox, admins []string, now time.Time) bool {
	var extra []string
	if len(row.Recipients) > 0 {
		if err := json.Unmarshal(row.Recipients, &extra); err != nil {
			log.Warn("invalid outbox recipients", "id", row.ID, "error", err)
		}
	}
	to := mergeRecipients(admins, extra)

	var sendErr error
	if len(to) == 0 {
		sendErr = errors.New("no recipients")
	} else {
		sendErr = d.Notifier.Send(ctx, to, row.Subject, row.Body)
	}

	updates := map[string]interface{}{"attempts": row.Attempts + 1}
	if sendErr == nil {
		updates["status"] = models.OutboxSent
		updates["sent_at"] = now
		updates["last_error"] = ""
	} else {
		updates["last_error"] = sendErr.Error()
		if row.Attempts+1 >= d.cfg.MaxAttempts || len(to) == 0 {
			updates["status"] = models.OutboxFailed
			log.Error("notification dropped", "id", row.ID, "kind", row.Kind, "ref_no", row.RefNo,
				"attempts", row.Attempts+1, "error", sendErr)
		} else {
			updates["next_attempt_at"] = now.Add(d.cfg.Backoff)
			log.Warn("notification send failed, will retry", "id", row.ID, "kind", row.Kind,
				"attempts", row.Attempts+1, "error", sendErr)
		}
	}

	if err := d.DB.WithContext(ctx).Model(row).Updates(updates).Error; err != nil {
		log.Error("cannot update outbox row", "id", row.ID, "error", err)
	}
	return sendErr == nil
}

// adminRecipients is the admin address plus every active Superadmin user.
func (d *Dispatcher) adminRecipients(ctx context.Context) ([]string, error) {
	var emails []string
	err := d.DB.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN roles ON roles.id = users.role_id AND roles.deleted_at IS NULL").
		Where("roles.name = ? AND users.is_active = ?", models.SuperadminRole, true).
		Pluck("users.email", &emails).Error
	if err != nil {
		return nil, err
	}
	if d.cfg.AdminEmail != "" {
		emails = append(emails, d.cfg.AdminEmail)
	}
	return mergeRecipients(emails, nil), nil
}

func mergeRecipients(a, b []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, list := range [][]string{a, b} {
		for _, e := range list {
			e = strings.TrimSpace(e)
			key := strings.ToLower(e)
			if e == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, e)
		}
	}
	slices.Sort(out)
	return out
}
