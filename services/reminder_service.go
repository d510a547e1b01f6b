package services

import (
	"calibration-app/logging"
	"calibration-app/models"
	"calibration-app/notifications"
	"calibration-app/repositories"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var reminderLog = logging.GetLogger("reminder")

type ReminderService struct {
	DB *gorm.DB
}

func NewReminderService(DB *gorm.DB) *ReminderService {
	return &ReminderService{DB: DB}
}

// invoiceTarget is one raised invoice, either a work order header or a
// delivery note line.
type invoiceTarget struct {
	scope string
	id    uint
	refNo string
	state models.InvoiceState
}

func dateOnly(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// ReminderKinds lists the reminders due on day for an invoice: the midpoint
// reminder halfway to the due date, the due date reminder, and one past-due
// alert per day after it.
func ReminderKinds(st models.InvoiceState, day time.Time) []string {
	if st.InvoiceStatus != models.InvoiceRaised || st.InvoiceRaisedAt == nil || st.DueInDays <= 0 {
		return nil
	}
	loc := day.Location()
	today := dateOnly(day, loc)
	raised := dateOnly(*st.InvoiceRaisedAt, loc)
	due := raised.AddDate(0, 0, st.DueInDays)

	var kinds []string
	if st.DueInDays >= 2 && today.Equal(raised.AddDate(0, 0, st.DueInDays/2)) {
		kinds = append(kinds, models.ReminderMidpoint)
	}
	if today.Equal(due) {
		kinds = append(kinds, models.ReminderDue)
	}
	if today.After(due) {
		kinds = append(kinds, models.ReminderPastDue)
	}
	return kinds
}

func (s *ReminderService) targets(ctx context.Context) ([]invoiceTarget, error) {
	db := s.DB.WithContext(ctx)

	var orders []models.WorkOrder
	if err := db.Where("invoice_status = ? AND invoice_raised_at IS NOT NULL", models.InvoiceRaised).
		Order("id").Find(&orders).Error; err != nil {
		return nil, err
	}
	lines, err := repositories.NewDeliveryNoteRepository(db).RaisedItems()
	if err != nil {
		return nil, err
	}

	numbers := map[uint]string{}
	if len(lines) > 0 {
		ids := make([]uint, 0, len(lines))
		for _, l := range lines {
			ids = append(ids, l.DeliveryNoteID)
		}
		var notes []models.DeliveryNote
		if err := db.Select("id", "dn_number").Where("id IN ?", ids).Find(&notes).Error; err != nil {
			return nil, err
		}
		for _, n := range notes {
			numbers[n.ID] = n.DnNumber
		}
	}

	out := make([]invoiceTarget, 0, len(orders)+len(lines))
	for _, wo := range orders {
		out = append(out, invoiceTarget{scope: models.ReminderScopeWorkOrder, id: wo.ID, refNo: wo.WoNumber, state: wo.InvoiceState})
	}
	for _, l := range lines {
		ref, ok := numbers[l.DeliveryNoteID]
		if !ok {
			// note was deleted
			continue
		}
		out = append(out, invoiceTarget{scope: models.ReminderScopeDeliveryNoteItem, id: l.ID, refNo: ref, state: l.InvoiceState})
	}
	return out, nil
}

// Scan enqueues the reminders due on day. A reminder already logged for the
// same target, kind and day is skipped, so running Scan again is harmless.
func (s *ReminderService) Scan(ctx context.Context, day time.Time) (int, error) {
	targets, err := s.targets(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	remindOn := dateOnly(day, day.Location()).Format("2006-01-02")
	for _, t := range targets {
		for _, kind := range ReminderKinds(t.state, day) {
			created, err := s.remind(ctx, t, kind, remindOn, day)
			if err != nil {
				reminderLog.Error("reminder failed", "scope", t.scope, "id", t.id, "kind", kind, "error", err)
				continue
			}
			if created {
				sent++
			}
		}
	}
	if sent > 0 {
		reminderLog.Info("reminders queued", "count", sent, "day", remindOn)
	}
	return sent, nil
}

func (s *ReminderService) remind(ctx context.Context, t invoiceTarget, kind, remindOn string, now time.Time) (bool, error) {
	created := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry := models.ReminderLog{Scope: t.scope, TargetID: t.id, Kind: kind, RemindOn: remindOn}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		due := t.state.DueDate()
		var ev notifications.Event
		switch kind {
		case models.ReminderMidpoint:
			ev = notifications.InvoiceDueReminder(t.refNo, *due, true)
		case models.ReminderDue:
			ev = notifications.InvoiceDueReminder(t.refNo, *due, false)
		default:
			late := int(dateOnly(now, now.Location()).Sub(dateOnly(*due, now.Location())).Hours() / 24)
			ev = notifications.InvoicePastDue(t.refNo, *due, late)
		}
		row, err := notifications.Enqueue(tx, ev)
		if err != nil {
			return err
		}
		if err := tx.Model(&entry).Update("outbox_id", int64(row.ID)).Error; err != nil {
			return err
		}

		var model interface{} = &models.WorkOrder{}
		if t.scope == models.ReminderScopeDeliveryNoteItem {
			model = &models.DeliveryNoteItem{}
		}
		if err := tx.Model(model).Where("id = ?", t.id).UpdateColumn("invoice_last_notified_at", now).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}
