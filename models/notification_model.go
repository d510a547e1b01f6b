package models

import (
	"calibration-app/controllers/idgen"
	"calibration-app/types"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	OutboxPending = "pending"
	OutboxSent    = "sent"
	OutboxFailed  = "failed"
)

// NotificationOutbox rows are written in the same transaction as the change
// they announce and delivered later by the dispatcher.
type NotificationOutbox struct {
	ID            types.SnowflakeID `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Kind          string            `json:"kind" gorm:"size:50;index"`
	RefNo         string            `json:"ref_no" gorm:"size:50"`
	Recipients    datatypes.JSON    `json:"recipients"`
	Subject       string            `json:"subject"`
	Body          string            `json:"body"`
	Status        string            `json:"status" gorm:"size:10;index;not null"`
	Attempts      int               `json:"attempts"`
	NextAttemptAt time.Time         `json:"next_attempt_at" gorm:"index"`
	LastError     string            `json:"last_error"`
	SentAt        *time.Time        `json:"sent_at"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func (n *NotificationOutbox) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == 0 {
		n.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

const (
	ReminderScopeWorkOrder        = "work_order"
	ReminderScopeDeliveryNoteItem = "delivery_note_item"
)

const (
	ReminderMidpoint = "midpoint"
	ReminderDue      = "due"
	ReminderPastDue  = "past_due"
)

// ReminderLog records that a reminder went out; the unique key makes a second
// scan on the same day a no-op.
type ReminderLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Scope     string    `json:"scope" gorm:"size:30;not null;uniqueIndex:idx_reminder_once"`
	TargetID  uint      `json:"target_id" gorm:"not null;uniqueIndex:idx_reminder_once"`
	Kind      string    `json:"kind" gorm:"size:20;not null;uniqueIndex:idx_reminder_once"`
	RemindOn  string    `json:"remind_on" gorm:"size:10;not null;uniqueIndex:idx_reminder_once"`
	OutboxID  int64     `json:"outbox_id"`
	CreatedAt time.Time `json:"created_at"`
}
