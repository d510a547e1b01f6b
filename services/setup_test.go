package services

import (
	"calibration-app/database"
	"calibration-app/models"
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	dbSeq int64
	ctxBG = context.Background()
)

// newTestDB returns a migrated in-memory database with the default number
// series and units. A single connection keeps the memory database alive and
// serializes writers like a row lock would.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := fmt.Sprintf("file:svc%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedNumberSeries(db))
	require.NoError(t, database.SeedUnits(db))
	return db
}

type fixture struct {
	db     *gorm.DB
	svc    *WorkOrderService
	po     models.PurchaseOrder
	item   models.Item
	unit   models.Unit
	techs  []models.Technician
	actor  int
	today  time.Time
	dueSet time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{db: db, svc: NewWorkOrderService(db), actor: 1}

	f.po = models.PurchaseOrder{PoNumber: "PO-000001", Status: models.PurchaseOrderCollectionPending}
	require.NoError(t, db.Create(&f.po).Error)
	f.item = models.Item{Name: "Digital Multimeter"}
	require.NoError(t, db.Create(&f.item).Error)
	require.NoError(t, db.Where("name = ?", "Nos").First(&f.unit).Error)
	for _, name := range []string{"Alice", "Bob"} {
		tech := models.Technician{Name: name}
		require.NoError(t, db.Create(&tech).Error)
		f.techs = append(f.techs, tech)
	}
	f.today = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	f.dueSet = f.today.AddDate(1, 0, 0)
	return f
}

func (f *fixture) itemInput(qty int) WorkOrderItemInput {
	return WorkOrderItemInput{
		ItemID:    f.item.ID,
		Quantity:  qty,
		UnitID:    f.unit.ID,
		UnitPrice: decimal.RequireFromString("150.00"),
		Range:     "0-1000V",
	}
}

func (f *fixture) readyItemInput(qty int, tech *uint, rng string) WorkOrderItemInput {
	in := f.itemInput(qty)
	in.CertificateNumber = fmt.Sprintf("CERT-%s-%d", rng, qty)
	in.CalibrationDueDate = &f.dueSet
	in.Range = rng
	in.AssignedToID = tech
	return in
}

func (f *fixture) create(t *testing.T, items ...WorkOrderItemInput) *models.WorkOrder {
	t.Helper()
	po := f.po.ID
	wo, err := f.svc.Create(ctxBG, WorkOrderInput{PurchaseOrderID: &po, Items: items}, f.actor)
	require.NoError(t, err)
	return wo
}

func (f *fixture) opts() TransitionOptions {
	return TransitionOptions{ActorID: f.actor}
}

// approved creates a work order with ready items and takes it to Approved.
func (f *fixture) approved(t *testing.T, items ...WorkOrderItemInput) *models.WorkOrder {
	t.Helper()
	wo := f.create(t, items...)
	_, err := f.svc.MoveToApproval(ctxBG, wo.ID, f.opts())
	require.NoError(t, err)
	wo, err = f.svc.Approve(ctxBG, wo.ID, f.opts())
	require.NoError(t, err)
	require.Equal(t, models.WorkOrderApproved, wo.Status)
	return wo
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
