package services

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pneumacap/PoolTableTracker/models"
	"github.com/pneumacap/PoolTableTracker/utils"
)

// setupLedgerDB membuat SQLite in-memory khusus per test. Satu koneksi
// saja supaya semua goroutine melihat database yang sama.
func setupLedgerDB(t *testing.T, tableCount int) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.BusinessConfig{},
		&models.PoolTable{},
		&models.TableSession{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	// Tarif standard == peak supaya hasil tidak tergantung timezone host
	cfg := models.BusinessConfig{
		ID:             1,
		BusinessName:   "Ledger Test Hall",
		TableCount:     tableCount,
		StandardRate:   60,
		PeakRate:       60,
		PeakStart:      "17:00",
		PeakEnd:        "22:00",
		MinimumMinutes: 30,
	}
	if err := db.Create(&cfg).Error; err != nil {
		t.Fatalf("failed to seed config: %v", err)
	}

	for i := 1; i <= tableCount; i++ {
		table := models.PoolTable{TableNumber: i, IsActive: true}
		if err := db.Create(&table).Error; err != nil {
			t.Fatalf("failed to seed table %d: %v", i, err)
		}
	}

	return db
}

func ledgerService(db *gorm.DB, now time.Time) (*SessionService, *TestClock) {
	clock := &TestClock{CurrentTime: now}
	svc := NewSessionService(db)
	svc.Clock = clock
	return svc, clock
}

func TestStartAndStopSession(t *testing.T) {
	db := setupLedgerDB(t, 3)
	start := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
	svc, clock := ledgerService(db, start)

	session, err := svc.StartSession(1, "Budi", 7)
	assert.NoError(t, err)
	assert.NotNil(t, session)
	assert.Equal(t, "Budi", session.CustomerName)
	assert.Equal(t, uint(7), session.OperatorID)
	assert.True(t, session.IsOpen())

	var table models.PoolTable
	assert.NoError(t, db.First(&table, 1).Error)
	assert.True(t, table.IsOccupied)

	// Main 45 menit
	clock.CurrentTime = start.Add(45 * time.Minute)

	result, err := svc.StopSession(1)
	assert.NoError(t, err)
	assert.Equal(t, 45, result.ActualMinutes)
	assert.Equal(t, 45, result.ChargedMinutes)
	assert.Equal(t, 45.00, result.FinalCost) // 45 menit @ 60/hr
	assert.False(t, result.MinimumApplied)
	assert.NotEmpty(t, result.ReceiptRef)

	assert.NoError(t, db.First(&table, 1).Error)
	assert.False(t, table.IsOccupied)

	var stored models.TableSession
	assert.NoError(t, db.First(&stored, session.ID).Error)
	assert.NotNil(t, stored.EndTime)
	assert.NotNil(t, stored.FinalCost)
}

func TestStopAppliesMinimumCharge(t *testing.T) {
	db := setupLedgerDB(t, 1)
	start := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
	svc, clock := ledgerService(db, start)

	_, err := svc.StartSession(1, "Sari", 1)
	assert.NoError(t, err)

	// Hanya 10 menit, minimum 30 menit berlaku
	clock.CurrentTime = start.Add(10 * time.Minute)

	result, err := svc.StopSession(1)
	assert.NoError(t, err)
	assert.Equal(t, 10, result.ActualMinutes)
	assert.Equal(t, 30, result.ChargedMinutes)
	assert.True(t, result.MinimumApplied)
	assert.Equal(t, 30.00, result.FinalCost) // 30 menit @ 60/hr
}

func TestChargedNeverBelowActualOrMinimum(t *testing.T) {
	db := setupLedgerDB(t, 1)
	start := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	svc, clock := ledgerService(db, start)

	for _, minutes := range []int{5, 30, 95} {
		clock.CurrentTime = start
		_, err := svc.StartSession(1, "Loop", 1)
		assert.NoError(t, err)

		clock.CurrentTime = start.Add(time.Duration(minutes) * time.Minute)
		result, err := svc.StopSession(1)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, result.ChargedMinutes, result.ActualMinutes)
		assert.GreaterOrEqual(t, result.ChargedMinutes, 30)
	}
}

func TestStartOccupiedTableFails(t *testing.T) {
	db := setupLedgerDB(t, 2)
	svc, _ := ledgerService(db, time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC))

	_, err := svc.StartSession(1, "Pertama", 1)
	assert.NoError(t, err)

	_, err = svc.StartSession(1, "Kedua", 1)
	assert.ErrorIs(t, err, ErrTableOccupied)

	// State tidak berubah: tetap satu sesi terbuka
	var count int64
	db.Model(&models.TableSession{}).Where("table_id = ?", 1).Count(&count)
	assert.Equal(t, int64(1), count)

	// Meja lain tidak terpengaruh
	_, err = svc.StartSession(2, "Kedua", 1)
	assert.NoError(t, err)
}

func TestStartUnknownOrInactiveTable(t *testing.T) {
	db := setupLedgerDB(t, 1)
	svc, _ := ledgerService(db, time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC))

	_, err := svc.StartSession(999, "Nobody", 1)
	assert.ErrorIs(t, err, ErrTableNotFound)

	assert.NoError(t, db.Model(&models.PoolTable{}).
		Where("id = ?", 1).
		Update("is_active", false).Error)

	_, err = svc.StartSession(1, "Nobody", 1)
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestStopWithoutActiveSession(t *testing.T) {
	db := setupLedgerDB(t, 1)
	svc, _ := ledgerService(db, time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC))

	_, err := svc.StopSession(1)
	assert.ErrorIs(t, err, ErrNoActiveSession)

	var count int64
	db.Model(&models.TableSession{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSequentialDoubleStop(t *testing.T) {
	db := setupLedgerDB(t, 1)
	start := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
	svc, clock := ledgerService(db, start)

	_, err := svc.StartSession(1, "Dobel", 1)
	assert.NoError(t, err)
	clock.CurrentTime = start.Add(40 * time.Minute)

	_, err = svc.StopSession(1)
	assert.NoError(t, err)

	_, err = svc.StopSession(1)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestConcurrentDoubleStop(t *testing.T) {
	db := setupLedgerDB(t, 1)
	start := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
	svc, clock := ledgerService(db, start)

	_, err := svc.StartSession(1, "Race", 1)
	assert.NoError(t, err)
	clock.CurrentTime = start.Add(40 * time.Minute)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, errs[idx] = svc.StopSession(1)
		}(i)
	}
	wg.Wait()

	// Tepat satu pemanggil berhasil, satunya melihat sesi sudah tutup
	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrNoActiveSession)
		}
	}
	assert.Equal(t, 1, successes)

	// Tidak ada double-charge: satu sesi, satu final cost
	var sessions []models.TableSession
	assert.NoError(t, db.Find(&sessions).Error)
	assert.Len(t, sessions, 1)
	assert.NotNil(t, sessions[0].FinalCost)
}
