package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/pneumacap/PoolTableTracker/hub"
	"github.com/pneumacap/PoolTableTracker/models"
	"github.com/pneumacap/PoolTableTracker/utils"
)

// TableMonitor menyiarkan snapshot occupancy + tarif ke semua client
// websocket secara berkala. Monitor hanya membaca, tidak pernah
// menahan writer; kalau store gagal, monitor mengirim event error ke
// subscriber, tidur sejenak, lalu lanjut (feed tidak pernah mati).
type TableMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration
	Backoff  time.Duration
}

// SnapshotTable adalah satu meja dalam snapshot berkala.
type SnapshotTable struct {
	ID           uint       `json:"id"`
	TableNumber  int        `json:"table_number"`
	Occupied     bool       `json:"occupied"`
	CustomerName *string    `json:"customer_name,omitempty"`
	StartTime    *time.Time `json:"start_time,omitempty"`
}

// SnapshotRates adalah tarif berlaku yang dikirim bersama snapshot.
type SnapshotRates struct {
	StandardRate   float64 `json:"standard_rate"`
	PeakRate       float64 `json:"peak_rate"`
	PeakStart      string  `json:"peak_start"`
	PeakEnd        string  `json:"peak_end"`
	MinimumMinutes int     `json:"minimum_minutes"`
}

type Snapshot struct {
	Tables []SnapshotTable `json:"tables"`
	Rates  SnapshotRates   `json:"rates"`
}

func NewTableMonitor(db *gorm.DB) *TableMonitor {
	return &TableMonitor{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: 2 * time.Second,
		Backoff:  5 * time.Second,
	}
}

func (tm *TableMonitor) Start() {
	go func() {
		ticker := time.NewTicker(tm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := tm.broadcastSnapshot(); err != nil {
					utils.ErrorLogger.Printf("Monitor snapshot failed: %v", err)
					hub.BroadcastMonitorError("snapshot temporarily unavailable")
					select {
					case <-time.After(tm.Backoff):
					case <-tm.StopChan:
						return
					}
				}
			case <-tm.StopChan:
				return
			}
		}
	}()
}

func (tm *TableMonitor) Stop() {
	close(tm.StopChan)
}

// BuildSnapshot membaca state occupancy sekarang (dipakai juga oleh
// endpoint list meja supaya bentuknya sama dengan feed).
func (tm *TableMonitor) BuildSnapshot() (*Snapshot, error) {
	var cfg models.BusinessConfig
	if err := tm.DB.First(&cfg, 1).Error; err != nil {
		return nil, err
	}

	var tables []models.PoolTable
	if err := tm.DB.Where("is_active = ?", true).
		Order("table_number ASC").
		Find(&tables).Error; err != nil {
		return nil, err
	}

	var openSessions []models.TableSession
	if err := tm.DB.Where("end_time IS NULL").Find(&openSessions).Error; err != nil {
		return nil, err
	}
	openByTable := make(map[uint]*models.TableSession, len(openSessions))
	for i := range openSessions {
		openByTable[openSessions[i].TableID] = &openSessions[i]
	}

	snapshot := Snapshot{
		Tables: make([]SnapshotTable, 0, len(tables)),
		Rates: SnapshotRates{
			StandardRate:   cfg.StandardRate,
			PeakRate:       cfg.PeakRate,
			PeakStart:      cfg.PeakStart,
			PeakEnd:        cfg.PeakEnd,
			MinimumMinutes: cfg.MinimumMinutes,
		},
	}

	for _, table := range tables {
		entry := SnapshotTable{
			ID:          table.ID,
			TableNumber: table.TableNumber,
			Occupied:    table.IsOccupied,
		}
		if session, ok := openByTable[table.ID]; ok {
			entry.CustomerName = &session.CustomerName
			entry.StartTime = &session.StartTime
		}
		snapshot.Tables = append(snapshot.Tables, entry)
	}

	return &snapshot, nil
}

func (tm *TableMonitor) broadcastSnapshot() error {
	if hub.ClientCount() == 0 {
		return nil
	}
	snapshot, err := tm.BuildSnapshot()
	if err != nil {
		return err
	}
	hub.BroadcastSnapshot(snapshot)
	return nil
}
