package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pneumacap/PoolTableTracker/models"
	"github.com/pneumacap/PoolTableTracker/utils"
)

// Error sesi/ledger, dipetakan ke HTTP status di controller.
var (
	ErrTableNotFound   = errors.New("table not found or inactive")
	ErrTableOccupied   = errors.New("table already occupied")
	ErrNoActiveSession = errors.New("no active session found")
	ErrStoreConflict   = errors.New("storage conflict, please retry")
)

// maxTxRetries membatasi retry internal saat store mengembalikan error
// transient (mis. database is locked). Error domain tidak pernah
// di-retry.
const maxTxRetries = 3

type SessionService struct {
	DB    *gorm.DB
	Clock Clock
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{DB: db, Clock: RealClock{}}
}

// StopResult adalah rincian tagihan yang dikembalikan saat sesi ditutup.
type StopResult struct {
	Session        models.TableSession `json:"session"`
	ActualMinutes  int                 `json:"actual_minutes"`
	ChargedMinutes int                 `json:"charged_minutes"`
	FinalCost      float64             `json:"final_cost"`
	MinimumApplied bool                `json:"minimum_applied"`
	ReceiptRef     string              `json:"receipt_ref"`
}

// StartSession membuka sesi baru pada satu meja.
// Pembuatan record sesi dan flip occupancy dilakukan dalam satu
// transaksi; conditional update pada flag occupancy memastikan dua
// start bersamaan pada meja yang sama hanya satu yang menang.
func (ss *SessionService) StartSession(tableID uint, customerName string, operatorID uint) (*models.TableSession, error) {
	var session models.TableSession

	err := ss.withRetry(func() error {
		return ss.DB.Transaction(func(tx *gorm.DB) error {
			var table models.PoolTable
			if err := tx.First(&table, "id = ? AND is_active = ?", tableID, true).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrTableNotFound
				}
				return err
			}

			// Conditional update: hanya berhasil jika meja masih kosong
			res := tx.Model(&models.PoolTable{}).
				Where("id = ? AND is_occupied = ?", tableID, false).
				Update("is_occupied", true)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrTableOccupied
			}

			session = models.TableSession{
				TableID:      tableID,
				CustomerName: customerName,
				OperatorID:   operatorID,
				StartTime:    ss.Clock.Now().UTC(),
			}
			return tx.Create(&session).Error
		})
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Session %d started on table %d for %s", session.ID, tableID, customerName)
	return &session, nil
}

// StopSession menutup sesi aktif pada satu meja dan menghitung tagihan.
// Penutupan memakai conditional update pada end_time IS NULL: dua stop
// bersamaan hanya satu yang berhasil, pemanggil kedua menerima
// ErrNoActiveSession. Seluruh transisi atomik; tidak ada state dengan
// occupancy menyala tanpa sesi terbuka atau sebaliknya.
func (ss *SessionService) StopSession(tableID uint) (*StopResult, error) {
	var result StopResult

	err := ss.withRetry(func() error {
		return ss.DB.Transaction(func(tx *gorm.DB) error {
			var cfg models.BusinessConfig
			if err := tx.First(&cfg, 1).Error; err != nil {
				return err
			}

			var session models.TableSession
			if err := tx.First(&session, "table_id = ? AND end_time IS NULL", tableID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNoActiveSession
				}
				return err
			}

			end := ss.Clock.Now().UTC()
			actual := ActualMinutes(session.StartTime, end)
			charged := ChargedMinutes(actual, cfg.MinimumMinutes)
			minimumApplied := charged > actual
			cost := ComputeCost(session.StartTime.Local(), end.Local(), charged, cfg)
			receiptRef := uuid.NewString()

			// Conditional close; 0 row berarti sesi sudah ditutup pihak lain
			res := tx.Model(&models.TableSession{}).
				Where("id = ? AND end_time IS NULL", session.ID).
				Updates(map[string]interface{}{
					"end_time":        end,
					"actual_minutes":  actual,
					"charged_minutes": charged,
					"final_cost":      cost,
					"minimum_applied": minimumApplied,
					"receipt_ref":     receiptRef,
					"updated_at":      end,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrNoActiveSession
			}

			if err := tx.Model(&models.PoolTable{}).
				Where("id = ?", tableID).
				Update("is_occupied", false).Error; err != nil {
				return err
			}

			session.EndTime = &end
			session.ActualMinutes = &actual
			session.ChargedMinutes = &charged
			session.FinalCost = &cost
			session.MinimumApplied = minimumApplied
			session.ReceiptRef = receiptRef

			result = StopResult{
				Session:        session,
				ActualMinutes:  actual,
				ChargedMinutes: charged,
				FinalCost:      cost,
				MinimumApplied: minimumApplied,
				ReceiptRef:     receiptRef,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Session %d stopped on table %d: %d min charged, cost %s",
		result.Session.ID, tableID, result.ChargedMinutes, utils.FormatCurrency(result.FinalCost))
	return &result, nil
}

// OpenSession mengembalikan sesi aktif satu meja (nil jika tidak ada).
func (ss *SessionService) OpenSession(tableID uint) (*models.TableSession, error) {
	var session models.TableSession
	err := ss.DB.First(&session, "table_id = ? AND end_time IS NULL", tableID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// withRetry mengulang operasi untuk error transient dari store.
// Error domain (conflict, not found) langsung diteruskan tanpa retry.
func (ss *SessionService) withRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if isDomainError(err) {
			return err
		}
		utils.ErrorLogger.Printf("Transient store error (attempt %d): %v", attempt+1, err)
		time.Sleep(time.Duration(attempt+1) * 10 * time.Millisecond)
	}
	utils.ErrorLogger.Printf("Store conflict not resolved after %d attempts: %v", maxTxRetries, err)
	return ErrStoreConflict
}

func isDomainError(err error) bool {
	return errors.Is(err, ErrTableNotFound) ||
		errors.Is(err, ErrTableOccupied) ||
		errors.Is(err, ErrNoActiveSession) ||
		errors.Is(err, ErrTableInUse)
}
