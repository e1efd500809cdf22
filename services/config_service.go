package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/pneumacap/PoolTableTracker/models"
	"github.com/pneumacap/PoolTableTracker/utils"
)

type ConfigService struct {
	DB     *gorm.DB
	Tables *TableService
}

func NewConfigService(db *gorm.DB) *ConfigService {
	return &ConfigService{DB: db, Tables: NewTableService(db)}
}

// Current mengambil konfigurasi bisnis (singleton ID 1).
func (cs *ConfigService) Current() (*models.BusinessConfig, error) {
	var cfg models.BusinessConfig
	if err := cs.DB.First(&cfg, 1).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Update memvalidasi lalu menyimpan konfigurasi baru. Rekonsiliasi
// registry meja berjalan di transaksi yang sama: kalau shrink gagal
// karena masih ada sesi aktif, konfigurasi ikut batal.
func (cs *ConfigService) Update(input models.BusinessConfig, updatedBy uint) (*models.BusinessConfig, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var saved models.BusinessConfig
	err := cs.DB.Transaction(func(tx *gorm.DB) error {
		var cfg models.BusinessConfig
		if err := tx.First(&cfg, 1).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			cfg = models.BusinessConfig{ID: 1}
		}

		cfg.BusinessName = input.BusinessName
		cfg.TableCount = input.TableCount
		cfg.StandardRate = input.StandardRate
		cfg.PeakRate = input.PeakRate
		cfg.PeakStart = input.PeakStart
		cfg.PeakEnd = input.PeakEnd
		cfg.MinimumMinutes = input.MinimumMinutes
		cfg.UpdatedByID = &updatedBy

		if err := tx.Save(&cfg).Error; err != nil {
			return err
		}
		if err := cs.Tables.Reconcile(tx, cfg.TableCount); err != nil {
			return err
		}
		saved = cfg
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Business config updated by user %d: %d tables, rates %s/%s",
		updatedBy, saved.TableCount, utils.FormatCurrency(saved.StandardRate), utils.FormatCurrency(saved.PeakRate))
	return &saved, nil
}

// EnsureDefaults membuat konfigurasi awal saat first boot dan
// menjalankan rekonsiliasi supaya registry cocok dengan table count.
func (cs *ConfigService) EnsureDefaults() error {
	return cs.DB.Transaction(func(tx *gorm.DB) error {
		var cfg models.BusinessConfig
		err := tx.First(&cfg, 1).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cfg = models.BusinessConfig{
				ID:             1,
				BusinessName:   "Pool Table Tracker",
				TableCount:     15,
				StandardRate:   30,
				PeakRate:       45,
				PeakStart:      "17:00",
				PeakEnd:        "22:00",
				MinimumMinutes: 30,
			}
			if err := tx.Create(&cfg).Error; err != nil {
				return err
			}
			utils.InfoLogger.Printf("Seeded default business config with %d tables", cfg.TableCount)
		} else if err != nil {
			return err
		}

		return cs.Tables.Reconcile(tx, cfg.TableCount)
	})
}
