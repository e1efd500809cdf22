package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/pneumacap/PoolTableTracker/models"
	"github.com/pneumacap/PoolTableTracker/utils"
)

// ErrTableInUse dikembalikan saat shrink menemukan sesi aktif pada meja
// di atas batas baru. Operator harus menutup sesi tersebut dulu.
var ErrTableInUse = errors.New("table has an active session")

type TableService struct {
	DB *gorm.DB
}

func NewTableService(db *gorm.DB) *TableService {
	return &TableService{DB: db}
}

// Reconcile menyesuaikan registry meja dengan target jumlah pada
// konfigurasi. Dipanggil saat boot dan setiap kali table count berubah,
// di dalam transaksi yang sama dengan update konfigurasi.
//
// Shrink membuang meja dari nomor tertinggi; meja yang pernah dipakai
// sesi tidak dihapus melainkan dinonaktifkan supaya relasi historis
// tetap valid. Grow mengaktifkan kembali meja nonaktif lebih dulu baru
// menambah meja baru. Terakhir semua meja aktif dinomori ulang 1..N
// tanpa mengubah ID. Idempotent: run kedua dengan N sama jadi no-op.
func (ts *TableService) Reconcile(tx *gorm.DB, target int) error {
	var active []models.PoolTable
	if err := tx.Where("is_active = ?", true).
		Order("table_number ASC").
		Find(&active).Error; err != nil {
		return err
	}

	if len(active) > target {
		excess := active[target:]

		// Periksa semua meja di atas batas sebelum menghapus apa pun,
		// supaya kegagalan tidak meninggalkan state setengah jadi.
		for _, table := range excess {
			var open int64
			if err := tx.Model(&models.TableSession{}).
				Where("table_id = ? AND end_time IS NULL", table.ID).
				Count(&open).Error; err != nil {
				return err
			}
			if open > 0 {
				return ErrTableInUse
			}
		}

		for _, table := range excess {
			var history int64
			if err := tx.Model(&models.TableSession{}).
				Where("table_id = ?", table.ID).
				Count(&history).Error; err != nil {
				return err
			}
			if history > 0 {
				// Pernah dipakai: soft-disable, nomor di atas range aktif
				if err := tx.Model(&models.PoolTable{}).
					Where("id = ?", table.ID).
					Update("is_active", false).Error; err != nil {
					return err
				}
			} else {
				if err := tx.Delete(&models.PoolTable{}, table.ID).Error; err != nil {
					return err
				}
			}
		}

		active = active[:target]
	}

	if len(active) < target {
		// Aktifkan kembali meja nonaktif dulu (nomor terendah lebih dulu)
		var inactive []models.PoolTable
		if err := tx.Where("is_active = ?", false).
			Order("table_number ASC").
			Limit(target - len(active)).
			Find(&inactive).Error; err != nil {
			return err
		}
		for _, table := range inactive {
			if err := tx.Model(&models.PoolTable{}).
				Where("id = ?", table.ID).
				Update("is_active", true).Error; err != nil {
				return err
			}
			active = append(active, table)
		}

		nextNumber := 0
		for _, table := range active {
			if table.TableNumber > nextNumber {
				nextNumber = table.TableNumber
			}
		}
		for len(active) < target {
			nextNumber++
			table := models.PoolTable{
				TableNumber: nextNumber,
				IsOccupied:  false,
				IsActive:    true,
			}
			if err := tx.Create(&table).Error; err != nil {
				return err
			}
			active = append(active, table)
		}
	}

	// Penomoran ulang 1..N mempertahankan urutan relatif dan ID.
	// Update urut naik aman terhadap unique index karena nomor baru
	// tidak pernah melompati nomor lama pada posisi yang sama.
	for i, table := range active {
		want := i + 1
		if table.TableNumber == want {
			continue
		}
		if err := tx.Model(&models.PoolTable{}).
			Where("id = ?", table.ID).
			Update("table_number", want).Error; err != nil {
			return err
		}
	}

	utils.InfoLogger.Printf("Table registry reconciled to %d tables", target)
	return nil
}

// ActiveTables mengembalikan semua meja aktif urut nomor.
func (ts *TableService) ActiveTables() ([]models.PoolTable, error) {
	var tables []models.PoolTable
	err := ts.DB.Where("is_active = ?", true).
		Order("table_number ASC").
		Find(&tables).Error
	return tables, err
}
