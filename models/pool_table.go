package models

import "time"

// PoolTable merepresentasikan satu meja billiard.
// TableNumber dinomori ulang saat rekonsiliasi, ID tetap stabil
// supaya relasi ke TableSession lama tidak putus.
type PoolTable struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	TableNumber int            `gorm:"not null;uniqueIndex" json:"table_number"`
	IsOccupied  bool           `gorm:"not null;default:false" json:"is_occupied"`
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	Sessions    []TableSession `gorm:"foreignKey:TableID" json:"sessions,omitempty"`
}
