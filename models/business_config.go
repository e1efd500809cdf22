package models

import (
	"fmt"
	"time"
)

// BusinessConfig adalah konfigurasi bisnis (singleton, ID selalu 1).
// PeakStart/PeakEnd dalam format "HH:MM"; window boleh melewati tengah
// malam (PeakEnd < PeakStart).
type BusinessConfig struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	BusinessName   string    `gorm:"type:varchar(255);not null" json:"business_name"`
	TableCount     int       `gorm:"not null" json:"table_count"`
	StandardRate   float64   `gorm:"type:decimal(10,2);not null" json:"standard_rate"`
	PeakRate       float64   `gorm:"type:decimal(10,2);not null" json:"peak_rate"`
	PeakStart      string    `gorm:"type:varchar(5);not null" json:"peak_start"`
	PeakEnd        string    `gorm:"type:varchar(5);not null" json:"peak_end"`
	MinimumMinutes int       `gorm:"not null" json:"minimum_minutes"`
	UpdatedByID    *uint     `gorm:"index" json:"updated_by_id,omitempty"`
	UpdatedBy      *User     `gorm:"foreignKey:UpdatedByID" json:"updated_by,omitempty"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

// ParseClock mengubah "HH:MM" menjadi menit sejak tengah malam.
func ParseClock(value string) (int, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(value, "%02d:%02d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %v", value, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time of day %q out of range", value)
	}
	return hour*60 + minute, nil
}

// Validate memeriksa nilai konfigurasi sebelum disimpan.
func (bc *BusinessConfig) Validate() error {
	if bc.BusinessName == "" {
		return fmt.Errorf("business name is required")
	}
	if bc.TableCount < 1 {
		return fmt.Errorf("table count must be at least 1")
	}
	if bc.StandardRate <= 0 || bc.PeakRate <= 0 {
		return fmt.Errorf("rates must be greater than zero")
	}
	if bc.MinimumMinutes < 0 {
		return fmt.Errorf("minimum minutes must not be negative")
	}
	if _, err := ParseClock(bc.PeakStart); err != nil {
		return err
	}
	if _, err := ParseClock(bc.PeakEnd); err != nil {
		return err
	}
	return nil
}
