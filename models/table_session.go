package models

import "time"

// TableSession mencatat satu sesi bermain pada satu meja.
// Sesi dianggap masih berjalan selama EndTime masih NULL.
// Field durasi dan biaya diisi sekali pada saat stop, setelah itu
// record tidak boleh berubah lagi.
type TableSession struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	TableID        uint       `gorm:"not null;index" json:"table_id"`
	Table          PoolTable  `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table,omitempty"`
	CustomerName   string     `gorm:"type:varchar(100);not null" json:"customer_name"`
	OperatorID     uint       `gorm:"not null;index" json:"operator_id"`
	Operator       User       `gorm:"foreignKey:OperatorID" json:"operator,omitempty"`
	StartTime      time.Time  `gorm:"not null" json:"start_time"`
	EndTime        *time.Time `gorm:"index" json:"end_time,omitempty"`
	ActualMinutes  *int       `json:"actual_minutes,omitempty"`
	ChargedMinutes *int       `json:"charged_minutes,omitempty"`
	FinalCost      *float64   `gorm:"type:decimal(10,2)" json:"final_cost,omitempty"`
	MinimumApplied bool       `gorm:"not null;default:false" json:"minimum_applied"`
	ReceiptRef     string     `gorm:"type:varchar(64)" json:"receipt_ref,omitempty"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updated_at"`
}

// IsOpen -> true selama sesi belum ditutup
func (s *TableSession) IsOpen() bool {
	return s.EndTime == nil
}
