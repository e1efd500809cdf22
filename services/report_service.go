package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/pneumacap/PoolTableTracker/models"
	"github.com/pneumacap/PoolTableTracker/utils"
)

type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db}
}

// DailyReport merangkum sesi tertutup satu hari kalender.
type DailyReport struct {
	Date         string  `json:"date"`
	SessionCount int64   `json:"total_sessions"`
	TotalMinutes int64   `json:"total_minutes"`
	TotalRevenue float64 `json:"total_revenue"`
}

// DailyTotals merangkum sesi yang dimulai pada tanggal tersebut (UTC)
// dan sudah ditutup. TotalMinutes menjumlahkan durasi aktual, bukan
// durasi tertagih. Hari tanpa sesi menghasilkan nol, bukan error.
func (rs *ReportService) DailyTotals(date time.Time) (*DailyReport, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	var row struct {
		SessionCount int64
		TotalMinutes int64
		TotalRevenue float64
	}

	err := rs.DB.Model(&models.TableSession{}).
		Select("COUNT(*) AS session_count, COALESCE(SUM(actual_minutes), 0) AS total_minutes, COALESCE(SUM(final_cost), 0) AS total_revenue").
		Where("start_time >= ? AND start_time < ? AND end_time IS NOT NULL", dayStart, dayEnd).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &DailyReport{
		Date:         dayStart.Format("2006-01-02"),
		SessionCount: row.SessionCount,
		TotalMinutes: row.TotalMinutes,
		TotalRevenue: utils.RoundCurrency(row.TotalRevenue),
	}, nil
}

// RangeTotals mengembalikan ringkasan harian untuk rentang tanggal
// inklusif, dipakai export chart/PDF mingguan.
func (rs *ReportService) RangeTotals(from, to time.Time) ([]DailyReport, error) {
	var reports []DailyReport
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		report, err := rs.DailyTotals(day)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, nil
}
