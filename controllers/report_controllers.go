package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	chart "github.com/wcharczuk/go-chart/v2"
	"gorm.io/gorm"

	"github.com/pneumacap/PoolTableTracker/services"
	"github.com/pneumacap/PoolTableTracker/utils"
)

type ReportController struct {
	DB      *gorm.DB
	Reports *services.ReportService
	Config  *services.ConfigService
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{
		DB:      db,
		Reports: services.NewReportService(db),
		Config:  services.NewConfigService(db),
	}
}

// GetDailyReport -> ringkasan sesi tertutup satu hari.
// Query param date=YYYY-MM-DD, default hari ini (UTC).
func (rc *ReportController) GetDailyReport(c *gin.Context) {
	date, err := reportDate(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	report, err := rc.Reports.DailyTotals(date)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Daily report", report)
}

// ExportPDF -> laporan harian dalam bentuk PDF
func (rc *ReportController) ExportPDF(c *gin.Context) {
	date, err := reportDate(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	report, err := rc.Reports.DailyTotals(date)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	cfg, err := rc.Config.Current()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, cfg.BusinessName)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Daily report for %s", report.Date))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Sessions: %d", report.SessionCount))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Total minutes played: %d", report.TotalMinutes))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Total revenue: %s", utils.FormatCurrency(report.TotalRevenue)))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Rates: standard %s/hr, peak %s/hr (%s-%s)",
		utils.FormatCurrency(cfg.StandardRate), utils.FormatCurrency(cfg.PeakRate),
		cfg.PeakStart, cfg.PeakEnd))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=daily-report-%s.pdf", report.Date))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// ExportChart -> bar chart revenue 7 hari terakhir (PNG)
func (rc *ReportController) ExportChart(c *gin.Context) {
	to, err := reportDate(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	from := to.AddDate(0, 0, -6)

	reports, err := rc.Reports.RangeTotals(from, to)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	bars := make([]chart.Value, 0, len(reports))
	for _, report := range reports {
		bars = append(bars, chart.Value{
			Label: report.Date[5:], // MM-DD
			Value: report.TotalRevenue,
		})
	}

	graph := chart.BarChart{
		Title:    "Revenue (last 7 days)",
		Height:   400,
		BarWidth: 50,
		Bars:     bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func reportDate(c *gin.Context) (time.Time, error) {
	dateStr := c.Query("date")
	if dateStr == "" {
		return time.Now().UTC(), nil
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, errors.New("invalid date format, expected YYYY-MM-DD")
	}
	return date, nil
}
