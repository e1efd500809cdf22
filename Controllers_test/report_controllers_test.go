package Controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/pneumacap/PoolTableTracker/controllers"
	"github.com/pneumacap/PoolTableTracker/services"
)

func reportRouter(db *gorm.DB) *gin.Engine {
	rc := controllers.NewReportController(db)

	r := newTestRouter()
	auth := r.Group("/admin", fakeAuth(1, "admin"))
	auth.GET("/reports/daily", rc.GetDailyReport)
	auth.GET("/reports/export-pdf", rc.ExportPDF)
	auth.GET("/reports/export-chart", rc.ExportChart)
	return r
}

func runSession(t *testing.T, db *gorm.DB, tableID uint, start time.Time, minutes int) {
	t.Helper()
	svc := services.NewSessionService(db)
	clock := &services.TestClock{CurrentTime: start}
	svc.Clock = clock
	_, err := svc.StartSession(tableID, "Report", 1)
	assert.NoError(t, err)
	clock.CurrentTime = start.Add(time.Duration(minutes) * time.Minute)
	_, err = svc.StopSession(tableID)
	assert.NoError(t, err)
}

func TestDailyReportEmptyDay(t *testing.T) {
	db := setupTestDB(t, 2)
	r := reportRouter(db)

	w := performJSON(t, r, http.MethodGet, "/admin/reports/daily?date=2024-03-15", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	data := dataMap(t, decodeResponse(t, w))
	assert.Equal(t, "2024-03-15", data["date"])
	assert.Equal(t, float64(0), data["total_sessions"])
	assert.Equal(t, float64(0), data["total_minutes"])
	assert.Equal(t, float64(0), data["total_revenue"])
}

func TestDailyReportSummarizesSessions(t *testing.T) {
	db := setupTestDB(t, 2)
	r := reportRouter(db)

	day := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	runSession(t, db, 1, day, 60)
	runSession(t, db, 2, day.Add(time.Hour), 45)

	w := performJSON(t, r, http.MethodGet, "/admin/reports/daily?date=2024-03-15", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	data := dataMap(t, decodeResponse(t, w))
	assert.Equal(t, float64(2), data["total_sessions"])
	assert.Equal(t, float64(105), data["total_minutes"])
	assert.Equal(t, float64(105), data["total_revenue"])
}

func TestDailyReportInvalidDate(t *testing.T) {
	db := setupTestDB(t, 2)
	r := reportRouter(db)

	w := performJSON(t, r, http.MethodGet, "/admin/reports/daily?date=15-03-2024", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportPDF(t *testing.T) {
	db := setupTestDB(t, 2)
	r := reportRouter(db)

	runSession(t, db, 1, time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC), 60)

	w := performJSON(t, r, http.MethodGet, "/admin/reports/export-pdf?date=2024-03-15", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "daily-report-2024-03-15.pdf")
	// File PDF selalu diawali magic header %PDF
	assert.True(t, len(w.Body.Bytes()) > 4)
	assert.Equal(t, "%PDF", string(w.Body.Bytes()[:4]))
}

func TestExportChart(t *testing.T) {
	db := setupTestDB(t, 2)
	r := reportRouter(db)

	runSession(t, db, 1, time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC), 60)

	w := performJSON(t, r, http.MethodGet, "/admin/reports/export-chart?date=2024-03-15", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())
}
