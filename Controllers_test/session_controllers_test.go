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

func sessionRouter(db *gorm.DB, clock *services.TestClock) *gin.Engine {
	sc := controllers.NewSessionController(db)
	sc.Sessions.Clock = clock

	r := newTestRouter()
	auth := r.Group("/admin", fakeAuth(1, "operator"))
	auth.POST("/tables/:table_id/start", sc.StartSession)
	auth.POST("/tables/:table_id/stop", sc.StopSession)
	return r
}

func TestStartSessionEndpoint(t *testing.T) {
	db := setupTestDB(t, 3)
	clock := &services.TestClock{CurrentTime: time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)}
	r := sessionRouter(db, clock)

	w := performJSON(t, r, http.MethodPost, "/admin/tables/1/start",
		gin.H{"customer_name": "Budi"})

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Status)
	assert.Equal(t, "Session started", resp.Message)
	data := dataMap(t, resp)
	assert.Equal(t, "Budi", data["customer_name"])
}

func TestStartSessionOccupiedConflict(t *testing.T) {
	db := setupTestDB(t, 3)
	clock := &services.TestClock{CurrentTime: time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)}
	r := sessionRouter(db, clock)

	w := performJSON(t, r, http.MethodPost, "/admin/tables/1/start",
		gin.H{"customer_name": "Budi"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = performJSON(t, r, http.MethodPost, "/admin/tables/1/start",
		gin.H{"customer_name": "Siti"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, decodeResponse(t, w).Status)
}

func TestStartSessionUnknownTable(t *testing.T) {
	db := setupTestDB(t, 3)
	clock := &services.TestClock{CurrentTime: time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)}
	r := sessionRouter(db, clock)

	w := performJSON(t, r, http.MethodPost, "/admin/tables/999/start",
		gin.H{"customer_name": "Budi"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStartSessionMissingCustomerName(t *testing.T) {
	db := setupTestDB(t, 3)
	clock := &services.TestClock{CurrentTime: time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)}
	r := sessionRouter(db, clock)

	w := performJSON(t, r, http.MethodPost, "/admin/tables/1/start", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStopSessionReturnsBilling(t *testing.T) {
	db := setupTestDB(t, 3)
	start := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
	clock := &services.TestClock{CurrentTime: start}
	r := sessionRouter(db, clock)

	w := performJSON(t, r, http.MethodPost, "/admin/tables/1/start",
		gin.H{"customer_name": "Budi"})
	assert.Equal(t, http.StatusCreated, w.Code)

	// 10 menit main, minimum 30 menit berlaku: 30 menit @ 60/jam
	clock.CurrentTime = start.Add(10 * time.Minute)
	w = performJSON(t, r, http.MethodPost, "/admin/tables/1/stop", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	data := dataMap(t, decodeResponse(t, w))
	assert.Equal(t, float64(10), data["actual_minutes"])
	assert.Equal(t, float64(30), data["charged_minutes"])
	assert.Equal(t, 30.0, data["final_cost"])
	assert.Equal(t, true, data["minimum_applied"])
	assert.NotEmpty(t, data["receipt_ref"])
}

func TestStopSessionWithoutActive(t *testing.T) {
	db := setupTestDB(t, 3)
	clock := &services.TestClock{CurrentTime: time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)}
	r := sessionRouter(db, clock)

	w := performJSON(t, r, http.MethodPost, "/admin/tables/1/stop", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDoubleStopConflict(t *testing.T) {
	db := setupTestDB(t, 3)
	start := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
	clock := &services.TestClock{CurrentTime: start}
	r := sessionRouter(db, clock)

	w := performJSON(t, r, http.MethodPost, "/admin/tables/1/start",
		gin.H{"customer_name": "Budi"})
	assert.Equal(t, http.StatusCreated, w.Code)

	clock.CurrentTime = start.Add(45 * time.Minute)
	w = performJSON(t, r, http.MethodPost, "/admin/tables/1/stop", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performJSON(t, r, http.MethodPost, "/admin/tables/1/stop", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
