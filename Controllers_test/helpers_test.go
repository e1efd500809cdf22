package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pneumacap/PoolTableTracker/models"
	"github.com/pneumacap/PoolTableTracker/utils"
)

// setupTestDB menyiapkan sqlite in-memory per test dengan skema dan
// konfigurasi dasar. Tarif standard == peak supaya hasil tagihan
// tidak tergantung timezone host.
func setupTestDB(t *testing.T, tableCount int) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.BusinessConfig{},
		&models.PoolTable{},
		&models.TableSession{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := models.BusinessConfig{
		ID:             1,
		BusinessName:   "Controller Test Hall",
		TableCount:     tableCount,
		StandardRate:   60,
		PeakRate:       60,
		PeakStart:      "17:00",
		PeakEnd:        "22:00",
		MinimumMinutes: 30,
	}
	if err := db.Create(&cfg).Error; err != nil {
		t.Fatalf("failed to seed config: %v", err)
	}

	for i := 1; i <= tableCount; i++ {
		table := models.PoolTable{TableNumber: i, IsActive: true}
		if err := db.Create(&table).Error; err != nil {
			t.Fatalf("failed to seed table %d: %v", i, err)
		}
	}

	return db
}

// fakeAuth meniru EnhancedAuthMiddleware tanpa JWT: langsung set
// identitas ke context.
func fakeAuth(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func performJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) utils.JSONResponse {
	t.Helper()
	var resp utils.JSONResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response body %q: %v", w.Body.String(), err)
	}
	return resp
}

func dataMap(t *testing.T, resp utils.JSONResponse) map[string]interface{} {
	t.Helper()
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("response data is not an object: %#v", resp.Data)
	}
	return data
}
