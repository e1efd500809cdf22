package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pneumacap/PoolTableTracker/models"
	"github.com/pneumacap/PoolTableTracker/services"
	"github.com/pneumacap/PoolTableTracker/utils"
)

type TableController struct {
	DB       *gorm.DB
	Monitor  *services.TableMonitor
	Sessions *services.SessionService
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{
		DB:       db,
		Monitor:  services.NewTableMonitor(db),
		Sessions: services.NewSessionService(db),
	}
}

// GetAllTables -> daftar meja aktif dengan occupancy, bentuknya sama
// dengan snapshot yang dikirim lewat websocket
func (tc *TableController) GetAllTables(c *gin.Context) {
	snapshot, err := tc.Monitor.BuildSnapshot()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", snapshot)
}

// GetTableByID -> detail satu meja beserta sesi aktifnya (jika ada)
func (tc *TableController) GetTableByID(c *gin.Context) {
	tableID, err := parseTableID(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.PoolTable
	if err := tc.DB.First(&table, "id = ? AND is_active = ?", tableID, true).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	open, err := tc.Sessions.OpenSession(table.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table detail", gin.H{
		"table":        table,
		"open_session": open,
	})
}
