package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pneumacap/PoolTableTracker/hub"
	"github.com/pneumacap/PoolTableTracker/services"
	"github.com/pneumacap/PoolTableTracker/utils"
)

type SessionController struct {
	DB       *gorm.DB
	Sessions *services.SessionService
}

func NewSessionController(db *gorm.DB) *SessionController {
	return &SessionController{
		DB:       db,
		Sessions: services.NewSessionService(db),
	}
}

// StartSession -> operator membuka sesi pada satu meja
func (sc *SessionController) StartSession(c *gin.Context) {
	tableID, err := parseTableID(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		CustomerName string `json:"customer_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	operatorID, ok := operatorFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("operator id not found in context"))
		return
	}

	session, err := sc.Sessions.StartSession(tableID, req.CustomerName, operatorID)
	if err != nil {
		utils.RespondError(c, sessionErrorStatus(err), err)
		return
	}

	hub.BroadcastSessionStart(gin.H{
		"table_id":      tableID,
		"session_id":    session.ID,
		"customer_name": session.CustomerName,
		"start_time":    session.StartTime,
	})

	utils.RespondJSON(c, http.StatusCreated, "Session started", session)
}

// StopSession -> operator menutup sesi dan menerima rincian tagihan
func (sc *SessionController) StopSession(c *gin.Context) {
	tableID, err := parseTableID(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := sc.Sessions.StopSession(tableID)
	if err != nil {
		utils.RespondError(c, sessionErrorStatus(err), err)
		return
	}

	hub.BroadcastSessionStop(gin.H{
		"table_id":        tableID,
		"session_id":      result.Session.ID,
		"actual_minutes":  result.ActualMinutes,
		"charged_minutes": result.ChargedMinutes,
		"final_cost":      result.FinalCost,
		"minimum_applied": result.MinimumApplied,
		"receipt_ref":     result.ReceiptRef,
	})

	utils.RespondJSON(c, http.StatusOK, "Session stopped", gin.H{
		"actual_minutes":  result.ActualMinutes,
		"charged_minutes": result.ChargedMinutes,
		"final_cost":      result.FinalCost,
		"minimum_applied": result.MinimumApplied,
		"receipt_ref":     result.ReceiptRef,
	})
}

func parseTableID(c *gin.Context) (uint, error) {
	idStr := c.Param("table_id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, errors.New("invalid table id")
	}
	return uint(id), nil
}

func operatorFromContext(c *gin.Context) (uint, bool) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	userID, ok := userIDInterface.(uint)
	return userID, ok
}

// sessionErrorStatus memetakan error service ke HTTP status.
// Conflict dilaporkan apa adanya ke caller, tidak pernah di-retry
// otomatis dari sisi HTTP.
func sessionErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrTableNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrTableOccupied),
		errors.Is(err, services.ErrNoActiveSession),
		errors.Is(err, services.ErrTableInUse),
		errors.Is(err, services.ErrStoreConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
