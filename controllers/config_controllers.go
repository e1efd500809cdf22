package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pneumacap/PoolTableTracker/hub"
	"github.com/pneumacap/PoolTableTracker/models"
	"github.com/pneumacap/PoolTableTracker/services"
	"github.com/pneumacap/PoolTableTracker/utils"
)

type ConfigController struct {
	DB     *gorm.DB
	Config *services.ConfigService
}

func NewConfigController(db *gorm.DB) *ConfigController {
	return &ConfigController{
		DB:     db,
		Config: services.NewConfigService(db),
	}
}

// GetConfig -> konfigurasi bisnis saat ini
func (cc *ConfigController) GetConfig(c *gin.Context) {
	cfg, err := cc.Config.Current()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Business config", cfg)
}

// UpdateConfig -> simpan konfigurasi baru dan rekonsiliasi registry
// meja. Hanya admin. Shrink yang menabrak sesi aktif ditolak 409 dan
// tidak mengubah apa pun.
func (cc *ConfigController) UpdateConfig(c *gin.Context) {
	roleInterface, _ := c.Get("role")
	if roleInterface != "admin" {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var req struct {
		BusinessName   string  `json:"business_name" binding:"required"`
		TableCount     int     `json:"table_count" binding:"required"`
		StandardRate   float64 `json:"standard_rate" binding:"required"`
		PeakRate       float64 `json:"peak_rate" binding:"required"`
		MinimumMinutes int     `json:"minimum_minutes"`
		PeakStart      string  `json:"peak_start" binding:"required"`
		PeakEnd        string  `json:"peak_end" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	operatorID, ok := operatorFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	input := models.BusinessConfig{
		BusinessName:   req.BusinessName,
		TableCount:     req.TableCount,
		StandardRate:   req.StandardRate,
		PeakRate:       req.PeakRate,
		PeakStart:      req.PeakStart,
		PeakEnd:        req.PeakEnd,
		MinimumMinutes: req.MinimumMinutes,
	}

	// Error validasi dilaporkan apa adanya sebagai bad request
	if err := input.Validate(); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	cfg, err := cc.Config.Update(input, operatorID)
	if err != nil {
		if errors.Is(err, services.ErrTableInUse) {
			utils.RespondError(c, http.StatusConflict, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastConfigUpdate(cfg)
	hub.BroadcastMessage(hub.Message{
		Event: hub.EventTableUpdate,
		Data:  gin.H{"table_count": cfg.TableCount},
	})

	utils.RespondJSON(c, http.StatusOK, "Business config updated", cfg)
}
