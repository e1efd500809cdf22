package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/pneumacap/PoolTableTracker/hub"
	"github.com/pneumacap/PoolTableTracker/services"
	"github.com/pneumacap/PoolTableTracker/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// FloorHandler -> endpoint WebSocket untuk feed occupancy.
// Client menerima snapshot berkala dan event start/stop/config.
func FloorHandler(c *gin.Context) {
	roleInterface, exists := c.Get("role")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	role := roleInterface.(string)

	if role != "admin" && role != "operator" && role != "display" {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	hub.RegisterClient(ws, role)

	// Kirim snapshot awal supaya client tidak menunggu tick berikutnya
	if db := utils.GetDB(); db != nil {
		if snapshot, err := services.NewTableMonitor(db).BuildSnapshot(); err == nil {
			hub.BroadcastSnapshot(snapshot)
		}
	}

	// Drain incoming frames; koneksi ditutup saat read gagal
	for {
		_, _, err := ws.ReadMessage()
		if err != nil {
			break
		}
	}

	hub.UnregisterClient(ws)
}
