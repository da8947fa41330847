package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dftasks/dftasks-backend/internal/services"
)

var notifyUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is handled at the HTTP layer.
		return true
	},
}

// NotificationsSocket streams new-pending-task events to admin
// dashboards. Auth and role checks run in the middleware chain; the
// token may come via the `token` query parameter since browser
// WebSocket clients cannot set headers.
func NotificationsSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := notifyUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	services.RegisterNotifyConn(connID, conn)
	defer services.UnregisterNotifyConn(connID)

	// Reader loop: the dashboard never sends anything meaningful, but
	// reading is what detects the disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
