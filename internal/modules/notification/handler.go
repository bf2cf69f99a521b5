package notification

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"rentmarket/internal/pkg/jwt"
	"rentmarket/internal/pkg/response"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
)

type Handler struct {
	hub      *Hub
	jwt      *jwt.Service
	upgrader websocket.Upgrader
}

// NewHandler builds the websocket endpoint. An empty allowedOrigins list accepts any origin.
func NewHandler(hub *Hub, jwtService *jwt.Service, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Handler{
		hub: hub,
		jwt: jwtService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/ws", h.Connect)
}

// Connect upgrades GET /ws?token=JWT. Browsers cannot set headers on the handshake.
func (h *Handler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "AUTH_TOKEN_MISSING", "token query parameter is required")
		return
	}
	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws_upgrade_failed user_id=%d error=%q", claims.UserID, err.Error())
		return
	}

	userID := claims.UserID
	h.hub.Register(userID, conn)
	log.Printf("ws_connected user_id=%d", userID)

	done := make(chan struct{})
	defer func() {
		close(done)
		h.hub.Unregister(userID, conn)
		log.Printf("ws_disconnected user_id=%d", userID)
	}()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go h.pingLoop(userID, done)

	// The channel is push-only; reads just keep the deadline and detect close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws_read_error user_id=%d error=%q", userID, err.Error())
			}
			return
		}
	}
}

func (h *Handler) pingLoop(userID int64, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			c := h.hub.get(userID)
			if c == nil {
				return
			}
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
