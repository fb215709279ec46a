package canvas

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type CanvasHandler struct {
	hub         *Hub
	idGenerator UniqueIdGenerator
}

func NewCanvasHandler(hub *Hub, idGenerator UniqueIdGenerator) *CanvasHandler {
	return &CanvasHandler{hub: hub, idGenerator: idGenerator}
}

// JoinRoomHandler upgrades the request and hands the connection to the room
// named in the path, creating it on first use. Cross-origin policy is
// enforced by the server middleware, so the upgrader itself accepts any
// origin.
func (h *CanvasHandler) JoinRoomHandler(ctx *gin.Context) {
	roomID := ctx.Param("roomid")
	if roomID == "" || len(roomID) > 64 {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid-room-id"})
		return
	}

	userID := h.idGenerator.Generate()
	username := ctx.Query("name")
	if username == "" {
		username = "guest-" + userID[:8]
	}
	if len(username) > 32 {
		username = username[:32]
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("room", roomID).Msg("WS upgrade failed")
		return
	}

	socketConn := NewWebsocketConnection(conn)
	client := NewClient(userID, username, socketConn)

	if err := h.hub.Join(ctx.Request.Context(), roomID, client); err != nil {
		log.Warn().Err(err).Str("room", roomID).Str("user", userID).Msg("join rejected")
		socketConn.Close(err.Error())
		return
	}

	go client.ReadPump()
	go client.WritePump()
}

func (h *CanvasHandler) GetRoomsHandler(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.hub.GetRooms(ctx.Request.Context()))
}
