package main

import (
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Devika499/Real-Time-Collaborative-Drawing-Canvas/canvas"
	"github.com/Devika499/Real-Time-Collaborative-Drawing-Canvas/export"
	"github.com/Devika499/Real-Time-Collaborative-Drawing-Canvas/shared/configs"
	"github.com/Devika499/Real-Time-Collaborative-Drawing-Canvas/shared/logger"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.GET("/health", func(ctx *gin.Context) { ctx.String(200, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")

		// Non-browser clients (the Go client, curl) send no Origin header.
		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Authorization",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func main() {
	envs := configs.Load()
	logger.Setup(envs.LogLevel)
	if envs.GinMode != "" {
		gin.SetMode(envs.GinMode)
	}

	registry := canvas.NewRegistry()
	idGen := canvas.NewUuidGenerator()
	tickerGen := canvas.NewIntervalTickerCreator()

	hub := canvas.NewHub(registry, idGen, tickerGen, envs.MaxStrokeWidth)

	hubStarted := make(chan struct{})
	go hub.HubActor(hubStarted)
	<-hubStarted

	r := CreateServer(envs.AllowedOrigins)

	canvasHandler := canvas.NewCanvasHandler(hub, idGen)
	{
		canvasGroup := r.Group("/canvas")
		canvasGroup.GET("/join/:roomid", canvasHandler.JoinRoomHandler)
		canvasGroup.GET("/rooms", canvasHandler.GetRoomsHandler)
		canvasGroup.GET("/export/:roomid", export.RoomHandler(hub))
	}

	log.Info().Str("addr", envs.Addr).Msg("canvas server listening")
	r.Run(envs.Addr)
}
