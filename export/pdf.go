package export

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog/log"

	"github.com/Devika499/Real-Time-Collaborative-Drawing-Canvas/canvas"
)

// Canvas pixels to PDF millimetres.
const pointScale = 3

// WritePDF renders the committed strokes onto a single landscape A4 page, in
// replay order so eraser strokes cover what they erased. Strokes with fewer
// than two points have no extent and are skipped.
func WritePDF(w io.Writer, ops []canvas.Operation) error {
	p := gofpdf.New("L", "mm", "A4", "")
	p.AddPage()

	for _, op := range ops {
		if len(op.Points) < 2 {
			continue
		}
		red, green, blue := parseHexColor(op.Color)
		p.SetDrawColor(red, green, blue)
		p.SetLineWidth(float64(op.StrokeWidth) / pointScale)
		for i := 1; i < len(op.Points); i++ {
			p.Line(
				op.Points[i-1].X/pointScale, op.Points[i-1].Y/pointScale,
				op.Points[i].X/pointScale, op.Points[i].Y/pointScale,
			)
		}
	}
	return p.Output(w)
}

// RoomHandler serves the room's current snapshot as a PDF download.
func RoomHandler(hub *canvas.Hub) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		roomID := ctx.Param("roomid")
		roomLog, err := hub.GetRoomLog(ctx.Request.Context(), roomID)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		ctx.Header("Content-Type", "application/pdf")
		ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", roomID+".pdf"))
		if err := WritePDF(ctx.Writer, roomLog.Snapshot()); err != nil {
			log.Error().Err(err).Str("room", roomID).Msg("PDF export failed")
		}
	}
}

// parseHexColor reads #rrggbb. Anything it cannot parse renders black.
func parseHexColor(color string) (int, int, int) {
	if len(color) != 7 || color[0] != '#' {
		return 0, 0, 0
	}
	red, err1 := strconv.ParseUint(color[1:3], 16, 8)
	green, err2 := strconv.ParseUint(color[3:5], 16, 8)
	blue, err3 := strconv.ParseUint(color[5:7], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0
	}
	return int(red), int(green), int(blue)
}
