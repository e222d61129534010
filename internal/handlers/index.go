// Package handlers serves the HTTP API in front of the room dispatcher.
package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Tydestiny/Incan-Gold/internal/archive"
	"github.com/Tydestiny/Incan-Gold/internal/rooms"
	"github.com/Tydestiny/Incan-Gold/internal/sse"
)

var debug bool

func init() {
	debug = os.Getenv("DEBUG") != ""
}

// Context holds shared application dependencies
type Context struct {
	Rooms     *rooms.Manager
	Hub       *sse.Hub
	Archive   *archive.Store // nil disables the leaderboard
	StartedAt time.Time
}

// Router builds the gin engine with every route registered
func (ctx *Context) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if debug {
		r.Use(gin.Logger())
	}

	r.GET("/status", ctx.HandleStatus)
	r.GET("/leaderboard", ctx.HandleLeaderboard)

	r.POST("/rooms", ctx.HandleCreateRoom)
	room := r.Group("/rooms/:code")
	{
		room.GET("", ctx.HandleRoom)
		room.GET("/events", ctx.HandleEvents)
		room.POST("/join", ctx.HandleJoinRoom)
		room.POST("/leave", ctx.HandleLeave)
		room.POST("/ready", ctx.HandleToggleReady)
		room.POST("/bots", ctx.HandleAddBot)
		room.POST("/start", ctx.HandleStartGame)
		room.POST("/decide", ctx.HandleDecide)
		room.POST("/confirm", ctx.HandleConfirm)
		room.POST("/reset", ctx.HandleReset)
	}
	return r
}

// HandleStatus reports process level counters
func (ctx *Context) HandleStatus(c *gin.Context) {
	sessions := ctx.Rooms.Sessions()
	clients := 0
	if ctx.Hub != nil {
		for _, code := range sessions.Codes() {
			clients += ctx.Hub.ClientCount(code)
		}
	}
	status := gin.H{
		"rooms":   sessions.Len(),
		"clients": clients,
		"uptime":  time.Since(ctx.StartedAt).Round(time.Second).String(),
	}
	if ctx.Archive != nil {
		if n, err := ctx.Archive.CountGames(c.Request.Context()); err == nil {
			status["games"] = n
		}
	}
	c.JSON(http.StatusOK, status)
}
