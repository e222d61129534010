package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleLeave removes the caller from the room. The room is closed once
// nobody is left.
func (ctx *Context) HandleLeave(c *gin.Context) {
	pid := playerID(c)
	if err := ctx.Rooms.Leave(c.Request.Context(), c.Param("code"), pid); err != nil {
		abortWithError(c, err)
		return
	}
	log.Printf("handlers: player %s left %s", pid, NormalizedCode(c))
	c.SetCookie(PlayerCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

// HandleReset sends the room back to the lobby. Host only.
func (ctx *Context) HandleReset(c *gin.Context) {
	if err := ctx.Rooms.Reset(c.Request.Context(), c.Param("code"), playerID(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
