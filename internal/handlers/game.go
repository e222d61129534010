package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tydestiny/Incan-Gold/internal/models"
	"github.com/Tydestiny/Incan-Gold/internal/render"
)

type decideRequest struct {
	Choice  models.Choice `json:"choice" form:"choice" binding:"required"`
	Confirm bool          `json:"confirm" form:"confirm"`
}

// HandleRoom returns the room as seen by the caller
func (ctx *Context) HandleRoom(c *gin.Context) {
	sess, err := ctx.Rooms.Get(c.Param("code"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, render.RoomFor(sess.View(), sess.Rules(), playerID(c)))
}

// HandleStartGame begins the first round. Host only.
func (ctx *Context) HandleStartGame(c *gin.Context) {
	if err := ctx.Rooms.Start(c.Request.Context(), c.Param("code"), playerID(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleDecide records continue or return, locking it in when confirm is set
func (ctx *Context) HandleDecide(c *gin.Context) {
	var req decideRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := ctx.Rooms.Decide(c.Request.Context(), c.Param("code"), playerID(c), req.Choice, req.Confirm)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleConfirm locks in the caller's recorded choice
func (ctx *Context) HandleConfirm(c *gin.Context) {
	if err := ctx.Rooms.Confirm(c.Request.Context(), c.Param("code"), playerID(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
