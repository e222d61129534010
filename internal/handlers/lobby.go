package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tydestiny/Incan-Gold/internal/render"
	"github.com/Tydestiny/Incan-Gold/internal/rooms"
)

type nameRequest struct {
	Name string `json:"name" form:"name"`
}

type seatResponse struct {
	Room     string `json:"room"`
	PlayerID string `json:"playerId"`
}

// bindName reads an optional name from a JSON or form body
func bindName(c *gin.Context) (string, error) {
	var req nameRequest
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return render.DisplayName(req.Name, MaxNameLength), nil
}

// HandleCreateRoom opens a room and seats the caller as host
func (ctx *Context) HandleCreateRoom(c *gin.Context) {
	name, err := bindName(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	room, pid, err := ctx.Rooms.Create(c.Request.Context(), name)
	if err != nil {
		abortWithError(c, err)
		return
	}
	setPlayerCookie(c, pid)
	c.JSON(http.StatusCreated, seatResponse{Room: room, PlayerID: pid})
}

// HandleJoinRoom seats the caller in an existing lobby
func (ctx *Context) HandleJoinRoom(c *gin.Context) {
	name, err := bindName(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	code := c.Param("code")
	pid, err := ctx.Rooms.Join(c.Request.Context(), code, name)
	if err != nil {
		abortWithError(c, err)
		return
	}
	setPlayerCookie(c, pid)
	c.JSON(http.StatusOK, seatResponse{Room: NormalizedCode(c), PlayerID: pid})
}

// HandleToggleReady flips the caller's ready flag
func (ctx *Context) HandleToggleReady(c *gin.Context) {
	ready, err := ctx.Rooms.ToggleReady(c.Request.Context(), c.Param("code"), playerID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ready": ready})
}

// HandleAddBot seats an automated player. Host only.
func (ctx *Context) HandleAddBot(c *gin.Context) {
	name, err := bindName(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := ctx.Rooms.AddBot(c.Request.Context(), c.Param("code"), playerID(c), name)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// NormalizedCode returns the room code path parameter in canonical form
func NormalizedCode(c *gin.Context) string {
	return rooms.NormalizeCode(c.Param("code"))
}
