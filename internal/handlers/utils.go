package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tydestiny/Incan-Gold/internal/game"
	"github.com/Tydestiny/Incan-Gold/internal/rooms"
)

const (
	// PlayerCookie carries the player's session id
	PlayerCookie = "player_id"

	// PlayerHeader lets non-browser clients identify themselves
	PlayerHeader = "X-Player-ID"

	// MaxNameLength caps display names
	MaxNameLength = 24
)

// playerID reads the caller's id from the header, falling back to the cookie
func playerID(c *gin.Context) string {
	if id := c.GetHeader(PlayerHeader); id != "" {
		return id
	}
	id, _ := c.Cookie(PlayerCookie)
	return id
}

func setPlayerCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	// secure should be enabled when serving over HTTPS
	c.SetCookie(PlayerCookie, id, 0, "/", "", false, true)
}

// statusFor maps an operation error onto an HTTP status code
func statusFor(err error) int {
	switch {
	case errors.Is(err, rooms.ErrRoomNotFound), errors.Is(err, game.ErrUnknownPlayer):
		return http.StatusNotFound
	case errors.Is(err, rooms.ErrNotHost):
		return http.StatusForbidden
	case errors.Is(err, rooms.ErrNameRequired), errors.Is(err, game.ErrInvalidChoice):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrInvalidPhase),
		errors.Is(err, game.ErrNotEnoughPlayers),
		errors.Is(err, game.ErrPlayersNotReady),
		errors.Is(err, game.ErrNoDecisionWindow),
		errors.Is(err, game.ErrAlreadyConfirmed),
		errors.Is(err, game.ErrDecisionPending),
		errors.Is(err, game.ErrPlayerExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError || debug {
		log.Printf("handlers: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
