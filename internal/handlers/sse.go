package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tydestiny/Incan-Gold/internal/render"
	"github.com/Tydestiny/Incan-Gold/internal/sse"
)

// HandleEvents streams the room's notifications as Server-Sent Events.
// Callers without a seat receive the public stream only.
func (ctx *Context) HandleEvents(c *gin.Context) {
	code := NormalizedCode(c)
	sess, err := ctx.Rooms.Get(code)
	if err != nil {
		abortWithError(c, err)
		return
	}
	pid := playerID(c)
	if _, ok := sess.Player(pid); !ok {
		pid = ""
	}
	if debug {
		log.Printf("handlers: sse connect room=%s player=%s", code, pid)
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	// register before the snapshot so nothing emitted in between is lost
	client := ctx.Hub.AddClient(code, pid)
	defer ctx.Hub.RemoveClient(code, client)

	c.SSEvent(sse.EventSnapshot, render.RoomFor(sess.View(), sess.Rules(), pid))
	c.Writer.Flush()

	reqCtx := c.Request.Context()
	for {
		select {
		case <-reqCtx.Done():
			if debug {
				log.Printf("handlers: sse client %s disconnected from %s", pid, code)
			}
			return
		case msg := <-client.C:
			if !writeEvent(c, msg) {
				return
			}
		case <-client.Gone():
			// flush what was queued before the hub dropped us
			for {
				select {
				case msg := <-client.C:
					if !writeEvent(c, msg) {
						return
					}
				default:
					log.Printf("handlers: sse client %s in %s dropped for falling behind", pid, code)
					return
				}
			}
		}
	}
}

// writeEvent sends one event and reports whether the stream stays open
func writeEvent(c *gin.Context, msg sse.Message) bool {
	c.SSEvent(msg.Event, msg.Data)
	c.Writer.Flush()
	return msg.Event != sse.EventRoomClosed
}
