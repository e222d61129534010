// Package bus mirrors room events onto NATS and serves room operations as
// request/reply subjects.
package bus

import (
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Tydestiny/Incan-Gold/internal/game"
)

// DefaultPrefix roots every subject this service uses
const DefaultPrefix = "incan"

// BrokerConnect dials the NATS server with reconnect settings
func BrokerConnect(url, name string) (*nats.Conn, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	opts := []nats.Option{
		nats.Name(name),
		nats.Timeout(10 * time.Second),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(5),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Printf("bus: disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("bus: reconnected to %s", nc.ConnectedUrl())
		}),
	}
	return nats.Connect(url, opts...)
}

// Conn is the publishing half of a NATS connection
type Conn interface {
	Publish(subj string, data []byte) error
}

// Publisher forwards session events to NATS
type Publisher struct {
	nc     Conn
	prefix string
}

// NewPublisher returns a publisher rooted at prefix
func NewPublisher(nc Conn, prefix string) *Publisher {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Publisher{nc: nc, prefix: prefix}
}

// EventSubject is where events of kind for room are published
func EventSubject(prefix, room string, kind game.EventKind) string {
	return prefix + ".room." + room + "." + string(kind)
}

// ErrorSubject is where a player's failed operations are reported
func ErrorSubject(prefix, room, playerID string) string {
	return prefix + ".room." + room + ".player." + playerID + ".error"
}

// Notify implements game.Notifier
func (p *Publisher) Notify(ev game.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("bus: encoding %s for %s: %v", ev.Kind, ev.Room, err)
		return
	}
	if err := p.nc.Publish(EventSubject(p.prefix, ev.Room, ev.Kind), data); err != nil {
		log.Printf("bus: publish %s for %s: %v", ev.Kind, ev.Room, err)
	}
}

// ReportError implements rooms.ErrorReporter
func (p *Publisher) ReportError(room, playerID string, err error) {
	data, _ := json.Marshal(game.ErrorPayload{Reason: err.Error()})
	if perr := p.nc.Publish(ErrorSubject(p.prefix, room, playerID), data); perr != nil {
		log.Printf("bus: publish error for %s/%s: %v", room, playerID, perr)
	}
}
