package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Tydestiny/Incan-Gold/internal/models"
	"github.com/Tydestiny/Incan-Gold/internal/rooms"
)

// Operation names, served on <prefix>.op.<name>
const (
	OpCreate  = "create"
	OpJoin    = "join"
	OpLeave   = "leave"
	OpReady   = "ready"
	OpAddBot  = "addBot"
	OpStart   = "start"
	OpDecide  = "decide"
	OpConfirm = "confirm"
	OpReset   = "reset"
	OpState   = "state"
)

var allOps = []string{OpCreate, OpJoin, OpLeave, OpReady, OpAddBot, OpStart, OpDecide, OpConfirm, OpReset, OpState}

// opTimeout bounds a single request
const opTimeout = 5 * time.Second

// Request is the body of an operation request
type Request struct {
	Room     string        `json:"room,omitempty"`
	PlayerID string        `json:"player_id,omitempty"`
	Name     string        `json:"name,omitempty"`
	Choice   models.Choice `json:"choice,omitempty"`
	Confirm  bool          `json:"confirm,omitempty"`
}

// Reply is the body of an operation reply
type Reply struct {
	OK       bool   `json:"ok"`
	Room     string `json:"room,omitempty"`
	PlayerID string `json:"player_id,omitempty"`
	Ready    *bool  `json:"ready,omitempty"`
	State    any    `json:"state,omitempty"`
	Err      string `json:"err,omitempty"`
}

// Server answers room operations arriving over NATS
type Server struct {
	m      *rooms.Manager
	prefix string
}

// NewServer returns a server dispatching to m
func NewServer(m *rooms.Manager, prefix string) *Server {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Server{m: m, prefix: prefix}
}

// OpSubject is the request subject for op
func OpSubject(prefix, op string) string {
	return prefix + ".op." + op
}

// Subscribe registers a request handler for every operation
func (s *Server) Subscribe(nc *nats.Conn) ([]*nats.Subscription, error) {
	subs := make([]*nats.Subscription, 0, len(allOps))
	for _, op := range allOps {
		sub, err := nc.Subscribe(OpSubject(s.prefix, op), func(msg *nats.Msg) {
			ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
			defer cancel()
			if err := msg.Respond(s.Handle(ctx, op, msg.Data)); err != nil {
				log.Printf("bus: reply to %s: %v", op, err)
			}
		})
		if err != nil {
			for _, prev := range subs {
				_ = prev.Unsubscribe()
			}
			return nil, fmt.Errorf("subscribe %s: %w", op, err)
		}
		subs = append(subs, sub)
	}
	log.Printf("bus: serving %d operations on %s.op.*", len(subs), s.prefix)
	return subs, nil
}

// Handle runs one operation and returns the encoded reply
func (s *Server) Handle(ctx context.Context, op string, data []byte) []byte {
	var req Request
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			return encode(Reply{Err: "malformed request: " + err.Error()})
		}
	}
	reply, err := s.dispatch(ctx, op, req)
	if err != nil {
		reply = Reply{Room: req.Room, PlayerID: req.PlayerID, Err: err.Error()}
	} else {
		reply.OK = true
	}
	return encode(reply)
}

func (s *Server) dispatch(ctx context.Context, op string, req Request) (Reply, error) {
	switch op {
	case OpCreate:
		room, pid, err := s.m.Create(ctx, req.Name)
		return Reply{Room: room, PlayerID: pid}, err
	case OpJoin:
		pid, err := s.m.Join(ctx, req.Room, req.Name)
		return Reply{Room: rooms.NormalizeCode(req.Room), PlayerID: pid}, err
	case OpLeave:
		return Reply{}, s.m.Leave(ctx, req.Room, req.PlayerID)
	case OpReady:
		ready, err := s.m.ToggleReady(ctx, req.Room, req.PlayerID)
		return Reply{Ready: &ready}, err
	case OpAddBot:
		p, err := s.m.AddBot(ctx, req.Room, req.PlayerID, req.Name)
		return Reply{PlayerID: p.ID}, err
	case OpStart:
		return Reply{}, s.m.Start(ctx, req.Room, req.PlayerID)
	case OpDecide:
		return Reply{}, s.m.Decide(ctx, req.Room, req.PlayerID, req.Choice, req.Confirm)
	case OpConfirm:
		return Reply{}, s.m.Confirm(ctx, req.Room, req.PlayerID)
	case OpReset:
		return Reply{}, s.m.Reset(ctx, req.Room, req.PlayerID)
	case OpState:
		sess, err := s.m.Get(req.Room)
		if err != nil {
			return Reply{}, err
		}
		return Reply{Room: sess.Code(), State: sess.View()}, nil
	default:
		return Reply{}, fmt.Errorf("unknown operation %q", op)
	}
}

func encode(r Reply) []byte {
	data, err := json.Marshal(r)
	if err != nil {
		return []byte(`{"ok":false,"err":"encoding reply"}`)
	}
	return data
}
