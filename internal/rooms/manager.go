// Package rooms routes inbound operations to the session of each room.
package rooms

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Tydestiny/Incan-Gold/internal/game"
	"github.com/Tydestiny/Incan-Gold/internal/models"
	"github.com/Tydestiny/Incan-Gold/internal/store"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrNotHost      = errors.New("only the host can do that")
	ErrNameRequired = errors.New("name is required")
)

// ErrorReporter delivers a failed operation's reason to the player that
// requested it
type ErrorReporter interface {
	ReportError(room, playerID string, err error)
}

// Manager is the dispatcher in front of the session store
type Manager struct {
	sessions  *store.SessionStore
	rules     game.Rules
	notifier  game.Notifiers
	reporters []ErrorReporter
	closers   []func(room string)
	opts      []game.Option
	tracer    trace.Tracer
}

// Option configures a Manager
type Option func(*Manager)

// WithNotifier adds a sink that receives every session's events
func WithNotifier(n game.Notifier) Option {
	return func(m *Manager) { m.notifier = append(m.notifier, n) }
}

// WithErrorReporter adds a per-player error sink
func WithErrorReporter(r ErrorReporter) Option {
	return func(m *Manager) { m.reporters = append(m.reporters, r) }
}

// WithCloseHook registers fn to run after an empty room is removed
func WithCloseHook(fn func(room string)) Option {
	return func(m *Manager) { m.closers = append(m.closers, fn) }
}

// WithSessionOptions passes options to every session the manager creates
func WithSessionOptions(opts ...game.Option) Option {
	return func(m *Manager) { m.opts = append(m.opts, opts...) }
}

// NewManager creates a dispatcher over sessions using rules for new rooms
func NewManager(sessions *store.SessionStore, rules game.Rules, opts ...Option) *Manager {
	m := &Manager{
		sessions: sessions,
		rules:    rules,
		tracer:   otel.Tracer("github.com/Tydestiny/Incan-Gold/internal/rooms"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Sessions exposes the underlying store
func (m *Manager) Sessions() *store.SessionStore {
	return m.sessions
}

func (m *Manager) span(ctx context.Context, op, room, playerID string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "rooms."+op, trace.WithAttributes(
		attribute.String("room", room),
		attribute.String("player", playerID),
	))
}

// finish records err on the span and reports it to the requesting player
func (m *Manager) finish(span trace.Span, room, playerID string, err error) error {
	defer span.End()
	if err == nil {
		return nil
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if playerID != "" && !errors.Is(err, ErrRoomNotFound) {
		for _, r := range m.reporters {
			r.ReportError(room, playerID, err)
		}
	}
	if debug {
		log.Printf("rooms: %s/%s: %v", room, playerID, err)
	}
	return err
}

// Get returns the session of a room
func (m *Manager) Get(code string) (*game.Session, error) {
	sess, ok := m.sessions.Get(NormalizeCode(code))
	if !ok {
		return nil, ErrRoomNotFound
	}
	return sess, nil
}

// NormalizeCode trims and upper-cases a user supplied room code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Create opens a new room and seats its creator as host
func (m *Manager) Create(ctx context.Context, hostName string) (room, playerID string, err error) {
	_, span := m.span(ctx, "create", "", "")
	hostName = strings.TrimSpace(hostName)
	if hostName == "" {
		return "", "", m.finish(span, "", "", ErrNameRequired)
	}

	sess := m.sessions.Create(func(code string) *game.Session {
		opts := append([]game.Option{game.WithNotifier(m.notifier)}, m.opts...)
		return game.New(code, m.rules, opts...)
	})
	playerID = uuid.New().String()
	if err := sess.Join(playerID, hostName); err != nil {
		m.sessions.Delete(sess.Code())
		return "", "", m.finish(span, sess.Code(), "", fmt.Errorf("seating host: %w", err))
	}
	span.SetAttributes(attribute.String("room", sess.Code()))
	log.Printf("rooms: created %s host=%s", sess.Code(), playerID)
	return sess.Code(), playerID, m.finish(span, sess.Code(), playerID, nil)
}

// Join seats a new human player and returns their id
func (m *Manager) Join(ctx context.Context, code, name string) (string, error) {
	code = NormalizeCode(code)
	_, span := m.span(ctx, "join", code, "")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", m.finish(span, code, "", ErrNameRequired)
	}
	sess, err := m.Get(code)
	if err != nil {
		return "", m.finish(span, code, "", err)
	}
	playerID := uuid.New().String()
	if err := m.seat(code, sess, playerID, name); err != nil {
		return "", m.finish(span, code, "", err)
	}
	return playerID, m.finish(span, code, playerID, nil)
}

// seat joins sess and checks it is still the registered session for code.
// A last-player leave may have removed the room after it was looked up.
func (m *Manager) seat(code string, sess *game.Session, playerID, name string) error {
	if err := sess.Join(playerID, name); err != nil {
		return err
	}
	if cur, ok := m.sessions.Get(code); !ok || cur != sess {
		log.Printf("rooms: %s closed while %s was joining", code, playerID)
		return ErrRoomNotFound
	}
	return nil
}

// Leave removes a player and deletes the room once nobody is left
func (m *Manager) Leave(ctx context.Context, code, playerID string) error {
	code = NormalizeCode(code)
	_, span := m.span(ctx, "leave", code, playerID)
	sess, err := m.Get(code)
	if err != nil {
		return m.finish(span, code, playerID, err)
	}
	if err := sess.Leave(playerID); err != nil {
		return m.finish(span, code, "", err)
	}
	if m.sessions.DeleteIfEmpty(code) {
		log.Printf("rooms: %s is empty, removed", code)
		for _, fn := range m.closers {
			fn(code)
		}
	}
	return m.finish(span, code, playerID, nil)
}

// ToggleReady flips a player's ready flag
func (m *Manager) ToggleReady(ctx context.Context, code, playerID string) (bool, error) {
	code = NormalizeCode(code)
	_, span := m.span(ctx, "ready", code, playerID)
	sess, err := m.Get(code)
	if err != nil {
		return false, m.finish(span, code, playerID, err)
	}
	ready, err := sess.ToggleReady(playerID)
	return ready, m.finish(span, code, playerID, err)
}

// AddBot seats an automated player. Host only.
func (m *Manager) AddBot(ctx context.Context, code, playerID, name string) (models.Player, error) {
	code = NormalizeCode(code)
	_, span := m.span(ctx, "add_bot", code, playerID)
	sess, err := m.hostSession(code, playerID)
	if err != nil {
		return models.Player{}, m.finish(span, code, playerID, err)
	}
	p, err := sess.AddAutomatedPlayer(strings.TrimSpace(name))
	return p, m.finish(span, code, playerID, err)
}

// Start begins the game. Host only.
func (m *Manager) Start(ctx context.Context, code, playerID string) error {
	code = NormalizeCode(code)
	_, span := m.span(ctx, "start", code, playerID)
	sess, err := m.hostSession(code, playerID)
	if err != nil {
		return m.finish(span, code, playerID, err)
	}
	return m.finish(span, code, playerID, sess.Start())
}

// Reset returns the room to the lobby. Host only.
func (m *Manager) Reset(ctx context.Context, code, playerID string) error {
	code = NormalizeCode(code)
	_, span := m.span(ctx, "reset", code, playerID)
	sess, err := m.hostSession(code, playerID)
	if err != nil {
		return m.finish(span, code, playerID, err)
	}
	sess.Reset()
	return m.finish(span, code, playerID, nil)
}

// Decide records a choice and, when confirm is set, locks it in
func (m *Manager) Decide(ctx context.Context, code, playerID string, choice models.Choice, confirm bool) error {
	code = NormalizeCode(code)
	_, span := m.span(ctx, "decide", code, playerID)
	span.SetAttributes(attribute.String("choice", string(choice)), attribute.Bool("confirm", confirm))
	sess, err := m.Get(code)
	if err != nil {
		return m.finish(span, code, playerID, err)
	}
	if err := sess.Submit(playerID, choice); err != nil {
		// a rejected submission is not pushed to the player's stream
		return m.finish(span, code, "", err)
	}
	if confirm {
		err = sess.Confirm(playerID)
	}
	return m.finish(span, code, playerID, err)
}

// Confirm locks in the player's recorded choice
func (m *Manager) Confirm(ctx context.Context, code, playerID string) error {
	code = NormalizeCode(code)
	_, span := m.span(ctx, "confirm", code, playerID)
	sess, err := m.Get(code)
	if err != nil {
		return m.finish(span, code, playerID, err)
	}
	return m.finish(span, code, playerID, sess.Confirm(playerID))
}

func (m *Manager) hostSession(code, playerID string) (*game.Session, error) {
	sess, err := m.Get(code)
	if err != nil {
		return nil, err
	}
	if _, ok := sess.Player(playerID); !ok {
		return nil, game.ErrUnknownPlayer
	}
	if !sess.IsHost(playerID) {
		return nil, ErrNotHost
	}
	return sess, nil
}
