package game

import (
	"fmt"
	"log"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/Tydestiny/Incan-Gold/internal/models"
	"github.com/google/uuid"
)

var debug bool

func init() {
	debug = os.Getenv("DEBUG") != ""
}

// SetDebug toggles verbose engine logging
func SetDebug(on bool) {
	debug = on
}

// Session owns the state of one room and implements every game transition.
//
// All exported methods run to completion under the session lock. Events
// queued during an operation are delivered after the state lock is released,
// in emission order, before the next operation can deliver its own.
type Session struct {
	mu     sync.Mutex
	emitMu sync.Mutex

	code     string
	rules    Rules
	sched    Scheduler
	decider  Decider
	notifier Notifier
	shuffler Shuffler
	deckFn   DeckFunc
	newID    func() string

	phase     models.SessionPhase
	round     int
	players   []*models.Player // join order, index 0 is host
	deck      []models.Card
	path      []models.Card
	inTemple  []string
	hazards   map[models.HazardKind]int
	removed   map[models.HazardKind]int
	decisions map[string]models.Choice
	confirmed map[string]bool
	waiting   bool
	window    uint64
	artifacts []int
	winnerID  string
	bots      int

	// tick advances on every transition; scheduled steps captured under an
	// older tick are dropped.
	tick   uint64
	seq    uint64
	outbox []Event
}

// Option configures a Session
type Option func(*Session)

// WithScheduler sets the facility used for delayed transitions
func WithScheduler(s Scheduler) Option {
	return func(sess *Session) { sess.sched = s }
}

// WithDecider sets the automated-decision policy
func WithDecider(d Decider) Option {
	return func(sess *Session) { sess.decider = d }
}

// WithNotifier sets the sink for outbound events
func WithNotifier(n Notifier) Option {
	return func(sess *Session) { sess.notifier = n }
}

// WithShuffler sets the randomness used for decks and the artifact sequence
func WithShuffler(s Shuffler) Option {
	return func(sess *Session) { sess.shuffler = s }
}

// WithDeck overrides deck construction
func WithDeck(fn DeckFunc) Option {
	return func(sess *Session) { sess.deckFn = fn }
}

// WithIDGenerator sets how automated players get their ids
func WithIDGenerator(fn func() string) Option {
	return func(sess *Session) { sess.newID = fn }
}

// New creates a session in the lobby phase
func New(code string, rules Rules, opts ...Option) *Session {
	s := &Session{
		code:      code,
		rules:     rules,
		sched:     TimerScheduler{},
		notifier:  discard{},
		newID:     func() string { return uuid.New().String() },
		phase:     models.PhaseLobby,
		hazards:   make(map[models.HazardKind]int),
		removed:   make(map[models.HazardKind]int),
		decisions: make(map[string]models.Choice),
		confirmed: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.shuffler == nil {
		s.shuffler = NewShuffler()
	}
	if s.deckFn == nil {
		s.deckFn = StandardDeck(s.rules, s.shuffler)
	}
	return s
}

// Code returns the room code
func (s *Session) Code() string {
	return s.code
}

// Rules returns the rule set the session plays with
func (s *Session) Rules() Rules {
	return s.rules
}

func (s *Session) lock() {
	s.mu.Lock()
}

// unlock releases the state lock and delivers the queued events. emitMu is
// taken before mu is released so deliveries keep operation order.
func (s *Session) unlock() {
	events := s.outbox
	s.outbox = nil
	s.emitMu.Lock()
	s.mu.Unlock()
	defer s.emitMu.Unlock()
	for _, ev := range events {
		s.notifier.Notify(ev)
	}
}

func (s *Session) emit(kind EventKind, payload any) {
	s.seq++
	s.outbox = append(s.outbox, Event{Room: s.code, Seq: s.seq, Kind: kind, Payload: payload})
	if debug {
		log.Printf("session %s: emit seq=%d event=%s", s.code, s.seq, kind)
	}
}

func (s *Session) advance() {
	s.tick++
}

// schedule runs step after d unless another transition happened meanwhile
func (s *Session) schedule(d time.Duration, step func()) {
	tick := s.tick
	s.sched.After(d, func() {
		s.lock()
		defer s.unlock()
		if s.tick != tick {
			if debug {
				log.Printf("session %s: dropping stale step (tick %d, now %d)", s.code, tick, s.tick)
			}
			return
		}
		step()
	})
}

func (s *Session) index(id string) int {
	return slices.IndexFunc(s.players, func(p *models.Player) bool { return p.ID == id })
}

func (s *Session) find(id string) *models.Player {
	if i := s.index(id); i >= 0 {
		return s.players[i]
	}
	return nil
}

func (s *Session) playerList() []models.Player {
	list := make([]models.Player, len(s.players))
	for i, p := range s.players {
		list[i] = p.Clone()
	}
	return list
}

func (s *Session) emitPlayers() {
	s.emit(EventPlayersUpdated, PlayersPayload{Players: s.playerList()})
}

// Join adds a human player. Only allowed in the lobby.
func (s *Session) Join(id, name string) error {
	s.lock()
	defer s.unlock()

	if s.phase != models.PhaseLobby {
		return ErrInvalidPhase
	}
	if s.find(id) != nil {
		return ErrPlayerExists
	}
	s.players = append(s.players, &models.Player{
		ID:    id,
		Name:  name,
		Phase: models.PlayerWaiting,
	})
	log.Printf("session %s: player joined id=%s name=%s", s.code, id, name)
	s.emitPlayers()
	return nil
}

// AddAutomatedPlayer seats a policy-driven player, always ready. An empty
// name gets a numbered default.
func (s *Session) AddAutomatedPlayer(name string) (models.Player, error) {
	s.lock()
	defer s.unlock()

	if s.phase != models.PhaseLobby {
		return models.Player{}, ErrInvalidPhase
	}
	s.bots++
	if name == "" {
		name = fmt.Sprintf("Bot %d", s.bots)
	}
	p := &models.Player{
		ID:        s.newID(),
		Name:      name,
		Automated: true,
		Phase:     models.PlayerWaiting,
		Ready:     true,
	}
	s.players = append(s.players, p)
	log.Printf("session %s: automated player added id=%s name=%s", s.code, p.ID, p.Name)
	s.emitPlayers()
	return p.Clone(), nil
}

// ToggleReady flips a player's ready flag and returns the new value.
// Automated players stay ready.
func (s *Session) ToggleReady(id string) (bool, error) {
	s.lock()
	defer s.unlock()

	p := s.find(id)
	if p == nil {
		return false, ErrUnknownPlayer
	}
	if s.phase != models.PhaseLobby {
		return p.Ready, ErrInvalidPhase
	}
	if p.Automated {
		return true, nil
	}
	p.Ready = !p.Ready
	s.emitPlayers()
	return p.Ready, nil
}

// Leave removes a player from the room and from the expedition. When the
// host leaves, the new host has to ready up again.
func (s *Session) Leave(id string) error {
	s.lock()
	defer s.unlock()

	idx := s.index(id)
	if idx < 0 {
		return ErrUnknownPlayer
	}
	s.players = slices.Delete(s.players, idx, idx+1)
	s.inTemple = slices.DeleteFunc(s.inTemple, func(pid string) bool { return pid == id })
	delete(s.decisions, id)
	delete(s.confirmed, id)
	if idx == 0 && len(s.players) > 0 && !s.players[0].Automated {
		s.players[0].Ready = false
	}
	log.Printf("session %s: player left id=%s remaining=%d", s.code, id, len(s.players))
	s.emitPlayers()

	if len(s.players) == 0 {
		if s.phase != models.PhaseLobby {
			s.clearGame()
			s.phase = models.PhaseLobby
		}
		return nil
	}
	if s.phase == models.PhasePlaying && s.waiting {
		s.checkBarrier()
	}
	return nil
}

// Start begins the first round once enough players are ready
func (s *Session) Start() error {
	s.lock()
	defer s.unlock()

	if s.phase != models.PhaseLobby {
		return ErrInvalidPhase
	}
	if len(s.players) < s.rules.MinPlayers {
		return ErrNotEnoughPlayers
	}
	for _, p := range s.players {
		if !p.Ready {
			return ErrPlayersNotReady
		}
	}

	s.advance()
	s.phase = models.PhasePlaying
	s.round = 1
	s.winnerID = ""
	for _, p := range s.players {
		p.Treasure = 0
		p.RoundGain = 0
	}
	clear(s.removed)
	s.artifacts = slices.Clone(s.rules.ArtifactValues)
	s.shuffler.Shuffle(len(s.artifacts), func(i, j int) {
		s.artifacts[i], s.artifacts[j] = s.artifacts[j], s.artifacts[i]
	})
	log.Printf("session %s: game started with %d players", s.code, len(s.players))
	s.emit(EventGameStarted, RoundPayload{Round: s.round, Players: s.playerList()})
	s.beginRound()
	return nil
}

// Reset returns the room to the lobby, keeping the roster and join order
func (s *Session) Reset() {
	s.lock()
	defer s.unlock()

	s.clearGame()
	s.phase = models.PhaseLobby
	for _, p := range s.players {
		p.Ready = p.Automated
		p.Treasure = 0
		p.RoundGain = 0
		p.Phase = models.PlayerWaiting
	}
	log.Printf("session %s: reset to lobby", s.code)
	s.emit(EventGameReset, PlayersPayload{Players: s.playerList()})
}

func (s *Session) clearGame() {
	s.advance()
	s.round = 0
	s.winnerID = ""
	s.deck = nil
	s.path = nil
	s.inTemple = nil
	s.waiting = false
	s.artifacts = nil
	clear(s.hazards)
	clear(s.removed)
	clear(s.decisions)
	clear(s.confirmed)
}
