package game

import "github.com/Tydestiny/Incan-Gold/internal/models"

// EventKind names an outbound notification
type EventKind string

const (
	EventPlayersUpdated    EventKind = "playersUpdated"
	EventGameStarted       EventKind = "gameStarted"
	EventRoundStarted      EventKind = "roundStarted"
	EventCardRevealed      EventKind = "cardRevealed"
	EventPlayerDecided     EventKind = "playerDecided"
	EventDecisionsRevealed EventKind = "decisionsRevealed"
	EventHazardTriggered   EventKind = "hazardTriggered"
	EventRoundSummary      EventKind = "roundSummary"
	EventRoundEnded        EventKind = "roundEnded"
	EventGameFinished      EventKind = "gameFinished"
	EventGameReset         EventKind = "gameReset"
	EventError             EventKind = "error"
)

// Event is one notification emitted by a session. Seq increases by one per
// event within a session.
type Event struct {
	Room    string    `json:"room"`
	Seq     uint64    `json:"seq"`
	Kind    EventKind `json:"event"`
	Payload any       `json:"data"`
}

// Notifier receives session events in emission order. Notify is called
// without the state lock held; it may query the session but must not call
// its mutating operations synchronously.
type Notifier interface {
	Notify(ev Event)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ev Event)

// Notify implements Notifier
func (f NotifierFunc) Notify(ev Event) { f(ev) }

// Notifiers fans an event out to every notifier in order
type Notifiers []Notifier

// Notify implements Notifier
func (ns Notifiers) Notify(ev Event) {
	for _, n := range ns {
		if n != nil {
			n.Notify(ev)
		}
	}
}

type discard struct{}

func (discard) Notify(Event) {}

// PlayersPayload carries the refreshed player list
type PlayersPayload struct {
	Players []models.Player `json:"players"`
}

// RoundPayload announces a game or round start
type RoundPayload struct {
	Round   int             `json:"round"`
	Players []models.Player `json:"players"`
}

// CardRevealedPayload carries the newly drawn card and the path
type CardRevealedPayload struct {
	Card     models.Card     `json:"card"`
	Path     []models.Card   `json:"cardTreasures"`
	DeckSize int             `json:"deckSize"`
	Players  []models.Player `json:"players"`
}

// PlayerDecidedPayload tells the room a player locked in, without the choice
type PlayerDecidedPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// QuitterShare is one retreating player's take from a resolution
type QuitterShare struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Share
}

// DecisionsRevealedPayload is emitted when a decision window resolves
type DecisionsRevealedPayload struct {
	Decisions map[string]models.Choice `json:"decisions"`
	Quitters  []QuitterShare           `json:"quitterDetails"`
	Path      []models.Card            `json:"cardTreasures"`
	Players   []models.Player          `json:"players"`
}

// HazardPayload names the hazard that ended the expedition and its victims
type HazardPayload struct {
	Hazard  models.HazardKind `json:"hazard"`
	Victims []string          `json:"victims"`
}

// Summary statuses
const (
	StatusSafe = "safe"
	StatusDead = "dead"
)

// SummaryEntry is one player's line in a round summary
type SummaryEntry struct {
	PlayerID  string `json:"playerId"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	RoundGain int    `json:"roundGains"`
}

// RoundSummaryPayload reports how every player left the expedition
type RoundSummaryPayload struct {
	Round   int            `json:"round"`
	Entries []SummaryEntry `json:"summary"`
}

// RoundEndedPayload names the round that just finished
type RoundEndedPayload struct {
	Round int `json:"round"`
}

// GameFinishedPayload announces the winner and final standings
type GameFinishedPayload struct {
	WinnerID   string          `json:"winnerId"`
	WinnerName string          `json:"winner"`
	Rounds     int             `json:"rounds"`
	Standings  []models.Player `json:"scores"`
}

// ErrorPayload is delivered to a single originating player
type ErrorPayload struct {
	Reason string `json:"reason"`
}
