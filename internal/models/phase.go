package models

// SessionPhase represents the lifecycle stage of a room
type SessionPhase string

const (
	PhaseLobby    SessionPhase = "lobby"
	PhasePlaying  SessionPhase = "playing"
	PhaseFinished SessionPhase = "finished"
)

// PlayerPhase represents where a player is relative to the current expedition
type PlayerPhase string

const (
	PlayerWaiting   PlayerPhase = "waiting"
	PlayerExploring PlayerPhase = "exploring"
	PlayerAtCamp    PlayerPhase = "camp"
)

// Choice is a player's decision inside a decision window
type Choice string

const (
	ChoicePending  Choice = "pending"
	ChoiceContinue Choice = "continue"
	ChoiceReturn   Choice = "return"
)

// Valid reports whether c is a decision a player may submit
func (c Choice) Valid() bool {
	return c == ChoiceContinue || c == ChoiceReturn
}
