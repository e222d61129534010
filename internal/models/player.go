package models

// Player represents a seat in a room. Treasure is banked across the whole game,
// RoundGain only covers the current expedition.
type Player struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Automated bool        `json:"automated"`
	Treasure  int         `json:"treasure"`
	RoundGain int         `json:"roundGain"`
	Phase     PlayerPhase `json:"status"`
	Ready     bool        `json:"isReady"`
}

// Clone returns a detached copy safe to hand out of the session lock
func (p *Player) Clone() Player {
	return *p
}
