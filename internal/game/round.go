package game

import (
	"log"
	"maps"
	"slices"

	"github.com/Tydestiny/Incan-Gold/internal/models"
)

func (s *Session) artifactFor(round int) *models.Card {
	if round < 1 || round > len(s.artifacts) {
		return nil
	}
	c := models.Artifact(s.artifacts[round-1])
	return &c
}

// beginRound sends everyone into the temple with a fresh deck
func (s *Session) beginRound() {
	if s.phase != models.PhasePlaying {
		return
	}
	s.advance()
	s.inTemple = s.inTemple[:0]
	for _, p := range s.players {
		p.Phase = models.PlayerExploring
		p.RoundGain = 0
		s.inTemple = append(s.inTemple, p.ID)
	}
	s.path = nil
	s.waiting = false
	clear(s.hazards)
	clear(s.decisions)
	clear(s.confirmed)
	s.deck = s.deckFn(DeckRequest{
		Round:    s.round,
		Removed:  maps.Clone(s.removed),
		Artifact: s.artifactFor(s.round),
	})
	log.Printf("session %s: round %d started, deck=%d", s.code, s.round, len(s.deck))
	s.emit(EventRoundStarted, RoundPayload{Round: s.round, Players: s.playerList()})
	s.schedule(s.rules.Pacing.FirstCard, s.drawCard)
}

// drawCard reveals the top card and either opens a decision window or
// triggers a hazard elimination
func (s *Session) drawCard() {
	if s.phase != models.PhasePlaying || s.waiting {
		return
	}
	s.advance()
	if len(s.inTemple) == 0 || len(s.deck) == 0 {
		s.endRound()
		return
	}

	card := s.deck[len(s.deck)-1]
	s.deck = s.deck[:len(s.deck)-1]
	s.path = append(s.path, card)

	triggered := false
	if card.Kind == models.CardHazard {
		s.hazards[card.Hazard]++
		triggered = s.hazards[card.Hazard] == TriggerCount
	}
	if debug {
		log.Printf("session %s: revealed %s (deck=%d)", s.code, card, len(s.deck))
	}

	if triggered {
		s.emitReveal(card)
		s.triggerHazard(card.Hazard)
		return
	}
	s.openWindow()
	s.emitReveal(card)
	s.requestAutomated()
}

func (s *Session) emitReveal(card models.Card) {
	s.emit(EventCardRevealed, CardRevealedPayload{
		Card:     card,
		Path:     slices.Clone(s.path),
		DeckSize: len(s.deck),
		Players:  s.playerList(),
	})
}

func (s *Session) openWindow() {
	s.waiting = true
	s.window++
	clear(s.decisions)
	clear(s.confirmed)
	for _, id := range s.inTemple {
		s.decisions[id] = models.ChoicePending
		s.confirmed[id] = false
	}
}

// Submit records a player's choice. It may be changed until confirmed.
func (s *Session) Submit(id string, choice models.Choice) error {
	s.lock()
	defer s.unlock()

	if !choice.Valid() {
		return ErrInvalidChoice
	}
	if err := s.checkAwaiting(id); err != nil {
		return err
	}
	s.decisions[id] = choice
	return nil
}

// Confirm locks in the player's recorded choice and resolves the window
// once every explorer has confirmed
func (s *Session) Confirm(id string) error {
	s.lock()
	defer s.unlock()

	if err := s.checkAwaiting(id); err != nil {
		return err
	}
	if s.decisions[id] == models.ChoicePending {
		return ErrDecisionPending
	}
	s.confirm(id)
	return nil
}

func (s *Session) checkAwaiting(id string) error {
	if s.find(id) == nil {
		return ErrUnknownPlayer
	}
	if !s.waiting {
		return ErrNoDecisionWindow
	}
	if _, ok := s.decisions[id]; !ok {
		return ErrNoDecisionWindow
	}
	if s.confirmed[id] {
		return ErrAlreadyConfirmed
	}
	return nil
}

func (s *Session) confirm(id string) {
	s.confirmed[id] = true
	name := ""
	if p := s.find(id); p != nil {
		name = p.Name
	}
	s.emit(EventPlayerDecided, PlayerDecidedPayload{PlayerID: id, PlayerName: name})
	s.checkBarrier()
}

// checkBarrier resolves the window when every remaining explorer confirmed
func (s *Session) checkBarrier() bool {
	if !s.waiting {
		return false
	}
	for _, id := range s.inTemple {
		if !s.confirmed[id] {
			return false
		}
	}
	s.resolve()
	return true
}

// resolve pays out the quitters and sends the stayers deeper
func (s *Session) resolve() {
	s.advance()
	s.waiting = false

	var quitters, stayers []string
	for _, id := range s.inTemple {
		if s.decisions[id] == models.ChoiceReturn {
			quitters = append(quitters, id)
		} else {
			stayers = append(stayers, id)
		}
	}

	details := make([]QuitterShare, 0, len(quitters))
	if len(quitters) > 0 {
		share := SplitPath(s.path, len(quitters))
		for _, id := range quitters {
			p := s.find(id)
			p.Treasure += share.Total()
			p.RoundGain += share.Total()
			p.Phase = models.PlayerAtCamp
			details = append(details, QuitterShare{PlayerID: p.ID, Name: p.Name, Share: share})
		}
		log.Printf("session %s: %d player(s) returned to camp with %d each", s.code, len(quitters), share.Total())
	}
	s.inTemple = stayers

	s.emit(EventDecisionsRevealed, DecisionsRevealedPayload{
		Decisions: maps.Clone(s.decisions),
		Quitters:  details,
		Path:      slices.Clone(s.path),
		Players:   s.playerList(),
	})

	if len(stayers) == 0 {
		entries := make([]SummaryEntry, 0, len(s.players))
		for _, p := range s.players {
			entries = append(entries, SummaryEntry{PlayerID: p.ID, Name: p.Name, Status: StatusSafe, RoundGain: p.RoundGain})
		}
		s.emit(EventRoundSummary, RoundSummaryPayload{Round: s.round, Entries: entries})
		s.schedule(s.rules.Pacing.RoundEnd, s.endRound)
		return
	}
	s.schedule(s.rules.Pacing.NextCard, s.drawCard)
}

// triggerHazard ends the expedition for everyone still inside
func (s *Session) triggerHazard(kind models.HazardKind) {
	s.advance()
	s.waiting = false
	s.removed[kind]++

	victims := slices.Clone(s.inTemple)
	entries := make([]SummaryEntry, 0, len(s.players))
	for _, p := range s.players {
		entry := SummaryEntry{PlayerID: p.ID, Name: p.Name, Status: StatusSafe, RoundGain: p.RoundGain}
		if slices.Contains(victims, p.ID) {
			p.RoundGain = 0
			entry.Status = StatusDead
			entry.RoundGain = 0
		}
		entries = append(entries, entry)
	}
	log.Printf("session %s: hazard %s triggered, %d explorer(s) lost", s.code, kind, len(victims))

	s.emit(EventHazardTriggered, HazardPayload{Hazard: kind, Victims: victims})
	s.emit(EventRoundSummary, RoundSummaryPayload{Round: s.round, Entries: entries})
	s.inTemple = nil
	s.schedule(s.rules.Pacing.HazardEnd, s.endRound)
}

// endRound moves everyone to camp, then finishes the game or queues the
// next round
func (s *Session) endRound() {
	if s.phase != models.PhasePlaying {
		return
	}
	s.advance()
	s.waiting = false
	s.inTemple = nil
	for _, p := range s.players {
		p.Phase = models.PlayerAtCamp
	}

	if s.round >= s.rules.TotalRounds {
		s.phase = models.PhaseFinished
		payload := GameFinishedPayload{Rounds: s.round, Standings: s.playerList()}
		if winner := Leader(s.players); winner != nil {
			s.winnerID = winner.ID
			payload.WinnerID = winner.ID
			payload.WinnerName = winner.Name
		}
		log.Printf("session %s: game finished, winner=%s", s.code, payload.WinnerName)
		s.emit(EventGameFinished, payload)
		return
	}

	finished := s.round
	s.round++
	s.emit(EventRoundEnded, RoundEndedPayload{Round: finished})
	s.schedule(s.rules.Pacing.NextRound, s.beginRound)
}
