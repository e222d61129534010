package game

import (
	"context"
	"log"

	"github.com/Tydestiny/Incan-Gold/internal/models"
)

// Decider chooses for automated players. It may be slow or unavailable;
// the session never holds its lock while waiting on it.
type Decider interface {
	Decide(ctx context.Context, snap models.Snapshot) (models.Choice, error)
}

// DeciderFunc adapts a function to Decider
type DeciderFunc func(ctx context.Context, snap models.Snapshot) (models.Choice, error)

// Decide implements Decider
func (f DeciderFunc) Decide(ctx context.Context, snap models.Snapshot) (models.Choice, error) {
	return f(ctx, snap)
}

// requestAutomated schedules a policy lookup for every automated explorer
// in the window that just opened
func (s *Session) requestAutomated() {
	window := s.window
	for _, id := range s.inTemple {
		p := s.find(id)
		if p == nil || !p.Automated {
			continue
		}
		s.sched.After(s.rules.Pacing.AutomatedDecision, func() {
			s.decideAutomated(id, window)
		})
	}
}

func (s *Session) awaitingAutomated(id string, window uint64) bool {
	if !s.waiting || s.window != window {
		return false
	}
	if _, ok := s.decisions[id]; !ok {
		return false
	}
	return !s.confirmed[id]
}

// decideAutomated asks the policy outside the lock, then applies the choice
// as a submit + confirm if the same window is still open
func (s *Session) decideAutomated(id string, window uint64) {
	s.lock()
	if !s.awaitingAutomated(id, window) {
		s.unlock()
		return
	}
	snap := s.snapshot(id)
	s.unlock()

	choice := s.ask(snap)

	s.lock()
	defer s.unlock()
	if !s.awaitingAutomated(id, window) {
		if debug {
			log.Printf("session %s: automated choice for %s arrived after window %d closed", s.code, id, window)
		}
		return
	}
	s.decisions[id] = choice
	s.confirm(id)
}

func (s *Session) ask(snap models.Snapshot) models.Choice {
	if s.decider == nil {
		return s.rules.DefaultChoice
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.rules.Pacing.PolicyTimeout)
	defer cancel()
	choice, err := s.decider.Decide(ctx, snap)
	if err != nil {
		log.Printf("WARN: session %s: policy failed for %s, using %s: %v", s.code, snap.PlayerID, s.rules.DefaultChoice, err)
		return s.rules.DefaultChoice
	}
	if !choice.Valid() {
		log.Printf("WARN: session %s: policy returned %q for %s, using %s", s.code, choice, snap.PlayerID, s.rules.DefaultChoice)
		return s.rules.DefaultChoice
	}
	return choice
}

// snapshot builds the policy observation for one player (lock held)
func (s *Session) snapshot(id string) models.Snapshot {
	snap := models.Snapshot{
		PlayerID:      id,
		Round:         s.round,
		PathTreasure:  PathTreasure(s.path),
		PathArtifacts: PathArtifacts(s.path),
		DeckSize:      len(s.deck),
		Explorers:     len(s.inTemple),
	}
	if p := s.find(id); p != nil {
		snap.RoundGain = p.RoundGain
	}
	for i, kind := range s.rules.HazardKinds {
		if i >= len(snap.Hazards) {
			break
		}
		snap.Hazards[i] = s.hazards[kind]
	}
	return snap
}

// Snapshot returns the policy observation for a player
func (s *Session) Snapshot(id string) (models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.find(id) == nil {
		return models.Snapshot{}, ErrUnknownPlayer
	}
	return s.snapshot(id), nil
}
