package sim

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Tydestiny/Incan-Gold/internal/game"
	"github.com/Tydestiny/Incan-Gold/internal/models"
	"github.com/Tydestiny/Incan-Gold/internal/policy"
)

// maxSteps bounds the scheduled steps of one simulated game
const maxSteps = 10_000

// queue runs scheduled steps in order on the caller's goroutine
type queue struct {
	steps []func()
}

func (q *queue) After(_ time.Duration, fn func()) {
	q.steps = append(q.steps, fn)
}

func (q *queue) drain(limit int) int {
	n := 0
	for n < limit && len(q.steps) > 0 {
		fn := q.steps[0]
		q.steps = q.steps[1:]
		fn()
		n++
	}
	return n
}

// Entry is one policy's record across a tournament
type Entry struct {
	Policy   string
	Games    int
	Wins     int
	Treasure int
}

// Average is the mean banked treasure per game
func (e Entry) Average() float64 {
	if e.Games == 0 {
		return 0
	}
	return float64(e.Treasure) / float64(e.Games)
}

// Result is the outcome of a tournament, entries in the order the
// policies were given
type Result struct {
	Games   int
	Entries []Entry
}

// Tournament plays games full games between automated players, one per
// policy name. Seating rotates each game so the join order tie-break does
// not favour any policy.
func Tournament(ctx context.Context, rules game.Rules, policies []string, games int, seed uint64) (Result, error) {
	if len(policies) < rules.MinPlayers {
		return Result{}, fmt.Errorf("need at least %d policies, got %d", rules.MinPlayers, len(policies))
	}
	rules = rules.Instant()
	res := Result{Entries: make([]Entry, len(policies))}
	for i, name := range policies {
		res.Entries[i].Policy = name
	}

	for g := range games {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		rng := rand.New(rand.NewPCG(seed, uint64(g)))
		seats := make([]int, len(policies))
		for i := range seats {
			seats[i] = (i + g) % len(policies)
		}
		final, err := playGame(rules, policies, seats, rng, fmt.Sprintf("SIM%04d", g))
		if err != nil {
			return res, err
		}
		res.Games++
		for seat, p := range final.Players {
			e := &res.Entries[seats[seat]]
			e.Games++
			e.Treasure += p.Treasure
			if p.ID == final.WinnerID {
				e.Wins++
			}
		}
	}
	return res, nil
}

func playGame(rules game.Rules, policies []string, seats []int, rng *rand.Rand, code string) (game.View, error) {
	q := &queue{}
	deciders := make(map[string]game.Decider, len(seats))
	sess := game.New(code, rules,
		game.WithScheduler(q),
		game.WithShuffler(rng),
		game.WithDecider(game.DeciderFunc(func(ctx context.Context, snap models.Snapshot) (models.Choice, error) {
			d, ok := deciders[snap.PlayerID]
			if !ok {
				return "", game.ErrUnknownPlayer
			}
			return d.Decide(ctx, snap)
		})),
	)
	for _, idx := range seats {
		name := policies[idx]
		d, err := policy.New(name, policy.Options{Rand: rng})
		if err != nil {
			return game.View{}, err
		}
		p, err := sess.AddAutomatedPlayer(name)
		if err != nil {
			return game.View{}, err
		}
		deciders[p.ID] = d
	}
	if err := sess.Start(); err != nil {
		return game.View{}, fmt.Errorf("starting %s: %w", code, err)
	}
	q.drain(maxSteps)
	if sess.Phase() != models.PhaseFinished {
		return game.View{}, fmt.Errorf("game %s did not finish within %d steps", code, maxSteps)
	}
	return sess.View(), nil
}
