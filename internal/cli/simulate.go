package cli

import (
	"io"
	"log"
	"math/rand/v2"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/Tydestiny/Incan-Gold/internal/config"
	"github.com/Tydestiny/Incan-Gold/internal/game"
	"github.com/Tydestiny/Incan-Gold/internal/policy"
	"github.com/Tydestiny/Incan-Gold/internal/sim"
)

// SimulateOptions holds flags shared by the simulate subcommands
type SimulateOptions struct {
	*RootOptions
	Rules string
	Seed  uint64
	Lang  string
}

// NewSimulateCommand creates the simulate command group
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run offline simulations",
	}
	cmd.PersistentFlags().StringVar(&opts.Rules, "rules", "", "YAML rules file")
	cmd.PersistentFlags().Uint64Var(&opts.Seed, "seed", 0, "random seed, 0 picks one")
	cmd.PersistentFlags().StringVar(&opts.Lang, "lang", "en", "language tag used to format numbers")

	cmd.AddCommand(newExpeditionsCommand(opts))
	cmd.AddCommand(newTournamentCommand(opts))
	return cmd
}

func newExpeditionsCommand(opts *SimulateOptions) *cobra.Command {
	var trials int
	cmd := &cobra.Command{
		Use:   "expeditions",
		Short: "Estimate how many cards an expedition lasts before a hazard repeats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, tag, err := opts.load()
			if err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(opts.seed(), 0))
			d := sim.Expeditions(rules, trials, rng)
			return sim.PrintExpeditions(cmd.OutOrStdout(), d, tag)
		},
	}
	cmd.Flags().IntVar(&trials, "trials", 100_000, "number of expeditions to draw")
	return cmd
}

func newTournamentCommand(opts *SimulateOptions) *cobra.Command {
	var (
		games    int
		policies []string
	)
	cmd := &cobra.Command{
		Use:   "tournament",
		Short: "Play automated policies against each other",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, tag, err := opts.load()
			if err != nil {
				return err
			}
			if !opts.Debug {
				// every simulated transition is logged otherwise
				prev := log.Writer()
				log.SetOutput(io.Discard)
				defer log.SetOutput(prev)
			}
			res, err := sim.Tournament(cmd.Context(), rules, policies, games, opts.seed())
			if err != nil {
				return err
			}
			return sim.PrintTournament(cmd.OutOrStdout(), res, tag)
		},
	}
	cmd.Flags().IntVar(&games, "games", 200, "number of games")
	cmd.Flags().StringSliceVar(&policies, "policies",
		[]string{policy.NameHeuristic, policy.NameReturn, policy.NameContinue}, "policies to seat, one player each")
	return cmd
}

func (o *SimulateOptions) load() (game.Rules, language.Tag, error) {
	rules, err := config.LoadRules(o.Rules)
	if err != nil {
		return game.Rules{}, language.Und, err
	}
	tag, err := language.Parse(o.Lang)
	if err != nil {
		return game.Rules{}, language.Und, err
	}
	return rules, tag, nil
}

func (o *SimulateOptions) seed() uint64 {
	if o.Seed != 0 {
		return o.Seed
	}
	return rand.Uint64()
}
