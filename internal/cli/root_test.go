package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tydestiny/Incan-Gold/internal/config"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "incan-gold", cmd.Use)

	debug := cmd.PersistentFlags().Lookup("debug")
	require.NotNil(t, debug)
	assert.Equal(t, "false", debug.DefValue)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, path := range [][]string{{"serve"}, {"simulate"}, {"simulate", "expeditions"}, {"simulate", "tournament"}} {
		sub, _, err := cmd.Find(path)
		require.NoError(t, err, "command %v should exist", path)
		assert.Equal(t, path[len(path)-1], sub.Name())
	}
}

func TestApplyFlags_OnlyChangedFlagsOverride(t *testing.T) {
	cmd := NewServeCommand(&RootOptions{})
	require.NoError(t, cmd.Flags().Parse([]string{"--port", "9090", "--policy", "return"}))

	cfg := config.Config{Port: "8080", Policy: "heuristic", NATSPrefix: "incan"}
	applyFlags(cmd, &cfg, config.Config{Port: "9090", Policy: "return"})
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "return", cfg.Policy)
	assert.Equal(t, "incan", cfg.NATSPrefix, "unset flags keep the environment value")
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	pterm.DisableStyling()
	t.Cleanup(pterm.EnableStyling)

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.ExecuteContext(context.Background()), out.String())
	return out.String()
}

func TestSimulateExpeditions(t *testing.T) {
	out := run(t, "simulate", "expeditions", "--trials", "500", "--seed", "9")
	assert.Contains(t, out, "500 expeditions")
	assert.Contains(t, out, "100.00%")
}

func TestSimulateTournament(t *testing.T) {
	out := run(t, "simulate", "tournament", "--games", "3", "--seed", "5", "--policies", "heuristic,return")
	assert.Contains(t, out, "3 games")
	assert.Contains(t, out, "heuristic")
}

func TestSimulate_RulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hazard_copies: 1\n"), 0o600))
	out := run(t, "simulate", "expeditions", "--trials", "20", "--seed", "1", "--rules", path)
	assert.Contains(t, out, "20 emptied the deck")
}

func TestSimulate_BadLanguage(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"simulate", "expeditions", "--lang", "!!", "--trials", "1"})
	assert.Error(t, cmd.Execute())
}
