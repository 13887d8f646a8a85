package sim

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/squadfall/internal/game/effect"
)

func TestDefaultScenario(t *testing.T) {
	sc, err := DefaultScenario()
	require.NoError(t, err)
	assert.Equal(t, "skirmish", sc.Name)
	assert.NotEmpty(t, sc.Squads)
	assert.Positive(t, sc.Spacing)
}

func TestParseScenario_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		substr string
	}{
		{
			name:   "unknown kind",
			body:   "squads:\n  - {faction: player, kind: Dragon, count: 1}\n  - {faction: enemy, kind: Spear, count: 1}\n",
			substr: "Dragon",
		},
		{
			name:   "unknown faction",
			body:   "squads:\n  - {faction: neutral, kind: Spear, count: 1}\n",
			substr: "neutral",
		},
		{
			name:   "one side only",
			body:   "squads:\n  - {faction: player, kind: Spear, count: 3}\n",
			substr: "both factions",
		},
		{
			name:   "bad spacing",
			body:   "spacing: -1\nsquads:\n  - {faction: player, kind: Spear, count: 1}\n  - {faction: enemy, kind: Spear, count: 1}\n",
			substr: "spacing",
		},
		{
			name:   "yaml",
			body:   "squads: [",
			substr: "parsing scenario",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.substr)
		})
	}
}

func TestParseScenario_UnknownBuff(t *testing.T) {
	body := "squads:\n  - {faction: player, kind: Spear, count: 1, buffs: {Haste: 1}}\n  - {faction: enemy, kind: Spear, count: 1}\n"
	_, err := ParseScenario([]byte(body))
	require.Error(t, err)
	assert.True(t, errors.Is(err, effect.ErrUnknownBuff))
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(duelYAML), 0o600))

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "duel", sc.Name)
	assert.Len(t, sc.Squads, 2)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	sc, err = LoadScenario("")
	require.NoError(t, err)
	assert.Equal(t, "skirmish", sc.Name)
}
