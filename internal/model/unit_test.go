package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnitKind(t *testing.T) {
	for _, k := range AllUnitKinds {
		got, err := ParseUnitKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	got, err := ParseUnitKind("  cavalry ")
	require.NoError(t, err)
	assert.Equal(t, UnitCavalry, got)

	_, err = ParseUnitKind("Catapult")
	assert.Error(t, err)
}

func TestFaction_Opponent(t *testing.T) {
	assert.Equal(t, FactionEnemy, FactionPlayer.Opponent())
	assert.Equal(t, FactionPlayer, FactionEnemy.Opponent())
	assert.Equal(t, "player", FactionPlayer.String())
	assert.Equal(t, "enemy", FactionEnemy.String())
}

func TestParseFaction(t *testing.T) {
	f, err := ParseFaction("Enemy")
	require.NoError(t, err)
	assert.Equal(t, FactionEnemy, f)

	f, err = ParseFaction(" player")
	require.NoError(t, err)
	assert.Equal(t, FactionPlayer, f)

	_, err = ParseFaction("neutral")
	assert.Error(t, err)
}

func TestUnitStats_Counters(t *testing.T) {
	spear := UnitStats{Kind: UnitSpear, Counter: UnitCavalry}
	assert.True(t, spear.Counters(UnitCavalry))
	assert.False(t, spear.Counters(UnitArcher))

	none := UnitStats{Kind: UnitShield}
	assert.False(t, none.Counters(0))
}
